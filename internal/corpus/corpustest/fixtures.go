// Package corpustest builds small in-memory stores for tests
package corpustest

import (
	"fmt"
	"math/rand"

	"github.com/ppiankov/liarlens/internal/corpus"
	"github.com/ppiankov/liarlens/internal/model"
)

// Rec builds a record with the given id, label and subject; other dimensions are NA
func Rec(id string, label model.Label, subject string) model.Record {
	r := model.Record{ID: id, Label: label, Text: "statement " + id}
	for i := range r.Fields {
		r.Fields[i] = model.NA
	}
	r.Fields[model.DimSubject.Index()] = subject
	return r
}

// Scenario is the four-statement corpus used throughout the query tests:
// two economy statements (true, false), one health statement (true) and one
// pants-fire statement with no subject.
func Scenario() *corpus.Store {
	return MustStore(
		Rec("1", model.LabelTrue, "economy"),
		Rec("2", model.LabelFalse, "economy"),
		Rec("3", model.LabelTrue, "health"),
		Rec("4", model.LabelPantsFire, model.NA),
	)
}

// MustStore builds a store or panics
func MustStore(records ...model.Record) *corpus.Store {
	s, err := corpus.New(records)
	if err != nil {
		panic(err)
	}
	return s
}

// Values is the category pool Random draws from for each dimension
var Values = map[model.Dimension][]string{
	model.DimSubject:    {"economy", "health-care", "taxes", "education", "immigration", model.NA},
	model.DimSpeaker:    {"barack-obama", "donald-trump", "hillary-clinton", "scott-walker", model.NA},
	model.DimProfession: {"president", "governor", "u.s. senator", model.NA},
	model.DimState:      {"texas", "florida", "wisconsin", "ohio", model.NA},
	model.DimParty:      {"republican", "democrat", "none", model.NA},
	model.DimContext:    {"a speech", "a tweet", "a news release", "an interview", model.NA},
}

// Random builds a deterministic pseudo-random store of n records
func Random(seed int64, n int) *corpus.Store {
	rng := rand.New(rand.NewSource(seed))
	records := make([]model.Record, n)
	for i := range records {
		r := model.Record{
			ID:    fmt.Sprintf("%d.json", i+1),
			Label: model.Labels[rng.Intn(model.NumLabels)],
			Text:  fmt.Sprintf("statement %d", i+1),
		}
		for j, d := range model.Dimensions {
			pool := Values[d]
			r.Fields[j] = pool[rng.Intn(len(pool))]
		}
		records[i] = r
	}
	return MustStore(records...)
}
