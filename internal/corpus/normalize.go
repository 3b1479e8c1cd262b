package corpus

import (
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/ppiankov/liarlens/internal/model"
)

// missingMarkers are the spellings treated as a missing value once trimmed
// and lowercased. "none" is deliberately absent: it is a real party value.
var missingMarkers = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"#n/a": true,
	"nan":  true,
	"null": true,
	"<na>": true,
}

// NormalizeField trims and lowercases a categorical value, substituting the
// NA sentinel for missing values
func NormalizeField(raw string) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	if missingMarkers[v] {
		return model.NA
	}
	return v
}

// rawRow is one source row before validation, keyed by schema column
type rawRow struct {
	id, label, statement                            string
	subject, speaker, profession, state, party, ctx string
	barelyTrue, falseCount, halfTrue, mostlyTrue    string
	pantsOnFire                                     string
}

// toRecord normalizes a raw row into a record
func (row rawRow) toRecord() (model.Record, error) {
	id := strings.TrimSpace(row.id)
	if id == "" {
		return model.Record{}, errors.Wrap(ErrMalformed, "missing statement_id")
	}

	label, err := model.ParseLabel(row.label)
	if err != nil {
		return model.Record{}, errors.Wrapf(err, "statement %s", id)
	}

	rec := model.Record{
		ID:    id,
		Label: label,
		Text:  row.statement,
	}
	rec.Fields = [model.NumDimensions]string{
		NormalizeField(row.subject),
		NormalizeField(row.speaker),
		NormalizeField(row.profession),
		NormalizeField(row.state),
		NormalizeField(row.party),
		NormalizeField(row.ctx),
	}

	counters := []struct {
		name string
		raw  string
		dst  *int
	}{
		{"barely_true", row.barelyTrue, &rec.History.BarelyTrue},
		{"false", row.falseCount, &rec.History.False},
		{"half_true", row.halfTrue, &rec.History.HalfTrue},
		{"mostly_true", row.mostlyTrue, &rec.History.MostlyTrue},
		{"pants_on_fire", row.pantsOnFire, &rec.History.PantsOnFire},
	}
	for _, c := range counters {
		n, err := parseCounter(c.raw)
		if err != nil {
			return model.Record{}, errors.Wrapf(err, "statement %s: %s", id, c.name)
		}
		*c.dst = n
	}

	return rec, nil
}

// parseCounter accepts integers and integral floats ("3", "3.0"); a missing
// counter counts as zero
func parseCounter(raw string) (int, error) {
	v := strings.TrimSpace(raw)
	if missingMarkers[strings.ToLower(v)] {
		return 0, nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		if n < 0 {
			return 0, errors.Wrapf(ErrMalformed, "negative counter %q", raw)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, errors.Wrapf(ErrMalformed, "counter %q", raw)
	}
	return int(f), nil
}
