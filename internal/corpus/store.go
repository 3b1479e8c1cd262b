package corpus

import (
	"github.com/cockroachdb/errors"

	"github.com/ppiankov/liarlens/internal/model"
)

var (
	// ErrMalformed marks source data that cannot produce a valid store
	ErrMalformed = errors.New("malformed corpus data")

	// ErrDuplicateID marks two records sharing a statement id
	ErrDuplicateID = errors.New("duplicate statement id")
)

// Predicate decides whether a record belongs to a query's match set
type Predicate interface {
	Match(r *model.Record) bool
}

// PredicateFunc adapts a plain function to Predicate
type PredicateFunc func(r *model.Record) bool

// Match calls f(r)
func (f PredicateFunc) Match(r *model.Record) bool { return f(r) }

// Store is the immutable, validated collection of statements. It is built
// once per session and only ever read afterwards, so it is safe for
// concurrent readers without locking.
type Store struct {
	records []model.Record
}

// New validates records and builds a store from a private copy of them.
// Any invalid record fails the whole build; a partial store is never returned.
func New(records []model.Record) (*Store, error) {
	s := &Store{records: make([]model.Record, len(records))}
	copy(s.records, records)

	ids := make(map[string]int, len(records))

	for i := range s.records {
		r := &s.records[i]
		if err := validateRecord(r); err != nil {
			return nil, errors.Wrapf(err, "record %d", i)
		}
		if prev, dup := ids[r.ID]; dup {
			return nil, errors.Wrapf(ErrDuplicateID, "%q at records %d and %d", r.ID, prev, i)
		}
		ids[r.ID] = i
	}

	return s, nil
}

func validateRecord(r *model.Record) error {
	if r.ID == "" {
		return errors.Wrap(ErrMalformed, "empty statement id")
	}
	if !r.Label.Valid() {
		return errors.Wrapf(model.ErrUnknownLabel, "statement %s: %q", r.ID, r.Label)
	}
	for i, v := range r.Fields {
		if v == model.NA {
			continue
		}
		if v == "" || NormalizeField(v) != v {
			return errors.Wrapf(ErrMalformed, "statement %s: %s value %q is not normalized", r.ID, model.Dimensions[i], v)
		}
	}
	return nil
}

// Count returns the total number of records
func (s *Store) Count() int {
	return len(s.records)
}

// Matches counts the records satisfying pred
func (s *Store) Matches(pred Predicate) int {
	return s.MatchesRange(0, len(s.records), pred)
}

// MatchesRange counts the records in [lo, hi) satisfying pred
func (s *Store) MatchesRange(lo, hi int, pred Predicate) int {
	n := 0
	s.ScanRange(lo, hi, func(r *model.Record) {
		if pred.Match(r) {
			n++
		}
	})
	return n
}

// Scan visits every record in load order. fn must not retain or modify r.
func (s *Store) Scan(fn func(r *model.Record)) {
	s.ScanRange(0, len(s.records), fn)
}

// ScanRange visits the records in [lo, hi), clamped to the store bounds
func (s *Store) ScanRange(lo, hi int, fn func(r *model.Record)) {
	if lo < 0 {
		lo = 0
	}
	if hi > len(s.records) {
		hi = len(s.records)
	}
	for i := lo; i < hi; i++ {
		fn(&s.records[i])
	}
}

// Records returns a copy of every record in load order
func (s *Store) Records() []model.Record {
	out := make([]model.Record, len(s.records))
	copy(out, s.records)
	return out
}
