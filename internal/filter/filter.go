package filter

import (
	"strings"

	"github.com/ppiankov/liarlens/internal/model"
)

// clause constrains one dimension to a single normalized value
type clause struct {
	slot  int
	value string
}

// Predicate is the conjunction of one clause per dimension. Wildcard
// dimensions contribute no clause. It never looks at the truth label.
type Predicate struct {
	clauses []clause
}

// Build translates a selection into its base predicate. A value that does
// not occur in the corpus is not an error; the predicate just matches nothing.
func Build(sel model.Selection) Predicate {
	var p Predicate
	for i, s := range sel {
		if raw, ok := s.Raw(); ok {
			p.clauses = append(p.clauses, clause{slot: i, value: raw})
		}
	}
	return p
}

// Match reports whether r satisfies every clause
func (p Predicate) Match(r *model.Record) bool {
	for _, c := range p.clauses {
		if r.Fields[c.slot] != c.value {
			return false
		}
	}
	return true
}

// MatchesAll reports whether every selector is the wildcard
func (p Predicate) MatchesAll() bool {
	return len(p.clauses) == 0
}

// String renders the predicate for logs, e.g. `subject="economy" AND party="democrat"`
func (p Predicate) String() string {
	if p.MatchesAll() {
		return "*"
	}
	parts := make([]string, len(p.clauses))
	for i, c := range p.clauses {
		parts[i] = string(model.Dimensions[c.slot]) + "=" + model.Value(c.value).String()
	}
	return strings.Join(parts, " AND ")
}
