package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ppiankov/liarlens/internal/corpus/corpustest"
	"github.com/ppiankov/liarlens/internal/model"
)

func TestBuild_AllWildcards(t *testing.T) {
	p := Build(model.Selection{})
	assert.True(t, p.MatchesAll())
	assert.Equal(t, 4, corpustest.Scenario().Matches(p), "wildcards match NA records too")
	assert.Equal(t, "*", p.String())
}

func TestBuild_ConcreteValue(t *testing.T) {
	store := corpustest.Scenario()

	economy := Build(model.Selection{}.With(model.DimSubject, model.Value("economy")))
	assert.Equal(t, 2, store.Matches(economy))
	assert.Equal(t, `subject="economy"`, economy.String())

	na := Build(model.Selection{}.With(model.DimSubject, model.Value(model.NA)))
	assert.Equal(t, 1, store.Matches(na), "NA selector matches only NA records")

	unknown := Build(model.Selection{}.With(model.DimSubject, model.Value("astrology")))
	assert.Equal(t, 0, store.Matches(unknown))
}

func TestBuild_Conjunction(t *testing.T) {
	a := corpustest.Rec("a", model.LabelTrue, "economy")
	a.Fields[model.DimParty.Index()] = "democrat"
	b := corpustest.Rec("b", model.LabelTrue, "economy")
	b.Fields[model.DimParty.Index()] = "republican"
	c := corpustest.Rec("c", model.LabelTrue, "taxes")
	c.Fields[model.DimParty.Index()] = "democrat"
	store := corpustest.MustStore(a, b, c)

	p := Build(model.Selection{model.Value("economy"), model.Wildcard(), model.Wildcard(), model.Wildcard(), model.Value("democrat"), model.Wildcard()})
	assert.Equal(t, 1, store.Matches(p))
	assert.True(t, p.Match(&a))
	assert.False(t, p.Match(&b))
	assert.False(t, p.Match(&c))
	assert.Equal(t, `subject="economy" AND party="democrat"`, p.String())
}

func TestBuild_IgnoresLabel(t *testing.T) {
	p := Build(model.Selection{}.With(model.DimSubject, model.Value("economy")))
	for _, l := range model.Labels {
		r := corpustest.Rec("x", l, "economy")
		assert.True(t, p.Match(&r), "label %s", l)
	}
}

// Filtering a dimension by the wildcard equals the union of filtering it by
// each of its distinct values.
func TestWildcardEquivalence(t *testing.T) {
	store := corpustest.Random(42, 400)

	for _, d := range model.Dimensions {
		base := model.Selection{}.With(model.DimContext, model.Value("a speech"))
		if d == model.DimContext {
			base = model.Selection{}.With(model.DimParty, model.Value("democrat"))
		}

		distinct := map[string]bool{}
		store.Scan(func(r *model.Record) { distinct[r.Field(d)] = true })

		union := 0
		for v := range distinct {
			union += store.Matches(Build(base.With(d, model.Value(v))))
		}
		assert.Equal(t, store.Matches(Build(base.With(d, model.Wildcard()))), union, "dimension %s", d)
	}
}
