package pipeline

import (
	"bytes"
	"context"
	"image/png"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ppiankov/liarlens/internal/aggregate"
	"github.com/ppiankov/liarlens/internal/corpus/corpustest"
	"github.com/ppiankov/liarlens/internal/model"
	"github.com/ppiankov/liarlens/internal/render"
)

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Render.Color = "never"
	cfg.Render.Width = 0
	return cfg
}

func newScenarioPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := NewPipeline(testConfig(), corpustest.Scenario(), zap.NewNop())
	require.NoError(t, err)
	return p
}

func TestNewPipeline_Errors(t *testing.T) {
	_, err := NewPipeline(testConfig(), nil, nil)
	assert.Error(t, err)

	cfg := testConfig()
	cfg.Render.Color = "sometimes"
	_, err = NewPipeline(cfg, corpustest.Scenario(), nil)
	assert.Error(t, err)
}

func TestRender_Scenarios(t *testing.T) {
	p := newScenarioPipeline(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		query   func(q Query) Query
		buckets [model.NumLabels]int
		others  int
		header  string
	}{
		{
			name:    "all wildcards",
			query:   func(q Query) Query { return q },
			buckets: [model.NumLabels]int{1, 1, 0, 0, 0, 2},
			others:  0,
			header:  "There is a total of 4 statements, out of which 4 satisfy your requirements.",
		},
		{
			name: "economy",
			query: func(q Query) Query {
				q.Selection = q.Selection.With(model.DimSubject, model.Value("economy"))
				return q
			},
			buckets: [model.NumLabels]int{0, 1, 0, 0, 0, 1},
			others:  2,
			header:  "There is a total of 4 statements, out of which 2 satisfy your requirements.",
		},
		{
			name: "true only",
			query: func(q Query) Query {
				q.Label = model.OnlyLabel(model.LabelTrue)
				return q
			},
			buckets: [model.NumLabels]int{0, 0, 0, 0, 0, 2},
			others:  2,
			header:  "There is a total of 4 statements, out of which 2 satisfy your requirements.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := p.Render(ctx, tt.query(DefaultQuery(p.config)))
			require.NoError(t, err)
			assert.Equal(t, tt.buckets, out.Counts.Buckets())
			assert.Equal(t, tt.others, out.Counts.Others())
			assert.Equal(t, tt.header, out.Header)
			assert.True(t, strings.HasPrefix(string(out.Body), tt.header))
		})
	}
}

func TestRender_RejectsDivisorBeforeScanning(t *testing.T) {
	p := newScenarioPipeline(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	q := DefaultQuery(p.config)
	for _, dpd := range []int{0, -3, 11} {
		q.DatapointsPerDot = dpd
		_, err := p.Render(ctx, q)
		require.Error(t, err)
		assert.True(t, errors.Is(err, aggregate.ErrInvalidDatapointsPerDot), "dpd=%d: %v", dpd, err)
	}
}

func TestRender_Formats(t *testing.T) {
	p := newScenarioPipeline(t)
	q := DefaultQuery(p.config)

	q.Format = render.FormatHTML
	out, err := p.Render(context.Background(), q)
	require.NoError(t, err)
	assert.Contains(t, string(out.Body), "<!DOCTYPE html>")

	q.Format = render.FormatPNG
	out, err = p.Render(context.Background(), q)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(out.Body))
	assert.NoError(t, err)

	q.Format = ""
	out, err = p.Render(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, render.FormatText, out.Format, "empty format falls back to the configured one")

	q.Format = "gif"
	_, err = p.Render(context.Background(), q)
	assert.True(t, errors.Is(err, render.ErrUnknownFormat))
}

func TestRender_Parallel(t *testing.T) {
	store := corpustest.Random(5, 900)

	seqCfg := testConfig()
	parCfg := testConfig()
	parCfg.Scan.Workers = 4
	parCfg.Scan.ShardSize = 50

	seq, err := NewPipeline(seqCfg, store, nil)
	require.NoError(t, err)
	par, err := NewPipeline(parCfg, store, nil)
	require.NoError(t, err)

	q := DefaultQuery(seqCfg)
	q.Selection = q.Selection.With(model.DimState, model.Value("ohio"))
	q.DatapointsPerDot = 4

	a, err := seq.Render(context.Background(), q)
	require.NoError(t, err)
	b, err := par.Render(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, a.Counts, b.Counts)
	assert.Equal(t, a.Body, b.Body)
}

func TestMenuAndTopValues(t *testing.T) {
	p := newScenarioPipeline(t)

	top := p.ListTopValues(model.DimSubject, 5, false)
	require.Len(t, top, 2, "NA is never listed")
	assert.Equal(t, "economy", top[0].Value())
	assert.Equal(t, "Economy", top[0].Label)

	menu := p.Menu(model.DimSubject)
	require.Len(t, menu, 3)
	assert.True(t, menu[0].Selector.IsWildcard())
	assert.Equal(t, "All subjects", menu[0].Label)
	assert.Equal(t, []string{"Economy", "Health"}, []string{menu[1].Label, menu[2].Label})

	assert.Same(t, p.Store(), p.Store())
}

func TestMenu_LogsCachedListings(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	p, err := NewPipeline(testConfig(), corpustest.Scenario(), zap.New(core))
	require.NoError(t, err)

	p.Menu(model.DimSubject)
	p.Menu(model.DimSubject)
	p.Menu(model.DimParty)

	entries := logs.FilterMessage("menu listed").All()
	require.Len(t, entries, 3)
	assert.Equal(t, int64(1), entries[1].ContextMap()["cached_menus"], "repeat listing is served from the cache")
	assert.Equal(t, int64(2), entries[2].ContextMap()["cached_menus"])
	assert.Equal(t, "party", entries[2].ContextMap()["dimension"])
}
