package pipeline

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/ppiankov/liarlens/internal/aggregate"
	"github.com/ppiankov/liarlens/internal/cache"
	"github.com/ppiankov/liarlens/internal/corpus"
	"github.com/ppiankov/liarlens/internal/filter"
	"github.com/ppiankov/liarlens/internal/index"
	"github.com/ppiankov/liarlens/internal/model"
	"github.com/ppiankov/liarlens/internal/render"
)

// Query is one complete interaction: a selector per dimension, a label
// restriction, the sampling divisor and the display mode
type Query struct {
	Selection        model.Selection
	Label            model.LabelSelector
	DatapointsPerDot int
	HideOthers       bool
	Dots             bool
	Format           render.Format
}

// Mode returns the display mode of the query
func (q Query) Mode() render.Mode {
	return render.Mode{HideOthers: q.HideOthers, Dots: q.Dots}
}

// DefaultQuery selects everything using the configured render defaults
func DefaultQuery(cfg *model.Config) Query {
	return Query{
		Label:            model.AllLabels(),
		DatapointsPerDot: cfg.Render.DatapointsPerDot,
		HideOthers:       cfg.Render.HideOthers,
		Dots:             cfg.Render.Dots,
		Format:           render.Format(cfg.Render.Format),
	}
}

// Pipeline orchestrates filter, aggregate and render over one corpus
type Pipeline struct {
	store      *corpus.Store
	index      *index.Index
	aggregator *aggregate.Aggregator
	renderer   *render.Renderer
	menus      *cache.MemoryCache // nil when caching is disabled
	config     *model.Config
	logger     *zap.Logger
}

// NewPipeline creates a pipeline over store with the given configuration
func NewPipeline(cfg *model.Config, store *corpus.Store, logger *zap.Logger) (*Pipeline, error) {
	if store == nil {
		return nil, errors.New("pipeline requires a record store")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	color, err := render.ParseColorMode(cfg.Render.Color)
	if err != nil {
		return nil, err
	}

	var (
		menuCache cache.Cache = cache.Nop{}
		menus     *cache.MemoryCache
	)
	if cfg.Cache.Enabled {
		menus = cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute)
		menuCache = menus
	}

	return &Pipeline{
		store: store,
		index: index.New(store, menuCache, cfg.Cache.TTL),
		aggregator: aggregate.New(store, aggregate.Options{
			Workers:   cfg.Scan.Workers,
			ShardSize: cfg.Scan.ShardSize,
		}, logger),
		renderer: render.New(render.Options{
			Width:       cfg.Render.Width,
			Color:       color,
			ChartWidth:  cfg.Render.ChartWidth,
			ChartHeight: cfg.Render.ChartHeight,
		}),
		menus:  menus,
		config: cfg,
		logger: logger.Named("pipeline"),
	}, nil
}

// Store returns the underlying corpus
func (p *Pipeline) Store() *corpus.Store {
	return p.store
}

// ListTopValues returns the k most frequent values of a dimension
func (p *Pipeline) ListTopValues(d model.Dimension, k int, alphabetical bool) []model.Choice {
	return p.index.TopK(d, k, alphabetical)
}

// Menu returns the configured selector menu of a dimension, led by its
// wildcard entry
func (p *Pipeline) Menu(d model.Dimension) []model.Choice {
	spec := p.config.Menus.For(d)
	menu := p.index.Menu(d, spec.K, spec.Alphabetical)
	if p.menus != nil {
		p.logger.Debug("menu listed",
			zap.String("dimension", string(d)),
			zap.Int("choices", len(menu)),
			zap.Int("cached_menus", p.menus.ItemCount()),
		)
	}
	return menu
}

// Render runs one query to completion
func (p *Pipeline) Render(ctx context.Context, q Query) (*render.Output, error) {
	if err := aggregate.ValidateDatapointsPerDot(q.DatapointsPerDot); err != nil {
		return nil, err
	}
	format := q.Format
	if format == "" {
		format = render.Format(p.config.Render.Format)
	}
	format, err := render.ParseFormat(string(format))
	if err != nil {
		return nil, err
	}

	start := time.Now()
	base := filter.Build(q.Selection)

	counts, err := p.aggregator.Aggregate(ctx, base, q.Label, q.DatapointsPerDot)
	if err != nil {
		return nil, errors.Wrap(err, "aggregate")
	}

	out, err := p.renderer.Render(counts, q.Mode(), format)
	if err != nil {
		return nil, errors.Wrap(err, "render")
	}

	p.logger.Debug("query rendered",
		zap.Stringer("filter", base),
		zap.Stringer("label", q.Label),
		zap.Int("datapoints_per_dot", q.DatapointsPerDot),
		zap.String("format", string(format)),
		zap.Int("matched", counts.Matched()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}
