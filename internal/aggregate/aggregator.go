package aggregate

import (
	"context"
	"math"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/ppiankov/liarlens/internal/corpus"
	"github.com/ppiankov/liarlens/internal/model"
)

// Bounds of the sampling divisor
const (
	MinDatapointsPerDot = 1
	MaxDatapointsPerDot = 10
)

// ErrInvalidDatapointsPerDot rejects a sampling divisor outside [1, 10]
var ErrInvalidDatapointsPerDot = errors.New("datapoints per dot out of range")

// ValidateDatapointsPerDot checks the sampling divisor
func ValidateDatapointsPerDot(n int) error {
	if n < MinDatapointsPerDot || n > MaxDatapointsPerDot {
		return errors.WithHintf(
			errors.Wrapf(ErrInvalidDatapointsPerDot, "got %d", n),
			"choose a value between %d and %d", MinDatapointsPerDot, MaxDatapointsPerDot,
		)
	}
	return nil
}

// Histogram counts base-predicate matches per truth label, indexed like model.Labels
type Histogram [model.NumLabels]int

// Add merges another histogram into h
func (h *Histogram) Add(o Histogram) {
	for i := range h {
		h[i] += o[i]
	}
}

// Counts is the outcome of one query: per-category counts before and after
// scaling, in model.Categories order (six label buckets, then others)
type Counts struct {
	Raw    [model.NumCategories]int
	Scaled [model.NumCategories]int

	Total            int
	DatapointsPerDot int
	Label            model.LabelSelector
}

// Buckets returns the six scaled label buckets
func (c Counts) Buckets() [model.NumLabels]int {
	var b [model.NumLabels]int
	copy(b[:], c.Scaled[:model.NumLabels])
	return b
}

// Others returns the scaled residual
func (c Counts) Others() int {
	return c.Scaled[model.CatOthers]
}

// Matched is the exact number of statements satisfying the selection,
// computed from the unscaled residual
func (c Counts) Matched() int {
	return c.Total - c.Raw[model.CatOthers]
}

// ScaledSum sums the scaled counts of the six buckets, plus others when
// includeOthers is set
func (c Counts) ScaledSum(includeOthers bool) int {
	sum := 0
	for i, n := range c.Scaled {
		if model.Category(i) == model.CatOthers && !includeOthers {
			continue
		}
		sum += n
	}
	return sum
}

// Options configures how the corpus is scanned
type Options struct {
	Workers   int // More than one enables the sharded scan
	ShardSize int // Records per shard; defaults to DefaultShardSize
}

// DefaultShardSize is used when Options.ShardSize is not positive
const DefaultShardSize = 2048

// Aggregator partitions the records matching a base predicate into the six
// label buckets and the others residual
type Aggregator struct {
	store   *corpus.Store
	scanner scanner
	logger  *zap.Logger
}

// New creates an aggregator over store
func New(store *corpus.Store, opts Options, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("aggregate")
	var s scanner = sequential{}
	if opts.Workers > 1 {
		s = newSharded(opts.Workers, opts.ShardSize, logger)
	}
	return &Aggregator{store: store, scanner: s, logger: logger}
}

// Aggregate counts the statements matching base in each label bucket.
//
// With a concrete label selection every bucket is additionally intersected
// with that label. Each bucket already requires its own label, so all
// buckets except the selected label's end up zero, and every statement with
// another label lands in others.
//
// Each count is then divided by datapointsPerDot and rounded to the nearest
// integer (halves away from zero), bucket by bucket.
func (a *Aggregator) Aggregate(ctx context.Context, base corpus.Predicate, label model.LabelSelector, datapointsPerDot int) (Counts, error) {
	if err := ValidateDatapointsPerDot(datapointsPerDot); err != nil {
		return Counts{}, err
	}

	hist, err := a.scanner.scan(ctx, a.store, base)
	if err != nil {
		return Counts{}, errors.Wrap(err, "scan corpus")
	}

	c := Counts{
		Total:            a.store.Count(),
		DatapointsPerDot: datapointsPerDot,
		Label:            label,
	}

	matched := 0
	for i, l := range model.Labels {
		n := hist[i]
		if !label.Admits(l) {
			n = 0
		}
		c.Raw[i] = n
		matched += n
	}
	c.Raw[model.CatOthers] = c.Total - matched

	for i, n := range c.Raw {
		c.Scaled[i] = Scale(n, datapointsPerDot)
	}

	a.logger.Debug("aggregated",
		zap.Stringer("label", label),
		zap.Int("datapoints_per_dot", datapointsPerDot),
		zap.Int("matched", c.Matched()),
		zap.Int("total", c.Total),
		zap.Ints("raw", c.Raw[:]),
	)
	return c, nil
}

// Scale divides n by the divisor and rounds to the nearest integer
func Scale(n, datapointsPerDot int) int {
	return int(math.Round(float64(n) / float64(datapointsPerDot)))
}

// scanner computes the label histogram of the base-predicate matches
type scanner interface {
	scan(ctx context.Context, store *corpus.Store, base corpus.Predicate) (Histogram, error)
}

type sequential struct{}

func (sequential) scan(ctx context.Context, store *corpus.Store, base corpus.Predicate) (Histogram, error) {
	if err := ctx.Err(); err != nil {
		return Histogram{}, err
	}
	return histogramRange(store, 0, store.Count(), base), nil
}

func histogramRange(store *corpus.Store, lo, hi int, base corpus.Predicate) Histogram {
	var h Histogram
	store.ScanRange(lo, hi, func(r *model.Record) {
		if base.Match(r) {
			h[r.Label.Index()]++
		}
	})
	return h
}
