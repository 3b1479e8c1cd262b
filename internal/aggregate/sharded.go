package aggregate

import (
	"context"

	"go.uber.org/zap"

	"github.com/ppiankov/liarlens/internal/corpus"
	"github.com/ppiankov/liarlens/internal/worker"
)

// sharded splits the corpus into fixed-size ranges and histograms them on a
// worker pool. Shards only read the store and the merge is a sum, so the
// result does not depend on scheduling.
type sharded struct {
	pool      *worker.Pool
	shardSize int
}

func newSharded(workers, shardSize int, logger *zap.Logger) sharded {
	if shardSize <= 0 {
		shardSize = DefaultShardSize
	}
	pool := worker.NewPool(workers)
	logger.Debug("sharded scan enabled", zap.Int("workers", pool.Workers()), zap.Int("shard_size", shardSize))
	return sharded{pool: pool, shardSize: shardSize}
}

type shardJob struct {
	store  *corpus.Store
	lo, hi int
	base   corpus.Predicate
}

type shardResult struct {
	hist Histogram
	err  error
}

func (r *shardResult) GetError() error { return r.err }

func (j *shardJob) Execute(ctx context.Context) worker.Result {
	if err := ctx.Err(); err != nil {
		return &shardResult{err: err}
	}
	return &shardResult{hist: histogramRange(j.store, j.lo, j.hi, j.base)}
}

func (s sharded) scan(ctx context.Context, store *corpus.Store, base corpus.Predicate) (Histogram, error) {
	n := store.Count()
	jobs := make([]worker.Job, 0, n/s.shardSize+1)
	for lo := 0; lo < n; lo += s.shardSize {
		hi := lo + s.shardSize
		if hi > n {
			hi = n
		}
		jobs = append(jobs, &shardJob{store: store, lo: lo, hi: hi, base: base})
	}

	results := s.pool.Run(ctx, jobs)
	if err := worker.FirstError(results); err != nil {
		return Histogram{}, err
	}

	var total Histogram
	for _, r := range results {
		total.Add(r.(*shardResult).hist)
	}
	return total, nil
}
