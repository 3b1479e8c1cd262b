package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// canceled is reported for jobs that never ran because ctx ended first
type canceled struct {
	err error
}

func (c canceled) GetError() error { return c.err }

// Pool runs batches of jobs on a fixed number of workers. Results come back
// in job order regardless of which worker finished first, so callers that
// merge them get the same answer on every run.
type Pool struct {
	workers int
}

// NewPool creates a new worker pool with the specified number of workers
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Workers returns the configured worker count
func (p *Pool) Workers() int {
	return p.workers
}

type indexedJob struct {
	index int
	job   Job
}

// Run executes every job and returns their results indexed like jobs. Jobs
// still queued when ctx is canceled are not executed; their slot holds a
// result carrying ctx.Err().
func (p *Pool) Run(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	workers := p.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	queue := make(chan indexedJob)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ij := range queue {
				// Each slot is written by exactly one worker.
				if err := ctx.Err(); err != nil {
					results[ij.index] = canceled{err: err}
					continue
				}
				results[ij.index] = ij.job.Execute(ctx)
			}
		}()
	}

	for i, job := range jobs {
		queue <- indexedJob{index: i, job: job}
	}
	close(queue)
	wg.Wait()

	return results
}

// FirstError returns the first non-nil error among results, in job order
func FirstError(results []Result) error {
	for _, r := range results {
		if r == nil {
			continue
		}
		if err := r.GetError(); err != nil {
			return err
		}
	}
	return nil
}
