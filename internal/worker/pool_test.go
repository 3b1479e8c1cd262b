package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockResult implements Result
type mockResult struct {
	id  int
	err error
}

func (r *mockResult) GetError() error {
	return r.err
}

// mockJob implements Job
type mockJob struct {
	id        int
	duration  time.Duration
	shouldErr bool
	executed  *int32 // atomic counter
}

func (j *mockJob) Execute(ctx context.Context) Result {
	if j.executed != nil {
		atomic.AddInt32(j.executed, 1)
	}
	if j.duration > 0 {
		select {
		case <-time.After(j.duration):
		case <-ctx.Done():
			return &mockResult{id: j.id, err: ctx.Err()}
		}
	}
	if j.shouldErr {
		return &mockResult{id: j.id, err: errors.New("job error")}
	}
	return &mockResult{id: j.id}
}

func TestNewPool(t *testing.T) {
	assert.Equal(t, 5, NewPool(5).Workers())
	assert.Equal(t, 1, NewPool(0).Workers(), "0 workers defaults to 1")
	assert.Equal(t, 1, NewPool(-1).Workers(), "negative workers defaults to 1")
}

func TestPool_RunKeepsJobOrder(t *testing.T) {
	pool := NewPool(4)

	var executed int32
	jobs := make([]Job, 20)
	for i := range jobs {
		// Later jobs finish first.
		jobs[i] = &mockJob{id: i, duration: time.Duration(20-i) * time.Millisecond, executed: &executed}
	}

	results := pool.Run(context.Background(), jobs)
	require.Len(t, results, len(jobs))
	assert.Equal(t, int32(len(jobs)), atomic.LoadInt32(&executed))

	for i, r := range results {
		assert.Equal(t, i, r.(*mockResult).id)
		assert.NoError(t, r.GetError())
	}
}

func TestPool_RunEmpty(t *testing.T) {
	assert.Empty(t, NewPool(3).Run(context.Background(), nil))
}

// concurrencyJob tracks max concurrent executions
type concurrencyJob struct {
	start    func()
	end      func()
	duration time.Duration
}

func (j *concurrencyJob) Execute(ctx context.Context) Result {
	if j.start != nil {
		j.start()
	}
	time.Sleep(j.duration)
	if j.end != nil {
		j.end()
	}
	return &mockResult{}
}

func TestPool_Concurrency(t *testing.T) {
	workers := 4
	pool := NewPool(workers)

	var current, maxConcurrent, completed int32
	var mu sync.Mutex

	jobs := make([]Job, 30)
	for i := range jobs {
		jobs[i] = &concurrencyJob{
			start: func() {
				curr := atomic.AddInt32(&current, 1)
				mu.Lock()
				if curr > maxConcurrent {
					maxConcurrent = curr
				}
				mu.Unlock()
			},
			end: func() {
				atomic.AddInt32(&current, -1)
				atomic.AddInt32(&completed, 1)
			},
			duration: 5 * time.Millisecond,
		}
	}

	pool.Run(context.Background(), jobs)

	assert.Equal(t, int32(len(jobs)), atomic.LoadInt32(&completed))
	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, maxConcurrent, int32(workers), "max concurrency exceeded workers")
}

func TestPool_Errors(t *testing.T) {
	pool := NewPool(2)
	results := pool.Run(context.Background(), []Job{
		&mockJob{id: 0},
		&mockJob{id: 1, shouldErr: true},
		&mockJob{id: 2},
	})

	require.Len(t, results, 3)
	assert.NoError(t, results[0].GetError())
	assert.Error(t, results[1].GetError())
	assert.EqualError(t, FirstError(results), "job error")
	assert.NoError(t, FirstError(results[:1]))
}

func TestPool_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var executed int32
	jobs := []Job{&mockJob{executed: &executed}, &mockJob{executed: &executed}}
	results := NewPool(1).Run(ctx, jobs)

	assert.Equal(t, int32(0), atomic.LoadInt32(&executed))
	assert.ErrorIs(t, FirstError(results), context.Canceled)
}
