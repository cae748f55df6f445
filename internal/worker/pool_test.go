package worker

import (
	"context"
	"sync/atomic"
	"testing"
)

type countingResult struct{ err error }

func (r *countingResult) GetError() error { return r.err }

type countingJob struct {
	executed *int32
}

func (j *countingJob) Execute(ctx context.Context) Result {
	atomic.AddInt32(j.executed, 1)
	return &countingResult{}
}

func TestNewPool_MinimumOneWorker(t *testing.T) {
	for _, n := range []int{0, -3} {
		if p := NewPool(n); p.workers != 1 {
			t.Errorf("NewPool(%d): expected 1 worker, got %d", n, p.workers)
		}
	}
	if p := NewPool(4); p.workers != 4 {
		t.Errorf("expected 4 workers, got %d", p.workers)
	}
}

func TestPool_ExecutesAllJobs(t *testing.T) {
	pool := NewPool(3)
	pool.Start()

	var executed int32
	const count = 20
	for i := 0; i < count; i++ {
		pool.Submit(&countingJob{executed: &executed})
	}

	results := pool.Wait()

	if len(results) != count {
		t.Errorf("expected %d results, got %d", count, len(results))
	}
	if got := atomic.LoadInt32(&executed); got != count {
		t.Errorf("expected %d executions, got %d", count, got)
	}
}

func TestPool_SubmitAfterShutdownIsDropped(t *testing.T) {
	pool := NewPool(1)
	pool.Start()
	pool.Shutdown()

	var executed int32
	pool.Submit(&countingJob{executed: &executed}) // must not block or panic

	if got := atomic.LoadInt32(&executed); got != 0 {
		t.Errorf("job should not run after shutdown, executed=%d", got)
	}
}
