package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countJob struct {
	counter *atomic.Int64
}

type countResult struct{}

func (r *countResult) GetError() error { return nil }

func (j *countJob) Execute(_ context.Context) Result {
	j.counter.Add(1)
	return &countResult{}
}

func TestPool_RunsAllJobs(t *testing.T) {
	pool := NewPool(3)
	pool.Start()

	var counter atomic.Int64
	for i := 0; i < 10; i++ {
		pool.Submit(&countJob{counter: &counter})
	}

	results := pool.Wait()
	if len(results) != 10 {
		t.Errorf("Expected 10 results, got %d", len(results))
	}
	if counter.Load() != 10 {
		t.Errorf("Expected 10 executions, got %d", counter.Load())
	}
}

func TestPool_ZeroWorkersClampedToOne(t *testing.T) {
	pool := NewPool(0)
	pool.Start()

	var counter atomic.Int64
	pool.Submit(&countJob{counter: &counter})

	results := pool.Wait()
	if len(results) != 1 {
		t.Errorf("Expected 1 result, got %d", len(results))
	}
}

func TestPool_StreamingDrainLargeBatch(t *testing.T) {
	// More jobs than the internal buffers hold; submission and draining must
	// overlap without stalling.
	pool := NewPool(2)
	pool.Start()

	var counter atomic.Int64
	const jobs = 500

	go func() {
		defer pool.Close()
		for i := 0; i < jobs; i++ {
			pool.Submit(&countJob{counter: &counter})
		}
	}()

	got := 0
	timeout := time.After(10 * time.Second)
	for {
		select {
		case _, ok := <-pool.Results():
			if !ok {
				if got != jobs {
					t.Errorf("Expected %d results, got %d", jobs, got)
				}
				return
			}
			got++
		case <-timeout:
			t.Fatalf("Pool stalled after %d of %d results", got, jobs)
		}
	}
}

type slowJob struct{}

func (j *slowJob) Execute(ctx context.Context) Result {
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
	}
	return &countResult{}
}

func TestPool_ShutdownCancelsWork(t *testing.T) {
	pool := NewPool(1)
	pool.Start()
	pool.Submit(&slowJob{})

	done := make(chan struct{})
	go func() {
		pool.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Shutdown did not cancel the running job")
	}
}
