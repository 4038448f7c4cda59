package tasks

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunner_ExecutesSubmittedTasks(t *testing.T) {
	stop := make(chan bool)
	var wg sync.WaitGroup
	runner := InitRunner(stop, &wg)

	var executed int32
	done := make(chan struct{})
	runner.Submit("count", func(ctx context.Context) {
		atomic.AddInt32(&executed, 1)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task never ran")
	}
	if atomic.LoadInt32(&executed) != 1 {
		t.Errorf("executions got %d, want 1", executed)
	}

	close(stop)
	wg.Wait()
}

func TestRunner_DrainsQueueOnStop(t *testing.T) {
	stop := make(chan bool)
	var wg sync.WaitGroup
	runner := InitRunner(stop, &wg)

	var executed int32
	for i := 0; i < 20; i++ {
		runner.Submit("drain", func(ctx context.Context) {
			atomic.AddInt32(&executed, 1)
		})
	}

	close(stop)
	wg.Wait()

	if got := atomic.LoadInt32(&executed); got != 20 {
		t.Errorf("executed got %d, want all 20 queued tasks", got)
	}
}

func TestRunner_SurvivesPanickingTask(t *testing.T) {
	stop := make(chan bool)
	var wg sync.WaitGroup
	runner := InitRunner(stop, &wg)

	runner.Submit("boom", func(ctx context.Context) {
		panic("task blew up")
	})

	done := make(chan struct{})
	runner.Submit("after", func(ctx context.Context) {
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runner stopped executing after a panic")
	}

	close(stop)
	wg.Wait()
}
