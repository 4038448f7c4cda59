package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/chatlet/chatlet/internal/config"
	"github.com/chatlet/chatlet/internal/metrics"
	"github.com/chatlet/chatlet/pkg/logger_i"
)

// Runner executes fire-and-forget side effects (usage counters, telemetry)
// off the request path. Failures are logged and swallowed; a full queue drops
// the task rather than blocking the request. The interface exists so a
// distributed queue can replace the in-process one without touching call
// sites - one Runner per process, which does not coordinate across instances.
type Runner interface {
	Submit(name string, task func(ctx context.Context))
}

type Task struct {
	Name string
	Run  func(ctx context.Context)
}

type pool struct {
	queue  chan Task
	wg     *sync.WaitGroup
	stop   chan bool
	logger *logger_i.Logger
}

// InitRunner starts the worker pool. stop and wg tie into the server's
// graceful shutdown: closing stop lets workers finish the queued tasks before
// the wait group releases.
func InitRunner(stop chan bool, wg *sync.WaitGroup) Runner {
	p := &pool{
		queue:  make(chan Task, config.TaskBufferLimit),
		wg:     wg,
		stop:   stop,
		logger: logger_i.NewLogger("TaskRunner"),
	}
	for i := 0; i < config.TaskWorkerCount; i++ {
		wg.Add(1)
		go p.worker()
	}
	p.logger.Info("Task runner started", "workers", config.TaskWorkerCount)
	return p
}

func (p *pool) Submit(name string, task func(ctx context.Context)) {
	select {
	case p.queue <- Task{Name: name, Run: task}:
		metrics.IncrementPendingTasks()
	case <-time.After(config.TaskSubmitTimeout):
		//best effort: the request already succeeded, do not make it wait
		metrics.CountDroppedTask()
		p.logger.Warn("task queue full, dropping task", "task", name)
	}
}

func (p *pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case t := <-p.queue:
			p.execute(t)
		case <-p.stop:
			p.drain()
			return
		}
	}
}

func (p *pool) drain() {
	for {
		select {
		case t := <-p.queue:
			p.execute(t)
		default:
			return
		}
	}
}

func (p *pool) execute(t Task) {
	defer metrics.DecrementPendingTasks()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("background task panicked", "task", t.Name, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	t.Run(ctx)
}
