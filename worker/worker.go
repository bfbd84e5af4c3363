package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// Worker a long-running job driven by the worker command
type Worker interface {
	Run(ctx context.Context) error
}

type OnWork func() error

// BaseJob cron-driven job skipping overlapping runs
type BaseJob struct {
	Cron      *cron.Cron
	IsRunning bool
	OnWork    OnWork
}

func (job *BaseJob) Start() error {
	job.Cron.Start()
	return nil
}

func (job *BaseJob) Stop() error {
	job.Cron.Stop()
	return nil
}

func (job *BaseJob) Run() {
	if job.IsRunning {
		return
	}

	job.IsRunning = true

	job.OnWork()

	job.IsRunning = false
}

// TickWorker fixed-interval loop, stopped by context cancellation
type TickWorker struct {
	Delay time.Duration
}

// StartTick runs f every Delay until the context is done. Errors from f are
// swallowed; a tick failure must not stop the loop.
func (w *TickWorker) StartTick(ctx context.Context, f func(ctx context.Context) error) error {
	delay := w.Delay
	if delay <= 0 {
		delay = time.Second
	}

	ticker := time.NewTicker(delay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			_ = f(ctx)
		}
	}
}
