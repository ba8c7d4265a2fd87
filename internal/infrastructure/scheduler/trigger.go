package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DueSource lists the jobs that are due at now.
type DueSource interface {
	DueJobs(ctx context.Context, now time.Time) ([]*Job, error)
}

// Trigger polls a DueSource and submits what it returns.
type Trigger struct {
	interval  time.Duration
	source    DueSource
	scheduler *Scheduler
	logger    *zap.Logger
	now       func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewTrigger creates a trigger checking source every interval.
func NewTrigger(interval time.Duration, source DueSource, scheduler *Scheduler, logger *zap.Logger) *Trigger {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Trigger{
		interval:  interval,
		source:    source,
		scheduler: scheduler,
		logger:    logger,
		now:       time.Now,
	}
}

// Start starts the polling loop
func (t *Trigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Export trigger started", zap.Duration("check_interval", t.interval))
	return nil
}

// Stop stops the polling loop
func (t *Trigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Export trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Trigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Tick(ctx)
		}
	}
}

// Tick submits every due job once and returns how many were queued.
// Jobs whose export is still in flight are skipped.
func (t *Trigger) Tick(ctx context.Context) int {
	jobs, err := t.source.DueJobs(ctx, t.now())
	if err != nil {
		t.logger.Error("Failed to list due exports", zap.Error(err))
		return 0
	}

	queued := 0
	for _, job := range jobs {
		err := t.scheduler.Submit(job)
		switch {
		case err == nil:
			queued++
		case errors.Is(err, ErrJobInFlight):
		default:
			t.logger.Error("Failed to submit export job",
				zap.String("export_id", job.ExportID.String()),
				zap.Error(err),
			)
		}
	}
	if queued > 0 {
		t.logger.Info("Scheduled exports queued", zap.Int("count", queued))
	}
	return queued
}
