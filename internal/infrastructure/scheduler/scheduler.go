// Package scheduler runs background jobs on a bounded worker pool and
// triggers them periodically from a source of due work.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobStatus represents the status of a scheduled job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Job is one run of a scheduled data export on behalf of a company.
type Job struct {
	ID        uuid.UUID
	CompanyID uuid.UUID
	ExportID  uuid.UUID
	// ActorID is the user the run is attributed to, uuid.Nil for none.
	ActorID     uuid.UUID
	Status      JobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
}

// NewJob creates a pending job for the export of companyID.
func NewJob(companyID, exportID, actorID uuid.UUID) *Job {
	return &Job{
		ID:        uuid.New(),
		CompanyID: companyID,
		ExportID:  exportID,
		ActorID:   actorID,
		Status:    JobStatusPending,
	}
}

// key identifies the work of a job; two jobs with the same key never
// run at the same time.
func (j *Job) key() uuid.UUID {
	return j.ExportID
}

func (j *Job) start(now time.Time) {
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

func (j *Job) complete(now time.Time) {
	j.Status = JobStatusSuccess
	j.CompletedAt = &now
}

func (j *Job) fail(now time.Time, err string) {
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Error = err
}

// ShouldRetry returns true if the job should be retried
func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// JobExecutor runs a job.
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) error
}

// Config holds scheduler configuration
type Config struct {
	Workers       int
	QueueSize     int
	JobTimeout    time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Workers:       2,
		QueueSize:     100,
		JobTimeout:    10 * time.Minute,
		RetryAttempts: 0,
		RetryDelay:    time.Minute,
	}
}

// Scheduler runs submitted jobs on a fixed pool of workers.
type Scheduler struct {
	config   Config
	executor JobExecutor
	logger   *zap.Logger
	now      func() time.Time

	jobs      chan *Job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	inFlight  map[uuid.UUID]bool
}

// NewScheduler creates a new scheduler instance
func NewScheduler(config Config, executor JobExecutor, logger *zap.Logger) *Scheduler {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultConfig().QueueSize
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = DefaultConfig().JobTimeout
	}
	return &Scheduler{
		config:   config,
		executor: executor,
		logger:   logger,
		now:      time.Now,
		jobs:     make(chan *Job, config.QueueSize),
		inFlight: make(map[uuid.UUID]bool),
	}
}

// Start starts the worker pool
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.config.Workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("Export scheduler started",
		zap.Int("workers", s.config.Workers),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop cancels running jobs and waits for the workers to exit.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Export scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Export scheduler stop timed out")
		return ctx.Err()
	}
}

// Submit queues job. A job whose export is already queued or running is
// rejected with ErrJobInFlight.
func (s *Scheduler) Submit(job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return ErrSchedulerNotRunning
	}
	if s.inFlight[job.key()] {
		return ErrJobInFlight
	}
	if job.MaxRetries == 0 {
		job.MaxRetries = s.config.RetryAttempts
	}

	select {
	case s.jobs <- job:
		s.inFlight[job.key()] = true
		s.logger.Debug("Job submitted",
			zap.String("job_id", job.ID.String()),
			zap.String("export_id", job.ExportID.String()),
		)
		return nil
	default:
		return ErrJobQueueFull
	}
}

// InFlight reports whether a job for exportID is queued or running.
func (s *Scheduler) InFlight(exportID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight[exportID]
}

func (s *Scheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job := <-s.jobs:
			s.processJob(ctx, job, workerID)
		}
	}
}

func (s *Scheduler) processJob(ctx context.Context, job *Job, workerID int) {
	job.start(s.now())
	fields := []zap.Field{
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("company_id", job.CompanyID.String()),
		zap.String("export_id", job.ExportID.String()),
	}
	s.logger.Info("Processing job", fields...)

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	err := s.executor.Execute(jobCtx, job)
	cancel()

	if err == nil {
		job.complete(s.now())
		s.release(job)
		s.logger.Info("Job completed successfully", fields...)
		return
	}

	job.fail(s.now(), err.Error())
	s.logger.Error("Job failed", append(fields, zap.Error(err))...)
	if !job.ShouldRetry() || ctx.Err() != nil {
		s.release(job)
		return
	}

	job.RetryCount++
	job.Status = JobStatusPending
	s.logger.Info("Job scheduled for retry",
		zap.String("job_id", job.ID.String()),
		zap.Int("retry_count", job.RetryCount),
		zap.Int("max_retries", job.MaxRetries),
	)
	time.AfterFunc(s.config.RetryDelay, func() { s.requeue(job) })
}

func (s *Scheduler) requeue(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		delete(s.inFlight, job.key())
		return
	}
	select {
	case s.jobs <- job:
	default:
		delete(s.inFlight, job.key())
		s.logger.Warn("Failed to re-queue job for retry", zap.String("job_id", job.ID.String()))
	}
}

func (s *Scheduler) release(job *Job) {
	s.mu.Lock()
	delete(s.inFlight, job.key())
	s.mu.Unlock()
}
