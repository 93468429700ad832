package scheduler

import (
	"context"
	"fmt"
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

// JobKind is the collections task a job performs
type JobKind string

const (
	// JobKindReminderDispatch sends the reminders due for a tenant
	JobKindReminderDispatch JobKind = "REMINDER_DISPATCH"
	// JobKindPDCAlert reports post-dated cheques due for deposit
	JobKindPDCAlert JobKind = "PDC_ALERT"
)

// DailyJobKinds returns the kinds submitted for every tenant each day
func DailyJobKinds() []JobKind {
	return []JobKind{JobKindReminderDispatch, JobKindPDCAlert}
}

// Job is one unit of per-tenant work for a business date
type Job struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Kind        JobKind
	AsOf        time.Time
	Status      JobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
}

// NewJob creates a pending job
func NewJob(tenantID uuid.UUID, kind JobKind, asOf time.Time, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		TenantID:   tenantID,
		Kind:       kind,
		AsOf:       asOf,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
	}
}

func (j *Job) start(at time.Time) {
	j.Status = JobStatusRunning
	j.StartedAt = &at
	j.Error = ""
}

func (j *Job) complete(at time.Time) {
	j.Status = JobStatusSuccess
	j.CompletedAt = &at
}

func (j *Job) fail(err error, at time.Time) {
	j.Status = JobStatusFailed
	j.CompletedAt = &at
	j.Error = err.Error()
}

// ShouldRetry returns true if the failed job has retries left
func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// JobExecutor runs a job
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) error
}

// Config holds scheduler configuration
type Config struct {
	MaxConcurrentJobs int
	QueueSize         int
	JobTimeout        time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		MaxConcurrentJobs: 3,
		QueueSize:         100,
		JobTimeout:        5 * time.Minute,
		RetryAttempts:     3,
		RetryDelay:        time.Minute,
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.MaxConcurrentJobs <= 0 {
		return fmt.Errorf("%w: max concurrent jobs must be positive", ErrInvalidConfig)
	}
	if c.JobTimeout <= 0 {
		return fmt.Errorf("%w: job timeout must be positive", ErrInvalidConfig)
	}
	if c.RetryAttempts < 0 || c.RetryDelay < 0 {
		return fmt.Errorf("%w: retries cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// Scheduler runs submitted jobs on a fixed pool of workers
type Scheduler struct {
	config   Config
	executor JobExecutor
	logger   *zap.Logger
	now      func() time.Time

	jobs      chan *Job
	cancel    context.CancelFunc
	workers   sync.WaitGroup
	pending   sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates a new scheduler instance
func NewScheduler(config Config, executor JobExecutor, logger *zap.Logger) (*Scheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultConfig().QueueSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		config:   config,
		executor: executor,
		logger:   logger,
		now:      time.Now,
		jobs:     make(chan *Job, config.QueueSize),
	}, nil
}

// Start starts the worker pool
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	for i := 0; i < s.config.MaxConcurrentJobs; i++ {
		s.workers.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("Collections scheduler started",
		zap.Int("workers", s.config.MaxConcurrentJobs),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop cancels running jobs and waits for the workers to exit
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Collections scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Collections scheduler stop timed out")
		return ctx.Err()
	}
}

// SubmitJob queues a job without blocking
func (s *Scheduler) SubmitJob(job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return ErrSchedulerNotRunning
	}

	s.pending.Add(1)
	select {
	case s.jobs <- job:
		s.logger.Debug("Job submitted",
			zap.String("job_id", job.ID.String()),
			zap.String("tenant_id", job.TenantID.String()),
			zap.String("kind", string(job.Kind)),
		)
		return nil
	default:
		s.pending.Done()
		return ErrJobQueueFull
	}
}

// ScheduleDaily submits every daily job kind for each tenant. Submission
// stops at the first error.
func (s *Scheduler) ScheduleDaily(tenantIDs []uuid.UUID, asOf time.Time) error {
	for _, tenantID := range tenantIDs {
		for _, kind := range DailyJobKinds() {
			if err := s.SubmitJob(NewJob(tenantID, kind, asOf, s.config.RetryAttempts)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Wait blocks until every submitted job has finished or ctx ends
func (s *Scheduler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) worker(ctx context.Context, workerID int) {
	defer s.workers.Done()
	for {
		select {
		case <-ctx.Done():
			s.drainQueue()
			return
		case job := <-s.jobs:
			s.processJob(ctx, job, workerID)
			s.pending.Done()
		}
	}
}

// drainQueue discards jobs left behind by Stop so Wait does not hang
func (s *Scheduler) drainQueue() {
	for {
		select {
		case job := <-s.jobs:
			s.logger.Warn("Dropping queued job on shutdown",
				zap.String("job_id", job.ID.String()),
				zap.String("kind", string(job.Kind)),
			)
			s.pending.Done()
		default:
			return
		}
	}
}

// processJob runs a job, retrying after RetryDelay until it succeeds or its
// retries are exhausted.
func (s *Scheduler) processJob(ctx context.Context, job *Job, workerID int) {
	log := s.logger.With(
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("tenant_id", job.TenantID.String()),
		zap.String("kind", string(job.Kind)),
		zap.String("as_of", job.AsOf.Format(time.DateOnly)),
	)

	for {
		job.start(s.now())
		log.Info("Processing job", zap.Int("attempt", job.RetryCount+1))

		err := s.execute(ctx, job)
		if err == nil {
			job.complete(s.now())
			log.Info("Job completed successfully")
			return
		}

		job.fail(err, s.now())
		log.Error("Job failed", zap.Int("attempt", job.RetryCount+1), zap.Error(err))
		if !job.ShouldRetry() {
			return
		}

		job.RetryCount++
		log.Info("Job scheduled for retry",
			zap.Int("retry_count", job.RetryCount),
			zap.Int("max_retries", job.MaxRetries),
			zap.Duration("delay", s.config.RetryDelay),
		)
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.config.RetryDelay):
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, job *Job) (err error) {
	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return s.executor.Execute(jobCtx, job)
}
