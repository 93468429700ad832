package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeExecutor struct {
	mu       sync.Mutex
	calls    map[JobKind]int
	failures int
	block    bool
}

func (e *fakeExecutor) Execute(ctx context.Context, job *Job) error {
	e.mu.Lock()
	if e.calls == nil {
		e.calls = make(map[JobKind]int)
	}
	e.calls[job.Kind]++
	fail := e.failures > 0
	if fail {
		e.failures--
	}
	block := e.block
	e.mu.Unlock()

	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	if fail {
		return errors.New("transient failure")
	}
	return nil
}

func (e *fakeExecutor) count(kind JobKind) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls[kind]
}

func testConfig() Config {
	return Config{
		MaxConcurrentJobs: 2,
		QueueSize:         10,
		JobTimeout:        time.Second,
		RetryAttempts:     2,
		RetryDelay:        5 * time.Millisecond,
	}
}

func startScheduler(t *testing.T, cfg Config, exec JobExecutor) *Scheduler {
	t.Helper()
	s, err := NewScheduler(cfg, exec, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	})
	return s
}

func waitJobs(t *testing.T, s *Scheduler) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Wait(ctx))
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.MaxConcurrentJobs = 0
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)

	bad = DefaultConfig()
	bad.JobTimeout = 0
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)

	_, err := NewScheduler(bad, &fakeExecutor{}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestScheduler_ScheduleDaily(t *testing.T) {
	exec := &fakeExecutor{}
	s := startScheduler(t, testConfig(), exec)

	asOf := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.ScheduleDaily([]uuid.UUID{uuid.New(), uuid.New(), uuid.New()}, asOf))
	waitJobs(t, s)

	assert.Equal(t, 3, exec.count(JobKindReminderDispatch))
	assert.Equal(t, 3, exec.count(JobKindPDCAlert))
}

func TestScheduler_RetriesFailedJobs(t *testing.T) {
	t.Run("succeeds within the retry budget", func(t *testing.T) {
		exec := &fakeExecutor{failures: 2}
		s := startScheduler(t, testConfig(), exec)

		job := NewJob(uuid.New(), JobKindReminderDispatch, time.Now(), 2)
		require.NoError(t, s.SubmitJob(job))
		waitJobs(t, s)

		assert.Equal(t, 3, exec.count(JobKindReminderDispatch))
		assert.Equal(t, JobStatusSuccess, job.Status)
		assert.Equal(t, 2, job.RetryCount)
		assert.NotNil(t, job.CompletedAt)
	})

	t.Run("gives up after the last retry", func(t *testing.T) {
		exec := &fakeExecutor{failures: 5}
		s := startScheduler(t, testConfig(), exec)

		job := NewJob(uuid.New(), JobKindPDCAlert, time.Now(), 1)
		require.NoError(t, s.SubmitJob(job))
		waitJobs(t, s)

		assert.Equal(t, 2, exec.count(JobKindPDCAlert))
		assert.Equal(t, JobStatusFailed, job.Status)
		assert.Equal(t, "transient failure", job.Error)
	})
}

func TestScheduler_JobTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.JobTimeout = 20 * time.Millisecond
	exec := &fakeExecutor{block: true}
	s := startScheduler(t, cfg, exec)

	job := NewJob(uuid.New(), JobKindReminderDispatch, time.Now(), 0)
	require.NoError(t, s.SubmitJob(job))
	waitJobs(t, s)

	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Contains(t, job.Error, context.DeadlineExceeded.Error())
}

func TestScheduler_SubmitRequiresRunning(t *testing.T) {
	s, err := NewScheduler(testConfig(), &fakeExecutor{}, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, s.SubmitJob(NewJob(uuid.New(), JobKindPDCAlert, time.Now(), 0)), ErrSchedulerNotRunning)
}

func TestScheduler_QueueFull(t *testing.T) {
	cfg := testConfig()
	cfg.MaxConcurrentJobs = 1
	cfg.QueueSize = 1
	exec := &fakeExecutor{block: true}
	s := startScheduler(t, cfg, exec)

	require.NoError(t, s.SubmitJob(NewJob(uuid.New(), JobKindPDCAlert, time.Now(), 0)))
	require.Eventually(t, func() bool { return exec.count(JobKindPDCAlert) == 1 }, time.Second, time.Millisecond)

	require.NoError(t, s.SubmitJob(NewJob(uuid.New(), JobKindPDCAlert, time.Now(), 0)))
	assert.ErrorIs(t, s.SubmitJob(NewJob(uuid.New(), JobKindPDCAlert, time.Now(), 0)), ErrJobQueueFull)
}

func TestScheduler_StopIsIdempotent(t *testing.T) {
	s, err := NewScheduler(testConfig(), &fakeExecutor{}, nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx))
}
