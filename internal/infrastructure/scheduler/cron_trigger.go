package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantProvider lists the tenants daily jobs run for
type TenantProvider interface {
	TenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// TriggerConfig holds configuration for the daily trigger
type TriggerConfig struct {
	// RunTime is the local time of day to run, "HH:MM"
	RunTime       string
	Location      *time.Location
	CheckInterval time.Duration
}

// DailyTrigger submits the daily jobs once per local calendar day, at or
// after the configured run time.
type DailyTrigger struct {
	hour, minute   int
	location       *time.Location
	checkInterval  time.Duration
	scheduler      *Scheduler
	tenantProvider TenantProvider
	logger         *zap.Logger
	now            func() time.Time

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

// NewDailyTrigger creates a new trigger
func NewDailyTrigger(cfg TriggerConfig, scheduler *Scheduler, tenants TenantProvider, logger *zap.Logger) (*DailyTrigger, error) {
	runAt, err := time.Parse("15:04", cfg.RunTime)
	if err != nil {
		return nil, fmt.Errorf("%w: run time %q: %v", ErrInvalidConfig, cfg.RunTime, err)
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DailyTrigger{
		hour:           runAt.Hour(),
		minute:         runAt.Minute(),
		location:       cfg.Location,
		checkInterval:  cfg.CheckInterval,
		scheduler:      scheduler,
		tenantProvider: tenants,
		logger:         logger,
		now:            time.Now,
	}, nil
}

// Start starts the check loop
func (c *DailyTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isRunning {
		return nil
	}
	c.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)
	go c.runLoop(ctx)

	c.logger.Info("Daily trigger started",
		zap.String("run_time", fmt.Sprintf("%02d:%02d", c.hour, c.minute)),
		zap.String("location", c.location.String()),
		zap.Duration("check_interval", c.checkInterval),
	)
	return nil
}

// Stop stops the check loop
func (c *DailyTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.cancel()
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		c.logger.Info("Daily trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *DailyTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.checkInterval)
	defer ticker.Stop()

	c.checkAndTrigger(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.checkAndTrigger(ctx)
		}
	}
}

// checkAndTrigger submits today's jobs if the run time has passed and they
// have not been submitted yet. It reports whether it triggered.
func (c *DailyTrigger) checkAndTrigger(ctx context.Context) bool {
	local := c.now().In(c.location)
	today := local.Format(time.DateOnly)

	c.mu.Lock()
	if c.lastRunDate == today {
		c.mu.Unlock()
		return false
	}
	runAt := time.Date(local.Year(), local.Month(), local.Day(), c.hour, c.minute, 0, 0, c.location)
	if local.Before(runAt) {
		c.mu.Unlock()
		return false
	}
	c.lastRunDate = today
	c.mu.Unlock()

	c.logger.Info("Triggering daily collection jobs", zap.String("as_of", today))
	if err := c.TriggerNow(ctx, BusinessDate(local)); err != nil {
		c.logger.Error("Failed to trigger daily collection jobs", zap.Error(err))
	}
	return true
}

// TriggerNow submits the daily jobs for every tenant for asOf
func (c *DailyTrigger) TriggerNow(ctx context.Context, asOf time.Time) error {
	tenantIDs, err := c.tenantProvider.TenantIDs(ctx)
	if err != nil {
		return fmt.Errorf("list tenants: %w", err)
	}
	c.logger.Info("Scheduling daily collection jobs", zap.Int("tenant_count", len(tenantIDs)))
	return c.scheduler.ScheduleDaily(tenantIDs, asOf)
}

// BusinessDate converts a wall-clock time to the date the engine works on:
// the local calendar day at midnight UTC.
func BusinessDate(local time.Time) time.Time {
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
