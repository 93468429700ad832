package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTenants struct {
	ids []uuid.UUID
	err error
}

func (s staticTenants) TenantIDs(context.Context) ([]uuid.UUID, error) {
	return s.ids, s.err
}

func TestNewDailyTrigger_RejectsBadRunTime(t *testing.T) {
	_, err := NewDailyTrigger(TriggerConfig{RunTime: "25:00"}, nil, staticTenants{}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestDailyTrigger_CheckAndTrigger(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	exec := &fakeExecutor{}
	s := startScheduler(t, testConfig(), exec)
	tenants := staticTenants{ids: []uuid.UUID{uuid.New()}}

	trigger, err := NewDailyTrigger(TriggerConfig{RunTime: "09:00", Location: kolkata}, s, tenants, nil)
	require.NoError(t, err)

	ctx := context.Background()

	// 03:00 UTC is 08:30 in Kolkata
	trigger.now = func() time.Time { return time.Date(2024, 6, 1, 3, 0, 0, 0, time.UTC) }
	assert.False(t, trigger.checkAndTrigger(ctx))

	// 03:45 UTC is 09:15 in Kolkata
	trigger.now = func() time.Time { return time.Date(2024, 6, 1, 3, 45, 0, 0, time.UTC) }
	assert.True(t, trigger.checkAndTrigger(ctx))
	assert.False(t, trigger.checkAndTrigger(ctx), "runs once per day")
	waitJobs(t, s)
	assert.Equal(t, 1, exec.count(JobKindReminderDispatch))
	assert.Equal(t, 1, exec.count(JobKindPDCAlert))

	// 20:00 UTC on June 1 is already June 2 in Kolkata
	trigger.now = func() time.Time { return time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC) }
	assert.False(t, trigger.checkAndTrigger(ctx), "before 09:00 on June 2")
	trigger.now = func() time.Time { return time.Date(2024, 6, 2, 4, 0, 0, 0, time.UTC) }
	assert.True(t, trigger.checkAndTrigger(ctx))
	waitJobs(t, s)
	assert.Equal(t, 2, exec.count(JobKindReminderDispatch))
}

func TestDailyTrigger_TriggerNow(t *testing.T) {
	s := startScheduler(t, testConfig(), &fakeExecutor{})

	trigger, err := NewDailyTrigger(TriggerConfig{RunTime: "09:00"}, s, staticTenants{err: errors.New("db down")}, nil)
	require.NoError(t, err)
	assert.ErrorContains(t, trigger.TriggerNow(context.Background(), time.Now()), "db down")
}

func TestBusinessDate(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	local := time.Date(2024, 6, 1, 23, 50, 0, 0, time.UTC).In(kolkata)
	assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), BusinessDate(local))
}
