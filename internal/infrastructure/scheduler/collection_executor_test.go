package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/printpay/receivables/internal/domain/receivables"
)

type fakeCollections struct {
	reminders []receivables.Reminder
	cheques   []receivables.Payment
	err       error
	asOf      time.Time
}

func (f *fakeCollections) DispatchReminders(_ context.Context, _ uuid.UUID, asOf time.Time) ([]receivables.Reminder, error) {
	f.asOf = asOf
	return f.reminders, f.err
}

func (f *fakeCollections) DuePDCs(_ context.Context, _ uuid.UUID, asOf time.Time) ([]receivables.Payment, error) {
	f.asOf = asOf
	return f.cheques, f.err
}

func TestCollectionExecutor(t *testing.T) {
	ctx := context.Background()
	asOf := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("dispatches reminders for the job date", func(t *testing.T) {
		svc := &fakeCollections{reminders: make([]receivables.Reminder, 2)}
		exec := NewCollectionExecutor(svc, nil)

		require.NoError(t, exec.Execute(ctx, NewJob(uuid.New(), JobKindReminderDispatch, asOf, 0)))
		assert.Equal(t, asOf, svc.asOf)
	})

	t.Run("logs each due cheque", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		svc := &fakeCollections{cheques: []receivables.Payment{{
			Amount: decimal.NewFromInt(25000),
			Mode:   receivables.PaymentModeCheque,
			Cheque: &receivables.ChequeDetails{ChequeNumber: "004512", BankName: "SBI", DepositDate: asOf},
		}}}
		exec := NewCollectionExecutor(svc, zap.New(core))

		require.NoError(t, exec.Execute(ctx, NewJob(uuid.New(), JobKindPDCAlert, asOf, 0)))
		entries := logs.FilterMessage("Post-dated cheque due for deposit").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "004512", entries[0].ContextMap()["cheque_number"])
		assert.Equal(t, "25,000.00", entries[0].ContextMap()["amount"])
	})

	t.Run("wraps service errors", func(t *testing.T) {
		boom := errors.New("boom")
		exec := NewCollectionExecutor(&fakeCollections{err: boom}, nil)

		err := exec.Execute(ctx, NewJob(uuid.New(), JobKindReminderDispatch, asOf, 0))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("rejects unknown kinds", func(t *testing.T) {
		exec := NewCollectionExecutor(&fakeCollections{}, nil)
		assert.ErrorIs(t, exec.Execute(ctx, NewJob(uuid.New(), "NOPE", asOf, 0)), ErrUnknownJobKind)
	})
}
