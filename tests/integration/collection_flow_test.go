package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	rcvapp "github.com/printpay/receivables/internal/application/receivables"
	"github.com/printpay/receivables/internal/domain/receivables"
	"github.com/printpay/receivables/internal/domain/shared"
	"github.com/printpay/receivables/internal/infrastructure/cache"
	"github.com/printpay/receivables/internal/infrastructure/event"
	"github.com/printpay/receivables/internal/infrastructure/persistence"
)

var asOf = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

type stack struct {
	service  *rcvapp.CollectionService
	invoices *persistence.GormInvoiceRepository
}

func newStack(t *testing.T) stack {
	t.Helper()
	db := NewTestDB(t)

	followUps := persistence.NewGormFollowUpRepository(db.DB)
	invoices := persistence.NewGormInvoiceRepository(db.DB)
	bus := event.NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(rcvapp.NewReminderLogHandler(followUps, zap.NewNop()))
	require.NoError(t, bus.Start(context.Background()))

	service, err := rcvapp.NewCollectionService(rcvapp.Dependencies{
		Customers: persistence.NewGormCustomerRepository(db.DB),
		Invoices:  invoices,
		FollowUps: followUps,
		Settings:  persistence.NewGormReminderSettingsRepository(db.DB),
		Locker:    cache.NewInMemoryInvoiceLocker(),
		Publisher: bus,
	}, rcvapp.Options{
		DefaultSettings: receivables.DefaultReminderSettings(),
		Now:             func() time.Time { return asOf.Add(10 * time.Hour) },
	})
	require.NoError(t, err)
	return stack{service: service, invoices: invoices}
}

func (s stack) seed(t *testing.T, tenantID uuid.UUID, number, amount string) (*receivables.Customer, *receivables.Invoice) {
	t.Helper()
	ctx := context.Background()
	customer, err := s.service.CreateCustomer(ctx, tenantID, receivables.CustomerDetails{
		Name:        "Ravi",
		CompanyName: "Ravi Prints",
		Mobile:      "9876543210",
		Email:       "accounts@raviprints.in",
		CreditLimit: decimal.NewFromInt(50000),
		Tags:        []receivables.JobType{receivables.JobTypeOffset},
	})
	require.NoError(t, err)
	invoice, err := s.service.CreateInvoice(ctx, tenantID, receivables.NewInvoiceInput{
		InvoiceNumber: number,
		CustomerID:    customer.ID,
		Date:          asOf.AddDate(0, -1, 0),
		DueDate:       asOf,
		Amount:        decimal.RequireFromString(amount),
	})
	require.NoError(t, err)
	return customer, invoice
}

func TestCollectionFlow_Postgres(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	tenantID := uuid.New()
	customer, invoice := s.seed(t, tenantID, "INV-2024-001", "10000.50")

	t.Run("duplicate number rejected", func(t *testing.T) {
		_, err := s.service.CreateInvoice(ctx, tenantID, receivables.NewInvoiceInput{
			InvoiceNumber: "INV-2024-001",
			CustomerID:    customer.ID,
			Date:          asOf,
			DueDate:       asOf,
			Amount:        decimal.NewFromInt(1),
		})
		require.Error(t, err)
		assert.True(t, shared.IsConflict(err))
	})

	t.Run("cheque bounce reopens balance", func(t *testing.T) {
		result, err := s.service.RecordPayment(ctx, tenantID, rcvapp.RecordPaymentRequest{
			InvoiceID: invoice.ID,
			Date:      asOf.AddDate(0, 0, -5),
			Amount:    decimal.RequireFromString("4000.25"),
			Mode:      receivables.PaymentModeCheque,
			Cheque: &receivables.ChequeDetails{
				ChequeNumber: "004512",
				BankName:     "HDFC Bank",
				DepositDate:  asOf,
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "6000.25", result.Invoice.Balance.String())

		due, err := s.service.DuePDCs(ctx, tenantID, asOf)
		require.NoError(t, err)
		require.Len(t, due, 1)

		bounced, err := s.service.BounceCheque(ctx, tenantID, result.Payment.ID)
		require.NoError(t, err)
		assert.Equal(t, "10000.5", bounced.Invoice.Balance.String())

		_, err = s.service.ClearCheque(ctx, tenantID, result.Payment.ID)
		assert.True(t, shared.IsInvalidTransition(err))
	})

	t.Run("payments and cheque state survive reload", func(t *testing.T) {
		stored, err := s.invoices.FindByIDForTenant(ctx, tenantID, invoice.ID)
		require.NoError(t, err)
		require.Len(t, stored.Payments, 1)
		require.NotNil(t, stored.Payments[0].Cheque)
		assert.Equal(t, receivables.ChequeStatusBounced, stored.Payments[0].Cheque.Status)
		assert.True(t, stored.Payments[0].Amount.Equal(decimal.RequireFromString("4000.25")))
	})

	t.Run("reminders dispatched once", func(t *testing.T) {
		for range 2 {
			_, err := s.service.DispatchReminders(ctx, tenantID, asOf)
			require.NoError(t, err)
		}
		logged, err := s.service.ListFollowUps(ctx, tenantID, customer.ID)
		require.NoError(t, err)
		assert.Len(t, logged, 2)
	})

	t.Run("ageing sums to outstanding", func(t *testing.T) {
		report, err := s.service.Ageing(ctx, tenantID, asOf.AddDate(0, 0, 40))
		require.NoError(t, err)
		assert.Equal(t, "10000.5", report.Total.String())
		assert.Equal(t, "10000.5", report.Amount(receivables.Bucket31To60).String())
	})

	t.Run("tenant listed for daily jobs", func(t *testing.T) {
		ids, err := s.invoices.TenantIDs(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, tenantID)
	})
}

func TestConcurrentPayments_Postgres(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	tenantID := uuid.New()
	_, invoice := s.seed(t, tenantID, "INV-2024-100", "500")

	const attempts = 10
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		rejected int
	)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.service.RecordPayment(ctx, tenantID, rcvapp.RecordPaymentRequest{
				InvoiceID: invoice.ID,
				Date:      asOf,
				Amount:    decimal.NewFromInt(100),
				Mode:      receivables.PaymentModeUPI,
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				accepted++
			} else if shared.IsValidation(err) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, accepted)
	assert.Equal(t, attempts-5, rejected)

	view, err := s.service.GetInvoice(ctx, tenantID, invoice.ID, asOf)
	require.NoError(t, err)
	assert.Equal(t, receivables.InvoiceStatusPaid, view.Status)
	assert.Len(t, view.Payments, 5)
}
