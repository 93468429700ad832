package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printpay/receivables/internal/domain/receivables"
	"github.com/printpay/receivables/internal/domain/shared"
)

var (
	testTenant = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	testNow    = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
)

func day(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return d
}

func seedCustomer(t *testing.T, repo *GormCustomerRepository, tenantID uuid.UUID, name string) receivables.Customer {
	t.Helper()
	c, err := receivables.NewCustomer(tenantID, receivables.CustomerDetails{
		Name:        name,
		CompanyName: name + " Pvt Ltd",
		Mobile:      "98765" + name[:1] + "0000",
		CreditLimit: decimal.NewFromInt(50000),
		Tags:        []receivables.JobType{receivables.JobTypeOffset, receivables.JobTypeDigital},
	}, testNow)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), &c))
	return c
}

func newInvoice(t *testing.T, tenantID, customerID uuid.UUID, number, amount, issued, due string) receivables.Invoice {
	t.Helper()
	inv, err := receivables.NewInvoice(tenantID, receivables.NewInvoiceInput{
		InvoiceNumber: number,
		CustomerID:    customerID,
		Date:          day(issued),
		DueDate:       day(due),
		Amount:        decimal.RequireFromString(amount),
		JobName:       "Brochure run",
		JobType:       receivables.JobTypeOffset,
	}, testNow)
	require.NoError(t, err)
	return inv
}

func TestGormCustomerRepository(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDatabase(t)
	repo := NewGormCustomerRepository(db.DB)

	ravi := seedCustomer(t, repo, testTenant, "Ravi")
	seedCustomer(t, repo, testTenant, "Anita")
	seedCustomer(t, repo, uuid.New(), "Other")

	t.Run("round trips a customer", func(t *testing.T) {
		got, err := repo.FindByIDForTenant(ctx, testTenant, ravi.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ravi", got.Name)
		assert.Equal(t, "Ravi Pvt Ltd", got.CompanyName)
		assert.True(t, got.CreditLimit.Equal(decimal.NewFromInt(50000)))
		assert.Equal(t, []receivables.JobType{receivables.JobTypeOffset, receivables.JobTypeDigital}, got.Tags)
	})

	t.Run("missing customer is not found", func(t *testing.T) {
		_, err := repo.FindByIDForTenant(ctx, testTenant, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("other tenants are invisible", func(t *testing.T) {
		_, err := repo.FindByIDForTenant(ctx, uuid.New(), ravi.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("lists by name and searches", func(t *testing.T) {
		all, err := repo.FindAllForTenant(ctx, testTenant, shared.Filter{})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Anita", all[0].Name)
		assert.Equal(t, "Ravi", all[1].Name)

		found, err := repo.FindAllForTenant(ctx, testTenant, shared.Filter{Search: "RAV"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, ravi.ID, found[0].ID)

		page, err := repo.FindAllForTenant(ctx, testTenant, shared.Filter{Page: 2, PageSize: 1})
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "Ravi", page[0].Name)
	})

	t.Run("updates in place", func(t *testing.T) {
		updated, err := ravi.WithDetails(receivables.CustomerDetails{Name: "Ravi Kumar", Mobile: "9876500000"}, testNow.Add(time.Hour))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, &updated))

		got, err := repo.FindByIDForTenant(ctx, testTenant, ravi.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ravi Kumar", got.Name)
		assert.Empty(t, got.Tags)
	})

	t.Run("deletes", func(t *testing.T) {
		c := seedCustomer(t, repo, testTenant, "Zed")
		require.NoError(t, repo.DeleteForTenant(ctx, testTenant, c.ID))
		assert.ErrorIs(t, repo.DeleteForTenant(ctx, testTenant, c.ID), shared.ErrNotFound)
	})
}

func TestGormInvoiceRepository(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDatabase(t)
	customers := NewGormCustomerRepository(db.DB)
	repo := NewGormInvoiceRepository(db.DB)
	ledger := receivables.NewLedger(receivables.LedgerPolicy{})

	customer := seedCustomer(t, customers, testTenant, "Ravi")
	inv := newInvoice(t, testTenant, customer.ID, "INV-001", "10000", "2024-05-01", "2024-05-31")
	require.NoError(t, repo.Save(ctx, &inv))

	t.Run("round trips an invoice without payments", func(t *testing.T) {
		got, err := repo.FindByIDForTenant(ctx, testTenant, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, "INV-001", got.InvoiceNumber)
		assert.Equal(t, day("2024-05-31"), got.DueDate)
		assert.True(t, got.Amount.Equal(decimal.NewFromInt(10000)))
		assert.Empty(t, got.Payments)
		assert.Equal(t, receivables.InvoiceStatusOverdue, got.Status(day("2024-06-01")))
	})

	t.Run("persists payments and cheque transitions", func(t *testing.T) {
		cash, err := receivables.NewPayment(testTenant, receivables.NewPaymentInput{
			InvoiceID: inv.ID, CustomerID: customer.ID, Date: day("2024-05-10"),
			Amount: decimal.NewFromInt(4000), Mode: receivables.PaymentModeUPI, Reference: "UPI-77",
		}, testNow)
		require.NoError(t, err)
		cheque, err := receivables.NewPayment(testTenant, receivables.NewPaymentInput{
			InvoiceID: inv.ID, CustomerID: customer.ID, Date: day("2024-05-20"),
			Amount: decimal.NewFromInt(6000), Mode: receivables.PaymentModeCheque,
			Cheque: &receivables.ChequeDetails{ChequeNumber: "004512", BankName: "HDFC", DepositDate: day("2024-06-05")},
		}, testNow)
		require.NoError(t, err)

		withCash, err := ledger.ApplyPayment(inv, cash)
		require.NoError(t, err)
		withCheque, err := ledger.ApplyPayment(withCash, cheque)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, &withCheque))

		got, err := repo.FindByIDForTenant(ctx, testTenant, inv.ID)
		require.NoError(t, err)
		require.Len(t, got.Payments, 2)
		assert.Equal(t, receivables.PaymentModeUPI, got.Payments[0].Mode)
		assert.Nil(t, got.Payments[0].Cheque)
		require.NotNil(t, got.Payments[1].Cheque)
		assert.Equal(t, "004512", got.Payments[1].Cheque.ChequeNumber)
		assert.Equal(t, receivables.ChequeStatusPending, got.Payments[1].Cheque.Status)
		assert.Equal(t, receivables.InvoiceStatusPaid, got.Status(day("2024-06-01")))

		owner, err := repo.FindByPaymentID(ctx, testTenant, cheque.ID)
		require.NoError(t, err)
		assert.Equal(t, inv.ID, owner.ID)

		bounced, _, err := receivables.BounceCheque(*got, cheque.ID, testNow)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, &bounced))

		reloaded, err := repo.FindByIDForTenant(ctx, testTenant, inv.ID)
		require.NoError(t, err)
		require.Len(t, reloaded.Payments, 2)
		assert.Equal(t, receivables.ChequeStatusBounced, reloaded.Payments[1].Cheque.Status)
		assert.True(t, reloaded.Balance().Equal(decimal.NewFromInt(6000)))
	})

	t.Run("unknown payment is not found", func(t *testing.T) {
		_, err := repo.FindByPaymentID(ctx, testTenant, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("soft delete hides from lists but keeps the number", func(t *testing.T) {
		second := newInvoice(t, testTenant, customer.ID, "INV-002", "2500", "2024-05-15", "2024-06-14")
		require.NoError(t, repo.Save(ctx, &second))

		live, err := repo.FindAllForTenant(ctx, testTenant)
		require.NoError(t, err)
		require.Len(t, live, 2)
		assert.Equal(t, "INV-002", live[0].InvoiceNumber)

		deleted := second.MarkDeleted(testNow)
		require.NoError(t, repo.Save(ctx, &deleted))

		live, err = repo.FindByCustomer(ctx, testTenant, customer.ID)
		require.NoError(t, err)
		require.Len(t, live, 1)
		assert.Equal(t, "INV-001", live[0].InvoiceNumber)

		got, err := repo.FindByIDForTenant(ctx, testTenant, second.ID)
		require.NoError(t, err)
		assert.True(t, got.IsDeleted())

		exists, err := repo.ExistsByNumber(ctx, testTenant, "INV-002")
		require.NoError(t, err)
		assert.True(t, exists)

		count, err := repo.CountByCustomer(ctx, testTenant, customer.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("invoice numbers are unique per tenant", func(t *testing.T) {
		dup := newInvoice(t, testTenant, customer.ID, "INV-001", "100", "2024-05-01", "2024-05-02")
		assert.Error(t, repo.Save(ctx, &dup))

		otherTenant := uuid.New()
		sameNumber := newInvoice(t, otherTenant, uuid.New(), "INV-001", "100", "2024-05-01", "2024-05-02")
		assert.NoError(t, repo.Save(ctx, &sameNumber))
	})

	t.Run("lists tenants with live invoices", func(t *testing.T) {
		ids, err := repo.TenantIDs(ctx)
		require.NoError(t, err)
		assert.Len(t, ids, 2)
		assert.Contains(t, ids, testTenant)
	})
}

func TestGormFollowUpRepository(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDatabase(t)
	repo := NewGormFollowUpRepository(db.DB)
	customerID := uuid.New()
	invoiceID := uuid.New()
	next := day("2024-06-03")

	first, err := receivables.NewFollowUp(testTenant, receivables.NewFollowUpInput{
		CustomerID: customerID, InvoiceID: &invoiceID, Date: day("2024-05-28"),
		Mode: receivables.FollowUpModeCall, Status: receivables.FollowUpPromised,
		NextFollowUpDate: &next, ContactPerson: "Ravi",
	}, testNow)
	require.NoError(t, err)
	second, err := receivables.NewFollowUp(testTenant, receivables.NewFollowUpInput{
		CustomerID: uuid.New(), Date: day("2024-05-30"),
		Mode: receivables.FollowUpModeVisit, Status: receivables.FollowUpNoAnswer, Location: "Andheri",
	}, testNow)
	require.NoError(t, err)

	require.NoError(t, repo.Append(ctx, &first))
	require.NoError(t, repo.Append(ctx, &second))

	all, err := repo.FindAllForTenant(ctx, testTenant)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)

	mine, err := repo.FindByCustomer(ctx, testTenant, customerID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].InvoiceID)
	assert.Equal(t, invoiceID, *mine[0].InvoiceID)
	require.NotNil(t, mine[0].NextFollowUpDate)
	assert.Equal(t, next, *mine[0].NextFollowUpDate)
	assert.Equal(t, receivables.FollowUpPromised, mine[0].Status)

	none, err := repo.FindAllForTenant(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGormReminderSettingsRepository(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDatabase(t)
	repo := NewGormReminderSettingsRepository(db.DB)

	_, err := repo.Get(ctx, testTenant)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	settings := receivables.DefaultReminderSettings()
	require.NoError(t, repo.Save(ctx, testTenant, settings))

	settings.EnableSMS = true
	settings.DaysAfterDueRepeat = 14
	require.NoError(t, repo.Save(ctx, testTenant, settings))

	got, err := repo.Get(ctx, testTenant)
	require.NoError(t, err)
	assert.Equal(t, settings, *got)
}

func TestGormInvoiceRepository_Postgres(t *testing.T) {
	ctx := context.Background()

	t.Run("ExistsByNumber counts deleted invoices", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()
		repo := NewGormInvoiceRepository(db.DB)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "invoices" WHERE tenant_id = \$1 AND invoice_number = \$2`).
			WithArgs(testTenant, "INV-9").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByNumber(ctx, testTenant, "INV-9")
		require.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("FindByIDForTenant maps missing rows to ErrNotFound", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()
		repo := NewGormInvoiceRepository(db.DB)
		id := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(testTenant, id, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByIDForTenant(ctx, testTenant, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CountByCustomer propagates driver errors", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()
		repo := NewGormInvoiceRepository(db.DB)
		customerID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "invoices"`).
			WithArgs(testTenant, customerID).
			WillReturnError(assert.AnError)

		_, err := repo.CountByCustomer(ctx, testTenant, customerID)
		assert.ErrorIs(t, err, assert.AnError)
	})
}
