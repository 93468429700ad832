package receivables

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	testTenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	testNow      = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestCustomer(t *testing.T, name string) Customer {
	t.Helper()
	c, err := NewCustomer(testTenantID, CustomerDetails{
		Name:        name,
		CompanyName: name + " Prints",
		Mobile:      "9800000000",
		Email:       "accounts@example.com",
		City:        "Pune",
		CreditLimit: decimal.NewFromInt(1000000),
	}, testNow)
	require.NoError(t, err)
	return c
}

func newTestInvoice(t *testing.T, customerID uuid.UUID, number, amount, date, due string) Invoice {
	t.Helper()
	inv, err := NewInvoice(testTenantID, NewInvoiceInput{
		InvoiceNumber: number,
		CustomerID:    customerID,
		Date:          day(date),
		DueDate:       day(due),
		Amount:        dec(amount),
	}, testNow)
	require.NoError(t, err)
	return inv
}

func newTestPayment(t *testing.T, inv Invoice, amount, date string, mode PaymentMode) Payment {
	t.Helper()
	in := NewPaymentInput{
		InvoiceID:  inv.ID,
		CustomerID: inv.CustomerID,
		Date:       day(date),
		Amount:     dec(amount),
		Mode:       mode,
	}
	if mode == PaymentModeCheque {
		in.Cheque = &ChequeDetails{ChequeNumber: "000123", BankName: "HDFC", DepositDate: day(date)}
	}
	p, err := NewPayment(testTenantID, in, testNow)
	require.NoError(t, err)
	return p
}

func newTestCheque(t *testing.T, inv Invoice, amount, deposit string) Payment {
	t.Helper()
	p, err := NewPayment(testTenantID, NewPaymentInput{
		InvoiceID:  inv.ID,
		CustomerID: inv.CustomerID,
		Date:       day(deposit),
		Amount:     dec(amount),
		Mode:       PaymentModeCheque,
		Cheque:     &ChequeDetails{ChequeNumber: "CHQ-" + amount, BankName: "SBI", DepositDate: day(deposit)},
	}, testNow)
	require.NoError(t, err)
	return p
}

func pay(t *testing.T, inv Invoice, p Payment) Invoice {
	t.Helper()
	out, err := NewLedger(LedgerPolicy{}).ApplyPayment(inv, p)
	require.NoError(t, err)
	return out
}
