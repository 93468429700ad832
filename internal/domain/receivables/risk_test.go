package receivables

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreCustomer(t *testing.T) {
	asOf := day("2024-06-30")

	t.Run("clean customer scores five", func(t *testing.T) {
		c := newTestCustomer(t, "Asha")
		inv := newTestInvoice(t, c.ID, "INV-001", "1000", "2024-06-01", "2024-07-15")

		got := ScoreCustomer(c, []Invoice{inv}, nil, asOf)
		assert.Equal(t, 5.0, got.Score)
		assert.Equal(t, RiskLabelGood, got.Label)
		assert.Equal(t, SeverityGreen, got.Severity)
	})

	t.Run("95 days overdue plus one bounce is high risk", func(t *testing.T) {
		c := newTestCustomer(t, "Bharat")
		overdue := newTestInvoice(t, c.ID, "INV-002", "5000", "2024-02-01", "2024-03-27")
		other := newTestInvoice(t, c.ID, "INV-003", "2000", "2024-06-01", "2024-07-10")
		other = pay(t, other, newTestCheque(t, other, "1000", "2024-06-05"))
		other, _, err := BounceCheque(other, other.Payments[0].ID, testNow)
		require.NoError(t, err)

		got := ScoreCustomer(c, []Invoice{overdue, other}, nil, asOf)
		assert.Equal(t, 95, got.WorstDaysOverdue)
		assert.Equal(t, 1, got.BouncedCheques)
		assert.Equal(t, 1.0, got.Score)
		assert.Equal(t, RiskLabelHighRisk, got.Label)
		assert.Equal(t, SeverityRed, got.Severity)
	})

	tests := []struct {
		name    string
		due     string
		penalty float64
	}{
		{"1 day overdue", "2024-06-29", 1.0},
		{"30 days overdue", "2024-05-31", 1.0},
		{"31 days overdue", "2024-05-30", 3.0},
		{"90 days overdue", "2024-04-01", 3.0},
		{"91 days overdue", "2024-03-31", 3.5},
	}
	for _, tt := range tests {
		t.Run("worst tier only: "+tt.name, func(t *testing.T) {
			c := newTestCustomer(t, "Tier")
			worst := newTestInvoice(t, c.ID, "INV-W", "100", "2024-01-01", tt.due)
			mild := newTestInvoice(t, c.ID, "INV-M", "100", "2024-01-01", "2024-06-29")

			got := ScoreCustomer(c, []Invoice{worst, mild}, nil, asOf)
			assert.Equal(t, 5.0-tt.penalty, got.Score)
		})
	}

	t.Run("bounce penalty capped", func(t *testing.T) {
		c := newTestCustomer(t, "Chirag")
		inv := newTestInvoice(t, c.ID, "INV-010", "10000", "2024-06-01", "2024-07-30")
		for i := 0; i < 5; i++ {
			inv = pay(t, inv, newTestCheque(t, inv, "100", "2024-06-05"))
		}
		for _, p := range inv.Payments {
			var err error
			inv, _, err = BounceCheque(inv, p.ID, testNow)
			require.NoError(t, err)
		}

		got := ScoreCustomer(c, []Invoice{inv}, nil, asOf)
		assert.Equal(t, 5, got.BouncedCheques)
		assert.Equal(t, 3.5, got.Score)
		assert.Equal(t, RiskLabelWatch, got.Label)
	})

	t.Run("credit breach", func(t *testing.T) {
		c := newTestCustomer(t, "Deepa")
		c.CreditLimit = dec("5000")
		inv := newTestInvoice(t, c.ID, "INV-020", "5000.01", "2024-06-01", "2024-07-30")

		assert.Equal(t, 4.5, ScoreCustomer(c, []Invoice{inv}, nil, asOf).Score)

		c.CreditLimit = dec("5000.01")
		assert.Equal(t, 5.0, ScoreCustomer(c, []Invoice{inv}, nil, asOf).Score, "outstanding equal to the limit is no breach")
	})

	t.Run("zero credit limit is breached by any outstanding balance", func(t *testing.T) {
		c := newTestCustomer(t, "Hari")
		c.CreditLimit = dec("0")
		inv := newTestInvoice(t, c.ID, "INV-021", "1000", "2024-06-01", "2024-07-30")

		got := ScoreCustomer(c, []Invoice{inv}, nil, asOf)
		assert.Equal(t, 4.5, got.Score)
		assert.Contains(t, got.Reasons, "Outstanding exceeds credit limit")

		settled := pay(t, inv, newTestPayment(t, inv, "1000", "2024-06-10", PaymentModeUPI))
		assert.Equal(t, 5.0, ScoreCustomer(c, []Invoice{settled}, nil, asOf).Score)
	})

	t.Run("on-time payer bonus offsets a bounce", func(t *testing.T) {
		c := newTestCustomer(t, "Esha")
		var invoices []Invoice
		for _, n := range []string{"INV-A", "INV-B", "INV-C"} {
			inv := newTestInvoice(t, c.ID, n, "1000", "2024-05-01", "2024-05-31")
			invoices = append(invoices, pay(t, inv, newTestPayment(t, inv, "1000", "2024-05-20", PaymentModeUPI)))
		}
		open := newTestInvoice(t, c.ID, "INV-D", "1000", "2024-06-01", "2024-07-31")
		open = pay(t, open, newTestCheque(t, open, "500", "2024-06-10"))
		open, _, err := BounceCheque(open, open.Payments[0].ID, testNow)
		require.NoError(t, err)
		invoices = append(invoices, open)

		got := ScoreCustomer(c, invoices, nil, asOf)
		assert.Equal(t, 5.0, got.Score)
	})

	t.Run("late settlement forfeits the bonus", func(t *testing.T) {
		c := newTestCustomer(t, "Farid")
		var invoices []Invoice
		for i, paidOn := range []string{"2024-05-20", "2024-05-25", "2024-06-10"} {
			inv := newTestInvoice(t, c.ID, "INV-L"+string(rune('0'+i)), "1000", "2024-05-01", "2024-05-31")
			invoices = append(invoices, pay(t, inv, newTestPayment(t, inv, "1000", paidOn, PaymentModeUPI)))
		}
		c.CreditLimit = dec("1")
		open := newTestInvoice(t, c.ID, "INV-O", "10", "2024-06-01", "2024-07-31")
		invoices = append(invoices, open)

		got := ScoreCustomer(c, invoices, nil, asOf)
		assert.Equal(t, 4.5, got.Score)
	})

	t.Run("follow-ups add reasons only", func(t *testing.T) {
		c := newTestCustomer(t, "Gita")
		inv := newTestInvoice(t, c.ID, "INV-030", "1000", "2024-05-01", "2024-06-15")
		next := day("2024-06-20")
		followUps := []FollowUp{
			{CustomerID: c.ID, Status: FollowUpDispute, Date: day("2024-06-16")},
			{CustomerID: c.ID, Status: FollowUpPromised, Date: day("2024-06-16"), NextFollowUpDate: &next},
			{CustomerID: uuid.New(), Status: FollowUpDispute, Date: day("2024-06-16")},
		}

		with := ScoreCustomer(c, []Invoice{inv}, followUps, asOf)
		without := ScoreCustomer(c, []Invoice{inv}, nil, asOf)
		assert.Equal(t, without.Score, with.Score)
		assert.Contains(t, with.Reasons, "1 dispute(s) logged")
		assert.Contains(t, with.Reasons, "1 payment promise(s) not kept")
	})

	t.Run("ignores other customers and is idempotent", func(t *testing.T) {
		c := newTestCustomer(t, "Hari")
		stranger := newTestInvoice(t, uuid.New(), "INV-X", "1000", "2023-01-01", "2023-01-31")
		first := ScoreCustomer(c, []Invoice{stranger}, nil, asOf)
		second := ScoreCustomer(c, []Invoice{stranger}, nil, asOf)
		assert.Equal(t, 5.0, first.Score)
		assert.Equal(t, first, second)
	})
}

func TestRiskLabel(t *testing.T) {
	tests := []struct {
		score    float64
		label    string
		severity RiskSeverity
	}{
		{5, RiskLabelGood, SeverityGreen},
		{4, RiskLabelGood, SeverityGreen},
		{3.5, RiskLabelWatch, SeverityOrange},
		{2, RiskLabelWatch, SeverityOrange},
		{1.5, RiskLabelHighRisk, SeverityRed},
		{0, RiskLabelHighRisk, SeverityRed},
	}
	for _, tt := range tests {
		label, severity := RiskLabel(tt.score)
		assert.Equal(t, tt.label, label)
		assert.Equal(t, tt.severity, severity)
	}
}
