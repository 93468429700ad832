package receivables

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printpay/receivables/internal/domain/shared"
)

func newScheduler(t *testing.T) *ReminderScheduler {
	t.Helper()
	s, err := NewReminderScheduler("")
	require.NoError(t, err)
	return s
}

func TestReminderSettings_Validate(t *testing.T) {
	assert.NoError(t, DefaultReminderSettings().Validate())

	bad := DefaultReminderSettings()
	bad.DaysAfterDueRepeat = 0
	assert.True(t, shared.IsConfiguration(bad.Validate()))

	bad = DefaultReminderSettings()
	bad.DaysBeforeDue = -1
	assert.True(t, shared.IsConfiguration(bad.Validate()))
}

func TestReminderSettings_EnabledChannels(t *testing.T) {
	s := ReminderSettings{EnableSMS: true, EnableWhatsApp: true}
	assert.Equal(t, []Channel{ChannelWhatsApp, ChannelSMS}, s.EnabledChannels())
	assert.Equal(t, []Channel{ChannelWhatsApp, ChannelEmail}, DefaultReminderSettings().EnabledChannels())
}

func TestReminderKindFor(t *testing.T) {
	rules := DefaultReminderSettings()
	tests := []struct {
		daysUntil int
		kind      ReminderKind
		due       bool
	}{
		{4, "", false},
		{3, ReminderBeforeDue, true},
		{2, "", false},
		{0, ReminderOnDue, true},
		{-1, "", false},
		{-7, ReminderOverdueRepeat, true},
		{-14, ReminderOverdueRepeat, true},
		{-15, "", false},
	}
	for _, tt := range tests {
		kind, ok := ReminderKindFor(tt.daysUntil, rules)
		assert.Equal(t, tt.due, ok, "daysUntil=%d", tt.daysUntil)
		assert.Equal(t, tt.kind, kind, "daysUntil=%d", tt.daysUntil)
	}

	t.Run("on-due disabled", func(t *testing.T) {
		r := rules
		r.RemindOnDue = false
		_, ok := ReminderKindFor(0, r)
		assert.False(t, ok)
	})

	t.Run("zero days before due without on-due fires on the due date", func(t *testing.T) {
		r := rules
		r.RemindOnDue = false
		r.DaysBeforeDue = 0

		kind, ok := ReminderKindFor(0, r)
		assert.True(t, ok)
		assert.Equal(t, ReminderBeforeDue, kind)

		_, ok = ReminderKindFor(1, r)
		assert.False(t, ok)
	})

	t.Run("zero days before due with on-due reports on-due", func(t *testing.T) {
		r := rules
		r.DaysBeforeDue = 0

		kind, ok := ReminderKindFor(0, r)
		assert.True(t, ok)
		assert.Equal(t, ReminderOnDue, kind)
	})
}

func TestRemindersDue_BeforeDueFiresOnExactlyOneDay(t *testing.T) {
	s := newScheduler(t)
	c := newTestCustomer(t, "Asha")
	inv := newTestInvoice(t, c.ID, "INV-001", "12500", "2024-06-01", "2024-06-30")
	rules := DefaultReminderSettings()
	rules.RemindOnDue = false

	var firing []string
	for d := day("2024-06-20"); !d.After(day("2024-06-29")); d = d.AddDate(0, 0, 1) {
		got, err := s.RemindersDue([]Customer{c}, []Invoice{inv}, rules, d)
		require.NoError(t, err)
		if len(got) > 0 {
			firing = append(firing, d.Format("2006-01-02"))
		}
	}
	assert.Equal(t, []string{"2024-06-27"}, firing)
}

func TestRemindersDue_OverdueRepeat(t *testing.T) {
	s := newScheduler(t)
	c := newTestCustomer(t, "Bharat")
	inv := newTestInvoice(t, c.ID, "INV-002", "5000", "2024-05-01", "2024-06-01")

	got, err := s.RemindersDue([]Customer{c}, []Invoice{inv}, DefaultReminderSettings(), day("2024-06-15"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ReminderOverdueRepeat, got[0].Kind)
	assert.Equal(t, -14, got[0].DaysUntilDue)

	got, err = s.RemindersDue([]Customer{c}, []Invoice{inv}, DefaultReminderSettings(), day("2024-06-16"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRemindersDue_ChannelsAndMessage(t *testing.T) {
	s := newScheduler(t)
	c := newTestCustomer(t, "Asha")
	inv := newTestInvoice(t, c.ID, "INV-003", "12500", "2024-06-01", "2024-06-30")
	inv = pay(t, inv, newTestPayment(t, inv, "2500", "2024-06-02", PaymentModeUPI))

	rules := DefaultReminderSettings()
	rules.EnableSMS = true
	got, err := s.RemindersDue([]Customer{c}, []Invoice{inv}, rules, day("2024-06-30"))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, []Channel{ChannelWhatsApp, ChannelEmail, ChannelSMS}, []Channel{got[0].Channel, got[1].Channel, got[2].Channel})
	assert.Equal(t, ReminderOnDue, got[0].Kind)
	assert.Equal(t, c.Mobile, got[0].Recipient)
	assert.Equal(t, c.Email, got[1].Recipient)
	assert.True(t, got[0].Balance.Equal(dec("10000")))
	assert.Equal(t, "Dear Asha, your invoice INV-003 for INR 10,000.00 is due today. Please arrange payment.", got[0].Message)
}

func TestRemindersDue_SkipsSettledAndOrders(t *testing.T) {
	s := newScheduler(t)
	c := newTestCustomer(t, "Chirag")
	paid := newTestInvoice(t, c.ID, "INV-010", "100", "2024-06-01", "2024-06-30")
	paid = pay(t, paid, newTestPayment(t, paid, "100", "2024-06-02", PaymentModeCash))
	b := newTestInvoice(t, c.ID, "INV-012", "100", "2024-06-01", "2024-06-30")
	a := newTestInvoice(t, c.ID, "INV-011", "100", "2024-06-01", "2024-06-30")
	earlier := newTestInvoice(t, c.ID, "INV-020", "100", "2024-05-01", "2024-06-23")

	rules := DefaultReminderSettings()
	rules.EnableEmail = false
	got, err := s.RemindersDue([]Customer{c}, []Invoice{paid, b, a, earlier}, rules, day("2024-06-30"))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "INV-020", got[0].InvoiceNumber)
	assert.Equal(t, "INV-011", got[1].InvoiceNumber)
	assert.Equal(t, "INV-012", got[2].InvoiceNumber)
	assert.Contains(t, got[0].Message, "overdue by 7 days")
}

func TestRemindersDue_Errors(t *testing.T) {
	s := newScheduler(t)
	inv := newTestInvoice(t, uuid.New(), "INV-001", "100", "2024-06-01", "2024-06-30")

	_, err := s.RemindersDue(nil, []Invoice{inv}, DefaultReminderSettings(), day("2024-06-30"))
	assert.True(t, shared.IsValidation(err))

	none := DefaultReminderSettings()
	none.EnableWhatsApp, none.EnableEmail = false, false
	got, err := s.RemindersDue(nil, []Invoice{inv}, none, day("2024-06-30"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewReminderScheduler_CustomTemplate(t *testing.T) {
	s, err := NewReminderScheduler("{{.InvoiceNumber}}: {{.Currency}} {{.Balance}} {{.DueText}}")
	require.NoError(t, err)
	c := newTestCustomer(t, "Deepa")
	inv := newTestInvoice(t, c.ID, "INV-9", "1234567.5", "2024-06-01", "2024-07-03")

	got, err := s.RemindersDue([]Customer{c}, []Invoice{inv}, DefaultReminderSettings(), day("2024-06-30"))
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "INV-9: INR 1,234,567.50 due in 3 days", got[0].Message)

	_, err = NewReminderScheduler("{{.Broken")
	assert.True(t, shared.IsConfiguration(err))
}
