package receivables

import (
	"fmt"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printpay/receivables/internal/domain/shared"
	"github.com/printpay/receivables/internal/domain/shared/valueobject"
)

// ReminderKind says why a reminder fell due
type ReminderKind string

const (
	ReminderBeforeDue     ReminderKind = "BeforeDue"
	ReminderOnDue         ReminderKind = "OnDue"
	ReminderOverdueRepeat ReminderKind = "OverdueRepeat"
)

// DefaultReminderTemplate is the message used when none is configured
const DefaultReminderTemplate = "Dear {{.ContactName}}, your invoice {{.InvoiceNumber}} for {{.Currency}} {{.Balance}} is {{.DueText}}. Please arrange payment."

// Reminder is a notification intent for one (customer, invoice, channel).
// Nothing is sent by the engine.
type Reminder struct {
	CustomerID    uuid.UUID            `json:"customer_id"`
	CustomerName  string               `json:"customer_name"`
	InvoiceID     uuid.UUID            `json:"invoice_id"`
	InvoiceNumber string               `json:"invoice_number"`
	Channel       Channel              `json:"channel"`
	Recipient     string               `json:"recipient"`
	Kind          ReminderKind         `json:"kind"`
	DueDate       time.Time            `json:"due_date"`
	DaysUntilDue  int                  `json:"days_until_due"`
	Balance       decimal.Decimal      `json:"balance"`
	Currency      valueobject.Currency `json:"currency"`
	Message       string               `json:"message"`
}

// reminderData is the template context for reminder messages
type reminderData struct {
	ContactName   string
	CompanyName   string
	InvoiceNumber string
	Currency      string
	Balance       string
	DueDate       string
	DueText       string
	DaysOverdue   int
}

// ReminderScheduler decides which reminders are due on a given day and
// renders their text.
type ReminderScheduler struct {
	tmpl *template.Template
}

// NewReminderScheduler creates a scheduler rendering messages with the given
// text/template. An empty template selects DefaultReminderTemplate.
func NewReminderScheduler(messageTemplate string) (*ReminderScheduler, error) {
	if strings.TrimSpace(messageTemplate) == "" {
		messageTemplate = DefaultReminderTemplate
	}
	tmpl, err := template.New("reminder").Option("missingkey=error").Parse(messageTemplate)
	if err != nil {
		return nil, shared.NewConfigurationError("INVALID_CONFIGURATION", "invalid reminder template: "+err.Error())
	}
	return &ReminderScheduler{tmpl: tmpl}, nil
}

// ReminderKindFor returns the kind of reminder due for an invoice that is
// daysUntilDue days from its due date, or false if none is due that day.
// Before-due fires on exactly one day. On-due wins when both match.
func ReminderKindFor(daysUntilDue int, rules ReminderSettings) (ReminderKind, bool) {
	switch {
	case daysUntilDue == 0 && rules.RemindOnDue:
		return ReminderOnDue, true
	case daysUntilDue >= 0 && daysUntilDue == rules.DaysBeforeDue:
		return ReminderBeforeDue, true
	case daysUntilDue < 0 && rules.DaysAfterDueRepeat > 0 && (-daysUntilDue)%rules.DaysAfterDueRepeat == 0:
		return ReminderOverdueRepeat, true
	}
	return "", false
}

// RemindersDue returns the reminders due on asOf, one per enabled channel
// for each eligible invoice with a positive balance. Results are ordered by
// due date, invoice number and channel. An invoice referencing an unknown
// customer is a validation error.
func (s *ReminderScheduler) RemindersDue(customers []Customer, invoices []Invoice, rules ReminderSettings, asOf time.Time) ([]Reminder, error) {
	channels := rules.EnabledChannels()
	reminders := []Reminder{}
	if len(channels) == 0 {
		return reminders, nil
	}
	byID := customerIndex(customers)

	for _, inv := range liveInvoices(invoices) {
		balance := inv.Balance()
		if !balance.IsPositive() {
			continue
		}
		daysUntil := DaysBetween(asOf, inv.DueDate)
		kind, ok := ReminderKindFor(daysUntil, rules)
		if !ok {
			continue
		}
		customer, found := byID[inv.CustomerID]
		if !found {
			return nil, shared.NewValidationError("NOT_FOUND",
				fmt.Sprintf("Invoice %s references unknown customer %s", inv.InvoiceNumber, inv.CustomerID))
		}

		message, err := s.render(customer, inv, balance, daysUntil)
		if err != nil {
			return nil, err
		}
		for _, ch := range channels {
			reminders = append(reminders, Reminder{
				CustomerID:    customer.ID,
				CustomerName:  customer.ContactName(),
				InvoiceID:     inv.ID,
				InvoiceNumber: inv.InvoiceNumber,
				Channel:       ch,
				Recipient:     recipientFor(customer, ch),
				Kind:          kind,
				DueDate:       inv.DueDate,
				DaysUntilDue:  daysUntil,
				Balance:       balance,
				Currency:      inv.Currency,
				Message:       message,
			})
		}
	}

	sort.SliceStable(reminders, func(i, j int) bool {
		a, b := reminders[i], reminders[j]
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		if a.InvoiceNumber != b.InvoiceNumber {
			return a.InvoiceNumber < b.InvoiceNumber
		}
		return channelRank(a.Channel) < channelRank(b.Channel)
	})
	return reminders, nil
}

func (s *ReminderScheduler) render(c Customer, inv Invoice, balance decimal.Decimal, daysUntil int) (string, error) {
	data := reminderData{
		ContactName:   c.ContactName(),
		CompanyName:   c.CompanyName,
		InvoiceNumber: inv.InvoiceNumber,
		Currency:      string(inv.Currency),
		Balance:       valueobject.FormatAmount(balance),
		DueDate:       inv.DueDate.Format("02 Jan 2006"),
		DueText:       dueText(daysUntil),
		DaysOverdue:   max(0, -daysUntil),
	}
	var sb strings.Builder
	if err := s.tmpl.Execute(&sb, data); err != nil {
		return "", shared.NewConfigurationError("INVALID_CONFIGURATION", "render reminder: "+err.Error())
	}
	return sb.String(), nil
}

func dueText(daysUntil int) string {
	switch {
	case daysUntil == 0:
		return "due today"
	case daysUntil == 1:
		return "due tomorrow"
	case daysUntil > 1:
		return fmt.Sprintf("due in %d days", daysUntil)
	case daysUntil == -1:
		return "overdue by 1 day"
	default:
		return fmt.Sprintf("overdue by %d days", -daysUntil)
	}
}

func recipientFor(c Customer, ch Channel) string {
	if ch == ChannelEmail {
		return c.Email
	}
	return c.Mobile
}

func channelRank(ch Channel) int {
	switch ch {
	case ChannelWhatsApp:
		return 0
	case ChannelEmail:
		return 1
	default:
		return 2
	}
}
