package receivables

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceView is an invoice together with its values derived for one day
type InvoiceView struct {
	Invoice
	Status      InvoiceStatus   `json:"status"`
	Balance     decimal.Decimal `json:"balance"`
	DaysOverdue int             `json:"days_overdue"`
}

// ViewOf derives the read view of an invoice as of a day
func ViewOf(inv Invoice, asOf time.Time) InvoiceView {
	return InvoiceView{
		Invoice:     inv.clone(),
		Status:      DeriveStatus(inv, asOf),
		Balance:     inv.Balance(),
		DaysOverdue: inv.DaysOverdue(asOf),
	}
}

// Summary holds the headline receivables figures
type Summary struct {
	AsOf             time.Time       `json:"as_of"`
	TotalInvoiced    decimal.Decimal `json:"total_invoiced"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	TotalOverdue     decimal.Decimal `json:"total_overdue"`
	OpenInvoices     int             `json:"open_invoices"`
	OverdueInvoices  int             `json:"overdue_invoices"`
}

// Summarize totals invoiced, paid, outstanding and overdue amounts
func Summarize(invoices []Invoice, asOf time.Time) Summary {
	s := Summary{
		AsOf:             DateOnly(asOf),
		TotalInvoiced:    decimal.Zero,
		TotalPaid:        decimal.Zero,
		TotalOutstanding: decimal.Zero,
		TotalOverdue:     decimal.Zero,
	}
	for _, inv := range liveInvoices(invoices) {
		s.TotalInvoiced = s.TotalInvoiced.Add(inv.Amount)
		s.TotalPaid = s.TotalPaid.Add(Settle(inv).PaidAmount)
		balance := inv.Balance()
		s.TotalOutstanding = s.TotalOutstanding.Add(balance)
		switch DeriveStatus(inv, asOf) {
		case InvoiceStatusPaid:
		case InvoiceStatusOverdue:
			s.OpenInvoices++
			s.OverdueInvoices++
			s.TotalOverdue = s.TotalOverdue.Add(balance)
		default:
			s.OpenInvoices++
		}
	}
	return s
}

// CustomerExposure is one customer's paid and outstanding totals
type CustomerExposure struct {
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	CompanyName  string          `json:"company_name"`
	Invoiced     decimal.Decimal `json:"invoiced"`
	Paid         decimal.Decimal `json:"paid"`
	Outstanding  decimal.Decimal `json:"outstanding"`
}

// CustomerOutstanding returns per-customer totals, largest outstanding
// first. A limit of zero or less returns every customer with invoices.
func CustomerOutstanding(customers []Customer, invoices []Invoice, limit int) []CustomerExposure {
	byID := customerIndex(customers)
	totals := make(map[uuid.UUID]*CustomerExposure)
	var order []uuid.UUID
	for _, inv := range liveInvoices(invoices) {
		e, ok := totals[inv.CustomerID]
		if !ok {
			c := byID[inv.CustomerID]
			e = &CustomerExposure{
				CustomerID:   inv.CustomerID,
				CustomerName: c.ContactName(),
				CompanyName:  c.CompanyName,
				Invoiced:     decimal.Zero,
				Paid:         decimal.Zero,
				Outstanding:  decimal.Zero,
			}
			totals[inv.CustomerID] = e
			order = append(order, inv.CustomerID)
		}
		e.Invoiced = e.Invoiced.Add(inv.Amount)
		e.Paid = e.Paid.Add(Settle(inv).PaidAmount)
		e.Outstanding = e.Outstanding.Add(inv.Balance())
	}

	out := make([]CustomerExposure, 0, len(order))
	for _, id := range order {
		out = append(out, *totals[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Outstanding.Equal(out[j].Outstanding) {
			return out[i].Outstanding.GreaterThan(out[j].Outstanding)
		}
		return out[i].CustomerName < out[j].CustomerName
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// FollowUpsDue returns follow-ups whose next follow-up date is asOf
func FollowUpsDue(followUps []FollowUp, asOf time.Time) []FollowUp {
	due := []FollowUp{}
	for _, f := range followUps {
		if f.NextFollowUpDate != nil && SameDay(*f.NextFollowUpDate, asOf) {
			due = append(due, f)
		}
	}
	return due
}

// CalendarDay lists what falls on one day of a month
type CalendarDay struct {
	Date      time.Time     `json:"date"`
	Invoices  []InvoiceView `json:"invoices"`
	FollowUps []FollowUp    `json:"follow_ups"`
}

// CalendarMonth returns, for every day of the month, the unpaid invoices due
// that day and the follow-ups scheduled for it. Days with nothing on them are
// omitted.
func CalendarMonth(invoices []Invoice, followUps []FollowUp, year int, month time.Month) []CalendarDay {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()
	cal := make([]CalendarDay, days)
	for i := range cal {
		cal[i].Date = first.AddDate(0, 0, i)
	}
	inMonth := func(t time.Time) (int, bool) {
		d := DateOnly(t)
		if d.Year() != year || d.Month() != month {
			return 0, false
		}
		return d.Day() - 1, true
	}

	for _, inv := range liveInvoices(invoices) {
		if !inv.Balance().IsPositive() {
			continue
		}
		if i, ok := inMonth(inv.DueDate); ok {
			cal[i].Invoices = append(cal[i].Invoices, ViewOf(inv, cal[i].Date))
		}
	}
	for _, f := range followUps {
		if f.NextFollowUpDate == nil {
			continue
		}
		if i, ok := inMonth(*f.NextFollowUpDate); ok {
			cal[i].FollowUps = append(cal[i].FollowUps, f)
		}
	}

	out := []CalendarDay{}
	for _, d := range cal {
		if len(d.Invoices) > 0 || len(d.FollowUps) > 0 {
			out = append(out, d)
		}
	}
	return out
}

// StatusUnpaid is a filter value matching every status except Paid
const StatusUnpaid = "Unpaid"

// InvoiceFilter selects invoices for listing
type InvoiceFilter struct {
	Status     string
	CustomerID *uuid.UUID
	Search     string
}

// FilterInvoices returns the views of invoices matching the filter, newest
// invoice date first.
func FilterInvoices(invoices []Invoice, asOf time.Time, f InvoiceFilter) []InvoiceView {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := []InvoiceView{}
	for _, inv := range liveInvoices(invoices) {
		if f.CustomerID != nil && inv.CustomerID != *f.CustomerID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(inv.InvoiceNumber), search) &&
			!strings.Contains(strings.ToLower(inv.JobName), search) {
			continue
		}
		view := ViewOf(inv, asOf)
		switch f.Status {
		case "":
		case StatusUnpaid:
			if view.Status == InvoiceStatusPaid {
				continue
			}
		default:
			if string(view.Status) != f.Status {
				continue
			}
		}
		out = append(out, view)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].InvoiceNumber > out[j].InvoiceNumber
	})
	return out
}
