package receivables

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AgeingBucket names a days-past-due range
type AgeingBucket string

const (
	// BucketCurrent covers invoices not yet due through 30 days overdue
	BucketCurrent AgeingBucket = "Current/0-30"
	Bucket31To60  AgeingBucket = "31-60"
	Bucket61To90  AgeingBucket = "61-90"
	BucketOver90  AgeingBucket = "90+"
)

// BucketOrder lists the buckets in reporting order
var BucketOrder = []AgeingBucket{BucketCurrent, Bucket31To60, Bucket61To90, BucketOver90}

// BucketFor classifies a days-past-due count
func BucketFor(daysPastDue int) AgeingBucket {
	switch {
	case daysPastDue <= 30:
		return BucketCurrent
	case daysPastDue <= 60:
		return Bucket31To60
	case daysPastDue <= 90:
		return Bucket61To90
	default:
		return BucketOver90
	}
}

// BucketTotal is the outstanding balance falling in one bucket
type BucketTotal struct {
	Bucket   AgeingBucket    `json:"bucket"`
	Amount   decimal.Decimal `json:"amount"`
	Invoices int             `json:"invoices"`
}

// AgeingReport partitions total outstanding across the ageing buckets.
// The bucket amounts always sum to Total.
type AgeingReport struct {
	AsOf    time.Time       `json:"as_of"`
	Buckets []BucketTotal   `json:"buckets"`
	Total   decimal.Decimal `json:"total"`
}

// Amount returns the total for the named bucket
func (r AgeingReport) Amount(bucket AgeingBucket) decimal.Decimal {
	for _, b := range r.Buckets {
		if b.Bucket == bucket {
			return b.Amount
		}
	}
	return decimal.Zero
}

// AgeingBuckets buckets every invoice with a positive balance by days past due
func AgeingBuckets(invoices []Invoice, asOf time.Time) AgeingReport {
	totals := make(map[AgeingBucket]*BucketTotal, len(BucketOrder))
	report := AgeingReport{AsOf: DateOnly(asOf), Total: decimal.Zero}
	for _, b := range BucketOrder {
		report.Buckets = append(report.Buckets, BucketTotal{Bucket: b, Amount: decimal.Zero})
	}
	for i := range report.Buckets {
		totals[report.Buckets[i].Bucket] = &report.Buckets[i]
	}

	for _, inv := range liveInvoices(invoices) {
		balance := inv.Balance()
		if !balance.IsPositive() {
			continue
		}
		bt := totals[BucketFor(inv.DaysOverdue(asOf))]
		bt.Amount = bt.Amount.Add(balance)
		bt.Invoices++
		report.Total = report.Total.Add(balance)
	}
	return report
}

// MonthlyCollection is the cash realized in one calendar month
type MonthlyCollection struct {
	Year   int             `json:"year"`
	Month  time.Month      `json:"month"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// MonthlyCollections sums payments per calendar month for the monthsBack
// months ending with asOf's month, oldest first. Bounced cheques are
// excluded; collections report only cash that was realized.
func MonthlyCollections(payments []Payment, asOf time.Time, monthsBack int) []MonthlyCollection {
	if monthsBack <= 0 {
		return []MonthlyCollection{}
	}
	first := monthStart(asOf).AddDate(0, -(monthsBack - 1), 0)
	out := make([]MonthlyCollection, monthsBack)
	for i := range out {
		m := first.AddDate(0, i, 0)
		out[i] = MonthlyCollection{
			Year:   m.Year(),
			Month:  m.Month(),
			Label:  fmt.Sprintf("%s %d", m.Month().String()[:3], m.Year()),
			Amount: decimal.Zero,
		}
	}

	for _, p := range payments {
		if p.IsBounced() {
			continue
		}
		pm := monthStart(p.Date)
		if pm.Before(first) {
			continue
		}
		idx := (pm.Year()-first.Year())*12 + int(pm.Month()) - int(first.Month())
		if idx >= monthsBack {
			continue
		}
		out[idx].Amount = out[idx].Amount.Add(p.Amount)
	}
	return out
}
