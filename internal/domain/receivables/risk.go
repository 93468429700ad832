package receivables

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Risk score bounds and penalties
const (
	MaxRiskScore = 5.0
	MinRiskScore = 0.0

	penaltyOverdue30     = 1.0
	penaltyOverdue90     = 3.0
	penaltyOverdueOver90 = 3.5
	penaltyPerBounce     = 0.5
	maxBouncePenalty     = 1.5
	penaltyCreditBreach  = 0.5
	bonusGoodPayer       = 0.5
	goodPayerMinInvoices = 3
)

// RiskSeverity drives the colour a score is displayed in
type RiskSeverity string

const (
	SeverityGreen  RiskSeverity = "green"
	SeverityOrange RiskSeverity = "orange"
	SeverityRed    RiskSeverity = "red"
)

// Risk labels
const (
	RiskLabelGood     = "Good"
	RiskLabelWatch    = "Watch"
	RiskLabelHighRisk = "High Risk"
)

// RiskScore is a customer's payment-risk rating with the reasons behind it
type RiskScore struct {
	CustomerID       uuid.UUID       `json:"customer_id"`
	CustomerName     string          `json:"customer_name"`
	Score            float64         `json:"score"`
	Label            string          `json:"label"`
	Severity         RiskSeverity    `json:"severity"`
	Outstanding      decimal.Decimal `json:"outstanding"`
	WorstDaysOverdue int             `json:"worst_days_overdue"`
	BouncedCheques   int             `json:"bounced_cheques"`
	Reasons          []string        `json:"reasons"`
}

// RiskLabel maps a score to its label and severity
func RiskLabel(score float64) (string, RiskSeverity) {
	switch {
	case score >= 4:
		return RiskLabelGood, SeverityGreen
	case score >= 2:
		return RiskLabelWatch, SeverityOrange
	default:
		return RiskLabelHighRisk, SeverityRed
	}
}

// ScoreCustomer rates a customer from 0 (worst) to 5 (best). Only invoices
// and follow-ups belonging to the customer are considered. Follow-ups add
// reasons but never change the score.
func ScoreCustomer(customer Customer, invoices []Invoice, followUps []FollowUp, asOf time.Time) RiskScore {
	result := RiskScore{
		CustomerID:   customer.ID,
		CustomerName: customer.ContactName(),
		Outstanding:  decimal.Zero,
		Reasons:      []string{},
	}

	var (
		worstInvoice string
		paidCount    int
		paidLate     bool
		bounced      = make(map[uuid.UUID]struct{})
	)
	for _, inv := range liveInvoices(invoices) {
		if inv.CustomerID != customer.ID {
			continue
		}
		for _, p := range inv.Payments {
			if p.IsBounced() {
				bounced[p.ID] = struct{}{}
			}
		}
		balance := inv.Balance()
		if balance.IsPositive() {
			result.Outstanding = result.Outstanding.Add(balance)
			if days := inv.DaysOverdue(asOf); days > result.WorstDaysOverdue {
				result.WorstDaysOverdue = days
				worstInvoice = inv.InvoiceNumber
			}
			continue
		}
		paidCount++
		if settled, ok := inv.SettledOn(); ok && DateOnly(settled).After(DateOnly(inv.DueDate)) {
			paidLate = true
		}
	}
	result.BouncedCheques = len(bounced)

	score := MaxRiskScore
	switch days := result.WorstDaysOverdue; {
	case days > 90:
		score -= penaltyOverdueOver90
	case days > 30:
		score -= penaltyOverdue90
	case days > 0:
		score -= penaltyOverdue30
	}
	if result.WorstDaysOverdue > 0 {
		result.Reasons = append(result.Reasons, fmt.Sprintf("Invoice %s overdue by %d days", worstInvoice, result.WorstDaysOverdue))
	}

	if result.BouncedCheques > 0 {
		score -= min(float64(result.BouncedCheques)*penaltyPerBounce, maxBouncePenalty)
		result.Reasons = append(result.Reasons, fmt.Sprintf("%d bounced cheque(s)", result.BouncedCheques))
	}

	if result.Outstanding.GreaterThan(customer.CreditLimit) {
		score -= penaltyCreditBreach
		result.Reasons = append(result.Reasons, "Outstanding exceeds credit limit")
	}

	if paidCount >= goodPayerMinInvoices && result.WorstDaysOverdue == 0 && !paidLate {
		score += bonusGoodPayer
		result.Reasons = append(result.Reasons, fmt.Sprintf("%d invoices paid on time", paidCount))
	}

	result.Reasons = append(result.Reasons, followUpReasons(customer.ID, followUps, asOf, result.WorstDaysOverdue > 0)...)

	result.Score = max(MinRiskScore, min(MaxRiskScore, score))
	result.Label, result.Severity = RiskLabel(result.Score)
	return result
}

func followUpReasons(customerID uuid.UUID, followUps []FollowUp, asOf time.Time, overdue bool) []string {
	var disputes, broken int
	today := DateOnly(asOf)
	for _, f := range followUps {
		if f.CustomerID != customerID {
			continue
		}
		if f.Status == FollowUpDispute {
			disputes++
		}
		if overdue && f.Status.IsPromise() && f.NextFollowUpDate != nil && f.NextFollowUpDate.Before(today) {
			broken++
		}
	}
	var reasons []string
	if disputes > 0 {
		reasons = append(reasons, fmt.Sprintf("%d dispute(s) logged", disputes))
	}
	if broken > 0 {
		reasons = append(reasons, fmt.Sprintf("%d payment promise(s) not kept", broken))
	}
	return reasons
}
