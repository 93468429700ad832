package receivables

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/printpay/receivables/internal/domain/receivables"
	"github.com/printpay/receivables/internal/infrastructure/telemetry"
)

const (
	dashboardTopDebtors = 5
	dashboardMonths     = 6
)

// Dashboard is the collections overview for one day
type Dashboard struct {
	Summary            receivables.Summary             `json:"summary"`
	Ageing             receivables.AgeingReport        `json:"ageing"`
	TopDebtors         []receivables.CustomerExposure  `json:"top_debtors"`
	MonthlyCollections []receivables.MonthlyCollection `json:"monthly_collections"`
	DuePDCs            []receivables.Payment           `json:"due_pdcs"`
	FollowUpsDue       []receivables.FollowUp          `json:"follow_ups_due"`
}

// Ageing buckets the tenant's outstanding balances as of a day
func (s *CollectionService) Ageing(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (receivables.AgeingReport, error) {
	invoices, err := s.invoices.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return receivables.AgeingReport{}, fmt.Errorf("failed to list invoices: %w", err)
	}
	return receivables.AgeingBuckets(invoices, asOf), nil
}

// MonthlyCollections sums realized payments for the months ending with asOf
func (s *CollectionService) MonthlyCollections(ctx context.Context, tenantID uuid.UUID, asOf time.Time, months int) ([]receivables.MonthlyCollection, error) {
	invoices, err := s.invoices.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return receivables.MonthlyCollections(receivables.PaymentsOf(invoices), asOf, months), nil
}

// CustomerRisk scores one customer
func (s *CollectionService) CustomerRisk(ctx context.Context, tenantID, customerID uuid.UUID, asOf time.Time) (*receivables.RiskScore, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "collection", "customer_risk")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrCustomerID, customerID.String())

	customer, err := s.customers.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	invoices, err := s.invoices.FindByCustomer(ctx, tenantID, customerID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	followUps, err := s.followUps.FindByCustomer(ctx, tenantID, customerID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to list follow-ups: %w", err)
	}

	score := receivables.ScoreCustomer(*customer, invoices, followUps, asOf)
	return &score, nil
}

// RiskBoard scores every customer of the tenant, riskiest first. Customers
// are scored concurrently over a shared read-only snapshot.
func (s *CollectionService) RiskBoard(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]receivables.RiskScore, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "collection", "risk_board")
	defer span.End()

	customers, invoices, err := s.loadBook(ctx, tenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load receivables: %w", err)
	}
	followUps, err := s.followUps.FindAllForTenant(ctx, tenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to list follow-ups: %w", err)
	}

	invoicesBy := make(map[uuid.UUID][]receivables.Invoice, len(customers))
	for _, inv := range invoices {
		invoicesBy[inv.CustomerID] = append(invoicesBy[inv.CustomerID], inv)
	}
	followUpsBy := make(map[uuid.UUID][]receivables.FollowUp, len(customers))
	for _, f := range followUps {
		followUpsBy[f.CustomerID] = append(followUpsBy[f.CustomerID], f)
	}

	scores := make([]receivables.RiskScore, len(customers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.riskWorkers)
	for i, c := range customers {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scores[i] = receivables.ScoreCustomer(c, invoicesBy[c.ID], followUpsBy[c.ID], asOf)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score < scores[j].Score
		}
		return scores[i].Outstanding.GreaterThan(scores[j].Outstanding)
	})
	telemetry.SetAttributes(span, telemetry.SpanAttrCount, len(scores))
	return scores, nil
}

// RemindersDue computes the reminders due on asOf under the tenant's settings
func (s *CollectionService) RemindersDue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]receivables.Reminder, error) {
	settings, err := s.GetReminderSettings(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	customers, invoices, err := s.loadBook(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load receivables: %w", err)
	}
	return s.reminders.RemindersDue(customers, invoices, settings, asOf)
}

// Dashboard assembles the collections overview
func (s *CollectionService) Dashboard(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (*Dashboard, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "collection", "dashboard")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrAsOf, receivables.DateOnly(asOf).Format(time.DateOnly))

	customers, invoices, err := s.loadBook(ctx, tenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load receivables: %w", err)
	}
	followUps, err := s.followUps.FindAllForTenant(ctx, tenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to list follow-ups: %w", err)
	}

	payments := receivables.PaymentsOf(invoices)
	return &Dashboard{
		Summary:            receivables.Summarize(invoices, asOf),
		Ageing:             receivables.AgeingBuckets(invoices, asOf),
		TopDebtors:         receivables.CustomerOutstanding(customers, invoices, dashboardTopDebtors),
		MonthlyCollections: receivables.MonthlyCollections(payments, asOf, dashboardMonths),
		DuePDCs:            receivables.DuePDCs(payments, asOf),
		FollowUpsDue:       receivables.FollowUpsDue(followUps, asOf),
	}, nil
}

// Calendar lists unpaid invoices and follow-ups per day of a month
func (s *CollectionService) Calendar(ctx context.Context, tenantID uuid.UUID, year int, month time.Month) ([]receivables.CalendarDay, error) {
	invoices, err := s.invoices.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	followUps, err := s.followUps.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list follow-ups: %w", err)
	}
	return receivables.CalendarMonth(invoices, followUps, year, month), nil
}
