package receivables

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/printpay/receivables/internal/domain/receivables"
	"github.com/printpay/receivables/internal/domain/shared"
	"github.com/printpay/receivables/internal/infrastructure/telemetry"
)

// CreateCustomer registers a customer
func (s *CollectionService) CreateCustomer(ctx context.Context, tenantID uuid.UUID, details receivables.CustomerDetails) (*receivables.Customer, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "collection", "create_customer")
	defer span.End()

	customer, err := receivables.NewCustomer(tenantID, details, s.now())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.customers.Save(ctx, &customer); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	s.log(ctx).Info("customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("name", customer.ContactName()),
	)
	return &customer, nil
}

// UpdateCustomer replaces a customer's contact and credit details
func (s *CollectionService) UpdateCustomer(ctx context.Context, tenantID, customerID uuid.UUID, details receivables.CustomerDetails) (*receivables.Customer, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "collection", "update_customer")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrCustomerID, customerID.String())

	existing, err := s.customers.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	updated, err := existing.WithDetails(details, s.now())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.customers.Save(ctx, &updated); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}
	return &updated, nil
}

// DeleteCustomer removes a customer that owns no invoices
func (s *CollectionService) DeleteCustomer(ctx context.Context, tenantID, customerID uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "collection", "delete_customer")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrCustomerID, customerID.String())

	if _, err := s.customers.FindByIDForTenant(ctx, tenantID, customerID); err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	count, err := s.invoices.CountByCustomer(ctx, tenantID, customerID)
	if err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("failed to count invoices: %w", err)
	}
	if count > 0 {
		err := shared.NewDomainError("HAS_INVOICES",
			fmt.Sprintf("Customer has %d invoice(s) and cannot be deleted", count))
		telemetry.RecordError(span, err)
		return err
	}
	if err := s.customers.DeleteForTenant(ctx, tenantID, customerID); err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	s.log(ctx).Info("customer deleted", zap.String("customer_id", customerID.String()))
	return nil
}

// GetCustomer returns one customer
func (s *CollectionService) GetCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (*receivables.Customer, error) {
	return s.customers.FindByIDForTenant(ctx, tenantID, customerID)
}

// ListCustomers lists customers matching filter
func (s *CollectionService) ListCustomers(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]receivables.Customer, error) {
	return s.customers.FindAllForTenant(ctx, tenantID, filter)
}

// requireCustomer loads a customer referenced by another record. A missing
// customer is a validation error rather than a not-found.
func (s *CollectionService) requireCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (*receivables.Customer, error) {
	customer, err := s.customers.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewValidationError("NOT_FOUND", "Customer does not exist")
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}
