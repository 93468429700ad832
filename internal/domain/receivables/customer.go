package receivables

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printpay/receivables/internal/domain/shared"
)

// JobType is a print job category used to tag customers and invoices
type JobType string

const (
	JobTypeOffset      JobType = "Offset"
	JobTypeFlexo       JobType = "Flexo"
	JobTypeDigital     JobType = "Digital"
	JobTypePackaging   JobType = "Packaging"
	JobTypeLargeFormat JobType = "Large Format"
)

// IsValid checks if the job type is a known category
func (j JobType) IsValid() bool {
	switch j {
	case JobTypeOffset, JobTypeFlexo, JobTypeDigital, JobTypePackaging, JobTypeLargeFormat:
		return true
	}
	return false
}

// String returns the string representation of JobType
func (j JobType) String() string {
	return string(j)
}

// Customer is a party invoices are raised against. Customers never hold
// their invoices, payments or follow-ups; those reference the customer by ID.
type Customer struct {
	shared.TenantEntity
	Name        string          `json:"name"`
	CompanyName string          `json:"company_name"`
	Mobile      string          `json:"mobile"`
	Email       string          `json:"email"`
	City        string          `json:"city"`
	Address     string          `json:"address,omitempty"`
	GSTIN       string          `json:"gstin,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	Tags        []JobType       `json:"tags"`
}

// CustomerDetails holds the mutable contact and credit fields of a customer
type CustomerDetails struct {
	Name        string
	CompanyName string
	Mobile      string
	Email       string
	City        string
	Address     string
	GSTIN       string
	Notes       string
	CreditLimit decimal.Decimal
	Tags        []JobType
}

// NewCustomer registers a new customer
func NewCustomer(tenantID uuid.UUID, details CustomerDetails, at time.Time) (Customer, error) {
	if err := details.validate(); err != nil {
		return Customer{}, err
	}
	c := Customer{TenantEntity: shared.NewTenantEntity(tenantID, at)}
	c.apply(details)
	return c, nil
}

// WithDetails returns a copy of the customer with its contact and credit
// fields replaced. Identity is unchanged.
func (c Customer) WithDetails(details CustomerDetails, at time.Time) (Customer, error) {
	if err := details.validate(); err != nil {
		return Customer{}, err
	}
	c.apply(details)
	c.TenantEntity = c.TenantEntity.Touch(at)
	return c, nil
}

// ContactName returns the name reminders are addressed to
func (c Customer) ContactName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.CompanyName
}

func (c *Customer) apply(d CustomerDetails) {
	c.Name = strings.TrimSpace(d.Name)
	c.CompanyName = strings.TrimSpace(d.CompanyName)
	c.Mobile = strings.TrimSpace(d.Mobile)
	c.Email = strings.TrimSpace(d.Email)
	c.City = d.City
	c.Address = d.Address
	c.GSTIN = strings.ToUpper(strings.TrimSpace(d.GSTIN))
	c.Notes = d.Notes
	c.CreditLimit = d.CreditLimit
	c.Tags = append([]JobType(nil), d.Tags...)
}

func (d CustomerDetails) validate() error {
	if strings.TrimSpace(d.Name) == "" && strings.TrimSpace(d.CompanyName) == "" {
		return shared.NewValidationError("INVALID_INPUT", "Customer name or company name is required")
	}
	if d.CreditLimit.IsNegative() {
		return shared.NewValidationError("INVALID_AMOUNT", "Credit limit cannot be negative")
	}
	for _, tag := range d.Tags {
		if !tag.IsValid() {
			return shared.NewValidationError("INVALID_INPUT", "Unknown job type: "+string(tag))
		}
	}
	return nil
}

// customerIndex maps customer IDs to customers
func customerIndex(customers []Customer) map[uuid.UUID]Customer {
	idx := make(map[uuid.UUID]Customer, len(customers))
	for _, c := range customers {
		idx[c.ID] = c
	}
	return idx
}
