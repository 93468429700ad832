package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printpay/receivables/internal/domain/receivables"
	"github.com/printpay/receivables/internal/domain/shared/valueobject"
)

// CustomerModel is the persistence model for customers
type CustomerModel struct {
	TenantModel
	Name        string          `gorm:"type:varchar(200)"`
	CompanyName string          `gorm:"type:varchar(200)"`
	Mobile      string          `gorm:"type:varchar(30)"`
	Email       string          `gorm:"type:varchar(200)"`
	City        string          `gorm:"type:varchar(100)"`
	Address     string          `gorm:"type:text"`
	GSTIN       string          `gorm:"column:gstin;type:varchar(15)"`
	Notes       string          `gorm:"type:text"`
	CreditLimit decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Tags        string          `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the model to a domain Customer
func (m *CustomerModel) ToDomain() receivables.Customer {
	c := receivables.Customer{
		TenantEntity: m.TenantModel.ToDomain(),
		Name:         m.Name,
		CompanyName:  m.CompanyName,
		Mobile:       m.Mobile,
		Email:        m.Email,
		City:         m.City,
		Address:      m.Address,
		GSTIN:        m.GSTIN,
		Notes:        m.Notes,
		CreditLimit:  m.CreditLimit,
		Tags:         []receivables.JobType{},
	}
	for _, tag := range strings.Split(m.Tags, ",") {
		if tag != "" {
			c.Tags = append(c.Tags, receivables.JobType(tag))
		}
	}
	return c
}

// CustomerModelFromDomain builds a model from a domain Customer
func CustomerModelFromDomain(c *receivables.Customer) *CustomerModel {
	m := &CustomerModel{
		Name:        c.Name,
		CompanyName: c.CompanyName,
		Mobile:      c.Mobile,
		Email:       c.Email,
		City:        c.City,
		Address:     c.Address,
		GSTIN:       c.GSTIN,
		Notes:       c.Notes,
		CreditLimit: c.CreditLimit,
	}
	m.TenantModel.FromDomain(c.TenantEntity)
	tags := make([]string, len(c.Tags))
	for i, t := range c.Tags {
		tags[i] = string(t)
	}
	m.Tags = strings.Join(tags, ",")
	return m
}

// InvoiceModel is the persistence model for invoices. Status is derived on
// read and never stored.
type InvoiceModel struct {
	TenantModel
	InvoiceNumber string          `gorm:"type:varchar(50);not null"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Date          time.Time       `gorm:"type:date;not null"`
	DueDate       time.Time       `gorm:"type:date;not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	AdvanceCredit decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Currency      string          `gorm:"type:varchar(3);not null;default:'INR'"`
	JobName       string          `gorm:"type:varchar(200)"`
	JobType       string          `gorm:"type:varchar(30)"`
	Notes         string          `gorm:"type:text"`
	DeletedAt     *time.Time      `gorm:"index"`
	Payments      []PaymentModel  `gorm:"foreignKey:InvoiceID"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the model and its loaded payments to a domain Invoice
func (m *InvoiceModel) ToDomain() receivables.Invoice {
	inv := receivables.Invoice{
		TenantEntity:  m.TenantModel.ToDomain(),
		InvoiceNumber: m.InvoiceNumber,
		CustomerID:    m.CustomerID,
		Date:          receivables.DateOnly(m.Date),
		DueDate:       receivables.DateOnly(m.DueDate),
		Amount:        m.Amount,
		PaidAmount:    m.PaidAmount,
		AdvanceCredit: m.AdvanceCredit,
		Currency:      valueobject.Currency(m.Currency),
		JobName:       m.JobName,
		JobType:       receivables.JobType(m.JobType),
		Notes:         m.Notes,
		Payments:      make([]receivables.Payment, len(m.Payments)),
		DeletedAt:     m.DeletedAt,
	}
	for i := range m.Payments {
		inv.Payments[i] = m.Payments[i].ToDomain()
	}
	return inv
}

// InvoiceModelFromDomain builds an invoice model and its payment models
func InvoiceModelFromDomain(inv *receivables.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		InvoiceNumber: inv.InvoiceNumber,
		CustomerID:    inv.CustomerID,
		Date:          inv.Date,
		DueDate:       inv.DueDate,
		Amount:        inv.Amount,
		PaidAmount:    inv.PaidAmount,
		AdvanceCredit: inv.AdvanceCredit,
		Currency:      string(inv.Currency),
		JobName:       inv.JobName,
		JobType:       string(inv.JobType),
		Notes:         inv.Notes,
		DeletedAt:     inv.DeletedAt,
		Payments:      make([]PaymentModel, len(inv.Payments)),
	}
	m.TenantModel.FromDomain(inv.TenantEntity)
	for i := range inv.Payments {
		m.Payments[i] = *PaymentModelFromDomain(&inv.Payments[i])
	}
	return m
}

// PaymentModel is the persistence model for payments. Cheque columns are
// null for non-cheque payments.
type PaymentModel struct {
	TenantModel
	InvoiceID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Date         time.Time       `gorm:"type:date;not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Mode         string          `gorm:"type:varchar(20);not null"`
	Reference    string          `gorm:"type:varchar(100)"`
	Notes        string          `gorm:"type:text"`
	ChequeNumber *string         `gorm:"type:varchar(30)"`
	BankName     *string         `gorm:"type:varchar(100)"`
	DepositDate  *time.Time      `gorm:"type:date;index"`
	ChequeStatus *string         `gorm:"type:varchar(20);index"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the model to a domain Payment
func (m *PaymentModel) ToDomain() receivables.Payment {
	p := receivables.Payment{
		TenantEntity: m.TenantModel.ToDomain(),
		InvoiceID:    m.InvoiceID,
		CustomerID:   m.CustomerID,
		Date:         receivables.DateOnly(m.Date),
		Amount:       m.Amount,
		Mode:         receivables.PaymentMode(m.Mode),
		Reference:    m.Reference,
		Notes:        m.Notes,
	}
	if m.ChequeNumber != nil {
		p.Cheque = &receivables.ChequeDetails{ChequeNumber: *m.ChequeNumber}
		if m.BankName != nil {
			p.Cheque.BankName = *m.BankName
		}
		if m.DepositDate != nil {
			p.Cheque.DepositDate = receivables.DateOnly(*m.DepositDate)
		}
		if m.ChequeStatus != nil {
			p.Cheque.Status = receivables.ChequeStatus(*m.ChequeStatus)
		}
	}
	return p
}

// PaymentModelFromDomain builds a model from a domain Payment
func PaymentModelFromDomain(p *receivables.Payment) *PaymentModel {
	m := &PaymentModel{
		InvoiceID:  p.InvoiceID,
		CustomerID: p.CustomerID,
		Date:       p.Date,
		Amount:     p.Amount,
		Mode:       string(p.Mode),
		Reference:  p.Reference,
		Notes:      p.Notes,
	}
	m.TenantModel.FromDomain(p.TenantEntity)
	if p.Cheque != nil {
		number := p.Cheque.ChequeNumber
		bank := p.Cheque.BankName
		deposit := p.Cheque.DepositDate
		status := string(p.Cheque.Status)
		m.ChequeNumber = &number
		m.BankName = &bank
		m.DepositDate = &deposit
		m.ChequeStatus = &status
	}
	return m
}

// FollowUpModel is the persistence model for follow-up log entries
type FollowUpModel struct {
	TenantModel
	CustomerID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	InvoiceID        *uuid.UUID `gorm:"type:uuid;index"`
	Date             time.Time  `gorm:"type:date;not null"`
	Mode             string     `gorm:"type:varchar(20);not null"`
	Status           string     `gorm:"type:varchar(20);not null"`
	NextFollowUpDate *time.Time `gorm:"type:date;index"`
	Notes            string     `gorm:"type:text"`
	ContactPerson    string     `gorm:"type:varchar(200)"`
	Location         string     `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (FollowUpModel) TableName() string {
	return "follow_ups"
}

// ToDomain converts the model to a domain FollowUp
func (m *FollowUpModel) ToDomain() receivables.FollowUp {
	f := receivables.FollowUp{
		TenantEntity:  m.TenantModel.ToDomain(),
		CustomerID:    m.CustomerID,
		InvoiceID:     m.InvoiceID,
		Date:          receivables.DateOnly(m.Date),
		Mode:          receivables.FollowUpMode(m.Mode),
		Status:        receivables.FollowUpStatus(m.Status),
		Notes:         m.Notes,
		ContactPerson: m.ContactPerson,
		Location:      m.Location,
	}
	if m.NextFollowUpDate != nil {
		next := receivables.DateOnly(*m.NextFollowUpDate)
		f.NextFollowUpDate = &next
	}
	return f
}

// FollowUpModelFromDomain builds a model from a domain FollowUp
func FollowUpModelFromDomain(f *receivables.FollowUp) *FollowUpModel {
	m := &FollowUpModel{
		CustomerID:       f.CustomerID,
		InvoiceID:        f.InvoiceID,
		Date:             f.Date,
		Mode:             string(f.Mode),
		Status:           string(f.Status),
		NextFollowUpDate: f.NextFollowUpDate,
		Notes:            f.Notes,
		ContactPerson:    f.ContactPerson,
		Location:         f.Location,
	}
	m.TenantModel.FromDomain(f.TenantEntity)
	return m
}

// ReminderSettingsModel stores one row of reminder settings per tenant
type ReminderSettingsModel struct {
	TenantID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	DaysBeforeDue      int       `gorm:"not null"`
	RemindOnDue        bool      `gorm:"not null"`
	DaysAfterDueRepeat int       `gorm:"not null"`
	EnableWhatsApp     bool      `gorm:"column:enable_whatsapp;not null"`
	EnableEmail        bool      `gorm:"not null"`
	EnableSMS          bool      `gorm:"column:enable_sms;not null"`
	UpdatedAt          time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReminderSettingsModel) TableName() string {
	return "reminder_settings"
}

// ToDomain converts the model to domain ReminderSettings
func (m *ReminderSettingsModel) ToDomain() receivables.ReminderSettings {
	return receivables.ReminderSettings{
		DaysBeforeDue:      m.DaysBeforeDue,
		RemindOnDue:        m.RemindOnDue,
		DaysAfterDueRepeat: m.DaysAfterDueRepeat,
		EnableWhatsApp:     m.EnableWhatsApp,
		EnableEmail:        m.EnableEmail,
		EnableSMS:          m.EnableSMS,
	}
}

// ReminderSettingsModelFromDomain builds a model for a tenant's settings
func ReminderSettingsModelFromDomain(tenantID uuid.UUID, s receivables.ReminderSettings, at time.Time) *ReminderSettingsModel {
	return &ReminderSettingsModel{
		TenantID:           tenantID,
		DaysBeforeDue:      s.DaysBeforeDue,
		RemindOnDue:        s.RemindOnDue,
		DaysAfterDueRepeat: s.DaysAfterDueRepeat,
		EnableWhatsApp:     s.EnableWhatsApp,
		EnableEmail:        s.EnableEmail,
		EnableSMS:          s.EnableSMS,
		UpdatedAt:          at,
	}
}

// All returns every model for AutoMigrate
func All() []any {
	return []any{
		&CustomerModel{},
		&InvoiceModel{},
		&PaymentModel{},
		&FollowUpModel{},
		&ReminderSettingsModel{},
	}
}
