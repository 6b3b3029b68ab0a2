package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tms/backend/internal/domain/billing"
	"github.com/tms/backend/internal/domain/shared/valueobject"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
type InvoiceModel struct {
	TenantAggregateModel
	InvoiceNumber string                `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoice_tenant_number,priority:2"`
	CustomerID    uuid.UUID             `gorm:"type:uuid;not null;index"`
	OrderID       *uuid.UUID            `gorm:"type:uuid;index"`
	ShipmentID    *uuid.UUID            `gorm:"type:uuid;index"`
	Status        billing.InvoiceStatus `gorm:"type:invoice_status;not null;default:'draft';index"`
	Currency      valueobject.Currency  `gorm:"type:varchar(3);not null;default:'EUR'"`
	IssueDate     *time.Time            `gorm:"index"`
	DueDate       *time.Time            `gorm:"index"`
	PaidAmount    decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Notes         string                `gorm:"type:text"`

	Lines []InvoiceLineModel `gorm:"foreignKey:InvoiceID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoiceLineModel is the persistence model for an invoice line.
type InvoiceLineModel struct {
	BaseModel
	InvoiceID   uuid.UUID            `gorm:"type:uuid;not null;index"`
	LineNumber  int                  `gorm:"not null"`
	Description string               `gorm:"type:varchar(500);not null"`
	Quantity    decimal.Decimal      `gorm:"type:decimal(12,3);not null;default:1"`
	UnitPrice   decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Currency    valueobject.Currency `gorm:"type:varchar(3);not null;default:'EUR'"`
	VATRate     decimal.Decimal      `gorm:"type:decimal(5,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (InvoiceLineModel) TableName() string {
	return "invoice_lines"
}

// CarrierInvoiceModel is the persistence model for the CarrierInvoice aggregate root.
type CarrierInvoiceModel struct {
	TenantAggregateModel
	InvoiceNumber   string                       `gorm:"type:varchar(50);not null;uniqueIndex:idx_carrier_invoice_number,priority:3"`
	CarrierID       uuid.UUID                    `gorm:"type:uuid;not null;index;uniqueIndex:idx_carrier_invoice_number,priority:2"`
	Status          billing.CarrierInvoiceStatus `gorm:"type:carrier_invoice_status;not null;default:'received';index"`
	Currency        valueobject.Currency         `gorm:"type:varchar(3);not null;default:'EUR'"`
	InvoiceDate     time.Time                    `gorm:"not null"`
	ReceivedAt      time.Time                    `gorm:"not null"`
	ReviewedBy      *uuid.UUID                   `gorm:"type:uuid"`
	ApprovedBy      *uuid.UUID                   `gorm:"type:uuid"`
	DisputeReason   string                       `gorm:"type:varchar(500)"`
	RejectionReason string                       `gorm:"type:varchar(500)"`
	PaidAt          *time.Time

	Lines []CarrierInvoiceLineModel `gorm:"foreignKey:CarrierInvoiceID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (CarrierInvoiceModel) TableName() string {
	return "carrier_invoices"
}

// CarrierInvoiceLineModel is the persistence model for a carrier invoice line.
type CarrierInvoiceLineModel struct {
	BaseModel
	CarrierInvoiceID uuid.UUID               `gorm:"type:uuid;not null;index"`
	LineNumber       int                     `gorm:"not null"`
	Description      string                  `gorm:"type:varchar(500);not null"`
	ShipmentID       *uuid.UUID              `gorm:"type:uuid;index"`
	InvoicedAmount   decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	ExpectedAmount   decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	Currency         valueobject.Currency    `gorm:"type:varchar(3);not null;default:'EUR'"`
	AnomalyType      billing.AnomalyType     `gorm:"type:anomaly_type;not null;default:'none'"`
	AnomalySeverity  billing.AnomalySeverity `gorm:"type:anomaly_severity;not null;default:'none'"`
	AnomalyNote      string                  `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (CarrierInvoiceLineModel) TableName() string {
	return "carrier_invoice_lines"
}

// PaymentModel is the persistence model for the Payment aggregate root.
type PaymentModel struct {
	TenantAggregateModel
	Reference        string                   `gorm:"type:varchar(50);not null;uniqueIndex:idx_payment_tenant_reference,priority:2"`
	Direction        billing.PaymentDirection `gorm:"type:payment_direction;not null;index"`
	Method           billing.PaymentMethod    `gorm:"type:payment_method;not null"`
	Status           billing.PaymentStatus    `gorm:"type:payment_status;not null;default:'pending';index"`
	Amount           decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	Currency         valueobject.Currency     `gorm:"type:varchar(3);not null;default:'EUR'"`
	InvoiceID        *uuid.UUID               `gorm:"type:uuid;index"`
	CarrierInvoiceID *uuid.UUID               `gorm:"type:uuid;index"`
	PartnerID        uuid.UUID                `gorm:"type:uuid;not null;index"`
	FailureReason    string                   `gorm:"type:varchar(500)"`
	ProcessedAt      *time.Time
	SettledAt        *time.Time
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// BankAccountModel is the persistence model for the BankAccount aggregate root.
type BankAccountModel struct {
	TenantAggregateModel
	PartnerID  uuid.UUID `gorm:"type:uuid;not null;index"`
	HolderName string    `gorm:"type:varchar(200);not null"`
	BankName   string    `gorm:"type:varchar(200)"`
	IBAN       string    `gorm:"type:varchar(34);not null"`
	BIC        string    `gorm:"type:varchar(11)"`
	IsDefault  bool      `gorm:"not null;default:false"`
	IsActive   bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (BankAccountModel) TableName() string {
	return "bank_accounts"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	inv := &billing.Invoice{
		InvoiceNumber: m.InvoiceNumber,
		CustomerID:    m.CustomerID,
		OrderID:       m.OrderID,
		ShipmentID:    m.ShipmentID,
		Status:        m.Status,
		Currency:      m.Currency,
		IssueDate:     m.IssueDate,
		DueDate:       m.DueDate,
		PaidAmount:    money(m.PaidAmount, m.Currency),
		Notes:         m.Notes,
	}
	m.PopulateTenantAggregateRoot(&inv.TenantAggregateRoot)

	inv.Lines = make([]billing.InvoiceLine, len(m.Lines))
	for i := range m.Lines {
		inv.Lines[i] = m.Lines[i].ToDomain()
	}
	return inv
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainTenantAggregateRoot(inv.TenantAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.CustomerID = inv.CustomerID
	m.OrderID = inv.OrderID
	m.ShipmentID = inv.ShipmentID
	m.Status = inv.Status
	m.Currency = inv.Currency
	m.IssueDate = inv.IssueDate
	m.DueDate = inv.DueDate
	m.PaidAmount = inv.PaidAmount.Amount()
	m.Notes = inv.Notes

	m.Lines = make([]InvoiceLineModel, len(inv.Lines))
	for i := range inv.Lines {
		m.Lines[i].FromDomain(&inv.Lines[i])
	}
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// ToDomain converts the persistence model to a domain InvoiceLine.
func (m *InvoiceLineModel) ToDomain() billing.InvoiceLine {
	return billing.InvoiceLine{
		BaseEntity:  m.BaseModel.ToDomain(),
		InvoiceID:   m.InvoiceID,
		LineNumber:  m.LineNumber,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   money(m.UnitPrice, m.Currency),
		VATRate:     m.VATRate,
	}
}

// FromDomain populates the persistence model from a domain InvoiceLine.
func (m *InvoiceLineModel) FromDomain(l *billing.InvoiceLine) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.InvoiceID = l.InvoiceID
	m.LineNumber = l.LineNumber
	m.Description = l.Description
	m.Quantity = l.Quantity
	m.UnitPrice = l.UnitPrice.Amount()
	m.Currency = l.UnitPrice.Currency()
	m.VATRate = l.VATRate
}

// ToDomain converts the persistence model to a domain CarrierInvoice entity.
func (m *CarrierInvoiceModel) ToDomain() *billing.CarrierInvoice {
	ci := &billing.CarrierInvoice{
		InvoiceNumber:   m.InvoiceNumber,
		CarrierID:       m.CarrierID,
		Status:          m.Status,
		Currency:        m.Currency,
		InvoiceDate:     m.InvoiceDate,
		ReceivedAt:      m.ReceivedAt,
		ReviewedBy:      m.ReviewedBy,
		ApprovedBy:      m.ApprovedBy,
		DisputeReason:   m.DisputeReason,
		RejectionReason: m.RejectionReason,
		PaidAt:          m.PaidAt,
	}
	m.PopulateTenantAggregateRoot(&ci.TenantAggregateRoot)

	ci.Lines = make([]billing.CarrierInvoiceLine, len(m.Lines))
	for i := range m.Lines {
		ci.Lines[i] = m.Lines[i].ToDomain()
	}
	return ci
}

// FromDomain populates the persistence model from a domain CarrierInvoice entity.
func (m *CarrierInvoiceModel) FromDomain(ci *billing.CarrierInvoice) {
	m.FromDomainTenantAggregateRoot(ci.TenantAggregateRoot)
	m.InvoiceNumber = ci.InvoiceNumber
	m.CarrierID = ci.CarrierID
	m.Status = ci.Status
	m.Currency = ci.Currency
	m.InvoiceDate = ci.InvoiceDate
	m.ReceivedAt = ci.ReceivedAt
	m.ReviewedBy = ci.ReviewedBy
	m.ApprovedBy = ci.ApprovedBy
	m.DisputeReason = ci.DisputeReason
	m.RejectionReason = ci.RejectionReason
	m.PaidAt = ci.PaidAt

	m.Lines = make([]CarrierInvoiceLineModel, len(ci.Lines))
	for i := range ci.Lines {
		m.Lines[i].FromDomain(&ci.Lines[i])
	}
}

// CarrierInvoiceModelFromDomain creates a new persistence model from a domain CarrierInvoice.
func CarrierInvoiceModelFromDomain(ci *billing.CarrierInvoice) *CarrierInvoiceModel {
	m := &CarrierInvoiceModel{}
	m.FromDomain(ci)
	return m
}

// ToDomain converts the persistence model to a domain CarrierInvoiceLine.
func (m *CarrierInvoiceLineModel) ToDomain() billing.CarrierInvoiceLine {
	return billing.CarrierInvoiceLine{
		BaseEntity:       m.BaseModel.ToDomain(),
		CarrierInvoiceID: m.CarrierInvoiceID,
		LineNumber:       m.LineNumber,
		Description:      m.Description,
		ShipmentID:       m.ShipmentID,
		InvoicedAmount:   money(m.InvoicedAmount, m.Currency),
		ExpectedAmount:   money(m.ExpectedAmount, m.Currency),
		AnomalyType:      m.AnomalyType,
		AnomalySeverity:  m.AnomalySeverity,
		AnomalyNote:      m.AnomalyNote,
	}
}

// FromDomain populates the persistence model from a domain CarrierInvoiceLine.
func (m *CarrierInvoiceLineModel) FromDomain(l *billing.CarrierInvoiceLine) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.CarrierInvoiceID = l.CarrierInvoiceID
	m.LineNumber = l.LineNumber
	m.Description = l.Description
	m.ShipmentID = l.ShipmentID
	m.InvoicedAmount = l.InvoicedAmount.Amount()
	m.ExpectedAmount = l.ExpectedAmount.Amount()
	m.Currency = l.InvoicedAmount.Currency()
	m.AnomalyType = l.AnomalyType
	m.AnomalySeverity = l.AnomalySeverity
	m.AnomalyNote = l.AnomalyNote
}

// ToDomain converts the persistence model to a domain Payment entity.
func (m *PaymentModel) ToDomain() *billing.Payment {
	p := &billing.Payment{
		Reference:        m.Reference,
		Direction:        m.Direction,
		Method:           m.Method,
		Status:           m.Status,
		Amount:           money(m.Amount, m.Currency),
		InvoiceID:        m.InvoiceID,
		CarrierInvoiceID: m.CarrierInvoiceID,
		PartnerID:        m.PartnerID,
		FailureReason:    m.FailureReason,
		ProcessedAt:      m.ProcessedAt,
		SettledAt:        m.SettledAt,
	}
	m.PopulateTenantAggregateRoot(&p.TenantAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain Payment entity.
func (m *PaymentModel) FromDomain(p *billing.Payment) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Reference = p.Reference
	m.Direction = p.Direction
	m.Method = p.Method
	m.Status = p.Status
	m.Amount = p.Amount.Amount()
	m.Currency = p.Amount.Currency()
	m.InvoiceID = p.InvoiceID
	m.CarrierInvoiceID = p.CarrierInvoiceID
	m.PartnerID = p.PartnerID
	m.FailureReason = p.FailureReason
	m.ProcessedAt = p.ProcessedAt
	m.SettledAt = p.SettledAt
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment.
func PaymentModelFromDomain(p *billing.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}

// ToDomain converts the persistence model to a domain BankAccount entity.
func (m *BankAccountModel) ToDomain() *billing.BankAccount {
	a := &billing.BankAccount{
		PartnerID:  m.PartnerID,
		HolderName: m.HolderName,
		BankName:   m.BankName,
		IBAN:       m.IBAN,
		BIC:        m.BIC,
		IsDefault:  m.IsDefault,
		IsActive:   m.IsActive,
	}
	m.PopulateTenantAggregateRoot(&a.TenantAggregateRoot)
	return a
}

// FromDomain populates the persistence model from a domain BankAccount entity.
func (m *BankAccountModel) FromDomain(a *billing.BankAccount) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.PartnerID = a.PartnerID
	m.HolderName = a.HolderName
	m.BankName = a.BankName
	m.IBAN = a.IBAN
	m.BIC = a.BIC
	m.IsDefault = a.IsDefault
	m.IsActive = a.IsActive
}

// BankAccountModelFromDomain creates a new persistence model from a domain BankAccount.
func BankAccountModelFromDomain(a *billing.BankAccount) *BankAccountModel {
	m := &BankAccountModel{}
	m.FromDomain(a)
	return m
}
