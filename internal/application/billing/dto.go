package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tms/backend/internal/domain/billing"
)

// InvoiceDTO is the customer invoice representation
type InvoiceDTO struct {
	ID            uuid.UUID        `json:"id"`
	InvoiceNumber string           `json:"invoice_number"`
	CustomerID    uuid.UUID        `json:"customer_id"`
	OrderID       *uuid.UUID       `json:"order_id,omitempty"`
	ShipmentID    *uuid.UUID       `json:"shipment_id,omitempty"`
	Status        string           `json:"status"`
	Currency      string           `json:"currency"`
	IssueDate     *time.Time       `json:"issue_date,omitempty"`
	DueDate       *time.Time       `json:"due_date,omitempty"`
	TotalNet      decimal.Decimal  `json:"total_net"`
	TotalGross    decimal.Decimal  `json:"total_gross"`
	PaidAmount    decimal.Decimal  `json:"paid_amount"`
	Notes         string           `json:"notes,omitempty"`
	Version       int              `json:"version"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	Lines         []InvoiceLineDTO `json:"lines,omitempty"`
}

// InvoiceLineDTO is a single billed position
type InvoiceLineDTO struct {
	ID          uuid.UUID       `json:"id"`
	LineNumber  int             `json:"line_number"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	VATRate     decimal.Decimal `json:"vat_rate"`
	NetAmount   decimal.Decimal `json:"net_amount"`
	VATAmount   decimal.Decimal `json:"vat_amount"`
}

// CarrierInvoiceDTO is the carrier invoice representation
type CarrierInvoiceDTO struct {
	ID              uuid.UUID               `json:"id"`
	InvoiceNumber   string                  `json:"invoice_number"`
	CarrierID       uuid.UUID               `json:"carrier_id"`
	Status          string                  `json:"status"`
	Currency        string                  `json:"currency"`
	InvoiceDate     time.Time               `json:"invoice_date"`
	ReceivedAt      time.Time               `json:"received_at"`
	ReviewedBy      *uuid.UUID              `json:"reviewed_by,omitempty"`
	ApprovedBy      *uuid.UUID              `json:"approved_by,omitempty"`
	DisputeReason   string                  `json:"dispute_reason,omitempty"`
	RejectionReason string                  `json:"rejection_reason,omitempty"`
	PaidAt          *time.Time              `json:"paid_at,omitempty"`
	TotalInvoiced   decimal.Decimal         `json:"total_invoiced"`
	TotalVariance   decimal.Decimal         `json:"total_variance"`
	HasAnomalies    bool                    `json:"has_anomalies"`
	Version         int                     `json:"version"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
	Lines           []CarrierInvoiceLineDTO `json:"lines,omitempty"`
}

// CarrierInvoiceLineDTO is a single charged position under control
type CarrierInvoiceLineDTO struct {
	ID              uuid.UUID       `json:"id"`
	LineNumber      int             `json:"line_number"`
	Description     string          `json:"description"`
	ShipmentID      *uuid.UUID      `json:"shipment_id,omitempty"`
	InvoicedAmount  decimal.Decimal `json:"invoiced_amount"`
	ExpectedAmount  decimal.Decimal `json:"expected_amount"`
	Variance        decimal.Decimal `json:"variance"`
	AnomalyType     string          `json:"anomaly_type"`
	AnomalySeverity string          `json:"anomaly_severity"`
	AnomalyNote     string          `json:"anomaly_note,omitempty"`
}

// PaymentDTO is the payment representation
type PaymentDTO struct {
	ID               uuid.UUID       `json:"id"`
	Reference        string          `json:"reference"`
	Direction        string          `json:"direction"`
	Method           string          `json:"method"`
	Status           string          `json:"status"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	InvoiceID        *uuid.UUID      `json:"invoice_id,omitempty"`
	CarrierInvoiceID *uuid.UUID      `json:"carrier_invoice_id,omitempty"`
	PartnerID        uuid.UUID       `json:"partner_id"`
	FailureReason    string          `json:"failure_reason,omitempty"`
	ProcessedAt      *time.Time      `json:"processed_at,omitempty"`
	SettledAt        *time.Time      `json:"settled_at,omitempty"`
	Version          int             `json:"version"`
	CreatedAt        time.Time       `json:"created_at"`
}

// BankAccountDTO is the bank account representation. The IBAN is masked.
type BankAccountDTO struct {
	ID         uuid.UUID `json:"id"`
	PartnerID  uuid.UUID `json:"partner_id"`
	HolderName string    `json:"holder_name"`
	BankName   string    `json:"bank_name,omitempty"`
	IBAN       string    `json:"iban"`
	BIC        string    `json:"bic"`
	IsDefault  bool      `json:"is_default"`
	IsActive   bool      `json:"is_active"`
}

func toInvoiceDTO(inv *billing.Invoice) *InvoiceDTO {
	dto := &InvoiceDTO{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerID:    inv.CustomerID,
		OrderID:       inv.OrderID,
		ShipmentID:    inv.ShipmentID,
		Status:        string(inv.Status),
		Currency:      string(inv.Currency),
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		TotalNet:      inv.TotalNet().Amount(),
		TotalGross:    inv.TotalGross().Amount(),
		PaidAmount:    inv.PaidAmount.Amount(),
		Notes:         inv.Notes,
		Version:       inv.Version,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
	for _, l := range inv.Lines {
		dto.Lines = append(dto.Lines, InvoiceLineDTO{
			ID:          l.ID,
			LineNumber:  l.LineNumber,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice.Amount(),
			VATRate:     l.VATRate,
			NetAmount:   l.NetAmount().Amount(),
			VATAmount:   l.VATAmount().Amount(),
		})
	}
	return dto
}

func toCarrierInvoiceDTO(ci *billing.CarrierInvoice) *CarrierInvoiceDTO {
	dto := &CarrierInvoiceDTO{
		ID:              ci.ID,
		InvoiceNumber:   ci.InvoiceNumber,
		CarrierID:       ci.CarrierID,
		Status:          string(ci.Status),
		Currency:        string(ci.Currency),
		InvoiceDate:     ci.InvoiceDate,
		ReceivedAt:      ci.ReceivedAt,
		ReviewedBy:      ci.ReviewedBy,
		ApprovedBy:      ci.ApprovedBy,
		DisputeReason:   ci.DisputeReason,
		RejectionReason: ci.RejectionReason,
		PaidAt:          ci.PaidAt,
		TotalInvoiced:   ci.TotalInvoiced().Amount(),
		TotalVariance:   ci.TotalVariance().Amount(),
		HasAnomalies:    ci.HasAnomalies(),
		Version:         ci.Version,
		CreatedAt:       ci.CreatedAt,
		UpdatedAt:       ci.UpdatedAt,
	}
	for _, l := range ci.Lines {
		dto.Lines = append(dto.Lines, CarrierInvoiceLineDTO{
			ID:              l.ID,
			LineNumber:      l.LineNumber,
			Description:     l.Description,
			ShipmentID:      l.ShipmentID,
			InvoicedAmount:  l.InvoicedAmount.Amount(),
			ExpectedAmount:  l.ExpectedAmount.Amount(),
			Variance:        l.Variance().Amount(),
			AnomalyType:     string(l.AnomalyType),
			AnomalySeverity: string(l.AnomalySeverity),
			AnomalyNote:     l.AnomalyNote,
		})
	}
	return dto
}

func toPaymentDTO(p *billing.Payment) *PaymentDTO {
	return &PaymentDTO{
		ID:               p.ID,
		Reference:        p.Reference,
		Direction:        string(p.Direction),
		Method:           string(p.Method),
		Status:           string(p.Status),
		Amount:           p.Amount.Amount(),
		Currency:         string(p.Amount.Currency()),
		InvoiceID:        p.InvoiceID,
		CarrierInvoiceID: p.CarrierInvoiceID,
		PartnerID:        p.PartnerID,
		FailureReason:    p.FailureReason,
		ProcessedAt:      p.ProcessedAt,
		SettledAt:        p.SettledAt,
		Version:          p.Version,
		CreatedAt:        p.CreatedAt,
	}
}

func toBankAccountDTO(a *billing.BankAccount) *BankAccountDTO {
	return &BankAccountDTO{
		ID:         a.ID,
		PartnerID:  a.PartnerID,
		HolderName: a.HolderName,
		BankName:   a.BankName,
		IBAN:       a.MaskedIBAN(),
		BIC:        a.BIC,
		IsDefault:  a.IsDefault,
		IsActive:   a.IsActive,
	}
}
