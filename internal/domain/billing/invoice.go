package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/shared/valueobject"
)

// InvoiceStatus represents the status of a customer invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "draft"
	InvoiceStatusIssued        InvoiceStatus = "issued"
	InvoiceStatusSent          InvoiceStatus = "sent"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusCancelled     InvoiceStatus = "cancelled"
)

// IsValid returns true for a known invoice status
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusIssued, InvoiceStatusSent,
		InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	transitions := map[InvoiceStatus][]InvoiceStatus{
		InvoiceStatusDraft:         {InvoiceStatusIssued, InvoiceStatusCancelled},
		InvoiceStatusIssued:        {InvoiceStatusSent, InvoiceStatusCancelled},
		InvoiceStatusSent:          {InvoiceStatusPartiallyPaid, InvoiceStatusPaid},
		InvoiceStatusPartiallyPaid: {InvoiceStatusPaid},
		InvoiceStatusPaid:          {},
		InvoiceStatusCancelled:     {},
	}
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Invoice is a customer billing document. It is the aggregate root owning
// its lines; lines are mutable only while the invoice is in draft.
type Invoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber string
	CustomerID    uuid.UUID  // Partner being billed
	OrderID       *uuid.UUID // Optional originating order
	ShipmentID    *uuid.UUID // Optional originating shipment
	Status        InvoiceStatus
	Currency      valueobject.Currency
	IssueDate     *time.Time
	DueDate       *time.Time
	PaidAmount    valueobject.Money
	Notes         string
	Lines         []InvoiceLine
}

// InvoiceLine is a single billed position
type InvoiceLine struct {
	shared.BaseEntity
	InvoiceID   uuid.UUID
	LineNumber  int
	Description string
	Quantity    decimal.Decimal
	UnitPrice   valueobject.Money
	VATRate     decimal.Decimal // Percent, e.g. 19
}

// NewInvoiceLine creates a new invoice line
func NewInvoiceLine(description string, quantity decimal.Decimal, unitPrice valueobject.Money) InvoiceLine {
	return InvoiceLine{
		BaseEntity:  shared.NewBaseEntity(),
		Description: strings.TrimSpace(description),
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	}
}

// Validate checks the line fields
func (l InvoiceLine) Validate() error {
	if strings.TrimSpace(l.Description) == "" {
		return shared.NewDomainError("INVALID_LINE", "Line description cannot be empty")
	}
	if !l.Quantity.IsPositive() {
		return shared.NewDomainError("INVALID_LINE", "Quantity must be positive")
	}
	if l.VATRate.IsNegative() {
		return shared.NewDomainError("INVALID_LINE", "VAT rate cannot be negative")
	}
	return nil
}

// NetAmount returns quantity * unit price
func (l InvoiceLine) NetAmount() valueobject.Money {
	return l.UnitPrice.Multiply(l.Quantity)
}

// VATAmount returns the VAT share of the line
func (l InvoiceLine) VATAmount() valueobject.Money {
	return l.NetAmount().CalculatePercentage(l.VATRate)
}

// NewInvoice creates a new draft invoice
func NewInvoice(tenantID, customerID uuid.UUID, invoiceNumber string) (*Invoice, error) {
	invoiceNumber = strings.TrimSpace(invoiceNumber)
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}

	inv := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		InvoiceNumber:       invoiceNumber,
		CustomerID:          customerID,
		Status:              InvoiceStatusDraft,
		Currency:            valueobject.DefaultCurrency,
		PaidAmount:          valueobject.ZeroEUR(),
		Lines:               make([]InvoiceLine, 0),
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// UpdateDraft changes the header fields that remain editable while the
// invoice is in draft. Issued documents are immutable apart from their
// lifecycle transitions.
func (i *Invoice) UpdateDraft(notes string, dueDate *time.Time) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be updated")
	}
	i.Notes = notes
	i.DueDate = dueDate
	i.Touch()
	i.IncrementVersion()
	return nil
}

// AddLine appends a line to a draft invoice
func (i *Invoice) AddLine(line InvoiceLine) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Lines can only be added to draft invoices")
	}
	if err := line.Validate(); err != nil {
		return err
	}
	if line.UnitPrice.Currency() != i.Currency {
		return shared.NewDomainError("CURRENCY_MISMATCH", "Line currency must match invoice currency")
	}

	line.InvoiceID = i.ID
	line.LineNumber = len(i.Lines) + 1
	i.Lines = append(i.Lines, line)
	i.Touch()
	i.IncrementVersion()
	return nil
}

// RemoveLine removes a line from a draft invoice and renumbers the remainder
func (i *Invoice) RemoveLine(lineID uuid.UUID) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Lines can only be removed from draft invoices")
	}

	for idx, l := range i.Lines {
		if l.ID == lineID {
			i.Lines = append(i.Lines[:idx], i.Lines[idx+1:]...)
			for j := range i.Lines {
				i.Lines[j].LineNumber = j + 1
			}
			i.Touch()
			i.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// TotalNet sums the net amounts of all lines
func (i *Invoice) TotalNet() valueobject.Money {
	total := valueobject.Zero(i.Currency)
	for _, l := range i.Lines {
		total = total.MustAdd(l.NetAmount())
	}
	return total
}

// TotalGross sums net plus VAT of all lines
func (i *Invoice) TotalGross() valueobject.Money {
	total := i.TotalNet()
	for _, l := range i.Lines {
		total = total.MustAdd(l.VATAmount())
	}
	return total.Round(2)
}

// Issue finalizes a draft invoice. At least one line is required.
func (i *Invoice) Issue(dueDate time.Time) error {
	if !i.Status.CanTransitionTo(InvoiceStatusIssued) {
		return shared.NewDomainError("INVALID_STATE", "Invoice cannot be issued from status "+string(i.Status))
	}
	if len(i.Lines) == 0 {
		return shared.NewDomainError("EMPTY_INVOICE", "Cannot issue an invoice without lines")
	}

	now := time.Now()
	if dueDate.Before(now) {
		return shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be in the past")
	}

	i.IssueDate = &now
	i.DueDate = &dueDate
	i.transition(InvoiceStatusIssued)
	return nil
}

// MarkSent records that the invoice was delivered to the customer
func (i *Invoice) MarkSent() error {
	if !i.Status.CanTransitionTo(InvoiceStatusSent) {
		return shared.NewDomainError("INVALID_STATE", "Invoice cannot be marked sent from status "+string(i.Status))
	}
	i.transition(InvoiceStatusSent)
	return nil
}

// RecordPayment applies a received payment amount. Moves the invoice to
// partially_paid or paid depending on the outstanding balance.
func (i *Invoice) RecordPayment(amount valueobject.Money) error {
	if i.Status != InvoiceStatusSent && i.Status != InvoiceStatusPartiallyPaid {
		return shared.NewDomainError("INVALID_STATE", "Payments can only be recorded on sent invoices")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	newPaid, err := i.PaidAmount.Add(amount)
	if err != nil {
		return shared.NewDomainError("CURRENCY_MISMATCH", "Payment currency must match invoice currency")
	}

	total := i.TotalGross()
	over, err := newPaid.GreaterThan(total)
	if err != nil {
		return shared.NewDomainError("CURRENCY_MISMATCH", "Payment currency must match invoice currency")
	}
	if over {
		return shared.NewDomainError("OVERPAYMENT", "Payment exceeds the outstanding invoice amount")
	}

	i.PaidAmount = newPaid
	if newPaid.Equals(total) {
		i.transition(InvoiceStatusPaid)
	} else if i.Status != InvoiceStatusPartiallyPaid {
		i.transition(InvoiceStatusPartiallyPaid)
	} else {
		i.Touch()
		i.IncrementVersion()
	}
	return nil
}

// Cancel cancels a draft or issued invoice
func (i *Invoice) Cancel() error {
	if !i.Status.CanTransitionTo(InvoiceStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", "Invoice cannot be cancelled from status "+string(i.Status))
	}
	i.transition(InvoiceStatusCancelled)
	return nil
}

func (i *Invoice) transition(target InvoiceStatus) {
	old := i.Status
	i.Status = target
	i.Touch()
	i.IncrementVersion()
	i.AddDomainEvent(NewInvoiceStatusChangedEvent(i, old, target))
}
