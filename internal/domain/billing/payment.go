package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/shared/valueobject"
)

// PaymentStatus represents the lifecycle of a payment
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
)

// IsValid returns true for a known payment status
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusProcessing, PaymentStatusCompleted, PaymentStatusFailed:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	transitions := map[PaymentStatus][]PaymentStatus{
		PaymentStatusPending:    {PaymentStatusProcessing},
		PaymentStatusProcessing: {PaymentStatusCompleted, PaymentStatusFailed},
		PaymentStatusCompleted:  {},
		PaymentStatusFailed:     {},
	}
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// PaymentDirection distinguishes money received from money paid out
type PaymentDirection string

const (
	PaymentIncoming PaymentDirection = "incoming" // Customer pays us
	PaymentOutgoing PaymentDirection = "outgoing" // We pay a carrier
)

// IsValid returns true for a known payment direction
func (d PaymentDirection) IsValid() bool {
	return d == PaymentIncoming || d == PaymentOutgoing
}

// PaymentMethod is the settlement channel
type PaymentMethod string

const (
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodDirectDebit  PaymentMethod = "direct_debit"
	MethodCreditCard   PaymentMethod = "credit_card"
	MethodCheck        PaymentMethod = "check"
	MethodCash         PaymentMethod = "cash"
)

// IsValid returns true for a known payment method
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodBankTransfer, MethodDirectDebit, MethodCreditCard, MethodCheck, MethodCash:
		return true
	}
	return false
}

// Payment records a settlement against a customer invoice or a carrier
// invoice. Exactly one of InvoiceID and CarrierInvoiceID is set.
type Payment struct {
	shared.TenantAggregateRoot
	Reference        string
	Direction        PaymentDirection
	Method           PaymentMethod
	Status           PaymentStatus
	Amount           valueobject.Money
	InvoiceID        *uuid.UUID
	CarrierInvoiceID *uuid.UUID
	PartnerID        uuid.UUID
	FailureReason    string
	ProcessedAt      *time.Time
	SettledAt        *time.Time
}

// NewIncomingPayment registers an expected customer payment against an invoice
func NewIncomingPayment(tenantID, partnerID, invoiceID uuid.UUID, reference string, method PaymentMethod, amount valueobject.Money) (*Payment, error) {
	p, err := newPayment(tenantID, partnerID, reference, PaymentIncoming, method, amount)
	if err != nil {
		return nil, err
	}
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}
	p.InvoiceID = &invoiceID
	p.AddDomainEvent(NewPaymentCreatedEvent(p))
	return p, nil
}

// NewOutgoingPayment registers a payment to a carrier against an approved
// carrier invoice
func NewOutgoingPayment(tenantID, partnerID, carrierInvoiceID uuid.UUID, reference string, method PaymentMethod, amount valueobject.Money) (*Payment, error) {
	p, err := newPayment(tenantID, partnerID, reference, PaymentOutgoing, method, amount)
	if err != nil {
		return nil, err
	}
	if carrierInvoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Carrier invoice ID cannot be empty")
	}
	p.CarrierInvoiceID = &carrierInvoiceID
	p.AddDomainEvent(NewPaymentCreatedEvent(p))
	return p, nil
}

func newPayment(tenantID, partnerID uuid.UUID, reference string, direction PaymentDirection, method PaymentMethod, amount valueobject.Money) (*Payment, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Payment reference cannot be empty")
	}
	if partnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTNER", "Partner ID cannot be empty")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Unknown payment method")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	return &Payment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Reference:           reference,
		Direction:           direction,
		Method:              method,
		Status:              PaymentStatusPending,
		Amount:              amount,
		PartnerID:           partnerID,
	}, nil
}

// Process starts execution of a pending payment
func (p *Payment) Process() error {
	if !p.Status.CanTransitionTo(PaymentStatusProcessing) {
		return shared.NewDomainError("INVALID_STATE", "Payment cannot be processed from status "+string(p.Status))
	}

	now := time.Now()
	p.ProcessedAt = &now
	p.transition(PaymentStatusProcessing)
	return nil
}

// Complete records successful settlement
func (p *Payment) Complete() error {
	if !p.Status.CanTransitionTo(PaymentStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", "Payment cannot complete from status "+string(p.Status))
	}

	now := time.Now()
	p.SettledAt = &now
	p.transition(PaymentStatusCompleted)
	return nil
}

// Fail records a failed settlement attempt
func (p *Payment) Fail(reason string) error {
	if !p.Status.CanTransitionTo(PaymentStatusFailed) {
		return shared.NewDomainError("INVALID_STATE", "Payment cannot fail from status "+string(p.Status))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_FAILURE", "A failure reason is required")
	}

	p.FailureReason = reason
	p.transition(PaymentStatusFailed)
	return nil
}

func (p *Payment) transition(target PaymentStatus) {
	old := p.Status
	p.Status = target
	p.Touch()
	p.IncrementVersion()
	p.AddDomainEvent(NewPaymentStatusChangedEvent(p, old, target))
}
