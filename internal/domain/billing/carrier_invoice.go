package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/shared/valueobject"
)

// CarrierInvoiceStatus represents the control/validation workflow of a bill
// received from a carrier:
//
//	received -> under_review -> validated -> approved -> paid
//	                         \> disputed  \> rejected
//
// Disputed invoices return to review once resolved.
type CarrierInvoiceStatus string

const (
	CarrierInvoiceReceived    CarrierInvoiceStatus = "received"
	CarrierInvoiceUnderReview CarrierInvoiceStatus = "under_review"
	CarrierInvoiceValidated   CarrierInvoiceStatus = "validated"
	CarrierInvoiceDisputed    CarrierInvoiceStatus = "disputed"
	CarrierInvoiceApproved    CarrierInvoiceStatus = "approved"
	CarrierInvoiceRejected    CarrierInvoiceStatus = "rejected"
	CarrierInvoicePaid        CarrierInvoiceStatus = "paid"
)

// IsValid returns true for a known carrier invoice status
func (s CarrierInvoiceStatus) IsValid() bool {
	switch s {
	case CarrierInvoiceReceived, CarrierInvoiceUnderReview, CarrierInvoiceValidated,
		CarrierInvoiceDisputed, CarrierInvoiceApproved, CarrierInvoiceRejected, CarrierInvoicePaid:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s CarrierInvoiceStatus) CanTransitionTo(target CarrierInvoiceStatus) bool {
	transitions := map[CarrierInvoiceStatus][]CarrierInvoiceStatus{
		CarrierInvoiceReceived:    {CarrierInvoiceUnderReview},
		CarrierInvoiceUnderReview: {CarrierInvoiceValidated, CarrierInvoiceDisputed},
		CarrierInvoiceValidated:   {CarrierInvoiceApproved, CarrierInvoiceRejected},
		CarrierInvoiceDisputed:    {CarrierInvoiceUnderReview, CarrierInvoiceRejected},
		CarrierInvoiceApproved:    {CarrierInvoicePaid},
		CarrierInvoiceRejected:    {},
		CarrierInvoicePaid:        {},
	}
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible
func (s CarrierInvoiceStatus) IsTerminal() bool {
	return s == CarrierInvoiceRejected || s == CarrierInvoicePaid
}

// AnomalyType classifies a detected discrepancy on a carrier invoice line
type AnomalyType string

const (
	AnomalyNone          AnomalyType = "none"
	AnomalyPriceVariance AnomalyType = "price_variance"
	AnomalyUnknownCharge AnomalyType = "unknown_charge"
	AnomalyDuplicate     AnomalyType = "duplicate"
	AnomalyMissingProof  AnomalyType = "missing_proof"
)

// IsValid returns true for a known anomaly type
func (t AnomalyType) IsValid() bool {
	switch t {
	case AnomalyNone, AnomalyPriceVariance, AnomalyUnknownCharge, AnomalyDuplicate, AnomalyMissingProof:
		return true
	}
	return false
}

// AnomalySeverity grades a detected anomaly
type AnomalySeverity string

const (
	SeverityNone   AnomalySeverity = "none"
	SeverityLow    AnomalySeverity = "low"
	SeverityMedium AnomalySeverity = "medium"
	SeverityHigh   AnomalySeverity = "high"
)

// IsValid returns true for a known anomaly severity
func (s AnomalySeverity) IsValid() bool {
	switch s {
	case SeverityNone, SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// CarrierInvoiceLine is a single charged position on a carrier invoice,
// carrying the variance between the expected (contracted) and invoiced
// amounts found during control.
type CarrierInvoiceLine struct {
	shared.BaseEntity
	CarrierInvoiceID uuid.UUID
	LineNumber       int
	Description      string
	ShipmentID       *uuid.UUID // Shipment the charge relates to, if matched
	InvoicedAmount   valueobject.Money
	ExpectedAmount   valueobject.Money
	AnomalyType      AnomalyType
	AnomalySeverity  AnomalySeverity
	AnomalyNote      string
}

// NewCarrierInvoiceLine creates a new carrier invoice line
func NewCarrierInvoiceLine(description string, invoiced valueobject.Money) CarrierInvoiceLine {
	return CarrierInvoiceLine{
		BaseEntity:      shared.NewBaseEntity(),
		Description:     strings.TrimSpace(description),
		InvoicedAmount:  invoiced,
		ExpectedAmount:  valueobject.Zero(invoiced.Currency()),
		AnomalyType:     AnomalyNone,
		AnomalySeverity: SeverityNone,
	}
}

// Validate checks the line fields
func (l CarrierInvoiceLine) Validate() error {
	if strings.TrimSpace(l.Description) == "" {
		return shared.NewDomainError("INVALID_LINE", "Line description cannot be empty")
	}
	if !l.AnomalyType.IsValid() {
		return shared.NewDomainError("INVALID_LINE", "Unknown anomaly type")
	}
	if !l.AnomalySeverity.IsValid() {
		return shared.NewDomainError("INVALID_LINE", "Unknown anomaly severity")
	}
	if l.AnomalyType != AnomalyNone && l.AnomalySeverity == SeverityNone {
		return shared.NewDomainError("INVALID_LINE", "An anomaly requires a severity")
	}
	return nil
}

// Variance returns invoiced minus expected
func (l CarrierInvoiceLine) Variance() valueobject.Money {
	v, err := l.InvoicedAmount.Subtract(l.ExpectedAmount)
	if err != nil {
		return valueobject.Zero(l.InvoicedAmount.Currency())
	}
	return v
}

// FlagAnomaly marks the line with a detected discrepancy
func (l *CarrierInvoiceLine) FlagAnomaly(anomalyType AnomalyType, severity AnomalySeverity, note string) error {
	if anomalyType == AnomalyNone || !anomalyType.IsValid() {
		return shared.NewDomainError("INVALID_ANOMALY", "A concrete anomaly type is required")
	}
	if severity == SeverityNone || !severity.IsValid() {
		return shared.NewDomainError("INVALID_ANOMALY", "A concrete severity is required")
	}
	l.AnomalyType = anomalyType
	l.AnomalySeverity = severity
	l.AnomalyNote = note
	l.Touch()
	return nil
}

// CarrierInvoice is a bill received from a carrier, subject to the internal
// validation/approval workflow before payment.
type CarrierInvoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber   string // Carrier's invoice number
	CarrierID       uuid.UUID
	Status          CarrierInvoiceStatus
	Currency        valueobject.Currency
	InvoiceDate     time.Time
	ReceivedAt      time.Time
	ReviewedBy      *uuid.UUID
	ApprovedBy      *uuid.UUID
	DisputeReason   string
	RejectionReason string
	PaidAt          *time.Time
	Lines           []CarrierInvoiceLine
}

// NewCarrierInvoice registers a received carrier invoice
func NewCarrierInvoice(tenantID, carrierID uuid.UUID, invoiceNumber string, invoiceDate time.Time) (*CarrierInvoice, error) {
	invoiceNumber = strings.TrimSpace(invoiceNumber)
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if carrierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CARRIER", "Carrier ID cannot be empty")
	}
	if invoiceDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_INVOICE_DATE", "Invoice date is required")
	}

	ci := &CarrierInvoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		InvoiceNumber:       invoiceNumber,
		CarrierID:           carrierID,
		Status:              CarrierInvoiceReceived,
		Currency:            valueobject.DefaultCurrency,
		InvoiceDate:         invoiceDate,
		ReceivedAt:          time.Now(),
		Lines:               make([]CarrierInvoiceLine, 0),
	}

	ci.AddDomainEvent(NewCarrierInvoiceReceivedEvent(ci))

	return ci, nil
}

// Amend corrects the registered header data of a carrier invoice. Only
// possible before review starts; once under review the document is frozen.
func (c *CarrierInvoice) Amend(invoiceNumber string, invoiceDate time.Time) error {
	if c.Status != CarrierInvoiceReceived {
		return shared.NewDomainError("INVALID_STATE", "Carrier invoices can only be amended before review starts")
	}
	invoiceNumber = strings.TrimSpace(invoiceNumber)
	if invoiceNumber == "" {
		return shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if invoiceDate.IsZero() {
		return shared.NewDomainError("INVALID_INVOICE_DATE", "Invoice date is required")
	}
	c.InvoiceNumber = invoiceNumber
	c.InvoiceDate = invoiceDate
	c.Touch()
	c.IncrementVersion()
	return nil
}

// AddLine appends a charged position. Lines can be added until review starts.
func (c *CarrierInvoice) AddLine(line CarrierInvoiceLine) error {
	if c.Status != CarrierInvoiceReceived {
		return shared.NewDomainError("INVALID_STATE", "Lines can only be added before review starts")
	}
	if err := line.Validate(); err != nil {
		return err
	}
	if line.InvoicedAmount.Currency() != c.Currency {
		return shared.NewDomainError("CURRENCY_MISMATCH", "Line currency must match invoice currency")
	}

	line.CarrierInvoiceID = c.ID
	line.LineNumber = len(c.Lines) + 1
	c.Lines = append(c.Lines, line)
	c.Touch()
	c.IncrementVersion()
	return nil
}

// FlagLineAnomaly records a discrepancy found during review
func (c *CarrierInvoice) FlagLineAnomaly(lineID uuid.UUID, anomalyType AnomalyType, severity AnomalySeverity, note string) error {
	if c.Status != CarrierInvoiceUnderReview {
		return shared.NewDomainError("INVALID_STATE", "Anomalies can only be flagged during review")
	}

	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			if err := c.Lines[i].FlagAnomaly(anomalyType, severity, note); err != nil {
				return err
			}
			c.Touch()
			c.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// TotalInvoiced sums the invoiced amounts of all lines
func (c *CarrierInvoice) TotalInvoiced() valueobject.Money {
	total := valueobject.Zero(c.Currency)
	for _, l := range c.Lines {
		total = total.MustAdd(l.InvoicedAmount)
	}
	return total
}

// TotalVariance sums invoiced minus expected over all lines
func (c *CarrierInvoice) TotalVariance() valueobject.Money {
	total := valueobject.Zero(c.Currency)
	for _, l := range c.Lines {
		total = total.MustAdd(l.Variance())
	}
	return total
}

// HasAnomalies returns true if any line carries a flagged anomaly
func (c *CarrierInvoice) HasAnomalies() bool {
	for _, l := range c.Lines {
		if l.AnomalyType != AnomalyNone {
			return true
		}
	}
	return false
}

// StartReview moves a received invoice into review
func (c *CarrierInvoice) StartReview(reviewerID uuid.UUID) error {
	if !c.Status.CanTransitionTo(CarrierInvoiceUnderReview) {
		return shared.NewDomainError("INVALID_STATE", "Review cannot start from status "+string(c.Status))
	}
	if len(c.Lines) == 0 {
		return shared.NewDomainError("EMPTY_INVOICE", "Cannot review an invoice without lines")
	}

	c.ReviewedBy = &reviewerID
	c.transition(CarrierInvoiceUnderReview)
	return nil
}

// Validate confirms the invoice matches expectations and may proceed to
// approval. Refused when high-severity anomalies are present.
func (c *CarrierInvoice) Validate() error {
	if !c.Status.CanTransitionTo(CarrierInvoiceValidated) {
		return shared.NewDomainError("INVALID_STATE", "Invoice cannot be validated from status "+string(c.Status))
	}
	for _, l := range c.Lines {
		if l.AnomalySeverity == SeverityHigh {
			return shared.NewDomainError("UNRESOLVED_ANOMALY", "High-severity anomalies must be disputed, not validated")
		}
	}

	c.transition(CarrierInvoiceValidated)
	return nil
}

// Dispute sends the invoice back to the carrier with a reason
func (c *CarrierInvoice) Dispute(reason string) error {
	if !c.Status.CanTransitionTo(CarrierInvoiceDisputed) {
		return shared.NewDomainError("INVALID_STATE", "Invoice cannot be disputed from status "+string(c.Status))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_DISPUTE", "A dispute reason is required")
	}

	c.DisputeReason = reason
	c.transition(CarrierInvoiceDisputed)
	return nil
}

// ResumeReview returns a disputed invoice to review after resolution
func (c *CarrierInvoice) ResumeReview() error {
	if c.Status != CarrierInvoiceDisputed {
		return shared.NewDomainError("INVALID_STATE", "Only disputed invoices can return to review")
	}

	c.DisputeReason = ""
	c.transition(CarrierInvoiceUnderReview)
	return nil
}

// Approve releases a validated invoice for payment
func (c *CarrierInvoice) Approve(approverID uuid.UUID) error {
	if !c.Status.CanTransitionTo(CarrierInvoiceApproved) {
		return shared.NewDomainError("INVALID_STATE", "Invoice cannot be approved from status "+string(c.Status))
	}

	c.ApprovedBy = &approverID
	c.transition(CarrierInvoiceApproved)
	return nil
}

// Reject refuses the invoice permanently
func (c *CarrierInvoice) Reject(reason string) error {
	if !c.Status.CanTransitionTo(CarrierInvoiceRejected) {
		return shared.NewDomainError("INVALID_STATE", "Invoice cannot be rejected from status "+string(c.Status))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REJECTION", "A rejection reason is required")
	}

	c.RejectionReason = reason
	c.transition(CarrierInvoiceRejected)
	return nil
}

// MarkPaid records settlement of an approved invoice
func (c *CarrierInvoice) MarkPaid() error {
	if !c.Status.CanTransitionTo(CarrierInvoicePaid) {
		return shared.NewDomainError("INVALID_STATE", "Invoice cannot be paid from status "+string(c.Status))
	}

	now := time.Now()
	c.PaidAt = &now
	c.transition(CarrierInvoicePaid)
	return nil
}

func (c *CarrierInvoice) transition(target CarrierInvoiceStatus) {
	old := c.Status
	c.Status = target
	c.Touch()
	c.IncrementVersion()
	c.AddDomainEvent(NewCarrierInvoiceStatusChangedEvent(c, old, target))
}
