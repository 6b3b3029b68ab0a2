package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tms/backend/internal/domain/billing"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/shared/valueobject"
)

// CarrierInvoiceService handles the carrier invoice control workflow
type CarrierInvoiceService struct {
	carrierInvoiceRepo billing.CarrierInvoiceRepository
	eventBus           shared.EventBus
	logger             *zap.Logger
}

// NewCarrierInvoiceService creates a new carrier invoice service
func NewCarrierInvoiceService(carrierInvoiceRepo billing.CarrierInvoiceRepository, eventBus shared.EventBus, logger *zap.Logger) *CarrierInvoiceService {
	return &CarrierInvoiceService{
		carrierInvoiceRepo: carrierInvoiceRepo,
		eventBus:           eventBus,
		logger:             logger,
	}
}

// RegisterCarrierInvoiceInput contains the input for registering a received
// carrier invoice
type RegisterCarrierInvoiceInput struct {
	TenantID      uuid.UUID
	CarrierID     uuid.UUID
	InvoiceNumber string
	InvoiceDate   time.Time
	Currency      string
}

// RegisterCarrierInvoice records a bill received from a carrier. The same
// carrier cannot submit the same invoice number twice.
func (s *CarrierInvoiceService) RegisterCarrierInvoice(ctx context.Context, input RegisterCarrierInvoiceInput) (*CarrierInvoiceDTO, error) {
	if existing, err := s.carrierInvoiceRepo.FindByCarrierAndNumber(ctx, input.TenantID, input.CarrierID, input.InvoiceNumber); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "This carrier invoice number was already registered")
	}

	ci, err := billing.NewCarrierInvoice(input.TenantID, input.CarrierID, input.InvoiceNumber, input.InvoiceDate)
	if err != nil {
		return nil, err
	}
	if input.Currency != "" {
		ci.Currency = valueobject.Currency(input.Currency)
	}

	if err := s.carrierInvoiceRepo.Save(ctx, ci); err != nil {
		s.logger.Error("Failed to register carrier invoice", zap.Error(err))
		return nil, err
	}
	s.publishEvents(ctx, ci)

	s.logger.Info("Carrier invoice registered",
		zap.String("carrier_invoice_id", ci.ID.String()),
		zap.String("carrier_id", ci.CarrierID.String()),
		zap.String("invoice_number", ci.InvoiceNumber))

	return toCarrierInvoiceDTO(ci), nil
}

// GetCarrierInvoice fetches a carrier invoice by ID within a tenant
func (s *CarrierInvoiceService) GetCarrierInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (*CarrierInvoiceDTO, error) {
	ci, err := s.carrierInvoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	return toCarrierInvoiceDTO(ci), nil
}

// ListCarrierInvoices lists a tenant's carrier invoices. When status is
// non-empty the listing is restricted to that workflow state.
func (s *CarrierInvoiceService) ListCarrierInvoices(ctx context.Context, tenantID uuid.UUID, status string, filter shared.Filter) (*shared.Paginated[CarrierInvoiceDTO], error) {
	var (
		invoices []billing.CarrierInvoice
		err      error
	)
	if status != "" {
		invoices, err = s.carrierInvoiceRepo.FindByStatus(ctx, tenantID, billing.CarrierInvoiceStatus(status), filter)
	} else {
		invoices, err = s.carrierInvoiceRepo.FindAllForTenant(ctx, tenantID, filter)
	}
	if err != nil {
		return nil, err
	}
	total, err := s.carrierInvoiceRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]CarrierInvoiceDTO, len(invoices))
	for i := range invoices {
		dtos[i] = *toCarrierInvoiceDTO(&invoices[i])
	}
	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// AmendCarrierInvoiceInput contains the correctable header fields of a
// received carrier invoice
type AmendCarrierInvoiceInput struct {
	TenantID      uuid.UUID
	InvoiceID     uuid.UUID
	InvoiceNumber string
	InvoiceDate   time.Time
}

// AmendCarrierInvoice corrects the header of a carrier invoice before review
// starts. The corrected number must stay unique per carrier.
func (s *CarrierInvoiceService) AmendCarrierInvoice(ctx context.Context, input AmendCarrierInvoiceInput) (*CarrierInvoiceDTO, error) {
	var dto *CarrierInvoiceDTO
	err := s.mutate(ctx, input.TenantID, input.InvoiceID, func(ci *billing.CarrierInvoice) error {
		if input.InvoiceNumber != ci.InvoiceNumber {
			if existing, err := s.carrierInvoiceRepo.FindByCarrierAndNumber(ctx, input.TenantID, ci.CarrierID, input.InvoiceNumber); err == nil && existing != nil {
				return shared.NewDomainError("ALREADY_EXISTS", "Carrier invoice number is already registered")
			}
		}
		if err := ci.Amend(input.InvoiceNumber, input.InvoiceDate); err != nil {
			return err
		}
		dto = toCarrierInvoiceDTO(ci)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// AddCarrierLineInput contains the input for adding a charged position
type AddCarrierLineInput struct {
	TenantID       uuid.UUID
	InvoiceID      uuid.UUID
	Description    string
	ShipmentID     *uuid.UUID
	InvoicedAmount decimal.Decimal
	ExpectedAmount *decimal.Decimal
}

// AddLine appends a charged position to a received carrier invoice
func (s *CarrierInvoiceService) AddLine(ctx context.Context, input AddCarrierLineInput) (*CarrierInvoiceDTO, error) {
	ci, err := s.carrierInvoiceRepo.FindByIDForTenant(ctx, input.TenantID, input.InvoiceID)
	if err != nil {
		return nil, err
	}

	invoiced, err := valueobject.NewMoney(input.InvoicedAmount, ci.Currency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_AMOUNT", err.Error())
	}
	line := billing.NewCarrierInvoiceLine(input.Description, invoiced)
	line.ShipmentID = input.ShipmentID
	if input.ExpectedAmount != nil {
		expected, err := valueobject.NewMoney(*input.ExpectedAmount, ci.Currency)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_AMOUNT", err.Error())
		}
		line.ExpectedAmount = expected
	}

	if err := ci.AddLine(line); err != nil {
		return nil, err
	}
	if err := s.carrierInvoiceRepo.Save(ctx, ci); err != nil {
		return nil, err
	}
	return toCarrierInvoiceDTO(ci), nil
}

// StartReview moves the invoice into review, recording the reviewer
func (s *CarrierInvoiceService) StartReview(ctx context.Context, tenantID, invoiceID, reviewerID uuid.UUID) error {
	return s.mutate(ctx, tenantID, invoiceID, func(ci *billing.CarrierInvoice) error {
		return ci.StartReview(reviewerID)
	})
}

// FlagAnomalyInput contains the input for flagging a line discrepancy
type FlagAnomalyInput struct {
	TenantID  uuid.UUID
	InvoiceID uuid.UUID
	LineID    uuid.UUID
	Type      string
	Severity  string
	Note      string
}

// FlagLineAnomaly records a discrepancy found on a line during review
func (s *CarrierInvoiceService) FlagLineAnomaly(ctx context.Context, input FlagAnomalyInput) error {
	return s.mutate(ctx, input.TenantID, input.InvoiceID, func(ci *billing.CarrierInvoice) error {
		return ci.FlagLineAnomaly(input.LineID, billing.AnomalyType(input.Type), billing.AnomalySeverity(input.Severity), input.Note)
	})
}

// ValidateInvoice concludes the review without blocking findings
func (s *CarrierInvoiceService) ValidateInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	return s.mutate(ctx, tenantID, invoiceID, func(ci *billing.CarrierInvoice) error { return ci.Validate() })
}

// DisputeInvoice sends the invoice back to the carrier with a reason
func (s *CarrierInvoiceService) DisputeInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID, reason string) error {
	return s.mutate(ctx, tenantID, invoiceID, func(ci *billing.CarrierInvoice) error { return ci.Dispute(reason) })
}

// ResumeReview reopens review after a dispute was answered
func (s *CarrierInvoiceService) ResumeReview(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	return s.mutate(ctx, tenantID, invoiceID, func(ci *billing.CarrierInvoice) error { return ci.ResumeReview() })
}

// ApproveInvoice releases a validated invoice for payment
func (s *CarrierInvoiceService) ApproveInvoice(ctx context.Context, tenantID, invoiceID, approverID uuid.UUID) error {
	return s.mutate(ctx, tenantID, invoiceID, func(ci *billing.CarrierInvoice) error {
		return ci.Approve(approverID)
	})
}

// RejectInvoice terminally refuses the invoice with a reason
func (s *CarrierInvoiceService) RejectInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID, reason string) error {
	return s.mutate(ctx, tenantID, invoiceID, func(ci *billing.CarrierInvoice) error { return ci.Reject(reason) })
}

// MarkPaid records settlement of an approved invoice
func (s *CarrierInvoiceService) MarkPaid(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	return s.mutate(ctx, tenantID, invoiceID, func(ci *billing.CarrierInvoice) error { return ci.MarkPaid() })
}

func (s *CarrierInvoiceService) mutate(ctx context.Context, tenantID, invoiceID uuid.UUID, fn func(*billing.CarrierInvoice) error) error {
	ci, err := s.carrierInvoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return err
	}
	if err := fn(ci); err != nil {
		return err
	}
	if err := s.carrierInvoiceRepo.Save(ctx, ci); err != nil {
		return err
	}
	s.publishEvents(ctx, ci)
	return nil
}

func (s *CarrierInvoiceService) publishEvents(ctx context.Context, ci *billing.CarrierInvoice) {
	if s.eventBus == nil {
		return
	}
	events := ci.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
	ci.ClearDomainEvents()
}
