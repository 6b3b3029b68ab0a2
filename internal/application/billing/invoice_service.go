package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tms/backend/internal/domain/billing"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/shared/valueobject"
)

// InvoiceService handles customer invoicing use cases
type InvoiceService struct {
	invoiceRepo billing.InvoiceRepository
	eventBus    shared.EventBus
	logger      *zap.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(invoiceRepo billing.InvoiceRepository, eventBus shared.EventBus, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// CreateInvoiceInput contains the input for creating an invoice
type CreateInvoiceInput struct {
	TenantID      uuid.UUID
	CustomerID    uuid.UUID
	InvoiceNumber string // Generated when empty
	OrderID       *uuid.UUID
	ShipmentID    *uuid.UUID
	Currency      string
	Notes         string
	CreatedBy     uuid.UUID
}

// CreateInvoice creates a new draft invoice
func (s *InvoiceService) CreateInvoice(ctx context.Context, input CreateInvoiceInput) (*InvoiceDTO, error) {
	number := input.InvoiceNumber
	if number == "" {
		number = generateInvoiceNumber()
	} else if existing, err := s.invoiceRepo.FindByNumber(ctx, input.TenantID, number); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Invoice number is already taken")
	}

	inv, err := billing.NewInvoice(input.TenantID, input.CustomerID, number)
	if err != nil {
		return nil, err
	}
	if input.Currency != "" {
		inv.Currency = valueobject.Currency(input.Currency)
		inv.PaidAmount = valueobject.Zero(inv.Currency)
	}
	inv.OrderID = input.OrderID
	inv.ShipmentID = input.ShipmentID
	inv.Notes = input.Notes
	if input.CreatedBy != uuid.Nil {
		inv.SetCreatedBy(input.CreatedBy)
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		s.logger.Error("Failed to create invoice", zap.Error(err))
		return nil, err
	}
	s.publishInvoiceEvents(ctx, inv)

	s.logger.Info("Invoice created",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("invoice_number", inv.InvoiceNumber))

	return toInvoiceDTO(inv), nil
}

// GetInvoice fetches an invoice by ID within a tenant
func (s *InvoiceService) GetInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceDTO, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	return toInvoiceDTO(inv), nil
}

// ListInvoices lists a tenant's invoices with pagination. When customerID is
// non-nil the listing is restricted to that customer.
func (s *InvoiceService) ListInvoices(ctx context.Context, tenantID uuid.UUID, customerID *uuid.UUID, filter shared.Filter) (*shared.Paginated[InvoiceDTO], error) {
	var (
		invoices []billing.Invoice
		err      error
	)
	if customerID != nil {
		invoices, err = s.invoiceRepo.FindByCustomer(ctx, tenantID, *customerID, filter)
	} else {
		invoices, err = s.invoiceRepo.FindAllForTenant(ctx, tenantID, filter)
	}
	if err != nil {
		return nil, err
	}
	total, err := s.invoiceRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]InvoiceDTO, len(invoices))
	for i := range invoices {
		dtos[i] = *toInvoiceDTO(&invoices[i])
	}
	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateInvoiceInput contains the editable header fields of a draft invoice
type UpdateInvoiceInput struct {
	TenantID  uuid.UUID
	InvoiceID uuid.UUID
	Notes     string
	DueDate   *time.Time
}

// UpdateInvoice changes the header of a draft invoice
func (s *InvoiceService) UpdateInvoice(ctx context.Context, input UpdateInvoiceInput) (*InvoiceDTO, error) {
	var dto *InvoiceDTO
	err := s.mutate(ctx, input.TenantID, input.InvoiceID, func(inv *billing.Invoice) error {
		if err := inv.UpdateDraft(input.Notes, input.DueDate); err != nil {
			return err
		}
		dto = toInvoiceDTO(inv)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// AddLineInput contains the input for adding an invoice line
type AddLineInput struct {
	TenantID    uuid.UUID
	InvoiceID   uuid.UUID
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	VATRate     decimal.Decimal
}

// AddLine adds a billed position to a draft invoice
func (s *InvoiceService) AddLine(ctx context.Context, input AddLineInput) (*InvoiceDTO, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, input.TenantID, input.InvoiceID)
	if err != nil {
		return nil, err
	}

	unitPrice, err := valueobject.NewMoney(input.UnitPrice, inv.Currency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_AMOUNT", err.Error())
	}
	line := billing.NewInvoiceLine(input.Description, input.Quantity, unitPrice)
	line.VATRate = input.VATRate

	if err := inv.AddLine(line); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	return toInvoiceDTO(inv), nil
}

// RemoveLine removes a line from a draft invoice
func (s *InvoiceService) RemoveLine(ctx context.Context, tenantID, invoiceID, lineID uuid.UUID) error {
	return s.mutate(ctx, tenantID, invoiceID, func(inv *billing.Invoice) error {
		return inv.RemoveLine(lineID)
	})
}

// IssueInvoice finalizes a draft invoice with a due date
func (s *InvoiceService) IssueInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID, dueDate time.Time) error {
	return s.mutate(ctx, tenantID, invoiceID, func(inv *billing.Invoice) error {
		return inv.Issue(dueDate)
	})
}

// MarkSent records that the invoice was delivered to the customer
func (s *InvoiceService) MarkSent(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	return s.mutate(ctx, tenantID, invoiceID, func(inv *billing.Invoice) error { return inv.MarkSent() })
}

// CancelInvoice cancels a draft or issued invoice
func (s *InvoiceService) CancelInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	return s.mutate(ctx, tenantID, invoiceID, func(inv *billing.Invoice) error { return inv.Cancel() })
}

// DeleteInvoice removes a draft invoice. Issued invoices are immutable
// accounting history and can only be cancelled.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return err
	}
	if inv.Status != billing.InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be deleted")
	}
	return s.invoiceRepo.Delete(ctx, invoiceID)
}

func (s *InvoiceService) mutate(ctx context.Context, tenantID, invoiceID uuid.UUID, fn func(*billing.Invoice) error) error {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return err
	}
	if err := fn(inv); err != nil {
		return err
	}
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return err
	}
	s.publishInvoiceEvents(ctx, inv)
	return nil
}

func (s *InvoiceService) publishInvoiceEvents(ctx context.Context, inv *billing.Invoice) {
	if s.eventBus == nil {
		return
	}
	events := inv.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
	inv.ClearDomainEvents()
}

func generateInvoiceNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("INV-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}
