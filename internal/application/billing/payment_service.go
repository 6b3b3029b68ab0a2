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

// PaymentService handles payments and partner bank accounts. Completing a
// payment propagates to the settled invoice.
type PaymentService struct {
	paymentRepo        billing.PaymentRepository
	invoiceRepo        billing.InvoiceRepository
	carrierInvoiceRepo billing.CarrierInvoiceRepository
	bankAccountRepo    billing.BankAccountRepository
	eventBus           shared.EventBus
	logger             *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo billing.PaymentRepository,
	invoiceRepo billing.InvoiceRepository,
	carrierInvoiceRepo billing.CarrierInvoiceRepository,
	bankAccountRepo billing.BankAccountRepository,
	eventBus shared.EventBus,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo:        paymentRepo,
		invoiceRepo:        invoiceRepo,
		carrierInvoiceRepo: carrierInvoiceRepo,
		bankAccountRepo:    bankAccountRepo,
		eventBus:           eventBus,
		logger:             logger,
	}
}

// CreateIncomingPaymentInput contains the input for recording an expected
// customer payment
type CreateIncomingPaymentInput struct {
	TenantID  uuid.UUID
	InvoiceID uuid.UUID
	Reference string // Generated when empty
	Method    string
	Amount    decimal.Decimal
	Currency  string
}

// CreateIncomingPayment registers a pending customer payment against an
// issued invoice
func (s *PaymentService) CreateIncomingPayment(ctx context.Context, input CreateIncomingPaymentInput) (*PaymentDTO, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, input.TenantID, input.InvoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status != billing.InvoiceStatusSent && inv.Status != billing.InvoiceStatusPartiallyPaid {
		return nil, shared.NewDomainError("INVALID_STATE", "Payments can only be recorded against sent invoices")
	}

	amount, err := paymentAmount(input.Amount, input.Currency, inv.Currency)
	if err != nil {
		return nil, err
	}
	reference := input.Reference
	if reference == "" {
		reference = generatePaymentReference()
	}

	p, err := billing.NewIncomingPayment(input.TenantID, inv.CustomerID, inv.ID, reference, billing.PaymentMethod(input.Method), amount)
	if err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, p); err != nil {
		s.logger.Error("Failed to create payment", zap.Error(err))
		return nil, err
	}
	s.publishPaymentEvents(ctx, p)
	return toPaymentDTO(p), nil
}

// CreateOutgoingPaymentInput contains the input for paying a carrier
type CreateOutgoingPaymentInput struct {
	TenantID         uuid.UUID
	CarrierInvoiceID uuid.UUID
	Reference        string // Generated when empty
	Method           string
	Amount           decimal.Decimal
	Currency         string
}

// CreateOutgoingPayment registers a pending payment to a carrier. Only
// approved carrier invoices can be paid.
func (s *PaymentService) CreateOutgoingPayment(ctx context.Context, input CreateOutgoingPaymentInput) (*PaymentDTO, error) {
	ci, err := s.carrierInvoiceRepo.FindByIDForTenant(ctx, input.TenantID, input.CarrierInvoiceID)
	if err != nil {
		return nil, err
	}
	if ci.Status != billing.CarrierInvoiceApproved {
		return nil, shared.NewDomainError("INVALID_STATE", "Only approved carrier invoices can be paid")
	}

	amount, err := paymentAmount(input.Amount, input.Currency, ci.Currency)
	if err != nil {
		return nil, err
	}
	reference := input.Reference
	if reference == "" {
		reference = generatePaymentReference()
	}

	p, err := billing.NewOutgoingPayment(input.TenantID, ci.CarrierID, ci.ID, reference, billing.PaymentMethod(input.Method), amount)
	if err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, p); err != nil {
		s.logger.Error("Failed to create payment", zap.Error(err))
		return nil, err
	}
	s.publishPaymentEvents(ctx, p)
	return toPaymentDTO(p), nil
}

// GetPayment fetches a payment by ID within a tenant
func (s *PaymentService) GetPayment(ctx context.Context, tenantID, paymentID uuid.UUID) (*PaymentDTO, error) {
	p, err := s.paymentRepo.FindByIDForTenant(ctx, tenantID, paymentID)
	if err != nil {
		return nil, err
	}
	return toPaymentDTO(p), nil
}

// ListPayments lists a tenant's payments with pagination
func (s *PaymentService) ListPayments(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[PaymentDTO], error) {
	payments, err := s.paymentRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.paymentRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]PaymentDTO, len(payments))
	for i := range payments {
		dtos[i] = *toPaymentDTO(&payments[i])
	}
	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ProcessPayment starts execution of a pending payment
func (s *PaymentService) ProcessPayment(ctx context.Context, tenantID, paymentID uuid.UUID) error {
	p, err := s.paymentRepo.FindByIDForTenant(ctx, tenantID, paymentID)
	if err != nil {
		return err
	}
	if err := p.Process(); err != nil {
		return err
	}
	if err := s.paymentRepo.Save(ctx, p); err != nil {
		return err
	}
	s.publishPaymentEvents(ctx, p)
	return nil
}

// CompletePayment records settlement and propagates to the paid invoice:
// incoming payments are applied against the customer invoice balance,
// outgoing payments mark the carrier invoice as paid.
func (s *PaymentService) CompletePayment(ctx context.Context, tenantID, paymentID uuid.UUID) error {
	p, err := s.paymentRepo.FindByIDForTenant(ctx, tenantID, paymentID)
	if err != nil {
		return err
	}
	if err := p.Complete(); err != nil {
		return err
	}

	switch {
	case p.InvoiceID != nil:
		inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, *p.InvoiceID)
		if err != nil {
			return err
		}
		if err := inv.RecordPayment(p.Amount); err != nil {
			return err
		}
		if err := s.invoiceRepo.Save(ctx, inv); err != nil {
			return err
		}
		s.publishAggregateEvents(ctx, inv)
	case p.CarrierInvoiceID != nil:
		ci, err := s.carrierInvoiceRepo.FindByIDForTenant(ctx, tenantID, *p.CarrierInvoiceID)
		if err != nil {
			return err
		}
		if err := ci.MarkPaid(); err != nil {
			return err
		}
		if err := s.carrierInvoiceRepo.Save(ctx, ci); err != nil {
			return err
		}
		s.publishAggregateEvents(ctx, ci)
	}

	if err := s.paymentRepo.Save(ctx, p); err != nil {
		return err
	}
	s.publishPaymentEvents(ctx, p)

	s.logger.Info("Payment completed",
		zap.String("payment_id", p.ID.String()),
		zap.String("reference", p.Reference))
	return nil
}

// FailPayment records a failed settlement attempt
func (s *PaymentService) FailPayment(ctx context.Context, tenantID, paymentID uuid.UUID, reason string) error {
	p, err := s.paymentRepo.FindByIDForTenant(ctx, tenantID, paymentID)
	if err != nil {
		return err
	}
	if err := p.Fail(reason); err != nil {
		return err
	}
	if err := s.paymentRepo.Save(ctx, p); err != nil {
		return err
	}
	s.publishPaymentEvents(ctx, p)
	return nil
}

// AddBankAccountInput contains the input for registering a bank account
type AddBankAccountInput struct {
	TenantID   uuid.UUID
	PartnerID  uuid.UUID
	HolderName string
	BankName   string
	IBAN       string
	BIC        string
	IsDefault  bool
}

// AddBankAccount registers settlement coordinates for a partner. Marking the
// account as default clears the flag on the partner's other accounts.
func (s *PaymentService) AddBankAccount(ctx context.Context, input AddBankAccountInput) (*BankAccountDTO, error) {
	account, err := billing.NewBankAccount(input.TenantID, input.PartnerID, input.HolderName, input.IBAN, input.BIC)
	if err != nil {
		return nil, err
	}
	account.BankName = strings.TrimSpace(input.BankName)

	existing, err := s.bankAccountRepo.FindByPartner(ctx, input.TenantID, input.PartnerID)
	if err != nil {
		return nil, err
	}
	if input.IsDefault || len(existing) == 0 {
		for i := range existing {
			if existing[i].IsDefault {
				existing[i].ClearDefault()
				if err := s.bankAccountRepo.Save(ctx, &existing[i]); err != nil {
					return nil, err
				}
			}
		}
		account.MarkDefault()
	}

	if err := s.bankAccountRepo.Save(ctx, account); err != nil {
		s.logger.Error("Failed to save bank account", zap.Error(err))
		return nil, err
	}
	return toBankAccountDTO(account), nil
}

// ListBankAccounts lists a partner's bank accounts
func (s *PaymentService) ListBankAccounts(ctx context.Context, tenantID, partnerID uuid.UUID) ([]BankAccountDTO, error) {
	accounts, err := s.bankAccountRepo.FindByPartner(ctx, tenantID, partnerID)
	if err != nil {
		return nil, err
	}
	dtos := make([]BankAccountDTO, len(accounts))
	for i := range accounts {
		dtos[i] = *toBankAccountDTO(&accounts[i])
	}
	return dtos, nil
}

// DeactivateBankAccount disables an account for new payments
func (s *PaymentService) DeactivateBankAccount(ctx context.Context, tenantID, accountID uuid.UUID) error {
	account, err := s.bankAccountRepo.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return err
	}
	account.Deactivate()
	return s.bankAccountRepo.Save(ctx, account)
}

func (s *PaymentService) publishPaymentEvents(ctx context.Context, p *billing.Payment) {
	if s.eventBus == nil {
		return
	}
	events := p.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
	p.ClearDomainEvents()
}

func (s *PaymentService) publishAggregateEvents(ctx context.Context, root shared.AggregateRoot) {
	if s.eventBus == nil {
		return
	}
	events := root.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
	root.ClearDomainEvents()
}

func paymentAmount(amount decimal.Decimal, currency string, invoiceCurrency valueobject.Currency) (valueobject.Money, error) {
	cur := invoiceCurrency
	if currency != "" {
		cur = valueobject.Currency(currency)
	}
	if cur != invoiceCurrency {
		return valueobject.Money{}, shared.NewDomainError("CURRENCY_MISMATCH", "Payment currency must match the invoice currency")
	}
	m, err := valueobject.NewMoney(amount, cur)
	if err != nil {
		return valueobject.Money{}, shared.NewDomainError("INVALID_AMOUNT", err.Error())
	}
	return m, nil
}

func generatePaymentReference() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("PAY-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}
