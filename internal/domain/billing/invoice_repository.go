package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// InvoiceRepository defines persistence operations for customer invoices.
// Save persists the aggregate together with its lines atomically.
type InvoiceRepository interface {
	shared.TenantRepository[Invoice]

	// FindByNumber finds an invoice by its number within a tenant
	FindByNumber(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (*Invoice, error)

	// FindByCustomer finds all invoices billed to a partner
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]Invoice, error)

	// SaveWithLock persists the invoice with an optimistic concurrency check
	SaveWithLock(ctx context.Context, inv *Invoice, expectedVersion int) error
}

// CarrierInvoiceRepository defines persistence operations for carrier invoices
type CarrierInvoiceRepository interface {
	shared.TenantRepository[CarrierInvoice]

	// FindByCarrierAndNumber finds a carrier invoice by the carrier's own
	// invoice number. Numbers are only unique per carrier.
	FindByCarrierAndNumber(ctx context.Context, tenantID, carrierID uuid.UUID, invoiceNumber string) (*CarrierInvoice, error)

	// FindByStatus finds carrier invoices in a given workflow status
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status CarrierInvoiceStatus, filter shared.Filter) ([]CarrierInvoice, error)

	// SaveWithLock persists the carrier invoice with an optimistic concurrency check
	SaveWithLock(ctx context.Context, ci *CarrierInvoice, expectedVersion int) error
}

// PaymentRepository defines persistence operations for payments
type PaymentRepository interface {
	shared.TenantRepository[Payment]

	// FindByInvoice finds all payments recorded against a customer invoice
	FindByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]Payment, error)

	// FindByCarrierInvoice finds all payments recorded against a carrier invoice
	FindByCarrierInvoice(ctx context.Context, tenantID, carrierInvoiceID uuid.UUID) ([]Payment, error)

	// SaveWithLock persists the payment with an optimistic concurrency check
	SaveWithLock(ctx context.Context, p *Payment, expectedVersion int) error
}

// BankAccountRepository defines persistence operations for bank accounts
type BankAccountRepository interface {
	shared.TenantRepository[BankAccount]

	// FindByPartner finds all bank accounts of a partner
	FindByPartner(ctx context.Context, tenantID, partnerID uuid.UUID) ([]BankAccount, error)
}
