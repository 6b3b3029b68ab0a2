package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	billingapp "github.com/tms/backend/internal/application/billing"
)

// PaymentHandler handles payment and bank account API endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *billingapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *billingapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreateIncomingPaymentRequest is the request body for registering a customer payment
type CreateIncomingPaymentRequest struct {
	InvoiceID string          `json:"invoice_id" binding:"required,uuid"`
	Reference string          `json:"reference" binding:"max=50"`
	Method    string          `json:"method" binding:"required,oneof=bank_transfer direct_debit credit_card cheque cash"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Currency  string          `json:"currency" binding:"omitempty,len=3"`
}

// CreateOutgoingPaymentRequest is the request body for registering a carrier payment
type CreateOutgoingPaymentRequest struct {
	CarrierInvoiceID string          `json:"carrier_invoice_id" binding:"required,uuid"`
	Reference        string          `json:"reference" binding:"max=50"`
	Method           string          `json:"method" binding:"required,oneof=bank_transfer direct_debit credit_card cheque cash"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	Currency         string          `json:"currency" binding:"omitempty,len=3"`
}

// FailPaymentRequest is the request body for marking a payment as failed
type FailPaymentRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// AddBankAccountRequest is the request body for registering partner bank coordinates
type AddBankAccountRequest struct {
	PartnerID  string `json:"partner_id" binding:"required,uuid"`
	HolderName string `json:"holder_name" binding:"required,max=255"`
	BankName   string `json:"bank_name" binding:"max=255"`
	IBAN       string `json:"iban" binding:"required,max=34"`
	BIC        string `json:"bic" binding:"max=11"`
	IsDefault  bool   `json:"is_default"`
}

// CreateIncoming registers a pending customer payment against an issued invoice
func (h *PaymentHandler) CreateIncoming(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	var req CreateIncomingPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	invoiceID, err := uuid.Parse(req.InvoiceID)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	result, err := h.paymentService.CreateIncomingPayment(c.Request.Context(), billingapp.CreateIncomingPaymentInput{
		TenantID:  tenantID,
		InvoiceID: invoiceID,
		Reference: req.Reference,
		Method:    req.Method,
		Amount:    req.Amount,
		Currency:  req.Currency,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// CreateOutgoing registers a pending payment to a carrier
func (h *PaymentHandler) CreateOutgoing(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	var req CreateOutgoingPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	carrierInvoiceID, err := uuid.Parse(req.CarrierInvoiceID)
	if err != nil {
		h.BadRequest(c, "Invalid carrier invoice ID")
		return
	}

	result, err := h.paymentService.CreateOutgoingPayment(c.Request.Context(), billingapp.CreateOutgoingPaymentInput{
		TenantID:         tenantID,
		CarrierInvoiceID: carrierInvoiceID,
		Reference:        req.Reference,
		Method:           req.Method,
		Amount:           req.Amount,
		Currency:         req.Currency,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// Get returns a single payment
func (h *PaymentHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	paymentID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}
	result, err := h.paymentService.GetPayment(c.Request.Context(), tenantID, paymentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// List returns payments matching the query
func (h *PaymentHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	filter, err := listFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if direction := c.Query("direction"); direction != "" {
		filter.Filters["direction"] = direction
	}
	if method := c.Query("method"); method != "" {
		filter.Filters["method"] = method
	}

	result, err := h.paymentService.ListPayments(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}

// Process moves a pending payment into processing
func (h *PaymentHandler) Process(c *gin.Context) {
	h.withPayment(c, func(ctx context.Context, tenantID, paymentID uuid.UUID) error {
		return h.paymentService.ProcessPayment(ctx, tenantID, paymentID)
	})
}

// Complete settles a payment and updates the linked invoice
func (h *PaymentHandler) Complete(c *gin.Context) {
	h.withPayment(c, func(ctx context.Context, tenantID, paymentID uuid.UUID) error {
		return h.paymentService.CompletePayment(ctx, tenantID, paymentID)
	})
}

// Fail marks a payment as failed
func (h *PaymentHandler) Fail(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	paymentID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}
	var req FailPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if err := h.paymentService.FailPayment(c.Request.Context(), tenantID, paymentID, req.Reason); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// AddBankAccount registers settlement coordinates for a partner
func (h *PaymentHandler) AddBankAccount(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	var req AddBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	partnerID, err := uuid.Parse(req.PartnerID)
	if err != nil {
		h.BadRequest(c, "Invalid partner ID")
		return
	}

	result, err := h.paymentService.AddBankAccount(c.Request.Context(), billingapp.AddBankAccountInput{
		TenantID:   tenantID,
		PartnerID:  partnerID,
		HolderName: req.HolderName,
		BankName:   req.BankName,
		IBAN:       req.IBAN,
		BIC:        req.BIC,
		IsDefault:  req.IsDefault,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// ListBankAccounts returns a partner's bank accounts. Registered under the
// partner resource, so the path parameter is the partner ID.
func (h *PaymentHandler) ListBankAccounts(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	partnerID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid partner ID")
		return
	}
	result, err := h.paymentService.ListBankAccounts(c.Request.Context(), tenantID, partnerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// DeactivateBankAccount retires a bank account from use
func (h *PaymentHandler) DeactivateBankAccount(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	accountID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid bank account ID")
		return
	}
	if err := h.paymentService.DeactivateBankAccount(c.Request.Context(), tenantID, accountID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *PaymentHandler) withPayment(c *gin.Context, fn func(ctx context.Context, tenantID, paymentID uuid.UUID) error) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	paymentID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}
	if err := fn(c.Request.Context(), tenantID, paymentID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
