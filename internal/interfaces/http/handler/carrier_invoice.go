package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	billingapp "github.com/tms/backend/internal/application/billing"
)

// CarrierInvoiceHandler handles received carrier invoice API endpoints
type CarrierInvoiceHandler struct {
	BaseHandler
	carrierInvoiceService *billingapp.CarrierInvoiceService
}

// NewCarrierInvoiceHandler creates a new CarrierInvoiceHandler
func NewCarrierInvoiceHandler(carrierInvoiceService *billingapp.CarrierInvoiceService) *CarrierInvoiceHandler {
	return &CarrierInvoiceHandler{carrierInvoiceService: carrierInvoiceService}
}

// RegisterCarrierInvoiceRequest is the request body for registering a carrier bill
type RegisterCarrierInvoiceRequest struct {
	CarrierID     string    `json:"carrier_id" binding:"required,uuid"`
	InvoiceNumber string    `json:"invoice_number" binding:"required,max=50"`
	InvoiceDate   time.Time `json:"invoice_date" binding:"required"`
	Currency      string    `json:"currency" binding:"omitempty,len=3"`
}

// CarrierInvoiceLineRequest is the request body for adding a charged position
type CarrierInvoiceLineRequest struct {
	Description    string           `json:"description" binding:"required,max=500"`
	ShipmentID     *string          `json:"shipment_id" binding:"omitempty,uuid"`
	InvoicedAmount decimal.Decimal  `json:"invoiced_amount" binding:"required"`
	ExpectedAmount *decimal.Decimal `json:"expected_amount"`
}

// FlagAnomalyRequest is the request body for flagging a line discrepancy
type FlagAnomalyRequest struct {
	Type     string `json:"type" binding:"required,oneof=price_variance unknown_charge duplicate missing_proof"`
	Severity string `json:"severity" binding:"required,oneof=low medium high"`
	Note     string `json:"note" binding:"max=500"`
}

// DisputeRequest is the request body for disputing or rejecting an invoice
type DisputeRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// Register records a bill received from a carrier
func (h *CarrierInvoiceHandler) Register(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	var req RegisterCarrierInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	carrierID, err := uuid.Parse(req.CarrierID)
	if err != nil {
		h.BadRequest(c, "Invalid carrier ID")
		return
	}

	result, err := h.carrierInvoiceService.RegisterCarrierInvoice(c.Request.Context(), billingapp.RegisterCarrierInvoiceInput{
		TenantID:      tenantID,
		CarrierID:     carrierID,
		InvoiceNumber: req.InvoiceNumber,
		InvoiceDate:   req.InvoiceDate,
		Currency:      req.Currency,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// AmendCarrierInvoiceRequest is the request body for correcting a received
// carrier invoice
type AmendCarrierInvoiceRequest struct {
	InvoiceNumber string    `json:"invoice_number" binding:"required,max=50"`
	InvoiceDate   time.Time `json:"invoice_date" binding:"required"`
}

// Amend corrects the header of a carrier invoice before review starts
func (h *CarrierInvoiceHandler) Amend(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	invoiceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid carrier invoice ID")
		return
	}
	var req AmendCarrierInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.carrierInvoiceService.AmendCarrierInvoice(c.Request.Context(), billingapp.AmendCarrierInvoiceInput{
		TenantID:      tenantID,
		InvoiceID:     invoiceID,
		InvoiceNumber: req.InvoiceNumber,
		InvoiceDate:   req.InvoiceDate,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// Get returns a single carrier invoice with its lines and anomalies
func (h *CarrierInvoiceHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	invoiceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid carrier invoice ID")
		return
	}
	result, err := h.carrierInvoiceService.GetCarrierInvoice(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// List returns carrier invoices matching the query
func (h *CarrierInvoiceHandler) List(c *gin.Context) {
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
	if raw := c.Query("carrier_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid carrier ID")
			return
		}
		filter.Filters["carrier_id"] = id
	}

	result, err := h.carrierInvoiceService.ListCarrierInvoices(c.Request.Context(), tenantID, c.Query("status"), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}

// AddLine appends a charged position to a received invoice
func (h *CarrierInvoiceHandler) AddLine(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	invoiceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid carrier invoice ID")
		return
	}
	var req CarrierInvoiceLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	shipmentID, err := parseOptionalUUID(req.ShipmentID)
	if err != nil {
		h.BadRequest(c, "Invalid shipment ID")
		return
	}

	result, err := h.carrierInvoiceService.AddLine(c.Request.Context(), billingapp.AddCarrierLineInput{
		TenantID:       tenantID,
		InvoiceID:      invoiceID,
		Description:    req.Description,
		ShipmentID:     shipmentID,
		InvoicedAmount: req.InvoicedAmount,
		ExpectedAmount: req.ExpectedAmount,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// StartReview moves a received invoice into review
func (h *CarrierInvoiceHandler) StartReview(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	invoiceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid carrier invoice ID")
		return
	}
	reviewerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing user context")
		return
	}
	if err := h.carrierInvoiceService.StartReview(c.Request.Context(), tenantID, invoiceID, reviewerID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// FlagLineAnomaly records a discrepancy found on a line during review
func (h *CarrierInvoiceHandler) FlagLineAnomaly(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	invoiceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid carrier invoice ID")
		return
	}
	lineID, err := parseUUIDParam(c, "lineId")
	if err != nil {
		h.BadRequest(c, "Invalid line ID")
		return
	}
	var req FlagAnomalyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.carrierInvoiceService.FlagLineAnomaly(c.Request.Context(), billingapp.FlagAnomalyInput{
		TenantID:  tenantID,
		InvoiceID: invoiceID,
		LineID:    lineID,
		Type:      req.Type,
		Severity:  req.Severity,
		Note:      req.Note,
	}); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Validate marks a reviewed invoice as matching expectations
func (h *CarrierInvoiceHandler) Validate(c *gin.Context) {
	h.withCarrierInvoice(c, func(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
		return h.carrierInvoiceService.ValidateInvoice(ctx, tenantID, invoiceID)
	})
}

// Dispute flags the invoice as contested with the carrier
func (h *CarrierInvoiceHandler) Dispute(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	invoiceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid carrier invoice ID")
		return
	}
	var req DisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if err := h.carrierInvoiceService.DisputeInvoice(c.Request.Context(), tenantID, invoiceID, req.Reason); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// ResumeReview returns a disputed invoice to review
func (h *CarrierInvoiceHandler) ResumeReview(c *gin.Context) {
	h.withCarrierInvoice(c, func(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
		return h.carrierInvoiceService.ResumeReview(ctx, tenantID, invoiceID)
	})
}

// Approve releases a validated invoice for payment
func (h *CarrierInvoiceHandler) Approve(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	invoiceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid carrier invoice ID")
		return
	}
	approverID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing user context")
		return
	}
	if err := h.carrierInvoiceService.ApproveInvoice(c.Request.Context(), tenantID, invoiceID, approverID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Reject refuses the invoice
func (h *CarrierInvoiceHandler) Reject(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	invoiceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid carrier invoice ID")
		return
	}
	var req DisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if err := h.carrierInvoiceService.RejectInvoice(c.Request.Context(), tenantID, invoiceID, req.Reason); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// MarkPaid records settlement of an approved invoice
func (h *CarrierInvoiceHandler) MarkPaid(c *gin.Context) {
	h.withCarrierInvoice(c, func(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
		return h.carrierInvoiceService.MarkPaid(ctx, tenantID, invoiceID)
	})
}

func (h *CarrierInvoiceHandler) withCarrierInvoice(c *gin.Context, fn func(ctx context.Context, tenantID, invoiceID uuid.UUID) error) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	invoiceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid carrier invoice ID")
		return
	}
	if err := fn(c.Request.Context(), tenantID, invoiceID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
