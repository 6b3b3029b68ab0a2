package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	billingapp "github.com/tms/backend/internal/application/billing"
)

// InvoiceHandler handles customer invoice API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *billingapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *billingapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// CreateInvoiceRequest is the request body for creating a draft invoice
type CreateInvoiceRequest struct {
	CustomerID    string  `json:"customer_id" binding:"required,uuid"`
	InvoiceNumber string  `json:"invoice_number" binding:"max=50"`
	OrderID       *string `json:"order_id" binding:"omitempty,uuid"`
	ShipmentID    *string `json:"shipment_id" binding:"omitempty,uuid"`
	Currency      string  `json:"currency" binding:"omitempty,len=3"`
	Notes         string  `json:"notes"`
}

// InvoiceLineRequest is the request body for adding a billed position
type InvoiceLineRequest struct {
	Description string          `json:"description" binding:"required,max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	VATRate     decimal.Decimal `json:"vat_rate"`
}

// IssueInvoiceRequest is the request body for issuing a draft invoice
type IssueInvoiceRequest struct {
	DueDate time.Time `json:"due_date" binding:"required"`
}

// UpdateInvoiceRequest is the request body for updating a draft invoice
type UpdateInvoiceRequest struct {
	Notes   string     `json:"notes"`
	DueDate *time.Time `json:"due_date"`
}

// Create creates a new draft invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}
	orderID, err := parseOptionalUUID(req.OrderID)
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}
	shipmentID, err := parseOptionalUUID(req.ShipmentID)
	if err != nil {
		h.BadRequest(c, "Invalid shipment ID")
		return
	}
	userID, _ := getUserID(c)

	result, err := h.invoiceService.CreateInvoice(c.Request.Context(), billingapp.CreateInvoiceInput{
		TenantID:      tenantID,
		CustomerID:    customerID,
		InvoiceNumber: req.InvoiceNumber,
		OrderID:       orderID,
		ShipmentID:    shipmentID,
		Currency:      req.Currency,
		Notes:         req.Notes,
		CreatedBy:     userID,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// Get returns a single invoice with its lines
func (h *InvoiceHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	invoiceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	result, err := h.invoiceService.GetInvoice(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// List returns invoices matching the query
func (h *InvoiceHandler) List(c *gin.Context) {
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
	if overdue := c.Query("overdue"); overdue == "true" {
		filter.Filters["overdue"] = true
	}
	var customerID *uuid.UUID
	if raw := c.Query("customer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid customer ID")
			return
		}
		customerID = &id
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), tenantID, customerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}

// Update changes the editable header fields of a draft invoice
func (h *InvoiceHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	invoiceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	var req UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.invoiceService.UpdateInvoice(c.Request.Context(), billingapp.UpdateInvoiceInput{
		TenantID:  tenantID,
		InvoiceID: invoiceID,
		Notes:     req.Notes,
		DueDate:   req.DueDate,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// AddLine adds a billed position to a draft invoice
func (h *InvoiceHandler) AddLine(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	invoiceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	var req InvoiceLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.invoiceService.AddLine(c.Request.Context(), billingapp.AddLineInput{
		TenantID:    tenantID,
		InvoiceID:   invoiceID,
		Description: req.Description,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		VATRate:     req.VATRate,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// RemoveLine removes a position from a draft invoice
func (h *InvoiceHandler) RemoveLine(c *gin.Context) {
	h.withInvoiceChild(c, "lineId", func(ctx context.Context, tenantID, invoiceID, lineID uuid.UUID) error {
		return h.invoiceService.RemoveLine(ctx, tenantID, invoiceID, lineID)
	})
}

// Issue finalizes a draft invoice and sets its due date
func (h *InvoiceHandler) Issue(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	invoiceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	var req IssueInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if err := h.invoiceService.IssueInvoice(c.Request.Context(), tenantID, invoiceID, req.DueDate); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// MarkSent records that an issued invoice was delivered to the customer
func (h *InvoiceHandler) MarkSent(c *gin.Context) {
	h.withInvoice(c, func(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
		return h.invoiceService.MarkSent(ctx, tenantID, invoiceID)
	})
}

// Cancel cancels an unpaid invoice
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	h.withInvoice(c, func(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
		return h.invoiceService.CancelInvoice(ctx, tenantID, invoiceID)
	})
}

// Delete removes a draft invoice
func (h *InvoiceHandler) Delete(c *gin.Context) {
	h.withInvoice(c, func(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
		return h.invoiceService.DeleteInvoice(ctx, tenantID, invoiceID)
	})
}

func (h *InvoiceHandler) withInvoice(c *gin.Context, fn func(ctx context.Context, tenantID, invoiceID uuid.UUID) error) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	invoiceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	if err := fn(c.Request.Context(), tenantID, invoiceID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *InvoiceHandler) withInvoiceChild(c *gin.Context, param string, fn func(ctx context.Context, tenantID, invoiceID, childID uuid.UUID) error) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	invoiceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	childID, err := parseUUIDParam(c, param)
	if err != nil {
		h.BadRequest(c, "Invalid "+param)
		return
	}
	if err := fn(c.Request.Context(), tenantID, invoiceID, childID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
