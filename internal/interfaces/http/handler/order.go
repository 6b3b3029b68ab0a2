package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	orderapp "github.com/tms/backend/internal/application/order"
)

// OrderHandler handles transport order API endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrderRequest is the request body for creating an order
type CreateOrderRequest struct {
	CustomerID          string          `json:"customer_id" binding:"required,uuid"`
	OrderNumber         string          `json:"order_number" binding:"max=50"`
	Reference           string          `json:"reference" binding:"max=100"`
	Incoterm            string          `json:"incoterm" binding:"omitempty,max=3"`
	OriginAddress       string          `json:"origin_address" binding:"max=500"`
	OriginCountry       string          `json:"origin_country" binding:"omitempty,len=2"`
	DestinationAddress  string          `json:"destination_address" binding:"max=500"`
	DestinationCountry  string          `json:"destination_country" binding:"omitempty,len=2"`
	RequestedPickupAt   *time.Time      `json:"requested_pickup_at"`
	RequestedDeliveryAt *time.Time      `json:"requested_delivery_at"`
	Currency            string          `json:"currency" binding:"omitempty,len=3"`
	DeclaredValue       decimal.Decimal `json:"declared_value"`
	Notes               string          `json:"notes"`
}

// UpdateOrderRequest is the request body for updating a draft order
type UpdateOrderRequest struct {
	Version             int        `json:"version" binding:"required,min=1"`
	Reference           *string    `json:"reference" binding:"omitempty,max=100"`
	Incoterm            *string    `json:"incoterm" binding:"omitempty,max=3"`
	OriginAddress       *string    `json:"origin_address" binding:"omitempty,max=500"`
	OriginCountry       *string    `json:"origin_country" binding:"omitempty,len=2"`
	DestinationAddress  *string    `json:"destination_address" binding:"omitempty,max=500"`
	DestinationCountry  *string    `json:"destination_country" binding:"omitempty,len=2"`
	RequestedPickupAt   *time.Time `json:"requested_pickup_at"`
	RequestedDeliveryAt *time.Time `json:"requested_delivery_at"`
	Notes               *string    `json:"notes"`
}

// OrderLineRequest is the request body for adding or replacing an order line
type OrderLineRequest struct {
	Description      string          `json:"description" binding:"required,max=500"`
	Quantity         int             `json:"quantity" binding:"required,min=1"`
	PackageType      string          `json:"package_type" binding:"max=50"`
	WeightValue      decimal.Decimal `json:"weight_value"`
	WeightUnit       string          `json:"weight_unit" binding:"omitempty,oneof=kg lb t"`
	VolumeValue      decimal.Decimal `json:"volume_value"`
	VolumeUnit       string          `json:"volume_unit" binding:"omitempty,oneof=m3 ft3 l"`
	Length           decimal.Decimal `json:"length"`
	Width            decimal.Decimal `json:"width"`
	Height           decimal.Decimal `json:"height"`
	DimensionUnit    string          `json:"dimension_unit" binding:"omitempty,oneof=cm m in"`
	IsDangerousGoods bool            `json:"is_dangerous_goods"`
	UNNumber         string          `json:"un_number" binding:"max=10"`
	DGClass          string          `json:"dg_class" binding:"max=10"`
	IsCustomsGoods   bool            `json:"is_customs_goods"`
	HSCode           string          `json:"hs_code" binding:"max=20"`
}

// Create creates a new draft order
func (h *OrderHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}
	userID, _ := getUserID(c)

	result, err := h.orderService.CreateOrder(c.Request.Context(), orderapp.CreateOrderInput{
		TenantID:            tenantID,
		CustomerID:          customerID,
		OrderNumber:         req.OrderNumber,
		Reference:           req.Reference,
		Incoterm:            req.Incoterm,
		OriginAddress:       req.OriginAddress,
		OriginCountry:       req.OriginCountry,
		DestinationAddress:  req.DestinationAddress,
		DestinationCountry:  req.DestinationCountry,
		RequestedPickupAt:   req.RequestedPickupAt,
		RequestedDeliveryAt: req.RequestedDeliveryAt,
		Currency:            req.Currency,
		DeclaredValue:       req.DeclaredValue,
		Notes:               req.Notes,
		CreatedBy:           userID,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// Get returns a single order with its lines
func (h *OrderHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	orderID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}
	result, err := h.orderService.GetOrder(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// List returns orders matching the query
func (h *OrderHandler) List(c *gin.Context) {
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
	if origin := c.Query("origin_country"); origin != "" {
		filter.Filters["origin_country"] = origin
	}
	if dest := c.Query("destination_country"); dest != "" {
		filter.Filters["destination_country"] = dest
	}
	if incoterm := c.Query("incoterm"); incoterm != "" {
		filter.Filters["incoterm"] = incoterm
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

	result, err := h.orderService.ListOrders(c.Request.Context(), tenantID, customerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}

// Update updates a draft order
func (h *OrderHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	orderID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}
	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.orderService.UpdateOrder(c.Request.Context(), orderapp.UpdateOrderInput{
		TenantID:            tenantID,
		OrderID:             orderID,
		Version:             req.Version,
		Reference:           req.Reference,
		Incoterm:            req.Incoterm,
		OriginAddress:       req.OriginAddress,
		OriginCountry:       req.OriginCountry,
		DestinationAddress:  req.DestinationAddress,
		DestinationCountry:  req.DestinationCountry,
		RequestedPickupAt:   req.RequestedPickupAt,
		RequestedDeliveryAt: req.RequestedDeliveryAt,
		Notes:               req.Notes,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// Delete deletes a draft order
func (h *OrderHandler) Delete(c *gin.Context) {
	h.withOrder(c, h.orderService.DeleteOrder)
}

// Confirm confirms a draft order
func (h *OrderHandler) Confirm(c *gin.Context) {
	h.withOrder(c, h.orderService.ConfirmOrder)
}

// Cancel cancels an order
func (h *OrderHandler) Cancel(c *gin.Context) {
	h.withOrder(c, h.orderService.CancelOrder)
}

// ConvertToShipment moves a confirmed order into planning
func (h *OrderHandler) ConvertToShipment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	orderID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}
	result, err := h.orderService.ConvertToShipment(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// AddLine adds a line to a draft order
func (h *OrderHandler) AddLine(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	orderID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}
	var req OrderLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	result, err := h.orderService.AddLine(c.Request.Context(), lineInput(tenantID, orderID, req))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// UpdateLine replaces a line on a draft order
func (h *OrderHandler) UpdateLine(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	orderID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}
	lineID, err := parseUUIDParam(c, "lineId")
	if err != nil {
		h.BadRequest(c, "Invalid line ID")
		return
	}
	var req OrderLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	result, err := h.orderService.UpdateLine(c.Request.Context(), lineID, lineInput(tenantID, orderID, req))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// RemoveLine removes a line from a draft order
func (h *OrderHandler) RemoveLine(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	orderID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}
	lineID, err := parseUUIDParam(c, "lineId")
	if err != nil {
		h.BadRequest(c, "Invalid line ID")
		return
	}
	if err := h.orderService.RemoveLine(c.Request.Context(), tenantID, orderID, lineID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// withOrder runs a tenant+order scoped operation and replies 204 on success
func (h *OrderHandler) withOrder(c *gin.Context, fn func(ctx context.Context, tenantID, orderID uuid.UUID) error) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	orderID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}
	if err := fn(c.Request.Context(), tenantID, orderID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

func lineInput(tenantID, orderID uuid.UUID, req OrderLineRequest) orderapp.AddLineInput {
	return orderapp.AddLineInput{
		TenantID:         tenantID,
		OrderID:          orderID,
		Description:      req.Description,
		Quantity:         req.Quantity,
		PackageType:      req.PackageType,
		WeightValue:      req.WeightValue,
		WeightUnit:       req.WeightUnit,
		VolumeValue:      req.VolumeValue,
		VolumeUnit:       req.VolumeUnit,
		Length:           req.Length,
		Width:            req.Width,
		Height:           req.Height,
		DimensionUnit:    req.DimensionUnit,
		IsDangerousGoods: req.IsDangerousGoods,
		UNNumber:         req.UNNumber,
		DGClass:          req.DGClass,
		IsCustomsGoods:   req.IsCustomsGoods,
		HSCode:           req.HSCode,
	}
}
