package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	shipmentapp "github.com/tms/backend/internal/application/shipment"
)

// ShipmentHandler handles shipment API endpoints
type ShipmentHandler struct {
	BaseHandler
	shipmentService *shipmentapp.ShipmentService
	documentService *shipmentapp.DocumentService
}

// NewShipmentHandler creates a new ShipmentHandler
func NewShipmentHandler(shipmentService *shipmentapp.ShipmentService, documentService *shipmentapp.DocumentService) *ShipmentHandler {
	return &ShipmentHandler{
		shipmentService: shipmentService,
		documentService: documentService,
	}
}

// CreateShipmentRequest is the request body for creating a standalone shipment
type CreateShipmentRequest struct {
	ShipmentNumber     string     `json:"shipment_number" binding:"max=50"`
	OrderID            *string    `json:"order_id" binding:"omitempty,uuid"`
	OriginAddress      string     `json:"origin_address" binding:"max=500"`
	OriginCountry      string     `json:"origin_country" binding:"omitempty,len=2"`
	DestinationAddress string     `json:"destination_address" binding:"max=500"`
	DestinationCountry string     `json:"destination_country" binding:"omitempty,len=2"`
	PlannedPickupAt    *time.Time `json:"planned_pickup_at"`
	PlannedDeliveryAt  *time.Time `json:"planned_delivery_at"`
	Notes              string     `json:"notes"`
}

// UpdateShipmentRequest is the request body for updating a planned shipment
type UpdateShipmentRequest struct {
	Version            int        `json:"version" binding:"required,min=1"`
	OriginAddress      *string    `json:"origin_address" binding:"omitempty,max=500"`
	OriginCountry      *string    `json:"origin_country" binding:"omitempty,len=2"`
	DestinationAddress *string    `json:"destination_address" binding:"omitempty,max=500"`
	DestinationCountry *string    `json:"destination_country" binding:"omitempty,len=2"`
	PlannedPickupAt    *time.Time `json:"planned_pickup_at"`
	PlannedDeliveryAt  *time.Time `json:"planned_delivery_at"`
	Notes              *string    `json:"notes"`
}

// SegmentRequest is the request body for adding or replacing a transport segment
type SegmentRequest struct {
	Mode                string     `json:"mode" binding:"required,oneof=road rail sea air inland_waterway"`
	CarrierID           *string    `json:"carrier_id" binding:"omitempty,uuid"`
	VehicleID           *string    `json:"vehicle_id" binding:"omitempty,uuid"`
	DriverID            *string    `json:"driver_id" binding:"omitempty,uuid"`
	OriginLocation      string     `json:"origin_location" binding:"max=255"`
	DestinationLocation string     `json:"destination_location" binding:"max=255"`
	PlannedDepartureAt  *time.Time `json:"planned_departure_at"`
	PlannedArrivalAt    *time.Time `json:"planned_arrival_at"`
}

// UnitRequest is the request body for adding a transport unit
type UnitRequest struct {
	Type          string          `json:"type" binding:"required,oneof=container trailer swap_body pallet bulk"`
	Identifier    string          `json:"identifier" binding:"required,max=50"`
	SealNumber    string          `json:"seal_number" binding:"max=50"`
	TareWeightKg  decimal.Decimal `json:"tare_weight_kg"`
	NetWeightKg   decimal.Decimal `json:"net_weight_kg"`
	GrossWeightKg decimal.Decimal `json:"gross_weight_kg"`
}

// TrackingEventRequest is the request body for recording a tracking event
type TrackingEventRequest struct {
	Type       string    `json:"type" binding:"required,oneof=pickup departure arrival customs_hold customs_release delay position delivery exception"`
	OccurredAt time.Time `json:"occurred_at" binding:"required"`
	Location   string    `json:"location" binding:"max=255"`
	Latitude   *float64  `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude  *float64  `json:"longitude" binding:"omitempty,min=-180,max=180"`
	Notes      string    `json:"notes"`
}

// SegmentTimestampRequest carries the actual departure or arrival time
type SegmentTimestampRequest struct {
	At time.Time `json:"at" binding:"required"`
}

// RequestUploadRequest is the request body for presigning a document upload
type RequestUploadRequest struct {
	FileName    string `json:"file_name" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"max=100"`
}

// AttachShipmentDocumentRequest is the request body for attaching an uploaded document
type AttachShipmentDocumentRequest struct {
	Type        string `json:"type" binding:"required,oneof=cmr bill_of_lading air_waybill customs_declaration packing_list delivery_note pod other"`
	Name        string `json:"name" binding:"required,max=255"`
	StorageKey  string `json:"storage_key" binding:"required,max=500"`
	ContentType string `json:"content_type" binding:"max=100"`
	SizeBytes   int64  `json:"size_bytes" binding:"min=0"`
}

// Create creates a new planned shipment
func (h *ShipmentHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	var req CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	orderID, err := parseOptionalUUID(req.OrderID)
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}
	userID, _ := getUserID(c)

	result, err := h.shipmentService.CreateShipment(c.Request.Context(), shipmentapp.CreateShipmentInput{
		TenantID:           tenantID,
		ShipmentNumber:     req.ShipmentNumber,
		OrderID:            orderID,
		OriginAddress:      req.OriginAddress,
		OriginCountry:      req.OriginCountry,
		DestinationAddress: req.DestinationAddress,
		DestinationCountry: req.DestinationCountry,
		PlannedPickupAt:    req.PlannedPickupAt,
		PlannedDeliveryAt:  req.PlannedDeliveryAt,
		Notes:              req.Notes,
		CreatedBy:          userID,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// Get returns a single shipment with segments, units, events and documents
func (h *ShipmentHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	shipmentID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid shipment ID")
		return
	}
	result, err := h.shipmentService.GetShipment(c.Request.Context(), tenantID, shipmentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// List returns shipments matching the query
func (h *ShipmentHandler) List(c *gin.Context) {
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
	if raw := c.Query("order_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid order ID")
			return
		}
		filter.Filters["order_id"] = id
	}
	if raw := c.Query("carrier_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid carrier ID")
			return
		}
		filter.Filters["carrier_id"] = id
	}

	result, err := h.shipmentService.ListShipments(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}

// Update updates a shipment's plan
func (h *ShipmentHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	shipmentID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid shipment ID")
		return
	}
	var req UpdateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.shipmentService.UpdateShipment(c.Request.Context(), shipmentapp.UpdateShipmentInput{
		TenantID:           tenantID,
		ShipmentID:         shipmentID,
		Version:            req.Version,
		OriginAddress:      req.OriginAddress,
		OriginCountry:      req.OriginCountry,
		DestinationAddress: req.DestinationAddress,
		DestinationCountry: req.DestinationCountry,
		PlannedPickupAt:    req.PlannedPickupAt,
		PlannedDeliveryAt:  req.PlannedDeliveryAt,
		Notes:              req.Notes,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// Delete removes a shipment that has not left planning
func (h *ShipmentHandler) Delete(c *gin.Context) {
	h.withShipment(c, func(ctx context.Context, tenantID, shipmentID uuid.UUID) error {
		return h.shipmentService.DeleteShipment(ctx, tenantID, shipmentID)
	})
}

// Book transitions the shipment from planned to booked
func (h *ShipmentHandler) Book(c *gin.Context) {
	h.withShipment(c, func(ctx context.Context, tenantID, shipmentID uuid.UUID) error {
		return h.shipmentService.BookShipment(ctx, tenantID, shipmentID)
	})
}

// Depart marks the shipment as in transit
func (h *ShipmentHandler) Depart(c *gin.Context) {
	h.withShipment(c, func(ctx context.Context, tenantID, shipmentID uuid.UUID) error {
		return h.shipmentService.DepartShipment(ctx, tenantID, shipmentID)
	})
}

// Deliver marks the shipment as delivered
func (h *ShipmentHandler) Deliver(c *gin.Context) {
	h.withShipment(c, func(ctx context.Context, tenantID, shipmentID uuid.UUID) error {
		return h.shipmentService.MarkDelivered(ctx, tenantID, shipmentID)
	})
}

// Complete closes a delivered shipment
func (h *ShipmentHandler) Complete(c *gin.Context) {
	h.withShipment(c, func(ctx context.Context, tenantID, shipmentID uuid.UUID) error {
		return h.shipmentService.CompleteShipment(ctx, tenantID, shipmentID)
	})
}

// Cancel cancels a shipment that has not been delivered
func (h *ShipmentHandler) Cancel(c *gin.Context) {
	h.withShipment(c, func(ctx context.Context, tenantID, shipmentID uuid.UUID) error {
		return h.shipmentService.CancelShipment(ctx, tenantID, shipmentID)
	})
}

// AddSegment appends a transport segment
func (h *ShipmentHandler) AddSegment(c *gin.Context) {
	tenantID, shipmentID, req, ok := h.bindSegment(c)
	if !ok {
		return
	}
	input, err := h.segmentInput(tenantID, shipmentID, req)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	result, err := h.shipmentService.AddSegment(c.Request.Context(), input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// UpdateSegment replaces a segment's plan
func (h *ShipmentHandler) UpdateSegment(c *gin.Context) {
	tenantID, shipmentID, req, ok := h.bindSegment(c)
	if !ok {
		return
	}
	segmentID, err := parseUUIDParam(c, "segmentId")
	if err != nil {
		h.BadRequest(c, "Invalid segment ID")
		return
	}
	input, err := h.segmentInput(tenantID, shipmentID, req)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	result, err := h.shipmentService.UpdateSegment(c.Request.Context(), segmentID, input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// RemoveSegment removes a segment from a planned shipment
func (h *ShipmentHandler) RemoveSegment(c *gin.Context) {
	h.withShipmentChild(c, "segmentId", func(ctx context.Context, tenantID, shipmentID, segmentID uuid.UUID) error {
		return h.shipmentService.RemoveSegment(ctx, tenantID, shipmentID, segmentID)
	})
}

// RecordSegmentDeparture stamps the actual departure of a segment
func (h *ShipmentHandler) RecordSegmentDeparture(c *gin.Context) {
	h.recordSegmentTime(c, h.shipmentService.RecordSegmentDeparture)
}

// RecordSegmentArrival stamps the actual arrival of a segment
func (h *ShipmentHandler) RecordSegmentArrival(c *gin.Context) {
	h.recordSegmentTime(c, h.shipmentService.RecordSegmentArrival)
}

// AddUnit adds a transport unit
func (h *ShipmentHandler) AddUnit(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	shipmentID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid shipment ID")
		return
	}
	var req UnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.shipmentService.AddUnit(c.Request.Context(), shipmentapp.AddUnitInput{
		TenantID:      tenantID,
		ShipmentID:    shipmentID,
		Type:          req.Type,
		Identifier:    req.Identifier,
		SealNumber:    req.SealNumber,
		TareWeightKg:  req.TareWeightKg,
		NetWeightKg:   req.NetWeightKg,
		GrossWeightKg: req.GrossWeightKg,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// RemoveUnit removes a transport unit
func (h *ShipmentHandler) RemoveUnit(c *gin.Context) {
	h.withShipmentChild(c, "unitId", func(ctx context.Context, tenantID, shipmentID, unitID uuid.UUID) error {
		return h.shipmentService.RemoveUnit(ctx, tenantID, shipmentID, unitID)
	})
}

// RecordTrackingEvent appends to the shipment tracking log
func (h *ShipmentHandler) RecordTrackingEvent(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	shipmentID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid shipment ID")
		return
	}
	var req TrackingEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var recordedBy *uuid.UUID
	if userID, err := getUserID(c); err == nil {
		recordedBy = &userID
	}

	result, err := h.shipmentService.RecordTrackingEvent(c.Request.Context(), shipmentapp.RecordTrackingInput{
		TenantID:   tenantID,
		ShipmentID: shipmentID,
		Type:       req.Type,
		OccurredAt: req.OccurredAt,
		Location:   req.Location,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		Notes:      req.Notes,
		RecordedBy: recordedBy,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// RequestDocumentUpload issues a presigned upload URL for a new document
func (h *ShipmentHandler) RequestDocumentUpload(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	shipmentID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid shipment ID")
		return
	}
	var req RequestUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.documentService.RequestUpload(c.Request.Context(), shipmentapp.RequestUploadInput{
		TenantID:    tenantID,
		ShipmentID:  shipmentID,
		FileName:    req.FileName,
		ContentType: req.ContentType,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// AttachDocument records an uploaded document on the shipment
func (h *ShipmentHandler) AttachDocument(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	shipmentID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid shipment ID")
		return
	}
	var req AttachShipmentDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.documentService.AttachDocument(c.Request.Context(), shipmentapp.AttachDocumentInput{
		TenantID:    tenantID,
		ShipmentID:  shipmentID,
		Type:        req.Type,
		Name:        req.Name,
		StorageKey:  req.StorageKey,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// GetDocumentDownloadURL issues a presigned download URL for a document
func (h *ShipmentHandler) GetDocumentDownloadURL(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	shipmentID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid shipment ID")
		return
	}
	documentID, err := parseUUIDParam(c, "documentId")
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}
	result, err := h.documentService.GetDownloadURL(c.Request.Context(), tenantID, shipmentID, documentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// RemoveDocument removes a document record from the shipment
func (h *ShipmentHandler) RemoveDocument(c *gin.Context) {
	h.withShipmentChild(c, "documentId", func(ctx context.Context, tenantID, shipmentID, documentID uuid.UUID) error {
		return h.documentService.RemoveDocument(ctx, tenantID, shipmentID, documentID)
	})
}

func (h *ShipmentHandler) withShipment(c *gin.Context, fn func(ctx context.Context, tenantID, shipmentID uuid.UUID) error) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	shipmentID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid shipment ID")
		return
	}
	if err := fn(c.Request.Context(), tenantID, shipmentID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *ShipmentHandler) withShipmentChild(c *gin.Context, param string, fn func(ctx context.Context, tenantID, shipmentID, childID uuid.UUID) error) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	shipmentID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid shipment ID")
		return
	}
	childID, err := parseUUIDParam(c, param)
	if err != nil {
		h.BadRequest(c, "Invalid "+param)
		return
	}
	if err := fn(c.Request.Context(), tenantID, shipmentID, childID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *ShipmentHandler) bindSegment(c *gin.Context) (uuid.UUID, uuid.UUID, SegmentRequest, bool) {
	var req SegmentRequest
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return uuid.Nil, uuid.Nil, req, false
	}
	shipmentID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid shipment ID")
		return uuid.Nil, uuid.Nil, req, false
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return uuid.Nil, uuid.Nil, req, false
	}
	return tenantID, shipmentID, req, true
}

func (h *ShipmentHandler) segmentInput(tenantID, shipmentID uuid.UUID, req SegmentRequest) (shipmentapp.AddSegmentInput, error) {
	carrierID, err := parseOptionalUUID(req.CarrierID)
	if err != nil {
		return shipmentapp.AddSegmentInput{}, err
	}
	vehicleID, err := parseOptionalUUID(req.VehicleID)
	if err != nil {
		return shipmentapp.AddSegmentInput{}, err
	}
	driverID, err := parseOptionalUUID(req.DriverID)
	if err != nil {
		return shipmentapp.AddSegmentInput{}, err
	}
	return shipmentapp.AddSegmentInput{
		TenantID:            tenantID,
		ShipmentID:          shipmentID,
		Mode:                req.Mode,
		CarrierID:           carrierID,
		VehicleID:           vehicleID,
		DriverID:            driverID,
		OriginLocation:      req.OriginLocation,
		DestinationLocation: req.DestinationLocation,
		PlannedDepartureAt:  req.PlannedDepartureAt,
		PlannedArrivalAt:    req.PlannedArrivalAt,
	}, nil
}

func (h *ShipmentHandler) recordSegmentTime(c *gin.Context, fn func(ctx context.Context, tenantID, shipmentID, segmentID uuid.UUID, at time.Time) error) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	shipmentID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid shipment ID")
		return
	}
	segmentID, err := parseUUIDParam(c, "segmentId")
	if err != nil {
		h.BadRequest(c, "Invalid segment ID")
		return
	}
	var req SegmentTimestampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if err := fn(c.Request.Context(), tenantID, shipmentID, segmentID, req.At); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
