package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	tourapp "github.com/tms/backend/internal/application/tour"
)

// TourHandler handles delivery tour API endpoints
type TourHandler struct {
	BaseHandler
	tourService *tourapp.TourService
}

// NewTourHandler creates a new TourHandler
func NewTourHandler(tourService *tourapp.TourService) *TourHandler {
	return &TourHandler{tourService: tourService}
}

// CreateTourRequest is the request body for creating a draft tour
type CreateTourRequest struct {
	TourNumber string    `json:"tour_number" binding:"max=50"`
	TourDate   time.Time `json:"tour_date" binding:"required"`
	VehicleID  *string   `json:"vehicle_id" binding:"omitempty,uuid"`
	DriverID   *string   `json:"driver_id" binding:"omitempty,uuid"`
	Notes      string    `json:"notes"`
}

// AssignRequest carries a vehicle or driver assignment
type AssignRequest struct {
	ID string `json:"id" binding:"required,uuid"`
}

// StopRequest is the request body for adding a tour stop
type StopRequest struct {
	Type        string     `json:"type" binding:"required,oneof=pickup delivery depot"`
	Address     string     `json:"address" binding:"required,max=500"`
	Latitude    float64    `json:"latitude" binding:"min=-90,max=90"`
	Longitude   float64    `json:"longitude" binding:"min=-180,max=180"`
	ShipmentID  *string    `json:"shipment_id" binding:"omitempty,uuid"`
	PlannedAt   *time.Time `json:"planned_at"`
	Instruction string     `json:"instruction" binding:"max=500"`
}

// ReorderStopsRequest carries the new stop sequence
type ReorderStopsRequest struct {
	StopIDs []string `json:"stop_ids" binding:"required,min=1,dive,uuid"`
}

// StopTimestampRequest carries the actual arrival or departure time at a stop
type StopTimestampRequest struct {
	At time.Time `json:"at" binding:"required"`
}

// Create creates a new draft tour
func (h *TourHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	var req CreateTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	vehicleID, err := parseOptionalUUID(req.VehicleID)
	if err != nil {
		h.BadRequest(c, "Invalid vehicle ID")
		return
	}
	driverID, err := parseOptionalUUID(req.DriverID)
	if err != nil {
		h.BadRequest(c, "Invalid driver ID")
		return
	}

	result, err := h.tourService.CreateTour(c.Request.Context(), tourapp.CreateTourInput{
		TenantID:   tenantID,
		TourNumber: req.TourNumber,
		TourDate:   req.TourDate,
		VehicleID:  vehicleID,
		DriverID:   driverID,
		Notes:      req.Notes,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// Get returns a single tour with its ordered stops
func (h *TourHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	tourID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tour ID")
		return
	}
	result, err := h.tourService.GetTour(c.Request.Context(), tenantID, tourID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// List returns tours matching the query
func (h *TourHandler) List(c *gin.Context) {
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
	if raw := c.Query("vehicle_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid vehicle ID")
			return
		}
		filter.Filters["vehicle_id"] = id
	}
	if raw := c.Query("driver_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid driver ID")
			return
		}
		filter.Filters["driver_id"] = id
	}
	var day *time.Time
	if raw := c.Query("date"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		day = &d
	}

	result, err := h.tourService.ListTours(c.Request.Context(), tenantID, day, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}

// AssignVehicle assigns a vehicle to the tour
func (h *TourHandler) AssignVehicle(c *gin.Context) {
	h.assign(c, h.tourService.AssignVehicle)
}

// AssignDriver assigns a driver to the tour
func (h *TourHandler) AssignDriver(c *gin.Context) {
	h.assign(c, h.tourService.AssignDriver)
}

// AddStop appends a stop to a draft tour
func (h *TourHandler) AddStop(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	tourID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tour ID")
		return
	}
	var req StopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	shipmentID, err := parseOptionalUUID(req.ShipmentID)
	if err != nil {
		h.BadRequest(c, "Invalid shipment ID")
		return
	}

	result, err := h.tourService.AddStop(c.Request.Context(), tourapp.AddStopInput{
		TenantID:    tenantID,
		TourID:      tourID,
		Type:        req.Type,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		ShipmentID:  shipmentID,
		PlannedAt:   req.PlannedAt,
		Instruction: req.Instruction,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// RemoveStop removes a stop from a draft tour
func (h *TourHandler) RemoveStop(c *gin.Context) {
	tenantID, tourID, stopID, ok := h.tourAndStop(c)
	if !ok {
		return
	}
	if err := h.tourService.RemoveStop(c.Request.Context(), tenantID, tourID, stopID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// ReorderStops re-sequences the stops of a draft or planned tour
func (h *TourHandler) ReorderStops(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	tourID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tour ID")
		return
	}
	var req ReorderStopsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	stopIDs := make([]uuid.UUID, len(req.StopIDs))
	for i, raw := range req.StopIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid stop ID")
			return
		}
		stopIDs[i] = id
	}
	if err := h.tourService.ReorderStops(c.Request.Context(), tenantID, tourID, stopIDs); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// OptimizeStops reorders stops by nearest-neighbor distance
func (h *TourHandler) OptimizeStops(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	tourID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tour ID")
		return
	}
	result, err := h.tourService.OptimizeStops(c.Request.Context(), tenantID, tourID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// Plan freezes the stop list and marks the tour ready for execution
func (h *TourHandler) Plan(c *gin.Context) {
	h.withTour(c, func(ctx context.Context, tenantID, tourID uuid.UUID) error {
		return h.tourService.PlanTour(ctx, tenantID, tourID)
	})
}

// Start begins tour execution
func (h *TourHandler) Start(c *gin.Context) {
	h.withTour(c, func(ctx context.Context, tenantID, tourID uuid.UUID) error {
		return h.tourService.StartTour(ctx, tenantID, tourID)
	})
}

// ArriveAtStop stamps arrival at a stop
func (h *TourHandler) ArriveAtStop(c *gin.Context) {
	h.stopTime(c, h.tourService.ArriveAtStop)
}

// DepartFromStop stamps departure from a stop
func (h *TourHandler) DepartFromStop(c *gin.Context) {
	h.stopTime(c, h.tourService.DepartFromStop)
}

// Complete finishes an in-progress tour
func (h *TourHandler) Complete(c *gin.Context) {
	h.withTour(c, func(ctx context.Context, tenantID, tourID uuid.UUID) error {
		return h.tourService.CompleteTour(ctx, tenantID, tourID)
	})
}

// Cancel cancels a tour that has not completed
func (h *TourHandler) Cancel(c *gin.Context) {
	h.withTour(c, func(ctx context.Context, tenantID, tourID uuid.UUID) error {
		return h.tourService.CancelTour(ctx, tenantID, tourID)
	})
}

// Delete removes a draft tour
func (h *TourHandler) Delete(c *gin.Context) {
	h.withTour(c, func(ctx context.Context, tenantID, tourID uuid.UUID) error {
		return h.tourService.DeleteTour(ctx, tenantID, tourID)
	})
}

func (h *TourHandler) withTour(c *gin.Context, fn func(ctx context.Context, tenantID, tourID uuid.UUID) error) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	tourID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tour ID")
		return
	}
	if err := fn(c.Request.Context(), tenantID, tourID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *TourHandler) assign(c *gin.Context, fn func(ctx context.Context, tenantID, tourID, assigneeID uuid.UUID) error) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	tourID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tour ID")
		return
	}
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	assigneeID, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid ID")
		return
	}
	if err := fn(c.Request.Context(), tenantID, tourID, assigneeID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *TourHandler) tourAndStop(c *gin.Context) (uuid.UUID, uuid.UUID, uuid.UUID, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return uuid.Nil, uuid.Nil, uuid.Nil, false
	}
	tourID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tour ID")
		return uuid.Nil, uuid.Nil, uuid.Nil, false
	}
	stopID, err := parseUUIDParam(c, "stopId")
	if err != nil {
		h.BadRequest(c, "Invalid stop ID")
		return uuid.Nil, uuid.Nil, uuid.Nil, false
	}
	return tenantID, tourID, stopID, true
}

func (h *TourHandler) stopTime(c *gin.Context, fn func(ctx context.Context, tenantID, tourID, stopID uuid.UUID, at time.Time) error) {
	tenantID, tourID, stopID, ok := h.tourAndStop(c)
	if !ok {
		return
	}
	var req StopTimestampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if err := fn(c.Request.Context(), tenantID, tourID, stopID, req.At); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
