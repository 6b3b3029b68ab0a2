package shipment

import (
	"time"

	"github.com/tms/backend/internal/domain/shared"
)

// Shipment event types
const (
	ShipmentCreatedEventType       = "shipment.created"
	ShipmentStatusChangedEventType = "shipment.status_changed"
	ShipmentTrackedEventType       = "shipment.tracked"
)

// ShipmentCreatedEvent is raised when a new shipment is created
type ShipmentCreatedEvent struct {
	shared.BaseDomainEvent
	ShipmentNumber string `json:"shipment_number"`
}

// NewShipmentCreatedEvent creates a new ShipmentCreatedEvent
func NewShipmentCreatedEvent(s *Shipment) *ShipmentCreatedEvent {
	return &ShipmentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(ShipmentCreatedEventType, "Shipment", s.ID, s.TenantID),
		ShipmentNumber:  s.ShipmentNumber,
	}
}

// ShipmentStatusChangedEvent is raised on every shipment status transition
type ShipmentStatusChangedEvent struct {
	shared.BaseDomainEvent
	ShipmentNumber string         `json:"shipment_number"`
	OldStatus      ShipmentStatus `json:"old_status"`
	NewStatus      ShipmentStatus `json:"new_status"`
}

// NewShipmentStatusChangedEvent creates a new ShipmentStatusChangedEvent
func NewShipmentStatusChangedEvent(s *Shipment, oldStatus, newStatus ShipmentStatus) *ShipmentStatusChangedEvent {
	return &ShipmentStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(ShipmentStatusChangedEventType, "Shipment", s.ID, s.TenantID),
		ShipmentNumber:  s.ShipmentNumber,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// ShipmentTrackedEvent is raised when a tracking event is recorded
type ShipmentTrackedEvent struct {
	shared.BaseDomainEvent
	ShipmentNumber string            `json:"shipment_number"`
	TrackingType   TrackingEventType `json:"tracking_type"`
	Location       string            `json:"location"`
	TrackedAt      time.Time         `json:"tracked_at"`
}

// NewShipmentTrackedEvent creates a new ShipmentTrackedEvent
func NewShipmentTrackedEvent(s *Shipment, te TrackingEvent) *ShipmentTrackedEvent {
	return &ShipmentTrackedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(ShipmentTrackedEventType, "Shipment", s.ID, s.TenantID),
		ShipmentNumber:  s.ShipmentNumber,
		TrackingType:    te.Type,
		Location:        te.Location,
		TrackedAt:       te.OccurredAt,
	}
}
