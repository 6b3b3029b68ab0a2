package shipment

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// TrackingEventType classifies a tracking event
type TrackingEventType string

const (
	TrackingPickup      TrackingEventType = "pickup"
	TrackingDeparture   TrackingEventType = "departure"
	TrackingArrival     TrackingEventType = "arrival"
	TrackingDelivery    TrackingEventType = "delivery"
	TrackingDelay       TrackingEventType = "delay"
	TrackingCustomsHold TrackingEventType = "customs_hold"
	TrackingIncident    TrackingEventType = "incident"
	TrackingPosition    TrackingEventType = "position"
)

// IsValid returns true for a known tracking event type
func (t TrackingEventType) IsValid() bool {
	switch t {
	case TrackingPickup, TrackingDeparture, TrackingArrival, TrackingDelivery,
		TrackingDelay, TrackingCustomsHold, TrackingIncident, TrackingPosition:
		return true
	}
	return false
}

// TrackingEvent is one entry in a shipment's append-only event log
type TrackingEvent struct {
	shared.BaseEntity
	ShipmentID uuid.UUID
	Type       TrackingEventType
	OccurredAt time.Time
	Location   string
	Latitude   *float64
	Longitude  *float64
	Notes      string
	RecordedBy *uuid.UUID
}

// NewTrackingEvent creates a new tracking event
func NewTrackingEvent(eventType TrackingEventType, occurredAt time.Time, location string) TrackingEvent {
	return TrackingEvent{
		BaseEntity: shared.NewBaseEntity(),
		Type:       eventType,
		OccurredAt: occurredAt,
		Location:   strings.TrimSpace(location),
	}
}

// Validate checks the tracking event fields
func (e TrackingEvent) Validate() error {
	if !e.Type.IsValid() {
		return shared.NewDomainError("INVALID_TRACKING_EVENT", "Unknown tracking event type")
	}
	if e.OccurredAt.IsZero() {
		return shared.NewDomainError("INVALID_TRACKING_EVENT", "Occurrence time is required")
	}
	if (e.Latitude == nil) != (e.Longitude == nil) {
		return shared.NewDomainError("INVALID_TRACKING_EVENT", "Latitude and longitude must be set together")
	}
	return nil
}
