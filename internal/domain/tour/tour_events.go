package tour

import (
	"github.com/tms/backend/internal/domain/shared"
)

// Tour event types
const (
	TourCreatedEventType        = "tour.created"
	TourStatusChangedEventType  = "tour.status_changed"
	TourStopsReorderedEventType = "tour.stops_reordered"
)

// TourCreatedEvent is raised when a new tour is created
type TourCreatedEvent struct {
	shared.BaseDomainEvent
	TourNumber string `json:"tour_number"`
}

// NewTourCreatedEvent creates a new TourCreatedEvent
func NewTourCreatedEvent(t *Tour) *TourCreatedEvent {
	return &TourCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(TourCreatedEventType, "Tour", t.ID, t.TenantID),
		TourNumber:      t.TourNumber,
	}
}

// TourStatusChangedEvent is raised on every tour status transition
type TourStatusChangedEvent struct {
	shared.BaseDomainEvent
	TourNumber string     `json:"tour_number"`
	OldStatus  TourStatus `json:"old_status"`
	NewStatus  TourStatus `json:"new_status"`
}

// NewTourStatusChangedEvent creates a new TourStatusChangedEvent
func NewTourStatusChangedEvent(t *Tour, oldStatus, newStatus TourStatus) *TourStatusChangedEvent {
	return &TourStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(TourStatusChangedEventType, "Tour", t.ID, t.TenantID),
		TourNumber:      t.TourNumber,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// TourStopsReorderedEvent is raised when the stop sequence changes
type TourStopsReorderedEvent struct {
	shared.BaseDomainEvent
	TourNumber string `json:"tour_number"`
	StopCount  int    `json:"stop_count"`
}

// NewTourStopsReorderedEvent creates a new TourStopsReorderedEvent
func NewTourStopsReorderedEvent(t *Tour) *TourStopsReorderedEvent {
	return &TourStopsReorderedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(TourStopsReorderedEventType, "Tour", t.ID, t.TenantID),
		TourNumber:      t.TourNumber,
		StopCount:       len(t.Stops),
	}
}
