package shipment

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// TransportMode is the mode of a single transport leg
type TransportMode string

const (
	ModeRoad           TransportMode = "road"
	ModeRail           TransportMode = "rail"
	ModeSea            TransportMode = "sea"
	ModeAir            TransportMode = "air"
	ModeInlandWaterway TransportMode = "inland_waterway"
)

// IsValid returns true for a known transport mode
func (m TransportMode) IsValid() bool {
	switch m {
	case ModeRoad, ModeRail, ModeSea, ModeAir, ModeInlandWaterway:
		return true
	}
	return false
}

// SegmentStatus tracks a single leg independently of the shipment status
type SegmentStatus string

const (
	SegmentStatusPlanned    SegmentStatus = "planned"
	SegmentStatusInProgress SegmentStatus = "in_progress"
	SegmentStatusCompleted  SegmentStatus = "completed"
)

// IsValid returns true for a known segment status
func (s SegmentStatus) IsValid() bool {
	switch s {
	case SegmentStatusPlanned, SegmentStatusInProgress, SegmentStatusCompleted:
		return true
	}
	return false
}

// TransportSegment is one leg of a shipment's journey, bound to a single
// mode and optionally to a carrier, vehicle, and driver.
type TransportSegment struct {
	shared.BaseEntity
	ShipmentID     uuid.UUID
	SequenceNumber int
	Mode           TransportMode
	Status         SegmentStatus

	CarrierID *uuid.UUID // Partner of type carrier
	VehicleID *uuid.UUID
	DriverID  *uuid.UUID

	OriginLocation      string
	DestinationLocation string

	PlannedDepartureAt *time.Time
	PlannedArrivalAt   *time.Time
	ActualDepartureAt  *time.Time
	ActualArrivalAt    *time.Time
}

// NewTransportSegment creates a new planned segment
func NewTransportSegment(mode TransportMode, origin, destination string) TransportSegment {
	return TransportSegment{
		BaseEntity:          shared.NewBaseEntity(),
		Mode:                mode,
		Status:              SegmentStatusPlanned,
		OriginLocation:      strings.TrimSpace(origin),
		DestinationLocation: strings.TrimSpace(destination),
	}
}

// Validate checks the segment fields
func (t TransportSegment) Validate() error {
	if !t.Mode.IsValid() {
		return shared.NewDomainError("INVALID_SEGMENT", "Unknown transport mode")
	}
	if t.Status != "" && !t.Status.IsValid() {
		return shared.NewDomainError("INVALID_SEGMENT", "Unknown segment status")
	}
	if strings.TrimSpace(t.OriginLocation) == "" || strings.TrimSpace(t.DestinationLocation) == "" {
		return shared.NewDomainError("INVALID_SEGMENT", "Origin and destination are required")
	}
	if t.PlannedDepartureAt != nil && t.PlannedArrivalAt != nil && t.PlannedArrivalAt.Before(*t.PlannedDepartureAt) {
		return shared.NewDomainError("INVALID_SEGMENT", "Planned arrival cannot precede planned departure")
	}
	return nil
}

// RecordDeparture stamps the actual departure time
func (t *TransportSegment) RecordDeparture(at time.Time) error {
	if t.Status == SegmentStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Segment is already completed")
	}
	t.ActualDepartureAt = &at
	t.Status = SegmentStatusInProgress
	t.Touch()
	return nil
}

// RecordArrival stamps the actual arrival time and completes the segment
func (t *TransportSegment) RecordArrival(at time.Time) error {
	if t.ActualDepartureAt == nil {
		return shared.NewDomainError("INVALID_STATE", "Cannot record arrival before departure")
	}
	if at.Before(*t.ActualDepartureAt) {
		return shared.NewDomainError("INVALID_SEGMENT", "Arrival cannot precede departure")
	}
	t.ActualArrivalAt = &at
	t.Status = SegmentStatusCompleted
	t.Touch()
	return nil
}
