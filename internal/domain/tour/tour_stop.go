package tour

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// StopType describes what happens at a stop
type StopType string

const (
	StopPickup       StopType = "pickup"
	StopDelivery     StopType = "delivery"
	StopIntermediate StopType = "intermediate"
)

// IsValid returns true for a known stop type
func (t StopType) IsValid() bool {
	switch t {
	case StopPickup, StopDelivery, StopIntermediate:
		return true
	}
	return false
}

// Stop is a single visit on a tour. StopOrder is the planned visiting
// sequence; arrival and departure record the actual visit.
type Stop struct {
	shared.BaseEntity
	TourID      uuid.UUID
	StopOrder   int
	Type        StopType
	Address     string
	Latitude    float64
	Longitude   float64
	ShipmentID  *uuid.UUID // Shipment handled at this stop, if any
	PlannedAt   *time.Time
	ArrivedAt   *time.Time
	DepartedAt  *time.Time
	Instruction string
}

// NewStop creates a tour stop at the given coordinates
func NewStop(stopType StopType, address string, lat, lng float64) Stop {
	return Stop{
		BaseEntity: shared.NewBaseEntity(),
		Type:       stopType,
		Address:    strings.TrimSpace(address),
		Latitude:   lat,
		Longitude:  lng,
	}
}

// Validate checks the stop fields
func (s Stop) Validate() error {
	if !s.Type.IsValid() {
		return shared.NewDomainError("INVALID_STOP", "Unknown stop type")
	}
	if strings.TrimSpace(s.Address) == "" {
		return shared.NewDomainError("INVALID_STOP", "Stop address cannot be empty")
	}
	if s.Latitude < -90 || s.Latitude > 90 || s.Longitude < -180 || s.Longitude > 180 {
		return shared.NewDomainError("INVALID_STOP", "Stop coordinates are out of range")
	}
	return nil
}

// IsVisited reports whether arrival was recorded
func (s Stop) IsVisited() bool {
	return s.ArrivedAt != nil
}

// RecordArrival marks the stop as visited
func (s *Stop) RecordArrival(at time.Time) error {
	if s.ArrivedAt != nil {
		return shared.NewDomainError("ALREADY_VISITED", "Arrival has already been recorded")
	}
	if at.IsZero() {
		return shared.NewDomainError("INVALID_TIME", "Arrival time is required")
	}
	s.ArrivedAt = &at
	s.Touch()
	return nil
}

// RecordDeparture marks the visit as finished
func (s *Stop) RecordDeparture(at time.Time) error {
	if s.ArrivedAt == nil {
		return shared.NewDomainError("NOT_VISITED", "Departure requires a recorded arrival")
	}
	if s.DepartedAt != nil {
		return shared.NewDomainError("ALREADY_DEPARTED", "Departure has already been recorded")
	}
	if at.Before(*s.ArrivedAt) {
		return shared.NewDomainError("INVALID_TIME", "Departure cannot be before arrival")
	}
	s.DepartedAt = &at
	s.Touch()
	return nil
}
