package tour

import (
	"time"

	"github.com/google/uuid"

	"github.com/tms/backend/internal/domain/tour"
)

// TourDTO is the tour representation
type TourDTO struct {
	ID         uuid.UUID  `json:"id"`
	TourNumber string     `json:"tour_number"`
	Status     string     `json:"status"`
	TourDate   time.Time  `json:"tour_date"`
	VehicleID  *uuid.UUID `json:"vehicle_id,omitempty"`
	DriverID   *uuid.UUID `json:"driver_id,omitempty"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	Version    int        `json:"version"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Stops      []StopDTO  `json:"stops,omitempty"`
}

// StopDTO is a single visit on a tour
type StopDTO struct {
	ID          uuid.UUID  `json:"id"`
	StopOrder   int        `json:"stop_order"`
	Type        string     `json:"type"`
	Address     string     `json:"address"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	ShipmentID  *uuid.UUID `json:"shipment_id,omitempty"`
	PlannedAt   *time.Time `json:"planned_at,omitempty"`
	ArrivedAt   *time.Time `json:"arrived_at,omitempty"`
	DepartedAt  *time.Time `json:"departed_at,omitempty"`
	Instruction string     `json:"instruction,omitempty"`
}

func toTourDTO(t *tour.Tour) *TourDTO {
	dto := &TourDTO{
		ID:         t.ID,
		TourNumber: t.TourNumber,
		Status:     string(t.Status),
		TourDate:   t.TourDate,
		VehicleID:  t.VehicleID,
		DriverID:   t.DriverID,
		StartedAt:  t.StartedAt,
		EndedAt:    t.EndedAt,
		Notes:      t.Notes,
		Version:    t.Version,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
	for _, s := range t.Stops {
		dto.Stops = append(dto.Stops, StopDTO{
			ID:          s.ID,
			StopOrder:   s.StopOrder,
			Type:        string(s.Type),
			Address:     s.Address,
			Latitude:    s.Latitude,
			Longitude:   s.Longitude,
			ShipmentID:  s.ShipmentID,
			PlannedAt:   s.PlannedAt,
			ArrivedAt:   s.ArrivedAt,
			DepartedAt:  s.DepartedAt,
			Instruction: s.Instruction,
		})
	}
	return dto
}
