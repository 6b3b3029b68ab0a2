package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tms/backend/internal/domain/tour"
)

// TourModel is the persistence model for the Tour aggregate root.
type TourModel struct {
	TenantAggregateModel
	TourNumber string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_tour_tenant_number,priority:2"`
	Status     tour.TourStatus `gorm:"type:tour_status;not null;default:'draft';index"`
	TourDate   time.Time       `gorm:"type:date;not null;index"`
	VehicleID  *uuid.UUID      `gorm:"type:uuid;index"`
	DriverID   *uuid.UUID      `gorm:"type:uuid;index"`
	StartedAt  *time.Time
	EndedAt    *time.Time
	Notes      string `gorm:"type:text"`

	Stops []StopModel `gorm:"foreignKey:TourID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (TourModel) TableName() string {
	return "tours"
}

// StopModel is the persistence model for a tour stop.
type StopModel struct {
	BaseModel
	TourID      uuid.UUID     `gorm:"type:uuid;not null;index"`
	StopOrder   int           `gorm:"not null"`
	Type        tour.StopType `gorm:"type:stop_type;not null"`
	Address     string        `gorm:"type:varchar(500);not null"`
	Latitude    float64       `gorm:"not null"`
	Longitude   float64       `gorm:"not null"`
	ShipmentID  *uuid.UUID    `gorm:"type:uuid;index"`
	PlannedAt   *time.Time
	ArrivedAt   *time.Time
	DepartedAt  *time.Time
	Instruction string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (StopModel) TableName() string {
	return "tour_stops"
}

// ToDomain converts the persistence model to a domain Tour entity.
func (m *TourModel) ToDomain() *tour.Tour {
	t := &tour.Tour{
		TourNumber: m.TourNumber,
		Status:     m.Status,
		TourDate:   m.TourDate,
		VehicleID:  m.VehicleID,
		DriverID:   m.DriverID,
		StartedAt:  m.StartedAt,
		EndedAt:    m.EndedAt,
		Notes:      m.Notes,
	}
	m.PopulateTenantAggregateRoot(&t.TenantAggregateRoot)

	t.Stops = make([]tour.Stop, len(m.Stops))
	for i := range m.Stops {
		t.Stops[i] = m.Stops[i].ToDomain()
	}
	return t
}

// FromDomain populates the persistence model from a domain Tour entity.
func (m *TourModel) FromDomain(t *tour.Tour) {
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	m.TourNumber = t.TourNumber
	m.Status = t.Status
	m.TourDate = t.TourDate
	m.VehicleID = t.VehicleID
	m.DriverID = t.DriverID
	m.StartedAt = t.StartedAt
	m.EndedAt = t.EndedAt
	m.Notes = t.Notes

	m.Stops = make([]StopModel, len(t.Stops))
	for i := range t.Stops {
		m.Stops[i].FromDomain(&t.Stops[i])
	}
}

// TourModelFromDomain creates a new persistence model from a domain Tour.
func TourModelFromDomain(t *tour.Tour) *TourModel {
	m := &TourModel{}
	m.FromDomain(t)
	return m
}

// ToDomain converts the persistence model to a domain Stop.
func (m *StopModel) ToDomain() tour.Stop {
	return tour.Stop{
		BaseEntity:  m.BaseModel.ToDomain(),
		TourID:      m.TourID,
		StopOrder:   m.StopOrder,
		Type:        m.Type,
		Address:     m.Address,
		Latitude:    m.Latitude,
		Longitude:   m.Longitude,
		ShipmentID:  m.ShipmentID,
		PlannedAt:   m.PlannedAt,
		ArrivedAt:   m.ArrivedAt,
		DepartedAt:  m.DepartedAt,
		Instruction: m.Instruction,
	}
}

// FromDomain populates the persistence model from a domain Stop.
func (m *StopModel) FromDomain(s *tour.Stop) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.TourID = s.TourID
	m.StopOrder = s.StopOrder
	m.Type = s.Type
	m.Address = s.Address
	m.Latitude = s.Latitude
	m.Longitude = s.Longitude
	m.ShipmentID = s.ShipmentID
	m.PlannedAt = s.PlannedAt
	m.ArrivedAt = s.ArrivedAt
	m.DepartedAt = s.DepartedAt
	m.Instruction = s.Instruction
}
