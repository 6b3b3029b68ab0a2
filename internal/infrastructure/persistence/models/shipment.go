package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tms/backend/internal/domain/shipment"
)

// ShipmentModel is the persistence model for the Shipment aggregate root.
type ShipmentModel struct {
	TenantAggregateModel
	ShipmentNumber     string                  `gorm:"type:varchar(50);not null;uniqueIndex:idx_shipment_tenant_number,priority:2"`
	OrderID            *uuid.UUID              `gorm:"type:uuid;index"`
	Status             shipment.ShipmentStatus `gorm:"type:shipment_status;not null;default:'planned';index"`
	OriginAddress      string                  `gorm:"type:varchar(500);not null"`
	OriginCountry      string                  `gorm:"type:char(2);not null"`
	DestinationAddress string                  `gorm:"type:varchar(500);not null"`
	DestinationCountry string                  `gorm:"type:char(2);not null"`
	PlannedPickupAt    *time.Time              `gorm:"index"`
	PlannedDeliveryAt  *time.Time              `gorm:"index"`
	Notes              string                  `gorm:"type:text"`

	Segments       []SegmentModel          `gorm:"foreignKey:ShipmentID;references:ID;constraint:OnDelete:CASCADE"`
	Units          []TransportUnitModel    `gorm:"foreignKey:ShipmentID;references:ID;constraint:OnDelete:CASCADE"`
	TrackingEvents []TrackingEventModel    `gorm:"foreignKey:ShipmentID;references:ID;constraint:OnDelete:CASCADE"`
	Documents      []ShipmentDocumentModel `gorm:"foreignKey:ShipmentID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ShipmentModel) TableName() string {
	return "shipments"
}

// SegmentModel is the persistence model for a transport segment.
type SegmentModel struct {
	BaseModel
	ShipmentID     uuid.UUID              `gorm:"type:uuid;not null;index"`
	SequenceNumber int                    `gorm:"not null"`
	Mode           shipment.TransportMode `gorm:"type:transport_mode;not null"`
	Status         shipment.SegmentStatus `gorm:"type:segment_status;not null;default:'planned'"`

	CarrierID *uuid.UUID `gorm:"type:uuid;index"`
	VehicleID *uuid.UUID `gorm:"type:uuid"`
	DriverID  *uuid.UUID `gorm:"type:uuid"`

	OriginLocation      string `gorm:"type:varchar(500)"`
	DestinationLocation string `gorm:"type:varchar(500)"`

	PlannedDepartureAt *time.Time
	PlannedArrivalAt   *time.Time
	ActualDepartureAt  *time.Time
	ActualArrivalAt    *time.Time
}

// TableName returns the table name for GORM
func (SegmentModel) TableName() string {
	return "shipment_segments"
}

// TransportUnitModel is the persistence model for a transport unit.
type TransportUnitModel struct {
	BaseModel
	ShipmentID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	Type          shipment.UnitType `gorm:"type:transport_unit_type;not null"`
	Identifier    string            `gorm:"type:varchar(50);not null"`
	SealNumber    string            `gorm:"type:varchar(50)"`
	TareWeightKg  decimal.Decimal   `gorm:"type:decimal(12,3);not null;default:0"`
	NetWeightKg   decimal.Decimal   `gorm:"type:decimal(12,3);not null;default:0"`
	GrossWeightKg decimal.Decimal   `gorm:"type:decimal(12,3);not null;default:0"`
}

// TableName returns the table name for GORM
func (TransportUnitModel) TableName() string {
	return "shipment_units"
}

// TrackingEventModel is the persistence model for a tracking event.
type TrackingEventModel struct {
	BaseModel
	ShipmentID uuid.UUID                  `gorm:"type:uuid;not null;index"`
	Type       shipment.TrackingEventType `gorm:"type:tracking_event_type;not null"`
	OccurredAt time.Time                  `gorm:"not null;index"`
	Location   string                     `gorm:"type:varchar(500)"`
	Latitude   *float64
	Longitude  *float64
	Notes      string     `gorm:"type:text"`
	RecordedBy *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (TrackingEventModel) TableName() string {
	return "shipment_tracking_events"
}

// ShipmentDocumentModel is the persistence model for a shipment document.
type ShipmentDocumentModel struct {
	BaseModel
	ShipmentID  uuid.UUID                     `gorm:"type:uuid;not null;index"`
	Type        shipment.ShipmentDocumentType `gorm:"type:shipment_document_type;not null"`
	Name        string                        `gorm:"type:varchar(255);not null"`
	StorageKey  string                        `gorm:"type:varchar(500);not null"`
	ContentType string                        `gorm:"type:varchar(100)"`
	SizeBytes   int64                         `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ShipmentDocumentModel) TableName() string {
	return "shipment_documents"
}

// ToDomain converts the persistence model to a domain Shipment entity.
func (m *ShipmentModel) ToDomain() *shipment.Shipment {
	s := &shipment.Shipment{
		ShipmentNumber:     m.ShipmentNumber,
		OrderID:            m.OrderID,
		Status:             m.Status,
		OriginAddress:      m.OriginAddress,
		OriginCountry:      m.OriginCountry,
		DestinationAddress: m.DestinationAddress,
		DestinationCountry: m.DestinationCountry,
		PlannedPickupAt:    m.PlannedPickupAt,
		PlannedDeliveryAt:  m.PlannedDeliveryAt,
		Notes:              m.Notes,
	}
	m.PopulateTenantAggregateRoot(&s.TenantAggregateRoot)

	s.Segments = make([]shipment.TransportSegment, len(m.Segments))
	for i := range m.Segments {
		s.Segments[i] = m.Segments[i].ToDomain()
	}
	s.Units = make([]shipment.TransportUnit, len(m.Units))
	for i := range m.Units {
		s.Units[i] = m.Units[i].ToDomain()
	}
	s.TrackingEvents = make([]shipment.TrackingEvent, len(m.TrackingEvents))
	for i := range m.TrackingEvents {
		s.TrackingEvents[i] = m.TrackingEvents[i].ToDomain()
	}
	s.Documents = make([]shipment.ShipmentDocument, len(m.Documents))
	for i := range m.Documents {
		s.Documents[i] = m.Documents[i].ToDomain()
	}
	return s
}

// FromDomain populates the persistence model from a domain Shipment entity.
func (m *ShipmentModel) FromDomain(s *shipment.Shipment) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.ShipmentNumber = s.ShipmentNumber
	m.OrderID = s.OrderID
	m.Status = s.Status
	m.OriginAddress = s.OriginAddress
	m.OriginCountry = s.OriginCountry
	m.DestinationAddress = s.DestinationAddress
	m.DestinationCountry = s.DestinationCountry
	m.PlannedPickupAt = s.PlannedPickupAt
	m.PlannedDeliveryAt = s.PlannedDeliveryAt
	m.Notes = s.Notes

	m.Segments = make([]SegmentModel, len(s.Segments))
	for i := range s.Segments {
		m.Segments[i].FromDomain(&s.Segments[i])
	}
	m.Units = make([]TransportUnitModel, len(s.Units))
	for i := range s.Units {
		m.Units[i].FromDomain(&s.Units[i])
	}
	m.TrackingEvents = make([]TrackingEventModel, len(s.TrackingEvents))
	for i := range s.TrackingEvents {
		m.TrackingEvents[i].FromDomain(&s.TrackingEvents[i])
	}
	m.Documents = make([]ShipmentDocumentModel, len(s.Documents))
	for i := range s.Documents {
		m.Documents[i].FromDomain(&s.Documents[i])
	}
}

// ShipmentModelFromDomain creates a new persistence model from a domain Shipment.
func ShipmentModelFromDomain(s *shipment.Shipment) *ShipmentModel {
	m := &ShipmentModel{}
	m.FromDomain(s)
	return m
}

// ToDomain converts the persistence model to a domain TransportSegment.
func (m *SegmentModel) ToDomain() shipment.TransportSegment {
	return shipment.TransportSegment{
		BaseEntity:          m.BaseModel.ToDomain(),
		ShipmentID:          m.ShipmentID,
		SequenceNumber:      m.SequenceNumber,
		Mode:                m.Mode,
		Status:              m.Status,
		CarrierID:           m.CarrierID,
		VehicleID:           m.VehicleID,
		DriverID:            m.DriverID,
		OriginLocation:      m.OriginLocation,
		DestinationLocation: m.DestinationLocation,
		PlannedDepartureAt:  m.PlannedDepartureAt,
		PlannedArrivalAt:    m.PlannedArrivalAt,
		ActualDepartureAt:   m.ActualDepartureAt,
		ActualArrivalAt:     m.ActualArrivalAt,
	}
}

// FromDomain populates the persistence model from a domain TransportSegment.
func (m *SegmentModel) FromDomain(s *shipment.TransportSegment) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.ShipmentID = s.ShipmentID
	m.SequenceNumber = s.SequenceNumber
	m.Mode = s.Mode
	m.Status = s.Status
	m.CarrierID = s.CarrierID
	m.VehicleID = s.VehicleID
	m.DriverID = s.DriverID
	m.OriginLocation = s.OriginLocation
	m.DestinationLocation = s.DestinationLocation
	m.PlannedDepartureAt = s.PlannedDepartureAt
	m.PlannedArrivalAt = s.PlannedArrivalAt
	m.ActualDepartureAt = s.ActualDepartureAt
	m.ActualArrivalAt = s.ActualArrivalAt
}

// ToDomain converts the persistence model to a domain TransportUnit.
func (m *TransportUnitModel) ToDomain() shipment.TransportUnit {
	return shipment.TransportUnit{
		BaseEntity:    m.BaseModel.ToDomain(),
		ShipmentID:    m.ShipmentID,
		Type:          m.Type,
		Identifier:    m.Identifier,
		SealNumber:    m.SealNumber,
		TareWeightKg:  m.TareWeightKg,
		NetWeightKg:   m.NetWeightKg,
		GrossWeightKg: m.GrossWeightKg,
	}
}

// FromDomain populates the persistence model from a domain TransportUnit.
func (m *TransportUnitModel) FromDomain(u *shipment.TransportUnit) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.ShipmentID = u.ShipmentID
	m.Type = u.Type
	m.Identifier = u.Identifier
	m.SealNumber = u.SealNumber
	m.TareWeightKg = u.TareWeightKg
	m.NetWeightKg = u.NetWeightKg
	m.GrossWeightKg = u.GrossWeightKg
}

// ToDomain converts the persistence model to a domain TrackingEvent.
func (m *TrackingEventModel) ToDomain() shipment.TrackingEvent {
	return shipment.TrackingEvent{
		BaseEntity: m.BaseModel.ToDomain(),
		ShipmentID: m.ShipmentID,
		Type:       m.Type,
		OccurredAt: m.OccurredAt,
		Location:   m.Location,
		Latitude:   m.Latitude,
		Longitude:  m.Longitude,
		Notes:      m.Notes,
		RecordedBy: m.RecordedBy,
	}
}

// FromDomain populates the persistence model from a domain TrackingEvent.
func (m *TrackingEventModel) FromDomain(e *shipment.TrackingEvent) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.ShipmentID = e.ShipmentID
	m.Type = e.Type
	m.OccurredAt = e.OccurredAt
	m.Location = e.Location
	m.Latitude = e.Latitude
	m.Longitude = e.Longitude
	m.Notes = e.Notes
	m.RecordedBy = e.RecordedBy
}

// ToDomain converts the persistence model to a domain ShipmentDocument.
func (m *ShipmentDocumentModel) ToDomain() shipment.ShipmentDocument {
	return shipment.ShipmentDocument{
		BaseEntity:  m.BaseModel.ToDomain(),
		ShipmentID:  m.ShipmentID,
		Type:        m.Type,
		Name:        m.Name,
		StorageKey:  m.StorageKey,
		ContentType: m.ContentType,
		SizeBytes:   m.SizeBytes,
	}
}

// FromDomain populates the persistence model from a domain ShipmentDocument.
func (m *ShipmentDocumentModel) FromDomain(d *shipment.ShipmentDocument) {
	m.FromDomainBaseEntity(d.BaseEntity)
	m.ShipmentID = d.ShipmentID
	m.Type = d.Type
	m.Name = d.Name
	m.StorageKey = d.StorageKey
	m.ContentType = d.ContentType
	m.SizeBytes = d.SizeBytes
}
