package shipment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tms/backend/internal/domain/shipment"
)

// ShipmentDTO is the shipment representation returned to the interface layer
type ShipmentDTO struct {
	ID                 uuid.UUID          `json:"id"`
	ShipmentNumber     string             `json:"shipment_number"`
	OrderID            *uuid.UUID         `json:"order_id,omitempty"`
	Status             string             `json:"status"`
	OriginAddress      string             `json:"origin_address,omitempty"`
	OriginCountry      string             `json:"origin_country,omitempty"`
	DestinationAddress string             `json:"destination_address,omitempty"`
	DestinationCountry string             `json:"destination_country,omitempty"`
	PlannedPickupAt    *time.Time         `json:"planned_pickup_at,omitempty"`
	PlannedDeliveryAt  *time.Time         `json:"planned_delivery_at,omitempty"`
	Notes              string             `json:"notes,omitempty"`
	Version            int                `json:"version"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
	Segments           []SegmentDTO       `json:"segments,omitempty"`
	Units              []TransportUnitDTO `json:"units,omitempty"`
	TrackingEvents     []TrackingEventDTO `json:"tracking_events,omitempty"`
	Documents          []DocumentDTO      `json:"documents,omitempty"`
}

// SegmentDTO is the transport segment representation
type SegmentDTO struct {
	ID                  uuid.UUID  `json:"id"`
	SequenceNumber      int        `json:"sequence_number"`
	Mode                string     `json:"mode"`
	Status              string     `json:"status"`
	CarrierID           *uuid.UUID `json:"carrier_id,omitempty"`
	VehicleID           *uuid.UUID `json:"vehicle_id,omitempty"`
	DriverID            *uuid.UUID `json:"driver_id,omitempty"`
	OriginLocation      string     `json:"origin_location"`
	DestinationLocation string     `json:"destination_location"`
	PlannedDepartureAt  *time.Time `json:"planned_departure_at,omitempty"`
	PlannedArrivalAt    *time.Time `json:"planned_arrival_at,omitempty"`
	ActualDepartureAt   *time.Time `json:"actual_departure_at,omitempty"`
	ActualArrivalAt     *time.Time `json:"actual_arrival_at,omitempty"`
}

// TransportUnitDTO is the transport unit representation
type TransportUnitDTO struct {
	ID            uuid.UUID       `json:"id"`
	Type          string          `json:"type"`
	Identifier    string          `json:"identifier"`
	SealNumber    string          `json:"seal_number,omitempty"`
	TareWeightKg  decimal.Decimal `json:"tare_weight_kg"`
	NetWeightKg   decimal.Decimal `json:"net_weight_kg"`
	GrossWeightKg decimal.Decimal `json:"gross_weight_kg"`
}

// TrackingEventDTO is the tracking event representation
type TrackingEventDTO struct {
	ID         uuid.UUID  `json:"id"`
	Type       string     `json:"type"`
	OccurredAt time.Time  `json:"occurred_at"`
	Location   string     `json:"location,omitempty"`
	Latitude   *float64   `json:"latitude,omitempty"`
	Longitude  *float64   `json:"longitude,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	RecordedBy *uuid.UUID `json:"recorded_by,omitempty"`
}

// DocumentDTO is the shipment document representation
type DocumentDTO struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	StorageKey  string    `json:"storage_key"`
	ContentType string    `json:"content_type,omitempty"`
	SizeBytes   int64     `json:"size_bytes"`
}

// UploadTicketDTO carries a presigned upload URL for a document binary
type UploadTicketDTO struct {
	StorageKey string    `json:"storage_key"`
	UploadURL  string    `json:"upload_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// DownloadTicketDTO carries a presigned download URL for a document binary
type DownloadTicketDTO struct {
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func toShipmentDTO(s *shipment.Shipment) *ShipmentDTO {
	dto := &ShipmentDTO{
		ID:                 s.ID,
		ShipmentNumber:     s.ShipmentNumber,
		OrderID:            s.OrderID,
		Status:             string(s.Status),
		OriginAddress:      s.OriginAddress,
		OriginCountry:      s.OriginCountry,
		DestinationAddress: s.DestinationAddress,
		DestinationCountry: s.DestinationCountry,
		PlannedPickupAt:    s.PlannedPickupAt,
		PlannedDeliveryAt:  s.PlannedDeliveryAt,
		Notes:              s.Notes,
		Version:            s.Version,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
	for _, seg := range s.Segments {
		dto.Segments = append(dto.Segments, SegmentDTO{
			ID:                  seg.ID,
			SequenceNumber:      seg.SequenceNumber,
			Mode:                string(seg.Mode),
			Status:              string(seg.Status),
			CarrierID:           seg.CarrierID,
			VehicleID:           seg.VehicleID,
			DriverID:            seg.DriverID,
			OriginLocation:      seg.OriginLocation,
			DestinationLocation: seg.DestinationLocation,
			PlannedDepartureAt:  seg.PlannedDepartureAt,
			PlannedArrivalAt:    seg.PlannedArrivalAt,
			ActualDepartureAt:   seg.ActualDepartureAt,
			ActualArrivalAt:     seg.ActualArrivalAt,
		})
	}
	for _, u := range s.Units {
		dto.Units = append(dto.Units, TransportUnitDTO{
			ID:            u.ID,
			Type:          string(u.Type),
			Identifier:    u.Identifier,
			SealNumber:    u.SealNumber,
			TareWeightKg:  u.TareWeightKg,
			NetWeightKg:   u.NetWeightKg,
			GrossWeightKg: u.GrossWeightKg,
		})
	}
	for _, e := range s.TrackingEvents {
		dto.TrackingEvents = append(dto.TrackingEvents, TrackingEventDTO{
			ID:         e.ID,
			Type:       string(e.Type),
			OccurredAt: e.OccurredAt,
			Location:   e.Location,
			Latitude:   e.Latitude,
			Longitude:  e.Longitude,
			Notes:      e.Notes,
			RecordedBy: e.RecordedBy,
		})
	}
	for _, d := range s.Documents {
		dto.Documents = append(dto.Documents, DocumentDTO{
			ID:          d.ID,
			Type:        string(d.Type),
			Name:        d.Name,
			StorageKey:  d.StorageKey,
			ContentType: d.ContentType,
			SizeBytes:   d.SizeBytes,
		})
	}
	return dto
}
