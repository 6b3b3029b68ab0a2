package shipment

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// ShipmentStatus represents the status of a shipment
type ShipmentStatus string

const (
	ShipmentStatusPlanned   ShipmentStatus = "planned"
	ShipmentStatusBooked    ShipmentStatus = "booked"
	ShipmentStatusInTransit ShipmentStatus = "in_transit"
	ShipmentStatusDelivered ShipmentStatus = "delivered"
	ShipmentStatusCompleted ShipmentStatus = "completed"
	ShipmentStatusCancelled ShipmentStatus = "cancelled"
)

// IsValid returns true for a known shipment status
func (s ShipmentStatus) IsValid() bool {
	switch s {
	case ShipmentStatusPlanned, ShipmentStatusBooked, ShipmentStatusInTransit,
		ShipmentStatusDelivered, ShipmentStatusCompleted, ShipmentStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s ShipmentStatus) CanTransitionTo(target ShipmentStatus) bool {
	transitions := map[ShipmentStatus][]ShipmentStatus{
		ShipmentStatusPlanned:   {ShipmentStatusBooked, ShipmentStatusCancelled},
		ShipmentStatusBooked:    {ShipmentStatusInTransit, ShipmentStatusCancelled},
		ShipmentStatusInTransit: {ShipmentStatusDelivered},
		ShipmentStatusDelivered: {ShipmentStatusCompleted},
		ShipmentStatusCompleted: {},
		ShipmentStatusCancelled: {},
	}
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible
func (s ShipmentStatus) IsTerminal() bool {
	return s == ShipmentStatusCompleted || s == ShipmentStatusCancelled
}

// Shipment is a physical movement of goods, composed of sequenced transport
// segments. It is the aggregate root owning segments, transport units, the
// append-only tracking event log, and attached documents.
type Shipment struct {
	shared.TenantAggregateRoot
	ShipmentNumber string
	OrderID        *uuid.UUID // Optional originating order
	Status         ShipmentStatus
	OriginAddress      string
	OriginCountry      string
	DestinationAddress string
	DestinationCountry string
	PlannedPickupAt    *time.Time
	PlannedDeliveryAt  *time.Time
	Notes              string

	Segments       []TransportSegment
	Units          []TransportUnit
	TrackingEvents []TrackingEvent
	Documents      []ShipmentDocument
}

// NewShipment creates a new planned shipment
func NewShipment(tenantID uuid.UUID, shipmentNumber string) (*Shipment, error) {
	shipmentNumber = strings.TrimSpace(shipmentNumber)
	if shipmentNumber == "" {
		return nil, shared.NewDomainError("INVALID_SHIPMENT_NUMBER", "Shipment number cannot be empty")
	}
	if len(shipmentNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_SHIPMENT_NUMBER", "Shipment number cannot exceed 50 characters")
	}

	s := &Shipment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ShipmentNumber:      shipmentNumber,
		Status:              ShipmentStatusPlanned,
		Segments:            make([]TransportSegment, 0),
		Units:               make([]TransportUnit, 0),
		TrackingEvents:      make([]TrackingEvent, 0),
		Documents:           make([]ShipmentDocument, 0),
	}

	s.AddDomainEvent(NewShipmentCreatedEvent(s))

	return s, nil
}

// NewShipmentFromOrder creates a shipment bound to an originating order
func NewShipmentFromOrder(tenantID, orderID uuid.UUID, shipmentNumber string) (*Shipment, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	s, err := NewShipment(tenantID, shipmentNumber)
	if err != nil {
		return nil, err
	}
	s.OrderID = &orderID
	return s, nil
}

// SetRoute sets origin and destination
func (s *Shipment) SetRoute(originAddress, originCountry, destAddress, destCountry string) error {
	if s.Status != ShipmentStatusPlanned {
		return shared.NewDomainError("INVALID_STATE", "Route can only be changed while planned")
	}
	originCountry = strings.ToUpper(strings.TrimSpace(originCountry))
	destCountry = strings.ToUpper(strings.TrimSpace(destCountry))
	if len(originCountry) != 2 || len(destCountry) != 2 {
		return shared.NewDomainError("INVALID_ROUTE", "Countries must be two-letter ISO codes")
	}

	s.OriginAddress = strings.TrimSpace(originAddress)
	s.OriginCountry = originCountry
	s.DestinationAddress = strings.TrimSpace(destAddress)
	s.DestinationCountry = destCountry
	s.Touch()
	s.IncrementVersion()
	return nil
}

// SetPlannedDates sets the planned pickup and delivery times
func (s *Shipment) SetPlannedDates(pickupAt, deliveryAt *time.Time) error {
	if pickupAt != nil && deliveryAt != nil && deliveryAt.Before(*pickupAt) {
		return shared.NewDomainError("INVALID_DATES", "Planned delivery cannot precede planned pickup")
	}
	s.PlannedPickupAt = pickupAt
	s.PlannedDeliveryAt = deliveryAt
	s.Touch()
	s.IncrementVersion()
	return nil
}

// AddSegment appends a transport segment. Segments are sequenced legs;
// the sequence number is assigned in insertion order.
func (s *Shipment) AddSegment(seg TransportSegment) error {
	if s.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a closed shipment")
	}
	if err := seg.Validate(); err != nil {
		return err
	}

	seg.ShipmentID = s.ID
	seg.SequenceNumber = len(s.Segments) + 1
	s.Segments = append(s.Segments, seg)
	s.Touch()
	s.IncrementVersion()
	return nil
}

// UpdateSegment replaces an existing segment, keeping its sequence number
func (s *Shipment) UpdateSegment(segmentID uuid.UUID, updated TransportSegment) error {
	if s.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a closed shipment")
	}
	if err := updated.Validate(); err != nil {
		return err
	}

	for i, seg := range s.Segments {
		if seg.ID == segmentID {
			updated.ID = seg.ID
			updated.ShipmentID = s.ID
			updated.SequenceNumber = seg.SequenceNumber
			updated.CreatedAt = seg.CreatedAt
			updated.UpdatedAt = time.Now()
			s.Segments[i] = updated
			s.Touch()
			s.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// RemoveSegment removes a segment and resequences the remainder
func (s *Shipment) RemoveSegment(segmentID uuid.UUID) error {
	if s.Status != ShipmentStatusPlanned {
		return shared.NewDomainError("INVALID_STATE", "Segments can only be removed while planned")
	}

	for i, seg := range s.Segments {
		if seg.ID == segmentID {
			s.Segments = append(s.Segments[:i], s.Segments[i+1:]...)
			for j := range s.Segments {
				s.Segments[j].SequenceNumber = j + 1
			}
			s.Touch()
			s.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// AddUnit adds a transport unit (container, pallet, trailer)
func (s *Shipment) AddUnit(unit TransportUnit) error {
	if s.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a closed shipment")
	}
	if err := unit.Validate(); err != nil {
		return err
	}

	unit.ShipmentID = s.ID
	s.Units = append(s.Units, unit)
	s.Touch()
	s.IncrementVersion()
	return nil
}

// RemoveUnit removes a transport unit by ID
func (s *Shipment) RemoveUnit(unitID uuid.UUID) error {
	if s.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a closed shipment")
	}

	for i, u := range s.Units {
		if u.ID == unitID {
			s.Units = append(s.Units[:i], s.Units[i+1:]...)
			s.Touch()
			s.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// RecordTrackingEvent appends to the tracking log. The log is append-only;
// there is deliberately no way to edit or delete a recorded event.
func (s *Shipment) RecordTrackingEvent(event TrackingEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	event.ShipmentID = s.ID
	s.TrackingEvents = append(s.TrackingEvents, event)
	s.Touch()
	s.IncrementVersion()

	s.AddDomainEvent(NewShipmentTrackedEvent(s, event))

	return nil
}

// AttachDocument attaches a document record to the shipment
func (s *Shipment) AttachDocument(doc ShipmentDocument) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	doc.ShipmentID = s.ID
	s.Documents = append(s.Documents, doc)
	s.Touch()
	s.IncrementVersion()
	return nil
}

// RemoveDocument removes a document record by ID
func (s *Shipment) RemoveDocument(documentID uuid.UUID) error {
	for i, d := range s.Documents {
		if d.ID == documentID {
			s.Documents = append(s.Documents[:i], s.Documents[i+1:]...)
			s.Touch()
			s.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// Book confirms carrier bookings. At least one segment is required.
func (s *Shipment) Book() error {
	if !s.Status.CanTransitionTo(ShipmentStatusBooked) {
		return shared.NewDomainError("INVALID_STATE", "Shipment cannot be booked from status "+string(s.Status))
	}
	if len(s.Segments) == 0 {
		return shared.NewDomainError("NO_SEGMENTS", "Cannot book a shipment without transport segments")
	}

	s.transition(ShipmentStatusBooked)
	return nil
}

// Depart marks the start of transport
func (s *Shipment) Depart() error {
	if !s.Status.CanTransitionTo(ShipmentStatusInTransit) {
		return shared.NewDomainError("INVALID_STATE", "Shipment cannot depart from status "+string(s.Status))
	}
	s.transition(ShipmentStatusInTransit)
	return nil
}

// MarkDelivered records delivery at the final destination
func (s *Shipment) MarkDelivered() error {
	if !s.Status.CanTransitionTo(ShipmentStatusDelivered) {
		return shared.NewDomainError("INVALID_STATE", "Shipment cannot be delivered from status "+string(s.Status))
	}
	s.transition(ShipmentStatusDelivered)
	return nil
}

// Complete closes the shipment after proof of delivery is processed
func (s *Shipment) Complete() error {
	if !s.Status.CanTransitionTo(ShipmentStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", "Shipment cannot be completed from status "+string(s.Status))
	}
	s.transition(ShipmentStatusCompleted)
	return nil
}

// Cancel cancels the shipment
func (s *Shipment) Cancel() error {
	if !s.Status.CanTransitionTo(ShipmentStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", "Shipment cannot be cancelled from status "+string(s.Status))
	}
	s.transition(ShipmentStatusCancelled)
	return nil
}

func (s *Shipment) transition(target ShipmentStatus) {
	old := s.Status
	s.Status = target
	s.Touch()
	s.IncrementVersion()
	s.AddDomainEvent(NewShipmentStatusChangedEvent(s, old, target))
}
