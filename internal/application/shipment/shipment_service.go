package shipment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tms/backend/internal/domain/order"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/shipment"
)

// ShipmentService handles the shipment execution use cases
type ShipmentService struct {
	shipmentRepo shipment.ShipmentRepository
	orderRepo    order.OrderRepository
	eventBus     shared.EventBus
	logger       *zap.Logger
}

// NewShipmentService creates a new shipment service
func NewShipmentService(
	shipmentRepo shipment.ShipmentRepository,
	orderRepo order.OrderRepository,
	eventBus shared.EventBus,
	logger *zap.Logger,
) *ShipmentService {
	return &ShipmentService{
		shipmentRepo: shipmentRepo,
		orderRepo:    orderRepo,
		eventBus:     eventBus,
		logger:       logger,
	}
}

// CreateShipmentInput contains the input for creating a standalone shipment
type CreateShipmentInput struct {
	TenantID           uuid.UUID
	ShipmentNumber     string // Generated when empty
	OrderID            *uuid.UUID
	OriginAddress      string
	OriginCountry      string
	DestinationAddress string
	DestinationCountry string
	PlannedPickupAt    *time.Time
	PlannedDeliveryAt  *time.Time
	Notes              string
	CreatedBy          uuid.UUID
}

// CreateShipment creates a new planned shipment
func (s *ShipmentService) CreateShipment(ctx context.Context, input CreateShipmentInput) (*ShipmentDTO, error) {
	number := input.ShipmentNumber
	if number == "" {
		number = generateShipmentNumber()
	} else if existing, err := s.shipmentRepo.FindByNumber(ctx, input.TenantID, number); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Shipment number is already taken")
	}

	var (
		shp *shipment.Shipment
		err error
	)
	if input.OrderID != nil {
		shp, err = shipment.NewShipmentFromOrder(input.TenantID, *input.OrderID, number)
	} else {
		shp, err = shipment.NewShipment(input.TenantID, number)
	}
	if err != nil {
		return nil, err
	}

	if input.OriginCountry != "" || input.DestinationCountry != "" {
		if err := shp.SetRoute(input.OriginAddress, input.OriginCountry, input.DestinationAddress, input.DestinationCountry); err != nil {
			return nil, err
		}
	}
	if input.PlannedPickupAt != nil || input.PlannedDeliveryAt != nil {
		if err := shp.SetPlannedDates(input.PlannedPickupAt, input.PlannedDeliveryAt); err != nil {
			return nil, err
		}
	}
	shp.Notes = input.Notes
	if input.CreatedBy != uuid.Nil {
		shp.SetCreatedBy(input.CreatedBy)
	}

	if err := s.shipmentRepo.Save(ctx, shp); err != nil {
		s.logger.Error("Failed to create shipment", zap.Error(err))
		return nil, err
	}
	s.publishEvents(ctx, shp)

	s.logger.Info("Shipment created",
		zap.String("shipment_id", shp.ID.String()),
		zap.String("shipment_number", shp.ShipmentNumber))

	return toShipmentDTO(shp), nil
}

// GetShipment fetches a shipment by ID within a tenant
func (s *ShipmentService) GetShipment(ctx context.Context, tenantID, shipmentID uuid.UUID) (*ShipmentDTO, error) {
	shp, err := s.shipmentRepo.FindByIDForTenant(ctx, tenantID, shipmentID)
	if err != nil {
		return nil, err
	}
	return toShipmentDTO(shp), nil
}

// ListShipments lists a tenant's shipments with pagination
func (s *ShipmentService) ListShipments(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[ShipmentDTO], error) {
	shipments, err := s.shipmentRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.shipmentRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]ShipmentDTO, len(shipments))
	for i := range shipments {
		dtos[i] = *toShipmentDTO(&shipments[i])
	}
	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateShipmentInput contains the input for updating a planned shipment
type UpdateShipmentInput struct {
	TenantID           uuid.UUID
	ShipmentID         uuid.UUID
	Version            int
	OriginAddress      *string
	OriginCountry      *string
	DestinationAddress *string
	DestinationCountry *string
	PlannedPickupAt    *time.Time
	PlannedDeliveryAt  *time.Time
	Notes              *string
}

// UpdateShipment updates a shipment's plan. The update is guarded by the
// aggregate version to detect concurrent edits.
func (s *ShipmentService) UpdateShipment(ctx context.Context, input UpdateShipmentInput) (*ShipmentDTO, error) {
	shp, err := s.shipmentRepo.FindByIDForTenant(ctx, input.TenantID, input.ShipmentID)
	if err != nil {
		return nil, err
	}

	if input.OriginAddress != nil || input.OriginCountry != nil ||
		input.DestinationAddress != nil || input.DestinationCountry != nil {
		originAddr := shp.OriginAddress
		originCountry := shp.OriginCountry
		destAddr := shp.DestinationAddress
		destCountry := shp.DestinationCountry
		if input.OriginAddress != nil {
			originAddr = *input.OriginAddress
		}
		if input.OriginCountry != nil {
			originCountry = *input.OriginCountry
		}
		if input.DestinationAddress != nil {
			destAddr = *input.DestinationAddress
		}
		if input.DestinationCountry != nil {
			destCountry = *input.DestinationCountry
		}
		if err := shp.SetRoute(originAddr, originCountry, destAddr, destCountry); err != nil {
			return nil, err
		}
	}
	if input.PlannedPickupAt != nil || input.PlannedDeliveryAt != nil {
		pickup := shp.PlannedPickupAt
		delivery := shp.PlannedDeliveryAt
		if input.PlannedPickupAt != nil {
			pickup = input.PlannedPickupAt
		}
		if input.PlannedDeliveryAt != nil {
			delivery = input.PlannedDeliveryAt
		}
		if err := shp.SetPlannedDates(pickup, delivery); err != nil {
			return nil, err
		}
	}
	if input.Notes != nil {
		shp.Notes = *input.Notes
		shp.Touch()
	}

	if err := s.shipmentRepo.SaveWithLock(ctx, shp, input.Version); err != nil {
		return nil, err
	}

	return toShipmentDTO(shp), nil
}

// AddSegmentInput contains the input for adding a transport segment
type AddSegmentInput struct {
	TenantID            uuid.UUID
	ShipmentID          uuid.UUID
	Mode                string
	CarrierID           *uuid.UUID
	VehicleID           *uuid.UUID
	DriverID            *uuid.UUID
	OriginLocation      string
	DestinationLocation string
	PlannedDepartureAt  *time.Time
	PlannedArrivalAt    *time.Time
}

// AddSegment appends a transport segment to a shipment
func (s *ShipmentService) AddSegment(ctx context.Context, input AddSegmentInput) (*ShipmentDTO, error) {
	shp, err := s.shipmentRepo.FindByIDForTenant(ctx, input.TenantID, input.ShipmentID)
	if err != nil {
		return nil, err
	}

	seg := buildSegment(input)
	if err := shp.AddSegment(seg); err != nil {
		return nil, err
	}
	if err := s.shipmentRepo.Save(ctx, shp); err != nil {
		return nil, err
	}
	return toShipmentDTO(shp), nil
}

// UpdateSegment replaces a segment, keeping its sequence number
func (s *ShipmentService) UpdateSegment(ctx context.Context, segmentID uuid.UUID, input AddSegmentInput) (*ShipmentDTO, error) {
	shp, err := s.shipmentRepo.FindByIDForTenant(ctx, input.TenantID, input.ShipmentID)
	if err != nil {
		return nil, err
	}

	seg := buildSegment(input)
	if err := shp.UpdateSegment(segmentID, seg); err != nil {
		return nil, err
	}
	if err := s.shipmentRepo.Save(ctx, shp); err != nil {
		return nil, err
	}
	return toShipmentDTO(shp), nil
}

// RemoveSegment removes a segment from a planned shipment
func (s *ShipmentService) RemoveSegment(ctx context.Context, tenantID, shipmentID, segmentID uuid.UUID) error {
	return s.mutate(ctx, tenantID, shipmentID, func(shp *shipment.Shipment) error {
		return shp.RemoveSegment(segmentID)
	})
}

// RecordSegmentDeparture stamps the actual departure of a segment
func (s *ShipmentService) RecordSegmentDeparture(ctx context.Context, tenantID, shipmentID, segmentID uuid.UUID, at time.Time) error {
	return s.mutateSegment(ctx, tenantID, shipmentID, segmentID, func(seg *shipment.TransportSegment) error {
		return seg.RecordDeparture(at)
	})
}

// RecordSegmentArrival stamps the actual arrival of a segment
func (s *ShipmentService) RecordSegmentArrival(ctx context.Context, tenantID, shipmentID, segmentID uuid.UUID, at time.Time) error {
	return s.mutateSegment(ctx, tenantID, shipmentID, segmentID, func(seg *shipment.TransportSegment) error {
		return seg.RecordArrival(at)
	})
}

// AddUnitInput contains the input for adding a transport unit
type AddUnitInput struct {
	TenantID      uuid.UUID
	ShipmentID    uuid.UUID
	Type          string
	Identifier    string
	SealNumber    string
	TareWeightKg  decimal.Decimal
	NetWeightKg   decimal.Decimal
	GrossWeightKg decimal.Decimal
}

// AddUnit adds a transport unit to a shipment
func (s *ShipmentService) AddUnit(ctx context.Context, input AddUnitInput) (*ShipmentDTO, error) {
	shp, err := s.shipmentRepo.FindByIDForTenant(ctx, input.TenantID, input.ShipmentID)
	if err != nil {
		return nil, err
	}

	unit := shipment.NewTransportUnit(shipment.UnitType(input.Type), input.Identifier)
	unit.SealNumber = input.SealNumber
	if !input.TareWeightKg.IsZero() || !input.NetWeightKg.IsZero() || !input.GrossWeightKg.IsZero() {
		if err := unit.SetWeights(input.TareWeightKg, input.NetWeightKg, input.GrossWeightKg); err != nil {
			return nil, err
		}
	}

	if err := shp.AddUnit(unit); err != nil {
		return nil, err
	}
	if err := s.shipmentRepo.Save(ctx, shp); err != nil {
		return nil, err
	}
	return toShipmentDTO(shp), nil
}

// RemoveUnit removes a transport unit from a shipment
func (s *ShipmentService) RemoveUnit(ctx context.Context, tenantID, shipmentID, unitID uuid.UUID) error {
	return s.mutate(ctx, tenantID, shipmentID, func(shp *shipment.Shipment) error {
		return shp.RemoveUnit(unitID)
	})
}

// RecordTrackingInput contains the input for recording a tracking event
type RecordTrackingInput struct {
	TenantID   uuid.UUID
	ShipmentID uuid.UUID
	Type       string
	OccurredAt time.Time
	Location   string
	Latitude   *float64
	Longitude  *float64
	Notes      string
	RecordedBy *uuid.UUID
}

// RecordTrackingEvent appends to a shipment's tracking log
func (s *ShipmentService) RecordTrackingEvent(ctx context.Context, input RecordTrackingInput) (*ShipmentDTO, error) {
	shp, err := s.shipmentRepo.FindByIDForTenant(ctx, input.TenantID, input.ShipmentID)
	if err != nil {
		return nil, err
	}

	event := shipment.NewTrackingEvent(shipment.TrackingEventType(input.Type), input.OccurredAt, input.Location)
	event.Latitude = input.Latitude
	event.Longitude = input.Longitude
	event.Notes = input.Notes
	event.RecordedBy = input.RecordedBy

	if err := shp.RecordTrackingEvent(event); err != nil {
		return nil, err
	}
	if err := s.shipmentRepo.Save(ctx, shp); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, shp)
	return toShipmentDTO(shp), nil
}

// BookShipment confirms the carrier bookings of a planned shipment
func (s *ShipmentService) BookShipment(ctx context.Context, tenantID, shipmentID uuid.UUID) error {
	return s.mutate(ctx, tenantID, shipmentID, func(shp *shipment.Shipment) error { return shp.Book() })
}

// DepartShipment marks the start of transport and moves the originating
// order, when present, to in_transit.
func (s *ShipmentService) DepartShipment(ctx context.Context, tenantID, shipmentID uuid.UUID) error {
	return s.mutate(ctx, tenantID, shipmentID, func(shp *shipment.Shipment) error {
		if err := shp.Depart(); err != nil {
			return err
		}
		return s.syncOrder(ctx, tenantID, shp, func(o *order.Order) error { return o.MarkInTransit() })
	})
}

// MarkDelivered records delivery at the destination and moves the
// originating order, when present, to delivered.
func (s *ShipmentService) MarkDelivered(ctx context.Context, tenantID, shipmentID uuid.UUID) error {
	return s.mutate(ctx, tenantID, shipmentID, func(shp *shipment.Shipment) error {
		if err := shp.MarkDelivered(); err != nil {
			return err
		}
		return s.syncOrder(ctx, tenantID, shp, func(o *order.Order) error { return o.MarkDelivered() })
	})
}

// CompleteShipment closes the shipment after proof of delivery is processed
func (s *ShipmentService) CompleteShipment(ctx context.Context, tenantID, shipmentID uuid.UUID) error {
	return s.mutate(ctx, tenantID, shipmentID, func(shp *shipment.Shipment) error { return shp.Complete() })
}

// CancelShipment cancels a shipment
func (s *ShipmentService) CancelShipment(ctx context.Context, tenantID, shipmentID uuid.UUID) error {
	return s.mutate(ctx, tenantID, shipmentID, func(shp *shipment.Shipment) error { return shp.Cancel() })
}

// DeleteShipment removes a planned shipment
func (s *ShipmentService) DeleteShipment(ctx context.Context, tenantID, shipmentID uuid.UUID) error {
	shp, err := s.shipmentRepo.FindByIDForTenant(ctx, tenantID, shipmentID)
	if err != nil {
		return err
	}
	if shp.Status != shipment.ShipmentStatusPlanned {
		return shared.NewDomainError("INVALID_STATE", "Only planned shipments can be deleted")
	}
	return s.shipmentRepo.Delete(ctx, shipmentID)
}

// syncOrder applies a status change to the shipment's originating order.
// Order state that already advanced past the target is left untouched.
func (s *ShipmentService) syncOrder(ctx context.Context, tenantID uuid.UUID, shp *shipment.Shipment, fn func(*order.Order) error) error {
	if shp.OrderID == nil || s.orderRepo == nil {
		return nil
	}
	o, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, *shp.OrderID)
	if err != nil {
		s.logger.Warn("Originating order not found during status sync",
			zap.String("order_id", shp.OrderID.String()))
		return nil
	}
	if err := fn(o); err != nil {
		s.logger.Warn("Order status not advanced during shipment sync",
			zap.String("order_id", o.ID.String()),
			zap.Error(err))
		return nil
	}
	return s.orderRepo.Save(ctx, o)
}

func (s *ShipmentService) mutate(ctx context.Context, tenantID, shipmentID uuid.UUID, fn func(*shipment.Shipment) error) error {
	shp, err := s.shipmentRepo.FindByIDForTenant(ctx, tenantID, shipmentID)
	if err != nil {
		return err
	}
	if err := fn(shp); err != nil {
		return err
	}
	if err := s.shipmentRepo.Save(ctx, shp); err != nil {
		return err
	}
	s.publishEvents(ctx, shp)
	return nil
}

func (s *ShipmentService) mutateSegment(ctx context.Context, tenantID, shipmentID, segmentID uuid.UUID, fn func(*shipment.TransportSegment) error) error {
	return s.mutate(ctx, tenantID, shipmentID, func(shp *shipment.Shipment) error {
		for i := range shp.Segments {
			if shp.Segments[i].ID == segmentID {
				if err := fn(&shp.Segments[i]); err != nil {
					return err
				}
				shp.Touch()
				shp.IncrementVersion()
				return nil
			}
		}
		return shared.ErrNotFound
	})
}

func (s *ShipmentService) publishEvents(ctx context.Context, shp *shipment.Shipment) {
	if s.eventBus == nil {
		return
	}
	events := shp.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
	shp.ClearDomainEvents()
}

func buildSegment(input AddSegmentInput) shipment.TransportSegment {
	seg := shipment.NewTransportSegment(shipment.TransportMode(input.Mode), input.OriginLocation, input.DestinationLocation)
	seg.CarrierID = input.CarrierID
	seg.VehicleID = input.VehicleID
	seg.DriverID = input.DriverID
	seg.PlannedDepartureAt = input.PlannedDepartureAt
	seg.PlannedArrivalAt = input.PlannedArrivalAt
	return seg
}

func generateShipmentNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("SHP-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}
