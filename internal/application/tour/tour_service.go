package tour

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/tour"
)

// TourService handles tour planning and execution use cases
type TourService struct {
	tourRepo  tour.TourRepository
	optimizer tour.Optimizer
	eventBus  shared.EventBus
	logger    *zap.Logger
}

// NewTourService creates a new tour service
func NewTourService(tourRepo tour.TourRepository, optimizer tour.Optimizer, eventBus shared.EventBus, logger *zap.Logger) *TourService {
	return &TourService{
		tourRepo:  tourRepo,
		optimizer: optimizer,
		eventBus:  eventBus,
		logger:    logger,
	}
}

// CreateTourInput contains the input for creating a tour
type CreateTourInput struct {
	TenantID   uuid.UUID
	TourNumber string // Generated when empty
	TourDate   time.Time
	VehicleID  *uuid.UUID
	DriverID   *uuid.UUID
	Notes      string
}

// CreateTour creates a new draft tour
func (s *TourService) CreateTour(ctx context.Context, input CreateTourInput) (*TourDTO, error) {
	number := input.TourNumber
	if number == "" {
		number = generateTourNumber()
	} else if existing, err := s.tourRepo.FindByNumber(ctx, input.TenantID, number); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Tour number is already taken")
	}

	t, err := tour.NewTour(input.TenantID, number, input.TourDate)
	if err != nil {
		return nil, err
	}
	if input.VehicleID != nil {
		if err := t.AssignVehicle(*input.VehicleID); err != nil {
			return nil, err
		}
	}
	if input.DriverID != nil {
		if err := t.AssignDriver(*input.DriverID); err != nil {
			return nil, err
		}
	}
	t.Notes = strings.TrimSpace(input.Notes)

	if err := s.tourRepo.Save(ctx, t); err != nil {
		s.logger.Error("Failed to create tour", zap.Error(err))
		return nil, err
	}
	s.publishEvents(ctx, t)

	s.logger.Info("Tour created",
		zap.String("tour_id", t.ID.String()),
		zap.String("tour_number", t.TourNumber))

	return toTourDTO(t), nil
}

// GetTour fetches a tour by ID within a tenant
func (s *TourService) GetTour(ctx context.Context, tenantID, tourID uuid.UUID) (*TourDTO, error) {
	t, err := s.tourRepo.FindByIDForTenant(ctx, tenantID, tourID)
	if err != nil {
		return nil, err
	}
	return toTourDTO(t), nil
}

// ListTours lists a tenant's tours with pagination. When day is non-nil the
// listing is restricted to tours scheduled for that day.
func (s *TourService) ListTours(ctx context.Context, tenantID uuid.UUID, day *time.Time, filter shared.Filter) (*shared.Paginated[TourDTO], error) {
	var (
		tours []tour.Tour
		err   error
	)
	if day != nil {
		tours, err = s.tourRepo.FindByDate(ctx, tenantID, *day)
	} else {
		tours, err = s.tourRepo.FindAllForTenant(ctx, tenantID, filter)
	}
	if err != nil {
		return nil, err
	}
	total, err := s.tourRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]TourDTO, len(tours))
	for i := range tours {
		dtos[i] = *toTourDTO(&tours[i])
	}
	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// AssignVehicle sets the vehicle executing the tour
func (s *TourService) AssignVehicle(ctx context.Context, tenantID, tourID, vehicleID uuid.UUID) error {
	return s.mutate(ctx, tenantID, tourID, func(t *tour.Tour) error { return t.AssignVehicle(vehicleID) })
}

// AssignDriver sets the driver executing the tour
func (s *TourService) AssignDriver(ctx context.Context, tenantID, tourID, driverID uuid.UUID) error {
	return s.mutate(ctx, tenantID, tourID, func(t *tour.Tour) error { return t.AssignDriver(driverID) })
}

// AddStopInput contains the input for adding a stop to a tour
type AddStopInput struct {
	TenantID    uuid.UUID
	TourID      uuid.UUID
	Type        string
	Address     string
	Latitude    float64
	Longitude   float64
	ShipmentID  *uuid.UUID
	PlannedAt   *time.Time
	Instruction string
}

// AddStop appends a stop to a draft tour
func (s *TourService) AddStop(ctx context.Context, input AddStopInput) (*TourDTO, error) {
	t, err := s.tourRepo.FindByIDForTenant(ctx, input.TenantID, input.TourID)
	if err != nil {
		return nil, err
	}

	stop := tour.NewStop(tour.StopType(input.Type), input.Address, input.Latitude, input.Longitude)
	stop.ShipmentID = input.ShipmentID
	stop.PlannedAt = input.PlannedAt
	stop.Instruction = strings.TrimSpace(input.Instruction)

	if err := t.AddStop(stop); err != nil {
		return nil, err
	}
	if err := s.tourRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	return toTourDTO(t), nil
}

// RemoveStop removes a stop from a draft tour
func (s *TourService) RemoveStop(ctx context.Context, tenantID, tourID, stopID uuid.UUID) error {
	return s.mutate(ctx, tenantID, tourID, func(t *tour.Tour) error { return t.RemoveStop(stopID) })
}

// ReorderStops rearranges the stops into the given order
func (s *TourService) ReorderStops(ctx context.Context, tenantID, tourID uuid.UUID, stopIDs []uuid.UUID) error {
	return s.mutate(ctx, tenantID, tourID, func(t *tour.Tour) error { return t.ReorderStops(stopIDs) })
}

// OptimizeStops asks the optimizer for a visiting order and applies it
func (s *TourService) OptimizeStops(ctx context.Context, tenantID, tourID uuid.UUID) (*TourDTO, error) {
	t, err := s.tourRepo.FindByIDForTenant(ctx, tenantID, tourID)
	if err != nil {
		return nil, err
	}

	order, err := s.optimizer.Optimize(ctx, t)
	if err != nil {
		s.logger.Error("Stop optimization failed", zap.Error(err))
		return nil, shared.NewDomainError("OPTIMIZATION_FAILED", "Could not compute a stop order")
	}
	if err := t.ReorderStops(order); err != nil {
		return nil, err
	}
	if err := s.tourRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, t)
	return toTourDTO(t), nil
}

// PlanTour freezes the stop set of a draft tour
func (s *TourService) PlanTour(ctx context.Context, tenantID, tourID uuid.UUID) error {
	return s.mutate(ctx, tenantID, tourID, func(t *tour.Tour) error { return t.Plan() })
}

// StartTour begins execution of a planned tour
func (s *TourService) StartTour(ctx context.Context, tenantID, tourID uuid.UUID) error {
	return s.mutate(ctx, tenantID, tourID, func(t *tour.Tour) error { return t.Start() })
}

// ArriveAtStop records arrival at a stop of a running tour
func (s *TourService) ArriveAtStop(ctx context.Context, tenantID, tourID, stopID uuid.UUID, at time.Time) error {
	if at.IsZero() {
		at = time.Now()
	}
	return s.mutate(ctx, tenantID, tourID, func(t *tour.Tour) error { return t.ArriveAtStop(stopID, at) })
}

// DepartFromStop records departure from a visited stop
func (s *TourService) DepartFromStop(ctx context.Context, tenantID, tourID, stopID uuid.UUID, at time.Time) error {
	if at.IsZero() {
		at = time.Now()
	}
	return s.mutate(ctx, tenantID, tourID, func(t *tour.Tour) error { return t.DepartFromStop(stopID, at) })
}

// CompleteTour finishes a running tour
func (s *TourService) CompleteTour(ctx context.Context, tenantID, tourID uuid.UUID) error {
	return s.mutate(ctx, tenantID, tourID, func(t *tour.Tour) error { return t.Complete() })
}

// CancelTour cancels a tour that has not started
func (s *TourService) CancelTour(ctx context.Context, tenantID, tourID uuid.UUID) error {
	return s.mutate(ctx, tenantID, tourID, func(t *tour.Tour) error { return t.Cancel() })
}

// DeleteTour removes a draft tour
func (s *TourService) DeleteTour(ctx context.Context, tenantID, tourID uuid.UUID) error {
	t, err := s.tourRepo.FindByIDForTenant(ctx, tenantID, tourID)
	if err != nil {
		return err
	}
	if t.Status != tour.TourStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft tours can be deleted")
	}
	return s.tourRepo.Delete(ctx, tourID)
}

func (s *TourService) mutate(ctx context.Context, tenantID, tourID uuid.UUID, fn func(*tour.Tour) error) error {
	t, err := s.tourRepo.FindByIDForTenant(ctx, tenantID, tourID)
	if err != nil {
		return err
	}
	if err := fn(t); err != nil {
		return err
	}
	if err := s.tourRepo.Save(ctx, t); err != nil {
		return err
	}
	s.publishEvents(ctx, t)
	return nil
}

func (s *TourService) publishEvents(ctx context.Context, t *tour.Tour) {
	if s.eventBus == nil {
		return
	}
	events := t.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
	t.ClearDomainEvents()
}

func generateTourNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("TUR-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}
