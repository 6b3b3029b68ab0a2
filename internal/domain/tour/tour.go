package tour

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// TourStatus represents the lifecycle of a tour
type TourStatus string

const (
	TourStatusDraft      TourStatus = "draft"
	TourStatusPlanned    TourStatus = "planned"
	TourStatusInProgress TourStatus = "in_progress"
	TourStatusCompleted  TourStatus = "completed"
	TourStatusCancelled  TourStatus = "cancelled"
)

// IsValid returns true for a known tour status
func (s TourStatus) IsValid() bool {
	switch s {
	case TourStatusDraft, TourStatusPlanned, TourStatusInProgress, TourStatusCompleted, TourStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s TourStatus) CanTransitionTo(target TourStatus) bool {
	transitions := map[TourStatus][]TourStatus{
		TourStatusDraft:      {TourStatusPlanned, TourStatusCancelled},
		TourStatusPlanned:    {TourStatusInProgress, TourStatusCancelled},
		TourStatusInProgress: {TourStatusCompleted},
		TourStatusCompleted:  {},
		TourStatusCancelled:  {},
	}
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible
func (s TourStatus) IsTerminal() bool {
	return s == TourStatusCompleted || s == TourStatusCancelled
}

// Tour is a planned vehicle round serving a sequence of stops on a given
// date. Stops are mutable only while the tour is in draft; their order can
// be changed until the tour starts.
type Tour struct {
	shared.TenantAggregateRoot
	TourNumber string
	Status     TourStatus
	TourDate   time.Time
	VehicleID  *uuid.UUID
	DriverID   *uuid.UUID
	StartedAt  *time.Time
	EndedAt    *time.Time
	Notes      string
	Stops      []Stop
}

// NewTour creates a new draft tour
func NewTour(tenantID uuid.UUID, tourNumber string, tourDate time.Time) (*Tour, error) {
	tourNumber = strings.TrimSpace(tourNumber)
	if tourNumber == "" {
		return nil, shared.NewDomainError("INVALID_TOUR_NUMBER", "Tour number cannot be empty")
	}
	if tourDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_TOUR_DATE", "Tour date is required")
	}

	tr := &Tour{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		TourNumber:          tourNumber,
		Status:              TourStatusDraft,
		TourDate:            tourDate,
		Stops:               make([]Stop, 0),
	}

	tr.AddDomainEvent(NewTourCreatedEvent(tr))

	return tr, nil
}

// AssignVehicle sets the vehicle executing the tour
func (t *Tour) AssignVehicle(vehicleID uuid.UUID) error {
	if t.Status != TourStatusDraft && t.Status != TourStatusPlanned {
		return shared.NewDomainError("INVALID_STATE", "Vehicle can only be assigned before the tour starts")
	}
	if vehicleID == uuid.Nil {
		return shared.NewDomainError("INVALID_VEHICLE", "Vehicle ID cannot be empty")
	}
	t.VehicleID = &vehicleID
	t.Touch()
	t.IncrementVersion()
	return nil
}

// AssignDriver sets the driver executing the tour
func (t *Tour) AssignDriver(driverID uuid.UUID) error {
	if t.Status != TourStatusDraft && t.Status != TourStatusPlanned {
		return shared.NewDomainError("INVALID_STATE", "Driver can only be assigned before the tour starts")
	}
	if driverID == uuid.Nil {
		return shared.NewDomainError("INVALID_DRIVER", "Driver ID cannot be empty")
	}
	t.DriverID = &driverID
	t.Touch()
	t.IncrementVersion()
	return nil
}

// AddStop appends a stop to a draft tour
func (t *Tour) AddStop(stop Stop) error {
	if t.Status != TourStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Stops can only be added to draft tours")
	}
	if err := stop.Validate(); err != nil {
		return err
	}

	stop.TourID = t.ID
	stop.StopOrder = len(t.Stops) + 1
	t.Stops = append(t.Stops, stop)
	t.Touch()
	t.IncrementVersion()
	return nil
}

// RemoveStop removes a stop from a draft tour and renumbers the remainder
func (t *Tour) RemoveStop(stopID uuid.UUID) error {
	if t.Status != TourStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Stops can only be removed from draft tours")
	}

	for i, s := range t.Stops {
		if s.ID == stopID {
			t.Stops = append(t.Stops[:i], t.Stops[i+1:]...)
			for j := range t.Stops {
				t.Stops[j].StopOrder = j + 1
			}
			t.Touch()
			t.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// ReorderStops rearranges the stops into the given order. The slice must be
// a permutation of the current stop IDs. Allowed until the tour starts.
func (t *Tour) ReorderStops(stopIDs []uuid.UUID) error {
	if t.Status != TourStatusDraft && t.Status != TourStatusPlanned {
		return shared.NewDomainError("INVALID_STATE", "Stops can only be reordered before the tour starts")
	}
	if len(stopIDs) != len(t.Stops) {
		return shared.NewDomainError("INVALID_ORDER", "Reorder must include every stop exactly once")
	}

	byID := make(map[uuid.UUID]Stop, len(t.Stops))
	for _, s := range t.Stops {
		byID[s.ID] = s
	}

	reordered := make([]Stop, 0, len(stopIDs))
	for i, id := range stopIDs {
		s, ok := byID[id]
		if !ok {
			return shared.NewDomainError("INVALID_ORDER", "Unknown stop in reorder")
		}
		delete(byID, id)
		s.StopOrder = i + 1
		reordered = append(reordered, s)
	}

	t.Stops = reordered
	t.Touch()
	t.IncrementVersion()
	t.AddDomainEvent(NewTourStopsReorderedEvent(t))
	return nil
}

// Plan freezes the stop set. At least two stops are required.
func (t *Tour) Plan() error {
	if !t.Status.CanTransitionTo(TourStatusPlanned) {
		return shared.NewDomainError("INVALID_STATE", "Tour cannot be planned from status "+string(t.Status))
	}
	if len(t.Stops) < 2 {
		return shared.NewDomainError("NOT_ENOUGH_STOPS", "A tour needs at least two stops")
	}

	t.transition(TourStatusPlanned)
	return nil
}

// Start begins execution of a planned tour. A vehicle and driver must be
// assigned.
func (t *Tour) Start() error {
	if !t.Status.CanTransitionTo(TourStatusInProgress) {
		return shared.NewDomainError("INVALID_STATE", "Tour cannot start from status "+string(t.Status))
	}
	if t.VehicleID == nil || t.DriverID == nil {
		return shared.NewDomainError("UNASSIGNED_TOUR", "Tour needs a vehicle and a driver to start")
	}

	now := time.Now()
	t.StartedAt = &now
	t.transition(TourStatusInProgress)
	return nil
}

// ArriveAtStop records arrival at a stop. Stops must be visited in order.
func (t *Tour) ArriveAtStop(stopID uuid.UUID, at time.Time) error {
	if t.Status != TourStatusInProgress {
		return shared.NewDomainError("INVALID_STATE", "Arrivals can only be recorded on a running tour")
	}

	for i := range t.Stops {
		if t.Stops[i].ID == stopID {
			if i > 0 && t.Stops[i-1].ArrivedAt == nil {
				return shared.NewDomainError("OUT_OF_SEQUENCE", "Previous stop has not been visited")
			}
			if err := t.Stops[i].RecordArrival(at); err != nil {
				return err
			}
			t.Touch()
			t.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// DepartFromStop records departure from a visited stop
func (t *Tour) DepartFromStop(stopID uuid.UUID, at time.Time) error {
	if t.Status != TourStatusInProgress {
		return shared.NewDomainError("INVALID_STATE", "Departures can only be recorded on a running tour")
	}

	for i := range t.Stops {
		if t.Stops[i].ID == stopID {
			if err := t.Stops[i].RecordDeparture(at); err != nil {
				return err
			}
			t.Touch()
			t.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// Complete finishes a running tour. Every stop must have been visited.
func (t *Tour) Complete() error {
	if !t.Status.CanTransitionTo(TourStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", "Tour cannot complete from status "+string(t.Status))
	}
	for _, s := range t.Stops {
		if s.ArrivedAt == nil {
			return shared.NewDomainError("UNVISITED_STOPS", "All stops must be visited before completion")
		}
	}

	now := time.Now()
	t.EndedAt = &now
	t.transition(TourStatusCompleted)
	return nil
}

// Cancel cancels a tour that has not started
func (t *Tour) Cancel() error {
	if !t.Status.CanTransitionTo(TourStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", "Tour cannot be cancelled from status "+string(t.Status))
	}

	t.transition(TourStatusCancelled)
	return nil
}

func (t *Tour) transition(target TourStatus) {
	old := t.Status
	t.Status = target
	t.Touch()
	t.IncrementVersion()
	t.AddDomainEvent(NewTourStatusChangedEvent(t, old, target))
}
