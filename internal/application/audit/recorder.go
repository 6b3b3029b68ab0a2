package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/tms/backend/internal/domain/audit"
	"github.com/tms/backend/internal/domain/shared"
)

// Recorder turns domain events into audit records. It subscribes to every
// event type on the bus; the trail is append-only, so a failed write is
// logged and dropped rather than retried against the publishing request.
type Recorder struct {
	logRepo audit.LogRepository
	logger  *zap.Logger
}

// NewRecorder creates a recorder
func NewRecorder(logRepo audit.LogRepository, logger *zap.Logger) *Recorder {
	return &Recorder{logRepo: logRepo, logger: logger}
}

// Register subscribes the recorder to all events on the bus
func (r *Recorder) Register(bus shared.EventBus) {
	bus.Subscribe(r)
}

// EventTypes returns an empty slice: the recorder receives every event
func (r *Recorder) EventTypes() []string {
	return nil
}

// Handle appends an audit record for the event
func (r *Recorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	entry, err := audit.NewLogEntry(event.TenantID(), event.EventType(), event.AggregateType(), event.AggregateID())
	if err != nil {
		return err
	}
	entry.OccurredAt = event.OccurredAt()

	if err := r.logRepo.Append(ctx, entry); err != nil {
		r.logger.Error("Failed to record audit entry from event",
			zap.String("event_type", event.EventType()),
			zap.Error(err))
		return err
	}
	return nil
}
