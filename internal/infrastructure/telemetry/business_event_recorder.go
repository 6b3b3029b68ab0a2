package telemetry

import (
	"context"

	"github.com/tms/backend/internal/domain/billing"
	"github.com/tms/backend/internal/domain/order"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/shipment"
)

// BusinessEventRecorder feeds business metric counters from domain events.
// It subscribes to the event bus so every creation path, including outbox
// redeliveries of transactional writes, is counted in one place.
type BusinessEventRecorder struct {
	metrics *BusinessMetrics
}

// NewBusinessEventRecorder creates a new BusinessEventRecorder
func NewBusinessEventRecorder(metrics *BusinessMetrics) *BusinessEventRecorder {
	return &BusinessEventRecorder{metrics: metrics}
}

// EventTypes returns the event types the recorder counts
func (r *BusinessEventRecorder) EventTypes() []string {
	return []string{
		order.OrderCreatedEventType,
		shipment.ShipmentCreatedEventType,
		billing.PaymentCreatedEventType,
	}
}

// Handle increments the counter matching the event type
func (r *BusinessEventRecorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *order.OrderCreatedEvent:
		r.metrics.RecordOrderCreated(ctx, e.TenantID())
	case *shipment.ShipmentCreatedEvent:
		r.metrics.RecordShipmentCreated(ctx, e.TenantID())
	case *billing.PaymentCreatedEvent:
		r.metrics.RecordPayment(ctx, e.TenantID(), string(e.Direction))
	}
	return nil
}

// Ensure BusinessEventRecorder implements shared.EventHandler
var _ shared.EventHandler = (*BusinessEventRecorder)(nil)
