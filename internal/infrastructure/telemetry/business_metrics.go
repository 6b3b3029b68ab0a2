// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the transport backend.
// It tracks order intake, shipment activity, payments, and fleet health.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	orderCreatedTotal    *Counter
	shipmentCreatedTotal *Counter
	paymentTotal         *Counter

	// Gauge metrics (point-in-time values)
	shipmentsByStatus *Gauge
	toursInProgress   *Gauge
	invoicesOverdue   *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	fleetProvider FleetMetricsProvider
}

// FleetMetricsProvider provides operational data for periodic metrics
// collection. The interface lets the telemetry layer query shipment, tour,
// and invoice state without depending on the domain packages directly.
type FleetMetricsProvider interface {
	// GetShipmentCountByStatus returns shipment counts keyed by status for a tenant
	GetShipmentCountByStatus(ctx context.Context, tenantID uuid.UUID) (map[string]int64, error)

	// GetToursInProgressCount returns the number of tours currently underway for a tenant
	GetToursInProgressCount(ctx context.Context, tenantID uuid.UUID) (int64, error)

	// GetOverdueInvoiceCount returns the number of unpaid invoices past their due date for a tenant
	GetOverdueInvoiceCount(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	FleetProvider   FleetMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:         cfg.Meter,
		logger:        logger,
		stopChan:      make(chan struct{}),
		fleetProvider: cfg.FleetProvider,
	}

	var err error

	bm.orderCreatedTotal, err = NewCounter(
		cfg.Meter,
		"tms_order_created_total",
		"Total number of transport orders created",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	bm.shipmentCreatedTotal, err = NewCounter(
		cfg.Meter,
		"tms_shipment_created_total",
		"Total number of shipments created",
		"{shipments}",
	)
	if err != nil {
		return nil, err
	}

	bm.paymentTotal, err = NewCounter(
		cfg.Meter,
		"tms_payment_total",
		"Total number of recorded payments",
		"{payments}",
	)
	if err != nil {
		return nil, err
	}

	bm.shipmentsByStatus, err = NewGauge(
		cfg.Meter,
		"tms_shipments_by_status",
		"Current number of shipments per status",
		"{shipments}",
	)
	if err != nil {
		return nil, err
	}

	bm.toursInProgress, err = NewGauge(
		cfg.Meter,
		"tms_tours_in_progress",
		"Number of tours currently underway",
		"{tours}",
	)
	if err != nil {
		return nil, err
	}

	bm.invoicesOverdue, err = NewGauge(
		cfg.Meter,
		"tms_invoices_overdue",
		"Number of unpaid invoices past their due date",
		"{invoices}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Counter Metrics
// =============================================================================

// RecordOrderCreated records a transport order creation event.
func (bm *BusinessMetrics) RecordOrderCreated(ctx context.Context, tenantID uuid.UUID) {
	bm.orderCreatedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
	)
}

// RecordShipmentCreated records a shipment creation event.
func (bm *BusinessMetrics) RecordShipmentCreated(ctx context.Context, tenantID uuid.UUID) {
	bm.shipmentCreatedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
	)
}

// RecordPayment records a payment, labeled by direction
// ("incoming" from customers, "outgoing" to carriers).
func (bm *BusinessMetrics) RecordPayment(ctx context.Context, tenantID uuid.UUID, direction string) {
	bm.paymentTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrPaymentDirection.String(direction),
	)
}

// =============================================================================
// Gauge Metrics
// =============================================================================

// RecordShipmentStatusCount records the current shipment count for one status.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordShipmentStatusCount(ctx context.Context, tenantID uuid.UUID, status string, count int64) {
	bm.shipmentsByStatus.Record(ctx, count,
		AttrTenantID.String(tenantID.String()),
		AttrShipmentStatus.String(status),
	)
}

// RecordToursInProgress records the number of tours currently underway.
func (bm *BusinessMetrics) RecordToursInProgress(ctx context.Context, tenantID uuid.UUID, count int64) {
	bm.toursInProgress.Record(ctx, count,
		AttrTenantID.String(tenantID.String()),
	)
}

// RecordOverdueInvoices records the number of overdue invoices.
func (bm *BusinessMetrics) RecordOverdueInvoices(ctx context.Context, tenantID uuid.UUID, count int64) {
	bm.invoicesOverdue.Record(ctx, count,
		AttrTenantID.String(tenantID.String()),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// TenantProvider provides tenant IDs for periodic metrics collection.
type TenantProvider interface {
	GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects fleet metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, tenantProvider, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectFleetMetrics(ctx, tenantProvider)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectFleetMetrics(ctx, tenantProvider)
		}
	}
}

// collectFleetMetrics collects fleet gauge metrics for all tenants.
func (bm *BusinessMetrics) collectFleetMetrics(ctx context.Context, tenantProvider TenantProvider) {
	if bm.fleetProvider == nil {
		bm.logger.Debug("No fleet provider configured, skipping fleet metrics collection")
		return
	}

	tenantIDs, err := tenantProvider.GetActiveTenantIDs(ctx)
	if err != nil {
		bm.logger.Error("Failed to get tenant IDs for metrics collection", zap.Error(err))
		return
	}

	for _, tenantID := range tenantIDs {
		bm.collectTenantFleetMetrics(ctx, tenantID)
	}
}

// collectTenantFleetMetrics collects fleet metrics for a single tenant.
func (bm *BusinessMetrics) collectTenantFleetMetrics(ctx context.Context, tenantID uuid.UUID) {
	countsByStatus, err := bm.fleetProvider.GetShipmentCountByStatus(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to get shipment counts for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		for status, count := range countsByStatus {
			bm.RecordShipmentStatusCount(ctx, tenantID, status, count)
		}
	}

	toursInProgress, err := bm.fleetProvider.GetToursInProgressCount(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to get tour count for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordToursInProgress(ctx, tenantID, toursInProgress)
	}

	overdueInvoices, err := bm.fleetProvider.GetOverdueInvoiceCount(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to get overdue invoice count for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordOverdueInvoices(ctx, tenantID, overdueInvoices)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
