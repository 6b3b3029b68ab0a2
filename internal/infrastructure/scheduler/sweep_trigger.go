package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantProvider provides a list of tenants for scheduling
type TenantProvider interface {
	GetAllActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// SweepTriggerConfig holds configuration for the daily sweep trigger
type SweepTriggerConfig struct {
	// DailySweepHour and DailySweepMinute set the time of day (24h) the
	// maintenance sweep runs
	DailySweepHour   int
	DailySweepMinute int

	// CheckInterval is how often to check if it's time to run
	CheckInterval time.Duration
}

// DefaultSweepTriggerConfig returns default sweep trigger configuration
func DefaultSweepTriggerConfig() SweepTriggerConfig {
	return SweepTriggerConfig{
		DailySweepHour:   2, // 2am
		DailySweepMinute: 0,
		CheckInterval:    time.Minute,
	}
}

// SweepTrigger triggers the daily maintenance sweep across all tenants
type SweepTrigger struct {
	config         SweepTriggerConfig
	scheduler      *Scheduler
	tenantProvider TenantProvider
	logger         *zap.Logger

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string // Track which date we last ran for
}

// NewSweepTrigger creates a new sweep trigger
func NewSweepTrigger(
	config SweepTriggerConfig,
	scheduler *Scheduler,
	tenantProvider TenantProvider,
	logger *zap.Logger,
) *SweepTrigger {
	return &SweepTrigger{
		config:         config,
		scheduler:      scheduler,
		tenantProvider: tenantProvider,
		logger:         logger,
	}
}

// Start starts the sweep trigger
func (s *SweepTrigger) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Sweep trigger started",
		zap.Int("daily_hour", s.config.DailySweepHour),
		zap.Int("daily_minute", s.config.DailySweepMinute),
		zap.Duration("check_interval", s.config.CheckInterval),
	)

	return nil
}

// Stop stops the sweep trigger
func (s *SweepTrigger) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Sweep trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop checks periodically if it's time to run the sweep
func (s *SweepTrigger) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkAndTrigger(ctx)
		}
	}
}

// checkAndTrigger checks if it's time to run and triggers the sweep
func (s *SweepTrigger) checkAndTrigger(ctx context.Context) {
	now := time.Now()
	currentDate := now.Format("2006-01-02")

	// Skip if we already ran today
	s.mu.Lock()
	if s.lastRunDate == currentDate {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	// Check if it's the right time
	if now.Hour() != s.config.DailySweepHour || now.Minute() != s.config.DailySweepMinute {
		return
	}

	// It's time to run!
	s.mu.Lock()
	s.lastRunDate = currentDate
	s.mu.Unlock()

	s.logger.Info("Triggering daily maintenance sweep")
	s.triggerSweep(ctx)
}

// triggerSweep schedules the maintenance sweep for all active tenants
func (s *SweepTrigger) triggerSweep(ctx context.Context) {
	tenantIDs, err := s.tenantProvider.GetAllActiveTenantIDs(ctx)
	if err != nil {
		s.logger.Error("Failed to get tenant IDs for maintenance sweep", zap.Error(err))
		return
	}

	s.logger.Info("Scheduling maintenance sweep for tenants",
		zap.Int("tenant_count", len(tenantIDs)),
	)

	for _, tenantID := range tenantIDs {
		tid := tenantID // Capture for closure
		if err := s.scheduler.ScheduleMaintenanceSweep(&tid); err != nil {
			s.logger.Error("Failed to schedule maintenance sweep for tenant",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err),
			)
		}
	}
}

// TriggerManualSweep allows manual triggering of a maintenance job
func (s *SweepTrigger) TriggerManualSweep(ctx context.Context, tenantID *uuid.UUID, jobType *JobType) error {
	if jobType != nil {
		return s.scheduler.ScheduleJob(tenantID, *jobType)
	}

	for _, jt := range AllJobTypes() {
		if err := s.scheduler.ScheduleJob(tenantID, jt); err != nil {
			return err
		}
	}
	return nil
}
