package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tms/backend/internal/domain/pricing"
	"github.com/tms/backend/internal/domain/shared"
)

// ContractExpiryExecutor expires active contracts whose validity window has
// closed. Each run transitions the matching contracts and publishes the
// resulting status-change events.
type ContractExpiryExecutor struct {
	contractRepo   pricing.ContractRepository
	tenantProvider TenantProvider
	eventBus       shared.EventPublisher
	logger         *zap.Logger
}

// NewContractExpiryExecutor creates a new ContractExpiryExecutor
func NewContractExpiryExecutor(
	contractRepo pricing.ContractRepository,
	tenantProvider TenantProvider,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *ContractExpiryExecutor {
	return &ContractExpiryExecutor{
		contractRepo:   contractRepo,
		tenantProvider: tenantProvider,
		eventBus:       eventBus,
		logger:         logger,
	}
}

// Execute runs the expiry sweep for the job's tenant, or for every active
// tenant when the job has no tenant set
func (e *ContractExpiryExecutor) Execute(ctx context.Context, job *Job) error {
	if job.Type != JobTypeContractExpiry {
		return ErrInvalidJobType
	}

	if job.TenantID != nil {
		return e.expireForTenant(ctx, *job.TenantID)
	}

	tenantIDs, err := e.tenantProvider.GetAllActiveTenantIDs(ctx)
	if err != nil {
		return err
	}
	for _, tenantID := range tenantIDs {
		if err := e.expireForTenant(ctx, tenantID); err != nil {
			// One tenant's failure must not block the rest of the sweep
			e.logger.Error("Contract expiry sweep failed for tenant",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (e *ContractExpiryExecutor) expireForTenant(ctx context.Context, tenantID uuid.UUID) error {
	contracts, err := e.contractRepo.FindActiveExpiredBefore(ctx, tenantID, time.Now())
	if err != nil {
		return err
	}
	if len(contracts) == 0 {
		return nil
	}

	expired := 0
	for i := range contracts {
		c := &contracts[i]
		if err := c.MarkExpired(); err != nil {
			e.logger.Warn("Skipping contract that cannot expire",
				zap.String("contract_id", c.ID.String()),
				zap.String("status", string(c.Status)),
				zap.Error(err),
			)
			continue
		}
		if err := e.contractRepo.Save(ctx, c); err != nil {
			return err
		}
		e.publishEvents(ctx, c)
		expired++
	}

	e.logger.Info("Expired contracts past their validity window",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("expired", expired),
	)
	return nil
}

func (e *ContractExpiryExecutor) publishEvents(ctx context.Context, c *pricing.Contract) {
	if e.eventBus == nil {
		return
	}
	events := c.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := e.eventBus.Publish(ctx, events...); err != nil {
		e.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
	c.ClearDomainEvents()
}

// Ensure ContractExpiryExecutor implements JobExecutor
var _ JobExecutor = (*ContractExpiryExecutor)(nil)
