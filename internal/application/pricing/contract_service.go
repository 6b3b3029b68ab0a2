package pricing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tms/backend/internal/domain/pricing"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/shared/valueobject"
	"github.com/tms/backend/internal/domain/shipment"
)

// ContractService handles rate contract use cases
type ContractService struct {
	contractRepo pricing.ContractRepository
	eventBus     shared.EventBus
	logger       *zap.Logger
}

// NewContractService creates a new contract service
func NewContractService(contractRepo pricing.ContractRepository, eventBus shared.EventBus, logger *zap.Logger) *ContractService {
	return &ContractService{
		contractRepo: contractRepo,
		eventBus:     eventBus,
		logger:       logger,
	}
}

// CreateContractInput contains the input for creating a contract
type CreateContractInput struct {
	TenantID       uuid.UUID
	PartnerID      uuid.UUID
	ContractNumber string // Generated when empty
	Currency       string
	ValidFrom      time.Time
	ValidUntil     time.Time
	Description    string
}

// CreateContract creates a new draft contract
func (s *ContractService) CreateContract(ctx context.Context, input CreateContractInput) (*ContractDTO, error) {
	number := input.ContractNumber
	if number == "" {
		number = generateContractNumber()
	} else if existing, err := s.contractRepo.FindByNumber(ctx, input.TenantID, number); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Contract number is already taken")
	}

	c, err := pricing.NewContract(input.TenantID, input.PartnerID, number, input.ValidFrom, input.ValidUntil)
	if err != nil {
		return nil, err
	}
	if input.Currency != "" {
		c.Currency = valueobject.Currency(input.Currency)
	}
	c.Description = strings.TrimSpace(input.Description)

	if err := s.contractRepo.Save(ctx, c); err != nil {
		s.logger.Error("Failed to create contract", zap.Error(err))
		return nil, err
	}
	s.publishEvents(ctx, c)

	s.logger.Info("Contract created",
		zap.String("contract_id", c.ID.String()),
		zap.String("contract_number", c.ContractNumber))

	return toContractDTO(c), nil
}

// GetContract fetches a contract by ID within a tenant
func (s *ContractService) GetContract(ctx context.Context, tenantID, contractID uuid.UUID) (*ContractDTO, error) {
	c, err := s.contractRepo.FindByIDForTenant(ctx, tenantID, contractID)
	if err != nil {
		return nil, err
	}
	return toContractDTO(c), nil
}

// ListContracts lists a tenant's contracts with pagination
func (s *ContractService) ListContracts(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[ContractDTO], error) {
	contracts, err := s.contractRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.contractRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]ContractDTO, len(contracts))
	for i := range contracts {
		dtos[i] = *toContractDTO(&contracts[i])
	}
	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateContractInput contains the input for updating a draft contract.
// Nil fields are left unchanged.
type UpdateContractInput struct {
	TenantID    uuid.UUID
	ContractID  uuid.UUID
	ValidFrom   *time.Time
	ValidUntil  *time.Time
	Description *string
	Version     int
}

// UpdateContract updates mutable fields of a draft contract with an
// optimistic concurrency check
func (s *ContractService) UpdateContract(ctx context.Context, input UpdateContractInput) (*ContractDTO, error) {
	c, err := s.contractRepo.FindByIDForTenant(ctx, input.TenantID, input.ContractID)
	if err != nil {
		return nil, err
	}
	if c.Status != pricing.ContractStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Only draft contracts can be updated")
	}

	validFrom := c.ValidFrom
	validUntil := c.ValidUntil
	if input.ValidFrom != nil {
		validFrom = *input.ValidFrom
	}
	if input.ValidUntil != nil {
		validUntil = *input.ValidUntil
	}
	if !validUntil.After(validFrom) {
		return nil, shared.NewDomainError("INVALID_VALIDITY", "Validity end must be after start")
	}
	c.ValidFrom = validFrom
	c.ValidUntil = validUntil
	if input.Description != nil {
		c.Description = strings.TrimSpace(*input.Description)
	}
	c.Touch()

	if err := s.contractRepo.SaveWithLock(ctx, c, input.Version); err != nil {
		return nil, err
	}
	return toContractDTO(c), nil
}

// AddRateInput contains the input for attaching a rate to a contract
type AddRateInput struct {
	TenantID        uuid.UUID
	ContractID      uuid.UUID
	Mode            string
	OriginZone      string
	DestinationZone string
	Basis           string
	MinWeightKg     decimal.Decimal
	MaxWeightKg     decimal.Decimal
	Price           decimal.Decimal
	MinimumCharge   decimal.Decimal
}

// AddRate attaches a lane rate to a draft contract
func (s *ContractService) AddRate(ctx context.Context, input AddRateInput) (*ContractDTO, error) {
	c, err := s.contractRepo.FindByIDForTenant(ctx, input.TenantID, input.ContractID)
	if err != nil {
		return nil, err
	}

	price, err := valueobject.NewMoney(input.Price, c.Currency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_AMOUNT", err.Error())
	}
	rate := pricing.NewRate(shipment.TransportMode(input.Mode), input.OriginZone, input.DestinationZone, pricing.RateBasis(input.Basis), price)
	rate.MinWeightKg = input.MinWeightKg
	rate.MaxWeightKg = input.MaxWeightKg
	if !input.MinimumCharge.IsZero() {
		minCharge, err := valueobject.NewMoney(input.MinimumCharge, c.Currency)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_AMOUNT", err.Error())
		}
		rate.MinimumCharge = minCharge
	}

	if err := c.AddRate(rate); err != nil {
		return nil, err
	}
	if err := s.contractRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return toContractDTO(c), nil
}

// RemoveRate removes a rate from a draft contract
func (s *ContractService) RemoveRate(ctx context.Context, tenantID, contractID, rateID uuid.UUID) error {
	return s.mutate(ctx, tenantID, contractID, func(c *pricing.Contract) error {
		return c.RemoveRate(rateID)
	})
}

// AddSurchargeInput contains the input for attaching a surcharge
type AddSurchargeInput struct {
	TenantID    uuid.UUID
	ContractID  uuid.UUID
	Type        string
	Calculation string
	Percent     decimal.Decimal
	FixedAmount decimal.Decimal
	Description string
}

// AddSurcharge attaches a surcharge to a draft contract
func (s *ContractService) AddSurcharge(ctx context.Context, input AddSurchargeInput) (*ContractDTO, error) {
	c, err := s.contractRepo.FindByIDForTenant(ctx, input.TenantID, input.ContractID)
	if err != nil {
		return nil, err
	}

	var surcharge pricing.Surcharge
	switch pricing.SurchargeCalculation(input.Calculation) {
	case pricing.SurchargePercent:
		surcharge = pricing.NewPercentSurcharge(pricing.SurchargeType(input.Type), input.Percent)
	case pricing.SurchargeFixed:
		amount, err := valueobject.NewMoney(input.FixedAmount, c.Currency)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_AMOUNT", err.Error())
		}
		surcharge = pricing.NewFixedSurcharge(pricing.SurchargeType(input.Type), amount)
	default:
		return nil, shared.NewDomainError("INVALID_SURCHARGE", "Unknown surcharge calculation")
	}
	surcharge.Description = strings.TrimSpace(input.Description)

	if err := c.AddSurcharge(surcharge); err != nil {
		return nil, err
	}
	if err := s.contractRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return toContractDTO(c), nil
}

// RemoveSurcharge removes a surcharge from a draft contract
func (s *ContractService) RemoveSurcharge(ctx context.Context, tenantID, contractID, surchargeID uuid.UUID) error {
	return s.mutate(ctx, tenantID, contractID, func(c *pricing.Contract) error {
		return c.RemoveSurcharge(surchargeID)
	})
}

// ActivateContract puts a draft contract into force
func (s *ContractService) ActivateContract(ctx context.Context, tenantID, contractID uuid.UUID) error {
	return s.mutate(ctx, tenantID, contractID, func(c *pricing.Contract) error { return c.Activate() })
}

// ExpireContract records that the validity window has passed
func (s *ContractService) ExpireContract(ctx context.Context, tenantID, contractID uuid.UUID) error {
	return s.mutate(ctx, tenantID, contractID, func(c *pricing.Contract) error { return c.MarkExpired() })
}

// TerminateContract ends a contract early
func (s *ContractService) TerminateContract(ctx context.Context, tenantID, contractID uuid.UUID) error {
	return s.mutate(ctx, tenantID, contractID, func(c *pricing.Contract) error { return c.Terminate() })
}

// DeleteContract removes a draft contract
func (s *ContractService) DeleteContract(ctx context.Context, tenantID, contractID uuid.UUID) error {
	c, err := s.contractRepo.FindByIDForTenant(ctx, tenantID, contractID)
	if err != nil {
		return err
	}
	if c.Status != pricing.ContractStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft contracts can be deleted")
	}
	return s.contractRepo.Delete(ctx, contractID)
}

func (s *ContractService) mutate(ctx context.Context, tenantID, contractID uuid.UUID, fn func(*pricing.Contract) error) error {
	c, err := s.contractRepo.FindByIDForTenant(ctx, tenantID, contractID)
	if err != nil {
		return err
	}
	if err := fn(c); err != nil {
		return err
	}
	if err := s.contractRepo.Save(ctx, c); err != nil {
		return err
	}
	s.publishEvents(ctx, c)
	return nil
}

func (s *ContractService) publishEvents(ctx context.Context, c *pricing.Contract) {
	if s.eventBus == nil {
		return
	}
	events := c.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
	c.ClearDomainEvents()
}

func generateContractNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("CTR-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}
