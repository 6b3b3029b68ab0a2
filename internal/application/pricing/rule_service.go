package pricing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tms/backend/internal/domain/pricing"
	"github.com/tms/backend/internal/domain/shared"
)

// RuleService manages tenant-wide pricing rules
type RuleService struct {
	ruleRepo pricing.PricingRuleRepository
	logger   *zap.Logger
}

// NewRuleService creates a new rule service
func NewRuleService(ruleRepo pricing.PricingRuleRepository, logger *zap.Logger) *RuleService {
	return &RuleService{ruleRepo: ruleRepo, logger: logger}
}

// CreateRuleInput contains the input for creating a pricing rule
type CreateRuleInput struct {
	TenantID        uuid.UUID
	Name            string
	Priority        int
	OriginZone      string
	DestinationZone string
	MinWeightKg     decimal.Decimal
	DangerousGoods  *bool
	Action          string
	Percent         decimal.Decimal
}

// CreateRule creates an enabled pricing rule
func (s *RuleService) CreateRule(ctx context.Context, input CreateRuleInput) (*PricingRuleDTO, error) {
	conditions := pricing.RuleConditions{
		OriginZone:      input.OriginZone,
		DestinationZone: input.DestinationZone,
		MinWeightKg:     input.MinWeightKg,
		DangerousGoods:  input.DangerousGoods,
	}
	rule, err := pricing.NewPricingRule(input.TenantID, input.Name, input.Priority, conditions, pricing.RuleAction(input.Action), input.Percent)
	if err != nil {
		return nil, err
	}

	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		s.logger.Error("Failed to create pricing rule", zap.Error(err))
		return nil, err
	}
	return toPricingRuleDTO(rule), nil
}

// GetRule fetches a pricing rule by ID within a tenant
func (s *RuleService) GetRule(ctx context.Context, tenantID, ruleID uuid.UUID) (*PricingRuleDTO, error) {
	rule, err := s.ruleRepo.FindByIDForTenant(ctx, tenantID, ruleID)
	if err != nil {
		return nil, err
	}
	return toPricingRuleDTO(rule), nil
}

// ListRules lists a tenant's pricing rules with pagination
func (s *RuleService) ListRules(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[PricingRuleDTO], error) {
	rules, err := s.ruleRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.ruleRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]PricingRuleDTO, len(rules))
	for i := range rules {
		dtos[i] = *toPricingRuleDTO(&rules[i])
	}
	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// EnableRule turns a rule on
func (s *RuleService) EnableRule(ctx context.Context, tenantID, ruleID uuid.UUID) error {
	rule, err := s.ruleRepo.FindByIDForTenant(ctx, tenantID, ruleID)
	if err != nil {
		return err
	}
	rule.Enable()
	return s.ruleRepo.Save(ctx, rule)
}

// DisableRule turns a rule off
func (s *RuleService) DisableRule(ctx context.Context, tenantID, ruleID uuid.UUID) error {
	rule, err := s.ruleRepo.FindByIDForTenant(ctx, tenantID, ruleID)
	if err != nil {
		return err
	}
	rule.Disable()
	return s.ruleRepo.Save(ctx, rule)
}

// DeleteRule removes a pricing rule
func (s *RuleService) DeleteRule(ctx context.Context, tenantID, ruleID uuid.UUID) error {
	if _, err := s.ruleRepo.FindByIDForTenant(ctx, tenantID, ruleID); err != nil {
		return err
	}
	return s.ruleRepo.Delete(ctx, ruleID)
}
