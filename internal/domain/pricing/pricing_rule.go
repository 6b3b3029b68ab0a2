package pricing

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/shared"
)

// RuleAction is what a matched pricing rule does to the computed price
type RuleAction string

const (
	ActionDiscountPercent RuleAction = "discount_percent"
	ActionMarkupPercent   RuleAction = "markup_percent"
)

// IsValid returns true for a known rule action
func (a RuleAction) IsValid() bool {
	return a == ActionDiscountPercent || a == ActionMarkupPercent
}

// RuleConditions are the match criteria of a pricing rule. Zero values mean
// the criterion is not applied.
type RuleConditions struct {
	OriginZone      string          `json:"origin_zone,omitempty"`
	DestinationZone string          `json:"destination_zone,omitempty"`
	MinWeightKg     decimal.Decimal `json:"min_weight_kg,omitempty"`
	DangerousGoods  *bool           `json:"dangerous_goods,omitempty"`
}

// PricingRule adjusts a computed freight price when its conditions match.
// Rules are evaluated in ascending priority order; lower numbers run first.
type PricingRule struct {
	shared.TenantAggregateRoot
	Name       string
	Priority   int
	IsEnabled  bool
	Conditions RuleConditions
	Action     RuleAction
	Percent    decimal.Decimal
}

// NewPricingRule creates an enabled pricing rule
func NewPricingRule(tenantID uuid.UUID, name string, priority int, conditions RuleConditions, action RuleAction, percent decimal.Decimal) (*PricingRule, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_RULE", "Rule name cannot be empty")
	}
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_RULE", "Unknown rule action")
	}
	if !percent.IsPositive() {
		return nil, shared.NewDomainError("INVALID_RULE", "Rule percentage must be positive")
	}

	return &PricingRule{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Priority:            priority,
		IsEnabled:           true,
		Conditions:          conditions,
		Action:              action,
		Percent:             percent,
	}, nil
}

// Matches reports whether the rule applies to a quote request
func (r *PricingRule) Matches(req QuoteRequest) bool {
	if !r.IsEnabled {
		return false
	}
	c := r.Conditions
	if c.OriginZone != "" && !strings.EqualFold(c.OriginZone, req.OriginZone) {
		return false
	}
	if c.DestinationZone != "" && !strings.EqualFold(c.DestinationZone, req.DestinationZone) {
		return false
	}
	if !c.MinWeightKg.IsZero() && req.WeightKg.LessThan(c.MinWeightKg) {
		return false
	}
	if c.DangerousGoods != nil && *c.DangerousGoods != req.DangerousGoods {
		return false
	}
	return true
}

// Enable turns the rule on
func (r *PricingRule) Enable() {
	r.IsEnabled = true
	r.Touch()
	r.IncrementVersion()
}

// Disable turns the rule off
func (r *PricingRule) Disable() {
	r.IsEnabled = false
	r.Touch()
	r.IncrementVersion()
}

// ConditionsJSON returns the conditions serialized for storage
func (r *PricingRule) ConditionsJSON() (string, error) {
	b, err := json.Marshal(r.Conditions)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
