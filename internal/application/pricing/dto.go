package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tms/backend/internal/domain/pricing"
)

// ContractDTO is the rate contract representation
type ContractDTO struct {
	ID             uuid.UUID      `json:"id"`
	ContractNumber string         `json:"contract_number"`
	PartnerID      uuid.UUID      `json:"partner_id"`
	Status         string         `json:"status"`
	Currency       string         `json:"currency"`
	ValidFrom      time.Time      `json:"valid_from"`
	ValidUntil     time.Time      `json:"valid_until"`
	Description    string         `json:"description,omitempty"`
	Version        int            `json:"version"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	Rates          []RateDTO      `json:"rates,omitempty"`
	Surcharges     []SurchargeDTO `json:"surcharges,omitempty"`
}

// RateDTO is a lane rate on a contract
type RateDTO struct {
	ID              uuid.UUID       `json:"id"`
	Mode            string          `json:"mode"`
	OriginZone      string          `json:"origin_zone"`
	DestinationZone string          `json:"destination_zone"`
	Basis           string          `json:"basis"`
	MinWeightKg     decimal.Decimal `json:"min_weight_kg"`
	MaxWeightKg     decimal.Decimal `json:"max_weight_kg"`
	Price           decimal.Decimal `json:"price"`
	MinimumCharge   decimal.Decimal `json:"minimum_charge"`
}

// SurchargeDTO is an additional charge on a contract
type SurchargeDTO struct {
	ID          uuid.UUID       `json:"id"`
	Type        string          `json:"type"`
	Calculation string          `json:"calculation"`
	Percent     decimal.Decimal `json:"percent"`
	FixedAmount decimal.Decimal `json:"fixed_amount"`
	Description string          `json:"description,omitempty"`
}

// PricingRuleDTO is a tenant-wide price adjustment rule
type PricingRuleDTO struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Priority        int             `json:"priority"`
	IsEnabled       bool            `json:"is_enabled"`
	OriginZone      string          `json:"origin_zone,omitempty"`
	DestinationZone string          `json:"destination_zone,omitempty"`
	MinWeightKg     decimal.Decimal `json:"min_weight_kg"`
	DangerousGoods  *bool           `json:"dangerous_goods,omitempty"`
	Action          string          `json:"action"`
	Percent         decimal.Decimal `json:"percent"`
	Version         int             `json:"version"`
}

// QuoteDTO is a priced transport
type QuoteDTO struct {
	ContractNumber string          `json:"contract_number"`
	Currency       string          `json:"currency"`
	BaseFreight    decimal.Decimal `json:"base_freight"`
	Total          decimal.Decimal `json:"total"`
	Lines          []QuoteLineDTO  `json:"lines"`
}

// QuoteLineDTO is one priced component of a quote
type QuoteLineDTO struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

func toContractDTO(c *pricing.Contract) *ContractDTO {
	dto := &ContractDTO{
		ID:             c.ID,
		ContractNumber: c.ContractNumber,
		PartnerID:      c.PartnerID,
		Status:         string(c.Status),
		Currency:       string(c.Currency),
		ValidFrom:      c.ValidFrom,
		ValidUntil:     c.ValidUntil,
		Description:    c.Description,
		Version:        c.Version,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
	for _, r := range c.Rates {
		dto.Rates = append(dto.Rates, RateDTO{
			ID:              r.ID,
			Mode:            string(r.Mode),
			OriginZone:      r.OriginZone,
			DestinationZone: r.DestinationZone,
			Basis:           string(r.Basis),
			MinWeightKg:     r.MinWeightKg,
			MaxWeightKg:     r.MaxWeightKg,
			Price:           r.Price.Amount(),
			MinimumCharge:   r.MinimumCharge.Amount(),
		})
	}
	for _, s := range c.Surcharges {
		dto.Surcharges = append(dto.Surcharges, SurchargeDTO{
			ID:          s.ID,
			Type:        string(s.Type),
			Calculation: string(s.Calculation),
			Percent:     s.Percent,
			FixedAmount: s.FixedAmount.Amount(),
			Description: s.Description,
		})
	}
	return dto
}

func toPricingRuleDTO(r *pricing.PricingRule) *PricingRuleDTO {
	return &PricingRuleDTO{
		ID:              r.ID,
		Name:            r.Name,
		Priority:        r.Priority,
		IsEnabled:       r.IsEnabled,
		OriginZone:      r.Conditions.OriginZone,
		DestinationZone: r.Conditions.DestinationZone,
		MinWeightKg:     r.Conditions.MinWeightKg,
		DangerousGoods:  r.Conditions.DangerousGoods,
		Action:          string(r.Action),
		Percent:         r.Percent,
		Version:         r.Version,
	}
}

func toQuoteDTO(q *pricing.Quote) *QuoteDTO {
	dto := &QuoteDTO{
		ContractNumber: q.ContractNumber,
		Currency:       string(q.Total.Currency()),
		BaseFreight:    q.BaseFreight.Amount(),
		Total:          q.Total.Amount(),
	}
	for _, l := range q.Lines {
		dto.Lines = append(dto.Lines, QuoteLineDTO{Description: l.Description, Amount: l.Amount.Amount()})
	}
	return dto
}
