package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tms/backend/internal/domain/pricing"
	"github.com/tms/backend/internal/domain/shared/valueobject"
	"github.com/tms/backend/internal/domain/shipment"
)

// ContractModel is the persistence model for the Contract aggregate root.
type ContractModel struct {
	TenantAggregateModel
	ContractNumber string                 `gorm:"type:varchar(50);not null;uniqueIndex:idx_contract_tenant_number,priority:2"`
	PartnerID      uuid.UUID              `gorm:"type:uuid;not null;index"`
	Status         pricing.ContractStatus `gorm:"type:contract_status;not null;default:'draft';index"`
	Currency       valueobject.Currency   `gorm:"type:varchar(3);not null;default:'EUR'"`
	ValidFrom      time.Time              `gorm:"not null;index"`
	ValidUntil     time.Time              `gorm:"not null;index"`
	Description    string                 `gorm:"type:varchar(500)"`

	Rates      []RateModel      `gorm:"foreignKey:ContractID;references:ID;constraint:OnDelete:CASCADE"`
	Surcharges []SurchargeModel `gorm:"foreignKey:ContractID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ContractModel) TableName() string {
	return "contracts"
}

// RateModel is the persistence model for a contract rate.
type RateModel struct {
	BaseModel
	ContractID      uuid.UUID              `gorm:"type:uuid;not null;index"`
	Mode            shipment.TransportMode `gorm:"type:transport_mode;not null"`
	OriginZone      string                 `gorm:"type:varchar(20);not null"`
	DestinationZone string                 `gorm:"type:varchar(20);not null"`
	Basis           pricing.RateBasis      `gorm:"type:rate_basis;not null"`
	MinWeightKg     decimal.Decimal        `gorm:"type:decimal(12,3);not null;default:0"`
	MaxWeightKg     decimal.Decimal        `gorm:"type:decimal(12,3);not null;default:0"`
	Price           decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	MinimumCharge   decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Currency        valueobject.Currency   `gorm:"type:varchar(3);not null;default:'EUR'"`
}

// TableName returns the table name for GORM
func (RateModel) TableName() string {
	return "contract_rates"
}

// SurchargeModel is the persistence model for a contract surcharge.
type SurchargeModel struct {
	BaseModel
	ContractID  uuid.UUID                    `gorm:"type:uuid;not null;index"`
	Type        pricing.SurchargeType        `gorm:"type:surcharge_type;not null"`
	Calculation pricing.SurchargeCalculation `gorm:"type:surcharge_calculation;not null"`
	Percent     decimal.Decimal              `gorm:"type:decimal(7,4);not null;default:0"`
	FixedAmount decimal.Decimal              `gorm:"type:decimal(18,4);not null;default:0"`
	Currency    valueobject.Currency         `gorm:"type:varchar(3);not null;default:'EUR'"`
	Description string                       `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (SurchargeModel) TableName() string {
	return "contract_surcharges"
}

// PricingRuleModel is the persistence model for the PricingRule aggregate root.
// Rule conditions are flattened into columns so they stay queryable.
type PricingRuleModel struct {
	TenantAggregateModel
	Name      string             `gorm:"type:varchar(200);not null"`
	Priority  int                `gorm:"not null;default:0;index"`
	IsEnabled bool               `gorm:"not null;default:true;index"`
	Action    pricing.RuleAction `gorm:"type:rule_action;not null"`
	Percent   decimal.Decimal    `gorm:"type:decimal(7,4);not null;default:0"`

	OriginZone      string          `gorm:"type:varchar(20)"`
	DestinationZone string          `gorm:"type:varchar(20)"`
	MinWeightKg     decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	DangerousGoods  *bool
}

// TableName returns the table name for GORM
func (PricingRuleModel) TableName() string {
	return "pricing_rules"
}

// ToDomain converts the persistence model to a domain Contract entity.
func (m *ContractModel) ToDomain() *pricing.Contract {
	c := &pricing.Contract{
		ContractNumber: m.ContractNumber,
		PartnerID:      m.PartnerID,
		Status:         m.Status,
		Currency:       m.Currency,
		ValidFrom:      m.ValidFrom,
		ValidUntil:     m.ValidUntil,
		Description:    m.Description,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)

	c.Rates = make([]pricing.Rate, len(m.Rates))
	for i := range m.Rates {
		c.Rates[i] = m.Rates[i].ToDomain()
	}
	c.Surcharges = make([]pricing.Surcharge, len(m.Surcharges))
	for i := range m.Surcharges {
		c.Surcharges[i] = m.Surcharges[i].ToDomain()
	}
	return c
}

// FromDomain populates the persistence model from a domain Contract entity.
func (m *ContractModel) FromDomain(c *pricing.Contract) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.ContractNumber = c.ContractNumber
	m.PartnerID = c.PartnerID
	m.Status = c.Status
	m.Currency = c.Currency
	m.ValidFrom = c.ValidFrom
	m.ValidUntil = c.ValidUntil
	m.Description = c.Description

	m.Rates = make([]RateModel, len(c.Rates))
	for i := range c.Rates {
		m.Rates[i].FromDomain(&c.Rates[i])
	}
	m.Surcharges = make([]SurchargeModel, len(c.Surcharges))
	for i := range c.Surcharges {
		m.Surcharges[i].FromDomain(&c.Surcharges[i])
	}
}

// ContractModelFromDomain creates a new persistence model from a domain Contract.
func ContractModelFromDomain(c *pricing.Contract) *ContractModel {
	m := &ContractModel{}
	m.FromDomain(c)
	return m
}

// ToDomain converts the persistence model to a domain Rate.
func (m *RateModel) ToDomain() pricing.Rate {
	return pricing.Rate{
		BaseEntity:      m.BaseModel.ToDomain(),
		ContractID:      m.ContractID,
		Mode:            m.Mode,
		OriginZone:      m.OriginZone,
		DestinationZone: m.DestinationZone,
		Basis:           m.Basis,
		MinWeightKg:     m.MinWeightKg,
		MaxWeightKg:     m.MaxWeightKg,
		Price:           money(m.Price, m.Currency),
		MinimumCharge:   money(m.MinimumCharge, m.Currency),
	}
}

// FromDomain populates the persistence model from a domain Rate.
func (m *RateModel) FromDomain(r *pricing.Rate) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.ContractID = r.ContractID
	m.Mode = r.Mode
	m.OriginZone = r.OriginZone
	m.DestinationZone = r.DestinationZone
	m.Basis = r.Basis
	m.MinWeightKg = r.MinWeightKg
	m.MaxWeightKg = r.MaxWeightKg
	m.Price = r.Price.Amount()
	m.MinimumCharge = r.MinimumCharge.Amount()
	m.Currency = r.Price.Currency()
}

// ToDomain converts the persistence model to a domain Surcharge.
func (m *SurchargeModel) ToDomain() pricing.Surcharge {
	return pricing.Surcharge{
		BaseEntity:  m.BaseModel.ToDomain(),
		ContractID:  m.ContractID,
		Type:        m.Type,
		Calculation: m.Calculation,
		Percent:     m.Percent,
		FixedAmount: money(m.FixedAmount, m.Currency),
		Description: m.Description,
	}
}

// FromDomain populates the persistence model from a domain Surcharge.
func (m *SurchargeModel) FromDomain(s *pricing.Surcharge) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.ContractID = s.ContractID
	m.Type = s.Type
	m.Calculation = s.Calculation
	m.Percent = s.Percent
	m.FixedAmount = s.FixedAmount.Amount()
	m.Currency = s.FixedAmount.Currency()
	m.Description = s.Description
}

// ToDomain converts the persistence model to a domain PricingRule entity.
func (m *PricingRuleModel) ToDomain() *pricing.PricingRule {
	r := &pricing.PricingRule{
		Name:      m.Name,
		Priority:  m.Priority,
		IsEnabled: m.IsEnabled,
		Action:    m.Action,
		Percent:   m.Percent,
		Conditions: pricing.RuleConditions{
			OriginZone:      m.OriginZone,
			DestinationZone: m.DestinationZone,
			MinWeightKg:     m.MinWeightKg,
			DangerousGoods:  m.DangerousGoods,
		},
	}
	m.PopulateTenantAggregateRoot(&r.TenantAggregateRoot)
	return r
}

// FromDomain populates the persistence model from a domain PricingRule entity.
func (m *PricingRuleModel) FromDomain(r *pricing.PricingRule) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.Name = r.Name
	m.Priority = r.Priority
	m.IsEnabled = r.IsEnabled
	m.Action = r.Action
	m.Percent = r.Percent
	m.OriginZone = r.Conditions.OriginZone
	m.DestinationZone = r.Conditions.DestinationZone
	m.MinWeightKg = r.Conditions.MinWeightKg
	m.DangerousGoods = r.Conditions.DangerousGoods
}

// PricingRuleModelFromDomain creates a new persistence model from a domain PricingRule.
func PricingRuleModelFromDomain(r *pricing.PricingRule) *PricingRuleModel {
	m := &PricingRuleModel{}
	m.FromDomain(r)
	return m
}
