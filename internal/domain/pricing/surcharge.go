package pricing

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/shared/valueobject"
)

// SurchargeType identifies the charge being added on top of the base freight
type SurchargeType string

const (
	SurchargeFuel           SurchargeType = "fuel"
	SurchargeToll           SurchargeType = "toll"
	SurchargeDangerousGoods SurchargeType = "dangerous_goods"
	SurchargeWaitingTime    SurchargeType = "waiting_time"
	SurchargeCustoms        SurchargeType = "customs"
	SurchargeOther          SurchargeType = "other"
)

// IsValid returns true for a known surcharge type
func (t SurchargeType) IsValid() bool {
	switch t {
	case SurchargeFuel, SurchargeToll, SurchargeDangerousGoods,
		SurchargeWaitingTime, SurchargeCustoms, SurchargeOther:
		return true
	}
	return false
}

// SurchargeCalculation determines how the surcharge amount is derived
type SurchargeCalculation string

const (
	SurchargePercent SurchargeCalculation = "percent" // Percentage of the base freight
	SurchargeFixed   SurchargeCalculation = "fixed"   // Flat amount per shipment
)

// IsValid returns true for a known calculation kind
func (c SurchargeCalculation) IsValid() bool {
	return c == SurchargePercent || c == SurchargeFixed
}

// Surcharge is an additional charge defined on a contract
type Surcharge struct {
	shared.BaseEntity
	ContractID  uuid.UUID
	Type        SurchargeType
	Calculation SurchargeCalculation
	Percent     decimal.Decimal // Used when Calculation is percent
	FixedAmount valueobject.Money
	Description string
}

// NewPercentSurcharge creates a percentage surcharge
func NewPercentSurcharge(surchargeType SurchargeType, percent decimal.Decimal) Surcharge {
	return Surcharge{
		BaseEntity:  shared.NewBaseEntity(),
		Type:        surchargeType,
		Calculation: SurchargePercent,
		Percent:     percent,
		FixedAmount: valueobject.ZeroEUR(),
	}
}

// NewFixedSurcharge creates a flat surcharge
func NewFixedSurcharge(surchargeType SurchargeType, amount valueobject.Money) Surcharge {
	return Surcharge{
		BaseEntity:  shared.NewBaseEntity(),
		Type:        surchargeType,
		Calculation: SurchargeFixed,
		FixedAmount: amount,
	}
}

// Validate checks the surcharge fields
func (s Surcharge) Validate() error {
	if !s.Type.IsValid() {
		return shared.NewDomainError("INVALID_SURCHARGE", "Unknown surcharge type")
	}
	if !s.Calculation.IsValid() {
		return shared.NewDomainError("INVALID_SURCHARGE", "Unknown surcharge calculation")
	}
	if s.Calculation == SurchargePercent && !s.Percent.IsPositive() {
		return shared.NewDomainError("INVALID_SURCHARGE", "Percent surcharge requires a positive percentage")
	}
	if s.Calculation == SurchargeFixed && !s.FixedAmount.IsPositive() {
		return shared.NewDomainError("INVALID_SURCHARGE", "Fixed surcharge requires a positive amount")
	}
	if s.Type == SurchargeOther && strings.TrimSpace(s.Description) == "" {
		return shared.NewDomainError("INVALID_SURCHARGE", "Other surcharges require a description")
	}
	return nil
}

// Apply computes the surcharge amount for a base freight charge
func (s Surcharge) Apply(base valueobject.Money) valueobject.Money {
	if s.Calculation == SurchargePercent {
		return base.CalculatePercentage(s.Percent).Round(2)
	}
	return s.FixedAmount
}
