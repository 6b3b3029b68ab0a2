package order

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/shared/valueobject"
)

// OrderLine is a single line of goods on a transport order
type OrderLine struct {
	shared.BaseEntity
	OrderID    uuid.UUID
	LineNumber int
	Description string
	Quantity    int
	PackageType string // e.g. "pallet", "box"; tenant reference data

	WeightValue decimal.Decimal
	WeightUnit  valueobject.WeightUnit
	VolumeValue decimal.Decimal
	VolumeUnit  valueobject.VolumeUnit

	Length        decimal.Decimal
	Width         decimal.Decimal
	Height        decimal.Decimal
	DimensionUnit valueobject.DimensionUnit

	IsDangerousGoods bool
	UNNumber         string // UN number, required for dangerous goods
	DGClass          string // ADR class

	IsCustomsGoods bool
	HSCode         string
	CustomsValue   valueobject.Money
}

// NewOrderLine creates a new order line
func NewOrderLine(description string, quantity int) OrderLine {
	return OrderLine{
		BaseEntity:    shared.NewBaseEntity(),
		Description:   strings.TrimSpace(description),
		Quantity:      quantity,
		WeightUnit:    valueobject.WeightKg,
		VolumeUnit:    valueobject.VolumeM3,
		DimensionUnit: valueobject.DimensionCm,
	}
}

// Validate checks the line fields
func (l OrderLine) Validate() error {
	if strings.TrimSpace(l.Description) == "" {
		return shared.NewDomainError("INVALID_LINE", "Line description cannot be empty")
	}
	if l.Quantity <= 0 {
		return shared.NewDomainError("INVALID_LINE", "Quantity must be positive")
	}
	if !l.WeightUnit.IsValid() {
		return shared.NewDomainError("INVALID_LINE", "Unknown weight unit")
	}
	if !l.VolumeUnit.IsValid() {
		return shared.NewDomainError("INVALID_LINE", "Unknown volume unit")
	}
	if !l.DimensionUnit.IsValid() {
		return shared.NewDomainError("INVALID_LINE", "Unknown dimension unit")
	}
	if l.WeightValue.IsNegative() || l.VolumeValue.IsNegative() {
		return shared.NewDomainError("INVALID_LINE", "Weight and volume cannot be negative")
	}
	if l.IsDangerousGoods && strings.TrimSpace(l.UNNumber) == "" {
		return shared.NewDomainError("INVALID_LINE", "Dangerous goods lines require a UN number")
	}
	if l.IsCustomsGoods && strings.TrimSpace(l.HSCode) == "" {
		return shared.NewDomainError("INVALID_LINE", "Customs goods lines require an HS code")
	}
	return nil
}

// WeightInKg converts the line weight to kilograms
func (l OrderLine) WeightInKg() decimal.Decimal {
	switch l.WeightUnit {
	case valueobject.WeightTon:
		return l.WeightValue.Mul(decimal.NewFromInt(1000))
	case valueobject.WeightLb:
		return l.WeightValue.Mul(decimal.RequireFromString("0.45359237"))
	default:
		return l.WeightValue
	}
}
