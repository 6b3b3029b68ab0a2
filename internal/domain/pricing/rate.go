package pricing

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/shared/valueobject"
	"github.com/tms/backend/internal/domain/shipment"
)

// RateBasis determines how a rate is applied to a shipment
type RateBasis string

const (
	RatePerShipment RateBasis = "per_shipment"
	RatePerKg       RateBasis = "per_kg"
	RatePerKm       RateBasis = "per_km"
	RatePerPallet   RateBasis = "per_pallet"
)

// IsValid returns true for a known rate basis
func (b RateBasis) IsValid() bool {
	switch b {
	case RatePerShipment, RatePerKg, RatePerKm, RatePerPallet:
		return true
	}
	return false
}

// Rate prices a lane (origin zone to destination zone) for a transport mode
// within a weight bracket. Brackets are half-open: a shipment matches when
// MinWeightKg <= weight < MaxWeightKg. MaxWeightKg zero means unbounded.
type Rate struct {
	shared.BaseEntity
	ContractID      uuid.UUID
	Mode            shipment.TransportMode
	OriginZone      string // Postal zone prefix, e.g. "DE-2"
	DestinationZone string
	Basis           RateBasis
	MinWeightKg     decimal.Decimal
	MaxWeightKg     decimal.Decimal
	Price           valueobject.Money
	MinimumCharge   valueobject.Money
}

// NewRate creates a rate for a lane
func NewRate(mode shipment.TransportMode, originZone, destinationZone string, basis RateBasis, price valueobject.Money) Rate {
	return Rate{
		BaseEntity:      shared.NewBaseEntity(),
		Mode:            mode,
		OriginZone:      strings.ToUpper(strings.TrimSpace(originZone)),
		DestinationZone: strings.ToUpper(strings.TrimSpace(destinationZone)),
		Basis:           basis,
		Price:           price,
		MinimumCharge:   valueobject.Zero(price.Currency()),
	}
}

// Validate checks the rate fields
func (r Rate) Validate() error {
	if !r.Mode.IsValid() {
		return shared.NewDomainError("INVALID_RATE", "Unknown transport mode")
	}
	if r.OriginZone == "" || r.DestinationZone == "" {
		return shared.NewDomainError("INVALID_RATE", "Origin and destination zones are required")
	}
	if !r.Basis.IsValid() {
		return shared.NewDomainError("INVALID_RATE", "Unknown rate basis")
	}
	if r.Price.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Rate price cannot be negative")
	}
	if r.MinWeightKg.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Weight bracket cannot be negative")
	}
	if !r.MaxWeightKg.IsZero() && r.MaxWeightKg.LessThanOrEqual(r.MinWeightKg) {
		return shared.NewDomainError("INVALID_RATE", "Weight bracket end must be above its start")
	}
	return nil
}

// MatchesWeight reports whether the given weight falls in the bracket
func (r Rate) MatchesWeight(weightKg decimal.Decimal) bool {
	if weightKg.LessThan(r.MinWeightKg) {
		return false
	}
	if r.MaxWeightKg.IsZero() {
		return true
	}
	return weightKg.LessThan(r.MaxWeightKg)
}

// Matches reports whether the rate covers the lane, mode, and weight
func (r Rate) Matches(mode shipment.TransportMode, originZone, destinationZone string, weightKg decimal.Decimal) bool {
	return r.Mode == mode &&
		strings.EqualFold(r.OriginZone, originZone) &&
		strings.EqualFold(r.DestinationZone, destinationZone) &&
		r.MatchesWeight(weightKg)
}

// Charge computes the freight charge for the given quantity in the rate's
// basis unit (kg, km, pallets, or 1 for per-shipment), honoring the minimum
// charge.
func (r Rate) Charge(quantity decimal.Decimal) valueobject.Money {
	charge := r.Price.Multiply(quantity).Round(2)
	if below, err := charge.LessThan(r.MinimumCharge); err == nil && below {
		return r.MinimumCharge
	}
	return charge
}
