package shipment

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/shared"
)

// UnitType classifies a transport unit
type UnitType string

const (
	UnitTypeContainer UnitType = "container"
	UnitTypePallet    UnitType = "pallet"
	UnitTypeTrailer   UnitType = "trailer"
	UnitTypeSwapBody  UnitType = "swap_body"
	UnitTypeBox       UnitType = "box"
)

// IsValid returns true for a known unit type
func (t UnitType) IsValid() bool {
	switch t {
	case UnitTypeContainer, UnitTypePallet, UnitTypeTrailer, UnitTypeSwapBody, UnitTypeBox:
		return true
	}
	return false
}

// TransportUnit is a physical load unit moved by a shipment. Weights are in
// kilograms; gross = tare + net must hold within the recorded values.
type TransportUnit struct {
	shared.BaseEntity
	ShipmentID    uuid.UUID
	Type          UnitType
	Identifier    string // e.g. container number "MSKU 123456-7"
	SealNumber    string
	TareWeightKg  decimal.Decimal
	NetWeightKg   decimal.Decimal
	GrossWeightKg decimal.Decimal
}

// NewTransportUnit creates a new transport unit
func NewTransportUnit(unitType UnitType, identifier string) TransportUnit {
	return TransportUnit{
		BaseEntity: shared.NewBaseEntity(),
		Type:       unitType,
		Identifier: strings.ToUpper(strings.TrimSpace(identifier)),
	}
}

// Validate checks the unit fields
func (u TransportUnit) Validate() error {
	if !u.Type.IsValid() {
		return shared.NewDomainError("INVALID_UNIT", "Unknown transport unit type")
	}
	if strings.TrimSpace(u.Identifier) == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit identifier cannot be empty")
	}
	if u.TareWeightKg.IsNegative() || u.NetWeightKg.IsNegative() || u.GrossWeightKg.IsNegative() {
		return shared.NewDomainError("INVALID_UNIT", "Weights cannot be negative")
	}
	if !u.GrossWeightKg.IsZero() && u.GrossWeightKg.LessThan(u.TareWeightKg) {
		return shared.NewDomainError("INVALID_UNIT", "Gross weight cannot be less than tare weight")
	}
	return nil
}

// SetWeights records the unit's weights, deriving gross when omitted
func (u *TransportUnit) SetWeights(tare, net, gross decimal.Decimal) error {
	if gross.IsZero() {
		gross = tare.Add(net)
	}
	candidate := *u
	candidate.TareWeightKg = tare
	candidate.NetWeightKg = net
	candidate.GrossWeightKg = gross
	if err := candidate.Validate(); err != nil {
		return err
	}
	*u = candidate
	u.Touch()
	return nil
}
