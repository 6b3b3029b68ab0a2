package partner

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/shared"
)

// VehicleType classifies a carrier vehicle
type VehicleType string

const (
	VehicleTypeTruck       VehicleType = "truck"
	VehicleTypeVan         VehicleType = "van"
	VehicleTypeTrailer     VehicleType = "trailer"
	VehicleTypeSemiTrailer VehicleType = "semi_trailer"
	VehicleTypeContainer   VehicleType = "container_chassis"
)

// IsValid returns true for a known vehicle type
func (t VehicleType) IsValid() bool {
	switch t {
	case VehicleTypeTruck, VehicleTypeVan, VehicleTypeTrailer, VehicleTypeSemiTrailer, VehicleTypeContainer:
		return true
	}
	return false
}

// Vehicle is a transport vehicle operated by a carrier partner
type Vehicle struct {
	shared.BaseEntity
	PartnerID      uuid.UUID
	LicensePlate   string
	Type           VehicleType
	Make           string
	Model          string
	MaxWeightKg    decimal.Decimal
	MaxVolumeM3    decimal.Decimal
	HasTailLift    bool
	HasRefrigerate bool
	ADRCertified   bool // Dangerous goods transport
	IsActive       bool
}

// NewVehicle creates a new active vehicle
func NewVehicle(licensePlate string, vehicleType VehicleType) Vehicle {
	return Vehicle{
		BaseEntity:   shared.NewBaseEntity(),
		LicensePlate: strings.ToUpper(strings.TrimSpace(licensePlate)),
		Type:         vehicleType,
		IsActive:     true,
	}
}

// Validate checks the vehicle fields
func (v Vehicle) Validate() error {
	if strings.TrimSpace(v.LicensePlate) == "" {
		return shared.NewDomainError("INVALID_VEHICLE", "License plate cannot be empty")
	}
	if !v.Type.IsValid() {
		return shared.NewDomainError("INVALID_VEHICLE", "Unknown vehicle type")
	}
	if v.MaxWeightKg.IsNegative() || v.MaxVolumeM3.IsNegative() {
		return shared.NewDomainError("INVALID_VEHICLE", "Capacities cannot be negative")
	}
	return nil
}
