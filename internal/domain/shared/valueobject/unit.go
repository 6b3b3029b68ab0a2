package valueobject

// Measurement unit enumerations used on order lines and transport units.
// Each field keeps its own closed type so that, say, a weight unit can never
// be assigned where a volume unit is expected.

// WeightUnit is the unit of a weight measurement
type WeightUnit string

const (
	WeightKg  WeightUnit = "kg"
	WeightTon WeightUnit = "t"
	WeightLb  WeightUnit = "lb"
)

// IsValid returns true for a known weight unit
func (u WeightUnit) IsValid() bool {
	switch u {
	case WeightKg, WeightTon, WeightLb:
		return true
	}
	return false
}

// VolumeUnit is the unit of a volume measurement
type VolumeUnit string

const (
	VolumeM3    VolumeUnit = "m3"
	VolumeLiter VolumeUnit = "l"
	VolumeFt3   VolumeUnit = "ft3"
)

// IsValid returns true for a known volume unit
func (u VolumeUnit) IsValid() bool {
	switch u {
	case VolumeM3, VolumeLiter, VolumeFt3:
		return true
	}
	return false
}

// DimensionUnit is the unit of a linear dimension
type DimensionUnit string

const (
	DimensionCm DimensionUnit = "cm"
	DimensionM  DimensionUnit = "m"
	DimensionIn DimensionUnit = "in"
)

// IsValid returns true for a known dimension unit
func (u DimensionUnit) IsValid() bool {
	switch u {
	case DimensionCm, DimensionM, DimensionIn:
		return true
	}
	return false
}

// DistanceUnit is the unit of a travelled distance
type DistanceUnit string

const (
	DistanceKm DistanceUnit = "km"
	DistanceMi DistanceUnit = "mi"
)

// IsValid returns true for a known distance unit
func (u DistanceUnit) IsValid() bool {
	switch u {
	case DistanceKm, DistanceMi:
		return true
	}
	return false
}
