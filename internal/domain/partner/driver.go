package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// Driver is a person employed by a carrier partner to operate vehicles
type Driver struct {
	shared.BaseEntity
	PartnerID        uuid.UUID
	FirstName        string
	LastName         string
	LicenseNumber    string
	LicenseClasses   string // Comma-separated, e.g. "C,CE"
	LicenseExpiresAt *time.Time
	ADRCertified     bool
	ADRExpiresAt     *time.Time
	Phone            string
	IsActive         bool
}

// NewDriver creates a new active driver
func NewDriver(firstName, lastName, licenseNumber string) Driver {
	return Driver{
		BaseEntity:    shared.NewBaseEntity(),
		FirstName:     strings.TrimSpace(firstName),
		LastName:      strings.TrimSpace(lastName),
		LicenseNumber: strings.ToUpper(strings.TrimSpace(licenseNumber)),
		IsActive:      true,
	}
}

// Validate checks the driver fields
func (d Driver) Validate() error {
	if strings.TrimSpace(d.LastName) == "" {
		return shared.NewDomainError("INVALID_DRIVER", "Last name cannot be empty")
	}
	if strings.TrimSpace(d.LicenseNumber) == "" {
		return shared.NewDomainError("INVALID_DRIVER", "License number cannot be empty")
	}
	if d.ADRCertified && d.ADRExpiresAt == nil {
		return shared.NewDomainError("INVALID_DRIVER", "ADR certification requires an expiry date")
	}
	return nil
}

// CanTransportDangerousGoods returns true if the driver holds a valid ADR certificate
func (d Driver) CanTransportDangerousGoods(at time.Time) bool {
	return d.ADRCertified && d.ADRExpiresAt != nil && d.ADRExpiresAt.After(at)
}
