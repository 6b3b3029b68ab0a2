package partner

import (
	"strings"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// SiteType classifies a partner operating site
type SiteType string

const (
	SiteTypeWarehouse    SiteType = "warehouse"
	SiteTypeDepot        SiteType = "depot"
	SiteTypeCrossDock    SiteType = "cross_dock"
	SiteTypeOffice       SiteType = "office"
	SiteTypeDistribution SiteType = "distribution_center"
)

// IsValid returns true for a known site type
func (t SiteType) IsValid() bool {
	switch t {
	case SiteTypeWarehouse, SiteTypeDepot, SiteTypeCrossDock, SiteTypeOffice, SiteTypeDistribution:
		return true
	}
	return false
}

// Site is a physical location where a partner operates (loading, unloading,
// cross-docking). Opening hours are free-form text the planner reads.
type Site struct {
	shared.BaseEntity
	PartnerID    uuid.UUID
	Code         string
	Name         string
	Type         SiteType
	Street       string
	City         string
	PostalCode   string
	Country      string
	Latitude     *float64
	Longitude    *float64
	OpeningHours string
	IsActive     bool
}

// NewSite creates a new active site
func NewSite(code, name string, siteType SiteType) Site {
	return Site{
		BaseEntity: shared.NewBaseEntity(),
		Code:       strings.ToUpper(strings.TrimSpace(code)),
		Name:       strings.TrimSpace(name),
		Type:       siteType,
		IsActive:   true,
	}
}

// Validate checks the site fields
func (s Site) Validate() error {
	if strings.TrimSpace(s.Code) == "" {
		return shared.NewDomainError("INVALID_SITE", "Site code cannot be empty")
	}
	if strings.TrimSpace(s.Name) == "" {
		return shared.NewDomainError("INVALID_SITE", "Site name cannot be empty")
	}
	if !s.Type.IsValid() {
		return shared.NewDomainError("INVALID_SITE", "Unknown site type")
	}
	if (s.Latitude == nil) != (s.Longitude == nil) {
		return shared.NewDomainError("INVALID_SITE", "Latitude and longitude must be set together")
	}
	return nil
}
