package partner

import (
	"strings"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// Address is a postal address owned by a partner. The role flags are not
// mutually exclusive: one address can be both billing and shipping.
type Address struct {
	shared.BaseEntity
	PartnerID      uuid.UUID
	Label          string
	Street         string
	Street2        string
	City           string
	PostalCode     string
	Region         string
	Country        string // ISO 3166-1 alpha-2
	IsHeadquarters bool
	IsBilling      bool
	IsShipping     bool
	IsOperational  bool
}

// NewAddress creates a new address
func NewAddress(street, city, postalCode, country string) Address {
	return Address{
		BaseEntity: shared.NewBaseEntity(),
		Street:     strings.TrimSpace(street),
		City:       strings.TrimSpace(city),
		PostalCode: strings.TrimSpace(postalCode),
		Country:    strings.ToUpper(strings.TrimSpace(country)),
	}
}

// Validate checks the address fields
func (a Address) Validate() error {
	if strings.TrimSpace(a.Street) == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Street cannot be empty")
	}
	if strings.TrimSpace(a.City) == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "City cannot be empty")
	}
	if len(a.Country) != 2 {
		return shared.NewDomainError("INVALID_ADDRESS", "Country must be a two-letter ISO code")
	}
	return nil
}
