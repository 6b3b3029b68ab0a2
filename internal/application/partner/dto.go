package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tms/backend/internal/domain/partner"
)

// PartnerDTO is the partner representation returned to the interface layer
type PartnerDTO struct {
	ID           uuid.UUID     `json:"id"`
	Code         string        `json:"code"`
	Name         string        `json:"name"`
	LegalName    string        `json:"legal_name,omitempty"`
	Type         string        `json:"type"`
	Status       string        `json:"status"`
	VATNumber    string        `json:"vat_number,omitempty"`
	EORINumber   string        `json:"eori_number,omitempty"`
	Currency     string        `json:"currency"`
	PaymentTerms int           `json:"payment_terms"`
	Notes        string        `json:"notes,omitempty"`
	Version      int           `json:"version"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Addresses    []AddressDTO  `json:"addresses,omitempty"`
	Contacts     []ContactDTO  `json:"contacts,omitempty"`
	Sites        []SiteDTO     `json:"sites,omitempty"`
	Vehicles     []VehicleDTO  `json:"vehicles,omitempty"`
	Drivers      []DriverDTO   `json:"drivers,omitempty"`
	Documents    []DocumentDTO `json:"documents,omitempty"`
}

// AddressDTO is the address representation
type AddressDTO struct {
	ID             uuid.UUID `json:"id"`
	Label          string    `json:"label,omitempty"`
	Street         string    `json:"street"`
	Street2        string    `json:"street2,omitempty"`
	City           string    `json:"city"`
	PostalCode     string    `json:"postal_code"`
	Region         string    `json:"region,omitempty"`
	Country        string    `json:"country"`
	IsHeadquarters bool      `json:"is_headquarters"`
	IsBilling      bool      `json:"is_billing"`
	IsShipping     bool      `json:"is_shipping"`
	IsOperational  bool      `json:"is_operational"`
}

// ContactDTO is the contact representation
type ContactDTO struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Mobile    string    `json:"mobile,omitempty"`
	IsPrimary bool      `json:"is_primary"`
}

// SiteDTO is the site representation
type SiteDTO struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Street       string    `json:"street,omitempty"`
	City         string    `json:"city,omitempty"`
	PostalCode   string    `json:"postal_code,omitempty"`
	Country      string    `json:"country,omitempty"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	OpeningHours string    `json:"opening_hours,omitempty"`
	IsActive     bool      `json:"is_active"`
}

// VehicleDTO is the vehicle representation
type VehicleDTO struct {
	ID             uuid.UUID       `json:"id"`
	LicensePlate   string          `json:"license_plate"`
	Type           string          `json:"type"`
	Make           string          `json:"make,omitempty"`
	Model          string          `json:"model,omitempty"`
	MaxWeightKg    decimal.Decimal `json:"max_weight_kg"`
	MaxVolumeM3    decimal.Decimal `json:"max_volume_m3"`
	HasTailLift    bool            `json:"has_tail_lift"`
	HasRefrigerate bool            `json:"has_refrigerate"`
	ADRCertified   bool            `json:"adr_certified"`
	IsActive       bool            `json:"is_active"`
}

// DriverDTO is the driver representation
type DriverDTO struct {
	ID               uuid.UUID  `json:"id"`
	FirstName        string     `json:"first_name,omitempty"`
	LastName         string     `json:"last_name"`
	LicenseNumber    string     `json:"license_number"`
	LicenseClasses   string     `json:"license_classes,omitempty"`
	LicenseExpiresAt *time.Time `json:"license_expires_at,omitempty"`
	ADRCertified     bool       `json:"adr_certified"`
	ADRExpiresAt     *time.Time `json:"adr_expires_at,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	IsActive         bool       `json:"is_active"`
}

// DocumentDTO is the partner document representation
type DocumentDTO struct {
	ID          uuid.UUID  `json:"id"`
	Type        string     `json:"type"`
	Name        string     `json:"name"`
	StorageKey  string     `json:"storage_key"`
	ContentType string     `json:"content_type,omitempty"`
	SizeBytes   int64      `json:"size_bytes"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

func toPartnerDTO(p *partner.Partner) *PartnerDTO {
	dto := &PartnerDTO{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		LegalName:    p.LegalName,
		Type:         string(p.Type),
		Status:       string(p.Status),
		VATNumber:    p.VATNumber,
		EORINumber:   p.EORINumber,
		Currency:     string(p.Currency),
		PaymentTerms: p.PaymentTerms,
		Notes:        p.Notes,
		Version:      p.Version,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	for _, a := range p.Addresses {
		dto.Addresses = append(dto.Addresses, AddressDTO{
			ID: a.ID, Label: a.Label, Street: a.Street, Street2: a.Street2,
			City: a.City, PostalCode: a.PostalCode, Region: a.Region, Country: a.Country,
			IsHeadquarters: a.IsHeadquarters, IsBilling: a.IsBilling,
			IsShipping: a.IsShipping, IsOperational: a.IsOperational,
		})
	}
	for _, c := range p.Contacts {
		dto.Contacts = append(dto.Contacts, ContactDTO{
			ID: c.ID, FirstName: c.FirstName, LastName: c.LastName, Role: c.Role,
			Email: c.Email, Phone: c.Phone, Mobile: c.Mobile, IsPrimary: c.IsPrimary,
		})
	}
	for _, s := range p.Sites {
		dto.Sites = append(dto.Sites, SiteDTO{
			ID: s.ID, Code: s.Code, Name: s.Name, Type: string(s.Type),
			Street: s.Street, City: s.City, PostalCode: s.PostalCode, Country: s.Country,
			Latitude: s.Latitude, Longitude: s.Longitude,
			OpeningHours: s.OpeningHours, IsActive: s.IsActive,
		})
	}
	for _, v := range p.Vehicles {
		dto.Vehicles = append(dto.Vehicles, VehicleDTO{
			ID: v.ID, LicensePlate: v.LicensePlate, Type: string(v.Type),
			Make: v.Make, Model: v.Model,
			MaxWeightKg: v.MaxWeightKg, MaxVolumeM3: v.MaxVolumeM3,
			HasTailLift: v.HasTailLift, HasRefrigerate: v.HasRefrigerate,
			ADRCertified: v.ADRCertified, IsActive: v.IsActive,
		})
	}
	for _, d := range p.Drivers {
		dto.Drivers = append(dto.Drivers, DriverDTO{
			ID: d.ID, FirstName: d.FirstName, LastName: d.LastName,
			LicenseNumber: d.LicenseNumber, LicenseClasses: d.LicenseClasses,
			LicenseExpiresAt: d.LicenseExpiresAt,
			ADRCertified:     d.ADRCertified, ADRExpiresAt: d.ADRExpiresAt,
			Phone: d.Phone, IsActive: d.IsActive,
		})
	}
	for _, d := range p.Documents {
		dto.Documents = append(dto.Documents, DocumentDTO{
			ID: d.ID, Type: string(d.Type), Name: d.Name, StorageKey: d.StorageKey,
			ContentType: d.ContentType, SizeBytes: d.SizeBytes, ExpiresAt: d.ExpiresAt,
		})
	}
	return dto
}
