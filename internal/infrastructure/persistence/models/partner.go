package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tms/backend/internal/domain/partner"
	"github.com/tms/backend/internal/domain/shared/valueobject"
)

// PartnerModel is the persistence model for the Partner aggregate root.
type PartnerModel struct {
	TenantAggregateModel
	Code         string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_partner_tenant_code,priority:2"`
	Name         string               `gorm:"type:varchar(200);not null"`
	LegalName    string               `gorm:"type:varchar(200)"`
	Type         partner.PartnerType  `gorm:"type:partner_type;not null;index"`
	Status       partner.PartnerStatus `gorm:"type:partner_status;not null;default:'active';index"`
	VATNumber    string               `gorm:"type:varchar(50)"`
	EORINumber   string               `gorm:"type:varchar(50)"`
	Currency     valueobject.Currency `gorm:"type:varchar(3);not null;default:'EUR'"`
	PaymentTerms int                  `gorm:"not null;default:30"`
	Notes        string               `gorm:"type:text"`

	Addresses []AddressModel         `gorm:"foreignKey:PartnerID;references:ID;constraint:OnDelete:CASCADE"`
	Contacts  []ContactModel         `gorm:"foreignKey:PartnerID;references:ID;constraint:OnDelete:CASCADE"`
	Sites     []SiteModel            `gorm:"foreignKey:PartnerID;references:ID;constraint:OnDelete:CASCADE"`
	Vehicles  []VehicleModel         `gorm:"foreignKey:PartnerID;references:ID;constraint:OnDelete:CASCADE"`
	Drivers   []DriverModel          `gorm:"foreignKey:PartnerID;references:ID;constraint:OnDelete:CASCADE"`
	Documents []PartnerDocumentModel `gorm:"foreignKey:PartnerID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (PartnerModel) TableName() string {
	return "partners"
}

// AddressModel is the persistence model for a partner address.
type AddressModel struct {
	BaseModel
	PartnerID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Label          string    `gorm:"type:varchar(100)"`
	Street         string    `gorm:"type:varchar(200);not null"`
	Street2        string    `gorm:"type:varchar(200)"`
	City           string    `gorm:"type:varchar(100);not null"`
	PostalCode     string    `gorm:"type:varchar(20);not null"`
	Region         string    `gorm:"type:varchar(100)"`
	Country        string    `gorm:"type:char(2);not null"`
	IsHeadquarters bool      `gorm:"not null;default:false"`
	IsBilling      bool      `gorm:"not null;default:false"`
	IsShipping     bool      `gorm:"not null;default:false"`
	IsOperational  bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (AddressModel) TableName() string {
	return "partner_addresses"
}

// ContactModel is the persistence model for a partner contact.
type ContactModel struct {
	BaseModel
	PartnerID uuid.UUID `gorm:"type:uuid;not null;index"`
	FirstName string    `gorm:"type:varchar(100);not null"`
	LastName  string    `gorm:"type:varchar(100);not null"`
	Role      string    `gorm:"type:varchar(100)"`
	Email     string    `gorm:"type:varchar(200)"`
	Phone     string    `gorm:"type:varchar(50)"`
	Mobile    string    `gorm:"type:varchar(50)"`
	IsPrimary bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "partner_contacts"
}

// SiteModel is the persistence model for a partner site.
type SiteModel struct {
	BaseModel
	PartnerID    uuid.UUID        `gorm:"type:uuid;not null;index"`
	Code         string           `gorm:"type:varchar(50);not null"`
	Name         string           `gorm:"type:varchar(200);not null"`
	Type         partner.SiteType `gorm:"type:site_type;not null"`
	Street       string           `gorm:"type:varchar(200)"`
	City         string           `gorm:"type:varchar(100)"`
	PostalCode   string           `gorm:"type:varchar(20)"`
	Country      string           `gorm:"type:char(2)"`
	Latitude     *float64
	Longitude    *float64
	OpeningHours string `gorm:"type:varchar(200)"`
	IsActive     bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (SiteModel) TableName() string {
	return "partner_sites"
}

// VehicleModel is the persistence model for a partner vehicle.
type VehicleModel struct {
	BaseModel
	PartnerID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	LicensePlate   string              `gorm:"type:varchar(20);not null"`
	Type           partner.VehicleType `gorm:"type:vehicle_type;not null"`
	Make           string              `gorm:"type:varchar(100)"`
	Model          string              `gorm:"type:varchar(100)"`
	MaxWeightKg    decimal.Decimal     `gorm:"type:decimal(12,3);not null;default:0"`
	MaxVolumeM3    decimal.Decimal     `gorm:"type:decimal(12,3);not null;default:0"`
	HasTailLift    bool                `gorm:"not null;default:false"`
	HasRefrigerate bool                `gorm:"not null;default:false"`
	ADRCertified   bool                `gorm:"not null;default:false"`
	IsActive       bool                `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (VehicleModel) TableName() string {
	return "partner_vehicles"
}

// DriverModel is the persistence model for a partner driver.
type DriverModel struct {
	BaseModel
	PartnerID        uuid.UUID `gorm:"type:uuid;not null;index"`
	FirstName        string    `gorm:"type:varchar(100);not null"`
	LastName         string    `gorm:"type:varchar(100);not null"`
	LicenseNumber    string    `gorm:"type:varchar(50);not null"`
	LicenseClasses   string    `gorm:"type:varchar(50)"`
	LicenseExpiresAt *time.Time
	ADRCertified     bool `gorm:"not null;default:false"`
	ADRExpiresAt     *time.Time
	Phone            string `gorm:"type:varchar(50)"`
	IsActive         bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (DriverModel) TableName() string {
	return "partner_drivers"
}

// PartnerDocumentModel is the persistence model for a partner document.
type PartnerDocumentModel struct {
	BaseModel
	PartnerID   uuid.UUID            `gorm:"type:uuid;not null;index"`
	Type        partner.DocumentType `gorm:"type:partner_document_type;not null"`
	Name        string               `gorm:"type:varchar(255);not null"`
	StorageKey  string               `gorm:"type:varchar(500);not null"`
	ContentType string               `gorm:"type:varchar(100)"`
	SizeBytes   int64                `gorm:"not null;default:0"`
	ExpiresAt   *time.Time           `gorm:"index"`
}

// TableName returns the table name for GORM
func (PartnerDocumentModel) TableName() string {
	return "partner_documents"
}

// ToDomain converts the persistence model to a domain Partner entity.
func (m *PartnerModel) ToDomain() *partner.Partner {
	p := &partner.Partner{
		Code:         m.Code,
		Name:         m.Name,
		LegalName:    m.LegalName,
		Type:         m.Type,
		Status:       m.Status,
		VATNumber:    m.VATNumber,
		EORINumber:   m.EORINumber,
		Currency:     m.Currency,
		PaymentTerms: m.PaymentTerms,
		Notes:        m.Notes,
	}
	m.PopulateTenantAggregateRoot(&p.TenantAggregateRoot)

	p.Addresses = make([]partner.Address, len(m.Addresses))
	for i := range m.Addresses {
		p.Addresses[i] = m.Addresses[i].ToDomain()
	}
	p.Contacts = make([]partner.Contact, len(m.Contacts))
	for i := range m.Contacts {
		p.Contacts[i] = m.Contacts[i].ToDomain()
	}
	p.Sites = make([]partner.Site, len(m.Sites))
	for i := range m.Sites {
		p.Sites[i] = m.Sites[i].ToDomain()
	}
	p.Vehicles = make([]partner.Vehicle, len(m.Vehicles))
	for i := range m.Vehicles {
		p.Vehicles[i] = m.Vehicles[i].ToDomain()
	}
	p.Drivers = make([]partner.Driver, len(m.Drivers))
	for i := range m.Drivers {
		p.Drivers[i] = m.Drivers[i].ToDomain()
	}
	p.Documents = make([]partner.Document, len(m.Documents))
	for i := range m.Documents {
		p.Documents[i] = m.Documents[i].ToDomain()
	}
	return p
}

// FromDomain populates the persistence model from a domain Partner entity.
func (m *PartnerModel) FromDomain(p *partner.Partner) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Code = p.Code
	m.Name = p.Name
	m.LegalName = p.LegalName
	m.Type = p.Type
	m.Status = p.Status
	m.VATNumber = p.VATNumber
	m.EORINumber = p.EORINumber
	m.Currency = p.Currency
	m.PaymentTerms = p.PaymentTerms
	m.Notes = p.Notes

	m.Addresses = make([]AddressModel, len(p.Addresses))
	for i := range p.Addresses {
		m.Addresses[i].FromDomain(&p.Addresses[i])
	}
	m.Contacts = make([]ContactModel, len(p.Contacts))
	for i := range p.Contacts {
		m.Contacts[i].FromDomain(&p.Contacts[i])
	}
	m.Sites = make([]SiteModel, len(p.Sites))
	for i := range p.Sites {
		m.Sites[i].FromDomain(&p.Sites[i])
	}
	m.Vehicles = make([]VehicleModel, len(p.Vehicles))
	for i := range p.Vehicles {
		m.Vehicles[i].FromDomain(&p.Vehicles[i])
	}
	m.Drivers = make([]DriverModel, len(p.Drivers))
	for i := range p.Drivers {
		m.Drivers[i].FromDomain(&p.Drivers[i])
	}
	m.Documents = make([]PartnerDocumentModel, len(p.Documents))
	for i := range p.Documents {
		m.Documents[i].FromDomain(&p.Documents[i])
	}
}

// PartnerModelFromDomain creates a new persistence model from a domain Partner.
func PartnerModelFromDomain(p *partner.Partner) *PartnerModel {
	m := &PartnerModel{}
	m.FromDomain(p)
	return m
}

// ToDomain converts the persistence model to a domain Address.
func (m *AddressModel) ToDomain() partner.Address {
	return partner.Address{
		BaseEntity:     m.BaseModel.ToDomain(),
		PartnerID:      m.PartnerID,
		Label:          m.Label,
		Street:         m.Street,
		Street2:        m.Street2,
		City:           m.City,
		PostalCode:     m.PostalCode,
		Region:         m.Region,
		Country:        m.Country,
		IsHeadquarters: m.IsHeadquarters,
		IsBilling:      m.IsBilling,
		IsShipping:     m.IsShipping,
		IsOperational:  m.IsOperational,
	}
}

// FromDomain populates the persistence model from a domain Address.
func (m *AddressModel) FromDomain(a *partner.Address) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.PartnerID = a.PartnerID
	m.Label = a.Label
	m.Street = a.Street
	m.Street2 = a.Street2
	m.City = a.City
	m.PostalCode = a.PostalCode
	m.Region = a.Region
	m.Country = a.Country
	m.IsHeadquarters = a.IsHeadquarters
	m.IsBilling = a.IsBilling
	m.IsShipping = a.IsShipping
	m.IsOperational = a.IsOperational
}

// ToDomain converts the persistence model to a domain Contact.
func (m *ContactModel) ToDomain() partner.Contact {
	return partner.Contact{
		BaseEntity: m.BaseModel.ToDomain(),
		PartnerID:  m.PartnerID,
		FirstName:  m.FirstName,
		LastName:   m.LastName,
		Role:       m.Role,
		Email:      m.Email,
		Phone:      m.Phone,
		Mobile:     m.Mobile,
		IsPrimary:  m.IsPrimary,
	}
}

// FromDomain populates the persistence model from a domain Contact.
func (m *ContactModel) FromDomain(c *partner.Contact) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.PartnerID = c.PartnerID
	m.FirstName = c.FirstName
	m.LastName = c.LastName
	m.Role = c.Role
	m.Email = c.Email
	m.Phone = c.Phone
	m.Mobile = c.Mobile
	m.IsPrimary = c.IsPrimary
}

// ToDomain converts the persistence model to a domain Site.
func (m *SiteModel) ToDomain() partner.Site {
	return partner.Site{
		BaseEntity:   m.BaseModel.ToDomain(),
		PartnerID:    m.PartnerID,
		Code:         m.Code,
		Name:         m.Name,
		Type:         m.Type,
		Street:       m.Street,
		City:         m.City,
		PostalCode:   m.PostalCode,
		Country:      m.Country,
		Latitude:     m.Latitude,
		Longitude:    m.Longitude,
		OpeningHours: m.OpeningHours,
		IsActive:     m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Site.
func (m *SiteModel) FromDomain(s *partner.Site) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.PartnerID = s.PartnerID
	m.Code = s.Code
	m.Name = s.Name
	m.Type = s.Type
	m.Street = s.Street
	m.City = s.City
	m.PostalCode = s.PostalCode
	m.Country = s.Country
	m.Latitude = s.Latitude
	m.Longitude = s.Longitude
	m.OpeningHours = s.OpeningHours
	m.IsActive = s.IsActive
}

// ToDomain converts the persistence model to a domain Vehicle.
func (m *VehicleModel) ToDomain() partner.Vehicle {
	return partner.Vehicle{
		BaseEntity:     m.BaseModel.ToDomain(),
		PartnerID:      m.PartnerID,
		LicensePlate:   m.LicensePlate,
		Type:           m.Type,
		Make:           m.Make,
		Model:          m.Model,
		MaxWeightKg:    m.MaxWeightKg,
		MaxVolumeM3:    m.MaxVolumeM3,
		HasTailLift:    m.HasTailLift,
		HasRefrigerate: m.HasRefrigerate,
		ADRCertified:   m.ADRCertified,
		IsActive:       m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Vehicle.
func (m *VehicleModel) FromDomain(v *partner.Vehicle) {
	m.FromDomainBaseEntity(v.BaseEntity)
	m.PartnerID = v.PartnerID
	m.LicensePlate = v.LicensePlate
	m.Type = v.Type
	m.Make = v.Make
	m.Model = v.Model
	m.MaxWeightKg = v.MaxWeightKg
	m.MaxVolumeM3 = v.MaxVolumeM3
	m.HasTailLift = v.HasTailLift
	m.HasRefrigerate = v.HasRefrigerate
	m.ADRCertified = v.ADRCertified
	m.IsActive = v.IsActive
}

// ToDomain converts the persistence model to a domain Driver.
func (m *DriverModel) ToDomain() partner.Driver {
	return partner.Driver{
		BaseEntity:       m.BaseModel.ToDomain(),
		PartnerID:        m.PartnerID,
		FirstName:        m.FirstName,
		LastName:         m.LastName,
		LicenseNumber:    m.LicenseNumber,
		LicenseClasses:   m.LicenseClasses,
		LicenseExpiresAt: m.LicenseExpiresAt,
		ADRCertified:     m.ADRCertified,
		ADRExpiresAt:     m.ADRExpiresAt,
		Phone:            m.Phone,
		IsActive:         m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Driver.
func (m *DriverModel) FromDomain(d *partner.Driver) {
	m.FromDomainBaseEntity(d.BaseEntity)
	m.PartnerID = d.PartnerID
	m.FirstName = d.FirstName
	m.LastName = d.LastName
	m.LicenseNumber = d.LicenseNumber
	m.LicenseClasses = d.LicenseClasses
	m.LicenseExpiresAt = d.LicenseExpiresAt
	m.ADRCertified = d.ADRCertified
	m.ADRExpiresAt = d.ADRExpiresAt
	m.Phone = d.Phone
	m.IsActive = d.IsActive
}

// ToDomain converts the persistence model to a domain Document.
func (m *PartnerDocumentModel) ToDomain() partner.Document {
	return partner.Document{
		BaseEntity:  m.BaseModel.ToDomain(),
		PartnerID:   m.PartnerID,
		Type:        m.Type,
		Name:        m.Name,
		StorageKey:  m.StorageKey,
		ContentType: m.ContentType,
		SizeBytes:   m.SizeBytes,
		ExpiresAt:   m.ExpiresAt,
	}
}

// FromDomain populates the persistence model from a domain Document.
func (m *PartnerDocumentModel) FromDomain(d *partner.Document) {
	m.FromDomainBaseEntity(d.BaseEntity)
	m.PartnerID = d.PartnerID
	m.Type = d.Type
	m.Name = d.Name
	m.StorageKey = d.StorageKey
	m.ContentType = d.ContentType
	m.SizeBytes = d.SizeBytes
	m.ExpiresAt = d.ExpiresAt
}
