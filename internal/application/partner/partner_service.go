package partner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tms/backend/internal/domain/partner"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/shared/valueobject"
)

// PartnerService handles the partner master data use cases
type PartnerService struct {
	partnerRepo partner.PartnerRepository
	eventBus    shared.EventBus
	logger      *zap.Logger
}

// NewPartnerService creates a new partner service
func NewPartnerService(partnerRepo partner.PartnerRepository, eventBus shared.EventBus, logger *zap.Logger) *PartnerService {
	return &PartnerService{
		partnerRepo: partnerRepo,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// CreatePartnerInput contains the input for creating a partner
type CreatePartnerInput struct {
	TenantID     uuid.UUID
	Code         string
	Name         string
	LegalName    string
	Type         string
	VATNumber    string
	EORINumber   string
	Currency     string
	PaymentTerms int
	Notes        string
	CreatedBy    uuid.UUID
}

// CreatePartner creates a new partner
func (s *PartnerService) CreatePartner(ctx context.Context, input CreatePartnerInput) (*PartnerDTO, error) {
	if existing, err := s.partnerRepo.FindByCode(ctx, input.TenantID, input.Code); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Partner code is already taken")
	}

	p, err := partner.NewPartner(input.TenantID, input.Code, input.Name, partner.PartnerType(input.Type))
	if err != nil {
		return nil, err
	}
	if input.LegalName != "" || input.VATNumber != "" || input.EORINumber != "" || input.Notes != "" {
		if err := p.Update(input.Name, input.LegalName, input.VATNumber, input.EORINumber, input.Notes); err != nil {
			return nil, err
		}
	}
	if input.Currency != "" {
		if err := p.SetCurrency(valueobject.Currency(input.Currency)); err != nil {
			return nil, err
		}
	}
	if input.PaymentTerms > 0 {
		if err := p.SetPaymentTerms(input.PaymentTerms); err != nil {
			return nil, err
		}
	}
	if input.CreatedBy != uuid.Nil {
		p.SetCreatedBy(input.CreatedBy)
	}

	if err := s.partnerRepo.Save(ctx, p); err != nil {
		s.logger.Error("Failed to create partner", zap.Error(err))
		return nil, err
	}
	s.publishEvents(ctx, p)

	s.logger.Info("Partner created",
		zap.String("partner_id", p.ID.String()),
		zap.String("code", p.Code),
		zap.String("type", string(p.Type)))

	return toPartnerDTO(p), nil
}

// GetPartner fetches a partner by ID within a tenant
func (s *PartnerService) GetPartner(ctx context.Context, tenantID, partnerID uuid.UUID) (*PartnerDTO, error) {
	p, err := s.partnerRepo.FindByIDForTenant(ctx, tenantID, partnerID)
	if err != nil {
		return nil, err
	}
	return toPartnerDTO(p), nil
}

// ListPartners lists a tenant's partners with pagination. When partnerType is
// non-empty the listing is restricted to that type.
func (s *PartnerService) ListPartners(ctx context.Context, tenantID uuid.UUID, partnerType string, filter shared.Filter) (*shared.Paginated[PartnerDTO], error) {
	var (
		partners []partner.Partner
		err      error
	)
	if partnerType != "" {
		pt := partner.PartnerType(partnerType)
		if !pt.IsValid() {
			return nil, shared.NewDomainError("INVALID_PARTNER_TYPE", "Unknown partner type")
		}
		partners, err = s.partnerRepo.FindByType(ctx, tenantID, pt, filter)
	} else {
		partners, err = s.partnerRepo.FindAllForTenant(ctx, tenantID, filter)
	}
	if err != nil {
		return nil, err
	}
	total, err := s.partnerRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]PartnerDTO, len(partners))
	for i := range partners {
		dtos[i] = *toPartnerDTO(&partners[i])
	}
	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdatePartnerInput contains the input for updating a partner
type UpdatePartnerInput struct {
	TenantID     uuid.UUID
	PartnerID    uuid.UUID
	Version      int
	Name         *string
	LegalName    *string
	VATNumber    *string
	EORINumber   *string
	Notes        *string
	Currency     *string
	PaymentTerms *int
}

// UpdatePartner updates a partner's descriptive fields. The update is guarded
// by the aggregate version to detect concurrent edits.
func (s *PartnerService) UpdatePartner(ctx context.Context, input UpdatePartnerInput) (*PartnerDTO, error) {
	p, err := s.partnerRepo.FindByIDForTenant(ctx, input.TenantID, input.PartnerID)
	if err != nil {
		return nil, err
	}

	name := p.Name
	legalName := p.LegalName
	vat := p.VATNumber
	eori := p.EORINumber
	notes := p.Notes
	if input.Name != nil {
		name = *input.Name
	}
	if input.LegalName != nil {
		legalName = *input.LegalName
	}
	if input.VATNumber != nil {
		vat = *input.VATNumber
	}
	if input.EORINumber != nil {
		eori = *input.EORINumber
	}
	if input.Notes != nil {
		notes = *input.Notes
	}
	if err := p.Update(name, legalName, vat, eori, notes); err != nil {
		return nil, err
	}
	if input.Currency != nil {
		if err := p.SetCurrency(valueobject.Currency(*input.Currency)); err != nil {
			return nil, err
		}
	}
	if input.PaymentTerms != nil {
		if err := p.SetPaymentTerms(*input.PaymentTerms); err != nil {
			return nil, err
		}
	}

	if err := s.partnerRepo.SaveWithLock(ctx, p, input.Version); err != nil {
		return nil, err
	}

	return toPartnerDTO(p), nil
}

// ActivatePartner marks a partner active
func (s *PartnerService) ActivatePartner(ctx context.Context, tenantID, partnerID uuid.UUID) error {
	return s.mutate(ctx, tenantID, partnerID, func(p *partner.Partner) error { return p.Activate() })
}

// DeactivatePartner marks a partner inactive
func (s *PartnerService) DeactivatePartner(ctx context.Context, tenantID, partnerID uuid.UUID) error {
	return s.mutate(ctx, tenantID, partnerID, func(p *partner.Partner) error { return p.Deactivate() })
}

// BlockPartner blocks a partner from new business
func (s *PartnerService) BlockPartner(ctx context.Context, tenantID, partnerID uuid.UUID) error {
	return s.mutate(ctx, tenantID, partnerID, func(p *partner.Partner) error { return p.Block() })
}

// DeletePartner removes a partner. Referential integrity in the database
// rejects the delete when orders, shipments, or invoices still reference it.
func (s *PartnerService) DeletePartner(ctx context.Context, tenantID, partnerID uuid.UUID) error {
	if _, err := s.partnerRepo.FindByIDForTenant(ctx, tenantID, partnerID); err != nil {
		return err
	}
	return s.partnerRepo.Delete(ctx, partnerID)
}

// AddAddressInput contains the input for adding an address
type AddAddressInput struct {
	TenantID       uuid.UUID
	PartnerID      uuid.UUID
	Label          string
	Street         string
	Street2        string
	City           string
	PostalCode     string
	Region         string
	Country        string
	IsHeadquarters bool
	IsBilling      bool
	IsShipping     bool
	IsOperational  bool
}

// AddAddress adds an address to a partner
func (s *PartnerService) AddAddress(ctx context.Context, input AddAddressInput) (*PartnerDTO, error) {
	p, err := s.partnerRepo.FindByIDForTenant(ctx, input.TenantID, input.PartnerID)
	if err != nil {
		return nil, err
	}

	addr := partner.NewAddress(input.Street, input.City, input.PostalCode, input.Country)
	addr.Label = input.Label
	addr.Street2 = input.Street2
	addr.Region = input.Region
	addr.IsHeadquarters = input.IsHeadquarters
	addr.IsBilling = input.IsBilling
	addr.IsShipping = input.IsShipping
	addr.IsOperational = input.IsOperational

	if err := p.AddAddress(addr); err != nil {
		return nil, err
	}
	if err := s.partnerRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	return toPartnerDTO(p), nil
}

// RemoveAddress removes an address from a partner
func (s *PartnerService) RemoveAddress(ctx context.Context, tenantID, partnerID, addressID uuid.UUID) error {
	return s.mutate(ctx, tenantID, partnerID, func(p *partner.Partner) error {
		return p.RemoveAddress(addressID)
	})
}

// AddContactInput contains the input for adding a contact
type AddContactInput struct {
	TenantID  uuid.UUID
	PartnerID uuid.UUID
	FirstName string
	LastName  string
	Role      string
	Email     string
	Phone     string
	Mobile    string
	IsPrimary bool
}

// AddContact adds a contact to a partner
func (s *PartnerService) AddContact(ctx context.Context, input AddContactInput) (*PartnerDTO, error) {
	p, err := s.partnerRepo.FindByIDForTenant(ctx, input.TenantID, input.PartnerID)
	if err != nil {
		return nil, err
	}

	contact := partner.NewContact(input.FirstName, input.LastName, input.Email)
	contact.Role = input.Role
	contact.Phone = input.Phone
	contact.Mobile = input.Mobile
	contact.IsPrimary = input.IsPrimary

	if err := p.AddContact(contact); err != nil {
		return nil, err
	}
	if err := s.partnerRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	return toPartnerDTO(p), nil
}

// SetPrimaryContact promotes a contact to primary
func (s *PartnerService) SetPrimaryContact(ctx context.Context, tenantID, partnerID, contactID uuid.UUID) error {
	return s.mutate(ctx, tenantID, partnerID, func(p *partner.Partner) error {
		return p.SetPrimaryContact(contactID)
	})
}

// RemoveContact removes a contact from a partner
func (s *PartnerService) RemoveContact(ctx context.Context, tenantID, partnerID, contactID uuid.UUID) error {
	return s.mutate(ctx, tenantID, partnerID, func(p *partner.Partner) error {
		return p.RemoveContact(contactID)
	})
}

// AddSiteInput contains the input for adding an operating site
type AddSiteInput struct {
	TenantID     uuid.UUID
	PartnerID    uuid.UUID
	Code         string
	Name         string
	Type         string
	Street       string
	City         string
	PostalCode   string
	Country      string
	Latitude     *float64
	Longitude    *float64
	OpeningHours string
}

// AddSite adds an operating site to a partner
func (s *PartnerService) AddSite(ctx context.Context, input AddSiteInput) (*PartnerDTO, error) {
	p, err := s.partnerRepo.FindByIDForTenant(ctx, input.TenantID, input.PartnerID)
	if err != nil {
		return nil, err
	}

	site := partner.NewSite(input.Code, input.Name, partner.SiteType(input.Type))
	site.Street = input.Street
	site.City = input.City
	site.PostalCode = input.PostalCode
	site.Country = input.Country
	site.Latitude = input.Latitude
	site.Longitude = input.Longitude
	site.OpeningHours = input.OpeningHours

	if err := p.AddSite(site); err != nil {
		return nil, err
	}
	if err := s.partnerRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	return toPartnerDTO(p), nil
}

// RemoveSite removes a site from a partner
func (s *PartnerService) RemoveSite(ctx context.Context, tenantID, partnerID, siteID uuid.UUID) error {
	return s.mutate(ctx, tenantID, partnerID, func(p *partner.Partner) error {
		return p.RemoveSite(siteID)
	})
}

// AddVehicleInput contains the input for registering a vehicle
type AddVehicleInput struct {
	TenantID       uuid.UUID
	PartnerID      uuid.UUID
	LicensePlate   string
	Type           string
	Make           string
	Model          string
	MaxWeightKg    decimal.Decimal
	MaxVolumeM3    decimal.Decimal
	HasTailLift    bool
	HasRefrigerate bool
	ADRCertified   bool
}

// AddVehicle registers a vehicle with a carrier partner
func (s *PartnerService) AddVehicle(ctx context.Context, input AddVehicleInput) (*PartnerDTO, error) {
	p, err := s.partnerRepo.FindByIDForTenant(ctx, input.TenantID, input.PartnerID)
	if err != nil {
		return nil, err
	}

	vehicle := partner.NewVehicle(input.LicensePlate, partner.VehicleType(input.Type))
	vehicle.Make = input.Make
	vehicle.Model = input.Model
	vehicle.MaxWeightKg = input.MaxWeightKg
	vehicle.MaxVolumeM3 = input.MaxVolumeM3
	vehicle.HasTailLift = input.HasTailLift
	vehicle.HasRefrigerate = input.HasRefrigerate
	vehicle.ADRCertified = input.ADRCertified

	if err := p.AddVehicle(vehicle); err != nil {
		return nil, err
	}
	if err := s.partnerRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	return toPartnerDTO(p), nil
}

// RemoveVehicle removes a vehicle from a carrier partner
func (s *PartnerService) RemoveVehicle(ctx context.Context, tenantID, partnerID, vehicleID uuid.UUID) error {
	return s.mutate(ctx, tenantID, partnerID, func(p *partner.Partner) error {
		return p.RemoveVehicle(vehicleID)
	})
}

// AddDriverInput contains the input for registering a driver
type AddDriverInput struct {
	TenantID         uuid.UUID
	PartnerID        uuid.UUID
	FirstName        string
	LastName         string
	LicenseNumber    string
	LicenseClasses   string
	LicenseExpiresAt *time.Time
	ADRCertified     bool
	ADRExpiresAt     *time.Time
	Phone            string
}

// AddDriver registers a driver with a carrier partner
func (s *PartnerService) AddDriver(ctx context.Context, input AddDriverInput) (*PartnerDTO, error) {
	p, err := s.partnerRepo.FindByIDForTenant(ctx, input.TenantID, input.PartnerID)
	if err != nil {
		return nil, err
	}

	driver := partner.NewDriver(input.FirstName, input.LastName, input.LicenseNumber)
	driver.LicenseClasses = input.LicenseClasses
	driver.LicenseExpiresAt = input.LicenseExpiresAt
	driver.ADRCertified = input.ADRCertified
	driver.ADRExpiresAt = input.ADRExpiresAt
	driver.Phone = input.Phone

	if err := p.AddDriver(driver); err != nil {
		return nil, err
	}
	if err := s.partnerRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	return toPartnerDTO(p), nil
}

// RemoveDriver removes a driver from a carrier partner
func (s *PartnerService) RemoveDriver(ctx context.Context, tenantID, partnerID, driverID uuid.UUID) error {
	return s.mutate(ctx, tenantID, partnerID, func(p *partner.Partner) error {
		return p.RemoveDriver(driverID)
	})
}

// AttachDocumentInput contains the input for attaching a document record.
// The file itself was already uploaded to object storage.
type AttachDocumentInput struct {
	TenantID    uuid.UUID
	PartnerID   uuid.UUID
	Type        string
	Name        string
	StorageKey  string
	ContentType string
	SizeBytes   int64
	ExpiresAt   *time.Time
}

// AttachDocument attaches a document record to a partner
func (s *PartnerService) AttachDocument(ctx context.Context, input AttachDocumentInput) (*PartnerDTO, error) {
	p, err := s.partnerRepo.FindByIDForTenant(ctx, input.TenantID, input.PartnerID)
	if err != nil {
		return nil, err
	}

	doc := partner.NewDocument(partner.DocumentType(input.Type), input.Name, input.StorageKey)
	doc.ContentType = input.ContentType
	doc.SizeBytes = input.SizeBytes
	doc.ExpiresAt = input.ExpiresAt

	if err := p.AttachDocument(doc); err != nil {
		return nil, err
	}
	if err := s.partnerRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	return toPartnerDTO(p), nil
}

// RemoveDocument removes a document record from a partner
func (s *PartnerService) RemoveDocument(ctx context.Context, tenantID, partnerID, documentID uuid.UUID) error {
	return s.mutate(ctx, tenantID, partnerID, func(p *partner.Partner) error {
		return p.RemoveDocument(documentID)
	})
}

func (s *PartnerService) mutate(ctx context.Context, tenantID, partnerID uuid.UUID, fn func(*partner.Partner) error) error {
	p, err := s.partnerRepo.FindByIDForTenant(ctx, tenantID, partnerID)
	if err != nil {
		return err
	}
	if err := fn(p); err != nil {
		return err
	}
	if err := s.partnerRepo.Save(ctx, p); err != nil {
		return err
	}
	s.publishEvents(ctx, p)
	return nil
}

func (s *PartnerService) publishEvents(ctx context.Context, p *partner.Partner) {
	if s.eventBus == nil {
		return
	}
	events := p.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
	p.ClearDomainEvents()
}
