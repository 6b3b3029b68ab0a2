package partner

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/shared/valueobject"
)

// PartnerType classifies the business relationship with a partner
type PartnerType string

const (
	PartnerTypeCustomer PartnerType = "customer"
	PartnerTypeCarrier  PartnerType = "carrier"
	PartnerTypeSupplier PartnerType = "supplier"
	PartnerTypeAgent    PartnerType = "agent"
	PartnerTypeBroker   PartnerType = "broker"
	PartnerTypeOther    PartnerType = "other"
)

// IsValid returns true for a known partner type
func (t PartnerType) IsValid() bool {
	switch t {
	case PartnerTypeCustomer, PartnerTypeCarrier, PartnerTypeSupplier,
		PartnerTypeAgent, PartnerTypeBroker, PartnerTypeOther:
		return true
	}
	return false
}

// PartnerStatus represents the status of a partner
type PartnerStatus string

const (
	PartnerStatusActive   PartnerStatus = "active"
	PartnerStatusInactive PartnerStatus = "inactive"
	PartnerStatusBlocked  PartnerStatus = "blocked"
)

// IsValid returns true for a known partner status
func (s PartnerStatus) IsValid() bool {
	switch s {
	case PartnerStatusActive, PartnerStatusInactive, PartnerStatusBlocked:
		return true
	}
	return false
}

// Partner is any external business entity the tenant transacts with:
// customers, carriers, suppliers, agents, brokers. It is the aggregate root
// owning addresses, contacts, sites, vehicles, drivers, and documents.
type Partner struct {
	shared.TenantAggregateRoot
	Code         string
	Name         string
	LegalName    string
	Type         PartnerType
	Status       PartnerStatus
	VATNumber    string
	EORINumber   string
	Currency     valueobject.Currency
	PaymentTerms int // Days until payment is due
	Notes        string

	Addresses []Address
	Contacts  []Contact
	Sites     []Site
	Vehicles  []Vehicle
	Drivers   []Driver
	Documents []Document
}

// NewPartner creates a new active partner
func NewPartner(tenantID uuid.UUID, code, name string, partnerType PartnerType) (*Partner, error) {
	if err := validatePartnerCode(code); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PARTNER_NAME", "Partner name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_PARTNER_NAME", "Partner name cannot exceed 200 characters")
	}
	if !partnerType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PARTNER_TYPE", "Unknown partner type")
	}

	p := &Partner{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(strings.TrimSpace(code)),
		Name:                name,
		Type:                partnerType,
		Status:              PartnerStatusActive,
		Currency:            valueobject.DefaultCurrency,
	}

	p.AddDomainEvent(NewPartnerCreatedEvent(p))

	return p, nil
}

// Update changes the partner's descriptive fields
func (p *Partner) Update(name, legalName, vatNumber, eoriNumber, notes string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_PARTNER_NAME", "Partner name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_PARTNER_NAME", "Partner name cannot exceed 200 characters")
	}

	p.Name = name
	p.LegalName = strings.TrimSpace(legalName)
	p.VATNumber = strings.ToUpper(strings.TrimSpace(vatNumber))
	p.EORINumber = strings.ToUpper(strings.TrimSpace(eoriNumber))
	p.Notes = notes
	p.Touch()
	p.IncrementVersion()

	return nil
}

// SetPaymentTerms sets the payment terms in days
func (p *Partner) SetPaymentTerms(days int) error {
	if days < 0 || days > 365 {
		return shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment terms must be between 0 and 365 days")
	}
	p.PaymentTerms = days
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetCurrency sets the partner's default currency
func (p *Partner) SetCurrency(currency valueobject.Currency) error {
	if currency == "" {
		return shared.NewDomainError("INVALID_CURRENCY", "Currency cannot be empty")
	}
	p.Currency = currency
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Deactivate marks the partner inactive
func (p *Partner) Deactivate() error {
	if p.Status == PartnerStatusInactive {
		return shared.NewDomainError("INVALID_STATE", "Partner is already inactive")
	}
	old := p.Status
	p.Status = PartnerStatusInactive
	p.Touch()
	p.IncrementVersion()
	p.AddDomainEvent(NewPartnerStatusChangedEvent(p, old, PartnerStatusInactive))
	return nil
}

// Activate marks the partner active
func (p *Partner) Activate() error {
	if p.Status == PartnerStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Partner is already active")
	}
	old := p.Status
	p.Status = PartnerStatusActive
	p.Touch()
	p.IncrementVersion()
	p.AddDomainEvent(NewPartnerStatusChangedEvent(p, old, PartnerStatusActive))
	return nil
}

// Block blocks the partner from new business
func (p *Partner) Block() error {
	if p.Status == PartnerStatusBlocked {
		return shared.NewDomainError("INVALID_STATE", "Partner is already blocked")
	}
	old := p.Status
	p.Status = PartnerStatusBlocked
	p.Touch()
	p.IncrementVersion()
	p.AddDomainEvent(NewPartnerStatusChangedEvent(p, old, PartnerStatusBlocked))
	return nil
}

// IsCarrier returns true if the partner can act as a carrier
func (p *Partner) IsCarrier() bool {
	return p.Type == PartnerTypeCarrier
}

// AddAddress adds an address to the partner
func (p *Partner) AddAddress(addr Address) error {
	if err := addr.Validate(); err != nil {
		return err
	}
	addr.PartnerID = p.ID
	p.Addresses = append(p.Addresses, addr)
	p.Touch()
	p.IncrementVersion()
	return nil
}

// RemoveAddress removes an address by ID
func (p *Partner) RemoveAddress(addressID uuid.UUID) error {
	for i, a := range p.Addresses {
		if a.ID == addressID {
			p.Addresses = append(p.Addresses[:i], p.Addresses[i+1:]...)
			p.Touch()
			p.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// AddContact adds a contact. If the new contact is primary, any existing
// primary contact is demoted in the same operation so at most one primary
// exists per partner; the schema does not enforce this, the aggregate does.
func (p *Partner) AddContact(contact Contact) error {
	if err := contact.Validate(); err != nil {
		return err
	}
	contact.PartnerID = p.ID
	if contact.IsPrimary {
		for i := range p.Contacts {
			p.Contacts[i].IsPrimary = false
		}
	}
	p.Contacts = append(p.Contacts, contact)
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetPrimaryContact promotes the given contact and demotes all others
func (p *Partner) SetPrimaryContact(contactID uuid.UUID) error {
	found := false
	for i := range p.Contacts {
		if p.Contacts[i].ID == contactID {
			p.Contacts[i].IsPrimary = true
			found = true
		} else {
			p.Contacts[i].IsPrimary = false
		}
	}
	if !found {
		return shared.ErrNotFound
	}
	p.Touch()
	p.IncrementVersion()
	return nil
}

// PrimaryContact returns the primary contact, or nil if none is set
func (p *Partner) PrimaryContact() *Contact {
	for i := range p.Contacts {
		if p.Contacts[i].IsPrimary {
			return &p.Contacts[i]
		}
	}
	return nil
}

// RemoveContact removes a contact by ID
func (p *Partner) RemoveContact(contactID uuid.UUID) error {
	for i, c := range p.Contacts {
		if c.ID == contactID {
			p.Contacts = append(p.Contacts[:i], p.Contacts[i+1:]...)
			p.Touch()
			p.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// AddSite adds an operating site to the partner
func (p *Partner) AddSite(site Site) error {
	if err := site.Validate(); err != nil {
		return err
	}
	site.PartnerID = p.ID
	p.Sites = append(p.Sites, site)
	p.Touch()
	p.IncrementVersion()
	return nil
}

// RemoveSite removes a site by ID
func (p *Partner) RemoveSite(siteID uuid.UUID) error {
	for i, s := range p.Sites {
		if s.ID == siteID {
			p.Sites = append(p.Sites[:i], p.Sites[i+1:]...)
			p.Touch()
			p.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// AddVehicle registers a vehicle. Only carrier partners operate vehicles.
func (p *Partner) AddVehicle(vehicle Vehicle) error {
	if !p.IsCarrier() {
		return shared.NewDomainError("NOT_A_CARRIER", "Vehicles can only be added to carrier partners")
	}
	if err := vehicle.Validate(); err != nil {
		return err
	}
	vehicle.PartnerID = p.ID
	p.Vehicles = append(p.Vehicles, vehicle)
	p.Touch()
	p.IncrementVersion()
	return nil
}

// RemoveVehicle removes a vehicle by ID
func (p *Partner) RemoveVehicle(vehicleID uuid.UUID) error {
	for i, v := range p.Vehicles {
		if v.ID == vehicleID {
			p.Vehicles = append(p.Vehicles[:i], p.Vehicles[i+1:]...)
			p.Touch()
			p.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// AddDriver registers a driver. Only carrier partners employ drivers.
func (p *Partner) AddDriver(driver Driver) error {
	if !p.IsCarrier() {
		return shared.NewDomainError("NOT_A_CARRIER", "Drivers can only be added to carrier partners")
	}
	if err := driver.Validate(); err != nil {
		return err
	}
	driver.PartnerID = p.ID
	p.Drivers = append(p.Drivers, driver)
	p.Touch()
	p.IncrementVersion()
	return nil
}

// RemoveDriver removes a driver by ID
func (p *Partner) RemoveDriver(driverID uuid.UUID) error {
	for i, d := range p.Drivers {
		if d.ID == driverID {
			p.Drivers = append(p.Drivers[:i], p.Drivers[i+1:]...)
			p.Touch()
			p.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// AttachDocument attaches a document record to the partner
func (p *Partner) AttachDocument(doc Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	doc.PartnerID = p.ID
	p.Documents = append(p.Documents, doc)
	p.Touch()
	p.IncrementVersion()
	return nil
}

// RemoveDocument removes a document record by ID
func (p *Partner) RemoveDocument(documentID uuid.UUID) error {
	for i, d := range p.Documents {
		if d.ID == documentID {
			p.Documents = append(p.Documents[:i], p.Documents[i+1:]...)
			p.Touch()
			p.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

func validatePartnerCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_PARTNER_CODE", "Partner code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_PARTNER_CODE", "Partner code cannot exceed 50 characters")
	}
	codeRegex := regexp.MustCompile(`^[a-zA-Z0-9_\-]+$`)
	if !codeRegex.MatchString(code) {
		return shared.NewDomainError("INVALID_PARTNER_CODE", "Partner code can only contain letters, numbers, underscores, and hyphens")
	}
	return nil
}
