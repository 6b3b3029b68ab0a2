package partner

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPartner(t *testing.T) {
	tenantID := uuid.New()

	t.Run("valid partner", func(t *testing.T) {
		p, err := NewPartner(tenantID, "acme-01", "Acme Transport", PartnerTypeCarrier)
		require.NoError(t, err)
		assert.Equal(t, "ACME-01", p.Code)
		assert.Equal(t, PartnerStatusActive, p.Status)
		assert.True(t, p.IsCarrier())
		assert.Len(t, p.GetDomainEvents(), 1)
	})

	t.Run("type is a closed set", func(t *testing.T) {
		_, err := NewPartner(tenantID, "x1", "X", PartnerType("vendor"))
		require.Error(t, err)

		for _, pt := range []PartnerType{
			PartnerTypeCustomer, PartnerTypeCarrier, PartnerTypeSupplier,
			PartnerTypeAgent, PartnerTypeBroker, PartnerTypeOther,
		} {
			_, err := NewPartner(tenantID, "x1", "X", pt)
			assert.NoError(t, err, string(pt))
		}
	})

	t.Run("invalid code or name", func(t *testing.T) {
		_, err := NewPartner(tenantID, "", "X", PartnerTypeCustomer)
		assert.Error(t, err)
		_, err = NewPartner(tenantID, "bad code", "X", PartnerTypeCustomer)
		assert.Error(t, err)
		_, err = NewPartner(tenantID, "ok", "", PartnerTypeCustomer)
		assert.Error(t, err)
	})
}

func TestPartnerStatus(t *testing.T) {
	p, _ := NewPartner(uuid.New(), "acme", "Acme", PartnerTypeCustomer)

	require.NoError(t, p.Block())
	assert.Equal(t, PartnerStatusBlocked, p.Status)
	assert.Error(t, p.Block())

	require.NoError(t, p.Activate())
	require.NoError(t, p.Deactivate())
	assert.Equal(t, PartnerStatusInactive, p.Status)
	assert.Error(t, p.Deactivate())
}

func TestPartnerPrimaryContact(t *testing.T) {
	p, _ := NewPartner(uuid.New(), "acme", "Acme", PartnerTypeCustomer)

	first := NewContact("Ana", "Silva", "ana@acme.test")
	first.IsPrimary = true
	require.NoError(t, p.AddContact(first))
	require.NotNil(t, p.PrimaryContact())
	assert.Equal(t, "Ana Silva", p.PrimaryContact().DisplayName())

	// Adding a second primary demotes the first
	second := NewContact("Ben", "Kraus", "ben@acme.test")
	second.IsPrimary = true
	require.NoError(t, p.AddContact(second))

	primaries := 0
	for _, c := range p.Contacts {
		if c.IsPrimary {
			primaries++
		}
	}
	assert.Equal(t, 1, primaries)
	assert.Equal(t, "Ben Kraus", p.PrimaryContact().DisplayName())

	// Explicit promotion demotes everyone else
	require.NoError(t, p.SetPrimaryContact(p.Contacts[0].ID))
	assert.Equal(t, "Ana Silva", p.PrimaryContact().DisplayName())

	assert.Error(t, p.SetPrimaryContact(uuid.New()))
}

func TestPartnerCarrierOnlyChildren(t *testing.T) {
	customer, _ := NewPartner(uuid.New(), "cust", "Customer", PartnerTypeCustomer)
	carrier, _ := NewPartner(uuid.New(), "carr", "Carrier", PartnerTypeCarrier)

	vehicle := NewVehicle("B-TX 1234", VehicleTypeTruck)
	assert.Error(t, customer.AddVehicle(vehicle))
	require.NoError(t, carrier.AddVehicle(vehicle))
	assert.Equal(t, carrier.ID, carrier.Vehicles[0].PartnerID)

	driver := NewDriver("Max", "Weber", "d-998877")
	assert.Error(t, customer.AddDriver(driver))
	require.NoError(t, carrier.AddDriver(driver))
	assert.Equal(t, "D-998877", carrier.Drivers[0].LicenseNumber)
}

func TestPartnerAddressValidation(t *testing.T) {
	p, _ := NewPartner(uuid.New(), "acme", "Acme", PartnerTypeCustomer)

	addr := NewAddress("Hauptstr. 1", "Berlin", "10115", "de")
	addr.IsBilling = true
	require.NoError(t, p.AddAddress(addr))
	assert.Equal(t, "DE", p.Addresses[0].Country)

	bad := NewAddress("", "Berlin", "10115", "DE")
	assert.Error(t, p.AddAddress(bad))

	badCountry := NewAddress("Hauptstr. 1", "Berlin", "10115", "GER")
	assert.Error(t, p.AddAddress(badCountry))

	require.NoError(t, p.RemoveAddress(p.Addresses[0].ID))
	assert.Empty(t, p.Addresses)
	assert.Error(t, p.RemoveAddress(uuid.New()))
}

func TestDriverADR(t *testing.T) {
	d := NewDriver("Max", "Weber", "d-1")
	d.ADRCertified = true
	assert.Error(t, d.Validate(), "ADR without expiry")

	exp := time.Now().Add(24 * time.Hour)
	d.ADRExpiresAt = &exp
	require.NoError(t, d.Validate())
	assert.True(t, d.CanTransportDangerousGoods(time.Now()))
	assert.False(t, d.CanTransportDangerousGoods(time.Now().Add(48*time.Hour)))
}

func TestDocumentExpiry(t *testing.T) {
	doc := NewDocument(DocumentTypeInsurance, "Liability 2026", "partners/x/insurance.pdf")
	require.NoError(t, doc.Validate())
	assert.False(t, doc.IsExpired(time.Now()))

	past := time.Now().Add(-time.Hour)
	doc.ExpiresAt = &past
	assert.True(t, doc.IsExpired(time.Now()))

	bad := NewDocument(DocumentType("unknown"), "X", "key")
	assert.Error(t, bad.Validate())
}
