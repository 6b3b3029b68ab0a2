// Package integration provides integration testing for the TMS backend API.
// This file contains tests for the Partner API endpoints against a real database:
// CRUD, lifecycle transitions, sub-entities, and optimistic locking.
package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	partnerapp "github.com/tms/backend/internal/application/partner"
)

func createPartner(t *testing.T, ts *TestServer, tenant *TestTenant, code, name, partnerType string) partnerapp.PartnerDTO {
	t.Helper()

	w := ts.Request(http.MethodPost, "/api/v1/partners", map[string]interface{}{
		"code": code,
		"name": name,
		"type": partnerType,
	}, tenant.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code, "Create partner failed: %s", w.Body.String())

	var dto partnerapp.PartnerDTO
	DecodeData(t, w, &dto)
	return dto
}

func TestPartnerAPI_CRUD(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	tenant := ts.ProvisionTenant(t, uniqueCode("pcrud"))

	t.Run("create partner", func(t *testing.T) {
		dto := createPartner(t, ts, tenant, "CUST-001", "Acme Logistics", "customer")
		assert.Equal(t, "CUST-001", dto.Code)
		assert.Equal(t, "Acme Logistics", dto.Name)
		assert.Equal(t, "customer", dto.Type)
		assert.Equal(t, "active", dto.Status)
		assert.Equal(t, "EUR", dto.Currency)
		assert.Equal(t, 1, dto.Version)
		assert.NotEqual(t, uuid.Nil, dto.ID)
	})

	t.Run("duplicate code is rejected", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/partners", map[string]interface{}{
			"code": "CUST-001",
			"name": "Duplicate",
			"type": "customer",
		}, tenant.AccessToken)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("invalid type is rejected", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/partners", map[string]interface{}{
			"code": "CUST-BAD",
			"name": "Bad Type",
			"type": "warehouse",
		}, tenant.AccessToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get partner by id", func(t *testing.T) {
		created := createPartner(t, ts, tenant, "CARR-001", "Speedy Freight", "carrier")

		w := ts.Request(http.MethodGet, "/api/v1/partners/"+created.ID.String(), nil, tenant.AccessToken)
		require.Equal(t, http.StatusOK, w.Code)

		var dto partnerapp.PartnerDTO
		DecodeData(t, w, &dto)
		assert.Equal(t, created.ID, dto.ID)
		assert.Equal(t, "carrier", dto.Type)
	})

	t.Run("get unknown partner returns 404", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/partners/"+uuid.New().String(), nil, tenant.AccessToken)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("list partners with type filter", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			createPartner(t, ts, tenant, fmt.Sprintf("SUPP-%03d", i), fmt.Sprintf("Supplier %d", i), "supplier")
		}

		w := ts.Request(http.MethodGet, "/api/v1/partners?type=supplier&page=1&page_size=2", nil, tenant.AccessToken)
		require.Equal(t, http.StatusOK, w.Code)

		var items []partnerapp.PartnerDTO
		DecodeData(t, w, &items)
		assert.Len(t, items, 2)
		for _, item := range items {
			assert.Equal(t, "supplier", item.Type)
		}
	})

	t.Run("update partner", func(t *testing.T) {
		created := createPartner(t, ts, tenant, "CUST-UPD", "Before Update", "customer")

		w := ts.Request(http.MethodPut, "/api/v1/partners/"+created.ID.String(), map[string]interface{}{
			"version":       created.Version,
			"name":          "After Update",
			"vat_number":    "DE123456789",
			"payment_terms": 45,
		}, tenant.AccessToken)
		require.Equal(t, http.StatusOK, w.Code, "Update failed: %s", w.Body.String())

		var dto partnerapp.PartnerDTO
		DecodeData(t, w, &dto)
		assert.Equal(t, "After Update", dto.Name)
		assert.Equal(t, "DE123456789", dto.VATNumber)
		assert.Equal(t, 45, dto.PaymentTerms)
		assert.Greater(t, dto.Version, created.Version)
	})

	t.Run("stale version update is rejected", func(t *testing.T) {
		created := createPartner(t, ts, tenant, "CUST-VER", "Version Test", "customer")

		w := ts.Request(http.MethodPut, "/api/v1/partners/"+created.ID.String(), map[string]interface{}{
			"version": created.Version,
			"name":    "First Writer",
		}, tenant.AccessToken)
		require.Equal(t, http.StatusOK, w.Code)

		// Same version again must conflict
		w = ts.Request(http.MethodPut, "/api/v1/partners/"+created.ID.String(), map[string]interface{}{
			"version": created.Version,
			"name":    "Second Writer",
		}, tenant.AccessToken)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("delete partner", func(t *testing.T) {
		created := createPartner(t, ts, tenant, "CUST-DEL", "To Delete", "customer")

		w := ts.Request(http.MethodDelete, "/api/v1/partners/"+created.ID.String(), nil, tenant.AccessToken)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = ts.Request(http.MethodGet, "/api/v1/partners/"+created.ID.String(), nil, tenant.AccessToken)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPartnerAPI_Lifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	tenant := ts.ProvisionTenant(t, uniqueCode("plife"))

	t.Run("deactivate and reactivate", func(t *testing.T) {
		created := createPartner(t, ts, tenant, "LC-001", "Lifecycle Partner", "customer")

		w := ts.Request(http.MethodPost, "/api/v1/partners/"+created.ID.String()+"/deactivate", nil, tenant.AccessToken)
		require.Equal(t, http.StatusNoContent, w.Code, "Deactivate failed: %s", w.Body.String())

		w = ts.Request(http.MethodGet, "/api/v1/partners/"+created.ID.String(), nil, tenant.AccessToken)
		var dto partnerapp.PartnerDTO
		DecodeData(t, w, &dto)
		assert.Equal(t, "inactive", dto.Status)

		w = ts.Request(http.MethodPost, "/api/v1/partners/"+created.ID.String()+"/activate", nil, tenant.AccessToken)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = ts.Request(http.MethodGet, "/api/v1/partners/"+created.ID.String(), nil, tenant.AccessToken)
		DecodeData(t, w, &dto)
		assert.Equal(t, "active", dto.Status)
	})

	t.Run("block partner", func(t *testing.T) {
		created := createPartner(t, ts, tenant, "LC-002", "Blocked Partner", "carrier")

		w := ts.Request(http.MethodPost, "/api/v1/partners/"+created.ID.String()+"/block", nil, tenant.AccessToken)
		require.Equal(t, http.StatusNoContent, w.Code, "Block failed: %s", w.Body.String())

		w = ts.Request(http.MethodGet, "/api/v1/partners/"+created.ID.String(), nil, tenant.AccessToken)
		var dto partnerapp.PartnerDTO
		DecodeData(t, w, &dto)
		assert.Equal(t, "blocked", dto.Status)
	})
}

func TestPartnerAPI_SubEntities(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	tenant := ts.ProvisionTenant(t, uniqueCode("psub"))

	t.Run("add and remove address", func(t *testing.T) {
		created := createPartner(t, ts, tenant, "SUB-001", "Address Partner", "customer")

		w := ts.Request(http.MethodPost, "/api/v1/partners/"+created.ID.String()+"/addresses", map[string]interface{}{
			"label":       "HQ",
			"street":      "Hauptstrasse 1",
			"city":        "Berlin",
			"postal_code": "10115",
			"country":     "DE",
			"is_billing":  true,
		}, tenant.AccessToken)
		require.Equal(t, http.StatusCreated, w.Code, "Add address failed: %s", w.Body.String())

		var dto partnerapp.PartnerDTO
		DecodeData(t, w, &dto)
		require.Len(t, dto.Addresses, 1)
		assert.Equal(t, "Berlin", dto.Addresses[0].City)

		addressID := dto.Addresses[0].ID
		w = ts.Request(http.MethodDelete,
			"/api/v1/partners/"+created.ID.String()+"/addresses/"+addressID.String(), nil, tenant.AccessToken)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("add contact and set primary", func(t *testing.T) {
		created := createPartner(t, ts, tenant, "SUB-002", "Contact Partner", "customer")

		w := ts.Request(http.MethodPost, "/api/v1/partners/"+created.ID.String()+"/contacts", map[string]interface{}{
			"first_name": "Erika",
			"last_name":  "Mustermann",
			"email":      "erika@example.com",
		}, tenant.AccessToken)
		require.Equal(t, http.StatusCreated, w.Code, "Add contact failed: %s", w.Body.String())

		var dto partnerapp.PartnerDTO
		DecodeData(t, w, &dto)
		require.Len(t, dto.Contacts, 1)

		contactID := dto.Contacts[0].ID
		w = ts.Request(http.MethodPost,
			"/api/v1/partners/"+created.ID.String()+"/contacts/"+contactID.String()+"/primary", nil, tenant.AccessToken)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = ts.Request(http.MethodGet, "/api/v1/partners/"+created.ID.String(), nil, tenant.AccessToken)
		DecodeData(t, w, &dto)
		require.Len(t, dto.Contacts, 1)
		assert.True(t, dto.Contacts[0].IsPrimary)
	})

	t.Run("add vehicle and driver to carrier", func(t *testing.T) {
		created := createPartner(t, ts, tenant, "SUB-003", "Fleet Carrier", "carrier")

		w := ts.Request(http.MethodPost, "/api/v1/partners/"+created.ID.String()+"/vehicles", map[string]interface{}{
			"license_plate": "B-TX 1234",
			"type":          "truck",
			"max_weight_kg": "24000",
		}, tenant.AccessToken)
		require.Equal(t, http.StatusCreated, w.Code, "Add vehicle failed: %s", w.Body.String())

		w = ts.Request(http.MethodPost, "/api/v1/partners/"+created.ID.String()+"/drivers", map[string]interface{}{
			"first_name":     "Max",
			"last_name":      "Fahrer",
			"license_number": "D-998877",
		}, tenant.AccessToken)
		require.Equal(t, http.StatusCreated, w.Code, "Add driver failed: %s", w.Body.String())

		w = ts.Request(http.MethodGet, "/api/v1/partners/"+created.ID.String(), nil, tenant.AccessToken)
		var dto partnerapp.PartnerDTO
		DecodeData(t, w, &dto)
		assert.Len(t, dto.Vehicles, 1)
		assert.Len(t, dto.Drivers, 1)
	})
}
