// Package integration provides integration testing for the TMS backend API.
// This file contains security tests: authentication enforcement, permission
// enforcement for restricted roles, and hostile input handling.
package integration

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	identityapp "github.com/tms/backend/internal/application/identity"
	partnerapp "github.com/tms/backend/internal/application/partner"
)

func TestSecurity_AuthenticationEnforcement(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	tenant := ts.ProvisionTenant(t, uniqueCode("seca"))

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/partners"},
		{http.MethodPost, "/api/v1/partners"},
		{http.MethodGet, "/api/v1/orders"},
		{http.MethodGet, "/api/v1/shipments"},
		{http.MethodGet, "/api/v1/invoices"},
		{http.MethodGet, "/api/v1/tours"},
		{http.MethodGet, "/api/v1/users"},
		{http.MethodGet, "/api/v1/audit-logs"},
	}

	t.Run("protected routes reject missing tokens", func(t *testing.T) {
		for _, route := range protected {
			w := ts.Request(route.method, route.path, nil, "")
			assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s accepted an unauthenticated request", route.method, route.path)
		}
	})

	t.Run("malformed tokens are rejected", func(t *testing.T) {
		for _, token := range []string{
			"garbage",
			"a.b.c",
			"Bearer nested-bearer",
			strings.Repeat("x", 4096),
		} {
			w := ts.Request(http.MethodGet, "/api/v1/partners", nil, token)
			assert.Equal(t, http.StatusUnauthorized, w.Code, "Token %q was accepted", token[:min(len(token), 20)])
		}
	})

	t.Run("tampered signature is rejected", func(t *testing.T) {
		parts := strings.Split(tenant.AccessToken, ".")
		require.Len(t, parts, 3)
		tampered := parts[0] + "." + parts[1] + "." + "AAAA" + parts[2][4:]

		w := ts.Request(http.MethodGet, "/api/v1/partners", nil, tampered)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("tampered payload is rejected", func(t *testing.T) {
		parts := strings.Split(tenant.AccessToken, ".")
		require.Len(t, parts, 3)
		tampered := parts[0] + "." + "eyJmYWtlIjoidGVuYW50In0" + "." + parts[2]

		w := ts.Request(http.MethodGet, "/api/v1/partners", nil, tampered)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestSecurity_PermissionEnforcement(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	tenant := ts.ProvisionTenant(t, uniqueCode("secp"))

	// Admin creates a read-only role and a user carrying it
	w := ts.Request(http.MethodPost, "/api/v1/roles", map[string]interface{}{
		"code":        "VIEWER",
		"name":        "Read Only Viewer",
		"permissions": []string{"partners:read", "orders:read"},
	}, tenant.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code, "Create role failed: %s", w.Body.String())
	var role identityapp.RoleDTO
	DecodeData(t, w, &role)

	viewerPass := "View3r!pass-" + tenant.Code
	w = ts.Request(http.MethodPost, "/api/v1/users", map[string]interface{}{
		"username": "viewer_" + tenant.Code,
		"password": viewerPass,
		"role_ids": []string{role.ID.String()},
		"activate": true,
	}, tenant.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code, "Create user failed: %s", w.Body.String())

	viewerToken := ts.Login(t, tenant.Code, "viewer_"+tenant.Code, viewerPass)
	target := createPartner(t, ts, tenant, "SEC-001", "Guarded Partner", "customer")

	t.Run("granted permission allows reads", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/partners/"+target.ID.String(), nil, viewerToken)
		assert.Equal(t, http.StatusOK, w.Code)

		w = ts.Request(http.MethodGet, "/api/v1/orders", nil, viewerToken)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing permission denies writes", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/partners", map[string]interface{}{
			"code": "SEC-DENIED",
			"name": "Should Not Exist",
			"type": "customer",
		}, viewerToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "ERR_FORBIDDEN", ErrorCode(t, w))

		w = ts.Request(http.MethodDelete, "/api/v1/partners/"+target.ID.String(), nil, viewerToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing permission denies other modules", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/users", nil, viewerToken)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = ts.Request(http.MethodGet, "/api/v1/invoices", nil, viewerToken)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = ts.Request(http.MethodPost, "/api/v1/roles", map[string]interface{}{
			"code":        "ESCALATED",
			"name":        "Privilege Escalation",
			"permissions": []string{"partners:create"},
		}, viewerToken)
		assert.Equal(t, http.StatusForbidden, w.Code, "Viewer must not create roles")
	})
}

func TestSecurity_HostileInput(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	tenant := ts.ProvisionTenant(t, uniqueCode("sech"))
	createPartner(t, ts, tenant, "HOST-001", "Honest Partner", "customer")

	t.Run("sql injection in search is treated as literal text", func(t *testing.T) {
		payloads := []string{
			"' OR '1'='1",
			"'; DROP TABLE partners; --",
			"%' UNION SELECT * FROM users --",
		}
		for _, payload := range payloads {
			w := ts.Request(http.MethodGet, "/api/v1/partners?search="+url.QueryEscape(payload), nil, tenant.AccessToken)
			require.Equal(t, http.StatusOK, w.Code, "Search payload %q broke the endpoint: %s", payload, w.Body.String())

			var items []partnerapp.PartnerDTO
			DecodeData(t, w, &items)
			assert.Empty(t, items, "Search payload %q matched rows", payload)
		}

		// The table is still intact
		w := ts.Request(http.MethodGet, "/api/v1/partners", nil, tenant.AccessToken)
		require.Equal(t, http.StatusOK, w.Code)
		var items []partnerapp.PartnerDTO
		DecodeData(t, w, &items)
		assert.NotEmpty(t, items)
	})

	t.Run("sql injection in order_by falls back to default ordering", func(t *testing.T) {
		w := ts.Request(http.MethodGet,
			"/api/v1/partners?order_by="+url.QueryEscape("1;DROP TABLE partners--"), nil, tenant.AccessToken)
		assert.Equal(t, http.StatusOK, w.Code)

		w = ts.Request(http.MethodGet, "/api/v1/partners", nil, tenant.AccessToken)
		assert.Equal(t, http.StatusOK, w.Code, "Partners table must survive order_by injection")
	})

	t.Run("sql injection in login credentials fails authentication", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
			"tenant_code": tenant.Code,
			"username":    "admin' OR '1'='1' --",
			"password":    "anything",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed json body is a bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/partners", strings.NewReader(`{"code": "X", "name": `))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+tenant.AccessToken)

		w := httptest.NewRecorder()
		ts.Engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("oversized field values are rejected by validation", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/partners", map[string]interface{}{
			"code": strings.Repeat("A", 5000),
			"name": "Oversized",
			"type": "customer",
		}, tenant.AccessToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("script payloads are stored inert not executed", func(t *testing.T) {
		xss := `<script>alert('xss')</script>`
		w := ts.Request(http.MethodPost, "/api/v1/partners", map[string]interface{}{
			"code": "XSS-001",
			"name": xss,
			"type": "customer",
		}, tenant.AccessToken)
		require.Equal(t, http.StatusCreated, w.Code, "Create failed: %s", w.Body.String())

		var dto partnerapp.PartnerDTO
		DecodeData(t, w, &dto)
		assert.Equal(t, xss, dto.Name, "Payload must round-trip as plain data")
		assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	})
}
