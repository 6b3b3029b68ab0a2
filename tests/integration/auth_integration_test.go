// Package integration provides integration testing for the TMS backend API.
// This file contains tests for the authentication flow: login, registration,
// token refresh, logout revocation, account lockout, and password changes
// including the forgot/reset flow.
package integration

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthAPI_Login(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	tenant := ts.ProvisionTenant(t, uniqueCode("auth"))

	t.Run("valid credentials return token pair", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
			"tenant_code": tenant.Code,
			"username":    tenant.AdminUser,
			"password":    tenant.AdminPass,
		}, "")
		require.Equal(t, http.StatusOK, w.Code, "Login failed: %s", w.Body.String())

		var result struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
			TokenType    string `json:"token_type"`
			User         struct {
				Username    string   `json:"username"`
				Permissions []string `json:"permissions"`
			} `json:"user"`
		}
		DecodeData(t, w, &result)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, "Bearer", result.TokenType)
		assert.Equal(t, tenant.AdminUser, result.User.Username)
		assert.NotEmpty(t, result.User.Permissions, "Admin should have permissions")
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
			"tenant_code": tenant.Code,
			"username":    tenant.AdminUser,
			"password":    "definitely-wrong",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "ERR_UNAUTHORIZED", ErrorCode(t, w))
	})

	t.Run("unknown tenant looks like bad credentials", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
			"tenant_code": "no-such-tenant",
			"username":    tenant.AdminUser,
			"password":    tenant.AdminPass,
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "ERR_UNAUTHORIZED", ErrorCode(t, w))
	})

	t.Run("unknown username looks like bad credentials", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
			"tenant_code": tenant.Code,
			"username":    "ghost_user",
			"password":    tenant.AdminPass,
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "ERR_UNAUTHORIZED", ErrorCode(t, w))
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
			"tenant_code": tenant.Code,
		}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthAPI_TokenUsage(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	tenant := ts.ProvisionTenant(t, uniqueCode("tok"))

	t.Run("me returns current user and permissions", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/auth/me", nil, tenant.AccessToken)
		require.Equal(t, http.StatusOK, w.Code, "Me failed: %s", w.Body.String())

		var result struct {
			User struct {
				Username string `json:"username"`
			} `json:"user"`
			Permissions []string `json:"permissions"`
		}
		DecodeData(t, w, &result)
		assert.Equal(t, tenant.AdminUser, result.User.Username)
		assert.Contains(t, result.Permissions, "partners:read")
	})

	t.Run("request without token is rejected", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/auth/me", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("request with garbage token is rejected", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/auth/me", nil, "not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("refresh rotates the token pair", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
			"tenant_code": tenant.Code,
			"username":    tenant.AdminUser,
			"password":    tenant.AdminPass,
		}, "")
		require.Equal(t, http.StatusOK, w.Code)

		var login struct {
			RefreshToken string `json:"refresh_token"`
		}
		DecodeData(t, w, &login)

		w = ts.Request(http.MethodPost, "/api/v1/auth/refresh", map[string]string{
			"refresh_token": login.RefreshToken,
		}, "")
		require.Equal(t, http.StatusOK, w.Code, "Refresh failed: %s", w.Body.String())

		var refreshed struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		}
		DecodeData(t, w, &refreshed)
		assert.NotEmpty(t, refreshed.AccessToken)
		assert.NotEmpty(t, refreshed.RefreshToken)

		// The new access token must be usable
		w = ts.Request(http.MethodGet, "/api/v1/auth/me", nil, refreshed.AccessToken)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("access token is not accepted as refresh token", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/auth/refresh", map[string]string{
			"refresh_token": tenant.AccessToken,
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("logout revokes the access token", func(t *testing.T) {
		token := ts.Login(t, tenant.Code, tenant.AdminUser, tenant.AdminPass)

		w := ts.Request(http.MethodGet, "/api/v1/auth/me", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		w = ts.Request(http.MethodPost, "/api/v1/auth/logout", nil, token)
		require.Equal(t, http.StatusNoContent, w.Code, "Logout failed: %s", w.Body.String())

		w = ts.Request(http.MethodGet, "/api/v1/auth/me", nil, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "Revoked token should be rejected")
	})
}

func TestAuthAPI_AccountLockout(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	tenant := ts.ProvisionTenant(t, uniqueCode("lock"))

	// Exhaust the allowed attempts
	for i := 0; i < 5; i++ {
		w := ts.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
			"tenant_code": tenant.Code,
			"username":    tenant.AdminUser,
			"password":    "wrong-password",
		}, "")
		require.NotEqual(t, http.StatusOK, w.Code)
	}

	// The correct password is now rejected because the account is locked
	w := ts.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"tenant_code": tenant.Code,
		"username":    tenant.AdminUser,
		"password":    tenant.AdminPass,
	}, "")
	assert.Equal(t, http.StatusForbidden, w.Code, "Locked account must not log in: %s", w.Body.String())
}

func TestAuthAPI_ChangePassword(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	tenant := ts.ProvisionTenant(t, uniqueCode("pwd"))
	newPassword := "N3w!Password-" + tenant.Code

	t.Run("wrong old password is rejected", func(t *testing.T) {
		w := ts.Request(http.MethodPut, "/api/v1/auth/password", map[string]string{
			"old_password": "not-the-old-password",
			"new_password": newPassword,
		}, tenant.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("too short new password is rejected", func(t *testing.T) {
		w := ts.Request(http.MethodPut, "/api/v1/auth/password", map[string]string{
			"old_password": tenant.AdminPass,
			"new_password": "short",
		}, tenant.AccessToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("change password and login with the new one", func(t *testing.T) {
		w := ts.Request(http.MethodPut, "/api/v1/auth/password", map[string]string{
			"old_password": tenant.AdminPass,
			"new_password": newPassword,
		}, tenant.AccessToken)
		require.Equal(t, http.StatusNoContent, w.Code, "Change password failed: %s", w.Body.String())

		// The old password no longer works
		w = ts.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
			"tenant_code": tenant.Code,
			"username":    tenant.AdminUser,
			"password":    tenant.AdminPass,
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		// The new password works
		token := ts.Login(t, tenant.Code, tenant.AdminUser, newPassword)
		assert.NotEmpty(t, token)
	})
}

func TestAuthAPI_Register(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	tenant := ts.ProvisionTenant(t, uniqueCode("reg"))

	t.Run("registration creates a pending account", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/auth/register", map[string]string{
			"tenant_code": tenant.Code,
			"username":    "newdriver",
			"password":    "Dr1ver!pass",
			"email":       "newdriver@" + tenant.Code + ".test",
			"first_name":  "Nora",
			"last_name":   "Berg",
		}, "")
		require.Equal(t, http.StatusCreated, w.Code, "Register failed: %s", w.Body.String())

		var result struct {
			User struct {
				ID       string `json:"id"`
				Username string `json:"username"`
				Status   string `json:"status"`
			} `json:"user"`
		}
		DecodeData(t, w, &result)
		assert.Equal(t, "newdriver", result.User.Username)
		assert.Equal(t, "pending", result.User.Status)

		// Pending accounts cannot log in yet
		w = ts.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
			"tenant_code": tenant.Code,
			"username":    "newdriver",
			"password":    "Dr1ver!pass",
		}, "")
		assert.Equal(t, http.StatusForbidden, w.Code)

		// Once activated by an admin, login succeeds
		w = ts.Request(http.MethodPost, "/api/v1/users/"+result.User.ID+"/activate", nil, tenant.AccessToken)
		require.Equal(t, http.StatusNoContent, w.Code, "Activate failed: %s", w.Body.String())

		ts.Login(t, tenant.Code, "newdriver", "Dr1ver!pass")
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/auth/register", map[string]string{
			"tenant_code": tenant.Code,
			"username":    tenant.AdminUser,
			"password":    "An0ther!pass",
			"email":       "other@" + tenant.Code + ".test",
		}, "")
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "ERR_ALREADY_EXISTS", ErrorCode(t, w))
	})

	t.Run("unknown tenant is rejected", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/auth/register", map[string]string{
			"tenant_code": "no-such-tenant",
			"username":    "whoever",
			"password":    "Wh0ever!pass",
			"email":       "whoever@nowhere.test",
		}, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("short password is rejected", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/auth/register", map[string]string{
			"tenant_code": tenant.Code,
			"username":    "shorty",
			"password":    "short",
			"email":       "shorty@" + tenant.Code + ".test",
		}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthAPI_PasswordReset(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	tenant := ts.ProvisionTenant(t, uniqueCode("reset"))
	email := "resetme@" + tenant.Code + ".test"

	// Register and activate a user with a known email address
	w := ts.Request(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"tenant_code": tenant.Code,
		"username":    "resetme",
		"password":    "Or1ginal!pass",
		"email":       email,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, "Register failed: %s", w.Body.String())

	var created struct {
		User struct {
			ID       string `json:"id"`
			TenantID string `json:"tenant_id"`
		} `json:"user"`
	}
	DecodeData(t, w, &created)
	userID, err := uuid.Parse(created.User.ID)
	require.NoError(t, err)

	w = ts.Request(http.MethodPost, "/api/v1/users/"+created.User.ID+"/activate", nil, tenant.AccessToken)
	require.Equal(t, http.StatusNoContent, w.Code, "Activate failed: %s", w.Body.String())

	t.Run("forgot password always answers 204", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/auth/forgot-password", map[string]string{
			"tenant_code": tenant.Code,
			"email":       email,
		}, "")
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = ts.Request(http.MethodPost, "/api/v1/auth/forgot-password", map[string]string{
			"tenant_code": tenant.Code,
			"email":       "ghost@" + tenant.Code + ".test",
		}, "")
		assert.Equal(t, http.StatusNoContent, w.Code, "Unknown email must not be distinguishable")
	})

	t.Run("reset token sets a new password", func(t *testing.T) {
		// The token normally travels by email; mint it directly here.
		token, _, err := ts.JWT.GeneratePasswordResetToken(tenant.ID, userID)
		require.NoError(t, err)

		w := ts.Request(http.MethodPost, "/api/v1/auth/reset-password", map[string]string{
			"token":        token,
			"new_password": "Fresh5tart!pass",
		}, "")
		require.Equal(t, http.StatusNoContent, w.Code, "Reset failed: %s", w.Body.String())

		// Old password no longer works, the new one does
		w = ts.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
			"tenant_code": tenant.Code,
			"username":    "resetme",
			"password":    "Or1ginal!pass",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		ts.Login(t, tenant.Code, "resetme", "Fresh5tart!pass")
	})

	t.Run("garbage reset token is rejected", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/auth/reset-password", map[string]string{
			"token":        "not-a-real-token",
			"new_password": "Whatever1!pass",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "ERR_TOKEN_INVALID", ErrorCode(t, w))
	})
}

// Role and account changes must bite on the very next request, even while a
// previously issued access token is still within its lifetime.
func TestAuthAPI_AccessRevalidation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	tenant := ts.ProvisionTenant(t, uniqueCode("reval"))

	t.Run("token works before any change", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/partners", nil, tenant.AccessToken)
		assert.Equal(t, http.StatusOK, w.Code, "Expected partner list: %s", w.Body.String())
	})

	t.Run("removing the user's roles denies the still-valid token", func(t *testing.T) {
		res := ts.DB.DB.Exec(
			"DELETE FROM user_roles WHERE user_id = (SELECT id FROM users WHERE tenant_id = ? AND username = ?)",
			tenant.ID, tenant.AdminUser,
		)
		require.NoError(t, res.Error)

		w := ts.Request(http.MethodGet, "/api/v1/partners", nil, tenant.AccessToken)
		assert.Equal(t, http.StatusForbidden, w.Code, "Expected denial after role removal: %s", w.Body.String())
	})

	t.Run("deactivating the user rejects the still-valid token", func(t *testing.T) {
		res := ts.DB.DB.Exec(
			"UPDATE users SET status = 'inactive' WHERE tenant_id = ? AND username = ?",
			tenant.ID, tenant.AdminUser,
		)
		require.NoError(t, res.Error)

		w := ts.Request(http.MethodGet, "/api/v1/partners", nil, tenant.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "Expected rejection after deactivation: %s", w.Body.String())
		assert.Equal(t, "ERR_FORBIDDEN", ErrorCode(t, w))
	})
}
