package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	identityapp "github.com/tms/backend/internal/application/identity"
	"github.com/tms/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication API endpoints
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest is the request body for login
type LoginRequest struct {
	TenantCode string `json:"tenant_code" binding:"required,max=50"`
	Username   string `json:"username" binding:"required,max=100"`
	Password   string `json:"password" binding:"required"`
}

// RegisterRequest is the request body for self-service registration
type RegisterRequest struct {
	TenantCode string `json:"tenant_code" binding:"required,max=50"`
	Username   string `json:"username" binding:"required,max=100"`
	Password   string `json:"password" binding:"required,min=8"`
	Email      string `json:"email" binding:"required,email,max=255"`
	FirstName  string `json:"first_name" binding:"max=100"`
	LastName   string `json:"last_name" binding:"max=100"`
}

// ForgotPasswordRequest is the request body for requesting a password reset
type ForgotPasswordRequest struct {
	TenantCode string `json:"tenant_code" binding:"required,max=50"`
	Email      string `json:"email" binding:"required,email,max=255"`
}

// ResetPasswordRequest is the request body for completing a password reset
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// RefreshTokenRequest is the request body for refreshing tokens
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest is the request body for logout
type LogoutRequest struct {
	AllSessions bool `json:"all_sessions"`
}

// ChangePasswordRequest is the request body for changing the own password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// Login authenticates a user and issues a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identityapp.LoginInput{
		TenantCode: req.TenantCode,
		Username:   req.Username,
		Password:   req.Password,
		IP:         c.ClientIP(),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// Register creates a pending account that an administrator must activate
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Register(c.Request.Context(), identityapp.RegisterInput{
		TenantCode: req.TenantCode,
		Username:   req.Username,
		Password:   req.Password,
		Email:      req.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// ForgotPassword requests a password reset token. The response is identical
// whether or not the email is known.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if _, err := h.authService.ForgotPassword(c.Request.Context(), identityapp.ForgotPasswordInput{
		TenantCode: req.TenantCode,
		Email:      req.Email,
	}); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// ResetPassword sets a new password from a reset token
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), identityapp.ResetPasswordInput{
		ResetToken:  req.Token,
		NewPassword: req.NewPassword,
	}); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// RefreshToken exchanges a valid refresh token for a new token pair
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.RefreshToken(c.Request.Context(), identityapp.RefreshTokenInput{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// Logout revokes the current access token, optionally every session
func (h *AuthHandler) Logout(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing user context")
		return
	}
	var req LogoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	var jti string
	var ttl time.Duration
	if claims := middleware.GetJWTClaims(c); claims != nil {
		jti = claims.ID
		if claims.ExpiresAt != nil {
			ttl = time.Until(claims.ExpiresAt.Time)
		}
	}

	if err := h.authService.Logout(c.Request.Context(), identityapp.LogoutInput{
		UserID:      userID,
		TenantID:    tenantID,
		TokenJTI:    jti,
		TokenTTL:    ttl,
		AllSessions: req.AllSessions,
	}); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Me returns the current user and effective permissions
func (h *AuthHandler) Me(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing user context")
		return
	}

	result, err := h.authService.GetCurrentUser(c.Request.Context(), identityapp.GetCurrentUserInput{
		TenantID: tenantID,
		UserID:   userID,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// ChangePassword changes the current user's password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing user context")
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), identityapp.ChangePasswordInput{
		TenantID:    tenantID,
		UserID:      userID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	}); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
