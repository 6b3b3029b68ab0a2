package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/tms/backend/internal/domain/identity"
)

// LoginInput contains the input for user login
type LoginInput struct {
	TenantCode string
	Username   string
	Password   string
	IP         string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// UserInfo contains basic user information returned after login
type UserInfo struct {
	ID          uuid.UUID           `json:"id"`
	TenantID    uuid.UUID           `json:"tenant_id"`
	Username    string              `json:"username"`
	DisplayName string              `json:"display_name,omitempty"`
	Email       string              `json:"email,omitempty"`
	Phone       string              `json:"phone,omitempty"`
	Status      identity.UserStatus `json:"status"`
	Permissions []string            `json:"permissions"`
	RoleIDs     []uuid.UUID         `json:"role_ids"`
}

// RegisterInput contains the input for self-service registration
type RegisterInput struct {
	TenantCode string
	Username   string
	Password   string
	Email      string
	FirstName  string
	LastName   string
}

// RegisterResult contains the result of a successful registration.
// The account starts in pending status and cannot log in until activated.
type RegisterResult struct {
	User UserInfo `json:"user"`
}

// ForgotPasswordInput contains the input for a password reset request
type ForgotPasswordInput struct {
	TenantCode string
	Email      string
}

// ForgotPasswordResult carries the issued reset token to the delivery
// channel. It is never returned over the API.
type ForgotPasswordResult struct {
	ResetToken string
	ExpiresAt  time.Time
}

// ResetPasswordInput contains the input for completing a password reset
type ResetPasswordInput struct {
	ResetToken  string
	NewPassword string
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID      uuid.UUID
	TenantID    uuid.UUID
	TokenJTI    string        // JWT ID of the access token being revoked
	TokenTTL    time.Duration // Remaining validity of that token
	AllSessions bool          // Revoke every session of the user
}

// GetCurrentUserInput contains the input for fetching the current user
type GetCurrentUserInput struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
}

// CurrentUserResult contains the current user and effective permissions
type CurrentUserResult struct {
	User        UserInfo `json:"user"`
	Permissions []string `json:"permissions"`
}

// ChangePasswordInput contains the input for a password change
type ChangePasswordInput struct {
	TenantID    uuid.UUID
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// CreateUserInput contains the input for creating a user
type CreateUserInput struct {
	TenantID  uuid.UUID
	Username  string
	Password  string
	Email     string
	Phone     string
	FirstName string
	LastName  string
	RoleIDs   []uuid.UUID
	Activate  bool
	CreatedBy *uuid.UUID
}

// UpdateUserInput contains the input for updating a user
type UpdateUserInput struct {
	TenantID  uuid.UUID
	UserID    uuid.UUID
	Email     *string
	Phone     *string
	FirstName *string
	LastName  *string
	RoleIDs   []uuid.UUID
	Version   int
}

// UserDTO is the user representation returned to the interface layer
type UserDTO struct {
	ID             uuid.UUID           `json:"id"`
	TenantID       uuid.UUID           `json:"tenant_id"`
	Username       string              `json:"username"`
	Email          string              `json:"email,omitempty"`
	Phone          string              `json:"phone,omitempty"`
	FirstName      string              `json:"first_name,omitempty"`
	LastName       string              `json:"last_name,omitempty"`
	Status         identity.UserStatus `json:"status"`
	RoleIDs        []uuid.UUID         `json:"role_ids"`
	LastLoginAt    *time.Time          `json:"last_login_at,omitempty"`
	FailedAttempts int                 `json:"failed_attempts"`
	Version        int                 `json:"version"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// RoleDTO is the role representation returned to the interface layer
type RoleDTO struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsSystem    bool      `json:"is_system"`
	IsEnabled   bool      `json:"is_enabled"`
	Permissions []string  `json:"permissions"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TenantDTO is the tenant representation returned to the interface layer
type TenantDTO struct {
	ID           uuid.UUID             `json:"id"`
	Code         string                `json:"code"`
	Name         string                `json:"name"`
	Status       identity.TenantStatus `json:"status"`
	ContactName  string                `json:"contact_name,omitempty"`
	ContactEmail string                `json:"contact_email,omitempty"`
	ContactPhone string                `json:"contact_phone,omitempty"`
	Country      string                `json:"country,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

func toUserDTO(u *identity.User) *UserDTO {
	return &UserDTO{
		ID:             u.ID,
		TenantID:       u.TenantID,
		Username:       u.Username,
		Email:          u.Email,
		Phone:          u.Phone,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Status:         u.Status,
		RoleIDs:        u.RoleIDs,
		LastLoginAt:    u.LastLoginAt,
		FailedAttempts: u.FailedAttempts,
		Version:        u.Version,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func toRoleDTO(r *identity.Role) *RoleDTO {
	return &RoleDTO{
		ID:          r.ID,
		TenantID:    r.TenantID,
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
		IsSystem:    r.IsSystem,
		IsEnabled:   r.IsEnabled,
		Permissions: r.PermissionCodes(),
		Version:     r.Version,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toTenantDTO(t *identity.Tenant) *TenantDTO {
	return &TenantDTO{
		ID:           t.ID,
		Code:         t.Code,
		Name:         t.Name,
		Status:       t.Status,
		ContactName:  t.ContactName,
		ContactEmail: t.ContactEmail,
		ContactPhone: t.ContactPhone,
		Country:      t.Country,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}
