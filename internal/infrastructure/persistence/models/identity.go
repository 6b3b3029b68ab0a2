package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tms/backend/internal/domain/identity"
	"github.com/tms/backend/internal/domain/shared"
)

// UserModel is the persistence model for the User aggregate root.
type UserModel struct {
	TenantAggregateModel
	Username           string              `gorm:"type:varchar(100);not null;uniqueIndex:idx_user_tenant_username,priority:2"`
	Email              string              `gorm:"type:varchar(200);index"`
	Phone              string              `gorm:"type:varchar(50)"`
	PasswordHash       string              `gorm:"type:varchar(255);not null"`
	FirstName          string              `gorm:"type:varchar(100)"`
	LastName           string              `gorm:"type:varchar(100)"`
	Status             identity.UserStatus `gorm:"type:user_status;not null;default:'pending'"`
	LastLoginAt        *time.Time          `gorm:"index"`
	LastLoginIP        string              `gorm:"type:varchar(45)"`
	FailedAttempts     int                 `gorm:"not null;default:0"`
	LockedUntil        *time.Time
	PasswordChangedAt  *time.Time
	MustChangePassword bool `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
// RoleIDs and preferences are loaded separately by the repository.
func (m *UserModel) ToDomain() *identity.User {
	u := &identity.User{
		Username:           m.Username,
		Email:              m.Email,
		Phone:              m.Phone,
		PasswordHash:       m.PasswordHash,
		FirstName:          m.FirstName,
		LastName:           m.LastName,
		Status:             m.Status,
		RoleIDs:            make([]uuid.UUID, 0),
		LastLoginAt:        m.LastLoginAt,
		LastLoginIP:        m.LastLoginIP,
		FailedAttempts:     m.FailedAttempts,
		LockedUntil:        m.LockedUntil,
		PasswordChangedAt:  m.PasswordChangedAt,
		MustChangePassword: m.MustChangePassword,
	}
	m.PopulateTenantAggregateRoot(&u.TenantAggregateRoot)
	return u
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainTenantAggregateRoot(u.TenantAggregateRoot)
	m.Username = u.Username
	m.Email = u.Email
	m.Phone = u.Phone
	m.PasswordHash = u.PasswordHash
	m.FirstName = u.FirstName
	m.LastName = u.LastName
	m.Status = u.Status
	m.LastLoginAt = u.LastLoginAt
	m.LastLoginIP = u.LastLoginIP
	m.FailedAttempts = u.FailedAttempts
	m.LockedUntil = u.LockedUntil
	m.PasswordChangedAt = u.PasswordChangedAt
	m.MustChangePassword = u.MustChangePassword
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// UserRoleModel is the persistence model for the user-role assignment.
type UserRoleModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoleID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserRoleModel) TableName() string {
	return "user_roles"
}

// ToDomain converts the persistence model to a domain UserRole.
func (m *UserRoleModel) ToDomain() identity.UserRole {
	return identity.UserRole{
		UserID:    m.UserID,
		RoleID:    m.RoleID,
		TenantID:  m.TenantID,
		CreatedAt: m.CreatedAt,
	}
}

// UserPreferencesModel is the persistence model for per-user settings.
type UserPreferencesModel struct {
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Language      string    `gorm:"type:varchar(10);not null;default:'en'"`
	Timezone      string    `gorm:"type:varchar(50);not null;default:'UTC'"`
	PageSize      int       `gorm:"not null;default:20"`
	Notifications bool      `gorm:"not null;default:true"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserPreferencesModel) TableName() string {
	return "user_preferences"
}

// ToDomain converts the persistence model to domain UserPreferences.
func (m *UserPreferencesModel) ToDomain() *identity.UserPreferences {
	return &identity.UserPreferences{
		UserID:        m.UserID,
		Language:      m.Language,
		Timezone:      m.Timezone,
		PageSize:      m.PageSize,
		Notifications: m.Notifications,
		UpdatedAt:     m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from domain UserPreferences.
func (m *UserPreferencesModel) FromDomain(p *identity.UserPreferences) {
	m.UserID = p.UserID
	m.Language = p.Language
	m.Timezone = p.Timezone
	m.PageSize = p.PageSize
	m.Notifications = p.Notifications
	m.UpdatedAt = p.UpdatedAt
}

// RoleModel is the persistence model for the Role aggregate root.
type RoleModel struct {
	TenantAggregateModel
	Code        string `gorm:"type:varchar(50);not null;uniqueIndex:idx_role_tenant_code,priority:2"`
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:varchar(500)"`
	IsSystem    bool   `gorm:"not null;default:false"`
	IsEnabled   bool   `gorm:"not null;default:true"`

	Permissions []RolePermissionModel `gorm:"foreignKey:RoleID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (RoleModel) TableName() string {
	return "roles"
}

// ToDomain converts the persistence model to a domain Role entity.
// Permission codes that no longer resolve to a known permission are skipped.
func (m *RoleModel) ToDomain() *identity.Role {
	r := &identity.Role{
		Code:        m.Code,
		Name:        m.Name,
		Description: m.Description,
		IsSystem:    m.IsSystem,
		IsEnabled:   m.IsEnabled,
		Permissions: make([]identity.Permission, 0, len(m.Permissions)),
	}
	m.PopulateTenantAggregateRoot(&r.TenantAggregateRoot)

	for i := range m.Permissions {
		perm, err := identity.NewPermissionFromCode(m.Permissions[i].PermissionCode)
		if err != nil {
			continue
		}
		r.Permissions = append(r.Permissions, perm)
	}
	return r
}

// FromDomain populates the persistence model from a domain Role entity.
func (m *RoleModel) FromDomain(r *identity.Role) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.Code = r.Code
	m.Name = r.Name
	m.Description = r.Description
	m.IsSystem = r.IsSystem
	m.IsEnabled = r.IsEnabled

	m.Permissions = make([]RolePermissionModel, len(r.Permissions))
	for i := range r.Permissions {
		m.Permissions[i] = RolePermissionModel{
			RoleID:         r.GetID(),
			PermissionCode: r.Permissions[i].Code,
			TenantID:       r.TenantID,
		}
	}
}

// RoleModelFromDomain creates a new persistence model from a domain Role entity.
func RoleModelFromDomain(r *identity.Role) *RoleModel {
	m := &RoleModel{}
	m.FromDomain(r)
	return m
}

// RolePermissionModel is the persistence model for a granted permission.
type RolePermissionModel struct {
	RoleID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	PermissionCode string    `gorm:"type:varchar(100);primaryKey"`
	TenantID       uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (RolePermissionModel) TableName() string {
	return "role_permissions"
}

// TenantModel is the persistence model for the Tenant aggregate root.
type TenantModel struct {
	AggregateModel
	Code         string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string                `gorm:"type:varchar(200);not null"`
	Status       identity.TenantStatus `gorm:"type:tenant_status;not null;default:'active';index"`
	ContactName  string                `gorm:"type:varchar(200)"`
	ContactEmail string                `gorm:"type:varchar(200)"`
	ContactPhone string                `gorm:"type:varchar(50)"`
	Country      string                `gorm:"type:char(2)"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant entity.
func (m *TenantModel) ToDomain() *identity.Tenant {
	return &identity.Tenant{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Code:         m.Code,
		Name:         m.Name,
		Status:       m.Status,
		ContactName:  m.ContactName,
		ContactEmail: m.ContactEmail,
		ContactPhone: m.ContactPhone,
		Country:      m.Country,
	}
}

// FromDomain populates the persistence model from a domain Tenant entity.
func (m *TenantModel) FromDomain(t *identity.Tenant) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Code = t.Code
	m.Name = t.Name
	m.Status = t.Status
	m.ContactName = t.ContactName
	m.ContactEmail = t.ContactEmail
	m.ContactPhone = t.ContactPhone
	m.Country = t.Country
}

// TenantModelFromDomain creates a new persistence model from a domain Tenant entity.
func TenantModelFromDomain(t *identity.Tenant) *TenantModel {
	m := &TenantModel{}
	m.FromDomain(t)
	return m
}
