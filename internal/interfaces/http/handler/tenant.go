package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/tms/backend/internal/application/identity"
)

// TenantHandler handles tenant provisioning API endpoints
type TenantHandler struct {
	BaseHandler
	tenantService *identityapp.TenantService
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenantService *identityapp.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// CreateTenantRequest is the request body for provisioning a tenant
type CreateTenantRequest struct {
	Code          string `json:"code" binding:"required,min=2,max=50"`
	Name          string `json:"name" binding:"required,max=255"`
	Country       string `json:"country" binding:"omitempty,len=2"`
	ContactName   string `json:"contact_name" binding:"max=255"`
	ContactEmail  string `json:"contact_email" binding:"omitempty,email"`
	ContactPhone  string `json:"contact_phone" binding:"max=20"`
	AdminUsername string `json:"admin_username" binding:"required,min=3,max=100"`
	AdminPassword string `json:"admin_password" binding:"required,min=8"`
}

// UpdateTenantRequest is the request body for updating tenant contact details
type UpdateTenantRequest struct {
	Name         *string `json:"name" binding:"omitempty,max=255"`
	Country      *string `json:"country" binding:"omitempty,len=2"`
	ContactName  *string `json:"contact_name" binding:"omitempty,max=255"`
	ContactEmail *string `json:"contact_email" binding:"omitempty,email"`
	ContactPhone *string `json:"contact_phone" binding:"omitempty,max=20"`
}

// Create provisions a new tenant with an admin role and admin user
func (h *TenantHandler) Create(c *gin.Context) {
	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.tenantService.CreateTenant(c.Request.Context(), identityapp.CreateTenantInput{
		Code:          req.Code,
		Name:          req.Name,
		Country:       req.Country,
		ContactName:   req.ContactName,
		ContactEmail:  req.ContactEmail,
		ContactPhone:  req.ContactPhone,
		AdminUsername: req.AdminUsername,
		AdminPassword: req.AdminPassword,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// Get returns a single tenant
func (h *TenantHandler) Get(c *gin.Context) {
	tenantID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	result, err := h.tenantService.GetTenant(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// List returns tenants matching the query
func (h *TenantHandler) List(c *gin.Context) {
	filter, err := listFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	result, err := h.tenantService.ListTenants(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}

// Update updates tenant contact details
func (h *TenantHandler) Update(c *gin.Context) {
	tenantID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	var req UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.tenantService.UpdateTenant(c.Request.Context(), identityapp.UpdateTenantInput{
		TenantID:     tenantID,
		Name:         req.Name,
		Country:      req.Country,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// Suspend suspends a tenant, blocking its users from logging in
func (h *TenantHandler) Suspend(c *gin.Context) {
	h.withTenant(c, func(ctx context.Context, tenantID uuid.UUID) error {
		return h.tenantService.SuspendTenant(ctx, tenantID)
	})
}

// Reactivate restores a suspended tenant
func (h *TenantHandler) Reactivate(c *gin.Context) {
	h.withTenant(c, func(ctx context.Context, tenantID uuid.UUID) error {
		return h.tenantService.ReactivateTenant(ctx, tenantID)
	})
}

func (h *TenantHandler) withTenant(c *gin.Context, fn func(ctx context.Context, tenantID uuid.UUID) error) {
	tenantID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	if err := fn(c.Request.Context(), tenantID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
