package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/tms/backend/internal/application/identity"
)

// RoleHandler handles role management API endpoints
type RoleHandler struct {
	BaseHandler
	roleService *identityapp.RoleService
}

// NewRoleHandler creates a new RoleHandler
func NewRoleHandler(roleService *identityapp.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// CreateRoleRequest is the request body for creating a role
type CreateRoleRequest struct {
	Code        string   `json:"code" binding:"required,max=50"`
	Name        string   `json:"name" binding:"required,max=100"`
	Description string   `json:"description" binding:"max=255"`
	Permissions []string `json:"permissions" binding:"required,min=1"`
}

// UpdateRoleRequest is the request body for updating a role
type UpdateRoleRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=100"`
	Description *string  `json:"description" binding:"omitempty,max=255"`
	Permissions []string `json:"permissions"`
}

// Create creates a tenant-defined role
func (h *RoleHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.roleService.CreateRole(c.Request.Context(), identityapp.CreateRoleInput{
		TenantID:    tenantID,
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// Get returns a single role with its permissions
func (h *RoleHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	roleID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid role ID")
		return
	}
	result, err := h.roleService.GetRole(c.Request.Context(), tenantID, roleID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// List returns roles matching the query
func (h *RoleHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	filter, err := listFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if system := c.Query("is_system"); system != "" {
		filter.Filters["is_system"] = system == "true"
	}

	result, err := h.roleService.ListRoles(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}

// Update updates a role's name, description, and permission set
func (h *RoleHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	roleID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid role ID")
		return
	}
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.roleService.UpdateRole(c.Request.Context(), identityapp.UpdateRoleInput{
		TenantID:    tenantID,
		RoleID:      roleID,
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// Enable enables a disabled role
func (h *RoleHandler) Enable(c *gin.Context) {
	h.withRole(c, func(ctx context.Context, tenantID, roleID uuid.UUID) error {
		return h.roleService.EnableRole(ctx, tenantID, roleID)
	})
}

// Disable disables a role without removing its assignments
func (h *RoleHandler) Disable(c *gin.Context) {
	h.withRole(c, func(ctx context.Context, tenantID, roleID uuid.UUID) error {
		return h.roleService.DisableRole(ctx, tenantID, roleID)
	})
}

// Delete removes a tenant-defined role
func (h *RoleHandler) Delete(c *gin.Context) {
	h.withRole(c, func(ctx context.Context, tenantID, roleID uuid.UUID) error {
		return h.roleService.DeleteRole(ctx, tenantID, roleID)
	})
}

// ListPermissions returns the full permission catalog
func (h *RoleHandler) ListPermissions(c *gin.Context) {
	h.Success(c, h.roleService.ListPermissions(c.Request.Context()))
}

func (h *RoleHandler) withRole(c *gin.Context, fn func(ctx context.Context, tenantID, roleID uuid.UUID) error) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	roleID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid role ID")
		return
	}
	if err := fn(c.Request.Context(), tenantID, roleID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
