package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/tms/backend/internal/application/identity"
)

// UserHandler handles user management API endpoints
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUserRequest is the request body for creating a user
type CreateUserRequest struct {
	Username  string   `json:"username" binding:"required,min=3,max=100"`
	Password  string   `json:"password" binding:"required,min=8"`
	Email     string   `json:"email" binding:"omitempty,email"`
	Phone     string   `json:"phone" binding:"max=20"`
	FirstName string   `json:"first_name" binding:"max=100"`
	LastName  string   `json:"last_name" binding:"max=100"`
	RoleIDs   []string `json:"role_ids" binding:"omitempty,dive,uuid"`
	Activate  bool     `json:"activate"`
}

// UpdateUserRequest is the request body for updating a user
type UpdateUserRequest struct {
	Version   int      `json:"version" binding:"required,min=1"`
	Email     *string  `json:"email" binding:"omitempty,email"`
	Phone     *string  `json:"phone" binding:"omitempty,max=20"`
	FirstName *string  `json:"first_name" binding:"omitempty,max=100"`
	LastName  *string  `json:"last_name" binding:"omitempty,max=100"`
	RoleIDs   []string `json:"role_ids" binding:"omitempty,dive,uuid"`
}

// AdminResetPasswordRequest is the request body for an administrative password reset
type AdminResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// Create creates a new user
func (h *UserHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	roleIDs, err := parseUUIDList(req.RoleIDs)
	if err != nil {
		h.BadRequest(c, "Invalid role ID")
		return
	}
	var createdBy *uuid.UUID
	if userID, err := getUserID(c); err == nil {
		createdBy = &userID
	}

	result, err := h.userService.CreateUser(c.Request.Context(), identityapp.CreateUserInput{
		TenantID:  tenantID,
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		Phone:     req.Phone,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		RoleIDs:   roleIDs,
		Activate:  req.Activate,
		CreatedBy: createdBy,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// Get returns a single user
func (h *UserHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	userID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}
	result, err := h.userService.GetUser(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// List returns users matching the query
func (h *UserHandler) List(c *gin.Context) {
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
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if raw := c.Query("role_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid role ID")
			return
		}
		filter.Filters["role_id"] = id
	}

	result, err := h.userService.ListUsers(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}

// Update updates a user's profile and role assignments
func (h *UserHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	userID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	roleIDs, err := parseUUIDList(req.RoleIDs)
	if err != nil {
		h.BadRequest(c, "Invalid role ID")
		return
	}

	result, err := h.userService.UpdateUser(c.Request.Context(), identityapp.UpdateUserInput{
		TenantID:  tenantID,
		UserID:    userID,
		Email:     req.Email,
		Phone:     req.Phone,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		RoleIDs:   roleIDs,
		Version:   req.Version,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// Activate activates a user account
func (h *UserHandler) Activate(c *gin.Context) {
	h.withUser(c, func(ctx context.Context, tenantID, userID uuid.UUID) error {
		return h.userService.ActivateUser(ctx, tenantID, userID)
	})
}

// Deactivate deactivates a user account
func (h *UserHandler) Deactivate(c *gin.Context) {
	h.withUser(c, func(ctx context.Context, tenantID, userID uuid.UUID) error {
		return h.userService.DeactivateUser(ctx, tenantID, userID)
	})
}

// Unlock clears a lockout after failed login attempts
func (h *UserHandler) Unlock(c *gin.Context) {
	h.withUser(c, func(ctx context.Context, tenantID, userID uuid.UUID) error {
		return h.userService.UnlockUser(ctx, tenantID, userID)
	})
}

// ResetPassword sets a new password for the user
func (h *UserHandler) ResetPassword(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	userID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}
	var req AdminResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if err := h.userService.ResetPassword(c.Request.Context(), tenantID, userID, req.NewPassword); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete removes a user account
func (h *UserHandler) Delete(c *gin.Context) {
	h.withUser(c, func(ctx context.Context, tenantID, userID uuid.UUID) error {
		return h.userService.DeleteUser(ctx, tenantID, userID)
	})
}

func (h *UserHandler) withUser(c *gin.Context, fn func(ctx context.Context, tenantID, userID uuid.UUID) error) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	userID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}
	if err := fn(c.Request.Context(), tenantID, userID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
