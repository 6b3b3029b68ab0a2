package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	refdataapp "github.com/tms/backend/internal/application/refdata"
)

// RefdataHandler handles reference data API endpoints
type RefdataHandler struct {
	BaseHandler
	entryService *refdataapp.EntryService
}

// NewRefdataHandler creates a new RefdataHandler
func NewRefdataHandler(entryService *refdataapp.EntryService) *RefdataHandler {
	return &RefdataHandler{entryService: entryService}
}

// CreateEntryRequest is the request body for creating a reference data entry
type CreateEntryRequest struct {
	Category  string  `json:"category" binding:"required,max=50"`
	Code      string  `json:"code" binding:"required,max=50"`
	Label     string  `json:"label" binding:"required,max=255"`
	SortOrder int     `json:"sort_order" binding:"min=0"`
	ParentID  *string `json:"parent_id" binding:"omitempty,uuid"`
	Metadata  string  `json:"metadata"`
}

// UpdateEntryRequest is the request body for updating an editable entry
type UpdateEntryRequest struct {
	Label     *string `json:"label" binding:"omitempty,max=255"`
	SortOrder *int    `json:"sort_order" binding:"omitempty,min=0"`
	ParentID  *string `json:"parent_id" binding:"omitempty,uuid"`
	Metadata  *string `json:"metadata"`
}

// Create creates a reference data entry
func (h *RefdataHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	parentID, err := parseOptionalUUID(req.ParentID)
	if err != nil {
		h.BadRequest(c, "Invalid parent ID")
		return
	}

	result, err := h.entryService.CreateEntry(c.Request.Context(), refdataapp.CreateEntryInput{
		TenantID:  tenantID,
		Category:  req.Category,
		Code:      req.Code,
		Label:     req.Label,
		SortOrder: req.SortOrder,
		ParentID:  parentID,
		Metadata:  req.Metadata,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// Get returns a single entry
func (h *RefdataHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	entryID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}
	result, err := h.entryService.GetEntry(c.Request.Context(), tenantID, entryID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// ResolveCode looks up an entry by category and code
func (h *RefdataHandler) ResolveCode(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	category := c.Param("category")
	code := c.Param("code")
	result, err := h.entryService.ResolveCode(c.Request.Context(), tenantID, category, code)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// ListCategory lists the entries of a category in display order
func (h *RefdataHandler) ListCategory(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	category := c.Param("category")
	includeInactive := c.Query("include_inactive") == "true"
	result, err := h.entryService.ListCategory(c.Request.Context(), tenantID, category, includeInactive)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// ListChildren lists the child entries of a hierarchical entry
func (h *RefdataHandler) ListChildren(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	parentID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}
	result, err := h.entryService.ListChildren(c.Request.Context(), tenantID, parentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// Update updates an editable entry. System entries reject every mutation.
func (h *RefdataHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	entryID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}
	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	parentID, err := parseOptionalUUID(req.ParentID)
	if err != nil {
		h.BadRequest(c, "Invalid parent ID")
		return
	}

	result, err := h.entryService.UpdateEntry(c.Request.Context(), refdataapp.UpdateEntryInput{
		TenantID:  tenantID,
		EntryID:   entryID,
		Label:     req.Label,
		SortOrder: req.SortOrder,
		ParentID:  parentID,
		Metadata:  req.Metadata,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// Deactivate hides an editable entry from pickers
func (h *RefdataHandler) Deactivate(c *gin.Context) {
	h.withEntry(c, func(ctx context.Context, tenantID, entryID uuid.UUID) error {
		return h.entryService.DeactivateEntry(ctx, tenantID, entryID)
	})
}

// Reactivate restores a deactivated entry
func (h *RefdataHandler) Reactivate(c *gin.Context) {
	h.withEntry(c, func(ctx context.Context, tenantID, entryID uuid.UUID) error {
		return h.entryService.ReactivateEntry(ctx, tenantID, entryID)
	})
}

func (h *RefdataHandler) withEntry(c *gin.Context, fn func(ctx context.Context, tenantID, entryID uuid.UUID) error) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	entryID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}
	if err := fn(c.Request.Context(), tenantID, entryID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
