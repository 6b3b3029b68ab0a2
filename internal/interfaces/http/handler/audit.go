package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	auditapp "github.com/tms/backend/internal/application/audit"
)

// AuditHandler handles audit trail API endpoints
type AuditHandler struct {
	BaseHandler
	auditService *auditapp.AuditService
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditService *auditapp.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// GetEntityHistory lists the audit entries of a single entity, newest first
func (h *AuditHandler) GetEntityHistory(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	entityType := c.Param("entityType")
	entityID, err := parseUUIDParam(c, "entityId")
	if err != nil {
		h.BadRequest(c, "Invalid entity ID")
		return
	}
	filter, err := listFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.auditService.GetEntityHistory(c.Request.Context(), tenantID, entityType, entityID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// GetTenantTrail lists the tenant's audit trail, newest first
func (h *AuditHandler) GetTenantTrail(c *gin.Context) {
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
	if action := c.Query("action"); action != "" {
		filter.Filters["action"] = action
	}
	if entityType := c.Query("entity_type"); entityType != "" {
		filter.Filters["entity_type"] = entityType
	}
	if raw := c.Query("actor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid actor ID")
			return
		}
		filter.Filters["actor_id"] = id
	}
	if raw := c.Query("occurred_after"); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.BadRequest(c, "Invalid occurred_after timestamp")
			return
		}
		filter.Filters["occurred_after"] = at
	}
	if raw := c.Query("occurred_before"); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.BadRequest(c, "Invalid occurred_before timestamp")
			return
		}
		filter.Filters["occurred_before"] = at
	}

	result, err := h.auditService.GetTenantTrail(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}
