package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pricingapp "github.com/tms/backend/internal/application/pricing"
)

// PricingRuleHandler handles pricing rule and quote API endpoints
type PricingRuleHandler struct {
	BaseHandler
	ruleService  *pricingapp.RuleService
	quoteService *pricingapp.QuoteService
}

// NewPricingRuleHandler creates a new PricingRuleHandler
func NewPricingRuleHandler(ruleService *pricingapp.RuleService, quoteService *pricingapp.QuoteService) *PricingRuleHandler {
	return &PricingRuleHandler{
		ruleService:  ruleService,
		quoteService: quoteService,
	}
}

// CreatePricingRuleRequest is the request body for creating a pricing rule
type CreatePricingRuleRequest struct {
	Name            string          `json:"name" binding:"required,max=255"`
	Priority        int             `json:"priority" binding:"min=0"`
	OriginZone      string          `json:"origin_zone" binding:"max=50"`
	DestinationZone string          `json:"destination_zone" binding:"max=50"`
	MinWeightKg     decimal.Decimal `json:"min_weight_kg"`
	DangerousGoods  *bool           `json:"dangerous_goods"`
	Action          string          `json:"action" binding:"required,oneof=discount_percent markup_percent"`
	Percent         decimal.Decimal `json:"percent" binding:"required"`
}

// QuoteRequest is the request body for pricing a transport request
type QuoteRequest struct {
	PartnerID       string          `json:"partner_id" binding:"required,uuid"`
	ContractID      *string         `json:"contract_id" binding:"omitempty,uuid"`
	Mode            string          `json:"mode" binding:"required,oneof=road rail sea air inland_waterway"`
	OriginZone      string          `json:"origin_zone" binding:"required,max=50"`
	DestinationZone string          `json:"destination_zone" binding:"required,max=50"`
	WeightKg        decimal.Decimal `json:"weight_kg"`
	DistanceKm      decimal.Decimal `json:"distance_km"`
	PalletCount     int             `json:"pallet_count" binding:"min=0"`
	DangerousGoods  bool            `json:"dangerous_goods"`
	At              *time.Time      `json:"at"`
}

// Create creates an enabled pricing rule
func (h *PricingRuleHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	var req CreatePricingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.ruleService.CreateRule(c.Request.Context(), pricingapp.CreateRuleInput{
		TenantID:        tenantID,
		Name:            req.Name,
		Priority:        req.Priority,
		OriginZone:      req.OriginZone,
		DestinationZone: req.DestinationZone,
		MinWeightKg:     req.MinWeightKg,
		DangerousGoods:  req.DangerousGoods,
		Action:          req.Action,
		Percent:         req.Percent,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// Get returns a single pricing rule
func (h *PricingRuleHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	ruleID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid rule ID")
		return
	}
	result, err := h.ruleService.GetRule(c.Request.Context(), tenantID, ruleID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// List returns pricing rules matching the query
func (h *PricingRuleHandler) List(c *gin.Context) {
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
	if enabled := c.Query("is_enabled"); enabled != "" {
		filter.Filters["is_enabled"] = enabled == "true"
	}
	if action := c.Query("action"); action != "" {
		filter.Filters["action"] = action
	}

	result, err := h.ruleService.ListRules(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}

// Enable switches a rule on
func (h *PricingRuleHandler) Enable(c *gin.Context) {
	h.withRule(c, func(ctx context.Context, tenantID, ruleID uuid.UUID) error {
		return h.ruleService.EnableRule(ctx, tenantID, ruleID)
	})
}

// Disable switches a rule off without deleting it
func (h *PricingRuleHandler) Disable(c *gin.Context) {
	h.withRule(c, func(ctx context.Context, tenantID, ruleID uuid.UUID) error {
		return h.ruleService.DisableRule(ctx, tenantID, ruleID)
	})
}

// Delete removes a pricing rule
func (h *PricingRuleHandler) Delete(c *gin.Context) {
	h.withRule(c, func(ctx context.Context, tenantID, ruleID uuid.UUID) error {
		return h.ruleService.DeleteRule(ctx, tenantID, ruleID)
	})
}

// Quote prices a transport request against the partner's contracts
func (h *PricingRuleHandler) Quote(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	partnerID, err := uuid.Parse(req.PartnerID)
	if err != nil {
		h.BadRequest(c, "Invalid partner ID")
		return
	}
	contractID, err := parseOptionalUUID(req.ContractID)
	if err != nil {
		h.BadRequest(c, "Invalid contract ID")
		return
	}
	at := time.Now()
	if req.At != nil {
		at = *req.At
	}

	result, err := h.quoteService.Quote(c.Request.Context(), pricingapp.QuoteInput{
		TenantID:        tenantID,
		PartnerID:       partnerID,
		ContractID:      contractID,
		Mode:            req.Mode,
		OriginZone:      req.OriginZone,
		DestinationZone: req.DestinationZone,
		WeightKg:        req.WeightKg,
		DistanceKm:      req.DistanceKm,
		PalletCount:     req.PalletCount,
		DangerousGoods:  req.DangerousGoods,
		At:              at,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

func (h *PricingRuleHandler) withRule(c *gin.Context, fn func(ctx context.Context, tenantID, ruleID uuid.UUID) error) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	ruleID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid rule ID")
		return
	}
	if err := fn(c.Request.Context(), tenantID, ruleID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
