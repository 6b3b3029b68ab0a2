package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pricingapp "github.com/tms/backend/internal/application/pricing"
)

// ContractHandler handles carrier contract API endpoints
type ContractHandler struct {
	BaseHandler
	contractService *pricingapp.ContractService
}

// NewContractHandler creates a new ContractHandler
func NewContractHandler(contractService *pricingapp.ContractService) *ContractHandler {
	return &ContractHandler{contractService: contractService}
}

// CreateContractRequest is the request body for creating a draft contract
type CreateContractRequest struct {
	PartnerID      string    `json:"partner_id" binding:"required,uuid"`
	ContractNumber string    `json:"contract_number" binding:"max=50"`
	Currency       string    `json:"currency" binding:"omitempty,len=3"`
	ValidFrom      time.Time `json:"valid_from" binding:"required"`
	ValidUntil     time.Time `json:"valid_until" binding:"required"`
	Description    string    `json:"description" binding:"max=500"`
}

// UpdateContractRequest is the request body for updating a draft contract
type UpdateContractRequest struct {
	Version     int        `json:"version" binding:"required,min=1"`
	ValidFrom   *time.Time `json:"valid_from"`
	ValidUntil  *time.Time `json:"valid_until"`
	Description *string    `json:"description" binding:"omitempty,max=500"`
}

// RateRequest is the request body for attaching a lane rate
type RateRequest struct {
	Mode            string          `json:"mode" binding:"required,oneof=road rail sea air inland_waterway"`
	OriginZone      string          `json:"origin_zone" binding:"required,max=50"`
	DestinationZone string          `json:"destination_zone" binding:"required,max=50"`
	Basis           string          `json:"basis" binding:"required,oneof=per_kg per_km per_pallet flat"`
	MinWeightKg     decimal.Decimal `json:"min_weight_kg"`
	MaxWeightKg     decimal.Decimal `json:"max_weight_kg"`
	Price           decimal.Decimal `json:"price" binding:"required"`
	MinimumCharge   decimal.Decimal `json:"minimum_charge"`
}

// SurchargeRequest is the request body for attaching a surcharge
type SurchargeRequest struct {
	Type        string          `json:"type" binding:"required,oneof=fuel toll dangerous_goods waiting_time handling customs other"`
	Calculation string          `json:"calculation" binding:"required,oneof=percent fixed"`
	Percent     decimal.Decimal `json:"percent"`
	FixedAmount decimal.Decimal `json:"fixed_amount"`
	Description string          `json:"description" binding:"max=255"`
}

// Create creates a new draft contract
func (h *ContractHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	var req CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	partnerID, err := uuid.Parse(req.PartnerID)
	if err != nil {
		h.BadRequest(c, "Invalid partner ID")
		return
	}

	result, err := h.contractService.CreateContract(c.Request.Context(), pricingapp.CreateContractInput{
		TenantID:       tenantID,
		PartnerID:      partnerID,
		ContractNumber: req.ContractNumber,
		Currency:       req.Currency,
		ValidFrom:      req.ValidFrom,
		ValidUntil:     req.ValidUntil,
		Description:    req.Description,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// Get returns a single contract with its rates and surcharges
func (h *ContractHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	contractID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid contract ID")
		return
	}
	result, err := h.contractService.GetContract(c.Request.Context(), tenantID, contractID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// List returns contracts matching the query
func (h *ContractHandler) List(c *gin.Context) {
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
	if raw := c.Query("partner_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid partner ID")
			return
		}
		filter.Filters["partner_id"] = id
	}
	if raw := c.Query("valid_at"); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.BadRequest(c, "Invalid valid_at timestamp")
			return
		}
		filter.Filters["valid_at"] = at
	}

	result, err := h.contractService.ListContracts(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}

// Update updates mutable fields of a draft contract
func (h *ContractHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	contractID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid contract ID")
		return
	}
	var req UpdateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.contractService.UpdateContract(c.Request.Context(), pricingapp.UpdateContractInput{
		TenantID:    tenantID,
		ContractID:  contractID,
		ValidFrom:   req.ValidFrom,
		ValidUntil:  req.ValidUntil,
		Description: req.Description,
		Version:     req.Version,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// AddRate attaches a lane rate to a draft contract
func (h *ContractHandler) AddRate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	contractID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid contract ID")
		return
	}
	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.contractService.AddRate(c.Request.Context(), pricingapp.AddRateInput{
		TenantID:        tenantID,
		ContractID:      contractID,
		Mode:            req.Mode,
		OriginZone:      req.OriginZone,
		DestinationZone: req.DestinationZone,
		Basis:           req.Basis,
		MinWeightKg:     req.MinWeightKg,
		MaxWeightKg:     req.MaxWeightKg,
		Price:           req.Price,
		MinimumCharge:   req.MinimumCharge,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// RemoveRate removes a rate from a draft contract
func (h *ContractHandler) RemoveRate(c *gin.Context) {
	h.withContractChild(c, "rateId", func(ctx context.Context, tenantID, contractID, rateID uuid.UUID) error {
		return h.contractService.RemoveRate(ctx, tenantID, contractID, rateID)
	})
}

// AddSurcharge attaches a surcharge to a draft contract
func (h *ContractHandler) AddSurcharge(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	contractID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid contract ID")
		return
	}
	var req SurchargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.contractService.AddSurcharge(c.Request.Context(), pricingapp.AddSurchargeInput{
		TenantID:    tenantID,
		ContractID:  contractID,
		Type:        req.Type,
		Calculation: req.Calculation,
		Percent:     req.Percent,
		FixedAmount: req.FixedAmount,
		Description: req.Description,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// RemoveSurcharge removes a surcharge from a draft contract
func (h *ContractHandler) RemoveSurcharge(c *gin.Context) {
	h.withContractChild(c, "surchargeId", func(ctx context.Context, tenantID, contractID, surchargeID uuid.UUID) error {
		return h.contractService.RemoveSurcharge(ctx, tenantID, contractID, surchargeID)
	})
}

// Activate puts a draft contract into force
func (h *ContractHandler) Activate(c *gin.Context) {
	h.withContract(c, func(ctx context.Context, tenantID, contractID uuid.UUID) error {
		return h.contractService.ActivateContract(ctx, tenantID, contractID)
	})
}

// Expire marks an active contract as past its validity
func (h *ContractHandler) Expire(c *gin.Context) {
	h.withContract(c, func(ctx context.Context, tenantID, contractID uuid.UUID) error {
		return h.contractService.ExpireContract(ctx, tenantID, contractID)
	})
}

// Terminate ends an active contract early
func (h *ContractHandler) Terminate(c *gin.Context) {
	h.withContract(c, func(ctx context.Context, tenantID, contractID uuid.UUID) error {
		return h.contractService.TerminateContract(ctx, tenantID, contractID)
	})
}

// Delete removes a draft contract
func (h *ContractHandler) Delete(c *gin.Context) {
	h.withContract(c, func(ctx context.Context, tenantID, contractID uuid.UUID) error {
		return h.contractService.DeleteContract(ctx, tenantID, contractID)
	})
}

func (h *ContractHandler) withContract(c *gin.Context, fn func(ctx context.Context, tenantID, contractID uuid.UUID) error) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	contractID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid contract ID")
		return
	}
	if err := fn(c.Request.Context(), tenantID, contractID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *ContractHandler) withContractChild(c *gin.Context, param string, fn func(ctx context.Context, tenantID, contractID, childID uuid.UUID) error) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	contractID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid contract ID")
		return
	}
	childID, err := parseUUIDParam(c, param)
	if err != nil {
		h.BadRequest(c, "Invalid "+param)
		return
	}
	if err := fn(c.Request.Context(), tenantID, contractID, childID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
