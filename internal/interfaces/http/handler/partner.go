package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	partnerapp "github.com/tms/backend/internal/application/partner"
)

// PartnerHandler handles partner API endpoints
type PartnerHandler struct {
	BaseHandler
	partnerService *partnerapp.PartnerService
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(partnerService *partnerapp.PartnerService) *PartnerHandler {
	return &PartnerHandler{partnerService: partnerService}
}

// CreatePartnerRequest is the request body for creating a partner
type CreatePartnerRequest struct {
	Code         string `json:"code" binding:"required,min=1,max=50"`
	Name         string `json:"name" binding:"required,min=1,max=200"`
	LegalName    string `json:"legal_name" binding:"max=200"`
	Type         string `json:"type" binding:"required,oneof=customer carrier supplier"`
	VATNumber    string `json:"vat_number" binding:"max=50"`
	EORINumber   string `json:"eori_number" binding:"max=50"`
	Currency     string `json:"currency" binding:"omitempty,len=3"`
	PaymentTerms int    `json:"payment_terms" binding:"omitempty,min=0,max=365"`
	Notes        string `json:"notes"`
}

// UpdatePartnerRequest is the request body for updating a partner
type UpdatePartnerRequest struct {
	Version      int     `json:"version" binding:"required,min=1"`
	Name         *string `json:"name" binding:"omitempty,min=1,max=200"`
	LegalName    *string `json:"legal_name" binding:"omitempty,max=200"`
	VATNumber    *string `json:"vat_number" binding:"omitempty,max=50"`
	EORINumber   *string `json:"eori_number" binding:"omitempty,max=50"`
	Currency     *string `json:"currency" binding:"omitempty,len=3"`
	PaymentTerms *int    `json:"payment_terms" binding:"omitempty,min=0,max=365"`
	Notes        *string `json:"notes"`
}

// Create creates a new partner
func (h *PartnerHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	var req CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	userID, _ := getUserID(c)

	result, err := h.partnerService.CreatePartner(c.Request.Context(), partnerapp.CreatePartnerInput{
		TenantID:     tenantID,
		Code:         req.Code,
		Name:         req.Name,
		LegalName:    req.LegalName,
		Type:         req.Type,
		VATNumber:    req.VATNumber,
		EORINumber:   req.EORINumber,
		Currency:     req.Currency,
		PaymentTerms: req.PaymentTerms,
		Notes:        req.Notes,
		CreatedBy:    userID,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// Get returns a single partner with its sub-entities
func (h *PartnerHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	partnerID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid partner ID")
		return
	}

	result, err := h.partnerService.GetPartner(c.Request.Context(), tenantID, partnerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// List returns partners matching the query
func (h *PartnerHandler) List(c *gin.Context) {
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
	if currency := c.Query("currency"); currency != "" {
		filter.Filters["currency"] = currency
	}
	if country := c.Query("country"); country != "" {
		filter.Filters["country"] = country
	}

	result, err := h.partnerService.ListPartners(c.Request.Context(), tenantID, c.Query("type"), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}

// Update updates a partner's descriptive fields
func (h *PartnerHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	partnerID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid partner ID")
		return
	}

	var req UpdatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.partnerService.UpdatePartner(c.Request.Context(), partnerapp.UpdatePartnerInput{
		TenantID:     tenantID,
		PartnerID:    partnerID,
		Version:      req.Version,
		Name:         req.Name,
		LegalName:    req.LegalName,
		VATNumber:    req.VATNumber,
		EORINumber:   req.EORINumber,
		Currency:     req.Currency,
		PaymentTerms: req.PaymentTerms,
		Notes:        req.Notes,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// Delete deletes a partner
func (h *PartnerHandler) Delete(c *gin.Context) {
	h.withPartner(c, func(tenantID, partnerID uuid.UUID) error {
		return h.partnerService.DeletePartner(c.Request.Context(), tenantID, partnerID)
	})
}

// Activate activates a partner
func (h *PartnerHandler) Activate(c *gin.Context) {
	h.withPartner(c, func(tenantID, partnerID uuid.UUID) error {
		return h.partnerService.ActivatePartner(c.Request.Context(), tenantID, partnerID)
	})
}

// Deactivate deactivates a partner
func (h *PartnerHandler) Deactivate(c *gin.Context) {
	h.withPartner(c, func(tenantID, partnerID uuid.UUID) error {
		return h.partnerService.DeactivatePartner(c.Request.Context(), tenantID, partnerID)
	})
}

// Block blocks a partner
func (h *PartnerHandler) Block(c *gin.Context) {
	h.withPartner(c, func(tenantID, partnerID uuid.UUID) error {
		return h.partnerService.BlockPartner(c.Request.Context(), tenantID, partnerID)
	})
}

// withPartner runs a tenant+partner scoped operation and replies 204 on success
func (h *PartnerHandler) withPartner(c *gin.Context, fn func(tenantID, partnerID uuid.UUID) error) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	partnerID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid partner ID")
		return
	}
	if err := fn(tenantID, partnerID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// AddAddressRequest is the request body for adding a partner address
type AddAddressRequest struct {
	Label          string `json:"label" binding:"max=100"`
	Street         string `json:"street" binding:"required,max=200"`
	Street2        string `json:"street2" binding:"max=200"`
	City           string `json:"city" binding:"required,max=100"`
	PostalCode     string `json:"postal_code" binding:"required,max=20"`
	Region         string `json:"region" binding:"max=100"`
	Country        string `json:"country" binding:"required,len=2"`
	IsHeadquarters bool   `json:"is_headquarters"`
	IsBilling      bool   `json:"is_billing"`
	IsShipping     bool   `json:"is_shipping"`
	IsOperational  bool   `json:"is_operational"`
}

// AddAddress adds an address to a partner
func (h *PartnerHandler) AddAddress(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	partnerID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid partner ID")
		return
	}
	var req AddAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.partnerService.AddAddress(c.Request.Context(), partnerapp.AddAddressInput{
		TenantID:       tenantID,
		PartnerID:      partnerID,
		Label:          req.Label,
		Street:         req.Street,
		Street2:        req.Street2,
		City:           req.City,
		PostalCode:     req.PostalCode,
		Region:         req.Region,
		Country:        req.Country,
		IsHeadquarters: req.IsHeadquarters,
		IsBilling:      req.IsBilling,
		IsShipping:     req.IsShipping,
		IsOperational:  req.IsOperational,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// RemoveAddress removes an address from a partner
func (h *PartnerHandler) RemoveAddress(c *gin.Context) {
	h.removeChild(c, "addressId", h.partnerService.RemoveAddress)
}

// AddContactRequest is the request body for adding a partner contact
type AddContactRequest struct {
	FirstName string `json:"first_name" binding:"max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
	Role      string `json:"role" binding:"max=100"`
	Email     string `json:"email" binding:"omitempty,email,max=200"`
	Phone     string `json:"phone" binding:"max=50"`
	Mobile    string `json:"mobile" binding:"max=50"`
	IsPrimary bool   `json:"is_primary"`
}

// AddContact adds a contact to a partner
func (h *PartnerHandler) AddContact(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	partnerID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid partner ID")
		return
	}
	var req AddContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.partnerService.AddContact(c.Request.Context(), partnerapp.AddContactInput{
		TenantID:  tenantID,
		PartnerID: partnerID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		Email:     req.Email,
		Phone:     req.Phone,
		Mobile:    req.Mobile,
		IsPrimary: req.IsPrimary,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// SetPrimaryContact marks a contact as the partner's primary contact
func (h *PartnerHandler) SetPrimaryContact(c *gin.Context) {
	h.removeChild(c, "contactId", h.partnerService.SetPrimaryContact)
}

// RemoveContact removes a contact from a partner
func (h *PartnerHandler) RemoveContact(c *gin.Context) {
	h.removeChild(c, "contactId", h.partnerService.RemoveContact)
}

// AddSiteRequest is the request body for adding a partner site
type AddSiteRequest struct {
	Code         string   `json:"code" binding:"required,max=50"`
	Name         string   `json:"name" binding:"required,max=200"`
	Type         string   `json:"type" binding:"required,oneof=warehouse depot terminal port airport customer_site"`
	Street       string   `json:"street" binding:"max=200"`
	City         string   `json:"city" binding:"max=100"`
	PostalCode   string   `json:"postal_code" binding:"max=20"`
	Country      string   `json:"country" binding:"omitempty,len=2"`
	Latitude     *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude    *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
	OpeningHours string   `json:"opening_hours" binding:"max=200"`
}

// AddSite adds an operating site to a partner
func (h *PartnerHandler) AddSite(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	partnerID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid partner ID")
		return
	}
	var req AddSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.partnerService.AddSite(c.Request.Context(), partnerapp.AddSiteInput{
		TenantID:     tenantID,
		PartnerID:    partnerID,
		Code:         req.Code,
		Name:         req.Name,
		Type:         req.Type,
		Street:       req.Street,
		City:         req.City,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		OpeningHours: req.OpeningHours,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// RemoveSite removes a site from a partner
func (h *PartnerHandler) RemoveSite(c *gin.Context) {
	h.removeChild(c, "siteId", h.partnerService.RemoveSite)
}

// AddVehicleRequest is the request body for registering a vehicle
type AddVehicleRequest struct {
	LicensePlate   string          `json:"license_plate" binding:"required,max=20"`
	Type           string          `json:"type" binding:"required,oneof=van truck semi_trailer trailer container_chassis"`
	Make           string          `json:"make" binding:"max=100"`
	Model          string          `json:"model" binding:"max=100"`
	MaxWeightKg    decimal.Decimal `json:"max_weight_kg"`
	MaxVolumeM3    decimal.Decimal `json:"max_volume_m3"`
	HasTailLift    bool            `json:"has_tail_lift"`
	HasRefrigerate bool            `json:"has_refrigerate"`
	ADRCertified   bool            `json:"adr_certified"`
}

// AddVehicle registers a vehicle with a carrier partner
func (h *PartnerHandler) AddVehicle(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	partnerID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid partner ID")
		return
	}
	var req AddVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.partnerService.AddVehicle(c.Request.Context(), partnerapp.AddVehicleInput{
		TenantID:       tenantID,
		PartnerID:      partnerID,
		LicensePlate:   req.LicensePlate,
		Type:           req.Type,
		Make:           req.Make,
		Model:          req.Model,
		MaxWeightKg:    req.MaxWeightKg,
		MaxVolumeM3:    req.MaxVolumeM3,
		HasTailLift:    req.HasTailLift,
		HasRefrigerate: req.HasRefrigerate,
		ADRCertified:   req.ADRCertified,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// RemoveVehicle removes a vehicle from a carrier partner
func (h *PartnerHandler) RemoveVehicle(c *gin.Context) {
	h.removeChild(c, "vehicleId", h.partnerService.RemoveVehicle)
}

// AddDriverRequest is the request body for registering a driver
type AddDriverRequest struct {
	FirstName        string     `json:"first_name" binding:"max=100"`
	LastName         string     `json:"last_name" binding:"required,max=100"`
	LicenseNumber    string     `json:"license_number" binding:"required,max=50"`
	LicenseClasses   string     `json:"license_classes" binding:"max=50"`
	LicenseExpiresAt *time.Time `json:"license_expires_at"`
	ADRCertified     bool       `json:"adr_certified"`
	ADRExpiresAt     *time.Time `json:"adr_expires_at"`
	Phone            string     `json:"phone" binding:"max=50"`
}

// AddDriver registers a driver with a carrier partner
func (h *PartnerHandler) AddDriver(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	partnerID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid partner ID")
		return
	}
	var req AddDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.partnerService.AddDriver(c.Request.Context(), partnerapp.AddDriverInput{
		TenantID:         tenantID,
		PartnerID:        partnerID,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		LicenseNumber:    req.LicenseNumber,
		LicenseClasses:   req.LicenseClasses,
		LicenseExpiresAt: req.LicenseExpiresAt,
		ADRCertified:     req.ADRCertified,
		ADRExpiresAt:     req.ADRExpiresAt,
		Phone:            req.Phone,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// RemoveDriver removes a driver from a carrier partner
func (h *PartnerHandler) RemoveDriver(c *gin.Context) {
	h.removeChild(c, "driverId", h.partnerService.RemoveDriver)
}

// AttachDocumentRequest is the request body for attaching a document record
type AttachDocumentRequest struct {
	Type        string     `json:"type" binding:"required,oneof=contract insurance license certificate other"`
	Name        string     `json:"name" binding:"required,max=200"`
	StorageKey  string     `json:"storage_key" binding:"required,max=500"`
	ContentType string     `json:"content_type" binding:"max=100"`
	SizeBytes   int64      `json:"size_bytes" binding:"min=0"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

// AttachDocument attaches a document record to a partner
func (h *PartnerHandler) AttachDocument(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	partnerID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid partner ID")
		return
	}
	var req AttachDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.partnerService.AttachDocument(c.Request.Context(), partnerapp.AttachDocumentInput{
		TenantID:    tenantID,
		PartnerID:   partnerID,
		Type:        req.Type,
		Name:        req.Name,
		StorageKey:  req.StorageKey,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// RemoveDocument removes a document record from a partner
func (h *PartnerHandler) RemoveDocument(c *gin.Context) {
	h.removeChild(c, "documentId", h.partnerService.RemoveDocument)
}

// removeChild runs a child-entity operation keyed by partner ID and a child
// path parameter, replying 204 on success
func (h *PartnerHandler) removeChild(c *gin.Context, param string, fn func(ctx context.Context, tenantID, partnerID, childID uuid.UUID) error) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}
	partnerID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid partner ID")
		return
	}
	childID, err := parseUUIDParam(c, param)
	if err != nil {
		h.BadRequest(c, "Invalid "+param)
		return
	}
	if err := fn(c.Request.Context(), tenantID, partnerID, childID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
