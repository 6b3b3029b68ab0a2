package router

import (
	"github.com/gin-gonic/gin"

	"github.com/tms/backend/internal/domain/identity"
	"github.com/tms/backend/internal/interfaces/http/handler"
	"github.com/tms/backend/internal/interfaces/http/middleware"
)

// Handlers bundles every API handler for route registration
type Handlers struct {
	Auth           *handler.AuthHandler
	User           *handler.UserHandler
	Role           *handler.RoleHandler
	Tenant         *handler.TenantHandler
	Partner        *handler.PartnerHandler
	Order          *handler.OrderHandler
	Shipment       *handler.ShipmentHandler
	Invoice        *handler.InvoiceHandler
	CarrierInvoice *handler.CarrierInvoiceHandler
	Payment        *handler.PaymentHandler
	Contract       *handler.ContractHandler
	PricingRule    *handler.PricingRuleHandler
	Tour           *handler.TourHandler
	Refdata        *handler.RefdataHandler
	Audit          *handler.AuditHandler
	Outbox         *handler.OutboxHandler
}

// perm builds the permission middleware for a resource/action pair. Routes
// reference the declared resource catalog so a typo cannot slip through.
func perm(resource identity.Resource, action identity.Action) gin.HandlerFunc {
	return middleware.RequirePermission(identity.NewPermission(resource, action).Code)
}

// RegisterAll wires every domain route group onto the router. Authentication
// is applied by the router-level JWT middleware; per-route authorization is
// enforced here.
func RegisterAll(r *Router, h Handlers) {
	r.Register(authRoutes(h)).
		Register(identityRoutes(h)).
		Register(partnerRoutes(h)).
		Register(orderRoutes(h)).
		Register(shipmentRoutes(h)).
		Register(billingRoutes(h)).
		Register(pricingRoutes(h)).
		Register(tourRoutes(h)).
		Register(refdataRoutes(h)).
		Register(auditRoutes(h)).
		Register(systemRoutes(h))
}

func authRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("auth", "/auth")
	g.POST("/login", h.Auth.Login)
	g.POST("/register", h.Auth.Register)
	g.POST("/refresh", h.Auth.RefreshToken)
	g.POST("/forgot-password", h.Auth.ForgotPassword)
	g.POST("/reset-password", h.Auth.ResetPassword)
	g.POST("/logout", h.Auth.Logout)
	g.GET("/me", h.Auth.Me)
	g.PUT("/password", h.Auth.ChangePassword)
	return g
}

func identityRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("identity", "")

	g.POST("/users", perm(identity.ResourceUsers, identity.ActionCreate), h.User.Create)
	g.GET("/users", perm(identity.ResourceUsers, identity.ActionRead), h.User.List)
	g.GET("/users/:id", perm(identity.ResourceUsers, identity.ActionRead), h.User.Get)
	g.PUT("/users/:id", perm(identity.ResourceUsers, identity.ActionUpdate), h.User.Update)
	g.DELETE("/users/:id", perm(identity.ResourceUsers, identity.ActionDelete), h.User.Delete)
	g.POST("/users/:id/activate", perm(identity.ResourceUsers, identity.ActionUpdate), h.User.Activate)
	g.POST("/users/:id/deactivate", perm(identity.ResourceUsers, identity.ActionUpdate), h.User.Deactivate)
	g.POST("/users/:id/unlock", perm(identity.ResourceUsers, identity.ActionUpdate), h.User.Unlock)
	g.POST("/users/:id/reset-password", perm(identity.ResourceUsers, identity.ActionUpdate), h.User.ResetPassword)

	g.POST("/roles", perm(identity.ResourceRoles, identity.ActionCreate), h.Role.Create)
	g.GET("/roles", perm(identity.ResourceRoles, identity.ActionRead), h.Role.List)
	g.GET("/roles/:id", perm(identity.ResourceRoles, identity.ActionRead), h.Role.Get)
	g.PUT("/roles/:id", perm(identity.ResourceRoles, identity.ActionUpdate), h.Role.Update)
	g.DELETE("/roles/:id", perm(identity.ResourceRoles, identity.ActionDelete), h.Role.Delete)
	g.POST("/roles/:id/enable", perm(identity.ResourceRoles, identity.ActionUpdate), h.Role.Enable)
	g.POST("/roles/:id/disable", perm(identity.ResourceRoles, identity.ActionUpdate), h.Role.Disable)
	g.GET("/permissions", perm(identity.ResourceRoles, identity.ActionRead), h.Role.ListPermissions)

	g.POST("/tenants", perm(identity.ResourceTenants, identity.ActionCreate), h.Tenant.Create)
	g.GET("/tenants", perm(identity.ResourceTenants, identity.ActionRead), h.Tenant.List)
	g.GET("/tenants/:id", perm(identity.ResourceTenants, identity.ActionRead), h.Tenant.Get)
	g.PUT("/tenants/:id", perm(identity.ResourceTenants, identity.ActionUpdate), h.Tenant.Update)
	g.POST("/tenants/:id/suspend", perm(identity.ResourceTenants, identity.ActionUpdate), h.Tenant.Suspend)
	g.POST("/tenants/:id/reactivate", perm(identity.ResourceTenants, identity.ActionUpdate), h.Tenant.Reactivate)

	return g
}

func partnerRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("partners", "/partners")
	g.POST("", perm(identity.ResourcePartners, identity.ActionCreate), h.Partner.Create)
	g.GET("", perm(identity.ResourcePartners, identity.ActionRead), h.Partner.List)
	g.GET("/:id", perm(identity.ResourcePartners, identity.ActionRead), h.Partner.Get)
	g.PUT("/:id", perm(identity.ResourcePartners, identity.ActionUpdate), h.Partner.Update)
	g.DELETE("/:id", perm(identity.ResourcePartners, identity.ActionDelete), h.Partner.Delete)
	g.POST("/:id/activate", perm(identity.ResourcePartners, identity.ActionUpdate), h.Partner.Activate)
	g.POST("/:id/deactivate", perm(identity.ResourcePartners, identity.ActionUpdate), h.Partner.Deactivate)
	g.POST("/:id/block", perm(identity.ResourcePartners, identity.ActionUpdate), h.Partner.Block)

	g.POST("/:id/addresses", perm(identity.ResourcePartners, identity.ActionUpdate), h.Partner.AddAddress)
	g.DELETE("/:id/addresses/:addressId", perm(identity.ResourcePartners, identity.ActionUpdate), h.Partner.RemoveAddress)
	g.POST("/:id/contacts", perm(identity.ResourcePartners, identity.ActionUpdate), h.Partner.AddContact)
	g.POST("/:id/contacts/:contactId/primary", perm(identity.ResourcePartners, identity.ActionUpdate), h.Partner.SetPrimaryContact)
	g.DELETE("/:id/contacts/:contactId", perm(identity.ResourcePartners, identity.ActionUpdate), h.Partner.RemoveContact)
	g.POST("/:id/sites", perm(identity.ResourcePartners, identity.ActionUpdate), h.Partner.AddSite)
	g.DELETE("/:id/sites/:siteId", perm(identity.ResourcePartners, identity.ActionUpdate), h.Partner.RemoveSite)
	g.POST("/:id/vehicles", perm(identity.ResourcePartners, identity.ActionUpdate), h.Partner.AddVehicle)
	g.DELETE("/:id/vehicles/:vehicleId", perm(identity.ResourcePartners, identity.ActionUpdate), h.Partner.RemoveVehicle)
	g.POST("/:id/drivers", perm(identity.ResourcePartners, identity.ActionUpdate), h.Partner.AddDriver)
	g.DELETE("/:id/drivers/:driverId", perm(identity.ResourcePartners, identity.ActionUpdate), h.Partner.RemoveDriver)
	g.POST("/:id/documents", perm(identity.ResourceDocuments, identity.ActionCreate), h.Partner.AttachDocument)
	g.DELETE("/:id/documents/:documentId", perm(identity.ResourceDocuments, identity.ActionDelete), h.Partner.RemoveDocument)

	g.GET("/:id/bank-accounts", perm(identity.ResourceBankAccounts, identity.ActionRead), h.Payment.ListBankAccounts)
	return g
}

func orderRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("orders", "/orders")
	g.POST("", perm(identity.ResourceOrders, identity.ActionCreate), h.Order.Create)
	g.GET("", perm(identity.ResourceOrders, identity.ActionRead), h.Order.List)
	g.GET("/:id", perm(identity.ResourceOrders, identity.ActionRead), h.Order.Get)
	g.PUT("/:id", perm(identity.ResourceOrders, identity.ActionUpdate), h.Order.Update)
	g.DELETE("/:id", perm(identity.ResourceOrders, identity.ActionDelete), h.Order.Delete)
	g.POST("/:id/confirm", perm(identity.ResourceOrders, identity.ActionUpdate), h.Order.Confirm)
	g.POST("/:id/cancel", perm(identity.ResourceOrders, identity.ActionUpdate), h.Order.Cancel)
	g.POST("/:id/convert-to-shipment", perm(identity.ResourceShipments, identity.ActionCreate), h.Order.ConvertToShipment)
	g.POST("/:id/lines", perm(identity.ResourceOrders, identity.ActionUpdate), h.Order.AddLine)
	g.PUT("/:id/lines/:lineId", perm(identity.ResourceOrders, identity.ActionUpdate), h.Order.UpdateLine)
	g.DELETE("/:id/lines/:lineId", perm(identity.ResourceOrders, identity.ActionUpdate), h.Order.RemoveLine)
	return g
}

func shipmentRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("shipments", "/shipments")
	g.POST("", perm(identity.ResourceShipments, identity.ActionCreate), h.Shipment.Create)
	g.GET("", perm(identity.ResourceShipments, identity.ActionRead), h.Shipment.List)
	g.GET("/:id", perm(identity.ResourceShipments, identity.ActionRead), h.Shipment.Get)
	g.PUT("/:id", perm(identity.ResourceShipments, identity.ActionUpdate), h.Shipment.Update)
	g.DELETE("/:id", perm(identity.ResourceShipments, identity.ActionDelete), h.Shipment.Delete)
	g.POST("/:id/book", perm(identity.ResourceShipments, identity.ActionUpdate), h.Shipment.Book)
	g.POST("/:id/depart", perm(identity.ResourceShipments, identity.ActionUpdate), h.Shipment.Depart)
	g.POST("/:id/deliver", perm(identity.ResourceShipments, identity.ActionUpdate), h.Shipment.Deliver)
	g.POST("/:id/complete", perm(identity.ResourceShipments, identity.ActionUpdate), h.Shipment.Complete)
	g.POST("/:id/cancel", perm(identity.ResourceShipments, identity.ActionUpdate), h.Shipment.Cancel)

	g.POST("/:id/segments", perm(identity.ResourceShipments, identity.ActionUpdate), h.Shipment.AddSegment)
	g.PUT("/:id/segments/:segmentId", perm(identity.ResourceShipments, identity.ActionUpdate), h.Shipment.UpdateSegment)
	g.DELETE("/:id/segments/:segmentId", perm(identity.ResourceShipments, identity.ActionUpdate), h.Shipment.RemoveSegment)
	g.POST("/:id/segments/:segmentId/depart", perm(identity.ResourceShipments, identity.ActionUpdate), h.Shipment.RecordSegmentDeparture)
	g.POST("/:id/segments/:segmentId/arrive", perm(identity.ResourceShipments, identity.ActionUpdate), h.Shipment.RecordSegmentArrival)

	g.POST("/:id/units", perm(identity.ResourceShipments, identity.ActionUpdate), h.Shipment.AddUnit)
	g.DELETE("/:id/units/:unitId", perm(identity.ResourceShipments, identity.ActionUpdate), h.Shipment.RemoveUnit)

	g.POST("/:id/tracking-events", perm(identity.ResourceShipments, identity.ActionUpdate), h.Shipment.RecordTrackingEvent)

	g.POST("/:id/documents/upload-url", perm(identity.ResourceDocuments, identity.ActionCreate), h.Shipment.RequestDocumentUpload)
	g.POST("/:id/documents", perm(identity.ResourceDocuments, identity.ActionCreate), h.Shipment.AttachDocument)
	g.GET("/:id/documents/:documentId/download-url", perm(identity.ResourceDocuments, identity.ActionRead), h.Shipment.GetDocumentDownloadURL)
	g.DELETE("/:id/documents/:documentId", perm(identity.ResourceDocuments, identity.ActionDelete), h.Shipment.RemoveDocument)
	return g
}

func billingRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("billing", "")

	g.POST("/invoices", perm(identity.ResourceInvoices, identity.ActionCreate), h.Invoice.Create)
	g.GET("/invoices", perm(identity.ResourceInvoices, identity.ActionRead), h.Invoice.List)
	g.GET("/invoices/:id", perm(identity.ResourceInvoices, identity.ActionRead), h.Invoice.Get)
	g.PUT("/invoices/:id", perm(identity.ResourceInvoices, identity.ActionUpdate), h.Invoice.Update)
	g.DELETE("/invoices/:id", perm(identity.ResourceInvoices, identity.ActionDelete), h.Invoice.Delete)
	g.POST("/invoices/:id/lines", perm(identity.ResourceInvoices, identity.ActionUpdate), h.Invoice.AddLine)
	g.DELETE("/invoices/:id/lines/:lineId", perm(identity.ResourceInvoices, identity.ActionUpdate), h.Invoice.RemoveLine)
	g.POST("/invoices/:id/issue", perm(identity.ResourceInvoices, identity.ActionUpdate), h.Invoice.Issue)
	g.POST("/invoices/:id/send", perm(identity.ResourceInvoices, identity.ActionUpdate), h.Invoice.MarkSent)
	g.POST("/invoices/:id/cancel", perm(identity.ResourceInvoices, identity.ActionUpdate), h.Invoice.Cancel)

	g.POST("/carrier-invoices", perm(identity.ResourceCarrierInvoices, identity.ActionCreate), h.CarrierInvoice.Register)
	g.GET("/carrier-invoices", perm(identity.ResourceCarrierInvoices, identity.ActionRead), h.CarrierInvoice.List)
	g.GET("/carrier-invoices/:id", perm(identity.ResourceCarrierInvoices, identity.ActionRead), h.CarrierInvoice.Get)
	g.PUT("/carrier-invoices/:id", perm(identity.ResourceCarrierInvoices, identity.ActionUpdate), h.CarrierInvoice.Amend)
	g.POST("/carrier-invoices/:id/lines", perm(identity.ResourceCarrierInvoices, identity.ActionUpdate), h.CarrierInvoice.AddLine)
	g.POST("/carrier-invoices/:id/start-review", perm(identity.ResourceCarrierInvoices, identity.ActionUpdate), h.CarrierInvoice.StartReview)
	g.POST("/carrier-invoices/:id/lines/:lineId/anomalies", perm(identity.ResourceCarrierInvoices, identity.ActionUpdate), h.CarrierInvoice.FlagLineAnomaly)
	g.POST("/carrier-invoices/:id/validate", perm(identity.ResourceCarrierInvoices, identity.ActionUpdate), h.CarrierInvoice.Validate)
	g.POST("/carrier-invoices/:id/dispute", perm(identity.ResourceCarrierInvoices, identity.ActionUpdate), h.CarrierInvoice.Dispute)
	g.POST("/carrier-invoices/:id/resume-review", perm(identity.ResourceCarrierInvoices, identity.ActionUpdate), h.CarrierInvoice.ResumeReview)
	g.POST("/carrier-invoices/:id/approve", perm(identity.ResourceCarrierInvoices, identity.ActionApprove), h.CarrierInvoice.Approve)
	g.POST("/carrier-invoices/:id/reject", perm(identity.ResourceCarrierInvoices, identity.ActionApprove), h.CarrierInvoice.Reject)
	g.POST("/carrier-invoices/:id/mark-paid", perm(identity.ResourceCarrierInvoices, identity.ActionProcess), h.CarrierInvoice.MarkPaid)

	g.POST("/payments/incoming", perm(identity.ResourcePayments, identity.ActionCreate), h.Payment.CreateIncoming)
	g.POST("/payments/outgoing", perm(identity.ResourcePayments, identity.ActionCreate), h.Payment.CreateOutgoing)
	g.GET("/payments", perm(identity.ResourcePayments, identity.ActionRead), h.Payment.List)
	g.GET("/payments/:id", perm(identity.ResourcePayments, identity.ActionRead), h.Payment.Get)
	g.POST("/payments/:id/process", perm(identity.ResourcePayments, identity.ActionProcess), h.Payment.Process)
	g.POST("/payments/:id/complete", perm(identity.ResourcePayments, identity.ActionProcess), h.Payment.Complete)
	g.POST("/payments/:id/fail", perm(identity.ResourcePayments, identity.ActionProcess), h.Payment.Fail)

	g.POST("/bank-accounts", perm(identity.ResourceBankAccounts, identity.ActionCreate), h.Payment.AddBankAccount)
	g.POST("/bank-accounts/:id/deactivate", perm(identity.ResourceBankAccounts, identity.ActionUpdate), h.Payment.DeactivateBankAccount)

	return g
}

func pricingRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("pricing", "")

	g.POST("/contracts", perm(identity.ResourceContracts, identity.ActionCreate), h.Contract.Create)
	g.GET("/contracts", perm(identity.ResourceContracts, identity.ActionRead), h.Contract.List)
	g.GET("/contracts/:id", perm(identity.ResourceContracts, identity.ActionRead), h.Contract.Get)
	g.PUT("/contracts/:id", perm(identity.ResourceContracts, identity.ActionUpdate), h.Contract.Update)
	g.DELETE("/contracts/:id", perm(identity.ResourceContracts, identity.ActionDelete), h.Contract.Delete)
	g.POST("/contracts/:id/rates", perm(identity.ResourceRates, identity.ActionCreate), h.Contract.AddRate)
	g.DELETE("/contracts/:id/rates/:rateId", perm(identity.ResourceRates, identity.ActionDelete), h.Contract.RemoveRate)
	g.POST("/contracts/:id/surcharges", perm(identity.ResourceSurcharges, identity.ActionCreate), h.Contract.AddSurcharge)
	g.DELETE("/contracts/:id/surcharges/:surchargeId", perm(identity.ResourceSurcharges, identity.ActionDelete), h.Contract.RemoveSurcharge)
	g.POST("/contracts/:id/activate", perm(identity.ResourceContracts, identity.ActionUpdate), h.Contract.Activate)
	g.POST("/contracts/:id/expire", perm(identity.ResourceContracts, identity.ActionUpdate), h.Contract.Expire)
	g.POST("/contracts/:id/terminate", perm(identity.ResourceContracts, identity.ActionUpdate), h.Contract.Terminate)

	g.POST("/pricing-rules", perm(identity.ResourcePricingRules, identity.ActionCreate), h.PricingRule.Create)
	g.GET("/pricing-rules", perm(identity.ResourcePricingRules, identity.ActionRead), h.PricingRule.List)
	g.GET("/pricing-rules/:id", perm(identity.ResourcePricingRules, identity.ActionRead), h.PricingRule.Get)
	g.POST("/pricing-rules/:id/enable", perm(identity.ResourcePricingRules, identity.ActionUpdate), h.PricingRule.Enable)
	g.POST("/pricing-rules/:id/disable", perm(identity.ResourcePricingRules, identity.ActionUpdate), h.PricingRule.Disable)
	g.DELETE("/pricing-rules/:id", perm(identity.ResourcePricingRules, identity.ActionDelete), h.PricingRule.Delete)

	g.POST("/quotes", perm(identity.ResourceContracts, identity.ActionRead), h.PricingRule.Quote)

	return g
}

func tourRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("tours", "/tours")
	g.POST("", perm(identity.ResourceTours, identity.ActionCreate), h.Tour.Create)
	g.GET("", perm(identity.ResourceTours, identity.ActionRead), h.Tour.List)
	g.GET("/:id", perm(identity.ResourceTours, identity.ActionRead), h.Tour.Get)
	g.DELETE("/:id", perm(identity.ResourceTours, identity.ActionDelete), h.Tour.Delete)
	g.POST("/:id/vehicle", perm(identity.ResourceTours, identity.ActionUpdate), h.Tour.AssignVehicle)
	g.POST("/:id/driver", perm(identity.ResourceTours, identity.ActionUpdate), h.Tour.AssignDriver)
	g.POST("/:id/stops", perm(identity.ResourceTours, identity.ActionUpdate), h.Tour.AddStop)
	g.DELETE("/:id/stops/:stopId", perm(identity.ResourceTours, identity.ActionUpdate), h.Tour.RemoveStop)
	g.PUT("/:id/stops/order", perm(identity.ResourceTours, identity.ActionUpdate), h.Tour.ReorderStops)
	g.POST("/:id/optimize", perm(identity.ResourceTours, identity.ActionUpdate), h.Tour.OptimizeStops)
	g.POST("/:id/plan", perm(identity.ResourceTours, identity.ActionUpdate), h.Tour.Plan)
	g.POST("/:id/start", perm(identity.ResourceTours, identity.ActionUpdate), h.Tour.Start)
	g.POST("/:id/stops/:stopId/arrive", perm(identity.ResourceTours, identity.ActionUpdate), h.Tour.ArriveAtStop)
	g.POST("/:id/stops/:stopId/depart", perm(identity.ResourceTours, identity.ActionUpdate), h.Tour.DepartFromStop)
	g.POST("/:id/complete", perm(identity.ResourceTours, identity.ActionUpdate), h.Tour.Complete)
	g.POST("/:id/cancel", perm(identity.ResourceTours, identity.ActionUpdate), h.Tour.Cancel)
	return g
}

func refdataRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("reference-data", "/reference-data")
	g.POST("", perm(identity.ResourceReferenceData, identity.ActionCreate), h.Refdata.Create)
	g.GET("/categories/:category", perm(identity.ResourceReferenceData, identity.ActionRead), h.Refdata.ListCategory)
	g.GET("/categories/:category/codes/:code", perm(identity.ResourceReferenceData, identity.ActionRead), h.Refdata.ResolveCode)
	g.GET("/:id", perm(identity.ResourceReferenceData, identity.ActionRead), h.Refdata.Get)
	g.GET("/:id/children", perm(identity.ResourceReferenceData, identity.ActionRead), h.Refdata.ListChildren)
	g.PUT("/:id", perm(identity.ResourceReferenceData, identity.ActionUpdate), h.Refdata.Update)
	g.POST("/:id/deactivate", perm(identity.ResourceReferenceData, identity.ActionUpdate), h.Refdata.Deactivate)
	g.POST("/:id/reactivate", perm(identity.ResourceReferenceData, identity.ActionUpdate), h.Refdata.Reactivate)
	return g
}

func auditRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("audit-logs", "/audit-logs")
	g.GET("", perm(identity.ResourceAuditLogs, identity.ActionRead), h.Audit.GetTenantTrail)
	g.GET("/:entityType/:entityId", perm(identity.ResourceAuditLogs, identity.ActionRead), h.Audit.GetEntityHistory)
	return g
}

// systemRoutes exposes the outbox admin API. Dead letter inspection is part of
// the audit surface; retries mutate platform state and need tenant update.
func systemRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("system", "/system")
	g.GET("/outbox/stats", perm(identity.ResourceAuditLogs, identity.ActionRead), h.Outbox.Stats)
	g.GET("/outbox/dead-letters", perm(identity.ResourceAuditLogs, identity.ActionRead), h.Outbox.ListDeadLetters)
	g.GET("/outbox/entries/:id", perm(identity.ResourceAuditLogs, identity.ActionRead), h.Outbox.GetEntry)
	g.POST("/outbox/entries/:id/retry", perm(identity.ResourceTenants, identity.ActionUpdate), h.Outbox.RetryEntry)
	g.POST("/outbox/retry-all", perm(identity.ResourceTenants, identity.ActionUpdate), h.Outbox.RetryAll)
	return g
}
