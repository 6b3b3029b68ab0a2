package event

import (
	"github.com/tms/backend/internal/domain/billing"
	"github.com/tms/backend/internal/domain/identity"
	"github.com/tms/backend/internal/domain/order"
	"github.com/tms/backend/internal/domain/partner"
	"github.com/tms/backend/internal/domain/pricing"
	"github.com/tms/backend/internal/domain/refdata"
	"github.com/tms/backend/internal/domain/shipment"
	"github.com/tms/backend/internal/domain/tour"
)

// RegisterAllEvents registers all domain event types with the serializer.
// This is required for the OutboxProcessor to deserialize events from the
// outbox table.
func RegisterAllEvents(serializer *EventSerializer) {
	// Partner domain events
	serializer.Register(partner.PartnerCreatedEventType, &partner.PartnerCreatedEvent{})
	serializer.Register(partner.PartnerStatusChangedEventType, &partner.PartnerStatusChangedEvent{})

	// Order domain events
	serializer.Register(order.OrderCreatedEventType, &order.OrderCreatedEvent{})
	serializer.Register(order.OrderStatusChangedEventType, &order.OrderStatusChangedEvent{})

	// Shipment domain events
	serializer.Register(shipment.ShipmentCreatedEventType, &shipment.ShipmentCreatedEvent{})
	serializer.Register(shipment.ShipmentStatusChangedEventType, &shipment.ShipmentStatusChangedEvent{})
	serializer.Register(shipment.ShipmentTrackedEventType, &shipment.ShipmentTrackedEvent{})

	// Billing domain events
	serializer.Register(billing.InvoiceCreatedEventType, &billing.InvoiceCreatedEvent{})
	serializer.Register(billing.InvoiceStatusChangedEventType, &billing.InvoiceStatusChangedEvent{})
	serializer.Register(billing.CarrierInvoiceReceivedEventType, &billing.CarrierInvoiceReceivedEvent{})
	serializer.Register(billing.CarrierInvoiceStatusChangedEventType, &billing.CarrierInvoiceStatusChangedEvent{})
	serializer.Register(billing.PaymentCreatedEventType, &billing.PaymentCreatedEvent{})
	serializer.Register(billing.PaymentStatusChangedEventType, &billing.PaymentStatusChangedEvent{})

	// Pricing domain events
	serializer.Register(pricing.ContractCreatedEventType, &pricing.ContractCreatedEvent{})
	serializer.Register(pricing.ContractStatusChangedEventType, &pricing.ContractStatusChangedEvent{})

	// Tour domain events
	serializer.Register(tour.TourCreatedEventType, &tour.TourCreatedEvent{})
	serializer.Register(tour.TourStatusChangedEventType, &tour.TourStatusChangedEvent{})
	serializer.Register(tour.TourStopsReorderedEventType, &tour.TourStopsReorderedEvent{})

	// Reference data events
	serializer.Register(refdata.EntryCreatedEventType, &refdata.EntryCreatedEvent{})
	serializer.Register(refdata.EntryDeactivatedEventType, &refdata.EntryDeactivatedEvent{})

	// Identity events
	serializer.Register(identity.TenantCreatedEventType, &identity.TenantCreatedEvent{})
	serializer.Register(identity.TenantStatusChangedEventType, &identity.TenantStatusChangedEvent{})
	serializer.Register(identity.UserCreatedEventType, &identity.UserCreatedEvent{})
	serializer.Register(identity.UserPasswordChangedEventType, &identity.UserPasswordChangedEvent{})
	serializer.Register(identity.UserRoleAssignedEventType, &identity.UserRoleAssignedEvent{})
	serializer.Register(identity.UserRoleRemovedEventType, &identity.UserRoleRemovedEvent{})
	serializer.Register(identity.UserStatusChangedEventType, &identity.UserStatusChangedEvent{})
	serializer.Register(identity.RoleCreatedEventType, &identity.RoleCreatedEvent{})
	serializer.Register(identity.RolePermissionGrantedEventType, &identity.RolePermissionGrantedEvent{})
	serializer.Register(identity.RolePermissionRevokedEventType, &identity.RolePermissionRevokedEvent{})
}
