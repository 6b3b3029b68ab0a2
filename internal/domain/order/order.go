package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the status of a transport order
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPlanned   OrderStatus = "planned"
	OrderStatusInTransit OrderStatus = "in_transit"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusInvoiced  OrderStatus = "invoiced"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid returns true for a known order status
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusConfirmed, OrderStatusPlanned,
		OrderStatusInTransit, OrderStatusDelivered, OrderStatusInvoiced, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	transitions := map[OrderStatus][]OrderStatus{
		OrderStatusDraft:     {OrderStatusConfirmed, OrderStatusCancelled},
		OrderStatusConfirmed: {OrderStatusPlanned, OrderStatusCancelled},
		OrderStatusPlanned:   {OrderStatusInTransit, OrderStatusCancelled},
		OrderStatusInTransit: {OrderStatusDelivered},
		OrderStatusDelivered: {OrderStatusInvoiced},
		OrderStatusInvoiced:  {},
		OrderStatusCancelled: {},
	}
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusInvoiced || s == OrderStatusCancelled
}

// Incoterm is a standardized international trade delivery-term code
type Incoterm string

const (
	IncotermEXW Incoterm = "EXW"
	IncotermFCA Incoterm = "FCA"
	IncotermFOB Incoterm = "FOB"
	IncotermCFR Incoterm = "CFR"
	IncotermCIF Incoterm = "CIF"
	IncotermCPT Incoterm = "CPT"
	IncotermCIP Incoterm = "CIP"
	IncotermDAP Incoterm = "DAP"
	IncotermDPU Incoterm = "DPU"
	IncotermDDP Incoterm = "DDP"
)

// IsValid returns true for a known incoterm
func (i Incoterm) IsValid() bool {
	switch i {
	case IncotermEXW, IncotermFCA, IncotermFOB, IncotermCFR, IncotermCIF,
		IncotermCPT, IncotermCIP, IncotermDAP, IncotermDPU, IncotermDDP:
		return true
	}
	return false
}

// Order is a customer transport order. It is the aggregate root owning
// its lines; lines are mutable only while the order is in draft.
type Order struct {
	shared.TenantAggregateRoot
	OrderNumber        string
	CustomerID         uuid.UUID // Partner of type customer
	Reference          string    // Customer's own reference
	Status             OrderStatus
	Incoterm           Incoterm
	OriginAddress      string
	OriginCountry      string
	DestinationAddress string
	DestinationCountry string
	RequestedPickupAt  *time.Time
	RequestedDeliveryAt *time.Time
	Currency           valueobject.Currency
	DeclaredValue      valueobject.Money
	Notes              string
	ShipmentID         *uuid.UUID // Set once the order is converted to a shipment
	Lines              []OrderLine
}

// NewOrder creates a new draft order
func NewOrder(tenantID, customerID uuid.UUID, orderNumber string) (*Order, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}

	o := &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		CustomerID:          customerID,
		Status:              OrderStatusDraft,
		Currency:            valueobject.DefaultCurrency,
		DeclaredValue:       valueobject.ZeroEUR(),
		Lines:               make([]OrderLine, 0),
	}

	o.AddDomainEvent(NewOrderCreatedEvent(o))

	return o, nil
}

// SetRoute sets the origin and destination of the order
func (o *Order) SetRoute(originAddress, originCountry, destAddress, destCountry string) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Route can only be changed on draft orders")
	}
	originCountry = strings.ToUpper(strings.TrimSpace(originCountry))
	destCountry = strings.ToUpper(strings.TrimSpace(destCountry))
	if len(originCountry) != 2 || len(destCountry) != 2 {
		return shared.NewDomainError("INVALID_ROUTE", "Countries must be two-letter ISO codes")
	}

	o.OriginAddress = strings.TrimSpace(originAddress)
	o.OriginCountry = originCountry
	o.DestinationAddress = strings.TrimSpace(destAddress)
	o.DestinationCountry = destCountry
	o.Touch()
	o.IncrementVersion()
	return nil
}

// SetIncoterm sets the delivery term
func (o *Order) SetIncoterm(incoterm Incoterm) error {
	if !incoterm.IsValid() {
		return shared.NewDomainError("INVALID_INCOTERM", "Unknown incoterm")
	}
	o.Incoterm = incoterm
	o.Touch()
	o.IncrementVersion()
	return nil
}

// SetRequestedDates sets the requested pickup and delivery windows
func (o *Order) SetRequestedDates(pickupAt, deliveryAt *time.Time) error {
	if pickupAt != nil && deliveryAt != nil && deliveryAt.Before(*pickupAt) {
		return shared.NewDomainError("INVALID_DATES", "Requested delivery cannot precede requested pickup")
	}
	o.RequestedPickupAt = pickupAt
	o.RequestedDeliveryAt = deliveryAt
	o.Touch()
	o.IncrementVersion()
	return nil
}

// AddLine appends a line to a draft order. Line numbers are assigned in
// insertion order and preserved on read-back.
func (o *Order) AddLine(line OrderLine) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Lines can only be added to draft orders")
	}
	if err := line.Validate(); err != nil {
		return err
	}

	line.OrderID = o.ID
	line.LineNumber = len(o.Lines) + 1
	o.Lines = append(o.Lines, line)
	o.Touch()
	o.IncrementVersion()
	return nil
}

// UpdateLine replaces an existing line, keeping its line number
func (o *Order) UpdateLine(lineID uuid.UUID, updated OrderLine) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Lines can only be updated on draft orders")
	}
	if err := updated.Validate(); err != nil {
		return err
	}

	for i, l := range o.Lines {
		if l.ID == lineID {
			updated.ID = l.ID
			updated.OrderID = o.ID
			updated.LineNumber = l.LineNumber
			updated.CreatedAt = l.CreatedAt
			updated.UpdatedAt = time.Now()
			o.Lines[i] = updated
			o.Touch()
			o.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// RemoveLine removes a line and renumbers the remainder
func (o *Order) RemoveLine(lineID uuid.UUID) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Lines can only be removed from draft orders")
	}

	for i, l := range o.Lines {
		if l.ID == lineID {
			o.Lines = append(o.Lines[:i], o.Lines[i+1:]...)
			for j := range o.Lines {
				o.Lines[j].LineNumber = j + 1
			}
			o.Touch()
			o.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// TotalWeightKg sums the gross weight of all lines, normalized to kilograms
func (o *Order) TotalWeightKg() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.WeightInKg())
	}
	return total
}

// HasDangerousGoods returns true if any line carries dangerous goods
func (o *Order) HasDangerousGoods() bool {
	for _, l := range o.Lines {
		if l.IsDangerousGoods {
			return true
		}
	}
	return false
}

// Confirm confirms a draft order. At least one line is required.
func (o *Order) Confirm() error {
	if !o.Status.CanTransitionTo(OrderStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be confirmed from status "+string(o.Status))
	}
	if len(o.Lines) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Cannot confirm an order without lines")
	}

	o.transition(OrderStatusConfirmed)
	return nil
}

// MarkPlanned records that the order has been planned into a shipment
func (o *Order) MarkPlanned(shipmentID uuid.UUID) error {
	if !o.Status.CanTransitionTo(OrderStatusPlanned) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be planned from status "+string(o.Status))
	}
	if shipmentID == uuid.Nil {
		return shared.NewDomainError("INVALID_SHIPMENT", "Shipment ID cannot be empty")
	}

	o.ShipmentID = &shipmentID
	o.transition(OrderStatusPlanned)
	return nil
}

// MarkInTransit records the start of physical transport
func (o *Order) MarkInTransit() error {
	if !o.Status.CanTransitionTo(OrderStatusInTransit) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot move to in_transit from status "+string(o.Status))
	}
	o.transition(OrderStatusInTransit)
	return nil
}

// MarkDelivered records delivery completion
func (o *Order) MarkDelivered() error {
	if !o.Status.CanTransitionTo(OrderStatusDelivered) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be delivered from status "+string(o.Status))
	}
	o.transition(OrderStatusDelivered)
	return nil
}

// MarkInvoiced records that the order was billed
func (o *Order) MarkInvoiced() error {
	if !o.Status.CanTransitionTo(OrderStatusInvoiced) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be invoiced from status "+string(o.Status))
	}
	o.transition(OrderStatusInvoiced)
	return nil
}

// Cancel cancels the order
func (o *Order) Cancel() error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be cancelled from status "+string(o.Status))
	}
	o.transition(OrderStatusCancelled)
	return nil
}

func (o *Order) transition(target OrderStatus) {
	old := o.Status
	o.Status = target
	o.Touch()
	o.IncrementVersion()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, old, target))
}
