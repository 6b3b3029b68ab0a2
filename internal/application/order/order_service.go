package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tms/backend/internal/domain/order"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/shared/valueobject"
	"github.com/tms/backend/internal/domain/shipment"
)

// OrderService handles the transport order use cases
type OrderService struct {
	orderRepo    order.OrderRepository
	shipmentRepo shipment.ShipmentRepository
	eventBus     shared.EventBus
	logger       *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo order.OrderRepository,
	shipmentRepo shipment.ShipmentRepository,
	eventBus shared.EventBus,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		shipmentRepo: shipmentRepo,
		eventBus:     eventBus,
		logger:       logger,
	}
}

// CreateOrderInput contains the input for creating an order
type CreateOrderInput struct {
	TenantID            uuid.UUID
	CustomerID          uuid.UUID
	OrderNumber         string // Generated when empty
	Reference           string
	Incoterm            string
	OriginAddress       string
	OriginCountry       string
	DestinationAddress  string
	DestinationCountry  string
	RequestedPickupAt   *time.Time
	RequestedDeliveryAt *time.Time
	Currency            string
	DeclaredValue       decimal.Decimal
	Notes               string
	CreatedBy           uuid.UUID
}

// CreateOrder creates a new draft order
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	number := input.OrderNumber
	if number == "" {
		number = generateNumber("ORD")
	} else if existing, err := s.orderRepo.FindByNumber(ctx, input.TenantID, number); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Order number is already taken")
	}

	o, err := order.NewOrder(input.TenantID, input.CustomerID, number)
	if err != nil {
		return nil, err
	}
	if input.OriginCountry != "" || input.DestinationCountry != "" {
		if err := o.SetRoute(input.OriginAddress, input.OriginCountry, input.DestinationAddress, input.DestinationCountry); err != nil {
			return nil, err
		}
	}
	if input.Incoterm != "" {
		if err := o.SetIncoterm(order.Incoterm(input.Incoterm)); err != nil {
			return nil, err
		}
	}
	if input.RequestedPickupAt != nil || input.RequestedDeliveryAt != nil {
		if err := o.SetRequestedDates(input.RequestedPickupAt, input.RequestedDeliveryAt); err != nil {
			return nil, err
		}
	}
	currency := valueobject.DefaultCurrency
	if input.Currency != "" {
		currency = valueobject.Currency(input.Currency)
	}
	o.Currency = currency
	declared, err := valueobject.NewMoney(input.DeclaredValue, currency)
	if err != nil {
		return nil, err
	}
	o.DeclaredValue = declared
	o.Reference = strings.TrimSpace(input.Reference)
	o.Notes = input.Notes
	if input.CreatedBy != uuid.Nil {
		o.SetCreatedBy(input.CreatedBy)
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		s.logger.Error("Failed to create order", zap.Error(err))
		return nil, err
	}
	s.publishEvents(ctx, o)

	s.logger.Info("Order created",
		zap.String("order_id", o.ID.String()),
		zap.String("order_number", o.OrderNumber))

	return toOrderDTO(o), nil
}

// GetOrder fetches an order by ID within a tenant
func (s *OrderService) GetOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderDTO, error) {
	o, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	return toOrderDTO(o), nil
}

// ListOrders lists a tenant's orders with pagination. When customerID is
// non-nil the listing is restricted to that customer.
func (s *OrderService) ListOrders(ctx context.Context, tenantID uuid.UUID, customerID *uuid.UUID, filter shared.Filter) (*shared.Paginated[OrderDTO], error) {
	var (
		orders []order.Order
		err    error
	)
	if customerID != nil {
		orders, err = s.orderRepo.FindByCustomer(ctx, tenantID, *customerID, filter)
	} else {
		orders, err = s.orderRepo.FindAllForTenant(ctx, tenantID, filter)
	}
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]OrderDTO, len(orders))
	for i := range orders {
		dtos[i] = *toOrderDTO(&orders[i])
	}
	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateOrderInput contains the input for updating a draft order
type UpdateOrderInput struct {
	TenantID            uuid.UUID
	OrderID             uuid.UUID
	Version             int
	Reference           *string
	Incoterm            *string
	OriginAddress       *string
	OriginCountry       *string
	DestinationAddress  *string
	DestinationCountry  *string
	RequestedPickupAt   *time.Time
	RequestedDeliveryAt *time.Time
	Notes               *string
}

// UpdateOrder updates an order's editable fields. The update is guarded by
// the aggregate version to detect concurrent edits.
func (s *OrderService) UpdateOrder(ctx context.Context, input UpdateOrderInput) (*OrderDTO, error) {
	o, err := s.orderRepo.FindByIDForTenant(ctx, input.TenantID, input.OrderID)
	if err != nil {
		return nil, err
	}

	if input.OriginAddress != nil || input.OriginCountry != nil ||
		input.DestinationAddress != nil || input.DestinationCountry != nil {
		originAddr := o.OriginAddress
		originCountry := o.OriginCountry
		destAddr := o.DestinationAddress
		destCountry := o.DestinationCountry
		if input.OriginAddress != nil {
			originAddr = *input.OriginAddress
		}
		if input.OriginCountry != nil {
			originCountry = *input.OriginCountry
		}
		if input.DestinationAddress != nil {
			destAddr = *input.DestinationAddress
		}
		if input.DestinationCountry != nil {
			destCountry = *input.DestinationCountry
		}
		if err := o.SetRoute(originAddr, originCountry, destAddr, destCountry); err != nil {
			return nil, err
		}
	}
	if input.Incoterm != nil {
		if err := o.SetIncoterm(order.Incoterm(*input.Incoterm)); err != nil {
			return nil, err
		}
	}
	if input.RequestedPickupAt != nil || input.RequestedDeliveryAt != nil {
		pickup := o.RequestedPickupAt
		delivery := o.RequestedDeliveryAt
		if input.RequestedPickupAt != nil {
			pickup = input.RequestedPickupAt
		}
		if input.RequestedDeliveryAt != nil {
			delivery = input.RequestedDeliveryAt
		}
		if err := o.SetRequestedDates(pickup, delivery); err != nil {
			return nil, err
		}
	}
	if input.Reference != nil {
		o.Reference = strings.TrimSpace(*input.Reference)
		o.Touch()
	}
	if input.Notes != nil {
		o.Notes = *input.Notes
		o.Touch()
	}

	if err := s.orderRepo.SaveWithLock(ctx, o, input.Version); err != nil {
		return nil, err
	}

	return toOrderDTO(o), nil
}

// AddLineInput contains the input for adding an order line
type AddLineInput struct {
	TenantID         uuid.UUID
	OrderID          uuid.UUID
	Description      string
	Quantity         int
	PackageType      string
	WeightValue      decimal.Decimal
	WeightUnit       string
	VolumeValue      decimal.Decimal
	VolumeUnit       string
	Length           decimal.Decimal
	Width            decimal.Decimal
	Height           decimal.Decimal
	DimensionUnit    string
	IsDangerousGoods bool
	UNNumber         string
	DGClass          string
	IsCustomsGoods   bool
	HSCode           string
}

// AddLine adds a line to a draft order
func (s *OrderService) AddLine(ctx context.Context, input AddLineInput) (*OrderDTO, error) {
	o, err := s.orderRepo.FindByIDForTenant(ctx, input.TenantID, input.OrderID)
	if err != nil {
		return nil, err
	}

	line := buildLine(input)
	if err := o.AddLine(line); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}
	return toOrderDTO(o), nil
}

// UpdateLine replaces a line on a draft order, keeping its line number
func (s *OrderService) UpdateLine(ctx context.Context, lineID uuid.UUID, input AddLineInput) (*OrderDTO, error) {
	o, err := s.orderRepo.FindByIDForTenant(ctx, input.TenantID, input.OrderID)
	if err != nil {
		return nil, err
	}

	line := buildLine(input)
	if err := o.UpdateLine(lineID, line); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}
	return toOrderDTO(o), nil
}

// RemoveLine removes a line from a draft order
func (s *OrderService) RemoveLine(ctx context.Context, tenantID, orderID, lineID uuid.UUID) error {
	return s.mutate(ctx, tenantID, orderID, func(o *order.Order) error {
		return o.RemoveLine(lineID)
	})
}

// ConfirmOrder confirms a draft order
func (s *OrderService) ConfirmOrder(ctx context.Context, tenantID, orderID uuid.UUID) error {
	return s.mutate(ctx, tenantID, orderID, func(o *order.Order) error { return o.Confirm() })
}

// CancelOrder cancels an order
func (s *OrderService) CancelOrder(ctx context.Context, tenantID, orderID uuid.UUID) error {
	return s.mutate(ctx, tenantID, orderID, func(o *order.Order) error { return o.Cancel() })
}

// ConvertToShipment creates a shipment from a confirmed order. The order
// route and requested dates seed the shipment plan; the order moves to
// planned and records the shipment reference.
func (s *OrderService) ConvertToShipment(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderDTO, error) {
	o, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != order.OrderStatusConfirmed {
		return nil, shared.NewDomainError("INVALID_STATE", "Only confirmed orders can be converted to shipments")
	}

	shp, err := shipment.NewShipmentFromOrder(tenantID, o.ID, generateNumber("SHP"))
	if err != nil {
		return nil, err
	}
	if o.OriginCountry != "" && o.DestinationCountry != "" {
		if err := shp.SetRoute(o.OriginAddress, o.OriginCountry, o.DestinationAddress, o.DestinationCountry); err != nil {
			return nil, err
		}
	}
	if o.RequestedPickupAt != nil || o.RequestedDeliveryAt != nil {
		if err := shp.SetPlannedDates(o.RequestedPickupAt, o.RequestedDeliveryAt); err != nil {
			return nil, err
		}
	}
	shp.CreatedBy = o.CreatedBy

	if err := s.shipmentRepo.Save(ctx, shp); err != nil {
		s.logger.Error("Failed to create shipment from order", zap.Error(err))
		return nil, err
	}

	if err := o.MarkPlanned(shp.ID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, o)

	s.logger.Info("Order converted to shipment",
		zap.String("order_id", o.ID.String()),
		zap.String("shipment_id", shp.ID.String()))

	return toOrderDTO(o), nil
}

// MarkInTransit records the start of transport for the order
func (s *OrderService) MarkInTransit(ctx context.Context, tenantID, orderID uuid.UUID) error {
	return s.mutate(ctx, tenantID, orderID, func(o *order.Order) error { return o.MarkInTransit() })
}

// MarkDelivered records delivery completion for the order
func (s *OrderService) MarkDelivered(ctx context.Context, tenantID, orderID uuid.UUID) error {
	return s.mutate(ctx, tenantID, orderID, func(o *order.Order) error { return o.MarkDelivered() })
}

// MarkInvoiced records that the order was billed
func (s *OrderService) MarkInvoiced(ctx context.Context, tenantID, orderID uuid.UUID) error {
	return s.mutate(ctx, tenantID, orderID, func(o *order.Order) error { return o.MarkInvoiced() })
}

// DeleteOrder removes a draft order. Orders past draft are immutable history
// and can only be cancelled.
func (s *OrderService) DeleteOrder(ctx context.Context, tenantID, orderID uuid.UUID) error {
	o, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return err
	}
	if o.Status != order.OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft orders can be deleted")
	}
	return s.orderRepo.Delete(ctx, orderID)
}

func (s *OrderService) mutate(ctx context.Context, tenantID, orderID uuid.UUID, fn func(*order.Order) error) error {
	o, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return err
	}
	if err := fn(o); err != nil {
		return err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return err
	}
	s.publishEvents(ctx, o)
	return nil
}

func (s *OrderService) publishEvents(ctx context.Context, o *order.Order) {
	if s.eventBus == nil {
		return
	}
	events := o.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
	o.ClearDomainEvents()
}

func buildLine(input AddLineInput) order.OrderLine {
	line := order.NewOrderLine(input.Description, input.Quantity)
	line.PackageType = input.PackageType
	line.WeightValue = input.WeightValue
	if input.WeightUnit != "" {
		line.WeightUnit = valueobject.WeightUnit(input.WeightUnit)
	}
	line.VolumeValue = input.VolumeValue
	if input.VolumeUnit != "" {
		line.VolumeUnit = valueobject.VolumeUnit(input.VolumeUnit)
	}
	line.Length = input.Length
	line.Width = input.Width
	line.Height = input.Height
	if input.DimensionUnit != "" {
		line.DimensionUnit = valueobject.DimensionUnit(input.DimensionUnit)
	}
	line.IsDangerousGoods = input.IsDangerousGoods
	line.UNNumber = input.UNNumber
	line.DGClass = input.DGClass
	line.IsCustomsGoods = input.IsCustomsGoods
	line.HSCode = input.HSCode
	return line
}

// generateNumber builds a human-readable document number: a prefix, the
// current date, and a short random suffix.
func generateNumber(prefix string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().UTC().Format("20060102"), suffix)
}
