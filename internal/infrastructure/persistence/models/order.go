package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tms/backend/internal/domain/order"
	"github.com/tms/backend/internal/domain/shared/valueobject"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	TenantAggregateModel
	OrderNumber         string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_order_tenant_number,priority:2"`
	CustomerID          uuid.UUID            `gorm:"type:uuid;not null;index"`
	Reference           string               `gorm:"type:varchar(100)"`
	Status              order.OrderStatus    `gorm:"type:order_status;not null;default:'draft';index"`
	Incoterm            order.Incoterm       `gorm:"type:varchar(3)"`
	OriginAddress       string               `gorm:"type:varchar(500);not null"`
	OriginCountry       string               `gorm:"type:char(2);not null"`
	DestinationAddress  string               `gorm:"type:varchar(500);not null"`
	DestinationCountry  string               `gorm:"type:char(2);not null"`
	RequestedPickupAt   *time.Time           `gorm:"index"`
	RequestedDeliveryAt *time.Time           `gorm:"index"`
	Currency            valueobject.Currency `gorm:"type:varchar(3);not null;default:'EUR'"`
	DeclaredValue       decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Notes               string               `gorm:"type:text"`
	ShipmentID          *uuid.UUID           `gorm:"type:uuid;index"`

	Lines []OrderLineModel `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderLineModel is the persistence model for an order line.
type OrderLineModel struct {
	BaseModel
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index"`
	LineNumber  int       `gorm:"not null"`
	Description string    `gorm:"type:varchar(500);not null"`
	Quantity    int       `gorm:"not null;default:1"`
	PackageType string    `gorm:"type:varchar(50)"`

	WeightValue decimal.Decimal        `gorm:"type:decimal(12,3);not null;default:0"`
	WeightUnit  valueobject.WeightUnit `gorm:"type:varchar(5);not null;default:'kg'"`
	VolumeValue decimal.Decimal        `gorm:"type:decimal(12,3);not null;default:0"`
	VolumeUnit  valueobject.VolumeUnit `gorm:"type:varchar(5);not null;default:'m3'"`

	Length        decimal.Decimal           `gorm:"type:decimal(12,3);not null;default:0"`
	Width         decimal.Decimal           `gorm:"type:decimal(12,3);not null;default:0"`
	Height        decimal.Decimal           `gorm:"type:decimal(12,3);not null;default:0"`
	DimensionUnit valueobject.DimensionUnit `gorm:"type:varchar(5);not null;default:'cm'"`

	IsDangerousGoods bool   `gorm:"not null;default:false;index"`
	UNNumber         string `gorm:"type:varchar(10)"`
	DGClass          string `gorm:"type:varchar(10)"`

	IsCustomsGoods      bool                 `gorm:"not null;default:false"`
	HSCode              string               `gorm:"type:varchar(20)"`
	CustomsValue        decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	CustomsCurrency     valueobject.Currency `gorm:"type:varchar(3);not null;default:'EUR'"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		OrderNumber:         m.OrderNumber,
		CustomerID:          m.CustomerID,
		Reference:           m.Reference,
		Status:              m.Status,
		Incoterm:            m.Incoterm,
		OriginAddress:       m.OriginAddress,
		OriginCountry:       m.OriginCountry,
		DestinationAddress:  m.DestinationAddress,
		DestinationCountry:  m.DestinationCountry,
		RequestedPickupAt:   m.RequestedPickupAt,
		RequestedDeliveryAt: m.RequestedDeliveryAt,
		Currency:            m.Currency,
		DeclaredValue:       money(m.DeclaredValue, m.Currency),
		Notes:               m.Notes,
		ShipmentID:          m.ShipmentID,
	}
	m.PopulateTenantAggregateRoot(&o.TenantAggregateRoot)

	o.Lines = make([]order.OrderLine, len(m.Lines))
	for i := range m.Lines {
		o.Lines[i] = m.Lines[i].ToDomain()
	}
	return o
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.CustomerID = o.CustomerID
	m.Reference = o.Reference
	m.Status = o.Status
	m.Incoterm = o.Incoterm
	m.OriginAddress = o.OriginAddress
	m.OriginCountry = o.OriginCountry
	m.DestinationAddress = o.DestinationAddress
	m.DestinationCountry = o.DestinationCountry
	m.RequestedPickupAt = o.RequestedPickupAt
	m.RequestedDeliveryAt = o.RequestedDeliveryAt
	m.Currency = o.Currency
	m.DeclaredValue = o.DeclaredValue.Amount()
	m.Notes = o.Notes
	m.ShipmentID = o.ShipmentID

	m.Lines = make([]OrderLineModel, len(o.Lines))
	for i := range o.Lines {
		m.Lines[i].FromDomain(&o.Lines[i])
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// ToDomain converts the persistence model to a domain OrderLine.
func (m *OrderLineModel) ToDomain() order.OrderLine {
	return order.OrderLine{
		BaseEntity:       m.BaseModel.ToDomain(),
		OrderID:          m.OrderID,
		LineNumber:       m.LineNumber,
		Description:      m.Description,
		Quantity:         m.Quantity,
		PackageType:      m.PackageType,
		WeightValue:      m.WeightValue,
		WeightUnit:       m.WeightUnit,
		VolumeValue:      m.VolumeValue,
		VolumeUnit:       m.VolumeUnit,
		Length:           m.Length,
		Width:            m.Width,
		Height:           m.Height,
		DimensionUnit:    m.DimensionUnit,
		IsDangerousGoods: m.IsDangerousGoods,
		UNNumber:         m.UNNumber,
		DGClass:          m.DGClass,
		IsCustomsGoods:   m.IsCustomsGoods,
		HSCode:           m.HSCode,
		CustomsValue:     money(m.CustomsValue, m.CustomsCurrency),
	}
}

// FromDomain populates the persistence model from a domain OrderLine.
func (m *OrderLineModel) FromDomain(l *order.OrderLine) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.OrderID = l.OrderID
	m.LineNumber = l.LineNumber
	m.Description = l.Description
	m.Quantity = l.Quantity
	m.PackageType = l.PackageType
	m.WeightValue = l.WeightValue
	m.WeightUnit = l.WeightUnit
	m.VolumeValue = l.VolumeValue
	m.VolumeUnit = l.VolumeUnit
	m.Length = l.Length
	m.Width = l.Width
	m.Height = l.Height
	m.DimensionUnit = l.DimensionUnit
	m.IsDangerousGoods = l.IsDangerousGoods
	m.UNNumber = l.UNNumber
	m.DGClass = l.DGClass
	m.IsCustomsGoods = l.IsCustomsGoods
	m.HSCode = l.HSCode
	m.CustomsValue = l.CustomsValue.Amount()
	m.CustomsCurrency = l.CustomsValue.Currency()
}
