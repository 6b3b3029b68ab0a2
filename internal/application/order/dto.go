package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tms/backend/internal/domain/order"
)

// OrderDTO is the order representation returned to the interface layer
type OrderDTO struct {
	ID                  uuid.UUID       `json:"id"`
	OrderNumber         string          `json:"order_number"`
	CustomerID          uuid.UUID       `json:"customer_id"`
	Reference           string          `json:"reference,omitempty"`
	Status              string          `json:"status"`
	Incoterm            string          `json:"incoterm,omitempty"`
	OriginAddress       string          `json:"origin_address,omitempty"`
	OriginCountry       string          `json:"origin_country,omitempty"`
	DestinationAddress  string          `json:"destination_address,omitempty"`
	DestinationCountry  string          `json:"destination_country,omitempty"`
	RequestedPickupAt   *time.Time      `json:"requested_pickup_at,omitempty"`
	RequestedDeliveryAt *time.Time      `json:"requested_delivery_at,omitempty"`
	Currency            string          `json:"currency"`
	DeclaredValue       decimal.Decimal `json:"declared_value"`
	Notes               string          `json:"notes,omitempty"`
	ShipmentID          *uuid.UUID      `json:"shipment_id,omitempty"`
	TotalWeightKg       decimal.Decimal `json:"total_weight_kg"`
	HasDangerousGoods   bool            `json:"has_dangerous_goods"`
	Version             int             `json:"version"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	Lines               []OrderLineDTO  `json:"lines,omitempty"`
}

// OrderLineDTO is the order line representation
type OrderLineDTO struct {
	ID               uuid.UUID       `json:"id"`
	LineNumber       int             `json:"line_number"`
	Description      string          `json:"description"`
	Quantity         int             `json:"quantity"`
	PackageType      string          `json:"package_type,omitempty"`
	WeightValue      decimal.Decimal `json:"weight_value"`
	WeightUnit       string          `json:"weight_unit"`
	VolumeValue      decimal.Decimal `json:"volume_value"`
	VolumeUnit       string          `json:"volume_unit"`
	Length           decimal.Decimal `json:"length"`
	Width            decimal.Decimal `json:"width"`
	Height           decimal.Decimal `json:"height"`
	DimensionUnit    string          `json:"dimension_unit"`
	IsDangerousGoods bool            `json:"is_dangerous_goods"`
	UNNumber         string          `json:"un_number,omitempty"`
	DGClass          string          `json:"dg_class,omitempty"`
	IsCustomsGoods   bool            `json:"is_customs_goods"`
	HSCode           string          `json:"hs_code,omitempty"`
}

func toOrderDTO(o *order.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:                  o.ID,
		OrderNumber:         o.OrderNumber,
		CustomerID:          o.CustomerID,
		Reference:           o.Reference,
		Status:              string(o.Status),
		Incoterm:            string(o.Incoterm),
		OriginAddress:       o.OriginAddress,
		OriginCountry:       o.OriginCountry,
		DestinationAddress:  o.DestinationAddress,
		DestinationCountry:  o.DestinationCountry,
		RequestedPickupAt:   o.RequestedPickupAt,
		RequestedDeliveryAt: o.RequestedDeliveryAt,
		Currency:            string(o.Currency),
		DeclaredValue:       o.DeclaredValue.Amount(),
		Notes:               o.Notes,
		ShipmentID:          o.ShipmentID,
		TotalWeightKg:       o.TotalWeightKg(),
		HasDangerousGoods:   o.HasDangerousGoods(),
		Version:             o.Version,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
	for _, l := range o.Lines {
		dto.Lines = append(dto.Lines, OrderLineDTO{
			ID:               l.ID,
			LineNumber:       l.LineNumber,
			Description:      l.Description,
			Quantity:         l.Quantity,
			PackageType:      l.PackageType,
			WeightValue:      l.WeightValue,
			WeightUnit:       string(l.WeightUnit),
			VolumeValue:      l.VolumeValue,
			VolumeUnit:       string(l.VolumeUnit),
			Length:           l.Length,
			Width:            l.Width,
			Height:           l.Height,
			DimensionUnit:    string(l.DimensionUnit),
			IsDangerousGoods: l.IsDangerousGoods,
			UNNumber:         l.UNNumber,
			DGClass:          l.DGClass,
			IsCustomsGoods:   l.IsCustomsGoods,
			HSCode:           l.HSCode,
		})
	}
	return dto
}
