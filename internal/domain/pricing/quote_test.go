package pricing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tms/backend/internal/domain/shipment"
)

func activeContract(t *testing.T) *Contract {
	t.Helper()
	c, err := NewContract(uuid.New(), uuid.New(), "CTR-2026-001",
		time.Now().Add(-time.Hour), time.Now().Add(30*24*time.Hour))
	require.NoError(t, err)

	kgRate := NewRate(shipment.ModeRoad, "DE-2", "IT-2", RatePerKg, eur(t, "0.10"))
	kgRate.MinimumCharge = eur(t, "100.00")
	require.NoError(t, c.AddRate(kgRate))
	require.NoError(t, c.AddSurcharge(NewPercentSurcharge(SurchargeFuel, decimal.NewFromInt(10))))
	require.NoError(t, c.AddSurcharge(NewFixedSurcharge(SurchargeDangerousGoods, eur(t, "75.00"))))
	require.NoError(t, c.Activate())
	return c
}

func stdRequest() QuoteRequest {
	return QuoteRequest{
		Mode:            shipment.ModeRoad,
		OriginZone:      "DE-2",
		DestinationZone: "IT-2",
		WeightKg:        decimal.NewFromInt(5000),
	}
}

func TestCalculatorPrice(t *testing.T) {
	t.Run("base plus fuel surcharge", func(t *testing.T) {
		c := activeContract(t)
		q, err := NewCalculator(nil).Price(c, stdRequest())
		require.NoError(t, err)

		// 5000 kg * 0.10 = 500, + 10% fuel = 550
		assert.Equal(t, "500.00", q.BaseFreight.Amount().StringFixed(2))
		assert.Equal(t, "550.00", q.Total.Amount().StringFixed(2))
		assert.Len(t, q.Lines, 2, "dangerous goods surcharge not applied")
	})

	t.Run("dangerous goods surcharge when flagged", func(t *testing.T) {
		c := activeContract(t)
		req := stdRequest()
		req.DangerousGoods = true
		q, err := NewCalculator(nil).Price(c, req)
		require.NoError(t, err)
		assert.Equal(t, "625.00", q.Total.Amount().StringFixed(2))
	})

	t.Run("minimum charge floors light shipments", func(t *testing.T) {
		c := activeContract(t)
		req := stdRequest()
		req.WeightKg = decimal.NewFromInt(200)
		q, err := NewCalculator(nil).Price(c, req)
		require.NoError(t, err)
		assert.Equal(t, "100.00", q.BaseFreight.Amount().StringFixed(2))
	})

	t.Run("no matching rate", func(t *testing.T) {
		c := activeContract(t)
		req := stdRequest()
		req.Mode = shipment.ModeRail
		_, err := NewCalculator(nil).Price(c, req)
		assert.Error(t, err)
	})

	t.Run("inactive contract refused", func(t *testing.T) {
		c := activeContract(t)
		require.NoError(t, c.Terminate())
		_, err := NewCalculator(nil).Price(c, stdRequest())
		assert.Error(t, err)
	})
}

func TestCalculatorRules(t *testing.T) {
	tenantID := uuid.New()

	t.Run("discount applies after surcharges", func(t *testing.T) {
		c := activeContract(t)
		rule, err := NewPricingRule(tenantID, "Volume discount", 10, RuleConditions{
			MinWeightKg: decimal.NewFromInt(1000),
		}, ActionDiscountPercent, decimal.NewFromInt(10))
		require.NoError(t, err)

		q, err := NewCalculator([]*PricingRule{rule}).Price(c, stdRequest())
		require.NoError(t, err)
		// 550 - 10% = 495
		assert.Equal(t, "495.00", q.Total.Amount().StringFixed(2))
	})

	t.Run("rules run in priority order", func(t *testing.T) {
		c := activeContract(t)
		markup, err := NewPricingRule(tenantID, "Peak season", 1, RuleConditions{}, ActionMarkupPercent, decimal.NewFromInt(20))
		require.NoError(t, err)
		discount, err := NewPricingRule(tenantID, "Key account", 2, RuleConditions{}, ActionDiscountPercent, decimal.NewFromInt(50))
		require.NoError(t, err)

		// Deliberately passed out of order
		q, err := NewCalculator([]*PricingRule{discount, markup}).Price(c, stdRequest())
		require.NoError(t, err)
		// 550 * 1.20 = 660, then -50% = 330
		assert.Equal(t, "330.00", q.Total.Amount().StringFixed(2))
	})

	t.Run("disabled and non matching rules skipped", func(t *testing.T) {
		c := activeContract(t)
		rule, err := NewPricingRule(tenantID, "Disabled", 1, RuleConditions{}, ActionMarkupPercent, decimal.NewFromInt(99))
		require.NoError(t, err)
		rule.Disable()

		dg := true
		other, err := NewPricingRule(tenantID, "ADR only", 2, RuleConditions{DangerousGoods: &dg}, ActionMarkupPercent, decimal.NewFromInt(15))
		require.NoError(t, err)

		q, err := NewCalculator([]*PricingRule{rule, other}).Price(c, stdRequest())
		require.NoError(t, err)
		assert.Equal(t, "550.00", q.Total.Amount().StringFixed(2))
	})
}
