package order

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tms/backend/internal/domain/shared/valueobject"
)

func newDraftOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewOrder(uuid.New(), uuid.New(), "ORD-2026-0001")
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("valid order", func(t *testing.T) {
		o := newDraftOrder(t)
		assert.Equal(t, OrderStatusDraft, o.Status)
		assert.Empty(t, o.Lines)
		assert.Len(t, o.GetDomainEvents(), 1)
	})

	t.Run("missing order number", func(t *testing.T) {
		_, err := NewOrder(uuid.New(), uuid.New(), " ")
		assert.Error(t, err)
	})

	t.Run("missing customer", func(t *testing.T) {
		_, err := NewOrder(uuid.New(), uuid.Nil, "ORD-1")
		assert.Error(t, err)
	})
}

func TestOrderLines(t *testing.T) {
	t.Run("lines keep insertion order", func(t *testing.T) {
		o := newDraftOrder(t)
		for _, desc := range []string{"pallets", "crates", "drums"} {
			require.NoError(t, o.AddLine(NewOrderLine(desc, 1)))
		}
		require.Len(t, o.Lines, 3)
		assert.Equal(t, []int{1, 2, 3}, []int{o.Lines[0].LineNumber, o.Lines[1].LineNumber, o.Lines[2].LineNumber})
		assert.Equal(t, "crates", o.Lines[1].Description)
	})

	t.Run("remove renumbers", func(t *testing.T) {
		o := newDraftOrder(t)
		require.NoError(t, o.AddLine(NewOrderLine("a", 1)))
		require.NoError(t, o.AddLine(NewOrderLine("b", 1)))
		require.NoError(t, o.AddLine(NewOrderLine("c", 1)))

		require.NoError(t, o.RemoveLine(o.Lines[0].ID))
		require.Len(t, o.Lines, 2)
		assert.Equal(t, 1, o.Lines[0].LineNumber)
		assert.Equal(t, "b", o.Lines[0].Description)
	})

	t.Run("update keeps line number", func(t *testing.T) {
		o := newDraftOrder(t)
		require.NoError(t, o.AddLine(NewOrderLine("a", 1)))
		require.NoError(t, o.AddLine(NewOrderLine("b", 1)))

		updated := NewOrderLine("b-updated", 5)
		require.NoError(t, o.UpdateLine(o.Lines[1].ID, updated))
		assert.Equal(t, 2, o.Lines[1].LineNumber)
		assert.Equal(t, "b-updated", o.Lines[1].Description)
		assert.Equal(t, 5, o.Lines[1].Quantity)

		assert.Error(t, o.UpdateLine(uuid.New(), updated))
	})

	t.Run("lines frozen after confirm", func(t *testing.T) {
		o := newDraftOrder(t)
		require.NoError(t, o.AddLine(NewOrderLine("a", 1)))
		require.NoError(t, o.Confirm())

		assert.Error(t, o.AddLine(NewOrderLine("b", 1)))
		assert.Error(t, o.RemoveLine(o.Lines[0].ID))
		assert.Error(t, o.UpdateLine(o.Lines[0].ID, NewOrderLine("x", 1)))
	})
}

func TestOrderLineValidation(t *testing.T) {
	t.Run("dangerous goods require UN number", func(t *testing.T) {
		l := NewOrderLine("chemicals", 2)
		l.IsDangerousGoods = true
		assert.Error(t, l.Validate())

		l.UNNumber = "UN1203"
		l.DGClass = "3"
		assert.NoError(t, l.Validate())
	})

	t.Run("customs goods require HS code", func(t *testing.T) {
		l := NewOrderLine("electronics", 1)
		l.IsCustomsGoods = true
		assert.Error(t, l.Validate())
		l.HSCode = "8517.62"
		assert.NoError(t, l.Validate())
	})

	t.Run("quantity and units", func(t *testing.T) {
		l := NewOrderLine("x", 0)
		assert.Error(t, l.Validate())

		l = NewOrderLine("x", 1)
		l.WeightUnit = "stone"
		assert.Error(t, l.Validate())
	})
}

func TestOrderWeightNormalization(t *testing.T) {
	o := newDraftOrder(t)

	kg := NewOrderLine("kg line", 1)
	kg.WeightValue = decimal.NewFromInt(500)
	require.NoError(t, o.AddLine(kg))

	ton := NewOrderLine("ton line", 1)
	ton.WeightValue = decimal.RequireFromString("1.5")
	ton.WeightUnit = valueobject.WeightTon
	require.NoError(t, o.AddLine(ton))

	assert.True(t, o.TotalWeightKg().Equal(decimal.NewFromInt(2000)), o.TotalWeightKg().String())
}

func TestOrderStatusMachine(t *testing.T) {
	t.Run("happy path to invoiced", func(t *testing.T) {
		o := newDraftOrder(t)
		require.NoError(t, o.AddLine(NewOrderLine("a", 1)))
		require.NoError(t, o.Confirm())
		require.NoError(t, o.MarkPlanned(uuid.New()))
		require.NoError(t, o.MarkInTransit())
		require.NoError(t, o.MarkDelivered())
		require.NoError(t, o.MarkInvoiced())
		assert.True(t, o.Status.IsTerminal())
	})

	t.Run("cannot confirm empty order", func(t *testing.T) {
		o := newDraftOrder(t)
		assert.Error(t, o.Confirm())
	})

	t.Run("out of order transitions rejected", func(t *testing.T) {
		o := newDraftOrder(t)
		assert.Error(t, o.MarkInTransit())
		assert.Error(t, o.MarkDelivered())
		assert.Error(t, o.MarkInvoiced())
		assert.Error(t, o.MarkPlanned(uuid.New()))
	})

	t.Run("cancel allowed until in_transit", func(t *testing.T) {
		o := newDraftOrder(t)
		require.NoError(t, o.AddLine(NewOrderLine("a", 1)))
		require.NoError(t, o.Confirm())
		require.NoError(t, o.Cancel())
		assert.Equal(t, OrderStatusCancelled, o.Status)
		assert.Error(t, o.Confirm(), "cancelled is terminal")
	})

	t.Run("cancel rejected once in transit", func(t *testing.T) {
		o := newDraftOrder(t)
		require.NoError(t, o.AddLine(NewOrderLine("a", 1)))
		require.NoError(t, o.Confirm())
		require.NoError(t, o.MarkPlanned(uuid.New()))
		require.NoError(t, o.MarkInTransit())
		assert.Error(t, o.Cancel())
	})
}

func TestOrderRequestedDates(t *testing.T) {
	o := newDraftOrder(t)
	pickup := time.Now().Add(24 * time.Hour)
	delivery := pickup.Add(48 * time.Hour)

	require.NoError(t, o.SetRequestedDates(&pickup, &delivery))
	assert.Error(t, o.SetRequestedDates(&delivery, &pickup))
}

func TestOrderRoute(t *testing.T) {
	o := newDraftOrder(t)
	require.NoError(t, o.SetRoute("Hafenstr. 1, Hamburg", "de", "Via Roma 5, Milano", "it"))
	assert.Equal(t, "DE", o.OriginCountry)
	assert.Equal(t, "IT", o.DestinationCountry)

	assert.Error(t, o.SetRoute("a", "DEU", "b", "IT"))

	require.NoError(t, o.AddLine(NewOrderLine("a", 1)))
	require.NoError(t, o.Confirm())
	assert.Error(t, o.SetRoute("a", "DE", "b", "IT"), "route frozen after confirm")
}

func TestIncoterm(t *testing.T) {
	o := newDraftOrder(t)
	require.NoError(t, o.SetIncoterm(IncotermDDP))
	assert.Error(t, o.SetIncoterm(Incoterm("XXX")))
}
