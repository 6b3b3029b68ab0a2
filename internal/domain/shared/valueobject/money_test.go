package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("valid money", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromInt(100), EUR)
		require.NoError(t, err)
		assert.Equal(t, EUR, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(100)))
	})

	t.Run("empty currency fails", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(100), "")
		assert.Error(t, err)
	})

	t.Run("from string", func(t *testing.T) {
		m, err := NewMoneyFromString("1234.56", USD)
		require.NoError(t, err)
		assert.Equal(t, "1234.56 USD", m.String())
	})

	t.Run("from invalid string fails", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number", USD)
		assert.Error(t, err)
	})
}

func TestMoneyArithmetic(t *testing.T) {
	a, _ := NewMoneyFromString("10.50", EUR)
	b, _ := NewMoneyFromString("4.25", EUR)
	c, _ := NewMoneyFromString("1.00", USD)

	t.Run("add", func(t *testing.T) {
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, "14.75 EUR", sum.String())
	})

	t.Run("add mismatched currency fails", func(t *testing.T) {
		_, err := a.Add(c)
		assert.Error(t, err)
	})

	t.Run("subtract", func(t *testing.T) {
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.Equal(t, "6.25 EUR", diff.String())
	})

	t.Run("multiply keeps precision", func(t *testing.T) {
		res := a.Multiply(decimal.NewFromInt(3))
		assert.Equal(t, "31.50 EUR", res.String())
	})

	t.Run("percentage", func(t *testing.T) {
		res := a.CalculatePercentage(decimal.NewFromInt(10))
		assert.True(t, res.Amount().Equal(decimal.RequireFromString("1.05")))
	})

	t.Run("no float drift over repeated addition", func(t *testing.T) {
		cent, _ := NewMoneyFromString("0.01", EUR)
		total := ZeroEUR()
		for range 1000 {
			total = total.MustAdd(cent)
		}
		assert.Equal(t, "10.00 EUR", total.String())
	})
}

func TestMoneyComparison(t *testing.T) {
	a, _ := NewMoneyFromString("5.00", EUR)
	b, _ := NewMoneyFromString("7.00", EUR)

	less, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, less)

	greater, err := b.GreaterThan(a)
	require.NoError(t, err)
	assert.True(t, greater)

	assert.True(t, a.Equals(a))
	assert.False(t, a.Equals(b))
}

func TestMoneyJSON(t *testing.T) {
	m, _ := NewMoneyFromString("99.99", EUR)
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"99.99","currency":"EUR"}`, string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoneyScan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("12.34"))
	assert.Equal(t, DefaultCurrency, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.RequireFromString("12.34")))

	require.NoError(t, m.Scan(nil))
	assert.True(t, m.IsZero())

	assert.Error(t, m.Scan(42))
}
