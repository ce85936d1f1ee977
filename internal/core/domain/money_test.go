package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundMoney(t *testing.T) {
	d, err := decimal.NewFromString("10.123456")
	require.NoError(t, err)
	assert.Equal(t, "10.1235", MoneyString(RoundMoney(d)))

	d, err = decimal.NewFromString("5")
	require.NoError(t, err)
	assert.Equal(t, "5.0000", MoneyString(RoundMoney(d)))
}

func TestMoneyArithmeticIsExact(t *testing.T) {
	// 5.0000 - 5.0001 must be exactly -0.0001, never a float approximation.
	balance, _ := decimal.NewFromString("5.0000")
	amount, _ := decimal.NewFromString("-5.0001")
	sum := balance.Add(amount)
	assert.True(t, sum.IsNegative())
	assert.Equal(t, "-0.0001", MoneyString(sum))

	amount, _ = decimal.NewFromString("-5.0000")
	sum = balance.Add(amount)
	assert.False(t, sum.IsNegative())
	assert.True(t, sum.IsZero())
	assert.Equal(t, "0.0000", MoneyString(sum))
}

func TestAmountInBounds(t *testing.T) {
	assert.True(t, AmountInBounds(decimal.NewFromInt(999_999_999), decimal.Zero))
	assert.False(t, AmountInBounds(decimal.NewFromInt(1_000_000_000), decimal.Zero))
	assert.True(t, AmountInBounds(decimal.NewFromInt(-999_999_999), decimal.Zero))
	assert.False(t, AmountInBounds(decimal.NewFromInt(-1_000_000_000), decimal.Zero))

	// Explicit bound overrides the default.
	assert.False(t, AmountInBounds(decimal.NewFromInt(11), decimal.NewFromInt(10)))
	assert.True(t, AmountInBounds(decimal.NewFromInt(10), decimal.NewFromInt(10)))
}
