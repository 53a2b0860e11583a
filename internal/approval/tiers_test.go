package approval

import (
	"errors"
	"testing"

	"procurement/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		amount string
		want   string
		level  int
	}{
		{"0", "Department Manager", 1},
		{"4999.99", "Department Manager", 1},
		{"5000", "Division Director", 2},
		{"24999.99", "Division Director", 2},
		{"25000", "VP Level", 3},
		{"99999.99", "VP Level", 3},
		{"100000", "C-Suite", 4},
		{"2500000", "C-Suite", 4},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			tier := Classify(decimal.RequireFromString(tt.amount))
			assert.Equal(t, tt.want, tier.Name)
			assert.Equal(t, tt.level, tier.Level)
		})
	}
}

func TestClassifyWithinBounds(t *testing.T) {
	for cents := int64(0); cents <= 15_000_000; cents += 1_237 {
		amount := decimal.New(cents, -2)
		tier := Classify(amount)
		assert.True(t, tier.Lower.LessThanOrEqual(amount), "amount %s below %s", amount, tier.Name)
		if tier.Upper != nil {
			assert.True(t, amount.LessThan(*tier.Upper), "amount %s above %s", amount, tier.Name)
		}
	}
}

func TestClassifyNegativeFallsBackToHighest(t *testing.T) {
	tier := Classify(decimal.NewFromInt(-1))
	assert.Equal(t, "C-Suite", tier.Name)
}

func TestClassifyStrictRejectsNegative(t *testing.T) {
	_, err := ClassifyStrict(decimal.RequireFromString("-0.01"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNegativeAmount))

	tier, err := ClassifyStrict(decimal.NewFromInt(5000))
	require.NoError(t, err)
	assert.Equal(t, "Division Director", tier.Name)
}

func TestTiersReturnsCopy(t *testing.T) {
	list := Tiers()
	require.Len(t, list, 4)
	list[0].Name = "changed"
	assert.Equal(t, "Department Manager", Tiers()[0].Name)
}
