package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/01moynul/storefront/internal/models"
)

func strPtr(s string) *string { return &s }

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name string
		in   *string
		want string
	}{
		{"nil", nil, CallForPricing},
		{"blank", strPtr("  "), CallForPricing},
		{"garbage", strPtr("abc"), CallForPricing},
		{"zero", strPtr("0.00"), CallForPricing},
		{"negative", strPtr("-4"), CallForPricing},
		{"integer", strPtr("25"), "25.00"},
		{"rounds", strPtr("19.999"), "20.00"},
		{"exact", strPtr("1299.5"), "1299.50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.in))
		})
	}
}

func TestFormatOldPrice(t *testing.T) {
	got, ok := FormatOldPrice(strPtr("30"))
	assert.True(t, ok)
	assert.Equal(t, "30.00", got)

	_, ok = FormatOldPrice(nil)
	assert.False(t, ok)

	_, ok = FormatOldPrice(strPtr("0"))
	assert.False(t, ok)
}

func TestAdjustedPrice(t *testing.T) {
	base := decimal.RequireFromString("100.00")

	flat := models.ProductOptionValue{PriceAdjustment: "12.50", PriceAdjustmentType: models.AdjustmentFlat}
	assert.True(t, decimal.RequireFromString("112.50").Equal(AdjustedPrice(base, flat)))

	percent := models.ProductOptionValue{PriceAdjustment: "15", PriceAdjustmentType: models.AdjustmentPercent}
	assert.True(t, decimal.RequireFromString("115").Equal(AdjustedPrice(base, percent)))

	broken := models.ProductOptionValue{PriceAdjustment: "n/a", PriceAdjustmentType: models.AdjustmentFlat}
	assert.True(t, base.Equal(AdjustedPrice(base, broken)))
}
