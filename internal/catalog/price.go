package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/01moynul/storefront/internal/models"
)

// CallForPricing is shown in place of a missing or non-positive price.
const CallForPricing = "Call for Pricing"

// ParsePrice reads a price column rendered as text. Missing or unparsable
// values report ok=false.
func ParsePrice(text *string) (decimal.Decimal, bool) {
	if text == nil {
		return decimal.Zero, false
	}
	s := strings.TrimSpace(*text)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// FormatPrice renders a price with two decimals, or CallForPricing.
func FormatPrice(text *string) string {
	d, ok := ParsePrice(text)
	if !ok || !d.IsPositive() {
		return CallForPricing
	}
	return d.StringFixed(2)
}

// FormatOldPrice renders the struck-through price. It is only shown when it
// parses to a positive amount.
func FormatOldPrice(text *string) (string, bool) {
	d, ok := ParsePrice(text)
	if !ok || !d.IsPositive() {
		return "", false
	}
	return d.StringFixed(2), true
}

// AdjustedPrice applies an option value's adjustment to base. Flat values are
// added as-is; percent values scale the base. Unparsable adjustments leave the
// base unchanged.
func AdjustedPrice(base decimal.Decimal, v models.ProductOptionValue) decimal.Decimal {
	adj, err := decimal.NewFromString(strings.TrimSpace(v.PriceAdjustment))
	if err != nil {
		return base
	}
	if v.PriceAdjustmentType == models.AdjustmentPercent {
		return base.Add(base.Mul(adj).Div(decimal.NewFromInt(100))).Round(2)
	}
	return base.Add(adj)
}
