package service

import (
	"strings"

	"github.com/shopspring/decimal"
)

// StandardGSTCode client GST code taxed at the standard rate
const StandardGSTCode = "S"

var (
	// StandardGSTRate New Zealand standard GST rate
	StandardGSTRate = decimal.RequireFromString("0.15")

	hundred = decimal.NewFromInt(100)
)

// LineAmounts computed money fields of one invoice line
type LineAmounts struct {
	Amount decimal.Decimal `json:"amount"`
	GST    decimal.Decimal `json:"gst"`
	Total  decimal.Decimal `json:"total"`
}

// ResolveTaxRate maps a client GST code to its rate: 0.15 for "S" (any case,
// surrounding spaces ignored), 0 for everything else including no code.
func ResolveTaxRate(code string) decimal.Decimal {
	if strings.EqualFold(strings.TrimSpace(code), StandardGSTCode) {
		return StandardGSTRate
	}
	return decimal.Zero
}

// GSTRatePercent tax rate of code as a percentage, e.g. 15
func GSTRatePercent(code string) decimal.Decimal {
	return ResolveTaxRate(code).Mul(hundred)
}

// ComputeLine computes amount, GST and total for hours billed at rate.
//
// amount = round(rate × hours, 2) and gst = round(amount × taxRate, 2), both
// rounded half away from zero; GST is taken from the rounded amount.
// total = amount + gst.
func ComputeLine(hours, rate, taxRate decimal.Decimal) (LineAmounts, error) {
	if hours.IsNegative() {
		return LineAmounts{}, &ValidationError{Err: ErrInvalidLineInput, Field: "hours"}
	}
	if rate.IsNegative() {
		return LineAmounts{}, &ValidationError{Err: ErrInvalidLineInput, Field: "rate"}
	}
	if taxRate.IsNegative() {
		return LineAmounts{}, &ValidationError{Err: ErrInvalidLineInput, Field: "tax_rate"}
	}

	amount := rate.Mul(hours).Round(2)
	gst := amount.Mul(taxRate).Round(2)

	return LineAmounts{
		Amount: amount,
		GST:    gst,
		Total:  amount.Add(gst),
	}, nil
}
