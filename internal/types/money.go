package types

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Round2 rounds d half away from zero to two fraction digits
func Round2(d decimal.Decimal) Scalar {
	return Scalar(d.StringFixed(2))
}

// FromMinor converts integer minor units (cents) to major units
func FromMinor(d decimal.Decimal) decimal.Decimal {
	return d.Shift(-2)
}

// TaxFactor returns 1 + percent/100
func TaxFactor(percent decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Add(percent.Div(hundred))
}
