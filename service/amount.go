package service

import (
	"github.com/shopspring/decimal"
)

// MinorUnits converts an amount in major units (rupees) to the currency's
// minor units (paise). Decimal arithmetic keeps the conversion exact; amounts
// with more than two decimal places or below zero are rejected.
func MinorUnits(majorUnits float64) (int64, error) {
	d := decimal.NewFromFloat(majorUnits)
	if d.IsNegative() {
		return 0, &ValidationError{Field: "amount"}
	}
	minor := d.Mul(decimal.NewFromInt(100))
	if !minor.Equal(minor.Truncate(0)) {
		return 0, &ValidationError{Field: "amount"}
	}
	return minor.IntPart(), nil
}
