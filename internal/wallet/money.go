package wallet

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Amounts are carried as int64 minor units (paisa) everywhere inside the
// service. Decimal strings exist only at the JSON boundary so balances never
// accumulate floating-point drift.

var (
	// ErrInvalidAmount indicates a malformed or non-positive amount string.
	ErrInvalidAmount = errors.New("amount must be a positive decimal with at most 2 decimal places")

	minorFactor = decimal.NewFromInt(100)
)

// ParseAmount converts a decimal string such as "12500.50" into minor units.
// It rejects non-positive values and more than two decimal places.
func ParseAmount(s string) (int64, error) {
	minor, err := ParseBalance(s)
	if err != nil {
		return 0, err
	}
	if minor <= 0 {
		return 0, ErrInvalidAmount
	}
	return minor, nil
}

// ParseBalance converts a decimal string into minor units, additionally
// accepting zero in any rendering ("0", "0.0", "0.00"). Balance targets may
// be zero even though transaction amounts may not.
func ParseBalance(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	minor := d.Mul(minorFactor)
	if !minor.IsInteger() || minor.Sign() < 0 {
		return 0, ErrInvalidAmount
	}
	return minor.IntPart(), nil
}

// FormatAmount renders minor units as a two-place decimal string.
func FormatAmount(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}
