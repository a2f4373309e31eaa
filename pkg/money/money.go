// Package money converts between API amounts (major units, e.g. 499.50) and the
// minor units (paise, cents) stored in the database.
package money

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxMinor bounds every amount and balance the ledger stores (10^13 major units).
const MaxMinor int64 = 1_000_000_000_000_000

// ErrOutOfRange is returned for amounts that are not finite or exceed MaxMinor.
var ErrOutOfRange = errors.New("amount out of range")

var maxMinor = decimal.NewFromInt(MaxMinor)

// ToMinor converts a major-unit amount into minor units, rounding half away from zero.
// NaN, infinities and magnitudes above MaxMinor yield ErrOutOfRange instead of a wrapped value.
func ToMinor(amount float64) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrOutOfRange
	}
	d := decimal.NewFromFloat(amount).Shift(2).Round(0)
	if d.Abs().GreaterThan(maxMinor) {
		return 0, ErrOutOfRange
	}
	return d.IntPart(), nil
}

// InRange reports whether a stored minor-unit balance is within MaxMinor.
func InRange(minor int64) bool {
	return minor >= -MaxMinor && minor <= MaxMinor
}

// FromMinor converts minor units back into a major-unit float for JSON responses.
func FromMinor(minor int64) float64 {
	f, _ := decimal.New(minor, -2).Float64()
	return f
}

// String renders minor units the way a person types the amount: no trailing zeros,
// so 50000 becomes "500" and 49950 becomes "499.5".
func String(minor int64) string {
	return decimal.New(minor, -2).String()
}

// Format renders minor units with a currency symbol and thousands separators,
// e.g. Format("₹", 120000) == "₹1,200.00". Negative amounts keep the sign in front.
func Format(symbol string, minor int64) string {
	d := decimal.New(minor, -2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	return sign + symbol + group(whole) + "." + frac
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
