package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ToDecimal converts a rounded amount to a two-place decimal for storage.
func ToDecimal(amount float64) decimal.Decimal {
	return decimal.NewFromFloat(amount).Round(2)
}

// FromDecimal converts a stored amount back to the engine's representation.
func FromDecimal(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

// FormatINR renders an amount with Indian digit grouping, e.g. ₹1,23,456.78.
func FormatINR(amount float64) string {
	d := ToDecimal(amount)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	s := d.StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")

	return sign + "₹" + groupIndian(whole) + "." + frac
}

// groupIndian inserts separators after the last three digits and then
// every two digits.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}
