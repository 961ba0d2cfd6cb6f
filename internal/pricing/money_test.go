package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatINR(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "₹0.00"},
		{3, "₹3.00"},
		{999.5, "₹999.50"},
		{3493, "₹3,493.00"},
		{123456.78, "₹1,23,456.78"},
		{10000000, "₹1,00,00,000.00"},
		{-50, "-₹50.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatINR(tt.in), "FormatINR(%v)", tt.in)
	}
}

func TestDecimalConversion(t *testing.T) {
	d := ToDecimal(3388.98)
	assert.Equal(t, "3388.98", d.StringFixed(2))
	assert.Equal(t, 3388.98, FromDecimal(d))

	assert.Equal(t, 0.1, FromDecimal(decimal.RequireFromString("0.10")))
}
