package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateDeliveryCharge(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		method string
		want   float64
	}{
		{"cod at threshold", 499, PaymentMethodCOD, 0},
		{"cod just below threshold", 498.99, PaymentMethodCOD, 50},
		{"cod above threshold", 2360, PaymentMethodCOD, 0},
		{"prepaid below threshold", 100, PaymentMethodRazorpay, 0},
		{"unknown method below threshold", 100, "UPI", 0},
		{"empty method defaults to cod", 100, "", 50},
		{"empty method at threshold", 499, "", 0},
		{"lowercase cod is not cod", 100, "cod", 0},
		{"padded cod is not cod", 100, " COD ", 0},
		{"zero amount cod", 0, PaymentMethodCOD, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateDeliveryCharge(tt.amount, tt.method))
		})
	}
}

func TestDeliveryPolicy_Custom(t *testing.T) {
	p := DeliveryPolicy{FreeThreshold: 999, CODCharge: 79}

	assert.Equal(t, 79.0, p.Charge(998, PaymentMethodCOD))
	assert.Equal(t, 0.0, p.Charge(999, PaymentMethodCOD))
	assert.Equal(t, 0.0, p.Charge(10, PaymentMethodRazorpay))
}
