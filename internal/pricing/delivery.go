package pricing

// Payment methods understood by the delivery policy.
const (
	PaymentMethodCOD      = "COD"
	PaymentMethodRazorpay = "RAZORPAY"
)

// DeliveryPolicy decides the delivery charge from the items-plus-tax amount.
type DeliveryPolicy struct {
	// FreeThreshold is the amount at or above which delivery is free.
	FreeThreshold float64
	// CODCharge applies below the threshold for cash on delivery.
	CODCharge float64
}

// DefaultDeliveryPolicy is free delivery from ₹499, otherwise ₹50 for COD.
var DefaultDeliveryPolicy = DeliveryPolicy{
	FreeThreshold: 499,
	CODCharge:     50,
}

// IsCOD reports whether method names cash on delivery. An empty method is
// COD; any other spelling than "COD" is not.
func IsCOD(method string) bool {
	return method == "" || method == PaymentMethodCOD
}

// Charge returns the delivery charge. Prepaid methods never pay for
// delivery; COD, the default when method is empty, pays CODCharge only
// below FreeThreshold.
func (p DeliveryPolicy) Charge(itemsPlusTax float64, method string) float64 {
	if itemsPlusTax >= p.FreeThreshold {
		return 0
	}
	if IsCOD(method) {
		return p.CODCharge
	}
	return 0
}

// CalculateDeliveryCharge applies DefaultDeliveryPolicy.
func CalculateDeliveryCharge(itemsPlusTax float64, method string) float64 {
	return DefaultDeliveryPolicy.Charge(itemsPlusTax, method)
}
