package pricing

// QuoteInput is a checkout request already resolved against the catalog.
type QuoteInput struct {
	Items          []ItemInput
	PaymentMethod  string
	CouponDiscount float64
}

// Quote is a priced checkout. Summary is the value to freeze on the order.
type Quote struct {
	Summary       OrderSummary `json:"summary"`
	ItemsPlusTax  float64      `json:"itemsPlusTax"`
	Savings       float64      `json:"savings"`
	PaymentMethod string       `json:"paymentMethod"`
}

// Quote prices items once, derives the delivery charge from the
// items-plus-tax amount under policy, and finalizes the summary with the
// configured platform fee.
func (e *Engine) Quote(in QuoteInput, policy DeliveryPolicy) Quote {
	t := e.aggregate(in.Items)
	itemsPlusTax := t.itemsPlusTax()
	delivery := policy.Charge(itemsPlusTax, in.PaymentMethod)

	summary := e.finalize(t, delivery, e.cfg.PlatformFee, in.CouponDiscount)

	savings := Round(summary.MRP - summary.Subtotal)
	if savings < 0 {
		savings = 0
	}

	return Quote{
		Summary:       summary,
		ItemsPlusTax:  itemsPlusTax,
		Savings:       savings,
		PaymentMethod: in.PaymentMethod,
	}
}
