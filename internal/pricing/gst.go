package pricing

// PriceType selects how a selling price relates to GST.
type PriceType string

const (
	// PriceTypeExclusive adds GST on top of the selling price.
	PriceTypeExclusive PriceType = "exclusive"
	// PriceTypeInclusive treats the selling price as already containing GST.
	PriceTypeInclusive PriceType = "inclusive"
)

// ParsePriceType maps a raw price type onto a PriceType. Only "inclusive"
// selects inclusive pricing; everything else, including empty, is exclusive.
func ParsePriceType(raw string) PriceType {
	if raw == string(PriceTypeInclusive) {
		return PriceTypeInclusive
	}
	return PriceTypeExclusive
}

// DefaultGSTRate is the rate applied when neither the product nor its
// category carries one.
const DefaultGSTRate = 18.0

// ValidGSTSlabs lists the Indian GST slabs. The calculator does not enforce
// them; rates outside the set are priced as given.
var ValidGSTSlabs = []float64{0, 5, 12, 18, 28}

// IsValidSlab reports whether rate is one of ValidGSTSlabs.
func IsValidSlab(rate float64) bool {
	for _, slab := range ValidGSTSlabs {
		if rate == slab {
			return true
		}
	}
	return false
}

// GSTBreakdown is the priced result for one line.
type GSTBreakdown struct {
	BasePrice  float64 `json:"basePrice"`
	GSTRate    float64 `json:"gstRate"`
	CGST       float64 `json:"cgst"`
	SGST       float64 `json:"sgst"`
	TotalGST   float64 `json:"totalGST"`
	FinalPrice float64 `json:"finalPrice"`
}

// SplitGST prices one line of quantity units at sellingPrice per unit.
// Zero or negative inputs are not rejected; they flow through the same
// formulas.
func SplitGST(sellingPrice float64, quantity int, rate float64, mode PriceType) GSTBreakdown {
	var base, tax, final float64

	if mode == PriceTypeInclusive {
		final = Round(sellingPrice * float64(quantity))
		base = Round(final / (1 + rate/100))
		tax = Round(final - base)
	} else {
		base = Round(sellingPrice * float64(quantity))
		tax = Round(base * rate / 100)
		final = Round(base + tax)
	}

	half := Round(tax / 2)
	return GSTBreakdown{
		BasePrice:  base,
		GSTRate:    rate,
		CGST:       half,
		SGST:       half,
		TotalGST:   tax,
		FinalPrice: final,
	}
}

// CalculateGSTExclusive prices a line whose unit price excludes GST.
func CalculateGSTExclusive(basePrice float64, quantity int, rate float64) GSTBreakdown {
	return SplitGST(basePrice, quantity, rate, PriceTypeExclusive)
}

// CalculateGSTInclusive prices a line whose unit price includes GST.
func CalculateGSTInclusive(inclusivePrice float64, quantity int, rate float64) GSTBreakdown {
	return SplitGST(inclusivePrice, quantity, rate, PriceTypeInclusive)
}

// ResolveGSTRate picks the effective rate: the product's own rate, else the
// category rate, else def.
func ResolveGSTRate(custom, category *float64, def float64) float64 {
	if custom != nil {
		return *custom
	}
	if category != nil {
		return *category
	}
	return def
}

// CartItem is one cart line as seen by the GST calculator.
type CartItem struct {
	Name            string    `json:"name"`
	Price           float64   `json:"price"`
	Quantity        int       `json:"quantity"`
	PriceType       PriceType `json:"priceType,omitempty"`
	CustomGSTRate   *float64  `json:"customGstRate,omitempty"`
	CategoryGSTRate *float64  `json:"categoryGstRate,omitempty"`
}

// CartGSTLine is one row of a cart-level GST breakdown, for invoices.
type CartGSTLine struct {
	Name     string `json:"name"`
	Quantity int    `json:"qty"`
	GSTBreakdown
}

// CartGST aggregates GST across cart lines.
type CartGST struct {
	Subtotal   float64       `json:"subtotal"`
	TotalCGST  float64       `json:"totalCGST"`
	TotalSGST  float64       `json:"totalSGST"`
	TotalGST   float64       `json:"totalGST"`
	GrandTotal float64       `json:"grandTotal"`
	Breakdown  []CartGSTLine `json:"gstBreakdown"`
}

// Calculator prices cart lines against an explicit default GST rate.
type Calculator struct {
	defaultRate float64
}

// NewCalculator returns a Calculator falling back to defaultRate.
func NewCalculator(defaultRate float64) *Calculator {
	return &Calculator{defaultRate: defaultRate}
}

// DefaultRate returns the configured fallback rate.
func (c *Calculator) DefaultRate() float64 {
	return c.defaultRate
}

// ResolveRate resolves the effective rate with this calculator's default.
func (c *Calculator) ResolveRate(custom, category *float64) float64 {
	return ResolveGSTRate(custom, category, c.defaultRate)
}

// ProductGST prices a single cart line. A zero quantity counts as one unit.
func (c *Calculator) ProductGST(item CartItem) GSTBreakdown {
	qty := item.Quantity
	if qty == 0 {
		qty = 1
	}
	rate := c.ResolveRate(item.CustomGSTRate, item.CategoryGSTRate)
	return SplitGST(item.Price, qty, rate, item.PriceType)
}

// CartGST prices every line and sums the results in input order.
func (c *Calculator) CartGST(items []CartItem) CartGST {
	var out CartGST
	out.Breakdown = make([]CartGSTLine, 0, len(items))

	for _, item := range items {
		qty := item.Quantity
		if qty == 0 {
			qty = 1
		}
		gst := c.ProductGST(item)

		out.Subtotal += gst.BasePrice
		out.TotalCGST += gst.CGST
		out.TotalSGST += gst.SGST
		out.TotalGST += gst.TotalGST

		name := item.Name
		if name == "" {
			name = "Product"
		}
		out.Breakdown = append(out.Breakdown, CartGSTLine{
			Name:         name,
			Quantity:     qty,
			GSTBreakdown: gst,
		})
	}

	out.Subtotal = Round(out.Subtotal)
	out.TotalCGST = Round(out.TotalCGST)
	out.TotalSGST = Round(out.TotalSGST)
	out.TotalGST = Round(out.TotalGST)
	out.GrandTotal = Round(out.Subtotal + out.TotalGST)
	return out
}
