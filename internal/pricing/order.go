package pricing

// DefaultPlatformFee is charged on every order unless the caller passes one.
const DefaultPlatformFee = 3.0

// Config carries the engine's tunables. Nothing in this package reads
// process-wide state; callers build a Config and hand it to NewEngine.
type Config struct {
	DefaultGSTRate float64
	PlatformFee    float64
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		DefaultGSTRate: DefaultGSTRate,
		PlatformFee:    DefaultPlatformFee,
	}
}

// Engine computes frozen order summaries.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine with the given configuration.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// ItemInput is a loosely shaped line item, typically a product snapshot
// merged with a cart quantity.
type ItemInput struct {
	ID            string    `json:"_id,omitempty"`
	ProductID     string    `json:"productId,omitempty"`
	Name          string    `json:"name,omitempty"`
	Image         string    `json:"image,omitempty"`
	Thumbnail     string    `json:"thumbnail,omitempty"`
	Images        []string  `json:"images,omitempty"`
	MRP           Number    `json:"mrp"`
	OriginalPrice Number    `json:"originalPrice"`
	SellingPrice  Number    `json:"sellingPrice"`
	Price         Number    `json:"price"`
	Quantity      Number    `json:"quantity"`
	GSTRate       Number    `json:"gstRate"`
	CustomGSTRate Number    `json:"customGstRate"`
	PriceType     PriceType `json:"priceType,omitempty"`
}

// LineItem is a normalized line item. Every field is populated.
type LineItem struct {
	ProductID    string
	Name         string
	Image        string
	MRP          float64
	SellingPrice float64
	Quantity     int
	GSTRate      float64
	PriceType    PriceType
}

// ItemResult is the frozen per-line output.
type ItemResult struct {
	ProductID    string    `json:"productId"`
	Name         string    `json:"name"`
	Image        string    `json:"image"`
	MRP          float64   `json:"mrp"`
	SellingPrice float64   `json:"sellingPrice"`
	Quantity     int       `json:"quantity"`
	GSTRate      float64   `json:"gstRate"`
	PriceType    PriceType `json:"priceType"`
	ItemSubtotal float64   `json:"itemSubtotal"`
	ItemGST      float64   `json:"itemGST"`
	CGST         float64   `json:"cgst"`
	SGST         float64   `json:"sgst"`
	ItemFinal    float64   `json:"itemFinal"`
}

// OrderInput is the input to CalculateFinalOrder. A PlatformFee that was
// never supplied takes the engine's configured fee; a null or malformed one
// is 0, as are the other charges.
type OrderInput struct {
	Items          []ItemInput `json:"items"`
	DeliveryCharge Number      `json:"deliveryCharge"`
	PlatformFee    Number      `json:"platformFee"`
	CouponDiscount Number      `json:"couponDiscount"`
}

// OrderSummary is the frozen order total. It is computed once at checkout
// and persisted verbatim; it is never recomputed from later catalog data.
type OrderSummary struct {
	Items          []ItemResult `json:"items"`
	Subtotal       float64      `json:"subtotal"`
	TotalGST       float64      `json:"totalGST"`
	CGST           float64      `json:"cgst"`
	SGST           float64      `json:"sgst"`
	MRP            float64      `json:"mrp"`
	DeliveryCharge float64      `json:"deliveryCharge"`
	PlatformFee    float64      `json:"platformFee"`
	CouponDiscount float64      `json:"couponDiscount"`
	GrandTotal     float64      `json:"grandTotal"`
}

// Normalize coerces a loose item into a LineItem. Missing or malformed
// numbers fall back along their chains and never cause an error.
func (e *Engine) Normalize(in ItemInput) LineItem {
	var firstImage string
	if len(in.Images) > 0 {
		firstImage = in.Images[0]
	}

	return LineItem{
		ProductID:    firstString(in.ID, in.ProductID),
		Name:         in.Name,
		Image:        firstString(in.Image, in.Thumbnail, firstImage),
		MRP:          firstTruthy(in.MRP, in.OriginalPrice, in.SellingPrice),
		SellingPrice: firstTruthy(in.SellingPrice, in.Price),
		Quantity:     toQuantity(in.Quantity),
		GSTRate:      firstValid(e.cfg.DefaultGSTRate, in.GSTRate, in.CustomGSTRate),
		PriceType:    ParsePriceType(string(in.PriceType)),
	}
}

// priceItem runs the GST split for one normalized line.
func priceItem(item LineItem) ItemResult {
	gst := SplitGST(item.SellingPrice, item.Quantity, item.GSTRate, item.PriceType)
	return ItemResult{
		ProductID:    item.ProductID,
		Name:         item.Name,
		Image:        item.Image,
		MRP:          item.MRP,
		SellingPrice: item.SellingPrice,
		Quantity:     item.Quantity,
		GSTRate:      item.GSTRate,
		PriceType:    item.PriceType,
		ItemSubtotal: gst.BasePrice,
		ItemGST:      gst.TotalGST,
		CGST:         gst.CGST,
		SGST:         gst.SGST,
		ItemFinal:    gst.FinalPrice,
	}
}

// itemTotals is the per-item aggregation before any order-level charges.
type itemTotals struct {
	items    []ItemResult
	subtotal float64
	totalGST float64
	cgst     float64
	sgst     float64
	mrp      float64
}

func (e *Engine) aggregate(inputs []ItemInput) itemTotals {
	t := itemTotals{items: make([]ItemResult, 0, len(inputs))}
	for _, in := range inputs {
		item := e.Normalize(in)
		res := priceItem(item)

		t.subtotal += res.ItemSubtotal
		t.totalGST += res.ItemGST
		t.cgst += res.CGST
		t.sgst += res.SGST
		t.mrp += Round(item.MRP * float64(item.Quantity))

		t.items = append(t.items, res)
	}

	t.subtotal = Round(t.subtotal)
	t.totalGST = Round(t.totalGST)
	t.cgst = Round(t.cgst)
	t.sgst = Round(t.sgst)
	t.mrp = Round(t.mrp)
	return t
}

// itemsPlusTax is the amount the delivery policy is evaluated against.
func (t itemTotals) itemsPlusTax() float64 {
	return Round(t.subtotal + t.totalGST)
}

func (e *Engine) finalize(t itemTotals, delivery, platformFee, coupon float64) OrderSummary {
	delivery = Round(delivery)
	platformFee = Round(platformFee)
	coupon = Round(coupon)

	return OrderSummary{
		Items:          t.items,
		Subtotal:       t.subtotal,
		TotalGST:       t.totalGST,
		CGST:           t.cgst,
		SGST:           t.sgst,
		MRP:            t.mrp,
		DeliveryCharge: delivery,
		PlatformFee:    platformFee,
		CouponDiscount: coupon,
		GrandTotal:     Round(t.subtotal + t.totalGST + delivery + platformFee - coupon),
	}
}

// CalculateFinalOrder prices every item in input order and produces the
// frozen summary. It never fails; an empty item list yields zero item
// totals and a grand total of the order-level charges alone.
func (e *Engine) CalculateFinalOrder(in OrderInput) OrderSummary {
	t := e.aggregate(in.Items)
	return e.finalize(t,
		firstTruthy(in.DeliveryCharge),
		e.platformFee(in.PlatformFee),
		firstTruthy(in.CouponDiscount),
	)
}

func (e *Engine) platformFee(fee Number) float64 {
	if !fee.Present() {
		return e.cfg.PlatformFee
	}
	return firstTruthy(fee)
}
