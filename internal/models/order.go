package models

import (
	"time"

	"github.com/fzokart/fzokart-orders-service/internal/pricing"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentMethodCOD      PaymentMethod = pricing.PaymentMethodCOD
	PaymentMethodRazorpay PaymentMethod = pricing.PaymentMethodRazorpay
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// Order is a placed order. Summary is frozen at creation and only status
// fields change afterwards.
type Order struct {
	ID             string               `json:"id"`
	UserID         string               `json:"user_id"`
	Status         OrderStatus          `json:"status"`
	PaymentMethod  PaymentMethod        `json:"payment_method"`
	PaymentStatus  PaymentStatus        `json:"payment_status"`
	PaymentID      string               `json:"payment_id,omitempty"`
	IdempotencyKey string               `json:"-"`
	RequestHash    string               `json:"-"`
	Summary        pricing.OrderSummary `json:"summary"`
	Coupon         *CouponSnapshot      `json:"coupon,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// IsPrepaid reports whether the order is paid online.
func (o *Order) IsPrepaid() bool {
	return o.PaymentMethod != PaymentMethodCOD
}

// CheckoutItem is one requested line: a product and a quantity.
type CheckoutItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CheckoutRequest is what the client sends to preview or place an order.
// Prices are never accepted from the client.
type CheckoutRequest struct {
	UserID        string         `json:"user_id"`
	PaymentMethod PaymentMethod  `json:"payment_method"`
	CouponCode    string         `json:"coupon_code,omitempty"`
	Items         []CheckoutItem `json:"items"`
}

// Product is the catalog read model used to price a checkout.
type Product struct {
	ID              string
	Name            string
	Image           string
	Thumbnail       string
	Images          []string
	Price           float64
	OriginalPrice   float64
	CustomGSTRate   *float64
	CategoryGSTRate *float64
	PriceType       string
	CODAvailable    bool
	CountInStock    int
}

// CouponSnapshot records the coupon applied to an order.
type CouponSnapshot struct {
	CouponID       string  `json:"coupon_id"`
	Code           string  `json:"code"`
	DiscountType   string  `json:"discount_type"`
	DiscountAmount float64 `json:"discount_amount"`
}

// OrderList is a page of a user's orders.
type OrderList struct {
	Orders []*Order `json:"orders"`
	Total  int      `json:"total"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
}
