package handlers

import (
	"net/http"
	"strconv"

	"github.com/fzokart/fzokart-orders-service/internal/pricing"
	"github.com/gin-gonic/gin"
)

type cartGSTRequest struct {
	Items []pricing.CartItem `json:"items"`
}

// CartGST handles POST /api/v1/pricing/gst
func (h *Handlers) CartGST(c *gin.Context) {
	var req cartGSTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	c.JSON(http.StatusOK, h.orderService.Calculator().CartGST(req.Items))
}

// PricingConfig handles GET /api/v1/pricing/config
func (h *Handlers) PricingConfig(c *gin.Context) {
	cfg := h.orderService.PricingConfig()
	policy := h.orderService.DeliveryPolicy()

	c.JSON(http.StatusOK, gin.H{
		"defaultGstRate":        h.orderService.Calculator().DefaultRate(),
		"platformFee":           cfg.PlatformFee,
		"freeDeliveryThreshold": policy.FreeThreshold,
		"codCharge":             policy.CODCharge,
	})
}

// DeliveryCharge handles GET /api/v1/pricing/delivery?amount=&method=
func (h *Handlers) DeliveryCharge(c *gin.Context) {
	amount, err := strconv.ParseFloat(c.Query("amount"), 64)
	if err != nil || amount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "amount must be a non-negative number",
			"field": "amount",
		})
		return
	}
	method := c.DefaultQuery("method", pricing.PaymentMethodCOD)

	policy := h.orderService.DeliveryPolicy()
	charge := policy.Charge(pricing.Round(amount), method)

	c.JSON(http.StatusOK, gin.H{
		"amount":         pricing.Round(amount),
		"paymentMethod":  method,
		"deliveryCharge": charge,
		"freeThreshold":  policy.FreeThreshold,
		"formatted":      pricing.FormatINR(charge),
	})
}
