package handlers

import (
	"net/http"

	"github.com/fzokart/fzokart-orders-service/internal/models"
	"github.com/gin-gonic/gin"
)

type paymentUpdateRequest struct {
	Status    models.PaymentStatus `json:"status" binding:"required"`
	PaymentID string               `json:"payment_id"`
}

// UpdatePayment handles POST /api/v1/orders/:id/payment. It applies the
// same transitions as the payments event consumer.
func (h *Handlers) UpdatePayment(c *gin.Context) {
	var req paymentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var (
		order *models.Order
		err   error
	)
	switch req.Status {
	case models.PaymentStatusPaid:
		order, err = h.paymentService.MarkOrderPaid(c.Request.Context(), c.Param("id"), req.PaymentID)
	case models.PaymentStatusFailed:
		order, err = h.paymentService.MarkPaymentFailed(c.Request.Context(), c.Param("id"), req.PaymentID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "status must be PAID or FAILED",
			"field": "status",
		})
		return
	}
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}
