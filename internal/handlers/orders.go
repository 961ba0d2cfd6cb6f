package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fzokart/fzokart-orders-service/internal/logging"
	"github.com/fzokart/fzokart-orders-service/internal/models"
	apperrors "github.com/fzokart/fzokart-orders-service/pkg/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader carries the client's checkout attempt id.
const IdempotencyKeyHeader = "Idempotency-Key"

// PreviewOrder handles POST /api/v1/orders/preview
func (h *Handlers) PreviewOrder(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	quote, err := h.orderService.PreviewOrder(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

// CreateOrder handles POST /api/v1/orders. A replayed Idempotency-Key
// answers 200 with the stored order instead of 201.
func (h *Handlers) CreateOrder(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.UserID == "" {
		if userID, ok := c.Get("user_id"); ok {
			req.UserID, _ = userID.(string)
		}
	}

	order, created, err := h.orderService.CreateOrder(c.Request.Context(), &req, c.GetHeader(IdempotencyKeyHeader))
	if err != nil {
		h.handleError(c, err)
		return
	}

	if !created {
		c.JSON(http.StatusOK, order)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GetOrder handles GET /api/v1/orders/:id
func (h *Handlers) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// ListUserOrders handles GET /api/v1/users/:userId/orders
func (h *Handlers) ListUserOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, err := h.orderService.ListUserOrders(c.Request.Context(), c.Param("userId"), limit, offset)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *Handlers) handleError(c *gin.Context, err error) {
	var (
		validationErr *apperrors.ValidationError
		conflictErr   *apperrors.ConflictError
		forbiddenErr  *apperrors.ForbiddenError
	)

	switch {
	case errors.As(err, &validationErr):
		body := gin.H{
			"error": validationErr.Message,
			"field": validationErr.Field,
		}
		if validationErr.Code != "" {
			body["code"] = validationErr.Code
		}
		c.JSON(http.StatusBadRequest, body)
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{"error": conflictErr.Error()})
	case errors.As(err, &forbiddenErr):
		c.JSON(http.StatusForbidden, gin.H{
			"error": forbiddenErr.Error(),
			"code":  forbiddenErr.Code,
		})
	default:
		if h.logger != nil {
			logging.WithContext(c.Request.Context(), h.logger).Error("Request failed",
				zap.String("path", c.FullPath()),
				zap.Error(err),
			)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
