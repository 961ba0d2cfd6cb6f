package handlers

import (
	"context"

	"github.com/fzokart/fzokart-orders-service/internal/config"
	"github.com/fzokart/fzokart-orders-service/internal/models"
	"github.com/fzokart/fzokart-orders-service/internal/pricing"
	"go.uber.org/zap"
)

// OrderService is the order surface the handlers depend on.
type OrderService interface {
	PreviewOrder(ctx context.Context, req *models.CheckoutRequest) (*pricing.Quote, error)
	CreateOrder(ctx context.Context, req *models.CheckoutRequest, idempotencyKey string) (*models.Order, bool, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListUserOrders(ctx context.Context, userID string, limit, offset int) (*models.OrderList, error)
	Calculator() *pricing.Calculator
	DeliveryPolicy() pricing.DeliveryPolicy
	PricingConfig() pricing.Config
}

// PaymentService applies payment outcomes reported over HTTP.
type PaymentService interface {
	MarkOrderPaid(ctx context.Context, orderID, paymentID string) (*models.Order, error)
	MarkPaymentFailed(ctx context.Context, orderID, paymentID string) (*models.Order, error)
}

// ReadinessCheck reports whether a dependency is reachable.
type ReadinessCheck func(ctx context.Context) error

// Handlers holds all HTTP handlers for the orders service.
type Handlers struct {
	orderService   OrderService
	paymentService PaymentService
	readiness      map[string]ReadinessCheck
	config         *config.Config
	logger         *zap.Logger
}

// NewHandlers creates a new handlers instance.
func NewHandlers(
	orderService OrderService,
	paymentService PaymentService,
	readiness map[string]ReadinessCheck,
	cfg *config.Config,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		orderService:   orderService,
		paymentService: paymentService,
		readiness:      readiness,
		config:         cfg,
		logger:         logger.Named("handlers"),
	}
}
