package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fzokart/fzokart-orders-service/internal/clients"
	"github.com/fzokart/fzokart-orders-service/internal/config"
	"github.com/fzokart/fzokart-orders-service/internal/logging"
	"github.com/fzokart/fzokart-orders-service/internal/metrics"
	"github.com/fzokart/fzokart-orders-service/internal/models"
	"github.com/fzokart/fzokart-orders-service/internal/pricing"
	"github.com/fzokart/fzokart-orders-service/internal/repository"
	"github.com/fzokart/fzokart-orders-service/pkg/errors"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100

	notificationTimeout = 10 * time.Second
)

// OrderEventPublisher publishes order lifecycle events.
type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *models.Order) error
	PublishPaymentUpdated(ctx context.Context, order *models.Order, previous models.PaymentStatus) error
}

// OrderService handles order business logic.
type OrderService struct {
	orderRepo          repository.OrderRepository
	catalogRepo        repository.CatalogRepository
	orderCache         repository.OrderCache
	couponClient       clients.CouponClient
	notificationClient clients.NotificationSender
	eventPublisher     OrderEventPublisher
	engine             *pricing.Engine
	calculator         *pricing.Calculator
	delivery           pricing.DeliveryPolicy
	metrics            *metrics.Metrics
	config             *config.Config
	logger             *zap.Logger
}

// NewOrderService creates a new order service. The pricing engine,
// calculator and delivery policy are built from cfg.Pricing.
func NewOrderService(
	orderRepo repository.OrderRepository,
	catalogRepo repository.CatalogRepository,
	orderCache repository.OrderCache,
	couponClient clients.CouponClient,
	notificationClient clients.NotificationSender,
	eventPublisher OrderEventPublisher,
	m *metrics.Metrics,
	cfg *config.Config,
	logger *zap.Logger,
) *OrderService {
	if m == nil {
		m = metrics.Nop()
	}
	return &OrderService{
		orderRepo:          orderRepo,
		catalogRepo:        catalogRepo,
		orderCache:         orderCache,
		couponClient:       couponClient,
		notificationClient: notificationClient,
		eventPublisher:     eventPublisher,
		engine: pricing.NewEngine(pricing.Config{
			DefaultGSTRate: cfg.Pricing.DefaultGSTRate,
			PlatformFee:    cfg.Pricing.PlatformFee,
		}),
		calculator: pricing.NewCalculator(cfg.Pricing.DefaultGSTRate),
		delivery: pricing.DeliveryPolicy{
			FreeThreshold: cfg.Pricing.FreeDeliveryThreshold,
			CODCharge:     cfg.Pricing.CODCharge,
		},
		metrics: m,
		config:  cfg,
		logger:  logger.Named("order-service"),
	}
}

// Calculator exposes the stateless GST calculator configured for this service.
func (s *OrderService) Calculator() *pricing.Calculator {
	return s.calculator
}

// PricingConfig returns the engine configuration orders are priced with.
func (s *OrderService) PricingConfig() pricing.Config {
	return s.engine.Config()
}

// DeliveryPolicy returns the configured delivery policy.
func (s *OrderService) DeliveryPolicy() pricing.DeliveryPolicy {
	return s.delivery
}

// PreviewOrder prices a checkout without persisting anything.
func (s *OrderService) PreviewOrder(ctx context.Context, req *models.CheckoutRequest) (*pricing.Quote, error) {
	if err := ValidateCheckoutRequest(req, s.config.Pricing.MaxQuantityPerItem); err != nil {
		return nil, err
	}

	quote, _, err := s.quote(ctx, req, "preview")
	if err != nil {
		return nil, err
	}
	return quote, nil
}

// CreateOrder validates, prices and stores an order. With an idempotency
// key already on record it returns the stored order and created=false when
// the request matches, or a ConflictError when it does not.
func (s *OrderService) CreateOrder(ctx context.Context, req *models.CheckoutRequest, idempotencyKey string) (*models.Order, bool, error) {
	if err := ValidateCheckoutRequest(req, s.config.Pricing.MaxQuantityPerItem); err != nil {
		return nil, false, err
	}

	logging.WithContext(ctx, s.logger).Info("Creating order",
		zap.String("user_id", req.UserID),
		zap.Int("item_count", len(req.Items)),
		zap.String("payment_method", string(req.PaymentMethod)),
	)

	hash, err := RequestHash(req)
	if err != nil {
		return nil, false, err
	}

	if idempotencyKey != "" {
		existing, err := s.orderRepo.GetByIdempotencyKey(ctx, idempotencyKey)
		switch {
		case err == nil:
			return s.replay(existing, hash, idempotencyKey)
		case !errors.IsNotFound(err):
			return nil, false, err
		}
	}

	quote, coupon, err := s.quote(ctx, req, "checkout")
	if err != nil {
		return nil, false, err
	}

	order := &models.Order{
		UserID:         req.UserID,
		Status:         initialStatus(req.PaymentMethod),
		PaymentMethod:  req.PaymentMethod,
		PaymentStatus:  models.PaymentStatusPending,
		IdempotencyKey: idempotencyKey,
		RequestHash:    hash,
		Summary:        quote.Summary,
		Coupon:         coupon,
	}

	stored, created, err := s.orderRepo.Create(ctx, order)
	if err != nil {
		s.logger.Error("Failed to create order",
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
		return nil, false, err
	}
	if !created {
		return s.replay(stored, hash, idempotencyKey)
	}

	s.metrics.OrdersCreated.WithLabelValues(string(stored.PaymentMethod)).Inc()
	s.metrics.GrandTotal.Observe(stored.Summary.GrandTotal)

	s.cacheOrder(ctx, stored)

	if s.config.Features.EnableOrderEvents && s.eventPublisher != nil {
		if err := s.eventPublisher.PublishOrderCreated(ctx, stored); err != nil {
			s.logger.Error("Failed to publish order created event",
				zap.String("order_id", stored.ID),
				zap.Error(err),
			)
		}
	}

	if s.config.Features.EnableNotifications && s.notificationClient != nil {
		go s.sendOrderConfirmation(stored)
	}

	s.logger.Info("Order created successfully",
		zap.String("order_id", stored.ID),
		zap.Float64("grand_total", stored.Summary.GrandTotal),
	)
	return stored, true, nil
}

// GetOrder returns a stored order. Totals are read back as frozen, never
// recomputed.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	s.logger.Debug("Getting order", zap.String("order_id", id))

	if s.cachingEnabled() {
		order, err := s.orderCache.Get(ctx, id)
		if err != nil {
			s.logger.Warn("Order cache read failed", zap.String("order_id", id), zap.Error(err))
		} else if order != nil {
			s.logger.Debug("Order found in cache", zap.String("order_id", id))
			return order, nil
		}
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheOrder(ctx, order)
	return order, nil
}

// ListUserOrders returns a page of a user's orders, newest first.
func (s *OrderService) ListUserOrders(ctx context.Context, userID string, limit, offset int) (*models.OrderList, error) {
	if userID == "" {
		return nil, errors.NewValidationError("user_id", "user ID is required")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	orders, total, err := s.orderRepo.GetByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return &models.OrderList{
		Orders: orders,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

// quote loads the catalog, validates the coupon and prices the checkout once.
func (s *OrderService) quote(ctx context.Context, req *models.CheckoutRequest, kind string) (*pricing.Quote, *models.CouponSnapshot, error) {
	products, err := s.catalogRepo.GetProducts(ctx, productIDs(req))
	if err != nil {
		return nil, nil, err
	}
	if err := validateAgainstCatalog(req, products); err != nil {
		return nil, nil, err
	}

	var discount float64
	var coupon *models.CouponSnapshot
	if req.CouponCode != "" {
		if s.couponClient == nil {
			return nil, nil, errors.NewValidationErrorWithCode("coupon_code",
				"coupons are not accepted right now", clients.ErrCodeInvalidCoupon)
		}
		result, err := s.couponClient.Validate(ctx, req.UserID, req.CouponCode, couponLines(req, products), req.PaymentMethod)
		if err != nil {
			return nil, nil, err
		}
		coupon = result.Snapshot()
		discount = result.DiscountAmount
	}

	q := s.engine.Quote(pricing.QuoteInput{
		Items:          buildItemInputs(s.calculator, req, products),
		PaymentMethod:  string(req.PaymentMethod),
		CouponDiscount: discount,
	}, s.delivery)
	s.metrics.Quotes.WithLabelValues(kind).Inc()

	return &q, coupon, nil
}

func (s *OrderService) replay(existing *models.Order, hash, key string) (*models.Order, bool, error) {
	if existing.RequestHash != hash {
		s.logger.Warn("Idempotency key reused with a different request",
			zap.String("order_id", existing.ID),
			zap.String("idempotency_key", key),
		)
		return nil, false, &errors.ConflictError{
			Message: "idempotency key was already used for a different request",
		}
	}

	s.metrics.OrderReplays.Inc()
	s.logger.Info("Returning existing order for idempotency key",
		zap.String("order_id", existing.ID),
		zap.String("idempotency_key", key),
	)
	return existing, false, nil
}

func (s *OrderService) cachingEnabled() bool {
	return s.config.Features.EnableOrderCaching && s.orderCache != nil
}

func (s *OrderService) cacheOrder(ctx context.Context, order *models.Order) {
	if !s.cachingEnabled() {
		return
	}
	if err := s.orderCache.Set(ctx, order); err != nil {
		s.logger.Error("Failed to cache order",
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
	}
}

func (s *OrderService) sendOrderConfirmation(order *models.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), notificationTimeout)
	defer cancel()

	if err := s.notificationClient.SendOrderConfirmation(ctx, order); err != nil {
		s.logger.Error("Failed to send order confirmation",
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
	}
}

// initialStatus confirms cash on delivery orders immediately; prepaid
// orders wait for the payment outcome.
func initialStatus(method models.PaymentMethod) models.OrderStatus {
	if method == models.PaymentMethodCOD {
		return models.OrderStatusConfirmed
	}
	return models.OrderStatusPending
}

// RequestHash fingerprints the parts of a checkout that determine its
// price, so a replayed idempotency key can be checked against the original.
func RequestHash(req *models.CheckoutRequest) (string, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("hash request: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
