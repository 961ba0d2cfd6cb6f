package service

import (
	"context"
	"fmt"

	"github.com/fzokart/fzokart-orders-service/internal/clients"
	"github.com/fzokart/fzokart-orders-service/internal/config"
	"github.com/fzokart/fzokart-orders-service/internal/models"
	"github.com/fzokart/fzokart-orders-service/internal/repository"
	"github.com/fzokart/fzokart-orders-service/pkg/errors"
	"go.uber.org/zap"
)

// PaymentService applies payment outcomes to stored orders. Only status
// fields change; the frozen summary is never touched.
type PaymentService struct {
	orderRepo          repository.OrderRepository
	orderCache         repository.OrderCache
	notificationClient clients.NotificationSender
	eventPublisher     OrderEventPublisher
	config             *config.Config
	logger             *zap.Logger
}

// NewPaymentService creates a new payment service.
func NewPaymentService(
	orderRepo repository.OrderRepository,
	orderCache repository.OrderCache,
	notificationClient clients.NotificationSender,
	eventPublisher OrderEventPublisher,
	cfg *config.Config,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		orderRepo:          orderRepo,
		orderCache:         orderCache,
		notificationClient: notificationClient,
		eventPublisher:     eventPublisher,
		config:             cfg,
		logger:             logger.Named("payment-service"),
	}
}

// maxPaymentAttempts bounds how often a payment outcome is re-evaluated
// after losing a race with a concurrent update of the same order.
const maxPaymentAttempts = 3

// paymentRule decides the transition for the order as currently stored.
// skip leaves the order as it is.
type paymentRule func(current *models.Order) (status models.PaymentStatus, orderStatus models.OrderStatus, skip bool, err error)

// MarkOrderPaid records a completed payment and confirms the order.
// Repeated deliveries of the same outcome are no-ops.
func (s *PaymentService) MarkOrderPaid(ctx context.Context, orderID, paymentID string) (*models.Order, error) {
	order, _, err := s.apply(ctx, orderID, paymentID, func(current *models.Order) (models.PaymentStatus, models.OrderStatus, bool, error) {
		if current.PaymentStatus == models.PaymentStatusPaid {
			s.logger.Debug("Order already paid", zap.String("order_id", orderID))
			return "", "", true, nil
		}
		return models.PaymentStatusPaid, models.OrderStatusConfirmed, false, nil
	})
	return order, err
}

// MarkPaymentFailed records a failed payment. The order stays pending so
// the user can retry; a paid order cannot be marked failed.
func (s *PaymentService) MarkPaymentFailed(ctx context.Context, orderID, paymentID string) (*models.Order, error) {
	order, changed, err := s.apply(ctx, orderID, paymentID, func(current *models.Order) (models.PaymentStatus, models.OrderStatus, bool, error) {
		switch current.PaymentStatus {
		case models.PaymentStatusPaid:
			return "", "", false, &errors.ConflictError{
				Message: fmt.Sprintf("order %s is already paid", orderID),
			}
		case models.PaymentStatusFailed:
			return "", "", true, nil
		}
		return models.PaymentStatusFailed, current.Status, false, nil
	})
	if err != nil {
		return nil, err
	}

	if changed && s.config.Features.EnableNotifications && s.notificationClient != nil {
		go s.sendPaymentFailed(order)
	}
	return order, nil
}

// apply reads the order, lets rule pick the transition and writes it only
// if the payment status is unchanged since the read. A lost race re-reads
// the order and evaluates rule again.
func (s *PaymentService) apply(ctx context.Context, orderID, paymentID string, rule paymentRule) (*models.Order, bool, error) {
	var err error
	for attempt := 1; attempt <= maxPaymentAttempts; attempt++ {
		var current *models.Order
		current, err = s.orderRepo.GetByID(ctx, orderID)
		if err != nil {
			return nil, false, err
		}

		status, orderStatus, skip, ruleErr := rule(current)
		if ruleErr != nil {
			return nil, false, ruleErr
		}
		if skip {
			return current, false, nil
		}

		var order *models.Order
		order, err = s.update(ctx, current, status, orderStatus, paymentID)
		if err == nil {
			return order, true, nil
		}
		if !errors.IsConflict(err) {
			return nil, false, err
		}
		s.logger.Warn("Payment status changed concurrently, retrying",
			zap.String("order_id", orderID),
			zap.Int("attempt", attempt),
		)
	}
	return nil, false, err
}

func (s *PaymentService) update(ctx context.Context, current *models.Order, status models.PaymentStatus, orderStatus models.OrderStatus, paymentID string) (*models.Order, error) {
	s.logger.Info("Updating payment status",
		zap.String("order_id", current.ID),
		zap.String("from", string(current.PaymentStatus)),
		zap.String("to", string(status)),
	)

	order, err := s.orderRepo.UpdatePayment(ctx, current.ID, current.PaymentStatus, status, orderStatus, paymentID)
	if err != nil {
		return nil, err
	}

	if s.config.Features.EnableOrderCaching && s.orderCache != nil {
		if err := s.orderCache.Delete(ctx, order.ID); err != nil {
			s.logger.Error("Failed to invalidate cached order",
				zap.String("order_id", order.ID),
				zap.Error(err),
			)
		}
	}

	if s.config.Features.EnableOrderEvents && s.eventPublisher != nil {
		if err := s.eventPublisher.PublishPaymentUpdated(ctx, order, current.PaymentStatus); err != nil {
			s.logger.Error("Failed to publish payment updated event",
				zap.String("order_id", order.ID),
				zap.Error(err),
			)
		}
	}

	return order, nil
}

func (s *PaymentService) sendPaymentFailed(order *models.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), notificationTimeout)
	defer cancel()

	if err := s.notificationClient.SendPaymentFailed(ctx, order); err != nil {
		s.logger.Error("Failed to send payment failed notification",
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
	}
}
