package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/fzokart/fzokart-orders-service/internal/config"
	"github.com/fzokart/fzokart-orders-service/internal/models"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// PaymentEventType represents the type of payment event.
type PaymentEventType string

const (
	PaymentEventCompleted PaymentEventType = "payment.completed"
	PaymentEventFailed    PaymentEventType = "payment.failed"
)

// PaymentEvent represents a payment-related event.
type PaymentEvent struct {
	ID        string           `json:"id"`
	Type      PaymentEventType `json:"type"`
	PaymentID string           `json:"payment_id"`
	OrderID   string           `json:"order_id"`
	Status    string           `json:"status"`
	Data      json.RawMessage  `json:"data"`
	Timestamp time.Time        `json:"timestamp"`
}

// PaymentHandler applies payment outcomes to orders.
type PaymentHandler interface {
	MarkOrderPaid(ctx context.Context, orderID, paymentID string) (*models.Order, error)
	MarkPaymentFailed(ctx context.Context, orderID, paymentID string) (*models.Order, error)
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// KafkaConsumer consumes payment events from Kafka.
type KafkaConsumer struct {
	reader  messageReader
	handler PaymentHandler
	logger  *zap.Logger
	stopCh  chan struct{}

	stopOnce sync.Once
}

// NewKafkaConsumer creates a new Kafka-based event consumer.
func NewKafkaConsumer(cfg config.KafkaConfig, handler PaymentHandler, logger *zap.Logger) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.PaymentsTopic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})

	return &KafkaConsumer{
		reader:  reader,
		handler: handler,
		logger:  logger.Named("payment-consumer"),
		stopCh:  make(chan struct{}),
	}
}

// Start consumes events until ctx is cancelled or Stop is called.
func (c *KafkaConsumer) Start(ctx context.Context) error {
	c.logger.Info("Starting Kafka consumer")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stopCh:
			c.logger.Info("Kafka consumer stopped")
			return nil
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				select {
				case <-c.stopCh:
					c.logger.Info("Kafka consumer stopped")
					return nil
				default:
				}
				c.logger.Error("Failed to read message", zap.Error(err))
				continue
			}

			c.handleMessage(ctx, msg)
		}
	}
}

// Stop stops the consumer. Only the first call has any effect.
func (c *KafkaConsumer) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
		if err := c.reader.Close(); err != nil {
			c.logger.Warn("Failed to close payment reader", zap.Error(err))
		}
	})
}

func (c *KafkaConsumer) handleMessage(ctx context.Context, msg kafka.Message) {
	c.logger.Debug("Received message",
		zap.String("topic", msg.Topic),
		zap.Int("partition", msg.Partition),
		zap.Int64("offset", msg.Offset),
	)

	var event PaymentEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	var err error
	switch event.Type {
	case PaymentEventCompleted:
		_, err = c.handler.MarkOrderPaid(ctx, event.OrderID, event.PaymentID)
	case PaymentEventFailed:
		_, err = c.handler.MarkPaymentFailed(ctx, event.OrderID, event.PaymentID)
	default:
		c.logger.Debug("Ignoring unknown event type", zap.String("type", string(event.Type)))
		return
	}

	if err != nil {
		c.logger.Error("Failed to apply payment event",
			zap.String("event_type", string(event.Type)),
			zap.String("order_id", event.OrderID),
			zap.String("payment_id", event.PaymentID),
			zap.Error(err),
		)
		return
	}

	c.logger.Info("Payment event applied",
		zap.String("event_type", string(event.Type)),
		zap.String("order_id", event.OrderID),
	)
}
