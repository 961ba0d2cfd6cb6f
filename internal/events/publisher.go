package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fzokart/fzokart-orders-service/internal/config"
	"github.com/fzokart/fzokart-orders-service/internal/logging"
	"github.com/fzokart/fzokart-orders-service/internal/models"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventType represents the type of order event.
type EventType string

const (
	EventTypeOrderCreated        EventType = "order.created"
	EventTypeOrderPaymentUpdated EventType = "order.payment_updated"
)

// OrderEvent represents an order-related event.
type OrderEvent struct {
	ID            string            `json:"id"`
	Type          EventType         `json:"type"`
	OrderID       string            `json:"order_id"`
	UserID        string            `json:"user_id"`
	Data          json.RawMessage   `json:"data"`
	Metadata      map[string]string `json:"metadata"`
	Timestamp     time.Time         `json:"timestamp"`
	CorrelationID string            `json:"correlation_id,omitempty"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes order events to Kafka.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	logger *zap.Logger
}

// NewKafkaPublisher creates a new Kafka-based event publisher.
func NewKafkaPublisher(cfg config.KafkaConfig, logger *zap.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.OrdersTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}

	return &KafkaPublisher{
		writer: writer,
		topic:  cfg.OrdersTopic,
		logger: logger.Named("event-publisher"),
	}
}

// PublishOrderCreated publishes the order with its frozen summary.
func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, order *models.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}

	event := p.createEvent(ctx, EventTypeOrderCreated, order, data)
	event.Metadata["payment_method"] = string(order.PaymentMethod)
	return p.publish(ctx, event)
}

// PublishPaymentUpdated publishes a payment status change.
func (p *KafkaPublisher) PublishPaymentUpdated(ctx context.Context, order *models.Order, previous models.PaymentStatus) error {
	payload := struct {
		PreviousStatus models.PaymentStatus `json:"previous_status"`
		PaymentStatus  models.PaymentStatus `json:"payment_status"`
		OrderStatus    models.OrderStatus   `json:"order_status"`
		PaymentID      string               `json:"payment_id,omitempty"`
		GrandTotal     float64              `json:"grand_total"`
	}{
		PreviousStatus: previous,
		PaymentStatus:  order.PaymentStatus,
		OrderStatus:    order.Status,
		PaymentID:      order.PaymentID,
		GrandTotal:     order.Summary.GrandTotal,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.publish(ctx, p.createEvent(ctx, EventTypeOrderPaymentUpdated, order, data))
}

func (p *KafkaPublisher) createEvent(ctx context.Context, eventType EventType, order *models.Order, data []byte) *OrderEvent {
	return &OrderEvent{
		ID:            uuid.NewString(),
		Type:          eventType,
		OrderID:       order.ID,
		UserID:        order.UserID,
		Data:          data,
		Metadata:      make(map[string]string),
		Timestamp:     time.Now().UTC(),
		CorrelationID: logging.RequestIDFromContext(ctx),
	}
}

func (p *KafkaPublisher) publish(ctx context.Context, event *OrderEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: eventData,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.String("order_id", event.OrderID),
			zap.Error(err),
		)
		return err
	}

	p.logger.Info("Event published",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("order_id", event.OrderID),
	)
	return nil
}

// Close closes the Kafka writer.
func (p *KafkaPublisher) Close() error {
	p.logger.Info("Closing Kafka publisher")
	return p.writer.Close()
}
