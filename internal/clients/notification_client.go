package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fzokart/fzokart-orders-service/internal/config"
	"github.com/fzokart/fzokart-orders-service/internal/models"
	"github.com/fzokart/fzokart-orders-service/internal/pricing"
	"go.uber.org/zap"
)

// NotificationType identifies a notification template.
type NotificationType string

const (
	NotificationTypeOrderConfirmation NotificationType = "order_confirmation"
	NotificationTypePaymentFailed     NotificationType = "payment_failed"
)

// Notification is the payload accepted by the notification service.
type Notification struct {
	Type      NotificationType  `json:"type"`
	Recipient string            `json:"recipient"`
	Subject   string            `json:"subject"`
	Body      string            `json:"body"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// NotificationSender delivers user notifications.
type NotificationSender interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order) error
	SendPaymentFailed(ctx context.Context, order *models.Order) error
}

// HTTPNotificationClient implements NotificationSender using HTTP.
type HTTPNotificationClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPNotificationClient creates a new HTTP-based notification client.
func NewHTTPNotificationClient(cfg config.ServiceConfig, logger *zap.Logger) *HTTPNotificationClient {
	return &HTTPNotificationClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.Named("notification-client"),
	}
}

// SendOrderConfirmation tells the user their order was placed, quoting the
// frozen totals.
func (c *HTTPNotificationClient) SendOrderConfirmation(ctx context.Context, order *models.Order) error {
	return c.send(ctx, OrderConfirmation(order))
}

// SendPaymentFailed tells the user an online payment did not go through.
func (c *HTTPNotificationClient) SendPaymentFailed(ctx context.Context, order *models.Order) error {
	return c.send(ctx, &Notification{
		Type:      NotificationTypePaymentFailed,
		Recipient: order.UserID,
		Subject:   "Payment failed",
		Body:      fmt.Sprintf("Payment for your order %s did not go through.", order.ID),
		Metadata: map[string]string{
			"order_id": order.ID,
			"total":    pricing.FormatINR(order.Summary.GrandTotal),
		},
	})
}

// OrderConfirmation builds the confirmation notification for order.
func OrderConfirmation(order *models.Order) *Notification {
	s := order.Summary
	return &Notification{
		Type:      NotificationTypeOrderConfirmation,
		Recipient: order.UserID,
		Subject:   "Order Confirmation",
		Body:      fmt.Sprintf("Your order %s of %s has been received.", order.ID, pricing.FormatINR(s.GrandTotal)),
		Metadata: map[string]string{
			"order_id":        order.ID,
			"payment_method":  string(order.PaymentMethod),
			"subtotal":        pricing.FormatINR(s.Subtotal),
			"gst":             pricing.FormatINR(s.TotalGST),
			"delivery_charge": pricing.FormatINR(s.DeliveryCharge),
			"platform_fee":    pricing.FormatINR(s.PlatformFee),
			"discount":        pricing.FormatINR(s.CouponDiscount),
			"total":           pricing.FormatINR(s.GrandTotal),
			"due_on_delivery": pricing.FormatINR(dueOnDelivery(order)),
		},
	}
}

// dueOnDelivery is what the courier collects: the grand total for cash on
// delivery, nothing for prepaid orders.
func dueOnDelivery(order *models.Order) float64 {
	if order.IsPrepaid() {
		return 0
	}
	return order.Summary.GrandTotal
}

func (c *HTTPNotificationClient) send(ctx context.Context, notification *Notification) error {
	c.logger.Debug("Sending notification",
		zap.String("recipient", notification.Recipient),
		zap.String("type", string(notification.Type)),
	)

	body, err := json.Marshal(notification)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/notifications", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	setHeaders(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to send notification",
			zap.String("recipient", notification.Recipient),
			zap.Error(err),
		)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("notification service returned status %d", resp.StatusCode)
	}

	c.logger.Info("Notification sent",
		zap.String("recipient", notification.Recipient),
		zap.String("type", string(notification.Type)),
	)
	return nil
}
