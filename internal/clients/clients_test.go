package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fzokart/fzokart-orders-service/internal/config"
	"github.com/fzokart/fzokart-orders-service/internal/logging"
	"github.com/fzokart/fzokart-orders-service/internal/models"
	"github.com/fzokart/fzokart-orders-service/internal/pricing"
	"github.com/fzokart/fzokart-orders-service/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHTTPCouponClient_Valid(t *testing.T) {
	var got validateCouponRequest
	var requestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/coupons/validate", r.URL.Path)
		requestID = r.Header.Get(logging.RequestIDHeader)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"valid":true,"coupon_id":"c1","code":"SAVE50","discount_type":"flat","discount_amount":50}`))
	}))
	defer srv.Close()

	client := NewHTTPCouponClient(config.ServiceConfig{BaseURL: srv.URL, Timeout: time.Second}, zap.NewNop())
	ctx := logging.WithRequestID(context.Background(), "req-1")

	res, err := client.Validate(ctx, "user_1", "SAVE50", []CouponLine{{ProductID: "p1", Quantity: 1, Price: 1000}}, models.PaymentMethodCOD)
	require.NoError(t, err)

	assert.Equal(t, 50.0, res.DiscountAmount)
	assert.Equal(t, "SAVE50", res.Snapshot().Code)
	assert.Equal(t, "user_1", got.UserID)
	assert.Equal(t, "COD", got.PaymentMethod)
	assert.Equal(t, "req-1", requestID)
}

func TestHTTPCouponClient_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"valid":false,"message":"Coupon expired"}`))
	}))
	defer srv.Close()

	client := NewHTTPCouponClient(config.ServiceConfig{BaseURL: srv.URL, Timeout: time.Second}, zap.NewNop())

	_, err := client.Validate(context.Background(), "user_1", "OLD", nil, models.PaymentMethodRazorpay)
	require.Error(t, err)

	var vErr *errors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, ErrCodeInvalidCoupon, vErr.Code)
	assert.Equal(t, "Coupon expired", vErr.Message)
}

func TestHTTPCouponClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewHTTPCouponClient(config.ServiceConfig{BaseURL: srv.URL, Timeout: time.Second}, zap.NewNop())

	_, err := client.Validate(context.Background(), "user_1", "X", nil, models.PaymentMethodCOD)
	require.Error(t, err)
	assert.False(t, errors.IsValidation(err))
}

func TestHTTPNotificationClient_SendOrderConfirmation(t *testing.T) {
	var got Notification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/notifications", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := NewHTTPNotificationClient(config.ServiceConfig{BaseURL: srv.URL, Timeout: time.Second}, zap.NewNop())
	order := &models.Order{
		ID:            "ord_1",
		UserID:        "user_1",
		PaymentMethod: models.PaymentMethodCOD,
		Summary:       pricing.OrderSummary{Subtotal: 3000, TotalGST: 540, PlatformFee: 3, CouponDiscount: 50, GrandTotal: 3493},
	}

	require.NoError(t, client.SendOrderConfirmation(context.Background(), order))

	assert.Equal(t, NotificationTypeOrderConfirmation, got.Type)
	assert.Equal(t, "user_1", got.Recipient)
	assert.Equal(t, "₹3,493.00", got.Metadata["total"])
	assert.Equal(t, "₹540.00", got.Metadata["gst"])
	assert.Equal(t, "₹3,493.00", got.Metadata["due_on_delivery"])
}

func TestOrderConfirmation_PrepaidNothingDue(t *testing.T) {
	n := OrderConfirmation(&models.Order{
		ID:            "ord_2",
		UserID:        "user_1",
		PaymentMethod: models.PaymentMethodRazorpay,
		Summary:       pricing.OrderSummary{GrandTotal: 1183},
	})

	assert.Equal(t, "₹0.00", n.Metadata["due_on_delivery"])
	assert.Equal(t, "₹1,183.00", n.Metadata["total"])
}

func TestHTTPNotificationClient_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewHTTPNotificationClient(config.ServiceConfig{BaseURL: srv.URL, Timeout: time.Second}, zap.NewNop())
	err := client.SendPaymentFailed(context.Background(), &models.Order{ID: "ord_1", UserID: "u"})
	assert.Error(t, err)
}
