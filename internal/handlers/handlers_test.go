package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fzokart/fzokart-orders-service/internal/models"
	"github.com/fzokart/fzokart-orders-service/internal/pricing"
	"github.com/fzokart/fzokart-orders-service/pkg/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type stubOrderService struct {
	quote   *pricing.Quote
	order   *models.Order
	created bool
	list    *models.OrderList
	err     error

	gotKey    string
	gotLimit  int
	gotOffset int
}

func (s *stubOrderService) PreviewOrder(ctx context.Context, req *models.CheckoutRequest) (*pricing.Quote, error) {
	return s.quote, s.err
}

func (s *stubOrderService) CreateOrder(ctx context.Context, req *models.CheckoutRequest, key string) (*models.Order, bool, error) {
	s.gotKey = key
	return s.order, s.created, s.err
}

func (s *stubOrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) ListUserOrders(ctx context.Context, userID string, limit, offset int) (*models.OrderList, error) {
	s.gotLimit, s.gotOffset = limit, offset
	return s.list, s.err
}

func (s *stubOrderService) Calculator() *pricing.Calculator {
	return pricing.NewCalculator(18)
}

func (s *stubOrderService) DeliveryPolicy() pricing.DeliveryPolicy {
	return pricing.DefaultDeliveryPolicy
}

func (s *stubOrderService) PricingConfig() pricing.Config {
	return pricing.DefaultConfig()
}

type stubPaymentService struct {
	paid, failed string
}

func (s *stubPaymentService) MarkOrderPaid(ctx context.Context, orderID, paymentID string) (*models.Order, error) {
	s.paid = orderID
	return &models.Order{ID: orderID, PaymentStatus: models.PaymentStatusPaid}, nil
}

func (s *stubPaymentService) MarkPaymentFailed(ctx context.Context, orderID, paymentID string) (*models.Order, error) {
	s.failed = orderID
	return &models.Order{ID: orderID, PaymentStatus: models.PaymentStatusFailed}, nil
}

func newTestRouter(orders *stubOrderService, payments *stubPaymentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandlers(orders, payments, nil, nil, zap.NewNop())

	r := gin.New()
	r.POST("/api/v1/orders/preview", h.PreviewOrder)
	r.POST("/api/v1/orders", h.CreateOrder)
	r.GET("/api/v1/orders/:id", h.GetOrder)
	r.POST("/api/v1/orders/:id/payment", h.UpdatePayment)
	r.GET("/api/v1/users/:userId/orders", h.ListUserOrders)
	r.POST("/api/v1/pricing/gst", h.CartGST)
	r.GET("/api/v1/pricing/delivery", h.DeliveryCharge)
	r.GET("/api/v1/pricing/config", h.PricingConfig)
	return r
}

func doRequest(r http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	return resp
}

var checkoutBody = models.CheckoutRequest{
	UserID:        "user-1",
	PaymentMethod: models.PaymentMethodCOD,
	Items:         []models.CheckoutItem{{ProductID: "p1", Quantity: 1}},
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := &Handlers{}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.Health(c)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	resp := decode(t, w)
	if resp["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", resp["status"])
	}
	if resp["service"] != "orders-service" {
		t.Errorf("Expected service 'orders-service', got %v", resp["service"])
	}
}

func TestReady(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		check    ReadinessCheck
		wantCode int
	}{
		{"healthy dependency", func(ctx context.Context) error { return nil }, http.StatusOK},
		{"failing dependency", func(ctx context.Context) error { return fmt.Errorf("connection refused") }, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Handlers{readiness: map[string]ReadinessCheck{"postgres": tt.check}}

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

			h.Ready(c)

			if w.Code != tt.wantCode {
				t.Errorf("Expected status %d, got %d", tt.wantCode, w.Code)
			}
		})
	}
}

func TestLive(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := &Handlers{}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.Live(c)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		err      error
		wantCode int
		errCode  string
	}{
		{"validation", errors.NewValidationErrorWithCode("items", "out of stock", "OUT_OF_STOCK"), http.StatusBadRequest, "OUT_OF_STOCK"},
		{"not found sentinel", errors.ErrNotFound, http.StatusNotFound, ""},
		{"not found typed", errors.NewNotFoundError("order", "ord_1"), http.StatusNotFound, ""},
		{"wrapped not found", fmt.Errorf("lookup: %w", errors.NewNotFoundError("product", "p1")), http.StatusNotFound, ""},
		{"conflict", &errors.ConflictError{Message: "key reused"}, http.StatusConflict, ""},
		{"forbidden", &errors.ForbiddenError{Message: "no cod", Code: "COD_NOT_ALLOWED"}, http.StatusForbidden, "COD_NOT_ALLOWED"},
		{"internal", fmt.Errorf("database down"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Handlers{}
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			h.handleError(c, tt.err)

			if w.Code != tt.wantCode {
				t.Errorf("Expected status %d, got %d", tt.wantCode, w.Code)
			}
			if tt.errCode != "" {
				if resp := decode(t, w); resp["code"] != tt.errCode {
					t.Errorf("Expected code %q, got %v", tt.errCode, resp["code"])
				}
			}
		})
	}
}

func TestCreateOrder_StatusReflectsReplay(t *testing.T) {
	orders := &stubOrderService{order: &models.Order{ID: "ord_1"}, created: true}
	r := newTestRouter(orders, &stubPaymentService{})

	w := doRequest(r, http.MethodPost, "/api/v1/orders", checkoutBody, map[string]string{IdempotencyKeyHeader: "key-1"})
	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}
	if orders.gotKey != "key-1" {
		t.Errorf("Expected idempotency key to be forwarded, got %q", orders.gotKey)
	}

	orders.created = false
	w = doRequest(r, http.MethodPost, "/api/v1/orders", checkoutBody, map[string]string{IdempotencyKeyHeader: "key-1"})
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 on replay, got %d", w.Code)
	}
}

func TestCreateOrder_InvalidBody(t *testing.T) {
	r := newTestRouter(&stubOrderService{}, &stubPaymentService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestPreviewOrder(t *testing.T) {
	orders := &stubOrderService{quote: &pricing.Quote{
		Summary:      pricing.OrderSummary{Subtotal: 299, GrandTotal: 366.95},
		ItemsPlusTax: 313.95,
	}}
	r := newTestRouter(orders, &stubPaymentService{})

	w := doRequest(r, http.MethodPost, "/api/v1/orders/preview", checkoutBody, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	resp := decode(t, w)
	summary := resp["summary"].(map[string]interface{})
	if summary["grandTotal"] != 366.95 {
		t.Errorf("Expected grandTotal 366.95, got %v", summary["grandTotal"])
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	r := newTestRouter(&stubOrderService{err: errors.NewNotFoundError("order", "ord_x")}, &stubPaymentService{})

	w := doRequest(r, http.MethodGet, "/api/v1/orders/ord_x", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestListUserOrders_Pagination(t *testing.T) {
	orders := &stubOrderService{list: &models.OrderList{Limit: 5, Offset: 10}}
	r := newTestRouter(orders, &stubPaymentService{})

	w := doRequest(r, http.MethodGet, "/api/v1/users/user-1/orders?limit=5&offset=10", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if orders.gotLimit != 5 || orders.gotOffset != 10 {
		t.Errorf("Expected limit=5 offset=10, got limit=%d offset=%d", orders.gotLimit, orders.gotOffset)
	}
}

func TestUpdatePayment(t *testing.T) {
	payments := &stubPaymentService{}
	r := newTestRouter(&stubOrderService{}, payments)

	w := doRequest(r, http.MethodPost, "/api/v1/orders/ord_1/payment", map[string]string{"status": "PAID", "payment_id": "pay_1"}, nil)
	if w.Code != http.StatusOK || payments.paid != "ord_1" {
		t.Errorf("Expected paid update, got status %d paid=%q", w.Code, payments.paid)
	}

	w = doRequest(r, http.MethodPost, "/api/v1/orders/ord_2/payment", map[string]string{"status": "FAILED"}, nil)
	if w.Code != http.StatusOK || payments.failed != "ord_2" {
		t.Errorf("Expected failed update, got status %d failed=%q", w.Code, payments.failed)
	}

	w = doRequest(r, http.MethodPost, "/api/v1/orders/ord_3/payment", map[string]string{"status": "REFUNDED"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for unknown status, got %d", w.Code)
	}
}

func TestCartGST(t *testing.T) {
	r := newTestRouter(&stubOrderService{}, &stubPaymentService{})

	body := map[string]interface{}{
		"items": []map[string]interface{}{
			{"name": "Phone", "price": 1000, "quantity": 2},
			{"name": "Shirt", "price": 1180, "quantity": 1, "priceType": "inclusive"},
		},
	}
	w := doRequest(r, http.MethodPost, "/api/v1/pricing/gst", body, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	resp := decode(t, w)
	if resp["subtotal"] != 3000.0 {
		t.Errorf("Expected subtotal 3000, got %v", resp["subtotal"])
	}
	if resp["totalGST"] != 540.0 {
		t.Errorf("Expected totalGST 540, got %v", resp["totalGST"])
	}
	if resp["grandTotal"] != 3540.0 {
		t.Errorf("Expected grandTotal 3540, got %v", resp["grandTotal"])
	}
}

func TestDeliveryCharge(t *testing.T) {
	r := newTestRouter(&stubOrderService{}, &stubPaymentService{})

	tests := []struct {
		query string
		want  float64
		code  int
	}{
		{"amount=499&method=COD", 0, http.StatusOK},
		{"amount=498.99&method=COD", 50, http.StatusOK},
		{"amount=100&method=RAZORPAY", 0, http.StatusOK},
		{"amount=100", 50, http.StatusOK},
		{"amount=100&method=cod", 0, http.StatusOK},
		{"amount=abc", 0, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := doRequest(r, http.MethodGet, "/api/v1/pricing/delivery?"+tt.query, nil, nil)
			if w.Code != tt.code {
				t.Fatalf("Expected status %d, got %d", tt.code, w.Code)
			}
			if tt.code != http.StatusOK {
				return
			}
			if got := decode(t, w)["deliveryCharge"]; got != tt.want {
				t.Errorf("Expected deliveryCharge %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPricingConfig(t *testing.T) {
	r := newTestRouter(&stubOrderService{}, &stubPaymentService{})

	w := doRequest(r, http.MethodGet, "/api/v1/pricing/config", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	resp := decode(t, w)
	want := map[string]float64{
		"defaultGstRate":        18,
		"platformFee":           3,
		"freeDeliveryThreshold": 499,
		"codCharge":             50,
	}
	for key, v := range want {
		if resp[key] != v {
			t.Errorf("Expected %s %v, got %v", key, v, resp[key])
		}
	}
}
