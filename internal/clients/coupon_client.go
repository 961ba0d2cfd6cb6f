package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fzokart/fzokart-orders-service/internal/config"
	"github.com/fzokart/fzokart-orders-service/internal/logging"
	"github.com/fzokart/fzokart-orders-service/internal/models"
	"github.com/fzokart/fzokart-orders-service/pkg/errors"
	"go.uber.org/zap"
)

// ErrCodeInvalidCoupon marks a coupon the coupon service refused.
const ErrCodeInvalidCoupon = "INVALID_COUPON"

// CouponLine is a priced line sent to the coupon service for eligibility.
type CouponLine struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// CouponValidation is the coupon service's verdict.
type CouponValidation struct {
	Valid          bool    `json:"valid"`
	CouponID       string  `json:"coupon_id"`
	Code           string  `json:"code"`
	DiscountType   string  `json:"discount_type"`
	DiscountAmount float64 `json:"discount_amount"`
	Message        string  `json:"message,omitempty"`
}

// Snapshot converts a valid result into the snapshot frozen on the order.
func (v *CouponValidation) Snapshot() *models.CouponSnapshot {
	return &models.CouponSnapshot{
		CouponID:       v.CouponID,
		Code:           v.Code,
		DiscountType:   v.DiscountType,
		DiscountAmount: v.DiscountAmount,
	}
}

// CouponClient re-validates coupons server side.
type CouponClient interface {
	Validate(ctx context.Context, userID, code string, lines []CouponLine, method models.PaymentMethod) (*CouponValidation, error)
}

// HTTPCouponClient implements CouponClient using HTTP.
type HTTPCouponClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPCouponClient creates a new HTTP-based coupon client.
func NewHTTPCouponClient(cfg config.ServiceConfig, logger *zap.Logger) *HTTPCouponClient {
	return &HTTPCouponClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.Named("coupon-client"),
	}
}

type validateCouponRequest struct {
	UserID        string       `json:"user_id"`
	Code          string       `json:"code"`
	PaymentMethod string       `json:"payment_method"`
	Items         []CouponLine `json:"items"`
}

// Validate asks the coupon service whether code applies to lines. A refused
// coupon is reported as a validation error with code INVALID_COUPON.
func (c *HTTPCouponClient) Validate(ctx context.Context, userID, code string, lines []CouponLine, method models.PaymentMethod) (*CouponValidation, error) {
	body, err := json.Marshal(validateCouponRequest{
		UserID:        userID,
		Code:          code,
		PaymentMethod: string(method),
		Items:         lines,
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/api/coupons/validate", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	setHeaders(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to validate coupon",
			zap.String("code", code),
			zap.Error(err),
		)
		return nil, err
	}
	defer resp.Body.Close()

	var result CouponValidation
	decodeErr := json.NewDecoder(resp.Body).Decode(&result)

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("coupon service returned status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		msg := result.Message
		if decodeErr != nil || msg == "" {
			msg = "coupon is not valid"
		}
		return nil, errors.NewValidationErrorWithCode("coupon_code", msg, ErrCodeInvalidCoupon)
	case decodeErr != nil:
		return nil, fmt.Errorf("decode coupon response: %w", decodeErr)
	case !result.Valid:
		msg := result.Message
		if msg == "" {
			msg = "coupon is not valid"
		}
		return nil, errors.NewValidationErrorWithCode("coupon_code", msg, ErrCodeInvalidCoupon)
	}

	c.logger.Debug("Coupon validated",
		zap.String("code", result.Code),
		zap.Float64("discount", result.DiscountAmount),
	)
	return &result, nil
}

func setHeaders(ctx context.Context, req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if requestID := logging.RequestIDFromContext(ctx); requestID != "" {
		req.Header.Set(logging.RequestIDHeader, requestID)
	}
}
