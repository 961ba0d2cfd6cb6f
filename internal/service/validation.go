package service

import (
	"fmt"
	"strings"

	"github.com/fzokart/fzokart-orders-service/internal/models"
	"github.com/fzokart/fzokart-orders-service/pkg/errors"
)

// Error codes returned to clients alongside validation and forbidden errors.
const (
	ErrCodeOutOfStock    = "OUT_OF_STOCK"
	ErrCodeCODNotAllowed = "COD_NOT_ALLOWED"
	ErrCodeInvalidPrice  = "INVALID_PRICE"
)

// DefaultMaxQuantityPerItem applies when no limit is configured.
const DefaultMaxQuantityPerItem = 10

// ValidateCheckoutRequest validates a checkout request before any catalog
// lookup. maxQuantity <= 0 selects DefaultMaxQuantityPerItem.
func ValidateCheckoutRequest(req *models.CheckoutRequest, maxQuantity int) error {
	if req == nil {
		return errors.NewValidationError("request", "request body is required")
	}
	if maxQuantity <= 0 {
		maxQuantity = DefaultMaxQuantityPerItem
	}

	if strings.TrimSpace(req.UserID) == "" {
		return errors.NewValidationError("user_id", "user ID is required")
	}

	if len(req.Items) == 0 {
		return errors.NewValidationError("items", "at least one item is required")
	}

	for i, item := range req.Items {
		if err := validateCheckoutItem(item, i, maxQuantity); err != nil {
			return err
		}
	}

	switch req.PaymentMethod {
	case models.PaymentMethodCOD, models.PaymentMethodRazorpay:
	default:
		return errors.NewValidationError("payment_method", "payment method must be COD or RAZORPAY")
	}

	return nil
}

func validateCheckoutItem(item models.CheckoutItem, index, maxQuantity int) error {
	if strings.TrimSpace(item.ProductID) == "" {
		return errors.NewValidationError(fmt.Sprintf("items[%d].product_id", index), "product ID is required")
	}

	if item.Quantity < 1 || item.Quantity > maxQuantity {
		return errors.NewValidationError(fmt.Sprintf("items[%d].quantity", index),
			fmt.Sprintf("quantity must be between 1 and %d", maxQuantity))
	}

	return nil
}

// validateAgainstCatalog checks the requested lines against loaded products.
func validateAgainstCatalog(req *models.CheckoutRequest, products map[string]*models.Product) error {
	requested := make(map[string]int, len(req.Items))
	for _, item := range req.Items {
		requested[item.ProductID] += item.Quantity
	}

	for _, item := range req.Items {
		p, ok := products[item.ProductID]
		if !ok {
			return errors.NewNotFoundError("product", item.ProductID)
		}
		if p.Price < 0 {
			return errors.NewValidationErrorWithCode("items",
				fmt.Sprintf("product %s has an invalid price", p.ID), ErrCodeInvalidPrice)
		}
		if p.CountInStock < requested[p.ID] {
			return errors.NewValidationErrorWithCode("items",
				fmt.Sprintf("%s is out of stock", p.Name), ErrCodeOutOfStock)
		}
		if req.PaymentMethod == models.PaymentMethodCOD && !p.CODAvailable {
			return &errors.ForbiddenError{
				Message: fmt.Sprintf("cash on delivery is not available for %s", p.Name),
				Code:    ErrCodeCODNotAllowed,
			}
		}
	}

	return nil
}
