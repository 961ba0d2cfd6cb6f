package repository

import (
	"context"

	"github.com/fzokart/fzokart-orders-service/internal/models"
)

// Ensure implementations satisfy their interfaces.
var (
	_ OrderRepository   = (*PostgresOrderRepository)(nil)
	_ CatalogRepository = (*PostgresCatalogRepository)(nil)
	_ OrderCache        = (*RedisOrderCache)(nil)
)

// OrderRepository persists orders with their frozen summaries.
type OrderRepository interface {
	// Create stores order and reserves stock for its items in one
	// transaction. When order.IdempotencyKey is already taken nothing is
	// written and the stored order is returned with created=false.
	Create(ctx context.Context, order *models.Order) (stored *models.Order, created bool, err error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*models.Order, error)
	GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*models.Order, int, error)
	// UpdatePayment changes only payment fields and status; totals are never
	// rewritten. The write applies only while the stored payment status is
	// still from; otherwise it returns a ConflictError and changes nothing.
	UpdatePayment(ctx context.Context, id string, from, status models.PaymentStatus, orderStatus models.OrderStatus, paymentID string) (*models.Order, error)
}

// CatalogRepository reads product snapshots for pricing.
type CatalogRepository interface {
	// GetProducts returns the products found for ids, keyed by id. Missing
	// ids are simply absent from the map.
	GetProducts(ctx context.Context, ids []string) (map[string]*models.Product, error)
}

// OrderCache defines caching operations for orders.
type OrderCache interface {
	Get(ctx context.Context, id string) (*models.Order, error)
	Set(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id string) error
}
