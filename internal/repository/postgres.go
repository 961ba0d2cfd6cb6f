package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fzokart/fzokart-orders-service/internal/models"
	"github.com/fzokart/fzokart-orders-service/internal/pricing"
	"github.com/fzokart/fzokart-orders-service/pkg/errors"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const orderColumns = `
	id, user_id, status, payment_method, payment_status, payment_id,
	idempotency_key, request_hash, items, coupon,
	subtotal, total_gst, cgst, sgst, mrp,
	delivery_charge, platform_fee, coupon_discount, grand_total,
	created_at, updated_at`

// PostgresOrderRepository implements OrderRepository using PostgreSQL.
type PostgresOrderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresOrderRepository creates a new PostgreSQL order repository.
func NewPostgresOrderRepository(db *sql.DB, logger *zap.Logger) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		db:     db,
		logger: logger.Named("order-repository"),
	}
}

// Create inserts the order and decrements stock for each line.
func (r *PostgresOrderRepository) Create(ctx context.Context, order *models.Order) (*models.Order, bool, error) {
	if order.ID == "" {
		order.ID = GenerateOrderID()
	}
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	itemsJSON, err := json.Marshal(order.Summary.Items)
	if err != nil {
		return nil, false, fmt.Errorf("marshal items: %w", err)
	}
	var couponJSON sql.NullString
	if order.Coupon != nil {
		raw, err := json.Marshal(order.Coupon)
		if err != nil {
			return nil, false, fmt.Errorf("marshal coupon: %w", err)
		}
		couponJSON = sql.NullString{String: string(raw), Valid: true}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		ON CONFLICT (idempotency_key) WHERE idempotency_key IS NOT NULL DO NOTHING
	`

	s := order.Summary
	result, err := tx.ExecContext(ctx, query,
		order.ID,
		order.UserID,
		order.Status,
		order.PaymentMethod,
		order.PaymentStatus,
		nullString(order.PaymentID),
		nullString(order.IdempotencyKey),
		order.RequestHash,
		string(itemsJSON),
		couponJSON,
		pricing.ToDecimal(s.Subtotal),
		pricing.ToDecimal(s.TotalGST),
		pricing.ToDecimal(s.CGST),
		pricing.ToDecimal(s.SGST),
		pricing.ToDecimal(s.MRP),
		pricing.ToDecimal(s.DeliveryCharge),
		pricing.ToDecimal(s.PlatformFee),
		pricing.ToDecimal(s.CouponDiscount),
		pricing.ToDecimal(s.GrandTotal),
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to insert order",
			zap.String("user_id", order.UserID),
			zap.Error(err),
		)
		return nil, false, fmt.Errorf("insert order: %w", err)
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		// Lost the race for this idempotency key.
		_ = tx.Rollback()
		existing, err := r.GetByIdempotencyKey(ctx, order.IdempotencyKey)
		if err != nil {
			return nil, false, err
		}
		r.logger.Info("Idempotent replay",
			zap.String("order_id", existing.ID),
			zap.String("idempotency_key", order.IdempotencyKey),
		)
		return existing, false, nil
	}

	for _, item := range s.Items {
		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET count_in_stock = count_in_stock - $2
			WHERE id = $1 AND count_in_stock >= $2
		`, item.ProductID, item.Quantity)
		if err != nil {
			return nil, false, fmt.Errorf("reserve stock: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, false, errors.NewValidationErrorWithCode("items",
				fmt.Sprintf("product %s is out of stock", item.ProductID), "OUT_OF_STOCK")
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit order: %w", err)
	}

	r.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", order.UserID),
		zap.Float64("grand_total", s.GrandTotal),
	)
	return order, true, nil
}

// GetByID retrieves an order by its unique identifier.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)

	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("order", id)
	}
	if err != nil {
		r.logger.Error("Failed to fetch order", zap.String("order_id", id), zap.Error(err))
		return nil, fmt.Errorf("fetch order: %w", err)
	}
	return order, nil
}

// GetByIdempotencyKey retrieves the order stored under key.
func (r *PostgresOrderRepository) GetByIdempotencyKey(ctx context.Context, key string) (*models.Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE idempotency_key = $1`, key)

	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch order by idempotency key: %w", err)
	}
	return order, nil
}

// GetByUserID retrieves a page of orders for a user, newest first.
func (r *PostgresOrderRepository) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*models.Order, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list orders", zap.String("user_id", userID), zap.Error(err))
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*models.Order, 0, limit)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	r.logger.Debug("Orders listed",
		zap.String("user_id", userID),
		zap.Int("count", len(orders)),
		zap.Int("total", total),
	)
	return orders, total, nil
}

// UpdatePayment records a payment outcome if the payment status is still from.
func (r *PostgresOrderRepository) UpdatePayment(ctx context.Context, id string, from, status models.PaymentStatus, orderStatus models.OrderStatus, paymentID string) (*models.Order, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE orders
		SET payment_status = $2,
		    status = $3,
		    payment_id = COALESCE($4, payment_id),
		    updated_at = $5
		WHERE id = $1 AND payment_status = $6
		RETURNING `+orderColumns,
		id, status, orderStatus, nullString(paymentID), time.Now().UTC(), from,
	)

	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, r.missedPaymentUpdate(ctx, id, from)
	}
	if err != nil {
		r.logger.Error("Failed to update payment", zap.String("order_id", id), zap.Error(err))
		return nil, fmt.Errorf("update payment: %w", err)
	}

	r.logger.Info("Payment status updated",
		zap.String("order_id", id),
		zap.String("payment_status", string(status)),
	)
	return order, nil
}

// missedPaymentUpdate explains an UPDATE that matched no row: the order is
// either missing or its payment status moved on since it was read.
func (r *PostgresOrderRepository) missedPaymentUpdate(ctx context.Context, id string, from models.PaymentStatus) error {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	if !exists {
		return errors.NewNotFoundError("order", id)
	}

	r.logger.Warn("Payment status changed before update",
		zap.String("order_id", id),
		zap.String("expected", string(from)),
	)
	return &errors.ConflictError{
		Message: fmt.Sprintf("payment status of order %s is no longer %s", id, from),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var order models.Order
	var itemsJSON, couponJSON []byte
	var paymentID, idempotencyKey sql.NullString
	var subtotal, totalGST, cgst, sgst, mrp decimal.Decimal
	var delivery, platformFee, couponDiscount, grandTotal decimal.Decimal

	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.Status,
		&order.PaymentMethod,
		&order.PaymentStatus,
		&paymentID,
		&idempotencyKey,
		&order.RequestHash,
		&itemsJSON,
		&couponJSON,
		&subtotal,
		&totalGST,
		&cgst,
		&sgst,
		&mrp,
		&delivery,
		&platformFee,
		&couponDiscount,
		&grandTotal,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(itemsJSON, &order.Summary.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	if len(couponJSON) > 0 {
		var coupon models.CouponSnapshot
		if err := json.Unmarshal(couponJSON, &coupon); err != nil {
			return nil, fmt.Errorf("decode coupon: %w", err)
		}
		order.Coupon = &coupon
	}

	order.PaymentID = paymentID.String
	order.IdempotencyKey = idempotencyKey.String
	order.Summary.Subtotal = pricing.FromDecimal(subtotal)
	order.Summary.TotalGST = pricing.FromDecimal(totalGST)
	order.Summary.CGST = pricing.FromDecimal(cgst)
	order.Summary.SGST = pricing.FromDecimal(sgst)
	order.Summary.MRP = pricing.FromDecimal(mrp)
	order.Summary.DeliveryCharge = pricing.FromDecimal(delivery)
	order.Summary.PlatformFee = pricing.FromDecimal(platformFee)
	order.Summary.CouponDiscount = pricing.FromDecimal(couponDiscount)
	order.Summary.GrandTotal = pricing.FromDecimal(grandTotal)

	return &order, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// GenerateOrderID returns a new sortable order id.
func GenerateOrderID() string {
	return "ord_" + ulid.Make().String()
}
