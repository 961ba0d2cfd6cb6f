package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fzokart/fzokart-orders-service/internal/models"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PostgresCatalogRepository reads products and their category GST rates.
type PostgresCatalogRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresCatalogRepository creates a catalog reader.
func NewPostgresCatalogRepository(db *sql.DB, logger *zap.Logger) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{
		db:     db,
		logger: logger.Named("catalog-repository"),
	}
}

// GetProducts loads the products named by ids in a single query.
func (r *PostgresCatalogRepository) GetProducts(ctx context.Context, ids []string) (map[string]*models.Product, error) {
	out := make(map[string]*models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.image, p.thumbnail, p.images,
		       p.price, p.original_price, p.custom_gst_rate, c.gst_rate,
		       p.price_type, p.cod_available, p.count_in_stock
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		r.logger.Error("Failed to load products", zap.Int("count", len(ids)), zap.Error(err))
		return nil, fmt.Errorf("load products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Product
		var price, originalPrice decimal.Decimal
		var customRate, categoryRate decimal.NullDecimal

		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Image,
			&p.Thumbnail,
			pq.Array(&p.Images),
			&price,
			&originalPrice,
			&customRate,
			&categoryRate,
			&p.PriceType,
			&p.CODAvailable,
			&p.CountInStock,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}

		p.Price, _ = price.Float64()
		p.OriginalPrice, _ = originalPrice.Float64()
		p.CustomGSTRate = nullRate(customRate)
		p.CategoryGSTRate = nullRate(categoryRate)
		out[p.ID] = &p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	r.logger.Debug("Products loaded", zap.Int("requested", len(ids)), zap.Int("found", len(out)))
	return out, nil
}

func nullRate(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f, _ := d.Decimal.Float64()
	return &f
}
