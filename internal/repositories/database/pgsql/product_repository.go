package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/fiado_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fiado_backend/internal/core/ports/repositories"
	"github.com/SscSPs/fiado_backend/internal/models"
	"github.com/SscSPs/fiado_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

type pgxProductRepository struct {
	db pgx.Tx
}

var _ portsrepo.ProductRepository = (*pgxProductRepository)(nil)

func (r *pgxProductRepository) FindProductByID(ctx context.Context, ownerID, productID string) (*domain.Product, error) {
	query := `
		SELECT product_id, owner_id, name, unit_price, stock_on_hand,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM products
		WHERE product_id = $1 AND owner_id = $2;
	`
	var m models.Product
	err := r.db.QueryRow(ctx, query, productID, ownerID).Scan(
		&m.ProductID,
		&m.OwnerID,
		&m.Name,
		&m.UnitPrice,
		&m.StockOnHand,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("product", productID)
		}
		return nil, fmt.Errorf("failed to find product %s: %w", productID, err)
	}
	product := mapping.ToDomainProduct(m)
	return &product, nil
}

// DecrementStock is the only statement that lowers stock. The row lock it takes
// serializes concurrent reservations of the same product; the predicate makes
// the check and the write one step.
func (r *pgxProductRepository) DecrementStock(ctx context.Context, ownerID, productID string, qty int) (bool, error) {
	query := `
		UPDATE products
		SET stock_on_hand = stock_on_hand - $3, last_updated_at = NOW()
		WHERE product_id = $1 AND owner_id = $2 AND stock_on_hand >= $3;
	`
	tag, err := r.db.Exec(ctx, query, productID, ownerID, qty)
	if err != nil {
		return false, fmt.Errorf("failed to reserve %d unit(s) of product %s: %w", qty, productID, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *pgxProductRepository) IncrementStock(ctx context.Context, ownerID, productID string, qty int) (bool, error) {
	query := `
		UPDATE products
		SET stock_on_hand = stock_on_hand + $3, last_updated_at = NOW()
		WHERE product_id = $1 AND owner_id = $2;
	`
	tag, err := r.db.Exec(ctx, query, productID, ownerID, qty)
	if err != nil {
		return false, fmt.Errorf("failed to release %d unit(s) of product %s: %w", qty, productID, err)
	}
	return tag.RowsAffected() == 1, nil
}
