package repositories

import (
	"context"

	"github.com/SscSPs/fiado_backend/internal/core/domain"
)

// ProductRepository defines the stock operations the ledger performs on products.
type ProductRepository interface {
	// FindProductByID retrieves a product scoped by owner.
	FindProductByID(ctx context.Context, ownerID, productID string) (*domain.Product, error)

	// DecrementStock subtracts qty in a single conditional statement that only applies
	// when at least qty units are on hand. It reports whether a row was changed.
	DecrementStock(ctx context.Context, ownerID, productID string, qty int) (bool, error)

	// IncrementStock adds qty back. It reports whether a row was changed.
	IncrementStock(ctx context.Context, ownerID, productID string, qty int) (bool, error)
}
