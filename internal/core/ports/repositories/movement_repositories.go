package repositories

import (
	"context"

	"github.com/SscSPs/fiado_backend/internal/core/domain"
	"github.com/SscSPs/fiado_backend/internal/utils/pagination"
)

// MovementRepository reads the derived movement log.
type MovementRepository interface {
	// ListMovementsByAccount returns movements newest first. A limit of zero or less
	// returns everything; a non-nil cursor skips rows up to and including it.
	ListMovementsByAccount(ctx context.Context, accountID string, limit int, after *pagination.Cursor) ([]domain.Movement, error)

	// FindItemsByPurchaseIDs loads the items of many purchases in one query,
	// with product names resolved, keyed by purchase id.
	FindItemsByPurchaseIDs(ctx context.Context, purchaseIDs []string) (map[string][]domain.PurchaseItem, error)
}
