package repositories

import (
	"context"

	"github.com/SscSPs/fiado_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PurchaseReader defines read operations for purchases.
type PurchaseReader interface {
	// FindPurchaseByID retrieves a purchase of the owner with its items and product names.
	FindPurchaseByID(ctx context.Context, ownerID, purchaseID string) (*domain.Purchase, error)

	// FindPurchaseByIDForUpdate is FindPurchaseByID that also locks the purchase row.
	FindPurchaseByIDForUpdate(ctx context.Context, ownerID, purchaseID string) (*domain.Purchase, error)

	// ListPurchaseIDsByAccount returns the ids of every purchase of an account.
	ListPurchaseIDsByAccount(ctx context.Context, accountID string) ([]string, error)

	// CalculatePurchaseTotals returns the stored total and Σ quantity × unit price of the items.
	CalculatePurchaseTotals(ctx context.Context, purchaseID string) (stored decimal.Decimal, itemized decimal.Decimal, err error)
}

// PurchaseWriter defines write operations for purchases.
type PurchaseWriter interface {
	// SavePurchase inserts a purchase and all of its items.
	SavePurchase(ctx context.Context, purchase domain.Purchase) error

	// UpdatePurchase overwrites total, purchase date and the update audit fields.
	UpdatePurchase(ctx context.Context, purchase domain.Purchase) error

	// ReplacePurchaseItems deletes the current items of a purchase and inserts items.
	ReplacePurchaseItems(ctx context.Context, purchaseID string, items []domain.PurchaseItem) error

	// DeletePurchase deletes a purchase and its items.
	DeletePurchase(ctx context.Context, purchaseID string) error
}

// PurchaseRepository combines all purchase-related repository interfaces.
type PurchaseRepository interface {
	PurchaseReader
	PurchaseWriter
}
