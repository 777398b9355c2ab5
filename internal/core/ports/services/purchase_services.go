package services

import (
	"context"
	"time"

	"github.com/SscSPs/fiado_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fiado_backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// PurchaseWriterSvc creates, edits and deletes purchases. Every call runs on the
// caller's unit of work and leaves no partial effects when it fails.
type PurchaseWriterSvc interface {
	// CreateItemized reserves stock for every item and records a purchase whose total is Σ qty × price.
	CreateItemized(ctx context.Context, uow portsrepo.UnitOfWork, account domain.Account, purchaseDate time.Time, items []domain.PurchaseItem, userID string) (*domain.Purchase, error)

	// CreateSimple records a purchase with a directly entered total and no stock effect.
	// A nil purchaseDate defaults to now.
	CreateSimple(ctx context.Context, uow portsrepo.UnitOfWork, account domain.Account, total decimal.Decimal, purchaseDate *time.Time, userID string) (*domain.Purchase, error)

	// UpdateItemized releases the current items, reserves the new ones and replaces them.
	UpdateItemized(ctx context.Context, uow portsrepo.UnitOfWork, ownerID, purchaseID string, purchaseDate time.Time, items []domain.PurchaseItem, userID string) (*domain.Purchase, error)

	// UpdateSimple replaces total and date of a purchase without items.
	UpdateSimple(ctx context.Context, uow portsrepo.UnitOfWork, ownerID, purchaseID string, total decimal.Decimal, purchaseDate *time.Time, userID string) (*domain.Purchase, error)

	// Delete releases all items and removes the purchase. It returns the removed purchase.
	Delete(ctx context.Context, uow portsrepo.UnitOfWork, ownerID, purchaseID string) (*domain.Purchase, error)
}

// PurchaseReaderSvc reads purchases.
type PurchaseReaderSvc interface {
	GetPurchase(ctx context.Context, uow portsrepo.UnitOfWork, ownerID, purchaseID string) (*domain.Purchase, error)
}

// PurchaseComposerSvc combines all purchase-related service interfaces.
type PurchaseComposerSvc interface {
	PurchaseWriterSvc
	PurchaseReaderSvc
}
