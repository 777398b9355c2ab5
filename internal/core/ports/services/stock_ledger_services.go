package services

import (
	"context"

	"github.com/SscSPs/fiado_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fiado_backend/internal/core/ports/repositories"
)

// StockLedgerSvc owns product quantity on hand.
type StockLedgerSvc interface {
	// Reserve removes qty units from stock or fails without side effects with
	// *apperrors.InsufficientStockError, or apperrors.ErrNotFound for an unknown product.
	Reserve(ctx context.Context, uow portsrepo.UnitOfWork, ownerID, productID string, qty int) error

	// Release returns qty units to stock. A missing product row is apperrors.ErrFatal.
	Release(ctx context.Context, uow portsrepo.UnitOfWork, ownerID, productID string, qty int) error

	// ReserveItems aggregates item quantities per product and reserves them in ascending product id order.
	ReserveItems(ctx context.Context, uow portsrepo.UnitOfWork, ownerID string, items []domain.PurchaseItem) error

	// ReleaseItems is the inverse of ReserveItems.
	ReleaseItems(ctx context.Context, uow portsrepo.UnitOfWork, ownerID string, items []domain.PurchaseItem) error
}
