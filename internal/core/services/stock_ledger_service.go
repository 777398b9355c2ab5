package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/fiado_backend/internal/apperrors"
	"github.com/SscSPs/fiado_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fiado_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fiado_backend/internal/core/ports/services"
	"github.com/SscSPs/fiado_backend/internal/utils/accounting"
)

type stockLedgerService struct {
	BaseService
}

// NewStockLedgerService creates the component that owns product quantity on hand.
func NewStockLedgerService() portssvc.StockLedgerSvc {
	return &stockLedgerService{}
}

var _ portssvc.StockLedgerSvc = (*stockLedgerService)(nil)

func (s *stockLedgerService) Reserve(ctx context.Context, uow portsrepo.UnitOfWork, ownerID, productID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive", apperrors.ErrValidation)
	}
	if qty > domain.MaxItemQuantity {
		return fmt.Errorf("%w: quantity must be at most %d", apperrors.ErrValidation, domain.MaxItemQuantity)
	}

	applied, err := uow.Products().DecrementStock(ctx, ownerID, productID, qty)
	if err != nil {
		return err
	}
	if applied {
		return nil
	}

	// The conditional update matched nothing: either the product is unknown
	// to this owner or there is not enough on hand.
	product, err := uow.Products().FindProductByID(ctx, ownerID, productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: product %s", apperrors.ErrNotFound, productID)
		}
		return err
	}

	s.LogDebug(ctx, "Stock reservation refused",
		slog.String("product_id", productID),
		slog.Int("requested", qty),
		slog.Int("available", product.StockOnHand))

	return &apperrors.InsufficientStockError{
		ProductID:   product.ProductID,
		ProductName: product.Name,
		Requested:   qty,
		Available:   product.StockOnHand,
	}
}

func (s *stockLedgerService) Release(ctx context.Context, uow portsrepo.UnitOfWork, ownerID, productID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: release of non-positive quantity %d for product %s", apperrors.ErrFatal, qty, productID)
	}

	applied, err := uow.Products().IncrementStock(ctx, ownerID, productID, qty)
	if err != nil {
		return err
	}
	if !applied {
		// Items reference products through a foreign key, so this is a broken ledger.
		return fmt.Errorf("%w: product %s vanished while releasing %d unit(s)", apperrors.ErrFatal, productID, qty)
	}
	return nil
}

func (s *stockLedgerService) ReserveItems(ctx context.Context, uow portsrepo.UnitOfWork, ownerID string, items []domain.PurchaseItem) error {
	quantities, err := accounting.AggregateQuantities(items)
	if err != nil {
		return err
	}
	for _, productID := range accounting.SortedProductIDs(quantities) {
		if err := s.Reserve(ctx, uow, ownerID, productID, quantities[productID]); err != nil {
			return err
		}
	}
	return nil
}

func (s *stockLedgerService) ReleaseItems(ctx context.Context, uow portsrepo.UnitOfWork, ownerID string, items []domain.PurchaseItem) error {
	quantities, err := accounting.AggregateQuantities(items)
	if err != nil {
		return err
	}
	for _, productID := range accounting.SortedProductIDs(quantities) {
		if err := s.Release(ctx, uow, ownerID, productID, quantities[productID]); err != nil {
			return err
		}
	}
	return nil
}
