package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/fiado_backend/internal/apperrors"
	"github.com/SscSPs/fiado_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fiado_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fiado_backend/internal/core/ports/services"
	"github.com/SscSPs/fiado_backend/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// purchaseService composes purchases out of stock reservations and purchase rows.
type purchaseService struct {
	BaseService
	stock portssvc.StockLedgerSvc
	now   func() time.Time
}

// PurchaseServiceOption is a function that configures a purchaseService
type PurchaseServiceOption func(*purchaseService)

// WithPurchaseClock overrides the clock used for default dates and audit fields.
func WithPurchaseClock(now func() time.Time) PurchaseServiceOption {
	return func(s *purchaseService) {
		s.now = now
	}
}

// NewPurchaseService creates the purchase composer.
func NewPurchaseService(stock portssvc.StockLedgerSvc, options ...PurchaseServiceOption) portssvc.PurchaseComposerSvc {
	svc := &purchaseService{
		stock: stock,
		now:   time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.PurchaseComposerSvc = (*purchaseService)(nil)

func (s *purchaseService) CreateItemized(ctx context.Context, uow portsrepo.UnitOfWork, account domain.Account, purchaseDate time.Time, items []domain.PurchaseItem, userID string) (*domain.Purchase, error) {
	if purchaseDate.IsZero() {
		return nil, fmt.Errorf("%w: purchaseDate is required", apperrors.ErrValidation)
	}
	if err := accounting.ValidatePurchaseItems(items); err != nil {
		return nil, err
	}

	if err := s.stock.ReserveItems(ctx, uow, account.OwnerID, items); err != nil {
		return nil, err
	}

	purchaseID := uuid.NewString()
	purchase := domain.Purchase{
		PurchaseID:   purchaseID,
		AccountID:    account.AccountID,
		PurchaseDate: purchaseDate,
		Items:        newPurchaseItems(purchaseID, items),
		AuditFields:  domain.NewAuditFields(s.now(), userID),
	}
	purchase.Total = accounting.CalculatePurchaseTotal(purchase.Items)

	if err := uow.Purchases().SavePurchase(ctx, purchase); err != nil {
		s.LogError(ctx, err, "Failed to save itemized purchase", slog.String("account_id", account.AccountID))
		return nil, err
	}
	if err := s.verifyTotals(ctx, uow, purchaseID); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Itemized purchase created",
		slog.String("purchase_id", purchaseID),
		slog.String("total", purchase.Total.String()),
		slog.Int("items", len(purchase.Items)))
	return &purchase, nil
}

func (s *purchaseService) CreateSimple(ctx context.Context, uow portsrepo.UnitOfWork, account domain.Account, total decimal.Decimal, purchaseDate *time.Time, userID string) (*domain.Purchase, error) {
	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: total must be positive", apperrors.ErrValidation)
	}

	now := s.now()
	date := now
	if purchaseDate != nil && !purchaseDate.IsZero() {
		date = *purchaseDate
	}

	purchase := domain.Purchase{
		PurchaseID:   uuid.NewString(),
		AccountID:    account.AccountID,
		Total:        total,
		PurchaseDate: date,
		AuditFields:  domain.NewAuditFields(now, userID),
	}
	if err := uow.Purchases().SavePurchase(ctx, purchase); err != nil {
		s.LogError(ctx, err, "Failed to save simple purchase", slog.String("account_id", account.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Simple purchase created", slog.String("purchase_id", purchase.PurchaseID), slog.String("total", total.String()))
	return &purchase, nil
}

func (s *purchaseService) UpdateItemized(ctx context.Context, uow portsrepo.UnitOfWork, ownerID, purchaseID string, purchaseDate time.Time, items []domain.PurchaseItem, userID string) (*domain.Purchase, error) {
	if purchaseDate.IsZero() {
		return nil, fmt.Errorf("%w: purchaseDate is required", apperrors.ErrValidation)
	}
	if err := accounting.ValidatePurchaseItems(items); err != nil {
		return nil, err
	}

	purchase, err := uow.Purchases().FindPurchaseByIDForUpdate(ctx, ownerID, purchaseID)
	if err != nil {
		return nil, err
	}

	// Release first so that a cart may keep or increase quantities of the same product.
	if err := s.stock.ReleaseItems(ctx, uow, ownerID, purchase.Items); err != nil {
		return nil, err
	}
	if err := s.stock.ReserveItems(ctx, uow, ownerID, items); err != nil {
		return nil, err
	}

	newItems := newPurchaseItems(purchaseID, items)
	if err := uow.Purchases().ReplacePurchaseItems(ctx, purchaseID, newItems); err != nil {
		return nil, err
	}

	purchase.Items = newItems
	purchase.Total = accounting.CalculatePurchaseTotal(newItems)
	purchase.PurchaseDate = purchaseDate
	purchase.LastUpdatedAt = s.now()
	purchase.LastUpdatedBy = userID
	if err := uow.Purchases().UpdatePurchase(ctx, *purchase); err != nil {
		return nil, err
	}
	if err := s.verifyTotals(ctx, uow, purchaseID); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Itemized purchase updated", slog.String("purchase_id", purchaseID), slog.String("total", purchase.Total.String()))
	return purchase, nil
}

func (s *purchaseService) UpdateSimple(ctx context.Context, uow portsrepo.UnitOfWork, ownerID, purchaseID string, total decimal.Decimal, purchaseDate *time.Time, userID string) (*domain.Purchase, error) {
	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: total must be positive", apperrors.ErrValidation)
	}

	purchase, err := uow.Purchases().FindPurchaseByIDForUpdate(ctx, ownerID, purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase.IsItemized() {
		return nil, fmt.Errorf("%w: purchase %s has items, its total can only change through its items", apperrors.ErrValidation, purchaseID)
	}

	purchase.Total = total
	if purchaseDate != nil && !purchaseDate.IsZero() {
		purchase.PurchaseDate = *purchaseDate
	}
	purchase.LastUpdatedAt = s.now()
	purchase.LastUpdatedBy = userID
	if err := uow.Purchases().UpdatePurchase(ctx, *purchase); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Simple purchase updated", slog.String("purchase_id", purchaseID), slog.String("total", total.String()))
	return purchase, nil
}

func (s *purchaseService) Delete(ctx context.Context, uow portsrepo.UnitOfWork, ownerID, purchaseID string) (*domain.Purchase, error) {
	purchase, err := uow.Purchases().FindPurchaseByIDForUpdate(ctx, ownerID, purchaseID)
	if err != nil {
		return nil, err
	}
	if err := s.stock.ReleaseItems(ctx, uow, ownerID, purchase.Items); err != nil {
		return nil, err
	}
	if err := uow.Purchases().DeletePurchase(ctx, purchaseID); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Purchase deleted", slog.String("purchase_id", purchaseID), slog.Int("released_items", len(purchase.Items)))
	return purchase, nil
}

func (s *purchaseService) GetPurchase(ctx context.Context, uow portsrepo.UnitOfWork, ownerID, purchaseID string) (*domain.Purchase, error) {
	return uow.Purchases().FindPurchaseByID(ctx, ownerID, purchaseID)
}

// verifyTotals re-reads what was written. A mismatch means the ledger is broken.
func (s *purchaseService) verifyTotals(ctx context.Context, uow portsrepo.UnitOfWork, purchaseID string) error {
	stored, itemized, err := uow.Purchases().CalculatePurchaseTotals(ctx, purchaseID)
	if err != nil {
		return err
	}
	if !stored.Equal(itemized) {
		return fmt.Errorf("%w: purchase %s total %s differs from its items %s", apperrors.ErrFatal, purchaseID, stored, itemized)
	}
	return nil
}

func newPurchaseItems(purchaseID string, items []domain.PurchaseItem) []domain.PurchaseItem {
	out := make([]domain.PurchaseItem, len(items))
	for i, item := range items {
		out[i] = domain.PurchaseItem{
			PurchaseItemID: uuid.NewString(),
			PurchaseID:     purchaseID,
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
		}
	}
	return out
}
