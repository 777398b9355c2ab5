package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/fiado_backend/internal/apperrors"
	"github.com/SscSPs/fiado_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fiado_backend/internal/core/ports/repositories"
	"github.com/SscSPs/fiado_backend/internal/utils/accounting"
	"github.com/SscSPs/fiado_backend/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

type accountRepository struct{ s *state }

func (r accountRepository) FindAccountByCustomerID(_ context.Context, ownerID, customerID string) (*domain.Account, error) {
	for _, account := range r.s.accounts {
		if account.CustomerID == customerID && account.OwnerID == ownerID {
			return &account, nil
		}
	}
	return nil, notFound("customer", customerID)
}

// LockAccountByCustomerID is a plain lookup; the store already serializes transactions.
func (r accountRepository) LockAccountByCustomerID(ctx context.Context, ownerID, customerID string, _ portsrepo.LockMode) (*domain.Account, error) {
	return r.FindAccountByCustomerID(ctx, ownerID, customerID)
}

func (r accountRepository) FindAccountByID(_ context.Context, ownerID, accountID string) (*domain.Account, error) {
	account, ok := r.s.ownedAccount(ownerID, accountID)
	if !ok {
		return nil, notFound("account", accountID)
	}
	return &account, nil
}

func (r accountRepository) CalculateBalance(_ context.Context, accountID string) (decimal.Decimal, error) {
	return r.s.balance(accountID), nil
}

func (r accountRepository) CalculateTotalReceivable(_ context.Context, ownerID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, account := range r.s.accounts {
		if account.OwnerID == ownerID {
			total = total.Add(r.s.balance(account.AccountID))
		}
	}
	return total, nil
}

func (r accountRepository) DeleteCustomer(_ context.Context, ownerID, customerID string) error {
	for id, account := range r.s.accounts {
		if account.CustomerID != customerID || account.OwnerID != ownerID {
			continue
		}
		for _, p := range r.s.purchases {
			if p.AccountID == id {
				return fmt.Errorf("%w: account %s still has purchases", apperrors.ErrFatal, id)
			}
		}
		for _, p := range r.s.payments {
			if p.AccountID == id {
				return fmt.Errorf("%w: account %s still has payments", apperrors.ErrFatal, id)
			}
		}
		delete(r.s.accounts, id)
		delete(r.s.customers, customerID)
		return nil
	}
	return notFound("customer", customerID)
}

func (s *state) balance(accountID string) decimal.Decimal {
	purchases, payments := decimal.Zero, decimal.Zero
	for _, p := range s.purchases {
		if p.AccountID == accountID {
			purchases = purchases.Add(p.Total)
		}
	}
	for _, p := range s.payments {
		if p.AccountID == accountID {
			payments = payments.Add(p.Value)
		}
	}
	return accounting.CalculateBalance(purchases, payments)
}

type productRepository struct{ s *state }

func (r productRepository) FindProductByID(_ context.Context, ownerID, productID string) (*domain.Product, error) {
	product, ok := r.s.products[productID]
	if !ok || product.OwnerID != ownerID {
		return nil, notFound("product", productID)
	}
	return &product, nil
}

func (r productRepository) DecrementStock(_ context.Context, ownerID, productID string, qty int) (bool, error) {
	product, ok := r.s.products[productID]
	if !ok || product.OwnerID != ownerID || product.StockOnHand < qty {
		return false, nil
	}
	product.StockOnHand -= qty
	r.s.products[productID] = product
	return true, nil
}

func (r productRepository) IncrementStock(_ context.Context, ownerID, productID string, qty int) (bool, error) {
	product, ok := r.s.products[productID]
	if !ok || product.OwnerID != ownerID {
		return false, nil
	}
	product.StockOnHand += qty
	r.s.products[productID] = product
	return true, nil
}

type purchaseRepository struct{ s *state }

func (r purchaseRepository) find(ownerID, purchaseID string) (*domain.Purchase, error) {
	purchase, ok := r.s.purchases[purchaseID]
	if !ok {
		return nil, notFound("purchase", purchaseID)
	}
	if _, owned := r.s.ownedAccount(ownerID, purchase.AccountID); !owned {
		return nil, notFound("purchase", purchaseID)
	}
	purchase = copyPurchase(purchase)
	r.s.resolveNames(purchase.Items)
	return &purchase, nil
}

func (r purchaseRepository) FindPurchaseByID(_ context.Context, ownerID, purchaseID string) (*domain.Purchase, error) {
	return r.find(ownerID, purchaseID)
}

// FindPurchaseByIDForUpdate needs no row lock: transactions are already serialized.
func (r purchaseRepository) FindPurchaseByIDForUpdate(_ context.Context, ownerID, purchaseID string) (*domain.Purchase, error) {
	return r.find(ownerID, purchaseID)
}

func (r purchaseRepository) ListPurchaseIDsByAccount(_ context.Context, accountID string) ([]string, error) {
	var ids []string
	for id, p := range r.s.purchases {
		if p.AccountID == accountID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r purchaseRepository) CalculatePurchaseTotals(_ context.Context, purchaseID string) (decimal.Decimal, decimal.Decimal, error) {
	purchase, ok := r.s.purchases[purchaseID]
	if !ok {
		return decimal.Zero, decimal.Zero, notFound("purchase", purchaseID)
	}
	return purchase.Total, accounting.CalculatePurchaseTotal(purchase.Items), nil
}

func (r purchaseRepository) SavePurchase(_ context.Context, purchase domain.Purchase) error {
	if _, ok := r.s.accounts[purchase.AccountID]; !ok {
		return notFound("account", purchase.AccountID)
	}
	if _, exists := r.s.purchases[purchase.PurchaseID]; exists {
		return fmt.Errorf("%w: purchase %s", apperrors.ErrDuplicate, purchase.PurchaseID)
	}
	if err := r.s.checkProducts(purchase.Items); err != nil {
		return err
	}
	r.s.purchases[purchase.PurchaseID] = copyPurchase(purchase)
	return nil
}

func (r purchaseRepository) UpdatePurchase(_ context.Context, purchase domain.Purchase) error {
	existing, ok := r.s.purchases[purchase.PurchaseID]
	if !ok {
		return notFound("purchase", purchase.PurchaseID)
	}
	existing.Total = purchase.Total
	existing.PurchaseDate = purchase.PurchaseDate
	existing.LastUpdatedAt = purchase.LastUpdatedAt
	existing.LastUpdatedBy = purchase.LastUpdatedBy
	r.s.purchases[purchase.PurchaseID] = existing
	return nil
}

func (r purchaseRepository) ReplacePurchaseItems(_ context.Context, purchaseID string, items []domain.PurchaseItem) error {
	existing, ok := r.s.purchases[purchaseID]
	if !ok {
		return notFound("purchase", purchaseID)
	}
	if err := r.s.checkProducts(items); err != nil {
		return err
	}
	existing.Items = copyPurchase(domain.Purchase{Items: items}).Items
	r.s.purchases[purchaseID] = existing
	return nil
}

func (r purchaseRepository) DeletePurchase(_ context.Context, purchaseID string) error {
	if _, ok := r.s.purchases[purchaseID]; !ok {
		return notFound("purchase", purchaseID)
	}
	delete(r.s.purchases, purchaseID)
	return nil
}

func (s *state) checkProducts(items []domain.PurchaseItem) error {
	for _, item := range items {
		if _, ok := s.products[item.ProductID]; !ok {
			return notFound("product", item.ProductID)
		}
	}
	return nil
}

func (s *state) resolveNames(items []domain.PurchaseItem) {
	for i := range items {
		if p, ok := s.products[items[i].ProductID]; ok {
			items[i].ProductName = p.Name
		}
	}
}

type paymentRepository struct{ s *state }

func (r paymentRepository) SavePayment(_ context.Context, payment domain.Payment) error {
	if _, ok := r.s.accounts[payment.AccountID]; !ok {
		return notFound("account", payment.AccountID)
	}
	if _, exists := r.s.payments[payment.PaymentID]; exists {
		return fmt.Errorf("%w: payment %s", apperrors.ErrDuplicate, payment.PaymentID)
	}
	r.s.payments[payment.PaymentID] = payment
	return nil
}

func (r paymentRepository) FindPaymentByIDForUpdate(_ context.Context, ownerID, paymentID string) (*domain.Payment, error) {
	payment, ok := r.s.payments[paymentID]
	if !ok {
		return nil, notFound("payment", paymentID)
	}
	if _, owned := r.s.ownedAccount(ownerID, payment.AccountID); !owned {
		return nil, notFound("payment", paymentID)
	}
	return &payment, nil
}

func (r paymentRepository) UpdatePayment(_ context.Context, payment domain.Payment) error {
	existing, ok := r.s.payments[payment.PaymentID]
	if !ok {
		return notFound("payment", payment.PaymentID)
	}
	existing.Value = payment.Value
	existing.PaymentDate = payment.PaymentDate
	existing.LastUpdatedAt = payment.LastUpdatedAt
	existing.LastUpdatedBy = payment.LastUpdatedBy
	r.s.payments[payment.PaymentID] = existing
	return nil
}

func (r paymentRepository) DeletePayment(_ context.Context, paymentID string) error {
	if _, ok := r.s.payments[paymentID]; !ok {
		return notFound("payment", paymentID)
	}
	delete(r.s.payments, paymentID)
	return nil
}

func (r paymentRepository) DeletePaymentsByAccount(_ context.Context, accountID string) (int64, error) {
	var removed int64
	for id, p := range r.s.payments {
		if p.AccountID == accountID {
			delete(r.s.payments, id)
			removed++
		}
	}
	return removed, nil
}

type movementRepository struct{ s *state }

func (r movementRepository) ListMovementsByAccount(_ context.Context, accountID string, limit int, after *pagination.Cursor) ([]domain.Movement, error) {
	var movements []domain.Movement
	for _, p := range r.s.purchases {
		if p.AccountID == accountID {
			movements = append(movements, domain.Movement{
				MovementType: domain.MovementPurchase,
				SourceID:     p.PurchaseID,
				AccountID:    accountID,
				Amount:       p.Total,
				OccurredAt:   p.PurchaseDate,
				CreatedAt:    p.CreatedAt,
			})
		}
	}
	for _, p := range r.s.payments {
		if p.AccountID == accountID {
			movements = append(movements, domain.Movement{
				MovementType: domain.MovementPayment,
				SourceID:     p.PaymentID,
				AccountID:    accountID,
				Amount:       p.Value,
				OccurredAt:   p.PaymentDate,
				CreatedAt:    p.CreatedAt,
			})
		}
	}

	sort.Slice(movements, func(i, j int) bool {
		a, b := movements[i], movements[j]
		if !a.OccurredAt.Equal(b.OccurredAt) {
			return a.OccurredAt.After(b.OccurredAt)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.SourceID > b.SourceID
	})

	out := make([]domain.Movement, 0, len(movements))
	for _, m := range movements {
		if after != nil && !after.Before(m.OccurredAt, m.CreatedAt, m.SourceID) {
			continue
		}
		out = append(out, m)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r movementRepository) FindItemsByPurchaseIDs(_ context.Context, purchaseIDs []string) (map[string][]domain.PurchaseItem, error) {
	out := make(map[string][]domain.PurchaseItem, len(purchaseIDs))
	for _, id := range purchaseIDs {
		purchase, ok := r.s.purchases[id]
		if !ok || len(purchase.Items) == 0 {
			continue
		}
		items := copyPurchase(purchase).Items
		r.s.resolveNames(items)
		out[id] = items
	}
	return out, nil
}
