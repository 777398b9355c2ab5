package accounting

import (
	"fmt"
	"sort"

	"github.com/SscSPs/fiado_backend/internal/apperrors"
	"github.com/SscSPs/fiado_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ValidatePurchaseItems checks the structural rules of a cart: at least one line,
// a product on every line, quantities within (0, domain.MaxItemQuantity] both per
// line and per product, and positive unit prices.
func ValidatePurchaseItems(items []domain.PurchaseItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: items: an itemized purchase needs at least one item", apperrors.ErrValidation)
	}
	for i, item := range items {
		if item.ProductID == "" {
			return fmt.Errorf("%w: items[%d].productID is required", apperrors.ErrValidation, i)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: items[%d].quantity must be positive", apperrors.ErrValidation, i)
		}
		if item.Quantity > domain.MaxItemQuantity {
			return fmt.Errorf("%w: items[%d].quantity must be at most %d", apperrors.ErrValidation, i, domain.MaxItemQuantity)
		}
		if !item.UnitPrice.IsPositive() {
			return fmt.Errorf("%w: items[%d].unitPrice must be positive", apperrors.ErrValidation, i)
		}
	}
	_, err := AggregateQuantities(items)
	return err
}

// AggregateQuantities sums item quantities per product. A line outside
// (0, domain.MaxItemQuantity] or a product total above the bound is rejected.
func AggregateQuantities(items []domain.PurchaseItem) (map[string]int, error) {
	quantities := make(map[string]int, len(items))
	for i, item := range items {
		if item.Quantity <= 0 || item.Quantity > domain.MaxItemQuantity {
			return nil, fmt.Errorf("%w: items[%d].quantity %d is out of range", apperrors.ErrValidation, i, item.Quantity)
		}
		// Both operands are at most MaxItemQuantity, so the sum fits an int.
		sum := int64(quantities[item.ProductID]) + int64(item.Quantity)
		if sum > domain.MaxItemQuantity {
			return nil, fmt.Errorf("%w: total quantity of product %s must be at most %d",
				apperrors.ErrValidation, item.ProductID, domain.MaxItemQuantity)
		}
		quantities[item.ProductID] = int(sum)
	}
	return quantities, nil
}

// CalculatePurchaseTotal sums quantity × unit price over all items.
func CalculatePurchaseTotal(items []domain.PurchaseItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// CalculateBalance derives an account balance from its purchase and payment sums.
func CalculateBalance(purchasesTotal, paymentsTotal decimal.Decimal) decimal.Decimal {
	return purchasesTotal.Sub(paymentsTotal)
}

// SortedProductIDs returns the keys of a per-product quantity map in ascending order.
// Stock rows are always touched in this order to keep lock acquisition consistent.
func SortedProductIDs(quantities map[string]int) []string {
	ids := make([]string, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
