package accounting

import (
	"math"
	"testing"

	"github.com/SscSPs/fiado_backend/internal/apperrors"
	"github.com/SscSPs/fiado_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePurchaseItems(t *testing.T) {
	price := decimal.RequireFromString("5.00")

	tests := []struct {
		name    string
		items   []domain.PurchaseItem
		wantErr string
	}{
		{name: "empty cart", items: nil, wantErr: "at least one item"},
		{name: "missing product", items: []domain.PurchaseItem{{Quantity: 1, UnitPrice: price}}, wantErr: "items[0].productID"},
		{name: "zero quantity", items: []domain.PurchaseItem{{ProductID: "p1", Quantity: 0, UnitPrice: price}}, wantErr: "items[0].quantity"},
		{name: "negative price", items: []domain.PurchaseItem{
			{ProductID: "p1", Quantity: 1, UnitPrice: price},
			{ProductID: "p2", Quantity: 1, UnitPrice: decimal.NewFromInt(-1)},
		}, wantErr: "items[1].unitPrice"},
		{name: "quantity above column range", items: []domain.PurchaseItem{
			{ProductID: "p1", Quantity: domain.MaxItemQuantity + 1, UnitPrice: price},
		}, wantErr: "items[0].quantity must be at most 2147483647"},
		{name: "same product summing past the range", items: []domain.PurchaseItem{
			{ProductID: "p1", Quantity: domain.MaxItemQuantity, UnitPrice: price},
			{ProductID: "p1", Quantity: 2, UnitPrice: price},
		}, wantErr: "total quantity of product p1"},
		{name: "valid", items: []domain.PurchaseItem{{ProductID: "p1", Quantity: 2, UnitPrice: price}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePurchaseItems(tt.items)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCalculatePurchaseTotalAndBalance(t *testing.T) {
	items := []domain.PurchaseItem{
		{ProductID: "p1", Quantity: 3, UnitPrice: decimal.RequireFromString("5.00")},
		{ProductID: "p2", Quantity: 2, UnitPrice: decimal.RequireFromString("0.25")},
	}

	total := CalculatePurchaseTotal(items)
	assert.Equal(t, "15.5", total.String())

	balance := CalculateBalance(total, decimal.RequireFromString("20"))
	assert.Equal(t, "-4.5", balance.String())
}

func TestAggregateQuantities(t *testing.T) {
	quantities, err := AggregateQuantities([]domain.PurchaseItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
		{ProductID: "p1", Quantity: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"p1": 6, "p2": 1}, quantities)

	_, err = AggregateQuantities([]domain.PurchaseItem{
		{ProductID: "p1", Quantity: math.MaxInt},
		{ProductID: "p1", Quantity: 2},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "out of range")

	_, err = AggregateQuantities([]domain.PurchaseItem{
		{ProductID: "p1", Quantity: domain.MaxItemQuantity},
		{ProductID: "p1", Quantity: 1},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "total quantity of product p1")
}

func TestSortedProductIDs(t *testing.T) {
	ids := SortedProductIDs(map[string]int{"c": 1, "a": 2, "b": 3})
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}
