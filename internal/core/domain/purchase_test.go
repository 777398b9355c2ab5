package domain_test

import (
	"testing"

	"github.com/SscSPs/fiado_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPurchase_ItemsTotal(t *testing.T) {
	tests := []struct {
		name     string
		purchase domain.Purchase
		want     decimal.Decimal
	}{
		{
			name:     "simple purchase has no item total",
			purchase: domain.Purchase{Total: decimal.NewFromInt(12)},
			want:     decimal.Zero,
		},
		{
			name: "single line",
			purchase: domain.Purchase{Items: []domain.PurchaseItem{
				{ProductID: "p1", Quantity: 3, UnitPrice: decimal.RequireFromString("5.00")},
			}},
			want: decimal.RequireFromString("15.00"),
		},
		{
			name: "several lines with cents",
			purchase: domain.Purchase{Items: []domain.PurchaseItem{
				{ProductID: "p1", Quantity: 2, UnitPrice: decimal.RequireFromString("1.15")},
				{ProductID: "p2", Quantity: 1, UnitPrice: decimal.RequireFromString("0.10")},
			}},
			want: decimal.RequireFromString("2.40"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(tt.purchase.ItemsTotal()), "got %s", tt.purchase.ItemsTotal())
			assert.Equal(t, len(tt.purchase.Items) > 0, tt.purchase.IsItemized())
		})
	}
}

func TestMovement_SignedAmount(t *testing.T) {
	purchase := domain.Movement{MovementType: domain.MovementPurchase, Amount: decimal.NewFromInt(10)}
	payment := domain.Movement{MovementType: domain.MovementPayment, Amount: decimal.NewFromInt(4)}

	assert.True(t, decimal.NewFromInt(10).Equal(purchase.SignedAmount()))
	assert.True(t, decimal.NewFromInt(-4).Equal(payment.SignedAmount()))
}
