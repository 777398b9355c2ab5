package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// MaxItemQuantity bounds item and stock quantities to the range of the INTEGER columns.
const MaxItemQuantity = math.MaxInt32

// Purchase increases what the customer of an account owes.
// A purchase either has items (itemized) or a directly entered total (simple).
type Purchase struct {
	PurchaseID   string          `json:"purchaseID"`
	AccountID    string          `json:"accountID"`
	Total        decimal.Decimal `json:"total"`
	PurchaseDate time.Time       `json:"purchaseDate"`
	Items        []PurchaseItem  `json:"items,omitempty"`
	AuditFields
}

// PurchaseItem is one cart line. UnitPrice is captured at sale time and never changes.
type PurchaseItem struct {
	PurchaseItemID string          `json:"purchaseItemID"`
	PurchaseID     string          `json:"purchaseID"`
	ProductID      string          `json:"productID"`
	ProductName    string          `json:"productName,omitempty"` // Resolved on read
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
}

// LineTotal returns quantity × unit price.
func (i PurchaseItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// IsItemized reports whether the purchase total is derived from items.
func (p *Purchase) IsItemized() bool {
	return len(p.Items) > 0
}

// ItemsTotal sums the line totals of all items.
func (p *Purchase) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range p.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}
