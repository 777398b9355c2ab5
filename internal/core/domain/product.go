package domain

import "github.com/shopspring/decimal"

// Product is a catalog entry with a finite quantity on hand.
// Only StockOnHand is mutated by the ledger, through the stock ledger.
type Product struct {
	ProductID   string          `json:"productID"`
	OwnerID     string          `json:"ownerID"`
	Name        string          `json:"name"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	StockOnHand int             `json:"stockOnHand"` // Never negative
	AuditFields
}
