package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase represents a row of the purchases table.
type Purchase struct {
	PurchaseID   string          `db:"purchase_id"`
	AccountID    string          `db:"account_id"`
	Total        decimal.Decimal `db:"total"`
	PurchaseDate time.Time       `db:"purchase_date"`
	AuditFields
}

// PurchaseItem represents a row of the purchase_items table.
type PurchaseItem struct {
	PurchaseItemID string          `db:"purchase_item_id"`
	PurchaseID     string          `db:"purchase_id"`
	ProductID      string          `db:"product_id"`
	ProductName    string          `db:"product_name"` // Joined from products on read
	Quantity       int             `db:"quantity"`
	UnitPrice      decimal.Decimal `db:"unit_price"`
}
