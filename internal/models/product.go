package models

import "github.com/shopspring/decimal"

// Product represents a row of the products table.
type Product struct {
	ProductID   string          `db:"product_id"`
	OwnerID     string          `db:"owner_id"`
	Name        string          `db:"name"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	StockOnHand int             `db:"stock_on_hand"` // CHECK (stock_on_hand >= 0)
	AuditFields
}
