package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment represents a row of the payments table.
type Payment struct {
	PaymentID   string          `db:"payment_id"`
	AccountID   string          `db:"account_id"`
	Value       decimal.Decimal `db:"value"`
	PaymentDate time.Time       `db:"payment_date"`
	AuditFields
}
