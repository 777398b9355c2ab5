package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement represents a row of the account_movements view.
type Movement struct {
	MovementType string          `db:"movement_type"` // PURCHASE or PAYMENT
	SourceID     string          `db:"source_id"`
	AccountID    string          `db:"account_id"`
	Amount       decimal.Decimal `db:"amount"`
	OccurredAt   time.Time       `db:"occurred_at"`
	CreatedAt    time.Time       `db:"created_at"`
}
