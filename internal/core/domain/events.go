package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceChangedEvent is emitted after a successful write touching an account.
type BalanceChangedEvent struct {
	OwnerID    string          `json:"ownerID"`
	AccountID  string          `json:"accountID"`
	CustomerID string          `json:"customerID"`
	NewBalance decimal.Decimal `json:"newBalance"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// TotalsChangedEvent is emitted after a successful write with the owner's new receivable total.
type TotalsChangedEvent struct {
	OwnerID    string          `json:"ownerID"`
	NewTotal   decimal.Decimal `json:"newTotal"`
	OccurredAt time.Time       `json:"occurredAt"`
}
