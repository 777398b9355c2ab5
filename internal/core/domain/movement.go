package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tags the row a movement was derived from.
type MovementType string

const (
	MovementPurchase MovementType = "PURCHASE"
	MovementPayment  MovementType = "PAYMENT"
)

// Movement is a read-only ledger entry unifying one purchase or one payment.
// It has no lifecycle of its own: it exists exactly as long as its source row.
type Movement struct {
	MovementType MovementType    `json:"type"`
	SourceID     string          `json:"sourceID"` // PurchaseID or PaymentID
	AccountID    string          `json:"accountID"`
	Amount       decimal.Decimal `json:"amount"`
	OccurredAt   time.Time       `json:"occurredAt"`
	CreatedAt    time.Time       `json:"createdAt"`
	Items        []PurchaseItem  `json:"items,omitempty"` // Only for purchases, when requested
}

// SignedAmount returns the effect of the movement on the account balance.
func (m Movement) SignedAmount() decimal.Decimal {
	if m.MovementType == MovementPayment {
		return m.Amount.Neg()
	}
	return m.Amount
}

// MovementQuery selects a page of an account's movement log.
type MovementQuery struct {
	Limit        int    // Zero or less returns the whole log
	NextToken    string // Cursor returned by the previous page
	IncludeItems bool   // Expand purchase movements with their items
}

// MovementPage is one page of the movement log.
type MovementPage struct {
	Movements []Movement `json:"movements"`
	NextToken *string    `json:"nextToken,omitempty"`
}
