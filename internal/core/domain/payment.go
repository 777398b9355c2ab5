package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment decreases what the customer of an account owes.
type Payment struct {
	PaymentID   string          `json:"paymentID"`
	AccountID   string          `json:"accountID"`
	Value       decimal.Decimal `json:"value"`
	PaymentDate time.Time       `json:"paymentDate"`
	AuditFields
}
