package repositories

import (
	"context"

	"github.com/SscSPs/fiado_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LockMode selects the row lock taken on an account inside a transaction.
type LockMode int

const (
	// LockShare keeps the account from being deleted until the transaction ends.
	LockShare LockMode = iota
	// LockExclusive blocks every writer that references the account.
	LockExclusive
)

// AccountReader defines read operations for customer accounts.
// Lookups are scoped by owner; rows of another owner are reported as apperrors.ErrNotFound.
type AccountReader interface {
	// FindAccountByCustomerID translates an external customer id into its account.
	FindAccountByCustomerID(ctx context.Context, ownerID, customerID string) (*domain.Account, error)

	// LockAccountByCustomerID resolves the account like FindAccountByCustomerID and
	// holds a row lock on it until the transaction ends. An account removed while
	// waiting for the lock is reported as apperrors.ErrNotFound.
	LockAccountByCustomerID(ctx context.Context, ownerID, customerID string, mode LockMode) (*domain.Account, error)

	// FindAccountByID retrieves an account by its internal id.
	FindAccountByID(ctx context.Context, ownerID, accountID string) (*domain.Account, error)
}

// AccountCalculator defines the derived balance aggregates.
type AccountCalculator interface {
	// CalculateBalance returns Σ purchases.total − Σ payments.value for the account.
	CalculateBalance(ctx context.Context, accountID string) (decimal.Decimal, error)

	// CalculateTotalReceivable returns the sum of all account balances of an owner.
	CalculateTotalReceivable(ctx context.Context, ownerID string) (decimal.Decimal, error)
}

// AccountWriter defines write operations for customer accounts.
type AccountWriter interface {
	// DeleteCustomer removes the account and the customer row. The account must
	// already be empty of purchases and payments.
	DeleteCustomer(ctx context.Context, ownerID, customerID string) error
}

// AccountRepository combines all account-related repository interfaces.
type AccountRepository interface {
	AccountReader
	AccountCalculator
	AccountWriter
}
