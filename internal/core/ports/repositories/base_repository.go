package repositories

import "context"

// UnitOfWork exposes repositories bound to one open storage transaction.
// Every component call that takes a UnitOfWork reads and writes through it,
// so all of its effects commit or roll back together.
type UnitOfWork interface {
	Accounts() AccountRepository
	Products() ProductRepository
	Purchases() PurchaseRepository
	Payments() PaymentRepository
	Movements() MovementRepository
}

// TxFunc is the body of a transaction. Returning an error rolls the transaction back.
type TxFunc func(ctx context.Context, uow UnitOfWork) error

// TransactionManager opens units of work.
type TransactionManager interface {
	// WithinTx runs fn inside a new transaction and commits when fn returns nil.
	// The transaction is rolled back on any error and on panic.
	// Storage failures that are safe to retry are reported as apperrors.ErrTransient.
	WithinTx(ctx context.Context, fn TxFunc) error
}
