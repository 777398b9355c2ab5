package pgsql

import (
	"context"

	portsrepo "github.com/SscSPs/fiado_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxTransactionManager opens one pgx transaction per unit of work.
type PgxTransactionManager struct {
	BaseRepository
}

// NewTransactionManager creates a transaction manager over pool.
func NewTransactionManager(pool *pgxpool.Pool) *PgxTransactionManager {
	return &PgxTransactionManager{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionManager = (*PgxTransactionManager)(nil)

func (m *PgxTransactionManager) WithinTx(ctx context.Context, fn portsrepo.TxFunc) (err error) {
	tx, err := m.Begin(ctx)
	if err != nil {
		return err
	}

	// Rollback must run even when ctx is already done.
	rollbackCtx := context.WithoutCancel(ctx)
	defer func() {
		if p := recover(); p != nil {
			_ = m.Rollback(rollbackCtx, tx)
			panic(p)
		}
	}()

	if err := fn(ctx, newUnitOfWork(tx)); err != nil {
		_ = m.Rollback(rollbackCtx, tx)
		return classifyError(err)
	}
	return m.Commit(ctx, tx)
}

type pgxUnitOfWork struct {
	accounts  *pgxAccountRepository
	products  *pgxProductRepository
	purchases *pgxPurchaseRepository
	payments  *pgxPaymentRepository
	movements *pgxMovementRepository
}

func newUnitOfWork(tx pgx.Tx) *pgxUnitOfWork {
	return &pgxUnitOfWork{
		accounts:  &pgxAccountRepository{db: tx},
		products:  &pgxProductRepository{db: tx},
		purchases: &pgxPurchaseRepository{db: tx},
		payments:  &pgxPaymentRepository{db: tx},
		movements: &pgxMovementRepository{db: tx},
	}
}

func (u *pgxUnitOfWork) Accounts() portsrepo.AccountRepository   { return u.accounts }
func (u *pgxUnitOfWork) Products() portsrepo.ProductRepository   { return u.products }
func (u *pgxUnitOfWork) Purchases() portsrepo.PurchaseRepository { return u.purchases }
func (u *pgxUnitOfWork) Payments() portsrepo.PaymentRepository   { return u.payments }
func (u *pgxUnitOfWork) Movements() portsrepo.MovementRepository { return u.movements }
