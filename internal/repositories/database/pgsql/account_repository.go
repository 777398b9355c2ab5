package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/fiado_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fiado_backend/internal/core/ports/repositories"
	"github.com/SscSPs/fiado_backend/internal/models"
	"github.com/SscSPs/fiado_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type pgxAccountRepository struct {
	db pgx.Tx
}

var _ portsrepo.AccountRepository = (*pgxAccountRepository)(nil)

const selectAccountSQL = `
	SELECT a.account_id, a.customer_id, a.owner_id, c.name,
	       a.created_at, a.created_by, a.last_updated_at, a.last_updated_by
	FROM accounts a
	JOIN customers c ON c.customer_id = a.customer_id
`

func (r *pgxAccountRepository) findOne(ctx context.Context, where string, kind, id string, args ...any) (*domain.Account, error) {
	var m models.Account
	err := r.db.QueryRow(ctx, selectAccountSQL+where, args...).Scan(
		&m.AccountID,
		&m.CustomerID,
		&m.OwnerID,
		&m.CustomerName,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound(kind, id)
		}
		return nil, fmt.Errorf("failed to find %s %s: %w", kind, id, err)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

func (r *pgxAccountRepository) FindAccountByCustomerID(ctx context.Context, ownerID, customerID string) (*domain.Account, error) {
	return r.findOne(ctx, `WHERE a.customer_id = $1 AND a.owner_id = $2`, "customer", customerID, customerID, ownerID)
}

func (r *pgxAccountRepository) LockAccountByCustomerID(ctx context.Context, ownerID, customerID string, mode portsrepo.LockMode) (*domain.Account, error) {
	// KEY SHARE matches the lock taken by foreign key checks, so writers of the
	// same account do not block each other.
	lock := `FOR KEY SHARE OF a`
	if mode == portsrepo.LockExclusive {
		lock = `FOR UPDATE OF a`
	}
	return r.findOne(ctx, `WHERE a.customer_id = $1 AND a.owner_id = $2 `+lock, "customer", customerID, customerID, ownerID)
}

func (r *pgxAccountRepository) FindAccountByID(ctx context.Context, ownerID, accountID string) (*domain.Account, error) {
	return r.findOne(ctx, `WHERE a.account_id = $1 AND a.owner_id = $2`, "account", accountID, accountID, ownerID)
}

func (r *pgxAccountRepository) CalculateBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE((SELECT SUM(total) FROM purchases WHERE account_id = $1), 0)
		     - COALESCE((SELECT SUM(value) FROM payments WHERE account_id = $1), 0);
	`
	var balance decimal.Decimal
	if err := r.db.QueryRow(ctx, query, accountID).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("failed to calculate balance of account %s: %w", accountID, err)
	}
	return balance, nil
}

func (r *pgxAccountRepository) CalculateTotalReceivable(ctx context.Context, ownerID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE((SELECT SUM(p.total) FROM purchases p JOIN accounts a ON a.account_id = p.account_id WHERE a.owner_id = $1), 0)
		     - COALESCE((SELECT SUM(p.value) FROM payments p JOIN accounts a ON a.account_id = p.account_id WHERE a.owner_id = $1), 0);
	`
	var total decimal.Decimal
	if err := r.db.QueryRow(ctx, query, ownerID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to calculate total receivable: %w", err)
	}
	return total, nil
}

func (r *pgxAccountRepository) DeleteCustomer(ctx context.Context, ownerID, customerID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE customer_id = $1 AND owner_id = $2;`, customerID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete account of customer %s: %w", customerID, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("customer", customerID)
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM customers WHERE customer_id = $1 AND owner_id = $2;`, customerID, ownerID); err != nil {
		return fmt.Errorf("failed to delete customer %s: %w", customerID, err)
	}
	return nil
}
