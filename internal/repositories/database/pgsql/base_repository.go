package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/fiado_backend/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres error codes the ledger reacts to.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgQueryCanceled        = "57014"
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new read committed transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, classifyError(fmt.Errorf("failed to begin transaction: %w", err))
	}
	return tx, nil
}

// Commit commits a transaction. A failure the server did not answer leaves the
// outcome unknown; it is reported as apperrors.ErrInternal and never retried,
// since the transaction may already be durable.
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	err := tx.Commit(ctx)
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) || pgconn.SafeToRetry(err) {
		return classifyError(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return fmt.Errorf("%w: commit outcome unknown: %w", apperrors.ErrInternal, err)
}

// Rollback rolls back a transaction. It is a no-op on a finished transaction.
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// classifyError maps storage failures onto the ledger's error taxonomy.
// Errors that already carry a ledger sentinel are returned unchanged.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range []error{
		apperrors.ErrNotFound, apperrors.ErrValidation, apperrors.ErrDuplicate,
		apperrors.ErrInsufficientStock, apperrors.ErrTransient, apperrors.ErrFatal,
		apperrors.ErrInternal,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", apperrors.ErrTransient, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable, pgQueryCanceled:
			return fmt.Errorf("%w: %w", apperrors.ErrTransient, err)
		case pgUniqueViolation:
			return fmt.Errorf("%w: %w", apperrors.ErrDuplicate, err)
		case pgForeignKeyViolation, pgCheckViolation:
			// Referenced rows are looked up before every write, so this is an integrity bug.
			return fmt.Errorf("%w: %w", apperrors.ErrFatal, err)
		}
		return err
	}

	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return fmt.Errorf("%w: %w", apperrors.ErrTransient, err)
	}
	return err
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, kind, id)
}
