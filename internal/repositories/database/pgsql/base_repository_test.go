package pgsql

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/fiado_backend/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

// commitFailTx is a transaction whose Commit fails with err.
type commitFailTx struct {
	pgx.Tx
	err error
}

func (t commitFailTx) Commit(context.Context) error { return t.err }

func TestClassifyError(t *testing.T) {
	pgErr := func(code string) error {
		return fmt.Errorf("exec: %w", &pgconn.PgError{Code: code, Message: "boom"})
	}
	stockErr := &apperrors.InsufficientStockError{ProductID: "p"}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"serialization failure", pgErr(pgSerializationFailure), apperrors.ErrTransient},
		{"deadlock", pgErr(pgDeadlockDetected), apperrors.ErrTransient},
		{"lock timeout", pgErr(pgLockNotAvailable), apperrors.ErrTransient},
		{"statement timeout", pgErr(pgQueryCanceled), apperrors.ErrTransient},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), apperrors.ErrTransient},
		{"cancelled", context.Canceled, apperrors.ErrTransient},
		{"unique violation", pgErr(pgUniqueViolation), apperrors.ErrDuplicate},
		{"check violation", pgErr(pgCheckViolation), apperrors.ErrFatal},
		{"foreign key violation", pgErr(pgForeignKeyViolation), apperrors.ErrFatal},
		{"already classified", fmt.Errorf("%w: customer x", apperrors.ErrNotFound), apperrors.ErrNotFound},
		{"insufficient stock", stockErr, apperrors.ErrInsufficientStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyError(tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, tt.err, "cause is kept")
		})
	}

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, classifyError(nil))
	})
	t.Run("unknown", func(t *testing.T) {
		err := errors.New("something else")
		assert.Same(t, err, classifyError(err))
	})
	t.Run("insufficient stock keeps its details", func(t *testing.T) {
		var target *apperrors.InsufficientStockError
		assert.ErrorAs(t, classifyError(stockErr), &target)
		assert.Equal(t, "p", target.ProductID)
	})
}

func TestCommit(t *testing.T) {
	var repo BaseRepository

	t.Run("success", func(t *testing.T) {
		assert.NoError(t, repo.Commit(context.Background(), commitFailTx{}))
	})

	t.Run("server rejected commit is retryable", func(t *testing.T) {
		err := repo.Commit(context.Background(), commitFailTx{err: &pgconn.PgError{Code: pgSerializationFailure}})
		assert.ErrorIs(t, err, apperrors.ErrTransient)
	})

	t.Run("deadline during commit is not retried", func(t *testing.T) {
		err := repo.Commit(context.Background(), commitFailTx{err: fmt.Errorf("read: %w", context.DeadlineExceeded)})
		assert.ErrorIs(t, err, apperrors.ErrInternal)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.False(t, apperrors.IsRetryable(err))
		assert.False(t, apperrors.IsRetryable(classifyError(err)), "classification keeps the outcome unknown")
	})

	t.Run("lost connection is not retried", func(t *testing.T) {
		err := repo.Commit(context.Background(), commitFailTx{err: errors.New("unexpected EOF")})
		assert.ErrorIs(t, err, apperrors.ErrInternal)
		assert.False(t, apperrors.IsRetryable(err))
	})
}
