package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/fiado_backend/internal/apperrors"
	"github.com/SscSPs/fiado_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fiado_backend/internal/core/ports/repositories"
	"github.com/SscSPs/fiado_backend/internal/utils/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const owner = "owner-1"

func TestWithinTx_RollsBackOnError(t *testing.T) {
	store := NewStore()
	product := store.AddProduct(owner, "Bread", decimal.NewFromInt(2), 5)

	errBoom := errors.New("boom")
	err := store.WithinTx(context.Background(), func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		applied, err := uow.Products().DecrementStock(ctx, owner, product.ProductID, 3)
		require.NoError(t, err)
		require.True(t, applied)
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	stock, ok := store.StockOnHand(product.ProductID)
	require.True(t, ok)
	assert.Equal(t, 5, stock)
}

func TestWithinTx_RollsBackOnPanic(t *testing.T) {
	store := NewStore()
	product := store.AddProduct(owner, "Milk", decimal.NewFromInt(3), 4)

	assert.Panics(t, func() {
		_ = store.WithinTx(context.Background(), func(ctx context.Context, uow portsrepo.UnitOfWork) error {
			_, _ = uow.Products().DecrementStock(ctx, owner, product.ProductID, 4)
			panic("unexpected")
		})
	})

	stock, _ := store.StockOnHand(product.ProductID)
	assert.Equal(t, 4, stock)

	// The store stays usable after a panic.
	err := store.WithinTx(context.Background(), func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		_, err := uow.Products().DecrementStock(ctx, owner, product.ProductID, 1)
		return err
	})
	require.NoError(t, err)
	stock, _ = store.StockOnHand(product.ProductID)
	assert.Equal(t, 3, stock)
}

func TestWithinTx_SimulatedCommitFailure(t *testing.T) {
	store := NewStore()
	product := store.AddProduct(owner, "Rice", decimal.NewFromInt(1), 10)
	store.FailNextCommits(1)

	body := func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		_, err := uow.Products().DecrementStock(ctx, owner, product.ProductID, 2)
		return err
	}

	err := store.WithinTx(context.Background(), body)
	assert.ErrorIs(t, err, apperrors.ErrTransient)
	stock, _ := store.StockOnHand(product.ProductID)
	assert.Equal(t, 10, stock)

	require.NoError(t, store.WithinTx(context.Background(), body))
	stock, _ = store.StockOnHand(product.ProductID)
	assert.Equal(t, 8, stock)
}

func TestWithinTx_CancelledContext(t *testing.T) {
	store := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.WithinTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, apperrors.ErrTransient)
	assert.False(t, called)
}

func TestDecrementStock_IsConditional(t *testing.T) {
	store := NewStore()
	product := store.AddProduct(owner, "Eggs", decimal.NewFromInt(1), 2)

	err := store.WithinTx(context.Background(), func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		applied, err := uow.Products().DecrementStock(ctx, owner, product.ProductID, 3)
		require.NoError(t, err)
		assert.False(t, applied, "more than on hand")

		applied, err = uow.Products().DecrementStock(ctx, "someone-else", product.ProductID, 1)
		require.NoError(t, err)
		assert.False(t, applied, "foreign owner")

		applied, err = uow.Products().DecrementStock(ctx, owner, product.ProductID, 2)
		require.NoError(t, err)
		assert.True(t, applied)
		return nil
	})
	require.NoError(t, err)

	stock, _ := store.StockOnHand(product.ProductID)
	assert.Equal(t, 0, stock)
}

func TestOwnershipScoping(t *testing.T) {
	store := NewStore()
	customer, account := store.AddCustomer(owner, "Ana")

	err := store.WithinTx(context.Background(), func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		found, err := uow.Accounts().FindAccountByCustomerID(ctx, owner, customer.CustomerID)
		require.NoError(t, err)
		assert.Equal(t, account.AccountID, found.AccountID)
		assert.Equal(t, "Ana", found.CustomerName)

		_, err = uow.Accounts().FindAccountByCustomerID(ctx, "intruder", customer.CustomerID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		_, err = uow.Accounts().FindAccountByID(ctx, "intruder", account.AccountID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		locked, err := uow.Accounts().LockAccountByCustomerID(ctx, owner, customer.CustomerID, portsrepo.LockExclusive)
		require.NoError(t, err)
		assert.Equal(t, account.AccountID, locked.AccountID)

		_, err = uow.Accounts().LockAccountByCustomerID(ctx, "intruder", customer.CustomerID, portsrepo.LockShare)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestListMovementsByAccount_OrderAndCursor(t *testing.T) {
	store := NewStore()
	_, account := store.AddCustomer(owner, "Bea")
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	created := day.Add(12 * time.Hour)

	err := store.WithinTx(context.Background(), func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		for i, id := range []string{"p-a", "p-b"} {
			require.NoError(t, uow.Purchases().SavePurchase(ctx, domain.Purchase{
				PurchaseID:   id,
				AccountID:    account.AccountID,
				Total:        decimal.NewFromInt(int64(10 + i)),
				PurchaseDate: day,
				AuditFields:  domain.NewAuditFields(created, owner),
			}))
		}
		return uow.Payments().SavePayment(ctx, domain.Payment{
			PaymentID:   "pay-1",
			AccountID:   account.AccountID,
			Value:       decimal.NewFromInt(5),
			PaymentDate: day.AddDate(0, 0, 1),
			AuditFields: domain.NewAuditFields(created, owner),
		})
	})
	require.NoError(t, err)

	err = store.WithinTx(context.Background(), func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		all, err := uow.Movements().ListMovementsByAccount(ctx, account.AccountID, 0, nil)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{"pay-1", "p-b", "p-a"}, []string{all[0].SourceID, all[1].SourceID, all[2].SourceID})
		assert.Equal(t, domain.MovementPayment, all[0].MovementType)

		cursor := pagination.Cursor{OccurredAt: all[1].OccurredAt, CreatedAt: all[1].CreatedAt, SourceID: all[1].SourceID}
		rest, err := uow.Movements().ListMovementsByAccount(ctx, account.AccountID, 5, &cursor)
		require.NoError(t, err)
		require.Len(t, rest, 1)
		assert.Equal(t, "p-a", rest[0].SourceID)
		return nil
	})
	require.NoError(t, err)
}
