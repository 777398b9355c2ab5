package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/fiado_backend/internal/apperrors"
	"github.com/SscSPs/fiado_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fiado_backend/internal/core/ports/repositories"
	"github.com/SscSPs/fiado_backend/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock type for the ProductRepository interface
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindProductByID(ctx context.Context, ownerID, productID string) (*domain.Product, error) {
	args := m.Called(ctx, ownerID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, ownerID, productID string, qty int) (bool, error) {
	args := m.Called(ctx, ownerID, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) IncrementStock(ctx context.Context, ownerID, productID string, qty int) (bool, error) {
	args := m.Called(ctx, ownerID, productID, qty)
	return args.Bool(0), args.Error(1)
}

// productsOnlyUnitOfWork serves the product repository only; the stock ledger touches nothing else.
type productsOnlyUnitOfWork struct {
	products *MockProductRepository
}

func (u productsOnlyUnitOfWork) Products() portsrepo.ProductRepository   { return u.products }
func (u productsOnlyUnitOfWork) Accounts() portsrepo.AccountRepository   { panic("not used") }
func (u productsOnlyUnitOfWork) Purchases() portsrepo.PurchaseRepository { panic("not used") }
func (u productsOnlyUnitOfWork) Payments() portsrepo.PaymentRepository   { panic("not used") }
func (u productsOnlyUnitOfWork) Movements() portsrepo.MovementRepository { panic("not used") }

func TestStockLedger_Reserve(t *testing.T) {
	ctx := context.Background()

	t.Run("applied", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("DecrementStock", ctx, "o1", "p1", 2).Return(true, nil).Once()

		err := services.NewStockLedgerService().Reserve(ctx, productsOnlyUnitOfWork{repo}, "o1", "p1", 2)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("insufficient stock names the product", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("DecrementStock", ctx, "o1", "p1", 5).Return(false, nil).Once()
		repo.On("FindProductByID", ctx, "o1", "p1").Return(&domain.Product{ProductID: "p1", Name: "Flour", StockOnHand: 3}, nil).Once()

		err := services.NewStockLedgerService().Reserve(ctx, productsOnlyUnitOfWork{repo}, "o1", "p1", 5)
		var stockErr *apperrors.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, "Flour", stockErr.ProductName)
		assert.Equal(t, 5, stockErr.Requested)
		assert.Equal(t, 3, stockErr.Available)
		assert.Contains(t, err.Error(), "Flour")
		repo.AssertExpectations(t)
	})

	t.Run("unknown product", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("DecrementStock", ctx, "o1", "p9", 1).Return(false, nil).Once()
		repo.On("FindProductByID", ctx, "o1", "p9").Return(nil, apperrors.ErrNotFound).Once()

		err := services.NewStockLedgerService().Reserve(ctx, productsOnlyUnitOfWork{repo}, "o1", "p9", 1)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.NotErrorIs(t, err, apperrors.ErrInsufficientStock)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		repo := new(MockProductRepository)
		err := services.NewStockLedgerService().Reserve(ctx, productsOnlyUnitOfWork{repo}, "o1", "p1", 0)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		repo.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("quantity past integer range", func(t *testing.T) {
		repo := new(MockProductRepository)
		err := services.NewStockLedgerService().Reserve(ctx, productsOnlyUnitOfWork{repo}, "o1", "p1", domain.MaxItemQuantity+1)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		repo.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestStockLedger_ReserveItemsRejectsOverflowingSums(t *testing.T) {
	repo := new(MockProductRepository)
	items := []domain.PurchaseItem{
		{ProductID: "p1", Quantity: domain.MaxItemQuantity},
		{ProductID: "p1", Quantity: 2},
	}

	err := services.NewStockLedgerService().ReserveItems(context.Background(), productsOnlyUnitOfWork{repo}, "o1", items)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "total quantity of product p1")
	repo.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStockLedger_ReleaseOfMissingRowIsFatal(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	repo.On("IncrementStock", ctx, "o1", "gone", 2).Return(false, nil).Once()

	err := services.NewStockLedgerService().Release(ctx, productsOnlyUnitOfWork{repo}, "o1", "gone", 2)
	assert.ErrorIs(t, err, apperrors.ErrFatal)
}

func TestStockLedger_ReserveItemsAggregatesInProductOrder(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)

	var order []string
	record := func(args mock.Arguments) { order = append(order, args.String(2)) }
	repo.On("DecrementStock", ctx, "o1", "a", 3).Return(true, nil).Run(record).Once()
	repo.On("DecrementStock", ctx, "o1", "b", 1).Return(true, nil).Run(record).Once()
	repo.On("DecrementStock", ctx, "o1", "c", 2).Return(true, nil).Run(record).Once()

	items := []domain.PurchaseItem{
		{ProductID: "c", Quantity: 2},
		{ProductID: "a", Quantity: 1},
		{ProductID: "b", Quantity: 1},
		{ProductID: "a", Quantity: 2},
	}
	err := services.NewStockLedgerService().ReserveItems(ctx, productsOnlyUnitOfWork{repo}, "o1", items)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	repo.AssertExpectations(t)
}
