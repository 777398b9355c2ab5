//go:build integration

package pgsql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/fiado_backend/internal/apperrors"
	"github.com/SscSPs/fiado_backend/internal/core/domain"
	portssvc "github.com/SscSPs/fiado_backend/internal/core/ports/services"
	"github.com/SscSPs/fiado_backend/internal/core/services"
	"github.com/SscSPs/fiado_backend/internal/dto"
	"github.com/SscSPs/fiado_backend/internal/repositories/database/pgsql"
	migrate "github.com/golang-migrate/migrate/v4"
	mpg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	ownerID        = "merchant-1"
	migrationsPath = "file://../../../../migrations"
)

type LedgerIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *tcpostgres.PostgresContainer
	pool      *pgxpool.Pool
	ledger    portssvc.LedgerGatewaySvc
}

func TestLedgerIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(LedgerIntegrationSuite))
}

func (s *LedgerIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := tcpostgres.Run(s.ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("fiado_test"),
		tcpostgres.WithUsername("fiado"),
		tcpostgres.WithPassword("fiado"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err, "start postgres container")
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)
	s.Require().NoError(runMigrations(connStr))

	s.pool, err = pgxpool.New(s.ctx, connStr)
	s.Require().NoError(err)

	stock := services.NewStockLedgerService()
	s.ledger = services.NewLedgerGateway(
		pgsql.NewTransactionManager(s.pool),
		services.NewPurchaseService(stock),
		services.NewPaymentService(),
		services.NewBalanceService(),
		services.NewMovementService(),
		services.WithRetryPolicy(5, 10*time.Millisecond),
	)
}

func (s *LedgerIntegrationSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *LedgerIntegrationSuite) SetupTest() {
	_, err := s.pool.Exec(s.ctx, `TRUNCATE payments, purchase_items, purchases, products, accounts, customers;`)
	s.Require().NoError(err)
}

func runMigrations(connStr string) error {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return err
	}
	defer db.Close()

	driver, err := mpg.WithInstance(db, &mpg.Config{})
	if err != nil {
		return fmt.Errorf("migrate driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance(migrationsPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

func (s *LedgerIntegrationSuite) addCustomer(name string) string {
	customerID, accountID := uuid.NewString(), uuid.NewString()
	_, err := s.pool.Exec(s.ctx, `INSERT INTO customers (customer_id, owner_id, name, created_by, last_updated_by) VALUES ($1, $2, $3, $2, $2);`,
		customerID, ownerID, name)
	s.Require().NoError(err)
	_, err = s.pool.Exec(s.ctx, `INSERT INTO accounts (account_id, customer_id, owner_id, created_by, last_updated_by) VALUES ($1, $2, $3, $3, $3);`,
		accountID, customerID, ownerID)
	s.Require().NoError(err)
	return customerID
}

func (s *LedgerIntegrationSuite) addProduct(name, price string, stock int) string {
	productID := uuid.NewString()
	_, err := s.pool.Exec(s.ctx, `INSERT INTO products (product_id, owner_id, name, unit_price, stock_on_hand, created_by, last_updated_by) VALUES ($1, $2, $3, $4, $5, $2, $2);`,
		productID, ownerID, name, decimal.RequireFromString(price), stock)
	s.Require().NoError(err)
	return productID
}

func (s *LedgerIntegrationSuite) stockOf(productID string) int {
	var stock int
	s.Require().NoError(s.pool.QueryRow(s.ctx, `SELECT stock_on_hand FROM products WHERE product_id = $1;`, productID).Scan(&stock))
	return stock
}

func (s *LedgerIntegrationSuite) balanceOf(customerID string) decimal.Decimal {
	balance, err := s.ledger.GetBalance(s.ctx, ownerID, customerID)
	s.Require().NoError(err)
	return balance
}

func itemized(date time.Time, lines ...dto.PurchaseItemRequest) dto.ItemizedPurchaseRequest {
	return dto.ItemizedPurchaseRequest{PurchaseDate: &date, Items: lines}
}

func line(productID string, qty int, price string) dto.PurchaseItemRequest {
	return dto.PurchaseItemRequest{ProductID: productID, Quantity: qty, UnitPrice: decimal.RequireFromString(price)}
}

func (s *LedgerIntegrationSuite) TestPurchaseLifecycle() {
	customerID := s.addCustomer("Carla")
	coffee := s.addProduct("Coffee", "5.00", 10)
	day := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	purchase, err := s.ledger.CreateItemizedPurchase(s.ctx, ownerID, customerID, itemized(day, line(coffee, 3, "5.00")))
	s.Require().NoError(err)
	s.Equal(7, s.stockOf(coffee))
	s.True(decimal.RequireFromString("15").Equal(s.balanceOf(customerID)))

	loaded, err := s.ledger.GetPurchase(s.ctx, ownerID, purchase.PurchaseID)
	s.Require().NoError(err)
	s.Require().Len(loaded.Items, 1)
	s.Equal("Coffee", loaded.Items[0].ProductName)

	_, err = s.ledger.UpdateItemizedPurchase(s.ctx, ownerID, purchase.PurchaseID, itemized(day, line(coffee, 2, "5.00")))
	s.Require().NoError(err)
	s.Equal(8, s.stockOf(coffee))

	_, err = s.ledger.CreatePayment(s.ctx, ownerID, customerID, dto.PaymentRequest{Value: decimal.RequireFromString("4")})
	s.Require().NoError(err)
	s.True(decimal.RequireFromString("6").Equal(s.balanceOf(customerID)))

	s.Require().NoError(s.ledger.DeletePurchase(s.ctx, ownerID, purchase.PurchaseID))
	s.Equal(10, s.stockOf(coffee))
	s.True(decimal.RequireFromString("-4").Equal(s.balanceOf(customerID)))
}

func (s *LedgerIntegrationSuite) TestInsufficientStockRollsBackEverything() {
	customerID := s.addCustomer("Dani")
	coffee := s.addProduct("Coffee", "5.00", 5)
	bread := s.addProduct("Bread", "1.00", 1)

	_, err := s.ledger.CreateItemizedPurchase(s.ctx, ownerID, customerID, itemized(time.Now(), line(coffee, 2, "5.00"), line(bread, 2, "1.00")))
	var stockErr *apperrors.InsufficientStockError
	s.Require().ErrorAs(err, &stockErr)
	s.Equal(bread, stockErr.ProductID)
	s.Equal(1, stockErr.Available)

	s.Equal(5, s.stockOf(coffee))
	s.Equal(1, s.stockOf(bread))
	s.True(s.balanceOf(customerID).IsZero())
}

func (s *LedgerIntegrationSuite) TestConcurrentPurchasesNeverOversell() {
	customerID := s.addCustomer("Eli")
	coffee := s.addProduct("Coffee", "2.00", 10)

	const workers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ledger.CreateItemizedPurchase(s.ctx, ownerID, customerID, itemized(time.Now(), line(coffee, 1, "2.00")))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, apperrors.ErrInsufficientStock):
				rejected++
			default:
				s.Failf("unexpected error", "%v", err)
			}
		}()
	}
	wg.Wait()

	s.Equal(10, succeeded)
	s.Equal(10, rejected)
	s.Equal(0, s.stockOf(coffee))
	s.True(decimal.RequireFromString("20").Equal(s.balanceOf(customerID)))
}

func (s *LedgerIntegrationSuite) TestMovementPagesAreStable() {
	customerID := s.addCustomer("Fran")
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		_, err := s.ledger.CreateSimplePurchase(s.ctx, ownerID, customerID, dto.SimplePurchaseRequest{
			Total:        decimal.NewFromInt(int64(i + 1)),
			PurchaseDate: &day,
		})
		s.Require().NoError(err)
		_, err = s.ledger.CreatePayment(s.ctx, ownerID, customerID, dto.PaymentRequest{Value: decimal.NewFromInt(1), PaymentDate: &day})
		s.Require().NoError(err)
	}

	all, err := s.ledger.ListMovements(s.ctx, ownerID, customerID, domain.MovementQuery{})
	s.Require().NoError(err)
	s.Require().Len(all.Movements, 10)
	s.Nil(all.NextToken)

	var paged []domain.Movement
	query := domain.MovementQuery{Limit: 3}
	for {
		page, err := s.ledger.ListMovements(s.ctx, ownerID, customerID, query)
		s.Require().NoError(err)
		paged = append(paged, page.Movements...)
		if page.NextToken == nil {
			break
		}
		query.NextToken = *page.NextToken
	}
	s.Require().Len(paged, len(all.Movements))
	for i := range all.Movements {
		s.Equal(all.Movements[i].SourceID, paged[i].SourceID, "position %d", i)
	}
}

func (s *LedgerIntegrationSuite) TestDeleteCustomerCascades() {
	customerID := s.addCustomer("Gabi")
	coffee := s.addProduct("Coffee", "5.00", 4)

	_, err := s.ledger.CreateItemizedPurchase(s.ctx, ownerID, customerID, itemized(time.Now(), line(coffee, 4, "5.00")))
	s.Require().NoError(err)
	_, err = s.ledger.CreatePayment(s.ctx, ownerID, customerID, dto.PaymentRequest{Value: decimal.NewFromInt(3)})
	s.Require().NoError(err)

	s.Require().NoError(s.ledger.DeleteCustomer(s.ctx, ownerID, customerID))
	s.Equal(4, s.stockOf(coffee))

	_, err = s.ledger.GetBalance(s.ctx, ownerID, customerID)
	s.ErrorIs(err, apperrors.ErrNotFound)

	total, err := s.ledger.GetTotalReceivable(s.ctx, ownerID)
	s.Require().NoError(err)
	s.True(total.IsZero())
}

func (s *LedgerIntegrationSuite) TestForeignOwnerSeesNotFound() {
	customerID := s.addCustomer("Hugo")
	_, err := s.ledger.GetBalance(s.ctx, "someone-else", customerID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerIntegrationSuite) TestDeleteCustomerRacingWithWrites() {
	customerID := s.addCustomer("Ines")
	coffee := s.addProduct("Coffee", "1.00", 100)

	const writers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		writeErrs []error
		deleteErr error
	)
	start := make(chan struct{})
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			var err error
			if i%2 == 0 {
				_, err = s.ledger.CreateItemizedPurchase(s.ctx, ownerID, customerID, itemized(time.Now(), line(coffee, 1, "1.00")))
			} else {
				_, err = s.ledger.CreatePayment(s.ctx, ownerID, customerID, dto.PaymentRequest{Value: decimal.NewFromInt(1)})
			}
			mu.Lock()
			writeErrs = append(writeErrs, err)
			mu.Unlock()
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		deleteErr = s.ledger.DeleteCustomer(s.ctx, ownerID, customerID)
	}()
	close(start)
	wg.Wait()

	s.Require().NoError(deleteErr)
	for _, err := range writeErrs {
		if err != nil {
			s.ErrorIs(err, apperrors.ErrNotFound, "a write losing the race sees the customer gone")
		}
	}

	// Purchases committed before the delete were reversed by it; later ones never happened.
	s.Equal(100, s.stockOf(coffee))
	var leftovers int
	s.Require().NoError(s.pool.QueryRow(s.ctx, `SELECT (SELECT COUNT(*) FROM purchases) + (SELECT COUNT(*) FROM payments);`).Scan(&leftovers))
	s.Zero(leftovers)
}

func (s *LedgerIntegrationSuite) TestQuantityOutsideColumnRangeIsInvalid() {
	customerID := s.addCustomer("Joan")
	coffee := s.addProduct("Coffee", "1.00", 10)

	_, err := s.ledger.CreateItemizedPurchase(s.ctx, ownerID, customerID, itemized(time.Now(), line(coffee, domain.MaxItemQuantity+1, "1.00")))
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.ledger.CreateItemizedPurchase(s.ctx, ownerID, customerID,
		itemized(time.Now(), line(coffee, domain.MaxItemQuantity, "1.00"), line(coffee, 2, "1.00")))
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Equal(10, s.stockOf(coffee))
}

func (s *LedgerIntegrationSuite) TestCustomerContactColumnsAreOptional() {
	_, err := s.pool.Exec(s.ctx, `INSERT INTO customers (customer_id, owner_id, name, email, phone, created_by, last_updated_by) VALUES ($1, $2, $3, $4, $5, $2, $2);`,
		uuid.NewString(), ownerID, "Kai", "kai@example.com", "+34 600 000 000")
	s.Require().NoError(err)

	customerID := s.addCustomer("Lu")
	var email, phone *string
	s.Require().NoError(s.pool.QueryRow(s.ctx, `SELECT email, phone FROM customers WHERE customer_id = $1;`, customerID).Scan(&email, &phone))
	s.Nil(email)
	s.Nil(phone)
}
