// Package memory is an in-process implementation of the repository ports.
// Transactions are serialized and work on a private copy of the data that
// replaces the committed copy only when the transaction body succeeds.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/fiado_backend/internal/apperrors"
	"github.com/SscSPs/fiado_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fiado_backend/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type state struct {
	customers map[string]domain.Customer
	accounts  map[string]domain.Account
	products  map[string]domain.Product
	purchases map[string]domain.Purchase
	payments  map[string]domain.Payment
}

func newState() *state {
	return &state{
		customers: make(map[string]domain.Customer),
		accounts:  make(map[string]domain.Account),
		products:  make(map[string]domain.Product),
		purchases: make(map[string]domain.Purchase),
		payments:  make(map[string]domain.Payment),
	}
}

func (s *state) clone() *state {
	c := &state{
		customers: make(map[string]domain.Customer, len(s.customers)),
		accounts:  make(map[string]domain.Account, len(s.accounts)),
		products:  make(map[string]domain.Product, len(s.products)),
		purchases: make(map[string]domain.Purchase, len(s.purchases)),
		payments:  make(map[string]domain.Payment, len(s.payments)),
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.purchases {
		c.purchases[k] = copyPurchase(v)
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	return c
}

func copyPurchase(p domain.Purchase) domain.Purchase {
	if p.Items != nil {
		items := make([]domain.PurchaseItem, len(p.Items))
		copy(items, p.Items)
		p.Items = items
	}
	return p
}

// Store holds the committed state and serializes transactions over it.
type Store struct {
	mu          sync.Mutex
	committed   *state
	failCommits int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{committed: newState()}
}

var _ portsrepo.TransactionManager = (*Store)(nil)

// WithinTx runs fn against a private copy of the data and publishes the copy
// when fn succeeds. A panic in fn leaves the committed data untouched.
func (s *Store) WithinTx(ctx context.Context, fn portsrepo.TxFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrTransient, err)
	}

	uow := &unitOfWork{state: s.committed.clone()}
	if err := fn(ctx, uow); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: transaction aborted: %v", apperrors.ErrTransient, err)
	}
	if s.failCommits > 0 {
		s.failCommits--
		return fmt.Errorf("%w: simulated serialization failure", apperrors.ErrTransient)
	}

	s.committed = uow.state
	return nil
}

// FailNextCommits makes the next n commits fail as transient serialization errors.
func (s *Store) FailNextCommits(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCommits = n
}

// AddCustomer registers a customer and its account for ownerID.
func (s *Store) AddCustomer(ownerID, name string) (domain.Customer, domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	customer := domain.Customer{
		CustomerID:  uuid.NewString(),
		OwnerID:     ownerID,
		Name:        name,
		AuditFields: domain.NewAuditFields(now, ownerID),
	}
	account := domain.Account{
		AccountID:    uuid.NewString(),
		CustomerID:   customer.CustomerID,
		OwnerID:      ownerID,
		CustomerName: name,
		AuditFields:  domain.NewAuditFields(now, ownerID),
	}
	s.committed.customers[customer.CustomerID] = customer
	s.committed.accounts[account.AccountID] = account
	return customer, account
}

// AddProduct registers a product with stock on hand for ownerID.
func (s *Store) AddProduct(ownerID, name string, unitPrice decimal.Decimal, stock int) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := domain.Product{
		ProductID:   uuid.NewString(),
		OwnerID:     ownerID,
		Name:        name,
		UnitPrice:   unitPrice,
		StockOnHand: stock,
		AuditFields: domain.NewAuditFields(time.Now(), ownerID),
	}
	s.committed.products[product.ProductID] = product
	return product
}

// StockOnHand returns the committed quantity of a product.
func (s *Store) StockOnHand(productID string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.committed.products[productID]
	return p.StockOnHand, ok
}

// Counts returns the number of committed purchases and payments.
func (s *Store) Counts() (purchases, payments int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.committed.purchases), len(s.committed.payments)
}

type unitOfWork struct {
	state *state
}

func (u *unitOfWork) Accounts() portsrepo.AccountRepository   { return accountRepository{u.state} }
func (u *unitOfWork) Products() portsrepo.ProductRepository   { return productRepository{u.state} }
func (u *unitOfWork) Purchases() portsrepo.PurchaseRepository { return purchaseRepository{u.state} }
func (u *unitOfWork) Payments() portsrepo.PaymentRepository   { return paymentRepository{u.state} }
func (u *unitOfWork) Movements() portsrepo.MovementRepository { return movementRepository{u.state} }

// ownedAccount returns the account if it belongs to ownerID.
func (s *state) ownedAccount(ownerID, accountID string) (domain.Account, bool) {
	account, ok := s.accounts[accountID]
	if !ok || account.OwnerID != ownerID {
		return domain.Account{}, false
	}
	return account, true
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, kind, id)
}
