package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/SscSPs/fiado_backend/internal/apperrors"
	"github.com/SscSPs/fiado_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fiado_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fiado_backend/internal/core/ports/services"
	"github.com/SscSPs/fiado_backend/internal/dto"
	"github.com/shopspring/decimal"
)

const (
	defaultTxTimeout    = 5 * time.Second
	defaultMaxRetries   = 3
	defaultRetryBackoff = 50 * time.Millisecond
)

// ledgerGateway is the façade in front of the ledger components. It resolves
// customers of the calling owner, runs every call in one transaction, retries
// transient failures and publishes events once a write has committed.
type ledgerGateway struct {
	BaseService
	txManager portsrepo.TransactionManager
	purchases portssvc.PurchaseComposerSvc
	payments  portssvc.PaymentRecorderSvc
	balances  portssvc.BalanceViewSvc
	movements portssvc.MovementLogSvc
	publisher portssvc.EventPublisher
	exporter  portssvc.MovementExporter

	txTimeout    time.Duration
	maxRetries   int
	retryBackoff time.Duration
	now          func() time.Time
}

// LedgerGatewayOption is a function that configures a ledgerGateway
type LedgerGatewayOption func(*ledgerGateway)

// WithEventPublisher sets where balance and totals events go. Without one no events are computed.
func WithEventPublisher(publisher portssvc.EventPublisher) LedgerGatewayOption {
	return func(g *ledgerGateway) {
		g.publisher = publisher
	}
}

// WithMovementExporter enables ExportMovements.
func WithMovementExporter(exporter portssvc.MovementExporter) LedgerGatewayOption {
	return func(g *ledgerGateway) {
		g.exporter = exporter
	}
}

// WithTxTimeout bounds each transaction attempt.
func WithTxTimeout(timeout time.Duration) LedgerGatewayOption {
	return func(g *ledgerGateway) {
		g.txTimeout = timeout
	}
}

// WithRetryPolicy sets how many times a transient failure is retried and the base
// delay of the linear backoff between attempts.
func WithRetryPolicy(maxRetries int, backoff time.Duration) LedgerGatewayOption {
	return func(g *ledgerGateway) {
		g.maxRetries = maxRetries
		g.retryBackoff = backoff
	}
}

// WithGatewayClock overrides the clock used to stamp events.
func WithGatewayClock(now func() time.Time) LedgerGatewayOption {
	return func(g *ledgerGateway) {
		g.now = now
	}
}

// NewLedgerGateway creates the façade used by the transport layer.
func NewLedgerGateway(
	txManager portsrepo.TransactionManager,
	purchases portssvc.PurchaseComposerSvc,
	payments portssvc.PaymentRecorderSvc,
	balances portssvc.BalanceViewSvc,
	movements portssvc.MovementLogSvc,
	options ...LedgerGatewayOption,
) portssvc.LedgerGatewaySvc {
	g := &ledgerGateway{
		txManager:    txManager,
		purchases:    purchases,
		payments:     payments,
		balances:     balances,
		movements:    movements,
		txTimeout:    defaultTxTimeout,
		maxRetries:   defaultMaxRetries,
		retryBackoff: defaultRetryBackoff,
		now:          time.Now,
	}
	for _, option := range options {
		option(g)
	}
	return g
}

var _ portssvc.LedgerGatewaySvc = (*ledgerGateway)(nil)

// --- Purchases ---

func (g *ledgerGateway) CreateItemizedPurchase(ctx context.Context, ownerID, customerID string, req dto.ItemizedPurchaseRequest) (*domain.Purchase, error) {
	var purchase *domain.Purchase
	err := g.mutate(ctx, "CreateItemizedPurchase", ownerID, func(ctx context.Context, uow portsrepo.UnitOfWork) (*domain.Account, error) {
		account, err := uow.Accounts().LockAccountByCustomerID(ctx, ownerID, customerID, portsrepo.LockShare)
		if err != nil {
			return nil, err
		}
		purchase, err = g.purchases.CreateItemized(ctx, uow, *account, derefTime(req.PurchaseDate), req.ToDomainItems(), ownerID)
		return account, err
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

func (g *ledgerGateway) CreateSimplePurchase(ctx context.Context, ownerID, customerID string, req dto.SimplePurchaseRequest) (*domain.Purchase, error) {
	var purchase *domain.Purchase
	err := g.mutate(ctx, "CreateSimplePurchase", ownerID, func(ctx context.Context, uow portsrepo.UnitOfWork) (*domain.Account, error) {
		account, err := uow.Accounts().LockAccountByCustomerID(ctx, ownerID, customerID, portsrepo.LockShare)
		if err != nil {
			return nil, err
		}
		purchase, err = g.purchases.CreateSimple(ctx, uow, *account, req.Total, req.PurchaseDate, ownerID)
		return account, err
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

func (g *ledgerGateway) UpdateItemizedPurchase(ctx context.Context, ownerID, purchaseID string, req dto.ItemizedPurchaseRequest) (*domain.Purchase, error) {
	var purchase *domain.Purchase
	err := g.mutate(ctx, "UpdateItemizedPurchase", ownerID, func(ctx context.Context, uow portsrepo.UnitOfWork) (*domain.Account, error) {
		var err error
		purchase, err = g.purchases.UpdateItemized(ctx, uow, ownerID, purchaseID, derefTime(req.PurchaseDate), req.ToDomainItems(), ownerID)
		if err != nil {
			return nil, err
		}
		return uow.Accounts().FindAccountByID(ctx, ownerID, purchase.AccountID)
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

func (g *ledgerGateway) UpdateSimplePurchase(ctx context.Context, ownerID, purchaseID string, req dto.SimplePurchaseRequest) (*domain.Purchase, error) {
	var purchase *domain.Purchase
	err := g.mutate(ctx, "UpdateSimplePurchase", ownerID, func(ctx context.Context, uow portsrepo.UnitOfWork) (*domain.Account, error) {
		var err error
		purchase, err = g.purchases.UpdateSimple(ctx, uow, ownerID, purchaseID, req.Total, req.PurchaseDate, ownerID)
		if err != nil {
			return nil, err
		}
		return uow.Accounts().FindAccountByID(ctx, ownerID, purchase.AccountID)
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

func (g *ledgerGateway) DeletePurchase(ctx context.Context, ownerID, purchaseID string) error {
	return g.mutate(ctx, "DeletePurchase", ownerID, func(ctx context.Context, uow portsrepo.UnitOfWork) (*domain.Account, error) {
		purchase, err := g.purchases.Delete(ctx, uow, ownerID, purchaseID)
		if err != nil {
			return nil, err
		}
		return uow.Accounts().FindAccountByID(ctx, ownerID, purchase.AccountID)
	})
}

func (g *ledgerGateway) GetPurchase(ctx context.Context, ownerID, purchaseID string) (*domain.Purchase, error) {
	var purchase *domain.Purchase
	err := g.read(ctx, "GetPurchase", ownerID, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		var err error
		purchase, err = g.purchases.GetPurchase(ctx, uow, ownerID, purchaseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

// --- Payments ---

func (g *ledgerGateway) CreatePayment(ctx context.Context, ownerID, customerID string, req dto.PaymentRequest) (*domain.Payment, error) {
	var payment *domain.Payment
	err := g.mutate(ctx, "CreatePayment", ownerID, func(ctx context.Context, uow portsrepo.UnitOfWork) (*domain.Account, error) {
		account, err := uow.Accounts().LockAccountByCustomerID(ctx, ownerID, customerID, portsrepo.LockShare)
		if err != nil {
			return nil, err
		}
		payment, err = g.payments.Create(ctx, uow, *account, req.Value, req.PaymentDate, ownerID)
		return account, err
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (g *ledgerGateway) UpdatePayment(ctx context.Context, ownerID, paymentID string, req dto.PaymentRequest) (*domain.Payment, error) {
	var payment *domain.Payment
	err := g.mutate(ctx, "UpdatePayment", ownerID, func(ctx context.Context, uow portsrepo.UnitOfWork) (*domain.Account, error) {
		var err error
		payment, err = g.payments.Update(ctx, uow, ownerID, paymentID, req.Value, req.PaymentDate, ownerID)
		if err != nil {
			return nil, err
		}
		return uow.Accounts().FindAccountByID(ctx, ownerID, payment.AccountID)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (g *ledgerGateway) DeletePayment(ctx context.Context, ownerID, paymentID string) error {
	return g.mutate(ctx, "DeletePayment", ownerID, func(ctx context.Context, uow portsrepo.UnitOfWork) (*domain.Account, error) {
		payment, err := g.payments.Delete(ctx, uow, ownerID, paymentID)
		if err != nil {
			return nil, err
		}
		return uow.Accounts().FindAccountByID(ctx, ownerID, payment.AccountID)
	})
}

// --- Accounts ---

func (g *ledgerGateway) GetBalance(ctx context.Context, ownerID, customerID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := g.read(ctx, "GetBalance", ownerID, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		account, err := uow.Accounts().FindAccountByCustomerID(ctx, ownerID, customerID)
		if err != nil {
			return err
		}
		balance, err = g.balances.Balance(ctx, uow, account.AccountID)
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

func (g *ledgerGateway) GetTotalReceivable(ctx context.Context, ownerID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := g.read(ctx, "GetTotalReceivable", ownerID, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		var err error
		total, err = g.balances.TotalReceivable(ctx, uow, ownerID)
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (g *ledgerGateway) ListMovements(ctx context.Context, ownerID, customerID string, query domain.MovementQuery) (*domain.MovementPage, error) {
	var page *domain.MovementPage
	err := g.read(ctx, "ListMovements", ownerID, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		account, err := uow.Accounts().FindAccountByCustomerID(ctx, ownerID, customerID)
		if err != nil {
			return err
		}
		page, err = g.movements.List(ctx, uow, account.AccountID, query)
		return err
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (g *ledgerGateway) ExportMovements(ctx context.Context, ownerID, customerID string, w io.Writer) (string, string, error) {
	if g.exporter == nil {
		return "", "", fmt.Errorf("%w: movement export is not configured", apperrors.ErrInternal)
	}

	var account *domain.Account
	var page *domain.MovementPage
	err := g.read(ctx, "ExportMovements", ownerID, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		var err error
		account, err = uow.Accounts().FindAccountByCustomerID(ctx, ownerID, customerID)
		if err != nil {
			return err
		}
		page, err = g.movements.List(ctx, uow, account.AccountID, domain.MovementQuery{IncludeItems: true})
		return err
	})
	if err != nil {
		return "", "", err
	}

	if err := g.exporter.Export(ctx, w, *account, page.Movements); err != nil {
		g.LogError(ctx, err, "Failed to export movements", slog.String("account_id", account.AccountID))
		return "", "", err
	}
	return g.exporter.ContentType(), g.exporter.FileExtension(), nil
}

func (g *ledgerGateway) DeleteCustomer(ctx context.Context, ownerID, customerID string) error {
	return g.mutate(ctx, "DeleteCustomer", ownerID, func(ctx context.Context, uow portsrepo.UnitOfWork) (*domain.Account, error) {
		return nil, g.deleteCustomer(ctx, uow, ownerID, customerID)
	})
}

func (g *ledgerGateway) DeleteCustomers(ctx context.Context, ownerID string, customerIDs []string) error {
	if len(customerIDs) == 0 {
		return fmt.Errorf("%w: customerIDs must not be empty", apperrors.ErrValidation)
	}
	seen := make(map[string]struct{}, len(customerIDs))
	unique := make([]string, 0, len(customerIDs))
	for _, id := range customerIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	return g.mutate(ctx, "DeleteCustomers", ownerID, func(ctx context.Context, uow portsrepo.UnitOfWork) (*domain.Account, error) {
		for _, customerID := range unique {
			if err := g.deleteCustomer(ctx, uow, ownerID, customerID); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
}

// deleteCustomer removes every purchase through the composer so that stock is
// restored, then payments, the account and the customer. The exclusive account
// lock waits for in-flight purchases and payments, so their rows are listed here.
func (g *ledgerGateway) deleteCustomer(ctx context.Context, uow portsrepo.UnitOfWork, ownerID, customerID string) error {
	account, err := uow.Accounts().LockAccountByCustomerID(ctx, ownerID, customerID, portsrepo.LockExclusive)
	if err != nil {
		return err
	}
	purchaseIDs, err := uow.Purchases().ListPurchaseIDsByAccount(ctx, account.AccountID)
	if err != nil {
		return err
	}
	for _, purchaseID := range purchaseIDs {
		if _, err := g.purchases.Delete(ctx, uow, ownerID, purchaseID); err != nil {
			return err
		}
	}
	removedPayments, err := uow.Payments().DeletePaymentsByAccount(ctx, account.AccountID)
	if err != nil {
		return err
	}
	if err := uow.Accounts().DeleteCustomer(ctx, ownerID, customerID); err != nil {
		return err
	}

	g.LogInfo(ctx, "Customer deleted",
		slog.String("customer_id", customerID),
		slog.Int("purchases", len(purchaseIDs)),
		slog.Int64("payments", removedPayments))
	return nil
}

// --- Transaction scoping ---

// ledgerNotice holds the values published after a successful write.
type ledgerNotice struct {
	ownerID string
	account *domain.Account // nil when the write removed the account
	balance decimal.Decimal
	total   decimal.Decimal
}

// mutate runs fn as one write. fn returns the account whose balance changed, or nil.
func (g *ledgerGateway) mutate(ctx context.Context, op, ownerID string, fn func(ctx context.Context, uow portsrepo.UnitOfWork) (*domain.Account, error)) error {
	if ownerID == "" {
		return fmt.Errorf("%w: owner is required", apperrors.ErrValidation)
	}

	var notice *ledgerNotice
	err := g.runInTx(ctx, op, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		notice = nil
		account, err := fn(ctx, uow)
		if err != nil {
			return err
		}
		if g.publisher == nil {
			return nil
		}
		notice, err = g.collectNotice(ctx, uow, ownerID, account)
		return err
	})
	if err != nil {
		return err
	}

	g.publish(ctx, notice)
	return nil
}

func (g *ledgerGateway) read(ctx context.Context, op, ownerID string, fn portsrepo.TxFunc) error {
	if ownerID == "" {
		return fmt.Errorf("%w: owner is required", apperrors.ErrValidation)
	}
	return g.runInTx(ctx, op, fn)
}

// runInTx runs fn in a fresh transaction, retrying transient failures with linear backoff.
func (g *ledgerGateway) runInTx(ctx context.Context, op string, fn portsrepo.TxFunc) error {
	attempts := g.maxRetries + 1
	for attempt := 1; ; attempt++ {
		err := g.attempt(ctx, fn)
		if err == nil {
			return nil
		}

		if errors.Is(err, apperrors.ErrFatal) {
			g.LogError(ctx, err, "Ledger invariant violated, transaction rolled back", slog.String("operation", op))
			return err
		}
		if errors.Is(err, apperrors.ErrInternal) {
			g.LogError(ctx, err, "Transaction outcome unknown, not retrying", slog.String("operation", op))
			return err
		}
		if !apperrors.IsRetryable(err) || attempt >= attempts || ctx.Err() != nil {
			if apperrors.IsRetryable(err) {
				g.LogError(ctx, err, "Transient failure persisted, giving up", slog.String("operation", op), slog.Int("attempts", attempt))
			}
			return err
		}

		delay := g.retryBackoff * time.Duration(attempt)
		g.LogInfo(ctx, "Retrying transient failure",
			slog.String("operation", op),
			slog.Int("attempt", attempt),
			slog.Duration("backoff", delay),
			slog.String("error", err.Error()))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w: %s cancelled while waiting to retry: %v", apperrors.ErrTransient, op, ctx.Err())
		case <-timer.C:
		}
	}
}

func (g *ledgerGateway) attempt(ctx context.Context, fn portsrepo.TxFunc) error {
	if g.txTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.txTimeout)
		defer cancel()
	}
	return g.txManager.WithinTx(ctx, fn)
}

func (g *ledgerGateway) collectNotice(ctx context.Context, uow portsrepo.UnitOfWork, ownerID string, account *domain.Account) (*ledgerNotice, error) {
	notice := &ledgerNotice{ownerID: ownerID, account: account}
	var err error
	if account != nil {
		if notice.balance, err = g.balances.Balance(ctx, uow, account.AccountID); err != nil {
			return nil, err
		}
	}
	if notice.total, err = g.balances.TotalReceivable(ctx, uow, ownerID); err != nil {
		return nil, err
	}
	return notice, nil
}

// publish never fails the caller: the write already committed.
func (g *ledgerGateway) publish(ctx context.Context, notice *ledgerNotice) {
	if g.publisher == nil || notice == nil {
		return
	}
	at := g.now()

	if notice.account != nil {
		event := domain.BalanceChangedEvent{
			OwnerID:    notice.ownerID,
			AccountID:  notice.account.AccountID,
			CustomerID: notice.account.CustomerID,
			NewBalance: notice.balance,
			OccurredAt: at,
		}
		if err := g.publisher.PublishBalanceChanged(ctx, event); err != nil {
			g.LogError(ctx, err, "Failed to publish balance event", slog.String("account_id", event.AccountID))
		}
	}

	event := domain.TotalsChangedEvent{OwnerID: notice.ownerID, NewTotal: notice.total, OccurredAt: at}
	if err := g.publisher.PublishTotalsChanged(ctx, event); err != nil {
		g.LogError(ctx, err, "Failed to publish totals event", slog.String("owner_id", notice.ownerID))
	}
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
