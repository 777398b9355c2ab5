package services

import (
	"context"

	portsrepo "github.com/SscSPs/fiado_backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// BalanceViewSvc computes derived balances. Nothing is cached.
type BalanceViewSvc interface {
	Balance(ctx context.Context, uow portsrepo.UnitOfWork, accountID string) (decimal.Decimal, error)
	TotalReceivable(ctx context.Context, uow portsrepo.UnitOfWork, ownerID string) (decimal.Decimal, error)
}
