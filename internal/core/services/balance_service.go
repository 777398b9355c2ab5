package services

import (
	"context"

	portsrepo "github.com/SscSPs/fiado_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fiado_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

type balanceService struct{}

// NewBalanceService creates the account balance view.
func NewBalanceService() portssvc.BalanceViewSvc {
	return balanceService{}
}

func (balanceService) Balance(ctx context.Context, uow portsrepo.UnitOfWork, accountID string) (decimal.Decimal, error) {
	return uow.Accounts().CalculateBalance(ctx, accountID)
}

func (balanceService) TotalReceivable(ctx context.Context, uow portsrepo.UnitOfWork, ownerID string) (decimal.Decimal, error) {
	return uow.Accounts().CalculateTotalReceivable(ctx, ownerID)
}
