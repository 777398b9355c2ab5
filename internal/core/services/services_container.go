package services

import (
	portsrepo "github.com/SscSPs/fiado_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fiado_backend/internal/core/ports/services"
	"github.com/SscSPs/fiado_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher portssvc.EventPublisher, exporter portssvc.MovementExporter) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Stock = NewStockLedgerService()
	container.Purchases = NewPurchaseService(container.Stock)
	container.Payments = NewPaymentService()
	container.Balances = NewBalanceService()
	container.Movements = NewMovementService()

	options := []LedgerGatewayOption{
		WithTxTimeout(cfg.TxTimeout),
		WithRetryPolicy(cfg.MaxTxRetries, cfg.TxRetryBackoff),
	}
	if publisher != nil {
		options = append(options, WithEventPublisher(publisher))
	}
	if exporter != nil {
		options = append(options, WithMovementExporter(exporter))
	}

	container.Ledger = NewLedgerGateway(
		repos.TxManager,
		container.Purchases,
		container.Payments,
		container.Balances,
		container.Movements,
		options...,
	)

	return container
}
