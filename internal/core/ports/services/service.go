package services

// ServiceContainer holds instances of all the application services.
// Handlers only talk to Ledger; the components are exposed for wiring and tests.
type ServiceContainer struct {
	Ledger    LedgerGatewaySvc
	Stock     StockLedgerSvc
	Purchases PurchaseComposerSvc
	Payments  PaymentRecorderSvc
	Balances  BalanceViewSvc
	Movements MovementLogSvc
}
