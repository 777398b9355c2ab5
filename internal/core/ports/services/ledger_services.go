package services

import (
	"context"
	"io"

	"github.com/SscSPs/fiado_backend/internal/core/domain"
	"github.com/SscSPs/fiado_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// PurchaseGatewaySvc exposes purchase operations to the transport layer.
type PurchaseGatewaySvc interface {
	CreateItemizedPurchase(ctx context.Context, ownerID, customerID string, req dto.ItemizedPurchaseRequest) (*domain.Purchase, error)
	CreateSimplePurchase(ctx context.Context, ownerID, customerID string, req dto.SimplePurchaseRequest) (*domain.Purchase, error)
	UpdateItemizedPurchase(ctx context.Context, ownerID, purchaseID string, req dto.ItemizedPurchaseRequest) (*domain.Purchase, error)
	UpdateSimplePurchase(ctx context.Context, ownerID, purchaseID string, req dto.SimplePurchaseRequest) (*domain.Purchase, error)
	DeletePurchase(ctx context.Context, ownerID, purchaseID string) error
	GetPurchase(ctx context.Context, ownerID, purchaseID string) (*domain.Purchase, error)
}

// PaymentGatewaySvc exposes payment operations to the transport layer.
type PaymentGatewaySvc interface {
	CreatePayment(ctx context.Context, ownerID, customerID string, req dto.PaymentRequest) (*domain.Payment, error)
	UpdatePayment(ctx context.Context, ownerID, paymentID string, req dto.PaymentRequest) (*domain.Payment, error)
	DeletePayment(ctx context.Context, ownerID, paymentID string) error
}

// AccountGatewaySvc exposes balances, the movement log and customer removal.
type AccountGatewaySvc interface {
	GetBalance(ctx context.Context, ownerID, customerID string) (decimal.Decimal, error)
	GetTotalReceivable(ctx context.Context, ownerID string) (decimal.Decimal, error)
	ListMovements(ctx context.Context, ownerID, customerID string, query domain.MovementQuery) (*domain.MovementPage, error)

	// ExportMovements writes the whole movement log of a customer to w and
	// returns the content type and file extension of what was written.
	ExportMovements(ctx context.Context, ownerID, customerID string, w io.Writer) (contentType string, extension string, err error)

	DeleteCustomer(ctx context.Context, ownerID, customerID string) error
	DeleteCustomers(ctx context.Context, ownerID string, customerIDs []string) error
}

// LedgerGatewaySvc is the single entry point of the transport layer. Every call
// is scoped to ownerID and runs in its own transaction.
type LedgerGatewaySvc interface {
	PurchaseGatewaySvc
	PaymentGatewaySvc
	AccountGatewaySvc
}
