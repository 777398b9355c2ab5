package services

import (
	"context"
	"time"

	"github.com/SscSPs/fiado_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fiado_backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// PaymentRecorderSvc creates, edits and deletes payments.
type PaymentRecorderSvc interface {
	// Create records a payment. A nil paymentDate defaults to now.
	Create(ctx context.Context, uow portsrepo.UnitOfWork, account domain.Account, value decimal.Decimal, paymentDate *time.Time, userID string) (*domain.Payment, error)

	// Update replaces the value and, when given, the date of a payment.
	Update(ctx context.Context, uow portsrepo.UnitOfWork, ownerID, paymentID string, value decimal.Decimal, paymentDate *time.Time, userID string) (*domain.Payment, error)

	// Delete removes a payment and returns it.
	Delete(ctx context.Context, uow portsrepo.UnitOfWork, ownerID, paymentID string) (*domain.Payment, error)
}
