package repositories

import (
	"context"

	"github.com/SscSPs/fiado_backend/internal/core/domain"
)

// PaymentRepository defines persistence operations for payments.
type PaymentRepository interface {
	SavePayment(ctx context.Context, payment domain.Payment) error

	// FindPaymentByIDForUpdate retrieves and locks a payment of the owner.
	FindPaymentByIDForUpdate(ctx context.Context, ownerID, paymentID string) (*domain.Payment, error)

	UpdatePayment(ctx context.Context, payment domain.Payment) error
	DeletePayment(ctx context.Context, paymentID string) error

	// DeletePaymentsByAccount removes every payment of an account and returns how many were removed.
	DeletePaymentsByAccount(ctx context.Context, accountID string) (int64, error)
}
