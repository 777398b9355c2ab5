package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/fiado_backend/internal/apperrors"
	"github.com/SscSPs/fiado_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fiado_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fiado_backend/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type paymentService struct {
	BaseService
	now func() time.Time
}

// PaymentServiceOption is a function that configures a paymentService
type PaymentServiceOption func(*paymentService)

// WithPaymentClock overrides the clock used for default dates and audit fields.
func WithPaymentClock(now func() time.Time) PaymentServiceOption {
	return func(s *paymentService) {
		s.now = now
	}
}

// NewPaymentService creates the payment recorder.
func NewPaymentService(options ...PaymentServiceOption) portssvc.PaymentRecorderSvc {
	svc := &paymentService{now: time.Now}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.PaymentRecorderSvc = (*paymentService)(nil)

func (s *paymentService) Create(ctx context.Context, uow portsrepo.UnitOfWork, account domain.Account, value decimal.Decimal, paymentDate *time.Time, userID string) (*domain.Payment, error) {
	if !value.IsPositive() {
		return nil, fmt.Errorf("%w: value must be positive", apperrors.ErrValidation)
	}

	now := s.now()
	date := now
	if paymentDate != nil && !paymentDate.IsZero() {
		date = *paymentDate
	}

	payment := domain.Payment{
		PaymentID:   uuid.NewString(),
		AccountID:   account.AccountID,
		Value:       value,
		PaymentDate: date,
		AuditFields: domain.NewAuditFields(now, userID),
	}
	if err := uow.Payments().SavePayment(ctx, payment); err != nil {
		s.LogError(ctx, err, "Failed to save payment", slog.String("account_id", account.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Payment recorded", slog.String("payment_id", payment.PaymentID), slog.String("value", value.String()))
	return &payment, nil
}

func (s *paymentService) Update(ctx context.Context, uow portsrepo.UnitOfWork, ownerID, paymentID string, value decimal.Decimal, paymentDate *time.Time, userID string) (*domain.Payment, error) {
	if !value.IsPositive() {
		return nil, fmt.Errorf("%w: value must be positive", apperrors.ErrValidation)
	}

	payment, err := uow.Payments().FindPaymentByIDForUpdate(ctx, ownerID, paymentID)
	if err != nil {
		return nil, err
	}

	payment.Value = value
	if paymentDate != nil && !paymentDate.IsZero() {
		payment.PaymentDate = *paymentDate
	}
	payment.LastUpdatedAt = s.now()
	payment.LastUpdatedBy = userID
	if err := uow.Payments().UpdatePayment(ctx, *payment); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Payment updated", slog.String("payment_id", paymentID))
	return payment, nil
}

func (s *paymentService) Delete(ctx context.Context, uow portsrepo.UnitOfWork, ownerID, paymentID string) (*domain.Payment, error) {
	payment, err := uow.Payments().FindPaymentByIDForUpdate(ctx, ownerID, paymentID)
	if err != nil {
		return nil, err
	}
	if err := uow.Payments().DeletePayment(ctx, paymentID); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Payment deleted", slog.String("payment_id", paymentID))
	return payment, nil
}
