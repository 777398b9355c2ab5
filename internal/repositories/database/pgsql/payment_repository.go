package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/fiado_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fiado_backend/internal/core/ports/repositories"
	"github.com/SscSPs/fiado_backend/internal/models"
	"github.com/SscSPs/fiado_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

type pgxPaymentRepository struct {
	db pgx.Tx
}

var _ portsrepo.PaymentRepository = (*pgxPaymentRepository)(nil)

func (r *pgxPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)
	query := `
		INSERT INTO payments (payment_id, account_id, value, payment_date,
		                      created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.db.Exec(ctx, query,
		m.PaymentID,
		m.AccountID,
		m.Value,
		m.PaymentDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment %s: %w", m.PaymentID, err)
	}
	return nil
}

func (r *pgxPaymentRepository) FindPaymentByIDForUpdate(ctx context.Context, ownerID, paymentID string) (*domain.Payment, error) {
	query := `
		SELECT p.payment_id, p.account_id, p.value, p.payment_date,
		       p.created_at, p.created_by, p.last_updated_at, p.last_updated_by
		FROM payments p
		JOIN accounts a ON a.account_id = p.account_id
		WHERE p.payment_id = $1 AND a.owner_id = $2
		FOR UPDATE OF p;
	`
	var m models.Payment
	err := r.db.QueryRow(ctx, query, paymentID, ownerID).Scan(
		&m.PaymentID,
		&m.AccountID,
		&m.Value,
		&m.PaymentDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("payment", paymentID)
		}
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	payment := mapping.ToDomainPayment(m)
	return &payment, nil
}

func (r *pgxPaymentRepository) UpdatePayment(ctx context.Context, payment domain.Payment) error {
	query := `
		UPDATE payments
		SET value = $2, payment_date = $3, last_updated_at = $4, last_updated_by = $5
		WHERE payment_id = $1;
	`
	tag, err := r.db.Exec(ctx, query,
		payment.PaymentID,
		payment.Value,
		payment.PaymentDate,
		payment.LastUpdatedAt,
		payment.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment %s: %w", payment.PaymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("payment", payment.PaymentID)
	}
	return nil
}

func (r *pgxPaymentRepository) DeletePayment(ctx context.Context, paymentID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM payments WHERE payment_id = $1;`, paymentID)
	if err != nil {
		return fmt.Errorf("failed to delete payment %s: %w", paymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("payment", paymentID)
	}
	return nil
}

func (r *pgxPaymentRepository) DeletePaymentsByAccount(ctx context.Context, accountID string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM payments WHERE account_id = $1;`, accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete payments of account %s: %w", accountID, err)
	}
	return tag.RowsAffected(), nil
}
