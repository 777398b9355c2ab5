package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/fiado_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/fiado_backend/internal/core/ports/repositories"
	"github.com/SscSPs/fiado_backend/internal/models"
	"github.com/SscSPs/fiado_backend/internal/utils/mapping"
	"github.com/SscSPs/fiado_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

type pgxMovementRepository struct {
	db pgx.Tx
}

var _ portsrepo.MovementRepository = (*pgxMovementRepository)(nil)

// ListMovementsByAccount reads the account_movements view. source_id is compared
// bytewise so the order matches the cursor regardless of the database locale.
func (r *pgxMovementRepository) ListMovementsByAccount(ctx context.Context, accountID string, limit int, after *pagination.Cursor) ([]domain.Movement, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT movement_type, source_id, account_id, amount, occurred_at, created_at
		FROM account_movements
		WHERE account_id = $1`)
	args := []any{accountID}

	if after != nil {
		args = append(args, after.OccurredAt, after.CreatedAt, after.SourceID)
		sb.WriteString(fmt.Sprintf(` AND (occurred_at, created_at, source_id COLLATE "C") < ($%d, $%d, $%d COLLATE "C")`,
			len(args)-2, len(args)-1, len(args)))
	}
	sb.WriteString(` ORDER BY occurred_at DESC, created_at DESC, source_id COLLATE "C" DESC`)
	if limit > 0 {
		args = append(args, limit)
		sb.WriteString(fmt.Sprintf(` LIMIT $%d`, len(args)))
	}

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements of account %s: %w", accountID, err)
	}
	defer rows.Close()

	var ms []models.Movement
	for rows.Next() {
		var m models.Movement
		if err := rows.Scan(&m.MovementType, &m.SourceID, &m.AccountID, &m.Amount, &m.OccurredAt, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan movement: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movement rows: %w", err)
	}
	return mapping.ToDomainMovementSlice(ms), nil
}

func (r *pgxMovementRepository) FindItemsByPurchaseIDs(ctx context.Context, purchaseIDs []string) (map[string][]domain.PurchaseItem, error) {
	result := make(map[string][]domain.PurchaseItem, len(purchaseIDs))
	if len(purchaseIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT i.purchase_item_id, i.purchase_id, i.product_id, pr.name, i.quantity, i.unit_price
		FROM purchase_items i
		JOIN products pr ON pr.product_id = i.product_id
		WHERE i.purchase_id = ANY($1)
		ORDER BY i.purchase_id, i.line_no;
	`
	rows, err := r.db.Query(ctx, query, purchaseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.PurchaseItem
		if err := rows.Scan(&m.PurchaseItemID, &m.PurchaseID, &m.ProductID, &m.ProductName, &m.Quantity, &m.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan purchase item: %w", err)
		}
		result[m.PurchaseID] = append(result[m.PurchaseID], mapping.ToDomainPurchaseItem(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchase item rows: %w", err)
	}
	return result, nil
}
