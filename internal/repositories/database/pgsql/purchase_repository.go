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
	"github.com/shopspring/decimal"
)

type pgxPurchaseRepository struct {
	db pgx.Tx
}

var _ portsrepo.PurchaseRepository = (*pgxPurchaseRepository)(nil)

const selectPurchaseSQL = `
	SELECT p.purchase_id, p.account_id, p.total, p.purchase_date,
	       p.created_at, p.created_by, p.last_updated_at, p.last_updated_by
	FROM purchases p
	JOIN accounts a ON a.account_id = p.account_id
	WHERE p.purchase_id = $1 AND a.owner_id = $2
`

func (r *pgxPurchaseRepository) find(ctx context.Context, query, ownerID, purchaseID string) (*domain.Purchase, error) {
	var m models.Purchase
	err := r.db.QueryRow(ctx, query, purchaseID, ownerID).Scan(
		&m.PurchaseID,
		&m.AccountID,
		&m.Total,
		&m.PurchaseDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("purchase", purchaseID)
		}
		return nil, fmt.Errorf("failed to find purchase %s: %w", purchaseID, err)
	}

	items, err := r.findItems(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	purchase := mapping.ToDomainPurchase(m, items)
	return &purchase, nil
}

func (r *pgxPurchaseRepository) findItems(ctx context.Context, purchaseID string) ([]models.PurchaseItem, error) {
	query := `
		SELECT i.purchase_item_id, i.purchase_id, i.product_id, pr.name, i.quantity, i.unit_price
		FROM purchase_items i
		JOIN products pr ON pr.product_id = i.product_id
		WHERE i.purchase_id = $1
		ORDER BY i.line_no;
	`
	rows, err := r.db.Query(ctx, query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items of purchase %s: %w", purchaseID, err)
	}
	defer rows.Close()

	var items []models.PurchaseItem
	for rows.Next() {
		var m models.PurchaseItem
		if err := rows.Scan(&m.PurchaseItemID, &m.PurchaseID, &m.ProductID, &m.ProductName, &m.Quantity, &m.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan purchase item: %w", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchase item rows: %w", err)
	}
	return items, nil
}

func (r *pgxPurchaseRepository) FindPurchaseByID(ctx context.Context, ownerID, purchaseID string) (*domain.Purchase, error) {
	return r.find(ctx, selectPurchaseSQL, ownerID, purchaseID)
}

func (r *pgxPurchaseRepository) FindPurchaseByIDForUpdate(ctx context.Context, ownerID, purchaseID string) (*domain.Purchase, error) {
	return r.find(ctx, selectPurchaseSQL+` FOR UPDATE OF p`, ownerID, purchaseID)
}

func (r *pgxPurchaseRepository) ListPurchaseIDsByAccount(ctx context.Context, accountID string) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT purchase_id FROM purchases WHERE account_id = $1 ORDER BY purchase_id;`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases of account %s: %w", accountID, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to collect purchase ids: %w", err)
	}
	return ids, nil
}

func (r *pgxPurchaseRepository) CalculatePurchaseTotals(ctx context.Context, purchaseID string) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT p.total, COALESCE(SUM(i.quantity * i.unit_price), 0)
		FROM purchases p
		LEFT JOIN purchase_items i ON i.purchase_id = p.purchase_id
		WHERE p.purchase_id = $1
		GROUP BY p.purchase_id;
	`
	var stored, itemized decimal.Decimal
	if err := r.db.QueryRow(ctx, query, purchaseID).Scan(&stored, &itemized); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, decimal.Zero, notFound("purchase", purchaseID)
		}
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to calculate totals of purchase %s: %w", purchaseID, err)
	}
	return stored, itemized, nil
}

func (r *pgxPurchaseRepository) SavePurchase(ctx context.Context, purchase domain.Purchase) error {
	m := mapping.ToModelPurchase(purchase)
	query := `
		INSERT INTO purchases (purchase_id, account_id, total, purchase_date,
		                       created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.db.Exec(ctx, query,
		m.PurchaseID,
		m.AccountID,
		m.Total,
		m.PurchaseDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert purchase %s: %w", m.PurchaseID, err)
	}
	return r.insertItems(ctx, purchase.PurchaseID, purchase.Items)
}

// insertItems writes all item rows in one batch. line_no keeps the caller's order.
func (r *pgxPurchaseRepository) insertItems(ctx context.Context, purchaseID string, items []domain.PurchaseItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `
		INSERT INTO purchase_items (purchase_item_id, purchase_id, line_no, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	batch := &pgx.Batch{}
	for i, item := range items {
		m := mapping.ToModelPurchaseItem(item)
		batch.Queue(query, m.PurchaseItemID, purchaseID, i+1, m.ProductID, m.Quantity, m.UnitPrice)
	}

	br := r.db.SendBatch(ctx, batch)
	for i := range items {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("failed to insert item %d of purchase %s: %w", i, purchaseID, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close purchase item batch: %w", err)
	}
	return nil
}

func (r *pgxPurchaseRepository) UpdatePurchase(ctx context.Context, purchase domain.Purchase) error {
	query := `
		UPDATE purchases
		SET total = $2, purchase_date = $3, last_updated_at = $4, last_updated_by = $5
		WHERE purchase_id = $1;
	`
	tag, err := r.db.Exec(ctx, query,
		purchase.PurchaseID,
		purchase.Total,
		purchase.PurchaseDate,
		purchase.LastUpdatedAt,
		purchase.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update purchase %s: %w", purchase.PurchaseID, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("purchase", purchase.PurchaseID)
	}
	return nil
}

func (r *pgxPurchaseRepository) ReplacePurchaseItems(ctx context.Context, purchaseID string, items []domain.PurchaseItem) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM purchase_items WHERE purchase_id = $1;`, purchaseID); err != nil {
		return fmt.Errorf("failed to delete items of purchase %s: %w", purchaseID, err)
	}
	return r.insertItems(ctx, purchaseID, items)
}

func (r *pgxPurchaseRepository) DeletePurchase(ctx context.Context, purchaseID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM purchase_items WHERE purchase_id = $1;`, purchaseID); err != nil {
		return fmt.Errorf("failed to delete items of purchase %s: %w", purchaseID, err)
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM purchases WHERE purchase_id = $1;`, purchaseID)
	if err != nil {
		return fmt.Errorf("failed to delete purchase %s: %w", purchaseID, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("purchase", purchaseID)
	}
	return nil
}
