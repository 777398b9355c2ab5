package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/SscSPs/fiado_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSXExporter_Export(t *testing.T) {
	day := time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)
	movements := []domain.Movement{
		{
			MovementType: domain.MovementPayment,
			SourceID:     "pay-1",
			Amount:       decimal.RequireFromString("4"),
			OccurredAt:   day.Add(time.Hour),
		},
		{
			MovementType: domain.MovementPurchase,
			SourceID:     "pur-1",
			Amount:       decimal.RequireFromString("10.5"),
			OccurredAt:   day,
			Items: []domain.PurchaseItem{
				{ProductID: "p1", ProductName: "Coffee", Quantity: 2, UnitPrice: decimal.RequireFromString("5")},
				{ProductID: "p2", Quantity: 1, UnitPrice: decimal.RequireFromString("0.5")},
			},
		},
	}

	var buf bytes.Buffer
	exporter := NewXLSXExporter()
	err := exporter.Export(context.Background(), &buf, domain.Account{CustomerName: "Carla"}, movements)
	require.NoError(t, err)
	assert.Equal(t, "xlsx", exporter.FileExtension())

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(movementsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Date", "Type", "Reference", "Amount", "Signed amount", "Balance"}, rows[0])
	assert.Equal(t, []string{"2024-03-04 10:30", "PAYMENT", "pay-1", "4", "-4", "6.5"}, rows[1])
	assert.Equal(t, []string{"2024-03-04 09:30", "PURCHASE", "pur-1", "10.5", "10.5", "10.5"}, rows[2])

	items, err := f.GetRows(itemsSheet)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"pur-1", "Coffee", "2", "5", "10"}, items[1])
	assert.Equal(t, "p2", items[2][1], "missing name falls back to the product id")
}

func TestXLSXExporter_EmptyLog(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewXLSXExporter().Export(context.Background(), &buf, domain.Account{}, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(movementsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestXLSXExporter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewXLSXExporter().Export(ctx, &bytes.Buffer{}, domain.Account{}, []domain.Movement{{SourceID: "x"}})
	assert.ErrorIs(t, err, context.Canceled)
}
