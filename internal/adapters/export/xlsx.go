package export

import (
	"context"
	"fmt"
	"io"

	"github.com/SscSPs/fiado_backend/internal/core/domain"
	portssvc "github.com/SscSPs/fiado_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	movementsSheet = "Movements"
	itemsSheet     = "Items"
	dateLayout     = "2006-01-02 15:04"
)

var (
	movementHeaders = []any{"Date", "Type", "Reference", "Amount", "Signed amount", "Balance"}
	itemHeaders     = []any{"Purchase", "Product", "Quantity", "Unit price", "Line total"}
)

// XLSXExporter writes an account's movement log as a workbook with a
// movements sheet and an items sheet.
type XLSXExporter struct{}

var _ portssvc.MovementExporter = XLSXExporter{}

func NewXLSXExporter() XLSXExporter {
	return XLSXExporter{}
}

func (XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSXExporter) FileExtension() string {
	return "xlsx"
}

// Export expects movements newest first, the order the movement log returns.
// The balance column is the running balance after each movement.
func (XLSXExporter) Export(ctx context.Context, w io.Writer, account domain.Account, movements []domain.Movement) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", movementsSheet); err != nil {
		return fmt.Errorf("failed to name movements sheet: %w", err)
	}
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return fmt.Errorf("failed to create items sheet: %w", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{Title: "Movements of " + account.CustomerName}); err != nil {
		return fmt.Errorf("failed to set document properties: %w", err)
	}

	if err := writeRow(f, movementsSheet, 1, movementHeaders); err != nil {
		return err
	}
	if err := writeRow(f, itemsSheet, 1, itemHeaders); err != nil {
		return err
	}

	running := make([]decimal.Decimal, len(movements))
	balance := decimal.Zero
	for i := len(movements) - 1; i >= 0; i-- {
		balance = balance.Add(movements[i].SignedAmount())
		running[i] = balance
	}

	itemRow := 2
	for i, m := range movements {
		if err := ctx.Err(); err != nil {
			return err
		}
		row := []any{
			m.OccurredAt.Format(dateLayout),
			string(m.MovementType),
			m.SourceID,
			m.Amount.InexactFloat64(),
			m.SignedAmount().InexactFloat64(),
			running[i].InexactFloat64(),
		}
		if err := writeRow(f, movementsSheet, i+2, row); err != nil {
			return err
		}
		for _, item := range m.Items {
			name := item.ProductName
			if name == "" {
				name = item.ProductID
			}
			line := []any{
				m.SourceID,
				name,
				item.Quantity,
				item.UnitPrice.InexactFloat64(),
				item.LineTotal().InexactFloat64(),
			}
			if err := writeRow(f, itemsSheet, itemRow, line); err != nil {
				return err
			}
			itemRow++
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}
