// internal/workers/ledger_export_processor.go
package workers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/tealeg/xlsx/v3"

	"github.com/reusehub/reuse-be/internal/adapters/storage"
	"github.com/reusehub/reuse-be/internal/core/domain"
	"github.com/reusehub/reuse-be/internal/core/ports"
)

// ledgerExportPageSize is the fetch size used when draining the ledger.
const ledgerExportPageSize = 1000

// LedgerExportProcessor renders a tenant's borrow ledger to a
// spreadsheet and uploads it to object storage.
type LedgerExportProcessor struct {
	borrows ports.BorrowRepository
	store   storage.StorageClient
	logger  *slog.Logger
}

// NewLedgerExportProcessor creates a new ledger export processor.
func NewLedgerExportProcessor(borrows ports.BorrowRepository, store storage.StorageClient, logger *slog.Logger) *LedgerExportProcessor {
	return &LedgerExportProcessor{
		borrows: borrows,
		store:   store,
		logger:  logger.With(slog.String("processor", "ledger_export")),
	}
}

// ProcessLedgerExport handles an export:ledger task.
func (p *LedgerExportProcessor) ProcessLedgerExport(ctx context.Context, t *asynq.Task) error {
	payload, err := parseTenantPayload(t)
	if err != nil {
		return err
	}

	p.logger.InfoContext(ctx, "exporting borrow ledger",
		slog.String("app_id", payload.AppID))

	var records []*domain.BorrowRecord
	for page := 1; ; page++ {
		batch, err := p.borrows.FindAll(ctx, payload.AppID, ports.BorrowQueryParams{
			Page:     page,
			PageSize: ledgerExportPageSize,
		})
		if err != nil {
			return fmt.Errorf("failed to load ledger page %d: %w", page, err)
		}
		records = append(records, batch...)
		if len(batch) < ledgerExportPageSize {
			break
		}
	}

	data, err := renderLedgerWorkbook(records)
	if err != nil {
		return fmt.Errorf("failed to render workbook: %w", err)
	}

	filename := fmt.Sprintf("ledger_%s.xlsx", time.Now().Format("20060102_150405"))
	key := storage.ExportKey(payload.AppID, filename)

	location, err := p.store.Upload(ctx, key, bytes.NewReader(data),
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err != nil {
		return fmt.Errorf("failed to upload export: %w", err)
	}

	p.logger.InfoContext(ctx, "ledger export uploaded",
		slog.String("app_id", payload.AppID),
		slog.String("location", location),
		slog.Int("records", len(records)))

	return nil
}

// renderLedgerWorkbook builds a single-sheet workbook with one row per
// ledger entry.
func renderLedgerWorkbook(records []*domain.BorrowRecord) ([]byte, error) {
	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet("Borrow Ledger")
	if err != nil {
		return nil, err
	}

	headerStyle := xlsx.NewStyle()
	headerStyle.Font.Bold = true

	header := sheet.AddRow()
	for _, col := range []string{"ID", "Item ID", "Item Name", "User ID", "Status", "Borrow Date", "Return Date"} {
		cell := header.AddCell()
		cell.SetString(col)
		cell.SetStyle(headerStyle)
	}

	for _, rec := range records {
		row := sheet.AddRow()
		row.AddCell().SetString(rec.ID.String())
		row.AddCell().SetString(rec.ItemID.String())
		row.AddCell().SetString(rec.ItemName)
		row.AddCell().SetString(rec.UserID)
		row.AddCell().SetString(string(rec.Status))
		row.AddCell().SetString(rec.BorrowDate.Format(time.RFC3339))
		if rec.ReturnDate != nil {
			row.AddCell().SetString(rec.ReturnDate.Format(time.RFC3339))
		} else {
			row.AddCell().SetString("")
		}
	}

	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
