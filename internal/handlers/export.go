// internal/handlers/export.go
package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/tealeg/xlsx/v3"

	"github.com/reusehub/reuse-be/internal/core/domain"
	"github.com/reusehub/reuse-be/internal/core/ports"
)

// exportPageSize is the fetch size used when draining a collection for
// export. Tenants are small; one page covers them.
const exportPageSize = 1000

var itemExportHeader = []string{"ID", "Name", "Total Quantity", "Available Quantity", "Image URL", "Created At"}

var ledgerExportHeader = []string{"ID", "Item ID", "Item Name", "User ID", "Status", "Borrow Date", "Return Date"}

// ExportHandler produces downloadable snapshots of a tenant's inventory
// and borrow ledger.
type ExportHandler struct {
	items   ports.ItemRepository
	borrows ports.BorrowRepository
	logger  *slog.Logger
}

// NewExportHandler creates a new export handler.
func NewExportHandler(items ports.ItemRepository, borrows ports.BorrowRepository, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		items:   items,
		borrows: borrows,
		logger:  logger.With(slog.String("handler", "export")),
	}
}

// ExportItems handles GET /api/v1/export/items?format={csv|xlsx|json}
func (h *ExportHandler) ExportItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess := sessionFrom(r)
	if !sess.Resolved() {
		respondDomainError(w, domain.ErrScopeNotReady)
		return
	}

	items, _, err := h.items.FindAll(ctx, sess.AppID, ports.ItemQueryParams{Page: 1, PageSize: exportPageSize})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load items for export",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.ID.String(),
			item.Name,
			strconv.Itoa(item.TotalQuantity),
			strconv.Itoa(item.AvailableQuantity),
			item.ImageURL,
			item.CreatedAt.Format(time.RFC3339),
		})
	}

	switch r.URL.Query().Get("format") {
	case "json":
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"items":       items,
			"total_items": len(items),
			"export_date": time.Now(),
		})
	case "csv":
		h.writeCSV(w, r, "items", itemExportHeader, rows)
	default:
		h.writeXLSX(w, r, "items", "Inventory", itemExportHeader, rows)
	}
}

// ExportLedger handles GET /api/v1/export/ledger?format={csv|xlsx|json}
func (h *ExportHandler) ExportLedger(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess := sessionFrom(r)
	if !sess.Resolved() {
		respondDomainError(w, domain.ErrScopeNotReady)
		return
	}

	records, err := h.borrows.FindAll(ctx, sess.AppID, ports.BorrowQueryParams{Page: 1, PageSize: exportPageSize})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load ledger for export",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		returned := ""
		if rec.ReturnDate != nil {
			returned = rec.ReturnDate.Format(time.RFC3339)
		}
		rows = append(rows, []string{
			rec.ID.String(),
			rec.ItemID.String(),
			rec.ItemName,
			rec.UserID,
			string(rec.Status),
			rec.BorrowDate.Format(time.RFC3339),
			returned,
		})
	}

	switch r.URL.Query().Get("format") {
	case "json":
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"records":       records,
			"total_records": len(records),
			"export_date":   time.Now(),
		})
	case "csv":
		h.writeCSV(w, r, "ledger", ledgerExportHeader, rows)
	default:
		h.writeXLSX(w, r, "ledger", "Borrow Ledger", ledgerExportHeader, rows)
	}
}

func (h *ExportHandler) writeCSV(w http.ResponseWriter, r *http.Request, name string, header []string, rows [][]string) {
	ctx := r.Context()

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	cw.Write(header)
	for _, row := range rows {
		cw.Write(row)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.logger.ErrorContext(ctx, "failed to generate CSV export",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Failed to generate CSV file")
		return
	}

	filename := fmt.Sprintf("%s_export_%s.csv", name, time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Write(buf.Bytes())
}

func (h *ExportHandler) writeXLSX(w http.ResponseWriter, r *http.Request, name, sheetName string, header []string, rows [][]string) {
	ctx := r.Context()

	data, err := BuildWorkbook(sheetName, header, rows)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate Excel export",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}

	filename := fmt.Sprintf("%s_export_%s.xlsx", name, time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Write(data)
}

// BuildWorkbook renders a single-sheet workbook with a bold header row.
func BuildWorkbook(sheetName string, header []string, rows [][]string) ([]byte, error) {
	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}

	headerStyle := xlsx.NewStyle()
	headerStyle.Font.Bold = true

	headerRow := sheet.AddRow()
	for _, col := range header {
		cell := headerRow.AddCell()
		cell.SetString(col)
		cell.SetStyle(headerStyle)
	}

	for _, row := range rows {
		xr := sheet.AddRow()
		for _, val := range row {
			xr.AddCell().SetString(val)
		}
	}

	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
