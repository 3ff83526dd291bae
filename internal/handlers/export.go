// internal/handlers/export.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tealeg/xlsx/v3"

	"github.com/invenda/inventory-be/internal/core/domain"
	"github.com/invenda/inventory-be/internal/core/ports"
)

var xlsxHeaders = []string{
	"SKU", "Name", "Category", "Supplier",
	"Stock", "Unit Price", "Total Revenue", "Status", "Updated At",
}

// ExportHandler produces spreadsheet exports of the inventory
type ExportHandler struct {
	service ports.ItemService
	logger  *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(service ports.ItemService, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "export")),
	}
}

// ExportXLSX handles GET /api/items/export/xlsx. It honors the same
// query filters as the list endpoint.
func (h *ExportHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := ports.ListFilter{
		Category: r.URL.Query().Get("category"),
		Status:   r.URL.Query().Get("status"),
		Supplier: r.URL.Query().Get("supplier"),
		Search:   r.URL.Query().Get("search"),
	}

	items, err := h.service.List(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load items for export",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to export items")
		return
	}

	data, err := h.generateXLSX(items)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate spreadsheet",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to export items")
		return
	}

	filename := fmt.Sprintf("inventory_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	_, _ = w.Write(data)

	h.logger.InfoContext(ctx, "export_completed",
		slog.Int("items", len(items)))
}

func (h *ExportHandler) generateXLSX(items []*domain.Item) ([]byte, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Items")
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, header := range xlsxHeaders {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
	}

	for _, item := range items {
		row := sheet.AddRow()
		row.AddCell().Value = item.SKU
		row.AddCell().Value = item.Name
		row.AddCell().Value = item.Category
		row.AddCell().Value = item.Supplier
		row.AddCell().SetInt(item.Stock)
		row.AddCell().Value = item.UnitPrice.StringFixed(2)
		row.AddCell().Value = item.TotalRevenue.StringFixed(2)
		row.AddCell().Value = string(item.Status)
		row.AddCell().Value = item.UpdatedAt.Format("2006-01-02")
	}

	for i := range xlsxHeaders {
		sheet.SetColWidth(i, i, 15)
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write spreadsheet: %w", err)
	}

	return buffer.Bytes(), nil
}

func (h *ExportHandler) respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
