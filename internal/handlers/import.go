// internal/handlers/import.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/invenda/inventory-be/internal/core/ports"
)

const maxImportSizeBytes = 20 << 20 // 20 MB

// ImportHandler ingests spreadsheet uploads into the inventory
type ImportHandler struct {
	service ports.ItemService
	logger  *slog.Logger
}

// NewImportHandler creates a new import handler
func NewImportHandler(service ports.ItemService, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "import")),
	}
}

// ImportXLSX handles POST /api/items/import/xlsx. The upload is a
// multipart form with a "file" field; the first sheet is read with a
// header row of sku, name, category, supplier, stock, unit_price,
// status. Each row goes through the same per-candidate pipeline as
// the JSON bulk endpoint.
func (h *ImportHandler) ImportXLSX(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxImportSizeBytes); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	upload, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Missing file upload")
		return
	}
	defer upload.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx") {
		h.respondError(w, http.StatusBadRequest, "Only .xlsx files are supported")
		return
	}

	file, err := xlsx.OpenReaderAt(upload, header.Size)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Could not read spreadsheet")
		return
	}

	if len(file.Sheets) == 0 {
		h.respondError(w, http.StatusBadRequest, "Spreadsheet has no sheets")
		return
	}

	inputs, err := parseSheet(file.Sheets[0])
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Could not parse spreadsheet rows")
		return
	}

	result := h.service.BulkImport(ctx, inputs)

	h.logger.InfoContext(ctx, "xlsx_import_completed",
		slog.String("filename", header.Filename),
		slog.Int("added", len(result.Added)),
		slog.Int("failed", len(result.Errors)))

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Added " + strconv.Itoa(len(result.Added)) + " items",
		"added":   result.Added,
		"errors":  result.Errors,
	})
}

func parseSheet(sheet *xlsx.Sheet) ([]ports.CreateInput, error) {
	var inputs []ports.CreateInput
	rowIdx := 0

	err := sheet.ForEachRow(func(r *xlsx.Row) error {
		if rowIdx == 0 {
			rowIdx++
			return nil
		}
		rowIdx++

		get := func(i int) string {
			c := r.GetCell(i)
			if c == nil {
				return ""
			}
			return strings.TrimSpace(c.Value)
		}

		// Skip completely empty rows
		if get(0) == "" && get(1) == "" {
			return nil
		}

		stock, _ := strconv.Atoi(get(4))
		price, err := decimal.NewFromString(get(5))
		if err != nil {
			price = decimal.Zero
		}

		inputs = append(inputs, ports.CreateInput{
			SKU:       get(0),
			Name:      get(1),
			Category:  get(2),
			Supplier:  get(3),
			Stock:     stock,
			UnitPrice: price,
			Status:    get(6),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return inputs, nil
}

func (h *ImportHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *ImportHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
