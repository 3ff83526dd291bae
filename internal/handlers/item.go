// internal/handlers/item.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/invenda/inventory-be/internal/core/domain"
	"github.com/invenda/inventory-be/internal/core/ports"
)

// ItemHandler handles item-related HTTP requests
type ItemHandler struct {
	service ports.ItemService
	logger  *slog.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(service ports.ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "item")),
	}
}

// ListItems handles GET /api/items
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := ports.ListFilter{
		Category: r.URL.Query().Get("category"),
		Status:   r.URL.Query().Get("status"),
		Supplier: r.URL.Query().Get("supplier"),
		Search:   r.URL.Query().Get("search"),
	}

	items, err := h.service.List(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list items",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list items")
		return
	}

	h.respondJSON(w, http.StatusOK, items)
}

// GetItem handles GET /api/items/{id}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseItemID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	item, err := h.service.GetByID(ctx, id)
	if err != nil {
		h.respondServiceError(ctx, w, err, "Failed to retrieve item")
		return
	}

	h.respondJSON(w, http.StatusOK, item)
}

// CreateItem handles POST /api/items
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.service.Create(ctx, req.ToInput())
	if err != nil {
		h.respondServiceError(ctx, w, err, "Failed to create item")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Item added successfully",
		"item":    item,
	})
}

// UpdateItem handles PUT /api/items/{id}
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseItemID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.service.Update(ctx, id, req.ToInput())
	if err != nil {
		h.respondServiceError(ctx, w, err, "Failed to update item")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Item updated successfully",
		"item":    item,
	})
}

// DeleteItem handles DELETE /api/items/{id}
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseItemID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	item, err := h.service.Delete(ctx, id)
	if err != nil {
		h.respondServiceError(ctx, w, err, "Failed to delete item")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Item deleted successfully",
		"item":    item,
	})
}

// BulkImport handles POST /api/items/bulk
func (h *ItemHandler) BulkImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var reqs []CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		h.respondError(w, http.StatusBadRequest, "Expected a list of items")
		return
	}

	inputs := make([]ports.CreateInput, len(reqs))
	for i, req := range reqs {
		inputs[i] = req.ToInput()
	}

	result := h.service.BulkImport(ctx, inputs)

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Added " + strconv.Itoa(len(result.Added)) + " items",
		"added":   result.Added,
		"errors":  result.Errors,
	})
}

// respondServiceError maps service errors to HTTP responses
func (h *ItemHandler) respondServiceError(ctx context.Context, w http.ResponseWriter, err error, fallback string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		h.respondError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, domain.ErrNotFound):
		h.respondError(w, http.StatusNotFound, "Item not found")
	case errors.Is(err, domain.ErrSKUConflict):
		h.respondError(w, http.StatusConflict, "SKU already exists")
	default:
		h.logger.ErrorContext(ctx, "request failed",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, fallback)
	}
}

func parseItemID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func (h *ItemHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *ItemHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// CreateItemRequest is the payload for creating an item
type CreateItemRequest struct {
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Supplier  string  `json:"supplier"`
	Stock     int     `json:"stock"`
	UnitPrice float64 `json:"unit_price"`
	Status    string  `json:"status"`
}

// ToInput converts the request to a service input
func (r CreateItemRequest) ToInput() ports.CreateInput {
	return ports.CreateInput{
		SKU:       r.SKU,
		Name:      r.Name,
		Category:  r.Category,
		Supplier:  r.Supplier,
		Stock:     r.Stock,
		UnitPrice: decimal.NewFromFloat(r.UnitPrice),
		Status:    r.Status,
	}
}

// UpdateItemRequest is the payload for a partial update. Absent fields
// keep their stored values.
type UpdateItemRequest struct {
	SKU       *string  `json:"sku"`
	Name      *string  `json:"name"`
	Category  *string  `json:"category"`
	Supplier  *string  `json:"supplier"`
	Stock     *int     `json:"stock"`
	UnitPrice *float64 `json:"unit_price"`
	Status    *string  `json:"status"`
}

// ToInput converts the request to a service input
func (r UpdateItemRequest) ToInput() ports.UpdateInput {
	in := ports.UpdateInput{
		SKU:      r.SKU,
		Name:     r.Name,
		Category: r.Category,
		Supplier: r.Supplier,
		Stock:    r.Stock,
		Status:   r.Status,
	}
	if r.UnitPrice != nil {
		price := decimal.NewFromFloat(*r.UnitPrice)
		in.UnitPrice = &price
	}
	return in
}
