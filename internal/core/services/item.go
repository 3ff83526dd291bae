// internal/core/services/item.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/invenda/inventory-be/internal/core/domain"
	"github.com/invenda/inventory-be/internal/core/ports"
)

// ItemService implements the inventory business operations
type ItemService struct {
	repo   ports.ItemRepository
	logger *slog.Logger
}

// NewItemService creates the service with its dependencies
func NewItemService(repo ports.ItemRepository, logger *slog.Logger) *ItemService {
	return &ItemService{
		repo:   repo,
		logger: logger.With(slog.String("service", "item")),
	}
}

// Create validates the input, derives total revenue and status, and
// persists the new item.
func (s *ItemService) Create(ctx context.Context, in ports.CreateInput) (*domain.Item, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	item := &domain.Item{
		SKU:       in.SKU,
		Name:      in.Name,
		Category:  in.Category,
		Supplier:  in.Supplier,
		Stock:     in.Stock,
		UnitPrice: in.UnitPrice.Round(2),
		UpdatedAt: time.Now().UTC(),
	}
	item.Recalculate(domain.ItemStatus(in.Status))

	if err := s.repo.Insert(ctx, item); err != nil {
		if errors.Is(err, domain.ErrSKUConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	s.logger.InfoContext(ctx, "item_created",
		slog.Int64("id", item.ID),
		slog.String("sku", item.SKU),
		slog.String("status", string(item.Status)))

	return item, nil
}

// GetByID fetches a single item
func (s *ItemService) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch item %d: %w", id, err)
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// List returns items matching the filter, most recently updated first
func (s *ItemService) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Item, error) {
	items, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// Update applies a partial update. Fields absent from the input keep
// their stored values; derived fields are recomputed from the merged
// record, with only a request-supplied status acting as an override.
func (s *ItemService) Update(ctx context.Context, id int64, in ports.UpdateInput) (*domain.Item, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch item %d: %w", id, err)
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}

	merged := *existing
	if in.SKU != nil {
		merged.SKU = *in.SKU
	}
	if in.Name != nil {
		merged.Name = *in.Name
	}
	if in.Category != nil {
		merged.Category = *in.Category
	}
	if in.Supplier != nil {
		merged.Supplier = *in.Supplier
	}
	if in.Stock != nil {
		merged.Stock = *in.Stock
	}
	if in.UnitPrice != nil {
		merged.UnitPrice = in.UnitPrice.Round(2)
	}

	var override domain.ItemStatus
	if in.Status != nil {
		override = domain.ItemStatus(*in.Status)
	}
	merged.Recalculate(override)
	merged.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, &merged); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrSKUConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update item %d: %w", id, err)
	}

	s.logger.InfoContext(ctx, "item_updated",
		slog.Int64("id", merged.ID),
		slog.String("sku", merged.SKU))

	return &merged, nil
}

// Delete removes an item and returns its final state
func (s *ItemService) Delete(ctx context.Context, id int64) (*domain.Item, error) {
	item, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete item %d: %w", id, err)
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	s.logger.InfoContext(ctx, "item_deleted",
		slog.Int64("id", item.ID),
		slog.String("sku", item.SKU))

	return item, nil
}

// BulkImport creates each candidate independently. A failed candidate
// is recorded and skipped; it never rolls back the ones already added.
func (s *ItemService) BulkImport(ctx context.Context, inputs []ports.CreateInput) *ports.BulkResult {
	result := &ports.BulkResult{
		Added:  []*domain.Item{},
		Errors: []ports.BulkError{},
	}

	for _, in := range inputs {
		item, err := s.Create(ctx, in)
		if err != nil {
			sku := in.SKU
			if sku == "" {
				sku = "unknown"
			}
			result.Errors = append(result.Errors, ports.BulkError{
				SKU:   sku,
				Error: bulkErrorMessage(err),
			})
			continue
		}
		result.Added = append(result.Added, item)
	}

	s.logger.InfoContext(ctx, "bulk_import_completed",
		slog.Int("added", len(result.Added)),
		slog.Int("failed", len(result.Errors)))

	return result
}

// bulkErrorMessage keeps per-candidate errors client-readable instead
// of exposing wrapped internals
func bulkErrorMessage(err error) string {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, domain.ErrSKUConflict):
		return domain.ErrSKUConflict.Error()
	default:
		return err.Error()
	}
}
