// internal/core/ports/item_repository.go
package ports

import (
	"context"

	"github.com/invenda/inventory-be/internal/core/domain"
)

// ListFilter narrows FindAll results. Zero-value fields are ignored.
// Search matches name or SKU case-insensitively.
type ListFilter struct {
	Category string
	Status   string
	Supplier string
	Search   string
}

// ItemRepository defines the persistence port for inventory items.
// This interface is implemented by the database adapter.
type ItemRepository interface {
	// Insert persists a new item and fills in its generated ID and
	// timestamp. Returns domain.ErrSKUConflict on a duplicate SKU.
	Insert(ctx context.Context, item *domain.Item) error

	// FindByID returns (nil, nil) when no item has the given ID.
	FindByID(ctx context.Context, id int64) (*domain.Item, error)

	// FindAll returns items matching the filter, most recently
	// updated first.
	FindAll(ctx context.Context, filter ListFilter) ([]*domain.Item, error)

	// Update overwrites the stored row identified by item.ID.
	// Returns domain.ErrNotFound if the row is gone and
	// domain.ErrSKUConflict if the new SKU collides.
	Update(ctx context.Context, item *domain.Item) error

	// Delete removes the item and returns its final state, or
	// (nil, nil) when no item had the given ID.
	Delete(ctx context.Context, id int64) (*domain.Item, error)
}
