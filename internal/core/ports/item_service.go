// internal/core/ports/item_service.go
package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/invenda/inventory-be/internal/core/domain"
)

// CreateInput carries the client-supplied fields for a new item.
// Derived fields (total revenue, status) are computed by the service;
// Status here is only an optional override.
type CreateInput struct {
	SKU       string
	Name      string
	Category  string
	Supplier  string
	Stock     int
	UnitPrice decimal.Decimal
	Status    string
}

// Validate checks the required fields
func (in CreateInput) Validate() error {
	if in.SKU == "" {
		return domain.NewMissingFieldError("sku")
	}
	if in.Name == "" {
		return domain.NewMissingFieldError("name")
	}
	return nil
}

// UpdateInput carries a partial update. Nil fields keep their stored
// values. A non-nil Status acts as an override for status derivation;
// the stored status is never reused as an override.
type UpdateInput struct {
	SKU       *string
	Name      *string
	Category  *string
	Supplier  *string
	Stock     *int
	UnitPrice *decimal.Decimal
	Status    *string
}

// BulkError records why one candidate in a bulk import was rejected
type BulkError struct {
	SKU   string `json:"sku"`
	Error string `json:"error"`
}

// BulkResult summarizes a bulk import. Added and Errors are never nil
// so they always serialize as JSON arrays.
type BulkResult struct {
	Added  []*domain.Item `json:"added"`
	Errors []BulkError    `json:"errors"`
}

// ItemService defines the business operations over inventory items
type ItemService interface {
	Create(ctx context.Context, in CreateInput) (*domain.Item, error)
	GetByID(ctx context.Context, id int64) (*domain.Item, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.Item, error)
	Update(ctx context.Context, id int64, in UpdateInput) (*domain.Item, error)
	Delete(ctx context.Context, id int64) (*domain.Item, error)

	// BulkImport processes each candidate independently; failures are
	// recorded per candidate and never abort the batch.
	BulkImport(ctx context.Context, inputs []CreateInput) *BulkResult
}
