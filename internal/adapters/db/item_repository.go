// internal/adapters/db/item_repository.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/invenda/inventory-be/internal/core/domain"
	"github.com/invenda/inventory-be/internal/core/ports"
)

const uniqueViolationCode = "23505"

var itemColumns = []string{
	"id", "sku", "name", "category", "supplier",
	"stock", "unit_price", "total_revenue", "status", "updated_at",
}

type itemRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewItemRepository creates a PostgreSQL-backed item repository
func NewItemRepository(database *Database, logger *slog.Logger) ports.ItemRepository {
	return &itemRepository{
		db:     database,
		logger: logger.With(slog.String("repository", "item")),
	}
}

// Insert persists a new item and fills in its generated ID
func (r *itemRepository) Insert(ctx context.Context, item *domain.Item) error {
	query := `
		INSERT INTO items (
			sku, name, category, supplier,
			stock, unit_price, total_revenue, status, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		item.SKU, item.Name, item.Category, item.Supplier,
		item.Stock, item.UnitPrice, item.TotalRevenue,
		string(item.Status), item.UpdatedAt,
	).Scan(&item.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSKUConflict
		}
		return fmt.Errorf("failed to insert item: %w", err)
	}

	r.logger.DebugContext(ctx, "item_inserted",
		slog.Int64("id", item.ID),
		slog.String("sku", item.SKU))

	return nil
}

// FindByID returns (nil, nil) when no item has the given ID
func (r *itemRepository) FindByID(ctx context.Context, id int64) (*domain.Item, error) {
	query := `
		SELECT id, sku, name, category, supplier,
		       stock, unit_price, total_revenue, status, updated_at
		FROM items
		WHERE id = $1`

	item, err := scanItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find item: %w", err)
	}

	return item, nil
}

// FindAll retrieves items matching the filter, most recently updated
// first with ID as the tiebreaker
func (r *itemRepository) FindAll(ctx context.Context, filter ports.ListFilter) ([]*domain.Item, error) {
	qb := squirrel.Select(itemColumns...).
		From("items").
		OrderBy("updated_at DESC", "id DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.Category != "" {
		qb = qb.Where(squirrel.Eq{"category": filter.Category})
	}
	if filter.Status != "" {
		qb = qb.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.Supplier != "" {
		qb = qb.Where(squirrel.Eq{"supplier": filter.Supplier})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		qb = qb.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"sku": pattern},
		})
	}

	sqlQuery, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := []*domain.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}

	return items, nil
}

// Update overwrites the stored row identified by item.ID
func (r *itemRepository) Update(ctx context.Context, item *domain.Item) error {
	query := `
		UPDATE items SET
			sku = $2, name = $3, category = $4, supplier = $5,
			stock = $6, unit_price = $7, total_revenue = $8,
			status = $9, updated_at = $10
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		item.ID,
		item.SKU, item.Name, item.Category, item.Supplier,
		item.Stock, item.UnitPrice, item.TotalRevenue,
		string(item.Status), item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSKUConflict
		}
		return fmt.Errorf("failed to update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Delete removes the item inside a transaction and returns its final
// state, or (nil, nil) when the row was already gone
func (r *itemRepository) Delete(ctx context.Context, id int64) (*domain.Item, error) {
	var deleted *domain.Item

	err := r.db.Transaction(ctx, func(tx pgx.Tx) error {
		query := `
			SELECT id, sku, name, category, supplier,
			       stock, unit_price, total_revenue, status, updated_at
			FROM items
			WHERE id = $1
			FOR UPDATE`

		item, err := scanItem(tx.QueryRow(ctx, query, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("failed to load item for delete: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM items WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete item: %w", err)
		}

		deleted = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	if deleted != nil {
		r.logger.DebugContext(ctx, "item_deleted",
			slog.Int64("id", deleted.ID),
			slog.String("sku", deleted.SKU))
	}

	return deleted, nil
}

// scanItem reads one row in itemColumns order
func scanItem(row pgx.Row) (*domain.Item, error) {
	var (
		item   domain.Item
		status string
	)
	err := row.Scan(
		&item.ID, &item.SKU, &item.Name, &item.Category, &item.Supplier,
		&item.Stock, &item.UnitPrice, &item.TotalRevenue,
		&status, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.Status = domain.ItemStatus(status)
	return &item, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
