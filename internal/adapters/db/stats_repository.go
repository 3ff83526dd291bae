// internal/adapters/db/stats_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/invenda/inventory-be/internal/core/ports"
)

type statsRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewStatsRepository creates a PostgreSQL-backed stats repository.
// All aggregation happens in SQL; nothing is cached.
func NewStatsRepository(database *Database, logger *slog.Logger) ports.StatsRepository {
	return &statsRepository{
		db:     database,
		logger: logger.With(slog.String("repository", "stats")),
	}
}

// Summary computes the inventory-wide aggregate snapshot
func (r *statsRepository) Summary(ctx context.Context) (*ports.Stats, error) {
	stats := &ports.Stats{
		StatusCounts: map[string]int64{},
		Categories:   []ports.CategoryStat{},
	}

	var totalValue decimal.Decimal
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total_revenue), 0)
		FROM items`).Scan(&stats.TotalItems, &totalValue)
	if err != nil {
		return nil, fmt.Errorf("failed to compute totals: %w", err)
	}
	stats.TotalValue = totalValue.InexactFloat64()

	rows, err := r.db.Query(ctx, `
		SELECT status, COUNT(*)
		FROM items
		GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		stats.StatusCounts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read status counts: %w", err)
	}

	catRows, err := r.db.Query(ctx, `
		SELECT category, COUNT(*), COALESCE(SUM(stock), 0)
		FROM items
		GROUP BY category
		ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate categories: %w", err)
	}
	defer catRows.Close()
	for catRows.Next() {
		var cs ports.CategoryStat
		if err := catRows.Scan(&cs.Category, &cs.Count, &cs.TotalStock); err != nil {
			return nil, fmt.Errorf("failed to scan category stat: %w", err)
		}
		stats.Categories = append(stats.Categories, cs)
	}
	if err := catRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read category stats: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		SELECT COUNT(DISTINCT supplier)
		FROM items`).Scan(&stats.SuppliersCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count suppliers: %w", err)
	}

	return stats, nil
}
