// internal/core/ports/stats.go
package ports

import "context"

// CategoryStat aggregates one category's item count and combined stock
type CategoryStat struct {
	Category   string `json:"category"`
	Count      int64  `json:"count"`
	TotalStock int64  `json:"total_stock"`
}

// Stats is the inventory-wide aggregate snapshot
type Stats struct {
	TotalItems     int64            `json:"total_items"`
	TotalValue     float64          `json:"total_value"`
	StatusCounts   map[string]int64 `json:"status_counts"`
	Categories     []CategoryStat   `json:"categories"`
	SuppliersCount int64            `json:"suppliers_count"`
}

// StatsRepository computes aggregates directly in the datastore
type StatsRepository interface {
	Summary(ctx context.Context) (*Stats, error)
}

// StatsService exposes the aggregate snapshot to transports
type StatsService interface {
	Summary(ctx context.Context) (*Stats, error)
}
