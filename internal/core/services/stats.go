// internal/core/services/stats.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/invenda/inventory-be/internal/core/ports"
)

// StatsService exposes inventory-wide aggregates. Every call reads
// fresh from the datastore; results are never cached.
type StatsService struct {
	repo   ports.StatsRepository
	logger *slog.Logger
}

// NewStatsService creates the service with its dependencies
func NewStatsService(repo ports.StatsRepository, logger *slog.Logger) *StatsService {
	return &StatsService{
		repo:   repo,
		logger: logger.With(slog.String("service", "stats")),
	}
}

// Summary returns the current aggregate snapshot
func (s *StatsService) Summary(ctx context.Context) (*ports.Stats, error) {
	stats, err := s.repo.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}

	s.logger.DebugContext(ctx, "stats_computed",
		slog.Int64("total_items", stats.TotalItems))

	return stats, nil
}
