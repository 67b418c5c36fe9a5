package service

import (
	"context"
	"log/slog"

	"github.com/Moktur/N-LanguagesAI/internal/domain"
	"github.com/Moktur/N-LanguagesAI/internal/platform/logger"
	"github.com/Moktur/N-LanguagesAI/internal/store"
	"github.com/google/uuid"
)

// StatsAggregator summarises a user's learning progress.
type StatsAggregator struct {
	progress store.LearningProgressStore
	logger   *slog.Logger
}

// NewStatsAggregator creates a StatsAggregator.
func NewStatsAggregator(progress store.LearningProgressStore, logger *slog.Logger) *StatsAggregator {
	if progress == nil {
		panic("progress store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsAggregator{
		progress: progress,
		logger:   logger.With(slog.String("component", "stats_aggregator")),
	}
}

// GetStats counts the user's tracked items and averages their success
// rates. Users without items get zero values.
func (a *StatsAggregator) GetStats(ctx context.Context, userID uuid.UUID) (domain.Stats, error) {
	stats, err := a.progress.Stats(ctx, userID)
	if err != nil {
		return domain.Stats{}, failure(logger.FromContextOrDefault(ctx, a.logger), "stats_aggregator",
			"get_stats", "failed to aggregate stats", err, slog.String("user_id", userID.String()))
	}
	return stats, nil
}
