package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anchorwatch/anchor/pkg/aggregator"
	"github.com/anchorwatch/anchor/pkg/repository"
)

// StatsUpdater is Op 9, the unconditional pass recomputing every author's
// AuthorStats row. Grounded on
// original_source/anchor/tracker/author_stats_aggregator.py's scheduler
// entry point; the dimension math itself lives in pkg/aggregator.
type StatsUpdater struct {
	repo *repository.Repository
	agg  *aggregator.Aggregator
}

func NewStatsUpdater(repo *repository.Repository, agg *aggregator.Aggregator) *StatsUpdater {
	return &StatsUpdater{repo: repo, agg: agg}
}

// Run recomputes AuthorStats for every author (spec.md §4.7 Op 9: eligible
// = every Author, always recomputes). limit is unused; every author is
// always in scope, but kept for interface symmetry with the other operators.
func (u *StatsUpdater) Run(ctx context.Context, limit int) (int, error) {
	ids, err := u.repo.AllAuthorIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("pipeline: list author ids: %w", err)
	}

	count := 0
	for _, id := range ids {
		if err := u.agg.Aggregate(ctx, id); err != nil {
			slog.Warn("pipeline: author stats update failed", "author_id", id, "error", err)
			continue
		}
		count++
	}
	return count, nil
}
