// Package cleanup enforces retention policy: purging superseded
// FactEvaluation rows and fully-settled RawPost rows past their window.
// Repurposed from tarsy's session/event retention loop; the ticker-driven
// runAll pattern is unchanged, only what gets purged differs.
package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/anchorwatch/anchor/pkg/config"
)

// purger is the narrow repository surface cleanup needs, kept as an
// interface so the ticker loop is testable without a live database.
type purger interface {
	PurgeSupersededFactEvaluations(ctx context.Context) (int64, error)
	PurgeTerminalPosts(ctx context.Context, cutoff time.Time) (int64, error)
}

// Service periodically enforces retention:
//   - deletes all but the newest FactEvaluation row per fact
//   - deletes RawPost rows (and their cascaded claim-graph rows) whose
//     posted_at is older than the retention window and whose claim graph
//     has fully settled (no pending Fact/Conclusion/Solution remains)
type Service struct {
	config *config.RetentionConfig
	repo   purger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewService creates a new cleanup service.
func NewService(cfg *config.RetentionConfig, repo purger) *Service {
	return &Service{config: cfg, repo: repo}
}

// Start launches the background cleanup loop.
func (s *Service) Start(ctx context.Context) {
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.run(ctx)

	slog.Info("cleanup service started",
		"post_retention_days", s.config.PostRetentionDays,
		"interval", s.config.CleanupInterval)
}

// Stop signals the cleanup loop to exit and waits for it to finish.
func (s *Service) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	slog.Info("cleanup service stopped")
}

func (s *Service) run(ctx context.Context) {
	defer close(s.done)

	s.runAll(ctx)

	ticker := time.NewTicker(s.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runAll(ctx)
		}
	}
}

func (s *Service) runAll(ctx context.Context) {
	s.purgeSupersededEvaluations(ctx)
	s.purgeTerminalPosts(ctx)
}

func (s *Service) purgeSupersededEvaluations(ctx context.Context) {
	n, err := s.repo.PurgeSupersededFactEvaluations(ctx)
	if err != nil {
		slog.Error("retention: purge superseded fact evaluations failed", "error", err)
		return
	}
	if n > 0 {
		slog.Info("retention: purged superseded fact evaluations", "count", n)
	}
}

func (s *Service) purgeTerminalPosts(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, -s.config.PostRetentionDays)
	n, err := s.repo.PurgeTerminalPosts(ctx, cutoff)
	if err != nil {
		slog.Error("retention: purge terminal posts failed", "error", err)
		return
	}
	if n > 0 {
		slog.Info("retention: purged terminal posts", "count", n, "cutoff", cutoff)
	}
}
