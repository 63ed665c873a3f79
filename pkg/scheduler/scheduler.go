// Package scheduler is the Scheduler (C9): a periodic driver that walks
// the Claim Extraction Stage and the ten Verification Pipeline operators
// in a fixed order, once per pass. Grounded on anchor/tracker/scheduler.py
// for the operator ordering and tarsy's pkg/queue/worker.go for the
// poll-loop shape (ticker-driven, idle between passes, one pass at a
// time — no overlap).
package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// step is one named stage of a pass. Run returns the number of items it
// processed; per-item failures are swallowed internally by every operator,
// so an error here means the stage itself could not even start (e.g. a
// listing query failed), not that any single item failed.
type step struct {
	name string
	run  func(ctx context.Context, limit int) (int, error)
}

// Scheduler runs every step in sequence, once per pass, on a fixed
// interval. Passes never overlap: the ticker-driven loop waits for one
// pass to finish before the next can start.
type Scheduler struct {
	steps    []step
	interval time.Duration
	limit    int

	cancel context.CancelFunc
	done   chan struct{}
}

// New builds a Scheduler. limit bounds how many items each step pulls per
// pass (0 means "no bound" is left to the caller's repository query).
func New(interval time.Duration, limit int) *Scheduler {
	return &Scheduler{interval: interval, limit: limit}
}

// Runner matches the Context Enricher, the Claim Extractor, and every
// Verification Pipeline operator's Run(ctx, limit) (int, error) signature,
// so all twelve stages register the same way.
type Runner interface {
	Run(ctx context.Context, limit int) (int, error)
}

// Register appends a named stage to the fixed pass order. Call in the
// exact sequence the pass should execute: Context Enricher, Claim
// Extractor, then the ten Verification Pipeline operators.
func (s *Scheduler) Register(name string, r Runner) {
	s.steps = append(s.steps, step{name: name, run: r.Run})
}

// RunOnce executes a single pass: every registered step, in order,
// sequentially. A step that errors is logged and the pass moves on to the
// next step — one failing stage should never stall the rest of the
// pipeline for a full interval.
func (s *Scheduler) RunOnce(ctx context.Context) {
	passID := time.Now().UTC().Format(time.RFC3339)
	slog.Info("scheduler: pass starting", "pass_id", passID, "steps", len(s.steps))

	for _, st := range s.steps {
		n, err := st.run(ctx, s.limit)
		if err != nil {
			slog.Error("scheduler: step failed", "pass_id", passID, "step", st.name, "error", err)
			continue
		}
		if n > 0 {
			slog.Info("scheduler: step completed", "pass_id", passID, "step", st.name, "processed", n)
		}
	}

	slog.Info("scheduler: pass complete", "pass_id", passID)
}

// Start launches the background loop: an immediate pass, then one pass
// per interval until Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.run(ctx)

	slog.Info("scheduler started", "interval", s.interval, "steps", len(s.steps))
}

// Stop signals the loop to exit and waits for the in-flight pass to finish.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	slog.Info("scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}
