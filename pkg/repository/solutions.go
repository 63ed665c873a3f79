package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/anchorwatch/anchor/pkg/models"
)

// DueSolutions returns PENDING solutions whose monitoring window has
// closed, ready for Op 4b (solution simulator). Solutions with zero
// source conclusions never get a monitoring_end set and so stay PENDING
// forever (decided open question, see DESIGN.md).
func (r *Repository) DueSolutions(ctx context.Context, limit int) ([]*models.Solution, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, source_url, author_id, claim, action_type, action_target, action_rationale,
			status, simulated_action_note, monitoring_source_org, monitoring_source_url,
			monitoring_period_note, monitoring_start, monitoring_end, posted_at, created_at
		FROM solutions
		WHERE status = 'pending' AND monitoring_end IS NOT NULL AND monitoring_end <= now()
		ORDER BY posted_at ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Solution
	for rows.Next() {
		s, err := scanSolution(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SolutionsNeedingSimulation returns still-pending solutions Op 4b
// (solution simulator) has not yet produced a simulated_action_note for.
func (r *Repository) SolutionsNeedingSimulation(ctx context.Context, limit int) ([]*models.Solution, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, source_url, author_id, claim, action_type, action_target, action_rationale,
			status, simulated_action_note, monitoring_source_org, monitoring_source_url,
			monitoring_period_note, monitoring_start, monitoring_end, posted_at, created_at
		FROM solutions
		WHERE status = 'pending' AND simulated_action_note IS NULL
		ORDER BY posted_at ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Solution
	for rows.Next() {
		s, err := scanSolution(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetSolution loads a Solution by ID.
func (r *Repository) GetSolution(ctx context.Context, id int64) (*models.Solution, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, source_url, author_id, claim, action_type, action_target, action_rationale,
			status, simulated_action_note, monitoring_source_org, monitoring_source_url,
			monitoring_period_note, monitoring_start, monitoring_end, posted_at, created_at
		FROM solutions WHERE id = $1`, id)
	s := &models.Solution{}
	err := row.Scan(&s.ID, &s.SourceURL, &s.AuthorID, &s.Claim, &s.ActionType, &s.ActionTarget, &s.ActionRationale,
		&s.Status, &s.SimulatedActionNote, &s.MonitoringSourceOrg, &s.MonitoringSourceURL,
		&s.MonitoringPeriodNote, &s.MonitoringStart, &s.MonitoringEnd, &s.PostedAt, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return s, err
}

func scanSolution(rows *sql.Rows) (*models.Solution, error) {
	s := &models.Solution{}
	err := rows.Scan(&s.ID, &s.SourceURL, &s.AuthorID, &s.Claim, &s.ActionType, &s.ActionTarget, &s.ActionRationale,
		&s.Status, &s.SimulatedActionNote, &s.MonitoringSourceOrg, &s.MonitoringSourceURL,
		&s.MonitoringPeriodNote, &s.MonitoringStart, &s.MonitoringEnd, &s.PostedAt, &s.CreatedAt)
	return s, err
}

// SetSolutionSimulation records Op 4b's findings: the simulated outcome
// note plus any resolved monitoring source.
func (r *Repository) SetSolutionSimulation(ctx context.Context, id int64, note, org, url, periodNote *string, start, end *time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE solutions SET simulated_action_note = $2, monitoring_source_org = $3,
			monitoring_source_url = $4, monitoring_period_note = $5, monitoring_start = $6, monitoring_end = $7
		WHERE id = $1`, id, note, org, url, periodNote, start, end)
	return err
}

// SetSolutionMonitoringWindow is called right after extraction so a
// DERIVATION Logic's zero-or-more source conclusions can seed an initial
// monitoring_end; solutions with no source conclusions never get one.
func (r *Repository) SetSolutionMonitoringWindow(ctx context.Context, id int64, end time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE solutions SET monitoring_end = $2 WHERE id = $1`, id, end)
	return err
}

// SetSolutionStatus is called by Op 6 with the derived verdict's mapped status.
func (r *Repository) SetSolutionStatus(ctx context.Context, id int64, status models.SolutionStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE solutions SET status = $2 WHERE id = $1`, id, status)
	return err
}
