package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/anchorwatch/anchor/pkg/models"
)

// DueConclusions returns PENDING conclusions ready for verdict derivation:
// non-predictive conclusions unconditionally, predictive conclusions only
// once monitoring_end is set and has passed. A predictive conclusion whose
// monitoring was never configured stays excluded until Op 4a sets it.
func (r *Repository) DueConclusions(ctx context.Context, limit int) ([]*models.Conclusion, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, source_url, author_id, topic_id, claim, canonical_claim, conclusion_type,
			time_horizon_note, valid_from, valid_until, status, monitoring_source_org,
			monitoring_source_url, monitoring_period_note, monitoring_start, monitoring_end,
			posted_at, created_at
		FROM conclusions
		WHERE status = 'pending'
			AND (conclusion_type <> 'predictive' OR monitoring_end IS NOT NULL)
			AND (monitoring_end IS NULL OR monitoring_end <= now())
		ORDER BY posted_at ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Conclusion
	for rows.Next() {
		c, err := scanConclusion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// PredictiveConclusionsNeedingMonitor returns predictive, still-pending
// conclusions Op 4a (conclusion monitor) has not yet assigned a monitoring
// source to.
func (r *Repository) PredictiveConclusionsNeedingMonitor(ctx context.Context, limit int) ([]*models.Conclusion, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, source_url, author_id, topic_id, claim, canonical_claim, conclusion_type,
			time_horizon_note, valid_from, valid_until, status, monitoring_source_org,
			monitoring_source_url, monitoring_period_note, monitoring_start, monitoring_end,
			posted_at, created_at
		FROM conclusions
		WHERE conclusion_type = 'predictive' AND status = 'pending' AND monitoring_source_org IS NULL
		ORDER BY posted_at ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Conclusion
	for rows.Next() {
		c, err := scanConclusion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ConclusionsForPost returns every distinct Conclusion targeted by an
// INFERENCE Logic belonging to one post, for Op 8's canonical-claim
// uniqueness scan. Conclusions have no direct FK to RawPost, so this goes
// through logics.
func (r *Repository) ConclusionsForPost(ctx context.Context, postID int64) ([]*models.Conclusion, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT c.id, c.source_url, c.author_id, c.topic_id, c.claim, c.canonical_claim,
			c.conclusion_type, c.time_horizon_note, c.valid_from, c.valid_until, c.status,
			c.monitoring_source_org, c.monitoring_source_url, c.monitoring_period_note,
			c.monitoring_start, c.monitoring_end, c.posted_at, c.created_at
		FROM conclusions c
		JOIN logics l ON l.conclusion_id = c.id
		WHERE l.raw_post_id = $1`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Conclusion
	for rows.Next() {
		c, err := scanConclusion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetConclusion loads a Conclusion by ID.
func (r *Repository) GetConclusion(ctx context.Context, id int64) (*models.Conclusion, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, source_url, author_id, topic_id, claim, canonical_claim, conclusion_type,
			time_horizon_note, valid_from, valid_until, status, monitoring_source_org,
			monitoring_source_url, monitoring_period_note, monitoring_start, monitoring_end,
			posted_at, created_at
		FROM conclusions WHERE id = $1`, id)
	c := &models.Conclusion{}
	err := row.Scan(&c.ID, &c.SourceURL, &c.AuthorID, &c.TopicID, &c.Claim, &c.CanonicalClaim, &c.ConclusionType,
		&c.TimeHorizonNote, &c.ValidFrom, &c.ValidUntil, &c.Status, &c.MonitoringSourceOrg,
		&c.MonitoringSourceURL, &c.MonitoringPeriodNote, &c.MonitoringStart, &c.MonitoringEnd,
		&c.PostedAt, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return c, err
}

func scanConclusion(rows *sql.Rows) (*models.Conclusion, error) {
	c := &models.Conclusion{}
	err := rows.Scan(&c.ID, &c.SourceURL, &c.AuthorID, &c.TopicID, &c.Claim, &c.CanonicalClaim, &c.ConclusionType,
		&c.TimeHorizonNote, &c.ValidFrom, &c.ValidUntil, &c.Status, &c.MonitoringSourceOrg,
		&c.MonitoringSourceURL, &c.MonitoringPeriodNote, &c.MonitoringStart, &c.MonitoringEnd,
		&c.PostedAt, &c.CreatedAt)
	return c, err
}

// SetConclusionMonitoring records Op 4a's monitoring-source findings
// without changing status (status is set later by Op 6).
func (r *Repository) SetConclusionMonitoring(ctx context.Context, id int64, org, url, periodNote *string, start, end *time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE conclusions SET monitoring_source_org = $2, monitoring_source_url = $3,
			monitoring_period_note = $4, monitoring_start = $5, monitoring_end = $6 WHERE id = $1`,
		id, org, url, periodNote, start, end)
	return err
}

// SetConclusionStatus is called by Op 6 with the derived verdict's mapped status.
func (r *Repository) SetConclusionStatus(ctx context.Context, id int64, status models.ConclusionStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE conclusions SET status = $2 WHERE id = $1`, id, status)
	return err
}

// GetOrCreateTopic looks up a Topic by name, creating it if absent.
func (r *Repository) GetOrCreateTopic(ctx context.Context, name string) (*models.Topic, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO topics (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name`, name)
	t := &models.Topic{}
	err := row.Scan(&t.ID, &t.Name)
	return t, err
}
