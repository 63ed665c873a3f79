package repository

import (
	"context"
	"time"
)

// PurgeSupersededFactEvaluations deletes every FactEvaluation row except
// the newest one per fact. fact_evaluations is an append-only ledger
// (RecordFactEvaluation never updates in place), so superseded rows
// accumulate forever without this; only the latest is ever read
// (LatestFactEvaluation, the author-stats queries). Returns the number
// of rows deleted.
func (r *Repository) PurgeSupersededFactEvaluations(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM fact_evaluations fe
		USING (
			SELECT id FROM fact_evaluations fe2
			WHERE fe2.id <> (
				SELECT id FROM fact_evaluations fe3
				WHERE fe3.fact_id = fe2.fact_id
				ORDER BY fe3.evaluated_at DESC LIMIT 1
			)
		) stale
		WHERE fe.id = stale.id`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// PurgeTerminalPosts deletes RawPost rows older than cutoff whose claim
// graph has fully settled: every Fact reached a non-pending status, and
// every Conclusion/Solution reachable through the post's Logics reached a
// non-pending status. Cascading foreign keys remove the post's Facts,
// Logics, and LogicRelations along with it; Conclusions/Solutions are
// left in place since other posts' Logics may still reference them.
// Returns the number of posts deleted.
func (r *Repository) PurgeTerminalPosts(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM raw_posts p
		WHERE p.posted_at < $1
			AND p.is_processed = TRUE
			AND NOT EXISTS (SELECT 1 FROM facts f WHERE f.raw_post_id = p.id AND f.status = 'pending')
			AND NOT EXISTS (
				SELECT 1 FROM logics l
				JOIN conclusions c ON c.id = l.conclusion_id
				WHERE l.raw_post_id = p.id AND c.status = 'pending'
			)
			AND NOT EXISTS (
				SELECT 1 FROM logics l
				JOIN solutions s ON s.id = l.solution_id
				WHERE l.raw_post_id = p.id AND s.status = 'pending'
			)`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
