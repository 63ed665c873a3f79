package repository

import (
	"context"
	"database/sql"

	"github.com/anchorwatch/anchor/pkg/models"
)

// UnassessedLogics returns Logic rows Op 2+3 (logic evaluator) has not yet
// graded for completeness.
func (r *Repository) UnassessedLogics(ctx context.Context, limit int) ([]*models.Logic, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, raw_post_id, logic_type, conclusion_id, solution_id, supporting_fact_ids,
			assumption_fact_ids, source_conclusion_ids, logic_completeness, logic_note,
			one_sentence_summary, assessed_at, created_at
		FROM logics WHERE assessed_at IS NULL ORDER BY created_at ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Logic
	for rows.Next() {
		l, err := scanLogic(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// LogicsForConclusion returns every Logic (INFERENCE) that targets a
// Conclusion, used by Op 6 to derive its verdict.
func (r *Repository) LogicsForConclusion(ctx context.Context, conclusionID int64) ([]*models.Logic, error) {
	return r.queryLogics(ctx, `
		SELECT id, raw_post_id, logic_type, conclusion_id, solution_id, supporting_fact_ids,
			assumption_fact_ids, source_conclusion_ids, logic_completeness, logic_note,
			one_sentence_summary, assessed_at, created_at
		FROM logics WHERE conclusion_id = $1`, conclusionID)
}

// LogicsForSolution returns every Logic (DERIVATION) that targets a Solution.
func (r *Repository) LogicsForSolution(ctx context.Context, solutionID int64) ([]*models.Logic, error) {
	return r.queryLogics(ctx, `
		SELECT id, raw_post_id, logic_type, conclusion_id, solution_id, supporting_fact_ids,
			assumption_fact_ids, source_conclusion_ids, logic_completeness, logic_note,
			one_sentence_summary, assessed_at, created_at
		FROM logics WHERE solution_id = $1`, solutionID)
}

// LogicsForPost returns every Logic extracted from a post, used by Op 5
// (logic relation mapper), which operates one post at a time.
func (r *Repository) LogicsForPost(ctx context.Context, postID int64) ([]*models.Logic, error) {
	return r.queryLogics(ctx, `
		SELECT id, raw_post_id, logic_type, conclusion_id, solution_id, supporting_fact_ids,
			assumption_fact_ids, source_conclusion_ids, logic_completeness, logic_note,
			one_sentence_summary, assessed_at, created_at
		FROM logics WHERE raw_post_id = $1`, postID)
}

// PostsWithUnmappedLogics returns distinct raw_post_ids that have at least
// two Logics but no LogicRelation rows yet (Op 5 gating condition).
func (r *Repository) PostsWithUnmappedLogics(ctx context.Context, limit int) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT l.raw_post_id
		FROM logics l
		WHERE NOT EXISTS (
			SELECT 1 FROM logic_relations lr
			JOIN logics l2 ON l2.id = lr.from_logic_id
			WHERE l2.raw_post_id = l.raw_post_id
		)
		GROUP BY l.raw_post_id
		HAVING COUNT(*) >= 2
		ORDER BY l.raw_post_id ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *Repository) queryLogics(ctx context.Context, query string, args ...any) ([]*models.Logic, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Logic
	for rows.Next() {
		l, err := scanLogic(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanLogic(rows *sql.Rows) (*models.Logic, error) {
	l := &models.Logic{}
	err := rows.Scan(&l.ID, &l.RawPostID, &l.LogicType, &l.ConclusionID, &l.SolutionID,
		&l.SupportingFactIDs, &l.AssumptionFactIDs, &l.SourceConclusionIDs, &l.LogicCompleteness,
		&l.LogicNote, &l.OneSentenceSummary, &l.AssessedAt, &l.CreatedAt)
	return l, err
}

// SetLogicCompleteness records Op 2+3's grading.
func (r *Repository) SetLogicCompleteness(ctx context.Context, logicID int64, completeness models.LogicCompleteness, note, summary *string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE logics SET logic_completeness = $2, logic_note = $3, one_sentence_summary = $4, assessed_at = now()
		WHERE id = $1`, logicID, completeness, note, summary)
	return err
}

// InsertLogicRelation records one directed edge produced by Op 5. Rejects
// self-edges at the database level via the CHECK constraint; callers
// should also filter before calling (spec.md: edges referencing IDs
// outside the input post's logic set are dropped upstream).
func (r *Repository) InsertLogicRelation(ctx context.Context, fromLogicID, toLogicID int64, relation models.RelationType, note *string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO logic_relations (from_logic_id, to_logic_id, relation_type, note)
		VALUES ($1, $2, $3, $4)`, fromLogicID, toLogicID, relation, note)
	return err
}
