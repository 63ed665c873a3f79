package repository

import (
	"context"
	"database/sql"

	"github.com/anchorwatch/anchor/pkg/models"
)

// FactEvaluationsForAuthor returns every FactEvaluation result behind Facts
// extracted from this author's posts, newest evaluation per fact only —
// the input to AuthorStats dimension 1 (fact accuracy).
func (r *Repository) FactEvaluationsForAuthor(ctx context.Context, authorID int64) ([]models.EvalResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT ON (f.id) fe.result
		FROM facts f
		JOIN raw_posts p ON p.id = f.raw_post_id
		JOIN fact_evaluations fe ON fe.fact_id = f.id
		WHERE p.author_platform_id = (SELECT platform_external_id FROM authors WHERE id = $1)
		ORDER BY f.id, fe.evaluated_at DESC`, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.EvalResult
	for rows.Next() {
		var res models.EvalResult
		if err := rows.Scan(&res); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// ConclusionVerdictsForAuthor returns verdicts for an author's conclusions,
// split by ConclusionType for dimensions 2 (retrospective accuracy) and 3
// (predictive accuracy).
func (r *Repository) ConclusionVerdictsForAuthor(ctx context.Context, authorID int64, ctype models.ConclusionType) ([]models.Verdict, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT cv.verdict
		FROM conclusion_verdicts cv
		JOIN conclusions c ON c.id = cv.conclusion_id
		WHERE c.author_id = $1 AND c.conclusion_type = $2`, authorID, ctype)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Verdict
	for rows.Next() {
		var v models.Verdict
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// LogicCompletenessForAuthor returns completeness grades across all Logics
// extracted from this author's posts, for dimension 4 (logic rigor).
func (r *Repository) LogicCompletenessForAuthor(ctx context.Context, authorID int64) ([]models.LogicCompleteness, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT l.logic_completeness
		FROM logics l
		JOIN raw_posts p ON p.id = l.raw_post_id
		WHERE p.author_platform_id = (SELECT platform_external_id FROM authors WHERE id = $1)
			AND l.logic_completeness IS NOT NULL`, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.LogicCompleteness
	for rows.Next() {
		var c models.LogicCompleteness
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SolutionAssessmentVerdictsForAuthor returns verdicts for an author's
// solutions, for dimension 5 (recommendation reliability).
func (r *Repository) SolutionAssessmentVerdictsForAuthor(ctx context.Context, authorID int64) ([]models.Verdict, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT sa.verdict
		FROM solution_assessments sa
		JOIN solutions s ON s.id = sa.solution_id
		WHERE s.author_id = $1`, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Verdict
	for rows.Next() {
		var v models.Verdict
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// PostQualityForAuthor returns quality assessments for this author's posts,
// for dimensions 6 (uniqueness) and 7 (effectiveness).
func (r *Repository) PostQualityForAuthor(ctx context.Context, authorID int64) ([]*models.PostQualityAssessment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT pq.id, pq.raw_post_id, pq.similar_author_count, pq.uniqueness_score, pq.is_first_mover,
			pq.effectiveness_score, pq.noise_ratio, pq.noise_types, pq.effectiveness_note, pq.assessed_at
		FROM post_quality_assessments pq
		JOIN raw_posts p ON p.id = pq.raw_post_id
		WHERE p.author_platform_id = (SELECT platform_external_id FROM authors WHERE id = $1)`, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.PostQualityAssessment
	for rows.Next() {
		q := &models.PostQualityAssessment{}
		var noiseTypes []string
		if err := rows.Scan(&q.ID, &q.RawPostID, &q.SimilarAuthorCount, &q.UniquenessScore, &q.IsFirstMover,
			&q.EffectivenessScore, &q.NoiseRatio, &noiseTypes, &q.EffectivenessNote, &q.AssessedAt); err != nil {
			return nil, err
		}
		for _, n := range noiseTypes {
			q.NoiseTypes = append(q.NoiseTypes, models.NoiseType(n))
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// UpsertAuthorStats writes Op 9's aggregated seven-dimension record.
func (r *Repository) UpsertAuthorStats(ctx context.Context, s *models.AuthorStats) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO author_stats (author_id, fact_accuracy_value, fact_accuracy_n,
			conclusion_accuracy_value, conclusion_accuracy_n, prediction_accuracy_value, prediction_accuracy_n,
			logic_rigor_value, logic_rigor_n, recommendation_reliability_value, recommendation_reliability_n,
			content_uniqueness_value, content_uniqueness_n, content_effectiveness_value, content_effectiveness_n,
			overall_credibility_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (author_id) DO UPDATE SET
			fact_accuracy_value = EXCLUDED.fact_accuracy_value, fact_accuracy_n = EXCLUDED.fact_accuracy_n,
			conclusion_accuracy_value = EXCLUDED.conclusion_accuracy_value, conclusion_accuracy_n = EXCLUDED.conclusion_accuracy_n,
			prediction_accuracy_value = EXCLUDED.prediction_accuracy_value, prediction_accuracy_n = EXCLUDED.prediction_accuracy_n,
			logic_rigor_value = EXCLUDED.logic_rigor_value, logic_rigor_n = EXCLUDED.logic_rigor_n,
			recommendation_reliability_value = EXCLUDED.recommendation_reliability_value,
			recommendation_reliability_n = EXCLUDED.recommendation_reliability_n,
			content_uniqueness_value = EXCLUDED.content_uniqueness_value, content_uniqueness_n = EXCLUDED.content_uniqueness_n,
			content_effectiveness_value = EXCLUDED.content_effectiveness_value, content_effectiveness_n = EXCLUDED.content_effectiveness_n,
			overall_credibility_score = EXCLUDED.overall_credibility_score, updated_at = now()`,
		s.AuthorID,
		dimValue(s.FactAccuracy), dimSample(s.FactAccuracy),
		dimValue(s.ConclusionAccuracy), dimSample(s.ConclusionAccuracy),
		dimValue(s.PredictionAccuracy), dimSample(s.PredictionAccuracy),
		dimValue(s.LogicRigor), dimSample(s.LogicRigor),
		dimValue(s.RecommendationReliability), dimSample(s.RecommendationReliability),
		dimValue(s.ContentUniqueness), dimSample(s.ContentUniqueness),
		dimValue(s.ContentEffectiveness), dimSample(s.ContentEffectiveness),
		s.OverallCredibilityScore)
	return err
}

// GetAuthorStats loads the aggregate row for an author.
func (r *Repository) GetAuthorStats(ctx context.Context, authorID int64) (*models.AuthorStats, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, author_id, fact_accuracy_value, fact_accuracy_n, conclusion_accuracy_value,
			conclusion_accuracy_n, prediction_accuracy_value, prediction_accuracy_n, logic_rigor_value,
			logic_rigor_n, recommendation_reliability_value, recommendation_reliability_n,
			content_uniqueness_value, content_uniqueness_n, content_effectiveness_value,
			content_effectiveness_n, overall_credibility_score, updated_at
		FROM author_stats WHERE author_id = $1`, authorID)

	s := &models.AuthorStats{}
	var (
		factV, concV, predV, logV, recV, uniqV, effV                     sql.NullFloat64
		factN, concN, predN, logN, recN, uniqN, effN                     sql.NullInt32
	)
	err := row.Scan(&s.ID, &s.AuthorID, &factV, &factN, &concV, &concN, &predV, &predN, &logV, &logN,
		&recV, &recN, &uniqV, &uniqN, &effV, &effN, &s.OverallCredibilityScore, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	s.FactAccuracy = toDimValue(factV, factN)
	s.ConclusionAccuracy = toDimValue(concV, concN)
	s.PredictionAccuracy = toDimValue(predV, predN)
	s.LogicRigor = toDimValue(logV, logN)
	s.RecommendationReliability = toDimValue(recV, recN)
	s.ContentUniqueness = toDimValue(uniqV, uniqN)
	s.ContentEffectiveness = toDimValue(effV, effN)
	return s, nil
}

func dimValue(d *models.DimValue) any {
	if d == nil {
		return nil
	}
	return d.Value
}

func dimSample(d *models.DimValue) any {
	if d == nil {
		return nil
	}
	return d.SampleSize
}

func toDimValue(v sql.NullFloat64, n sql.NullInt32) *models.DimValue {
	if !v.Valid || !n.Valid {
		return nil
	}
	return &models.DimValue{Value: v.Float64, SampleSize: int(n.Int32)}
}
