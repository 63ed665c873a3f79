package repository

import (
	"context"
	"database/sql"

	"github.com/anchorwatch/anchor/pkg/models"
)

// UpsertConclusionVerdict writes Op 6's derived verdict for a Conclusion.
// One row per conclusion; re-derivation (a conclusion can only reach a
// terminal status once, but Op 7 may run after Op 6 and update role_fit
// on the same row) overwrites in place.
func (r *Repository) UpsertConclusionVerdict(ctx context.Context, v *models.ConclusionVerdict) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO conclusion_verdicts (conclusion_id, verdict, logic_trace, role_fit, role_fit_note)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (conclusion_id) DO UPDATE SET
			verdict = EXCLUDED.verdict, logic_trace = EXCLUDED.logic_trace,
			role_fit = COALESCE(EXCLUDED.role_fit, conclusion_verdicts.role_fit),
			role_fit_note = COALESCE(EXCLUDED.role_fit_note, conclusion_verdicts.role_fit_note),
			derived_at = now()`,
		v.ConclusionID, v.Verdict, v.LogicTrace, v.RoleFit, v.RoleFitNote)
	return err
}

// SetConclusionRoleFit is Op 7's narrower write: role_fit only, verdict
// already present from Op 6.
func (r *Repository) SetConclusionRoleFit(ctx context.Context, conclusionID int64, fit models.RoleFit, note *string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE conclusion_verdicts SET role_fit = $2, role_fit_note = $3 WHERE conclusion_id = $1`,
		conclusionID, fit, note)
	return err
}

// GetConclusionVerdict loads a verdict by conclusion ID.
func (r *Repository) GetConclusionVerdict(ctx context.Context, conclusionID int64) (*models.ConclusionVerdict, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, conclusion_id, verdict, logic_trace, role_fit, role_fit_note, derived_at
		FROM conclusion_verdicts WHERE conclusion_id = $1`, conclusionID)
	v := &models.ConclusionVerdict{}
	err := row.Scan(&v.ID, &v.ConclusionID, &v.Verdict, &v.LogicTrace, &v.RoleFit, &v.RoleFitNote, &v.DerivedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return v, err
}

// ConclusionVerdictsMissingRoleFit returns conclusion verdicts Op 7 hasn't graded yet.
func (r *Repository) ConclusionVerdictsMissingRoleFit(ctx context.Context, limit int) ([]*models.ConclusionVerdict, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, conclusion_id, verdict, logic_trace, role_fit, role_fit_note, derived_at
		FROM conclusion_verdicts WHERE role_fit IS NULL ORDER BY derived_at ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ConclusionVerdict
	for rows.Next() {
		v := &models.ConclusionVerdict{}
		if err := rows.Scan(&v.ID, &v.ConclusionID, &v.Verdict, &v.LogicTrace, &v.RoleFit, &v.RoleFitNote, &v.DerivedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// UpsertSolutionAssessment mirrors UpsertConclusionVerdict for Solutions.
func (r *Repository) UpsertSolutionAssessment(ctx context.Context, a *models.SolutionAssessment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO solution_assessments (solution_id, verdict, logic_trace, role_fit, role_fit_note)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (solution_id) DO UPDATE SET
			verdict = EXCLUDED.verdict, logic_trace = EXCLUDED.logic_trace,
			role_fit = COALESCE(EXCLUDED.role_fit, solution_assessments.role_fit),
			role_fit_note = COALESCE(EXCLUDED.role_fit_note, solution_assessments.role_fit_note),
			derived_at = now()`,
		a.SolutionID, a.Verdict, a.LogicTrace, a.RoleFit, a.RoleFitNote)
	return err
}

// SetSolutionRoleFit is Op 7's narrower write for Solutions.
func (r *Repository) SetSolutionRoleFit(ctx context.Context, solutionID int64, fit models.RoleFit, note *string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE solution_assessments SET role_fit = $2, role_fit_note = $3 WHERE solution_id = $1`,
		solutionID, fit, note)
	return err
}

// SolutionAssessmentsMissingRoleFit returns solution assessments Op 7 hasn't graded yet.
func (r *Repository) SolutionAssessmentsMissingRoleFit(ctx context.Context, limit int) ([]*models.SolutionAssessment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, solution_id, verdict, logic_trace, role_fit, role_fit_note, derived_at
		FROM solution_assessments WHERE role_fit IS NULL ORDER BY derived_at ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.SolutionAssessment
	for rows.Next() {
		a := &models.SolutionAssessment{}
		if err := rows.Scan(&a.ID, &a.SolutionID, &a.Verdict, &a.LogicTrace, &a.RoleFit, &a.RoleFitNote, &a.DerivedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
