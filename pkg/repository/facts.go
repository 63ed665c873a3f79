package repository

import (
	"context"
	"database/sql"

	"github.com/anchorwatch/anchor/pkg/models"
)

// VerifiableFactsPending returns verifiable Facts still awaiting a verdict
// whose validity window covers now, for Op 1 (fact verifier / condition
// verifier). A fact outside its validity window (not yet started, or
// already lapsed) is not yet/no longer eligible for verification.
func (r *Repository) VerifiableFactsPending(ctx context.Context, limit int) ([]*models.Fact, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, raw_post_id, claim, canonical_claim, verifiable_expression, is_verifiable,
			verification_method, validity_start, validity_end, status, verified_source_org,
			verified_source_url, verified_source_data, verification_evidence, verified_at, created_at
		FROM facts
		WHERE is_verifiable = TRUE AND status = 'pending'
			AND (validity_start IS NULL OR validity_start <= now())
			AND (validity_end IS NULL OR validity_end >= now())
		ORDER BY created_at ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Fact
	for rows.Next() {
		f, err := scanFact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetFact loads a Fact by ID.
func (r *Repository) GetFact(ctx context.Context, id int64) (*models.Fact, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, raw_post_id, claim, canonical_claim, verifiable_expression, is_verifiable,
			verification_method, validity_start, validity_end, status, verified_source_org,
			verified_source_url, verified_source_data, verification_evidence, verified_at, created_at
		FROM facts WHERE id = $1`, id)
	f := &models.Fact{}
	err := row.Scan(&f.ID, &f.RawPostID, &f.Claim, &f.CanonicalClaim, &f.VerifiableExpression, &f.IsVerifiable,
		&f.VerificationMethod, &f.ValidityStart, &f.ValidityEnd, &f.Status, &f.VerifiedSourceOrg,
		&f.VerifiedSourceURL, &f.VerifiedSourceData, &f.VerificationEvidence, &f.VerifiedAt, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return f, err
}

// GetFacts loads several Facts by ID, in no particular order.
func (r *Repository) GetFacts(ctx context.Context, ids []int64) ([]*models.Fact, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, raw_post_id, claim, canonical_claim, verifiable_expression, is_verifiable,
			verification_method, validity_start, validity_end, status, verified_source_org,
			verified_source_url, verified_source_data, verification_evidence, verified_at, created_at
		FROM facts WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Fact
	for rows.Next() {
		f, err := scanFact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// FactsForPost returns every Fact extracted from one post, for Op 8's
// canonical-claim uniqueness scan.
func (r *Repository) FactsForPost(ctx context.Context, postID int64) ([]*models.Fact, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, raw_post_id, claim, canonical_claim, verifiable_expression, is_verifiable,
			verification_method, validity_start, validity_end, status, verified_source_org,
			verified_source_url, verified_source_data, verification_evidence, verified_at, created_at
		FROM facts WHERE raw_post_id = $1`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Fact
	for rows.Next() {
		f, err := scanFact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func scanFact(rows *sql.Rows) (*models.Fact, error) {
	f := &models.Fact{}
	err := rows.Scan(&f.ID, &f.RawPostID, &f.Claim, &f.CanonicalClaim, &f.VerifiableExpression, &f.IsVerifiable,
		&f.VerificationMethod, &f.ValidityStart, &f.ValidityEnd, &f.Status, &f.VerifiedSourceOrg,
		&f.VerifiedSourceURL, &f.VerifiedSourceData, &f.VerificationEvidence, &f.VerifiedAt, &f.CreatedAt)
	return f, err
}

// RecordFactEvaluation appends an evaluation row (append-only ledger) and
// updates the Fact's denormalized status to match, in one transaction.
func (r *Repository) RecordFactEvaluation(ctx context.Context, factID int64, eval *models.FactEvaluation, newStatus models.FactStatus, sourceOrg, sourceURL, sourceData, evidence *string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO fact_evaluations (fact_id, result, evidence_tier, evidence_text, data_period, evaluator_notes)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			factID, eval.Result, eval.EvidenceTier, eval.EvidenceText, eval.DataPeriod, eval.EvaluatorNotes); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			UPDATE facts SET status = $2, verified_source_org = $3, verified_source_url = $4,
				verified_source_data = $5, verification_evidence = $6, verified_at = now()
			WHERE id = $1`, factID, newStatus, sourceOrg, sourceURL, sourceData, evidence)
		return err
	})
}

// LatestFactEvaluation returns the most recent evaluation for a fact, or
// ErrNotFound if none exists yet.
func (r *Repository) LatestFactEvaluation(ctx context.Context, factID int64) (*models.FactEvaluation, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, fact_id, result, evidence_tier, evidence_text, data_period, evaluator_notes, evaluated_at
		FROM fact_evaluations WHERE fact_id = $1 ORDER BY evaluated_at DESC LIMIT 1`, factID)
	e := &models.FactEvaluation{}
	err := row.Scan(&e.ID, &e.FactID, &e.Result, &e.EvidenceTier, &e.EvidenceText, &e.DataPeriod, &e.EvaluatorNotes, &e.EvaluatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return e, err
}
