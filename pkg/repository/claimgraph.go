package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anchorwatch/anchor/pkg/models"
)

// ClaimGraph is the claim extractor's (C5) output for a single post, still
// addressed by local, zero-based indices into each slice rather than by
// database ID (spec.md §4.6 step 5: the extraction LLM call only ever sees
// one post at a time and has no database IDs to refer to).
type ClaimGraph struct {
	Facts       []*models.Fact
	References  [][]*models.VerificationReference // References[i] belongs to Facts[i]
	Conclusions []*models.Conclusion
	Solutions   []*models.Solution
	Logics      []*LogicWrite
}

// LogicWrite mirrors models.Logic but carries local slice indices instead
// of database IDs in its reference fields, resolved during the write.
type LogicWrite struct {
	LogicType             models.LogicType
	ConclusionIndex       *int // index into ClaimGraph.Conclusions
	SolutionIndex         *int // index into ClaimGraph.Solutions
	SupportingFactIndexes []int
	AssumptionFactIndexes []int
	SourceConclusionIndexes []int
}

// WriteClaimGraph persists one post's extracted claim graph in dependency
// order — Facts, then Conclusions, then Solutions, then Logics — translating
// each Logic's local indices to the database IDs assigned during this same
// transaction, and flips raw_posts.is_processed atomically with the write
// (spec.md §4.6 step 6).
func (r *Repository) WriteClaimGraph(ctx context.Context, postID int64, g *ClaimGraph) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		factIDs := make([]int64, len(g.Facts))
		for i, f := range g.Facts {
			id, err := insertFact(ctx, tx, postID, f)
			if err != nil {
				return fmt.Errorf("fact %d: %w", i, err)
			}
			factIDs[i] = id
			for _, ref := range g.References[i] {
				if err := insertVerificationReference(ctx, tx, id, ref); err != nil {
					return fmt.Errorf("fact %d reference: %w", i, err)
				}
			}
		}

		conclusionIDs := make([]int64, len(g.Conclusions))
		for i, c := range g.Conclusions {
			id, err := insertConclusion(ctx, tx, c)
			if err != nil {
				return fmt.Errorf("conclusion %d: %w", i, err)
			}
			conclusionIDs[i] = id
		}

		solutionIDs := make([]int64, len(g.Solutions))
		for i, s := range g.Solutions {
			id, err := insertSolution(ctx, tx, s)
			if err != nil {
				return fmt.Errorf("solution %d: %w", i, err)
			}
			solutionIDs[i] = id
		}

		for i, l := range g.Logics {
			if err := insertLogic(ctx, tx, postID, l, factIDs, conclusionIDs, solutionIDs); err != nil {
				return fmt.Errorf("logic %d: %w", i, err)
			}
		}

		_, err := tx.ExecContext(ctx, `UPDATE raw_posts SET is_processed = TRUE, processed_at = now() WHERE id = $1`, postID)
		return err
	})
}

func insertFact(ctx context.Context, tx *sql.Tx, postID int64, f *models.Fact) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO facts (raw_post_id, claim, canonical_claim, verifiable_expression, is_verifiable,
			verification_method, validity_start, validity_end, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		postID, f.Claim, f.CanonicalClaim, f.VerifiableExpression, f.IsVerifiable, f.VerificationMethod,
		f.ValidityStart, f.ValidityEnd, models.FactStatusPending).Scan(&id)
	return id, err
}

func insertVerificationReference(ctx context.Context, tx *sql.Tx, factID int64, v *models.VerificationReference) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO verification_references (fact_id, organization, data_description, url, url_note)
		VALUES ($1, $2, $3, $4, $5)`, factID, v.Organization, v.DataDescription, v.URL, v.URLNote)
	return err
}

func insertConclusion(ctx context.Context, tx *sql.Tx, c *models.Conclusion) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO conclusions (source_url, author_id, topic_id, claim, canonical_claim, conclusion_type,
			time_horizon_note, valid_from, valid_until, status, posted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`,
		c.SourceURL, c.AuthorID, c.TopicID, c.Claim, c.CanonicalClaim, c.ConclusionType, c.TimeHorizonNote,
		c.ValidFrom, c.ValidUntil, models.ConclusionStatusPending, c.PostedAt).Scan(&id)
	return id, err
}

func insertSolution(ctx context.Context, tx *sql.Tx, s *models.Solution) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO solutions (source_url, author_id, claim, action_type, action_target, action_rationale,
			status, posted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		s.SourceURL, s.AuthorID, s.Claim, s.ActionType, s.ActionTarget, s.ActionRationale,
		models.SolutionStatusPending, s.PostedAt).Scan(&id)
	return id, err
}

func insertLogic(ctx context.Context, tx *sql.Tx, postID int64, l *LogicWrite, factIDs, conclusionIDs, solutionIDs []int64) error {
	var conclusionID, solutionID *int64
	if l.ConclusionIndex != nil {
		id := conclusionIDs[*l.ConclusionIndex]
		conclusionID = &id
	}
	if l.SolutionIndex != nil {
		id := solutionIDs[*l.SolutionIndex]
		solutionID = &id
	}

	supporting := resolveIDs(l.SupportingFactIndexes, factIDs)
	assumption := resolveIDs(l.AssumptionFactIndexes, factIDs)
	source := resolveIDs(l.SourceConclusionIndexes, conclusionIDs)

	_, err := tx.ExecContext(ctx, `
		INSERT INTO logics (raw_post_id, logic_type, conclusion_id, solution_id, supporting_fact_ids,
			assumption_fact_ids, source_conclusion_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		postID, l.LogicType, conclusionID, solutionID, supporting, assumption, source)
	return err
}

func resolveIDs(indexes []int, ids []int64) []int64 {
	out := make([]int64, 0, len(indexes))
	for _, idx := range indexes {
		out = append(out, ids[idx])
	}
	return out
}
