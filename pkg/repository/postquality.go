package repository

import (
	"context"
	"time"

	"github.com/anchorwatch/anchor/pkg/models"
)

// ProcessedPostsMissingQuality returns processed posts Op 8 (post quality
// evaluator) has not yet assessed.
func (r *Repository) ProcessedPostsMissingQuality(ctx context.Context, limit int) ([]*models.RawPost, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.source, p.external_id, p.content, p.enriched_content, p.media_json,
			p.author_name, p.author_platform_id, p.url, p.posted_at, p.context_fetched,
			p.has_context, p.is_processed, p.processed_at, p.created_at
		FROM raw_posts p
		LEFT JOIN post_quality_assessments pq ON pq.raw_post_id = p.id
		WHERE p.is_processed = TRUE AND pq.id IS NULL
		ORDER BY p.posted_at ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.RawPost
	for rows.Next() {
		p := &models.RawPost{}
		if err := rows.Scan(&p.ID, &p.Source, &p.ExternalID, &p.Content, &p.EnrichedContent, &p.MediaJSON,
			&p.AuthorName, &p.AuthorPlatformID, &p.URL, &p.PostedAt, &p.ContextFetched, &p.HasContext,
			&p.IsProcessed, &p.ProcessedAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CountSimilarCanonicalClaims counts, across all authors, how many Facts
// with the given canonical claim text were posted before cutoff — the
// "similar_author_count" input to the uniqueness_score formula (spec §8
// scenario 5): uniqueness_score = 1/(1 + 0.4*similar_author_count).
func (r *Repository) CountSimilarCanonicalClaims(ctx context.Context, canonicalClaim string, excludePostID int64) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT p.author_platform_id)
		FROM facts f
		JOIN raw_posts p ON p.id = f.raw_post_id
		WHERE f.canonical_claim = $1 AND f.raw_post_id <> $2`, canonicalClaim, excludePostID)
	var n int
	err := row.Scan(&n)
	return n, err
}

// EarlierCanonicalClaimExists reports whether some other post carrying a
// Fact with canonicalClaim was posted strictly before postedAt — the
// is_first_mover input (spec §4.7 Op 8).
func (r *Repository) EarlierCanonicalClaimExists(ctx context.Context, canonicalClaim string, postedAt time.Time, excludePostID int64) (bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM facts f
			JOIN raw_posts p ON p.id = f.raw_post_id
			WHERE f.canonical_claim = $1 AND f.raw_post_id <> $2 AND p.posted_at < $3
		)`, canonicalClaim, excludePostID, postedAt)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

// CountSimilarConclusionClaims mirrors CountSimilarCanonicalClaims for the
// Conclusion side of a post's canonical-claim set (Conclusions have no FK
// to RawPost; dedup is by author instead).
func (r *Repository) CountSimilarConclusionClaims(ctx context.Context, canonicalClaim string, excludeAuthorID int64) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT author_id) FROM conclusions
		WHERE canonical_claim = $1 AND author_id <> $2`, canonicalClaim, excludeAuthorID)
	var n int
	err := row.Scan(&n)
	return n, err
}

// EarlierConclusionClaimExists mirrors EarlierCanonicalClaimExists for the
// Conclusion side of a post's canonical-claim set: whether some other
// author's Conclusion carrying canonicalClaim was posted strictly before
// postedAt (spec §4.7 Op 8's is_first_mover spans Facts and Conclusions).
func (r *Repository) EarlierConclusionClaimExists(ctx context.Context, canonicalClaim string, postedAt time.Time, excludeAuthorID int64) (bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM conclusions
			WHERE canonical_claim = $1 AND author_id <> $2 AND posted_at < $3
		)`, canonicalClaim, excludeAuthorID, postedAt)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

// UpsertPostQuality writes Op 8's scoring for one post.
func (r *Repository) UpsertPostQuality(ctx context.Context, q *models.PostQualityAssessment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO post_quality_assessments (raw_post_id, similar_author_count, uniqueness_score,
			is_first_mover, effectiveness_score, noise_ratio, noise_types, effectiveness_note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (raw_post_id) DO UPDATE SET
			similar_author_count = EXCLUDED.similar_author_count, uniqueness_score = EXCLUDED.uniqueness_score,
			is_first_mover = EXCLUDED.is_first_mover, effectiveness_score = EXCLUDED.effectiveness_score,
			noise_ratio = EXCLUDED.noise_ratio, noise_types = EXCLUDED.noise_types,
			effectiveness_note = EXCLUDED.effectiveness_note, assessed_at = now()`,
		q.RawPostID, q.SimilarAuthorCount, q.UniquenessScore, q.IsFirstMover, q.EffectivenessScore,
		q.NoiseRatio, noiseTypesToStrings(q.NoiseTypes), q.EffectivenessNote)
	return err
}

func noiseTypesToStrings(nt []models.NoiseType) []string {
	out := make([]string, len(nt))
	for i, n := range nt {
		out[i] = string(n)
	}
	return out
}
