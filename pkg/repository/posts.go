package repository

import (
	"context"
	"database/sql"

	"github.com/anchorwatch/anchor/pkg/models"
)

// InsertRawPost inserts a newly fetched post. Returns the existing row
// (ok=false) when (source, external_id) already exists, since ingestion
// is expected to re-poll the same feeds repeatedly.
func (r *Repository) InsertRawPost(ctx context.Context, p *models.RawPost) (inserted bool, err error) {
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO raw_posts (source, external_id, content, media_json, author_name,
			author_platform_id, url, posted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (source, external_id) DO NOTHING`,
		p.Source, p.ExternalID, p.Content, p.MediaJSON, p.AuthorName, p.AuthorPlatformID, p.URL, p.PostedAt)
	if err != nil {
		return false, err
	}
	row := r.db.QueryRowContext(ctx, `SELECT id, created_at FROM raw_posts WHERE source = $1 AND external_id = $2`, p.Source, p.ExternalID)
	var id int64
	var createdAt = p.CreatedAt
	if err := row.Scan(&id, &createdAt); err != nil {
		return false, err
	}
	wasNew := p.ID == 0
	p.ID = id
	p.CreatedAt = createdAt
	return wasNew, nil
}

// PostsNeedingContext returns posts the Context Enricher (C6) has not yet run on.
func (r *Repository) PostsNeedingContext(ctx context.Context, limit int) ([]*models.RawPost, error) {
	return r.queryPosts(ctx, `
		SELECT id, source, external_id, content, enriched_content, media_json, author_name,
			author_platform_id, url, posted_at, context_fetched, has_context, is_processed,
			processed_at, created_at
		FROM raw_posts WHERE context_fetched = FALSE ORDER BY posted_at ASC LIMIT $1`, limit)
}

// UnprocessedPosts returns posts ready for claim extraction: context has
// been resolved (fetched, regardless of outcome) and extraction has not
// yet run.
func (r *Repository) UnprocessedPosts(ctx context.Context, limit int) ([]*models.RawPost, error) {
	return r.queryPosts(ctx, `
		SELECT id, source, external_id, content, enriched_content, media_json, author_name,
			author_platform_id, url, posted_at, context_fetched, has_context, is_processed,
			processed_at, created_at
		FROM raw_posts WHERE context_fetched = TRUE AND is_processed = FALSE ORDER BY posted_at ASC LIMIT $1`, limit)
}

func (r *Repository) queryPosts(ctx context.Context, query string, args ...any) ([]*models.RawPost, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
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

// SetPostContext records the Context Enricher's result (idempotent via
// context_fetched).
func (r *Repository) SetPostContext(ctx context.Context, postID int64, enrichedContent *string, hasContext bool) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE raw_posts SET enriched_content = $2, has_context = $3, context_fetched = TRUE WHERE id = $1`,
		postID, enrichedContent, hasContext)
	return err
}

// MarkPostProcessed flips is_processed, set atomically with the claim graph
// write in WriteClaimGraph; exposed separately for the case where
// extraction finds zero claims.
func (r *Repository) MarkPostProcessed(ctx context.Context, postID int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE raw_posts SET is_processed = TRUE, processed_at = now() WHERE id = $1`, postID)
	return err
}

// GetRawPost loads a post by ID.
func (r *Repository) GetRawPost(ctx context.Context, id int64) (*models.RawPost, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, source, external_id, content, enriched_content, media_json, author_name,
			author_platform_id, url, posted_at, context_fetched, has_context, is_processed,
			processed_at, created_at
		FROM raw_posts WHERE id = $1`, id)
	p := &models.RawPost{}
	err := row.Scan(&p.ID, &p.Source, &p.ExternalID, &p.Content, &p.EnrichedContent, &p.MediaJSON,
		&p.AuthorName, &p.AuthorPlatformID, &p.URL, &p.PostedAt, &p.ContextFetched, &p.HasContext,
		&p.IsProcessed, &p.ProcessedAt, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return p, err
}
