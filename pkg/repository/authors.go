package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/anchorwatch/anchor/pkg/models"
)

// GetOrCreateAuthor looks up an Author by (platform, platformExternalID),
// inserting a bare row (profile_fetched=false) if none exists. Op 0 fills
// in the profile fields on its own separate pass.
func (r *Repository) GetOrCreateAuthor(ctx context.Context, platform, platformExternalID, name string) (*models.Author, error) {
	a, err := r.getAuthorByIdentity(ctx, r.db, platform, platformExternalID)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO authors (platform, platform_external_id, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (platform, platform_external_id) DO UPDATE SET platform = EXCLUDED.platform
		RETURNING id, platform, platform_external_id, name, description, role, expertise_areas,
			known_biases, credibility_tier, profile_note, profile_fetched, profile_fetched_at, created_at`,
		platform, platformExternalID, name)
	return scanAuthor(row)
}

func (r *Repository) getAuthorByIdentity(ctx context.Context, q querier, platform, platformExternalID string) (*models.Author, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, platform, platform_external_id, name, description, role, expertise_areas,
			known_biases, credibility_tier, profile_note, profile_fetched, profile_fetched_at, created_at
		FROM authors WHERE platform = $1 AND platform_external_id = $2`,
		platform, platformExternalID)
	return scanAuthor(row)
}

// GetAuthor loads an Author by ID.
func (r *Repository) GetAuthor(ctx context.Context, id int64) (*models.Author, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, platform, platform_external_id, name, description, role, expertise_areas,
			known_biases, credibility_tier, profile_note, profile_fetched, profile_fetched_at, created_at
		FROM authors WHERE id = $1`, id)
	return scanAuthor(row)
}

// UnprofiledAuthors returns authors Op 0 (author profiler) has not yet run
// against, oldest-created first, capped at limit.
func (r *Repository) UnprofiledAuthors(ctx context.Context, limit int) ([]*models.Author, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, platform, platform_external_id, name, description, role, expertise_areas,
			known_biases, credibility_tier, profile_note, profile_fetched, profile_fetched_at, created_at
		FROM authors WHERE profile_fetched = FALSE ORDER BY created_at ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Author
	for rows.Next() {
		a, err := scanAuthorRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// AllAuthorIDs returns every Author ID, oldest-created first, for Op 9
// (author stats updater), which always recomputes every author.
func (r *Repository) AllAuthorIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM authors ORDER BY created_at ASC`)
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

// SetAuthorProfile records Op 0's findings. CredibilityTier, once set, is
// never rewritten by any later operator (spec.md §3).
func (r *Repository) SetAuthorProfile(ctx context.Context, authorID int64, role, expertiseAreas, knownBiases, profileNote *string, credibilityTier int) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		UPDATE authors SET role = $2, expertise_areas = $3, known_biases = $4, profile_note = $5,
			credibility_tier = $6, profile_fetched = TRUE, profile_fetched_at = $7
		WHERE id = $1`,
		authorID, role, expertiseAreas, knownBiases, profileNote, credibilityTier, now)
	return err
}

// MarkAuthorProfileFetched marks the profiling attempt done without setting
// tier data, used on the Op 0 failure path (spec.md explicit tier=5 fallback
// is applied by the caller before invoking this, via SetAuthorProfile).
func (r *Repository) MarkAuthorProfileFetched(ctx context.Context, authorID int64) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `UPDATE authors SET profile_fetched = TRUE, profile_fetched_at = $2 WHERE id = $1`, authorID, now)
	return err
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func scanAuthor(row *sql.Row) (*models.Author, error) {
	a := &models.Author{}
	err := row.Scan(&a.ID, &a.Platform, &a.PlatformExternalID, &a.Name, &a.Description, &a.Role,
		&a.ExpertiseAreas, &a.KnownBiases, &a.CredibilityTier, &a.ProfileNote, &a.ProfileFetched,
		&a.ProfileFetchedAt, &a.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func scanAuthorRows(rows *sql.Rows) (*models.Author, error) {
	a := &models.Author{}
	err := rows.Scan(&a.ID, &a.Platform, &a.PlatformExternalID, &a.Name, &a.Description, &a.Role,
		&a.ExpertiseAreas, &a.KnownBiases, &a.CredibilityTier, &a.ProfileNote, &a.ProfileFetched,
		&a.ProfileFetchedAt, &a.CreatedAt)
	return a, err
}
