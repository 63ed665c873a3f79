// Package pipeline is the Verification Pipeline (C7): the ten ordered
// operators that enrich the claim graph written by the extractor, assess
// truth and logical integrity, wait out prediction horizons, derive
// verdicts, and maintain author aggregates. Grounded on the per-operator
// original_source tracker scripts named in each operator's file.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anchorwatch/anchor/pkg/llm"
	"github.com/anchorwatch/anchor/pkg/models"
	"github.com/anchorwatch/anchor/pkg/prompt"
	"github.com/anchorwatch/anchor/pkg/repository"
	"github.com/anchorwatch/anchor/pkg/search"
)

const defaultMaxTokens = 2000

// AuthorProfiler is Op 0. Grounded on original_source/anchor/tracker/author_profiler.py.
type AuthorProfiler struct {
	repo     *repository.Repository
	gateway  llm.Gateway
	searcher *search.Searcher
}

func NewAuthorProfiler(repo *repository.Repository, gateway llm.Gateway, searcher *search.Searcher) *AuthorProfiler {
	return &AuthorProfiler{repo: repo, gateway: gateway, searcher: searcher}
}

type profilerResult struct {
	Role            *string `json:"role"`
	ExpertiseAreas  *string `json:"expertise_areas"`
	KnownBiases     *string `json:"known_biases"`
	ProfileNote     *string `json:"profile_note"`
	CredibilityTier int     `json:"credibility_tier"`
}

// Run profiles every author Op 0 has not yet run against. Failure to reach
// a profile still marks the author fetched with the unknown-tier fallback
// (spec §4.7 Op 0), so a single author never blocks the pipeline forever.
func (p *AuthorProfiler) Run(ctx context.Context, limit int) (int, error) {
	authors, err := p.repo.UnprofiledAuthors(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("pipeline: list unprofiled authors: %w", err)
	}

	count := 0
	for _, author := range authors {
		if err := p.profileOne(ctx, author); err != nil {
			slog.Warn("pipeline: author profiler failed", "author_id", author.ID, "error", err)
			continue
		}
		count++
	}
	return count, nil
}

func (p *AuthorProfiler) profileOne(ctx context.Context, author *models.Author) error {
	query := fmt.Sprintf("%s %s background role expertise biography", author.Name, author.Platform)
	results := p.searcher.Search(ctx, query, 5, nil)
	evidence := search.FormatResults(results)

	userMsg := fmt.Sprintf("Author: %s\nPlatform: %s\nBio: %s\n\nSearch evidence:\n%s",
		author.Name, author.Platform, author.Description, evidence)

	completion, err := p.gateway.Complete(ctx, prompt.AuthorProfilerSystem, userMsg, defaultMaxTokens)
	if err != nil {
		return err
	}

	if completion == nil {
		unknown := "profile could not be determined"
		return p.repo.SetAuthorProfile(ctx, author.ID, nil, nil, nil, &unknown, 5)
	}

	var result profilerResult
	if !llm.ExtractJSON(completion.Content, &result) {
		failed := "profile response could not be parsed"
		return p.repo.SetAuthorProfile(ctx, author.ID, nil, nil, nil, &failed, 5)
	}

	tier := result.CredibilityTier
	if tier < 1 || tier > 5 {
		tier = 5
	}
	return p.repo.SetAuthorProfile(ctx, author.ID, result.Role, result.ExpertiseAreas, result.KnownBiases, result.ProfileNote, tier)
}
