package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anchorwatch/anchor/pkg/llm"
	"github.com/anchorwatch/anchor/pkg/models"
	"github.com/anchorwatch/anchor/pkg/prompt"
	"github.com/anchorwatch/anchor/pkg/repository"
)

// PostQualityEvaluator is Op 8, scoring each processed post's content
// uniqueness (a plain repository computation, no LLM) and effectiveness /
// noise (LLM-scored). Grounded on
// original_source/anchor/tracker/post_quality_evaluator.py.
type PostQualityEvaluator struct {
	repo    *repository.Repository
	gateway llm.Gateway
}

func NewPostQualityEvaluator(repo *repository.Repository, gateway llm.Gateway) *PostQualityEvaluator {
	return &PostQualityEvaluator{repo: repo, gateway: gateway}
}

type postQualityResult struct {
	EffectivenessScore *float64 `json:"effectiveness_score"`
	EffectivenessNote  *string  `json:"effectiveness_note"`
	NoiseRatio         *float64 `json:"noise_ratio"`
	NoiseTypes         []string `json:"noise_types"`
}

// Run scores every processed post missing a quality assessment, up to limit.
func (e *PostQualityEvaluator) Run(ctx context.Context, limit int) (int, error) {
	posts, err := e.repo.ProcessedPostsMissingQuality(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("pipeline: list posts missing quality assessment: %w", err)
	}

	count := 0
	for _, p := range posts {
		if err := e.evaluateOne(ctx, p); err != nil {
			slog.Warn("pipeline: post quality evaluator failed", "post_id", p.ID, "error", err)
			continue
		}
		count++
	}
	return count, nil
}

func (e *PostQualityEvaluator) evaluateOne(ctx context.Context, post *models.RawPost) error {
	similarCount, firstMover, err := e.uniqueness(ctx, post)
	if err != nil {
		return err
	}
	// uniqueness_score = 1/(1 + 0.4*similar_author_count), spec.md §4.7/§8.
	uniqueness := 1.0 / (1.0 + 0.4*float64(similarCount))

	effectiveness, effNote, noiseRatio, noiseTypes := e.llmScore(ctx, post)

	return e.repo.UpsertPostQuality(ctx, &models.PostQualityAssessment{
		RawPostID:          post.ID,
		SimilarAuthorCount: &similarCount,
		UniquenessScore:    &uniqueness,
		IsFirstMover:       &firstMover,
		EffectivenessScore: &effectiveness,
		NoiseRatio:         noiseRatio,
		NoiseTypes:         noiseTypes,
		EffectivenessNote:  effNote,
	})
}

// uniqueness scans a post's own Facts and Conclusions for canonical claims
// shared with other authors, and whether any of them was posted first
// elsewhere (spec.md §4.7 Op 8).
func (e *PostQualityEvaluator) uniqueness(ctx context.Context, post *models.RawPost) (int, bool, error) {
	facts, err := e.repo.FactsForPost(ctx, post.ID)
	if err != nil {
		return 0, false, err
	}
	conclusions, err := e.repo.ConclusionsForPost(ctx, post.ID)
	if err != nil {
		return 0, false, err
	}

	maxSimilar := 0
	firstMover := true

	for _, f := range facts {
		n, err := e.repo.CountSimilarCanonicalClaims(ctx, f.CanonicalClaim, post.ID)
		if err != nil {
			return 0, false, err
		}
		if n > maxSimilar {
			maxSimilar = n
		}
		earlier, err := e.repo.EarlierCanonicalClaimExists(ctx, f.CanonicalClaim, post.PostedAt, post.ID)
		if err != nil {
			return 0, false, err
		}
		if earlier {
			firstMover = false
		}
	}

	for _, c := range conclusions {
		n, err := e.repo.CountSimilarConclusionClaims(ctx, c.CanonicalClaim, c.AuthorID)
		if err != nil {
			return 0, false, err
		}
		if n > maxSimilar {
			maxSimilar = n
		}
		earlier, err := e.repo.EarlierConclusionClaimExists(ctx, c.CanonicalClaim, post.PostedAt, c.AuthorID)
		if err != nil {
			return 0, false, err
		}
		if earlier {
			firstMover = false
		}
	}

	return maxSimilar, firstMover, nil
}

// llmScore never fails the operator: on any gateway or parse failure it
// defaults effectiveness to 0.5 (spec.md §4.7 Op 8) and leaves noise
// fields nil rather than blocking the uniqueness write.
func (e *PostQualityEvaluator) llmScore(ctx context.Context, post *models.RawPost) (float64, *string, *float64, []models.NoiseType) {
	content := post.Content
	if post.EnrichedContent != nil {
		content = *post.EnrichedContent
	}

	completion, err := e.gateway.Complete(ctx, prompt.PostQualityEvaluatorSystem, content, defaultMaxTokens)
	if err != nil || completion == nil {
		return 0.5, nil, nil, nil
	}

	var parsed postQualityResult
	if !llm.ExtractJSON(completion.Content, &parsed) {
		return 0.5, nil, nil, nil
	}

	effectiveness := 0.5
	if parsed.EffectivenessScore != nil {
		effectiveness = clamp01(*parsed.EffectivenessScore)
	}

	var noiseRatio *float64
	if parsed.NoiseRatio != nil {
		r := clamp01(*parsed.NoiseRatio)
		noiseRatio = &r
	}

	var noiseTypes []models.NoiseType
	for _, nt := range parsed.NoiseTypes {
		t := models.NoiseType(strings.TrimSpace(nt))
		switch t {
		case models.NoiseEmotionalRhetoric, models.NoiseEntertainment, models.NoiseFiller:
			noiseTypes = append(noiseTypes, t)
		}
	}

	return effectiveness, parsed.EffectivenessNote, noiseRatio, noiseTypes
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
