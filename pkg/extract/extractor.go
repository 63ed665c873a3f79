// Package extract is the Claim Extractor (C5): one LLM call per raw post,
// turning its content into Facts, Conclusions, Solutions, and the Logic
// edges between them, then writing the whole graph in one transaction.
// Grounded on original_source/extractor.py.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anchorwatch/anchor/pkg/llm"
	"github.com/anchorwatch/anchor/pkg/models"
	"github.com/anchorwatch/anchor/pkg/prompt"
	"github.com/anchorwatch/anchor/pkg/repository"
)

const maxTokens = 8000

// Extractor runs claim extraction for one post at a time.
type Extractor struct {
	gateway      llm.Gateway
	repo         *repository.Repository
	promptVer    string
	prompts      *prompt.Registry
}

// New constructs an Extractor bound to a prompt version. An unknown
// version is a startup-time configuration error, not a runtime one —
// callers resolve it once when building the pipeline.
func New(gateway llm.Gateway, repo *repository.Repository, prompts *prompt.Registry, promptVersion string) (*Extractor, error) {
	if _, ok := prompts.Extraction(promptVersion); !ok {
		return nil, fmt.Errorf("unknown extraction prompt version %q", promptVersion)
	}
	return &Extractor{gateway: gateway, repo: repo, promptVer: promptVersion, prompts: prompts}, nil
}

// Run extracts claim graphs for every unprocessed post, up to limit.
func (e *Extractor) Run(ctx context.Context, limit int) (int, error) {
	posts, err := e.repo.UnprocessedPosts(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("extraction: list unprocessed posts: %w", err)
	}

	count := 0
	for _, post := range posts {
		wrote, err := e.Extract(ctx, post)
		if err != nil {
			slog.Warn("extraction: failed", "raw_post_id", post.ID, "error", err)
			continue
		}
		if wrote {
			count++
		}
	}
	return count, nil
}

// Extract runs one post through the extraction LLM call and writes the
// resulting claim graph. Returns (false, nil) when the post was judged
// irrelevant content (skip_reason set) or the LLM call failed — both are
// routine outcomes, not errors.
func (e *Extractor) Extract(ctx context.Context, post *models.RawPost) (bool, error) {
	if post.IsProcessed {
		return false, nil
	}

	content := post.Content
	if post.EnrichedContent != nil {
		content = *post.EnrichedContent
	}
	if mediaDesc := e.describeMedia(ctx, post); mediaDesc != "" {
		content = content + "\n\n" + mediaDesc
	}

	tmpl, _ := e.prompts.Extraction(e.promptVer)
	userMsg := tmpl.BuildUserMessage(content, post.Source, post.AuthorName)

	completion, err := e.gateway.Complete(ctx, tmpl.SystemPrompt, userMsg, maxTokens)
	if err != nil {
		return false, err
	}
	if completion == nil {
		return false, nil
	}

	var result extractionResult
	if !llm.ExtractJSON(completion.Content, &result) {
		slog.Warn("extraction: failed to parse LLM output", "raw_post_id", post.ID)
		return false, nil
	}

	if !result.IsRelevantContent {
		slog.Info("extraction: post skipped as irrelevant", "raw_post_id", post.ID, "reason", result.SkipReason)
		return false, e.repo.MarkPostProcessed(ctx, post.ID)
	}

	author, err := e.repo.GetOrCreateAuthor(ctx, post.Source, post.AuthorPlatformID, post.AuthorName)
	if err != nil {
		return false, err
	}

	graph, err := e.buildClaimGraph(ctx, post, author, &result)
	if err != nil {
		return false, err
	}

	if err := e.repo.WriteClaimGraph(ctx, post.ID, graph); err != nil {
		return false, err
	}

	slog.Info("extraction: post processed", "raw_post_id", post.ID,
		"facts", len(result.Facts), "conclusions", len(result.Conclusions),
		"solutions", len(result.Solutions), "logics", len(result.Logics))
	return true, nil
}

func (e *Extractor) buildClaimGraph(ctx context.Context, post *models.RawPost, author *models.Author, result *extractionResult) (*repository.ClaimGraph, error) {
	g := &repository.ClaimGraph{}

	for _, ef := range result.Facts {
		status := models.FactStatusPending
		if !ef.IsVerifiable {
			status = models.FactStatusUnverifiable
		}
		f := &models.Fact{
			Claim:                ef.Claim,
			CanonicalClaim:       ef.CanonicalClaim,
			VerifiableExpression: ef.VerifiableExpression,
			IsVerifiable:         ef.IsVerifiable,
			VerificationMethod:   ef.VerificationMethod,
			ValidityStart:        parseTimeNote(ef.ValidityStartNote),
			ValidityEnd:          parseTimeNote(ef.ValidityEndNote),
			Status:               status,
		}
		var refs []*models.VerificationReference
		for _, ref := range ef.SuggestedReferences {
			r := ref
			refs = append(refs, &models.VerificationReference{
				Organization:    r.Organization,
				DataDescription: r.DataDescription,
				URL:             r.URL,
				URLNote:         r.URLNote,
			})
		}
		g.Facts = append(g.Facts, f)
		g.References = append(g.References, refs)
	}

	for _, ec := range result.Conclusions {
		topic, err := e.repo.GetOrCreateTopic(ctx, ec.Topic)
		if err != nil {
			return nil, err
		}
		g.Conclusions = append(g.Conclusions, &models.Conclusion{
			SourceURL:       post.URL,
			AuthorID:        author.ID,
			TopicID:         &topic.ID,
			Claim:           ec.Claim,
			CanonicalClaim:  ec.CanonicalClaim,
			ConclusionType:  ec.ConclusionType,
			TimeHorizonNote: ec.TimeHorizonNote,
			ValidFrom:       parseTimeNote(ec.TimeHorizonNote),
			ValidUntil:      parseTimeNote(ec.ValidUntilNote),
			PostedAt:        post.PostedAt,
		})
	}

	for _, es := range result.Solutions {
		g.Solutions = append(g.Solutions, &models.Solution{
			SourceURL:       post.URL,
			AuthorID:        author.ID,
			Claim:           es.Claim,
			ActionType:      es.ActionType,
			ActionTarget:    es.ActionTarget,
			ActionRationale: es.ActionRationale,
			PostedAt:        post.PostedAt,
		})
	}

	for _, el := range result.Logics {
		switch el.LogicType {
		case models.LogicTypeInference:
			if el.TargetIndex == nil || *el.TargetIndex < 0 || *el.TargetIndex >= len(g.Conclusions) {
				slog.Warn("extraction: inference logic target_index out of range, skipping", "raw_post_id", post.ID)
				continue
			}
			idx := *el.TargetIndex
			g.Logics = append(g.Logics, &repository.LogicWrite{
				LogicType:               models.LogicTypeInference,
				ConclusionIndex:         &idx,
				SupportingFactIndexes:   boundedIndexes(el.SupportingFactIndices, len(g.Facts)),
				AssumptionFactIndexes:   boundedIndexes(el.AssumptionFactIndices, len(g.Facts)),
			})
		case models.LogicTypeDerivation:
			if el.SolutionIndex == nil || *el.SolutionIndex < 0 || *el.SolutionIndex >= len(g.Solutions) {
				slog.Warn("extraction: derivation logic solution_index out of range, skipping", "raw_post_id", post.ID)
				continue
			}
			idx := *el.SolutionIndex
			g.Logics = append(g.Logics, &repository.LogicWrite{
				LogicType:               models.LogicTypeDerivation,
				SolutionIndex:           &idx,
				SourceConclusionIndexes: boundedIndexes(el.SourceConclusionIndices, len(g.Conclusions)),
			})
		default:
			slog.Warn("extraction: unknown logic_type, skipping", "raw_post_id", post.ID, "logic_type", el.LogicType)
		}
	}

	return g, nil
}

func boundedIndexes(indexes []int, n int) []int {
	out := make([]int, 0, len(indexes))
	for _, i := range indexes {
		if i >= 0 && i < n {
			out = append(out, i)
		}
	}
	return out
}

// parseTimeNote best-effort-parses a free-text time note into a time. A
// note the parser can't make sense of is simply dropped; it's advisory
// context for later operators, never load-bearing on its own.
func parseTimeNote(note *string) *time.Time {
	if note == nil || *note == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01", "2006"} {
		if t, err := time.Parse(layout, *note); err == nil {
			return &t
		}
	}
	return nil
}
