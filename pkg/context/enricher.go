// Package context is the Context Enricher (C6): identifies posts that are
// quote-replies, replies, or thread fragments and assembles a fuller
// enriched_content string for the extractor, using platform-specific
// fetchers. Grounded on
// original_source/anchor/collector/context_enricher.py. Idempotent via
// RawPost.ContextFetched — Enrich is a no-op once that flag is set.
package context

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anchorwatch/anchor/pkg/masking"
	"github.com/anchorwatch/anchor/pkg/models"
	"github.com/anchorwatch/anchor/pkg/repository"
)

// Role identifies what part of the surrounding conversation a Piece fills.
type Role string

const (
	RoleQuoted      Role = "quoted"
	RoleParentReply Role = "parent_reply"
	RoleThreadPrev  Role = "thread_prev"
	RoleThreadNext  Role = "thread_next"
)

// Piece is one fragment of surrounding context for a post.
type Piece struct {
	Role    Role
	Author  string
	Content string
	URL     string
}

var roleLabel = map[Role]string{
	RoleQuoted:      "[quoted content]",
	RoleParentReply: "[replying to]",
	RoleThreadPrev:  "[previous in thread]",
	RoleThreadNext:  "[continued in thread]",
}

// PlatformFetcher retrieves surrounding-context pieces for one post on one
// platform. A fetcher that cannot reach its platform (no credentials,
// network failure) returns (nil, nil) rather than an error — missing
// context degrades to "use the post as-is", never blocks the pipeline.
type PlatformFetcher interface {
	FetchContext(ctx context.Context, post *models.RawPost) []Piece
}

// Enricher runs the Context Enricher over posts awaiting enrichment.
type Enricher struct {
	repo     *repository.Repository
	fetchers map[string]PlatformFetcher
	masker   *masking.Service
}

// New builds an Enricher with one fetcher per platform source name
// (e.g. "twitter", "weibo"). A platform with no registered fetcher always
// falls through to "no context available".
func New(repo *repository.Repository, fetchers map[string]PlatformFetcher) *Enricher {
	return &Enricher{repo: repo, fetchers: fetchers, masker: masking.NewService()}
}

// Enrich resolves context for one post and persists the result. Safe to
// call repeatedly; a post with ContextFetched already true is skipped.
func (e *Enricher) Enrich(ctx context.Context, post *models.RawPost) error {
	if post.ContextFetched {
		return nil
	}

	var pieces []Piece
	if fetcher, ok := e.fetchers[post.Source]; ok {
		pieces = fetcher.FetchContext(ctx, post)
	}

	hasContext := len(pieces) > 0
	var enriched *string
	if hasContext {
		assembled := e.masker.Redact(assemble(post.Content, pieces))
		enriched = &assembled
	} else {
		content := e.masker.Redact(post.Content)
		enriched = &content
	}

	if err := e.repo.SetPostContext(ctx, post.ID, enriched, hasContext); err != nil {
		return fmt.Errorf("context: persist result for post %d: %w", post.ID, err)
	}
	return nil
}

// Run enriches every post the repository reports as pending, up to limit.
func (e *Enricher) Run(ctx context.Context, limit int) (int, error) {
	posts, err := e.repo.PostsNeedingContext(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("context: list pending posts: %w", err)
	}

	count := 0
	for _, post := range posts {
		if err := e.Enrich(ctx, post); err != nil {
			slog.Warn("context: enrich failed", "post_id", post.ID, "error", err)
			continue
		}
		count++
	}
	return count, nil
}

// assemble joins context pieces and the main content in the fixed order
// the extractor expects: quoted/parent-reply/thread-previous pieces first,
// then the main post, then any thread continuations.
func assemble(mainContent string, pieces []Piece) string {
	var parts []string

	for _, p := range pieces {
		if p.Role == RoleQuoted || p.Role == RoleParentReply || p.Role == RoleThreadPrev {
			label := roleLabel[p.Role]
			if label == "" {
				label = fmt.Sprintf("[%s]", p.Role)
			}
			parts = append(parts, fmt.Sprintf("%s\nauthor: %s\ncontent: %s", label, p.Author, p.Content))
		}
	}

	parts = append(parts, fmt.Sprintf("[main content]\n%s", mainContent))

	for _, p := range pieces {
		if p.Role == RoleThreadNext {
			parts = append(parts, fmt.Sprintf("%s\n%s", roleLabel[RoleThreadNext], p.Content))
		}
	}

	return strings.Join(parts, "\n\n")
}
