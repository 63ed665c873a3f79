// Package llm is the LLM Gateway (C2): a small, provider-agnostic surface
// every pipeline operator and the claim extractor calls through. Per
// spec.md §4.2, failures are reported as a nil *Completion, never as a Go
// error — an explicit, deliberate deviation from normal Go error-return
// idiom, made because every caller in this system already treats "the
// model didn't answer" as just another data outcome to route around
// (skip this operator pass, retry next hour), not a program fault.
package llm

import "context"

// Completion is one successful LLM call's result.
type Completion struct {
	Content      string
	Model        string
	InputTokens  int
	OutputTokens int
}

// Gateway is implemented by each provider backend (Anthropic, OpenAI-compatible).
type Gateway interface {
	// Complete sends a single system+user turn and returns the model's
	// reply. Returns nil, nil on any failure (timeout, rate limit,
	// malformed response) — callers must nil-check, not err-check.
	Complete(ctx context.Context, system, user string, maxTokens int) (*Completion, error)

	// CompleteVision is Complete plus one image, used by operators that
	// examine screenshots or charts attached to a post.
	CompleteVision(ctx context.Context, system, user, imageURL string, maxTokens int) (*Completion, error)

	// TranscribeAudio converts a local audio file to text. Returns "", nil
	// when no ASR backend is configured (graceful absence, same contract
	// as the other two methods).
	TranscribeAudio(ctx context.Context, path, language string) (string, error)
}
