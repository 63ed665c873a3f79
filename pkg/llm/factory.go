package llm

import (
	"context"
	"fmt"

	"github.com/anchorwatch/anchor/pkg/config"
)

// NewGateway builds the configured Gateway backend. ASR always goes
// through an OpenAI-compatible client regardless of the text-completion
// provider, since Anthropic has no transcription endpoint.
func NewGateway(cfg *config.Settings) (Gateway, error) {
	switch cfg.LLM.Provider {
	case config.LLMProviderAnthropic:
		return &compositeGateway{
			text: NewAnthropicGateway(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.VisionModel),
			asr:  NewOpenAICompatGateway(cfg.LLM.ASRBaseURL, cfg.LLM.ASRAPIKey, cfg.LLM.Model, cfg.LLM.VisionModel, cfg.LLM.ASRBaseURL, cfg.LLM.ASRAPIKey, cfg.LLM.ASRModel, cfg.LLM.RequestTimeout),
		}, nil
	case config.LLMProviderOpenAICompat:
		return NewOpenAICompatGateway(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.VisionModel,
			cfg.LLM.ASRBaseURL, cfg.LLM.ASRAPIKey, cfg.LLM.ASRModel, cfg.LLM.RequestTimeout), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

// compositeGateway routes text/vision completions to one backend and ASR
// to another, used when the primary provider (Anthropic) has no
// transcription endpoint of its own.
type compositeGateway struct {
	text Gateway
	asr  Gateway
}

func (g *compositeGateway) Complete(ctx context.Context, system, user string, maxTokens int) (*Completion, error) {
	return g.text.Complete(ctx, system, user, maxTokens)
}

func (g *compositeGateway) CompleteVision(ctx context.Context, system, user, imageURL string, maxTokens int) (*Completion, error) {
	return g.text.CompleteVision(ctx, system, user, imageURL, maxTokens)
}

func (g *compositeGateway) TranscribeAudio(ctx context.Context, path, language string) (string, error) {
	if g.asr == nil {
		return "", nil
	}
	return g.asr.TranscribeAudio(ctx, path, language)
}
