package llm

import (
	"context"
	"log/slog"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicGateway backs the Gateway interface with Anthropic's Messages
// API via the official SDK. ASR is not available on this backend; a
// separate OpenAI-compatible gateway instance handles TranscribeAudio
// when ASRBaseURL is configured (spec.md §4.2's "transcribe_audio" is
// documented as independent of the text-completion provider choice).
type AnthropicGateway struct {
	client      anthropic.Client
	model       string
	visionModel string
}

// NewAnthropicGateway constructs a Gateway backed by api.anthropic.com.
func NewAnthropicGateway(apiKey, model, visionModel string) *AnthropicGateway {
	return &AnthropicGateway{
		client:      anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:       model,
		visionModel: visionModel,
	}
}

func (g *AnthropicGateway) Complete(ctx context.Context, system, user string, maxTokens int) (*Completion, error) {
	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: int64(maxTokens),
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		slog.Warn("anthropic completion failed", "error", err)
		return nil, nil
	}
	return toCompletion(msg), nil
}

func (g *AnthropicGateway) CompleteVision(ctx context.Context, system, user, imageURL string, maxTokens int) (*Completion, error) {
	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.visionModel),
		MaxTokens: int64(maxTokens),
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64("url", imageURL),
				anthropic.NewTextBlock(user),
			),
		},
	})
	if err != nil {
		slog.Warn("anthropic vision completion failed", "error", err, "image_url", imageURL)
		return nil, nil
	}
	return toCompletion(msg), nil
}

// TranscribeAudio is not implemented by the Anthropic backend; the gateway
// wiring in cmd/worker routes ASR calls to an OpenAI-compatible client
// instead (spec.md §4.2).
func (g *AnthropicGateway) TranscribeAudio(ctx context.Context, path, language string) (string, error) {
	return "", nil
}

func toCompletion(msg *anthropic.Message) *Completion {
	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return &Completion{
		Content:      text,
		Model:        string(msg.Model),
		InputTokens:  int(msg.Usage.InputTokens),
		OutputTokens: int(msg.Usage.OutputTokens),
	}
}
