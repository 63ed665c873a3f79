package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// OpenAICompatGateway backs the Gateway interface with any OpenAI
// chat-completions-compatible endpoint (Qwen, DeepSeek, a local vLLM
// deployment). No example repo in the corpus ships an OpenAI Go SDK
// dependency, so this talks the wire protocol directly over net/http —
// the one stdlib-only component in the LLM stack, justified in DESIGN.md.
type OpenAICompatGateway struct {
	baseURL     string
	apiKey      string
	model       string
	visionModel string

	asrBaseURL string
	asrAPIKey  string
	asrModel   string

	httpClient *http.Client
}

// NewOpenAICompatGateway constructs a Gateway against an OpenAI-compatible base URL.
func NewOpenAICompatGateway(baseURL, apiKey, model, visionModel, asrBaseURL, asrAPIKey, asrModel string, timeout time.Duration) *OpenAICompatGateway {
	return &OpenAICompatGateway{
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       model,
		visionModel: visionModel,
		asrBaseURL:  asrBaseURL,
		asrAPIKey:   asrAPIKey,
		asrModel:    asrModel,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

func (g *OpenAICompatGateway) Complete(ctx context.Context, system, user string, maxTokens int) (*Completion, error) {
	req := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens: maxTokens,
	}
	return g.post(ctx, req)
}

func (g *OpenAICompatGateway) CompleteVision(ctx context.Context, system, user, imageURL string, maxTokens int) (*Completion, error) {
	req := chatRequest{
		Model: g.visionModel,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: []map[string]any{
				{"type": "text", "text": user},
				{"type": "image_url", "image_url": map[string]string{"url": imageURL}},
			}},
		},
		MaxTokens: maxTokens,
	}
	return g.post(ctx, req)
}

func (g *OpenAICompatGateway) post(ctx context.Context, reqBody chatRequest) (*Completion, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, nil
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, nil
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		slog.Warn("llm completion request failed", "error", err)
		return nil, nil
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		slog.Warn("llm completion non-200", "status", resp.StatusCode, "body", string(respBody))
		return nil, nil
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil || len(parsed.Choices) == 0 {
		slog.Warn("llm completion malformed response", "error", err)
		return nil, nil
	}

	return &Completion{
		Content:      parsed.Choices[0].Message.Content,
		Model:        parsed.Model,
		InputTokens:  parsed.Usage.PromptTokens,
		OutputTokens: parsed.Usage.CompletionTokens,
	}, nil
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// TranscribeAudio posts the file to an OpenAI-compatible /audio/transcriptions
// endpoint. Returns "", nil (no error) when no ASR backend is configured,
// matching every other method's "absence is not failure" contract.
func (g *OpenAICompatGateway) TranscribeAudio(ctx context.Context, path, language string) (string, error) {
	if g.asrBaseURL == "" {
		return "", nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", nil
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", nil
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", nil
	}
	_ = w.WriteField("model", g.asrModel)
	if language != "" {
		_ = w.WriteField("language", language)
	}
	if err := w.Close(); err != nil {
		return "", nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.asrBaseURL+"/audio/transcriptions", &buf)
	if err != nil {
		return "", nil
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+g.asrAPIKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		slog.Warn("asr request failed", "error", err)
		return "", nil
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode != http.StatusOK {
		return "", nil
	}

	var parsed transcriptionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", nil
	}
	return parsed.Text, nil
}
