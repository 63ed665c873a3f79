package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// LLMProviderKind selects which wire protocol the LLM Gateway speaks.
type LLMProviderKind string

const (
	// LLMProviderAnthropic backs the gateway with the Anthropic Messages API.
	LLMProviderAnthropic LLMProviderKind = "anthropic"
	// LLMProviderOpenAICompat backs the gateway with an OpenAI-compatible
	// chat-completions endpoint (Qwen, DeepSeek, and similar).
	LLMProviderOpenAICompat LLMProviderKind = "openai_compat"
)

// LLMSettings configures the LLM Gateway (C2) backend.
type LLMSettings struct {
	Provider     LLMProviderKind `validate:"required,oneof=anthropic openai_compat"`
	APIKey       string          `validate:"required"`
	BaseURL      string          // required for openai_compat, ignored for anthropic
	Model        string          `validate:"required"`
	VisionModel  string          // falls back to Model when empty
	ASRAPIKey    string
	ASRBaseURL   string
	ASRModel     string // default "whisper-1"
	RequestTimeout time.Duration
}

// Settings is the immutable, process-wide configuration record. Built once
// at startup by Load and injected into every component that needs it;
// nothing in the module reads os.Getenv directly after Load returns
// (spec.md §9 "one immutable settings record ... forbid mutable globals").
type Settings struct {
	DatabaseURL string `validate:"required"`

	LLM LLMSettings `validate:"required"`

	TavilyAPIKey string // optional; web search degrades silently when absent

	FREDAPIKey string // optional
	BLSAPIKey  string // optional

	TwitterBearerToken string // optional; context enrichment degrades to "no context" when absent

	SchedulerInterval time.Duration `validate:"required"`
	PromptVersion     string        `validate:"required"`

	PostRetentionDays int           `validate:"min=1"`
	CleanupInterval   time.Duration `validate:"required"`

	HTTPPort string `validate:"required"`
}

// Retention extracts the RetentionConfig subset of Settings for pkg/cleanup.
func (s *Settings) Retention() *RetentionConfig {
	return &RetentionConfig{
		PostRetentionDays: s.PostRetentionDays,
		CleanupInterval:   s.CleanupInterval,
	}
}

var validate = validator.New()

// Load builds Settings from the process environment. A missing required
// value or an invalid combination returns a *ConfigError (fatal at startup,
// per spec.md §7).
func Load() (*Settings, error) {
	s := &Settings{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		LLM: LLMSettings{
			Provider:       LLMProviderKind(getEnvOrDefault("LLM_PROVIDER", string(LLMProviderAnthropic))),
			APIKey:         firstNonEmpty(os.Getenv("LLM_API_KEY"), os.Getenv("ANTHROPIC_API_KEY")),
			BaseURL:        os.Getenv("LLM_BASE_URL"),
			Model:          getEnvOrDefault("LLM_MODEL", "claude-sonnet-4-5"),
			VisionModel:    os.Getenv("LLM_VISION_MODEL"),
			ASRAPIKey:      os.Getenv("ASR_API_KEY"),
			ASRBaseURL:     os.Getenv("ASR_BASE_URL"),
			ASRModel:       getEnvOrDefault("ASR_MODEL", "whisper-1"),
			RequestTimeout: durationOrDefault("LLM_REQUEST_TIMEOUT", 45*time.Second),
		},
		TavilyAPIKey:         os.Getenv("TAVILY_API_KEY"),
		FREDAPIKey:           os.Getenv("FRED_API_KEY"),
		BLSAPIKey:            os.Getenv("BLS_API_KEY"),
		TwitterBearerToken:   os.Getenv("TWITTER_BEARER_TOKEN"),
		SchedulerInterval:    durationOrDefault("SCHEDULER_INTERVAL", 1*time.Hour),
		PromptVersion:        getEnvOrDefault("PROMPT_VERSION", "v1_identify"),
		PostRetentionDays: intOrDefault("POST_RETENTION_DAYS", 365),
		CleanupInterval:   durationOrDefault("CLEANUP_INTERVAL", 12*time.Hour),
		HTTPPort:             getEnvOrDefault("HTTP_PORT", "8080"),
	}

	if s.LLM.VisionModel == "" {
		s.LLM.VisionModel = s.LLM.Model
	}
	if s.LLM.Provider == LLMProviderOpenAICompat && s.LLM.BaseURL == "" {
		return nil, NewConfigError("LLM_BASE_URL is required when LLM_PROVIDER=openai_compat")
	}

	if err := validate.Struct(s); err != nil {
		return nil, NewConfigError(fmt.Sprintf("invalid configuration: %v", err))
	}

	return s, nil
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func intOrDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
