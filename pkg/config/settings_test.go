package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"DATABASE_URL", "LLM_PROVIDER", "LLM_API_KEY", "ANTHROPIC_API_KEY",
		"LLM_BASE_URL", "LLM_MODEL", "LLM_VISION_MODEL", "ASR_API_KEY",
		"ASR_BASE_URL", "ASR_MODEL", "LLM_REQUEST_TIMEOUT", "TAVILY_API_KEY",
		"FRED_API_KEY", "BLS_API_KEY", "TWITTER_BEARER_TOKEN",
		"SCHEDULER_INTERVAL", "PROMPT_VERSION", "POST_RETENTION_DAYS",
		"CLEANUP_INTERVAL", "HTTP_PORT",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingDatabaseURLFails(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_API_KEY", "key")
	_, err := Load()
	require.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestLoad_OpenAICompatWithoutBaseURLFails(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/anchor")
	t.Setenv("LLM_API_KEY", "key")
	t.Setenv("LLM_PROVIDER", "openai_compat")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM_BASE_URL")
}

func TestLoad_DefaultsApplied(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/anchor")
	t.Setenv("LLM_API_KEY", "key")

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, LLMProviderAnthropic, s.LLM.Provider)
	assert.Equal(t, "claude-sonnet-4-5", s.LLM.Model)
	assert.Equal(t, s.LLM.Model, s.LLM.VisionModel)
	assert.Equal(t, 45*time.Second, s.LLM.RequestTimeout)
	assert.Equal(t, 1*time.Hour, s.SchedulerInterval)
	assert.Equal(t, "v1_identify", s.PromptVersion)
	assert.Equal(t, 365, s.PostRetentionDays)
	assert.Equal(t, 12*time.Hour, s.CleanupInterval)
	assert.Equal(t, "8080", s.HTTPPort)
}

func TestLoad_VisionModelOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/anchor")
	t.Setenv("LLM_API_KEY", "key")
	t.Setenv("LLM_VISION_MODEL", "claude-vision-1")

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "claude-vision-1", s.LLM.VisionModel)
}

func TestLoad_APIKeyFallsBackToAnthropicEnvVar(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/anchor")
	t.Setenv("ANTHROPIC_API_KEY", "anthropic-key")

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "anthropic-key", s.LLM.APIKey)
}

func TestSettings_Retention(t *testing.T) {
	s := &Settings{PostRetentionDays: 42, CleanupInterval: 3 * time.Hour}
	r := s.Retention()
	assert.Equal(t, 42, r.PostRetentionDays)
	assert.Equal(t, 3*time.Hour, r.CleanupInterval)
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("SOME_KEY_X", "")
	assert.Equal(t, "fallback", getEnvOrDefault("SOME_KEY_X", "fallback"))
	t.Setenv("SOME_KEY_X", "actual")
	assert.Equal(t, "actual", getEnvOrDefault("SOME_KEY_X", "fallback"))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}

func TestDurationOrDefault(t *testing.T) {
	t.Setenv("SOME_DURATION_X", "")
	assert.Equal(t, 5*time.Minute, durationOrDefault("SOME_DURATION_X", 5*time.Minute))
	t.Setenv("SOME_DURATION_X", "10s")
	assert.Equal(t, 10*time.Second, durationOrDefault("SOME_DURATION_X", 5*time.Minute))
	t.Setenv("SOME_DURATION_X", "not-a-duration")
	assert.Equal(t, 5*time.Minute, durationOrDefault("SOME_DURATION_X", 5*time.Minute))
}

func TestIntOrDefault(t *testing.T) {
	t.Setenv("SOME_INT_X", "")
	assert.Equal(t, 7, intOrDefault("SOME_INT_X", 7))
	t.Setenv("SOME_INT_X", "99")
	assert.Equal(t, 99, intOrDefault("SOME_INT_X", 7))
	t.Setenv("SOME_INT_X", "not-a-number")
	assert.Equal(t, 7, intOrDefault("SOME_INT_X", 7))
}
