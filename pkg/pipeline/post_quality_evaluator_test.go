package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/anchorwatch/anchor/pkg/llm"
	"github.com/anchorwatch/anchor/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(-1.5))
	assert.Equal(t, 1.0, clamp01(2.5))
	assert.Equal(t, 0.42, clamp01(0.42))
}

func TestPostQualityEvaluator_LLMScore_GatewayErrorDefaults(t *testing.T) {
	e := NewPostQualityEvaluator(nil, &fakeGateway{err: errors.New("boom")})
	eff, note, noiseRatio, noiseTypes := e.llmScore(context.Background(), &models.RawPost{Content: "hello"})
	assert.Equal(t, 0.5, eff)
	assert.Nil(t, note)
	assert.Nil(t, noiseRatio)
	assert.Nil(t, noiseTypes)
}

func TestPostQualityEvaluator_LLMScore_NilCompletionDefaults(t *testing.T) {
	e := NewPostQualityEvaluator(nil, &fakeGateway{completion: nil})
	eff, note, noiseRatio, noiseTypes := e.llmScore(context.Background(), &models.RawPost{Content: "hello"})
	assert.Equal(t, 0.5, eff)
	assert.Nil(t, note)
	assert.Nil(t, noiseRatio)
	assert.Nil(t, noiseTypes)
}

func TestPostQualityEvaluator_LLMScore_UnparseableJSONDefaults(t *testing.T) {
	e := NewPostQualityEvaluator(nil, &fakeGateway{completion: &llm.Completion{Content: "garbage"}})
	eff, _, _, _ := e.llmScore(context.Background(), &models.RawPost{Content: "hello"})
	assert.Equal(t, 0.5, eff)
}

func TestPostQualityEvaluator_LLMScore_ClampsOutOfRangeScores(t *testing.T) {
	e := NewPostQualityEvaluator(nil, &fakeGateway{completion: &llm.Completion{
		Content: `{"effectiveness_score": 1.8, "noise_ratio": -0.3}`,
	}})
	eff, _, noiseRatio, _ := e.llmScore(context.Background(), &models.RawPost{Content: "hello"})
	assert.Equal(t, 1.0, eff)
	if assert.NotNil(t, noiseRatio) {
		assert.Equal(t, 0.0, *noiseRatio)
	}
}

func TestPostQualityEvaluator_LLMScore_FiltersUnknownNoiseTypes(t *testing.T) {
	e := NewPostQualityEvaluator(nil, &fakeGateway{completion: &llm.Completion{
		Content: `{"effectiveness_score": 0.7, "noise_types": ["emotional_rhetoric", "made_up_type", "filler"]}`,
	}})
	_, _, _, noiseTypes := e.llmScore(context.Background(), &models.RawPost{Content: "hello"})
	assert.ElementsMatch(t, []models.NoiseType{models.NoiseEmotionalRhetoric, models.NoiseFiller}, noiseTypes)
}

func TestPostQualityEvaluator_LLMScore_UsesEnrichedContentWhenPresent(t *testing.T) {
	enriched := "enriched text"
	e := NewPostQualityEvaluator(nil, &fakeGateway{completion: &llm.Completion{Content: `{"effectiveness_score": 0.9}`}})
	eff, _, _, _ := e.llmScore(context.Background(), &models.RawPost{Content: "raw", EnrichedContent: &enriched})
	assert.Equal(t, 0.9, eff)
}
