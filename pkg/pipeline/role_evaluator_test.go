package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/anchorwatch/anchor/pkg/llm"
	"github.com/anchorwatch/anchor/pkg/models"
	"github.com/stretchr/testify/assert"
)

type fakeGateway struct {
	completion *llm.Completion
	err        error
}

func (f *fakeGateway) Complete(ctx context.Context, system, user string, maxTokens int) (*llm.Completion, error) {
	return f.completion, f.err
}

func (f *fakeGateway) CompleteVision(ctx context.Context, system, user, imageURL string, maxTokens int) (*llm.Completion, error) {
	return f.completion, f.err
}

func (f *fakeGateway) TranscribeAudio(ctx context.Context, path, language string) (string, error) {
	return "", nil
}

func testAuthor() *models.Author {
	return &models.Author{ID: 1, Platform: "twitter", Name: "someone"}
}

func TestRoleEvaluator_Evaluate_GatewayError(t *testing.T) {
	e := NewRoleEvaluator(nil, &fakeGateway{err: errors.New("boom")})
	fit, note := e.evaluate(context.Background(), testAuthor(), "claim")
	assert.Equal(t, models.RoleFitQuestionable, fit)
	assert.Nil(t, note)
}

func TestRoleEvaluator_Evaluate_NilCompletion(t *testing.T) {
	e := NewRoleEvaluator(nil, &fakeGateway{completion: nil, err: nil})
	fit, note := e.evaluate(context.Background(), testAuthor(), "claim")
	assert.Equal(t, models.RoleFitQuestionable, fit)
	assert.Nil(t, note)
}

func TestRoleEvaluator_Evaluate_UnparseableJSON(t *testing.T) {
	e := NewRoleEvaluator(nil, &fakeGateway{completion: &llm.Completion{Content: "not json at all"}})
	fit, note := e.evaluate(context.Background(), testAuthor(), "claim")
	assert.Equal(t, models.RoleFitQuestionable, fit)
	assert.Nil(t, note)
}

func TestRoleEvaluator_Evaluate_UnrecognizedRoleFitValue(t *testing.T) {
	e := NewRoleEvaluator(nil, &fakeGateway{completion: &llm.Completion{Content: `{"role_fit": "definitely_expert"}`}})
	fit, _ := e.evaluate(context.Background(), testAuthor(), "claim")
	assert.Equal(t, models.RoleFitQuestionable, fit)
}

func TestRoleEvaluator_Evaluate_ValidRecognizedValuePassesThrough(t *testing.T) {
	note := "economist commenting within their field"
	e := NewRoleEvaluator(nil, &fakeGateway{completion: &llm.Completion{
		Content: `{"role_fit": "appropriate", "role_fit_note": "economist commenting within their field"}`,
	}})
	fit, gotNote := e.evaluate(context.Background(), testAuthor(), "claim")
	assert.Equal(t, models.RoleFitAppropriate, fit)
	if assert.NotNil(t, gotNote) {
		assert.Equal(t, note, *gotNote)
	}
}

func TestRoleEvaluator_Evaluate_MismatchedPassesThrough(t *testing.T) {
	e := NewRoleEvaluator(nil, &fakeGateway{completion: &llm.Completion{Content: `{"role_fit": "mismatched"}`}})
	fit, _ := e.evaluate(context.Background(), testAuthor(), "claim")
	assert.Equal(t, models.RoleFitMismatched, fit)
}
