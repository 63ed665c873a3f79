package pipeline

import (
	"context"
	"testing"

	"github.com/anchorwatch/anchor/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestLogicEvaluator_TargetClaim_UnknownLogicType(t *testing.T) {
	e := NewLogicEvaluator(nil, nil)
	_, err := e.targetClaim(context.Background(), &models.Logic{ID: 1, LogicType: "bogus"})
	assert.Error(t, err)
}

func TestLogicEvaluator_TargetClaim_InferenceMissingConclusionID(t *testing.T) {
	e := NewLogicEvaluator(nil, nil)
	_, err := e.targetClaim(context.Background(), &models.Logic{ID: 1, LogicType: models.LogicTypeInference})
	assert.Error(t, err)
}

func TestLogicEvaluator_TargetClaim_DerivationMissingSolutionID(t *testing.T) {
	e := NewLogicEvaluator(nil, nil)
	_, err := e.targetClaim(context.Background(), &models.Logic{ID: 1, LogicType: models.LogicTypeDerivation})
	assert.Error(t, err)
}

func TestLogicEvaluator_DescribeFacts_EmptyIDs(t *testing.T) {
	e := NewLogicEvaluator(nil, nil)
	out, err := e.describeFacts(context.Background(), nil)
	assert.NoError(t, err)
	assert.Equal(t, "(none)", out)
}
