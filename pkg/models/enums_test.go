package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFactStatus_Valid(t *testing.T) {
	assert.True(t, FactStatusPending.Valid())
	assert.True(t, FactStatusVerifiedTrue.Valid())
	assert.True(t, FactStatusVerifiedFalse.Valid())
	assert.True(t, FactStatusUnverifiable.Valid())
	assert.False(t, FactStatus("bogus").Valid())
}

func TestLogicCompleteness_RigorScore(t *testing.T) {
	cases := []struct {
		c    LogicCompleteness
		want float64
	}{
		{LogicCompletenessComplete, 1.0},
		{LogicCompletenessPartial, 0.6},
		{LogicCompletenessWeak, 0.3},
		{LogicCompletenessInvalid, 0.0},
	}
	for _, tc := range cases {
		got, ok := tc.c.RigorScore()
		assert.True(t, ok)
		assert.Equal(t, tc.want, got)
	}

	_, ok := LogicCompleteness("bogus").RigorScore()
	assert.False(t, ok)
}

func TestRelationType_Valid(t *testing.T) {
	assert.True(t, RelationSupports.Valid())
	assert.True(t, RelationContextualizes.Valid())
	assert.True(t, RelationContradicts.Valid())
	assert.False(t, RelationType("bogus").Valid())
}

func TestRoleFit_Valid(t *testing.T) {
	assert.True(t, RoleFitAppropriate.Valid())
	assert.True(t, RoleFitQuestionable.Valid())
	assert.True(t, RoleFitMismatched.Valid())
	assert.False(t, RoleFit("bogus").Valid())
}

func TestParseEvalResult_RecognizedValues(t *testing.T) {
	assert.Equal(t, EvalResultTrue, ParseEvalResult("true"))
	assert.Equal(t, EvalResultFalse, ParseEvalResult("false"))
	assert.Equal(t, EvalResultUncertain, ParseEvalResult("uncertain"))
	assert.Equal(t, EvalResultUnavailable, ParseEvalResult("unavailable"))
}

func TestParseEvalResult_AliasesModelDriftOntoUnavailable(t *testing.T) {
	assert.Equal(t, EvalResultUnavailable, ParseEvalResult("unverifiable"))
	assert.Equal(t, EvalResultUnavailable, ParseEvalResult("unknown"))
}

func TestParseEvalResult_UnrecognizedDefaultsToUnavailable(t *testing.T) {
	assert.Equal(t, EvalResultUnavailable, ParseEvalResult("garbage"))
	assert.Equal(t, EvalResultUnavailable, ParseEvalResult(""))
}
