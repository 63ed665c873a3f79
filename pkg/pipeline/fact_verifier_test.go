package pipeline

import (
	"testing"

	"github.com/anchorwatch/anchor/pkg/models"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestRoutedSourceType_NilMethod(t *testing.T) {
	assert.Equal(t, "", routedSourceType(nil))
}

func TestRoutedSourceType_NoMatch(t *testing.T) {
	assert.Equal(t, "", routedSourceType(strPtr("ask a friend")))
}

func TestRoutedSourceType_MatchesByKeyword(t *testing.T) {
	cases := []struct {
		method string
		want   string
	}{
		{"Check FRED for this series", "fred"},
		{"Federal Reserve Economic Data release", "fred"},
		{"Bureau of Labor Statistics CPI report", "bls"},
		{"BLS employment situation report", "bls"},
		{"World Bank open data", "world_bank"},
		{"IMF World Economic Outlook", "imf"},
		{"International Monetary Fund data", "imf"},
		{"Federal Register filing", "federal_register"},
		{"USITC tariff schedule", "usitc"},
		{"International Trade Commission ruling", "usitc"},
		{"China National Bureau of Statistics", "china_macro"},
		{"pulled via akshare", "china_macro"},
	}
	for _, tc := range cases {
		t.Run(tc.method, func(t *testing.T) {
			assert.Equal(t, tc.want, routedSourceType(&tc.method))
		})
	}
}

func TestRoutedSourceType_CaseInsensitive(t *testing.T) {
	assert.Equal(t, "fred", routedSourceType(strPtr("FRED SERIES CPIAUCSL")))
}

func TestStatusForResult_True(t *testing.T) {
	status, changed := statusForResult(models.EvalResultTrue)
	assert.True(t, changed)
	assert.Equal(t, models.FactStatusVerifiedTrue, status)
}

func TestStatusForResult_False(t *testing.T) {
	status, changed := statusForResult(models.EvalResultFalse)
	assert.True(t, changed)
	assert.Equal(t, models.FactStatusVerifiedFalse, status)
}

func TestStatusForResult_Unavailable(t *testing.T) {
	status, changed := statusForResult(models.EvalResultUnavailable)
	assert.True(t, changed)
	assert.Equal(t, models.FactStatusUnverifiable, status)
}

func TestStatusForResult_UncertainLeavesUnchanged(t *testing.T) {
	_, changed := statusForResult(models.EvalResultUncertain)
	assert.False(t, changed)
}

func TestDerefOr_Nil(t *testing.T) {
	assert.Equal(t, "fallback", derefOr(nil, "fallback"))
}

func TestDerefOr_NonNil(t *testing.T) {
	assert.Equal(t, "value", derefOr(strPtr("value"), "fallback"))
}
