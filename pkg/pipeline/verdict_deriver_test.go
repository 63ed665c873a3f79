package pipeline

import (
	"testing"
	"time"

	"github.com/anchorwatch/anchor/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestDeriveVerdict_Table(t *testing.T) {
	T, F, U, C := models.EvalResultTrue, models.EvalResultFalse, models.EvalResultUnavailable, models.EvalResultUncertain

	cases := []struct {
		name       string
		supporting []models.EvalResult
		assumption []models.EvalResult
		want       models.Verdict
	}{
		{"no facts at all", nil, nil, models.VerdictUnverifiable},
		{"all unavailable", []models.EvalResult{U, U}, nil, models.VerdictUnverifiable},
		{"assumption false refutes regardless of supporting", []models.EvalResult{T}, []models.EvalResult{F}, models.VerdictRefuted},
		{"supporting false refutes", []models.EvalResult{F, T}, nil, models.VerdictRefuted},
		{"all true confirms", []models.EvalResult{T, T}, nil, models.VerdictConfirmed},
		{"true plus unavailable confirms", []models.EvalResult{T, U}, nil, models.VerdictConfirmed},
		{"true mixed with uncertain is partial", []models.EvalResult{T, C}, nil, models.VerdictPartial},
		{"true mixed with uncertain and unavailable is partial", []models.EvalResult{T}, []models.EvalResult{C, U}, models.VerdictPartial},
		{"only uncertain is pending", []models.EvalResult{C}, nil, models.VerdictPending},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := deriveVerdict(tc.supporting, tc.assumption)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDeriveVerdict_AssumptionFalseBeatsSupportingTrue(t *testing.T) {
	got := deriveVerdict([]models.EvalResult{models.EvalResultTrue, models.EvalResultTrue}, []models.EvalResult{models.EvalResultFalse})
	assert.Equal(t, models.VerdictRefuted, got)
}

func TestEligibleForConclusionVerdict(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	cases := []struct {
		name string
		c    *models.Conclusion
		want bool
	}{
		{"retrospective is always eligible", &models.Conclusion{ConclusionType: models.ConclusionTypeRetrospective}, true},
		{"predictive with unset monitoring is ineligible", &models.Conclusion{ConclusionType: models.ConclusionTypePredictive}, false},
		{"predictive with open window is ineligible", &models.Conclusion{ConclusionType: models.ConclusionTypePredictive, MonitoringEnd: &future}, false},
		{"predictive with closed window is eligible", &models.Conclusion{ConclusionType: models.ConclusionTypePredictive, MonitoringEnd: &past}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, eligibleForConclusionVerdict(tc.c))
		})
	}
}

func TestConclusionStatusForVerdict(t *testing.T) {
	assert.Equal(t, models.ConclusionStatusConfirmed, conclusionStatusForVerdict(models.VerdictConfirmed))
	assert.Equal(t, models.ConclusionStatusRefuted, conclusionStatusForVerdict(models.VerdictRefuted))
	assert.Equal(t, models.ConclusionStatusUnverifiable, conclusionStatusForVerdict(models.VerdictUnverifiable))
	assert.Equal(t, models.ConclusionStatusPending, conclusionStatusForVerdict(models.VerdictPartial))
	assert.Equal(t, models.ConclusionStatusPending, conclusionStatusForVerdict(models.VerdictPending))
}

func TestAggregateSolutionVerdict_Table(t *testing.T) {
	Confirmed, Refuted, Unverifiable, Pending := models.VerdictConfirmed, models.VerdictRefuted, models.VerdictUnverifiable, models.VerdictPending

	cases := []struct {
		name     string
		verdicts []models.Verdict
		want     models.Verdict
	}{
		{"all confirmed", []models.Verdict{Confirmed, Confirmed}, models.VerdictConfirmed},
		{"any refuted wins over confirmed", []models.Verdict{Confirmed, Refuted}, models.VerdictRefuted},
		{"any confirmed mixed with pending is partial", []models.Verdict{Confirmed, Pending}, models.VerdictPartial},
		{"all unverifiable", []models.Verdict{Unverifiable, Unverifiable}, models.VerdictUnverifiable},
		{"all pending stays pending", []models.Verdict{Pending, Pending}, models.VerdictPending},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, aggregateSolutionVerdict(tc.verdicts))
		})
	}
}

func TestSolutionStatusForVerdict(t *testing.T) {
	assert.Equal(t, models.SolutionStatusValidated, solutionStatusForVerdict(models.VerdictConfirmed))
	assert.Equal(t, models.SolutionStatusValidated, solutionStatusForVerdict(models.VerdictPartial))
	assert.Equal(t, models.SolutionStatusInvalidated, solutionStatusForVerdict(models.VerdictRefuted))
	assert.Equal(t, models.SolutionStatusUnverifiable, solutionStatusForVerdict(models.VerdictUnverifiable))
	assert.Equal(t, models.SolutionStatusPending, solutionStatusForVerdict(models.VerdictPending))
}
