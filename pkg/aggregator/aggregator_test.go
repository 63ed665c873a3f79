package aggregator

import (
	"testing"

	"github.com/anchorwatch/anchor/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestRatio_ZeroTotalIsNil(t *testing.T) {
	assert.Nil(t, ratio(0, 0))
}

func TestRatio_ComputesFraction(t *testing.T) {
	d := ratio(3, 4)
	if assert.NotNil(t, d) {
		assert.InDelta(t, 0.75, d.Value, 1e-9)
		assert.Equal(t, 4, d.SampleSize)
	}
}

func TestConfirmedRatio_ExcludesPendingAndExpired(t *testing.T) {
	verdicts := []models.Verdict{
		models.VerdictConfirmed,
		models.VerdictPending,
		models.VerdictExpired,
		models.VerdictRefuted,
		models.VerdictConfirmed,
	}
	hits, total := confirmedRatio(verdicts)
	assert.Equal(t, 2, hits)
	assert.Equal(t, 3, total)
}

func TestOverall_NilWhenNoDimensionsAvailable(t *testing.T) {
	s := &models.AuthorStats{}
	assert.Nil(t, overall(s))
}

func TestOverall_RenormalizesOverAvailableDimensions(t *testing.T) {
	s := &models.AuthorStats{
		FactAccuracy:       &models.DimValue{Value: 1.0, SampleSize: 10},
		ConclusionAccuracy: &models.DimValue{Value: 0.5, SampleSize: 5},
	}
	score := overall(s)
	if assert.NotNil(t, score) {
		// weights: fact=0.20, conclusion=0.15 -> renormalized mean
		want := 100 * (0.20*1.0 + 0.15*0.5) / (0.20 + 0.15)
		assert.InDelta(t, want, *score, 1e-9)
	}
}

func TestOverall_AllDimensionsPresent(t *testing.T) {
	full := func(v float64) *models.DimValue { return &models.DimValue{Value: v, SampleSize: 1} }
	s := &models.AuthorStats{
		FactAccuracy:              full(1.0),
		ConclusionAccuracy:        full(1.0),
		PredictionAccuracy:        full(1.0),
		LogicRigor:                full(1.0),
		RecommendationReliability: full(1.0),
		ContentUniqueness:         full(1.0),
		ContentEffectiveness:      full(1.0),
	}
	score := overall(s)
	if assert.NotNil(t, score) {
		assert.InDelta(t, 100.0, *score, 1e-9)
	}
}
