// Package aggregator is the Aggregator (C10): Op 9 aggregates every
// author's Facts, Conclusions, Solutions, Logics, and post quality
// assessments into a seven-dimension AuthorStats row. Grounded on
// original_source/anchor/tracker/author_stats_aggregator.py; there is no
// teacher equivalent, so the package mirrors pkg/pipeline's
// repository-consumer style (a struct wrapping *repository.Repository,
// per-dimension private methods, no LLM calls of its own).
package aggregator

import (
	"context"
	"fmt"

	"github.com/anchorwatch/anchor/pkg/models"
	"github.com/anchorwatch/anchor/pkg/repository"
)

// weight is one of the seven base weights from spec.md §4.10; the sum is
// 1.0, and missing dimensions are dropped with the remainder renormalized.
const (
	weightFactAccuracy              = 0.20
	weightConclusionAccuracy        = 0.15
	weightPredictionAccuracy        = 0.20
	weightLogicRigor                = 0.15
	weightRecommendationReliability = 0.15
	weightContentUniqueness         = 0.075
	weightContentEffectiveness      = 0.075
)

type Aggregator struct {
	repo *repository.Repository
}

func New(repo *repository.Repository) *Aggregator {
	return &Aggregator{repo: repo}
}

// Aggregate recomputes and upserts one author's AuthorStats row.
func (a *Aggregator) Aggregate(ctx context.Context, authorID int64) error {
	factAccuracy, err := a.factAccuracy(ctx, authorID)
	if err != nil {
		return fmt.Errorf("aggregator: fact accuracy: %w", err)
	}
	conclusionAccuracy, predictionAccuracy, err := a.conclusionAccuracy(ctx, authorID)
	if err != nil {
		return fmt.Errorf("aggregator: conclusion accuracy: %w", err)
	}
	logicRigor, err := a.logicRigor(ctx, authorID)
	if err != nil {
		return fmt.Errorf("aggregator: logic rigor: %w", err)
	}
	recommendationReliability, err := a.recommendationReliability(ctx, authorID)
	if err != nil {
		return fmt.Errorf("aggregator: recommendation reliability: %w", err)
	}
	contentUniqueness, contentEffectiveness, err := a.contentQuality(ctx, authorID)
	if err != nil {
		return fmt.Errorf("aggregator: content quality: %w", err)
	}

	stats := &models.AuthorStats{
		AuthorID:                  authorID,
		FactAccuracy:              factAccuracy,
		ConclusionAccuracy:        conclusionAccuracy,
		PredictionAccuracy:        predictionAccuracy,
		LogicRigor:                logicRigor,
		RecommendationReliability: recommendationReliability,
		ContentUniqueness:         contentUniqueness,
		ContentEffectiveness:      contentEffectiveness,
	}
	stats.OverallCredibilityScore = overall(stats)

	return a.repo.UpsertAuthorStats(ctx, stats)
}

// factAccuracy is dimension 1: TRUE evaluations over TRUE+FALSE evaluations.
func (a *Aggregator) factAccuracy(ctx context.Context, authorID int64) (*models.DimValue, error) {
	results, err := a.repo.FactEvaluationsForAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}

	var hits, total int
	for _, r := range results {
		switch r {
		case models.EvalResultTrue:
			hits++
			total++
		case models.EvalResultFalse:
			total++
		}
	}
	return ratio(hits, total), nil
}

// conclusionAccuracy computes dimensions 2 and 3: CONFIRMED verdicts over
// verdicts not in {PENDING, EXPIRED}, split by overall and predictive-only.
func (a *Aggregator) conclusionAccuracy(ctx context.Context, authorID int64) (*models.DimValue, *models.DimValue, error) {
	retro, err := a.repo.ConclusionVerdictsForAuthor(ctx, authorID, models.ConclusionTypeRetrospective)
	if err != nil {
		return nil, nil, err
	}
	predictive, err := a.repo.ConclusionVerdictsForAuthor(ctx, authorID, models.ConclusionTypePredictive)
	if err != nil {
		return nil, nil, err
	}

	allHits, allTotal := confirmedRatio(retro)
	predHits, predTotal := confirmedRatio(predictive)
	allHits += predHits
	allTotal += predTotal

	return ratio(allHits, allTotal), ratio(predHits, predTotal), nil
}

func confirmedRatio(verdicts []models.Verdict) (hits, total int) {
	for _, v := range verdicts {
		if v == models.VerdictPending || v == models.VerdictExpired {
			continue
		}
		total++
		if v == models.VerdictConfirmed {
			hits++
		}
	}
	return hits, total
}

// logicRigor is dimension 4: mean RigorScore() across graded inference logics.
func (a *Aggregator) logicRigor(ctx context.Context, authorID int64) (*models.DimValue, error) {
	grades, err := a.repo.LogicCompletenessForAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}

	var sum float64
	var n int
	for _, g := range grades {
		score, ok := g.RigorScore()
		if !ok {
			continue
		}
		sum += score
		n++
	}
	if n == 0 {
		return nil, nil
	}
	return &models.DimValue{Value: sum / float64(n), SampleSize: n}, nil
}

// recommendationReliability is dimension 5: CONFIRMED assessments over
// assessments not in {PENDING, EXPIRED}.
func (a *Aggregator) recommendationReliability(ctx context.Context, authorID int64) (*models.DimValue, error) {
	verdicts, err := a.repo.SolutionAssessmentVerdictsForAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	hits, total := confirmedRatio(verdicts)
	return ratio(hits, total), nil
}

// contentQuality computes dimensions 6 and 7: mean uniqueness_score and
// mean effectiveness_score across this author's scored posts.
func (a *Aggregator) contentQuality(ctx context.Context, authorID int64) (*models.DimValue, *models.DimValue, error) {
	assessments, err := a.repo.PostQualityForAuthor(ctx, authorID)
	if err != nil {
		return nil, nil, err
	}

	var uniqSum float64
	var uniqN int
	var effSum float64
	var effN int
	for _, q := range assessments {
		if q.UniquenessScore != nil {
			uniqSum += *q.UniquenessScore
			uniqN++
		}
		if q.EffectivenessScore != nil {
			effSum += *q.EffectivenessScore
			effN++
		}
	}

	var uniqueness, effectiveness *models.DimValue
	if uniqN > 0 {
		uniqueness = &models.DimValue{Value: uniqSum / float64(uniqN), SampleSize: uniqN}
	}
	if effN > 0 {
		effectiveness = &models.DimValue{Value: effSum / float64(effN), SampleSize: effN}
	}
	return uniqueness, effectiveness, nil
}

func ratio(hits, total int) *models.DimValue {
	if total == 0 {
		return nil
	}
	return &models.DimValue{Value: float64(hits) / float64(total), SampleSize: total}
}

// overall renormalizes the seven base weights over whichever dimensions
// are present and returns 100*weighted-mean, or nil if none are available
// (spec.md §4.10).
func overall(s *models.AuthorStats) *float64 {
	type weighted struct {
		dim    *models.DimValue
		weight float64
	}
	dims := []weighted{
		{s.FactAccuracy, weightFactAccuracy},
		{s.ConclusionAccuracy, weightConclusionAccuracy},
		{s.PredictionAccuracy, weightPredictionAccuracy},
		{s.LogicRigor, weightLogicRigor},
		{s.RecommendationReliability, weightRecommendationReliability},
		{s.ContentUniqueness, weightContentUniqueness},
		{s.ContentEffectiveness, weightContentEffectiveness},
	}

	var weightSum, scoreSum float64
	for _, d := range dims {
		if d.dim == nil {
			continue
		}
		weightSum += d.weight
		scoreSum += d.weight * d.dim.Value
	}
	if weightSum == 0 {
		return nil
	}
	score := 100 * scoreSum / weightSum
	return &score
}
