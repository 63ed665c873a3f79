package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/anchorwatch/anchor/pkg/models"
	"github.com/anchorwatch/anchor/pkg/repository"
)

// VerdictDeriver is Op 6, the precedence-table truth derivation for
// Conclusions and Solutions. Grounded on spec.md §4.7 Op 6; there is no
// single original_source tracker file for this step — the original
// implementation folds it into conclusion_monitor.py/solution_simulator.py
// after their LLM calls, deriving truth from plain fact-evaluation lookups
// rather than another model call, which is why this operator makes no LLM
// calls of its own.
type VerdictDeriver struct {
	repo *repository.Repository
}

func NewVerdictDeriver(repo *repository.Repository) *VerdictDeriver {
	return &VerdictDeriver{repo: repo}
}

// Run derives conclusion verdicts then solution verdicts, up to limit each.
func (d *VerdictDeriver) Run(ctx context.Context, limit int) (int, error) {
	n1, err := d.runConclusions(ctx, limit)
	if err != nil {
		return n1, err
	}
	n2, err := d.runSolutions(ctx, limit)
	return n1 + n2, err
}

func (d *VerdictDeriver) runConclusions(ctx context.Context, limit int) (int, error) {
	conclusions, err := d.repo.DueConclusions(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("pipeline: list due conclusions: %w", err)
	}

	count := 0
	for _, c := range conclusions {
		if !eligibleForConclusionVerdict(c) {
			continue
		}
		if err := d.deriveConclusion(ctx, c); err != nil {
			slog.Warn("pipeline: conclusion verdict derivation failed", "conclusion_id", c.ID, "error", err)
			continue
		}
		count++
	}
	return count, nil
}

// eligibleForConclusionVerdict is the spec's verdict-derivation gate: a
// predictive conclusion is only due once its monitoring window has been
// set (by Op 4a) and has closed. Unset monitoring fields (monitoring
// never configured, or Op 4a still failing) leave it ineligible — it is
// not the same thing as an open window. Non-predictive conclusions carry
// no monitoring window and are always eligible.
func eligibleForConclusionVerdict(c *models.Conclusion) bool {
	if c.ConclusionType != models.ConclusionTypePredictive {
		return true
	}
	return c.MonitoringEnd != nil && !time.Now().Before(*c.MonitoringEnd)
}

type factTrace struct {
	FactID int64             `json:"fact_id"`
	Result models.EvalResult `json:"result"`
	Role   string            `json:"role"` // "supporting" | "assumption"
}

func (d *VerdictDeriver) deriveConclusion(ctx context.Context, c *models.Conclusion) error {
	logics, err := d.repo.LogicsForConclusion(ctx, c.ID)
	if err != nil {
		return err
	}
	if len(logics) == 0 {
		return nil
	}
	logic := logics[len(logics)-1] // latest

	var trace []factTrace
	supportingResults, err := d.resultsFor(ctx, logic.SupportingFactIDs, "supporting", &trace)
	if err != nil {
		return err
	}
	assumptionResults, err := d.resultsFor(ctx, logic.AssumptionFactIDs, "assumption", &trace)
	if err != nil {
		return err
	}

	verdict := deriveVerdict(supportingResults, assumptionResults)

	traceJSON, err := json.Marshal(trace)
	if err != nil {
		return err
	}

	if err := d.repo.UpsertConclusionVerdict(ctx, &models.ConclusionVerdict{
		ConclusionID: c.ID,
		Verdict:      verdict,
		LogicTrace:   string(traceJSON),
	}); err != nil {
		return err
	}

	return d.repo.SetConclusionStatus(ctx, c.ID, conclusionStatusForVerdict(verdict))
}

func (d *VerdictDeriver) resultsFor(ctx context.Context, ids []int64, role string, trace *[]factTrace) ([]models.EvalResult, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	facts, err := d.repo.GetFacts(ctx, ids)
	if err != nil {
		return nil, err
	}

	var out []models.EvalResult
	for _, f := range facts {
		eval, err := d.repo.LatestFactEvaluation(ctx, f.ID)
		result := models.EvalResultUnavailable
		if err == nil {
			result = eval.Result
		}
		out = append(out, result)
		*trace = append(*trace, factTrace{FactID: f.ID, Result: result, Role: role})
	}
	return out, nil
}

// deriveVerdict applies the Op 6 rule table (spec.md §4.7) in the
// documented precedence order: UNVERIFIABLE check first, then the two
// REFUTED checks, then CONFIRMED, then PARTIAL, else PENDING.
func deriveVerdict(supporting, assumption []models.EvalResult) models.Verdict {
	all := append(append([]models.EvalResult{}, supporting...), assumption...)
	if len(all) == 0 {
		return models.VerdictUnverifiable
	}

	if allMatch(all, models.EvalResultUnavailable) {
		return models.VerdictUnverifiable
	}
	if anyMatch(assumption, models.EvalResultFalse) {
		return models.VerdictRefuted
	}
	if anyMatch(supporting, models.EvalResultFalse) {
		return models.VerdictRefuted
	}

	hasTrue := anyMatch(all, models.EvalResultTrue)
	onlyTrueOrUnavailable := true
	for _, r := range all {
		if r != models.EvalResultTrue && r != models.EvalResultUnavailable {
			onlyTrueOrUnavailable = false
			break
		}
	}
	if onlyTrueOrUnavailable && hasTrue {
		return models.VerdictConfirmed
	}

	noFalse := !anyMatch(all, models.EvalResultFalse)
	if hasTrue && noFalse {
		return models.VerdictPartial
	}

	return models.VerdictPending
}

func allMatch(results []models.EvalResult, target models.EvalResult) bool {
	for _, r := range results {
		if r != target {
			return false
		}
	}
	return true
}

func anyMatch(results []models.EvalResult, target models.EvalResult) bool {
	for _, r := range results {
		if r == target {
			return true
		}
	}
	return false
}

// conclusionStatusForVerdict applies spec.md §4.7's mapping: CONFIRMED and
// REFUTED and UNVERIFIABLE pass through; anything else (PARTIAL, PENDING)
// leaves the conclusion PENDING.
func conclusionStatusForVerdict(v models.Verdict) models.ConclusionStatus {
	switch v {
	case models.VerdictConfirmed:
		return models.ConclusionStatusConfirmed
	case models.VerdictRefuted:
		return models.ConclusionStatusRefuted
	case models.VerdictUnverifiable:
		return models.ConclusionStatusUnverifiable
	default:
		return models.ConclusionStatusPending
	}
}

func (d *VerdictDeriver) runSolutions(ctx context.Context, limit int) (int, error) {
	solutions, err := d.repo.DueSolutions(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("pipeline: list due solutions: %w", err)
	}

	count := 0
	for _, s := range solutions {
		if err := d.deriveSolution(ctx, s); err != nil {
			slog.Warn("pipeline: solution verdict derivation failed", "solution_id", s.ID, "error", err)
			continue
		}
		count++
	}
	return count, nil
}

func (d *VerdictDeriver) deriveSolution(ctx context.Context, s *models.Solution) error {
	logics, err := d.repo.LogicsForSolution(ctx, s.ID)
	if err != nil {
		return err
	}

	var sourceVerdicts []models.Verdict
	var traceIDs []int64
	for _, l := range logics {
		for _, cid := range l.SourceConclusionIDs {
			v, err := d.repo.GetConclusionVerdict(ctx, cid)
			if err != nil {
				continue
			}
			sourceVerdicts = append(sourceVerdicts, v.Verdict)
			traceIDs = append(traceIDs, cid)
		}
	}

	// Zero source conclusions: stays PENDING forever (decided open
	// question, see DESIGN.md) — DueSolutions already excludes these via
	// its monitoring_end IS NOT NULL filter, but guard here too.
	if len(sourceVerdicts) == 0 {
		return nil
	}

	verdict := aggregateSolutionVerdict(sourceVerdicts)

	traceJSON, err := json.Marshal(traceIDs)
	if err != nil {
		return err
	}

	if err := d.repo.UpsertSolutionAssessment(ctx, &models.SolutionAssessment{
		SolutionID: s.ID,
		Verdict:    verdict,
		LogicTrace: string(traceJSON),
	}); err != nil {
		return err
	}

	return d.repo.SetSolutionStatus(ctx, s.ID, solutionStatusForVerdict(verdict))
}

// aggregateSolutionVerdict applies spec.md §4.7's solution rule table:
// all-CONFIRMED->CONFIRMED; any-REFUTED->REFUTED; any-CONFIRMED->PARTIAL;
// all-UNVERIFIABLE->UNVERIFIABLE; else PENDING.
func aggregateSolutionVerdict(verdicts []models.Verdict) models.Verdict {
	if allMatchVerdict(verdicts, models.VerdictConfirmed) {
		return models.VerdictConfirmed
	}
	if anyMatchVerdict(verdicts, models.VerdictRefuted) {
		return models.VerdictRefuted
	}
	if anyMatchVerdict(verdicts, models.VerdictConfirmed) {
		return models.VerdictPartial
	}
	if allMatchVerdict(verdicts, models.VerdictUnverifiable) {
		return models.VerdictUnverifiable
	}
	return models.VerdictPending
}

func allMatchVerdict(verdicts []models.Verdict, target models.Verdict) bool {
	for _, v := range verdicts {
		if v != target {
			return false
		}
	}
	return true
}

func anyMatchVerdict(verdicts []models.Verdict, target models.Verdict) bool {
	for _, v := range verdicts {
		if v == target {
			return true
		}
	}
	return false
}

func solutionStatusForVerdict(v models.Verdict) models.SolutionStatus {
	switch v {
	case models.VerdictConfirmed, models.VerdictPartial:
		return models.SolutionStatusValidated
	case models.VerdictRefuted:
		return models.SolutionStatusInvalidated
	case models.VerdictUnverifiable:
		return models.SolutionStatusUnverifiable
	default:
		return models.SolutionStatusPending
	}
}
