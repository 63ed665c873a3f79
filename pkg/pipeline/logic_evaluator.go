package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anchorwatch/anchor/pkg/llm"
	"github.com/anchorwatch/anchor/pkg/models"
	"github.com/anchorwatch/anchor/pkg/prompt"
	"github.com/anchorwatch/anchor/pkg/repository"
)

// LogicEvaluator is Op 2+3. Grounded on
// original_source/anchor/tracker/logic_evaluator.py.
type LogicEvaluator struct {
	repo    *repository.Repository
	gateway llm.Gateway
}

func NewLogicEvaluator(repo *repository.Repository, gateway llm.Gateway) *LogicEvaluator {
	return &LogicEvaluator{repo: repo, gateway: gateway}
}

type logicEvaluatorResult struct {
	LogicCompleteness  string  `json:"logic_completeness"`
	LogicNote          *string `json:"logic_note"`
	OneSentenceSummary *string `json:"one_sentence_summary"`
}

// Run grades every Logic not yet assessed, up to limit.
func (e *LogicEvaluator) Run(ctx context.Context, limit int) (int, error) {
	logics, err := e.repo.UnassessedLogics(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("pipeline: list unassessed logics: %w", err)
	}

	count := 0
	for _, logic := range logics {
		if err := e.evaluateOne(ctx, logic); err != nil {
			slog.Warn("pipeline: logic evaluator failed", "logic_id", logic.ID, "error", err)
			continue
		}
		count++
	}
	return count, nil
}

func (e *LogicEvaluator) evaluateOne(ctx context.Context, logic *models.Logic) error {
	target, err := e.targetClaim(ctx, logic)
	if err != nil {
		return err
	}

	supporting, err := e.describeFacts(ctx, logic.SupportingFactIDs)
	if err != nil {
		return err
	}
	assumption, err := e.describeFacts(ctx, logic.AssumptionFactIDs)
	if err != nil {
		return err
	}

	userMsg := fmt.Sprintf("Target (%s): %s\n\nSupporting facts:\n%s\n\nAssumption facts:\n%s",
		logic.LogicType, target, supporting, assumption)

	completion, err := e.gateway.Complete(ctx, prompt.LogicEvaluatorSystem, userMsg, defaultMaxTokens)
	if err != nil {
		return err
	}
	if completion == nil {
		return nil
	}

	var parsed logicEvaluatorResult
	if !llm.ExtractJSON(completion.Content, &parsed) {
		return nil
	}

	completeness := models.LogicCompleteness(parsed.LogicCompleteness)
	if _, ok := completeness.RigorScore(); !ok {
		completeness = models.LogicCompletenessWeak
	}

	return e.repo.SetLogicCompleteness(ctx, logic.ID, completeness, parsed.LogicNote, parsed.OneSentenceSummary)
}

func (e *LogicEvaluator) targetClaim(ctx context.Context, logic *models.Logic) (string, error) {
	switch logic.LogicType {
	case models.LogicTypeInference:
		if logic.ConclusionID == nil {
			return "", fmt.Errorf("inference logic %d missing conclusion_id", logic.ID)
		}
		c, err := e.repo.GetConclusion(ctx, *logic.ConclusionID)
		if err != nil {
			return "", err
		}
		return c.Claim, nil
	case models.LogicTypeDerivation:
		if logic.SolutionID == nil {
			return "", fmt.Errorf("derivation logic %d missing solution_id", logic.ID)
		}
		s, err := e.repo.GetSolution(ctx, *logic.SolutionID)
		if err != nil {
			return "", err
		}
		return s.Claim, nil
	default:
		return "", fmt.Errorf("unknown logic_type %q", logic.LogicType)
	}
}

func (e *LogicEvaluator) describeFacts(ctx context.Context, ids []int64) (string, error) {
	if len(ids) == 0 {
		return "(none)", nil
	}
	facts, err := e.repo.GetFacts(ctx, ids)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, f := range facts {
		evaluation, err := e.repo.LatestFactEvaluation(ctx, f.ID)
		result := "not yet evaluated"
		if err == nil {
			result = string(evaluation.Result)
		}
		fmt.Fprintf(&sb, "- %s [status=%s, latest evaluation=%s]\n", f.Claim, f.Status, result)
	}
	return sb.String(), nil
}
