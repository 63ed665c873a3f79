package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anchorwatch/anchor/pkg/llm"
	"github.com/anchorwatch/anchor/pkg/models"
	"github.com/anchorwatch/anchor/pkg/prompt"
	"github.com/anchorwatch/anchor/pkg/repository"
)

// RoleEvaluator is Op 7, grading whether a Conclusion or Solution falls
// within the author's plausible expertise. Grounded on
// original_source/anchor/tracker/role_evaluator.py.
type RoleEvaluator struct {
	repo    *repository.Repository
	gateway llm.Gateway
}

func NewRoleEvaluator(repo *repository.Repository, gateway llm.Gateway) *RoleEvaluator {
	return &RoleEvaluator{repo: repo, gateway: gateway}
}

type roleEvaluatorResult struct {
	RoleFit     string  `json:"role_fit"`
	RoleFitNote *string `json:"role_fit_note"`
}

// Run grades every conclusion verdict and solution assessment still
// missing a role_fit, up to limit each.
func (e *RoleEvaluator) Run(ctx context.Context, limit int) (int, error) {
	n1, err := e.runConclusions(ctx, limit)
	if err != nil {
		return n1, err
	}
	n2, err := e.runSolutions(ctx, limit)
	return n1 + n2, err
}

func (e *RoleEvaluator) runConclusions(ctx context.Context, limit int) (int, error) {
	verdicts, err := e.repo.ConclusionVerdictsMissingRoleFit(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("pipeline: list conclusion verdicts missing role fit: %w", err)
	}

	count := 0
	for _, v := range verdicts {
		if err := e.evaluateConclusion(ctx, v); err != nil {
			slog.Warn("pipeline: role evaluator failed", "conclusion_id", v.ConclusionID, "error", err)
			continue
		}
		count++
	}
	return count, nil
}

func (e *RoleEvaluator) evaluateConclusion(ctx context.Context, v *models.ConclusionVerdict) error {
	c, err := e.repo.GetConclusion(ctx, v.ConclusionID)
	if err != nil {
		return err
	}
	author, err := e.repo.GetAuthor(ctx, c.AuthorID)
	if err != nil {
		return err
	}

	fit, note := e.evaluate(ctx, author, c.Claim)
	return e.repo.SetConclusionRoleFit(ctx, v.ConclusionID, fit, note)
}

func (e *RoleEvaluator) runSolutions(ctx context.Context, limit int) (int, error) {
	assessments, err := e.repo.SolutionAssessmentsMissingRoleFit(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("pipeline: list solution assessments missing role fit: %w", err)
	}

	count := 0
	for _, a := range assessments {
		if err := e.evaluateSolution(ctx, a); err != nil {
			slog.Warn("pipeline: role evaluator failed", "solution_id", a.SolutionID, "error", err)
			continue
		}
		count++
	}
	return count, nil
}

func (e *RoleEvaluator) evaluateSolution(ctx context.Context, a *models.SolutionAssessment) error {
	s, err := e.repo.GetSolution(ctx, a.SolutionID)
	if err != nil {
		return err
	}
	author, err := e.repo.GetAuthor(ctx, s.AuthorID)
	if err != nil {
		return err
	}

	fit, note := e.evaluate(ctx, author, s.Claim)
	return e.repo.SetSolutionRoleFit(ctx, a.SolutionID, fit, note)
}

// evaluate never returns an error: on any gateway or parse failure it
// defaults to RoleFitQuestionable, never RoleFitAppropriate, per
// spec.md §4.7 Op 7's "cannot confidently judge" rule.
func (e *RoleEvaluator) evaluate(ctx context.Context, author *models.Author, claim string) (models.RoleFit, *string) {
	userMsg := fmt.Sprintf("Author role: %s\nExpertise areas: %s\nKnown biases: %s\n\nClaim: %s",
		derefOr(author.Role, "unknown"), derefOr(author.ExpertiseAreas, "unknown"),
		derefOr(author.KnownBiases, "unknown"), claim)

	completion, err := e.gateway.Complete(ctx, prompt.RoleEvaluatorSystem, userMsg, defaultMaxTokens)
	if err != nil || completion == nil {
		return models.RoleFitQuestionable, nil
	}

	var parsed roleEvaluatorResult
	if !llm.ExtractJSON(completion.Content, &parsed) {
		return models.RoleFitQuestionable, nil
	}

	fit := models.RoleFit(parsed.RoleFit)
	if !fit.Valid() {
		fit = models.RoleFitQuestionable
	}
	return fit, parsed.RoleFitNote
}
