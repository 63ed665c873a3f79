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

// cannotVerifyNote is the fixed sentinel simulated_action_note used when an
// action's effect can't be checked against authoritative data (spec §4.7
// Op 4b, grounded on solution_simulator.py).
const cannotVerifyNote = "cannot verify against authoritative data"

// SolutionSimulator is Op 4b. Grounded on
// original_source/anchor/tracker/solution_simulator.py.
type SolutionSimulator struct {
	repo    *repository.Repository
	gateway llm.Gateway
}

func NewSolutionSimulator(repo *repository.Repository, gateway llm.Gateway) *SolutionSimulator {
	return &SolutionSimulator{repo: repo, gateway: gateway}
}

type simulatorResult struct {
	SimulatedActionNote  *string `json:"simulated_action_note"`
	MonitoringSourceOrg  *string `json:"monitoring_source_org"`
	MonitoringSourceURL  *string `json:"monitoring_source_url"`
	MonitoringPeriodNote *string `json:"monitoring_period_note"`
	MonitoringStart      *string `json:"monitoring_start"`
	MonitoringEnd        *string `json:"monitoring_end"`
}

// Run simulates every still-pending solution missing a simulated action
// note, up to limit.
func (s *SolutionSimulator) Run(ctx context.Context, limit int) (int, error) {
	solutions, err := s.repo.SolutionsNeedingSimulation(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("pipeline: list solutions needing simulation: %w", err)
	}

	count := 0
	for _, sol := range solutions {
		if err := s.simulateOne(ctx, sol); err != nil {
			slog.Warn("pipeline: solution simulator failed", "solution_id", sol.ID, "error", err)
			continue
		}
		count++
	}
	return count, nil
}

func (s *SolutionSimulator) simulateOne(ctx context.Context, sol *models.Solution) error {
	logics, err := s.repo.LogicsForSolution(ctx, sol.ID)
	if err != nil {
		return err
	}

	var sourceClaims strings.Builder
	for _, l := range logics {
		for _, cid := range l.SourceConclusionIDs {
			c, err := s.repo.GetConclusion(ctx, cid)
			if err != nil {
				continue
			}
			fmt.Fprintf(&sourceClaims, "- %s\n", c.Claim)
		}
	}
	if sourceClaims.Len() == 0 {
		sourceClaims.WriteString("(none)")
	}

	userMsg := fmt.Sprintf("Action: %s %s\nRationale: %s\n\nSource conclusions:\n%s",
		sol.ActionType, sol.ActionTarget, derefOr(sol.ActionRationale, "(none given)"), sourceClaims.String())

	completion, err := s.gateway.Complete(ctx, prompt.SolutionSimulatorSystem, userMsg, defaultMaxTokens)
	if err != nil {
		return err
	}

	if completion == nil {
		note := cannotVerifyNote
		return s.repo.SetSolutionSimulation(ctx, sol.ID, &note, nil, nil, nil, nil, nil)
	}

	var parsed simulatorResult
	if !llm.ExtractJSON(completion.Content, &parsed) {
		note := cannotVerifyNote
		return s.repo.SetSolutionSimulation(ctx, sol.ID, &note, nil, nil, nil, nil, nil)
	}

	note := parsed.SimulatedActionNote
	if note == nil || *note == "" {
		fallback := cannotVerifyNote
		note = &fallback
	}

	if parsed.MonitoringSourceOrg == nil {
		return s.repo.SetSolutionSimulation(ctx, sol.ID, note, nil, nil, nil, nil, nil)
	}
	start, end := monitoringWindow(parsed.MonitoringStart, parsed.MonitoringEnd)
	return s.repo.SetSolutionSimulation(ctx, sol.ID, note, parsed.MonitoringSourceOrg, parsed.MonitoringSourceURL, parsed.MonitoringPeriodNote, &start, &end)
}
