package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anchorwatch/anchor/pkg/llm"
	"github.com/anchorwatch/anchor/pkg/models"
	"github.com/anchorwatch/anchor/pkg/prompt"
	"github.com/anchorwatch/anchor/pkg/repository"
)

// ConclusionMonitor is Op 4a. Grounded on
// original_source/anchor/tracker/conclusion_monitor.py. The monitoring
// window is the LLM's own monitoring_start/monitoring_end judgment
// (typically 3-5 years out), falling back to a fixed band's midpoint
// only when the model's dates are missing or unparsable (spec §4.7 Op 4a).
type ConclusionMonitor struct {
	repo    *repository.Repository
	gateway llm.Gateway
}

func NewConclusionMonitor(repo *repository.Repository, gateway llm.Gateway) *ConclusionMonitor {
	return &ConclusionMonitor{repo: repo, gateway: gateway}
}

type monitorResult struct {
	MonitoringSourceOrg  *string `json:"monitoring_source_org"`
	MonitoringSourceURL  *string `json:"monitoring_source_url"`
	MonitoringPeriodNote *string `json:"monitoring_period_note"`
	MonitoringStart      *string `json:"monitoring_start"`
	MonitoringEnd        *string `json:"monitoring_end"`
}

const defaultMonitoringWindow = 4 * 365 * 24 * time.Hour // midpoint of the 3-5 year band, fallback only

// monitoringWindow resolves the LLM's own monitoring_start/monitoring_end
// judgment (grounded on conclusion_monitor.py's _parse_date), falling back
// to the fixed 3-5 year band's midpoint only when either date is missing
// or unparsable.
func monitoringWindow(start, end *string) (time.Time, time.Time) {
	now := time.Now().UTC()
	fallbackEnd := now.Add(defaultMonitoringWindow)

	parsedStart, okStart := parseMonitoringDate(start)
	parsedEnd, okEnd := parseMonitoringDate(end)
	if !okStart || !okEnd {
		return now, fallbackEnd
	}
	return parsedStart, parsedEnd
}

func parseMonitoringDate(note *string) (time.Time, bool) {
	if note == nil || *note == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01", "2006"} {
		if t, err := time.Parse(layout, *note); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Run assigns a monitoring source to every predictive, still-pending
// conclusion missing one, up to limit.
func (m *ConclusionMonitor) Run(ctx context.Context, limit int) (int, error) {
	conclusions, err := m.repo.PredictiveConclusionsNeedingMonitor(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("pipeline: list conclusions needing monitor: %w", err)
	}

	count := 0
	for _, c := range conclusions {
		if err := m.monitorOne(ctx, c); err != nil {
			slog.Warn("pipeline: conclusion monitor failed", "conclusion_id", c.ID, "error", err)
			continue
		}
		count++
	}
	return count, nil
}

func (m *ConclusionMonitor) monitorOne(ctx context.Context, c *models.Conclusion) error {
	userMsg := fmt.Sprintf("Predictive conclusion: %s\nTime horizon note: %s",
		c.Claim, derefOr(c.TimeHorizonNote, "(none given)"))

	completion, err := m.gateway.Complete(ctx, prompt.ConclusionMonitorSystem, userMsg, defaultMaxTokens)
	if err != nil {
		return err
	}
	if completion == nil {
		return nil // leave monitoring_source_org unset; retried next pass
	}

	var parsed monitorResult
	if !llm.ExtractJSON(completion.Content, &parsed) {
		return nil
	}
	if parsed.MonitoringSourceOrg == nil {
		return nil // LLM found no authoritative source; retry next pass
	}

	start, end := monitoringWindow(parsed.MonitoringStart, parsed.MonitoringEnd)
	return m.repo.SetConclusionMonitoring(ctx, c.ID, parsed.MonitoringSourceOrg, parsed.MonitoringSourceURL, parsed.MonitoringPeriodNote, &start, &end)
}
