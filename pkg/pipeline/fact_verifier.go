package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anchorwatch/anchor/pkg/datasource"
	"github.com/anchorwatch/anchor/pkg/llm"
	"github.com/anchorwatch/anchor/pkg/models"
	"github.com/anchorwatch/anchor/pkg/prompt"
	"github.com/anchorwatch/anchor/pkg/repository"
	"github.com/anchorwatch/anchor/pkg/search"
)

// FactVerifier is Op 1 (condition verifier). Grounded on
// original_source/anchor/tracker/condition_verifier.py.
type FactVerifier struct {
	repo     *repository.Repository
	gateway  llm.Gateway
	searcher *search.Searcher
	router   *datasource.Router
}

func NewFactVerifier(repo *repository.Repository, gateway llm.Gateway, searcher *search.Searcher, router *datasource.Router) *FactVerifier {
	return &FactVerifier{repo: repo, gateway: gateway, searcher: searcher, router: router}
}

// sourceTypeHints maps a keyword that may appear in a Fact's free-text
// verification_method to the canonical datasource.Router source type it
// implies. The LLM extractor writes verification_method in prose, so this
// is a best-effort routing, not an exact key.
var sourceTypeHints = []struct {
	keyword string
	source  string
}{
	{"fred", "fred"},
	{"federal reserve economic data", "fred"},
	{"bureau of labor statistics", "bls"},
	{"bls", "bls"},
	{"world bank", "world_bank"},
	{"imf", "imf"},
	{"international monetary fund", "imf"},
	{"federal register", "federal_register"},
	{"usitc", "usitc"},
	{"international trade commission", "usitc"},
	{"china", "china_macro"},
	{"akshare", "china_macro"},
}

// routedSourceType returns the canonical datasource.Router source type
// implied by a Fact's verification method, or "" if none matches.
func routedSourceType(method *string) string {
	if method == nil {
		return ""
	}
	lower := strings.ToLower(*method)
	for _, h := range sourceTypeHints {
		if strings.Contains(lower, h.keyword) {
			return h.source
		}
	}
	return ""
}

type factVerifierResult struct {
	Result         string  `json:"result"`
	EvidenceTier   *int    `json:"evidence_tier"`
	EvidenceText   *string `json:"evidence_text"`
	DataPeriod     *string `json:"data_period"`
	EvaluatorNotes *string `json:"evaluator_notes"`
}

// statusForResult maps a verification result onto the Fact's denormalized
// status, per spec §4.7 Op 1: true->VERIFIED_TRUE, false->VERIFIED_FALSE,
// unavailable->UNVERIFIABLE, uncertain->unchanged (stays PENDING).
func statusForResult(r models.EvalResult) (models.FactStatus, bool) {
	switch r {
	case models.EvalResultTrue:
		return models.FactStatusVerifiedTrue, true
	case models.EvalResultFalse:
		return models.FactStatusVerifiedFalse, true
	case models.EvalResultUnavailable:
		return models.FactStatusUnverifiable, true
	default:
		return models.FactStatusPending, false
	}
}

// Run verifies every verifiable, still-pending Fact up to limit.
func (v *FactVerifier) Run(ctx context.Context, limit int) (int, error) {
	facts, err := v.repo.VerifiableFactsPending(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("pipeline: list pending facts: %w", err)
	}

	count := 0
	for _, fact := range facts {
		if err := v.verifyOne(ctx, fact); err != nil {
			slog.Warn("pipeline: fact verifier failed", "fact_id", fact.ID, "error", err)
			continue
		}
		count++
	}
	return count, nil
}

func (v *FactVerifier) verifyOne(ctx context.Context, fact *models.Fact) error {
	var evidenceParts []string
	var dataPeriodHint *string
	var routedSourceURL *string
	var routedSourceOrg *string

	if st := routedSourceType(fact.VerificationMethod); st != "" && v.router != nil {
		res := v.router.Query(ctx, st, map[string]string{"claim": fact.Claim, "expression": derefOr(fact.VerifiableExpression, fact.Claim)})
		if res.OK {
			evidenceParts = append(evidenceParts, fmt.Sprintf("[%s data]\n%s", res.SourceType, res.Content))
			if res.DataPeriod != "" {
				period := res.DataPeriod
				dataPeriodHint = &period
			}
			if res.SourceURL != "" {
				url := res.SourceURL
				routedSourceURL = &url
			}
			if res.SourceType != "" {
				org := res.SourceType
				routedSourceOrg = &org
			}
		}
	}

	query := search.BuildFactQuery(fact.Claim, fact.VerifiableExpression)
	results := v.searcher.Search(ctx, query, 5, nil)
	evidenceParts = append(evidenceParts, search.FormatResults(results))
	evidence := strings.Join(evidenceParts, "\n\n")

	userMsg := fmt.Sprintf("Claim: %s\nVerification method: %s\n\nEvidence:\n%s",
		fact.Claim, derefOr(fact.VerificationMethod, "(none specified)"), evidence)

	completion, err := v.gateway.Complete(ctx, prompt.ConditionVerifierSystem, userMsg, defaultMaxTokens)
	if err != nil {
		return err
	}
	if completion == nil {
		return nil
	}

	var parsed factVerifierResult
	if !llm.ExtractJSON(completion.Content, &parsed) {
		return nil
	}

	result := models.ParseEvalResult(parsed.Result)
	newStatus, changed := statusForResult(result)
	if !changed {
		newStatus = fact.Status
	}

	dataPeriod := parsed.DataPeriod
	if dataPeriod == nil {
		dataPeriod = dataPeriodHint
	}

	eval := &models.FactEvaluation{
		FactID:         fact.ID,
		Result:         result,
		EvidenceTier:   parsed.EvidenceTier,
		EvidenceText:   parsed.EvidenceText,
		DataPeriod:     dataPeriod,
		EvaluatorNotes: parsed.EvaluatorNotes,
	}

	sourceURL := routedSourceURL
	sourceOrg := routedSourceOrg
	if sourceURL == nil && len(results) > 0 {
		sourceOrg = &results[0].Title
		sourceURL = &results[0].URL
	}

	return v.repo.RecordFactEvaluation(ctx, fact.ID, eval, newStatus, sourceOrg, sourceURL, dataPeriod, parsed.EvidenceText)
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
