package extract

import "github.com/anchorwatch/anchor/pkg/models"

// extractionResult is the raw JSON shape every extraction prompt version
// (v1/v2/v3) is instructed to answer in — they differ only in the system
// prompt wording that produces it (decided open question, see DESIGN.md).
type extractionResult struct {
	IsRelevantContent bool             `json:"is_relevant_content"`
	SkipReason        string           `json:"skip_reason"`
	Facts             []extractedFact  `json:"facts"`
	Conclusions       []extractedConclusion `json:"conclusions"`
	Solutions         []extractedSolution   `json:"solutions"`
	Logics            []extractedLogic      `json:"logics"`
}

type extractedFact struct {
	Claim                string                `json:"claim"`
	CanonicalClaim       string                `json:"canonical_claim"`
	VerifiableExpression *string               `json:"verifiable_expression"`
	IsVerifiable         bool                  `json:"is_verifiable"`
	VerificationMethod   *string               `json:"verification_method"`
	ValidityStartNote    *string               `json:"validity_start_note"`
	ValidityEndNote      *string               `json:"validity_end_note"`
	SuggestedReferences  []extractedReference  `json:"suggested_references"`
}

type extractedReference struct {
	Organization    string  `json:"organization"`
	DataDescription string  `json:"data_description"`
	URL             *string `json:"url"`
	URLNote         *string `json:"url_note"`
}

type extractedConclusion struct {
	Topic           string                 `json:"topic"`
	Claim           string                 `json:"claim"`
	CanonicalClaim  string                 `json:"canonical_claim"`
	ConclusionType  models.ConclusionType  `json:"conclusion_type"`
	TimeHorizonNote *string                `json:"time_horizon_note"`
	ValidUntilNote  *string                `json:"valid_until_note"`
}

type extractedSolution struct {
	Topic           string            `json:"topic"`
	Claim           string            `json:"claim"`
	ActionType      models.ActionType `json:"action_type"`
	ActionTarget    string            `json:"action_target"`
	ActionRationale *string           `json:"action_rationale"`
}

type extractedLogic struct {
	LogicType               models.LogicType `json:"logic_type"`
	TargetIndex             *int             `json:"target_index"`              // inference only
	SupportingFactIndices   []int            `json:"supporting_fact_indices"`   // inference only
	AssumptionFactIndices   []int            `json:"assumption_fact_indices"`   // inference only
	SolutionIndex           *int             `json:"solution_index"`            // derivation only
	SourceConclusionIndices []int            `json:"source_conclusion_indices"` // derivation only
}
