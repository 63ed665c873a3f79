// Package prompt is the Prompt Registry (C1): versioned (system prompt,
// user-message builder) pairs for every LLM call the pipeline makes.
// Grounded on original_source/anchor/classifier/prompts/*.py — each
// extraction prompt version there emits the identical JSON output shape;
// they differ only in the reasoning strategy described in the system
// prompt (decided open question, see DESIGN.md).
package prompt

import "fmt"

// ExtractionPrompt is one versioned claim-extraction prompt.
type ExtractionPrompt struct {
	Version      string
	SystemPrompt string
}

// BuildUserMessage assembles the user turn for one post.
func (p ExtractionPrompt) BuildUserMessage(content, platform, author string) string {
	return fmt.Sprintf("Platform: %s\nAuthor: %s\n\nContent:\n%s", platform, author, content)
}

// Registry holds every prompt version and every fixed operator prompt
// used by the verification pipeline.
type Registry struct {
	extraction map[string]ExtractionPrompt
}

// NewRegistry builds the registry with all built-in prompt versions.
func NewRegistry() *Registry {
	return &Registry{
		extraction: map[string]ExtractionPrompt{
			"v1_identify":  {Version: "v1_identify", SystemPrompt: extractionSystemV1},
			"v2_cot":       {Version: "v2_cot", SystemPrompt: extractionSystemV2},
			"v3_adversarial": {Version: "v3_adversarial", SystemPrompt: extractionSystemV3},
		},
	}
}

// Extraction returns the extraction prompt for a version, and whether it exists.
func (r *Registry) Extraction(version string) (ExtractionPrompt, bool) {
	p, ok := r.extraction[version]
	return p, ok
}

const extractionSystemV1 = `You are a claims-analysis assistant. Extract substantive claims from social
media commentary on economics, finance, politics, and social trends, and
structure them into four categories: Fact, Conclusion, Solution, Logic.

FACT: an independently verifiable statement, decoupled from any author
opinion — a past event, a statistic, an official decision, a known
regularity. Each fact must carry a verification_method and at least one
suggested_reference naming a plausible authoritative source.

CONCLUSION: the author's judgment, either retrospective (about the past
or present) or predictive (about the future; set valid_until_note).

SOLUTION: a concrete, actionable recommendation (buy/sell/hold/short/
diversify/hedge/reduce) traceable to one or more conclusions via
source_conclusion_indices. Do not extract vague non-investment advice.

LOGIC: the reasoning edges. An "inference" edge connects facts to one
conclusion (supporting_fact_indices for established evidence,
assumption_fact_indices for unverified premises); a "derivation" edge
connects conclusions to one solution via source_conclusion_indices.
Every conclusion needs an inference edge; every solution needs a
derivation edge.

Every fact and conclusion also carries a canonical_claim: a normalized,
terminology-standardized form used to match the same underlying claim
across different posts and authors.

Respond with exactly one JSON object matching the schema you were given,
inside a single ` + "```json```" + ` fenced block, and nothing else.`

const extractionSystemV2 = extractionSystemV1 + `

Work step by step before answering: first decide whether the post
contains any in-scope claim at all (set is_relevant_content and
skip_reason if not); then enumerate every fact; then every conclusion,
tagging retrospective vs predictive; then every solution; then build the
logic edges last, once every fact/conclusion/solution has a fixed index.
Do not show this reasoning in the output — only the final JSON.`

const extractionSystemV3 = extractionSystemV1 + `

Before finalizing, adversarially re-check your own draft: for every
conclusion, could a skeptical reader argue one of its supporting facts is
actually just an assumption? For every solution, does it really trace to
a conclusion the author stated, or did you infer the link yourself? Demote
facts to assumption_fact_indices and drop solutions that don't trace
cleanly. Only the final, self-checked JSON goes in the response.`
