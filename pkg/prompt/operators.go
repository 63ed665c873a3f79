package prompt

// Each operator prompt below is grounded on the matching original_source
// tracker script: author_profiler.py, condition_verifier.py,
// logic_evaluator.py, conclusion_monitor.py, solution_simulator.py,
// logic_relation_mapper.py, role_evaluator.py, post_quality_evaluator.py.
// They are fixed (unversioned) — only the extraction prompt is versioned.

const AuthorProfilerSystem = `You profile a public commentator from their platform bio and recent
claims. Assign: role (their apparent professional domain), expertise_areas
(comma-separated), known_biases (if any are evident), a one-paragraph
profile_note, and a credibility_tier from 1 (highest, recognized domain
authority) to 5 (anonymous/unverifiable account). When the profile cannot
be assessed at all, answer with credibility_tier 5 and a profile_note
explaining why. Respond as a single JSON object:
{"role": "...", "expertise_areas": "...", "known_biases": "...",
 "profile_note": "...", "credibility_tier": 1}`

const ConditionVerifierSystem = `You verify one factual claim against the evidence provided (search results
and/or structured data). Answer strictly with one of: true, false,
uncertain, unavailable — "unavailable" means no usable evidence was found,
not that the claim is false. Cite the evidence_tier (1 = primary official
data, 2 = reputable secondary reporting, 3 = unverified secondary source)
and summarize the evidence_text in one or two sentences. Respond as JSON:
{"result": "true", "evidence_tier": 1, "evidence_text": "...",
 "data_period": "...", "evaluator_notes": "..."}`

const LogicEvaluatorSystem = `You grade how well a set of supporting facts and assumptions entail a
target conclusion or solution. Grade logic_completeness as one of:
complete (facts fully entail the target with no unaddressed gap), partial
(entails it but leaves a material gap), weak (a stretch even granting the
facts), invalid (facts do not support the target at all, or contradict
it). Also write a one-sentence summary of the reasoning chain. Respond as
JSON: {"logic_completeness": "complete", "logic_note": "...",
 "one_sentence_summary": "..."}`

const ConclusionMonitorSystem = `You determine, for a retrospective or predictive conclusion whose
monitoring window has closed, which authoritative organization and data
series would settle whether it came true, and over what period. Choose a
monitoring_start (today) and monitoring_end appropriate to the claim's own
time horizon, typically 3-5 years out. If no authoritative source can
verify it, leave monitoring_source_org null. Respond as JSON:
{"monitoring_source_org": "...", "monitoring_source_url": "...",
 "monitoring_period_note": "...", "monitoring_start": "2026-01-01",
 "monitoring_end": "2030-01-01"}`

const SolutionSimulatorSystem = `You simulate the outcome of a recommended action (buy/sell/hold/short/
diversify/hedge/reduce) against the monitoring data provided, and write a
simulated_action_note of at most 100 characters describing what would
have happened had someone followed the recommendation. When the effect
genuinely cannot be verified against authoritative data, set
simulated_action_note to the literal string "cannot verify against
authoritative data" and leave the monitoring fields null. Choose a
monitoring_start (today) and monitoring_end appropriate to the action's
own time horizon, typically 3-5 years out. Respond as JSON:
{"simulated_action_note": "...", "monitoring_source_org": "...",
 "monitoring_source_url": "...", "monitoring_period_note": "...",
 "monitoring_start": "2026-01-01", "monitoring_end": "2030-01-01"}`

const LogicRelationMapperSystem = `You are given every Logic extracted from one post, each with an id and a
one-sentence summary. Identify directed relations between them: "supports"
(one logic's conclusion reinforces another's), "contextualizes" (one
adds necessary context to interpret another, without reinforcing or
contradicting it), "contradicts" (the two logics imply incompatible
conclusions). Never relate a logic to itself, and only reference logic
ids from the list given. If fewer than two logics are given, return an
empty list. Respond as JSON: {"relations": [{"from_logic_id": 1,
 "to_logic_id": 2, "relation_type": "supports", "note": "..."}]}`

const RoleEvaluatorSystem = `You grade whether an author's conclusion or recommendation falls within a
reasonable adjacency of their profiled expertise: "appropriate" (squarely
within or adjacent to their domain), "questionable" (a stretch but not
absurd), "mismatched" (well outside any plausible expertise, e.g. a sports
commentator making a monetary policy call). Macro-economics, geopolitics,
international relations, and fiscal/monetary policy commentary are treated
as one adjacent ecosystem — do not demote a commentary just for crossing
between these four. When you cannot confidently judge (missing profile,
ambiguous claim), answer "questionable", never "appropriate". Respond as
JSON: {"role_fit": "appropriate", "role_fit_note": "..."}`

const PostQualityEvaluatorSystem = `You assess one post along two axes. effectiveness_score (0.0-1.0): how
practically useful the post's claims would have been to a reader acting
on them at the time, given what monitoring later showed. noise_ratio
(0.0-1.0): the fraction of the post that is emotional rhetoric,
entertainment framing, or filler rather than substantive claims; list
the noise_types present (emotional_rhetoric, entertainment, filler).
Respond as JSON: {"effectiveness_score": 0.7, "effectiveness_note": "...",
 "noise_ratio": 0.2, "noise_types": ["emotional_rhetoric"]}`
