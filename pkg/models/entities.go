package models

import "time"

// Author is a tracked public commentator. Identity is (Platform, PlatformExternalID).
// The profile fields are set once by Op 0 (author profiler); per spec.md §3, the
// tier is never rewritten once set by a later operator.
type Author struct {
	ID                 int64
	Platform           string
	PlatformExternalID string
	Name               string
	Description        string // raw platform bio, read by the profiler prompt

	Role             *string
	ExpertiseAreas   *string
	KnownBiases      *string
	CredibilityTier  *int // 1..5
	ProfileNote      *string
	ProfileFetched   bool
	ProfileFetchedAt *time.Time

	CreatedAt time.Time
}

// Topic is a lazily-created, string-keyed label attached to Conclusions.
type Topic struct {
	ID   int64
	Name string
}

// MonitoredSource is a registered URL the system periodically re-polls.
// Identity is (Platform, PlatformID, SourceType).
type MonitoredSource struct {
	ID            int64
	Platform      string
	PlatformID    string
	SourceType    SourceType
	URL           string
	LastFetchedAt *time.Time
	CreatedAt     time.Time
}

// RawPost is one ingested piece of content. Identity for dedup is (Source, ExternalID).
type RawPost struct {
	ID               int64
	Source           string
	ExternalID       string
	Content          string
	EnrichedContent  *string // set by the Context Enricher (C6)
	MediaJSON        *string // JSON array of media descriptors (images, audio)
	AuthorName       string
	AuthorPlatformID string
	URL              string
	PostedAt         time.Time

	ContextFetched bool
	HasContext     bool
	IsProcessed    bool
	ProcessedAt    *time.Time

	CreatedAt time.Time
}

// VerificationReference is a source suggested by the extraction LLM as a
// plausible authority for verifying a Fact; advisory only, not itself proof.
type VerificationReference struct {
	ID              int64
	FactID          int64
	Organization    string
	DataDescription string
	URL             *string
	URLNote         *string
}

// Fact is an atomic, independently verifiable assertion extracted from a post.
type Fact struct {
	ID                   int64
	RawPostID            int64
	Claim                string
	CanonicalClaim       string
	VerifiableExpression *string
	IsVerifiable         bool
	VerificationMethod   *string
	ValidityStart        *time.Time
	ValidityEnd          *time.Time
	Status               FactStatus

	VerifiedSourceOrg   *string
	VerifiedSourceURL   *string
	VerifiedSourceData  *string
	VerificationEvidence *string
	VerifiedAt          *time.Time

	CreatedAt time.Time
}

// Conclusion is an author's judgment, retrospective or predictive.
type Conclusion struct {
	ID             int64
	SourceURL      string // references RawPost via author_id + source_url, not FK (spec.md §3)
	AuthorID       int64
	TopicID        *int64
	Claim          string
	CanonicalClaim string
	ConclusionType ConclusionType
	TimeHorizonNote *string
	ValidFrom      *time.Time
	ValidUntil     *time.Time
	Status         ConclusionStatus

	MonitoringSourceOrg  *string
	MonitoringSourceURL  *string
	MonitoringPeriodNote *string
	MonitoringStart      *time.Time
	MonitoringEnd        *time.Time

	PostedAt  time.Time
	CreatedAt time.Time
}

// Solution is a concrete actionable recommendation derived from Conclusions.
type Solution struct {
	ID              int64
	SourceURL       string
	AuthorID        int64
	Claim           string
	ActionType      ActionType
	ActionTarget    string
	ActionRationale *string
	Status          SolutionStatus

	SimulatedActionNote *string

	MonitoringSourceOrg  *string
	MonitoringSourceURL  *string
	MonitoringPeriodNote *string
	MonitoringStart      *time.Time
	MonitoringEnd        *time.Time

	PostedAt  time.Time
	CreatedAt time.Time
}

// Logic is an explicit reasoning edge: either INFERENCE (Facts -> Conclusion)
// or DERIVATION (Conclusions -> Solution).
type Logic struct {
	ID        int64
	RawPostID int64
	LogicType LogicType

	ConclusionID *int64 // set only for INFERENCE
	SolutionID   *int64 // set only for DERIVATION

	SupportingFactIDs   []int64 // INFERENCE only
	AssumptionFactIDs    []int64 // INFERENCE only
	SourceConclusionIDs []int64 // DERIVATION only

	LogicCompleteness  *LogicCompleteness
	LogicNote          *string
	OneSentenceSummary *string
	AssessedAt         *time.Time

	CreatedAt time.Time
}

// LogicRelation is a directed edge between two Logic nodes of the same post.
type LogicRelation struct {
	ID           int64
	FromLogicID  int64
	ToLogicID    int64
	RelationType RelationType
	Note         *string
	CreatedAt    time.Time
}

// FactEvaluation is one verification attempt against a Fact. Append-only;
// the most recent row per fact wins.
type FactEvaluation struct {
	ID             int64
	FactID         int64
	Result         EvalResult
	EvidenceTier   *int // 1, 2, 3, or nil
	EvidenceText   *string
	DataPeriod     *string
	EvaluatorNotes *string
	EvaluatedAt    time.Time
}

// ConclusionVerdict is the pipeline's final determination for a Conclusion.
type ConclusionVerdict struct {
	ID          int64
	ConclusionID int64
	Verdict     Verdict
	LogicTrace  string // JSON snapshot of the facts/evaluations used to derive this verdict
	RoleFit     *RoleFit
	RoleFitNote *string
	DerivedAt   time.Time
}

// SolutionAssessment is the pipeline's final determination for a Solution.
type SolutionAssessment struct {
	ID           int64
	SolutionID   int64
	Verdict      Verdict
	LogicTrace   string
	RoleFit      *RoleFit
	RoleFitNote  *string
	DerivedAt    time.Time
}

// PostQualityAssessment is the per-post uniqueness/effectiveness scoring. Unique on RawPostID.
type PostQualityAssessment struct {
	ID               int64
	RawPostID        int64
	SimilarAuthorCount *int
	UniquenessScore    *float64
	IsFirstMover       *bool
	EffectivenessScore *float64
	NoiseRatio         *float64
	NoiseTypes         []NoiseType
	EffectivenessNote  *string
	AssessedAt         time.Time
}

// AuthorStats is the seven-dimensional aggregate per author. Unique on AuthorID.
type AuthorStats struct {
	ID       int64
	AuthorID int64

	FactAccuracy            *DimValue
	ConclusionAccuracy      *DimValue
	PredictionAccuracy      *DimValue
	LogicRigor              *DimValue
	RecommendationReliability *DimValue
	ContentUniqueness       *DimValue
	ContentEffectiveness    *DimValue

	OverallCredibilityScore *float64

	UpdatedAt time.Time
}

// DimValue is one of the seven AuthorStats dimensions: a value in [0,1] plus
// the sample size it was computed from. A nil *DimValue means "unavailable"
// (zero-sample dimension, excluded from the weighted overall score).
type DimValue struct {
	Value      float64
	SampleSize int
}
