package model

// CoverageLevel is the ordinal rating of how well a rule's description
// semantically matches an obligation.
type CoverageLevel string

const (
	CoverageNone   CoverageLevel = "none"
	CoverageLow    CoverageLevel = "low"
	CoverageMedium CoverageLevel = "medium"
	CoverageHigh   CoverageLevel = "high"
)

// RuleObligationMatch pairs one rule with one obligation. Confidence is
// capped at 0.95: heuristic matching is never fully certain.
type RuleObligationMatch struct {
	RuleID       string        `json:"rule_id"`
	ObligationID string        `json:"obligation_id"`
	Coverage     CoverageLevel `json:"coverage"`
	Confidence   float64       `json:"confidence"` // [0, 0.95]
	Reasoning    string        `json:"reasoning"`  // matched semantic categories, human-readable
}

// GapType classifies a shortfall between obligations and covering rules
type GapType string

const (
	GapUncoveredObligations GapType = "uncovered_obligations"
	GapPartialCoverage      GapType = "partial_coverage"
	GapSingleRuleOverload   GapType = "single_rule_multiple_obligations"
	GapInsufficientRules    GapType = "insufficient_rules"
)

// Severity grades gaps and warnings
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// CoverageGap describes one shortfall and the obligations implicated
type CoverageGap struct {
	Type        GapType  `json:"type"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Obligations []string `json:"obligations,omitempty"` // obligation IDs
}

// CoverageStatus marks whether an obligation's best match covers it at all
type CoverageStatus string

const (
	StatusCovered   CoverageStatus = "covered"
	StatusUncovered CoverageStatus = "uncovered"
)

// ObligationCoverage records the best-matching rule for one obligation
type ObligationCoverage struct {
	ObligationID string               `json:"obligation_id"`
	Status       CoverageStatus       `json:"status"`
	BestMatch    *RuleObligationMatch `json:"best_match,omitempty"`
}

// CoverageAssessment aggregates per-obligation matching into gaps and an
// overall confidence for the assessment itself.
type CoverageAssessment struct {
	Gaps                 []CoverageGap        `json:"gaps"`
	Confidence           float64              `json:"confidence"`
	EstimatedRulesNeeded int                  `json:"estimated_rules_needed"`
	Mapping              []ObligationCoverage `json:"rule_obligation_mapping,omitempty"`
}

// WarningType classifies user-facing coverage warnings
type WarningType string

const (
	WarningNoRules            WarningType = "no_rules"
	WarningUncovered          WarningType = "uncovered_obligations"
	WarningPartialCoverage    WarningType = "partial_coverage"
	WarningSingleRuleOverload WarningType = "single_rule_multiple_obligations"
	WarningInsufficientRules  WarningType = "insufficient_rules"
	WarningComplexRequirement WarningType = "complex_requirement"
)

// Warning is a presentation-ready alert derived from coverage gaps
type Warning struct {
	Type     WarningType `json:"type"`
	Severity Severity    `json:"severity"`
	Title    string      `json:"title"`
	Message  string      `json:"message"`
}

// RecommendationPriority ranks improvement recommendations
type RecommendationPriority string

const (
	RecommendationCritical RecommendationPriority = "critical"
	RecommendationHigh     RecommendationPriority = "high"
	RecommendationMedium   RecommendationPriority = "medium"
)

// Recommendation is an actionable improvement derived from coverage gaps
type Recommendation struct {
	Priority RecommendationPriority `json:"priority"`
	Action   string                 `json:"action"`
	Detail   string                 `json:"detail,omitempty"`
}

// AnalysisResult is the complete output of one requirement coverage
// analysis. It is a pure function's output: created fresh per call, no
// independent identity, no persistence.
type AnalysisResult struct {
	RequirementID       string           `json:"requirement_id"`
	RequirementTitle    string           `json:"requirement_title"`
	Reference           string           `json:"reference,omitempty"`
	MultipleObligations bool             `json:"multiple_obligations"`
	Obligations         []Obligation     `json:"obligations"`
	RuleCount           int              `json:"rule_count"`
	Gaps                []CoverageGap    `json:"gaps"`
	Warnings            []Warning        `json:"warnings"`
	Recommendations     []Recommendation `json:"recommendations"`
	RiskLevel           RiskLevel        `json:"risk_level"`
	Confidence          float64          `json:"confidence"`
}

// SummaryStats aggregates a set of analysis results for portfolio views
type SummaryStats struct {
	TotalRequirements                int     `json:"total_requirements"`
	RequirementsWithWarnings         int     `json:"requirements_with_warnings"`
	CriticalGaps                     int     `json:"critical_gaps"`
	HighRiskGaps                     int     `json:"high_risk_gaps"`
	AverageObligationsPerRequirement float64 `json:"average_obligations_per_requirement"`
	AverageRulesPerRequirement       float64 `json:"average_rules_per_requirement"`
}
