package assess

import (
	"math"
	"testing"

	"github.com/fortify-solutions/compliance-hub/internal/extract"
	"github.com/fortify-solutions/compliance-hub/internal/match"
	"github.com/fortify-solutions/compliance-hub/internal/model"
)

func newTestAssessor() *Assessor {
	return NewAssessor(match.NewMatcher(model.DefaultConfig().Matcher))
}

func extractObligations(t *testing.T, text string) []model.Obligation {
	t.Helper()
	return extract.NewObligationExtractor(model.DefaultConfig().Extractor).Extract(text)
}

const threeClauseText = "Systems must: (1) Monitor cash deposits above $8,000, (2) Detect wire transfers above $15,000, (3) Flag velocity anomalies exceeding 200%."

var cashRule = model.Rule{
	ID:          "rule-cash",
	Name:        "Cash Deposit Monitoring",
	Category:    "cash",
	Description: "Detects structured cash deposit activity across customer accounts",
}

func TestCoverage_NoObligations(t *testing.T) {
	assessor := newTestAssessor()

	withRules := assessor.Coverage(nil, []model.Rule{cashRule})
	if withRules.Confidence != 0.8 {
		t.Errorf("Expected confidence 0.8 with rules present, got %f", withRules.Confidence)
	}
	if len(withRules.Gaps) != 0 {
		t.Errorf("Expected no gaps, got %d", len(withRules.Gaps))
	}

	withoutRules := assessor.Coverage(nil, nil)
	if withoutRules.Confidence != 0.9 {
		t.Errorf("Expected confidence 0.9 with no rules, got %f", withoutRules.Confidence)
	}
}

func TestCoverage_NoRules(t *testing.T) {
	assessor := newTestAssessor()
	obligations := extractObligations(t, threeClauseText)
	if len(obligations) != 3 {
		t.Fatalf("Fixture should yield 3 obligations, got %d", len(obligations))
	}

	coverage := assessor.Coverage(obligations, nil)

	if coverage.Confidence != 0.95 {
		t.Errorf("Expected confidence 0.95, got %f", coverage.Confidence)
	}
	if len(coverage.Gaps) != 1 {
		t.Fatalf("Expected exactly one gap, got %d", len(coverage.Gaps))
	}

	gap := coverage.Gaps[0]
	if gap.Type != model.GapUncoveredObligations {
		t.Errorf("Expected uncovered_obligations gap, got %s", gap.Type)
	}
	if gap.Severity != model.SeverityCritical {
		t.Errorf("Expected critical severity, got %s", gap.Severity)
	}
	if len(gap.Obligations) != 3 {
		t.Errorf("Gap should list all 3 obligations, got %v", gap.Obligations)
	}
}

func TestCoverage_SemanticPath(t *testing.T) {
	assessor := newTestAssessor()
	obligations := extractObligations(t, threeClauseText)

	coverage := assessor.Coverage(obligations, []model.Rule{cashRule})

	if len(coverage.Mapping) != 3 {
		t.Fatalf("Expected mapping for 3 numbered obligations, got %d", len(coverage.Mapping))
	}

	// Obligation 1 (cash) is covered at high level; 2 and 3 have no
	// semantic match against a cash-only rule.
	if coverage.Mapping[0].Status != model.StatusCovered {
		t.Errorf("Obligation 1 should be covered, got %s", coverage.Mapping[0].Status)
	}
	if coverage.Mapping[0].BestMatch == nil || coverage.Mapping[0].BestMatch.Coverage != model.CoverageHigh {
		t.Errorf("Obligation 1 best match should be high: %+v", coverage.Mapping[0].BestMatch)
	}
	for _, i := range []int{1, 2} {
		if coverage.Mapping[i].Status != model.StatusUncovered {
			t.Errorf("Obligation %d should be uncovered, got %s", i+1, coverage.Mapping[i].Status)
		}
	}

	// uncovered=2, partial=0
	if coverage.EstimatedRulesNeeded != 2 {
		t.Errorf("Expected estimated rules needed 2, got %d", coverage.EstimatedRulesNeeded)
	}

	if len(coverage.Gaps) != 1 {
		t.Fatalf("Expected one uncovered gap, got %d gaps", len(coverage.Gaps))
	}
	gap := coverage.Gaps[0]
	if gap.Type != model.GapUncoveredObligations {
		t.Errorf("Expected uncovered_obligations, got %s", gap.Type)
	}
	if gap.Severity != model.SeverityHigh {
		t.Errorf("2 uncovered obligations should be high (critical needs >2), got %s", gap.Severity)
	}

	// confidence = min(0.95, 0.7 + 0.05*min(1, 3)) = 0.75
	if math.Abs(coverage.Confidence-0.75) > 1e-9 {
		t.Errorf("Expected confidence 0.75, got %f", coverage.Confidence)
	}
}

func TestCoverage_UncoveredSeverityCriticalBeyondTwo(t *testing.T) {
	assessor := newTestAssessor()
	text := "(1) Monitor cash deposits above $8,000, (2) Detect wire transfers above $15,000, (3) Flag velocity anomalies exceeding 200%, (4) Review cross-border remittance corridors quarterly."
	obligations := extractObligations(t, text)
	if len(obligations) != 4 {
		t.Fatalf("Fixture should yield 4 obligations, got %d", len(obligations))
	}

	unrelated := model.Rule{ID: "rule-x", Name: "Dormancy Check", Description: "dormant account reactivation"}
	coverage := assessor.Coverage(obligations, []model.Rule{unrelated})

	var uncoveredGap *model.CoverageGap
	for i := range coverage.Gaps {
		if coverage.Gaps[i].Type == model.GapUncoveredObligations {
			uncoveredGap = &coverage.Gaps[i]
		}
	}
	if uncoveredGap == nil {
		t.Fatal("Expected an uncovered_obligations gap")
	}
	if uncoveredGap.Severity != model.SeverityCritical {
		t.Errorf("More than 2 uncovered obligations should be critical, got %s", uncoveredGap.Severity)
	}
}

func TestCoverage_SingleRuleMultipleObligations(t *testing.T) {
	assessor := newTestAssessor()
	text := "(1) Monitor cash deposits above $8,000 daily, (2) Review currency deposit aggregation patterns weekly."
	obligations := extractObligations(t, text)
	if len(obligations) != 2 {
		t.Fatalf("Fixture should yield 2 obligations, got %d", len(obligations))
	}

	// One broad cash rule matching both obligations.
	coverage := assessor.Coverage(obligations, []model.Rule{cashRule})

	found := false
	for _, gap := range coverage.Gaps {
		if gap.Type == model.GapSingleRuleOverload {
			found = true
			if gap.Severity != model.SeverityMedium {
				t.Errorf("Expected medium severity, got %s", gap.Severity)
			}
		}
	}
	if !found {
		t.Errorf("Expected single_rule_multiple_obligations gap, got %+v", coverage.Gaps)
	}
}

func TestCoverage_CountHeuristicWithoutNumbered(t *testing.T) {
	assessor := newTestAssessor()

	// Two high-priority threshold obligations and one medium must-clause:
	// estimated = ceil(2*1 + 1*0.7) = 3.
	obligations := []model.Obligation{
		{ID: "obligation-1", Type: model.ObligationMustClause, Priority: model.PriorityMedium, Text: "must verify customer identity"},
		{ID: "obligation-2", Type: model.ObligationThreshold, Priority: model.PriorityHigh, Text: "transactions above $3,000"},
		{ID: "obligation-3", Type: model.ObligationThreshold, Priority: model.PriorityHigh, Text: "transfers above $10,000"},
	}

	coverage := assessor.Coverage(obligations, []model.Rule{cashRule})

	if coverage.EstimatedRulesNeeded != 3 {
		t.Errorf("Expected estimated 3, got %d", coverage.EstimatedRulesNeeded)
	}
	if len(coverage.Mapping) != 0 {
		t.Errorf("Count path should not produce a semantic mapping, got %d entries", len(coverage.Mapping))
	}
	if len(coverage.Gaps) != 1 {
		t.Fatalf("Expected one insufficient_rules gap, got %d", len(coverage.Gaps))
	}
	gap := coverage.Gaps[0]
	if gap.Type != model.GapInsufficientRules {
		t.Errorf("Expected insufficient_rules, got %s", gap.Type)
	}
	// Shortfall 2 exceeds 1: high severity.
	if gap.Severity != model.SeverityHigh {
		t.Errorf("Expected high severity, got %s", gap.Severity)
	}
}

func TestCoverage_CountHeuristicEnoughRules(t *testing.T) {
	assessor := newTestAssessor()

	obligations := []model.Obligation{
		{ID: "obligation-1", Type: model.ObligationMustClause, Priority: model.PriorityMedium, Text: "must retain records"},
	}
	rules := []model.Rule{cashRule}

	coverage := assessor.Coverage(obligations, rules)

	// estimated = ceil(0.7) = 1 == len(rules): no gap
	if coverage.EstimatedRulesNeeded != 1 {
		t.Errorf("Expected estimated 1, got %d", coverage.EstimatedRulesNeeded)
	}
	if len(coverage.Gaps) != 0 {
		t.Errorf("Expected no gaps, got %+v", coverage.Gaps)
	}
}

func TestAssessmentConfidence_Formula(t *testing.T) {
	tests := []struct {
		rules, obligations int
		want               float64
	}{
		{0, 0, 0.7},
		{1, 3, 0.75},
		{3, 3, 0.85},
		{5, 8, 0.95},
		{10, 10, 0.95}, // capped
	}
	for _, tt := range tests {
		if got := assessmentConfidence(tt.rules, tt.obligations); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("assessmentConfidence(%d, %d) = %f, want %f", tt.rules, tt.obligations, got, tt.want)
		}
	}
}
