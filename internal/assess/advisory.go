package assess

import (
	"fmt"
	"sort"

	"github.com/fortify-solutions/compliance-hub/internal/model"
)

// Warnings converts coverage gaps into presentation-ready warning records:
// one warning per gap type present, plus two global heuristics that fire
// independently of the structured gap logic.
func Warnings(obligations []model.Obligation, rules []model.Rule, coverage model.CoverageAssessment) []model.Warning {
	var warnings []model.Warning

	// The no-rules warning always leads when obligations exist unmonitored.
	if len(rules) == 0 && len(obligations) > 0 {
		warnings = append(warnings, model.Warning{
			Type:     model.WarningNoRules,
			Severity: model.SeverityCritical,
			Title:    "No monitoring rules linked",
			Message:  fmt.Sprintf("This requirement defines %d obligation(s) but has no linked monitoring rules", len(obligations)),
		})
	}

	for _, gapType := range gapTypesPresent(coverage.Gaps) {
		gap := worstGapOfType(coverage.Gaps, gapType)
		warnings = append(warnings, warningForGap(gap))
	}

	// Complex requirements with thin rule coverage get flagged even when the
	// structured gap logic found nothing.
	if len(obligations) >= 4 && len(rules) <= 2 {
		warnings = append(warnings, model.Warning{
			Type:     model.WarningComplexRequirement,
			Severity: model.SeverityMedium,
			Title:    "Complex requirement, thin coverage",
			Message:  fmt.Sprintf("%d obligations are monitored by only %d rule(s); consider decomposing coverage", len(obligations), len(rules)),
		})
	}

	return warnings
}

// Recommendations mirrors gaps at a higher level of actionability
func Recommendations(obligations []model.Obligation, rules []model.Rule, coverage model.CoverageAssessment) []model.Recommendation {
	var recs []model.Recommendation

	if len(rules) == 0 && len(obligations) > 0 {
		recs = append(recs, model.Recommendation{
			Priority: model.RecommendationCritical,
			Action:   fmt.Sprintf("Implement monitoring coverage: create %d rule(s) for this requirement", coverage.EstimatedRulesNeeded),
			Detail:   "No monitoring rules are linked to this requirement; every obligation is unmonitored",
		})
	}

	for _, gapType := range gapTypesPresent(coverage.Gaps) {
		gap := worstGapOfType(coverage.Gaps, gapType)
		if rec, ok := recommendationForGap(gap, coverage, len(rules)); ok {
			recs = append(recs, rec)
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return priorityRank(recs[i].Priority) < priorityRank(recs[j].Priority)
	})

	return recs
}

func warningForGap(gap model.CoverageGap) model.Warning {
	switch gap.Type {
	case model.GapUncoveredObligations:
		return model.Warning{
			Type:     model.WarningUncovered,
			Severity: gap.Severity,
			Title:    "Uncovered obligations",
			Message:  gap.Description,
		}
	case model.GapPartialCoverage:
		return model.Warning{
			Type:     model.WarningPartialCoverage,
			Severity: gap.Severity,
			Title:    "Partial coverage",
			Message:  gap.Description,
		}
	case model.GapSingleRuleOverload:
		return model.Warning{
			Type:     model.WarningSingleRuleOverload,
			Severity: gap.Severity,
			Title:    "Single rule stretched across obligations",
			Message:  gap.Description,
		}
	default: // GapInsufficientRules
		return model.Warning{
			Type:     model.WarningInsufficientRules,
			Severity: gap.Severity,
			Title:    "Insufficient rules",
			Message:  gap.Description,
		}
	}
}

func recommendationForGap(gap model.CoverageGap, coverage model.CoverageAssessment, ruleCount int) (model.Recommendation, bool) {
	switch gap.Type {
	case model.GapUncoveredObligations:
		priority := model.RecommendationHigh
		if gap.Severity == model.SeverityCritical {
			priority = model.RecommendationCritical
		}
		// Already covered by the blanket no-rules recommendation.
		if ruleCount == 0 {
			return model.Recommendation{}, false
		}
		return model.Recommendation{
			Priority: priority,
			Action:   fmt.Sprintf("Create %d dedicated rule(s) for obligations without a matching rule", len(gap.Obligations)),
			Detail:   gap.Description,
		}, true
	case model.GapPartialCoverage:
		return model.Recommendation{
			Priority: model.RecommendationMedium,
			Action:   "Review thresholds and matching logic of partially covering rules",
			Detail:   gap.Description,
		}, true
	case model.GapSingleRuleOverload:
		return model.Recommendation{
			Priority: model.RecommendationMedium,
			Action:   "Split coverage: give each obligation a dedicated monitoring rule",
			Detail:   gap.Description,
		}, true
	case model.GapInsufficientRules:
		priority := model.RecommendationMedium
		if gap.Severity == model.SeverityHigh {
			priority = model.RecommendationHigh
		}
		shortfall := coverage.EstimatedRulesNeeded - ruleCount
		return model.Recommendation{
			Priority: priority,
			Action:   fmt.Sprintf("Create approximately %d additional rule(s) to reach estimated coverage", shortfall),
			Detail:   gap.Description,
		}, true
	}
	return model.Recommendation{}, false
}

// gapTypesPresent returns the distinct gap types in first-seen order
func gapTypesPresent(gaps []model.CoverageGap) []model.GapType {
	seen := make(map[model.GapType]bool)
	var types []model.GapType
	for _, gap := range gaps {
		if !seen[gap.Type] {
			seen[gap.Type] = true
			types = append(types, gap.Type)
		}
	}
	return types
}

// worstGapOfType returns the highest-severity gap of the given type
func worstGapOfType(gaps []model.CoverageGap, gapType model.GapType) model.CoverageGap {
	var worst model.CoverageGap
	found := false
	for _, gap := range gaps {
		if gap.Type != gapType {
			continue
		}
		if !found || severityRank(gap.Severity) < severityRank(worst.Severity) {
			worst = gap
			found = true
		}
	}
	return worst
}

func severityRank(s model.Severity) int {
	switch s {
	case model.SeverityCritical:
		return 0
	case model.SeverityHigh:
		return 1
	case model.SeverityMedium:
		return 2
	default:
		return 3
	}
}

func priorityRank(p model.RecommendationPriority) int {
	switch p {
	case model.RecommendationCritical:
		return 0
	case model.RecommendationHigh:
		return 1
	default:
		return 2
	}
}
