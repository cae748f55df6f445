package assess

import (
	"fmt"
	"math"
	"strings"

	"github.com/fortify-solutions/compliance-hub/internal/match"
	"github.com/fortify-solutions/compliance-hub/internal/model"
)

// Assessor aggregates per-obligation rule matching into coverage gaps and
// an overall confidence for the assessment.
type Assessor struct {
	matcher *match.Matcher
}

// NewAssessor creates an assessor backed by the given matcher
func NewAssessor(matcher *match.Matcher) *Assessor {
	return &Assessor{matcher: matcher}
}

// Coverage assesses how well the linked rules cover the extracted
// obligations. The full semantic matching path runs only when at least one
// numbered obligation exists; otherwise a coarse count-based heuristic
// estimates the rules needed.
func (a *Assessor) Coverage(obligations []model.Obligation, rules []model.Rule) model.CoverageAssessment {
	if len(obligations) == 0 {
		// Nothing to cover. The fewer unknowns, the more confident there is
		// nothing to find.
		confidence := 0.9
		if len(rules) > 0 {
			confidence = 0.8
		}
		return model.CoverageAssessment{Confidence: confidence}
	}

	if len(rules) == 0 {
		return a.assessNoRules(obligations)
	}

	if hasNumbered(obligations) {
		return a.assessSemantic(obligations, rules)
	}

	return a.assessByCount(obligations, rules)
}

// assessNoRules handles obligations with no linked rules at all: a single
// critical gap listing every obligation, asserted with high confidence.
func (a *Assessor) assessNoRules(obligations []model.Obligation) model.CoverageAssessment {
	ids := make([]string, len(obligations))
	for i, ob := range obligations {
		ids[i] = ob.ID
	}

	gap := model.CoverageGap{
		Type:        model.GapUncoveredObligations,
		Severity:    model.SeverityCritical,
		Description: fmt.Sprintf("No monitoring rules cover any of the %d obligations in this requirement", len(obligations)),
		Obligations: ids,
	}

	return model.CoverageAssessment{
		Gaps:                 []model.CoverageGap{gap},
		Confidence:           0.95,
		EstimatedRulesNeeded: len(obligations),
	}
}

// assessSemantic runs per-obligation semantic matching over every numbered
// obligation and derives gaps from the best-match coverage levels.
func (a *Assessor) assessSemantic(obligations []model.Obligation, rules []model.Rule) model.CoverageAssessment {
	var mapping []model.ObligationCoverage
	var uncovered, partial []string
	covered := 0

	for _, ob := range obligations {
		if ob.Type != model.ObligationNumbered {
			continue
		}

		best := a.matcher.BestMatch(rules, ob)
		entry := model.ObligationCoverage{
			ObligationID: ob.ID,
			Status:       model.StatusUncovered,
			BestMatch:    best,
		}

		if best != nil && best.Coverage != model.CoverageNone {
			entry.Status = model.StatusCovered
			covered++
			switch best.Coverage {
			case model.CoverageLow, model.CoverageMedium:
				partial = append(partial, ob.ID)
			}
		} else {
			uncovered = append(uncovered, ob.ID)
		}

		mapping = append(mapping, entry)
	}

	estimated := len(uncovered) + int(math.Ceil(float64(len(partial))*0.5))

	var gaps []model.CoverageGap
	if len(uncovered) > 0 {
		severity := model.SeverityHigh
		if len(uncovered) > 2 {
			severity = model.SeverityCritical
		}
		gaps = append(gaps, model.CoverageGap{
			Type:        model.GapUncoveredObligations,
			Severity:    severity,
			Description: fmt.Sprintf("%d obligation(s) have no semantically matching rule: %s", len(uncovered), strings.Join(uncovered, ", ")),
			Obligations: uncovered,
		})
	}
	if len(partial) > 0 {
		gaps = append(gaps, model.CoverageGap{
			Type:        model.GapPartialCoverage,
			Severity:    model.SeverityMedium,
			Description: fmt.Sprintf("%d obligation(s) are only partially covered by their best-matching rule", len(partial)),
			Obligations: partial,
		})
	}
	if len(rules) == 1 && covered > 1 {
		gaps = append(gaps, model.CoverageGap{
			Type:        model.GapSingleRuleOverload,
			Severity:    model.SeverityMedium,
			Description: fmt.Sprintf("A single rule covers %d obligations; each obligation likely deserves a dedicated rule", covered),
		})
	}

	return model.CoverageAssessment{
		Gaps:                 gaps,
		Confidence:           assessmentConfidence(len(rules), len(obligations)),
		EstimatedRulesNeeded: estimated,
		Mapping:              mapping,
	}
}

// assessByCount is the coarse path for requirements without numbered
// obligations: estimate rules needed from obligation priorities alone.
func (a *Assessor) assessByCount(obligations []model.Obligation, rules []model.Rule) model.CoverageAssessment {
	highCount, mediumCount := 0, 0
	for _, ob := range obligations {
		if ob.Priority == model.PriorityHigh {
			highCount++
		} else {
			mediumCount++
		}
	}

	estimated := int(math.Ceil(float64(highCount)*1.0 + float64(mediumCount)*0.7))

	var gaps []model.CoverageGap
	if len(rules) < estimated {
		shortfall := estimated - len(rules)
		severity := model.SeverityMedium
		if shortfall > 1 {
			severity = model.SeverityHigh
		}
		gaps = append(gaps, model.CoverageGap{
			Type:        model.GapInsufficientRules,
			Severity:    severity,
			Description: fmt.Sprintf("Approximately %d rule(s) needed for %d obligation(s), only %d linked", estimated, len(obligations), len(rules)),
		})
	}

	return model.CoverageAssessment{
		Gaps:                 gaps,
		Confidence:           assessmentConfidence(len(rules), len(obligations)),
		EstimatedRulesNeeded: estimated,
	}
}

// assessmentConfidence rises with corroborating data points, capped at 0.95
func assessmentConfidence(ruleCount, obligationCount int) float64 {
	n := ruleCount
	if obligationCount < n {
		n = obligationCount
	}
	return math.Min(0.95, 0.7+0.05*float64(n))
}

func hasNumbered(obligations []model.Obligation) bool {
	for _, ob := range obligations {
		if ob.Type == model.ObligationNumbered {
			return true
		}
	}
	return false
}

func hasHighPriority(obligations []model.Obligation) bool {
	for _, ob := range obligations {
		if ob.Priority == model.PriorityHigh {
			return true
		}
	}
	return false
}
