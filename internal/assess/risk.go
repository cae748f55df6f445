package assess

import "github.com/fortify-solutions/compliance-hub/internal/model"

// RiskLevel reduces obligations, rules, and coverage into a single ordinal
// risk level. Decision table, evaluated top to bottom, first match wins.
func RiskLevel(obligations []model.Obligation, rules []model.Rule, coverage model.CoverageAssessment) model.RiskLevel {
	if len(obligations) > 0 && len(rules) == 0 {
		return model.RiskCritical
	}

	shortfall := coverage.EstimatedRulesNeeded - len(rules)
	highPriority := hasHighPriority(obligations)

	switch {
	case shortfall > 2 && highPriority:
		return model.RiskCritical
	case shortfall > 1 && (highPriority || hasNumbered(obligations)):
		return model.RiskHigh
	case shortfall > 0 || len(obligations) > 3:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}
