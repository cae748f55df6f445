package match

import (
	"strings"

	"github.com/fortify-solutions/compliance-hub/internal/model"
)

// Matcher scores how well a monitoring rule covers an obligation using the
// semantic category table. This is a bag-of-keywords heuristic, not NLP:
// intentionally cheap, and explainable because the matched category labels
// are returned as the reasoning the UI shows.
type Matcher struct {
	categories      []model.SemanticCategory
	highThreshold   float64
	mediumThreshold float64
	lowThreshold    float64
	confidenceCap   float64
}

// NewMatcher creates a matcher from the category table and thresholds
func NewMatcher(cfg model.MatcherConfig) *Matcher {
	categories := cfg.Categories
	if len(categories) == 0 {
		categories = model.DefaultCategories()
	}
	m := &Matcher{
		categories:      categories,
		highThreshold:   cfg.HighThreshold,
		mediumThreshold: cfg.MediumThreshold,
		lowThreshold:    cfg.LowThreshold,
		confidenceCap:   cfg.ConfidenceCap,
	}
	if m.highThreshold == 0 {
		m.highThreshold = 0.7
	}
	if m.mediumThreshold == 0 {
		m.mediumThreshold = 0.4
	}
	if m.lowThreshold == 0 {
		m.lowThreshold = 0.2
	}
	if m.confidenceCap == 0 {
		m.confidenceCap = 0.95
	}
	return m
}

// RuleToObligation computes the coverage level and confidence for one
// (rule, obligation) pair. For every category the obligation text matches,
// a rule mentioning any of that category's keywords adds the category
// weight to the score once.
func (m *Matcher) RuleToObligation(rule model.Rule, obligation model.Obligation) model.RuleObligationMatch {
	ruleText := strings.ToLower(rule.Name + " " + rule.Description + " " + rule.Category)
	obligationText := strings.ToLower(obligation.Text)

	var score float64
	var matched []string

	for _, category := range m.categories {
		if !anyContains(obligationText, category.Patterns) {
			continue
		}
		if !anyContains(ruleText, category.Keywords) {
			continue
		}
		score += category.Weight
		matched = append(matched, category.Name)
	}

	confidence := score
	if confidence > m.confidenceCap {
		confidence = m.confidenceCap
	}

	reasoning := "no semantic match"
	if len(matched) > 0 {
		reasoning = "matched: " + strings.Join(matched, ", ")
	}

	return model.RuleObligationMatch{
		RuleID:       rule.ID,
		ObligationID: obligation.ID,
		Coverage:     m.coverageLevel(score),
		Confidence:   confidence,
		Reasoning:    reasoning,
	}
}

// BestMatch returns the strongest match for an obligation across all rules,
// or nil when no rules are supplied.
func (m *Matcher) BestMatch(rules []model.Rule, obligation model.Obligation) *model.RuleObligationMatch {
	var best *model.RuleObligationMatch
	for _, rule := range rules {
		candidate := m.RuleToObligation(rule, obligation)
		if best == nil || candidate.Confidence > best.Confidence {
			c := candidate
			best = &c
		}
	}
	return best
}

func (m *Matcher) coverageLevel(score float64) model.CoverageLevel {
	switch {
	case score >= m.highThreshold:
		return model.CoverageHigh
	case score >= m.mediumThreshold:
		return model.CoverageMedium
	case score >= m.lowThreshold:
		return model.CoverageLow
	default:
		return model.CoverageNone
	}
}

func anyContains(text string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
