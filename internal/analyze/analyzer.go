package analyze

import (
	"encoding/json"
	"time"

	"github.com/fortify-solutions/compliance-hub/internal/assess"
	"github.com/fortify-solutions/compliance-hub/internal/cache"
	"github.com/fortify-solutions/compliance-hub/internal/extract"
	"github.com/fortify-solutions/compliance-hub/internal/match"
	"github.com/fortify-solutions/compliance-hub/internal/model"
)

// Analyzer is the coverage analysis facade: extraction, matching,
// assessment, advisory generation, and risk calculation behind one entry
// point. Analysis itself is a pure function of its inputs; the optional
// cache is a memoization layer keyed over every input, so a hit can never
// be stale.
type Analyzer struct {
	extractor *extract.ObligationExtractor
	assessor  *assess.Assessor
	cache     cache.Cache
	cacheTTL  time.Duration
}

// New creates an analyzer from configuration
func New(cfg *model.Config) *Analyzer {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}

	a := &Analyzer{
		extractor: extract.NewObligationExtractor(cfg.Extractor),
		assessor:  assess.NewAssessor(match.NewMatcher(cfg.Matcher)),
		cacheTTL:  cfg.Cache.TTL,
	}

	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			a.cache = cache.NewLayered(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
		} else {
			a.cache = cache.NewMemory(cfg.Cache.TTL)
		}
	}

	return a
}

// AnalyzeRequirementCoverage analyzes how well the given rules cover the
// requirement's obligations. The requirement and rules are treated as a
// read-only snapshot for the duration of the call.
func (a *Analyzer) AnalyzeRequirementCoverage(req model.Requirement, rules []model.Rule) model.AnalysisResult {
	if a.cache == nil {
		return a.compute(req, rules)
	}

	key := cache.AnalysisKey(req, rules)
	if data, found := a.cache.Get(key); found {
		var cached model.AnalysisResult
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached
		}
		// Unreadable entry: drop it and recompute.
		_ = a.cache.Delete(key)
	}

	result := a.compute(req, rules)
	if data, err := json.Marshal(result); err == nil {
		_ = a.cache.Set(key, data, a.cacheTTL)
	}
	return result
}

// compute is the pure analysis path
func (a *Analyzer) compute(req model.Requirement, rules []model.Rule) model.AnalysisResult {
	obligations := a.extractor.Extract(req.Text)
	coverage := a.assessor.Coverage(obligations, rules)
	warnings := assess.Warnings(obligations, rules, coverage)
	recommendations := assess.Recommendations(obligations, rules, coverage)
	risk := assess.RiskLevel(obligations, rules, coverage)

	return model.AnalysisResult{
		RequirementID:       req.ID,
		RequirementTitle:    req.Title,
		Reference:           req.Reference,
		MultipleObligations: len(obligations) > 1,
		Obligations:         obligations,
		RuleCount:           len(rules),
		Gaps:                coverage.Gaps,
		Warnings:            warnings,
		Recommendations:     recommendations,
		RiskLevel:           risk,
		Confidence:          coverage.Confidence,
	}
}

// RuleLookup resolves the rules currently linked to a requirement. The
// analyzer never discovers this linkage itself.
type RuleLookup func(requirementID string) []model.Rule

// AnalyzeBulkCoverage analyzes every requirement and returns only the
// results carrying at least one warning.
func (a *Analyzer) AnalyzeBulkCoverage(requirements []model.Requirement, lookup RuleLookup) []model.AnalysisResult {
	var flagged []model.AnalysisResult
	for _, req := range requirements {
		result := a.AnalyzeRequirementCoverage(req, lookup(req.ID))
		if len(result.Warnings) > 0 {
			flagged = append(flagged, result)
		}
	}
	return flagged
}

// CoverageSummary aggregates analysis results into portfolio statistics.
// Averages are 0 for an empty result set.
func CoverageSummary(results []model.AnalysisResult) model.SummaryStats {
	stats := model.SummaryStats{TotalRequirements: len(results)}

	totalObligations, totalRules := 0, 0
	for _, result := range results {
		if len(result.Warnings) > 0 {
			stats.RequirementsWithWarnings++
		}
		for _, gap := range result.Gaps {
			switch gap.Severity {
			case model.SeverityCritical:
				stats.CriticalGaps++
			case model.SeverityHigh:
				stats.HighRiskGaps++
			}
		}
		totalObligations += len(result.Obligations)
		totalRules += result.RuleCount
	}

	if len(results) > 0 {
		stats.AverageObligationsPerRequirement = float64(totalObligations) / float64(len(results))
		stats.AverageRulesPerRequirement = float64(totalRules) / float64(len(results))
	}

	return stats
}
