package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fortify-solutions/compliance-hub/internal/model"
)

// ObligationExtractor parses a requirement's free text into discrete
// obligations. Extraction is deterministic: same text, same obligations.
type ObligationExtractor struct {
	maxObligations    int
	minFragmentLength int
	fallbackMinLength int
}

var (
	numberedMarkerRe = regexp.MustCompile(`\((\d+)\)\s+`)
	mustClauseRe     = regexp.MustCompile(`(?i)\bmust\b\s+\w+`)
	dollarAmountRe   = regexp.MustCompile(`\$[\d,]+(?:\.\d+)?`)
)

// triggerIndicators are the monitoring verbs recorded on each obligation so
// the UI can show what the clause asks the program to do.
var triggerIndicators = []string{
	"monitor", "detect", "flag", "report", "verify", "review", "screen", "file",
}

// NewObligationExtractor creates an extractor with the given bounds
func NewObligationExtractor(cfg model.ExtractorConfig) *ObligationExtractor {
	if cfg.MaxObligations <= 0 {
		cfg.MaxObligations = 8
	}
	if cfg.MinFragmentLength <= 0 {
		cfg.MinFragmentLength = 10
	}
	if cfg.FallbackMinLength <= 0 {
		cfg.FallbackMinLength = 200
	}
	return &ObligationExtractor{
		maxObligations:    cfg.MaxObligations,
		minFragmentLength: cfg.MinFragmentLength,
		fallbackMinLength: cfg.FallbackMinLength,
	}
}

// Extract parses requirement text into obligations. Numbered-list extraction
// wins outright: must-clause and threshold extraction run only when no
// numbered obligations were found. Note the threshold guard is keyed to
// "no numbered obligations", not "no obligations so far" — must-clause and
// threshold extraction can therefore both fire on the same text. This
// mirrors the shipped behavior of the coverage dashboard; a unit test pins
// it so any future change is deliberate.
func (e *ObligationExtractor) Extract(text string) []model.Obligation {
	var obligations []model.Obligation

	numbered := e.extractNumbered(text)
	obligations = append(obligations, numbered...)

	if len(numbered) == 0 {
		obligations = append(obligations, e.extractMustClauses(text)...)
	}
	if len(numbered) == 0 {
		obligations = append(obligations, e.extractThresholds(text)...)
	}

	if len(obligations) == 0 {
		if ob, ok := e.fallbackGeneral(text); ok {
			obligations = append(obligations, ob)
		}
	}

	if len(obligations) > e.maxObligations {
		obligations = obligations[:e.maxObligations]
	}

	for i := range obligations {
		obligations[i].ID = fmt.Sprintf("obligation-%d", i+1)
	}

	return obligations
}

// extractNumbered pulls "(1) ..." list items: each fragment runs from its
// marker to the next marker or end of string.
func (e *ObligationExtractor) extractNumbered(text string) []model.Obligation {
	markers := numberedMarkerRe.FindAllStringSubmatchIndex(text, -1)
	if len(markers) == 0 {
		return nil
	}

	var obligations []model.Obligation
	for i, m := range markers {
		start := m[1] // end of "(<n>) "
		end := len(text)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}

		fragment := trimFragment(text[start:end])
		if len(fragment) < e.minFragmentLength {
			continue // noise
		}

		marker := strings.TrimSpace(text[m[0]:m[1]])
		obligations = append(obligations, model.Obligation{
			Type:     model.ObligationNumbered,
			Text:     fragment,
			Source:   marker,
			Triggers: findTriggers(fragment),
			Priority: model.PriorityHigh,
		})
	}

	return obligations
}

// extractMustClauses turns every "must <verb> ..." sentence into an obligation
func (e *ObligationExtractor) extractMustClauses(text string) []model.Obligation {
	var obligations []model.Obligation
	for _, sentence := range splitSentences(text) {
		if !mustClauseRe.MatchString(sentence) {
			continue
		}
		obligations = append(obligations, model.Obligation{
			Type:     model.ObligationMustClause,
			Text:     sentence,
			Triggers: findTriggers(sentence),
			Priority: model.PriorityMedium,
		})
	}
	return obligations
}

// extractThresholds turns every sentence carrying a dollar amount into an
// obligation, recording the amounts as triggers.
func (e *ObligationExtractor) extractThresholds(text string) []model.Obligation {
	var obligations []model.Obligation
	for _, sentence := range splitSentences(text) {
		amounts := dollarAmountRe.FindAllString(sentence, -1)
		if len(amounts) == 0 {
			continue
		}
		triggers := append(findTriggers(sentence), amounts...)
		obligations = append(obligations, model.Obligation{
			Type:     model.ObligationThreshold,
			Text:     sentence,
			Triggers: triggers,
			Priority: model.PriorityHigh,
		})
	}
	return obligations
}

// fallbackGeneral emits a single catch-all obligation for long unstructured
// text that none of the targeted strategies could decompose.
func (e *ObligationExtractor) fallbackGeneral(text string) (model.Obligation, bool) {
	if len(text) <= e.fallbackMinLength {
		return model.Obligation{}, false
	}

	substantial := 0
	for _, sentence := range splitSentences(text) {
		if len(sentence) > 20 {
			substantial++
		}
	}
	if substantial <= 2 {
		return model.Obligation{}, false
	}

	return model.Obligation{
		Type:     model.ObligationGeneral,
		Text:     "Multiple monitoring requirements identified in requirement text",
		Triggers: findTriggers(text),
		Priority: model.PriorityMedium,
	}, true
}

// trimFragment strips trailing conjunctions and punctuation left over from
// list formatting, e.g. ", and" at the end of a numbered item.
func trimFragment(s string) string {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	for _, suffix := range []string{", and", "; and", " and"} {
		if strings.HasSuffix(lower, suffix) {
			s = s[:len(s)-len(suffix)]
			break
		}
	}
	return strings.TrimRight(strings.TrimSpace(s), ",.;")
}

// splitSentences splits text on sentence terminators (simple heuristic)
func splitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)

		if r == '.' || r == '!' || r == '?' {
			// Look ahead to avoid splitting on decimals like $8.50
			if i+1 >= len(text) || text[i+1] == ' ' || text[i+1] == '\t' {
				if s := strings.TrimSpace(current.String()); s != "" {
					sentences = append(sentences, s)
				}
				current.Reset()
			}
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// findTriggers collects the monitoring indicator keywords present in text
func findTriggers(text string) []string {
	lower := strings.ToLower(text)
	var triggers []string
	for _, indicator := range triggerIndicators {
		if strings.Contains(lower, indicator) {
			triggers = append(triggers, indicator)
		}
	}
	return triggers
}
