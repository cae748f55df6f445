package analyze

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fortify-solutions/compliance-hub/internal/model"
)

// Renderer writes analysis results as JSON or Markdown reports
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes any report value as indented JSON
func (r *Renderer) RenderJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes one analysis result as a Markdown report
func (r *Renderer) RenderMarkdown(result model.AnalysisResult, path string) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Coverage Analysis: %s\n\n", result.RequirementTitle)
	if result.Reference != "" {
		fmt.Fprintf(&sb, "**Reference:** %s\n\n", result.Reference)
	}
	fmt.Fprintf(&sb, "**Risk level:** %s  \n", result.RiskLevel)
	fmt.Fprintf(&sb, "**Confidence:** %.2f  \n", result.Confidence)
	fmt.Fprintf(&sb, "**Linked rules:** %d\n\n", result.RuleCount)

	fmt.Fprintf(&sb, "## Obligations (%d)\n\n", len(result.Obligations))
	if len(result.Obligations) == 0 {
		sb.WriteString("No discrete obligations were extracted from the requirement text.\n\n")
	}
	for _, ob := range result.Obligations {
		marker := ""
		if ob.Source != "" {
			marker = " " + ob.Source
		}
		fmt.Fprintf(&sb, "- **%s**%s [%s/%s]: %s\n", ob.ID, marker, ob.Type, ob.Priority, ob.Text)
	}
	sb.WriteString("\n")

	if len(result.Gaps) > 0 {
		fmt.Fprintf(&sb, "## Gaps (%d)\n\n", len(result.Gaps))
		sb.WriteString("| Type | Severity | Description |\n|---|---|---|\n")
		for _, gap := range result.Gaps {
			fmt.Fprintf(&sb, "| %s | %s | %s |\n", gap.Type, gap.Severity, gap.Description)
		}
		sb.WriteString("\n")
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintf(&sb, "## Warnings (%d)\n\n", len(result.Warnings))
		for _, warning := range result.Warnings {
			fmt.Fprintf(&sb, "- **[%s] %s**: %s\n", warning.Severity, warning.Title, warning.Message)
		}
		sb.WriteString("\n")
	}

	if len(result.Recommendations) > 0 {
		fmt.Fprintf(&sb, "## Recommendations (%d)\n\n", len(result.Recommendations))
		for _, rec := range result.Recommendations {
			fmt.Fprintf(&sb, "- **[%s]** %s\n", rec.Priority, rec.Action)
			if rec.Detail != "" {
				fmt.Fprintf(&sb, "  %s\n", rec.Detail)
			}
		}
		sb.WriteString("\n")
	}

	if r.includeFooter {
		sb.WriteString("---\n\nGenerated by compliance-hub. Coverage levels are keyword heuristics, not legal advice.\n")
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write markdown report: %w", err)
	}
	return nil
}

// RenderSummary prints a one-screen digest of a result to w
func (r *Renderer) RenderSummary(w io.Writer, result model.AnalysisResult) {
	fmt.Fprintf(w, "%s (%s)\n", result.RequirementTitle, result.RequirementID)
	fmt.Fprintf(w, "  risk=%s confidence=%.2f obligations=%d rules=%d gaps=%d warnings=%d\n",
		result.RiskLevel, result.Confidence, len(result.Obligations), result.RuleCount, len(result.Gaps), len(result.Warnings))
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "  ! [%s] %s\n", warning.Severity, warning.Title)
	}
}

// RenderStats prints portfolio summary statistics to w
func (r *Renderer) RenderStats(w io.Writer, stats model.SummaryStats) {
	fmt.Fprintf(w, "Requirements analyzed: %d\n", stats.TotalRequirements)
	fmt.Fprintf(w, "  with warnings:       %d\n", stats.RequirementsWithWarnings)
	fmt.Fprintf(w, "  critical gaps:       %d\n", stats.CriticalGaps)
	fmt.Fprintf(w, "  high-risk gaps:      %d\n", stats.HighRiskGaps)
	fmt.Fprintf(w, "  avg obligations/req: %.2f\n", stats.AverageObligationsPerRequirement)
	fmt.Fprintf(w, "  avg rules/req:       %.2f\n", stats.AverageRulesPerRequirement)
}
