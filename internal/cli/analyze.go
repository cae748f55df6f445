package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/fortify-solutions/compliance-hub/internal/analyze"
	"github.com/fortify-solutions/compliance-hub/internal/store"
	"github.com/fortify-solutions/compliance-hub/internal/worker"
)

var (
	analyzeAll     bool
	outJSON        string
	outMD          string
	outputDir      string
	noCache        bool
	noFooter       bool
	concurrency    int
	analyzeTimeout time.Duration
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [requirement-id]",
	Short: "Analyze rule coverage for one requirement, or the whole dataset",
	Long: `Analyze evaluates how well the linked monitoring rules cover a
requirement's obligations:
- Extract discrete obligations from the requirement text
- Match obligations against rule descriptions with keyword heuristics
- Detect coverage gaps and estimate how many rules are missing
- Generate warnings, recommendations, and a risk level

Example:
  compliance-hub analyze req-001
  compliance-hub analyze req-001 --json report.json --md report.md
  compliance-hub analyze --all --output-dir ./coverage-reports`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().BoolVar(&analyzeAll, "all", false, "analyze every requirement in the dataset")
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (single requirement only)")
	analyzeCmd.Flags().StringVar(&outputDir, "output-dir", "", "write per-requirement reports here (with --all)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Analysis flags
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh analysis)")
	analyzeCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers (with --all)")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute, "overall analysis timeout")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if !analyzeAll && len(args) == 0 {
		return fmt.Errorf("requirement id required (or use --all)")
	}
	if analyzeAll && len(args) > 0 {
		return fmt.Errorf("--all cannot be combined with a requirement id")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Cache.Enabled = !noCache
	cfg.Output.IncludeFooter = !noFooter
	cfg.Concurrency.AnalysisWorkers = concurrency

	if verbose {
		fmt.Fprintf(os.Stderr, "Dataset: %s\n", cfg.Dataset.Path)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	st, err := store.Load(cfg.Dataset.Path)
	if err != nil {
		return err
	}

	analyzer := analyze.New(cfg)
	renderer := analyze.NewRenderer(cfg.Output.IncludeFooter)

	if analyzeAll {
		return runAnalyzeAll(st, analyzer, renderer)
	}
	return runAnalyzeOne(args[0], st, analyzer, renderer)
}

func runAnalyzeOne(requirementID string, st *store.Store, analyzer *analyze.Analyzer, renderer *analyze.Renderer) error {
	requirement, ok := st.Requirement(requirementID)
	if !ok {
		return fmt.Errorf("requirement not found: %s", requirementID)
	}

	result := analyzer.AnalyzeRequirementCoverage(requirement, st.RulesForRequirement(requirementID))

	renderer.RenderSummary(os.Stdout, result)

	if outJSON != "" {
		if err := renderer.RenderJSON(result, outJSON); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(result, outMD); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", outMD)
		}
	}

	return nil
}

func runAnalyzeAll(st *store.Store, analyzer *analyze.Analyzer, renderer *analyze.Renderer) error {
	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	requirements := st.Requirements()
	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Analyzing %d requirements with %d workers...\n\n", len(requirements), concurrency)
	}

	batch := worker.NewBatchAnalyzer(analyzer, concurrency)
	results := batch.Process(ctx, requirements, st.RulesForRequirement)

	for _, result := range results {
		renderer.RenderSummary(os.Stdout, result)
	}
	fmt.Fprintln(os.Stdout)
	renderer.RenderStats(os.Stdout, analyze.CoverageSummary(results))

	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		for _, result := range results {
			mdPath := filepath.Join(outputDir, result.RequirementID+".md")
			if err := renderer.RenderMarkdown(result, mdPath); err != nil {
				return fmt.Errorf("render %s: %w", result.RequirementID, err)
			}
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %d reports to %s\n", len(results), outputDir)
		}
	}

	if outJSON != "" {
		if err := renderer.RenderJSON(results, outJSON); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
	}

	return nil
}
