package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fortify-solutions/compliance-hub/internal/ingest"
	"github.com/fortify-solutions/compliance-hub/internal/model"
	"github.com/fortify-solutions/compliance-hub/internal/store"
)

var ingestOut string

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <html-file-or-url>",
	Short: "Extract requirement stubs from a regulatory HTML document",
	Long: `Ingest parses a regulatory HTML page (local file or URL), keeps the
text blocks that carry obligation language (shall, must, is required
to), and emits them as dataset requirement stubs in YAML.

The output is a starting point: review the stubs, fix titles and
references, and link rules before analyzing.

Example:
  compliance-hub ingest 31cfr1010.html
  compliance-hub ingest https://www.ecfr.gov/current/title-31/part-1010 --out requirements.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestOut, "out", "", "output YAML path (default: stdout)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	source := args[0]

	var clauses []ingest.Clause
	var err error
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		cfg, cfgErr := loadConfig()
		if cfgErr != nil {
			return cfgErr
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Ingest.Timeout)
		defer cancel()
		clauses, err = ingest.NewFetcher(cfg.Ingest).FetchDocument(ctx, source)
	} else {
		clauses, err = ingest.NewDocumentParser().ParseFile(source)
	}
	if err != nil {
		return fmt.Errorf("parse document: %w", err)
	}
	if len(clauses) == 0 {
		return fmt.Errorf("no obligation language found in %s", source)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Extracted %d clauses\n", len(clauses))
	}

	dataset := store.Dataset{
		Requirements: make([]model.Requirement, 0, len(clauses)),
	}
	for i, clause := range clauses {
		dataset.Requirements = append(dataset.Requirements, model.Requirement{
			ID:        fmt.Sprintf("req-%03d", i+1),
			Title:     stubTitle(clause.Text),
			Reference: clause.Reference,
			Text:      clause.Text,
		})
	}

	data, err := yaml.Marshal(dataset)
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}

	if ingestOut == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(ingestOut, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", ingestOut, err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", ingestOut)
	}
	return nil
}

// stubTitle derives a short placeholder title from the clause text
func stubTitle(text string) string {
	words := strings.Fields(text)
	if len(words) > 8 {
		words = words[:8]
	}
	title := strings.Join(words, " ")
	return strings.TrimRight(title, ",.;:")
}
