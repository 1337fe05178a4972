package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/viewdeps/internal/catalog"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Catalog CatalogFlags
	Strict  bool // issues fail the command
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool            `json:"valid"`
	Source      catalog.Source  `json:"source"`
	Stats       catalog.Stats   `json:"stats"`
	SkippedCode int             `json:"skipped_code"`
	Issues      []catalog.Issue `json:"issues"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the catalog files",
		Long: `Load the catalog and report entries that load but will not behave as
expected: duplicate output-column or code rows (the first one wins), output
columns or code for views without dependencies, and dependency rows with an
empty view or table name.

Exit codes:
  0 - Catalog loaded (issues are reported but do not fail without --strict)
  1 - Issues found with --strict
  2 - Catalog could not be loaded`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, cmd)
		},
	}

	opts.Catalog.register(cmd)
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "exit 1 when issues are found")

	return cmd
}

func runValidate(opts *ValidateOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cfg, err := resolveConfig(opts.RootOptions, &opts.Catalog)
	if err != nil {
		return settingsFailure(formatter, err)
	}

	snap, report, err := loadCatalog(formatter, cfg)
	if err != nil {
		return err
	}

	issues := catalog.Check(snap)
	result := ValidationResult{
		Valid:       len(issues) == 0,
		Source:      report.Source,
		Stats:       snap.Stats(),
		SkippedCode: report.SkippedCode,
		Issues:      issues,
	}

	if formatter.IsJSON() {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		writeValidationText(cmd.OutOrStdout(), result)
	}

	if opts.Strict && !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%d catalog issue(s) [%s]", len(issues), ErrCodeCatalogCheck))
	}
	return nil
}

func writeValidationText(w io.Writer, result ValidationResult) {
	s := result.Stats
	fmt.Fprintf(w, "Catalog: %d views, %d dependencies, %d output column rows, %d code entries\n",
		s.Views, s.Dependencies, s.OutputColumns, s.CodeEntries)
	if result.SkippedCode > 0 {
		fmt.Fprintf(w, "Skipped %d code entries without a view name\n", result.SkippedCode)
	}

	if result.Valid {
		fmt.Fprintln(w, "✓ No issues found")
		return
	}

	fmt.Fprintf(w, "✗ %d issue(s):\n", len(result.Issues))
	for _, issue := range result.Issues {
		fmt.Fprintf(w, "  %s\n", issue)
	}
}
