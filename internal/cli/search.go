package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/viewdeps/internal/engine"
	"github.com/roach88/viewdeps/internal/queryir"
	"github.com/roach88/viewdeps/internal/render"
)

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	*RootOptions
	Catalog  CatalogFlags
	Layout   string
	ShowCode bool
	Explain  bool
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search <query>...",
		Short: "Find views matching a query",
		Long: `Find the views whose dependencies satisfy every term of the query.

Arguments are joined with spaces, so a query may be passed as one quoted
argument or as several.

Examples:
  viewdeps search Booking
  viewdeps search "Booking.BookingId, Supplier"
  viewdeps search %Book '>name' --show-code
  viewdeps search Booking --layout table
  viewdeps search Booking --explain
  viewdeps search Booking --format json --backend sqlite`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(opts, strings.Join(args, " "), cmd)
		},
	}

	opts.Catalog.register(cmd)
	cmd.Flags().StringVar(&opts.Layout, "layout", string(render.LayoutText), "text layout (text|table|markdown)")
	cmd.Flags().BoolVar(&opts.ShowCode, "show-code", false, "include view code in text output")
	cmd.Flags().BoolVar(&opts.Explain, "explain", false, "show how each term narrowed the result")

	return cmd
}

func runSearch(opts *SearchOptions, query string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := commandContext(cmd)

	if len(queryir.Tokenize(query)) == 0 {
		return formatter.Fail(ExitCommandError, ErrCodeBlankQuery, "query has no terms", nil)
	}

	layout, ok := render.ParseLayout(opts.Layout)
	if !ok {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidFlag,
			fmt.Sprintf("invalid --layout %q: must be one of %v", opts.Layout, render.ValidLayouts), nil)
	}

	cfg, err := resolveConfig(opts.RootOptions, &opts.Catalog)
	if err != nil {
		return settingsFailure(formatter, err)
	}

	snap, _, err := loadCatalog(formatter, cfg)
	if err != nil {
		return err
	}

	eng := engine.New(engine.WithColumnMatch(cfg.ColumnMatch()))
	preds := queryir.Parse(query)
	formatter.VerboseLog("Query %q parsed as %s", query, queryir.Format(preds))
	for _, w := range queryir.Lint(preds, eng.ColumnMatch()) {
		formatter.VerboseLog("warning: %s", w)
	}

	if opts.Explain {
		ex := eng.Explain(query, snap)
		if formatter.IsJSON() {
			return formatter.Success(ex)
		}
		return render.Explanation(cmd.OutOrStdout(), ex)
	}

	backend, closeBackend, err := openBackend(ctx, cfg, snap)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeBackend, "failed to open backend", err)
	}
	defer closeBackend()

	records, err := eng.SearchWith(ctx, backend, query, snap)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeBackend, "search failed", err)
	}
	formatter.VerboseLog("Backend %s matched %d view(s)", backend.Name(), len(records))

	if formatter.IsJSON() {
		return formatter.Success(render.NewPayload(query, records))
	}
	return render.Results(cmd.OutOrStdout(), records, render.Options{
		Layout:   layout,
		ShowCode: opts.ShowCode,
	})
}
