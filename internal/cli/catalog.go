package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/viewdeps/internal/catalog"
	"github.com/roach88/viewdeps/internal/config"
	"github.com/roach88/viewdeps/internal/engine"
	"github.com/roach88/viewdeps/internal/queryir"
	"github.com/roach88/viewdeps/internal/store"
)

// CatalogFlags override the catalog and matching settings of the config
// file. Empty values keep the config value.
type CatalogFlags struct {
	Dependencies string
	Columns      string
	Code         string
	ColumnMatch  string
	Backend      string
}

// register adds the catalog flags to cmd.
func (f *CatalogFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Dependencies, "deps", "", "view dependencies file (default "+catalog.DefaultDependenciesFile+")")
	cmd.Flags().StringVar(&f.Columns, "columns", "", "view output columns file (default "+catalog.DefaultColumnsFile+" when present)")
	cmd.Flags().StringVar(&f.Code, "code", "", "view code file (default "+catalog.DefaultCodeFile+" when present)")
	cmd.Flags().StringVar(&f.ColumnMatch, "column-match", "", "column substring mode (element|joined)")
	cmd.Flags().StringVar(&f.Backend, "backend", "", "evaluation backend (memory|sqlite)")
}

// resolveConfig loads the config file and applies flag overrides. Flag
// paths are relative to the working directory.
func resolveConfig(opts *RootOptions, flags *CatalogFlags) (*config.Config, error) {
	cfg, err := config.Discover(opts.Config)
	if err != nil {
		return nil, err
	}

	for _, o := range []struct {
		flag string
		dst  *string
	}{
		{flags.Dependencies, &cfg.Catalog.Dependencies},
		{flags.Columns, &cfg.Catalog.Columns},
		{flags.Code, &cfg.Catalog.Code},
	} {
		if o.flag == "" {
			continue
		}
		abs, err := filepath.Abs(o.flag)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", o.flag, err)
		}
		*o.dst = abs
	}

	if flags.ColumnMatch != "" {
		if _, ok := queryir.ParseColumnMatchMode(flags.ColumnMatch); !ok {
			return nil, &flagError{flag: "column-match", value: flags.ColumnMatch, valid: queryir.ValidColumnMatchModes}
		}
		cfg.Match.Columns = flags.ColumnMatch
	}
	if flags.Backend != "" {
		if !slices.Contains(config.ValidBackends, flags.Backend) {
			return nil, &flagError{flag: "backend", value: flags.Backend, valid: config.ValidBackends}
		}
		cfg.Backend = flags.Backend
	}
	return cfg, nil
}

// flagError is an out-of-range flag value.
type flagError struct {
	flag  string
	value string
	valid any // printed with %v
}

func (e *flagError) Error() string {
	return fmt.Sprintf("invalid --%s %q: must be one of %v", e.flag, e.value, e.valid)
}

// settingsFailure maps a resolveConfig error to the CLI error envelope.
func settingsFailure(f *OutputFormatter, err error) error {
	var fe *flagError
	if errors.As(err, &fe) {
		return f.Fail(ExitCommandError, ErrCodeInvalidFlag, fe.Error(), nil)
	}
	return f.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
}

// loadCatalog loads the catalog named by cfg.
func loadCatalog(f *OutputFormatter, cfg *config.Config) (*catalog.Snapshot, *catalog.LoadReport, error) {
	src := cfg.Source()
	f.VerboseLog("Loading catalog from %s", src.Dependencies)

	snap, report, err := catalog.Load(src)
	if err != nil {
		if catalog.IsNotFound(err) {
			return nil, nil, f.Fail(ExitCommandError, ErrCodeNotFound, "catalog file not found", err)
		}
		return nil, nil, f.Fail(ExitCommandError, ErrCodeLoadFailed, "failed to load catalog", err)
	}

	f.VerboseLog("Loaded %d dependency rows, %d output column rows, %d code entries",
		report.DependencyRows, report.OutputColumnRows, report.CodeEntries)
	if report.SkippedCode > 0 {
		f.VerboseLog("Skipped %d code entries without a view name separator", report.SkippedCode)
	}
	return snap, report, nil
}

// openBackend returns the evaluation backend named by cfg. The returned
// close function is never nil.
func openBackend(ctx context.Context, cfg *config.Config, snap *catalog.Snapshot) (engine.Backend, func(), error) {
	if cfg.Backend != config.BackendSQLite {
		return engine.MemoryBackend{Snapshot: snap}, func() {}, nil
	}

	st, err := openStore(ctx, snap)
	if err != nil {
		return nil, nil, err
	}
	return st, closeStore(st), nil
}

func openStore(ctx context.Context, snap *catalog.Snapshot) (*store.Store, error) {
	st, err := store.OpenMemory()
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if snap != nil {
		if err := st.Load(ctx, snap); err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("load sqlite: %w", err)
		}
	}
	return st, nil
}

func closeStore(st *store.Store) func() {
	return func() {
		if err := st.Close(); err != nil {
			slog.Error("error closing database", "error", err)
		}
	}
}

// newLogger configures slog on w at Debug when verbose, Info otherwise,
// and installs it as the default logger.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// newFormatter builds the formatter for cmd.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// commandContext returns the command's context, or Background when it
// runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
