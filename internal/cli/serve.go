package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/viewdeps/internal/catalog"
	"github.com/roach88/viewdeps/internal/config"
	"github.com/roach88/viewdeps/internal/engine"
	"github.com/roach88/viewdeps/internal/server"
	"github.com/roach88/viewdeps/internal/store"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Catalog CatalogFlags
	Addr    string
	Token   string
	Watch   bool

	// Listener overrides Addr (for testing).
	Listener net.Listener

	// IDs overrides the request ID generator (for testing).
	// If nil, defaults to server.UUIDv7Generator.
	IDs server.RequestIDGenerator
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return newServeCommand(&ServeOptions{RootOptions: rootOpts})
}

func newServeCommand(opts *ServeOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search API over HTTP",
		Long: `Load the catalog and serve it over HTTP.

Routes:
  GET  /healthz            liveness, never gated
  GET  /search?q=<query>   matching views (explain=true for term diagnostics)
  GET  /stats              catalog counts and load time
  POST /reload             re-read the catalog files

With --token every route except /healthz requires
"Authorization: Bearer <token>". With --watch the catalog is reloaded when
its files change.

Example:
  viewdeps serve --addr 127.0.0.1:8080
  viewdeps serve --deps ./viewDependencies.csv --backend sqlite --watch`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	opts.Catalog.register(cmd)
	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().StringVar(&opts.Token, "token", "", "require this bearer token")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "reload the catalog when its files change")

	return cmd
}

// serveConfig applies the serve flags over cfg.Serve.
func serveConfig(opts *ServeOptions, cmd *cobra.Command, cfg *config.Config) config.ServeConfig {
	sc := cfg.Serve
	if opts.Addr != "" {
		sc.Addr = opts.Addr
	}
	if opts.Token != "" {
		sc.Token = opts.Token
	}
	if cmd.Flags().Changed("watch") {
		sc.Watch = opts.Watch
	}
	return sc
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	cfg, err := resolveConfig(opts.RootOptions, &opts.Catalog)
	if err != nil {
		return settingsFailure(formatter, err)
	}
	sc := serveConfig(opts, cmd, cfg)

	snap, report, err := loadCatalog(formatter, cfg)
	if err != nil {
		return err
	}
	logger.Info("catalog loaded",
		"views", len(snap.Views()),
		"dependencies", report.DependencyRows,
		"output_columns", report.OutputColumnRows,
		"code", report.CodeEntries)

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
			// Parent context cancelled (e.g., from test)
		}
	}()

	var st *store.Store
	if cfg.Backend == config.BackendSQLite {
		st, err = openStore(ctx, nil)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeBackend, "failed to open backend", err)
		}
		defer closeStore(st)()
	}

	srv, err := server.NewServer(ctx, server.Config{
		Addr:   sc.Addr,
		Source: cfg.Source(),
		Holder: catalog.NewHolder(snap, *report),
		Engine: engine.New(engine.WithColumnMatch(cfg.ColumnMatch())),
		Store:  st,
		Gate:   server.GateFor(sc.Token),
		IDs:    opts.IDs,
		Logger: logger,
		Watch:  sc.Watch,
	})
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeBackend, "failed to start server", err)
	}

	addr := sc.Addr
	if opts.Listener != nil {
		addr = opts.Listener.Addr().String()
	}
	if !formatter.IsJSON() {
		fmt.Fprintf(cmd.OutOrStdout(), "Serving %d views on http://%s (backend %s)\n", len(snap.Views()), addr, srv.BackendName())
		fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl-C to stop.")
	}

	if opts.Listener != nil {
		err = srv.ServeListener(ctx, opts.Listener)
	} else {
		err = srv.Serve(ctx)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return formatter.Fail(ExitFailure, ErrCodeServe, "server error", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}
