package harness

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/roach88/viewdeps/internal/catalog"
	"github.com/roach88/viewdeps/internal/config"
	"github.com/roach88/viewdeps/internal/engine"
	"github.com/roach88/viewdeps/internal/queryir"
	"github.com/roach88/viewdeps/internal/store"
)

// Harness evaluates scenario cases on a fixed set of backends.
type Harness struct {
	snapshot *catalog.Snapshot
	mode     queryir.ColumnMatchMode
	backends []engine.Backend
}

// Run executes a test scenario and returns the result.
//
// The returned error covers setup failures (unreadable catalog, store
// errors). Failed expectations are reported in Result.Errors.
//
// Execution flow:
// 1. Build the catalog snapshot from the scenario
// 2. Open each backend (SQLite in a fresh in-memory database)
// 3. Evaluate every case on every backend
// 4. Check expectations and cross-backend parity
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	snap, err := BuildSnapshot(&scenario.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}

	mode, _ := queryir.ParseColumnMatchMode(scenario.ColumnMatch)
	h := &Harness{snapshot: snap, mode: mode}

	names := scenario.Backends
	if len(names) == 0 {
		names = config.ValidBackends
	}
	for _, name := range names {
		backend, closeFn, err := openBackend(ctx, name, snap)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s backend: %w", name, err)
		}
		defer closeFn()
		h.backends = append(h.backends, backend)
	}

	result := NewResult()
	for i, c := range scenario.Cases {
		cr, errs, err := h.runCase(ctx, i, c)
		if err != nil {
			return nil, fmt.Errorf("cases[%d]: %w", i, err)
		}
		result.Cases = append(result.Cases, cr)
		for _, e := range errs {
			result.AddError(e.Error())
		}
	}

	return result, nil
}

func (h *Harness) runCase(ctx context.Context, index int, c Case) (CaseResult, []error, error) {
	preds := queryir.Parse(c.Query)
	cr := CaseResult{
		Query:     c.Query,
		ByBackend: make(map[string][]string, len(h.backends)),
		Pass:      true,
	}

	var errs []error
	for i, backend := range h.backends {
		set, err := backend.MatchViews(ctx, preds, h.mode)
		if err != nil {
			return cr, nil, fmt.Errorf("%s backend: %w", backend.Name(), err)
		}
		views := set.Sorted()
		cr.ByBackend[backend.Name()] = views

		if i == 0 {
			cr.Views = views
			errs = append(errs, checkCase(index, c, backend.Name(), views)...)
			continue
		}
		if err := checkParity(index, c, h.backends[0].Name(), cr.Views, backend.Name(), views); err != nil {
			errs = append(errs, err)
		}
	}

	cr.Pass = len(errs) == 0
	return cr, errs, nil
}

func openBackend(ctx context.Context, name string, snap *catalog.Snapshot) (engine.Backend, func(), error) {
	switch name {
	case config.BackendMemory:
		return engine.MemoryBackend{Snapshot: snap}, func() {}, nil
	case config.BackendSQLite:
		st, err := store.OpenMemory()
		if err != nil {
			return nil, nil, err
		}
		if err := st.Load(ctx, snap); err != nil {
			st.Close()
			return nil, nil, err
		}
		return st, func() { _ = st.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", name)
	}
}

// BuildSnapshot parses the catalog of a scenario. File relations are read
// from disk; inline relations are parsed as written.
func BuildSnapshot(c *CatalogSpec) (*catalog.Snapshot, error) {
	deps, err := relationText(c.Dependencies, c.DependenciesFile)
	if err != nil {
		return nil, err
	}
	cols, err := relationText(c.Columns, c.ColumnsFile)
	if err != nil {
		return nil, err
	}
	code, err := relationText(c.Code, c.CodeFile)
	if err != nil {
		return nil, err
	}

	depRows, err := catalog.ReadDependencies(strings.NewReader(deps))
	if err != nil {
		return nil, fmt.Errorf("dependencies: %w", err)
	}
	outputRows, err := catalog.ReadOutputColumns(strings.NewReader(cols))
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	entries, _, err := catalog.ReadCode(strings.NewReader(code))
	if err != nil {
		return nil, fmt.Errorf("code: %w", err)
	}
	return catalog.NewSnapshot(depRows, outputRows, entries), nil
}

func relationText(inline, path string) (string, error) {
	if path == "" {
		return inline, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read catalog file: %w", err)
	}
	return string(data), nil
}
