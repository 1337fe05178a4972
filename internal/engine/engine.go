package engine

import (
	"context"
	"fmt"

	"github.com/roach88/viewdeps/internal/catalog"
	"github.com/roach88/viewdeps/internal/queryir"
)

// Backend evaluates predicates into a matched view set.
//
// MemoryBackend scans a snapshot directly; store.Store mirrors a snapshot
// into SQLite. Every backend must return the same set for the same query.
type Backend interface {
	Name() string
	MatchViews(ctx context.Context, preds []queryir.Predicate, mode queryir.ColumnMatchMode) (ViewSet, error)
}

// Engine runs searches with a fixed set of options.
//
// Engine is immutable after New and safe for concurrent use.
type Engine struct {
	columnMatch queryir.ColumnMatchMode
}

// Option configures an Engine.
type Option func(*Engine)

// WithColumnMatch sets how Substring column specs are applied.
//
// Default: queryir.ColumnMatchElement
func WithColumnMatch(mode queryir.ColumnMatchMode) Option {
	return func(e *Engine) {
		e.columnMatch = mode
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{columnMatch: queryir.ColumnMatchElement}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ColumnMatch returns the configured column match mode.
func (e *Engine) ColumnMatch() queryir.ColumnMatchMode {
	return e.columnMatch
}

// Search parses query, matches it against snap and assembles the results.
func (e *Engine) Search(query string, snap *catalog.Snapshot) []ResultRecord {
	return e.SearchPredicates(queryir.Parse(query), snap)
}

// SearchPredicates matches already-parsed predicates against snap.
func (e *Engine) SearchPredicates(preds []queryir.Predicate, snap *catalog.Snapshot) []ResultRecord {
	return Assemble(Match(preds, snap, e.columnMatch), snap)
}

// SearchWith evaluates query on backend and assembles the results from
// snap. The backend must hold the same catalog as snap.
func (e *Engine) SearchWith(ctx context.Context, backend Backend, query string, snap *catalog.Snapshot) ([]ResultRecord, error) {
	views, err := backend.MatchViews(ctx, queryir.Parse(query), e.columnMatch)
	if err != nil {
		return nil, fmt.Errorf("%s backend: %w", backend.Name(), err)
	}
	return Assemble(views, snap), nil
}

// Search is the stateless entry point: it builds a snapshot from the three
// relations and runs query with default options.
func Search(query string, deps []catalog.DependencyRow, outputs []catalog.OutputColumnsRow, code []catalog.CodeEntry) []ResultRecord {
	return New().Search(query, catalog.NewSnapshot(deps, outputs, code))
}

// MemoryBackend evaluates predicates by scanning a snapshot.
type MemoryBackend struct {
	Snapshot *catalog.Snapshot
}

// Name implements Backend.
func (MemoryBackend) Name() string { return "memory" }

// MatchViews implements Backend. It never fails.
func (b MemoryBackend) MatchViews(_ context.Context, preds []queryir.Predicate, mode queryir.ColumnMatchMode) (ViewSet, error) {
	return Match(preds, b.Snapshot, mode), nil
}
