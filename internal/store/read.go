package store

import (
	"context"
	"fmt"

	"github.com/roach88/viewdeps/internal/catalog"
	"github.com/roach88/viewdeps/internal/engine"
	"github.com/roach88/viewdeps/internal/queryir"
	"github.com/roach88/viewdeps/internal/querysql"
)

// Name implements engine.Backend.
func (s *Store) Name() string { return "sqlite" }

// MatchViews implements engine.Backend by compiling preds to one compound
// SELECT.
//
// Returns an empty (non-nil) set if nothing matches.
func (s *Store) MatchViews(ctx context.Context, preds []queryir.Predicate, mode queryir.ColumnMatchMode) (engine.ViewSet, error) {
	query, params, err := querysql.NewSQLCompiler(mode).Compile(preds)
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query views: %w", err)
	}
	defer rows.Close()

	views := engine.ViewSet{}
	for rows.Next() {
		var view string
		if err := rows.Scan(&view); err != nil {
			return nil, fmt.Errorf("scan view: %w", err)
		}
		views.Add(view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate views: %w", err)
	}

	return views, nil
}

// Stats returns the row counts of the mirrored relations. Views counts
// distinct views of the dependency relation. CodeEntries is always zero;
// code is not mirrored.
func (s *Store) Stats(ctx context.Context) (catalog.Stats, error) {
	var st catalog.Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(DISTINCT view_name) FROM dependencies),
			(SELECT COUNT(*) FROM dependencies),
			(SELECT COUNT(*) FROM output_columns)
	`).Scan(&st.Views, &st.Dependencies, &st.OutputColumns)
	if err != nil {
		return catalog.Stats{}, fmt.Errorf("query stats: %w", err)
	}
	return st, nil
}
