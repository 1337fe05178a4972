package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/viewdeps/internal/catalog"
)

// Load replaces the store contents with snap in one transaction.
//
// Readers either see the previous catalog or the new one, never a mix.
func (s *Store) Load(ctx context.Context, snap *catalog.Snapshot) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin load: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range []string{
		"DELETE FROM dependency_columns",
		"DELETE FROM dependencies",
		"DELETE FROM output_columns",
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear tables: %w", err)
		}
	}

	if err := insertDependencies(ctx, tx, snap.FoldedDependencies()); err != nil {
		return err
	}
	if err := insertOutputColumns(ctx, tx, snap.FoldedOutputColumns()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit load: %w", err)
	}
	return nil
}

func insertDependencies(ctx context.Context, tx *sql.Tx, rows []catalog.FoldedDependency) error {
	depStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO dependencies (id, view_name, table_folded, columns_joined)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare dependencies: %w", err)
	}
	defer depStmt.Close()

	colStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO dependency_columns (dependency_id, position, column_folded)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare dependency columns: %w", err)
	}
	defer colStmt.Close()

	for i, row := range rows {
		if _, err := depStmt.ExecContext(ctx, i, row.View, row.Table, row.Joined); err != nil {
			return fmt.Errorf("insert dependency %d: %w", i, err)
		}
		for pos, col := range row.Columns {
			if _, err := colStmt.ExecContext(ctx, i, pos, col); err != nil {
				return fmt.Errorf("insert dependency %d column %d: %w", i, pos, err)
			}
		}
	}
	return nil
}

func insertOutputColumns(ctx context.Context, tx *sql.Tx, rows []catalog.FoldedOutputColumns) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO output_columns (id, view_name, text_folded)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare output columns: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, i, row.View, row.Text); err != nil {
			return fmt.Errorf("insert output columns %d: %w", i, err)
		}
	}
	return nil
}
