// Package querysql compiles search predicates to parameterized SQLite SQL.
//
// The generated SQL runs against the schema created by internal/store. All
// values are folded by queryir.Parse and compared against folded columns,
// so SQLite's ASCII-only lower() is never used.
package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/viewdeps/internal/queryir"
)

// allViewsSQL selects the starting candidate set: every view of the
// dependency relation.
const allViewsSQL = "SELECT DISTINCT view_name FROM dependencies"

// SQLCompiler compiles predicates to SQL for SQLite.
//
// CRITICAL: Every compiled match query ends with ORDER BY view_name COLLATE BINARY
// so row order is deterministic.
// CRITICAL: All values are parameterized (never interpolated).
type SQLCompiler struct {
	// ColumnMatch selects element-wise or joined substring matching for
	// column specs.
	ColumnMatch queryir.ColumnMatchMode
}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler(mode queryir.ColumnMatchMode) *SQLCompiler {
	return &SQLCompiler{ColumnMatch: mode}
}

// Compile converts predicates to one compound SELECT returning the
// matching view names. Each predicate becomes an INTERSECT arm.
// Returns (sql, params, error) tuple.
func (c *SQLCompiler) Compile(preds []queryir.Predicate) (string, []any, error) {
	var b strings.Builder
	var params []any

	b.WriteString(allViewsSQL)
	for i, p := range preds {
		sql, predParams, err := c.CompilePredicate(p)
		if err != nil {
			return "", nil, fmt.Errorf("term %d: %w", i+1, err)
		}
		b.WriteString(" INTERSECT ")
		b.WriteString(sql)
		params = append(params, predParams...)
	}
	b.WriteString(" ORDER BY view_name COLLATE BINARY")

	return b.String(), params, nil
}

// CompilePredicate compiles one predicate to a SELECT of view_name with no
// ORDER BY, suitable as a compound-select arm.
func (c *SQLCompiler) CompilePredicate(p queryir.Predicate) (string, []any, error) {
	if p == nil {
		return "", nil, fmt.Errorf("cannot compile nil predicate")
	}

	switch pred := p.(type) {
	case queryir.OutputColumnSubstring:
		return c.compileOutputColumns(pred)
	case *queryir.OutputColumnSubstring:
		return c.compileOutputColumns(*pred)
	case queryir.TableColumn:
		return c.compileTableColumn(pred)
	case *queryir.TableColumn:
		return c.compileTableColumn(*pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

// compileOutputColumns compiles an output-column substring test.
func (c *SQLCompiler) compileOutputColumns(p queryir.OutputColumnSubstring) (string, []any, error) {
	sql := "SELECT view_name FROM output_columns"
	if p.Needle == "" {
		return sql, nil, nil
	}
	return sql + " WHERE instr(text_folded, ?) > 0", []any{p.Needle}, nil
}

// compileTableColumn compiles a table/column test against dependency rows.
func (c *SQLCompiler) compileTableColumn(p queryir.TableColumn) (string, []any, error) {
	var conds []string
	var params []any

	tableSQL, tableParams, err := c.compileTable(p.Table)
	if err != nil {
		return "", nil, fmt.Errorf("compile table: %w", err)
	}
	if tableSQL != "" {
		conds = append(conds, tableSQL)
		params = append(params, tableParams...)
	}

	colSQL, colParams, err := c.compileColumn(p.Column)
	if err != nil {
		return "", nil, fmt.Errorf("compile column: %w", err)
	}
	if colSQL != "" {
		conds = append(conds, colSQL)
		params = append(params, colParams...)
	}

	sql := "SELECT d.view_name FROM dependencies d"
	if len(conds) > 0 {
		sql += " WHERE " + strings.Join(conds, " AND ")
	}
	return sql, params, nil
}

// compileTable returns the table condition, or "" when every table matches.
func (c *SQLCompiler) compileTable(spec queryir.MatchSpec) (string, []any, error) {
	switch m := spec.(type) {
	case queryir.Exact:
		return "d.table_folded = ?", []any{m.Value}, nil
	case queryir.Substring:
		if m.Value == "" {
			return "", nil, nil
		}
		return "instr(d.table_folded, ?) > 0", []any{m.Value}, nil
	case queryir.Any, nil:
		return "", nil, nil
	default:
		return "", nil, fmt.Errorf("unsupported match spec: %T", spec)
	}
}

// compileColumn returns the column condition, or "" when every row matches.
func (c *SQLCompiler) compileColumn(spec queryir.MatchSpec) (string, []any, error) {
	const columnExists = "EXISTS (SELECT 1 FROM dependency_columns c WHERE c.dependency_id = d.id"

	switch m := spec.(type) {
	case queryir.Any, nil:
		return "", nil, nil
	case queryir.Exact:
		return columnExists + " AND c.column_folded = ?)", []any{m.Value}, nil
	case queryir.Substring:
		if m.Value == "" {
			return "", nil, nil
		}
		if c.ColumnMatch == queryir.ColumnMatchJoined {
			return "instr(d.columns_joined, ?) > 0", []any{m.Value}, nil
		}
		return columnExists + " AND instr(c.column_folded, ?) > 0)", []any{m.Value}, nil
	default:
		return "", nil, fmt.Errorf("unsupported match spec: %T", spec)
	}
}
