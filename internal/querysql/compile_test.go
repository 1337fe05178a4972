package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/viewdeps/internal/queryir"
)

func TestCompile_NoPredicates(t *testing.T) {
	compiler := NewSQLCompiler(queryir.ColumnMatchElement)

	sql, params, err := compiler.Compile(nil)
	require.NoError(t, err)

	assert.Equal(t, "SELECT DISTINCT view_name FROM dependencies ORDER BY view_name COLLATE BINARY", sql)
	assert.Empty(t, params)
}

func TestCompile_IntersectsTerms(t *testing.T) {
	compiler := NewSQLCompiler(queryir.ColumnMatchElement)

	sql, params, err := compiler.Compile(queryir.Parse("Booking >name"))
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT DISTINCT view_name FROM dependencies"+
			" INTERSECT SELECT d.view_name FROM dependencies d WHERE d.table_folded = ?"+
			" INTERSECT SELECT view_name FROM output_columns WHERE instr(text_folded, ?) > 0"+
			" ORDER BY view_name COLLATE BINARY",
		sql)
	assert.Equal(t, []any{"booking", "name"}, params)
}

func TestCompile_ValuesNeverInterpolated(t *testing.T) {
	compiler := NewSQLCompiler(queryir.ColumnMatchElement)

	sql, params, err := compiler.Compile(queryir.Parse("%o'; DROP TABLE dependencies;--.x"))
	require.NoError(t, err)

	assert.NotContains(t, sql, "DROP")
	assert.Equal(t, []any{"o';", "drop", "table", "dependencies;--", "x"}, params)
}

func TestCompilePredicate(t *testing.T) {
	tests := []struct {
		name       string
		mode       queryir.ColumnMatchMode
		pred       queryir.Predicate
		wantSQL    string
		wantParams []any
	}{
		{
			name:    "empty output needle",
			pred:    queryir.OutputColumnSubstring{},
			wantSQL: "SELECT view_name FROM output_columns",
		},
		{
			name:       "table substring any column",
			pred:       queryir.TableColumn{Table: queryir.Substring{Value: "ook"}, Column: queryir.Any{}},
			wantSQL:    "SELECT d.view_name FROM dependencies d WHERE instr(d.table_folded, ?) > 0",
			wantParams: []any{"ook"},
		},
		{
			name:    "empty table substring",
			pred:    queryir.TableColumn{Table: queryir.Substring{}, Column: queryir.Any{}},
			wantSQL: "SELECT d.view_name FROM dependencies d",
		},
		{
			name:       "column exact",
			pred:       queryir.TableColumn{Table: queryir.Exact{Value: "t"}, Column: queryir.Exact{Value: "c"}},
			wantSQL:    "SELECT d.view_name FROM dependencies d WHERE d.table_folded = ? AND EXISTS (SELECT 1 FROM dependency_columns c WHERE c.dependency_id = d.id AND c.column_folded = ?)",
			wantParams: []any{"t", "c"},
		},
		{
			name:       "column substring element-wise",
			mode:       queryir.ColumnMatchElement,
			pred:       queryir.TableColumn{Table: queryir.Exact{Value: "t"}, Column: queryir.Substring{Value: "na"}},
			wantSQL:    "SELECT d.view_name FROM dependencies d WHERE d.table_folded = ? AND EXISTS (SELECT 1 FROM dependency_columns c WHERE c.dependency_id = d.id AND instr(c.column_folded, ?) > 0)",
			wantParams: []any{"t", "na"},
		},
		{
			name:    "empty column substring matches every row",
			mode:    queryir.ColumnMatchElement,
			pred:    queryir.TableColumn{Table: queryir.Substring{}, Column: queryir.Substring{}},
			wantSQL: "SELECT d.view_name FROM dependencies d",
		},
		{
			name:       "column substring joined",
			mode:       queryir.ColumnMatchJoined,
			pred:       queryir.TableColumn{Table: queryir.Exact{Value: "t"}, Column: queryir.Substring{Value: "b,c"}},
			wantSQL:    "SELECT d.view_name FROM dependencies d WHERE d.table_folded = ? AND instr(d.columns_joined, ?) > 0",
			wantParams: []any{"t", "b,c"},
		},
		{
			name:       "pointer predicate",
			pred:       &queryir.OutputColumnSubstring{Needle: "x"},
			wantSQL:    "SELECT view_name FROM output_columns WHERE instr(text_folded, ?) > 0",
			wantParams: []any{"x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params, err := NewSQLCompiler(tt.mode).CompilePredicate(tt.pred)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantParams, params)
		})
	}
}

func TestCompilePredicate_Nil(t *testing.T) {
	_, _, err := NewSQLCompiler(queryir.ColumnMatchElement).CompilePredicate(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil predicate")
}

func TestCompile_ReportsTerm(t *testing.T) {
	_, _, err := NewSQLCompiler(queryir.ColumnMatchElement).Compile([]queryir.Predicate{queryir.OutputColumnSubstring{}, nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "term 2")
}
