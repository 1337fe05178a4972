package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadDependencies(t *testing.T) {
	input := strings.Join([]string{
		"vBooking|Booking|BookingId,CustomerId",
		"vBooking | Customer | CustomerId , Name ",
		"",
		"   ",
		"vSupplier|Supplier|",
		"vShort|OnlyTable",
		"vGaps|T|a,,b",
		"vPipes|T|a|b",
		"vWindows|T|x\r",
	}, "\n")

	rows, err := ReadDependencies(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []DependencyRow{
		{ViewName: "vBooking", ReferencedTable: "Booking", ReferencedColumns: []string{"BookingId", "CustomerId"}},
		{ViewName: "vBooking", ReferencedTable: "Customer", ReferencedColumns: []string{"CustomerId", "Name"}},
		{ViewName: "vSupplier", ReferencedTable: "Supplier", ReferencedColumns: []string{}},
		{ViewName: "vShort", ReferencedTable: "OnlyTable", ReferencedColumns: []string{}},
		{ViewName: "vGaps", ReferencedTable: "T", ReferencedColumns: []string{"a", "", "b"}},
		{ViewName: "vPipes", ReferencedTable: "T", ReferencedColumns: []string{"a|b"}},
		{ViewName: "vWindows", ReferencedTable: "T", ReferencedColumns: []string{"x"}},
	}, rows)
}

func TestReadDependenciesEmpty(t *testing.T) {
	rows, err := ReadDependencies(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadOutputColumns(t *testing.T) {
	rows, err := ReadOutputColumns(strings.NewReader("vA|Id, Name\nvB|\nvC|x|y\n"))
	require.NoError(t, err)

	assert.Equal(t, []OutputColumnsRow{
		{ViewName: "vA", OutputColumns: "Id, Name"},
		{ViewName: "vB", OutputColumns: ""},
		{ViewName: "vC", OutputColumns: "x|y"},
	}, rows)
}

func TestReadCode(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        []CodeEntry
		wantSkipped int
	}{
		{
			name:  "two entries",
			input: "vA^^^SELECT 1|||vB^^^SELECT 2",
			want:  []CodeEntry{{"vA", "SELECT 1"}, {"vB", "SELECT 2"}},
		},
		{
			name:  "whitespace around entries is trimmed",
			input: "\n vA ^^^\nCREATE VIEW vA AS\nSELECT 1\n|||\n",
			want:  []CodeEntry{{"vA", "CREATE VIEW vA AS\nSELECT 1"}},
		},
		{
			name:        "entry without separator is skipped",
			input:       "vA^^^SELECT 1|||garbage|||vB^^^SELECT 2",
			want:        []CodeEntry{{"vA", "SELECT 1"}, {"vB", "SELECT 2"}},
			wantSkipped: 1,
		},
		{
			name:  "only the first separator splits",
			input: "vA^^^SELECT '^^^'",
			want:  []CodeEntry{{"vA", "SELECT '^^^'"}},
		},
		{
			name:  "empty blob",
			input: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, skipped, err := ReadCode(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, entries)
			assert.Equal(t, tt.wantSkipped, skipped)
		})
	}
}

func TestSplitColumns(t *testing.T) {
	assert.Equal(t, []string{}, SplitColumns(""))
	assert.Equal(t, []string{}, SplitColumns("   "))
	assert.Equal(t, []string{"a"}, SplitColumns(" a "))
	assert.Equal(t, []string{"a", "b"}, SplitColumns("a, b"))
	assert.Equal(t, []string{"", "a"}, SplitColumns(",a"))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	src := Source{
		Dependencies: writeFile(t, dir, DefaultDependenciesFile, "vA|T|x,y\nvB|U|\n"),
		Columns:      writeFile(t, dir, DefaultColumnsFile, "vA|x,y\n"),
		Code:         writeFile(t, dir, DefaultCodeFile, "vA^^^SELECT x, y FROM T|||junk"),
	}

	snap, report, err := Load(src)
	require.NoError(t, err)

	assert.Equal(t, []string{"vA", "vB"}, snap.Views())
	assert.Equal(t, src, report.Source)
	assert.Equal(t, 2, report.DependencyRows)
	assert.Equal(t, 1, report.OutputColumnRows)
	assert.Equal(t, 1, report.CodeEntries)
	assert.Equal(t, 1, report.SkippedCode)
	assert.False(t, report.LoadedAt.IsZero())

	code, ok := snap.CodeOf("vA")
	require.True(t, ok)
	assert.Equal(t, "SELECT x, y FROM T", code)
}

func TestLoadOptionalRelations(t *testing.T) {
	dir := t.TempDir()
	snap, report, err := Load(Source{Dependencies: writeFile(t, dir, "deps.csv", "vA|T|x\n")})
	require.NoError(t, err)

	assert.Equal(t, 1, report.DependencyRows)
	assert.Zero(t, report.OutputColumnRows)
	assert.Empty(t, snap.OutputColumns())
	assert.Empty(t, snap.Code())
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	deps := writeFile(t, dir, "deps.csv", "vA|T|x\n")
	missing := filepath.Join(dir, "missing.csv")

	t.Run("no dependencies path", func(t *testing.T) {
		_, _, err := Load(Source{})
		var le *LoadError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, RelationDependencies, le.Relation)
		assert.False(t, IsNotFound(err))
	})

	tests := []struct {
		name     string
		src      Source
		relation string
	}{
		{"missing dependencies", Source{Dependencies: missing}, RelationDependencies},
		{"missing columns", Source{Dependencies: deps, Columns: missing}, RelationColumns},
		{"missing code", Source{Dependencies: deps, Code: missing}, RelationCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, report, err := Load(tt.src)
			require.Error(t, err)
			assert.Nil(t, snap)
			assert.Nil(t, report)
			assert.True(t, IsNotFound(err))
			assert.True(t, errors.Is(err, os.ErrNotExist))

			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, tt.relation, le.Relation)
			assert.Equal(t, missing, le.Path)
			assert.Contains(t, err.Error(), "load "+tt.relation+" from "+missing)
		})
	}
}

func TestLoadLongLine(t *testing.T) {
	dir := t.TempDir()
	wide := strings.Repeat("Col,", 100_000) + "Last"
	src := Source{
		Dependencies: writeFile(t, dir, "deps.csv", "vWide|T|x\n"),
		Columns:      writeFile(t, dir, "cols.csv", "vWide|"+wide+"\n"),
	}

	snap, _, err := Load(src)
	require.NoError(t, err)
	text, ok := snap.OutputColumnsOf("vWide")
	require.True(t, ok)
	assert.Equal(t, wide, text)
}
