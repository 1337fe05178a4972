package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roach88/viewdeps/internal/catalog"
)

// FormatDependencies renders rows in the view|table|columns file format.
func FormatDependencies(rows []catalog.DependencyRow) string {
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(row.ViewName + catalog.FieldSeparator + row.ReferencedTable + catalog.FieldSeparator)
		b.WriteString(strings.Join(row.ReferencedColumns, catalog.ColumnSeparator) + "\n")
	}
	return b.String()
}

// FormatOutputColumns renders rows in the view|columns file format.
func FormatOutputColumns(rows []catalog.OutputColumnsRow) string {
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(row.ViewName + catalog.FieldSeparator + row.OutputColumns + "\n")
	}
	return b.String()
}

// FormatCode renders entries in the name^^^source||| blob format.
func FormatCode(entries []catalog.CodeEntry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.ViewName + catalog.NameSeparator + e.SourceText
	}
	return strings.Join(parts, catalog.EntrySeparator)
}

// WriteTravelCatalog writes TravelCatalog to dir under the default file
// names and returns their paths.
func WriteTravelCatalog(t testing.TB, dir string) catalog.Source {
	t.Helper()
	src := catalog.Source{
		Dependencies: filepath.Join(dir, catalog.DefaultDependenciesFile),
		Columns:      filepath.Join(dir, catalog.DefaultColumnsFile),
		Code:         filepath.Join(dir, catalog.DefaultCodeFile),
	}
	WriteFile(t, src.Dependencies, FormatDependencies(TravelDependencies()))
	WriteFile(t, src.Columns, FormatOutputColumns(TravelOutputs()))
	WriteFile(t, src.Code, FormatCode(TravelCode()))
	return src
}

// WriteFile writes content to path, failing the test on error.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
