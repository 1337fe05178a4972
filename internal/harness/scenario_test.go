package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/travel.yaml")
	require.NoError(t, err)

	assert.Equal(t, "travel", s.Name)
	assert.NotEmpty(t, s.Description)
	assert.Empty(t, s.ColumnMatch)
	assert.Empty(t, s.Backends)
	assert.Contains(t, s.Catalog.Dependencies, "vSuppliers|Supplier|")
	require.Len(t, s.Cases, 14)

	assert.Equal(t, "", s.Cases[0].Query)
	assert.Equal(t, []string{"vBookingSummary", "vCustomers", "vItinerary", "vSuppliers"}, s.Cases[0].Expect)

	ook := s.Cases[6]
	assert.Equal(t, "ook", ook.Query)
	require.NotNil(t, ook.Expect, "expect: [] must decode to an empty list")
	assert.Empty(t, ook.Expect)

	name := s.Cases[7]
	assert.Nil(t, name.Expect)
	assert.Equal(t, []string{"vSuppliers"}, name.Excludes)

	count := s.Cases[10]
	require.NotNil(t, count.Count)
	assert.Equal(t, 0, *count.Count)
}

func TestLoadScenario_ResolvesFiles(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/files.yaml")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("testdata", "scenarios", "catalog", "deps.csv"), s.Catalog.DependenciesFile)
	assert.Equal(t, filepath.Join("testdata", "scenarios", "catalog", "cols.csv"), s.Catalog.ColumnsFile)
	assert.Empty(t, s.Catalog.CodeFile)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_MissingCatalogFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: s
description: d
catalog:
  dependencies_file: missing.csv
cases:
  - query: x
    count: 0
`), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog file not found")
}

func TestParseScenario_Invalid(t *testing.T) {
	const catalogBlock = `
catalog:
  dependencies: "v|t|c"
`
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "name: s\ndescription: d\nassertions: []\n" + catalogBlock, "field assertions not found"},
		{"missing name", "description: d\n" + catalogBlock + "cases: [{query: x, count: 1}]", "name is required"},
		{"missing description", "name: s\n" + catalogBlock + "cases: [{query: x, count: 1}]", "description is required"},
		{"bad mode", "name: s\ndescription: d\ncolumn_match: fuzzy\n" + catalogBlock + "cases: [{query: x, count: 1}]", "column_match"},
		{"bad backend", "name: s\ndescription: d\nbackends: [duckdb]\n" + catalogBlock + "cases: [{query: x, count: 1}]", `unknown backend "duckdb"`},
		{"no catalog", "name: s\ndescription: d\ncases: [{query: x, count: 1}]", "catalog.dependencies"},
		{"inline and file", "name: s\ndescription: d\ncatalog: {dependencies: a, dependencies_file: b}\ncases: [{query: x, count: 1}]", "mutually exclusive"},
		{"no cases", "name: s\ndescription: d\n" + catalogBlock, "cases list is required"},
		{"case without expectation", "name: s\ndescription: d\n" + catalogBlock + "cases: [{query: x}]", "cases[0]: one of expect"},
		{"negative count", "name: s\ndescription: d\n" + catalogBlock + "cases: [{query: x, count: -1}]", "count must be non-negative"},
		{"malformed", "name: [", "failed to parse YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
