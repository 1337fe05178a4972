package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/viewdeps/internal/catalog"
	"github.com/roach88/viewdeps/internal/queryir"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, catalog.DefaultDependenciesFile, cfg.Catalog.Dependencies)
	assert.Empty(t, cfg.Catalog.Columns)
	assert.Empty(t, cfg.Catalog.Code)
	assert.Equal(t, "element", cfg.Match.Columns)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, "127.0.0.1:8080", cfg.Serve.Addr)
	assert.Empty(t, cfg.Serve.Token)
	assert.False(t, cfg.Serve.Watch)
	assert.Equal(t, queryir.ColumnMatchElement, cfg.ColumnMatch())
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := Parse("viewdeps.cue", []byte(`
catalog: {
	dependencies: "data/deps.csv"
	columns:      "data/cols.csv"
}
match: columns: "joined"
backend: "sqlite"
serve: {
	addr:  ":9090"
	token: "s3cret"
	watch: true
}
`))
	require.NoError(t, err)

	assert.Equal(t, "data/deps.csv", cfg.Catalog.Dependencies)
	assert.Equal(t, "data/cols.csv", cfg.Catalog.Columns)
	assert.Empty(t, cfg.Catalog.Code)
	assert.Equal(t, queryir.ColumnMatchJoined, cfg.ColumnMatch())
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, ServeConfig{Addr: ":9090", Token: "s3cret", Watch: true}, cfg.Serve)
}

func TestParse_EmptyFile(t *testing.T) {
	cfg, err := Parse("viewdeps.cue", []byte(""))
	require.NoError(t, err)

	def, err := Default()
	require.NoError(t, err)
	assert.Equal(t, def, cfg)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"unknown backend", `backend: "postgres"`},
		{"unknown match mode", `match: columns: "fuzzy"`},
		{"unknown field", `colour: "blue"`},
		{"unknown nested field", `serve: port: 80`},
		{"wrong type", `serve: watch: "yes"`},
		{"empty addr", `serve: addr: ""`},
		{"syntax error", `catalog: {`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("viewdeps.cue", []byte(tt.source))
			require.Error(t, err)

			var cfgErr *Error
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, "viewdeps.cue", cfgErr.Path)
			assert.NotEmpty(t, cfgErr.Message)
		})
	}
}

func TestLoad_ResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, DefaultFile, `catalog: dependencies: "deps.csv"`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Dir)

	src := cfg.Source()
	assert.Equal(t, filepath.Join(dir, "deps.csv"), src.Dependencies)
	assert.Empty(t, src.Columns, "no conventional columns file next to the config")
	assert.Empty(t, src.Code)
}

func TestLoad_AbsolutePathKept(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(t.TempDir(), "deps.csv")
	path := writeFile(t, dir, DefaultFile, `catalog: dependencies: "`+filepath.ToSlash(abs)+`"`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.ToSlash(abs), filepath.ToSlash(cfg.Source().Dependencies))
}

func TestSource_ConventionalOptionalFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, catalog.DefaultColumnsFile, "")
	writeFile(t, dir, catalog.DefaultCodeFile, "")
	path := writeFile(t, dir, DefaultFile, "")

	cfg, err := Load(path)
	require.NoError(t, err)

	src := cfg.Source()
	assert.Equal(t, filepath.Join(dir, catalog.DefaultDependenciesFile), src.Dependencies)
	assert.Equal(t, filepath.Join(dir, catalog.DefaultColumnsFile), src.Columns)
	assert.Equal(t, filepath.Join(dir, catalog.DefaultCodeFile), src.Code)
}

func TestSource_ExplicitMissingFileKept(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, DefaultFile, `catalog: code: "missing.txt"`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "missing.txt"), cfg.Source().Code)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.cue"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.cue", `backend: "sqlite"`)

	cfg, err := Discover(path)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Backend)

	// No explicit path and no viewdeps.cue in the working directory.
	t.Chdir(t.TempDir())
	cfg, err = Discover("")
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Empty(t, cfg.Dir)
}

func TestDiscover_DefaultFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, DefaultFile, `match: columns: "joined"`)
	t.Chdir(dir)

	cfg, err := Discover("")
	require.NoError(t, err)
	assert.Equal(t, queryir.ColumnMatchJoined, cfg.ColumnMatch())
	assert.Equal(t, ".", cfg.Dir)
}

func TestResolve(t *testing.T) {
	cfg := &Config{Dir: "conf"}
	assert.Equal(t, filepath.Join("conf", "a.csv"), cfg.Resolve("a.csv"))
	assert.Equal(t, "", cfg.Resolve(""))

	cfg = &Config{}
	assert.Equal(t, "a.csv", cfg.Resolve("a.csv"))
}
