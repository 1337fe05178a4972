// Package config loads viewdeps.cue.
//
// The file is unified with the embedded #Config schema, which supplies
// defaults and rejects unknown fields, then decoded into Config. Relative
// catalog paths resolve against the directory of the config file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/viewdeps/internal/catalog"
	"github.com/roach88/viewdeps/internal/queryir"
)

// DefaultFile is the config file looked up in the working directory when
// no path is given.
const DefaultFile = "viewdeps.cue"

// Backend names.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// ValidBackends lists the accepted backend names.
var ValidBackends = []string{BackendMemory, BackendSQLite}

//go:embed schema.cue
var schemaCUE string

// Config is the decoded configuration.
type Config struct {
	Catalog CatalogConfig `json:"catalog"`
	Match   MatchConfig   `json:"match"`
	Backend string        `json:"backend"`
	Serve   ServeConfig   `json:"serve"`

	// Dir is the base for relative catalog paths. Empty means the working
	// directory.
	Dir string `json:"-"`
}

// CatalogConfig names the catalog files.
type CatalogConfig struct {
	Dependencies string `json:"dependencies"`
	Columns      string `json:"columns"`
	Code         string `json:"code"`
}

// MatchConfig holds matching options.
type MatchConfig struct {
	Columns string `json:"columns"`
}

// ServeConfig holds HTTP server options.
type ServeConfig struct {
	Addr  string `json:"addr"`
	Token string `json:"token"`
	Watch bool   `json:"watch"`
}

// Error is a configuration failure with the CUE position when known.
type Error struct {
	Path    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config %s: %s", e.Path, e.Message)
	}
	return "config: " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Default returns the schema defaults.
func Default() (*Config, error) {
	return decode(nil, "")
}

// Load reads and validates the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Message: err.Error(), Err: err}
	}
	cfg, err := decode(data, path)
	if err != nil {
		return nil, err
	}
	cfg.Dir = filepath.Dir(path)
	return cfg, nil
}

// Discover loads path when set, else DefaultFile when it exists, else the
// defaults.
func Discover(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return Load(DefaultFile)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, &Error{Path: DefaultFile, Message: err.Error(), Err: err}
	}
	return Default()
}

// Parse validates config source held in memory. The name is used in
// error positions.
func Parse(name string, data []byte) (*Config, error) {
	return decode(data, name)
}

func decode(data []byte, name string) (*Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, &Error{Message: "invalid embedded schema: " + err.Error(), Err: err}
	}
	value := schema.LookupPath(cue.ParsePath("#Config"))

	if data != nil {
		user := ctx.CompileBytes(data, cue.Filename(name))
		if err := user.Err(); err != nil {
			return nil, cueError(name, err)
		}
		value = value.Unify(user)
	}

	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, cueError(name, err)
	}

	var cfg Config
	if err := value.Decode(&cfg); err != nil {
		return nil, cueError(name, err)
	}
	return &cfg, nil
}

func cueError(name string, err error) error {
	msg := cueerrors.Details(err, nil)
	return &Error{Path: name, Message: strings.TrimRight(msg, "\n"), Err: err}
}

// ColumnMatch returns the configured column match mode.
func (c *Config) ColumnMatch() queryir.ColumnMatchMode {
	mode, ok := queryir.ParseColumnMatchMode(c.Match.Columns)
	if !ok {
		return queryir.ColumnMatchElement
	}
	return mode
}

// Resolve returns path relative to the config directory. Absolute paths
// and empty strings are returned unchanged.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.Dir == "" {
		return path
	}
	return filepath.Join(c.Dir, path)
}

// Source returns the catalog files to load.
//
// An empty columns or code path falls back to the conventional file name
// when that file exists next to the config; otherwise the relation is
// loaded empty. Explicit paths are always kept, so a missing explicit
// file fails at load time.
func (c *Config) Source() catalog.Source {
	return catalog.Source{
		Dependencies: c.Resolve(c.Catalog.Dependencies),
		Columns:      c.optional(c.Catalog.Columns, catalog.DefaultColumnsFile),
		Code:         c.optional(c.Catalog.Code, catalog.DefaultCodeFile),
	}
}

func (c *Config) optional(path, fallback string) string {
	if path != "" {
		return c.Resolve(path)
	}
	candidate := c.Resolve(fallback)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}
