package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/viewdeps/internal/config"
	"github.com/roach88/viewdeps/internal/queryir"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// ColumnMatch selects the column match mode. Empty means "element".
	ColumnMatch string `yaml:"column_match,omitempty"`

	// Backends lists the backends to evaluate on. Empty means all.
	Backends []string `yaml:"backends,omitempty"`

	// Catalog holds the catalog, inline or as file paths.
	Catalog CatalogSpec `yaml:"catalog"`

	// Cases are the queries to run, in order.
	Cases []Case `yaml:"cases"`
}

// CatalogSpec holds catalog relations in their on-disk formats.
//
// Each relation is given either inline or as a file path relative to the
// scenario file, never both.
type CatalogSpec struct {
	Dependencies     string `yaml:"dependencies,omitempty"`
	Columns          string `yaml:"columns,omitempty"`
	Code             string `yaml:"code,omitempty"`
	DependenciesFile string `yaml:"dependencies_file,omitempty"`
	ColumnsFile      string `yaml:"columns_file,omitempty"`
	CodeFile         string `yaml:"code_file,omitempty"`
}

// Case is one query and its expectations.
type Case struct {
	// Query is the raw query string.
	Query string `yaml:"query"`

	// Expect is the exact, ordered list of matched views. A nil Expect is
	// not checked; an empty list requires no matches.
	Expect []string `yaml:"expect,omitempty"`

	// Contains lists views that must match.
	Contains []string `yaml:"contains,omitempty"`

	// Excludes lists views that must not match.
	Excludes []string `yaml:"excludes,omitempty"`

	// Count is the expected number of matched views.
	Count *int `yaml:"count,omitempty"`
}

// hasExpectation reports whether the case checks anything beyond parity.
func (c *Case) hasExpectation() bool {
	return c.Expect != nil || len(c.Contains) > 0 || len(c.Excludes) > 0 || c.Count != nil
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
//
// Catalog file paths are resolved relative to the scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	base := filepath.Dir(path)
	for _, p := range []*string{
		&scenario.Catalog.DependenciesFile,
		&scenario.Catalog.ColumnsFile,
		&scenario.Catalog.CodeFile,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}

	if err := validateFiles(&scenario.Catalog); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return scenario, nil
}

// ParseScenario parses scenario YAML held in memory. Catalog file paths
// are left as written.
func ParseScenario(data []byte) (*Scenario, error) {
	// Parse YAML with strict field validation (catches typos like "case:" vs "cases:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if _, ok := queryir.ParseColumnMatchMode(s.ColumnMatch); !ok {
		return fmt.Errorf("column_match must be one of %v, got %q", queryir.ValidColumnMatchModes, s.ColumnMatch)
	}

	for i, b := range s.Backends {
		if !isValidBackend(b) {
			return fmt.Errorf("backends[%d]: unknown backend %q", i, b)
		}
	}

	c := &s.Catalog
	if c.Dependencies == "" && c.DependenciesFile == "" {
		return fmt.Errorf("catalog.dependencies or catalog.dependencies_file is required")
	}
	for _, pair := range [][3]string{
		{"dependencies", c.Dependencies, c.DependenciesFile},
		{"columns", c.Columns, c.ColumnsFile},
		{"code", c.Code, c.CodeFile},
	} {
		if pair[1] != "" && pair[2] != "" {
			return fmt.Errorf("catalog.%s and catalog.%s_file are mutually exclusive", pair[0], pair[0])
		}
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	for i, c := range s.Cases {
		if !c.hasExpectation() {
			return fmt.Errorf("cases[%d]: one of expect, contains, excludes or count is required", i)
		}
		if c.Count != nil && *c.Count < 0 {
			return fmt.Errorf("cases[%d]: count must be non-negative", i)
		}
	}

	return nil
}

// validateFiles checks that referenced catalog files exist.
func validateFiles(c *CatalogSpec) error {
	for _, path := range []string{c.DependenciesFile, c.ColumnsFile, c.CodeFile} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("catalog file not found: %s", path)
		}
	}
	return nil
}

func isValidBackend(name string) bool {
	for _, b := range config.ValidBackends {
		if b == name {
			return true
		}
	}
	return false
}
