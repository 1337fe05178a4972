package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Default file names written by the catalog extraction scripts.
const (
	DefaultDependenciesFile = "viewDependencies.csv"
	DefaultColumnsFile      = "viewColumns.csv"
	DefaultCodeFile         = "ALL_views.txt"
)

// Separators of the on-disk formats.
const (
	FieldSeparator  = "|"
	ColumnSeparator = ","
	EntrySeparator  = "|||"
	NameSeparator   = "^^^"
)

// Relation names used in LoadError.
const (
	RelationDependencies = "dependencies"
	RelationColumns      = "columns"
	RelationCode         = "code"
)

// maxLineSize bounds a single record. Output-column blobs of wide views can
// run to hundreds of kilobytes.
const maxLineSize = 16 * 1024 * 1024

// Source names the files of a catalog. Columns and Code are optional;
// an empty path loads an empty relation.
type Source struct {
	Dependencies string `json:"dependencies"`
	Columns      string `json:"columns"`
	Code         string `json:"code"`
}

// LoadReport describes what a Load read.
type LoadReport struct {
	Source           Source    `json:"source"`
	DependencyRows   int       `json:"dependency_rows"`
	OutputColumnRows int       `json:"output_column_rows"`
	CodeEntries      int       `json:"code_entries"`
	SkippedCode      int       `json:"skipped_code"`
	LoadedAt         time.Time `json:"loaded_at"`
}

// LoadError reports a failure reading one catalog relation.
type LoadError struct {
	Relation string
	Path     string
	Err      error
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("load %s from %s: %v", e.Relation, e.Path, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Relation, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsNotFound returns true if err is a LoadError for a missing file.
func IsNotFound(err error) bool {
	var le *LoadError
	if errors.As(err, &le) {
		return errors.Is(le.Err, os.ErrNotExist)
	}
	return false
}

// Load reads all relations named by src and builds a Snapshot.
func Load(src Source) (*Snapshot, *LoadReport, error) {
	if src.Dependencies == "" {
		return nil, nil, &LoadError{Relation: RelationDependencies, Err: errors.New("path is required")}
	}

	report := &LoadReport{Source: src}

	var deps []DependencyRow
	err := readFile(src.Dependencies, RelationDependencies, func(r io.Reader) error {
		var err error
		deps, err = ReadDependencies(r)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	var outputs []OutputColumnsRow
	if src.Columns != "" {
		err := readFile(src.Columns, RelationColumns, func(r io.Reader) error {
			var err error
			outputs, err = ReadOutputColumns(r)
			return err
		})
		if err != nil {
			return nil, nil, err
		}
	}

	var code []CodeEntry
	if src.Code != "" {
		err := readFile(src.Code, RelationCode, func(r io.Reader) error {
			var err error
			code, report.SkippedCode, err = ReadCode(r)
			return err
		})
		if err != nil {
			return nil, nil, err
		}
	}

	report.DependencyRows = len(deps)
	report.OutputColumnRows = len(outputs)
	report.CodeEntries = len(code)
	report.LoadedAt = time.Now().UTC()

	return NewSnapshot(deps, outputs, code), report, nil
}

func readFile(path, relation string, read func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return &LoadError{Relation: relation, Path: path, Err: err}
	}
	defer f.Close()

	if err := read(f); err != nil {
		return &LoadError{Relation: relation, Path: path, Err: err}
	}
	return nil
}

// ReadDependencies parses view|table|columns records.
//
// Missing fields are empty. The columns field is split on "," with each
// item trimmed; an empty field yields no columns.
func ReadDependencies(r io.Reader) ([]DependencyRow, error) {
	var rows []DependencyRow
	err := scanRecords(r, 3, func(fields []string) {
		rows = append(rows, DependencyRow{
			ViewName:          fields[0],
			ReferencedTable:   fields[1],
			ReferencedColumns: SplitColumns(fields[2]),
		})
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ReadOutputColumns parses view|output columns records.
func ReadOutputColumns(r io.Reader) ([]OutputColumnsRow, error) {
	var rows []OutputColumnsRow
	err := scanRecords(r, 2, func(fields []string) {
		rows = append(rows, OutputColumnsRow{
			ViewName:      fields[0],
			OutputColumns: fields[1],
		})
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ReadCode parses a name^^^source|||name^^^source blob.
//
// Returns the entries and the number of non-blank entries skipped for
// lacking the ^^^ separator.
func ReadCode(r io.Reader) ([]CodeEntry, int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, err
	}

	var entries []CodeEntry
	skipped := 0
	for _, item := range strings.Split(string(data), EntrySeparator) {
		name, source, ok := strings.Cut(item, NameSeparator)
		if !ok {
			if strings.TrimSpace(item) != "" {
				skipped++
			}
			continue
		}
		entries = append(entries, CodeEntry{
			ViewName:   strings.TrimSpace(name),
			SourceText: strings.TrimSpace(source),
		})
	}
	return entries, skipped, nil
}

// SplitColumns splits a comma-joined column list.
func SplitColumns(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ColumnSeparator)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// scanRecords splits each non-blank line on "|" into exactly n trimmed
// fields. Short records are padded with empty strings; surplus separators
// stay in the last field.
func scanRecords(r io.Reader, n int, emit func([]string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		parts := strings.SplitN(text, FieldSeparator, n)
		fields := make([]string, n)
		for i := range fields {
			if i < len(parts) {
				fields[i] = strings.TrimSpace(parts[i])
			}
		}
		emit(fields)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("line %d: %w", line+1, err)
	}
	return nil
}
