package catalog

import (
	"sort"
	"strings"
)

// Snapshot is an immutable, internally consistent copy of the three catalog
// relations.
//
// Callers must not modify slices returned by Snapshot methods.
type Snapshot struct {
	deps       []DependencyRow
	foldedDeps []FoldedDependency
	depsByView map[string][]int

	outputs       []OutputColumnsRow
	foldedOutputs []FoldedOutputColumns
	outputByView  map[string]string

	code       []CodeEntry
	codeByView map[string]string

	views []string
}

// NewSnapshot builds a Snapshot from the given relations.
//
// The input slices are copied. When a view has more than one output-columns
// row or code entry, the first one wins.
func NewSnapshot(deps []DependencyRow, outputs []OutputColumnsRow, code []CodeEntry) *Snapshot {
	s := &Snapshot{
		deps:          make([]DependencyRow, len(deps)),
		foldedDeps:    make([]FoldedDependency, len(deps)),
		depsByView:    make(map[string][]int),
		outputs:       make([]OutputColumnsRow, len(outputs)),
		foldedOutputs: make([]FoldedOutputColumns, len(outputs)),
		outputByView:  make(map[string]string, len(outputs)),
		code:          make([]CodeEntry, len(code)),
		codeByView:    make(map[string]string, len(code)),
	}

	for i, row := range deps {
		cols := make([]string, len(row.ReferencedColumns))
		copy(cols, row.ReferencedColumns)
		row.ReferencedColumns = cols
		s.deps[i] = row

		folded := make([]string, len(cols))
		for j, c := range cols {
			folded[j] = Fold(c)
		}
		s.foldedDeps[i] = FoldedDependency{
			View:    row.ViewName,
			Table:   Fold(row.ReferencedTable),
			Columns: folded,
			Joined:  strings.Join(folded, ","),
		}

		if _, seen := s.depsByView[row.ViewName]; !seen {
			s.views = append(s.views, row.ViewName)
		}
		s.depsByView[row.ViewName] = append(s.depsByView[row.ViewName], i)
	}
	sort.Strings(s.views)

	copy(s.outputs, outputs)
	for i, row := range outputs {
		s.foldedOutputs[i] = FoldedOutputColumns{View: row.ViewName, Text: Fold(row.OutputColumns)}
		if _, ok := s.outputByView[row.ViewName]; !ok {
			s.outputByView[row.ViewName] = row.OutputColumns
		}
	}

	copy(s.code, code)
	for _, entry := range code {
		if _, ok := s.codeByView[entry.ViewName]; !ok {
			s.codeByView[entry.ViewName] = entry.SourceText
		}
	}

	return s
}

// Views returns the distinct view names of the dependency relation in
// ascending byte order.
func (s *Snapshot) Views() []string {
	return s.views
}

// Dependencies returns the dependency relation in source order.
func (s *Snapshot) Dependencies() []DependencyRow {
	return s.deps
}

// FoldedDependencies returns the case-folded dependency relation, index
// aligned with Dependencies.
func (s *Snapshot) FoldedDependencies() []FoldedDependency {
	return s.foldedDeps
}

// OutputColumns returns the output-columns relation in source order.
func (s *Snapshot) OutputColumns() []OutputColumnsRow {
	return s.outputs
}

// FoldedOutputColumns returns the case-folded output-columns relation.
func (s *Snapshot) FoldedOutputColumns() []FoldedOutputColumns {
	return s.foldedOutputs
}

// Code returns the code relation in source order.
func (s *Snapshot) Code() []CodeEntry {
	return s.code
}

// DependenciesOf returns the dependency rows of view in source order.
// Returns nil if the view has none.
func (s *Snapshot) DependenciesOf(view string) []DependencyRow {
	idx := s.depsByView[view]
	if len(idx) == 0 {
		return nil
	}
	rows := make([]DependencyRow, len(idx))
	for i, j := range idx {
		rows[i] = s.deps[j]
	}
	return rows
}

// OutputColumnsOf returns the output-columns text of view.
func (s *Snapshot) OutputColumnsOf(view string) (string, bool) {
	text, ok := s.outputByView[view]
	return text, ok
}

// CodeOf returns the source text of view.
func (s *Snapshot) CodeOf(view string) (string, bool) {
	text, ok := s.codeByView[view]
	return text, ok
}

// Stats returns the relation sizes.
func (s *Snapshot) Stats() Stats {
	return Stats{
		Views:         len(s.views),
		Dependencies:  len(s.deps),
		OutputColumns: len(s.outputs),
		CodeEntries:   len(s.code),
	}
}
