package engine

import (
	"strings"

	"github.com/roach88/viewdeps/internal/catalog"
	"github.com/roach88/viewdeps/internal/queryir"
)

// Evaluate returns the views satisfying a single predicate.
//
// Predicates come from queryir.Parse, so their values are already folded
// and compare directly against the snapshot's folded relations.
func Evaluate(pred queryir.Predicate, snap *catalog.Snapshot, mode queryir.ColumnMatchMode) ViewSet {
	switch p := pred.(type) {
	case queryir.OutputColumnSubstring:
		return evaluateOutputColumns(p, snap)
	case queryir.TableColumn:
		return evaluateTableColumn(p, snap, mode)
	default:
		return ViewSet{}
	}
}

func evaluateOutputColumns(p queryir.OutputColumnSubstring, snap *catalog.Snapshot) ViewSet {
	matches := ViewSet{}
	for _, row := range snap.FoldedOutputColumns() {
		if strings.Contains(row.Text, p.Needle) {
			matches.Add(row.View)
		}
	}
	return matches
}

func evaluateTableColumn(p queryir.TableColumn, snap *catalog.Snapshot, mode queryir.ColumnMatchMode) ViewSet {
	matches := ViewSet{}
	for _, row := range snap.FoldedDependencies() {
		if matches.Has(row.View) {
			continue
		}
		if matchTable(p.Table, row.Table) && matchColumns(p.Column, row, mode) {
			matches.Add(row.View)
		}
	}
	return matches
}

// matchTable compares a folded table name against the table spec.
func matchTable(spec queryir.MatchSpec, table string) bool {
	switch m := spec.(type) {
	case queryir.Exact:
		return table == m.Value
	case queryir.Substring:
		return strings.Contains(table, m.Value)
	case queryir.Any, nil:
		return true
	default:
		return false
	}
}

// matchColumns compares a row's folded columns against the column spec.
//
// Exact is always element-wise. Substring is element-wise unless mode is
// ColumnMatchJoined, which tests the comma-joined list as one string. An
// empty Substring matches every row, including rows without columns.
func matchColumns(spec queryir.MatchSpec, row catalog.FoldedDependency, mode queryir.ColumnMatchMode) bool {
	switch m := spec.(type) {
	case queryir.Any, nil:
		return true
	case queryir.Exact:
		for _, c := range row.Columns {
			if c == m.Value {
				return true
			}
		}
		return false
	case queryir.Substring:
		if m.Value == "" {
			return true
		}
		if mode == queryir.ColumnMatchJoined {
			return strings.Contains(row.Joined, m.Value)
		}
		for _, c := range row.Columns {
			if strings.Contains(c, m.Value) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
