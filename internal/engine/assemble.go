package engine

import "github.com/roach88/viewdeps/internal/catalog"

// ResultRecord is one matched view with everything the catalog knows
// about it.
type ResultRecord struct {
	View          string       `json:"view"`
	Dependencies  []Dependency `json:"dependencies"`
	OutputColumns string       `json:"output_columns"`
	Code          string       `json:"code"`
}

// Dependency is one referenced table of a view and the columns it uses.
type Dependency struct {
	Table   string   `json:"table"`
	Columns []string `json:"columns"`
}

// Assemble builds one record per view, ordered by view name.
//
// Assemble does not filter. Views absent from the snapshot still get a
// record with empty fields.
func Assemble(views ViewSet, snap *catalog.Snapshot) []ResultRecord {
	names := views.Sorted()
	records := make([]ResultRecord, 0, len(names))
	for _, view := range names {
		records = append(records, assembleOne(view, snap))
	}
	return records
}

func assembleOne(view string, snap *catalog.Snapshot) ResultRecord {
	rows := snap.DependenciesOf(view)
	deps := make([]Dependency, 0, len(rows))
	for _, row := range rows {
		cols := make([]string, len(row.ReferencedColumns))
		copy(cols, row.ReferencedColumns)
		deps = append(deps, Dependency{Table: row.ReferencedTable, Columns: cols})
	}

	output, _ := snap.OutputColumnsOf(view)
	code, _ := snap.CodeOf(view)

	return ResultRecord{
		View:          view,
		Dependencies:  deps,
		OutputColumns: output,
		Code:          code,
	}
}
