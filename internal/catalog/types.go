package catalog

// DependencyRow records that a view references a table.
//
// ReferencedColumns lists every column of ReferencedTable the view uses, in
// source order. It may be empty.
type DependencyRow struct {
	ViewName          string   `json:"view_name"`
	ReferencedTable   string   `json:"referenced_table"`
	ReferencedColumns []string `json:"referenced_columns"`
}

// OutputColumnsRow holds the projected output columns of a view as an
// opaque text blob. Only substring search is applied to it.
type OutputColumnsRow struct {
	ViewName      string `json:"view_name"`
	OutputColumns string `json:"output_columns"`
}

// CodeEntry holds the defining statement text of a view.
type CodeEntry struct {
	ViewName   string `json:"view_name"`
	SourceText string `json:"source_text"`
}

// FoldedDependency is the case-folded form of a DependencyRow used for
// matching. View keeps its original spelling; results are keyed by it.
type FoldedDependency struct {
	View    string
	Table   string
	Columns []string
	Joined  string // Columns joined with ","
}

// FoldedOutputColumns is the case-folded form of an OutputColumnsRow.
type FoldedOutputColumns struct {
	View string
	Text string
}

// Stats summarizes the size of a snapshot.
type Stats struct {
	Views         int `json:"views"`
	Dependencies  int `json:"dependencies"`
	OutputColumns int `json:"output_columns"`
	CodeEntries   int `json:"code_entries"`
}
