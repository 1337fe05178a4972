package queryir

import "strings"

// Predicate is one parsed query term.
//
// This is a sealed interface - only types in this package implement it.
//
// Predicate types:
//   - OutputColumnSubstring: output-columns text contains a needle
//   - TableColumn: some dependency row matches a table spec and a column spec
//
// String renders the predicate back in query syntax. For any term with a
// non-empty table part, Parse(p.String()) yields an equal predicate.
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
	String() string
}

// MatchSpec describes how one segment of a term is compared against a
// catalog value.
//
// This is a sealed interface. MatchSpec types:
//   - Exact: folded value equals Value
//   - Substring: folded value contains Value
//   - Any: always matches (only arises for a missing column part)
type MatchSpec interface {
	matchNode() // Marker method - seals interface to this package
	String() string
}

// OutputColumnSubstring matches views whose output-columns text contains
// Needle. An empty Needle matches every view with an output-columns row.
type OutputColumnSubstring struct {
	Needle string
}

func (OutputColumnSubstring) predicateNode() {}

func (p OutputColumnSubstring) String() string {
	return ">" + p.Needle
}

// TableColumn matches views with a dependency row whose table matches
// Table and whose columns match Column.
type TableColumn struct {
	Table  MatchSpec
	Column MatchSpec
}

func (TableColumn) predicateNode() {}

func (p TableColumn) String() string {
	var b strings.Builder
	b.WriteString(specString(p.Table))
	if _, isAny := p.Column.(Any); !isAny && p.Column != nil {
		b.WriteString(".")
		b.WriteString(specString(p.Column))
	}
	return b.String()
}

// Exact matches a value equal to Value.
type Exact struct {
	Value string
}

func (Exact) matchNode() {}

func (m Exact) String() string { return m.Value }

// Substring matches a value containing Value.
type Substring struct {
	Value string
}

func (Substring) matchNode() {}

func (m Substring) String() string { return "%" + m.Value }

// Any matches every value.
type Any struct{}

func (Any) matchNode() {}

func (Any) String() string { return "" }

func specString(m MatchSpec) string {
	if m == nil {
		return ""
	}
	return m.String()
}

// ColumnMatchMode selects how a Substring column spec is applied to a
// dependency row's column list.
type ColumnMatchMode string

const (
	// ColumnMatchElement tests the needle against each column name.
	ColumnMatchElement ColumnMatchMode = "element"

	// ColumnMatchJoined tests the needle against the comma-joined column
	// list. A needle containing "," may match across two adjacent names.
	ColumnMatchJoined ColumnMatchMode = "joined"
)

// ValidColumnMatchModes lists the accepted ColumnMatchMode values.
var ValidColumnMatchModes = []ColumnMatchMode{ColumnMatchElement, ColumnMatchJoined}

// ParseColumnMatchMode converts s to a ColumnMatchMode. An empty string
// selects ColumnMatchElement.
func ParseColumnMatchMode(s string) (ColumnMatchMode, bool) {
	if s == "" {
		return ColumnMatchElement, true
	}
	for _, m := range ValidColumnMatchModes {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}
