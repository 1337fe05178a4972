package queryir

import "fmt"

// Lint reports terms whose reading is legal but probably not what the
// user meant: empty segments, match-everything substrings, and terms whose
// result depends on the column match mode.
//
// Lint is advisory. It never changes how a predicate evaluates.
func Lint(preds []Predicate, mode ColumnMatchMode) []string {
	l := &linter{mode: mode, warnings: []string{}}
	for i, p := range preds {
		l.lintPredicate(i, p)
	}
	return l.warnings
}

// linter accumulates warnings during traversal.
type linter struct {
	mode     ColumnMatchMode
	warnings []string
}

func (l *linter) addWarning(index int, format string, args ...any) {
	l.warnings = append(l.warnings, fmt.Sprintf("term %d: ", index+1)+fmt.Sprintf(format, args...))
}

func (l *linter) lintPredicate(index int, p Predicate) {
	switch pred := p.(type) {
	case OutputColumnSubstring:
		if pred.Needle == "" {
			l.addWarning(index, "%q matches every view that has output columns", pred.String())
		}
	case TableColumn:
		l.lintTableColumn(index, pred)
	case nil:
		l.addWarning(index, "nil predicate")
	default:
		l.addWarning(index, "unknown predicate type %T", p)
	}
}

func (l *linter) lintTableColumn(index int, pred TableColumn) {
	switch table := pred.Table.(type) {
	case Exact:
		if table.Value == "" {
			l.addWarning(index, "%q has an empty table name and only matches rows without a table", pred.String())
		}
	case Substring:
		if table.Value == "" {
			l.addWarning(index, "%q matches every table", pred.String())
		}
	}

	switch col := pred.Column.(type) {
	case Exact:
		if col.Value == "" {
			l.addWarning(index, "%q has an empty column name and only matches empty column entries", pred.String())
		}
	case Substring:
		if col.Value == "" {
			l.addWarning(index, "%q matches every row of the table, including rows without referenced columns", pred.String())
		}
	}
}
