package engine

import (
	"github.com/roach88/viewdeps/internal/catalog"
	"github.com/roach88/viewdeps/internal/queryir"
)

// Explanation describes how a query was read and how each term narrowed
// the result.
type Explanation struct {
	Query    string       `json:"query"`
	Terms    []TermReport `json:"terms"`
	Views    int          `json:"views"`   // views in the dependency relation
	Matched  int          `json:"matched"` // views satisfying every term
	Warnings []string     `json:"warnings,omitempty"`
}

// TermReport is the reading of one term.
type TermReport struct {
	Term       string `json:"term"`       // predicate rendered in query syntax
	Kind       string `json:"kind"`       // "output_columns" or "table_column"
	Candidates int    `json:"candidates"` // views satisfying this term alone
	Remaining  int    `json:"remaining"`  // views left after intersecting this term
}

// Explain evaluates query term by term.
func (e *Engine) Explain(query string, snap *catalog.Snapshot) Explanation {
	preds := queryir.Parse(query)
	matched := NewViewSet(snap.Views()...)

	ex := Explanation{
		Query:    query,
		Terms:    make([]TermReport, 0, len(preds)),
		Views:    matched.Len(),
		Warnings: queryir.Lint(preds, e.columnMatch),
	}

	for _, pred := range preds {
		candidates := Evaluate(pred, snap, e.columnMatch)
		matched.IntersectWith(candidates)
		ex.Terms = append(ex.Terms, TermReport{
			Term:       pred.String(),
			Kind:       predicateKind(pred),
			Candidates: candidates.Len(),
			Remaining:  matched.Len(),
		})
	}
	ex.Matched = matched.Len()

	return ex
}

func predicateKind(pred queryir.Predicate) string {
	switch pred.(type) {
	case queryir.OutputColumnSubstring:
		return "output_columns"
	case queryir.TableColumn:
		return "table_column"
	default:
		return "unknown"
	}
}
