package engine

import (
	"github.com/roach88/viewdeps/internal/catalog"
	"github.com/roach88/viewdeps/internal/queryir"
)

// Match returns the views satisfying every predicate.
//
// The candidate set starts as every view in the dependency relation, so a
// view known only from the output-columns relation never matches, and an
// empty predicate list matches all views.
func Match(preds []queryir.Predicate, snap *catalog.Snapshot, mode queryir.ColumnMatchMode) ViewSet {
	matched := NewViewSet(snap.Views()...)
	for _, pred := range preds {
		if matched.Len() == 0 {
			break
		}
		matched.IntersectWith(Evaluate(pred, snap, mode))
	}
	return matched
}
