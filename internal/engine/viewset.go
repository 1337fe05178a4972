package engine

import "sort"

// ViewSet is a set of view names.
type ViewSet map[string]struct{}

// NewViewSet creates a set holding views.
func NewViewSet(views ...string) ViewSet {
	s := make(ViewSet, len(views))
	for _, v := range views {
		s[v] = struct{}{}
	}
	return s
}

// Add inserts view.
func (s ViewSet) Add(view string) {
	s[view] = struct{}{}
}

// Has reports whether view is in the set.
func (s ViewSet) Has(view string) bool {
	_, ok := s[view]
	return ok
}

// Len returns the number of views.
func (s ViewSet) Len() int {
	return len(s)
}

// IntersectWith removes every view not in other.
func (s ViewSet) IntersectWith(other ViewSet) {
	for v := range s {
		if !other.Has(v) {
			delete(s, v)
		}
	}
}

// Sorted returns the views in ascending byte order.
func (s ViewSet) Sorted() []string {
	views := make([]string, 0, len(s))
	for v := range s {
		views = append(views, v)
	}
	sort.Strings(views)
	return views
}
