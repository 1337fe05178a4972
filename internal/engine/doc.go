// Package engine implements multi-term dependency matching over a catalog
// snapshot.
//
// ARCHITECTURE:
//
// A search runs four stages, each a pure function of its inputs:
//
//	query --Parse--> []Predicate --Match--> ViewSet --Assemble--> []ResultRecord
//	                                   |
//	                               Evaluate (one predicate, one set)
//
// Match starts from every view in the dependency relation and intersects
// the candidate set of each predicate into it. Terms are independent: a
// view satisfies a term if any one of its rows satisfies it, and different
// terms may be satisfied by different rows. So "Booking Itinerary.ItineraryId"
// matches a view that references Booking in one row and
// Itinerary.ItineraryId in another.
//
// An empty predicate list matches every view. Rejecting blank queries is
// the caller's job.
//
// DETERMINISM:
//
// Results are ordered by view name (byte order). Dependencies keep their
// snapshot order. Intersection is commutative, so term order never changes
// the matched set.
//
// CONCURRENCY:
//
// The engine holds no mutable state. Any number of goroutines may search
// the same snapshot at once.
package engine
