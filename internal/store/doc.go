// Package store mirrors a catalog snapshot into SQLite and evaluates
// search predicates there.
//
// The store is a second evaluation backend, not a persistence layer: it is
// normally opened in memory, loaded from a snapshot, and answers
// MatchViews with the same view set the in-memory engine computes. Result
// records are still assembled from the snapshot.
//
// # Tables
//
//   - dependencies: one row per dependency row (folded table, joined columns)
//   - dependency_columns: one row per referenced column, for element-wise tests
//   - output_columns: folded output-columns text
//
// # Determinism
//
// Every match query ends with ORDER BY view_name COLLATE BINARY.
//
// # Database Configuration
//
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//   - one open connection, so a ":memory:" database survives between calls
package store
