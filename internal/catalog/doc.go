// Package catalog holds the view dependency catalog that the search engine
// runs against.
//
// A catalog is three relations extracted from a schema ahead of time:
//   - Dependencies: one row per (view, referenced table) with the columns
//     of that table the view references
//   - Output columns: one free-text blob per view listing its projected columns
//   - Code: the defining statement text of each view
//
// # Snapshots
//
// Relations are published as an immutable Snapshot. A Snapshot pre-folds
// every searchable string once at construction, so evaluation never
// allocates casers on the query path. Snapshots are safe for concurrent
// readers; a reload builds a new Snapshot and publishes it through a Holder.
//
// # Loading
//
// Load reads the on-disk formats:
//
//	viewDependencies.csv   view|table|col1,col2,...
//	viewColumns.csv        view|output column text
//	ALL_views.txt          name^^^source|||name^^^source|||...
//
// Missing fields become empty strings. Code entries without the ^^^
// separator are skipped and counted in LoadReport.SkippedCode.
package catalog
