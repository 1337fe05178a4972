// Package queryir parses the view search mini-language into predicates.
//
// A query is a list of terms separated by commas or whitespace. Each term
// becomes one Predicate:
//
//	>text            output-column substring
//	table            table exact, any column
//	%text            table substring, any column
//	table.column     table exact, column exact
//	table.%text      table exact, column substring
//	%text.%text      table substring, column substring
//
// Matching is case-insensitive throughout; Parse folds every value with
// catalog.Fold so evaluators compare against pre-folded catalog strings.
//
// The % marker is positional. It is only meaningful as the first character
// of a segment and has no effect anywhere else. Only the first "." in a term
// splits table from column; later dots stay in the column part.
//
// SEALED INTERFACES:
//
// Predicate and MatchSpec are sealed with marker methods. Evaluators
// switch on them exhaustively:
//
//	switch p := pred.(type) {
//	case OutputColumnSubstring:
//	    // search output columns
//	case TableColumn:
//	    // search dependency rows
//	}
package queryir
