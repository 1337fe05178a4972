package queryir

import (
	"strings"
	"unicode"

	"github.com/roach88/viewdeps/internal/catalog"
)

// Term markers.
const (
	OutputColumnMarker = ">"
	SubstringMarker    = "%"
	SegmentSeparator   = "."
)

// Parse converts a raw query into predicates, one per term, in query order.
//
// An empty or whitespace-only query yields an empty (non-nil) slice. Parse
// never fails: every token has a deterministic reading under the grammar,
// including degenerate ones like "Booking." (column Exact("")).
func Parse(query string) []Predicate {
	terms := Tokenize(query)
	preds := make([]Predicate, 0, len(terms))
	for _, term := range terms {
		preds = append(preds, ParseTerm(term))
	}
	return preds
}

// Tokenize splits a query on commas and whitespace. Runs of separators
// collapse and empty tokens are dropped.
func Tokenize(query string) []string {
	return strings.FieldsFunc(query, isSeparator)
}

func isSeparator(r rune) bool {
	return r == ',' || unicode.IsSpace(r)
}

// ParseTerm classifies a single term.
func ParseTerm(term string) Predicate {
	term = strings.TrimSpace(term)

	if rest, ok := strings.CutPrefix(term, OutputColumnMarker); ok {
		return OutputColumnSubstring{Needle: catalog.Fold(strings.TrimSpace(rest))}
	}

	tablePart, columnPart, hasColumn := strings.Cut(term, SegmentSeparator)
	pred := TableColumn{
		Table:  parseSegment(tablePart),
		Column: Any{},
	}
	if hasColumn {
		pred.Column = parseSegment(columnPart)
	}
	return pred
}

// parseSegment reads a table or column part. A leading % selects substring
// matching; % anywhere else is literal.
func parseSegment(seg string) MatchSpec {
	seg = strings.TrimSpace(seg)
	if rest, ok := strings.CutPrefix(seg, SubstringMarker); ok {
		return Substring{Value: catalog.Fold(rest)}
	}
	return Exact{Value: catalog.Fold(seg)}
}

// Format renders predicates back to a query string.
func Format(preds []Predicate) string {
	parts := make([]string, len(preds))
	for i, p := range preds {
		parts[i] = p.String()
	}
	return strings.Join(parts, " ")
}
