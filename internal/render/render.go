// Package render writes search results for people.
//
// JSON output is produced by the caller's envelope from Payload; this
// package owns the human-readable layouts.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/roach88/viewdeps/internal/engine"
)

// Layout selects a human-readable rendering.
type Layout string

const (
	// LayoutText prints one block per view: header, output columns,
	// dependencies and optionally code.
	LayoutText Layout = "text"

	// LayoutTable prints one table row per view.
	LayoutTable Layout = "table"

	// LayoutMarkdown prints the table layout as Markdown.
	LayoutMarkdown Layout = "markdown"
)

// ValidLayouts lists the accepted Layout values.
var ValidLayouts = []Layout{LayoutText, LayoutTable, LayoutMarkdown}

// NoResults is printed when a search matched nothing.
const NoResults = "No matching views found."

// rule separates view blocks in the text layout.
var rule = strings.Repeat("=", 72)

// Options controls rendering.
type Options struct {
	Layout   Layout
	ShowCode bool // include view source in the text layout
}

// Payload is the machine-readable result of a search.
type Payload struct {
	Query   string                `json:"query,omitempty"`
	Count   int                   `json:"count"`
	Results []engine.ResultRecord `json:"results"`
}

// NewPayload wraps records. Results is never nil so it encodes as [].
func NewPayload(query string, records []engine.ResultRecord) Payload {
	if records == nil {
		records = []engine.ResultRecord{}
	}
	return Payload{Query: query, Count: len(records), Results: records}
}

// Results writes records in the layout selected by opts.
func Results(w io.Writer, records []engine.ResultRecord, opts Options) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, NoResults)
		return err
	}

	switch opts.Layout {
	case LayoutText, "":
		return writeText(w, records, opts.ShowCode)
	case LayoutTable:
		newResultsTable(w, records).Render()
		return nil
	case LayoutMarkdown:
		newResultsTable(w, records).RenderMarkdown()
		return nil
	default:
		return fmt.Errorf("unknown layout %q", opts.Layout)
	}
}

// ParseLayout converts s to a Layout. An empty string selects LayoutText.
func ParseLayout(s string) (Layout, bool) {
	if s == "" {
		return LayoutText, true
	}
	for _, l := range ValidLayouts {
		if string(l) == s {
			return l, true
		}
	}
	return "", false
}

func writeText(w io.Writer, records []engine.ResultRecord, showCode bool) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s matched\n", pluralViews(len(records)))
	for _, rec := range records {
		b.WriteString("\n")
		b.WriteString(rule + "\n")
		b.WriteString(rec.View + "\n")
		b.WriteString(rule + "\n")

		if rec.OutputColumns != "" {
			fmt.Fprintf(&b, "Output Columns: %s\n", rec.OutputColumns)
		}

		b.WriteString("Dependencies:\n")
		for _, dep := range rec.Dependencies {
			fmt.Fprintf(&b, "  %s\n", FormatDependency(dep))
		}

		if showCode && rec.Code != "" {
			b.WriteString("Code:\n")
			for _, line := range strings.Split(rec.Code, "\n") {
				fmt.Fprintf(&b, "  %s\n", strings.TrimRight(line, " \t\r"))
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// FormatDependency renders a dependency as "[Table]: col, col", or
// "[Table]" when no columns are referenced.
func FormatDependency(dep engine.Dependency) string {
	if len(dep.Columns) == 0 {
		return "[" + dep.Table + "]"
	}
	return fmt.Sprintf("[%s]: %s", dep.Table, strings.Join(dep.Columns, ", "))
}

func pluralViews(n int) string {
	if n == 1 {
		return "1 view"
	}
	return fmt.Sprintf("%d views", n)
}

func newResultsTable(w io.Writer, records []engine.ResultRecord) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"View", "Tables", "Output Columns"})
	for _, rec := range records {
		tables := make([]string, len(rec.Dependencies))
		for i, dep := range rec.Dependencies {
			tables[i] = dep.Table
		}
		t.AppendRow(table.Row{rec.View, strings.Join(tables, ", "), rec.OutputColumns})
	}
	t.AppendFooter(table.Row{pluralViews(len(records)), "", ""})

	return t
}
