package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/roach88/viewdeps/internal/engine"
)

// Explanation writes a per-term breakdown of ex.
func Explanation(w io.Writer, ex engine.Explanation) error {
	if _, err := fmt.Fprintf(w, "Query: %q\n", ex.Query); err != nil {
		return err
	}

	if len(ex.Terms) == 0 {
		_, err := fmt.Fprintf(w, "No terms: all %d views match.\n", ex.Views)
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	t.AppendHeader(table.Row{"#", "Term", "Kind", "Candidates", "Remaining"})
	for i, term := range ex.Terms {
		t.AppendRow(table.Row{i + 1, term.Term, term.Kind, term.Candidates, term.Remaining})
	}
	t.Render()

	if _, err := fmt.Fprintf(w, "Matched %d of %d views\n", ex.Matched, ex.Views); err != nil {
		return err
	}
	for _, warning := range ex.Warnings {
		if _, err := fmt.Fprintf(w, "warning: %s\n", warning); err != nil {
			return err
		}
	}
	return nil
}
