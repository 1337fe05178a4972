package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when a case expectation fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Case     int    // zero-based case index
	Query    string // raw query
	Backend  string // backend that produced Actual
	Check    string // "expect", "contains", "excludes", "count" or "parity"
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "cases[%d] %q on %s: %s failed\n", e.Case, e.Query, e.Backend, e.Check)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)

	return buf.String()
}

// checkCase evaluates the expectations of c against views. Returns one
// error per failed check.
func checkCase(index int, c Case, backend string, views []string) []error {
	var errs []error
	fail := func(check, expected, actual string) {
		errs = append(errs, &AssertionError{
			Case:     index,
			Query:    c.Query,
			Backend:  backend,
			Check:    check,
			Expected: expected,
			Actual:   actual,
		})
	}

	if c.Expect != nil && !slices.Equal(c.Expect, views) {
		fail("expect", formatViews(c.Expect), formatViews(views))
	}

	for _, v := range c.Contains {
		if !slices.Contains(views, v) {
			fail("contains", "includes "+v, formatViews(views))
		}
	}

	for _, v := range c.Excludes {
		if slices.Contains(views, v) {
			fail("excludes", "omits "+v, formatViews(views))
		}
	}

	if c.Count != nil && *c.Count != len(views) {
		fail("count", fmt.Sprintf("%d views", *c.Count), fmt.Sprintf("%d views %s", len(views), formatViews(views)))
	}

	return errs
}

// checkParity reports a backend whose views differ from the reference
// backend's.
func checkParity(index int, c Case, refBackend string, ref []string, backend string, views []string) error {
	if slices.Equal(ref, views) {
		return nil
	}
	return &AssertionError{
		Case:     index,
		Query:    c.Query,
		Backend:  backend,
		Check:    "parity",
		Expected: fmt.Sprintf("%s (from %s)", formatViews(ref), refBackend),
		Actual:   formatViews(views),
	}
}

func formatViews(views []string) string {
	return "[" + strings.Join(views, ", ") + "]"
}
