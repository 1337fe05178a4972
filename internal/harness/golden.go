package harness

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot captures the matched views of a scenario execution.
type Snapshot struct {
	ScenarioName string         `json:"scenario_name"`
	ColumnMatch  string         `json:"column_match"`
	Cases        []SnapshotCase `json:"cases"`
}

// SnapshotCase is one query and its views.
type SnapshotCase struct {
	Query string   `json:"query"`
	Views []string `json:"views"`
}

// MarshalSnapshot renders the golden form of result: indented JSON with a
// trailing newline.
func MarshalSnapshot(scenario *Scenario, result *Result) ([]byte, error) {
	mode := scenario.ColumnMatch
	if mode == "" {
		mode = "element"
	}
	snap := Snapshot{
		ScenarioName: scenario.Name,
		ColumnMatch:  mode,
		Cases:        make([]SnapshotCase, len(result.Cases)),
	}
	for i, c := range result.Cases {
		views := c.Views
		if views == nil {
			views = []string{}
		}
		snap.Cases[i] = SnapshotCase{Query: c.Query, Views: views}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RunWithGolden executes a scenario and compares the matched views against
// a golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the views don't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against the golden file of
// scenario without re-running it.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(scenario, result)
	if err != nil {
		return err
	}

	// Compare with golden file using goldie
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return nil
}
