package harness

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sprintf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

func TestRunWithGolden(t *testing.T) {
	for _, file := range []string{"travel", "joined", "unicode", "files"} {
		t.Run(file, func(t *testing.T) {
			s, err := LoadScenario("testdata/scenarios/" + file + ".yaml")
			require.NoError(t, err)

			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass)
		})
	}
}

func TestMarshalSnapshot(t *testing.T) {
	s := &Scenario{Name: "n"}
	result := &Result{Cases: []CaseResult{
		{Query: ">a&b", Views: nil},
		{Query: "T", Views: []string{"v"}},
	}}

	data, err := MarshalSnapshot(s, result)
	require.NoError(t, err)
	assert.Equal(t, `{
  "scenario_name": "n",
  "column_match": "element",
  "cases": [
    {
      "query": ">a&b",
      "views": []
    },
    {
      "query": "T",
      "views": [
        "v"
      ]
    }
  ]
}
`, string(data))
}
