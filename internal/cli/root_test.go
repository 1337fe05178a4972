package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeRoot runs the root command with args and returns stdout, stderr
// and the command error.
func executeRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return executeRootContext(t, context.Background(), args...)
}

func executeRootContext(t *testing.T, ctx context.Context, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

// decodeResponse decodes a JSON envelope, storing Data in data when set.
func decodeResponse(t *testing.T, raw string, data any) CLIResponse {
	t.Helper()
	var envelope struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
		Error  *CLIError       `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &envelope), "output: %s", raw)
	if data != nil && len(envelope.Data) > 0 {
		require.NoError(t, json.Unmarshal(envelope.Data, data))
	}
	return CLIResponse{Status: envelope.Status, Error: envelope.Error}
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "viewdeps", cmd.Use)
	assert.Contains(t, cmd.Long, "Table.Column")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"search", "serve", "validate", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)
}

func TestCatalogFlags(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"search", "serve", "validate"} {
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			for _, flag := range []string{"deps", "columns", "code", "column-match", "backend"} {
				assert.NotNil(t, subCmd.Flags().Lookup(flag), "--%s on %s", flag, name)
			}
		})
	}
}

func TestSearchCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	searchCmd, _, err := cmd.Find([]string{"search"})
	require.NoError(t, err)

	layoutFlag := searchCmd.Flags().Lookup("layout")
	require.NotNil(t, layoutFlag)
	assert.Equal(t, "text", layoutFlag.DefValue)

	assert.NotNil(t, searchCmd.Flags().Lookup("show-code"))
	assert.NotNil(t, searchCmd.Flags().Lookup("explain"))
}

func TestServeCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	serveCmd, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)

	for _, flag := range []string{"addr", "token", "watch"} {
		assert.NotNil(t, serveCmd.Flags().Lookup(flag), "--%s", flag)
	}
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	assert.NotNil(t, testCmd.Flags().Lookup("update"))
	assert.NotNil(t, testCmd.Flags().Lookup("filter"))
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := executeRoot(t, "search", "Booking", "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}
