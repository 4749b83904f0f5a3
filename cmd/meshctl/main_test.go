package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("LUMINA_ACTIONS_REPLY", "10ms")

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	require.NoError(t, root.Execute(), errOut.String())
	return out.String()
}

func TestSearchCommand(t *testing.T) {
	out := run(t, "search", "orion")
	assert.Contains(t, out, "Product Roadmap: Project Orion")

	out = run(t, "search", "zzzzqqq")
	assert.Contains(t, out, "No nodes found")
}

func TestSearchCommand_JSON(t *testing.T) {
	out := run(t, "--json", "search", "--type", "sheet")

	var res struct {
		Results []struct {
			Type string `json:"type"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.NotEmpty(t, res.Results)
	for _, d := range res.Results {
		assert.Equal(t, "SHEET", d.Type)
	}
}

func TestAskCommand(t *testing.T) {
	out := run(t, "ask", "hello")
	assert.NotEmpty(t, out)
}

func TestAskCommand_BlankQuestion(t *testing.T) {
	out := run(t, "ask", "   ")
	assert.Equal(t, "Nothing to ask.\n", out)
}

func TestHistoryCommand(t *testing.T) {
	out := run(t, "history", "--type", "rollback")
	assert.Contains(t, out, "Roadmap v2")
	assert.NotContains(t, out, "NDA Template")
}

func TestInsightsCommand(t *testing.T) {
	out := run(t, "insights", "2")
	assert.Contains(t, out, "Product Roadmap: Project Orion")
	assert.Contains(t, out, "Key terms:")
}
