package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/chargeplan/core/history"
)

var smallCatalog = filepath.Join("..", "pkg", "catalog", "testdata", "small.yaml")

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCatalogCommand(t *testing.T) {
	out, err := execute(t, "catalog", "--catalog", smallCatalog)
	require.NoError(t, err)
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "1 corridors")
	assert.Contains(t, out, "Alpha-Gamma: 3 sites")
}

func TestPlanCommandOptimal(t *testing.T) {
	out, err := execute(t, "plan", "--catalog", smallCatalog,
		"--budget", "60", "--range", "120", "--min-stations", "1", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, "Charging Station Network Planner")
	assert.Contains(t, out, "Status: Optimal")
	assert.Contains(t, out, `"demand_served": 550`)
	assert.Contains(t, out, "HIGHWAY CORRIDOR COVERAGE")
}

func TestPlanCommandInfeasible(t *testing.T) {
	out, err := execute(t, "plan", "--catalog", smallCatalog,
		"--budget", "10", "--range", "120", "--min-stations", "1")
	require.Error(t, err)
	assert.Contains(t, out, "Status: Infeasible")
	assert.Contains(t, out, "Try increasing the budget")
}

func TestPlanCommandRejectsTooManyStations(t *testing.T) {
	_, err := execute(t, "plan", "--catalog", smallCatalog, "--budget", "100", "--min-stations", "5")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "min stations"))
}

func TestPlanCommandRecordsSingleRun(t *testing.T) {
	dir := t.TempDir()
	conf := filepath.Join(dir, "chargeplan.yaml")
	body := "history:\n  backend: jsonl\n  path: " + filepath.Join(dir, "runs.jsonl") + "\n"
	require.NoError(t, os.WriteFile(conf, []byte(body), 0o600))
	t.Cleanup(func() { cfgPath = "" })

	out, err := execute(t, "plan", "-c", conf, "--catalog", smallCatalog,
		"--budget", "60", "--range", "120", "--min-stations", "1")
	require.NoError(t, err)
	// Three self pairs plus Alpha-Beta and Beta-Gamma in both directions.
	assert.Contains(t, out, "Variables:      3 binary (build) + 7 binary (assign)")

	out, err = execute(t, "history", "-c", conf, "--json")
	require.NoError(t, err)
	var recs []history.RunRecord
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "Optimal", recs[0].Status)
	assert.Equal(t, 60.0, recs[0].Params.Budget)
}
