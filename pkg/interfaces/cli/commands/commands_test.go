package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const singleNodeInstance = `
name: single
nodes:
  - id: 0
    holding_cost: 1
    stockout_cost: 4
    demand: {type: D, values: [4]}
    policy: {type: BS, base_stock_level: 10}
`

const cyclicInstance = `
nodes:
  - id: 0
    policy: {type: BS, base_stock_level: 5}
  - id: 1
    policy: {type: BS, base_stock_level: 5}
edges:
  - {from: 0, to: 1}
  - {from: 1, to: 0}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestSimulateCommand_JSON(t *testing.T) {
	instance := writeFile(t, "single.yaml", singleNodeInstance)
	outDir := t.TempDir()
	metricsFile := filepath.Join(t.TempDir(), "metrics.prom")

	out, err := execute(t, "simulate", instance,
		"--format", "json",
		"--periods", "5",
		"--seed", "3",
		"--output-dir", outDir,
		"--metrics-file", metricsFile)
	require.NoError(t, err)

	var doc struct {
		Seed        uint64         `json:"seed"`
		NumPeriods  int            `json:"num_periods"`
		TotalCost   float64        `json:"total_cost"`
		Events      map[string]int `json:"events"`
		HistoryFile string         `json:"history_file"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, uint64(3), doc.Seed)
	assert.Equal(t, 5, doc.NumPeriods)
	// zero lead times keep the level at 10 every period
	assert.Equal(t, 50.0, doc.TotalCost)
	assert.Equal(t, 5, doc.Events["period.completed"])

	history, err := os.ReadFile(doc.HistoryFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(history)), "\n")
	assert.Len(t, lines, 6)

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "invsim_periods_total 5")
}

func TestSimulateCommand_DemandSeries(t *testing.T) {
	instance := writeFile(t, "single.yaml", singleNodeInstance)
	demand := writeFile(t, "demand.csv", "period,node,product,demand\n0,0,-1,12\n1,0,-1,2\n")

	out, err := execute(t, "simulate", instance, "--format", "json", "--periods", "2", "--demand", demand)
	require.NoError(t, err)

	var doc struct {
		Nodes []struct {
			Products []struct {
				TotalDemand float64 `json:"total_demand"`
			} `json:"products"`
		} `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Nodes, 1)
	assert.Equal(t, 14.0, doc.Nodes[0].Products[0].TotalDemand)
}

func TestSimulateCommand_Text(t *testing.T) {
	instance := writeFile(t, "single.yaml", singleNodeInstance)
	out, err := execute(t, "simulate", instance, "--periods", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Simulation Results")
	assert.Contains(t, out, "Total Cost: 30.00")
}

func TestValidateCommand(t *testing.T) {
	valid := writeFile(t, "single.yaml", singleNodeInstance)
	out, err := execute(t, "validate", valid)
	require.NoError(t, err)
	assert.Contains(t, out, "Network is valid (1 nodes)")

	cyclic := writeFile(t, "cyclic.yaml", cyclicInstance)
	out, err = execute(t, "validate", cyclic, "--format", "json")
	assert.ErrorIs(t, err, ErrInvalidNetwork)
	assert.Contains(t, out, `"valid": false`)
	assert.Contains(t, out, "cycle")

	broken := writeFile(t, "broken.yaml", "nodes: []\n")
	_, err = execute(t, "validate", broken)
	assert.ErrorIs(t, err, ErrInvalidNetwork)
}

func TestTrialsCommand(t *testing.T) {
	instance := writeFile(t, "single.yaml", singleNodeInstance)
	out, err := execute(t, "trials", instance, "--format", "json", "-n", "3", "--periods", "4", "--parallelism", "2")
	require.NoError(t, err)

	var doc struct {
		NumTrials  int     `json:"num_trials"`
		MeanCost   float64 `json:"mean_cost"`
		StdDevCost float64 `json:"stddev_cost"`
		Trials     []struct {
			Seed uint64 `json:"seed"`
		} `json:"trials"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 3, doc.NumTrials)
	// deterministic demand: every trial costs the same
	assert.Equal(t, 40.0, doc.MeanCost)
	assert.Zero(t, doc.StdDevCost)
	require.Len(t, doc.Trials, 3)
	assert.Equal(t, doc.Trials[0].Seed+2, doc.Trials[2].Seed)
}

func TestRootCommand_InvalidSettings(t *testing.T) {
	instance := writeFile(t, "single.yaml", singleNodeInstance)

	_, err := execute(t, "simulate", instance, "--format", "xml")
	assert.Error(t, err)

	cfg := writeFile(t, "config.yaml", "simulation:\n  periods: 0\n")
	_, err = execute(t, "simulate", instance, "--config", cfg)
	assert.ErrorContains(t, err, "Periods")
}
