package graph

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/taintgraph/internal/layout"
	"github.com/scan-io-git/taintgraph/internal/loader"
	"github.com/scan-io-git/taintgraph/pkg/shared/config"
	"github.com/scan-io-git/taintgraph/pkg/shared/errors"
)

const chainReport = `{"version": "2.1.0", "runs": [{
  "tool": {"driver": {"name": "CodeQL", "rules": [{"id": "go/sql-injection", "properties": {"problem.severity": "error"}}]}},
  "results": [{"ruleId": "go/sql-injection", "message": {"text": "sqli"}, "codeFlows": [{"threadFlows": [{"locations": [
    {"kinds": ["read"], "location": {"physicalLocation": {"artifactLocation": {"uri": "api.go"}, "region": {"startLine": 3}}, "logicalLocations": [{"name": "getUserInput"}]}},
    {"kinds": ["string_concat"], "location": {"physicalLocation": {"artifactLocation": {"uri": "db.go"}, "region": {"startLine": 8}}, "logicalLocations": [{"name": "buildQuery"}]}},
    {"kinds": ["exec"], "location": {"physicalLocation": {"artifactLocation": {"uri": "db.go"}, "region": {"startLine": 9}}, "logicalLocations": [{"name": "queryUser"}]}}
  ]}]}]}]
}]}`

func TestParsePins(t *testing.T) {
	pins, err := parsePins([]string{"node-0=100,180", " node-2 = 12.5 , -4 "})
	require.NoError(t, err)
	assert.Equal(t, []pin{{NodeID: "node-0", X: 100, Y: 180}, {NodeID: "node-2", X: 12.5, Y: -4}}, pins)

	for _, bad := range []string{"node-0", "=1,2", "node-0=1", "node-0=a,2", "node-0=1,b"} {
		_, err := parsePins([]string{bad})
		assert.Error(t, err, bad)
	}

	_, err = parsePins([]string{"node-0=1,2", "node-0=3,4"})
	assert.ErrorContains(t, err, "more than once")
}

func TestValidate(t *testing.T) {
	sarif := loader.Options{SarifPath: "r.sarif"}
	tests := []struct {
		name       string
		opts       RunOptions
		wantErr    bool
		wantFormat string
	}{
		{name: "defaults to json", opts: RunOptions{Options: sarif}, wantFormat: formatJSON},
		{name: "svg from extension", opts: RunOptions{Options: sarif, OutputPath: "out/graph.SVG"}, wantFormat: formatSVG},
		{name: "explicit format wins", opts: RunOptions{Options: sarif, OutputPath: "graph.svg", Format: "JSON"}, wantFormat: formatJSON},
		{name: "unknown format", opts: RunOptions{Options: sarif, Format: "png"}, wantErr: true},
		{name: "template needs svg", opts: RunOptions{Options: sarif, Template: "t.tmpl"}, wantErr: true},
		{name: "missing input", opts: RunOptions{}, wantErr: true},
		{name: "negative index", opts: RunOptions{Options: sarif, PathIndex: -1}, wantErr: true},
		{name: "negative width", opts: RunOptions{Options: sarif, Width: -1}, wantErr: true},
		{name: "release without pins", opts: RunOptions{Options: sarif, ReleaseAfter: 10}, wantErr: true},
		{name: "release with pins", opts: RunOptions{Options: sarif, ReleaseAfter: 10, Pins: []string{"node-0=1,1"}}, wantFormat: formatJSON},
		{name: "release at tick budget", opts: RunOptions{Options: sarif, ReleaseAfter: 1000, Pins: []string{"node-0=1,1"}}, wantErr: true},
		{name: "two streams on stdout", opts: RunOptions{Options: sarif, TicksOut: "-"}, wantErr: true},
		{name: "ticks on stdout", opts: RunOptions{Options: sarif, TicksOut: "-", OutputPath: "graph.json"}, wantFormat: formatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := tt.opts
			err := validate(&o, layout.DefaultConfig().MaxTicks)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFormat, o.Format)
		})
	}
}

func TestLayoutConfig(t *testing.T) {
	assert.Equal(t, layout.DefaultConfig(), layoutConfig(nil))

	lc := layoutConfig(&config.Config{Layout: config.Layout{LinkDistance: 80, MaxTicks: 50, Seed: 9}})
	assert.Equal(t, 80.0, lc.LinkDistance)
	assert.Equal(t, 50, lc.MaxTicks)
	assert.Equal(t, int64(9), lc.Seed)
	assert.Equal(t, layout.DefaultConfig().ChargeStrength, lc.ChargeStrength)
	assert.NoError(t, lc.Validate())
}

func TestCanvasSize(t *testing.T) {
	w, h := canvasSize(nil, RunOptions{})
	assert.Equal(t, float64(config.DefaultCanvasWidth), w)
	assert.Equal(t, float64(config.DefaultCanvasHeight), h)

	w, h = canvasSize(&config.Config{Layout: config.Layout{Width: 1000}}, RunOptions{Height: 500})
	assert.Equal(t, 1000.0, w)
	assert.Equal(t, 500.0, h)
}

func runGraphCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	opts = RunOptions{}
	Init(&config.Config{})
	t.Cleanup(func() { opts = RunOptions{} })

	var out bytes.Buffer
	GraphCmd.SetOut(&out)
	GraphCmd.SetArgs(args)
	err := GraphCmd.Execute()
	return out.String(), err
}

func TestGraphCommandWritesSVGAndTicks(t *testing.T) {
	dir := t.TempDir()
	report := filepath.Join(dir, "results.sarif")
	require.NoError(t, os.WriteFile(report, []byte(chainReport), 0o644))
	svgPath := filepath.Join(dir, "graph.svg")
	ticksPath := filepath.Join(dir, "ticks.jsonl")

	out, err := runGraphCommand(t,
		"--sarif", report,
		"--pin", "node-0=100,180",
		"--release-after", "30",
		"--ticks-out", ticksPath,
		"-o", svgPath,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "layout written to "+svgPath)
	assert.Contains(t, out, "getUserInput")

	svg, err := os.ReadFile(svgPath)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(svg), "<circle"))
	assert.Contains(t, string(svg), ">string_concat</text>")

	ticks, err := os.ReadFile(ticksPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(ticks)), "\n")
	require.Greater(t, len(lines), 30)

	var pinned, last layout.Snapshot
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &pinned))
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &last))
	first, ok := pinned.Node("node-0")
	require.True(t, ok)
	assert.True(t, first.Pinned)
	assert.InDelta(t, 100, first.X, 1e-9)
	assert.Equal(t, layout.Converged, last.State)
	released, _ := last.Node("node-0")
	assert.False(t, released.Pinned)
}

func TestGraphCommandJSONToStdout(t *testing.T) {
	dir := t.TempDir()
	report := filepath.Join(dir, "results.sarif")
	require.NoError(t, os.WriteFile(report, []byte(chainReport), 0o644))

	out, err := runGraphCommand(t, "--sarif", report, "--width", "400", "--height", "300")
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "path-0", doc["path_id"])
	assert.Equal(t, 400.0, doc["width"])
	assert.Equal(t, "converged", doc["state"])
	assert.Len(t, doc["nodes"], 3)
}

func TestGraphCommandErrors(t *testing.T) {
	dir := t.TempDir()
	report := filepath.Join(dir, "results.sarif")
	require.NoError(t, os.WriteFile(report, []byte(chainReport), 0o644))

	_, err := runGraphCommand(t, "--sarif", report, "--path-index", "3")
	require.Error(t, err)
	assert.Equal(t, 1, errors.ExitCode(err))

	_, err = runGraphCommand(t, "--sarif", report, "--pin", "node-9=1,1")
	require.Error(t, err)
	assert.Equal(t, 2, errors.ExitCode(err))
	assert.ErrorIs(t, err, layout.ErrUnknownNode)

	_, err = runGraphCommand(t, "--sarif", filepath.Join(dir, "absent.sarif"))
	require.Error(t, err)
	assert.Equal(t, 2, errors.ExitCode(err))

	_, err = runGraphCommand(t, "--sarif", report, "--pin", "node-0=1,1", "--release-after", "1000")
	require.Error(t, err)
	assert.Equal(t, 1, errors.ExitCode(err))

	_, err = runGraphCommand(t, "--sarif", report, "--format", "png")
	require.Error(t, err)
	assert.Equal(t, 1, errors.ExitCode(err))
}
