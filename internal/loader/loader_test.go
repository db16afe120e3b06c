package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/taintgraph/internal/taint"
	"github.com/scan-io-git/taintgraph/pkg/shared/config"
)

const twoFlowReport = `{"version": "2.1.0", "runs": [{
  "tool": {"driver": {"name": "CodeQL", "rules": [{"id": "r1", "properties": {"problem.severity": "error"}}, {"id": "r2", "properties": {"problem.severity": "recommendation"}}]}},
  "results": [
    {"ruleId": "r1", "message": {"text": "a"}, "codeFlows": [{"threadFlows": [{"locations": [
      {"location": {"physicalLocation": {"artifactLocation": {"uri": "a.go"}, "region": {"startLine": 1}}, "logicalLocations": [{"name": "read"}]}},
      {"location": {"physicalLocation": {"artifactLocation": {"uri": "a.go"}, "region": {"startLine": 2}}, "logicalLocations": [{"name": "exec"}]}}
    ]}]}]},
    {"ruleId": "r2", "message": {"text": "b"}, "codeFlows": [{"threadFlows": [{"locations": [
      {"location": {"physicalLocation": {"artifactLocation": {"uri": "b.go"}, "region": {"startLine": 1}}, "logicalLocations": [{"name": "env"}]}},
      {"location": {"physicalLocation": {"artifactLocation": {"uri": "b.go"}, "region": {"startLine": 5}}, "logicalLocations": [{"name": "log"}]}}
    ]}]}]}
  ]}]}`

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{name: "sarif", opts: Options{SarifPath: "r.sarif"}},
		{name: "trace", opts: Options{Source: "a", Sink: "b", Risk: "HIGH"}},
		{name: "nothing", opts: Options{}, wantErr: true},
		{name: "both inputs", opts: Options{SarifPath: "r.sarif", Source: "a", Sink: "b"}, wantErr: true},
		{name: "source only", opts: Options{Source: "a"}, wantErr: true},
		{name: "negative max", opts: Options{SarifPath: "r.sarif", MaxPaths: -1}, wantErr: true},
		{name: "bad risk", opts: Options{SarifPath: "r.sarif", Risk: "critical"}, wantErr: true},
		{name: "all risk", opts: Options{SarifPath: "r.sarif", Risk: "all"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromSARIF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.sarif")
	require.NoError(t, os.WriteFile(path, []byte(twoFlowReport), 0o644))

	paths, err := Load(context.Background(), &config.Config{}, Options{SarifPath: path}, nil)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	high, err := Load(context.Background(), &config.Config{}, Options{SarifPath: path, Risk: "high"}, nil)
	require.NoError(t, err)
	require.Len(t, high, 1)
	assert.Equal(t, "read", high[0].Source)

	limited, err := Load(context.Background(), &config.Config{}, Options{SarifPath: path, MaxPaths: 1}, nil)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestLoadFromTracer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"paths":[{"path_index":4,"has_sanitizer":true,"nodes":[{"function_name":"a"},{"function_name":"b"}]}]}`))
	}))
	t.Cleanup(srv.Close)
	t.Setenv(config.EnvAPIBase, "")

	cfg := &config.Config{Tracer: config.Tracer{BaseURL: srv.URL}}
	paths, err := Load(context.Background(), cfg, Options{Source: "a", Sink: "b", Risk: "low"}, nil)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, "path-4", paths[0].ID)
	assert.Equal(t, taint.RiskLow, paths[0].RiskLevel)
}

func TestSelect(t *testing.T) {
	paths := []taint.TaintPath{{ID: "path-0"}, {ID: "path-1"}}

	p, err := Select(paths, 1)
	require.NoError(t, err)
	assert.Equal(t, "path-1", p.ID)

	_, err = Select(paths, 2)
	assert.ErrorContains(t, err, "out of range [0, 1]")
	_, err = Select(paths, -1)
	assert.Error(t, err)
	_, err = Select(nil, 0)
	assert.ErrorContains(t, err, "no taint paths")
}
