package pathgraph

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/taintgraph/internal/taint"
)

func userQueryPath() taint.TaintPath {
	return taint.TaintPath{
		ID:        "path-0",
		Source:    "getUserInput",
		Sink:      "queryUser",
		RiskLevel: taint.RiskHigh,
		Steps: []taint.FlowStep{
			{FunctionName: "getUserInput", FilePath: "handlers/user.go", LineNumber: 12, VariableName: "id", Operation: "read", FlowKind: "user_input"},
			{FunctionName: "validateUser", FilePath: "service/user.go", LineNumber: 40, VariableName: "userID", Operation: "parameter_pass", FlowKind: "propagation"},
			{FunctionName: "queryUser", FilePath: "repo/user.go", LineNumber: 88, VariableName: "query", Operation: "string_concat", FlowKind: "dangerous_operation"},
		},
	}
}

func TestBuildThreeStepPath(t *testing.T) {
	graph, err := Build(userQueryPath())
	require.NoError(t, err)

	require.Len(t, graph.Nodes, 3)
	require.Len(t, graph.Edges, 2)

	expectedNodes := []struct {
		id    string
		label string
		role  Role
	}{
		{"node-0", "getUserInput", RoleSource},
		{"node-1", "validateUser", RoleIntermediate},
		{"node-2", "queryUser", RoleSink},
	}
	for i, want := range expectedNodes {
		assert.Equal(t, want.id, graph.Nodes[i].ID)
		assert.Equal(t, want.label, graph.Nodes[i].Label)
		assert.Equal(t, want.role, graph.Nodes[i].Role)
		assert.Equal(t, taint.RiskHigh, graph.Nodes[i].Risk)
	}

	assert.Equal(t, "handlers/user.go", graph.Nodes[0].FilePath)
	assert.Equal(t, 88, graph.Nodes[2].LineNumber)

	assert.Equal(t, Edge{ID: "edge-0", Source: "node-0", Target: "node-1", Label: "parameter_pass", Kind: "propagation"}, graph.Edges[0])
	assert.Equal(t, Edge{ID: "edge-1", Source: "node-1", Target: "node-2", Label: "string_concat", Kind: "dangerous_operation"}, graph.Edges[1])
}

func TestBuildChainTopology(t *testing.T) {
	for _, n := range []int{1, 2, 5, 17} {
		t.Run(fmt.Sprintf("%d steps", n), func(t *testing.T) {
			path := taint.TaintPath{RiskLevel: taint.RiskMedium}
			for i := 0; i < n; i++ {
				path.Steps = append(path.Steps, taint.FlowStep{FunctionName: fmt.Sprintf("fn%d", i)})
			}

			graph, err := Build(path)
			require.NoError(t, err)
			require.Len(t, graph.Nodes, n)
			require.Len(t, graph.Edges, n-1)

			assert.Equal(t, RoleSource, graph.Nodes[0].Role)
			if n > 1 {
				assert.Equal(t, RoleSink, graph.Nodes[n-1].Role)
			}
			for i := 1; i < n-1; i++ {
				assert.Equal(t, RoleIntermediate, graph.Nodes[i].Role)
			}
			for i, e := range graph.Edges {
				assert.Equal(t, graph.Nodes[i].ID, e.Source)
				assert.Equal(t, graph.Nodes[i+1].ID, e.Target)
			}
		})
	}
}

func TestBuildSingleStepIsSource(t *testing.T) {
	graph, err := Build(taint.TaintPath{Steps: []taint.FlowStep{{FunctionName: "main"}}})
	require.NoError(t, err)
	require.Len(t, graph.Nodes, 1)
	assert.Empty(t, graph.Edges)
	assert.Equal(t, RoleSource, graph.Nodes[0].Role)
}

func TestBuildEmptyPath(t *testing.T) {
	graph, err := Build(taint.TaintPath{ID: "path-3"})
	assert.Nil(t, graph)
	require.Error(t, err)

	var invalid *InvalidPathError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "path-3", invalid.PathID)
	assert.True(t, errors.Is(err, ErrInvalidPath))
}

func TestBuildIsDeterministic(t *testing.T) {
	first, err := Build(userQueryPath())
	require.NoError(t, err)
	second, err := Build(userQueryPath())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGraphStats(t *testing.T) {
	graph, err := Build(userQueryPath())
	require.NoError(t, err)

	stats := graph.Stats()
	assert.Equal(t, 3, stats.TotalNodes)
	assert.Equal(t, 2, stats.TotalEdges)
	assert.Equal(t, 1, stats.NodesByRole[RoleSource])
	assert.Equal(t, 1, stats.NodesByRole[RoleIntermediate])
	assert.Equal(t, 1, stats.NodesByRole[RoleSink])

	node, ok := graph.Node("node-1")
	require.True(t, ok)
	assert.Equal(t, "validateUser", node.Label)
	_, ok = graph.Node("node-9")
	assert.False(t, ok)
}
