package pathgraph

import (
	"fmt"

	"github.com/scan-io-git/taintgraph/internal/taint"
)

// Build converts path into a chain graph. Node and edge identities are
// positional, so identical input always produces identical output.
func Build(path taint.TaintPath) (*Graph, error) {
	if len(path.Steps) == 0 {
		return nil, &InvalidPathError{PathID: path.ID, Reason: "path has no flow steps"}
	}

	graph := &Graph{
		PathID: path.ID,
		Nodes:  make([]Node, 0, len(path.Steps)),
		Edges:  make([]Edge, 0, len(path.Steps)-1),
	}

	for i, step := range path.Steps {
		graph.Nodes = append(graph.Nodes, Node{
			ID:         NodeID(i),
			Label:      step.FunctionName,
			Role:       roleAt(i, len(path.Steps)),
			FilePath:   step.FilePath,
			LineNumber: step.LineNumber,
			Variable:   step.VariableName,
			Risk:       path.RiskLevel,
		})

		if i > 0 {
			graph.Edges = append(graph.Edges, Edge{
				ID:     EdgeID(i - 1),
				Source: NodeID(i - 1),
				Target: NodeID(i),
				Label:  step.Operation,
				Kind:   step.FlowKind,
			})
		}
	}

	return graph, nil
}

// NodeID returns the identifier of the node built from step i.
func NodeID(i int) string {
	return fmt.Sprintf("node-%d", i)
}

// EdgeID returns the identifier of the edge entering node i+1.
func EdgeID(i int) string {
	return fmt.Sprintf("edge-%d", i)
}

// roleAt tags index 0 as source even for single step paths.
func roleAt(i, n int) Role {
	switch {
	case i == 0:
		return RoleSource
	case i == n-1:
		return RoleSink
	default:
		return RoleIntermediate
	}
}
