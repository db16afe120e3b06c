// Package pathgraph converts a taint path into a directed chain graph for visualization.
package pathgraph

import (
	"errors"
	"fmt"

	"github.com/scan-io-git/taintgraph/internal/taint"
)

// Role tags a node by its position in the path.
type Role string

const (
	RoleSource       Role = "source"
	RoleSink         Role = "sink"
	RoleIntermediate Role = "intermediate"
)

// ErrInvalidPath is matched by InvalidPathError through errors.Is.
var ErrInvalidPath = errors.New("invalid taint path")

// InvalidPathError is returned when a path cannot be converted into a graph.
type InvalidPathError struct {
	PathID string
	Reason string
}

func (e *InvalidPathError) Error() string {
	if e.PathID == "" {
		return fmt.Sprintf("invalid taint path: %s", e.Reason)
	}
	return fmt.Sprintf("invalid taint path %q: %s", e.PathID, e.Reason)
}

func (e *InvalidPathError) Is(target error) bool {
	return target == ErrInvalidPath
}

// Node is a single hop of the path.
type Node struct {
	ID         string          `json:"id"`
	Label      string          `json:"label"`
	Role       Role            `json:"role"`
	FilePath   string          `json:"file_path"`
	LineNumber int             `json:"line_number"`
	Variable   string          `json:"variable_name,omitempty"`
	Risk       taint.RiskLevel `json:"risk"`
}

// Edge links two consecutive hops.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
	Kind   string `json:"kind"`
}

// Graph is always a simple chain: len(Edges) == len(Nodes)-1.
type Graph struct {
	PathID string `json:"path_id,omitempty"`
	Nodes  []Node `json:"nodes"`
	Edges  []Edge `json:"edges"`
}

// Stats summarizes a graph.
type Stats struct {
	TotalNodes  int          `json:"total_nodes"`
	TotalEdges  int          `json:"total_edges"`
	NodesByRole map[Role]int `json:"nodes_by_role"`
}

// Stats counts nodes per role.
func (g *Graph) Stats() Stats {
	stats := Stats{
		TotalNodes:  len(g.Nodes),
		TotalEdges:  len(g.Edges),
		NodesByRole: make(map[Role]int),
	}
	for _, n := range g.Nodes {
		stats.NodesByRole[n.Role]++
	}
	return stats
}

// Node looks up a node by id.
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}
