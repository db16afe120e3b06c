package tracer

import (
	"fmt"

	"github.com/scan-io-git/taintgraph/internal/taint"
)

// SourceInfo describes a catalogued taint source.
type SourceInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Keywords    []string `json:"keywords"`
	Description string   `json:"description"`
}

type QuerySourcesResponse struct {
	Sources    []SourceInfo `json:"sources"`
	TotalCount int          `json:"total_count"`
}

// SinkInfo describes a catalogued taint sink.
type SinkInfo struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Type              string   `json:"type"`
	Keywords          []string `json:"keywords"`
	VulnerabilityType string   `json:"vulnerability_type"`
	Description       string   `json:"description"`
}

type QuerySinksResponse struct {
	Sinks      []SinkInfo `json:"sinks"`
	TotalCount int        `json:"total_count"`
}

// TracePathRequest asks the backend for paths between two functions.
type TracePathRequest struct {
	SourceFunction string `json:"source_function"`
	SinkFunction   string `json:"sink_function"`
	MaxPaths       int    `json:"max_paths,omitempty"`
}

type TracePathNode struct {
	NodeID       string `json:"node_id"`
	FunctionName string `json:"function_name"`
	FilePath     string `json:"file_path"`
	LineNumber   int    `json:"line_number"`
	Operation    string `json:"operation"`
	VariableName string `json:"variable_name"`
	DataFlow     string `json:"data_flow"`
}

type TracePathSegment struct {
	PathIndex    int             `json:"path_index"`
	Nodes        []TracePathNode `json:"nodes"`
	HasSanitizer bool            `json:"has_sanitizer"`
}

type TracePathResponse struct {
	Paths []TracePathSegment `json:"paths"`
}

// ToTaintPath maps a backend segment onto a TaintPath. Risk follows the
// sanitizer convention since the backend does not rate paths itself.
func (s TracePathSegment) ToTaintPath() taint.TaintPath {
	path := taint.TaintPath{
		ID:           fmt.Sprintf("path-%d", s.PathIndex),
		RiskLevel:    taint.RiskFromSanitizer(s.HasSanitizer),
		HasSanitizer: s.HasSanitizer,
		Steps:        make([]taint.FlowStep, 0, len(s.Nodes)),
	}
	for _, n := range s.Nodes {
		line := n.LineNumber
		if line < 0 {
			line = 0
		}
		path.Steps = append(path.Steps, taint.FlowStep{
			FunctionName: n.FunctionName,
			FilePath:     n.FilePath,
			LineNumber:   line,
			VariableName: n.VariableName,
			Operation:    n.Operation,
			FlowKind:     n.DataFlow,
		})
	}
	if len(path.Steps) > 0 {
		path.Source = path.Steps[0].FunctionName
		path.Sink = path.Steps[len(path.Steps)-1].FunctionName
	}
	return path
}
