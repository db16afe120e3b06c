// Package render writes layout results as JSON or SVG.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/scan-io-git/taintgraph/internal/layout"
	"github.com/scan-io-git/taintgraph/internal/pathgraph"
	"github.com/scan-io-git/taintgraph/internal/template"
)

// Margin is the padding drawn around the layout canvas in SVG output.
const Margin = 20.0

// Node colors by role.
const (
	ColorSource       = "#4caf50"
	ColorSink         = "#f44336"
	ColorIntermediate = "#2196f3"
)

// RoleColor returns the fill color of a node with the given role.
func RoleColor(role pathgraph.Role) string {
	switch role {
	case pathgraph.RoleSource:
		return ColorSource
	case pathgraph.RoleSink:
		return ColorSink
	default:
		return ColorIntermediate
	}
}

// Node is a graph node merged with its final position.
type Node struct {
	pathgraph.Node
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Pinned   bool    `json:"pinned,omitempty"`
	Color    string  `json:"color"`
	Location string  `json:"location,omitempty"`
}

// Edge is a graph edge merged with its segment and label anchor.
type Edge struct {
	pathgraph.Edge
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
	LabelX float64 `json:"label_x"`
	LabelY float64 `json:"label_y"`
}

// Document is the final rendering of one path.
type Document struct {
	PathID    string          `json:"path_id"`
	Width     float64         `json:"width"`
	Height    float64         `json:"height"`
	Margin    float64         `json:"-"`
	State     layout.State    `json:"state"`
	Ticks     int             `json:"ticks"`
	Alpha     float64         `json:"alpha"`
	Stats     pathgraph.Stats `json:"stats"`
	Nodes     []Node          `json:"nodes"`
	Edges     []Edge          `json:"edges"`
	Generated time.Time       `json:"generated"`
}

// SVGWidth is the outer width including margins.
func (d Document) SVGWidth() float64 { return d.Width + 2*d.Margin }

// SVGHeight is the outer height including margins.
func (d Document) SVGHeight() float64 { return d.Height + 2*d.Margin }

// NewDocument joins graph metadata with the positions of snap. Nodes or
// edges missing from the snapshot are left at the origin.
func NewDocument(g *pathgraph.Graph, snap layout.Snapshot, width, height float64) Document {
	doc := Document{
		PathID:    g.PathID,
		Width:     width,
		Height:    height,
		Margin:    Margin,
		State:     snap.State,
		Ticks:     snap.Tick,
		Alpha:     snap.Alpha,
		Stats:     g.Stats(),
		Nodes:     make([]Node, 0, len(g.Nodes)),
		Edges:     make([]Edge, 0, len(g.Edges)),
		Generated: time.Now(),
	}

	for _, n := range g.Nodes {
		node := Node{Node: n, Color: RoleColor(n.Role), Location: location(n)}
		if pos, ok := snap.Node(n.ID); ok {
			node.X, node.Y, node.Pinned = pos.X, pos.Y, pos.Pinned
		}
		doc.Nodes = append(doc.Nodes, node)
	}

	segments := make(map[string]layout.EdgePosition, len(snap.Edges))
	for _, e := range snap.Edges {
		segments[e.ID] = e
	}
	for _, e := range g.Edges {
		edge := Edge{Edge: e}
		if seg, ok := segments[e.ID]; ok {
			mid := seg.Midpoint()
			edge.X1, edge.Y1, edge.X2, edge.Y2 = seg.X1, seg.Y1, seg.X2, seg.Y2
			edge.LabelX, edge.LabelY = mid.X, mid.Y
		}
		doc.Edges = append(doc.Edges, edge)
	}
	return doc
}

func location(n pathgraph.Node) string {
	if n.FilePath == "" {
		return ""
	}
	if n.LineNumber > 0 {
		return fmt.Sprintf("%s:%d", n.FilePath, n.LineNumber)
	}
	return n.FilePath
}

// WriteJSON writes doc as indented JSON.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode layout: %w", err)
	}
	return nil
}

// WriteSVG renders doc with the built-in template, or templateFile when set.
func WriteSVG(w io.Writer, doc Document, templateFile string) error {
	tmpl, err := template.NewGraphTemplate(templateFile)
	if err != nil {
		return fmt.Errorf("failed to parse svg template: %w", err)
	}
	if err := tmpl.Execute(w, doc); err != nil {
		return fmt.Errorf("failed to render svg: %w", err)
	}
	return nil
}

// SnapshotWriter streams snapshots as JSON lines.
type SnapshotWriter struct {
	enc   *json.Encoder
	count int
}

func NewSnapshotWriter(w io.Writer) *SnapshotWriter {
	return &SnapshotWriter{enc: json.NewEncoder(w)}
}

// Write appends one snapshot. Its signature fits layout.Engine.Run.
func (s *SnapshotWriter) Write(snap layout.Snapshot) error {
	if err := s.enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to write snapshot %d: %w", snap.Tick, err)
	}
	s.count++
	return nil
}

// Count is the number of snapshots written so far.
func (s *SnapshotWriter) Count() int {
	return s.count
}
