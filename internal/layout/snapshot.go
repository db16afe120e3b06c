package layout

import "fmt"

// State is the lifecycle of an engine.
type State int

const (
	Uninitialized State = iota
	Running
	Converged
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	case Converged:
		return "converged"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name in JSON output.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name written by MarshalText.
func (s *State) UnmarshalText(text []byte) error {
	for _, candidate := range []State{Uninitialized, Running, Converged} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown layout state %q", text)
}

// Point is a 2-D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodePosition is the position of one node after a tick.
type NodePosition struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Pinned bool    `json:"pinned,omitempty"`
}

// EdgePosition is the straight segment between the current positions of an
// edge's endpoints. Edges carry no position state of their own.
type EdgePosition struct {
	ID     string  `json:"id"`
	Source string  `json:"source"`
	Target string  `json:"target"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
}

// Midpoint is where an edge label is drawn.
func (e EdgePosition) Midpoint() Point {
	return Point{X: (e.X1 + e.X2) / 2, Y: (e.Y1 + e.Y2) / 2}
}

// Snapshot is emitted once per tick.
type Snapshot struct {
	Tick  int            `json:"tick"`
	Alpha float64        `json:"alpha"`
	State State          `json:"state"`
	Nodes []NodePosition `json:"nodes"`
	Edges []EdgePosition `json:"edges"`
}

// Node returns the position of the node with the given id.
func (s Snapshot) Node(id string) (NodePosition, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodePosition{}, false
}
