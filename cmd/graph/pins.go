package graph

import (
	"fmt"
	"strconv"
	"strings"
)

// pin is a --pin flag value: a node held at a fixed canvas position.
type pin struct {
	NodeID string
	X, Y   float64
}

// parsePins reads values of the form "node-1=120,80".
func parsePins(values []string) ([]pin, error) {
	pins := make([]pin, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		id, coords, ok := strings.Cut(v, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid --pin %q: expected NODE=X,Y", v)
		}
		xs, ys, ok := strings.Cut(coords, ",")
		if !ok {
			return nil, fmt.Errorf("invalid --pin %q: expected NODE=X,Y", v)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --pin %q: bad x: %w", v, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --pin %q: bad y: %w", v, err)
		}
		if seen[id] {
			return nil, fmt.Errorf("node %q pinned more than once", id)
		}
		seen[id] = true
		pins = append(pins, pin{NodeID: id, X: x, Y: y})
	}
	return pins, nil
}
