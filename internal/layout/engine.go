// Package layout positions a path graph on a 2-D canvas with a force-directed
// simulation. The engine is driven externally: the caller invokes Tick once
// per frame and stops when the returned snapshot reports Converged.
package layout

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/taintgraph/internal/pathgraph"
)

// phyllotaxis seed spiral
var (
	initialRadius = 10.0
	initialAngle  = math.Pi * (3 - math.Sqrt(5))
)

type edgeRef struct {
	id, source, target string
}

// Engine owns the simulation state of one graph. All methods are safe to
// call from several goroutines; a Pin issued during a Tick is applied after it.
type Engine struct {
	mu     sync.Mutex
	cfg    Config
	logger hclog.Logger

	state       State
	alpha       float64
	alphaTarget float64
	ticks       int
	center      Point

	bodies  []*body
	byID    map[string]*body
	springs []spring
	rng     *rand.Rand
	last    Snapshot
}

// NewEngine creates an uninitialized engine.
func NewEngine(cfg Config, logger hclog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout config: %w", err)
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Engine{
		cfg:    cfg,
		logger: logger,
		state:  Uninitialized,
	}, nil
}

// Initialize binds a graph to the engine, discarding any previous one, and
// seeds node positions on a spiral around the canvas center.
func (e *Engine) Initialize(nodes []pathgraph.Node, edges []pathgraph.Edge, width, height float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("canvas must have a positive size, got %vx%v", width, height)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.center = Point{X: width / 2, Y: height / 2}
	e.bodies = make([]*body, 0, len(nodes))
	e.byID = make(map[string]*body, len(nodes))
	for _, n := range nodes {
		if _, dup := e.byID[n.ID]; dup {
			e.logger.Warn("duplicate node id ignored", "node", n.ID)
			continue
		}
		i := float64(len(e.bodies))
		r := initialRadius * math.Sqrt(0.5+i)
		a := i * initialAngle
		b := &body{
			id: n.ID,
			x:  e.center.X + r*math.Cos(a),
			y:  e.center.Y + r*math.Sin(a),
		}
		e.bodies = append(e.bodies, b)
		e.byID[n.ID] = b
	}

	refs := make([]edgeRef, 0, len(edges))
	for i, ed := range edges {
		_, okS := e.byID[ed.Source]
		_, okT := e.byID[ed.Target]
		if !okS || !okT || ed.Source == ed.Target {
			e.logger.Warn("edge ignored", "source", ed.Source, "target", ed.Target)
			continue
		}
		id := ed.ID
		if id == "" {
			id = pathgraph.EdgeID(i)
		}
		refs = append(refs, edgeRef{id: id, source: ed.Source, target: ed.Target})
	}
	e.springs = newSprings(refs, e.byID)

	e.rng = rand.New(rand.NewSource(e.cfg.Seed))
	e.alpha = e.cfg.AlphaInit
	e.alphaTarget = 0
	e.ticks = 0
	e.setState(Running)
	e.last = e.snapshot()

	e.logger.Debug("layout initialized", "nodes", len(e.bodies), "edges", len(e.springs), "width", width, "height", height)
	return nil
}

// Tick advances the simulation by one step. Once converged it returns the
// last snapshot without moving anything.
func (e *Engine) Tick() (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case Uninitialized:
		return Snapshot{}, &NotInitializedError{Op: "tick"}
	case Converged:
		return e.last, nil
	}

	e.alpha += (e.alphaTarget - e.alpha) * e.cfg.AlphaDecay

	e.applyLinks(e.alpha)
	e.applyCharge(e.alpha)
	e.applyCenter()
	e.integrate()
	e.ticks++

	if e.alpha < e.cfg.AlphaMin {
		e.setState(Converged)
	} else if e.ticks >= e.cfg.MaxTicks {
		e.logger.Debug("layout tick budget exhausted", "ticks", e.ticks, "alpha", e.alpha)
		e.setState(Converged)
	}

	e.last = e.snapshot()
	e.logger.Trace("layout tick", "tick", e.last.Tick, "alpha", e.alpha)
	return e.last, nil
}

// Pin fixes a node at (x, y) and re-activates the simulation so the other
// nodes relax around it. Calling Pin again while dragging moves the target.
func (e *Engine) Pin(id string, x, y float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == Uninitialized {
		return &NotInitializedError{Op: "pin"}
	}
	b, ok := e.byID[id]
	if !ok {
		return &UnknownNodeError{Op: "pin", NodeID: id}
	}

	b.pinned = true
	b.fx, b.fy = x, y
	e.alphaTarget = e.cfg.DragAlphaTarget
	if e.alpha < e.alphaTarget {
		e.alpha = e.alphaTarget
	}
	if e.state == Converged {
		e.ticks = 0
		e.setState(Running)
	}
	return nil
}

// Unpin releases a node and lets the simulation cool down. An engine that
// stopped on its tick budget while still hot is reactivated.
func (e *Engine) Unpin(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == Uninitialized {
		return &NotInitializedError{Op: "unpin"}
	}
	b, ok := e.byID[id]
	if !ok {
		return &UnknownNodeError{Op: "unpin", NodeID: id}
	}

	b.pinned = false
	b.fx, b.fy = 0, 0
	anyPinned := false
	for _, other := range e.bodies {
		if other.pinned {
			anyPinned = true
			break
		}
	}
	if !anyPinned {
		e.alphaTarget = 0
	}
	// a drag held past the tick budget leaves alpha high; let it cool down
	if e.state == Converged && e.alpha >= e.cfg.AlphaMin {
		e.ticks = 0
		e.setState(Running)
	}
	return nil
}

// Reheat restores alpha to its initial value and restarts the tick budget.
func (e *Engine) Reheat() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == Uninitialized {
		return &NotInitializedError{Op: "reheat"}
	}
	e.alpha = e.cfg.AlphaInit
	e.ticks = 0
	e.setState(Running)
	return nil
}

// Run ticks on the caller's goroutine until the layout converges, ctx is
// done or emit returns an error. emit may be nil.
func (e *Engine) Run(ctx context.Context, emit func(Snapshot) error) (Snapshot, error) {
	for {
		if err := ctx.Err(); err != nil {
			return e.Last(), err
		}
		snap, err := e.Tick()
		if err != nil {
			return snap, err
		}
		if emit != nil {
			if err := emit(snap); err != nil {
				return snap, err
			}
		}
		if snap.State == Converged {
			return snap, nil
		}
	}
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) Alpha() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.alpha
}

// Ticks is the number of ticks since the engine was last activated.
func (e *Engine) Ticks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ticks
}

// Last returns the most recent snapshot.
func (e *Engine) Last() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// Positions returns a copy of the current node coordinates.
func (e *Engine) Positions() map[string]Point {
	e.mu.Lock()
	defer e.mu.Unlock()

	positions := make(map[string]Point, len(e.bodies))
	for _, b := range e.bodies {
		positions[b.id] = Point{X: b.x, Y: b.y}
	}
	return positions
}

func (e *Engine) setState(s State) {
	if e.state == s {
		return
	}
	e.logger.Debug("layout state changed", "from", e.state, "to", s, "ticks", e.ticks, "alpha", e.alpha)
	e.state = s
}

func (e *Engine) snapshot() Snapshot {
	snap := Snapshot{
		Tick:  e.ticks,
		Alpha: e.alpha,
		State: e.state,
		Nodes: make([]NodePosition, 0, len(e.bodies)),
		Edges: make([]EdgePosition, 0, len(e.springs)),
	}
	for _, b := range e.bodies {
		snap.Nodes = append(snap.Nodes, NodePosition{ID: b.id, X: b.x, Y: b.y, Pinned: b.pinned})
	}
	for _, sp := range e.springs {
		snap.Edges = append(snap.Edges, EdgePosition{
			ID:     sp.id,
			Source: sp.source.id,
			Target: sp.target.id,
			X1:     sp.source.x,
			Y1:     sp.source.y,
			X2:     sp.target.x,
			Y2:     sp.target.y,
		})
	}
	return snap
}
