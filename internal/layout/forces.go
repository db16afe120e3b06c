package layout

import "math"

type body struct {
	id     string
	x, y   float64
	vx, vy float64
	pinned bool
	fx, fy float64
}

type spring struct {
	id             string
	source, target *body
	strength       float64
	bias           float64
}

// newSprings weights each spring by the degree of its endpoints so that
// hub nodes are not yanked around by every neighbour.
func newSprings(edges []edgeRef, bodies map[string]*body) []spring {
	degree := make(map[string]int)
	for _, e := range edges {
		degree[e.source]++
		degree[e.target]++
	}

	springs := make([]spring, 0, len(edges))
	for _, e := range edges {
		s, t := degree[e.source], degree[e.target]
		springs = append(springs, spring{
			id:       e.id,
			source:   bodies[e.source],
			target:   bodies[e.target],
			strength: 1 / float64(min(s, t)),
			bias:     float64(s) / float64(s+t),
		})
	}
	return springs
}

// applyLinks pulls both endpoints toward a separation of distance.
func (e *Engine) applyLinks(alpha float64) {
	for _, sp := range e.springs {
		s, t := sp.source, sp.target
		dx := t.x + t.vx - s.x - s.vx
		dy := t.y + t.vy - s.y - s.vy
		if dx == 0 {
			dx = e.jiggle()
		}
		if dy == 0 {
			dy = e.jiggle()
		}
		l := math.Sqrt(dx*dx + dy*dy)
		k := (l - e.cfg.LinkDistance) / l * alpha * sp.strength
		dx *= k
		dy *= k
		t.vx -= dx * sp.bias
		t.vy -= dy * sp.bias
		s.vx += dx * (1 - sp.bias)
		s.vy += dy * (1 - sp.bias)
	}
}

// applyCharge is a pairwise n-body sum. Path graphs rarely exceed a few
// dozen nodes so no spatial index is used.
func (e *Engine) applyCharge(alpha float64) {
	distanceMin2 := e.cfg.DistanceMin * e.cfg.DistanceMin
	for _, a := range e.bodies {
		for _, b := range e.bodies {
			if a == b {
				continue
			}
			dx := b.x - a.x
			dy := b.y - a.y
			l := dx*dx + dy*dy
			if dx == 0 {
				dx = e.jiggle()
				l += dx * dx
			}
			if dy == 0 {
				dy = e.jiggle()
				l += dy * dy
			}
			if l < distanceMin2 {
				l = math.Sqrt(distanceMin2 * l)
			}
			w := e.cfg.ChargeStrength * alpha / l
			a.vx += dx * w
			a.vy += dy * w
		}
	}
}

// applyCenter translates every node so the centroid sits on the canvas
// center. Relative positions are untouched.
func (e *Engine) applyCenter() {
	if len(e.bodies) == 0 {
		return
	}
	var sx, sy float64
	for _, b := range e.bodies {
		sx += b.x
		sy += b.y
	}
	n := float64(len(e.bodies))
	sx = sx/n - e.center.X
	sy = sy/n - e.center.Y
	for _, b := range e.bodies {
		b.x -= sx
		b.y -= sy
	}
}

// integrate moves free nodes by their damped velocity and holds pinned
// nodes at their pin target.
func (e *Engine) integrate() {
	friction := 1 - e.cfg.VelocityDecay
	for _, b := range e.bodies {
		if b.pinned {
			b.x, b.y = b.fx, b.fy
			b.vx, b.vy = 0, 0
			continue
		}
		b.vx *= friction
		b.vy *= friction
		b.x += b.vx
		b.y += b.vy
	}
}

func (e *Engine) jiggle() float64 {
	return (e.rng.Float64() - 0.5) * 1e-6
}
