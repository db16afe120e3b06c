package layout

import (
	"fmt"
	"math"
)

// Config tunes the force simulation. Zero values are not meaningful; start
// from DefaultConfig and override.
type Config struct {
	LinkDistance    float64 // rest length of every edge spring
	ChargeStrength  float64 // negative repels, positive attracts
	DistanceMin     float64 // repulsion clamp against coincident nodes
	AlphaInit       float64
	AlphaMin        float64 // convergence threshold
	AlphaDecay      float64
	DragAlphaTarget float64 // alpha is held near this while a node is pinned
	VelocityDecay   float64 // friction, velocity is multiplied by 1-VelocityDecay each tick
	MaxTicks        int
	Seed            int64 // seeds the jiggle applied to coincident nodes
}

// DefaultConfig returns settings that cool from 1 to AlphaMin in about 300 ticks.
func DefaultConfig() Config {
	return Config{
		LinkDistance:    100,
		ChargeStrength:  -300,
		DistanceMin:     1,
		AlphaInit:       1,
		AlphaMin:        0.001,
		AlphaDecay:      1 - math.Pow(0.001, 1.0/300),
		DragAlphaTarget: 0.3,
		VelocityDecay:   0.4,
		MaxTicks:        1000,
		Seed:            1,
	}
}

// Validate checks that every parameter is inside its usable range.
func (c Config) Validate() error {
	if c.LinkDistance <= 0 {
		return fmt.Errorf("link distance must be positive: %v", c.LinkDistance)
	}
	if c.DistanceMin <= 0 {
		return fmt.Errorf("minimum distance must be positive: %v", c.DistanceMin)
	}
	if c.AlphaInit <= 0 || c.AlphaInit > 1 {
		return fmt.Errorf("initial alpha must be in (0, 1]: %v", c.AlphaInit)
	}
	if c.AlphaMin <= 0 || c.AlphaMin >= c.AlphaInit {
		return fmt.Errorf("alpha min must be in (0, %v): %v", c.AlphaInit, c.AlphaMin)
	}
	if c.AlphaDecay <= 0 || c.AlphaDecay >= 1 {
		return fmt.Errorf("alpha decay must be in (0, 1): %v", c.AlphaDecay)
	}
	if c.DragAlphaTarget < 0 || c.DragAlphaTarget > 1 {
		return fmt.Errorf("drag alpha target must be in [0, 1]: %v", c.DragAlphaTarget)
	}
	if c.VelocityDecay < 0 || c.VelocityDecay > 1 {
		return fmt.Errorf("velocity decay must be in [0, 1]: %v", c.VelocityDecay)
	}
	if c.MaxTicks <= 0 {
		return fmt.Errorf("max ticks must be positive: %d", c.MaxTicks)
	}
	return nil
}
