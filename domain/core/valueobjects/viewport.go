package valueobjects

import (
	"canvas-backend/domain/config"
)

// Viewport is the affine view transform of a canvas client: a pan offset in
// screen pixels plus a uniform zoom factor. It is a value object; every
// operation returns a new Viewport.
type Viewport struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

// NewViewport creates the identity viewport (no pan, scale 1)
func NewViewport() Viewport {
	return Viewport{X: 0, Y: 0, Scale: 1.0}
}

// PanBy translates the viewport by (dx, dy) screen pixels
func (v Viewport) PanBy(dx, dy float64) Viewport {
	return Viewport{X: v.X + dx, Y: v.Y + dy, Scale: v.Scale}
}

// ZoomAt rescales around a fixed screen point using the default configuration
func (v Viewport) ZoomAt(clientX, clientY, factor float64) Viewport {
	return v.ZoomAtWithConfig(clientX, clientY, factor, config.DefaultDomainConfig())
}

// ZoomAtWithConfig rescales the viewport around a fixed screen point. The
// canvas coordinate under (clientX, clientY) is the same before and after:
//
//	newOffset = mouse - (mouse - oldOffset) * (newScale / oldScale)
func (v Viewport) ZoomAtWithConfig(clientX, clientY, factor float64, cfg *config.DomainConfig) Viewport {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	newScale := clampScale(v.Scale*factor, cfg)
	ratio := newScale / v.Scale

	return Viewport{
		X:     clientX - (clientX-v.X)*ratio,
		Y:     clientY - (clientY-v.Y)*ratio,
		Scale: newScale,
	}
}

// ToCanvas converts client (screen) coordinates into canvas space
func (v Viewport) ToCanvas(clientX, clientY float64) Position {
	return Position{
		X: (clientX - v.X) / v.Scale,
		Y: (clientY - v.Y) / v.Scale,
	}
}

// ToClient converts a canvas-space position into client coordinates
func (v Viewport) ToClient(p Position) (float64, float64) {
	return p.X*v.Scale + v.X, p.Y*v.Scale + v.Y
}

func clampScale(scale float64, cfg *config.DomainConfig) float64 {
	if scale < cfg.MinScale {
		return cfg.MinScale
	}
	if scale > cfg.MaxScale {
		return cfg.MaxScale
	}
	return scale
}

// PinchGesture tracks a two-finger zoom in progress. The baseline is the
// inter-finger distance and viewport scale captured when the second finger
// touched down; the gesture produces absolute target scales from the ratio of
// the current distance to the baseline.
type PinchGesture struct {
	startDistance float64
	startScale    float64
	active        bool
}

// Begin records the gesture baseline. Zero or negative distances are ignored.
func (g *PinchGesture) Begin(distance, currentScale float64) {
	if distance <= 0 {
		return
	}
	g.startDistance = distance
	g.startScale = currentScale
	g.active = true
}

// Active reports whether a pinch is in progress
func (g *PinchGesture) Active() bool {
	return g.active
}

// TargetScale computes the absolute scale for the current inter-finger
// distance. Returns the baseline scale if the gesture is not active.
func (g *PinchGesture) TargetScale(distance float64) float64 {
	if !g.active || distance <= 0 {
		return g.startScale
	}
	return g.startScale * (distance / g.startDistance)
}

// End clears the gesture baseline (fingers lifted)
func (g *PinchGesture) End() {
	g.startDistance = 0
	g.startScale = 0
	g.active = false
}
