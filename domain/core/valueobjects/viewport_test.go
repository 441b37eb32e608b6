package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"canvas-backend/domain/config"
)

func TestViewport_ZoomAt_KeepsPointFixed(t *testing.T) {
	v := NewViewport().PanBy(40, -25)

	// The canvas coordinate under the mouse must be identical before and
	// after the zoom.
	mouseX, mouseY := 300.0, 180.0
	before := v.ToCanvas(mouseX, mouseY)

	zoomed := v.ZoomAt(mouseX, mouseY, 1.5)
	after := zoomed.ToCanvas(mouseX, mouseY)

	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
	assert.InDelta(t, 1.5, zoomed.Scale, 1e-9)
}

func TestViewport_ZoomAt_ClampsScale(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	v := NewViewport()

	zoomedOut := v.ZoomAt(0, 0, 0.0001)
	assert.InDelta(t, cfg.MinScale, zoomedOut.Scale, 1e-9)

	zoomedIn := v.ZoomAt(0, 0, 1000)
	assert.InDelta(t, cfg.MaxScale, zoomedIn.Scale, 1e-9)
}

func TestViewport_ZoomAt_ClampedZoomStillKeepsPointFixed(t *testing.T) {
	v := NewViewport().PanBy(-120, 60)
	mouseX, mouseY := 512.0, 384.0
	before := v.ToCanvas(mouseX, mouseY)

	zoomed := v.ZoomAt(mouseX, mouseY, 1000)
	after := zoomed.ToCanvas(mouseX, mouseY)

	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
}

func TestViewport_PanBy_Accumulates(t *testing.T) {
	v := NewViewport().PanBy(10, 20).PanBy(-4, 6)

	assert.InDelta(t, 6.0, v.X, 1e-9)
	assert.InDelta(t, 26.0, v.Y, 1e-9)
	assert.InDelta(t, 1.0, v.Scale, 1e-9)
}

func TestViewport_ToCanvas_ToClient_RoundTrip(t *testing.T) {
	v := Viewport{X: 33, Y: -71, Scale: 2.5}

	p := v.ToCanvas(400, 300)
	clientX, clientY := v.ToClient(p)

	assert.InDelta(t, 400.0, clientX, 1e-9)
	assert.InDelta(t, 300.0, clientY, 1e-9)
}

func TestPinchGesture_TargetScale(t *testing.T) {
	var g PinchGesture
	g.Begin(100, 1.2)

	assert.True(t, g.Active())
	assert.InDelta(t, 2.4, g.TargetScale(200), 1e-9)
	assert.InDelta(t, 0.6, g.TargetScale(50), 1e-9)

	g.End()
	assert.False(t, g.Active())
}

func TestPinchGesture_IgnoresZeroDistance(t *testing.T) {
	var g PinchGesture
	g.Begin(0, 1.0)

	assert.False(t, g.Active())
}
