// pkg/render/engo/camera.go
package engo

import (
	"math"

	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-physics2d/pkg/physics"
)

// Camera maps world coordinates to window pixels. At zoom 1 the fitted
// rectangle fills the viewport.
type Camera struct {
	viewport engo.Point
	baseScale float64

	// Target to follow
	target    physics.Vector2D
	targetSet bool

	zoom    float64
	minZoom float64
	maxZoom float64

	followSpeed float64
	smoothing   bool

	center physics.Vector2D
}

// NewCamera creates a camera for a width x height pixel viewport
func NewCamera(width, height float32) *Camera {
	return &Camera{
		viewport:    engo.Point{X: width, Y: height},
		baseScale:   1,
		zoom:        1.0,
		minZoom:     0.25,
		maxZoom:     8.0,
		followSpeed: 4.0,
		smoothing:   true,
	}
}

// Fit centres the camera on bounds and scales it to fill the viewport
func (c *Camera) Fit(bounds physics.Rect) {
	c.center = bounds.Center()
	c.baseScale = 1
	if bounds.Size.X > 0 && bounds.Size.Y > 0 {
		c.baseScale = math.Min(float64(c.viewport.X)/bounds.Size.X, float64(c.viewport.Y)/bounds.Size.Y)
	}
	c.zoom = 1
	c.targetSet = false
}

// SetTarget makes the camera follow target
func (c *Camera) SetTarget(target physics.Vector2D) {
	c.target = target
	c.targetSet = true
}

// ClearTarget stops following
func (c *Camera) ClearTarget() {
	c.targetSet = false
}

// Update moves the centre toward the target
func (c *Camera) Update(dt float64) {
	if !c.targetSet {
		return
	}
	if !c.smoothing {
		c.center = c.target
		return
	}
	t := math.Min(1, c.followSpeed*dt)
	c.center = c.center.Add(c.target.Sub(c.center).Scale(t))
}

// EnableSmoothing switches between easing and snapping to the target
func (c *Camera) EnableSmoothing(enabled bool) {
	c.smoothing = enabled
}

// SetZoom sets the zoom level, clamped to the camera's limits
func (c *Camera) SetZoom(zoom float64) {
	c.zoom = math.Max(c.minZoom, math.Min(c.maxZoom, zoom))
}

// Zoom returns the current zoom level
func (c *Camera) Zoom() float64 {
	return c.zoom
}

// Center returns the world point shown in the middle of the viewport
func (c *Camera) Center() physics.Vector2D {
	return c.center
}

// Scale returns pixels per world unit
func (c *Camera) Scale() float64 {
	return c.baseScale * c.zoom
}

// WorldToScreen converts a world position to window pixels
func (c *Camera) WorldToScreen(p physics.Vector2D) engo.Point {
	k := c.Scale()
	return engo.Point{
		X: float32((p.X-c.center.X)*k) + c.viewport.X/2,
		Y: float32((p.Y-c.center.Y)*k) + c.viewport.Y/2,
	}
}

// ScreenToWorld converts window pixels to a world position
func (c *Camera) ScreenToWorld(p engo.Point) physics.Vector2D {
	k := c.Scale()
	return physics.Vector2D{
		X: float64(p.X-c.viewport.X/2)/k + c.center.X,
		Y: float64(p.Y-c.viewport.Y/2)/k + c.center.Y,
	}
}
