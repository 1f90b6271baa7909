package render

import "math"

// Rect is an axis-aligned rectangle. For data-space rectangles Y grows
// upwards; for screen viewports Y is the top edge in pixels.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Right returns X + W.
func (r Rect) Right() float64 { return r.X + r.W }

// Top returns Y + H.
func (r Rect) Top() float64 { return r.Y + r.H }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Camera is a pan/zoom camera: it shows the data-space Rect inside a screen
// Viewport and translates between both.
type Camera struct {
	rect     Rect
	viewport Rect
}

// NewCamera returns a camera showing rect inside viewport.
func NewCamera(rect, viewport Rect) *Camera {
	return &Camera{rect: rect, viewport: viewport}
}

// Rect returns the visible data-space rectangle.
func (c *Camera) Rect() Rect { return c.rect }

// SetRect replaces the visible data-space rectangle. Zero or negative sizes
// are ignored.
func (c *Camera) SetRect(r Rect) {
	if r.W < 0 || r.H <= 0 || math.IsNaN(r.W) || math.IsNaN(r.H) {
		return
	}
	c.rect = r
}

// Viewport returns the screen region in pixels.
func (c *Camera) Viewport() Rect { return c.viewport }

// SetViewport moves the camera on screen.
func (c *Camera) SetViewport(v Rect) { c.viewport = v }

// Map converts a data-space point to screen pixels.
func (c *Camera) Map(p Point) Point {
	v := c.viewport
	x := v.X
	if c.rect.W > 0 {
		x += (p.X - c.rect.X) / c.rect.W * v.W
	}
	y := v.Y + v.H
	if c.rect.H > 0 {
		y -= (p.Y - c.rect.Y) / c.rect.H * v.H
	}
	return Point{X: x, Y: y}
}

// Imap converts screen pixels to data space. It reports false when the
// pixel falls outside the viewport or the viewport is empty.
func (c *Camera) Imap(s Point) (Point, bool) {
	if !c.viewport.Contains(s) {
		return Point{}, false
	}
	return c.Unmap(s)
}

// Unmap is Imap without the viewport bounds check: pixels outside the
// viewport are extrapolated along the same affine transform.
func (c *Camera) Unmap(s Point) (Point, bool) {
	v := c.viewport
	if v.W <= 0 || v.H <= 0 {
		return Point{}, false
	}
	return Point{
		X: c.rect.X + (s.X-v.X)/v.W*c.rect.W,
		Y: c.rect.Y + (v.Y+v.H-s.Y)/v.H*c.rect.H,
	}, true
}

// PixelDelta converts a pointer displacement into the data-space
// translation of the visible rectangle that keeps content under the pointer.
func (c *Camera) PixelDelta(dx, dy float64) Point {
	v := c.viewport
	if v.W <= 0 || v.H <= 0 {
		return Point{}
	}
	return Point{
		X: -dx / v.W * c.rect.W,
		Y: dy / v.H * c.rect.H,
	}
}

// Fraction returns the horizontal position of a screen pixel as a fraction
// of the viewport width, clamped to [0, 1].
func (c *Camera) Fraction(s Point) float64 {
	v := c.viewport
	if v.W <= 0 {
		return 0.5
	}
	f := (s.X - v.X) / v.W
	return math.Max(0, math.Min(1, f))
}
