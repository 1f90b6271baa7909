package chart

import (
	"math"

	"github.com/raykavin/lwcharts/pkg/render"
)

// wheelBase is the zoom factor of one wheel notch.
const wheelBase = 1.1

// Event is a windowing event delivered to HandleEvent.
type Event interface {
	event()
}

// PointerMove is a pointer move in screen pixels.
type PointerMove struct{ Pos render.Point }

// PointerLeave is the pointer leaving the canvas.
type PointerLeave struct{}

// PointerPress is a button press. Pressing outside every pane counts as
// leaving.
type PointerPress struct{ Pos render.Point }

// Drag is a pointer drag between two screen positions.
type Drag struct{ From, To render.Point }

// Wheel is a wheel scroll at Pos. Positive deltas zoom in.
type Wheel struct {
	Pos   render.Point
	Delta float64
}

// Resize is a canvas size change.
type Resize struct{ Width, Height int }

// Tick is the periodic timer tick.
type Tick struct{}

func (PointerMove) event()  {}
func (PointerLeave) event() {}
func (PointerPress) event() {}
func (Drag) event()         {}
func (Wheel) event()        {}
func (Resize) event()       {}
func (Tick) event()         {}

// HandleEvent routes a windowing event. Navigation never fails; the error
// is only reported for invalid resizes.
func (c *Chart) HandleEvent(ev Event) error {
	switch e := ev.(type) {
	case PointerMove:
		c.logFailure("crosshair", "", c.crosshair.Move(e.Pos))
	case PointerLeave:
		c.logFailure("crosshair", "", c.crosshair.Leave())
	case PointerPress:
		if _, ok := c.paneAt(e.Pos); !ok {
			c.logFailure("crosshair", "", c.crosshair.Leave())
		}
	case Drag:
		c.drag(e)
	case Wheel:
		c.wheel(e)
	case Resize:
		return c.Resize(e.Width, e.Height)
	case Tick:
		c.Tick()
	}
	return nil
}

// PaneAt returns the pane under a screen position.
func (c *Chart) PaneAt(pos render.Point) (*Pane, bool) {
	return c.paneAt(pos)
}

func (c *Chart) paneAt(pos render.Point) (*Pane, bool) {
	for _, p := range c.panes {
		if p.camera.Viewport().Contains(pos) {
			return p, true
		}
	}
	return nil, false
}

// drag pans the shared time axis by the horizontal displacement. Only the
// primary pane also follows the vertical displacement; other panes keep
// their vertical bounds.
func (c *Chart) drag(e Drag) {
	p, ok := c.paneAt(e.From)
	if !ok {
		return
	}

	delta := p.camera.PixelDelta(e.To.X-e.From.X, e.To.Y-e.From.Y)
	if p.primary && delta.Y != 0 {
		rect := p.camera.Rect()
		rect.Y += delta.Y
		p.camera.SetRect(rect)
	}

	c.timeScale.Pan(delta.X)
	c.reconcile(false)
}

// wheel zooms the shared time axis around the pointer. The primary pane
// also zooms vertically around the pointer.
func (c *Chart) wheel(e Wheel) {
	p, ok := c.paneAt(e.Pos)
	if !ok || e.Delta == 0 {
		return
	}

	factor := math.Pow(wheelBase, e.Delta)
	if p.primary {
		if anchor, ok := p.camera.Imap(e.Pos); ok {
			rect := p.camera.Rect()
			rect.Y = anchor.Y - (anchor.Y-rect.Y)/factor
			rect.H /= factor
			p.camera.SetRect(rect)
		}
	}

	c.timeScale.Zoom(factor, p.camera.Fraction(e.Pos))
	c.reconcile(false)
}

// ResetVerticalView restores the primary pane's vertical bounds to the full
// price range.
func (c *Chart) ResetVerticalView() {
	p := c.primary()
	rect := p.camera.Rect()
	rect.Y, rect.H = -1, 2
	p.camera.SetRect(rect)
	c.reconcile(false)
}
