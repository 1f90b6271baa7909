package axis

import (
	"errors"
	"fmt"
	"math"

	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/raykavin/lwcharts/pkg/logger"
	"github.com/raykavin/lwcharts/pkg/render"
	"github.com/raykavin/lwcharts/pkg/scale"
)

const (
	PositionRight = "right"
	PositionLeft  = "left"

	// offsets from the camera edge, in record slots
	labelOffset = 0.5
	tickLength  = 0.3

	defaultLabelCount = 8
	fontSize          = 10
	tickAlpha         = 0.5
	// labels closer than this to the pane edge are clipped in EntireTextOnly mode
	edgeMargin = 0.97
)

type label struct {
	scale.Label
	y    float64
	text render.Handle
	tick render.Handle
	// hasTick is false when ticks are hidden
	hasTick bool
}

// Renderer draws the price axis of one pane: a border at the camera edge,
// one text label per price level and optional tick marks. Labels are
// regenerated only when the price range changes; camera movement just moves
// them to the new edge.
type Renderer struct {
	log     logger.Logger
	backend render.Backend
	view    string
	scale   *scale.PriceScale
	camera  *render.Camera
	options core.PriceScaleOptions
	width   int

	cached    bool
	lastMin   float64
	lastMax   float64
	lastEdge  float64
	labels    []label
	border    render.Handle
	hasBorder bool
	// primitives the backend failed to remove, retried on every update
	orphans []render.Handle

	regenerations int
	reprojections int
}

type Option func(*Renderer)

// WithOptions replaces the default price scale options.
func WithOptions(options core.PriceScaleOptions) Option {
	return func(r *Renderer) {
		r.options = options
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(r *Renderer) {
		r.log = log
	}
}

// New creates an axis renderer for the pane drawn in view.
func New(backend render.Backend, view string, ps *scale.PriceScale, camera *render.Camera, options ...Option) *Renderer {
	r := &Renderer{
		log:     logger.Nop(),
		backend: backend,
		view:    view,
		scale:   ps,
		camera:  camera,
		options: core.DefaultPriceScaleOptions(),
	}
	for _, option := range options {
		option(r)
	}
	r.width = max(r.options.MinimumWidth, 60)
	return r
}

// Options returns the active options.
func (r *Renderer) Options() core.PriceScaleOptions {
	return r.options
}

// SetOptions applies new options and forces the next update to regenerate.
func (r *Renderer) SetOptions(options core.PriceScaleOptions) {
	r.options = options
	r.width = max(r.width, options.MinimumWidth)
	r.cached = false
}

// Labels returns the labels currently drawn.
func (r *Renderer) Labels() []scale.Label {
	out := make([]scale.Label, len(r.labels))
	for i, l := range r.labels {
		out[i] = l.Label
	}
	return out
}

// Stats returns how many times labels were regenerated and re-projected.
func (r *Renderer) Stats() (regenerations, reprojections int) {
	return r.regenerations, r.reprojections
}

// Width returns the axis width in pixels.
func (r *Renderer) Width() int {
	return r.width
}

// SetWidth sets the axis width, never below the configured minimum.
func (r *Renderer) SetWidth(width int) {
	r.width = max(width, r.options.MinimumWidth)
}

// Visible reports whether the axis is shown.
func (r *Renderer) Visible() bool {
	return r.options.Visible
}

// Show makes the axis visible again; the next Update redraws it.
func (r *Renderer) Show() {
	r.options.Visible = true
	r.cached = false
}

// Hide removes every axis primitive until Show is called.
func (r *Renderer) Hide() error {
	r.options.Visible = false
	return r.Cleanup()
}

// Update keeps the axis in sync with the price scale and the camera.
func (r *Renderer) Update(force bool) error {
	var errs []error
	if len(r.orphans) > 0 {
		if err := r.release(nil); err != nil {
			errs = append(errs, err)
		}
	}
	if !r.options.Visible {
		return errors.Join(errs...)
	}

	if err := r.updateBorder(); err != nil {
		errs = append(errs, err)
	}

	minVal, maxVal := r.scale.Min(), r.scale.Max()
	switch {
	case force || !r.cached || minVal != r.lastMin || maxVal != r.lastMax:
		r.cached = true
		r.lastMin, r.lastMax = minVal, maxVal
		if err := r.regenerate(); err != nil {
			errs = append(errs, err)
		}
	case r.edge() != r.lastEdge:
		if err := r.reproject(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Cleanup removes every primitive owned by the axis.
func (r *Renderer) Cleanup() error {
	var handles []render.Handle
	if r.hasBorder {
		handles = append(handles, r.border)
		r.hasBorder = false
	}
	for _, l := range r.labels {
		handles = append(handles, l.text)
		if l.hasTick {
			handles = append(handles, l.tick)
		}
	}
	r.labels = nil
	r.cached = false

	if err := r.release(handles); err != nil {
		return fmt.Errorf("price axis %s: cleanup: %w", r.view, err)
	}
	return nil
}

// release removes handles along with the pending orphans. Whatever the
// backend refuses becomes the new orphan set.
func (r *Renderer) release(handles []render.Handle) error {
	remaining, err := render.Remove(r.backend, append(r.orphans, handles...))
	r.orphans = remaining
	return err
}

func (r *Renderer) edge() float64 {
	rect := r.camera.Rect()
	if r.options.Position == PositionLeft {
		return rect.X
	}
	return rect.Right()
}

// direction is +1 when labels grow away from the chart to the right.
func (r *Renderer) direction() float64 {
	if r.options.Position == PositionLeft {
		return -1
	}
	return 1
}

func (r *Renderer) anchor() string {
	if r.options.Position == PositionLeft {
		return PositionRight
	}
	return PositionLeft
}

func (r *Renderer) updateBorder() error {
	if !r.options.BorderVisible {
		return nil
	}

	rect := r.camera.Rect()
	x := r.edge()
	p := render.Primitive{
		Kind:     render.KindPolyline,
		View:     r.view,
		Tag:      "axis:border",
		Vertices: []render.Point{{X: x, Y: rect.Y}, {X: x, Y: rect.Top()}},
		Color:    r.options.BorderColor,
		Alpha:    1,
		Width:    1,
	}

	var err error
	if r.hasBorder {
		r.border, err = render.Move(r.backend, r.border, p)
		if errors.Is(err, render.ErrPrimitiveLost) {
			r.hasBorder = false
		}
	} else {
		r.border, err = r.backend.AddPrimitive(p)
		r.hasBorder = err == nil
	}
	if err != nil {
		return fmt.Errorf("price axis %s: border: %w", r.view, err)
	}
	return nil
}

func (r *Renderer) textPrimitive(l scale.Label, y, edge float64) render.Primitive {
	return render.Primitive{
		Kind:     render.KindText,
		View:     r.view,
		Tag:      "axis:label",
		Vertices: []render.Point{{X: edge + labelOffset*r.direction(), Y: y}},
		Color:    r.options.TextColor,
		Alpha:    1,
		Text:     l.Text,
		FontSize: fontSize,
		Anchor:   r.anchor(),
	}
}

func (r *Renderer) tickPrimitive(y, edge float64) render.Primitive {
	return render.Primitive{
		Kind:     render.KindSegments,
		View:     r.view,
		Tag:      "axis:tick",
		Vertices: []render.Point{{X: edge, Y: y}, {X: edge + tickLength*r.direction(), Y: y}},
		Color:    r.options.BorderColor,
		Alpha:    tickAlpha,
		Width:    1,
	}
}

func (r *Renderer) generate() []scale.Label {
	n := r.options.LabelCount
	if n <= 0 {
		n = defaultLabelCount
	}
	return scale.Labels(r.options.Mode, r.lastMin, r.lastMax, n)
}

func (r *Renderer) regenerate() error {
	var (
		errs    []error
		handles []render.Handle
	)
	for _, l := range r.labels {
		handles = append(handles, l.text)
		if l.hasTick {
			handles = append(handles, l.tick)
		}
	}
	if err := r.release(handles); err != nil {
		errs = append(errs, err)
	}
	r.labels = r.labels[:0]

	edge := r.edge()
	r.lastEdge = edge
	for _, l := range r.generate() {
		y := r.scale.YAtPrice(l.Value)
		if math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		if r.options.EntireTextOnly && math.Abs(y) > edgeMargin {
			continue
		}

		entry := label{Label: l, y: y}
		h, err := r.backend.AddPrimitive(r.textPrimitive(l, y, edge))
		if err != nil {
			errs = append(errs, fmt.Errorf("label %q: %w", l.Text, err))
			continue
		}
		entry.text = h

		if r.options.TicksVisible {
			if h, err := r.backend.AddPrimitive(r.tickPrimitive(y, edge)); err != nil {
				errs = append(errs, fmt.Errorf("tick %q: %w", l.Text, err))
			} else {
				entry.tick, entry.hasTick = h, true
			}
		}
		r.labels = append(r.labels, entry)
	}

	r.regenerations++
	r.log.WithField("view", r.view).Debugf("price axis regenerated with %d labels", len(r.labels))

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("price axis %s: regenerate: %w", r.view, err)
	}
	return nil
}

func (r *Renderer) reproject() error {
	edge := r.edge()
	r.lastEdge = edge

	var errs []error
	kept := r.labels[:0]
	for _, l := range r.labels {
		h, err := render.Move(r.backend, l.text, r.textPrimitive(l.Label, l.y, edge))
		if err != nil {
			errs = append(errs, err)
		}
		if errors.Is(err, render.ErrPrimitiveLost) {
			// the label is gone: drop it and regenerate on the next update
			if l.hasTick {
				r.orphans = append(r.orphans, l.tick)
			}
			r.cached = false
			continue
		}
		l.text = h

		if l.hasTick {
			h, err := render.Move(r.backend, l.tick, r.tickPrimitive(l.y, edge))
			if err != nil {
				errs = append(errs, err)
			}
			if errors.Is(err, render.ErrPrimitiveLost) {
				l.hasTick = false
				r.cached = false
			} else {
				l.tick = h
			}
		}
		kept = append(kept, l)
	}
	r.labels = kept
	r.reprojections++

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("price axis %s: reproject: %w", r.view, err)
	}
	return nil
}
