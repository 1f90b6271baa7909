package crosshair

import (
	"errors"
	"math"
	"time"

	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/raykavin/lwcharts/pkg/logger"
	"github.com/raykavin/lwcharts/pkg/render"
	"github.com/raykavin/lwcharts/pkg/scale"
)

// State is the crosshair state machine.
type State int

const (
	Hidden State = iota
	Tracking
)

func (s State) String() string {
	if s == Tracking {
		return "tracking"
	}
	return "hidden"
}

// Target is one view the crosshair is drawn in. The first target passed to
// the engine is the primary one.
type Target struct {
	Name   string
	Camera *render.Camera
	Scale  *scale.PriceScale
}

// Source supplies the current targets and the shared time scale. Targets
// are re-read on every update so panes added later are picked up.
type Source interface {
	CrosshairTargets() []Target
	TimeScale() *scale.TimeScale
}

// Position is the crosshair payload resolved against the primary target.
type Position struct {
	Screen render.Point
	X      float64
	Y      float64
	Price  float64
	Index  int
	// Record is nil when the pointer is not over a visible record.
	Record *core.Record
	Time   time.Time
	// Pane is the target under the pointer.
	Pane string
	// Prices holds the price under the pointer for every target.
	Prices map[string]float64
}

// HasRecord reports whether the position is over data.
func (p Position) HasRecord() bool {
	return p.Record != nil
}

type (
	MoveListener  func(Position)
	LeaveListener func()
)

// Engine tracks the pointer across every target, keeps the crosshair
// lines in place and notifies listeners once per pointer event.
type Engine struct {
	log     logger.Logger
	backend render.Backend
	source  Source
	options core.CrosshairOptions

	state    State
	screen   render.Point
	position Position
	visuals  map[string]*lines

	onMove  []MoveListener
	onLeave []LeaveListener
}

type Option func(*Engine)

func WithOptions(options core.CrosshairOptions) Option {
	return func(e *Engine) {
		e.options = options
	}
}

func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// New creates a hidden crosshair engine.
func New(backend render.Backend, source Source, options ...Option) *Engine {
	e := &Engine{
		log:     logger.Nop(),
		backend: backend,
		source:  source,
		options: core.DefaultCrosshairOptions(),
		visuals: make(map[string]*lines),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

func (e *Engine) State() State {
	return e.state
}

// Position returns the last resolved position while tracking.
func (e *Engine) Position() (Position, bool) {
	return e.position, e.state == Tracking
}

func (e *Engine) Options() core.CrosshairOptions {
	return e.options
}

// OnMove registers a listener called once per pointer move.
func (e *Engine) OnMove(fn MoveListener) {
	e.onMove = append(e.onMove, fn)
}

// OnLeave registers a listener called when tracking stops.
func (e *Engine) OnLeave(fn LeaveListener) {
	e.onLeave = append(e.onLeave, fn)
}

// Move handles a pointer move. A pointer outside every target is a leave.
func (e *Engine) Move(screen render.Point) error {
	pos, ok := e.resolve(screen)
	if !ok {
		return e.Leave()
	}

	e.state = Tracking
	e.screen = screen
	e.position = pos
	err := e.draw()

	for _, fn := range e.onMove {
		fn(pos)
	}
	return err
}

// Tick re-resolves the last pointer position so the crosshair follows
// programmatic view changes. It never notifies listeners.
func (e *Engine) Tick() error {
	if e.state != Tracking {
		return nil
	}
	if pos, ok := e.resolve(e.screen); ok {
		e.position = pos
	}
	return e.draw()
}

// Leave hides the crosshair and notifies leave listeners when it was
// tracking.
func (e *Engine) Leave() error {
	if e.state == Hidden {
		return nil
	}

	e.state = Hidden
	e.position = Position{}
	err := e.clear()

	for _, fn := range e.onLeave {
		fn()
	}
	return err
}

// SetEnabled toggles the crosshair lines. Position tracking and
// notifications keep running while disabled.
func (e *Engine) SetEnabled(enabled bool) error {
	e.options.Visible = enabled
	if !enabled {
		return e.clear()
	}
	return e.draw()
}

// SetColors changes the line colours of every target.
func (e *Engine) SetColors(vert, horiz core.Color) error {
	e.options.VertColor = vert
	e.options.HorizColor = horiz
	return e.draw()
}

// SetOptions replaces the options and redraws.
func (e *Engine) SetOptions(options core.CrosshairOptions) error {
	e.options = options
	if !options.Visible {
		return e.clear()
	}
	return e.draw()
}

// Forget drops the visuals of a target that no longer exists.
func (e *Engine) Forget(name string) error {
	l, ok := e.visuals[name]
	if !ok {
		return nil
	}
	remaining, err := render.Remove(e.backend, l.handles)
	if len(remaining) == 0 {
		delete(e.visuals, name)
	}
	l.handles = remaining
	return err
}

func (e *Engine) resolve(screen render.Point) (Position, bool) {
	targets := e.source.CrosshairTargets()
	if len(targets) == 0 {
		return Position{}, false
	}

	var (
		hovered Target
		at      render.Point
		found   bool
	)
	for _, t := range targets {
		if p, ok := t.Camera.Imap(screen); ok {
			hovered, at, found = t, p, true
			break
		}
	}
	if !found {
		return Position{}, false
	}

	// X is shared by every pane, so the hovered one decides it. Y and price
	// come from the primary target when it can map the point.
	pos := Position{
		Screen: screen,
		Pane:   hovered.Name,
		X:      at.X,
		Y:      at.Y,
		Price:  hovered.Scale.PriceAtY(at.Y),
		Index:  -1,
		Prices: make(map[string]float64, len(targets)),
	}
	for i, t := range targets {
		p, ok := t.Camera.Unmap(screen)
		if !ok {
			continue
		}
		pos.Prices[t.Name] = t.Scale.PriceAtY(p.Y)
		if i == 0 {
			pos.Y = p.Y
			pos.Price = pos.Prices[t.Name]
		}
	}

	ts := e.source.TimeScale()
	pos.Index = int(math.Round(pos.X))
	if rec, ok := ts.At(pos.Index); ok && ts.VisibleRange().Contains(float64(pos.Index)) {
		pos.Record = &rec
		pos.Time = rec.Time
	}
	return pos, true
}

func (e *Engine) draw() error {
	if e.state != Tracking || !e.options.Visible {
		return nil
	}

	var errs []error
	for _, t := range e.source.CrosshairTargets() {
		p, ok := t.Camera.Unmap(e.screen)
		if !ok {
			continue
		}

		l := e.visuals[t.Name]
		if l == nil {
			l = &lines{}
			e.visuals[t.Name] = l
		}

		handles, err := render.Replace(e.backend, l.handles, geometry(t, p, e.options))
		l.handles = handles
		if err != nil {
			errs = append(errs, err)
			e.log.WithField("pane", t.Name).WithError(err).Error("crosshair draw failed")
		}
	}
	return errors.Join(errs...)
}

func (e *Engine) clear() error {
	var errs []error
	for _, l := range e.visuals {
		remaining, err := render.Remove(e.backend, l.handles)
		if err != nil {
			errs = append(errs, err)
		}
		l.handles = remaining
	}
	return errors.Join(errs...)
}
