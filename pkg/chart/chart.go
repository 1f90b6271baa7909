package chart

import (
	"errors"
	"fmt"
	"time"

	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/raykavin/lwcharts/pkg/crosshair"
	"github.com/raykavin/lwcharts/pkg/logger"
	"github.com/raykavin/lwcharts/pkg/metric"
	"github.com/raykavin/lwcharts/pkg/render"
	"github.com/raykavin/lwcharts/pkg/scale"
	"github.com/raykavin/lwcharts/pkg/series"
	"github.com/samber/lo"
)

// DefaultPane names the implicit view of a chart in single-view mode.
const DefaultPane = "main"

const defaultInboxSize = 1024

// ErrPrimaryPane is returned when removing the primary pane.
var ErrPrimaryPane = errors.New("the primary pane cannot be removed")

// Chart lays out panes over one shared time scale and routes input,
// live updates and the crosshair to them. It is not safe for concurrent
// use: producers on other goroutines go through Inbox.
type Chart struct {
	log       logger.Logger
	backend   render.Backend
	metrics   *metric.Metrics
	options   core.ChartOptions
	priceOpts core.PriceScaleOptions
	crossOpts core.CrosshairOptions
	inboxSize int

	timeScale *scale.TimeScale
	panes     []*Pane
	multi     bool
	crosshair *crosshair.Engine
	inbox     *Inbox

	priceMarkers  []PriceMarker
	timeMarkers   []TimeMarker
	markerHandles []render.Handle

	// teardowns the backend refused, retried every frame
	teardowns []teardown
}

type teardown struct {
	component string
	pane      string
	run       func() error
}

// Option defines a function type for configuring a Chart instance
type Option func(*Chart)

// WithBackend sets the rendering backend. Defaults to an in-memory scene.
func WithBackend(backend render.Backend) Option {
	return func(c *Chart) {
		c.backend = backend
	}
}

// WithSize sets the canvas size in pixels
func WithSize(width, height int) Option {
	return func(c *Chart) {
		c.options.Width = width
		c.options.Height = height
	}
}

// WithChartOptions replaces the canvas-level options
func WithChartOptions(options core.ChartOptions) Option {
	return func(c *Chart) {
		c.options = options
	}
}

// WithPriceScaleOptions sets the price scale options of new panes
func WithPriceScaleOptions(options core.PriceScaleOptions) Option {
	return func(c *Chart) {
		c.priceOpts = options
	}
}

// WithCrosshairOptions sets the crosshair options
func WithCrosshairOptions(options core.CrosshairOptions) Option {
	return func(c *Chart) {
		c.crossOpts = options
	}
}

// WithMetrics enables Prometheus instrumentation
func WithMetrics(metrics *metric.Metrics) Option {
	return func(c *Chart) {
		c.metrics = metrics
	}
}

// WithInboxSize sets how many live updates may wait for the next tick
func WithInboxSize(size int) Option {
	return func(c *Chart) {
		c.inboxSize = size
	}
}

// New creates a chart in single-view mode.
func New(log logger.Logger, options ...Option) (*Chart, error) {
	if log == nil {
		log = logger.Nop()
	}

	c := &Chart{
		log:       log,
		options:   core.DefaultChartOptions(),
		priceOpts: core.DefaultPriceScaleOptions(),
		crossOpts: core.DefaultCrosshairOptions(),
		inboxSize: defaultInboxSize,
		timeScale: scale.NewTimeScale(nil),
	}

	for _, option := range options {
		option(c)
	}

	if c.options.Width <= 0 || c.options.Height <= 0 {
		return nil, fmt.Errorf("invalid chart size %dx%d", c.options.Width, c.options.Height)
	}
	if c.inboxSize <= 0 {
		return nil, fmt.Errorf("invalid inbox size %d", c.inboxSize)
	}
	if c.backend == nil {
		c.backend = render.NewScene()
	}

	c.inbox = newInbox(c.inboxSize, c.metrics)
	c.crosshair = crosshair.New(c.backend, c,
		crosshair.WithOptions(c.crossOpts),
		crosshair.WithLogger(c.log.WithField("component", "crosshair")),
	)
	c.crosshair.OnMove(func(crosshair.Position) { c.metrics.CrosshairMove() })

	implicit := c.newPane(DefaultPane, 1)
	implicit.primary = true
	c.panes = []*Pane{implicit}
	c.layout()

	return c, nil
}

// TimeScale returns the time scale shared by every pane. Panes and callers
// navigate it; only the chart replaces its data.
func (c *Chart) TimeScale() *scale.TimeScale {
	return c.timeScale
}

// Backend returns the rendering backend.
func (c *Chart) Backend() render.Backend {
	return c.backend
}

// Options returns the canvas-level options.
func (c *Chart) Options() core.ChartOptions {
	return c.options
}

// Size returns the canvas size in pixels.
func (c *Chart) Size() (width, height int) {
	return c.options.Width, c.options.Height
}

// MultiPane reports whether explicit panes replaced the implicit view.
func (c *Chart) MultiPane() bool {
	return c.multi
}

// SetData replaces the shared time axis and resets the visible range.
func (c *Chart) SetData(records []core.Record) error {
	for i, rec := range records {
		if !rec.Has(core.FieldTime) {
			return &core.DataError{Series: "chart", Index: i, Field: core.FieldTime, Err: core.ErrMissingField}
		}
	}

	c.timeScale.SetData(records)
	c.log.WithField("records", len(records)).Debug("time scale data set")
	c.reconcile(true)
	return nil
}

// SetVisibleRange moves the shared window; out of range values are clamped.
func (c *Chart) SetVisibleRange(start, end float64) {
	c.timeScale.SetVisibleRange(start, end)
	c.reconcile(false)
}

// Pan shifts the shared window by delta records.
func (c *Chart) Pan(delta float64) {
	c.timeScale.Pan(delta)
	c.reconcile(false)
}

// Zoom resizes the shared window by 1/factor around center, a fraction of
// the window width (scale.ZoomCenter for the middle).
func (c *Chart) Zoom(factor, center float64) {
	c.timeScale.Zoom(factor, center)
	c.reconcile(false)
}

// Render lays out the panes and redraws everything.
func (c *Chart) Render() {
	c.layout()
	c.reconcile(true)
}

// Resize changes the canvas size and redraws.
func (c *Chart) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid chart size %dx%d", width, height)
	}
	c.options.Width, c.options.Height = width, height
	c.Render()
	return nil
}

// Series finds a series by name in any pane.
func (c *Chart) Series(name string) (series.Series, error) {
	for _, p := range c.panes {
		if s, err := p.Series(name); err == nil {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", core.ErrSeriesNotFound, name)
}

// RemoveSeries removes a series by name from whichever pane holds it.
func (c *Chart) RemoveSeries(name string) error {
	for _, p := range c.panes {
		if _, err := p.Series(name); err == nil {
			return p.RemoveSeries(name)
		}
	}
	return fmt.Errorf("%w: %s", core.ErrSeriesNotFound, name)
}

// AddLineSeries adds a line series to the primary view.
func (c *Chart) AddLineSeries(name string, style core.LineStyle) (*series.Line, error) {
	return c.primary().AddLineSeries(name, style)
}

// AddAreaSeries adds an area series to the primary view.
func (c *Chart) AddAreaSeries(name string, style core.AreaStyle) (*series.Area, error) {
	return c.primary().AddAreaSeries(name, style)
}

// AddCandlestickSeries adds a candlestick series to the primary view.
func (c *Chart) AddCandlestickSeries(name string, style core.CandlestickStyle) (*series.Candlestick, error) {
	return c.primary().AddCandlestickSeries(name, style)
}

// AddHistogramSeries adds a histogram series to the primary view.
func (c *Chart) AddHistogramSeries(name string, style core.HistogramStyle) (*series.Histogram, error) {
	return c.primary().AddHistogramSeries(name, style)
}

// ConfigurePriceScale applies options to the primary view's price axis.
func (c *Chart) ConfigurePriceScale(options core.PriceScaleOptions) {
	c.primary().ConfigurePriceScale(options)
}

// ShowPriceScale shows or hides the price axis of every pane.
func (c *Chart) ShowPriceScale(visible bool) {
	for _, p := range c.panes {
		p.showAxis(visible)
	}
	c.reconcile(true)
}

// OnCrosshairMove subscribes to crosshair moves, once per pointer event.
func (c *Chart) OnCrosshairMove(fn crosshair.MoveListener) {
	c.crosshair.OnMove(fn)
}

// OnCrosshairLeave subscribes to the crosshair leaving the chart.
func (c *Chart) OnCrosshairLeave(fn crosshair.LeaveListener) {
	c.crosshair.OnLeave(fn)
}

// Crosshair returns the crosshair engine.
func (c *Chart) Crosshair() *crosshair.Engine {
	return c.crosshair
}

// SetCrosshairEnabled toggles the crosshair lines of every pane.
func (c *Chart) SetCrosshairEnabled(enabled bool) {
	c.logFailure("crosshair", "", c.crosshair.SetEnabled(enabled))
}

// SetCrosshairColors sets the crosshair colours of every pane.
func (c *Chart) SetCrosshairColors(vert, horiz core.Color) {
	c.logFailure("crosshair", "", c.crosshair.SetColors(vert, horiz))
}

// CrosshairData returns the tooltip fields of the record under the
// crosshair, empty when there is none.
func (c *Chart) CrosshairData() map[string]string {
	return c.crosshair.Tooltip()
}

// CrosshairTargets lists the pane views, primary first.
func (c *Chart) CrosshairTargets() []crosshair.Target {
	return lo.Map(c.panes, func(p *Pane, _ int) crosshair.Target {
		return crosshair.Target{Name: p.name, Camera: p.camera, Scale: p.scale}
	})
}

func (c *Chart) primary() *Pane {
	return c.panes[0]
}

// reconcile re-applies the shared visible range to every pane in the same
// frame, then recomputes price ranges and redraws.
func (c *Chart) reconcile(force bool) {
	start := time.Now()
	r := c.timeScale.VisibleRange()

	c.retryTeardowns()
	for _, p := range c.panes {
		p.syncTime(r)
		p.updatePriceRange(r)
		p.draw(r, force)
	}
	c.drawMarkers()
	c.logFailure("crosshair", "", c.crosshair.Tick())

	c.metrics.Frame(time.Since(start))
}

// release runs fn and, when the backend refuses, keeps it for the next
// frame so removed geometry is never left untracked.
func (c *Chart) release(component, pane string, fn func() error) {
	if err := fn(); err != nil {
		c.logFailure(component, pane, err)
		c.teardowns = append(c.teardowns, teardown{component: component, pane: pane, run: fn})
	}
}

func (c *Chart) retryTeardowns() {
	if len(c.teardowns) == 0 {
		return
	}
	pending := c.teardowns
	c.teardowns = nil
	for _, t := range pending {
		c.release(t.component, t.pane, t.run)
	}
}

// logFailure records a backend failure without interrupting the frame.
func (c *Chart) logFailure(component, pane string, err error) {
	if err == nil {
		return
	}
	c.metrics.BackendFailure(component)

	log := c.log.WithField("component", component).WithError(err)
	if pane != "" {
		log = log.WithField("pane", pane)
	}
	log.Error("draw skipped")
}
