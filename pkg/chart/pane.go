package chart

import (
	"fmt"
	"math"

	"github.com/StudioSol/set"
	"github.com/raykavin/lwcharts/pkg/axis"
	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/raykavin/lwcharts/pkg/logger"
	"github.com/raykavin/lwcharts/pkg/render"
	"github.com/raykavin/lwcharts/pkg/scale"
	"github.com/raykavin/lwcharts/pkg/series"
	"github.com/samber/lo"
)

// minCameraWidth keeps the camera invertible when the window holds a
// single record.
const minCameraWidth = 1

// Pane is an independently price-scaled strip of the chart. It owns its
// price scale, camera, price axis and series; the time scale is shared.
type Pane struct {
	name    string
	ratio   float64
	primary bool
	chart   *Chart
	log     logger.Logger

	scale   *scale.PriceScale
	options core.PriceScaleOptions
	camera  *render.Camera
	axis    *axis.Renderer

	// order keeps the insertion order, which is also the draw order
	order  *set.LinkedHashSetString
	series map[string]series.Series
}

func (c *Chart) newPane(name string, ratio float64) *Pane {
	r := c.timeScale.VisibleRange()
	p := &Pane{
		name:    name,
		ratio:   ratio,
		chart:   c,
		log:     c.log.WithField("pane", name),
		scale:   scale.NewPriceScale(),
		options: c.priceOpts,
		camera:  render.NewCamera(render.Rect{X: r.Start, Y: -1, W: cameraWidth(r), H: 2}, render.Rect{}),
		order:   set.NewLinkedHashSetString(),
		series:  make(map[string]series.Series),
	}
	p.axis = axis.New(c.backend, name, p.scale, p.camera,
		axis.WithOptions(p.options),
		axis.WithLogger(p.log),
	)
	return p
}

func cameraWidth(r scale.Range) float64 {
	return math.Max(r.Width(), minCameraWidth)
}

func (p *Pane) Name() string                  { return p.name }
func (p *Pane) HeightRatio() float64          { return p.ratio }
func (p *Pane) IsPrimary() bool               { return p.primary }
func (p *Pane) PriceScale() *scale.PriceScale { return p.scale }
func (p *Pane) Camera() *render.Camera        { return p.camera }
func (p *Pane) Axis() *axis.Renderer          { return p.axis }

// PriceScaleOptions returns the options of the pane's price axis.
func (p *Pane) PriceScaleOptions() core.PriceScaleOptions {
	return p.options
}

// Bounds returns the screen region of the pane.
func (p *Pane) Bounds() render.Rect {
	return p.camera.Viewport()
}

// AddSeries attaches a series created elsewhere, for instance through
// series.New.
func (p *Pane) AddSeries(s series.Series) error {
	if _, ok := p.series[s.Name()]; ok {
		return fmt.Errorf("pane %s: series %s: %w", p.name, s.Name(), core.ErrDuplicateName)
	}
	p.order.Add(s.Name())
	p.series[s.Name()] = s
	p.log.WithField("series", s.Name()).Debugf("added %s series", s.Kind())
	return nil
}

func (p *Pane) seriesName(name string, kind series.Kind) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("%s_%d", kind, len(p.series))
}

// AddLineSeries adds a line series. An empty name is generated.
func (p *Pane) AddLineSeries(name string, style core.LineStyle) (*series.Line, error) {
	s := series.NewLine(p.seriesName(name, series.KindLine), style)
	return s, p.AddSeries(s)
}

// AddAreaSeries adds an area series. An empty name is generated.
func (p *Pane) AddAreaSeries(name string, style core.AreaStyle) (*series.Area, error) {
	s := series.NewArea(p.seriesName(name, series.KindArea), style)
	return s, p.AddSeries(s)
}

// AddCandlestickSeries adds a candlestick series. An empty name is generated.
func (p *Pane) AddCandlestickSeries(name string, style core.CandlestickStyle) (*series.Candlestick, error) {
	s := series.NewCandlestick(p.seriesName(name, series.KindCandlestick), style)
	return s, p.AddSeries(s)
}

// AddHistogramSeries adds a histogram series. An empty name is generated.
func (p *Pane) AddHistogramSeries(name string, style core.HistogramStyle) (*series.Histogram, error) {
	s := series.NewHistogram(p.seriesName(name, series.KindHistogram), style)
	return s, p.AddSeries(s)
}

// Series returns the named series.
func (p *Pane) Series(name string) (series.Series, error) {
	s, ok := p.series[name]
	if !ok {
		return nil, fmt.Errorf("pane %s: %w: %s", p.name, core.ErrSeriesNotFound, name)
	}
	return s, nil
}

// SeriesList returns the series in draw order.
func (p *Pane) SeriesList() []series.Series {
	out := make([]series.Series, 0, len(p.series))
	for name := range p.order.Iter() {
		out = append(out, p.series[name])
	}
	return out
}

// RemoveSeries detaches the series geometry and forgets it.
func (p *Pane) RemoveSeries(name string) error {
	s, err := p.Series(name)
	if err != nil {
		return err
	}

	backend := p.chart.backend
	p.chart.release("series", p.name, func() error { return s.Detach(backend) })
	p.order.Remove(name)
	delete(p.series, name)
	p.log.WithField("series", name).Debug("series removed")
	return nil
}

// ClearSeries removes every series of the pane.
func (p *Pane) ClearSeries() {
	for _, s := range p.SeriesList() {
		_ = p.RemoveSeries(s.Name())
	}
}

// SetSeriesVisible shows or hides a series. Hidden series no longer take
// part in the price range.
func (p *Pane) SetSeriesVisible(name string, visible bool) error {
	s, err := p.Series(name)
	if err != nil {
		return err
	}
	s.SetVisible(visible)
	return nil
}

// ConfigurePriceScale applies new price axis options.
func (p *Pane) ConfigurePriceScale(options core.PriceScaleOptions) {
	p.options = options
	p.axis.SetOptions(options)
	if !options.Visible {
		p.chart.logFailure("axis", p.name, p.axis.Hide())
	}
}

func (p *Pane) showAxis(visible bool) {
	p.options.Visible = visible
	if visible {
		p.axis.Show()
		return
	}
	p.chart.logFailure("axis", p.name, p.axis.Hide())
}

// syncTime moves the camera horizontally onto the shared window, keeping
// its vertical bounds.
func (p *Pane) syncTime(r scale.Range) {
	rect := p.camera.Rect()
	p.camera.SetRect(render.Rect{X: r.Start, Y: rect.Y, W: cameraWidth(r), H: rect.H})
}

// updatePriceRange unions the visible series over r into the price scale.
func (p *Pane) updatePriceRange(r scale.Range) {
	if !p.options.AutoScale {
		return
	}

	type bounds struct{ low, high float64 }
	all := lo.FilterMap(p.SeriesList(), func(s series.Series, _ int) (bounds, bool) {
		if !s.Visible() {
			return bounds{}, false
		}
		low, high, ok := s.PriceRange(r)
		return bounds{low, high}, ok
	})

	if len(all) == 0 {
		p.scale.UpdateRange(0, 100, false)
		return
	}

	low := lo.MinBy(all, func(a, b bounds) bool { return a.low < b.low }).low
	high := lo.MaxBy(all, func(a, b bounds) bool { return a.high > b.high }).high
	p.scale.UpdateRange(low, high, true)
}

func (p *Pane) draw(r scale.Range, force bool) {
	for _, s := range p.SeriesList() {
		if err := s.Render(p.chart.backend, p.name, p.scale, r); err != nil {
			p.chart.metrics.BackendFailure("series")
			p.log.WithField("series", s.Name()).WithError(err).Error("series draw skipped")
		}
	}
	p.chart.logFailure("axis", p.name, p.axis.Update(force))
}

// detach removes everything the pane drew.
func (p *Pane) detach() {
	backend := p.chart.backend
	for _, s := range p.SeriesList() {
		p.chart.release("series", p.name, func() error { return s.Detach(backend) })
	}
	p.chart.release("axis", p.name, p.axis.Cleanup)
	name := p.name
	p.chart.release("crosshair", p.name, func() error { return p.chart.crosshair.Forget(name) })
}
