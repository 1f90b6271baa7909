package chart

import (
	"sort"
	"time"

	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/raykavin/lwcharts/pkg/render"
)

const markerFontSize = 10

// PriceMarker is a horizontal line at a price on the primary pane.
type PriceMarker struct {
	Price     float64
	Color     core.Color
	TextColor core.Color
	Label     string
}

// NewPriceMarker returns a marker labelled with the formatted price.
func NewPriceMarker(price float64) PriceMarker {
	return PriceMarker{Price: price, Color: "#2196F3", TextColor: "#FFFFFF", Label: core.FormatPrice(price)}
}

// TimeMarker is a vertical line at the first record at or after Time,
// drawn across every pane.
type TimeMarker struct {
	Time      time.Time
	Color     core.Color
	TextColor core.Color
	Label     string
}

// NewTimeMarker returns a marker labelled with the date.
func NewTimeMarker(t time.Time) TimeMarker {
	return TimeMarker{Time: t, Color: "#2196F3", TextColor: "#FFFFFF", Label: t.Format("2006-01-02")}
}

// AddPriceMarker adds a price marker and redraws the markers.
func (c *Chart) AddPriceMarker(m PriceMarker) {
	c.priceMarkers = append(c.priceMarkers, m)
	c.drawMarkers()
}

// AddTimeMarker adds a time marker and redraws the markers.
func (c *Chart) AddTimeMarker(m TimeMarker) {
	c.timeMarkers = append(c.timeMarkers, m)
	c.drawMarkers()
}

// ClearMarkers removes every marker.
func (c *Chart) ClearMarkers() {
	c.priceMarkers, c.timeMarkers = nil, nil
	c.drawMarkers()
}

// Markers returns the price and time markers.
func (c *Chart) Markers() ([]PriceMarker, []TimeMarker) {
	return c.priceMarkers, c.timeMarkers
}

func (c *Chart) drawMarkers() {
	handles, err := render.Replace(c.backend, c.markerHandles, c.markerGeometry())
	c.markerHandles = handles
	c.logFailure("marker", "", err)
}

func (c *Chart) markerGeometry() []render.Primitive {
	var out []render.Primitive

	primary := c.primary()
	rect := primary.camera.Rect()
	for _, m := range c.priceMarkers {
		y := primary.scale.YAtPrice(m.Price)
		out = append(out,
			render.Primitive{
				Kind: render.KindPolyline, View: primary.name, Tag: "marker:price",
				Vertices: []render.Point{{X: rect.X, Y: y}, {X: rect.Right(), Y: y}},
				Color:    m.Color, Alpha: 1, Width: 1,
			},
			render.Primitive{
				Kind: render.KindText, View: primary.name, Tag: "marker:price:label",
				Vertices: []render.Point{{X: rect.Right(), Y: y}},
				Color:    m.TextColor, Alpha: 1, Text: m.Label, FontSize: markerFontSize, Anchor: "right",
			},
		)
	}

	data := c.timeScale.Data()
	for _, m := range c.timeMarkers {
		i := sort.Search(len(data), func(i int) bool { return !data[i].Time.Before(m.Time) })
		if i == len(data) {
			continue
		}
		x := float64(i)
		for _, p := range c.panes {
			r := p.camera.Rect()
			out = append(out, render.Primitive{
				Kind: render.KindPolyline, View: p.name, Tag: "marker:time",
				Vertices: []render.Point{{X: x, Y: r.Y}, {X: x, Y: r.Top()}},
				Color:    m.Color, Alpha: 1, Width: 1,
			})
		}
		out = append(out, render.Primitive{
			Kind: render.KindText, View: primary.name, Tag: "marker:time:label",
			Vertices: []render.Point{{X: x, Y: rect.Y}},
			Color:    m.TextColor, Alpha: 1, Text: m.Label, FontSize: markerFontSize, Anchor: "center",
		})
	}
	return out
}
