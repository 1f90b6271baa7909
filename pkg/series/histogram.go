package series

import (
	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/raykavin/lwcharts/pkg/render"
	"github.com/raykavin/lwcharts/pkg/scale"
)

// Histogram draws one bar per record rising from the bottom of the pane.
type Histogram struct {
	base
	Style core.HistogramStyle
}

func NewHistogram(name string, style core.HistogramStyle) *Histogram {
	return &Histogram{base: newBase(name, KindHistogram, core.FieldValue), Style: style}
}

func (h *Histogram) Geometry(view string, ps *scale.PriceScale, r scale.Range) []render.Primitive {
	records := h.visibleRecords(r)
	if len(records) == 0 {
		return nil
	}

	offset := start(r)
	var up, down []render.Point
	for i, rec := range records {
		x := offset + float64(i)
		bar := []render.Point{{X: x, Y: -1}, {X: x, Y: ps.YAtPrice(rec.Value)}}
		if h.Style.DownColor != "" && rec.Has(core.FieldOpen|core.FieldClose) && rec.Close < rec.Open {
			down = append(down, bar...)
			continue
		}
		up = append(up, bar...)
	}

	var out []render.Primitive
	if len(up) > 0 {
		out = append(out, render.Primitive{
			Kind: render.KindSegments, View: view, Tag: h.tag("bars"),
			Vertices: up, Color: h.Style.Color, Alpha: 1, Width: h.Style.BarWidth,
		})
	}
	if len(down) > 0 {
		out = append(out, render.Primitive{
			Kind: render.KindSegments, View: view, Tag: h.tag("bars:down"),
			Vertices: down, Color: h.Style.DownColor, Alpha: 1, Width: h.Style.BarWidth,
		})
	}
	return out
}

func (h *Histogram) Render(backend render.Backend, view string, ps *scale.PriceScale, r scale.Range) error {
	return h.draw(backend, h.Geometry(view, ps, r))
}
