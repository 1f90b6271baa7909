package series

import (
	"math"

	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/raykavin/lwcharts/pkg/render"
	"github.com/raykavin/lwcharts/pkg/scale"
)

// Candlestick draws OHLC bars: a body segment per bar coloured by direction
// and optional upper and lower wicks.
type Candlestick struct {
	base
	Style core.CandlestickStyle
}

func NewCandlestick(name string, style core.CandlestickStyle) *Candlestick {
	return &Candlestick{base: newBase(name, KindCandlestick, core.OHLCFields), Style: style}
}

func (c *Candlestick) Geometry(view string, ps *scale.PriceScale, r scale.Range) []render.Primitive {
	records := c.visibleRecords(r)
	if len(records) == 0 {
		return nil
	}

	offset := start(r)
	var up, down, wicks []render.Point
	for i, rec := range records {
		x := offset + float64(i)
		yOpen, yClose := ps.YAtPrice(rec.Open), ps.YAtPrice(rec.Close)

		body := []render.Point{{X: x, Y: yOpen}, {X: x, Y: yClose}}
		if rec.Close >= rec.Open {
			up = append(up, body...)
		} else {
			down = append(down, body...)
		}

		if c.Style.WickVisible {
			wicks = append(wicks,
				render.Point{X: x, Y: math.Max(yOpen, yClose)}, render.Point{X: x, Y: ps.YAtPrice(rec.High)},
				render.Point{X: x, Y: math.Min(yOpen, yClose)}, render.Point{X: x, Y: ps.YAtPrice(rec.Low)},
			)
		}
	}

	var out []render.Primitive
	if len(wicks) > 0 {
		out = append(out, render.Primitive{
			Kind: render.KindSegments, View: view, Tag: c.tag("wicks"),
			Vertices: wicks, Color: c.Style.WickColor, Alpha: 1, Width: 1,
		})
	}
	if len(up) > 0 {
		out = append(out, render.Primitive{
			Kind: render.KindSegments, View: view, Tag: c.tag("bodies:up"),
			Vertices: up, Color: c.Style.UpColor, Alpha: 1, Width: c.Style.BodyWidth,
		})
	}
	if len(down) > 0 {
		out = append(out, render.Primitive{
			Kind: render.KindSegments, View: view, Tag: c.tag("bodies:down"),
			Vertices: down, Color: c.Style.DownColor, Alpha: 1, Width: c.Style.BodyWidth,
		})
	}
	return out
}

func (c *Candlestick) Render(backend render.Backend, view string, ps *scale.PriceScale, r scale.Range) error {
	return c.draw(backend, c.Geometry(view, ps, r))
}
