package crosshair

import (
	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/raykavin/lwcharts/pkg/render"
)

// lineAlpha keeps the crosshair readable over the series below it.
const lineAlpha = 0.6

const styleDashed = "dashed"

type lines struct {
	handles []render.Handle
}

// geometry builds the vertical line of a target and, when the pointer lies
// inside the target's visible rectangle, its horizontal line.
func geometry(t Target, p render.Point, o core.CrosshairOptions) []render.Primitive {
	rect := t.Camera.Rect()
	view := t.Camera.Viewport()

	out := []render.Primitive{
		line(t.Name, "crosshair:vertical", o.VertColor, o.Width, o.VertStyle == styleDashed,
			render.Point{X: p.X, Y: rect.Y}, render.Point{X: p.X, Y: rect.Top()},
			pixelsToData(o.DashLength, view.H, rect.H), pixelsToData(o.GapLength, view.H, rect.H)),
	}

	if p.Y >= rect.Y && p.Y <= rect.Top() {
		out = append(out, line(t.Name, "crosshair:horizontal", o.HorizColor, o.Width, o.HorizStyle == styleDashed,
			render.Point{X: rect.X, Y: p.Y}, render.Point{X: rect.Right(), Y: p.Y},
			pixelsToData(o.DashLength, view.W, rect.W), pixelsToData(o.GapLength, view.W, rect.W)))
	}
	return out
}

func pixelsToData(px, viewport, extent float64) float64 {
	if viewport <= 0 {
		return 0
	}
	return px / viewport * extent
}

// line returns a solid polyline or, when dashed, a segment batch with one
// segment per dash.
func line(view, tag string, color core.Color, width float64, dashed bool, from, to render.Point, dash, gap float64) render.Primitive {
	p := render.Primitive{
		Kind:     render.KindPolyline,
		View:     view,
		Tag:      tag,
		Vertices: []render.Point{from, to},
		Color:    color,
		Alpha:    lineAlpha,
		Width:    width,
	}
	if !dashed || dash <= 0 {
		return p
	}

	p.Kind = render.KindSegments
	p.Vertices = dashes(from, to, dash, gap)
	return p
}

func dashes(from, to render.Point, dash, gap float64) []render.Point {
	dx, dy := to.X-from.X, to.Y-from.Y
	length := dx
	if dx == 0 {
		length = dy
	}
	if length <= 0 {
		return []render.Point{from, to}
	}
	ux, uy := dx/length, dy/length

	var out []render.Point
	for d := 0.0; d < length; d += dash + gap {
		end := min(d+dash, length)
		out = append(out,
			render.Point{X: from.X + ux*d, Y: from.Y + uy*d},
			render.Point{X: from.X + ux*end, Y: from.Y + uy*end},
		)
	}
	return out
}
