package series

import (
	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/raykavin/lwcharts/pkg/render"
	"github.com/raykavin/lwcharts/pkg/scale"
)

// Line draws values as a connected strip.
type Line struct {
	base
	Style core.LineStyle
}

func NewLine(name string, style core.LineStyle) *Line {
	return &Line{base: newBase(name, KindLine, core.FieldValue), Style: style}
}

func (l *Line) Geometry(view string, ps *scale.PriceScale, r scale.Range) []render.Primitive {
	points := valuePoints(l.visibleRecords(r), ps, start(r))
	if len(points) == 0 {
		return nil
	}
	return []render.Primitive{{
		Kind:     render.KindPolyline,
		View:     view,
		Tag:      l.tag("line"),
		Vertices: points,
		Color:    l.Style.Color,
		Alpha:    1,
		Width:    l.Style.Width,
	}}
}

func (l *Line) Render(backend render.Backend, view string, ps *scale.PriceScale, r scale.Range) error {
	return l.draw(backend, l.Geometry(view, ps, r))
}

func valuePoints(records []core.Record, ps *scale.PriceScale, offset float64) []render.Point {
	points := make([]render.Point, 0, len(records))
	for i, rec := range records {
		points = append(points, render.Point{X: offset + float64(i), Y: ps.YAtPrice(rec.Value)})
	}
	return points
}
