package series

import (
	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/raykavin/lwcharts/pkg/render"
	"github.com/raykavin/lwcharts/pkg/scale"
)

// Area is a line with its surface filled down to the bottom of the pane.
type Area struct {
	base
	Style core.AreaStyle
}

func NewArea(name string, style core.AreaStyle) *Area {
	return &Area{base: newBase(name, KindArea, core.FieldValue), Style: style}
}

func (a *Area) Geometry(view string, ps *scale.PriceScale, r scale.Range) []render.Primitive {
	points := valuePoints(a.visibleRecords(r), ps, start(r))
	if len(points) == 0 {
		return nil
	}

	fill := make([]render.Point, 0, len(points)*2)
	fill = append(fill, points...)
	for i := len(points) - 1; i >= 0; i-- {
		fill = append(fill, render.Point{X: points[i].X, Y: -1})
	}

	return []render.Primitive{
		{
			Kind:     render.KindPolygon,
			View:     view,
			Tag:      a.tag("fill"),
			Vertices: fill,
			Color:    a.Style.FillColor,
			Alpha:    a.Style.FillAlpha,
		},
		{
			Kind:     render.KindPolyline,
			View:     view,
			Tag:      a.tag("line"),
			Vertices: points,
			Color:    a.Style.LineColor,
			Alpha:    1,
			Width:    a.Style.LineWidth,
		},
	}
}

func (a *Area) Render(backend render.Backend, view string, ps *scale.PriceScale, r scale.Range) error {
	return a.draw(backend, a.Geometry(view, ps, r))
}
