package chart

import (
	"fmt"

	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/raykavin/lwcharts/pkg/render"
	"github.com/samber/lo"
)

// AddPane appends a pane to the vertical stack. The first call switches the
// chart to multi-pane mode for good, dropping the implicit view; the first
// pane added is the primary one. Negative ratios count as zero.
func (c *Chart) AddPane(name string, ratio float64) (*Pane, error) {
	if !c.multi {
		implicit := c.primary()
		if n := len(implicit.series); n > 0 {
			c.log.WithField("series", n).Warn("switching to multi-pane mode drops the series of the implicit view")
		}
		implicit.detach()
		c.panes = nil
		c.multi = true
	}

	if name == "" {
		name = fmt.Sprintf("pane_%d", len(c.panes))
	}
	if _, ok := c.findPane(name); ok {
		return nil, fmt.Errorf("pane %s: %w", name, core.ErrDuplicateName)
	}
	if ratio < 0 {
		c.log.WithField("pane", name).Warnf("negative height ratio %g clamped to 0", ratio)
		ratio = 0
	}

	p := c.newPane(name, ratio)
	p.primary = len(c.panes) == 0
	c.panes = append(c.panes, p)

	c.log.WithFields(map[string]any{
		"pane":    name,
		"ratio":   ratio,
		"primary": p.primary,
	}).Info("pane added")

	c.layout()
	return p, nil
}

// Pane returns a pane by name. In single-view mode the implicit view is
// reachable as DefaultPane.
func (c *Chart) Pane(name string) (*Pane, error) {
	p, ok := c.findPane(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrPaneNotFound, name)
	}
	return p, nil
}

// Panes returns the panes from top to bottom.
func (c *Chart) Panes() []*Pane {
	return append([]*Pane(nil), c.panes...)
}

// RemovePane removes a non-primary pane and its series.
func (c *Chart) RemovePane(name string) error {
	p, err := c.Pane(name)
	if err != nil {
		return err
	}
	if p == c.primary() {
		return fmt.Errorf("pane %s: %w", name, ErrPrimaryPane)
	}

	p.ClearSeries()
	p.detach()
	c.panes = lo.Without(c.panes, p)
	c.log.WithField("pane", name).Info("pane removed")

	c.layout()
	c.reconcile(true)
	return nil
}

func (c *Chart) findPane(name string) (*Pane, bool) {
	return lo.Find(c.panes, func(p *Pane) bool { return p.name == name })
}

// layout stacks the panes vertically, pane i getting ratio_i / sum(ratios)
// of the height. A zero sum shares the height evenly.
func (c *Chart) layout() {
	width, height := float64(c.options.Width), float64(c.options.Height)

	ratios := lo.Map(c.panes, func(p *Pane, _ int) float64 { return p.ratio })
	total := lo.Sum(ratios)
	if total == 0 {
		ratios = lo.Map(ratios, func(float64, int) float64 { return 1 })
		total = float64(len(ratios))
	}

	y := 0.0
	for i, p := range c.panes {
		h := height * ratios[i] / total
		p.camera.SetViewport(render.Rect{X: 0, Y: y, W: width, H: h})
		y += h
	}
}
