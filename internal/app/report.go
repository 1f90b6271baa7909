package app

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/olekukonko/tablewriter"
	"github.com/raykavin/lwcharts/pkg/chart"
	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/raykavin/lwcharts/pkg/metric"
	"github.com/raykavin/lwcharts/pkg/render"
	"github.com/samber/lo"
)

// bootstrapSamples is the resample count of the visible-close summary.
const bootstrapSamples = 2000

// WriteLayout prints one row per series: pane, bounds and visible range.
func WriteLayout(w io.Writer, c *chart.Chart) {
	r := c.TimeScale().VisibleRange()
	fmt.Fprintf(w, "visible range: %.2f - %.2f of %d records\n", r.Start, r.End, c.TimeScale().Len())

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Pane", "Primary", "Height", "Series", "Kind", "Records", "Min", "Max"})
	for _, p := range c.Panes() {
		ps := p.PriceScale()
		for _, s := range p.SeriesList() {
			table.Append([]string{
				p.Name(),
				strconv.FormatBool(p.IsPrimary()),
				fmt.Sprintf("%.0f", p.Bounds().H),
				s.Name(),
				string(s.Kind()),
				strconv.Itoa(s.Len()),
				core.FormatPrice(ps.Min()),
				core.FormatPrice(ps.Max()),
			})
		}
	}
	table.Render()
}

// WriteAxis prints the price labels of a pane.
func WriteAxis(w io.Writer, p *chart.Pane) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Label", "Price", "Y"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})
	for _, l := range p.Axis().Labels() {
		table.Append([]string{
			l.Text,
			fmt.Sprintf("%.4f", l.Value),
			fmt.Sprintf("%.3f", p.PriceScale().YAtPrice(l.Value)),
		})
	}
	fmt.Fprintf(w, "price axis: %s\n", p.Name())
	table.Render()
}

// WriteCrosshair moves the crosshair to pos and prints what it resolves.
func WriteCrosshair(w io.Writer, c *chart.Chart, pos render.Point) error {
	if err := c.HandleEvent(chart.PointerMove{Pos: pos}); err != nil {
		return err
	}

	position, ok := c.Crosshair().Position()
	if !ok {
		fmt.Fprintf(w, "crosshair: (%.0f, %.0f) is outside every pane\n", pos.X, pos.Y)
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Field", "Value"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	table.Append([]string{"pane", position.Pane})
	table.Append([]string{"x", fmt.Sprintf("%.3f", position.X)})
	table.Append([]string{"index", strconv.Itoa(position.Index)})

	panes := lo.Keys(position.Prices)
	sort.Strings(panes)
	for _, name := range panes {
		table.Append([]string{"price@" + name, core.FormatPrice(position.Prices[name])})
	}

	data := c.CrosshairData()
	keys := lo.Keys(data)
	sort.Strings(keys)
	for _, k := range keys {
		table.Append([]string{k, data[k]})
	}
	table.Render()
	return nil
}

// WriteDistribution prints summary statistics and a histogram of the
// visible closes.
func WriteDistribution(w io.Writer, c *chart.Chart, bins int) {
	closes := lo.FilterMap(c.TimeScale().VisibleData(), func(rec core.Record, _ int) (float64, bool) {
		if v, ok := rec.Get(core.FieldClose); ok {
			return v, true
		}
		return rec.Get(core.FieldValue)
	})
	if len(closes) == 0 {
		fmt.Fprintln(w, "no visible closes")
		return
	}

	s := metric.Summarize(closes, bootstrapSamples)
	fmt.Fprintf(w, "closes: %d  min %s  max %s  mean %s  stddev %.4f\n",
		s.Count, core.FormatPrice(s.Min), core.FormatPrice(s.Max), core.FormatPrice(s.Mean), s.StdDev)
	fmt.Fprintf(w, "mean (95%%): %s ~ %s\n", core.FormatPrice(s.MeanInterval.Lower), core.FormatPrice(s.MeanInterval.Upper))

	hist := histogram.Hist(bins, closes)
	_ = histogram.Fprint(w, hist, histogram.Linear(30))
}
