// Package app assembles charts from the CLI configuration and prints
// headless reports about them.
package app

import (
	"fmt"

	"github.com/raykavin/lwcharts/internal/config"
	"github.com/raykavin/lwcharts/pkg/chart"
	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/raykavin/lwcharts/pkg/feed"
	"github.com/raykavin/lwcharts/pkg/indicator"
	"github.com/raykavin/lwcharts/pkg/logger"
	"github.com/raykavin/lwcharts/pkg/series"
)

// Workspace is a configured chart plus the routes live bars take into it.
type Workspace struct {
	Chart  *chart.Chart
	Routes []feed.Route
}

// defaultPanes is used when the configuration declares none: candles over
// a volume histogram.
var defaultPanes = []config.PaneConfig{
	{Name: "price", Ratio: 0.8, Series: []config.SeriesConfig{{Name: "bars", Kind: string(series.KindCandlestick)}}},
	{Name: "volume", Ratio: 0.2, Series: []config.SeriesConfig{{Name: "volume", Kind: string(series.KindHistogram), Source: "volume"}}},
}

// Build creates the chart described by cfg and loads history into it.
func Build(log logger.Logger, cfg *config.Config, history []core.Record, options ...chart.Option) (*Workspace, error) {
	options = append([]chart.Option{
		chart.WithChartOptions(cfg.ChartOptions()),
		chart.WithPriceScaleOptions(cfg.PriceScaleOptions()),
		chart.WithInboxSize(cfg.Chart.InboxSize),
	}, options...)

	c, err := chart.New(log, options...)
	if err != nil {
		return nil, err
	}
	if err := c.SetData(history); err != nil {
		return nil, err
	}

	panes := cfg.Panes
	if len(panes) == 0 {
		panes = defaultPanes
	}

	ws := &Workspace{Chart: c}
	for _, pc := range panes {
		pane, err := c.AddPane(pc.Name, pc.Ratio)
		if err != nil {
			return nil, err
		}
		for _, sc := range pc.Series {
			if err := ws.addSeries(log, pane, sc, history); err != nil {
				return nil, fmt.Errorf("pane %s: %w", pane.Name(), err)
			}
		}
	}

	c.Render()
	return ws, nil
}

func (ws *Workspace) addSeries(log logger.Logger, pane *chart.Pane, sc config.SeriesConfig, history []core.Record) error {
	kind, err := series.ParseKind(sc.Kind)
	if err != nil {
		return err
	}
	s, err := series.New(kind, sc.Name)
	if err != nil {
		return err
	}

	data, route, err := seriesData(kind, sc, history)
	if err != nil {
		return fmt.Errorf("series %s: %w", sc.Name, err)
	}
	if err := s.SetData(data); err != nil {
		return err
	}
	if err := pane.AddSeries(s); err != nil {
		return err
	}

	if route != nil {
		route.Pane, route.Series = pane.Name(), s.Name()
		route.Timeline = len(ws.Routes) == 0
		ws.Routes = append(ws.Routes, *route)
	} else {
		log.WithField("series", s.Name()).Debug("indicator series is not updated live")
	}
	return nil
}

// seriesData derives the records of one series from the bars. Indicator
// series get no live route.
func seriesData(kind series.Kind, sc config.SeriesConfig, history []core.Record) ([]core.Record, *feed.Route, error) {
	if kind == series.KindCandlestick {
		switch sc.Indicator {
		case "":
			return history, &feed.Route{}, nil
		case "heikin_ashi":
			data, err := indicator.HeikinAshi(history)
			return data, nil, err
		default:
			return nil, nil, fmt.Errorf("indicator %q cannot drive a candlestick series", sc.Indicator)
		}
	}

	name := sc.Source
	if name == "" {
		name = "close"
	}
	source, err := indicator.ParseSource(name)
	if err != nil {
		return nil, nil, err
	}

	if sc.Indicator != "" {
		data, err := indicator.Compute(sc.Indicator, history, sc.Period, source)
		return data, nil, err
	}

	data := make([]core.Record, 0, len(history))
	for i, rec := range history {
		v, ok := rec.Get(source)
		if !ok {
			return nil, nil, &core.DataError{Series: sc.Name, Index: i, Field: source, Err: core.ErrMissingField}
		}
		data = append(data, core.Point(rec.Time, v))
	}
	return data, &feed.Route{Source: source}, nil
}
