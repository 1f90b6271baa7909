package app

import (
	"bytes"
	"testing"
	"time"

	"github.com/raykavin/lwcharts/internal/config"
	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/raykavin/lwcharts/pkg/logger"
	"github.com/raykavin/lwcharts/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bars(n int) []core.Record {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]core.Record, n)
	for i := range out {
		o := float64(100 + i)
		out[i] = core.Bar(base.AddDate(0, 0, i), o, o+2, o-2, o+1).WithVolume(float64(1000 + i))
	}
	return out
}

func defaults(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestBuild_DefaultPanes(t *testing.T) {
	ws, err := Build(logger.Nop(), defaults(t), bars(40))
	require.NoError(t, err)

	panes := ws.Chart.Panes()
	require.Len(t, panes, 2)
	assert.Equal(t, "price", panes[0].Name())
	assert.True(t, panes[0].IsPrimary())
	assert.Equal(t, 480.0, panes[0].Bounds().H)

	require.Len(t, ws.Routes, 2)
	assert.True(t, ws.Routes[0].Timeline)
	assert.Equal(t, "bars", ws.Routes[0].Series)
	assert.False(t, ws.Routes[1].Timeline)
	assert.Equal(t, core.FieldVolume, ws.Routes[1].Source)

	vol, err := ws.Chart.Series("volume")
	require.NoError(t, err)
	last, ok := vol.Last()
	require.True(t, ok)
	assert.Equal(t, 1039.0, last.Value)
}

func TestBuild_IndicatorSeries(t *testing.T) {
	cfg := defaults(t)
	cfg.Panes = []config.PaneConfig{{
		Name:  "price",
		Ratio: 1,
		Series: []config.SeriesConfig{
			{Name: "close", Kind: "line"},
			{Name: "sma5", Kind: "line", Indicator: "sma", Period: 5},
		},
	}}

	ws, err := Build(logger.Nop(), cfg, bars(40))
	require.NoError(t, err)
	require.Len(t, ws.Routes, 1)
	assert.Equal(t, core.FieldClose, ws.Routes[0].Source)

	sma, err := ws.Chart.Series("sma5")
	require.NoError(t, err)
	assert.Equal(t, 36, sma.Len())
}

func TestBuild_HeikinAshi(t *testing.T) {
	cfg := defaults(t)
	cfg.Panes = []config.PaneConfig{{
		Name:  "price",
		Ratio: 1,
		Series: []config.SeriesConfig{
			{Name: "bars", Kind: "candlestick"},
			{Name: "ha", Kind: "candlestick", Indicator: "heikin_ashi"},
		},
	}}

	ws, err := Build(logger.Nop(), cfg, bars(10))
	require.NoError(t, err)
	require.Len(t, ws.Routes, 1)

	ha, err := ws.Chart.Series("ha")
	require.NoError(t, err)
	first := ha.Data()[0]
	assert.Equal(t, 100.5, first.Open)
	assert.Equal(t, 100.25, first.Close)

	cfg.Panes[0].Series[1].Indicator = "rsi"
	_, err = Build(logger.Nop(), cfg, bars(10))
	require.ErrorContains(t, err, "cannot drive a candlestick")
}

func TestBuild_Errors(t *testing.T) {
	cfg := defaults(t)
	cfg.Panes = []config.PaneConfig{{Name: "p", Series: []config.SeriesConfig{{Name: "x", Kind: "renko"}}}}
	_, err := Build(logger.Nop(), cfg, bars(10))
	require.Error(t, err)

	cfg.Panes = []config.PaneConfig{{Name: "p", Series: []config.SeriesConfig{{Name: "x", Kind: "line", Indicator: "sma", Period: 50}}}}
	_, err = Build(logger.Nop(), cfg, bars(10))
	require.Error(t, err)

	cfg.Panes = []config.PaneConfig{{Name: "p", Series: []config.SeriesConfig{{Name: "x", Kind: "line", Source: "value"}}}}
	_, err = Build(logger.Nop(), cfg, bars(10))
	require.ErrorIs(t, err, core.ErrMissingField)
}

func TestReports(t *testing.T) {
	ws, err := Build(logger.Nop(), defaults(t), bars(40))
	require.NoError(t, err)

	var buf bytes.Buffer
	WriteLayout(&buf, ws.Chart)
	assert.Contains(t, buf.String(), "visible range: 0.00 - 39.00 of 40 records")
	assert.Contains(t, buf.String(), "candlestick")

	buf.Reset()
	price, err := ws.Chart.Pane("price")
	require.NoError(t, err)
	WriteAxis(&buf, price)
	assert.Contains(t, buf.String(), "price axis: price")
	assert.Len(t, price.Axis().Labels(), 8)

	buf.Reset()
	require.NoError(t, WriteCrosshair(&buf, ws.Chart, render.Point{X: 400, Y: 200}))
	assert.Contains(t, buf.String(), "price@price")
	assert.Contains(t, buf.String(), "price@volume")
	assert.Contains(t, buf.String(), "close")

	buf.Reset()
	require.NoError(t, WriteCrosshair(&buf, ws.Chart, render.Point{X: 400, Y: 900}))
	assert.Contains(t, buf.String(), "outside every pane")

	buf.Reset()
	WriteDistribution(&buf, ws.Chart, 5)
	assert.Contains(t, buf.String(), "closes: 40")
}
