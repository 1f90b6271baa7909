package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
log:
  level: debug
  format: json
chart:
  width: 1280
  height: 720
  tick_interval: 33ms
price_scale:
  mode: logarithmic
  ticks_visible: true
panes:
  - name: price
    ratio: 0.8
    series:
      - name: btc
        kind: candlestick
      - name: sma20
        kind: line
        indicator: sma
        period: 20
  - name: volume
    ratio: 0.2
    series:
      - name: vol
        kind: histogram
        source: volume
feed:
  kind: csv
  csv: ./btc-1d.csv
  limit: 90d
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lwcharts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 800, cfg.Chart.Width)
	assert.Equal(t, 1024, cfg.Chart.InboxSize)
	assert.Equal(t, 16*time.Millisecond, cfg.Tick())
	assert.Equal(t, 100*time.Millisecond, cfg.ReplayDelay())
	assert.Equal(t, core.DefaultPriceScaleOptions(), cfg.PriceScaleOptions())
	assert.Empty(t, cfg.Panes)
}

func TestLoad_File(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 33*time.Millisecond, cfg.Tick())
	assert.Equal(t, core.PriceScaleLogarithmic, cfg.PriceScaleOptions().Mode)
	assert.True(t, cfg.PriceScaleOptions().TicksVisible)
	assert.Equal(t, 1280, cfg.ChartOptions().Width)
	assert.Equal(t, "90d", cfg.Feed.Limit)

	require.Len(t, cfg.Panes, 2)
	assert.Equal(t, "price", cfg.Panes[0].Name)
	assert.Equal(t, 0.8, cfg.Panes[0].Ratio)
	require.Len(t, cfg.Panes[0].Series, 2)
	assert.Equal(t, "sma", cfg.Panes[0].Series[1].Indicator)
	assert.Equal(t, 20, cfg.Panes[0].Series[1].Period)
	assert.Equal(t, "volume", cfg.Panes[1].Series[0].Source)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("LWCHARTS_CHART_WIDTH", "1920")
	t.Setenv("LWCHARTS_FEED_PAIR", "ETHUSDT")

	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)
	assert.Equal(t, 1920, cfg.Chart.Width)
	assert.Equal(t, "ETHUSDT", cfg.Feed.Pair)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "chart:\n  tick_interval: often\nprice_scale:\n  mode: fancy\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chart.tick_interval")
	assert.Contains(t, err.Error(), `unknown price scale mode "fancy"`)

	_, err = Load(writeConfig(t, "chart:\n  width: -1\n"))
	require.ErrorContains(t, err, "chart size")
}

func TestLoad_Alerts(t *testing.T) {
	cfg, err := Load(writeConfig(t, "alerts:\n  levels: [42000, 45000.5]\n  telegram:\n    enabled: true\n    token: abc\n    users: [1, 2]\n"))
	require.NoError(t, err)
	assert.Equal(t, []float64{42000, 45000.5}, cfg.Alerts.Levels)
	assert.Equal(t, []int{1, 2}, cfg.Alerts.Telegram.Users)
	assert.Equal(t, 587, cfg.Alerts.Mail.Port)

	_, err = Load(writeConfig(t, "alerts:\n  telegram:\n    enabled: true\n  mail:\n    enabled: true\n"))
	require.ErrorContains(t, err, "alerts.telegram")
	require.ErrorContains(t, err, "alerts.mail")
}
