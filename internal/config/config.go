// Package config loads the lwcharts CLI configuration with Viper: a YAML
// file plus LWCHARTS_ environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/spf13/viper"
	"github.com/xhit/go-str2duration/v2"
)

const EnvPrefix = "LWCHARTS"

// Config is the full CLI configuration.
type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	Chart      ChartConfig      `mapstructure:"chart"`
	PriceScale PriceScaleConfig `mapstructure:"price_scale"`
	Panes      []PaneConfig     `mapstructure:"panes"`
	Feed       FeedConfig       `mapstructure:"feed"`
	Alerts     AlertsConfig     `mapstructure:"alerts"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // trace, debug, info, warn, error
	Format string `mapstructure:"format"` // console or json
	Color  bool   `mapstructure:"color"`
}

type ChartConfig struct {
	Width        int    `mapstructure:"width"`
	Height       int    `mapstructure:"height"`
	Title        string `mapstructure:"title"`
	TickInterval string `mapstructure:"tick_interval"` // e.g. "16ms"
	InboxSize    int    `mapstructure:"inbox_size"`
}

type PriceScaleConfig struct {
	Mode         string `mapstructure:"mode"` // normal, logarithmic, percentage, indexed_to_100
	AutoScale    bool   `mapstructure:"auto_scale"`
	Position     string `mapstructure:"position"`
	LabelCount   int    `mapstructure:"label_count"`
	TicksVisible bool   `mapstructure:"ticks_visible"`
	MinimumWidth int    `mapstructure:"minimum_width"`
}

// PaneConfig declares one pane and the series drawn in it.
type PaneConfig struct {
	Name   string         `mapstructure:"name"`
	Ratio  float64        `mapstructure:"ratio"`
	Series []SeriesConfig `mapstructure:"series"`
}

// SeriesConfig declares a series. Source picks the record field for
// single-value kinds; Indicator derives the series from the bars.
type SeriesConfig struct {
	Name      string `mapstructure:"name"`
	Kind      string `mapstructure:"kind"`
	Source    string `mapstructure:"source"`
	Indicator string `mapstructure:"indicator"`
	Period    int    `mapstructure:"period"`
}

type FeedConfig struct {
	Kind      string `mapstructure:"kind"` // csv, binance or websocket
	CSV       string `mapstructure:"csv"`
	Timeframe string `mapstructure:"timeframe"`
	Limit     string `mapstructure:"limit"` // e.g. "30d"
	Pair      string `mapstructure:"pair"`
	URL       string `mapstructure:"url"`
	History   int    `mapstructure:"history"`
	Replay    string `mapstructure:"replay"` // delay between replayed bars
	Store     string `mapstructure:"store"`  // BuntDB file persisting live bars
}

// AlertsConfig marks price levels on the chart and notifies when a live
// close crosses one.
type AlertsConfig struct {
	Levels   []float64 `mapstructure:"levels"`
	Telegram struct {
		Enabled bool   `mapstructure:"enabled"`
		Token   string `mapstructure:"token"`
		Users   []int  `mapstructure:"users"`
	} `mapstructure:"telegram"`
	Mail struct {
		Enabled  bool   `mapstructure:"enabled"`
		Server   string `mapstructure:"server"`
		Port     int    `mapstructure:"port"`
		From     string `mapstructure:"from"`
		To       string `mapstructure:"to"`
		Password string `mapstructure:"password"`
	} `mapstructure:"mail"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.color", true)

	v.SetDefault("chart.width", 800)
	v.SetDefault("chart.height", 600)
	v.SetDefault("chart.title", "Financial Chart")
	v.SetDefault("chart.tick_interval", "16ms")
	v.SetDefault("chart.inbox_size", 1024)

	v.SetDefault("price_scale.mode", string(core.PriceScaleNormal))
	v.SetDefault("price_scale.auto_scale", true)
	v.SetDefault("price_scale.position", "right")
	v.SetDefault("price_scale.label_count", 8)
	v.SetDefault("price_scale.minimum_width", 50)

	v.SetDefault("feed.kind", "csv")
	v.SetDefault("feed.timeframe", "1d")
	v.SetDefault("feed.pair", "BTCUSDT")
	v.SetDefault("feed.history", 500)
	v.SetDefault("feed.replay", "100ms")

	v.SetDefault("alerts.mail.port", 587)
}

// Load reads path (optional) and applies environment overrides such as
// LWCHARTS_CHART_WIDTH.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values Viper cannot type-check.
func (c *Config) Validate() error {
	var errs []error
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		errs = append(errs, fmt.Errorf("chart size %dx%d must be positive", c.Chart.Width, c.Chart.Height))
	}
	if c.Chart.InboxSize <= 0 {
		errs = append(errs, fmt.Errorf("inbox size %d must be positive", c.Chart.InboxSize))
	}
	for _, d := range []struct{ key, value string }{
		{"chart.tick_interval", c.Chart.TickInterval},
		{"feed.timeframe", c.Feed.Timeframe},
		{"feed.replay", c.Feed.Replay},
	} {
		if _, err := str2duration.ParseDuration(d.value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.key, err))
		}
	}
	if c.Feed.Limit != "" {
		if _, err := str2duration.ParseDuration(c.Feed.Limit); err != nil {
			errs = append(errs, fmt.Errorf("feed.limit: %w", err))
		}
	}
	if c.Alerts.Telegram.Enabled && (c.Alerts.Telegram.Token == "" || len(c.Alerts.Telegram.Users) == 0) {
		errs = append(errs, errors.New("alerts.telegram needs a token and at least one user"))
	}
	if c.Alerts.Mail.Enabled && (c.Alerts.Mail.Server == "" || c.Alerts.Mail.To == "") {
		errs = append(errs, errors.New("alerts.mail needs a server and a recipient"))
	}
	switch core.PriceScaleMode(c.PriceScale.Mode) {
	case core.PriceScaleNormal, core.PriceScaleLogarithmic, core.PriceScalePercentage, core.PriceScaleIndexed:
	default:
		errs = append(errs, fmt.Errorf("unknown price scale mode %q", c.PriceScale.Mode))
	}
	return errors.Join(errs...)
}

// Tick returns the render tick interval.
func (c *Config) Tick() time.Duration {
	d, _ := str2duration.ParseDuration(c.Chart.TickInterval)
	return d
}

// ReplayDelay returns the delay between replayed bars.
func (c *Config) ReplayDelay() time.Duration {
	d, _ := str2duration.ParseDuration(c.Feed.Replay)
	return d
}

// PriceScaleOptions merges the configured values into the defaults.
func (c *Config) PriceScaleOptions() core.PriceScaleOptions {
	options := core.DefaultPriceScaleOptions()
	options.Mode = core.PriceScaleMode(c.PriceScale.Mode)
	options.AutoScale = c.PriceScale.AutoScale
	options.Position = c.PriceScale.Position
	options.LabelCount = c.PriceScale.LabelCount
	options.TicksVisible = c.PriceScale.TicksVisible
	options.MinimumWidth = c.PriceScale.MinimumWidth
	return options
}

// ChartOptions merges the configured values into the defaults.
func (c *Config) ChartOptions() core.ChartOptions {
	options := core.DefaultChartOptions()
	options.Width = c.Chart.Width
	options.Height = c.Chart.Height
	options.Title = c.Chart.Title
	return options
}
