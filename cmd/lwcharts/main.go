package main

import (
	"context"
	"fmt"
	"os"

	"github.com/raykavin/lwcharts/internal/config"
	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/raykavin/lwcharts/pkg/feed"
	"github.com/raykavin/lwcharts/pkg/logger"
	"github.com/raykavin/lwcharts/pkg/logger/zerolog"
	"github.com/raykavin/lwcharts/pkg/storage"
	"github.com/spf13/cobra"
)

// Command line flags
var (
	configPath string
	csvPath    string
	limit      string
	storePath  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "lwcharts",
		Short:   "Headless financial chart layout and inspection",
		Version: "1.0.0",
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (e.g. ./lwcharts.yaml)")
	rootCmd.PersistentFlags().StringVar(&csvPath, "csv", "", "CSV bars file, overrides feed.csv")
	rootCmd.PersistentFlags().StringVar(&limit, "limit", "", "Keep only the last window of bars (e.g. 30d), overrides feed.limit")

	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "BuntDB bars store, overrides feed.store")

	rootCmd.AddCommand(buildRenderCmd())
	rootCmd.AddCommand(buildDownloadCmd())
	rootCmd.AddCommand(buildLiveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration, applies the persistent flags and builds
// the root logger.
func setup() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if csvPath != "" {
		cfg.Feed.CSV = csvPath
	}
	if limit != "" {
		cfg.Feed.Limit = limit
	}
	if storePath != "" {
		cfg.Feed.Store = storePath
	}

	log, err := zerolog.New(zerolog.Options{
		Level:   cfg.Log.Level,
		Colored: cfg.Log.Color,
		JSON:    cfg.Log.Format == "json",
		Output:  os.Stderr,
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// openStore opens the configured bars store, or returns nil when none is set.
func openStore(cfg *config.Config, log logger.Logger) (*storage.Bars, error) {
	if cfg.Feed.Store == "" {
		return nil, nil
	}
	return storage.NewFromFile(log.WithField("store", cfg.Feed.Store), cfg.Feed.Store)
}

// loadHistory prefers the bars persisted in store and falls back to the
// bars file.
func loadHistory(ctx context.Context, cfg *config.Config, store *storage.Bars) ([]core.Record, error) {
	if store == nil {
		return loadCSV(cfg)
	}

	records, err := store.Records(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return loadCSV(cfg)
	}
	if cfg.Feed.Limit != "" {
		return feed.Limit(records, cfg.Feed.Limit)
	}
	return records, nil
}

// loadCSV reads the configured bars file and applies the limit window.
func loadCSV(cfg *config.Config) ([]core.Record, error) {
	if cfg.Feed.CSV == "" {
		return nil, fmt.Errorf("no bars file: set feed.csv or --csv")
	}

	records, err := feed.ReadCSV(cfg.Feed.CSV)
	if err != nil {
		return nil, err
	}
	if cfg.Feed.Limit != "" {
		return feed.Limit(records, cfg.Feed.Limit)
	}
	return records, nil
}
