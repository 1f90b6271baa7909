package main

import (
	"fmt"
	"os"
	"time"

	"github.com/raykavin/lwcharts/pkg/feed"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// Download command flags
var (
	downloadDays   int
	downloadStart  string
	downloadEnd    string
	downloadOutput string
)

func buildDownloadCmd() *cobra.Command {
	downloadCmd := &cobra.Command{
		Use:   "download",
		Short: "Download Binance bars of feed.pair and feed.timeframe into a CSV file",
		RunE:  runDownload,
	}

	downloadCmd.Flags().IntVarP(&downloadDays, "days", "d", 30, "Days of history up to now")
	downloadCmd.Flags().StringVarP(&downloadStart, "start", "s", "", "Start date (e.g. 2024-01-01), overrides --days")
	downloadCmd.Flags().StringVarP(&downloadEnd, "end", "e", "", "End date (e.g. 2024-02-01), defaults to now")
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "Output CSV file, defaults to feed.csv")

	return downloadCmd
}

func runDownload(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	output := downloadOutput
	if output == "" {
		output = cfg.Feed.CSV
	}
	if output == "" {
		return fmt.Errorf("no output file: set --output or feed.csv")
	}

	period := feed.LastDays(downloadDays)
	if downloadStart != "" {
		if period.Start, err = time.Parse(time.DateOnly, downloadStart); err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
	}
	if downloadEnd != "" {
		if period.End, err = time.Parse(time.DateOnly, downloadEnd); err != nil {
			return fmt.Errorf("invalid --end: %w", err)
		}
	}

	file, err := os.Create(output)
	if err != nil {
		return err
	}
	defer file.Close()

	bar := progressbar.Default(-1, "download")
	source := feed.NewBinance(cfg.Feed.Pair, cfg.Feed.Timeframe, feed.WithBinanceLogger(log.WithField("feed", "binance")))
	downloader := feed.NewDownloader(source,
		feed.WithDownloadLogger(log.WithField("pair", cfg.Feed.Pair)),
		feed.WithDownloadProgress(func(done, total int) {
			bar.ChangeMax(total)
			_ = bar.Set(done)
		}),
	)

	if _, err := downloader.Download(cmd.Context(), file, cfg.Feed.Timeframe, period); err != nil {
		return err
	}
	if err := bar.Close(); err != nil {
		log.WithError(err).Warn("failed to close progress bar")
	}

	log.WithField("file", output).Info("download done")
	return nil
}
