package feed

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/raykavin/lwcharts/pkg/logger"
	"github.com/xhit/go-str2duration/v2"
)

const batchSize = 500

// Historian returns the closed bars opening within [start, end].
type Historian interface {
	CandlesByPeriod(ctx context.Context, start, end time.Time) ([]core.Record, error)
}

// Downloader facilitates downloading historical bars into a CSV file
type Downloader struct {
	log      logger.Logger
	source   Historian
	progress func(done, total int)
}

// DownloaderOption defines a function type for configuring a Downloader
type DownloaderOption func(*Downloader)

// WithDownloadLogger sets the logger
func WithDownloadLogger(log logger.Logger) DownloaderOption {
	return func(d *Downloader) {
		d.log = log
	}
}

// WithDownloadProgress reports the bars written so far against the expected total
func WithDownloadProgress(fn func(done, total int)) DownloaderOption {
	return func(d *Downloader) {
		d.progress = fn
	}
}

// NewDownloader creates a new downloader instance with the provided source
func NewDownloader(source Historian, options ...DownloaderOption) *Downloader {
	d := &Downloader{log: logger.Nop(), source: source}
	for _, option := range options {
		option(d)
	}
	return d
}

// Period defines the time range for data download
type Period struct {
	Start time.Time
	End   time.Time
}

// LastDays returns the period covering the last days up to now, starting at
// midnight UTC.
func LastDays(days int) Period {
	now := time.Now().UTC()
	start := now.AddDate(0, 0, -days)
	return Period{
		Start: time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
		End:   now,
	}
}

// Download fetches bars of timeframe in batches and writes them to w as
// CSV. It returns how many bars the source skipped.
func (d *Downloader) Download(ctx context.Context, w io.Writer, timeframe string, period Period) (int, error) {
	interval, err := str2duration.ParseDuration(timeframe)
	if err != nil {
		return 0, err
	}
	if interval <= 0 {
		return 0, errors.New("timeframe must be positive")
	}
	if !period.Start.Before(period.End) {
		return 0, errors.New("download period is empty")
	}

	total := int(period.End.Sub(period.Start)/interval) + 1
	d.log.Infof("downloading %d bars of %s", total, timeframe)

	written, missing := 0, 0
	header := true
	for start := period.Start; start.Before(period.End); start = start.Add(interval * batchSize) {
		// batches do not overlap: the end bound is inclusive
		end := start.Add(interval*batchSize - time.Millisecond)
		last := !end.Before(period.End)
		if last {
			end = period.End
		}

		records, err := d.source.CandlesByPeriod(ctx, start, end)
		if err != nil {
			return missing, err
		}
		if err := WriteCSV(w, records, header); err != nil {
			return missing, err
		}
		header = false

		if !last && len(records) < batchSize {
			missing += batchSize - len(records)
		}
		written += len(records)
		if d.progress != nil {
			d.progress(written, total)
		}
	}

	if missing > 0 {
		d.log.Warnf("%d missing bars", missing)
	}
	return missing, nil
}
