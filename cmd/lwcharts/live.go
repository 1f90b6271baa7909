package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/raykavin/lwcharts/internal/app"
	"github.com/raykavin/lwcharts/internal/config"
	"github.com/raykavin/lwcharts/pkg/chart"
	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/raykavin/lwcharts/pkg/feed"
	"github.com/raykavin/lwcharts/pkg/logger"
	"github.com/raykavin/lwcharts/pkg/metric"
	"github.com/raykavin/lwcharts/pkg/plot"
	"github.com/raykavin/lwcharts/pkg/storage"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/xhit/go-str2duration/v2"
	"golang.org/x/sync/errgroup"
)

// Live command flags
var (
	replayCount int
	runFor      string
	metricsAddr string
	serveAddr   string
)

func buildLiveCmd() *cobra.Command {
	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "Stream bars into a chart from a replay, Binance or a trade websocket",
		RunE:  runLive,
	}

	liveCmd.Flags().IntVar(&replayCount, "replay", 100, "Bars of the csv feed held back and replayed live")
	liveCmd.Flags().StringVar(&runFor, "for", "", "Stop after this long (e.g. 10m); runs until interrupted when empty")
	liveCmd.Flags().StringVar(&metricsAddr, "metrics", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	liveCmd.Flags().StringVar(&serveAddr, "serve", "", "Stream the scene over WebSocket on this address (e.g. :8080)")

	return liveCmd
}

// producer streams into a sink until ctx is done.
type producer func(ctx context.Context, sink feed.Sink) error

func runLive(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if runFor != "" {
		d, err := str2duration.ParseDuration(runFor)
		if err != nil {
			return fmt.Errorf("invalid --for: %w", err)
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	registry := prometheus.NewRegistry()
	metrics, err := metric.New("lwcharts", registry)
	if err != nil {
		return err
	}

	store, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	history, produce, err := openFeed(ctx, cfg, log, store)
	if err != nil {
		return err
	}

	options := []chart.Option{chart.WithMetrics(metrics)}
	var remote *plot.Remote
	if serveAddr != "" {
		remote = plot.NewRemote(log.WithField("component", "plot"))
		defer remote.Close()
		options = append(options, chart.WithBackend(remote))
	}

	ws, err := app.Build(log, cfg, history, options...)
	if err != nil {
		return err
	}
	sink := feed.ToChart(ws.Chart.Inbox(), ws.Routes...)
	if store != nil {
		if err := store.PushAll(history); err != nil {
			return err
		}
		sink = feed.Tee(sink, store)
	}

	alerts, stopAlerts, err := setupAlerts(cfg, log, ws.Chart, history)
	if err != nil {
		return err
	}
	defer stopAlerts()
	if alerts != nil {
		sink = feed.Tee(sink, alerts)
	}

	group, ctx := errgroup.WithContext(ctx)
	if metricsAddr != "" {
		server := &http.Server{Addr: metricsAddr, Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{})}
		group.Go(func() error {
			<-ctx.Done()
			return server.Close()
		})
		group.Go(func() error {
			if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	if remote != nil {
		server := plot.NewServer(log, remote)
		group.Go(func() error {
			return server.Start(ctx, serveAddr)
		})
	}
	group.Go(func() error {
		return produce(ctx, sink)
	})

	// the chart is only touched from this goroutine
	ticker := time.NewTicker(cfg.Tick())
	defer ticker.Stop()
	if err := ws.Chart.Run(ctx, ticker.C); err != nil {
		return err
	}

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	ws.Chart.Tick()
	app.WriteLayout(os.Stdout, ws.Chart)
	return nil
}

// openFeed returns the history to lay out and the producer of live bars.
func openFeed(ctx context.Context, cfg *config.Config, log logger.Logger, store *storage.Bars) ([]core.Record, producer, error) {
	switch cfg.Feed.Kind {
	case "csv":
		records, err := loadCSV(cfg)
		if err != nil {
			return nil, nil, err
		}
		held := min(replayCount, len(records)-1)
		if held < 0 {
			held = 0
		}
		history, pending := records[:len(records)-held], records[len(records)-held:]

		bar := progressbar.Default(int64(len(pending)), "replay")
		replay := feed.NewReplay(pending, cfg.ReplayDelay(),
			feed.WithReplayLogger(log.WithField("feed", "replay")),
			feed.WithProgress(func(int, int) { _ = bar.Add(1) }),
		)
		return history, replay.Run, nil

	case "binance":
		b := feed.NewBinance(cfg.Feed.Pair, cfg.Feed.Timeframe, feed.WithBinanceLogger(log.WithField("feed", "binance")))
		history, err := b.History(ctx, cfg.Feed.History)
		if err != nil {
			return nil, nil, err
		}
		return history, b.Run, nil

	case "websocket":
		history, err := loadHistory(ctx, cfg, store)
		if err != nil {
			return nil, nil, fmt.Errorf("websocket feed needs stored or csv history: %w", err)
		}
		w, err := feed.NewWebsocket(cfg.Feed.URL, cfg.Feed.Timeframe, feed.WithWebsocketLogger(log.WithField("feed", "websocket")))
		if err != nil {
			return nil, nil, err
		}
		return history, w.Run, nil

	default:
		return nil, nil, fmt.Errorf("unknown feed kind %q", cfg.Feed.Kind)
	}
}
