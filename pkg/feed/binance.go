package feed

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/jpillora/backoff"
	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/raykavin/lwcharts/pkg/logger"
)

// Binance streams spot klines of one pair: history through REST, live bars
// through the kline websocket.
type Binance struct {
	log      logger.Logger
	client   *binance.Client
	pair     string
	interval string
	backoff  *backoff.Backoff
}

// BinanceOption defines a function type for configuring a Binance feed
type BinanceOption func(*Binance)

// WithBinanceLogger sets the logger
func WithBinanceLogger(log logger.Logger) BinanceOption {
	return func(b *Binance) {
		b.log = log
	}
}

// WithTestNet uses the Binance spot testnet
func WithTestNet() BinanceOption {
	return func(*Binance) {
		binance.UseTestnet = true
	}
}

// NewBinance creates a kline feed for pair (e.g. "BTCUSDT") and interval
// (e.g. "1m").
func NewBinance(pair, interval string, options ...BinanceOption) *Binance {
	binance.WebsocketKeepalive = true

	b := &Binance{
		log:      logger.Nop(),
		client:   binance.NewClient("", ""),
		pair:     pair,
		interval: interval,
		backoff:  setupBackoffRetry(),
	}
	for _, option := range options {
		option(b)
	}
	return b
}

// History returns the last limit closed bars.
func (b *Binance) History(ctx context.Context, limit int) ([]core.Record, error) {
	data, err := b.client.NewKlinesService().
		Symbol(b.pair).
		Interval(b.interval).
		Limit(limit + 1). // +1 to discard the last incomplete bar
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("binance klines %s: %w", b.pair, err)
	}

	records := make([]core.Record, 0, len(data))
	for i, k := range data {
		if i == len(data)-1 {
			break
		}
		rec, err := convertKline(*k)
		if err != nil {
			b.log.WithError(err).Warn("kline skipped")
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// CandlesByPeriod returns the bars opening within [start, end].
func (b *Binance) CandlesByPeriod(ctx context.Context, start, end time.Time) ([]core.Record, error) {
	data, err := b.client.NewKlinesService().
		Symbol(b.pair).
		Interval(b.interval).
		StartTime(start.UnixMilli()).
		EndTime(end.UnixMilli()).
		Limit(batchSize).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("binance klines %s: %w", b.pair, err)
	}

	records := make([]core.Record, 0, len(data))
	for _, k := range data {
		rec, err := convertKline(*k)
		if err != nil {
			b.log.WithError(err).Warn("kline skipped")
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Run pushes live bars until ctx is done. Bars still open are pushed too,
// so the trailing bar updates in place.
func (b *Binance) Run(ctx context.Context, sink Sink) error {
	for {
		done, stop, err := binance.WsKlineServe(b.pair, b.interval, func(event *binance.WsKlineEvent) {
			b.backoff.Reset()
			rec, err := convertWsKline(event.Kline)
			if err != nil {
				b.log.WithError(err).Warn("kline skipped")
				return
			}
			if err := sink.Push(rec); err != nil {
				b.log.WithField("time", rec.Time).WithError(err).Warn("kline dropped")
			}
		}, func(err error) {
			b.log.WithError(err).Warn("kline stream error")
		})
		if err != nil {
			return fmt.Errorf("binance kline stream %s: %w", b.pair, err)
		}

		select {
		case <-ctx.Done():
			close(stop)
			<-done
			return nil
		case <-done:
			delay := b.backoff.Duration()
			b.log.Warnf("kline stream closed, reconnecting in %s", delay)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(delay):
			}
		}
	}
}

func convertKline(k binance.Kline) (core.Record, error) {
	return bar(k.OpenTime, k.Open, k.High, k.Low, k.Close, k.Volume)
}

func convertWsKline(k binance.WsKline) (core.Record, error) {
	return bar(k.StartTime, k.Open, k.High, k.Low, k.Close, k.Volume)
}

var klineFields = [5]string{"open", "high", "low", "close", "volume"}

// bar parses the kline prices. A malformed field rejects the whole bar
// rather than charting it at zero.
func bar(openTime int64, fields ...string) (core.Record, error) {
	var v [5]float64
	for i, raw := range fields {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return core.Record{}, fmt.Errorf("kline at %d: %s %q: %w", openTime, klineFields[i], raw, core.ErrInvalidRecord)
		}
		v[i] = f
	}
	return core.Bar(time.UnixMilli(openTime).UTC(), v[0], v[1], v[2], v[3]).WithVolume(v[4]), nil
}
