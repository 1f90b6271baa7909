package feed

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jpillora/backoff"
	"github.com/raykavin/lwcharts/pkg/logger"
)

// Websocket reads a JSON trade stream and pushes aggregated bars. Each
// message is one Trade: {"price": 101.5, "qty": 0.3, "ts": 1700000000000}.
type Websocket struct {
	log        logger.Logger
	url        string
	aggregator *Aggregator
	backoff    *backoff.Backoff
	dialer     *websocket.Dialer
}

// WebsocketOption defines a function type for configuring a Websocket
type WebsocketOption func(*Websocket)

// WithWebsocketLogger sets the logger
func WithWebsocketLogger(log logger.Logger) WebsocketOption {
	return func(w *Websocket) {
		w.log = log
	}
}

// WithReconnect sets the reconnect delays
func WithReconnect(minDelay, maxDelay time.Duration) WebsocketOption {
	return func(w *Websocket) {
		w.backoff = &backoff.Backoff{Min: minDelay, Max: maxDelay}
	}
}

// NewWebsocket creates a trade stream feed on rawURL bucketing trades by
// timeframe.
func NewWebsocket(rawURL, timeframe string, options ...WebsocketOption) (*Websocket, error) {
	if _, err := url.Parse(rawURL); err != nil {
		return nil, err
	}
	aggregator, err := NewAggregator(timeframe)
	if err != nil {
		return nil, err
	}

	w := &Websocket{
		log:        logger.Nop(),
		url:        rawURL,
		aggregator: aggregator,
		backoff:    setupBackoffRetry(),
		dialer:     websocket.DefaultDialer,
	}
	for _, option := range options {
		option(w)
	}
	return w, nil
}

// setupBackoffRetry creates a backoff with sensible defaults
func setupBackoffRetry() *backoff.Backoff {
	return &backoff.Backoff{
		Min: 100 * time.Millisecond,
		Max: 1 * time.Second,
	}
}

// Run streams until ctx is done, reconnecting with backoff on disconnect.
func (w *Websocket) Run(ctx context.Context, sink Sink) error {
	for {
		err := w.runOnce(ctx, sink)
		if ctx.Err() != nil {
			return nil
		}

		delay := w.backoff.Duration()
		w.log.WithError(err).Warnf("trade stream disconnected, reconnecting in %s", delay)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
	}
}

func (w *Websocket) runOnce(ctx context.Context, sink Sink) error {
	conn, _, err := w.dialer.DialContext(ctx, w.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	w.log.WithField("url", w.url).Info("trade stream connected")

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "shutdown"))
			conn.Close()
		case <-stop:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		w.backoff.Reset()

		var trade Trade
		if err := json.Unmarshal(raw, &trade); err != nil {
			w.log.WithError(err).Warn("malformed trade skipped")
			continue
		}

		bar, err := w.aggregator.Add(trade)
		if err != nil {
			w.log.WithError(err).Warn("trade skipped")
			continue
		}
		if err := sink.Push(bar); err != nil {
			w.log.WithField("time", bar.Time).WithError(err).Warn("bar dropped")
		}
	}
}
