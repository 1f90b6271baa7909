package feed

import (
	"fmt"
	"math"
	"time"

	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/xhit/go-str2duration/v2"
)

// Trade is one execution from a trade stream.
type Trade struct {
	Price    float64 `json:"price"`
	Quantity float64 `json:"qty"`
	// Timestamp is in unix milliseconds
	Timestamp int64 `json:"ts"`
}

// Time returns the trade time in UTC.
func (t Trade) Time() time.Time {
	return time.UnixMilli(t.Timestamp).UTC()
}

// Aggregator folds trades into bars of a fixed interval. A trade in the
// current bucket updates the trailing bar; a later bucket starts a new one.
type Aggregator struct {
	interval time.Duration
	current  core.Record
	started  bool
}

// NewAggregator creates an aggregator for a timeframe such as "1m" or "4h".
func NewAggregator(timeframe string) (*Aggregator, error) {
	interval, err := str2duration.ParseDuration(timeframe)
	if err != nil {
		return nil, err
	}
	if interval <= 0 {
		return nil, fmt.Errorf("invalid timeframe %s", timeframe)
	}
	return &Aggregator{interval: interval}, nil
}

// Add folds a trade in and returns the bar it touched. Trades older than
// the current bucket are rejected with core.ErrOutOfOrder.
func (a *Aggregator) Add(trade Trade) (core.Record, error) {
	if math.IsNaN(trade.Price) || trade.Price <= 0 {
		return core.Record{}, fmt.Errorf("%w: price %g", core.ErrInvalidRecord, trade.Price)
	}

	bucket := trade.Time().Truncate(a.interval)
	switch {
	case !a.started || bucket.After(a.current.Time):
		a.current = core.Bar(bucket, trade.Price, trade.Price, trade.Price, trade.Price).WithVolume(trade.Quantity)
		a.started = true
	case bucket.Equal(a.current.Time):
		a.current.High = math.Max(a.current.High, trade.Price)
		a.current.Low = math.Min(a.current.Low, trade.Price)
		a.current.Close = trade.Price
		a.current.Volume += trade.Quantity
	default:
		return core.Record{}, fmt.Errorf("%w: trade at %s", core.ErrOutOfOrder, trade.Time())
	}
	return a.current, nil
}
