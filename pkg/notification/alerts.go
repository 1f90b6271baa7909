// Package notification sends price alerts when live bars cross the levels
// marked on a chart.
package notification

import (
	"fmt"
	"slices"
	"sync"

	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/raykavin/lwcharts/pkg/logger"
)

// Notifier delivers a text message.
type Notifier interface {
	Notify(text string)
}

// Direction of a level cross.
type Direction int

const (
	Above Direction = iota + 1 // closed above a level it was below
	Below                      // closed below a level it was above
)

func (d Direction) String() string {
	if d == Above {
		return "above"
	}
	return "below"
}

// Cross is one level crossed by a bar close.
type Cross struct {
	Symbol    string
	Level     float64
	Close     float64
	Direction Direction
	Record    core.Record
}

// Message renders the cross for humans.
func (c Cross) Message() string {
	return fmt.Sprintf("%s closed %s %s at %s (%s)",
		c.Symbol, c.Direction, core.FormatPrice(c.Level), core.FormatPrice(c.Close),
		c.Record.Time.Format("2006-01-02 15:04"))
}

// Alerts watches closes and notifies every notifier once per level cross.
// It is a feed sink, safe to push from a producer goroutine.
type Alerts struct {
	mu        sync.Mutex
	log       logger.Logger
	symbol    string
	levels    []float64
	notifiers []Notifier
	last      float64
	seen      bool
}

// AlertsOption defines a function type for configuring Alerts
type AlertsOption func(*Alerts)

// WithAlertsLogger sets the logger
func WithAlertsLogger(log logger.Logger) AlertsOption {
	return func(a *Alerts) {
		a.log = log
	}
}

// WithNotifier adds a notifier
func WithNotifier(n Notifier) AlertsOption {
	return func(a *Alerts) {
		a.notifiers = append(a.notifiers, n)
	}
}

// NewAlerts watches levels of symbol.
func NewAlerts(symbol string, levels []float64, options ...AlertsOption) *Alerts {
	a := &Alerts{
		log:    logger.Nop(),
		symbol: symbol,
		levels: slices.Sorted(slices.Values(levels)),
	}
	for _, option := range options {
		option(a)
	}
	return a
}

// Levels returns the watched levels in ascending order.
func (a *Alerts) Levels() []float64 {
	return slices.Clone(a.levels)
}

// Push checks the record's close (or value) against the levels. The first
// record only sets the reference price.
func (a *Alerts) Push(rec core.Record) error {
	price, ok := rec.Get(core.FieldClose)
	if !ok {
		if price, ok = rec.Get(core.FieldValue); !ok {
			return fmt.Errorf("%w: no close or value", core.ErrInvalidRecord)
		}
	}

	a.mu.Lock()
	crosses := a.crosses(price, rec)
	a.last, a.seen = price, true
	a.mu.Unlock()

	for _, c := range crosses {
		msg := c.Message()
		a.log.WithFields(map[string]any{"level": c.Level, "close": c.Close}).Info(msg)
		for _, n := range a.notifiers {
			n.Notify(msg)
		}
	}
	return nil
}

func (a *Alerts) crosses(price float64, rec core.Record) []Cross {
	if !a.seen || price == a.last {
		return nil
	}

	var out []Cross
	for _, level := range a.levels {
		switch {
		case a.last < level && price >= level:
			out = append(out, Cross{Symbol: a.symbol, Level: level, Close: price, Direction: Above, Record: rec})
		case a.last > level && price <= level:
			out = append(out, Cross{Symbol: a.symbol, Level: level, Close: price, Direction: Below, Record: rec})
		}
	}
	return out
}
