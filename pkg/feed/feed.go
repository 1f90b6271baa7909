// Package feed produces records for a chart: files, replays and live
// exchange streams. Producers run on their own goroutines and only talk to
// the chart through a Sink.
package feed

import (
	"errors"

	"github.com/raykavin/lwcharts/pkg/chart"
	"github.com/raykavin/lwcharts/pkg/core"
)

// Sink consumes the records of a feed. Push must not block for long.
type Sink interface {
	Push(rec core.Record) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(rec core.Record) error

// Push calls f.
func (f SinkFunc) Push(rec core.Record) error { return f(rec) }

// Route sends one record to a chart series. With Source set the series
// gets a point built from that field, e.g. a volume histogram fed from bars.
type Route struct {
	Pane     string
	Series   string
	Source   core.Field
	Timeline bool
}

func (r Route) update(rec core.Record) (chart.Update, bool) {
	if r.Source != 0 {
		v, ok := rec.Get(r.Source)
		if !ok {
			return chart.Update{}, false
		}
		rec = core.Point(rec.Time, v)
	}
	return chart.Update{Pane: r.Pane, Series: r.Series, Record: rec, Timeline: r.Timeline}, true
}

// ToChart returns a Sink pushing every record into the chart inbox along
// the routes. Exactly one route should carry Timeline.
func ToChart(inbox *chart.Inbox, routes ...Route) Sink {
	return SinkFunc(func(rec core.Record) error {
		var errs []error
		for _, route := range routes {
			if u, ok := route.update(rec); ok {
				errs = append(errs, inbox.Push(u))
			}
		}
		return errors.Join(errs...)
	})
}

// Tee returns a Sink pushing every record to each sink in order. Every sink
// gets the record even when an earlier one fails.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(rec core.Record) error {
		var errs []error
		for _, sink := range sinks {
			errs = append(errs, sink.Push(rec))
		}
		return errors.Join(errs...)
	})
}
