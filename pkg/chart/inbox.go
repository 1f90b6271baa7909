package chart

import (
	"context"
	"fmt"
	"time"

	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/raykavin/lwcharts/pkg/metric"
	"github.com/raykavin/lwcharts/pkg/series"
)

// Update is a live record for one series, produced off the UI goroutine.
type Update struct {
	// Pane restricts the series lookup; empty searches every pane.
	Pane   string
	Series string
	Record core.Record
	// Timeline also upserts the record into the shared time scale. Set it
	// on the series that drives the time axis.
	Timeline bool
}

// Inbox is the bounded channel between producers and the chart. Push is
// safe from any goroutine; the chart drains it on Tick.
type Inbox struct {
	ch      chan Update
	metrics *metric.Metrics
}

func newInbox(size int, metrics *metric.Metrics) *Inbox {
	return &Inbox{ch: make(chan Update, size), metrics: metrics}
}

// Push queues an update without blocking. It fails with core.ErrInboxFull
// when the chart is not keeping up.
func (in *Inbox) Push(u Update) error {
	select {
	case in.ch <- u:
		in.metrics.Inbox(len(in.ch))
		return nil
	default:
		in.metrics.Dropped()
		return core.ErrInboxFull
	}
}

// Len returns the number of queued updates.
func (in *Inbox) Len() int {
	return len(in.ch)
}

// Cap returns the inbox capacity.
func (in *Inbox) Cap() int {
	return cap(in.ch)
}

// drain takes what is queued right now; updates pushed meanwhile wait for
// the next tick.
func (in *Inbox) drain() []Update {
	n := len(in.ch)
	out := make([]Update, 0, n)
	for i := 0; i < n; i++ {
		select {
		case u := <-in.ch:
			out = append(out, u)
		default:
			return out
		}
	}
	return out
}

// Inbox returns the update channel for producers.
func (c *Chart) Inbox() *Inbox {
	return c.inbox
}

// Tick applies the queued live updates and keeps the crosshair on the
// pointer. Call it from the UI goroutine on every timer tick.
func (c *Chart) Tick() {
	applied := 0
	for _, u := range c.inbox.drain() {
		if err := c.apply(u); err != nil {
			c.metrics.Update(false)
			c.log.WithFields(map[string]any{
				"pane":   u.Pane,
				"series": u.Series,
			}).WithError(err).Warn("live update rejected")
			continue
		}
		c.metrics.Update(true)
		applied++
	}
	c.metrics.Inbox(c.inbox.Len())

	if applied > 0 {
		c.reconcile(false)
		return
	}
	c.logFailure("crosshair", "", c.crosshair.Tick())
}

func (c *Chart) apply(u Update) error {
	var (
		s   series.Series
		err error
	)
	if u.Pane != "" {
		var p *Pane
		if p, err = c.Pane(u.Pane); err == nil {
			s, err = p.Series(u.Series)
		}
	} else {
		s, err = c.Series(u.Series)
	}
	if err != nil {
		return err
	}

	// the series and the shared time scale change together or not at all
	if u.Timeline {
		if err := c.timeScale.Accepts(u.Record); err != nil {
			return fmt.Errorf("time scale: %w", err)
		}
	}
	if _, err := s.Update(u.Record); err != nil {
		return err
	}
	if u.Timeline {
		if _, err := c.timeScale.Upsert(u.Record); err != nil {
			return fmt.Errorf("time scale: %w", err)
		}
	}
	return nil
}

// Run ticks the chart on every value of ticks until ctx is done or ticks is
// closed. It is meant for headless hosts that own no event loop.
func (c *Chart) Run(ctx context.Context, ticks <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ticks:
			if !ok {
				return nil
			}
			c.Tick()
		}
	}
}
