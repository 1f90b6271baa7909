package feed

import (
	"context"
	"time"

	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/raykavin/lwcharts/pkg/logger"
)

// Replay pushes recorded bars into a sink at a fixed pace, as if they were
// arriving live.
type Replay struct {
	log      logger.Logger
	records  []core.Record
	interval time.Duration
	progress func(done, total int)
}

// ReplayOption defines a function type for configuring a Replay
type ReplayOption func(*Replay)

// WithReplayLogger sets the logger
func WithReplayLogger(log logger.Logger) ReplayOption {
	return func(r *Replay) {
		r.log = log
	}
}

// WithProgress reports every pushed record
func WithProgress(fn func(done, total int)) ReplayOption {
	return func(r *Replay) {
		r.progress = fn
	}
}

// NewReplay creates a replay of records, one every interval. Intervals
// below a millisecond are raised to it.
func NewReplay(records []core.Record, interval time.Duration, options ...ReplayOption) *Replay {
	r := &Replay{
		log:      logger.Nop(),
		records:  records,
		interval: max(interval, time.Millisecond),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Len returns the number of records to replay.
func (r *Replay) Len() int {
	return len(r.records)
}

// Run pushes the records until they run out or ctx is done. A full sink
// drops the record and keeps going.
func (r *Replay) Run(ctx context.Context, sink Sink) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for i, rec := range r.records {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if err := sink.Push(rec); err != nil {
			r.log.WithField("time", rec.Time).WithError(err).Warn("replay record dropped")
		}
		if r.progress != nil {
			r.progress(i+1, len(r.records))
		}
	}

	r.log.WithField("records", len(r.records)).Debug("replay finished")
	return nil
}
