package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the render loop. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	FramesTotal     prometheus.Counter
	FrameDuration   prometheus.Histogram
	BackendFailures *prometheus.CounterVec // labels: component
	UpdatesApplied  prometheus.Counter
	UpdatesRejected prometheus.Counter
	InboxDropped    prometheus.Counter
	InboxLength     prometheus.Gauge
	CrosshairMoves  prometheus.Counter
}

// New creates the collectors under namespace and registers them on reg.
func New(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		FramesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames reconciled and rendered",
		}),
		FrameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Time spent reconciling one frame",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.004, 0.008, 0.016, 0.033, 0.1},
		}),
		BackendFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_failures_total",
			Help:      "Draw calls rejected by the rendering backend",
		}, []string{"component"}),
		UpdatesApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_applied_total",
			Help:      "Live updates drained from the inbox and applied",
		}),
		UpdatesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_rejected_total",
			Help:      "Live updates drained from the inbox and rejected",
		}),
		InboxDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inbox_dropped_total",
			Help:      "Live updates dropped because the inbox was full",
		}),
		InboxLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "inbox_length",
			Help:      "Live updates waiting for the next tick",
		}),
		CrosshairMoves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "crosshair_moves_total",
			Help:      "Crosshair move notifications emitted",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.FramesTotal,
		m.FrameDuration,
		m.BackendFailures,
		m.UpdatesApplied,
		m.UpdatesRejected,
		m.InboxDropped,
		m.InboxLength,
		m.CrosshairMoves,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) Frame(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.FramesTotal.Inc()
	m.FrameDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) BackendFailure(component string) {
	if m == nil {
		return
	}
	m.BackendFailures.WithLabelValues(component).Inc()
}

func (m *Metrics) Update(applied bool) {
	if m == nil {
		return
	}
	if applied {
		m.UpdatesApplied.Inc()
		return
	}
	m.UpdatesRejected.Inc()
}

func (m *Metrics) Dropped() {
	if m == nil {
		return
	}
	m.InboxDropped.Inc()
}

func (m *Metrics) Inbox(length int) {
	if m == nil {
		return
	}
	m.InboxLength.Set(float64(length))
}

func (m *Metrics) CrosshairMove() {
	if m == nil {
		return
	}
	m.CrosshairMoves.Inc()
}
