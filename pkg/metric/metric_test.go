package metric

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New("lwcharts", reg)
	require.NoError(t, err)

	m.Frame(2 * time.Millisecond)
	m.Frame(time.Millisecond)
	m.BackendFailure("series")
	m.Dropped()
	m.Inbox(7)
	m.Update(true)
	m.Update(false)
	m.CrosshairMove()

	require.Equal(t, 2.0, testutil.ToFloat64(m.FramesTotal))
	require.Equal(t, 1.0, testutil.ToFloat64(m.BackendFailures.WithLabelValues("series")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.InboxDropped))
	require.Equal(t, 7.0, testutil.ToFloat64(m.InboxLength))
	require.Equal(t, 1.0, testutil.ToFloat64(m.UpdatesApplied))
	require.Equal(t, 1.0, testutil.ToFloat64(m.UpdatesRejected))
	require.Equal(t, 1.0, testutil.ToFloat64(m.CrosshairMoves))

	_, err = New("lwcharts", reg)
	require.Error(t, err)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.Frame(time.Second)
		m.BackendFailure("axis")
		m.Dropped()
		m.Inbox(1)
		m.Update(true)
		m.CrosshairMove()
	})
}

func TestSummarize(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	s := Summarize(values, 200)
	require.Equal(t, 10, s.Count)
	require.Equal(t, 1.0, s.Min)
	require.Equal(t, 10.0, s.Max)
	require.InDelta(t, 5.5, s.Mean, 1e-9)
	require.LessOrEqual(t, s.MeanInterval.Lower, s.MeanInterval.Upper)
	require.GreaterOrEqual(t, s.MeanInterval.Lower, 1.0)
	require.LessOrEqual(t, s.MeanInterval.Upper, 10.0)

	require.Equal(t, Summary{}, Summarize(nil, 10))
}

func TestBootstrap_ConstantSample(t *testing.T) {
	ci := Bootstrap([]float64{3, 3, 3}, func(s []float64) float64 { return s[0] }, 50, 0.9)
	require.Equal(t, 3.0, ci.Lower)
	require.Equal(t, 3.0, ci.Upper)
	require.Equal(t, 3.0, ci.Mean)
}
