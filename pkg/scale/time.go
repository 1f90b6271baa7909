package scale

import (
	"math"

	"github.com/raykavin/lwcharts/pkg/core"
	"gonum.org/v1/gonum/floats"
)

// ZoomCenter anchors zooming at the middle of the visible window.
const ZoomCenter = 0.5

// Range is a visible window of fractional record indices.
type Range struct {
	Start float64
	End   float64
}

// Width returns End - Start.
func (r Range) Width() float64 {
	return r.End - r.Start
}

// Contains reports whether x lies inside the window, bounds included.
func (r Range) Contains(x float64) bool {
	return x >= r.Start && x <= r.End
}

// TimeScale owns the record sequence shared by every pane and the visible
// window into it. Panes navigate it; only the chart replaces its data.
type TimeScale struct {
	data    *core.Sequence
	visible Range
}

// NewTimeScale creates a time scale spanning records.
func NewTimeScale(records []core.Record) *TimeScale {
	t := &TimeScale{data: core.NewSequence(nil)}
	t.SetData(records)
	return t
}

// SetData replaces the record sequence and resets the window to span it.
func (t *TimeScale) SetData(records []core.Record) {
	t.data.Replace(records)
	t.visible = Range{}
	if n := len(records); n > 0 {
		t.visible = Range{Start: 0, End: float64(n - 1)}
	}
}

// Upsert applies a live update to the shared sequence. When the window
// already ended on the trailing record it follows the new tail.
func (t *TimeScale) Upsert(rec core.Record) (bool, error) {
	prevLast := float64(t.data.Length() - 1)
	following := t.data.Length() == 0 || t.visible.End >= prevLast

	appended, err := t.data.Upsert(rec)
	if err != nil || !appended {
		return appended, err
	}

	if t.data.Length() == 1 {
		t.visible = Range{}
	} else if following {
		t.SetVisibleRange(t.visible.Start+1, t.visible.End+1)
	}
	return true, nil
}

// Accepts reports whether Upsert would take rec.
func (t *TimeScale) Accepts(rec core.Record) error {
	return t.data.Accepts(rec)
}

// Len returns the number of records.
func (t *TimeScale) Len() int {
	return t.data.Length()
}

// Data returns every record. The slice must not be mutated.
func (t *TimeScale) Data() []core.Record {
	return t.data.Values()
}

// At returns the record at index i.
func (t *TimeScale) At(i int) (core.Record, bool) {
	return t.data.At(i)
}

// VisibleRange returns the current window.
func (t *TimeScale) VisibleRange() Range {
	return t.visible
}

// SetVisibleRange clamps start to [0, len-1] and end to [start, len-1].
// With no data the window collapses to (0, 0).
func (t *TimeScale) SetVisibleRange(start, end float64) {
	n := t.data.Length()
	if n == 0 {
		t.visible = Range{}
		return
	}
	if math.IsNaN(start) || math.IsNaN(end) {
		return
	}

	last := float64(n - 1)
	start = core.Clamp(start, 0, last)
	end = core.Clamp(end, start, last)
	t.visible = Range{Start: start, End: end}
}

// Pan shifts the window by delta records. Hitting an edge compresses the
// window instead of failing.
func (t *TimeScale) Pan(delta float64) {
	t.SetVisibleRange(t.visible.Start+delta, t.visible.End+delta)
}

// Zoom resizes the window by 1/factor around the index found at fraction
// center of the current window, which stays fixed on screen. factor > 1
// zooms in. Non-positive factors are ignored.
func (t *TimeScale) Zoom(factor, center float64) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return
	}
	center = core.Clamp(center, 0, 1)

	size := t.visible.Width()
	newSize := size / factor
	anchor := t.visible.Start + size*center

	t.SetVisibleRange(anchor-newSize*center, anchor+newSize*(1-center))
}

// VisibleData returns records [floor(start), floor(end)] inclusive.
func (t *TimeScale) VisibleData() []core.Record {
	return VisibleSlice(t.data.Values(), t.visible)
}

// VisibleSlice cuts the records covered by r out of records.
func VisibleSlice(records []core.Record, r Range) []core.Record {
	if len(records) == 0 {
		return nil
	}
	from := core.Clamp(int(math.Floor(r.Start)), 0, len(records)-1)
	to := core.Clamp(int(math.Floor(r.End)), from, len(records)-1)
	return records[from : to+1]
}

// TimeLabel is a tick on the time axis.
type TimeLabel struct {
	Index int
	Text  string
}

// Labels returns up to n evenly spaced date labels over the visible records.
func (t *TimeScale) Labels(n int) []TimeLabel {
	visible := t.VisibleData()
	if len(visible) == 0 || n <= 0 {
		return nil
	}

	offset := int(math.Floor(t.visible.Start))
	indices := make([]int, 0, n)
	if len(visible) <= n || n == 1 {
		for i := 0; i < len(visible) && i < n; i++ {
			indices = append(indices, i)
		}
	} else {
		for _, f := range floats.Span(make([]float64, n), 0, float64(len(visible)-1)) {
			indices = append(indices, int(f))
		}
	}

	labels := make([]TimeLabel, 0, len(indices))
	for _, i := range indices {
		labels = append(labels, TimeLabel{
			Index: offset + i,
			Text:  visible[i].Time.Format("2006-01-02"),
		})
	}
	return labels
}
