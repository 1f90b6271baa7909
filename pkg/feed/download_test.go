package feed

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/stretchr/testify/require"
)

// hourly serves one bar per hour, skipping the hours in gaps.
type hourly struct {
	calls int
	gaps  map[int64]bool
	err   error
}

func (h *hourly) CandlesByPeriod(_ context.Context, start, end time.Time) ([]core.Record, error) {
	h.calls++
	if h.err != nil {
		return nil, h.err
	}
	var out []core.Record
	for t := start; !t.After(end); t = t.Add(time.Hour) {
		if h.gaps[t.Unix()] {
			continue
		}
		out = append(out, core.Bar(t, 1, 3, 0.5, 2).WithVolume(10))
	}
	return out, nil
}

func TestDownloader_Download(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	source := &hourly{gaps: map[int64]bool{start.Add(3 * time.Hour).Unix(): true}}
	var progress []int
	d := NewDownloader(source, WithDownloadProgress(func(done, _ int) { progress = append(progress, done) }))

	var buf bytes.Buffer
	period := Period{Start: start, End: start.Add(time.Duration(batchSize+99) * time.Hour)}
	missing, err := d.Download(context.Background(), &buf, "1h", period)
	require.NoError(t, err)
	require.Equal(t, 1, missing)
	require.Equal(t, 2, source.calls)
	require.Equal(t, []int{499, 599}, progress)

	records, err := ParseCSV(&buf)
	require.NoError(t, err)
	require.Len(t, records, 599)
	require.Equal(t, start, records[0].Time)
	require.Equal(t, period.End, records[len(records)-1].Time)
	require.Equal(t, 2.0, records[0].Close)
	require.Equal(t, 10.0, records[0].Volume)
}

func TestDownloader_Errors(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	period := Period{Start: start, End: start.Add(time.Hour)}

	d := NewDownloader(&hourly{})
	_, err := d.Download(context.Background(), &bytes.Buffer{}, "bogus", period)
	require.Error(t, err)
	_, err = d.Download(context.Background(), &bytes.Buffer{}, "1h", Period{Start: start, End: start})
	require.Error(t, err)

	boom := errors.New("boom")
	_, err = NewDownloader(&hourly{err: boom}).Download(context.Background(), &bytes.Buffer{}, "1h", period)
	require.ErrorIs(t, err, boom)
}

func TestWriteCSV_RejectsPoints(t *testing.T) {
	err := WriteCSV(&bytes.Buffer{}, []core.Record{core.Point(time.Now(), 1)}, false)
	require.ErrorIs(t, err, core.ErrInvalidRecord)
}

func TestLastDays(t *testing.T) {
	p := LastDays(2)
	require.Zero(t, p.Start.Hour())
	require.True(t, p.Start.Before(p.End))
	require.WithinDuration(t, time.Now(), p.End, time.Minute)
}
