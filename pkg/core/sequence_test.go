package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func daily(n int) []Record {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records := make([]Record, n)
	for i := range records {
		records[i] = Point(base.AddDate(0, 0, i), float64(100+i))
	}
	return records
}

func TestSequence_Upsert(t *testing.T) {
	seq := NewSequence(daily(3))
	last := seq.Last(0)

	appended, err := seq.Upsert(Point(last.Time, 42))
	require.NoError(t, err)
	require.False(t, appended)
	require.Equal(t, 3, seq.Length())
	require.Equal(t, 42.0, seq.Last(0).Value)

	appended, err = seq.Upsert(Point(last.Time.AddDate(0, 0, 1), 43))
	require.NoError(t, err)
	require.True(t, appended)
	require.Equal(t, 4, seq.Length())

	require.ErrorIs(t, seq.Accepts(Point(last.Time.AddDate(0, 0, -5), 1)), ErrOutOfOrder)
	require.NoError(t, seq.Accepts(Point(last.Time.AddDate(0, 0, 1), 1)))
	_, err = seq.Upsert(Point(last.Time.AddDate(0, 0, -5), 1))
	require.ErrorIs(t, err, ErrOutOfOrder)
	require.Equal(t, 4, seq.Length())
}

func TestSequence_Slice(t *testing.T) {
	seq := NewSequence(daily(10))
	require.Len(t, seq.Slice(2, 4), 3)
	require.Len(t, seq.Slice(-3, 40), 10)
	require.Len(t, seq.LastValues(4), 4)
	require.Len(t, NewSequence(nil).Slice(0, 3), 0)

	_, ok := seq.At(10)
	require.False(t, ok)
}

func TestClamp(t *testing.T) {
	require.Equal(t, 0.0, Clamp(-5.0, 0, 9))
	require.Equal(t, 9, Clamp(15, 0, 9))
	require.Equal(t, 4, Clamp(4, 0, 9))
}

func TestFormatPrice(t *testing.T) {
	require.Equal(t, "$12.35", FormatPrice(12.346))
	require.Equal(t, "$1.50K", FormatPrice(1500))
	require.Equal(t, "$-2.00M", FormatPrice(-2e6))
	require.Equal(t, "$3.10B", FormatPrice(3.1e9))
	require.Equal(t, "1.20K", FormatVolume(1200))
	require.Equal(t, "999", FormatVolume(999))
	require.Equal(t, int64(3), NumDecPlaces(1.125))
}
