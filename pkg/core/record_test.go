package core

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRecord_Constructors(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	p := Point(ts, 10)
	require.True(t, p.Has(FieldTime|FieldValue))
	require.False(t, p.IsOHLC())

	b := Bar(ts, 1, 3, 0.5, 2).WithVolume(100)
	require.True(t, b.IsOHLC())
	require.True(t, b.Has(FieldVolume))

	low, high, ok := b.Bounds()
	require.True(t, ok)
	require.Equal(t, 0.5, low)
	require.Equal(t, 3.0, high)
}

func TestRecord_Missing(t *testing.T) {
	rec := Record{Fields: FieldTime | FieldOpen | FieldHigh | FieldClose}
	require.Equal(t, FieldLow, rec.Missing(FieldTime|OHLCFields))
	require.Equal(t, Field(0), rec.Missing(FieldTime|FieldOpen))
	require.Equal(t, "low", FieldLow.String())
	require.Equal(t, "open|close", (FieldOpen | FieldClose).String())
}

func TestRecordFromMap(t *testing.T) {
	rec, err := RecordFromMap(map[string]any{
		"time":  "2024-01-02T00:00:00Z",
		"open":  1.0,
		"high":  "2.5",
		"low":   1,
		"close": 2.0,
	})
	require.NoError(t, err)
	require.True(t, rec.IsOHLC())
	require.False(t, rec.Has(FieldVolume))
	require.Equal(t, 2.5, rec.High)
	require.Equal(t, 2024, rec.Time.Year())

	rec, err = RecordFromMap(map[string]any{"value": 3.0})
	require.NoError(t, err)
	require.Equal(t, FieldTime, rec.Missing(FieldTime|FieldValue))

	_, err = RecordFromMap(map[string]any{"time": 1704067200, "value": []int{1}})
	require.True(t, errors.Is(err, ErrInvalidRecord))
}

func TestDataError(t *testing.T) {
	err := error(&DataError{Series: "LineSeries", Index: 3, Field: FieldValue, Err: ErrMissingField})
	require.ErrorIs(t, err, ErrMissingField)
	require.Contains(t, err.Error(), "index 3")
	require.Contains(t, err.Error(), `"value"`)
}

func TestColor(t *testing.T) {
	c := Color("#FF0000").WithAlpha(0.5)
	require.Equal(t, RGBA{R: 1, A: 0.5}, c)
	require.Equal(t, RGBA{A: 1}, Color("nope").RGBA())
}
