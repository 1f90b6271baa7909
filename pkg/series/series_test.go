package series

import (
	"errors"
	"testing"
	"time"

	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/raykavin/lwcharts/pkg/render"
	"github.com/raykavin/lwcharts/pkg/scale"
	"github.com/stretchr/testify/require"
)

var base0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func points(n int) []core.Record {
	records := make([]core.Record, n)
	for i := range records {
		records[i] = core.Point(base0.AddDate(0, 0, i), float64(10+i))
	}
	return records
}

func bars(n int) []core.Record {
	records := make([]core.Record, n)
	for i := range records {
		o := float64(100 + i)
		c := o + 2
		if i%2 == 1 {
			c = o - 2
		}
		records[i] = core.Bar(base0.AddDate(0, 0, i), o, o+5, o-5, c).WithVolume(1000)
	}
	return records
}

func allSeries() []Series {
	var out []Series
	for _, k := range Kinds {
		s, _ := New(k, string(k))
		out = append(out, s)
	}
	return out
}

func TestSetData_EmptyFails(t *testing.T) {
	for _, s := range allSeries() {
		err := s.SetData(nil)
		require.ErrorIs(t, err, core.ErrEmptyData, s.Name())

		var dataErr *core.DataError
		require.True(t, errors.As(err, &dataErr))
		require.Equal(t, s.Name(), dataErr.Series)
	}
}

func TestSetData_MissingFieldNamesFieldAndIndex(t *testing.T) {
	line := NewLine("close", core.DefaultLineStyle())
	records := points(5)
	records[3] = core.Record{Time: records[3].Time, Fields: core.FieldTime}

	err := line.SetData(records)
	require.ErrorIs(t, err, core.ErrMissingField)

	var dataErr *core.DataError
	require.True(t, errors.As(err, &dataErr))
	require.Equal(t, 3, dataErr.Index)
	require.Equal(t, core.FieldValue, dataErr.Field)
	require.Contains(t, err.Error(), `"value"`)
	require.Equal(t, 0, line.Len())

	candles := NewCandlestick("ohlc", core.DefaultCandlestickStyle())
	err = candles.SetData(points(3))
	require.True(t, errors.As(err, &dataErr))
	require.Equal(t, 0, dataErr.Index)
	require.Equal(t, core.FieldOpen, dataErr.Field)

	noTime := bars(2)
	noTime[1].Fields &^= core.FieldTime
	err = candles.SetData(noTime)
	require.True(t, errors.As(err, &dataErr))
	require.Equal(t, core.FieldTime, dataErr.Field)
	require.Equal(t, 1, dataErr.Index)

	require.NoError(t, candles.SetData(bars(3)))
}

func TestUpdate_ReplaceOrAppend(t *testing.T) {
	for _, s := range allSeries() {
		records := points(4)
		if s.Kind() == KindCandlestick {
			records = bars(4)
		}
		require.NoError(t, s.SetData(records))

		last, _ := s.Last()
		replacement := last
		replacement.Value++
		replacement.Close++

		appended, err := s.Update(replacement)
		require.NoError(t, err)
		require.False(t, appended)
		require.Equal(t, 4, s.Len(), s.Name())

		next := last
		next.Time = last.Time.AddDate(0, 0, 1)
		appended, err = s.Update(next)
		require.NoError(t, err)
		require.True(t, appended)
		require.Equal(t, 5, s.Len(), s.Name())

		older := last
		older.Time = base0.AddDate(-1, 0, 0)
		_, err = s.Update(older)
		require.ErrorIs(t, err, core.ErrOutOfOrder)
		require.Equal(t, 5, s.Len())
	}
}

func TestUpdate_ValidatesRecord(t *testing.T) {
	candles := NewCandlestick("ohlc", core.DefaultCandlestickStyle())
	_, err := candles.Update(core.Point(base0, 1))
	require.ErrorIs(t, err, core.ErrMissingField)

	appended, err := candles.Update(bars(1)[0])
	require.NoError(t, err)
	require.True(t, appended)
}

func TestSetData_DoesNotAliasInput(t *testing.T) {
	line := NewLine("close", core.DefaultLineStyle())
	records := points(3)
	require.NoError(t, line.SetData(records))

	_, err := line.Update(core.Point(records[2].Time, 99))
	require.NoError(t, err)
	require.Equal(t, 12.0, records[2].Value)
}

func TestPriceRange(t *testing.T) {
	candles := NewCandlestick("ohlc", core.DefaultCandlestickStyle())
	require.NoError(t, candles.SetData(bars(10)))

	low, high, ok := candles.PriceRange(scale.Range{Start: 2, End: 4})
	require.True(t, ok)
	require.Equal(t, 97.0, low)
	require.Equal(t, 109.0, high)

	line := NewLine("close", core.DefaultLineStyle())
	require.NoError(t, line.SetData(points(10)))
	low, high, ok = line.PriceRange(scale.Range{Start: 0, End: 9})
	require.True(t, ok)
	require.Equal(t, 10.0, low)
	require.Equal(t, 19.0, high)

	_, _, ok = NewLine("empty", core.DefaultLineStyle()).PriceRange(scale.Range{})
	require.False(t, ok)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("area")
	require.NoError(t, err)
	require.Equal(t, KindArea, k)

	_, err = ParseKind("renko")
	require.Error(t, err)

	_, err = New(Kind("renko"), "x")
	require.Error(t, err)
}

func TestRender_ReplacesAndDetaches(t *testing.T) {
	scene := render.NewScene()
	ps := scale.NewPriceScale()
	area := NewArea("equity", core.DefaultAreaStyle())
	require.NoError(t, area.SetData(points(10)))

	r := scale.Range{Start: 0, End: 9}
	require.NoError(t, area.Render(scene, "main", ps, r))
	require.Equal(t, 2, scene.Len())
	require.NoError(t, area.Render(scene, "main", ps, r))
	require.Equal(t, 2, scene.Len())

	area.SetVisible(false)
	require.NoError(t, area.Render(scene, "main", ps, r))
	require.Equal(t, 0, scene.Len())

	area.SetVisible(true)
	require.NoError(t, area.Render(scene, "main", ps, r))
	require.NoError(t, area.Detach(scene))
	require.Equal(t, 0, scene.Len())
}
