package feed

import (
	"testing"

	"github.com/adshao/go-binance/v2"
	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/stretchr/testify/require"
)

func TestConvertKlines(t *testing.T) {
	rec, err := convertKline(binance.Kline{
		OpenTime: 1704067200000,
		Open:     "42000.5",
		High:     "42100",
		Low:      "41900",
		Close:    "42050",
		Volume:   "12.5",
	})
	require.NoError(t, err)
	require.Equal(t, "2024-01-01T00:00:00Z", rec.Time.Format("2006-01-02T15:04:05Z07:00"))
	require.Equal(t, 42000.5, rec.Open)
	require.Equal(t, 42050.0, rec.Close)
	require.Equal(t, 12.5, rec.Volume)
	require.True(t, rec.IsOHLC())

	live, err := convertWsKline(binance.WsKline{StartTime: 1704067260000, Open: "1", High: "2", Low: "0.5", Close: "1.5", Volume: "3"})
	require.NoError(t, err)
	require.Equal(t, 2.0, live.High)
	require.Equal(t, 1704067260000, int(live.Time.UnixMilli()))
}

func TestConvertKlines_MalformedField(t *testing.T) {
	_, err := convertKline(binance.Kline{OpenTime: 1704067200000, Open: "1", High: "n/a", Low: "0.5", Close: "1.5", Volume: "3"})
	require.ErrorIs(t, err, core.ErrInvalidRecord)
	require.ErrorContains(t, err, "high")

	_, err = convertWsKline(binance.WsKline{StartTime: 1704067260000, Open: "1", High: "2", Low: "0.5", Close: "1.5", Volume: ""})
	require.ErrorIs(t, err, core.ErrInvalidRecord)
}
