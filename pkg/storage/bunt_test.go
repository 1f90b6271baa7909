package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/raykavin/lwcharts/pkg/logger"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func bar(day int, close float64) core.Record {
	return core.Bar(base.AddDate(0, 0, day), close-1, close+1, close-2, close).WithVolume(10)
}

func TestBars_PushAndLoad(t *testing.T) {
	store, err := NewFromMemory(logger.Nop())
	require.NoError(t, err)
	defer store.Close()

	// out of order on purpose: loading sorts by time
	require.NoError(t, store.PushAll([]core.Record{bar(2, 12), bar(0, 10), bar(1, 11)}))
	require.NoError(t, store.Push(bar(1, 15)))

	n, err := store.Len()
	require.NoError(t, err)
	require.Equal(t, 3, n)

	records, err := store.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, base, records[0].Time)
	require.Equal(t, 15.0, records[1].Close)
	require.Equal(t, 14.0, records[1].Open)
	require.Equal(t, 10.0, records[1].Volume)
	require.True(t, records[1].IsOHLC())
	require.True(t, records[1].Has(core.FieldVolume))
	require.False(t, records[1].Has(core.FieldValue))
}

func TestBars_Filters(t *testing.T) {
	store, err := NewFromMemory(nil)
	require.NoError(t, err)
	defer store.Close()

	for day := range 10 {
		require.NoError(t, store.Push(bar(day, float64(100+day))))
	}

	records, err := store.Records(context.Background(),
		WithSince(base.AddDate(0, 0, 3)),
		WithUntil(base.AddDate(0, 0, 5)),
	)
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, 103.0, records[0].Close)
	require.Equal(t, 105.0, records[2].Close)
}

func TestBars_Points(t *testing.T) {
	store, err := NewFromMemory(nil)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Push(core.Point(base, 42)))
	records, err := store.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, 42.0, records[0].Value)
	require.False(t, records[0].IsOHLC())

	require.ErrorIs(t, store.Push(core.Record{Value: 1}), core.ErrInvalidRecord)
}

func TestBars_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.db")
	store, err := NewFromFile(nil, path)
	require.NoError(t, err)
	require.NoError(t, store.PushAll([]core.Record{bar(0, 10), bar(1, 11)}))
	require.NoError(t, store.Close())

	store, err = NewFromFile(nil, path)
	require.NoError(t, err)
	defer store.Close()
	records, err := store.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestBars_SeriesNamespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.db")
	btc, err := NewBars(nil, path, Config{Series: "btc"})
	require.NoError(t, err)
	require.NoError(t, btc.Push(bar(0, 10)))
	require.NoError(t, btc.Close())

	eth, err := NewBars(nil, path, Config{Series: "eth"})
	require.NoError(t, err)
	defer eth.Close()
	require.NoError(t, eth.Push(bar(0, 20)))
	require.NoError(t, eth.Push(bar(1, 21)))

	n, err := eth.Len()
	require.NoError(t, err)
	require.Equal(t, 2, n)
	records, err := eth.Records(context.Background())
	require.NoError(t, err)
	require.Equal(t, 20.0, records[0].Close)
}
