package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReplay_PushesEverything(t *testing.T) {
	var reported []int
	replay := NewReplay(bars(5), time.Millisecond, WithProgress(func(done, total int) {
		require.Equal(t, 5, total)
		reported = append(reported, done)
	}))
	require.Equal(t, 5, replay.Len())

	sink := &collector{}
	require.NoError(t, replay.Run(context.Background(), sink))
	require.Equal(t, bars(5), sink.Records())
	require.Equal(t, []int{1, 2, 3, 4, 5}, reported)
}

func TestReplay_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &collector{}
	err := NewReplay(bars(5), time.Hour).Run(ctx, sink)
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, sink.Len())
}
