package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func tradeServer(t *testing.T, messages ...string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, msg := range messages {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}
		}
		// hold the connection until the client goes away
		_, _, _ = conn.ReadMessage()
	}))
	t.Cleanup(server.Close)
	return server
}

func TestWebsocket_AggregatesTrades(t *testing.T) {
	server := tradeServer(t,
		`{"price": 100, "qty": 1, "ts": 1704103200000}`,
		`not json`,
		`{"price": 105, "qty": 2, "ts": 1704103210000}`,
		`{"price": 101, "qty": 1, "ts": 1704103260000}`,
	)

	ws, err := NewWebsocket("ws"+strings.TrimPrefix(server.URL, "http"), "1m", WithReconnect(time.Millisecond, 10*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sink := &collector{}
	done := make(chan error, 1)
	go func() { done <- ws.Run(ctx, sink) }()

	require.Eventually(t, func() bool { return sink.Len() >= 3 }, 4*time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	records := sink.Records()[:3]
	require.Equal(t, 100.0, records[0].Close)
	require.Equal(t, 105.0, records[1].High)
	require.Equal(t, 3.0, records[1].Volume)
	require.Equal(t, records[0].Time, records[1].Time)
	require.Equal(t, records[0].Time.Add(time.Minute), records[2].Time)
}

func TestNewWebsocket_InvalidTimeframe(t *testing.T) {
	_, err := NewWebsocket("ws://localhost:1/trades", "soon")
	require.Error(t, err)
}
