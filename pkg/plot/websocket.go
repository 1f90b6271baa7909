package plot

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/raykavin/lwcharts/pkg/logger"
	"github.com/raykavin/lwcharts/pkg/render"
)

const broadcastBuffer = 1024

// WebSocketManager handles WebSocket connections
type WebSocketManager struct {
	sync.RWMutex
	clients       map[*websocket.Conn]string // connection to view filter, empty for every view
	upgrader      websocket.Upgrader
	broadcastChan chan WebSocketMessage
	log           logger.Logger
	scene         *render.Scene
	closed        bool
	done          chan struct{}
}

// NewWebSocketManager creates a new WebSocket manager for scene
func NewWebSocketManager(log logger.Logger, scene *render.Scene) *WebSocketManager {
	manager := &WebSocketManager{
		clients: make(map[*websocket.Conn]string),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		broadcastChan: make(chan WebSocketMessage, broadcastBuffer),
		log:           log,
		scene:         scene,
		done:          make(chan struct{}),
	}

	go manager.handleBroadcasts()

	return manager
}

// Broadcast queues a message for every client. A full queue drops it.
func (m *WebSocketManager) Broadcast(msg WebSocketMessage) {
	m.RLock()
	defer m.RUnlock()
	if m.closed {
		return
	}

	select {
	case m.broadcastChan <- msg:
	default:
		m.log.WithField("type", msg.Type).Warn("websocket broadcast queue full, message dropped")
	}
}

// Clients returns the number of connected clients.
func (m *WebSocketManager) Clients() int {
	m.RLock()
	defer m.RUnlock()
	return len(m.clients)
}

// handleBroadcasts processes messages from the broadcast channel
func (m *WebSocketManager) handleBroadcasts() {
	defer close(m.done)
	for msg := range m.broadcastChan {
		m.RLock()
		for conn, view := range m.clients {
			if view != "" && msg.View != "" && view != msg.View {
				continue
			}

			if err := conn.WriteJSON(msg); err != nil {
				m.log.WithError(err).Error("websocket write failed")
				conn.Close()
				// handleClient removes the connection once its read fails
			}
		}
		m.RUnlock()
	}
}

// HandleWebSocket handles WebSocket connections. The optional view query
// parameter restricts the stream to one pane.
func (m *WebSocketManager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	view := r.URL.Query().Get("view")

	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.log.WithError(err).Error("websocket upgrade failed")
		return
	}

	// the snapshot is written under the write lock so no broadcast
	// interleaves with it
	m.Lock()
	if m.closed {
		m.Unlock()
		conn.Close()
		return
	}
	err = conn.WriteJSON(WebSocketMessage{Type: TypeScene, View: view, Payload: snapshot(m.scene, view)})
	if err == nil {
		m.clients[conn] = view
	}
	count := len(m.clients)
	m.Unlock()

	if err != nil {
		m.log.WithError(err).Error("websocket snapshot failed")
		conn.Close()
		return
	}
	m.log.WithFields(map[string]any{"view": view, "clients": count}).Info("websocket client connected")

	go m.handleClient(conn)
}

// handleClient processes messages from a client
func (m *WebSocketManager) handleClient(conn *websocket.Conn) {
	defer func() {
		m.Lock()
		delete(m.clients, conn)
		m.log.WithField("clients", len(m.clients)).Info("websocket client disconnected")
		m.Unlock()
		conn.Close()
	}()

	conn.SetPingHandler(func(string) error {
		return conn.WriteControl(websocket.PongMessage, []byte{}, time.Now().Add(10*time.Second))
	})

	// clients send nothing; reading detects disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				m.log.WithError(err).Warn("websocket read failed")
			}
			return
		}
	}
}

// Close stops broadcasting and closes every connection.
func (m *WebSocketManager) Close() {
	m.Lock()
	if m.closed {
		m.Unlock()
		return
	}
	m.closed = true
	close(m.broadcastChan)
	m.Unlock()

	<-m.done

	m.Lock()
	defer m.Unlock()
	for conn := range m.clients {
		conn.Close()
	}
}

func snapshot(scene *render.Scene, view string) []primitive {
	entries := scene.Entries()
	out := make([]primitive, 0, len(entries))
	for _, e := range entries {
		if view != "" && e.Primitive.View != view {
			continue
		}
		out = append(out, encode(e.Handle, e.Primitive))
	}
	return out
}
