// Package plot serves a chart's scene to browsers: a rendering backend that
// keeps the primitives in memory and streams every change over WebSocket.
package plot

import (
	"sync/atomic"
	"time"

	"github.com/raykavin/lwcharts/pkg/logger"
	"github.com/raykavin/lwcharts/pkg/render"
)

// Remote is a render.Backend mirroring an in-memory scene to websocket
// clients. Draw calls never block on the network.
type Remote struct {
	scene      *render.Scene
	hub        *WebSocketManager
	lastUpdate atomic.Int64
}

// NewRemote creates a backend broadcasting through a new WebSocketManager.
func NewRemote(log logger.Logger) *Remote {
	if log == nil {
		log = logger.Nop()
	}
	r := &Remote{scene: render.NewScene()}
	r.hub = NewWebSocketManager(log, r.scene)
	r.touch()
	return r
}

// Scene returns the mirrored scene.
func (r *Remote) Scene() *render.Scene { return r.scene }

// Hub returns the websocket manager.
func (r *Remote) Hub() *WebSocketManager { return r.hub }

// LastUpdate returns when the scene last changed.
func (r *Remote) LastUpdate() time.Time {
	return time.Unix(0, r.lastUpdate.Load())
}

func (r *Remote) touch() {
	r.lastUpdate.Store(time.Now().UnixNano())
}

func (r *Remote) AddPrimitive(p render.Primitive) (render.Handle, error) {
	h, err := r.scene.AddPrimitive(p)
	if err != nil {
		return 0, err
	}
	r.touch()
	r.hub.Broadcast(WebSocketMessage{Type: TypeAdd, View: p.View, Payload: encode(h, p)})
	return h, nil
}

func (r *Remote) RemovePrimitive(h render.Handle) error {
	if err := r.scene.RemovePrimitive(h); err != nil {
		return err
	}
	r.touch()
	r.hub.Broadcast(WebSocketMessage{Type: TypeRemove, Payload: removal{Handle: h}})
	return nil
}

func (r *Remote) MovePrimitive(h render.Handle, points []render.Point) error {
	if err := r.scene.MovePrimitive(h, points); err != nil {
		return err
	}
	r.touch()
	r.hub.Broadcast(WebSocketMessage{Type: TypeMove, Payload: movement{Handle: h, Vertices: vertices(points)}})
	return nil
}

// Close stops broadcasting and disconnects every client.
func (r *Remote) Close() {
	r.hub.Close()
}
