package plot

import (
	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/raykavin/lwcharts/pkg/render"
)

// Message types sent to websocket clients
const (
	TypeScene  = "scene"  // full snapshot, sent once on connect
	TypeAdd    = "add"    // one primitive added
	TypeRemove = "remove" // one primitive removed
	TypeMove   = "move"   // vertices of one primitive replaced
)

// WebSocketMessage represents a message sent over WebSocket
type WebSocketMessage struct {
	Type    string `json:"type"`
	View    string `json:"view,omitempty"`
	Payload any    `json:"payload"`
}

// primitive is the wire form of a render.Primitive.
type primitive struct {
	Handle   render.Handle `json:"handle"`
	Kind     string        `json:"kind"`
	View     string        `json:"view"`
	Tag      string        `json:"tag"`
	Vertices [][2]float64  `json:"vertices"`
	Color    core.Color    `json:"color"`
	Alpha    float64       `json:"alpha"`
	Width    float64       `json:"width,omitempty"`
	Text     string        `json:"text,omitempty"`
	FontSize float64       `json:"font_size,omitempty"`
	Anchor   string        `json:"anchor,omitempty"`
}

func encode(h render.Handle, p render.Primitive) primitive {
	return primitive{
		Handle:   h,
		Kind:     p.Kind.String(),
		View:     p.View,
		Tag:      p.Tag,
		Vertices: vertices(p.Vertices),
		Color:    p.Color,
		Alpha:    p.Alpha,
		Width:    p.Width,
		Text:     p.Text,
		FontSize: p.FontSize,
		Anchor:   p.Anchor,
	}
}

func vertices(points []render.Point) [][2]float64 {
	out := make([][2]float64, len(points))
	for i, p := range points {
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}

// movement is the payload of a move message.
type movement struct {
	Handle   render.Handle `json:"handle"`
	Vertices [][2]float64  `json:"vertices"`
}

// removal is the payload of a remove message.
type removal struct {
	Handle render.Handle `json:"handle"`
}
