package render

import (
	"errors"
	"fmt"

	"github.com/raykavin/lwcharts/pkg/core"
)

var (
	// ErrUnknownHandle is returned when removing a primitive the backend never issued.
	ErrUnknownHandle = errors.New("unknown primitive handle")
	// ErrPrimitiveLost is returned by Move when the old primitive was removed
	// but its replacement could not be added. The returned handle is invalid.
	ErrPrimitiveLost = errors.New("primitive lost")
)

// Kind enumerates the primitive shapes a backend must draw.
type Kind int

const (
	KindPolyline Kind = iota // connected line strip
	KindSegments             // batch of independent segments, vertices taken in pairs
	KindPolygon              // closed filled polygon
	KindText                 // text anchored at the first vertex
)

func (k Kind) String() string {
	switch k {
	case KindPolyline:
		return "polyline"
	case KindSegments:
		return "segments"
	case KindPolygon:
		return "polygon"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Point is a 2D coordinate, in data space or in screen pixels depending on
// the caller.
type Point struct {
	X float64
	Y float64
}

// Primitive is one draw command. Vertices are in the data space of the view
// named by View (record index, normalized price).
type Primitive struct {
	Kind     Kind
	View     string
	Tag      string
	Vertices []Point
	Color    core.Color
	Alpha    float64
	Width    float64
	Text     string
	FontSize float64
	Anchor   string // text alignment: left, right or center
}

// Handle identifies a primitive owned by a backend.
type Handle uint64

// Backend is the external scene graph. The core only adds and removes
// primitives; inverse transforms are answered by the view's Camera.
type Backend interface {
	AddPrimitive(p Primitive) (Handle, error)
	RemovePrimitive(h Handle) error
}

// Mover is implemented by backends that can relocate a primitive without
// tearing it down.
type Mover interface {
	MovePrimitive(h Handle, vertices []Point) error
}

// Move relocates a primitive, through Mover when the backend supports it.
// Otherwise the primitive is removed and re-added, which yields a new handle.
// When only the removal fails the old handle is returned and stays valid.
func Move(backend Backend, h Handle, p Primitive) (Handle, error) {
	if m, ok := backend.(Mover); ok {
		return h, m.MovePrimitive(h, p.Vertices)
	}
	if err := backend.RemovePrimitive(h); err != nil {
		return h, err
	}
	moved, err := backend.AddPrimitive(p)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrPrimitiveLost, err)
	}
	return moved, nil
}

// Replace removes the previous primitives and adds the new ones. Handles
// the backend failed to remove are returned instead of the new geometry, so
// the next Replace or Remove retries them and nothing is left untracked.
// Adding stops at the first failure; handles added so far are returned.
func Replace(backend Backend, previous []Handle, next []Primitive) ([]Handle, error) {
	remaining, err := Remove(backend, previous)
	if err != nil {
		return remaining, err
	}

	handles := make([]Handle, 0, len(next))
	for _, p := range next {
		h, err := backend.AddPrimitive(p)
		if err != nil {
			return handles, fmt.Errorf("add %s primitive %q: %w", p.Kind, p.Tag, err)
		}
		handles = append(handles, h)
	}
	return handles, nil
}

// Remove drops every handle and returns the ones still owned by the backend,
// joining the errors. Handles the backend does not know count as removed.
func Remove(backend Backend, handles []Handle) ([]Handle, error) {
	var (
		remaining []Handle
		errs      []error
	)
	for _, h := range handles {
		err := backend.RemovePrimitive(h)
		if err == nil || errors.Is(err, ErrUnknownHandle) {
			continue
		}
		remaining = append(remaining, h)
		errs = append(errs, fmt.Errorf("remove primitive %d: %w", h, err))
	}
	return remaining, errors.Join(errs...)
}
