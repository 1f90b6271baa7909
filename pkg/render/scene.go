package render

import (
	"sort"
	"strings"
	"sync"
)

// Scene is an in-memory Backend. It keeps every live primitive so headless
// hosts and tests can inspect what would be drawn.
type Scene struct {
	mu         sync.Mutex
	next       Handle
	primitives map[Handle]Primitive
	added      int
	removed    int
	moved      int
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{primitives: make(map[Handle]Primitive)}
}

func (s *Scene) AddPrimitive(p Primitive) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	p.Vertices = append([]Point(nil), p.Vertices...)
	s.primitives[s.next] = p
	s.added++
	return s.next, nil
}

func (s *Scene) RemovePrimitive(h Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.primitives[h]; !ok {
		return ErrUnknownHandle
	}
	delete(s.primitives, h)
	s.removed++
	return nil
}

func (s *Scene) MovePrimitive(h Handle, vertices []Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.primitives[h]
	if !ok {
		return ErrUnknownHandle
	}
	p.Vertices = append([]Point(nil), vertices...)
	s.primitives[h] = p
	s.moved++
	return nil
}

// Len returns the number of live primitives.
func (s *Scene) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.primitives)
}

// Stats returns how many primitives were added, removed and moved over the
// scene's lifetime.
func (s *Scene) Stats() (added, removed, moved int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.added, s.removed, s.moved
}

// Entry is a live primitive and its handle.
type Entry struct {
	Handle    Handle
	Primitive Primitive
}

// Entries returns the live primitives with their handles in insertion order.
func (s *Scene) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	handles := make([]Handle, 0, len(s.primitives))
	for h := range s.primitives {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })

	out := make([]Entry, 0, len(handles))
	for _, h := range handles {
		out = append(out, Entry{Handle: h, Primitive: s.primitives[h]})
	}
	return out
}

// Primitives returns the live primitives in insertion order.
func (s *Scene) Primitives() []Primitive {
	entries := s.Entries()
	out := make([]Primitive, len(entries))
	for i, e := range entries {
		out[i] = e.Primitive
	}
	return out
}

// Find returns the live primitives of a view whose tag starts with prefix.
// An empty view matches every view.
func (s *Scene) Find(view, prefix string) []Primitive {
	var out []Primitive
	for _, p := range s.Primitives() {
		if (view == "" || p.View == view) && strings.HasPrefix(p.Tag, prefix) {
			out = append(out, p)
		}
	}
	return out
}
