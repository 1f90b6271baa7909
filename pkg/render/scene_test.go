package render

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// rejecting wraps a scene without exposing MovePrimitive and refuses
// primitives tagged "bad".
type rejecting struct{ scene *Scene }

func (r rejecting) AddPrimitive(p Primitive) (Handle, error) {
	if p.Tag == "bad" {
		return 0, errors.New("rejected")
	}
	return r.scene.AddPrimitive(p)
}

func (r rejecting) RemovePrimitive(h Handle) error {
	return r.scene.RemovePrimitive(h)
}

func TestScene_AddRemove(t *testing.T) {
	scene := NewScene()
	h, err := scene.AddPrimitive(Primitive{Kind: KindPolyline, View: "main", Tag: "series:close"})
	require.NoError(t, err)
	require.Equal(t, 1, scene.Len())
	require.Len(t, scene.Find("main", "series:"), 1)
	require.Empty(t, scene.Find("volume", "series:"))

	require.NoError(t, scene.RemovePrimitive(h))
	require.ErrorIs(t, scene.RemovePrimitive(h), ErrUnknownHandle)
	require.Equal(t, 0, scene.Len())

	added, removed, _ := scene.Stats()
	require.Equal(t, 1, added)
	require.Equal(t, 1, removed)
}

func TestMove(t *testing.T) {
	scene := NewScene()
	h, err := scene.AddPrimitive(Primitive{Kind: KindText, Text: "$10.00", Vertices: []Point{{1, 0}}})
	require.NoError(t, err)

	moved, err := Move(scene, h, Primitive{Kind: KindText, Text: "$10.00", Vertices: []Point{{5, 0}}})
	require.NoError(t, err)
	require.Equal(t, h, moved)
	require.Equal(t, 5.0, scene.Primitives()[0].Vertices[0].X)

	// backends without Mover get remove + add
	backend := rejecting{scene}
	moved, err = Move(backend, h, Primitive{Kind: KindText, Text: "$10.00", Vertices: []Point{{7, 0}}})
	require.NoError(t, err)
	require.NotEqual(t, h, moved)
	require.Equal(t, 1, scene.Len())
	_, _, n := scene.Stats()
	require.Equal(t, 1, n)
}

func TestReplace(t *testing.T) {
	scene := NewScene()
	handles, err := Replace(scene, nil, []Primitive{{Tag: "a"}, {Tag: "b"}})
	require.NoError(t, err)
	require.Len(t, handles, 2)

	handles, err = Replace(scene, handles, []Primitive{{Tag: "c"}})
	require.NoError(t, err)
	require.Len(t, handles, 1)
	require.Equal(t, "c", scene.Primitives()[0].Tag)

	backend := rejecting{scene}
	handles, err = Replace(backend, handles, []Primitive{{Tag: "d"}, {Tag: "bad"}, {Tag: "e"}})
	require.Error(t, err)
	require.Len(t, handles, 1)
	remaining, err := Remove(scene, handles)
	require.NoError(t, err)
	require.Empty(t, remaining)
	require.Equal(t, 0, scene.Len())
}

// flaky refuses the next removals while failures is positive.
type flaky struct {
	scene    *Scene
	failures int
	adds     int
}

func (f *flaky) AddPrimitive(p Primitive) (Handle, error) {
	f.adds++
	return f.scene.AddPrimitive(p)
}

func (f *flaky) RemovePrimitive(h Handle) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("backend busy")
	}
	return f.scene.RemovePrimitive(h)
}

func TestReplace_KeepsHandlesThatFailedToRemove(t *testing.T) {
	backend := &flaky{scene: NewScene()}
	handles, err := Replace(backend, nil, []Primitive{{Tag: "a"}, {Tag: "b"}})
	require.NoError(t, err)

	backend.failures = 1
	handles, err = Replace(backend, handles, []Primitive{{Tag: "c"}})
	require.Error(t, err)
	require.Len(t, handles, 1)
	require.Equal(t, 1, backend.scene.Len())
	require.Equal(t, 2, backend.adds, "new geometry is skipped for the failed frame")

	// the next frame retries the leftover and draws again
	handles, err = Replace(backend, handles, []Primitive{{Tag: "c"}})
	require.NoError(t, err)
	require.Len(t, handles, 1)
	require.Equal(t, "c", backend.scene.Primitives()[0].Tag)

	backend.failures = 1
	remaining, err := Remove(backend, handles)
	require.Error(t, err)
	require.Equal(t, handles, remaining)

	remaining, err = Remove(backend, remaining)
	require.NoError(t, err)
	require.Empty(t, remaining)
	require.Zero(t, backend.scene.Len())
}

func TestRemove_UnknownHandleCountsAsRemoved(t *testing.T) {
	remaining, err := Remove(NewScene(), []Handle{7})
	require.NoError(t, err)
	require.Empty(t, remaining)
}

func TestMove_LostWhenReAddFails(t *testing.T) {
	scene := NewScene()
	h, err := scene.AddPrimitive(Primitive{Tag: "a"})
	require.NoError(t, err)

	moved, err := Move(rejecting{scene}, h, Primitive{Tag: "bad"})
	require.ErrorIs(t, err, ErrPrimitiveLost)
	require.Zero(t, moved)
	require.Zero(t, scene.Len())
}

func TestKind_String(t *testing.T) {
	require.Equal(t, "segments", KindSegments.String())
	require.Equal(t, "kind(9)", Kind(9).String())
}
