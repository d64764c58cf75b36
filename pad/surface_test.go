package pad_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidoo/vpad/pad"
)

func newSurface(rec *recorder) (*pad.Surface, *pad.Component, *pad.Component, *pad.Component) {
	a := pad.NewButton(1, pad.Rect{X: 0, Y: 0, Width: 100, Height: 100}, pad.KeyCodeButtonA)
	// overlaps A on its lower-right corner
	b := pad.NewButton(2, pad.Rect{X: 50, Y: 50, Width: 100, Height: 100}, pad.KeyCodeButtonB)
	d := pad.NewDirectionalPad(3, pad.Rect{X: 300, Y: 0, Width: 200, Height: 200}, testCodes, pad.EightWay)
	return pad.NewSurface(rec, a, b, d), a, b, d
}

func down(index int, pointers ...pad.Pointer) pad.MotionEvent {
	return pad.MotionEvent{Action: pad.MotionPointerDown, Index: index, Pointers: pointers}
}

func up(index int, pointers ...pad.Pointer) pad.MotionEvent {
	return pad.MotionEvent{Action: pad.MotionPointerUp, Index: index, Pointers: pointers}
}

func move(pointers ...pad.Pointer) pad.MotionEvent {
	return pad.MotionEvent{Action: pad.MotionMove, Pointers: pointers}
}

func TestSurfaceFirstDeclaredWins(t *testing.T) {
	rec := &recorder{}
	s, a, b, _ := newSurface(rec)

	assert.True(t, s.Dispatch(down(0, pad.Pointer{ID: 0, X: 75, Y: 75})))
	assert.Equal(t, pad.StateDown, a.State())
	assert.Equal(t, pad.StateUp, b.State())

	// A is taken, so the next pointer in the overlap goes to B
	assert.True(t, s.Dispatch(down(1, pad.Pointer{ID: 0, X: 75, Y: 75}, pad.Pointer{ID: 1, X: 80, Y: 80})))
	assert.Equal(t, pad.StateDown, b.State())
	assert.Equal(t, []edge{
		{pad.ActionDown, pad.KeyCodeButtonA},
		{pad.ActionDown, pad.KeyCodeButtonB},
	}, rec.take())
}

func TestSurfaceMultiTouch(t *testing.T) {
	rec := &recorder{}
	s, a, _, d := newSurface(rec)

	require.True(t, s.Dispatch(pad.MotionEvent{Action: pad.MotionDown, Pointers: []pad.Pointer{{ID: 5, X: 10, Y: 10}}}))
	require.True(t, s.Dispatch(down(1, pad.Pointer{ID: 5, X: 10, Y: 10}, pad.Pointer{ID: 8, X: 490, Y: 100})))
	assert.Equal(t, pad.DirRight, d.State())
	rec.take()

	// one batch moves both pointers
	assert.True(t, s.Dispatch(move(pad.Pointer{ID: 5, X: 11, Y: 11}, pad.Pointer{ID: 8, X: 400, Y: 199})))
	assert.Equal(t, pad.StateDown, a.State())
	assert.Equal(t, pad.DirBottom, d.State())
	assert.Equal(t, []edge{
		{pad.ActionUp, testCodes.Right},
		{pad.ActionDown, testCodes.Bottom},
	}, rec.take())

	// nothing changes: no redraw
	assert.False(t, s.Dispatch(move(pad.Pointer{ID: 5, X: 12, Y: 12}, pad.Pointer{ID: 8, X: 401, Y: 199})))

	assert.True(t, s.Dispatch(up(0, pad.Pointer{ID: 5, X: 12, Y: 12}, pad.Pointer{ID: 8, X: 401, Y: 199})))
	assert.Equal(t, pad.StateUp, a.State())
	assert.Equal(t, pad.DirBottom, d.State())

	assert.True(t, s.Dispatch(pad.MotionEvent{Action: pad.MotionUp, Pointers: []pad.Pointer{{ID: 8, X: 401, Y: 199}}}))
	assert.Equal(t, pad.StateUp, d.State())
}

func TestSurfaceMoveNeverClaims(t *testing.T) {
	rec := &recorder{}
	s, a, _, _ := newSurface(rec)

	assert.False(t, s.Dispatch(move(pad.Pointer{ID: 1, X: 10, Y: 10})))
	_, owned := a.Owner()
	assert.False(t, owned)
	assert.Empty(t, rec.take())
}

func TestSurfaceUnknownPointerIsIgnored(t *testing.T) {
	rec := &recorder{}
	s, _, _, _ := newSurface(rec)

	assert.False(t, s.Dispatch(up(0, pad.Pointer{ID: 42, X: 10, Y: 10})))
	assert.False(t, s.Dispatch(down(3, pad.Pointer{ID: 42, X: 10, Y: 10})))
	assert.False(t, s.Dispatch(down(0, pad.Pointer{ID: 42, X: 1000, Y: 1000})))
	assert.Empty(t, rec.take())
}

func TestSurfaceOwnershipExclusive(t *testing.T) {
	rec := &recorder{}
	s, _, _, _ := newSurface(rec)

	pointers := []pad.Pointer{{ID: 1, X: 75, Y: 75}, {ID: 2, X: 75, Y: 75}, {ID: 3, X: 400, Y: 100}}
	for i := range pointers {
		s.Dispatch(down(i, pointers[:i+1]...))
	}
	s.Dispatch(move(pad.Pointer{ID: 1, X: 300, Y: 10}, pad.Pointer{ID: 2, X: 60, Y: 60}))

	owners := map[int]int{}
	for _, c := range s.Components() {
		if id, ok := c.Owner(); ok {
			owners[id]++
		}
	}
	for id, n := range owners {
		assert.Equal(t, 1, n, "pointer %d", id)
	}
}

func TestSurfaceCancelReleasesAll(t *testing.T) {
	rec := &recorder{}
	s, a, _, d := newSurface(rec)

	s.Dispatch(down(0, pad.Pointer{ID: 1, X: 10, Y: 10}))
	s.Dispatch(down(1, pad.Pointer{ID: 1, X: 10, Y: 10}, pad.Pointer{ID: 2, X: 310, Y: 100}))
	rec.take()

	assert.True(t, s.Dispatch(pad.MotionEvent{Action: pad.MotionCancel}))
	assert.Equal(t, pad.StateUp, a.State())
	assert.Equal(t, pad.StateUp, d.State())
	assert.ElementsMatch(t, []edge{
		{pad.ActionUp, pad.KeyCodeButtonA},
		{pad.ActionUp, testCodes.Left},
	}, rec.take())
}

func TestSurfaceEditingBlocksInput(t *testing.T) {
	rec := &recorder{}
	s, a, _, _ := newSurface(rec)

	s.Dispatch(down(0, pad.Pointer{ID: 1, X: 10, Y: 10}))
	s.SetEditing(true)
	assert.Equal(t, pad.StateUp, a.State())
	assert.True(t, a.Editing())

	assert.False(t, s.Dispatch(down(0, pad.Pointer{ID: 2, X: 10, Y: 10})))
	assert.Equal(t, pad.StateUp, a.State())

	s.SetEditing(false)
	assert.True(t, s.Dispatch(down(0, pad.Pointer{ID: 2, X: 10, Y: 10})))
}

func TestSurfaceDirtyTracking(t *testing.T) {
	rec := &recorder{}
	s, a, _, _ := newSurface(rec)

	assert.Len(t, s.DirtyComponents(), 3)
	s.ClearDirty()
	assert.Empty(t, s.DirtyComponents())

	s.Dispatch(down(0, pad.Pointer{ID: 1, X: 10, Y: 10}))
	assert.Equal(t, []*pad.Component{a}, s.DirtyComponents())
}

func TestParseMotionAction(t *testing.T) {
	for _, a := range []pad.MotionAction{pad.MotionDown, pad.MotionUp, pad.MotionMove, pad.MotionCancel, pad.MotionPointerDown, pad.MotionPointerUp} {
		got, err := pad.ParseMotionAction(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	_, err := pad.ParseMotionAction("swipe")
	assert.Error(t, err)
}
