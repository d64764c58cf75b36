package pad_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidoo/vpad/pad"
)

// centered at (100,100), width 200, dead-zone radius 50
func newDPad(rec *recorder, mode pad.DirectionMode) *pad.Component {
	d := pad.NewDirectionalPad(7, pad.Rect{X: 0, Y: 0, Width: 200, Height: 200}, testCodes, mode)
	pad.NewSurface(rec, d)
	return d
}

func TestDPadRightThenCenter(t *testing.T) {
	rec := &recorder{}
	d := newDPad(rec, pad.EightWay)

	assert.True(t, d.OnPointerEvent(1, pad.ActionDown, 150, 100))
	assert.Equal(t, pad.DirRight, d.State())
	assert.Equal(t, []edge{{pad.ActionDown, testCodes.Right}}, rec.take())

	assert.True(t, d.OnPointerEvent(1, pad.ActionMove, 100, 100))
	assert.Equal(t, pad.StateUp, d.State())
	assert.Equal(t, []edge{{pad.ActionUp, testCodes.Right}}, rec.take())
}

func TestDPadPerBitEdges(t *testing.T) {
	rec := &recorder{}
	d := newDPad(rec, pad.EightWay)

	require.True(t, d.OnPointerEvent(1, pad.ActionDown, 190, 100))
	rec.take()

	// right -> bottom-right only presses bottom
	assert.True(t, d.OnPointerEvent(1, pad.ActionMove, 190, 190))
	assert.Equal(t, []edge{{pad.ActionDown, testCodes.Bottom}}, rec.take())

	// bottom-right -> bottom-left: right released, left pressed, in bit order
	assert.True(t, d.OnPointerEvent(1, pad.ActionMove, 10, 190))
	assert.Equal(t, []edge{
		{pad.ActionDown, testCodes.Left},
		{pad.ActionUp, testCodes.Right},
	}, rec.take())

	assert.True(t, d.OnPointerEvent(1, pad.ActionUp, 10, 190))
	assert.Equal(t, pad.StateUp, d.State())
	assert.ElementsMatch(t, []edge{
		{pad.ActionUp, testCodes.Left},
		{pad.ActionUp, testCodes.Bottom},
	}, rec.take())
}

func TestDPadRepeatedMoveIsIdempotent(t *testing.T) {
	rec := &recorder{}
	d := newDPad(rec, pad.FourWay)

	require.True(t, d.OnPointerEvent(1, pad.ActionDown, 100, 10))
	assert.Equal(t, []edge{{pad.ActionDown, testCodes.Top}}, rec.take())
	d.ClearDirty()

	assert.False(t, d.OnPointerEvent(1, pad.ActionMove, 100, 10))
	assert.False(t, d.OnPointerEvent(1, pad.ActionMove, 105, 12))
	assert.Empty(t, rec.take())
	assert.False(t, d.Dirty())
}

func TestDPadDownInDeadZoneClaims(t *testing.T) {
	rec := &recorder{}
	d := newDPad(rec, pad.EightWay)

	assert.True(t, d.OnPointerEvent(4, pad.ActionDown, 100, 100))
	owner, owned := d.Owner()
	assert.True(t, owned)
	assert.Equal(t, 4, owner)
	assert.Equal(t, pad.StateUp, d.State())
	assert.Empty(t, rec.take())

	assert.True(t, d.OnPointerEvent(4, pad.ActionMove, 100, 199))
	assert.Equal(t, pad.DirBottom, d.State())
}

func TestDPadIgnoresForeignPointers(t *testing.T) {
	rec := &recorder{}
	d := newDPad(rec, pad.EightWay)

	assert.False(t, d.OnPointerEvent(1, pad.ActionDown, 500, 500))
	assert.False(t, d.OnPointerEvent(1, pad.ActionMove, 150, 100))
	assert.False(t, d.OnPointerEvent(1, pad.ActionUp, 150, 100))

	require.True(t, d.OnPointerEvent(1, pad.ActionDown, 150, 100))
	assert.False(t, d.OnPointerEvent(2, pad.ActionDown, 50, 100))
	assert.False(t, d.OnPointerEvent(2, pad.ActionMove, 50, 100))
	assert.Equal(t, pad.DirRight, d.State())
}

func TestDPadTracksOutsideBounds(t *testing.T) {
	rec := &recorder{}
	d := newDPad(rec, pad.EightWay)

	require.True(t, d.OnPointerEvent(1, pad.ActionDown, 150, 100))
	rec.take()
	assert.True(t, d.OnPointerEvent(1, pad.ActionMove, -400, 100))
	assert.Equal(t, pad.DirLeft, d.State())
	_, owned := d.Owner()
	assert.True(t, owned)
}

func TestDPadUnmappedDirectionChangesStateSilently(t *testing.T) {
	rec := &recorder{}
	d := pad.NewDirectionalPad(1, pad.Rect{Width: 200, Height: 200}, pad.DirCodes{Left: 21}, pad.FourWay)
	pad.NewSurface(rec, d)

	assert.True(t, d.OnPointerEvent(1, pad.ActionDown, 190, 100))
	assert.Equal(t, pad.DirRight, d.State())
	assert.Empty(t, rec.take())
}
