package dungeon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLayout(t *testing.T) {
	l := DefaultLayout()
	require.NoError(t, l.Validate())
	assert.Equal(t, 10, l.Width())
	assert.Equal(t, 5, l.Height())
	assert.Equal(t, 50, l.InteriorTiles())
	assert.Equal(t, Position{X: 5, Y: 3}, l.Start())
}

func TestLayout_Validate(t *testing.T) {
	l := DefaultLayout()
	l.MinCol = 0
	l.DoorInsetRows = 3
	err := l.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_col")
	assert.Contains(t, err.Error(), "door_inset_rows")
}

func TestLayout_CheckPosition(t *testing.T) {
	l := DefaultLayout()
	assert.NoError(t, l.CheckPosition(Position{X: 2, Y: 2}))
	assert.NoError(t, l.CheckPosition(Position{X: 11, Y: 6}))
	assert.ErrorIs(t, l.CheckPosition(Position{X: 1, Y: 2}), ErrPositionOutOfBounds)
	assert.ErrorIs(t, l.CheckPosition(Position{X: 5, Y: 7}), ErrPositionOutOfBounds)
}

func TestLayout_DoorSpans(t *testing.T) {
	l := DefaultLayout()
	for x := uint8(2); x <= 11; x++ {
		want := x >= 4 && x <= 9
		assert.Equal(t, want, l.InDoorSpan(Top, Position{X: x, Y: 2}), "top x=%d", x)
		assert.Equal(t, want, l.InDoorSpan(Bottom, Position{X: x, Y: 6}), "bottom x=%d", x)
	}
	for y := uint8(2); y <= 6; y++ {
		want := y >= 3 && y <= 5
		assert.Equal(t, want, l.InDoorSpan(Left, Position{X: 2, Y: y}), "left y=%d", y)
		assert.Equal(t, want, l.InDoorSpan(Right, Position{X: 11, Y: y}), "right y=%d", y)
	}
}

func TestLayout_OnBoundary(t *testing.T) {
	l := DefaultLayout()
	assert.True(t, l.OnBoundary(Top, Position{X: 5, Y: 2}))
	assert.True(t, l.OnBoundary(Bottom, Position{X: 5, Y: 6}))
	assert.True(t, l.OnBoundary(Left, Position{X: 2, Y: 4}))
	assert.True(t, l.OnBoundary(Right, Position{X: 11, Y: 4}))
	assert.False(t, l.OnBoundary(Top, Position{X: 5, Y: 3}))
}

func TestLayout_StepAndEntry(t *testing.T) {
	l := DefaultLayout()
	p := Position{X: 5, Y: 4}
	assert.Equal(t, Position{X: 5, Y: 3}, l.Step(Top, p))
	assert.Equal(t, Position{X: 5, Y: 5}, l.Step(Bottom, p))
	assert.Equal(t, Position{X: 4, Y: 4}, l.Step(Left, p))
	assert.Equal(t, Position{X: 6, Y: 4}, l.Step(Right, p))

	assert.Equal(t, Position{X: 7, Y: 6}, l.Entry(Bottom, Position{X: 7, Y: 2}))
	assert.Equal(t, Position{X: 7, Y: 2}, l.Entry(Top, Position{X: 7, Y: 6}))
	assert.Equal(t, Position{X: 2, Y: 4}, l.Entry(Left, Position{X: 11, Y: 4}))
	assert.Equal(t, Position{X: 11, Y: 3}, l.Entry(Right, Position{X: 2, Y: 3}))
}

func TestLayout_Doorway(t *testing.T) {
	l := DefaultLayout()
	top := l.Doorway(Top)
	require.Len(t, top, 6)
	assert.Equal(t, Position{X: 4, Y: 2}, top[0])
	assert.Equal(t, Position{X: 9, Y: 2}, top[5])

	assert.Equal(t, []Position{{X: 11, Y: 3}, {X: 11, Y: 4}, {X: 11, Y: 5}}, l.Doorway(Right))
	assert.Len(t, l.Doorway(Bottom), 6)
	assert.Len(t, l.Doorway(Left), 3)

	for _, d := range AllDirections {
		for _, p := range l.Doorway(d) {
			assert.True(t, l.OnBoundary(d, p))
			assert.True(t, l.InDoorSpan(d, p))
			assert.Equal(t, p, l.Entry(d, p), "entry through %s keeps the doorway tile", d)
		}
	}
}
