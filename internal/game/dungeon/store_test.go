package dungeon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	s, err := NewStore(OriginRoom())
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Contains(Origin))
	assert.False(t, s.Contains(GridCoordinate{X: 1}))
}

func TestNewStore_Duplicate(t *testing.T) {
	_, err := NewStore(OriginRoom(), OriginRoom())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate room")
}

func TestNewStore_Asymmetric(t *testing.T) {
	east := Room{Coord: GridCoordinate{X: 1}, Doors: DoorsOf(Top)}
	_, err := NewStore(OriginRoom(), east)
	assert.ErrorIs(t, err, ErrInvariantViolation)
}

func TestStore_GetReturnsCopy(t *testing.T) {
	room := Room{
		Coord:   GridCoordinate{X: 1},
		Doors:   DoorsOf(Left),
		Enemies: []Enemy{{Level: 1, Position: Position{X: 3, Y: 3}}},
	}
	s, err := NewStore(OriginRoom(), room)
	require.NoError(t, err)

	got, ok := s.Get(room.Coord)
	require.True(t, ok)
	got.Enemies[0].Level = 99
	got.RemoveEnemyAt(Position{X: 3, Y: 3})

	again, ok := s.Get(room.Coord)
	require.True(t, ok)
	require.Len(t, again.Enemies, 1)
	assert.Equal(t, uint(1), again.Enemies[0].Level)

	_, ok = s.Get(GridCoordinate{X: 5})
	assert.False(t, ok)
}

func TestStore_PutReplaces(t *testing.T) {
	room := Room{
		Coord:   GridCoordinate{X: 1},
		Doors:   DoorsOf(Left),
		Enemies: []Enemy{{Level: 1, Position: Position{X: 3, Y: 3}}},
	}
	s, err := NewStore(OriginRoom(), room)
	require.NoError(t, err)

	room.RemoveEnemyAt(Position{X: 3, Y: 3})
	s.Put(room)

	got, ok := s.Get(room.Coord)
	require.True(t, ok)
	assert.Empty(t, got.Enemies)
	assert.Equal(t, DoorsOf(Left), got.Doors)
	assert.Equal(t, 2, s.Len())
}

func TestStore_AllOrdering(t *testing.T) {
	s, err := NewStore(
		OriginRoom(),
		Room{Coord: GridCoordinate{X: 1}, Doors: DoorsOf(Left)},
		Room{Coord: GridCoordinate{Y: 1}, Doors: DoorsOf(Bottom)},
		Room{Coord: GridCoordinate{X: -1}, Doors: DoorsOf(Right)},
	)
	require.NoError(t, err)

	var coords []GridCoordinate
	for _, r := range s.All() {
		coords = append(coords, r.Coord)
	}
	assert.Equal(t, []GridCoordinate{{Y: 1}, {X: -1}, {}, {X: 1}}, coords)
}

func TestStore_Bounds(t *testing.T) {
	empty, err := NewStore()
	require.NoError(t, err)
	_, _, ok := empty.Bounds()
	assert.False(t, ok)

	s, err := NewStore(
		OriginRoom(),
		Room{Coord: GridCoordinate{X: 1}, Doors: DoorsOf(Left)},
		Room{Coord: GridCoordinate{Y: -1}, Doors: DoorsOf(Top)},
	)
	require.NoError(t, err)
	min, max, ok := s.Bounds()
	require.True(t, ok)
	assert.Equal(t, GridCoordinate{X: 0, Y: -1}, min)
	assert.Equal(t, GridCoordinate{X: 1, Y: 0}, max)
}

func TestStore_CheckSymmetry(t *testing.T) {
	s, err := NewStore(OriginRoom())
	require.NoError(t, err)

	assert.NoError(t, s.CheckSymmetry(Room{Coord: GridCoordinate{X: 1}, Doors: DoorsOf(Left, Top)}))
	err = s.CheckSymmetry(Room{Coord: GridCoordinate{X: 1}, Doors: DoorsOf(Top)})
	assert.ErrorIs(t, err, ErrInvariantViolation)
	assert.Contains(t, err.Error(), "left")
}
