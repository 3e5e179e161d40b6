// Package dungeon provides the dungeon model: grid coordinates, doors, rooms,
// enemies, the room store and the lazy room generator.
package dungeon

import (
	"fmt"
	"math"
	"strings"
)

// Direction is one of the four sides of a room.
type Direction uint8

// The four room sides. Top points toward +Y, Right toward +X.
const (
	Top Direction = iota
	Right
	Bottom
	Left
)

// AllDirections lists every direction in canonical order.
var AllDirections = []Direction{Top, Right, Bottom, Left}

// String returns the lowercase name of the direction.
func (d Direction) String() string {
	switch d {
	case Top:
		return "top"
	case Right:
		return "right"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d <= Left
}

// Opposite returns the direction facing d: Top and Bottom, Left and Right.
//
// Precondition: d.Valid().
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// ParseDirection resolves a direction name, case-insensitively.
//
// Postcondition: Returns (dir, nil) for "top", "right", "bottom" or "left";
// an error otherwise.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top":
		return Top, nil
	case "right":
		return Right, nil
	case "bottom":
		return Bottom, nil
	case "left":
		return Left, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

// DoorSet is the set of sides of a room that carry a door.
type DoorSet uint8

// AllDoors has a door on every side.
const AllDoors DoorSet = 1<<Top | 1<<Right | 1<<Bottom | 1<<Left

// DoorsOf builds a DoorSet from the given directions. Duplicates collapse.
func DoorsOf(dirs ...Direction) DoorSet {
	var s DoorSet
	for _, d := range dirs {
		s = s.With(d)
	}
	return s
}

// Has reports whether the set contains d.
func (s DoorSet) Has(d Direction) bool { return s&(1<<d) != 0 }

// With returns the set with d added.
func (s DoorSet) With(d Direction) DoorSet { return s | 1<<d }

// Without returns the set with d removed.
func (s DoorSet) Without(d Direction) DoorSet { return s &^ (1 << d) }

// Union returns the directions in either set.
func (s DoorSet) Union(o DoorSet) DoorSet { return s | o }

// Difference returns the directions in s that are not in o.
func (s DoorSet) Difference(o DoorSet) DoorSet { return s &^ o }

// Len returns the number of doors in the set.
func (s DoorSet) Len() int {
	n := 0
	for _, d := range AllDirections {
		if s.Has(d) {
			n++
		}
	}
	return n
}

// Slice returns the doors in canonical order (Top, Right, Bottom, Left).
func (s DoorSet) Slice() []Direction {
	out := make([]Direction, 0, 4)
	for _, d := range AllDirections {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

// String renders the set as e.g. "{top,left}".
func (s DoorSet) String() string {
	names := make([]string, 0, 4)
	for _, d := range s.Slice() {
		names = append(names, d.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}

// GridCoordinate identifies a room on the dungeon grid.
type GridCoordinate struct {
	X int8
	Y int8
}

// Origin is the coordinate of the starting room.
var Origin = GridCoordinate{}

// Neighbor returns the coordinate one step toward dir.
//
// Postcondition: Returns (coord, false) when the step would leave the int8
// grid; such a side can never carry a door.
func (c GridCoordinate) Neighbor(dir Direction) (GridCoordinate, bool) {
	x, y := int(c.X), int(c.Y)
	switch dir {
	case Top:
		y++
	case Bottom:
		y--
	case Right:
		x++
	case Left:
		x--
	default:
		return c, false
	}
	if x < math.MinInt8 || x > math.MaxInt8 || y < math.MinInt8 || y > math.MaxInt8 {
		return c, false
	}
	return GridCoordinate{X: int8(x), Y: int8(y)}, true
}

// Distance returns the Manhattan distance from Origin.
func (c GridCoordinate) Distance() uint {
	return uint(absInt(int(c.X)) + absInt(int(c.Y)))
}

func (c GridCoordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Position is a tile inside a room.
type Position struct {
	X uint8
	Y uint8
}

func (p Position) String() string {
	return fmt.Sprintf("[%d,%d]", p.X, p.Y)
}

// Enemy is a stationary opponent occupying one tile of one room.
type Enemy struct {
	Level    uint
	Position Position
}

// Room is a generated dungeon room. Its door set never changes after
// generation; its enemy list shrinks as enemies are defeated.
type Room struct {
	// Coord is the room's grid coordinate.
	Coord GridCoordinate
	// Doors holds the sides that open onto a neighbouring room.
	Doors DoorSet
	// Enemies lists the living enemies in placement order.
	Enemies []Enemy
}

// OriginRoom returns the starting room: four doors and no enemies.
func OriginRoom() Room {
	return Room{Coord: Origin, Doors: AllDoors}
}

// EnemyAt returns the enemy occupying p, if any.
//
// Postcondition: Returns (enemy, true) if found, or (Enemy{}, false) otherwise.
func (r *Room) EnemyAt(p Position) (Enemy, bool) {
	for _, e := range r.Enemies {
		if e.Position == p {
			return e, true
		}
	}
	return Enemy{}, false
}

// RemoveEnemyAt removes the enemy at p, preserving the order of the rest.
//
// Postcondition: Returns true iff an enemy was removed.
func (r *Room) RemoveEnemyAt(p Position) bool {
	for i, e := range r.Enemies {
		if e.Position == p {
			r.Enemies = append(r.Enemies[:i:i], r.Enemies[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the room.
func (r Room) Clone() Room {
	c := r
	if r.Enemies != nil {
		c.Enemies = make([]Enemy, len(r.Enemies))
		copy(c.Enemies, r.Enemies)
	}
	return c
}

// Player is the single adventurer exploring the dungeon.
type Player struct {
	// Position is the player's tile in the current room.
	Position Position
	// Level grows by the level of each defeated enemy.
	Level uint
	// Health drops on every lost fight; zero means defeated.
	Health uint
	// Fighting is true while a fight prompt is pending.
	Fighting bool
}

// Defeated reports whether the player has no health left.
func (p Player) Defeated() bool { return p.Health == 0 }
