package dungeon

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrInvariantViolation is returned when two adjacent rooms disagree on the
// door between them.
var ErrInvariantViolation = errors.New("door symmetry violated")

// Neighbors is the read-only view of already generated rooms that the
// generator consults.
type Neighbors interface {
	Get(coord GridCoordinate) (Room, bool)
}

// Store maps grid coordinates to generated rooms. It is the single source of
// truth for whether a coordinate has been generated.
// All methods are safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	rooms map[GridCoordinate]Room
}

// NewStore creates a Store seeded with the given rooms.
//
// Postcondition: Returns a Store holding copies of rooms, or an error if two
// rooms share a coordinate or any pair of them breaks door symmetry.
func NewStore(rooms ...Room) (*Store, error) {
	s := &Store{rooms: make(map[GridCoordinate]Room, len(rooms))}
	for _, r := range rooms {
		if _, exists := s.rooms[r.Coord]; exists {
			return nil, fmt.Errorf("duplicate room at %s", r.Coord)
		}
		s.rooms[r.Coord] = r.Clone()
	}
	for _, r := range rooms {
		if err := s.CheckSymmetry(r); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Get returns a copy of the room at coord.
//
// Postcondition: Returns (room, true) if generated, or (Room{}, false) otherwise.
func (s *Store) Get(coord GridCoordinate) (Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[coord]
	if !ok {
		return Room{}, false
	}
	return r.Clone(), true
}

// Contains reports whether a room has been generated at coord.
func (s *Store) Contains(coord GridCoordinate) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[coord]
	return ok
}

// Put inserts room, or replaces the room already stored at its coordinate.
//
// Postcondition: Get(room.Coord) returns a copy of room.
func (s *Store) Put(room Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.Coord] = room.Clone()
}

// Len returns the number of generated rooms.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// All returns copies of every room ordered top row first, then left to right.
//
// Postcondition: Returns a non-nil slice; may be empty.
func (s *Store) All() []Room {
	s.mu.RLock()
	out := make([]Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		out = append(out, r.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Coord.Y != out[j].Coord.Y {
			return out[i].Coord.Y > out[j].Coord.Y
		}
		return out[i].Coord.X < out[j].Coord.X
	})
	return out
}

// Bounds returns the smallest rectangle enclosing every generated room.
//
// Postcondition: ok is false when the store is empty.
func (s *Store) Bounds() (min, max GridCoordinate, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.rooms {
		if !ok {
			min, max, ok = c, c, true
			continue
		}
		if c.X < min.X {
			min.X = c.X
		}
		if c.Y < min.Y {
			min.Y = c.Y
		}
		if c.X > max.X {
			max.X = c.X
		}
		if c.Y > max.Y {
			max.Y = c.Y
		}
	}
	return min, max, ok
}

// CheckSymmetry verifies that room agrees with every generated neighbour on
// the door between them. room itself need not be stored yet.
//
// Postcondition: Returns nil, or an error wrapping ErrInvariantViolation
// naming the first disagreeing side.
func (s *Store) CheckSymmetry(room Room) error {
	return checkSymmetry(s, room)
}

func checkSymmetry(view Neighbors, room Room) error {
	for _, dir := range AllDirections {
		nc, ok := room.Coord.Neighbor(dir)
		if !ok {
			if room.Doors.Has(dir) {
				return fmt.Errorf("room %s: door %s leads off the grid: %w", room.Coord, dir, ErrInvariantViolation)
			}
			continue
		}
		n, ok := view.Get(nc)
		if !ok {
			continue
		}
		if room.Doors.Has(dir) != n.Doors.Has(dir.Opposite()) {
			return fmt.Errorf("room %s door %s=%t but room %s door %s=%t: %w",
				room.Coord, dir, room.Doors.Has(dir),
				n.Coord, dir.Opposite(), n.Doors.Has(dir.Opposite()),
				ErrInvariantViolation)
		}
	}
	return nil
}
