// Package session runs a single player's walk through a lazily generated
// dungeon: movement, room transitions and fight prompts.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/dungeon/internal/game/combat"
	"github.com/cory-johannsen/dungeon/internal/game/dungeon"
)

// ErrPlayerDefeated is returned by Move and ResolveCombat once the player's
// health has reached zero.
var ErrPlayerDefeated = errors.New("player defeated")

// State is the navigation state of a session.
type State int

const (
	// InRoom accepts move requests.
	InRoom State = iota
	// CrossingRoom is held only while a room transition is in progress.
	CrossingRoom
	// InCombatPrompt waits for the player to accept or decline a fight.
	InCombatPrompt
)

// String returns a human-readable state label.
func (s State) String() string {
	switch s {
	case InRoom:
		return "in_room"
	case CrossingRoom:
		return "crossing_room"
	case InCombatPrompt:
		return "in_combat_prompt"
	default:
		return "unknown"
	}
}

// MoveKind classifies the effect of a move request.
type MoveKind int

const (
	// Blocked means the player hit a wall or a wall without a usable door.
	Blocked MoveKind = iota
	// Moved means the player stepped one tile within the room.
	Moved
	// RoomChanged means the player passed through a door.
	RoomChanged
	// CombatTriggered means an enemy stands on the target tile.
	CombatTriggered
)

// String returns a human-readable move kind label.
func (k MoveKind) String() string {
	switch k {
	case Blocked:
		return "blocked"
	case Moved:
		return "moved"
	case RoomChanged:
		return "room_changed"
	case CombatTriggered:
		return "combat_triggered"
	default:
		return "unknown"
	}
}

// MoveResult describes what a move request did.
type MoveResult struct {
	Kind MoveKind
	// Enemy is the encountered enemy when Kind is CombatTriggered.
	Enemy dungeon.Enemy
	// Generated is true when RoomChanged entered a brand-new room.
	Generated bool
	// Cancelled is true when the move dismissed a pending fight prompt.
	Cancelled bool
}

// Moved reports whether the player's position changed.
func (r MoveResult) Moved() bool {
	return r.Kind == Moved || r.Kind == RoomChanged
}

// Session is one player's game: the room store it owns, the room the player
// stands in, the player and any pending fight.
//
// All methods are safe for concurrent use, though a session is driven by a
// single input stream.
type Session struct {
	mu       sync.Mutex
	id       string
	store    *dungeon.Store
	gen      *dungeon.Generator
	resolver *combat.Resolver
	layout   dungeon.Layout
	logger   *zap.Logger

	state   State
	current dungeon.Room
	player  dungeon.Player
	pending *dungeon.Enemy
}

// New creates a session standing in the origin room. The origin room is
// inserted into store when missing.
//
// Precondition: store, gen, resolver and logger must be non-nil.
// Postcondition: Returns a session in state InRoom, or an error when the
// origin room lacks a door or player's position is not an interior tile.
func New(store *dungeon.Store, gen *dungeon.Generator, resolver *combat.Resolver, player dungeon.Player, logger *zap.Logger) (*Session, error) {
	layout := gen.Layout()
	if err := layout.CheckPosition(player.Position); err != nil {
		return nil, fmt.Errorf("starting position: %w", err)
	}

	origin, ok := store.Get(dungeon.Origin)
	if !ok {
		origin = dungeon.OriginRoom()
		store.Put(origin)
	}
	if origin.Doors != dungeon.AllDoors {
		return nil, fmt.Errorf("origin room must have all four doors, has %s", origin.Doors)
	}

	player.Fighting = false
	id := uuid.New().String()
	return &Session{
		id:       id,
		store:    store,
		gen:      gen,
		resolver: resolver,
		layout:   layout,
		logger:   logger.With(zap.String("session", id)),
		state:    InRoom,
		current:  origin,
		player:   player,
	}, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Move handles a directional move request. A pending fight prompt is
// dismissed first without resolving the fight.
//
// Postcondition: Walls and doorless boundaries yield Blocked with a nil
// error. RoomChanged saves the departed room, enters (generating when
// needed) the neighbour and places the player on the entry tile.
func (s *Session) Move(dir dungeon.Direction) (MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player.Defeated() {
		return MoveResult{}, ErrPlayerDefeated
	}
	if !dir.Valid() {
		return MoveResult{}, fmt.Errorf("invalid direction %s", dir)
	}

	cancelled := s.pending != nil
	if cancelled {
		s.cancelLocked("moved away")
	}

	res, err := s.moveLocked(dir)
	res.Cancelled = cancelled
	return res, err
}

func (s *Session) moveLocked(dir dungeon.Direction) (MoveResult, error) {
	pos := s.player.Position

	if s.layout.OnBoundary(dir, pos) {
		if s.current.Doors.Has(dir) && s.layout.InDoorSpan(dir, pos) {
			return s.crossLocked(dir)
		}
		return MoveResult{Kind: Blocked}, nil
	}

	target := s.layout.Step(dir, pos)
	if !s.layout.Contains(target) {
		return MoveResult{Kind: Blocked}, nil
	}

	if enemy, ok := s.current.EnemyAt(target); ok {
		s.pending = &enemy
		s.player.Fighting = true
		s.state = InCombatPrompt
		s.logger.Debug("encounter",
			zap.Stringer("room", s.current.Coord),
			zap.Stringer("enemy_position", enemy.Position),
			zap.Uint("enemy_level", enemy.Level),
		)
		return MoveResult{Kind: CombatTriggered, Enemy: enemy}, nil
	}

	s.player.Position = target
	return MoveResult{Kind: Moved}, nil
}

// crossLocked moves the player through the door on side dir.
func (s *Session) crossLocked(dir dungeon.Direction) (MoveResult, error) {
	from := s.current.Coord
	to, ok := from.Neighbor(dir)
	if !ok {
		return MoveResult{Kind: Blocked}, nil
	}

	s.state = CrossingRoom
	defer func() { s.state = InRoom }()

	s.store.Put(s.current)

	entry := dir.Opposite()
	landing := s.layout.Entry(entry, s.player.Position)

	room, found := s.store.Get(to)
	if !found {
		var err error
		room, err = s.gen.Generate(s.store, to, entry)
		if err != nil {
			return MoveResult{}, fmt.Errorf("entering %s: %w", to, err)
		}
		s.store.Put(room)
	}

	s.current = room
	s.player.Position = landing

	s.logger.Info("room entered",
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.Stringer("doors", room.Doors),
		zap.Int("enemies", len(room.Enemies)),
		zap.Bool("generated", !found),
		zap.Int("explored", s.store.Len()),
	)
	return MoveResult{Kind: RoomChanged, Generated: !found}, nil
}

// ResolveCombat answers a pending fight prompt. Declining is the same as
// CancelCombat.
//
// Postcondition: Returns (result, true, nil) when a fight was rolled,
// (Result{}, false, nil) when nothing was pending or the fight was declined.
// The prompt is cleared in every case.
func (s *Session) ResolveCombat(accept bool) (combat.Result, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player.Defeated() {
		return combat.Result{}, false, ErrPlayerDefeated
	}
	if s.pending == nil {
		return combat.Result{}, false, nil
	}
	if !accept {
		s.cancelLocked("declined")
		return combat.Result{}, false, nil
	}

	enemy := *s.pending
	s.pending = nil
	s.player.Fighting = false
	s.state = InRoom

	res := s.resolver.Resolve(s.player.Level, enemy)
	switch res.Outcome {
	case combat.Win:
		s.player.Level += res.LevelGain
		s.current.RemoveEnemyAt(enemy.Position)
		s.player.Position = enemy.Position
	case combat.Loss:
		if res.Damage >= s.player.Health {
			s.player.Health = 0
			s.logger.Info("player defeated",
				zap.Stringer("room", s.current.Coord),
				zap.Uint("level", s.player.Level),
				zap.Int("explored", s.store.Len()),
			)
		} else {
			s.player.Health -= res.Damage
		}
	}
	return res, true, nil
}

// CancelCombat dismisses a pending fight prompt without fighting.
//
// Postcondition: Returns true iff a prompt was pending.
func (s *Session) CancelCombat() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return false
	}
	s.cancelLocked("cancelled")
	return true
}

func (s *Session) cancelLocked(reason string) {
	s.logger.Debug("encounter dismissed",
		zap.String("reason", reason),
		zap.Stringer("enemy_position", s.pending.Position),
	)
	s.pending = nil
	s.player.Fighting = false
	s.state = InRoom
}

// State returns the current navigation state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Room returns a copy of the room the player stands in, including fights
// won since entering it.
func (s *Session) Room() dungeon.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Player returns a copy of the player.
func (s *Session) Player() dungeon.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player
}

// Pending returns the enemy of the pending fight prompt, if any.
func (s *Session) Pending() (dungeon.Enemy, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return dungeon.Enemy{}, false
	}
	return *s.pending, true
}

// Over reports whether the player has been defeated.
func (s *Session) Over() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player.Defeated()
}

// Layout returns the room layout of this dungeon.
func (s *Session) Layout() dungeon.Layout { return s.layout }

// Rooms returns every explored room for map display. The current room is
// reported with its live enemy list.
func (s *Session) Rooms() []dungeon.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	rooms := s.store.All()
	for i := range rooms {
		if rooms[i].Coord == s.current.Coord {
			rooms[i] = s.current.Clone()
		}
	}
	return rooms
}

// Store returns the room store backing this session.
func (s *Session) Store() *dungeon.Store { return s.store }

// Explored returns the number of generated rooms.
func (s *Session) Explored() int {
	return s.store.Len()
}
