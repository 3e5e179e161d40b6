package dungeon

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dungeon/internal/game/dice"
	"github.com/cory-johannsen/dungeon/internal/game/sampler"
)

// DefaultPlacementRetries bounds the rejection sampling for one enemy tile.
const DefaultPlacementRetries = 64

// LevelFunc maps a room's Manhattan distance from the origin to the level of
// the enemies generated there. It must be non-decreasing.
type LevelFunc func(distance uint) uint

// DefaultLevel returns floor(distance² / 5).
func DefaultLevel(distance uint) uint {
	return distance * distance / 5
}

// DoorPlan classifies the four sides of a room about to be generated.
type DoorPlan struct {
	// Forced sides must carry a door: the entry side and every side whose
	// neighbour already has a door facing back.
	Forced DoorSet
	// Banned sides must stay solid: the neighbour exists without a matching
	// door, or the side leads off the grid.
	Banned DoorSet
	// Candidates are the remaining free sides.
	Candidates DoorSet
}

// PlanDoors inspects the neighbours of coord and classifies each side.
//
// Postcondition: Forced, Banned and Candidates cover all four sides;
// Candidates is disjoint from the other two; Forced contains entry.
func PlanDoors(view Neighbors, coord GridCoordinate, entry Direction) DoorPlan {
	var plan DoorPlan
	for _, dir := range AllDirections {
		nc, ok := coord.Neighbor(dir)
		if !ok {
			plan.Banned = plan.Banned.With(dir)
			continue
		}
		n, ok := view.Get(nc)
		if !ok {
			continue
		}
		if n.Doors.Has(dir.Opposite()) {
			plan.Forced = plan.Forced.With(dir)
		} else {
			plan.Banned = plan.Banned.With(dir)
		}
	}
	plan.Forced = plan.Forced.With(entry)
	plan.Candidates = AllDoors.Difference(plan.Forced).Difference(plan.Banned)
	return plan
}

// Generator materializes rooms for coordinates that have never been visited.
// It never writes to a store; callers insert the returned room.
type Generator struct {
	src    dice.Source
	layout Layout
	tables Tables
	logger *zap.Logger

	// Level computes enemy levels. Defaults to DefaultLevel.
	Level LevelFunc
	// PlacementRetries bounds the attempts to find a free tile for each
	// enemy. Defaults to DefaultPlacementRetries.
	PlacementRetries int
}

// NewGenerator creates a Generator.
//
// Precondition: src and logger must be non-nil; layout and tables must be valid.
// Postcondition: Returns a Generator using DefaultLevel and DefaultPlacementRetries.
func NewGenerator(src dice.Source, layout Layout, tables Tables, logger *zap.Logger) *Generator {
	if src == nil {
		panic("dungeon: NewGenerator called with nil source")
	}
	return &Generator{
		src:              src,
		layout:           layout,
		tables:           tables,
		logger:           logger,
		Level:            DefaultLevel,
		PlacementRetries: DefaultPlacementRetries,
	}
}

// Layout returns the room layout rooms are generated for.
func (g *Generator) Layout() Layout { return g.layout }

// Generate builds the room at coord, entered through side entry.
//
// Precondition: coord has not been generated.
// Postcondition: The room has a door on entry, agrees with every neighbour in
// view on shared doors, holds no two enemies on the same tile and no enemy
// in a doorway.
func (g *Generator) Generate(view Neighbors, coord GridCoordinate, entry Direction) (Room, error) {
	plan := PlanDoors(view, coord, entry)
	doors, err := g.chooseDoors(plan)
	if err != nil {
		return Room{}, fmt.Errorf("generating %s: %w", coord, err)
	}
	room := Room{Coord: coord, Doors: doors}

	if err := checkSymmetry(view, room); err != nil {
		g.logger.Error("generated room breaks door symmetry, regenerating with forced doors only",
			zap.Stringer("coord", coord),
			zap.Stringer("doors", doors),
			zap.Stringer("forced", plan.Forced),
			zap.Error(err),
		)
		room.Doors = plan.Forced
		if err := checkSymmetry(view, room); err != nil {
			return Room{}, fmt.Errorf("generating %s: %w", coord, err)
		}
	}

	room.Enemies, err = g.populate(coord, room.Doors)
	if err != nil {
		return Room{}, fmt.Errorf("generating %s: %w", coord, err)
	}

	g.logger.Debug("room generated",
		zap.Stringer("coord", coord),
		zap.Stringer("entry", entry),
		zap.Stringer("doors", room.Doors),
		zap.Int("enemies", len(room.Enemies)),
	)
	return room, nil
}

// chooseDoors samples how many candidate sides open and which ones.
func (g *Generator) chooseDoors(plan DoorPlan) (DoorSet, error) {
	candidates := plan.Candidates.Slice()
	dist, ok := g.tables.DoorCountDistribution(len(candidates))
	if !ok {
		return plan.Forced, nil
	}
	n, err := sampler.Sample(g.src, dist)
	if err != nil {
		return 0, fmt.Errorf("door count for %d candidates: %w", len(candidates), err)
	}
	return plan.Forced.Union(DoorsOf(sampler.Choose(g.src, candidates, n)...)), nil
}

// populate places the sampled number of enemies on distinct tiles outside
// every doorway, so a player entering through any door lands on a free tile.
func (g *Generator) populate(coord GridCoordinate, doors DoorSet) ([]Enemy, error) {
	count, err := sampler.Sample(g.src, g.tables.EnemyCounts)
	if err != nil {
		return nil, fmt.Errorf("enemy count: %w", err)
	}
	if count == 0 {
		return nil, nil
	}

	level := g.Level(coord.Distance())
	taken := make(map[Position]bool)
	for _, d := range doors.Slice() {
		for _, p := range g.layout.Doorway(d) {
			taken[p] = true
		}
	}
	enemies := make([]Enemy, 0, count)
	for i := 0; i < count; i++ {
		pos, err := g.placeEnemy(taken)
		if errors.Is(err, errPlacementExhausted) {
			g.logger.Warn("enemy placement retries exhausted, room gets fewer enemies",
				zap.Stringer("coord", coord),
				zap.Int("sampled", count),
				zap.Int("placed", len(enemies)),
				zap.Int("retries", g.PlacementRetries),
			)
			break
		}
		if err != nil {
			return nil, err
		}
		taken[pos] = true
		enemies = append(enemies, Enemy{Level: level, Position: pos})
	}
	return enemies, nil
}

var errPlacementExhausted = errors.New("placement retries exhausted")

// placeEnemy draws random interior tiles until one is free.
func (g *Generator) placeEnemy(taken map[Position]bool) (Position, error) {
	retries := g.PlacementRetries
	if retries < 1 {
		retries = 1
	}
	for attempt := 0; attempt < retries; attempt++ {
		pos := Position{
			X: g.layout.MinCol + uint8(g.src.Intn(g.layout.Width())),
			Y: g.layout.MinRow + uint8(g.src.Intn(g.layout.Height())),
		}
		if err := g.layout.CheckPosition(pos); err != nil {
			return Position{}, err
		}
		if !taken[pos] {
			return pos, nil
		}
	}
	return Position{}, errPlacementExhausted
}
