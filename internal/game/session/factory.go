package session

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dungeon/internal/game/combat"
	"github.com/cory-johannsen/dungeon/internal/game/dice"
	"github.com/cory-johannsen/dungeon/internal/game/dungeon"
)

// Factory builds fresh sessions, each with its own room store and random
// source.
type Factory struct {
	Layout dungeon.Layout
	Tables dungeon.Tables
	// Level overrides the enemy level function; nil uses dungeon.DefaultLevel.
	Level dungeon.LevelFunc
	// PlacementRetries overrides dungeon.DefaultPlacementRetries when > 0.
	PlacementRetries int
	// Seed makes every session replay the same dungeon; 0 uses system entropy.
	Seed           int64
	StartingLevel  uint
	StartingHealth uint
	Logger         *zap.Logger
}

// NewSession creates a session in a brand-new dungeon holding only the
// origin room.
//
// Precondition: f.Logger must be non-nil.
// Postcondition: Returns a session in state InRoom or a non-nil error.
func (f Factory) NewSession() (*Session, error) {
	if err := f.Layout.Validate(); err != nil {
		return nil, err
	}
	if err := f.Tables.Validate(); err != nil {
		return nil, err
	}
	if f.StartingHealth == 0 {
		return nil, fmt.Errorf("starting health must be > 0")
	}

	var src dice.Source = dice.NewCryptoSource()
	if f.Seed != 0 {
		src = dice.NewSeededSource(f.Seed)
	}
	src = dice.NewLoggedSource(src, f.Logger)

	gen := dungeon.NewGenerator(src, f.Layout, f.Tables, f.Logger)
	if f.Level != nil {
		gen.Level = f.Level
	}
	if f.PlacementRetries > 0 {
		gen.PlacementRetries = f.PlacementRetries
	}

	store, err := dungeon.NewStore(dungeon.OriginRoom())
	if err != nil {
		return nil, err
	}

	player := dungeon.Player{
		Position: f.Layout.Start(),
		Level:    f.StartingLevel,
		Health:   f.StartingHealth,
	}
	return New(store, gen, combat.NewResolver(src, f.Logger), player, f.Logger)
}
