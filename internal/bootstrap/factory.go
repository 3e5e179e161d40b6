// Package bootstrap turns loaded configuration into a ready session factory
// for the server and the command-line tools.
package bootstrap

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dungeon/internal/config"
	"github.com/cory-johannsen/dungeon/internal/game/dungeon"
	"github.com/cory-johannsen/dungeon/internal/game/session"
	"github.com/cory-johannsen/dungeon/internal/scripting"
)

// Layout converts the configured room layout.
//
// Precondition: cfg passed config validation (every field fits in a byte).
func Layout(cfg config.LayoutConfig) dungeon.Layout {
	return dungeon.Layout{
		MinCol:        uint8(cfg.MinCol),
		MaxCol:        uint8(cfg.MaxCol),
		MinRow:        uint8(cfg.MinRow),
		MaxRow:        uint8(cfg.MaxRow),
		DoorInsetCols: uint8(cfg.DoorInsetCols),
		DoorInsetRows: uint8(cfg.DoorInsetRows),
	}
}

// NewFactory loads the optional weight tables and level script named by
// cfg and returns a session factory using them. The returned close function
// releases the script VM.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a factory whose sessions start in a valid origin
// room, or an error when content fails to load.
func NewFactory(cfg config.DungeonConfig, logger *zap.Logger) (session.Factory, func(), error) {
	layout := Layout(cfg.Layout)
	if err := layout.Validate(); err != nil {
		return session.Factory{}, nil, fmt.Errorf("dungeon layout: %w", err)
	}

	tables := dungeon.DefaultTables()
	if cfg.TablesFile != "" {
		var err error
		tables, err = dungeon.LoadTablesFromFile(cfg.TablesFile)
		if err != nil {
			return session.Factory{}, nil, err
		}
		logger.Info("weight tables loaded", zap.String("path", cfg.TablesFile))
	}

	f := session.Factory{
		Layout:           layout,
		Tables:           tables,
		PlacementRetries: cfg.PlacementRetries,
		Seed:             cfg.Seed,
		StartingLevel:    cfg.StartingLevel,
		StartingHealth:   cfg.StartingHealth,
		Logger:           logger,
	}

	closeFn := func() {}
	if cfg.LevelScript != "" {
		script, err := scripting.LoadLevelScript(cfg.LevelScript, cfg.ScriptInstructionLimit, logger)
		if err != nil {
			return session.Factory{}, nil, err
		}
		f.Level = script.Func()
		closeFn = script.Close
	}
	return f, closeFn, nil
}
