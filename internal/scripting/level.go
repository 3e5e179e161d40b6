package scripting

import (
	"errors"
	"fmt"
	"math"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/dungeon/internal/game/dungeon"
)

// LevelHook is the Lua global a level script must define.
const LevelHook = "enemy_level"

var errBadLevel = errors.New("enemy_level must return a finite number >= 0")

// LevelScript computes enemy levels with a Lua enemy_level(distance)
// function. Failed calls fall back to dungeon.DefaultLevel.
//
// A LevelScript is safe for concurrent use; calls into the VM are
// serialised.
type LevelScript struct {
	mu     sync.Mutex
	L      *lua.LState
	fn     lua.LValue
	limit  int
	path   string
	logger *zap.Logger
}

// LoadLevelScript executes the Lua file at path in a fresh sandbox and binds
// its enemy_level function.
//
// Precondition: logger must be non-nil; limit >= 0 (0 uses DefaultInstructionLimit).
// Postcondition: Returns a ready LevelScript, or an error when the file
// fails to load or does not define enemy_level.
func LoadLevelScript(path string, limit int, logger *zap.Logger) (*LevelScript, error) {
	L := NewSandboxedState()
	registerEngine(L, logger)

	if err := WithBudget(L, limit, func() error { return L.DoFile(path) }); err != nil {
		L.Close()
		return nil, fmt.Errorf("scripting: loading %q: %w", path, err)
	}
	fn := L.GetGlobal(LevelHook)
	if fn.Type() != lua.LTFunction {
		L.Close()
		return nil, fmt.Errorf("scripting: %q does not define function %s", path, LevelHook)
	}

	logger.Info("level script loaded", zap.String("path", path))
	return &LevelScript{
		L:      L,
		fn:     fn,
		limit:  limit,
		path:   path,
		logger: logger,
	}, nil
}

// Level returns the enemy level for a room at distance from the origin.
//
// Postcondition: Returns the script's result floored to an integer, or
// dungeon.DefaultLevel(distance) when the call fails.
func (s *LevelScript) Level(distance uint) uint {
	level, err := s.call(distance)
	if err != nil {
		s.logger.Warn("level script failed, using default",
			zap.String("path", s.path),
			zap.Uint("distance", distance),
			zap.Error(err),
		)
		return dungeon.DefaultLevel(distance)
	}
	return level
}

func (s *LevelScript) call(distance uint) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ret lua.LValue
	err := WithBudget(s.L, s.limit, func() error {
		if err := s.L.CallByParam(lua.P{Fn: s.fn, NRet: 1, Protect: true}, lua.LNumber(distance)); err != nil {
			return err
		}
		ret = s.L.Get(-1)
		s.L.Pop(1)
		return nil
	})
	if err != nil {
		return 0, err
	}

	n, ok := ret.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("%w, got %s", errBadLevel, ret.Type())
	}
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, fmt.Errorf("%w, got %v", errBadLevel, f)
	}
	return uint(math.Floor(f)), nil
}

// Func adapts the script to dungeon.LevelFunc.
func (s *LevelScript) Func() dungeon.LevelFunc {
	return s.Level
}

// Close releases the Lua VM.
func (s *LevelScript) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.L.Close()
}
