package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/dungeon/internal/game/dungeon"
)

// registerEngine installs the engine table:
//
//	engine.default_level(distance) -> built-in enemy level for distance
//	engine.log(msg)                -> writes msg to the server log at info
func registerEngine(L *lua.LState, logger *zap.Logger) {
	engine := L.NewTable()
	L.SetField(engine, "default_level", L.NewFunction(func(L *lua.LState) int {
		d := L.CheckInt(1)
		if d < 0 {
			L.ArgError(1, "distance must be >= 0")
			return 0
		}
		L.Push(lua.LNumber(dungeon.DefaultLevel(uint(d))))
		return 1
	}))
	L.SetField(engine, "log", L.NewFunction(func(L *lua.LState) int {
		logger.Info("lua", zap.String("msg", L.CheckString(1)))
		return 0
	}))
	L.SetGlobal("engine", engine)
}
