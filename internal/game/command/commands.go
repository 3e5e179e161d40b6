// Package command provides the player command vocabulary: the parser, the
// registry and the built-in dungeon commands.
package command

import "github.com/cory-johannsen/dungeon/internal/game/dungeon"

// Categories for organizing commands in help output.
const (
	CategoryMovement = "movement"
	CategoryCombat   = "combat"
	CategoryInfo     = "info"
	CategorySystem   = "system"
)

// Handler identifiers dispatched by the frontend.
const (
	HandlerMove   = "move"
	HandlerFight  = "fight"
	HandlerFlee   = "flee"
	HandlerLook   = "look"
	HandlerMap    = "map"
	HandlerStatus = "status"
	HandlerHelp   = "help"
	HandlerQuit   = "quit"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command for help output.
	Category string
	// Handler selects the frontend action.
	Handler string
	// Direction is the move direction for HandlerMove commands.
	Direction dungeon.Direction
}

// BuiltinCommands returns all built-in dungeon commands.
func BuiltinCommands() []Command {
	return []Command{
		{Name: "up", Aliases: []string{"u", "north"}, Help: "Step toward the top of the room", Category: CategoryMovement, Handler: HandlerMove, Direction: dungeon.Top},
		{Name: "down", Aliases: []string{"d", "south"}, Help: "Step toward the bottom of the room", Category: CategoryMovement, Handler: HandlerMove, Direction: dungeon.Bottom},
		{Name: "left", Aliases: []string{"l", "west"}, Help: "Step left", Category: CategoryMovement, Handler: HandlerMove, Direction: dungeon.Left},
		{Name: "right", Aliases: []string{"r", "east"}, Help: "Step right", Category: CategoryMovement, Handler: HandlerMove, Direction: dungeon.Right},

		{Name: "fight", Aliases: []string{"y", "yes"}, Help: "Accept the pending fight", Category: CategoryCombat, Handler: HandlerFight},
		{Name: "flee", Aliases: []string{"n", "no"}, Help: "Decline the pending fight", Category: CategoryCombat, Handler: HandlerFlee},

		{Name: "look", Help: "Redraw the current room", Category: CategoryInfo, Handler: HandlerLook},
		{Name: "map", Aliases: []string{"m"}, Help: "Show the explored dungeon", Category: CategoryInfo, Handler: HandlerMap},
		{Name: "status", Aliases: []string{"st"}, Help: "Show level, health and rooms explored", Category: CategoryInfo, Handler: HandlerStatus},

		{Name: "help", Aliases: []string{"h", "?"}, Help: "List commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"q", "exit"}, Help: "Leave the dungeon", Category: CategorySystem, Handler: HandlerQuit},
	}
}
