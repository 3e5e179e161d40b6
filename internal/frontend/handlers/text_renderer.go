package handlers

import (
	"fmt"
	"math"
	"strings"

	"github.com/cory-johannsen/dungeon/internal/frontend/telnet"
	"github.com/cory-johannsen/dungeon/internal/game/combat"
	"github.com/cory-johannsen/dungeon/internal/game/command"
	"github.com/cory-johannsen/dungeon/internal/game/dungeon"
)

// Glyphs drawn by the renderer.
const (
	GlyphPlayer   = '&'
	GlyphEnemy    = '§'
	GlyphFloor    = '.'
	GlyphCorner   = '+'
	GlyphHWall    = '-'
	GlyphVWall    = '|'
	GlyphCurrent  = '█'
	GlyphExplored = '░'
)

// RenderRoom draws the room box: walls with gaps where doors open, the
// player and every enemy. The enemy of a pending fight is highlighted.
func RenderRoom(layout dungeon.Layout, room dungeon.Room, player dungeon.Player, pending *dungeon.Enemy) []string {
	minX, maxX := int(layout.MinCol)-1, int(layout.MaxCol)+1
	minY, maxY := int(layout.MinRow)-1, int(layout.MaxRow)+1

	lines := make([]string, 0, maxY-minY+1)
	for y := minY; y <= maxY; y++ {
		var b strings.Builder
		for x := minX; x <= maxX; x++ {
			b.WriteString(roomCell(layout, room, player, pending, x, y, minX, maxX, minY, maxY))
		}
		lines = append(lines, b.String())
	}
	return lines
}

func roomCell(layout dungeon.Layout, room dungeon.Room, player dungeon.Player, pending *dungeon.Enemy, x, y, minX, maxX, minY, maxY int) string {
	onTop, onBottom := y == minY, y == maxY
	onLeft, onRight := x == minX, x == maxX

	switch {
	case (onTop || onBottom) && (onLeft || onRight):
		return string(GlyphCorner)
	case onTop || onBottom:
		side := dungeon.Top
		if onBottom {
			side = dungeon.Bottom
		}
		if room.Doors.Has(side) && layout.InDoorSpan(side, dungeon.Position{X: uint8(x)}) {
			return " "
		}
		return string(GlyphHWall)
	case onLeft || onRight:
		side := dungeon.Left
		if onRight {
			side = dungeon.Right
		}
		if room.Doors.Has(side) && layout.InDoorSpan(side, dungeon.Position{Y: uint8(y)}) {
			return " "
		}
		return string(GlyphVWall)
	}

	pos := dungeon.Position{X: uint8(x), Y: uint8(y)}
	if pos == player.Position {
		return telnet.Colorize(telnet.Bold+telnet.BrightWhite, string(GlyphPlayer))
	}
	if _, ok := room.EnemyAt(pos); ok {
		if pending != nil && pending.Position == pos {
			return telnet.Colorize(telnet.Bold+telnet.BrightRed, string(GlyphEnemy))
		}
		return telnet.Colorize(telnet.Red, string(GlyphEnemy))
	}
	return telnet.Colorize(telnet.Dim, string(GlyphFloor))
}

// RenderFightDialog asks whether the player wants to fight enemy.
func RenderFightDialog(enemy dungeon.Enemy, playerLevel uint) []string {
	p := combat.WinProbability(playerLevel, enemy.Level)
	return boxed([]string{
		fmt.Sprintf("Do you want to fight enemy on level %d", enemy.Level),
		fmt.Sprintf("Your level is %d, probability to win is %s", playerLevel, FormatPercent(p)),
		telnet.Colorize(telnet.Bold, "Y/n"),
	})
}

// FormatPercent renders a probability as a whole-number percentage.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(p*100)))
}

// RenderCombatResult describes the outcome of a fight.
func RenderCombatResult(res combat.Result, player dungeon.Player) string {
	if res.Outcome == combat.Win {
		return telnet.Colorf(telnet.Green, "You defeated the level %d enemy and reached level %d.",
			res.Enemy.Level, player.Level)
	}
	if player.Defeated() {
		return telnet.Colorf(telnet.BrightRed, "The level %d enemy struck you down for %d damage.",
			res.Enemy.Level, res.Damage)
	}
	return telnet.Colorf(telnet.Red, "You lost the fight and took %d damage.", res.Damage)
}

// RenderStatus formats the status line shown under the room.
func RenderStatus(player dungeon.Player, coord dungeon.GridCoordinate, explored int) string {
	return fmt.Sprintf("%s  %s  %s  %s",
		telnet.Colorf(telnet.Cyan, "Level %d", player.Level),
		telnet.Colorf(healthColor(player.Health), "Health %d", player.Health),
		telnet.Colorf(telnet.Dim, "Room %s", coord),
		telnet.Colorf(telnet.Dim, "Explored %d", explored),
	)
}

func healthColor(h uint) string {
	switch {
	case h > 50:
		return telnet.Green
	case h > 20:
		return telnet.Yellow
	default:
		return telnet.Red
	}
}

// RenderMinimap draws explored rooms on a character grid with the current
// room as a solid block. Doors appear as '-' and '|' connectors, including
// doors that lead to rooms not yet explored.
func RenderMinimap(rooms []dungeon.Room, current dungeon.GridCoordinate) []string {
	if len(rooms) == 0 {
		return nil
	}
	minX, maxX := int(rooms[0].Coord.X), int(rooms[0].Coord.X)
	minY, maxY := int(rooms[0].Coord.Y), int(rooms[0].Coord.Y)
	for _, r := range rooms[1:] {
		minX = min(minX, int(r.Coord.X))
		maxX = max(maxX, int(r.Coord.X))
		minY = min(minY, int(r.Coord.Y))
		maxY = max(maxY, int(r.Coord.Y))
	}

	width, height := 2*(maxX-minX)+3, 2*(maxY-minY)+3
	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	for _, r := range rooms {
		col := 2*(int(r.Coord.X)-minX) + 1
		row := 2*(maxY-int(r.Coord.Y)) + 1
		grid[row][col] = GlyphExplored
		if r.Coord == current {
			grid[row][col] = GlyphCurrent
		}
		if r.Doors.Has(dungeon.Top) {
			grid[row-1][col] = GlyphVWall
		}
		if r.Doors.Has(dungeon.Bottom) {
			grid[row+1][col] = GlyphVWall
		}
		if r.Doors.Has(dungeon.Left) {
			grid[row][col-1] = GlyphHWall
		}
		if r.Doors.Has(dungeon.Right) {
			grid[row][col+1] = GlyphHWall
		}
	}

	lines := make([]string, 0, height)
	for _, row := range grid {
		lines = append(lines, strings.TrimRight(string(row), " "))
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// RenderHelp lists the registry's commands grouped by category.
func RenderHelp(registry *command.Registry) []string {
	byCat := registry.CommandsByCategory()
	var lines []string
	for _, cat := range registry.Categories() {
		lines = append(lines, telnet.Colorize(telnet.BrightYellow, strings.ToUpper(cat[:1])+cat[1:]))
		for _, cmd := range byCat[cat] {
			names := cmd.Name
			if len(cmd.Aliases) > 0 {
				names += " (" + strings.Join(cmd.Aliases, ", ") + ")"
			}
			lines = append(lines, fmt.Sprintf("  %-22s %s", names, cmd.Help))
		}
	}
	return lines
}

// boxed frames lines in a border sized to their visible width.
func boxed(lines []string) []string {
	width := 0
	for _, l := range lines {
		width = max(width, telnet.VisibleWidth(l))
	}
	border := string(GlyphCorner) + strings.Repeat(string(GlyphHWall), width+2) + string(GlyphCorner)
	out := make([]string, 0, len(lines)+2)
	out = append(out, border)
	for _, l := range lines {
		pad := strings.Repeat(" ", width-telnet.VisibleWidth(l))
		out = append(out, fmt.Sprintf("%c %s%s %c", GlyphVWall, l, pad, GlyphVWall))
	}
	return append(out, border)
}
