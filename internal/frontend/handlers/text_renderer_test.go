package handlers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/dungeon/internal/frontend/telnet"
	"github.com/cory-johannsen/dungeon/internal/game/combat"
	"github.com/cory-johannsen/dungeon/internal/game/command"
	"github.com/cory-johannsen/dungeon/internal/game/dungeon"
)

func stripAll(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = telnet.StripANSI(l)
	}
	return out
}

func TestRenderRoom_OriginRoom(t *testing.T) {
	layout := dungeon.DefaultLayout()
	room := dungeon.OriginRoom()
	room.Enemies = []dungeon.Enemy{{Level: 2, Position: dungeon.Position{X: 10, Y: 5}}}
	player := dungeon.Player{Position: dungeon.Position{X: 5, Y: 3}, Level: 1, Health: 100}

	got := stripAll(RenderRoom(layout, room, player, nil))
	// Interior is columns 2-11 and rows 2-6 inside a one-tile wall.
	want := []string{
		"+--      --+",
		"|..........|",
		" ...&...... ",
		" .......... ",
		" ........§. ",
		"|..........|",
		"+--      --+",
	}
	assert.Equal(t, want, got)
}

func TestRenderRoom_SolidWalls(t *testing.T) {
	layout := dungeon.DefaultLayout()
	room := dungeon.Room{Coord: dungeon.GridCoordinate{X: 1}, Doors: dungeon.DoorsOf(dungeon.Left)}
	player := dungeon.Player{Position: dungeon.Position{X: 2, Y: 4}}

	got := stripAll(RenderRoom(layout, room, player, nil))
	require.Len(t, got, layout.Height()+2)
	assert.Equal(t, "+----------+", got[0])
	assert.Equal(t, "+----------+", got[len(got)-1])
	for _, line := range got[1 : len(got)-1] {
		assert.True(t, strings.HasSuffix(line, "|"), "right wall is solid: %q", line)
	}
	assert.Equal(t, " &.........|", got[3])
}

func TestRenderRoom_Property_Dimensions(t *testing.T) {
	layout := dungeon.DefaultLayout()
	rapid.Check(t, func(t *rapid.T) {
		doors := dungeon.DoorSet(rapid.IntRange(0, 15).Draw(t, "doors"))
		room := dungeon.Room{Doors: doors}
		player := dungeon.Player{Position: dungeon.Position{
			X: uint8(rapid.IntRange(int(layout.MinCol), int(layout.MaxCol)).Draw(t, "x")),
			Y: uint8(rapid.IntRange(int(layout.MinRow), int(layout.MaxRow)).Draw(t, "y")),
		}}
		lines := RenderRoom(layout, room, player, nil)
		if len(lines) != layout.Height()+2 {
			t.Fatalf("got %d lines", len(lines))
		}
		players := 0
		for _, l := range lines {
			if telnet.VisibleWidth(l) != layout.Width()+2 {
				t.Fatalf("line %q has width %d", telnet.StripANSI(l), telnet.VisibleWidth(l))
			}
			players += strings.Count(telnet.StripANSI(l), string(GlyphPlayer))
		}
		if players != 1 {
			t.Fatalf("player drawn %d times", players)
		}
	})
}

func TestRenderFightDialog(t *testing.T) {
	lines := stripAll(RenderFightDialog(dungeon.Enemy{Level: 4}, 5))
	require.Len(t, lines, 5)
	text := strings.Join(lines, "\n")
	assert.Contains(t, text, "Do you want to fight enemy on level 4")
	assert.Contains(t, text, "Your level is 5, probability to win is 75%")
	assert.Contains(t, text, "Y/n")
	for _, l := range lines {
		assert.Equal(t, telnet.VisibleWidth(lines[0]), telnet.VisibleWidth(l), "box edges align")
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "50%", FormatPercent(combat.WinProbability(3, 3)))
	assert.Equal(t, "0%", FormatPercent(combat.WinProbability(1, 9)))
	assert.Equal(t, "100%", FormatPercent(1))
}

func TestRenderCombatResult(t *testing.T) {
	win := combat.Result{Outcome: combat.Win, Enemy: dungeon.Enemy{Level: 2}, LevelGain: 2}
	assert.Equal(t, "You defeated the level 2 enemy and reached level 3.",
		telnet.StripANSI(RenderCombatResult(win, dungeon.Player{Level: 3, Health: 10})))

	loss := combat.Result{Outcome: combat.Loss, Enemy: dungeon.Enemy{Level: 7}, Damage: 5}
	assert.Equal(t, "You lost the fight and took 5 damage.",
		telnet.StripANSI(RenderCombatResult(loss, dungeon.Player{Level: 3, Health: 10})))
	assert.Contains(t, telnet.StripANSI(RenderCombatResult(loss, dungeon.Player{Level: 3})), "struck you down")
}

func TestRenderStatus(t *testing.T) {
	s := telnet.StripANSI(RenderStatus(dungeon.Player{Level: 4, Health: 37}, dungeon.GridCoordinate{X: -1, Y: 2}, 9))
	assert.Contains(t, s, "Level 4")
	assert.Contains(t, s, "Health 37")
	assert.Contains(t, s, "Explored 9")
}

func TestRenderMinimap(t *testing.T) {
	rooms := []dungeon.Room{
		{Coord: dungeon.GridCoordinate{X: 0, Y: 1}, Doors: dungeon.DoorsOf(dungeon.Bottom)},
		{Coord: dungeon.Origin, Doors: dungeon.AllDoors},
		{Coord: dungeon.GridCoordinate{X: 1, Y: 0}, Doors: dungeon.DoorsOf(dungeon.Left)},
	}
	got := RenderMinimap(rooms, dungeon.GridCoordinate{X: 1, Y: 0})
	want := []string{
		" ░",
		" |",
		"-░-█",
		" |",
	}
	assert.Equal(t, want, got)
}

func TestRenderMinimap_Empty(t *testing.T) {
	assert.Nil(t, RenderMinimap(nil, dungeon.Origin))
}

func TestRenderHelp(t *testing.T) {
	text := telnet.StripANSI(strings.Join(RenderHelp(command.DefaultRegistry()), "\n"))
	assert.Contains(t, text, "Movement")
	assert.Contains(t, text, "up (u, north)")
	assert.Contains(t, text, "fight (y, yes)")
	assert.Contains(t, text, "quit (q, exit)")
}
