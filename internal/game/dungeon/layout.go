package dungeon

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPositionOutOfBounds is returned when a tile lies outside a room's
// playable interior.
var ErrPositionOutOfBounds = errors.New("position out of bounds")

// Layout describes the fixed playable interior shared by every room and the
// span of wall each door occupies. Tile coordinates grow rightward in X and
// downward in Y, so the Top wall borders MinRow.
type Layout struct {
	MinCol uint8
	MaxCol uint8
	MinRow uint8
	MaxRow uint8
	// DoorInsetCols is how many interior columns at each end of the Top and
	// Bottom walls are solid.
	DoorInsetCols uint8
	// DoorInsetRows is how many interior rows at each end of the Left and
	// Right walls are solid.
	DoorInsetRows uint8
}

// DefaultLayout returns columns 2-11 and rows 2-6, with Top/Bottom doors at
// columns 4-9 and Left/Right doors at rows 3-5.
func DefaultLayout() Layout {
	return Layout{
		MinCol:        2,
		MaxCol:        11,
		MinRow:        2,
		MaxRow:        6,
		DoorInsetCols: 2,
		DoorInsetRows: 1,
	}
}

// Validate checks layout invariants.
//
// Postcondition: Returns nil if valid, or an error describing all violations.
func (l Layout) Validate() error {
	var errs []string
	if l.MinCol < 1 {
		errs = append(errs, "min_col must be >= 1 to leave room for the wall")
	}
	if l.MinRow < 1 {
		errs = append(errs, "min_row must be >= 1 to leave room for the wall")
	}
	if l.MaxCol == 255 || l.MaxRow == 255 {
		errs = append(errs, "max_col and max_row must be < 255 to leave room for the wall")
	}
	if l.MinCol > l.MaxCol {
		errs = append(errs, fmt.Sprintf("min_col (%d) must be <= max_col (%d)", l.MinCol, l.MaxCol))
	}
	if l.MinRow > l.MaxRow {
		errs = append(errs, fmt.Sprintf("min_row (%d) must be <= max_row (%d)", l.MinRow, l.MaxRow))
	}
	if int(l.MinCol)+int(l.DoorInsetCols) > int(l.MaxCol)-int(l.DoorInsetCols) {
		errs = append(errs, fmt.Sprintf("door_inset_cols %d leaves no door span", l.DoorInsetCols))
	}
	if int(l.MinRow)+int(l.DoorInsetRows) > int(l.MaxRow)-int(l.DoorInsetRows) {
		errs = append(errs, fmt.Sprintf("door_inset_rows %d leaves no door span", l.DoorInsetRows))
	}
	if len(errs) > 0 {
		return fmt.Errorf("layout: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Contains reports whether p is an interior tile.
func (l Layout) Contains(p Position) bool {
	return p.X >= l.MinCol && p.X <= l.MaxCol && p.Y >= l.MinRow && p.Y <= l.MaxRow
}

// CheckPosition returns an ErrPositionOutOfBounds error when p is not an
// interior tile.
func (l Layout) CheckPosition(p Position) error {
	if !l.Contains(p) {
		return fmt.Errorf("%s outside cols %d-%d rows %d-%d: %w",
			p, l.MinCol, l.MaxCol, l.MinRow, l.MaxRow, ErrPositionOutOfBounds)
	}
	return nil
}

// Width returns the number of interior columns.
func (l Layout) Width() int { return int(l.MaxCol) - int(l.MinCol) + 1 }

// Height returns the number of interior rows.
func (l Layout) Height() int { return int(l.MaxRow) - int(l.MinRow) + 1 }

// InteriorTiles returns the number of interior tiles.
func (l Layout) InteriorTiles() int { return l.Width() * l.Height() }

// OnBoundary reports whether p lies on the interior edge facing dir.
func (l Layout) OnBoundary(dir Direction, p Position) bool {
	switch dir {
	case Top:
		return p.Y == l.MinRow
	case Bottom:
		return p.Y == l.MaxRow
	case Left:
		return p.X == l.MinCol
	case Right:
		return p.X == l.MaxCol
	default:
		return false
	}
}

// InDoorSpan reports whether the off-axis coordinate of p lies within the
// opening of the door on side dir.
func (l Layout) InDoorSpan(dir Direction, p Position) bool {
	switch dir {
	case Top, Bottom:
		return p.X >= l.MinCol+l.DoorInsetCols && p.X <= l.MaxCol-l.DoorInsetCols
	case Left, Right:
		return p.Y >= l.MinRow+l.DoorInsetRows && p.Y <= l.MaxRow-l.DoorInsetRows
	default:
		return false
	}
}

// Step returns the tile one step toward dir. The result may lie outside the
// interior; callers check with Contains.
func (l Layout) Step(dir Direction, p Position) Position {
	switch dir {
	case Top:
		p.Y--
	case Bottom:
		p.Y++
	case Left:
		p.X--
	case Right:
		p.X++
	}
	return p
}

// Entry returns the tile a player lands on after passing through the door on
// side of the room being entered, keeping the off-axis coordinate of from.
//
// Precondition: from.InDoorSpan(side.Opposite()) held in the room being left.
func (l Layout) Entry(side Direction, from Position) Position {
	switch side {
	case Top:
		return Position{X: from.X, Y: l.MinRow}
	case Bottom:
		return Position{X: from.X, Y: l.MaxRow}
	case Left:
		return Position{X: l.MinCol, Y: from.Y}
	case Right:
		return Position{X: l.MaxCol, Y: from.Y}
	default:
		return from
	}
}

// Doorway returns the interior tiles a player can occupy when passing
// through the door on side dir, which are also the tiles entering players
// land on.
func (l Layout) Doorway(dir Direction) []Position {
	var out []Position
	switch dir {
	case Top, Bottom:
		y := l.MinRow
		if dir == Bottom {
			y = l.MaxRow
		}
		for x := int(l.MinCol) + int(l.DoorInsetCols); x <= int(l.MaxCol)-int(l.DoorInsetCols); x++ {
			out = append(out, Position{X: uint8(x), Y: y})
		}
	case Left, Right:
		x := l.MinCol
		if dir == Right {
			x = l.MaxCol
		}
		for y := int(l.MinRow) + int(l.DoorInsetRows); y <= int(l.MaxRow)-int(l.DoorInsetRows); y++ {
			out = append(out, Position{X: x, Y: uint8(y)})
		}
	}
	return out
}

// Start returns the player's starting tile in the origin room.
func (l Layout) Start() Position {
	return Position{
		X: l.MinCol + uint8(l.Width()/3),
		Y: l.MinRow + uint8(l.Height()/4),
	}
}
