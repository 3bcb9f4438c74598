package puyo

import "fmt"

const (
	Columns = 6
	Rows    = 13
	Cells   = Columns * Rows

	// HiddenRow is the topmost row. Pieces may rest there but never take
	// part in a group.
	HiddenRow = Rows - 1

	// ClearThreshold is the smallest group that vanishes.
	ClearThreshold = 4

	// A piece landing on the game-over cell ends the game.
	GameOverColumn = 2
	GameOverRow    = 11

	// MaxChainSteps bounds chain resolution: every step removes at least
	// ClearThreshold cells from a finite board.
	MaxChainSteps = Cells / ClearThreshold
)

// Position addresses one cell. Row 0 is the bottom of the well. The zero
// value is the bottom-left cell; any other value must come from
// NewPosition so that it is always in bounds.
type Position struct {
	col uint8
	row uint8
}

// NewPosition validates and builds a position.
func NewPosition(col, row int) (Position, error) {
	if col < 0 || col >= Columns || row < 0 || row >= Rows {
		return Position{}, fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, col, row)
	}
	return Position{col: uint8(col), row: uint8(row)}, nil
}

// MustPosition is NewPosition for coordinates known to be valid. It panics
// otherwise.
func MustPosition(col, row int) Position {
	p, err := NewPosition(col, row)
	if err != nil {
		panic(err)
	}
	return p
}

// PositionFromIndex is the inverse of Index.
func PositionFromIndex(idx int) (Position, error) {
	if idx < 0 || idx >= Cells {
		return Position{}, fmt.Errorf("%w: index %d", ErrOutOfBounds, idx)
	}
	return Position{col: uint8(idx / Rows), row: uint8(idx % Rows)}, nil
}

func (p Position) Col() int { return int(p.col) }
func (p Position) Row() int { return int(p.row) }

// Index numbers cells column-major, bottom to top: the scan order used
// everywhere a deterministic order is needed.
func (p Position) Index() int {
	return int(p.col)*Rows + int(p.row)
}

func (p Position) IsGameOverCell() bool {
	return p.col == GameOverColumn && p.row == GameOverRow
}

func (p Position) IsHidden() bool {
	return p.row == HiddenRow
}

// Neighbors returns the in-bounds orthogonal neighbors in the order down,
// up, left, right.
func (p Position) Neighbors() []Position {
	ns := make([]Position, 0, 4)
	if p.row > 0 {
		ns = append(ns, Position{col: p.col, row: p.row - 1})
	}
	if p.row < Rows-1 {
		ns = append(ns, Position{col: p.col, row: p.row + 1})
	}
	if p.col > 0 {
		ns = append(ns, Position{col: p.col - 1, row: p.row})
	}
	if p.col < Columns-1 {
		ns = append(ns, Position{col: p.col + 1, row: p.row})
	}
	return ns
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.col, p.row)
}
