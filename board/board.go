// Package board defines the contract every board representation satisfies,
// along with the values that flow across it: groups, chain records, state
// keys and layouts. A search layer should depend on this package only and
// pick a representation by name through the registry.
package board

import (
	"iter"

	"github.com/domino14/nazo/puyo"
)

// Board is a 6x13 well. Implementations are small fixed-size values; a
// Board is owned by exactly one caller at a time, and branching is done by
// Clone-then-mutate.
type Board interface {
	Get(p puyo.Position) puyo.Color
	IsFull(p puyo.Position) bool
	// ColumnHeight is the row just above the topmost piece in col. With no
	// gaps in the column (always the case after gravity) it is the piece count.
	ColumnHeight(col int) int

	// Place puts a single piece at p. It returns puyo.ErrCellOccupied,
	// puyo.ErrInvalidColor, or puyo.ErrGameOver when p is the game-over cell;
	// on any error the board is unchanged.
	Place(p puyo.Position, c puyo.Color) error
	// ApplyGravity settles every column and reports whether anything moved.
	ApplyGravity() bool
	// ExecuteChains clears qualifying groups and settles until the board is
	// stable, returning one step per clear.
	ExecuteChains() ChainInfo

	// FindGroup returns the connected group containing p, in Index order.
	FindGroup(p puyo.Position) []puyo.Position
	// Groups partitions the colored cells below the hidden row into maximal
	// groups, ordered by their first cell in Index order.
	Groups() []Group

	IsGameOver() bool
	Clear()

	Key() Key
	Hash() uint64
	Equivalent(other Board) bool

	// Cells enumerates every cell column-major, bottom to top.
	Cells() iter.Seq2[puyo.Position, puyo.Color]

	Clone() Board
	Validate() error
	String() string
}

// Group is a maximal set of orthogonally connected cells of one color.
type Group struct {
	Color puyo.Color
	Cells []puyo.Position
}

func (g Group) Len() int {
	return len(g.Cells)
}

// Qualifies reports whether the group is large enough to clear.
func (g Group) Qualifies() bool {
	return len(g.Cells) >= puyo.ClearThreshold
}

// Displayer is what a renderer needs from a board.
type Displayer interface {
	Cells() iter.Seq2[puyo.Position, puyo.Color]
}
