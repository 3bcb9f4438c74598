// Package bitboard packs a board column by column: each column is one
// uint64 holding 13 cells of 3 bits, row 0 in the low bits. A per-column
// height cache is refreshed from the column word with a leading-zeros count
// whenever the word changes.
//
//	bits  0-2   row 0  (bottom)
//	bits  3-5   row 1
//	...
//	bits 36-38  row 12 (hidden row)
package bitboard

import (
	"fmt"
	"iter"
	"math/bits"

	"github.com/domino14/nazo/board"
	"github.com/domino14/nazo/puyo"
)

// Name is the registry name of this representation.
const Name = "bitboard"

const (
	cellBits = 3
	cellMask = 1<<cellBits - 1
)

func init() {
	board.Register(Name, func(g board.Grid) board.Board { return FromGrid(g) })
}

// Board is a value type; assigning it copies the whole state.
type Board struct {
	columns [puyo.Columns]uint64
	heights [puyo.Columns]uint8
}

var _ board.Board = (*Board)(nil)

func New() *Board {
	return &Board{}
}

// FromGrid builds a board holding exactly the cells of g. Floating cells
// stay where they are until ApplyGravity. It panics if g fails Validate.
func FromGrid(g board.Grid) *Board {
	if err := g.Validate(); err != nil {
		panic(err)
	}
	b := &Board{}
	for col := 0; col < puyo.Columns; col++ {
		var w uint64
		for row := 0; row < puyo.Rows; row++ {
			w |= uint64(g[col][row]) << (cellBits * row)
		}
		b.columns[col] = w
		b.heights[col] = columnHeight(w)
	}
	return b
}

// FromLayout parses rows (top first, see board.ParseGrid) into a board.
func FromLayout(rows ...string) (*Board, error) {
	g, err := board.ParseGrid(rows)
	if err != nil {
		return nil, err
	}
	return FromGrid(g), nil
}

// columnHeight is the row above the highest non-empty field.
func columnHeight(w uint64) uint8 {
	if w == 0 {
		return 0
	}
	return uint8((63-bits.LeadingZeros64(w))/cellBits + 1)
}

func (b *Board) cell(col, row int) puyo.Color {
	return puyo.Color(b.columns[col] >> (cellBits * row) & cellMask)
}

func (b *Board) Get(p puyo.Position) puyo.Color {
	return b.cell(p.Col(), p.Row())
}

func (b *Board) IsFull(p puyo.Position) bool {
	return b.Get(p) != puyo.Empty
}

func (b *Board) ColumnHeight(col int) int {
	if col < 0 || col >= puyo.Columns {
		return 0
	}
	return int(b.heights[col])
}

// Set overwrites one cell, Empty included, and refreshes that column's
// height. It does not apply game rules; use Place for that.
func (b *Board) Set(p puyo.Position, c puyo.Color) {
	if !c.Valid() {
		panic(fmt.Errorf("%w: %d", puyo.ErrInvalidColor, c))
	}
	col, shift := p.Col(), cellBits*p.Row()
	w := b.columns[col]&^(cellMask<<shift) | uint64(c)<<shift
	b.columns[col] = w
	b.heights[col] = columnHeight(w)
}

func (b *Board) Place(p puyo.Position, c puyo.Color) error {
	if c == puyo.Empty || !c.Valid() {
		return fmt.Errorf("%w: cannot place %v", puyo.ErrInvalidColor, c)
	}
	if b.IsFull(p) {
		return fmt.Errorf("%w: %v holds %v", puyo.ErrCellOccupied, p, b.Get(p))
	}
	if p.IsGameOverCell() {
		return fmt.Errorf("%w: piece placed on %v", puyo.ErrGameOver, p)
	}
	b.Set(p, c)
	return nil
}

// ApplyGravity compacts each column. Columns that are already packed from
// the bottom are detected from their occupancy mask and skipped.
func (b *Board) ApplyGravity() bool {
	moved := false
	for col, w := range b.columns {
		occ := board.OccupiedRows(w)
		if occ&(occ+1) == 0 {
			continue
		}
		b.columns[col] = compact(w, occ)
		b.heights[col] = uint8(bits.OnesCount16(occ))
		moved = true
	}
	return moved
}

// compact is a software parallel-bits-extract of the fields selected by
// occ: it visits occupied fields only, lowest first.
func compact(w uint64, occ uint16) uint64 {
	var out uint64
	shift := 0
	for occ != 0 {
		r := bits.TrailingZeros16(occ)
		out |= (w >> (cellBits * r) & cellMask) << shift
		shift += cellBits
		occ &= occ - 1
	}
	return out
}

func (b *Board) IsGameOver() bool {
	return b.cell(puyo.GameOverColumn, puyo.GameOverRow) != puyo.Empty
}

func (b *Board) Clear() {
	*b = Board{}
}

func (b *Board) Key() board.Key {
	return board.MakeKey(b.columns)
}

func (b *Board) Hash() uint64 {
	return b.Key().Hash()
}

func (b *Board) Equivalent(other board.Board) bool {
	if o, ok := other.(*Board); ok {
		return b.columns == o.columns
	}
	return b.Key() == other.Key()
}

func (b *Board) Cells() iter.Seq2[puyo.Position, puyo.Color] {
	return func(yield func(puyo.Position, puyo.Color) bool) {
		for col := 0; col < puyo.Columns; col++ {
			w := b.columns[col]
			for row := 0; row < puyo.Rows; row++ {
				c := puyo.Color(w >> (cellBits * row) & cellMask)
				if !yield(puyo.MustPosition(col, row), c) {
					return
				}
			}
		}
	}
}

func (b *Board) Clone() board.Board {
	c := *b
	return &c
}

// Validate checks the height cache against the column words. It reports,
// never repairs.
func (b *Board) Validate() error {
	for col, w := range b.columns {
		if w>>(cellBits*puyo.Rows) != 0 {
			return fmt.Errorf("%w: column %d has bits above the top row", puyo.ErrInvariantViolation, col)
		}
		if want := columnHeight(w); b.heights[col] != want {
			return fmt.Errorf("%w: column %d cached height %d, bits say %d",
				puyo.ErrInvariantViolation, col, b.heights[col], want)
		}
		for row := 0; row < puyo.Rows; row++ {
			if c := b.cell(col, row); !c.Valid() {
				return fmt.Errorf("%w: %v holds %v", puyo.ErrInvariantViolation, puyo.MustPosition(col, row), c)
			}
		}
	}
	return nil
}

func (b *Board) String() string {
	return board.Format(b)
}
