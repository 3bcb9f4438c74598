// Package planeboard stores one 78-bit plane per non-empty cell state for
// the whole board. Group detection floods whole planes with shifts instead
// of walking cells, which makes it the representation to compare against
// bitboard when tuning the search loop.
package planeboard

import (
	"fmt"
	"iter"
	"math/bits"

	"github.com/domino14/nazo/board"
	"github.com/domino14/nazo/puyo"
)

// Name is the registry name of this representation.
const Name = "planeboard"

func init() {
	board.Register(Name, func(g board.Grid) board.Board { return FromGrid(g) })
}

// Board keeps planes[c-1] for every color c from Garbage to Purple; a cell
// is empty when no plane has its bit.
type Board struct {
	planes  [puyo.NumColors - 1]plane
	heights [puyo.Columns]uint8
}

var _ board.Board = (*Board)(nil)

func New() *Board {
	return &Board{}
}

// FromGrid builds a board holding exactly the cells of g. It panics if g
// fails Validate.
func FromGrid(g board.Grid) *Board {
	if err := g.Validate(); err != nil {
		panic(err)
	}
	b := &Board{}
	for col := 0; col < puyo.Columns; col++ {
		for row := 0; row < puyo.Rows; row++ {
			if c := g[col][row]; c != puyo.Empty {
				i := col*puyo.Rows + row
				b.planes[c-1] = b.planes[c-1].or(bit(i))
			}
		}
	}
	b.refreshHeights()
	return b
}

func FromLayout(rows ...string) (*Board, error) {
	g, err := board.ParseGrid(rows)
	if err != nil {
		return nil, err
	}
	return FromGrid(g), nil
}

func (b *Board) occupancy() plane {
	var o plane
	for _, p := range b.planes {
		o = o.or(p)
	}
	return o
}

func heightOf(rows uint16) uint8 {
	return uint8(16 - bits.LeadingZeros16(rows))
}

func (b *Board) refreshHeights() {
	occ := b.occupancy()
	for col := range b.heights {
		b.heights[col] = heightOf(occ.colRows(col))
	}
}

func (b *Board) colorAt(i int) puyo.Color {
	for k, p := range b.planes {
		if p.has(i) {
			return puyo.Color(k + 1)
		}
	}
	return puyo.Empty
}

func (b *Board) Get(p puyo.Position) puyo.Color {
	return b.colorAt(p.Index())
}

func (b *Board) IsFull(p puyo.Position) bool {
	return b.occupancy().has(p.Index())
}

func (b *Board) ColumnHeight(col int) int {
	if col < 0 || col >= puyo.Columns {
		return 0
	}
	return int(b.heights[col])
}

// Set overwrites one cell and refreshes that column's height.
func (b *Board) Set(p puyo.Position, c puyo.Color) {
	if !c.Valid() {
		panic(fmt.Errorf("%w: %d", puyo.ErrInvalidColor, c))
	}
	m := bit(p.Index())
	for k := range b.planes {
		b.planes[k] = b.planes[k].andNot(m)
	}
	if c != puyo.Empty {
		b.planes[c-1] = b.planes[c-1].or(m)
	}
	b.heights[p.Col()] = heightOf(b.occupancy().colRows(p.Col()))
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

// ApplyGravity extracts each plane's column slice under the column's
// occupancy mask, which compacts every plane identically.
func (b *Board) ApplyGravity() bool {
	occ := b.occupancy()
	moved := false
	for col := range b.heights {
		occRows := occ.colRows(col)
		if occRows&(occRows+1) == 0 {
			continue
		}
		for k, p := range b.planes {
			if rows := p.colRows(col); rows != 0 {
				b.planes[k] = p.withColRows(col, extract(rows, occRows))
			}
		}
		b.heights[col] = uint8(bits.OnesCount16(occRows))
		moved = true
	}
	return moved
}

func (b *Board) IsGameOver() bool {
	return b.colorAt(puyo.GameOverColumn*puyo.Rows+puyo.GameOverRow) != puyo.Empty
}

func (b *Board) Clear() {
	*b = Board{}
}

func (b *Board) Key() board.Key {
	var cols [puyo.Columns]board.ColumnKey
	for k, p := range b.planes {
		if p.isZero() {
			continue
		}
		for col := range cols {
			cols[col] |= board.SpreadRows(p.colRows(col)) * uint64(k+1)
		}
	}
	return board.MakeKey(cols)
}

func (b *Board) Hash() uint64 {
	return b.Key().Hash()
}

func (b *Board) Equivalent(other board.Board) bool {
	if o, ok := other.(*Board); ok {
		return b.planes == o.planes
	}
	return b.Key() == other.Key()
}

func (b *Board) Cells() iter.Seq2[puyo.Position, puyo.Color] {
	return func(yield func(puyo.Position, puyo.Color) bool) {
		for i := 0; i < puyo.Cells; i++ {
			p, _ := puyo.PositionFromIndex(i)
			if !yield(p, b.colorAt(i)) {
				return
			}
		}
	}
}

func (b *Board) Clone() board.Board {
	c := *b
	return &c
}

func (b *Board) Validate() error {
	var seen plane
	for k, p := range b.planes {
		if !p.andNot(full).isZero() {
			return fmt.Errorf("%w: %v plane has bits outside the board", puyo.ErrInvariantViolation, puyo.Color(k+1))
		}
		if overlap := seen.and(p); !overlap.isZero() {
			return fmt.Errorf("%w: cell %d is in two planes", puyo.ErrInvariantViolation, overlap.lowest())
		}
		seen = seen.or(p)
	}
	for col, h := range b.heights {
		if want := heightOf(seen.colRows(col)); h != want {
			return fmt.Errorf("%w: column %d cached height %d, bits say %d",
				puyo.ErrInvariantViolation, col, h, want)
		}
	}
	return nil
}

func (b *Board) String() string {
	return board.Format(b)
}
