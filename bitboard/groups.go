package bitboard

import (
	"github.com/domino14/nazo/board"
	"github.com/domino14/nazo/puyo"
)

// flood collects the group of color c containing (col, row) with an
// explicit stack. Cells are marked visited when pushed, so each is pushed
// at most once and the stack never exceeds the board size. The hidden row
// is outside the search space.
func (b *Board) flood(col, row int, c puyo.Color, visited *puyo.Set) puyo.Set {
	var group puyo.Set
	var stack [puyo.Cells]uint8
	n := 0
	push := func(col, row int) {
		if row >= puyo.HiddenRow || visited.HasAt(col, row) || b.cell(col, row) != c {
			return
		}
		visited.AddAt(col, row)
		stack[n] = uint8(col*puyo.Rows + row)
		n++
	}
	push(col, row)
	for n > 0 {
		n--
		idx := int(stack[n])
		col, row := idx/puyo.Rows, idx%puyo.Rows
		group.AddAt(col, row)
		if row > 0 {
			push(col, row-1)
		}
		push(col, row+1)
		if col > 0 {
			push(col-1, row)
		}
		if col < puyo.Columns-1 {
			push(col+1, row)
		}
	}
	return group
}

func (b *Board) FindGroup(p puyo.Position) []puyo.Position {
	c := b.Get(p)
	if !c.IsColored() {
		return nil
	}
	if p.IsHidden() {
		return []puyo.Position{p}
	}
	var visited puyo.Set
	return b.flood(p.Col(), p.Row(), c, &visited).Positions()
}

// scan floods every colored cell below the hidden row once, in Index order,
// and hands each group to fn.
func (b *Board) scan(fn func(c puyo.Color, g puyo.Set)) {
	var visited puyo.Set
	for col := 0; col < puyo.Columns; col++ {
		top := min(int(b.heights[col]), puyo.HiddenRow)
		for row := 0; row < top; row++ {
			c := b.cell(col, row)
			if !c.IsColored() || visited.HasAt(col, row) {
				continue
			}
			fn(c, b.flood(col, row, c, &visited))
		}
	}
}

func (b *Board) Groups() []board.Group {
	var groups []board.Group
	b.scan(func(c puyo.Color, g puyo.Set) {
		groups = append(groups, board.Group{Color: c, Cells: g.Positions()})
	})
	return groups
}

// garbage returns the set of garbage cells.
func (b *Board) garbage() puyo.Set {
	var s puyo.Set
	pattern := board.SpreadRows(puyo.RowMask) * uint64(puyo.Garbage)
	for col, w := range b.columns {
		// fields equal to Garbage become zero after the xor.
		s[col] = ^board.OccupiedRows(w^pattern) & puyo.RowMask
	}
	return s
}

func (b *Board) clearSet() ([]board.Group, puyo.Set) {
	var groups []board.Group
	var cleared puyo.Set
	b.scan(func(c puyo.Color, g puyo.Set) {
		if g.Len() < puyo.ClearThreshold {
			return
		}
		groups = append(groups, board.Group{Color: c, Cells: g.Positions()})
		cleared = cleared.Union(g)
	})
	if len(groups) == 0 {
		return nil, puyo.Set{}
	}
	return groups, cleared.Neighbors().Intersect(b.garbage())
}

func (b *Board) remove(s puyo.Set) {
	for col, rows := range s {
		if rows == 0 {
			continue
		}
		w := b.columns[col] &^ board.FieldMask(rows)
		b.columns[col] = w
		b.heights[col] = columnHeight(w)
	}
}

type resolver struct{ b *Board }

func (r resolver) ClearSet() ([]board.Group, puyo.Set) { return r.b.clearSet() }
func (r resolver) Remove(s puyo.Set)                    { r.b.remove(s) }
func (r resolver) ApplyGravity() bool                   { return r.b.ApplyGravity() }

// ExecuteChains resolves chains until the board is stable.
func (b *Board) ExecuteChains() board.ChainInfo {
	return board.Resolve(resolver{b})
}
