package puyo

import (
	"iter"
	"math/bits"
)

const (
	// RowMask has one bit per row of a column.
	RowMask uint16 = 1<<Rows - 1
	// PlayableRowMask excludes the hidden row.
	PlayableRowMask uint16 = 1<<HiddenRow - 1
)

// Set is a set of positions, one 13-bit row mask per column. It is a plain
// value; copying it copies the set.
type Set [Columns]uint16

func (s *Set) Add(p Position) {
	s[p.col] |= 1 << p.row
}

func (s *Set) Remove(p Position) {
	s[p.col] &^= 1 << p.row
}

func (s Set) Has(p Position) bool {
	return s[p.col]&(1<<p.row) != 0
}

// AddAt and HasAt take raw coordinates for inner loops that have already
// bounds-checked them.
func (s *Set) AddAt(col, row int) {
	s[col] |= 1 << row
}

func (s Set) HasAt(col, row int) bool {
	return s[col]&(1<<row) != 0
}

func (s Set) Len() int {
	n := 0
	for _, c := range s {
		n += bits.OnesCount16(c)
	}
	return n
}

func (s Set) IsEmpty() bool {
	return s == Set{}
}

func (s Set) Union(o Set) Set {
	for i := range s {
		s[i] |= o[i]
	}
	return s
}

func (s Set) Intersect(o Set) Set {
	for i := range s {
		s[i] &= o[i]
	}
	return s
}

func (s Set) Minus(o Set) Set {
	for i := range s {
		s[i] &^= o[i]
	}
	return s
}

// Neighbors returns every cell orthogonally adjacent to some member of s.
// Members of s are included only when they neighbor another member.
func (s Set) Neighbors() Set {
	var n Set
	for c := 0; c < Columns; c++ {
		m := s[c]<<1 | s[c]>>1
		if c > 0 {
			m |= s[c-1]
		}
		if c < Columns-1 {
			m |= s[c+1]
		}
		n[c] = m & RowMask
	}
	return n
}

// All yields the members in Index order.
func (s Set) All() iter.Seq[Position] {
	return func(yield func(Position) bool) {
		for c := 0; c < Columns; c++ {
			m := s[c]
			for m != 0 {
				r := bits.TrailingZeros16(m)
				if !yield(Position{col: uint8(c), row: uint8(r)}) {
					return
				}
				m &= m - 1
			}
		}
	}
}

// Positions returns the members in Index order.
func (s Set) Positions() []Position {
	ps := make([]Position, 0, s.Len())
	for p := range s.All() {
		ps = append(ps, p)
	}
	return ps
}

// First returns the member with the lowest Index.
func (s Set) First() (Position, bool) {
	for c := 0; c < Columns; c++ {
		if s[c] != 0 {
			return Position{col: uint8(c), row: uint8(bits.TrailingZeros16(s[c]))}, true
		}
	}
	return Position{}, false
}
