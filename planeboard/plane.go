package planeboard

import (
	"math/bits"

	"github.com/domino14/nazo/puyo"
)

// plane is a 78-bit set over the whole board, bit col*13+row. Go has no
// 128-bit integer, so it is two words; column 4 straddles them.
type plane struct {
	lo, hi uint64
}

const hiBits = puyo.Cells - 64

var (
	full      = plane{lo: ^uint64(0), hi: 1<<hiBits - 1}
	bottomRow = rowPlane(0)
	topRow    = rowPlane(puyo.HiddenRow)
	// playable is the connectivity search space.
	playable = full.andNot(topRow)
)

func rowPlane(row int) plane {
	var p plane
	for col := 0; col < puyo.Columns; col++ {
		p = p.or(bit(col*puyo.Rows + row))
	}
	return p
}

func bit(i int) plane {
	if i < 64 {
		return plane{lo: 1 << i}
	}
	return plane{hi: 1 << (i - 64)}
}

func (p plane) and(o plane) plane    { return plane{p.lo & o.lo, p.hi & o.hi} }
func (p plane) or(o plane) plane     { return plane{p.lo | o.lo, p.hi | o.hi} }
func (p plane) andNot(o plane) plane { return plane{p.lo &^ o.lo, p.hi &^ o.hi} }
func (p plane) isZero() bool         { return p.lo|p.hi == 0 }

func (p plane) has(i int) bool {
	if i < 64 {
		return p.lo&(1<<i) != 0
	}
	return p.hi&(1<<(i-64)) != 0
}

func (p plane) onesCount() int {
	return bits.OnesCount64(p.lo) + bits.OnesCount64(p.hi)
}

// lowest returns the smallest set index; p must not be empty.
func (p plane) lowest() int {
	if p.lo != 0 {
		return bits.TrailingZeros64(p.lo)
	}
	return 64 + bits.TrailingZeros64(p.hi)
}

func (p plane) shl(n uint) plane {
	switch {
	case n == 0:
		return p
	case n >= 64:
		return plane{hi: p.lo << (n - 64)}.and(full)
	}
	return plane{lo: p.lo << n, hi: p.hi<<n | p.lo>>(64-n)}.and(full)
}

func (p plane) shr(n uint) plane {
	switch {
	case n == 0:
		return p
	case n >= 64:
		return plane{lo: p.hi >> (n - 64)}
	}
	return plane{lo: p.lo>>n | p.hi<<(64-n), hi: p.hi >> n}
}

// Single-cell moves. Bits that would wrap into the neighbouring column are
// masked off.
func (p plane) up() plane    { return p.shl(1).andNot(bottomRow) }
func (p plane) down() plane  { return p.shr(1).andNot(topRow) }
func (p plane) left() plane  { return p.shr(puyo.Rows) }
func (p plane) right() plane { return p.shl(puyo.Rows) }

func (p plane) neighbors() plane {
	return p.up().or(p.down()).or(p.left()).or(p.right())
}

// flood grows seed inside space until it stops changing.
func flood(seed, space plane) plane {
	grp := seed
	for {
		next := grp.or(grp.neighbors().and(space))
		if next == grp {
			return grp
		}
		grp = next
	}
}

// colRows extracts one column as a 13-bit row mask.
func (p plane) colRows(col int) uint16 {
	return uint16(p.shr(uint(col*puyo.Rows)).lo) & puyo.RowMask
}

// withColRows replaces one column.
func (p plane) withColRows(col int, rows uint16) plane {
	off := uint(col * puyo.Rows)
	colMask := plane{lo: uint64(puyo.RowMask)}.shl(off)
	return p.andNot(colMask).or(plane{lo: uint64(rows)}.shl(off))
}

func fromSet(s puyo.Set) plane {
	var p plane
	for col, rows := range s {
		p = p.or(plane{lo: uint64(rows)}.shl(uint(col * puyo.Rows)))
	}
	return p
}

func (p plane) toSet() puyo.Set {
	var s puyo.Set
	for col := range s {
		s[col] = p.colRows(col)
	}
	return s
}

// extract packs the bits of x selected by mask into the low bits.
func extract(x, mask uint16) uint16 {
	var out uint16
	k := 0
	for mask != 0 {
		tz := bits.TrailingZeros16(mask)
		out |= (x >> tz & 1) << k
		k++
		mask &= mask - 1
	}
	return out
}
