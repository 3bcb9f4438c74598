package planeboard

import (
	"github.com/domino14/nazo/board"
	"github.com/domino14/nazo/puyo"
)

// colored is the union of the five color planes, restricted to the
// connectivity search space.
func (b *Board) colored() plane {
	var o plane
	for _, c := range puyo.Colored {
		o = o.or(b.planes[c-1])
	}
	return o.and(playable)
}

func (b *Board) FindGroup(p puyo.Position) []puyo.Position {
	c := b.Get(p)
	if !c.IsColored() {
		return nil
	}
	if p.IsHidden() {
		return []puyo.Position{p}
	}
	g := flood(bit(p.Index()), b.planes[c-1].and(playable))
	return g.toSet().Positions()
}

// scan repeatedly seeds a flood from the lowest unclaimed colored bit, so
// groups come out ordered by their first cell.
func (b *Board) scan(fn func(c puyo.Color, g plane)) {
	remaining := b.colored()
	for !remaining.isZero() {
		i := remaining.lowest()
		c := b.colorAt(i)
		g := flood(bit(i), b.planes[c-1].and(playable))
		fn(c, g)
		remaining = remaining.andNot(g)
	}
}

func (b *Board) Groups() []board.Group {
	var groups []board.Group
	b.scan(func(c puyo.Color, g plane) {
		groups = append(groups, board.Group{Color: c, Cells: g.toSet().Positions()})
	})
	return groups
}

func (b *Board) clearSet() ([]board.Group, puyo.Set) {
	var groups []board.Group
	var cleared plane
	b.scan(func(c puyo.Color, g plane) {
		if g.onesCount() < puyo.ClearThreshold {
			return
		}
		groups = append(groups, board.Group{Color: c, Cells: g.toSet().Positions()})
		cleared = cleared.or(g)
	})
	if len(groups) == 0 {
		return nil, puyo.Set{}
	}
	garbage := cleared.neighbors().and(b.planes[puyo.Garbage-1])
	return groups, garbage.toSet()
}

func (b *Board) remove(s puyo.Set) {
	m := fromSet(s)
	for k := range b.planes {
		b.planes[k] = b.planes[k].andNot(m)
	}
	b.refreshHeights()
}

type resolver struct{ b *Board }

func (r resolver) ClearSet() ([]board.Group, puyo.Set) { return r.b.clearSet() }
func (r resolver) Remove(s puyo.Set)                    { r.b.remove(s) }
func (r resolver) ApplyGravity() bool                   { return r.b.ApplyGravity() }

func (b *Board) ExecuteChains() board.ChainInfo {
	return board.Resolve(resolver{b})
}
