package zobrist

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/nazo/bitboard"
	"github.com/domino14/nazo/board"
	"github.com/domino14/nazo/planeboard"
	"github.com/domino14/nazo/puyo"
)

func TestEmptyHashesToZero(t *testing.T) {
	is := is.New(t)
	z := &Zobrist{}
	z.Initialize()
	is.Equal(z.Hash(bitboard.New()), uint64(0))
}

func TestToggleMatchesHash(t *testing.T) {
	is := is.New(t)
	z := &Zobrist{}
	z.Initialize()

	b := bitboard.New()
	h := z.Hash(b)
	p := puyo.MustPosition(3, 0)
	is.NoErr(b.Place(p, puyo.Purple))
	h1 := z.Toggle(h, p, puyo.Purple)
	is.Equal(h1, z.Hash(b))
	is.True(h1 != h)
	// and back out again
	is.Equal(z.Toggle(h1, p, puyo.Purple), h)
}

func TestHashAgreesAcrossRepresentations(t *testing.T) {
	is := is.New(t)
	z := &Zobrist{}
	z.Initialize()
	g := board.MustParseGrid(
		"..#...",
		"RBGYP.",
		"RRBB##",
	)
	bb := bitboard.FromGrid(g)
	pb := planeboard.FromGrid(g)
	is.Equal(z.Hash(bb), z.Hash(pb))
	is.Equal(z.Hash(bb), z.Hash(&g))
}

func TestWithDepth(t *testing.T) {
	is := is.New(t)
	z := &Zobrist{}
	z.Initialize()
	b, err := bitboard.FromLayout("RB....")
	is.NoErr(err)
	h := z.Hash(b)
	is.True(z.WithDepth(h, 1) != z.WithDepth(h, 2))
	is.Equal(z.WithDepth(z.WithDepth(h, 3), 3), h)
}
