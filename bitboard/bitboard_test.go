package bitboard

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/nazo/board"
	"github.com/domino14/nazo/board/boardtest"
	"github.com/domino14/nazo/puyo"
)

func TestConformance(t *testing.T) {
	boardtest.Run(t, func(g board.Grid) board.Board { return FromGrid(g) })
}

func TestColumnPacking(t *testing.T) {
	is := is.New(t)
	b := New()
	is.NoErr(b.Place(puyo.MustPosition(0, 0), puyo.Red))
	is.NoErr(b.Place(puyo.MustPosition(0, 1), puyo.Blue))
	is.NoErr(b.Place(puyo.MustPosition(0, 2), puyo.Green))
	is.Equal(b.columns[0]&0b111111111, uint64(0b100_011_010))
	is.Equal(b.heights[0], uint8(3))
}

func TestCompact(t *testing.T) {
	is := is.New(t)
	// red at row 2, blue at row 7
	w := uint64(puyo.Red)<<6 | uint64(puyo.Blue)<<21
	occ := board.OccupiedRows(w)
	is.Equal(occ, uint16(1<<2|1<<7))
	is.Equal(compact(w, occ), uint64(puyo.Red)|uint64(puyo.Blue)<<3)
	is.Equal(columnHeight(compact(w, occ)), uint8(2))
	is.Equal(columnHeight(w), uint8(8))
}

func TestGarbageMask(t *testing.T) {
	is := is.New(t)
	b, err := FromLayout(
		"#R....",
		"R#...#",
	)
	is.NoErr(err)
	g := b.garbage()
	is.Equal(g.Positions(), []puyo.Position{
		puyo.MustPosition(0, 1), puyo.MustPosition(1, 0), puyo.MustPosition(5, 0),
	})
}

func TestValidateCatchesStaleHeight(t *testing.T) {
	is := is.New(t)
	b, err := FromLayout("RRB...")
	is.NoErr(err)
	is.NoErr(b.Validate())
	b.heights[1] = 4
	is.True(b.Validate() != nil)
}

func TestRegistered(t *testing.T) {
	is := is.New(t)
	b, err := board.New(Name, board.MustParseGrid("RB...."))
	is.NoErr(err)
	_, ok := b.(*Board)
	is.True(ok)
	is.Equal(b.Get(puyo.MustPosition(1, 0)), puyo.Blue)
}

func benchGrid() board.Grid {
	return board.MustParseGrid(
		"BYGR..",
		"BBYGR.",
		"RRYGRB",
		"YGRBYG",
		"YGRBYG",
		"YGRBYG",
	)
}

func BenchmarkExecuteChains(b *testing.B) {
	g := benchGrid()
	src := FromGrid(g)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bb := *src
		bb.ExecuteChains()
	}
}

func BenchmarkStableScan(b *testing.B) {
	src, _ := FromLayout("RGBYRG", "GBYRGB", "BYRGBY")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bb := *src
		bb.ExecuteChains()
	}
}

func BenchmarkApplyGravity(b *testing.B) {
	src, _ := FromLayout("RGBYRG", "......", "BYRGBY", "......", "GBYRGB")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bb := *src
		bb.ApplyGravity()
	}
}
