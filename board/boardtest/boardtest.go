// Package boardtest holds the behaviour every board representation must
// share. Each representation's tests call Run with its constructor.
package boardtest

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/frand"

	"github.com/domino14/nazo/board"
	"github.com/domino14/nazo/puyo"
)

// RandomGrid fills each column from the bottom with no gaps, drawing from
// a small palette so that groups and chains are common.
func RandomGrid(palette []puyo.Color) board.Grid {
	var g board.Grid
	for col := 0; col < puyo.Columns; col++ {
		h := frand.Intn(puyo.Rows + 1)
		for row := 0; row < h; row++ {
			g[col][row] = palette[frand.Intn(len(palette))]
		}
	}
	return g
}

// DefaultPalette includes garbage and three colors.
var DefaultPalette = []puyo.Color{puyo.Garbage, puyo.Red, puyo.Blue, puyo.Green}

// Checker returns a color for (col, row) such that no two orthogonal
// neighbours match, for building inert filler.
func Checker(col, row int) puyo.Color {
	if (col+row)%2 == 0 {
		return puyo.Green
	}
	return puyo.Yellow
}

func countColors(b board.Board) map[puyo.Color]int {
	counts := map[puyo.Color]int{}
	for _, c := range b.Cells() {
		if c != puyo.Empty {
			counts[c]++
		}
	}
	return counts
}

func occupied(b board.Board) int {
	n := 0
	for _, c := range countColors(b) {
		n += c
	}
	return n
}

// Run executes the whole suite against one representation.
func Run(t *testing.T, ctor board.Constructor) {
	empty := func() board.Board { return ctor(board.Grid{}) }
	layout := func(rows ...string) board.Board { return ctor(board.MustParseGrid(rows...)) }

	t.Run("Empty", func(t *testing.T) {
		is := is.New(t)
		b := empty()
		for col := 0; col < puyo.Columns; col++ {
			is.Equal(b.ColumnHeight(col), 0)
		}
		is.True(b.Key().IsZero())
		is.True(!b.IsGameOver())
		is.NoErr(b.Validate())
		is.Equal(b.ColumnHeight(puyo.Columns), 0)
	})

	t.Run("InvalidGridPanics", func(t *testing.T) {
		var g board.Grid
		g[3][0] = puyo.Color(9)
		assert.Panics(t, func() { ctor(g) })
	})

	t.Run("PlaceAndGet", func(t *testing.T) {
		is := is.New(t)
		b := empty()
		p := puyo.MustPosition(0, 0)
		is.NoErr(b.Place(p, puyo.Red))
		is.Equal(b.Get(p), puyo.Red)
		is.True(b.IsFull(p))
		is.True(!b.IsFull(puyo.MustPosition(0, 1)))
	})

	t.Run("ColumnHeight", func(t *testing.T) {
		is := is.New(t)
		b := empty()
		is.NoErr(b.Place(puyo.MustPosition(0, 0), puyo.Red))
		is.Equal(b.ColumnHeight(0), 1)
		is.NoErr(b.Place(puyo.MustPosition(0, 1), puyo.Blue))
		is.Equal(b.ColumnHeight(0), 2)
		is.NoErr(b.Place(puyo.MustPosition(0, 2), puyo.Green))
		is.Equal(b.ColumnHeight(0), 3)
		is.NoErr(b.Place(puyo.MustPosition(0, 12), puyo.Yellow))
		is.Equal(b.ColumnHeight(0), 13)
		is.Equal(b.ColumnHeight(1), 0)
		is.NoErr(b.Place(puyo.MustPosition(1, 5), puyo.Purple))
		is.Equal(b.ColumnHeight(1), 6)
		is.NoErr(b.Validate())
	})

	t.Run("PlaceErrorsLeaveBoardUnchanged", func(t *testing.T) {
		is := is.New(t)
		b := layout("RB....")
		before := b.Key()

		err := b.Place(puyo.MustPosition(0, 0), puyo.Green)
		is.True(errors.Is(err, puyo.ErrCellOccupied))
		err = b.Place(puyo.MustPosition(2, 0), puyo.Empty)
		is.True(errors.Is(err, puyo.ErrInvalidColor))
		err = b.Place(puyo.MustPosition(2, 0), puyo.Color(9))
		is.True(errors.Is(err, puyo.ErrInvalidColor))
		err = b.Place(puyo.MustPosition(puyo.GameOverColumn, puyo.GameOverRow), puyo.Red)
		is.True(errors.Is(err, puyo.ErrGameOver))

		is.Equal(b.Key(), before)
		is.NoErr(b.Validate())
	})

	t.Run("GameOverOnTallStack", func(t *testing.T) {
		is := is.New(t)
		var g board.Grid
		for row := 0; row < puyo.GameOverRow; row++ {
			g[puyo.GameOverColumn][row] = Checker(puyo.GameOverColumn, row)
		}
		b := ctor(g)
		is.Equal(b.ColumnHeight(puyo.GameOverColumn), puyo.GameOverRow)
		err := b.Place(puyo.MustPosition(puyo.GameOverColumn, puyo.GameOverRow), puyo.Red)
		is.True(errors.Is(err, puyo.ErrGameOver))
		is.True(!b.IsGameOver())
		is.Equal(b.ColumnHeight(puyo.GameOverColumn), puyo.GameOverRow)

		g[puyo.GameOverColumn][puyo.GameOverRow] = puyo.Red
		is.True(ctor(g).IsGameOver())
	})

	t.Run("Gravity", func(t *testing.T) {
		is := is.New(t)
		b := empty()
		is.NoErr(b.Place(puyo.MustPosition(0, 5), puyo.Red))
		is.NoErr(b.Place(puyo.MustPosition(0, 10), puyo.Blue))
		is.Equal(b.ColumnHeight(0), 11)

		is.True(b.ApplyGravity())
		is.Equal(b.Get(puyo.MustPosition(0, 0)), puyo.Red)
		is.Equal(b.Get(puyo.MustPosition(0, 1)), puyo.Blue)
		is.Equal(b.Get(puyo.MustPosition(0, 5)), puyo.Empty)
		is.Equal(b.Get(puyo.MustPosition(0, 10)), puyo.Empty)
		is.Equal(b.ColumnHeight(0), 2)
		is.True(!b.ApplyGravity())
		is.NoErr(b.Validate())
	})

	t.Run("GravityKeepsOrderAcrossColumns", func(t *testing.T) {
		is := is.New(t)
		b := layout(
			"Y..#..",
			".G....",
			"R...P.",
			"......",
			".B...R",
		)
		is.True(b.ApplyGravity())
		want := layout(
			"YG....",
			"RB.#PR",
		)
		is.True(b.Equivalent(want))
		for col := 0; col < puyo.Columns; col++ {
			is.Equal(b.ColumnHeight(col), want.ColumnHeight(col))
		}
	})

	t.Run("GravityIdempotentOnRandomFloats", func(t *testing.T) {
		is := is.New(t)
		for i := 0; i < 200; i++ {
			var g board.Grid
			for col := 0; col < puyo.Columns; col++ {
				for row := 0; row < puyo.Rows; row++ {
					if frand.Intn(3) == 0 {
						g[col][row] = DefaultPalette[frand.Intn(len(DefaultPalette))]
					}
				}
			}
			b := ctor(g)
			counts := countColors(b)
			b.ApplyGravity()
			once := b.Key()
			is.True(!b.ApplyGravity())
			is.Equal(b.Key(), once)
			is.Equal(countColors(b), counts)
			is.NoErr(b.Validate())
			for col := 0; col < puyo.Columns; col++ {
				n := 0
				for row := 0; row < puyo.Rows; row++ {
					if b.IsFull(puyo.MustPosition(col, row)) {
						n++
					}
				}
				is.Equal(b.ColumnHeight(col), n)
			}
		}
	})

	t.Run("PlacementMonotonicity", func(t *testing.T) {
		is := is.New(t)
		for i := 0; i < 200; i++ {
			b := ctor(RandomGrid(DefaultPalette))
			col := frand.Intn(puyo.Columns)
			h := b.ColumnHeight(col)
			if h >= puyo.Rows {
				continue
			}
			before := board.GridOf(b)
			heights := make([]int, puyo.Columns)
			for c := range heights {
				heights[c] = b.ColumnHeight(c)
			}
			err := b.Place(puyo.MustPosition(col, h), puyo.Red)
			if errors.Is(err, puyo.ErrGameOver) {
				is.Equal(board.GridOf(b), before)
				continue
			}
			is.NoErr(err)
			after := board.GridOf(b)
			for c := 0; c < puyo.Columns; c++ {
				is.True(b.ColumnHeight(c) >= heights[c])
				if c != col {
					is.Equal(after[c], before[c])
				}
			}
			is.Equal(b.ColumnHeight(col), h+1)
		}
	})

	t.Run("LShapeClears", func(t *testing.T) {
		is := is.New(t)
		b := empty()
		for _, p := range []puyo.Position{
			puyo.MustPosition(0, 0), puyo.MustPosition(0, 1),
			puyo.MustPosition(0, 2), puyo.MustPosition(1, 0),
		} {
			is.NoErr(b.Place(p, puyo.Red))
		}
		ci := b.ExecuteChains()
		is.Equal(ci.Len(), 1)
		is.Equal(ci.Steps[0].Index, 1)
		is.Equal(ci.Steps[0].Cleared, 4)
		is.Equal(ci.Steps[0].Colors, []puyo.Color{puyo.Red})
		is.Equal(ci.Steps[0].GroupSizes(), []int{4})
		is.Equal(b.ColumnHeight(0), 0)
		is.Equal(b.ColumnHeight(1), 0)
		is.True(b.Key().IsZero())
	})

	t.Run("TwoStepChain", func(t *testing.T) {
		is := is.New(t)
		b := layout(
			"B.....",
			"RBB...",
			"RRRB..",
		)
		ci := b.ExecuteChains()
		is.Equal(ci.Len(), 2)
		is.Equal(ci.Steps[0].Colors, []puyo.Color{puyo.Red})
		is.Equal(ci.Steps[1].Colors, []puyo.Color{puyo.Blue})
		is.Equal(ci.Steps[1].Index, 2)
		is.Equal(ci.TotalCleared(), 8)
		is.True(b.Key().IsZero())
		is.NoErr(b.Validate())
	})

	t.Run("SimultaneousGroups", func(t *testing.T) {
		b := layout(
			"RR..BB",
			"RR..BB",
			"GYGYGY",
		)
		ci := b.ExecuteChains()
		require.Equal(t, 1, ci.Len())
		step := ci.Steps[0]
		assert.Equal(t, 8, step.Cleared)
		assert.Equal(t, []puyo.Color{puyo.Red, puyo.Blue}, step.Colors)
		assert.Equal(t, []int{4, 4}, step.GroupSizes())
		assert.Equal(t, puyo.Red, step.Groups[0].Color)
		assert.Equal(t, puyo.MustPosition(0, 1), step.Groups[0].Cells[0])
	})

	t.Run("HiddenRowNeverClears", func(t *testing.T) {
		is := is.New(t)
		var g board.Grid
		for col := 0; col < 4; col++ {
			for row := 0; row < puyo.HiddenRow; row++ {
				g[col][row] = Checker(col, row)
			}
			g[col][puyo.HiddenRow] = puyo.Red
		}
		b := ctor(g)
		ci := b.ExecuteChains()
		is.True(ci.Empty())
		is.Equal(b.Key(), ctor(g).Key())
		is.Equal(len(b.FindGroup(puyo.MustPosition(0, puyo.HiddenRow))), 1)
	})

	t.Run("HiddenRowCellExcludedFromGroup", func(t *testing.T) {
		is := is.New(t)
		var g board.Grid
		for row := 0; row < 8; row++ {
			g[0][row] = Checker(0, row)
		}
		for row := 8; row <= puyo.HiddenRow; row++ {
			g[0][row] = puyo.Red
		}
		b := ctor(g)
		is.Equal(len(b.FindGroup(puyo.MustPosition(0, 8))), 4)
		ci := b.ExecuteChains()
		is.Equal(ci.Len(), 1)
		is.Equal(ci.TotalCleared(), 4)
		is.Equal(b.Get(puyo.MustPosition(0, 8)), puyo.Red)
		is.Equal(b.ColumnHeight(0), 9)
	})

	t.Run("GroupDoesNotRouteThroughHiddenRow", func(t *testing.T) {
		is := is.New(t)
		var g board.Grid
		g[0][11] = puyo.Red
		g[0][12] = puyo.Red
		g[1][12] = puyo.Red
		g[2][12] = puyo.Red
		g[2][11] = puyo.Red
		g[1][11] = puyo.Blue
		b := ctor(g)
		is.Equal(b.FindGroup(puyo.MustPosition(0, 11)), []puyo.Position{puyo.MustPosition(0, 11)})
		is.Equal(b.FindGroup(puyo.MustPosition(1, 12)), []puyo.Position{puyo.MustPosition(1, 12)})
		is.Equal(b.FindGroup(puyo.MustPosition(1, 11)), []puyo.Position{puyo.MustPosition(1, 11)})
		is.Equal(b.FindGroup(puyo.MustPosition(3, 0)), nil)
	})

	t.Run("GarbageClearsWhenAdjacent", func(t *testing.T) {
		is := is.New(t)
		b := layout(
			"#.....",
			"RRRR#.",
			"##...#",
		)
		ci := b.ExecuteChains()
		is.Equal(ci.Len(), 1)
		is.Equal(ci.Steps[0].Cleared, 8)
		is.Equal(len(ci.Steps[0].Garbage), 4)
		is.Equal(ci.Steps[0].Colors, []puyo.Color{puyo.Red})
		is.Equal(b.Get(puyo.MustPosition(5, 0)), puyo.Garbage)
		is.Equal(occupied(b), 1)
	})

	t.Run("HiddenRowGarbageClearsWhenAdjacent", func(t *testing.T) {
		is := is.New(t)
		var g board.Grid
		for row := 0; row < 8; row++ {
			g[0][row] = Checker(0, row)
		}
		for row := 8; row < puyo.HiddenRow; row++ {
			g[0][row] = puyo.Red
		}
		g[0][puyo.HiddenRow] = puyo.Garbage
		b := ctor(g)
		ci := b.ExecuteChains()
		is.Equal(ci.Len(), 1)
		is.Equal(ci.Steps[0].Cleared, 5)
		is.Equal(ci.Steps[0].Garbage, []puyo.Position{puyo.MustPosition(0, puyo.HiddenRow)})
		is.Equal(b.ColumnHeight(0), 8)
		is.Equal(b.Get(puyo.MustPosition(0, puyo.HiddenRow)), puyo.Empty)
		is.NoErr(b.Validate())
	})

	t.Run("GarbageNeverCountsTowardGroup", func(t *testing.T) {
		is := is.New(t)
		b := layout("RRR#..")
		is.True(b.ExecuteChains().Empty())
		is.Equal(b.FindGroup(puyo.MustPosition(3, 0)), nil)
		is.Equal(len(b.FindGroup(puyo.MustPosition(0, 0))), 3)
	})

	t.Run("GroupsPartitionInScanOrder", func(t *testing.T) {
		is := is.New(t)
		b := layout(
			"GG....",
			"RB#...",
			"RBBR..",
		)
		groups := b.Groups()
		is.Equal(len(groups), 4)
		is.Equal(groups[0], board.Group{Color: puyo.Red, Cells: []puyo.Position{
			puyo.MustPosition(0, 0), puyo.MustPosition(0, 1)}})
		is.Equal(groups[1].Color, puyo.Green)
		is.Equal(groups[2], board.Group{Color: puyo.Blue, Cells: []puyo.Position{
			puyo.MustPosition(1, 0), puyo.MustPosition(1, 1), puyo.MustPosition(2, 0)}})
		is.Equal(groups[3].Cells, []puyo.Position{puyo.MustPosition(3, 0)})
		total := 0
		for _, g := range groups {
			total += g.Len()
		}
		is.Equal(total, 8)
	})

	t.Run("ChainConservationAndTermination", func(t *testing.T) {
		is := is.New(t)
		for i := 0; i < 300; i++ {
			b := ctor(RandomGrid(DefaultPalette))
			before := countColors(b)
			total := occupied(b)
			ci := b.ExecuteChains()
			is.True(ci.Len() <= puyo.MaxChainSteps)
			is.True(ci.TotalCleared() <= total)

			cleared := map[puyo.Color]int{}
			for _, s := range ci.Steps {
				for _, g := range s.Groups {
					is.True(g.Qualifies())
					cleared[g.Color] += g.Len()
				}
				cleared[puyo.Garbage] += len(s.Garbage)
			}
			after := countColors(b)
			for c := puyo.Garbage; c < puyo.NumColors; c++ {
				is.Equal(after[c], before[c]-cleared[c])
			}
			for _, g := range b.Groups() {
				is.True(!g.Qualifies())
			}
			is.True(!b.ApplyGravity())
			is.NoErr(b.Validate())
		}
	})

	t.Run("Determinism", func(t *testing.T) {
		is := is.New(t)
		for i := 0; i < 100; i++ {
			g := RandomGrid(DefaultPalette)
			a, b := ctor(g), ctor(g)
			ca, cb := a.ExecuteChains(), b.ExecuteChains()
			is.Equal(ca, cb)
			is.Equal(a.Key(), b.Key())
			is.Equal(a.Hash(), b.Hash())
		}
	})

	t.Run("CloneIsIndependent", func(t *testing.T) {
		is := is.New(t)
		b := layout("RRR...")
		c := b.Clone()
		is.True(c.Equivalent(b))
		is.NoErr(c.Place(puyo.MustPosition(3, 0), puyo.Red))
		c.ExecuteChains()
		is.Equal(b.Get(puyo.MustPosition(0, 0)), puyo.Red)
		is.Equal(b.ColumnHeight(3), 0)
		is.True(!c.Equivalent(b))
		c.Clear()
		is.True(c.Key().IsZero())
	})

	t.Run("CellsOrder", func(t *testing.T) {
		is := is.New(t)
		b := layout("R....B")
		i := 0
		for p, c := range b.Cells() {
			is.Equal(p.Index(), i)
			is.Equal(c, b.Get(p))
			i++
		}
		is.Equal(i, puyo.Cells)
		g := board.GridOf(b)
		is.Equal(g.Rows()[puyo.Rows-1], "R....B")
	})

	t.Run("KeyMatchesCells", func(t *testing.T) {
		is := is.New(t)
		for i := 0; i < 50; i++ {
			b := ctor(RandomGrid(DefaultPalette))
			is.Equal(b.Key(), board.KeyOf(b))
			k := b.Key()
			for p, c := range b.Cells() {
				is.Equal(k.Get(p), c)
			}
		}
	})
}
