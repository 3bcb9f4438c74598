package placement_test

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/nazo/board"
	_ "github.com/domino14/nazo/bitboard"
	"github.com/domino14/nazo/placement"
	_ "github.com/domino14/nazo/planeboard"
	"github.com/domino14/nazo/puyo"
)

// stack fills the bottom n rows of col with alternating colors that never
// form a group.
func stack(t *testing.T, b board.Board, col, n int) {
	t.Helper()
	for row := 0; row < n; row++ {
		c := puyo.Green
		if (row+col)%2 == 1 {
			c = puyo.Yellow
		}
		if err := b.Place(puyo.MustPosition(col, row), c); err != nil {
			t.Fatalf("stack %d,%d: %v", col, row, err)
		}
	}
}

func forEachRepresentation(t *testing.T, fn func(t *testing.T, empty func() board.Board)) {
	for _, name := range board.Representations() {
		t.Run(name, func(t *testing.T) {
			fn(t, func() board.Board {
				b, err := board.New(name, board.Grid{})
				if err != nil {
					t.Fatal(err)
				}
				return b
			})
		})
	}
}

func TestParsePair(t *testing.T) {
	is := is.New(t)
	p, err := placement.ParsePair("rb")
	is.NoErr(err)
	is.Equal(p, placement.Pair{Axis: puyo.Red, Child: puyo.Blue})
	is.Equal(p.String(), "RB")
	is.True(!p.Symmetric())

	_, err = placement.ParsePair("R#")
	is.True(errors.Is(err, puyo.ErrInvalidColor))
	_, err = placement.ParsePair("RBG")
	is.True(errors.Is(err, puyo.ErrInvalidColor))
	_, err = placement.ParsePair("R.")
	is.True(errors.Is(err, puyo.ErrInvalidColor))
}

func TestParseMove(t *testing.T) {
	is := is.New(t)
	m, err := placement.ParseMove("3left")
	is.NoErr(err)
	is.Equal(m, placement.Move{Column: 2, Rotation: placement.Left})
	is.Equal(m.ChildColumn(), 1)

	_, err = placement.ParseMove("1l")
	is.True(errors.Is(err, placement.ErrIllegalMove))
	_, err = placement.ParseMove("6r")
	is.True(errors.Is(err, placement.ErrIllegalMove))
	_, err = placement.ParseMove("7u")
	is.True(errors.Is(err, placement.ErrIllegalMove))
	_, err = placement.ParseMove("2x")
	is.True(errors.Is(err, placement.ErrIllegalMove))
}

func TestEnumerateEmpty(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, empty func() board.Board) {
		is := is.New(t)
		b := empty()
		moves := placement.Enumerate(b, placement.Pair{Axis: puyo.Red, Child: puyo.Blue})
		is.Equal(len(moves), placement.MaxMoves)
		is.Equal(moves[0], placement.Move{Column: 0, Rotation: placement.Up})
		is.Equal(moves[6], placement.Move{Column: 0, Rotation: placement.Right})
		is.Equal(moves[11], placement.Move{Column: 0, Rotation: placement.Down})
		is.Equal(moves[17], placement.Move{Column: 1, Rotation: placement.Left})
		is.Equal(moves[21], placement.Move{Column: 5, Rotation: placement.Left})

		for _, m := range moves {
			back, err := placement.ParseMove(m.String())
			is.NoErr(err)
			is.Equal(back, m)
		}
	})
}

func TestEnumerateDistinctSymmetricPair(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, empty func() board.Board) {
		is := is.New(t)
		b := empty()
		same := placement.Pair{Axis: puyo.Red, Child: puyo.Red}
		moves := placement.EnumerateDistinct(b, same)
		is.Equal(len(moves), 11)

		keys := map[board.Key]bool{}
		for _, m := range placement.Enumerate(b, same) {
			c := b.Clone()
			is.NoErr(placement.Drop(c, same, m))
			keys[c.Key()] = true
		}
		is.Equal(len(keys), 11)

		mixed := placement.Pair{Axis: puyo.Red, Child: puyo.Blue}
		is.Equal(len(placement.EnumerateDistinct(b, mixed)), placement.MaxMoves)
	})
}

func TestEnumerateSkipsGameOverCell(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, empty func() board.Board) {
		is := is.New(t)
		b := empty()
		stack(t, b, puyo.GameOverColumn, puyo.GameOverRow)
		moves := placement.Enumerate(b, placement.Pair{Axis: puyo.Red, Child: puyo.Blue})
		// Up, Down and both horizontals touching the column all land on the
		// game-over cell.
		is.Equal(len(moves), placement.MaxMoves-6)
		for _, m := range moves {
			is.True(m.Column != puyo.GameOverColumn && m.ChildColumn() != puyo.GameOverColumn)
		}

		_, _, err := placement.Landing(b, placement.Move{Column: 1, Rotation: placement.Right})
		is.True(errors.Is(err, puyo.ErrGameOver))
	})
}

func TestEnumerateSkipsFullColumns(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, empty func() board.Board) {
		is := is.New(t)
		b := empty()
		stack(t, b, 0, puyo.Rows-1)
		pair := placement.Pair{Axis: puyo.Red, Child: puyo.Blue}
		// One free cell: horizontals still fit, verticals do not.
		is.Equal(len(placement.Enumerate(b, pair)), placement.MaxMoves-2)

		stack(t, b, 5, puyo.Rows)
		// Column 5 is full: its verticals and both horizontals into it go.
		is.Equal(len(placement.Enumerate(b, pair)), placement.MaxMoves-6)

		_, _, err := placement.Landing(b, placement.Move{Column: 5, Rotation: placement.Up})
		is.True(errors.Is(err, placement.ErrIllegalMove))
	})
}

func TestDropOrientations(t *testing.T) {
	pair := placement.Pair{Axis: puyo.Red, Child: puyo.Blue}
	cases := []struct {
		move        placement.Move
		axis, child puyo.Position
	}{
		{placement.Move{Column: 0, Rotation: placement.Up}, puyo.MustPosition(0, 0), puyo.MustPosition(0, 1)},
		{placement.Move{Column: 0, Rotation: placement.Down}, puyo.MustPosition(0, 1), puyo.MustPosition(0, 0)},
		{placement.Move{Column: 2, Rotation: placement.Right}, puyo.MustPosition(2, 0), puyo.MustPosition(3, 0)},
		{placement.Move{Column: 2, Rotation: placement.Left}, puyo.MustPosition(2, 0), puyo.MustPosition(1, 0)},
	}
	forEachRepresentation(t, func(t *testing.T, empty func() board.Board) {
		for _, tc := range cases {
			is := is.New(t)
			b := empty()
			is.NoErr(placement.Drop(b, pair, tc.move))
			is.Equal(b.Get(tc.axis), puyo.Red)
			is.Equal(b.Get(tc.child), puyo.Blue)
			is.NoErr(b.Validate())
		}
	})
}

func TestDropOnUnevenColumns(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, empty func() board.Board) {
		is := is.New(t)
		b := empty()
		stack(t, b, 0, 3)
		is.NoErr(placement.Drop(b, placement.Pair{Axis: puyo.Red, Child: puyo.Blue},
			placement.Move{Column: 0, Rotation: placement.Right}))
		is.Equal(b.Get(puyo.MustPosition(0, 3)), puyo.Red)
		is.Equal(b.Get(puyo.MustPosition(1, 0)), puyo.Blue)
		is.Equal(b.ColumnHeight(0), 4)
		is.Equal(b.ColumnHeight(1), 1)
	})
}

func TestDropErrorLeavesBoardUnchanged(t *testing.T) {
	forEachRepresentation(t, func(t *testing.T, empty func() board.Board) {
		is := is.New(t)
		b := empty()
		stack(t, b, puyo.GameOverColumn, puyo.GameOverRow)
		stack(t, b, 0, puyo.Rows)
		before := b.Key()
		pair := placement.Pair{Axis: puyo.Red, Child: puyo.Blue}

		err := placement.Drop(b, pair, placement.Move{Column: 1, Rotation: placement.Right})
		is.True(errors.Is(err, puyo.ErrGameOver))
		err = placement.Drop(b, pair, placement.Move{Column: 1, Rotation: placement.Left})
		is.True(errors.Is(err, placement.ErrIllegalMove))
		err = placement.Drop(b, placement.Pair{Axis: puyo.Garbage, Child: puyo.Red},
			placement.Move{Column: 4, Rotation: placement.Up})
		is.True(errors.Is(err, puyo.ErrInvalidColor))

		is.Equal(b.Key(), before)
	})
}

func TestPlayResolvesChain(t *testing.T) {
	for _, name := range board.Representations() {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)
			b, err := board.New(name, board.MustParseGrid(
				"B.....",
				"R.....",
				"R.B...",
				"R.B...",
			))
			is.NoErr(err)
			info, err := placement.Play(b, placement.Pair{Axis: puyo.Red, Child: puyo.Blue},
				placement.Move{Column: 1, Rotation: placement.Up})
			is.NoErr(err)
			// The reds clear, then both loose blues fall next to column 2.
			is.Equal(info.Len(), 2)
			is.Equal(info.Steps[0].Colors, []puyo.Color{puyo.Red})
			is.Equal(info.Steps[1].Colors, []puyo.Color{puyo.Blue})
			is.True(b.Key().IsZero())
		})
	}
}
