package puzzle

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	_ "github.com/domino14/nazo/bitboard"
	"github.com/domino14/nazo/board"
	"github.com/domino14/nazo/placement"
	_ "github.com/domino14/nazo/planeboard"
	"github.com/domino14/nazo/puyo"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func TestLoad(t *testing.T) {
	is := is.New(t)
	p, err := Load("testdata/two-chain.yaml")
	is.NoErr(err)
	is.Equal(p.Name, "two-chain")
	is.Equal(p.Goal, Goal{Chain: 2})
	is.Equal(p.Sequence(), []placement.Pair{{Axis: puyo.Red, Child: puyo.Blue}})

	b, err := p.Board("bitboard")
	is.NoErr(err)
	is.Equal(b.Get(puyo.MustPosition(0, 3)), puyo.Blue)
	is.Equal(b.ColumnHeight(2), 2)
}

func TestLoadNamesFromFile(t *testing.T) {
	is := is.New(t)
	p, err := Load("testdata/all-clear.yaml")
	is.NoErr(err)
	is.Equal(p.Name, "all-clear")
	is.Equal(p.Goal.String(), "1-chain and all clear")
}

func TestLoadDir(t *testing.T) {
	is := is.New(t)
	ps, err := LoadDir("testdata")
	is.NoErr(err)
	is.Equal(len(ps), 2)
	is.Equal(ps[0].Name, "all-clear")
	is.Equal(ps[1].Name, "two-chain")
}

func TestRepresentationChoice(t *testing.T) {
	is := is.New(t)
	p, err := Parse([]byte("layout: [\"R.....\"]\npairs: [RB]\n"))
	is.NoErr(err)
	_, err = p.Board("nope")
	is.True(errors.Is(err, board.ErrUnknownRepresentation))

	p.Representation = "bitboard"
	b, err := p.Board("nope")
	is.NoErr(err)
	is.Equal(b.Get(puyo.MustPosition(0, 0)), puyo.Red)
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"bad color":    "layout: [\"RZ....\"]\npairs: [RB]\n",
		"short row":    "layout: [\"RB\"]\npairs: [RB]\n",
		"no pairs":     "layout: [\"R.....\"]\n",
		"garbage pair": "layout: [\"R.....\"]\npairs: [\"R#\"]\n",
		"bad goal":     "layout: []\npairs: [RB]\ngoal: {chain: -1}\n",
		"not yaml":     "layout: [",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)
			_, err := Parse([]byte(src))
			is.True(errors.Is(err, ErrBadPuzzle))
		})
	}
}

func TestAttempt(t *testing.T) {
	is := is.New(t)
	p, err := Load("testdata/all-clear.yaml")
	is.NoErr(err)

	ok, info, err := p.Attempt("bitboard", []placement.Move{{Column: 2, Rotation: placement.Up}})
	is.NoErr(err)
	is.True(ok)
	is.Equal(info.Len(), 1)

	ok, _, err = p.Attempt("bitboard", []placement.Move{
		{Column: 5, Rotation: placement.Up},
		{Column: 4, Rotation: placement.Up},
	})
	is.NoErr(err)
	is.True(!ok)

	_, _, err = p.Attempt("bitboard", make([]placement.Move, 3))
	is.True(errors.Is(err, placement.ErrIllegalMove))
}

func TestSolve(t *testing.T) {
	is := is.New(t)
	p, err := Load("testdata/two-chain.yaml")
	is.NoErr(err)
	moves, info, err := p.Solve(context.Background(), "bitboard")
	is.NoErr(err)
	is.Equal(moves, []placement.Move{{Column: 1, Rotation: placement.Up}})
	is.Equal(info.Len(), 2)

	ok, _, err := p.Attempt("", moves)
	is.NoErr(err)
	is.True(ok)
}

func TestSolveAllClear(t *testing.T) {
	is := is.New(t)
	p, err := Load("testdata/all-clear.yaml")
	is.NoErr(err)
	moves, _, err := p.Solve(context.Background(), "planeboard")
	is.NoErr(err)
	is.Equal(moves, []placement.Move{{Column: 0, Rotation: placement.Up}})
}

func TestNoSolution(t *testing.T) {
	is := is.New(t)
	p, err := Parse([]byte("layout: [\"R.....\"]\npairs: [GY, BP]\ngoal: {chain: 1}\n"))
	is.NoErr(err)
	_, _, err = p.Solve(context.Background(), "bitboard")
	is.True(errors.Is(err, ErrNoSolution))
}

func TestShippedPuzzlesSolve(t *testing.T) {
	ps, err := LoadDir("../data/puzzles")
	if err != nil {
		t.Fatal(err)
	}
	if len(ps) == 0 {
		t.Fatal("no shipped puzzles")
	}
	for _, p := range ps {
		t.Run(p.Name, func(t *testing.T) {
			is := is.New(t)
			moves, info, err := p.Solve(context.Background(), "bitboard")
			is.NoErr(err)
			is.True(info.Len() >= p.Goal.Chain)
			ok, _, err := p.Attempt("planeboard", moves)
			is.NoErr(err)
			is.True(ok)
		})
	}
}

func TestThreeStairs(t *testing.T) {
	is := is.New(t)
	p, err := Load("../data/puzzles/three-stairs.yaml")
	is.NoErr(err)
	ok, info, err := p.Attempt("bitboard", []placement.Move{{Column: 1, Rotation: placement.Up}})
	is.NoErr(err)
	is.True(ok)
	is.Equal(info.Len(), 3)
	is.Equal(info.Steps[2].Colors, []puyo.Color{puyo.Green})
}
