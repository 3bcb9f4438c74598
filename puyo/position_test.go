package puyo

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestNewPositionBounds(t *testing.T) {
	is := is.New(t)
	for _, tc := range []struct{ col, row int }{
		{-1, 0}, {0, -1}, {6, 0}, {0, 13}, {6, 13},
	} {
		_, err := NewPosition(tc.col, tc.row)
		is.True(errors.Is(err, ErrOutOfBounds))
	}
	p, err := NewPosition(5, 12)
	is.NoErr(err)
	is.Equal(p.Col(), 5)
	is.Equal(p.Row(), 12)
	is.Equal(p.Index(), 5*13+12)
	is.True(p.IsHidden())
}

func TestMustPositionPanics(t *testing.T) {
	is := is.New(t)
	defer func() {
		r := recover()
		is.True(r != nil)
	}()
	MustPosition(0, 13)
}

func TestPositionFromIndexRoundTrip(t *testing.T) {
	is := is.New(t)
	for i := 0; i < Cells; i++ {
		p, err := PositionFromIndex(i)
		is.NoErr(err)
		is.Equal(p.Index(), i)
	}
	_, err := PositionFromIndex(Cells)
	is.True(errors.Is(err, ErrOutOfBounds))
}

func TestGameOverCell(t *testing.T) {
	is := is.New(t)
	is.True(MustPosition(2, 11).IsGameOverCell())
	is.True(!MustPosition(2, 12).IsGameOverCell())
	is.True(!MustPosition(3, 11).IsGameOverCell())
}

func TestNeighbors(t *testing.T) {
	is := is.New(t)
	is.Equal(MustPosition(0, 0).Neighbors(), []Position{MustPosition(0, 1), MustPosition(1, 0)})
	is.Equal(MustPosition(3, 5).Neighbors(), []Position{
		MustPosition(3, 4), MustPosition(3, 6), MustPosition(2, 5), MustPosition(4, 5),
	})
	is.Equal(len(MustPosition(5, 12).Neighbors()), 2)
}

func TestColorRunes(t *testing.T) {
	is := is.New(t)
	for c := Empty; c < NumColors; c++ {
		back, err := ColorFromRune(c.Rune())
		is.NoErr(err)
		is.Equal(back, c)
	}
	_, err := ColorFromRune('Z')
	is.True(errors.Is(err, ErrInvalidColor))
	is.True(!Garbage.IsColored())
	is.True(!Empty.IsColored())
	is.True(Purple.IsColored())
	is.True(!Color(7).Valid())
}
