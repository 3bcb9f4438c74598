package placement

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/samber/lo"

	"github.com/domino14/nazo/board"
	"github.com/domino14/nazo/puyo"
)

// ParseMove reads the short form written by Move.String: a 1-based column
// followed by a rotation, e.g. "3u" or "4left".
func ParseMove(s string) (Move, error) {
	if len(s) < 2 {
		return Move{}, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}
	col, err := strconv.Atoi(s[:1])
	if err != nil {
		return Move{}, fmt.Errorf("%w: bad column in %q", ErrIllegalMove, s)
	}
	rot, err := ParseRotation(s[1:])
	if err != nil {
		return Move{}, err
	}
	m := Move{Column: col - 1, Rotation: rot}
	if !m.inBounds() {
		return Move{}, fmt.Errorf("%w: %q leaves the board", ErrIllegalMove, s)
	}
	return m, nil
}

// Landing returns the cells where the axis and the child come to rest,
// without touching the board. Drops that would rest above the top row
// return ErrIllegalMove; drops that rest on the game-over cell return
// puyo.ErrGameOver.
func Landing(b board.Board, m Move) (axis, child puyo.Position, err error) {
	if !m.inBounds() {
		return axis, child, fmt.Errorf("%w: %v leaves the board", ErrIllegalMove, m)
	}
	axisRow := b.ColumnHeight(m.Column)
	childRow := b.ColumnHeight(m.ChildColumn())
	switch m.Rotation {
	case Up:
		childRow = axisRow + 1
	case Down:
		axisRow = childRow + 1
	}
	if axis, err = puyo.NewPosition(m.Column, axisRow); err != nil {
		return axis, child, fmt.Errorf("%w: column %d is full", ErrIllegalMove, m.Column+1)
	}
	if child, err = puyo.NewPosition(m.ChildColumn(), childRow); err != nil {
		return axis, child, fmt.Errorf("%w: column %d is full", ErrIllegalMove, m.ChildColumn()+1)
	}
	if axis.IsGameOverCell() || child.IsGameOverCell() {
		return axis, child, fmt.Errorf("%w: %v lands on the game-over cell", puyo.ErrGameOver, m)
	}
	return axis, child, nil
}

// Drop places both cells of p, lower cell first. It changes nothing when
// it returns an error.
func Drop(b board.Board, p Pair, m Move) error {
	if !p.Valid() {
		return fmt.Errorf("%w: pair %v", puyo.ErrInvalidColor, p)
	}
	axis, child, err := Landing(b, m)
	if err != nil {
		return err
	}
	first, firstColor, second, secondColor := axis, p.Axis, child, p.Child
	if child.Row() < axis.Row() {
		first, firstColor, second, secondColor = child, p.Child, axis, p.Axis
	}
	if err := b.Place(first, firstColor); err != nil {
		return err
	}
	if err := b.Place(second, secondColor); err != nil {
		// Landing already ruled out every way the second placement can fail.
		panic(errors.Join(puyo.ErrInvariantViolation, err))
	}
	return nil
}

// Play drops the pair and resolves the chain it triggers.
func Play(b board.Board, p Pair, m Move) (board.ChainInfo, error) {
	if err := Drop(b, p, m); err != nil {
		return board.ChainInfo{}, err
	}
	return b.ExecuteChains(), nil
}

// Enumerate lists every legal move for p on b: rotations in the order Up,
// Right, Down, Left and columns ascending within each.
func Enumerate(b board.Board, p Pair) []Move {
	if !p.Valid() {
		return nil
	}
	moves := make([]Move, 0, MaxMoves)
	for rot := Up; rot < NumRotations; rot++ {
		for col := 0; col < puyo.Columns; col++ {
			m := Move{Column: col, Rotation: rot}
			if !m.inBounds() {
				continue
			}
			if _, _, err := Landing(b, m); err == nil {
				moves = append(moves, m)
			}
		}
	}
	return moves
}

// EnumerateDistinct is Enumerate without moves that produce the same board
// as an earlier move. Only a pair of two equal colors has such duplicates:
// Down mirrors Up, and Left from column c mirrors Right from c-1.
func EnumerateDistinct(b board.Board, p Pair) []Move {
	moves := Enumerate(b, p)
	if !p.Symmetric() {
		return moves
	}
	return lo.Filter(moves, func(m Move, _ int) bool {
		return m.Rotation == Up || m.Rotation == Right
	})
}
