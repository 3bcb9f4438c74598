// Package placement models the falling pair: its two colors, where it is
// dropped and how it is rotated, and which drops are legal on a board.
package placement

import (
	"errors"
	"fmt"
	"strings"

	"github.com/domino14/nazo/puyo"
)

var ErrIllegalMove = errors.New("illegal move")

// Rotation is where the child cell sits relative to the axis cell.
type Rotation uint8

const (
	Up Rotation = iota
	Right
	Down
	Left
)

// NumRotations is the number of distinct rotations.
const NumRotations = 4

// MaxMoves is the most placements a pair can have: 6 vertical drops in each
// of two orientations plus 5 horizontal ones in each of two.
const MaxMoves = 2*puyo.Columns + 2*(puyo.Columns-1)

var rotationNames = [NumRotations]string{"up", "right", "down", "left"}

func (r Rotation) String() string {
	if r >= NumRotations {
		return fmt.Sprintf("rotation(%d)", uint8(r))
	}
	return rotationNames[r]
}

// ParseRotation accepts a full name or its first letter.
func ParseRotation(s string) (Rotation, error) {
	s = strings.ToLower(s)
	for i, name := range rotationNames {
		if s == name || s == name[:1] {
			return Rotation(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown rotation %q", ErrIllegalMove, s)
}

func (r Rotation) Vertical() bool {
	return r == Up || r == Down
}

// childOffset is the child's column offset from the axis.
func (r Rotation) childOffset() int {
	switch r {
	case Right:
		return 1
	case Left:
		return -1
	}
	return 0
}

// Pair is a falling two-cell piece.
type Pair struct {
	Axis  puyo.Color
	Child puyo.Color
}

// ParsePair reads a two-letter pair such as "RB" (axis first).
func ParsePair(s string) (Pair, error) {
	rs := []rune(s)
	if len(rs) != 2 {
		return Pair{}, fmt.Errorf("%w: pair %q must be two cells", puyo.ErrInvalidColor, s)
	}
	axis, err := puyo.ColorFromRune(rs[0])
	if err != nil {
		return Pair{}, err
	}
	child, err := puyo.ColorFromRune(rs[1])
	if err != nil {
		return Pair{}, err
	}
	p := Pair{Axis: axis, Child: child}
	if !p.Valid() {
		return Pair{}, fmt.Errorf("%w: pair %q must be two colored cells", puyo.ErrInvalidColor, s)
	}
	return p, nil
}

func (p Pair) Valid() bool {
	return p.Axis.IsColored() && p.Child.IsColored()
}

func (p Pair) Symmetric() bool {
	return p.Axis == p.Child
}

func (p Pair) String() string {
	return string([]rune{p.Axis.Rune(), p.Child.Rune()})
}

// Move drops a pair with its axis in Column and the given rotation.
type Move struct {
	Column   int
	Rotation Rotation
}

// ChildColumn is the column the child cell falls into.
func (m Move) ChildColumn() int {
	return m.Column + m.Rotation.childOffset()
}

func (m Move) inBounds() bool {
	c := m.ChildColumn()
	return m.Rotation < NumRotations &&
		m.Column >= 0 && m.Column < puyo.Columns &&
		c >= 0 && c < puyo.Columns
}

func (m Move) String() string {
	return fmt.Sprintf("%d%s", m.Column+1, m.Rotation.String()[:1])
}
