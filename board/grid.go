package board

import (
	"errors"
	"fmt"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/domino14/nazo/puyo"
)

var ErrBadLayout = errors.New("bad layout")

// Grid is an explicit per-cell layout, indexed [col][row]. It is the
// construction interface: loaders build a Grid and hand it to a
// representation's constructor. Every cell must hold a valid Color;
// constructors panic otherwise and New returns puyo.ErrInvalidColor.
type Grid [puyo.Columns][puyo.Rows]puyo.Color

// ParseGrid reads a layout given as rows from top to bottom, one rune per
// column (see puyo.ColorFromRune). Fewer than 13 rows are bottom-aligned,
// so a puzzle only needs to spell out its occupied part.
func ParseGrid(rows []string) (Grid, error) {
	var g Grid
	if len(rows) > puyo.Rows {
		return g, fmt.Errorf("%w: %d rows, at most %d allowed", ErrBadLayout, len(rows), puyo.Rows)
	}
	for i, line := range rows {
		row := len(rows) - 1 - i
		if n := utf8.RuneCountInString(line); n != puyo.Columns {
			return g, fmt.Errorf("%w: row %q has %d cells, want %d", ErrBadLayout, line, n, puyo.Columns)
		}
		col := 0
		for _, r := range line {
			c, err := puyo.ColorFromRune(r)
			if err != nil {
				return g, fmt.Errorf("%w: row %d: %w", ErrBadLayout, row, err)
			}
			g[col][row] = c
			col++
		}
	}
	return g, nil
}

// MustParseGrid is ParseGrid for layouts known to be valid, such as test
// fixtures.
func MustParseGrid(rows ...string) Grid {
	g, err := ParseGrid(rows)
	if err != nil {
		panic(err)
	}
	return g
}

// Validate reports the first cell holding a value outside the color set.
// Constructors require a valid grid.
func (g *Grid) Validate() error {
	for p, c := range g.Cells() {
		if !c.Valid() {
			return fmt.Errorf("%w: %v holds %v", puyo.ErrInvalidColor, p, c)
		}
	}
	return nil
}

// GridOf snapshots any board.
func GridOf(d Displayer) Grid {
	var g Grid
	for p, c := range d.Cells() {
		g[p.Col()][p.Row()] = c
	}
	return g
}

func (g *Grid) Get(p puyo.Position) puyo.Color {
	return g[p.Col()][p.Row()]
}

func (g *Grid) Set(p puyo.Position, c puyo.Color) {
	g[p.Col()][p.Row()] = c
}

// Cells enumerates the grid in the same order as Board.Cells.
func (g *Grid) Cells() iter.Seq2[puyo.Position, puyo.Color] {
	return func(yield func(puyo.Position, puyo.Color) bool) {
		for col := 0; col < puyo.Columns; col++ {
			for row := 0; row < puyo.Rows; row++ {
				if !yield(puyo.MustPosition(col, row), g[col][row]) {
					return
				}
			}
		}
	}
}

// Rows renders the grid as 13 layout rows, top first. It is the inverse
// of ParseGrid.
func (g *Grid) Rows() []string {
	out := make([]string, 0, puyo.Rows)
	var sb strings.Builder
	for row := puyo.Rows - 1; row >= 0; row-- {
		sb.Reset()
		for col := 0; col < puyo.Columns; col++ {
			sb.WriteRune(g[col][row].Rune())
		}
		out = append(out, sb.String())
	}
	return out
}

// Format is the plain-text form used by every representation's String
// method.
func Format(d Displayer) string {
	g := GridOf(d)
	return strings.Join(g.Rows(), "\n") + "\n"
}
