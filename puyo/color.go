package puyo

import "fmt"

// Color is the state of a single cell. The zero value is an empty cell.
type Color uint8

const (
	Empty Color = iota
	Garbage
	Red
	Blue
	Green
	Yellow
	Purple
)

// NumColors is the number of distinct cell states, Empty included.
const NumColors = 7

var colorNames = [NumColors]string{"empty", "garbage", "red", "blue", "green", "yellow", "purple"}

// colorRunes are the single-character codes used in layouts and the shell.
var colorRunes = [NumColors]rune{'.', '#', 'R', 'B', 'G', 'Y', 'P'}

// Colored lists the five matchable colors in ascending order.
var Colored = []Color{Red, Blue, Green, Yellow, Purple}

func (c Color) Valid() bool {
	return c < NumColors
}

// IsColored is true for the five colors that can form a group. Empty and
// Garbage never match anything.
func (c Color) IsColored() bool {
	return c >= Red && c <= Purple
}

func (c Color) String() string {
	if !c.Valid() {
		return fmt.Sprintf("color(%d)", uint8(c))
	}
	return colorNames[c]
}

// Rune returns the layout character for c, or '?' for an invalid value.
func (c Color) Rune() rune {
	if !c.Valid() {
		return '?'
	}
	return colorRunes[c]
}

// ColorFromRune parses a layout character. Lowercase color letters are
// accepted, and so is a space for an empty cell.
func ColorFromRune(r rune) (Color, error) {
	switch r {
	case '.', ' ':
		return Empty, nil
	case '#', 'O', 'o':
		return Garbage, nil
	case 'R', 'r':
		return Red, nil
	case 'B', 'b':
		return Blue, nil
	case 'G', 'g':
		return Green, nil
	case 'Y', 'y':
		return Yellow, nil
	case 'P', 'p':
		return Purple, nil
	}
	return Empty, fmt.Errorf("%w: unknown cell code %q", ErrInvalidColor, r)
}
