// Package render draws a well for a terminal. It reads boards only through
// board.Displayer, so it works for any representation.
package render

import (
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/nazo/board"
	"github.com/domino14/nazo/puyo"
)

var (
	ColorSupport = os.Getenv("NAZO_DISABLE_COLOR") != "on"
)

var ansiCodes = [puyo.NumColors]string{
	puyo.Garbage: "37",
	puyo.Red:     "31",
	puyo.Blue:    "34",
	puyo.Green:   "32",
	puyo.Yellow:  "33",
	puyo.Purple:  "35",
}

// gameOverMarker is drawn on the game-over cell while it is empty.
const gameOverMarker = 'x'

type Renderer struct {
	Color bool
}

// New returns a renderer that colors output unless NAZO_DISABLE_COLOR is
// "on" or noColor is set.
func New(noColor bool) *Renderer {
	return &Renderer{Color: ColorSupport && !noColor}
}

func (r *Renderer) cell(p puyo.Position, c puyo.Color) string {
	if c == puyo.Empty {
		if p.IsGameOverCell() {
			return string(gameOverMarker)
		}
		return "."
	}
	repr := string(c.Rune())
	if !r.Color {
		return repr
	}
	return fmt.Sprintf("\033[%sm%s\033[0m", ansiCodes[c], repr)
}

// ToDisplayText draws the well top row first with 1-based row and column
// labels. The hidden row is set off by a rule.
func (r *Renderer) ToDisplayText(d board.Displayer) string {
	var grid [puyo.Rows][puyo.Columns]string
	for p, c := range d.Cells() {
		grid[p.Row()][p.Col()] = r.cell(p, c)
	}
	header := "   " + strings.Join(lo.Times(puyo.Columns, func(i int) string {
		return fmt.Sprint(i + 1)
	}), " ")

	var sb strings.Builder
	sb.WriteString(header + "\n")
	rule := "   " + strings.Repeat("-", 2*puyo.Columns-1) + "\n"
	for row := puyo.Rows - 1; row >= 0; row-- {
		fmt.Fprintf(&sb, "%2d %s\n", row+1, strings.Join(grid[row][:], " "))
		if row == puyo.HiddenRow {
			sb.WriteString(rule)
		}
	}
	sb.WriteString(rule)
	return sb.String()
}

// ChainText lists the steps of a chain, one per line.
func (r *Renderer) ChainText(info board.ChainInfo) string {
	if info.Empty() {
		return "no chain\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d-chain, %d cleared\n", info.Len(), info.TotalCleared())
	for _, step := range info.Steps {
		colors := lo.Map(step.Colors, func(c puyo.Color, _ int) string {
			return r.cell(puyo.Position{}, c)
		})
		fmt.Fprintf(&sb, "  %d: %s groups %v", step.Index, strings.Join(colors, ""), step.GroupSizes())
		if len(step.Garbage) > 0 {
			fmt.Fprintf(&sb, " +%d garbage", len(step.Garbage))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// GroupsText lists each group with its size and lowest cell.
func (r *Renderer) GroupsText(groups []board.Group) string {
	var sb strings.Builder
	for _, g := range groups {
		mark := ""
		if g.Qualifies() {
			mark = " *"
		}
		fmt.Fprintf(&sb, "%s %d at %v%s\n", r.cell(g.Cells[0], g.Color), g.Len(), g.Cells[0], mark)
	}
	return sb.String()
}
