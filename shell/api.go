package shell

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/nazo/board"
	"github.com/domino14/nazo/config"
	"github.com/domino14/nazo/placement"
	"github.com/domino14/nazo/puyo"
	"github.com/domino14/nazo/puzzle"
)

// maxUndo bounds the undo stack.
const maxUndo = 64

type snapshot struct {
	board  board.Board
	puzzle *puzzle.Puzzle
	ply    int
}

// checkpoint saves the board so the next change can be undone.
func (sc *ShellController) checkpoint() {
	sc.push(sc.board.Clone())
}

// push records before, a copy of the board taken ahead of a change that
// has now succeeded.
func (sc *ShellController) push(before board.Board) {
	sc.history = append(sc.history, snapshot{board: before, puzzle: sc.puzzle, ply: sc.ply})
	if len(sc.history) > maxUndo {
		sc.history = sc.history[1:]
	}
}

func (sc *ShellController) display() string {
	return sc.renderer.ToDisplayText(sc.board)
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return usage("usage")
	}
	return usageTopic(cmd.args[0])
}

// newBoard starts over with an empty well, or with the given rows listed
// top first.
func (sc *ShellController) newBoard(cmd *shellcmd) (*Response, error) {
	g, err := board.ParseGrid(cmd.args)
	if err != nil {
		return nil, err
	}
	b, err := board.New(sc.repr, g)
	if err != nil {
		return nil, err
	}
	sc.checkpoint()
	sc.board = b
	sc.puzzle = nil
	sc.ply = 0
	return msg(sc.display()), nil
}

func (sc *ShellController) representation(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return msg(fmt.Sprintf("%s (available: %s)", sc.repr,
			strings.Join(board.Representations(), ", "))), nil
	}
	b, err := board.New(cmd.args[0], board.GridOf(sc.board))
	if err != nil {
		return nil, err
	}
	sc.repr = cmd.args[0]
	sc.board = b
	sc.history = nil
	return msg("representation set to " + sc.repr), nil
}

func (sc *ShellController) puzzlePath(name string) string {
	if strings.HasSuffix(name, ".yaml") {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	} else {
		name += ".yaml"
	}
	return filepath.Join(sc.config.GetString(config.ConfigPuzzlePath), name)
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need a puzzle name or path")
	}
	p, err := puzzle.Load(sc.puzzlePath(cmd.args[0]))
	if err != nil {
		return nil, err
	}
	b, err := p.Board(sc.repr)
	if err != nil {
		return nil, err
	}
	sc.checkpoint()
	sc.board = b
	sc.puzzle = p
	sc.ply = 0
	return msg(sc.puzzleStatus() + "\n" + sc.display()), nil
}

func (sc *ShellController) puzzleStatus() string {
	p := sc.puzzle
	remaining := lo.Map(p.Sequence()[min(sc.ply, len(p.Sequence())):], func(pr placement.Pair, _ int) string {
		return pr.String()
	})
	return fmt.Sprintf("puzzle %s, goal %v, next pairs: %s", p.Name, p.Goal, strings.Join(remaining, " "))
}

func (sc *ShellController) listPuzzles(cmd *shellcmd) (*Response, error) {
	ps, err := puzzle.LoadDir(sc.config.GetString(config.ConfigPuzzlePath))
	if err != nil {
		return nil, err
	}
	if len(ps) == 0 {
		return msg("no puzzles found"), nil
	}
	lines := lo.Map(ps, func(p *puzzle.Puzzle, _ int) string {
		return fmt.Sprintf("%-20s %d pairs, goal %v", p.Name, len(p.Pairs), p.Goal)
	})
	return msg(strings.Join(lines, "\n")), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	out := sc.display()
	if sc.puzzle != nil {
		out = sc.puzzleStatus() + "\n" + out
	}
	if sc.board.IsGameOver() {
		out += "game over\n"
	}
	return msg(out), nil
}

// parseCell reads a 1-based column and row.
func parseCell(colS, rowS string) (puyo.Position, error) {
	col, err := strconv.Atoi(colS)
	if err != nil {
		return puyo.Position{}, err
	}
	row, err := strconv.Atoi(rowS)
	if err != nil {
		return puyo.Position{}, err
	}
	return puyo.NewPosition(col-1, row-1)
}

func (sc *ShellController) place(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 3 {
		return nil, errors.New("usage: place <col> <row> <color>")
	}
	p, err := parseCell(cmd.args[0], cmd.args[1])
	if err != nil {
		return nil, err
	}
	code := []rune(cmd.args[2])
	if len(code) != 1 {
		return nil, errors.New("usage: place <col> <row> <color>, color is one letter")
	}
	c, err := puyo.ColorFromRune(code[0])
	if err != nil {
		return nil, err
	}
	before := sc.board.Clone()
	if err := sc.board.Place(p, c); err != nil {
		return nil, err
	}
	sc.push(before)
	return msg(sc.display()), nil
}

// pairAndMove reads "<move>" when a puzzle supplies the pair, or
// "<pair> <move>".
func (sc *ShellController) pairAndMove(args []string) (placement.Pair, placement.Move, bool, error) {
	switch len(args) {
	case 1:
		if sc.puzzle == nil {
			return placement.Pair{}, placement.Move{}, false, errNoPuzzle
		}
		seq := sc.puzzle.Sequence()
		if sc.ply >= len(seq) {
			return placement.Pair{}, placement.Move{}, false, errors.New("the puzzle has no pairs left")
		}
		m, err := placement.ParseMove(args[0])
		return seq[sc.ply], m, true, err
	case 2:
		pair, err := placement.ParsePair(args[0])
		if err != nil {
			return pair, placement.Move{}, false, err
		}
		m, err := placement.ParseMove(args[1])
		return pair, m, false, err
	}
	return placement.Pair{}, placement.Move{}, false, errors.New("usage: [pair] <move>, e.g. RB 3u")
}

func (sc *ShellController) drop(cmd *shellcmd) (*Response, error) {
	pair, m, fromPuzzle, err := sc.pairAndMove(cmd.args)
	if err != nil {
		return nil, err
	}
	before := sc.board.Clone()
	if err := placement.Drop(sc.board, pair, m); err != nil {
		return nil, err
	}
	sc.push(before)
	if fromPuzzle {
		sc.ply++
	}
	return msg(sc.display()), nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	pair, m, fromPuzzle, err := sc.pairAndMove(cmd.args)
	if err != nil {
		return nil, err
	}
	before := sc.board.Clone()
	info, err := placement.Play(sc.board, pair, m)
	if err != nil {
		return nil, err
	}
	sc.push(before)
	out := sc.renderer.ChainText(info) + sc.display()
	if fromPuzzle {
		sc.ply++
		if !info.Empty() && sc.puzzle.Goal.Met(info, sc.board) {
			out += "puzzle solved!\n"
		}
	}
	return msg(out), nil
}

func (sc *ShellController) moves(cmd *shellcmd) (*Response, error) {
	var pair placement.Pair
	var err error
	switch {
	case len(cmd.args) == 1:
		pair, err = placement.ParsePair(cmd.args[0])
	case sc.puzzle != nil && sc.ply < len(sc.puzzle.Sequence()):
		pair = sc.puzzle.Sequence()[sc.ply]
	default:
		err = errors.New("usage: moves <pair>")
	}
	if err != nil {
		return nil, err
	}
	var moves []placement.Move
	if cmd.options.Bool("distinct") {
		moves = placement.EnumerateDistinct(sc.board, pair)
	} else {
		moves = placement.Enumerate(sc.board, pair)
	}
	names := lo.Map(moves, func(m placement.Move, _ int) string { return m.String() })
	return msg(fmt.Sprintf("%d moves for %v: %s", len(moves), pair, strings.Join(names, " "))), nil
}

func (sc *ShellController) chain(cmd *shellcmd) (*Response, error) {
	sc.checkpoint()
	info := sc.board.ExecuteChains()
	return msg(sc.renderer.ChainText(info) + sc.display()), nil
}

func (sc *ShellController) gravity(cmd *shellcmd) (*Response, error) {
	sc.checkpoint()
	if !sc.board.ApplyGravity() {
		return msg("nothing fell"), nil
	}
	return msg(sc.display()), nil
}

func (sc *ShellController) groups(cmd *shellcmd) (*Response, error) {
	groups := sc.board.Groups()
	if len(groups) == 0 {
		return msg("no groups"), nil
	}
	return msg(sc.renderer.GroupsText(groups)), nil
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if len(sc.history) == 0 {
		return nil, errNothingToUndo
	}
	last := sc.history[len(sc.history)-1]
	sc.history = sc.history[:len(sc.history)-1]
	sc.board, sc.puzzle, sc.ply = last.board, last.puzzle, last.ply
	return msg(sc.display()), nil
}

func (sc *ShellController) hash(cmd *shellcmd) (*Response, error) {
	return msg(fmt.Sprintf("key hash %016x, zobrist %016x",
		sc.board.Hash(), sc.zobrist.Hash(sc.board))), nil
}

func (sc *ShellController) solve(cmd *shellcmd) (*Response, error) {
	if sc.puzzle == nil {
		return nil, errNoPuzzle
	}
	ctx, done := sc.commandContext()
	defer done()
	moves, info, err := sc.puzzle.Solve(ctx, sc.repr)
	if err != nil {
		return nil, err
	}
	names := lo.Map(moves, func(m placement.Move, _ int) string { return m.String() })
	return msg(fmt.Sprintf("solution: %s\n%s", strings.Join(names, " "), sc.renderer.ChainText(info))), nil
}
