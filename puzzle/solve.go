package puzzle

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/nazo/board"
	"github.com/domino14/nazo/placement"
)

var ErrNoSolution = errors.New("no solution")

// Attempt plays moves against the puzzle from the start and reports the
// chain that met the goal. Each move is checked against the goal as soon
// as it resolves, so a solution may be shorter than the pair sequence.
func (p *Puzzle) Attempt(defaultRepr string, moves []placement.Move) (bool, board.ChainInfo, error) {
	b, err := p.Board(defaultRepr)
	if err != nil {
		return false, board.ChainInfo{}, err
	}
	if len(moves) > len(p.pairs) {
		return false, board.ChainInfo{}, fmt.Errorf("%w: %d moves for %d pairs", placement.ErrIllegalMove, len(moves), len(p.pairs))
	}
	for i, m := range moves {
		info, err := placement.Play(b, p.pairs[i], m)
		if err != nil {
			return false, board.ChainInfo{}, fmt.Errorf("move %d (%v): %w", i+1, m, err)
		}
		if !info.Empty() && p.Goal.Met(info, b) {
			return true, info, nil
		}
	}
	return false, board.ChainInfo{}, nil
}

// Solve searches every placement sequence for the first that meets the
// goal, trying moves in enumeration order.
func (p *Puzzle) Solve(ctx context.Context, defaultRepr string) ([]placement.Move, board.ChainInfo, error) {
	b, err := p.Board(defaultRepr)
	if err != nil {
		return nil, board.ChainInfo{}, err
	}
	var nodes int
	var solve func(b board.Board, ply int, line []placement.Move) ([]placement.Move, board.ChainInfo, error)
	solve = func(b board.Board, ply int, line []placement.Move) ([]placement.Move, board.ChainInfo, error) {
		if ply == len(p.pairs) {
			return nil, board.ChainInfo{}, ErrNoSolution
		}
		if err := ctx.Err(); err != nil {
			return nil, board.ChainInfo{}, err
		}
		pair := p.pairs[ply]
		for _, m := range placement.EnumerateDistinct(b, pair) {
			nodes++
			child := b.Clone()
			info, err := placement.Play(child, pair, m)
			if err != nil {
				return nil, board.ChainInfo{}, err
			}
			next := append(line[:ply:ply], m)
			if !info.Empty() && p.Goal.Met(info, child) {
				return next, info, nil
			}
			sol, sinfo, err := solve(child, ply+1, next)
			if !errors.Is(err, ErrNoSolution) {
				return sol, sinfo, err
			}
		}
		return nil, board.ChainInfo{}, ErrNoSolution
	}
	sol, info, err := solve(b, 0, nil)
	log.Debug().Str("puzzle", p.Name).Int("nodes", nodes).Bool("solved", err == nil).Msg("solve-done")
	return sol, info, err
}
