// Package perft walks the full tree of placements reachable from a board
// for a fixed sequence of pairs and counts what it finds. It is the
// benchmark and the cross-check for the board representations: any two
// representations must report identical counts.
package perft

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kamstrup/intmap"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/nazo/board"
	"github.com/domino14/nazo/placement"
	"github.com/domino14/nazo/zobrist"
)

var (
	ErrNoPairs  = errors.New("perft needs at least one pair")
	ErrBadDepth = errors.New("perft depth out of range")
)

// Options control a run. A zero TTFractionOfMem runs without a
// transposition table.
type Options struct {
	Depth           int
	Threads         int
	TTFractionOfMem float64
	// Prune skips moves of a same-color pair that repeat another move's
	// outcome.
	Prune bool
	// Distinct counts distinct leaf boards. It turns the transposition
	// table off, since cached subtrees hide their leaves.
	Distinct bool
}

// MoveCount is the number of leaves under one root move.
type MoveCount struct {
	Move  placement.Move
	Nodes uint64
}

type Result struct {
	// Nodes is the number of leaves at full depth.
	Nodes uint64
	// DeadEnds counts positions short of full depth with no legal move.
	DeadEnds uint64
	// ChainMoves counts moves anywhere in the tree that cleared something.
	ChainMoves uint64
	MaxChain   int
	// Distinct is only filled in when Options.Distinct is set.
	Distinct int
	Divide   []MoveCount
	TT       TableStats
	Elapsed  time.Duration
}

type counts struct {
	nodes      uint64
	chainMoves uint64
	deadEnds   uint64
	maxChain   int
}

func (c *counts) add(o counts) {
	c.nodes += o.nodes
	c.chainMoves += o.chainMoves
	c.deadEnds += o.deadEnds
	c.maxChain = max(c.maxChain, o.maxChain)
}

type searcher struct {
	opts    Options
	pairs   []placement.Pair
	ttable  *TranspositionTable
	zobrist *zobrist.Zobrist
	visited atomic.Uint64

	leafMu sync.Mutex
	leaves *intmap.Map[uint64, uint32]
}

// Run enumerates every sequence of Depth moves from b. The pair dropped at
// ply i is pairs[i%len(pairs)]. b itself is not modified.
func Run(ctx context.Context, b board.Board, pairs []placement.Pair, opts Options) (Result, error) {
	if len(pairs) == 0 {
		return Result{}, ErrNoPairs
	}
	for _, p := range pairs {
		if !p.Valid() {
			return Result{}, fmt.Errorf("perft: pair %v is not two colors", p)
		}
	}
	if opts.Depth < 1 || opts.Depth > zobrist.MaxDepth {
		return Result{}, fmt.Errorf("%w: %d", ErrBadDepth, opts.Depth)
	}
	if opts.Threads <= 0 {
		opts.Threads = runtime.NumCPU()
	}
	s := &searcher{opts: opts, pairs: pairs}
	if opts.Distinct {
		s.leaves = intmap.New[uint64, uint32](1024)
	} else if opts.TTFractionOfMem > 0 {
		s.ttable = GlobalTranspositionTable
		if opts.Threads > 1 {
			s.ttable.SetMultiThreadedMode()
		} else {
			s.ttable.SetSingleThreadedMode()
		}
		s.ttable.Reset(opts.TTFractionOfMem)
		s.zobrist = s.ttable.Zobrist()
	}

	start := time.Now()
	done := make(chan struct{})
	go s.reportProgress(done)
	defer close(done)

	pair := s.pairs[0]
	moves := s.moves(b, pair)
	results := make([]counts, len(moves))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Threads)
	for i, m := range moves {
		g.Go(func() error {
			child := b.Clone()
			c, err := s.play(gctx, child, pair, m, 1)
			results[i] = c
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	res := Result{Divide: make([]MoveCount, len(moves))}
	var total counts
	if len(moves) == 0 {
		total.deadEnds = 1
	}
	for i, c := range results {
		total.add(c)
		res.Divide[i] = MoveCount{Move: moves[i], Nodes: c.nodes}
	}
	res.Nodes = total.nodes
	res.DeadEnds = total.deadEnds
	res.ChainMoves = total.chainMoves
	res.MaxChain = total.maxChain
	if s.leaves != nil {
		res.Distinct = s.leaves.Len()
	}
	if s.ttable != nil {
		res.TT = s.ttable.Stats()
	}
	res.Elapsed = time.Since(start)

	log.Info().
		Int("depth", opts.Depth).
		Int("threads", opts.Threads).
		Uint64("nodes", res.Nodes).
		Uint64("chain-moves", res.ChainMoves).
		Int("max-chain", res.MaxChain).
		Uint64("ttable-hits", res.TT.Hits).
		Dur("elapsed", res.Elapsed).
		Msg("perft-done")
	return res, nil
}

func (s *searcher) reportProgress(done <-chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	var last uint64
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			v := s.visited.Load()
			log.Debug().Uint64("nps", v-last).Msg("nodes-per-second")
			last = v
		}
	}
}

func (s *searcher) moves(b board.Board, p placement.Pair) []placement.Move {
	if s.opts.Prune {
		return placement.EnumerateDistinct(b, p)
	}
	return placement.Enumerate(b, p)
}

// play makes one move on b, which the caller owns, and searches below it.
func (s *searcher) play(ctx context.Context, b board.Board, p placement.Pair, m placement.Move, ply int) (counts, error) {
	info, err := placement.Play(b, p, m)
	if err != nil {
		// Enumerate only hands out legal moves.
		return counts{}, fmt.Errorf("perft: move %v for %v at ply %d: %w", m, p, ply, err)
	}
	c, err := s.search(ctx, b, ply)
	if err != nil {
		return counts{}, err
	}
	if n := info.Len(); n > 0 {
		c.chainMoves++
		c.maxChain = max(c.maxChain, n)
	}
	return c, nil
}

func (s *searcher) search(ctx context.Context, b board.Board, ply int) (counts, error) {
	s.visited.Add(1)
	remaining := s.opts.Depth - ply
	if remaining == 0 {
		if s.leaves != nil {
			s.recordLeaf(b.Hash())
		}
		return counts{nodes: 1}, nil
	}
	if err := ctx.Err(); err != nil {
		return counts{}, err
	}

	var zval uint64
	if s.ttable != nil && remaining > 1 {
		zval = s.zobrist.WithDepth(s.zobrist.Hash(b), remaining)
		if e, ok := s.ttable.lookup(zval, remaining); ok {
			return e.counts(), nil
		}
	}

	pair := s.pairs[ply%len(s.pairs)]
	moves := s.moves(b, pair)
	if len(moves) == 0 {
		return counts{deadEnds: 1}, nil
	}
	var total counts
	for _, m := range moves {
		child := b.Clone()
		c, err := s.play(ctx, child, pair, m, ply+1)
		if err != nil {
			return counts{}, err
		}
		total.add(c)
	}

	if s.ttable != nil && remaining > 1 {
		s.ttable.store(zval, remaining, total)
	}
	return total, nil
}

func (s *searcher) recordLeaf(h uint64) {
	s.leafMu.Lock()
	defer s.leafMu.Unlock()
	n, _ := s.leaves.Get(h)
	s.leaves.Put(h, n+1)
}
