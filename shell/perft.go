package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"

	"github.com/domino14/nazo/config"
	"github.com/domino14/nazo/perft"
	"github.com/domino14/nazo/placement"
	"github.com/domino14/nazo/puyo"
)

const histogramWidth = 40

var defaultPerftPair = placement.Pair{Axis: puyo.Red, Child: puyo.Blue}

// perftPairs picks the pairs to drop: those given, else what is left of
// the puzzle, else a single red-blue pair.
func (sc *ShellController) perftPairs(args []string) ([]placement.Pair, error) {
	if len(args) > 0 {
		pairs := make([]placement.Pair, len(args))
		for i, a := range args {
			p, err := placement.ParsePair(a)
			if err != nil {
				return nil, err
			}
			pairs[i] = p
		}
		return pairs, nil
	}
	if sc.puzzle != nil && sc.ply < len(sc.puzzle.Sequence()) {
		return sc.puzzle.Sequence()[sc.ply:], nil
	}
	return []placement.Pair{defaultPerftPair}, nil
}

func (sc *ShellController) perft(cmd *shellcmd) (*Response, error) {
	res, err := sc.runPerft(cmd)
	if err != nil {
		return nil, err
	}
	return msg(perftText(res, cmd.options.Bool("hist"))), nil
}

func (sc *ShellController) runPerft(cmd *shellcmd) (perft.Result, error) {
	if len(cmd.args) == 0 {
		return perft.Result{}, errors.New("usage: perft <depth> [pairs...]")
	}
	depth, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return perft.Result{}, err
	}
	pairs, err := sc.perftPairs(cmd.args[1:])
	if err != nil {
		return perft.Result{}, err
	}
	threads, err := cmd.options.IntDefault("threads", sc.config.GetInt(config.ConfigPerftThreads))
	if err != nil {
		return perft.Result{}, err
	}
	tt, err := cmd.options.Float64Default("tt", sc.config.GetFloat64(config.ConfigTTFractionOfMem))
	if err != nil {
		return perft.Result{}, err
	}
	opts := perft.Options{
		Depth:           depth,
		Threads:         threads,
		TTFractionOfMem: tt,
		Distinct:        cmd.options.Bool("distinct"),
		Prune:           cmd.options.Bool("prune"),
	}

	ctx, done := sc.commandContext()
	defer done()
	return perft.Run(ctx, sc.board, pairs, opts)
}

func perftText(res perft.Result, hist bool) string {
	var sb strings.Builder
	for _, d := range res.Divide {
		fmt.Fprintf(&sb, "%-4s %d\n", d.Move, d.Nodes)
	}
	fmt.Fprintf(&sb, "nodes %d, dead ends %d, chain moves %d, max chain %d\n",
		res.Nodes, res.DeadEnds, res.ChainMoves, res.MaxChain)
	if res.Distinct > 0 {
		fmt.Fprintf(&sb, "distinct wells %d\n", res.Distinct)
	}
	if res.TT.Lookups > 0 {
		fmt.Fprintf(&sb, "ttable lookups %d, hits %d, collisions %d\n",
			res.TT.Lookups, res.TT.Hits, res.TT.T2Collisions)
	}
	fmt.Fprintf(&sb, "elapsed %v\n", res.Elapsed)
	if hist && len(res.Divide) > 0 {
		data := lo.Map(res.Divide, func(d perft.MoveCount, _ int) float64 { return float64(d.Nodes) })
		least, most := lo.Min(data), lo.Max(data)
		if least == most {
			fmt.Fprintf(&sb, "leaves per first move: all %d\n", uint64(least))
			return sb.String()
		}
		h := histogram.Hist(min(10, len(data)), data)
		sb.WriteString("leaves per first move:\n")
		if err := histogram.Fprint(&sb, h, histogram.Linear(histogramWidth)); err != nil {
			fmt.Fprintf(&sb, "histogram: %v\n", err)
		}
	}
	return sb.String()
}
