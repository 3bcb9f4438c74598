package board

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/nazo/puyo"
)

// ChainStep records one clear. Groups holds only the qualifying colored
// groups; Garbage holds the garbage removed alongside them.
type ChainStep struct {
	Index   int
	Cleared int
	Colors  []puyo.Color
	Groups  []Group
	Garbage []puyo.Position
}

// GroupSizes returns the size of each cleared group in scan order.
func (s ChainStep) GroupSizes() []int {
	return lo.Map(s.Groups, func(g Group, _ int) int { return g.Len() })
}

func (s ChainStep) String() string {
	names := lo.Map(s.Colors, func(c puyo.Color, _ int) string { return c.String() })
	return fmt.Sprintf("step %d: %d cleared (%d garbage) groups %v colors %s",
		s.Index, s.Cleared, len(s.Garbage), s.GroupSizes(), strings.Join(names, ","))
}

// NewChainStep builds the record for a clear from the qualifying groups and
// the set of garbage removed with them.
func NewChainStep(index int, groups []Group, garbage puyo.Set) ChainStep {
	colors := lo.Uniq(lo.Map(groups, func(g Group, _ int) puyo.Color { return g.Color }))
	slices.Sort(colors)
	garbageCells := garbage.Positions()
	return ChainStep{
		Index:   index,
		Cleared: lo.SumBy(groups, Group.Len) + len(garbageCells),
		Colors:  colors,
		Groups:  groups,
		Garbage: garbageCells,
	}
}

// ChainInfo is the ordered record of one chain resolution. It holds no
// reference into the board it came from.
type ChainInfo struct {
	Steps []ChainStep
}

// Len is the chain length: the number of clear steps.
func (ci ChainInfo) Len() int {
	return len(ci.Steps)
}

func (ci ChainInfo) Empty() bool {
	return len(ci.Steps) == 0
}

func (ci ChainInfo) TotalCleared() int {
	return lo.SumBy(ci.Steps, func(s ChainStep) int { return s.Cleared })
}

func (ci *ChainInfo) add(step ChainStep) {
	ci.Steps = append(ci.Steps, step)
}

// Resolver drives the Stable -> Clearing -> Settling loop for a
// representation. Each representation supplies the scan and the clear; the
// loop, the step bookkeeping and the termination bound live here so every
// representation resolves chains identically.
type Resolver interface {
	// ClearSet returns the qualifying groups and the garbage adjacent to
	// them. An empty result means the board is stable.
	ClearSet() ([]Group, puyo.Set)
	// Remove empties every cell in s without settling.
	Remove(s puyo.Set)
	ApplyGravity() bool
}

// Resolve runs chain resolution to completion.
func Resolve(r Resolver) ChainInfo {
	var ci ChainInfo
	for idx := 1; ; idx++ {
		groups, garbage := r.ClearSet()
		if len(groups) == 0 {
			return ci
		}
		if idx > puyo.MaxChainSteps {
			panic(fmt.Errorf("%w: chain exceeded %d steps", puyo.ErrInvariantViolation, puyo.MaxChainSteps))
		}
		var s puyo.Set
		for _, g := range groups {
			for _, p := range g.Cells {
				s.Add(p)
			}
		}
		r.Remove(s.Union(garbage))
		ci.add(NewChainStep(idx, groups, garbage))
		r.ApplyGravity()
	}
}
