// Package puzzle loads fixed-sequence puzzles: a starting well, the pairs
// that will fall, and a goal to reach with them.
package puzzle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/domino14/nazo/board"
	"github.com/domino14/nazo/placement"
)

var ErrBadPuzzle = errors.New("bad puzzle")

// Goal is what a solution must achieve. A zero Goal is met by any clear.
type Goal struct {
	// Chain is the shortest chain that counts.
	Chain int `yaml:"chain"`
	// ClearAll asks for an empty well at the end.
	ClearAll bool `yaml:"clear_all"`
}

func (g Goal) String() string {
	parts := []string{}
	if g.Chain > 0 {
		parts = append(parts, fmt.Sprintf("%d-chain", g.Chain))
	}
	if g.ClearAll {
		parts = append(parts, "all clear")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " and ")
}

type Puzzle struct {
	Name string `yaml:"name"`
	// Representation names the board representation to load into. Empty
	// means the caller's default.
	Representation string   `yaml:"representation"`
	Layout         []string `yaml:"layout"`
	Pairs          []string `yaml:"pairs"`
	Goal           Goal     `yaml:"goal"`

	grid  board.Grid
	pairs []placement.Pair
}

// Parse reads one puzzle from YAML.
func Parse(data []byte) (*Puzzle, error) {
	p := &Puzzle{}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadPuzzle, err)
	}
	if err := p.init(); err != nil {
		return nil, err
	}
	return p, nil
}

func Load(path string) (*Puzzle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	log.Debug().Str("path", path).Str("name", p.Name).Int("pairs", len(p.pairs)).Msg("loaded-puzzle")
	return p, nil
}

// LoadDir loads every .yaml file in dir, sorted by name.
func LoadDir(dir string) ([]*Puzzle, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	puzzles := make([]*Puzzle, 0, len(paths))
	for _, path := range paths {
		p, err := Load(path)
		if err != nil {
			return nil, err
		}
		puzzles = append(puzzles, p)
	}
	slices.SortFunc(puzzles, func(a, b *Puzzle) int { return strings.Compare(a.Name, b.Name) })
	return puzzles, nil
}

func (p *Puzzle) init() error {
	g, err := board.ParseGrid(p.Layout)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadPuzzle, err)
	}
	p.grid = g
	if len(p.Pairs) == 0 {
		return fmt.Errorf("%w: no pairs", ErrBadPuzzle)
	}
	p.pairs = make([]placement.Pair, len(p.Pairs))
	for i, s := range p.Pairs {
		if p.pairs[i], err = placement.ParsePair(s); err != nil {
			return fmt.Errorf("%w: pair %d: %w", ErrBadPuzzle, i+1, err)
		}
	}
	if p.Goal.Chain < 0 {
		return fmt.Errorf("%w: negative chain goal", ErrBadPuzzle)
	}
	return nil
}

// Board builds the starting well. The puzzle's own representation wins
// over defaultRepr.
func (p *Puzzle) Board(defaultRepr string) (board.Board, error) {
	name := p.Representation
	if name == "" {
		name = defaultRepr
	}
	return board.New(name, p.grid)
}

// Sequence is the pairs in the order they fall.
func (p *Puzzle) Sequence() []placement.Pair {
	return slices.Clone(p.pairs)
}

// Met reports whether a chain and the well it left satisfy g.
func (g Goal) Met(info board.ChainInfo, b board.Board) bool {
	if info.Len() < g.Chain {
		return false
	}
	if g.ClearAll && !b.Key().IsZero() {
		return false
	}
	return true
}
