package shell

import (
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/nazo/board"
	"github.com/domino14/nazo/config"
	"github.com/domino14/nazo/placement"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string // e.g. "-threads"
	Args    []string
}

var commandMetadata = map[string]CommandMetadata{
	"perft": {
		Options: []string{"-threads", "-tt", "-distinct", "-prune", "-hist"},
	},
	"moves": {
		Options: []string{"-distinct"},
	},
	"help": {
		Args: []string{"play", "perft", "puzzle", "script"},
	},
}

var commandNames = []string{
	"help", "new", "repr", "load", "puzzles", "s", "show", "place", "drop",
	"play", "moves", "chain", "gravity", "groups", "undo", "hash", "perft",
	"solve", "script", "exit",
}

var boolValues = []string{"true", "false"}

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		if optName, ok := strings.CutPrefix(lastCompleteField, "-"); ok {
			switch optName {
			case "distinct", "prune", "hist":
				completions = boolValues
			}
		}

		if completions == nil {
			switch cmdName {
			case "repr":
				completions = board.Representations()
			case "load":
				completions = c.puzzleNames()
			case "drop", "play":
				completions = c.moveNames()
			}
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}

// puzzleNames lists the puzzle files in the configured directory.
func (c *ShellCompleter) puzzleNames() []string {
	files, err := filepath.Glob(filepath.Join(c.sc.config.GetString(config.ConfigPuzzlePath), "*.yaml"))
	if err != nil {
		return nil
	}
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = strings.TrimSuffix(filepath.Base(f), ".yaml")
	}
	return names
}

// moveNames lists the legal moves for the puzzle's next pair, or every
// in-bounds move when there is no puzzle.
func (c *ShellCompleter) moveNames() []string {
	pair := defaultPerftPair
	if p := c.sc.puzzle; p != nil && c.sc.ply < len(p.Sequence()) {
		pair = p.Sequence()[c.sc.ply]
	}
	moves := placement.Enumerate(c.sc.board, pair)
	names := make([]string, len(moves))
	for i, m := range moves {
		names[i] = m.String()
	}
	return names
}
