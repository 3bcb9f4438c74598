package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/nazo/board"
	"github.com/domino14/nazo/config"
	"github.com/domino14/nazo/puzzle"
	"github.com/domino14/nazo/render"
	"github.com/domino14/nazo/zobrist"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format for option")
	errNoPuzzle          = errors.New("no puzzle loaded")
	errNothingToUndo     = errors.New("nothing to undo")
)

type ShellController struct {
	l      *readline.Instance
	config *config.Config

	renderer *render.Renderer
	zobrist  *zobrist.Zobrist
	repr     string
	board    board.Board
	history  []snapshot

	puzzle *puzzle.Puzzle
	// ply is the index of the next puzzle pair to fall.
	ply int

	cancelMu      sync.Mutex
	cancelCommand context.CancelFunc
}

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) Float64Default(key string, defaultF float64) (float64, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultF, nil
	}
	return strconv.ParseFloat(v[0], 64)
}

func (c CmdOptions) Bool(key string) bool {
	v := c[key]
	if len(v) == 0 {
		return false
	}
	return strings.ToLower(v[0]) == "true"
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

// NewShellController sets up a controller reading from the terminal.
func NewShellController(cfg *config.Config) (*ShellController, error) {
	prompt := "nazo> "
	if !cfg.GetBool(config.ConfigNoColor) && render.ColorSupport {
		prompt = "\033[32mnazo>\033[0m "
	}
	sc, err := newController(cfg)
	if err != nil {
		return nil, err
	}
	l, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     "/tmp/nazo-readline.tmp",
		AutoComplete:    NewShellCompleter(sc),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, err
	}
	sc.l = l
	return sc, nil
}

func newController(cfg *config.Config) (*ShellController, error) {
	repr := cfg.GetString(config.ConfigRepresentation)
	b, err := board.New(repr, board.Grid{})
	if err != nil {
		return nil, err
	}
	z := &zobrist.Zobrist{}
	z.Initialize()
	return &ShellController{
		config:   cfg,
		renderer: render.New(cfg.GetBool(config.ConfigNoColor)),
		zobrist:  z,
		repr:     repr,
		board:    b,
	}, nil
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.l.Stderr())
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	lastWasOption := false
	lastOption := ""
	for _, f := range fields[1:] {
		if strings.HasPrefix(f, "-") && len(f) > 1 {
			if lastWasOption {
				return nil, errWrongOptionSyntax
			}
			lastWasOption = true
			lastOption = f[1:]
			continue
		}
		if lastWasOption {
			lastWasOption = false
			options[lastOption] = append(options[lastOption], f)
		} else {
			args = append(args, f)
		}
	}
	if lastWasOption {
		return nil, errWrongOptionSyntax
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func (sc *ShellController) executeCommand(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "help":
		return sc.help(cmd)
	case "new":
		return sc.newBoard(cmd)
	case "repr":
		return sc.representation(cmd)
	case "load":
		return sc.load(cmd)
	case "puzzles":
		return sc.listPuzzles(cmd)
	case "s", "show":
		return sc.show(cmd)
	case "place":
		return sc.place(cmd)
	case "drop":
		return sc.drop(cmd)
	case "play":
		return sc.play(cmd)
	case "moves":
		return sc.moves(cmd)
	case "chain":
		return sc.chain(cmd)
	case "gravity":
		return sc.gravity(cmd)
	case "groups":
		return sc.groups(cmd)
	case "undo":
		return sc.undo(cmd)
	case "hash":
		return sc.hash(cmd)
	case "perft":
		return sc.perft(cmd)
	case "solve":
		return sc.solve(cmd)
	case "script":
		return sc.script(cmd)
	default:
		return nil, fmt.Errorf("command %v not found", strings.TrimSpace(cmd.cmd))
	}
}

// commandContext returns a context for a long-running command that
// Interrupt can cancel. Call done when the command returns.
func (sc *ShellController) commandContext() (ctx context.Context, done func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sc.cancelMu.Lock()
	sc.cancelCommand = cancel
	sc.cancelMu.Unlock()
	return ctx, func() {
		sc.cancelMu.Lock()
		sc.cancelCommand = nil
		sc.cancelMu.Unlock()
		cancel()
	}
}

// Interrupt cancels the running perft or solve, if there is one, and
// reports whether it did. Signal handlers call it before deciding to quit.
func (sc *ShellController) Interrupt() bool {
	sc.cancelMu.Lock()
	defer sc.cancelMu.Unlock()
	if sc.cancelCommand == nil {
		return false
	}
	sc.cancelCommand()
	sc.cancelCommand = nil
	return true
}

// NewBatchController sets up a controller for one-shot commands, without
// a terminal.
func NewBatchController(cfg *config.Config) (*ShellController, error) {
	return newController(cfg)
}

// Execute runs one command line and writes its output to w.
func (sc *ShellController) Execute(w io.Writer, line string) error {
	cmd, err := extractFields(line)
	if err != nil {
		return err
	}
	resp, err := sc.executeCommand(cmd)
	if err != nil {
		return err
	}
	if resp != nil && resp.message != "" {
		showMessage(resp.message, w)
	}
	return nil
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "exit" || line == "bye" {
			sig <- syscall.SIGINT
			break
		}
		err = sc.Execute(sc.l.Stderr(), line)
		if err != nil && err != errNoData {
			sc.showError(err)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}
