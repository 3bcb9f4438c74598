package shell

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	_ "github.com/domino14/nazo/bitboard"
	"github.com/domino14/nazo/config"
	_ "github.com/domino14/nazo/planeboard"
	"github.com/domino14/nazo/puyo"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func testController(t *testing.T) *ShellController {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigNoColor, true)
	cfg.Set(config.ConfigRepresentation, "bitboard")
	cfg.Set(config.ConfigPuzzlePath, "../puzzle/testdata")
	cfg.Set(config.ConfigPerftThreads, 2)
	cfg.Set(config.ConfigTTFractionOfMem, 0)
	sc, err := newController(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return sc
}

func run(t *testing.T, sc *ShellController, line string) (string, error) {
	t.Helper()
	cmd, err := extractFields(line)
	if err != nil {
		t.Fatalf("%q: %v", line, err)
	}
	r, err := sc.executeCommand(cmd)
	if err != nil {
		return "", err
	}
	return r.message, nil
}

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"perft 3 -threads 4",
			&shellcmd{"perft", []string{"3"}, CmdOptions{"threads": {"4"}}},
			nil},
		{"play RB 3u",
			&shellcmd{"play", []string{"RB", "3u"}, CmdOptions{}},
			nil},
		{`new "R....." "RBB..." -x 1 -x 2`,
			&shellcmd{"new", []string{"R.....", "RBB..."}, CmdOptions{"x": {"1", "2"}}},
			nil},
		{"perft 3 -threads", nil, errWrongOptionSyntax},
		{"perft 3 -threads -tt 0", nil, errWrongOptionSyntax},
	}
	for _, tc := range cases {
		cmd, err := extractFields(tc.line)
		is.Equal(cmd, tc.expCmd)
		is.Equal(err, tc.expErr)
	}
}

func TestPlayAndUndo(t *testing.T) {
	is := is.New(t)
	sc := testController(t)
	_, err := run(t, sc, `new "R....." "R....." "R.B..."`)
	is.NoErr(err)
	out, err := run(t, sc, "play RB 2u")
	is.NoErr(err)
	is.True(strings.HasPrefix(out, "1-chain, 4 cleared\n"))
	is.Equal(sc.board.Get(puyo.MustPosition(1, 0)), puyo.Blue)

	_, err = run(t, sc, "undo")
	is.NoErr(err)
	is.Equal(sc.board.Get(puyo.MustPosition(0, 2)), puyo.Red)
	is.Equal(sc.board.Get(puyo.MustPosition(1, 0)), puyo.Empty)

	_, err = run(t, sc, "undo")
	is.NoErr(err)
	is.True(sc.board.Key().IsZero())
	_, err = run(t, sc, "undo")
	is.Equal(err, errNothingToUndo)
}

func TestDropKeepsChainsPending(t *testing.T) {
	is := is.New(t)
	sc := testController(t)
	_, err := run(t, sc, `new "RR...."`)
	is.NoErr(err)
	_, err = run(t, sc, "drop RR 3r")
	is.NoErr(err)
	out, err := run(t, sc, "groups")
	is.NoErr(err)
	is.Equal(out, "R 4 at (0, 0) *\n")
	out, err = run(t, sc, "chain")
	is.NoErr(err)
	is.True(strings.HasPrefix(out, "1-chain"))
	is.True(sc.board.Key().IsZero())
}

func TestPlaceAndGravity(t *testing.T) {
	is := is.New(t)
	sc := testController(t)
	_, err := run(t, sc, "place 4 5 Y")
	is.NoErr(err)
	_, err = run(t, sc, "place 4 5 G")
	is.True(err != nil)
	_, err = run(t, sc, "gravity")
	is.NoErr(err)
	is.Equal(sc.board.Get(puyo.MustPosition(3, 0)), puyo.Yellow)
	out, err := run(t, sc, "gravity")
	is.NoErr(err)
	is.Equal(out, "nothing fell")
}

func TestPlaceRejectsBadColorArgument(t *testing.T) {
	is := is.New(t)
	sc := testController(t)
	_, err := run(t, sc, `place 1 1 ""`)
	is.True(err != nil)
	_, err = run(t, sc, "place 1 1 RB")
	is.True(err != nil)
	_, err = run(t, sc, "place 1 1 Z")
	is.True(err != nil)
	is.True(sc.board.Key().IsZero())
	is.Equal(len(sc.history), 0)
}

func TestMoves(t *testing.T) {
	is := is.New(t)
	sc := testController(t)
	out, err := run(t, sc, "moves GG -distinct true")
	is.NoErr(err)
	is.True(strings.HasPrefix(out, "11 moves for GG: 1u 2u"))
	out, err = run(t, sc, "moves GY")
	is.NoErr(err)
	is.True(strings.HasPrefix(out, "22 moves"))
	_, err = run(t, sc, "moves")
	is.True(err != nil)
}

func TestRepresentationSwitchKeepsCells(t *testing.T) {
	is := is.New(t)
	sc := testController(t)
	_, err := run(t, sc, `new "RBGYP#"`)
	is.NoErr(err)
	before := sc.board.Key()
	out, err := run(t, sc, "repr planeboard")
	is.NoErr(err)
	is.Equal(out, "representation set to planeboard")
	is.Equal(sc.board.Key(), before)
	_, err = run(t, sc, "repr quadtree")
	is.True(err != nil)
}

func TestPuzzleFlow(t *testing.T) {
	is := is.New(t)
	sc := testController(t)
	out, err := run(t, sc, "puzzles")
	is.NoErr(err)
	is.True(strings.Contains(out, "two-chain"))

	out, err = run(t, sc, "load two-chain")
	is.NoErr(err)
	is.True(strings.HasPrefix(out, "puzzle two-chain, goal 2-chain, next pairs: RB"))

	out, err = run(t, sc, "solve")
	is.NoErr(err)
	is.True(strings.HasPrefix(out, "solution: 2u\n"))

	out, err = run(t, sc, "play 2u")
	is.NoErr(err)
	is.True(strings.HasSuffix(out, "puzzle solved!\n"))
	_, err = run(t, sc, "play 1u")
	is.True(err != nil)

	_, err = run(t, sc, "undo")
	is.NoErr(err)
	is.Equal(sc.ply, 0)
}

func TestPerft(t *testing.T) {
	is := is.New(t)
	sc := testController(t)
	out, err := run(t, sc, "perft 2 RB -hist true")
	is.NoErr(err)
	is.True(strings.Contains(out, "nodes 484, dead ends 0, chain moves 0, max chain 0\n"))
	is.True(strings.Contains(out, "leaves per first move:"))

	out, err = run(t, sc, "perft 1 GG -distinct true")
	is.NoErr(err)
	is.True(strings.Contains(out, "distinct wells 11\n"))

	_, err = run(t, sc, "perft x")
	is.True(err != nil)
}

func TestInterruptWithNothingRunning(t *testing.T) {
	is := is.New(t)
	sc := testController(t)
	is.True(!sc.Interrupt())

	ctx, done := sc.commandContext()
	is.True(sc.Interrupt())
	is.True(errors.Is(ctx.Err(), context.Canceled))
	// A second interrupt has nothing left to cancel.
	is.True(!sc.Interrupt())
	done()
	is.True(!sc.Interrupt())
}

func TestInterruptCancelsPerft(t *testing.T) {
	is := is.New(t)
	sc := testController(t)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		for !sc.Interrupt() {
			time.Sleep(time.Millisecond)
		}
	}()
	_, err := run(t, sc, "perft 8")
	<-stopped
	is.True(errors.Is(err, context.Canceled))
	is.True(!sc.Interrupt())

	// The shell keeps working on the same board.
	is.True(sc.board.Key().IsZero())
	out, err := run(t, sc, "moves RB")
	is.NoErr(err)
	is.True(strings.HasPrefix(out, "22 moves"))
	out, err = run(t, sc, "perft 1")
	is.NoErr(err)
	is.True(strings.Contains(out, "22"))
}

func TestHelp(t *testing.T) {
	is := is.New(t)
	sc := testController(t)
	out, err := run(t, sc, "help")
	is.NoErr(err)
	is.True(strings.HasPrefix(out, "Commands:"))
	_, err = run(t, sc, "help perft")
	is.NoErr(err)
	_, err = run(t, sc, "help nothing")
	is.True(err != nil)
	_, err = run(t, sc, "frobnicate")
	is.True(err != nil)
}

func TestScript(t *testing.T) {
	is := is.New(t)
	sc := testController(t)
	out := filepath.Join(t.TempDir(), "out.json")
	script := filepath.Join(t.TempDir(), "test.lua")
	src := `
local json = require("json")
nazo_load("two-chain")
local moves = nazo_moves("RB")
local r = nazo_play("2u")
local p = nazo_perft("1 GY")
local f = io.open("` + out + `", "w")
f:write(json.encode({n = #moves, solved = string.find(r, "solved") ~= nil, nodes = p.nodes}))
f:close()
`
	is.NoErr(os.WriteFile(script, []byte(src), 0o644))
	_, err := run(t, sc, "script "+script)
	is.NoErr(err)

	dat, err := os.ReadFile(out)
	is.NoErr(err)
	is.Equal(string(dat), `{"n":22,"nodes":22,"solved":true}`)
}

func TestExecute(t *testing.T) {
	is := is.New(t)
	sc := testController(t)
	var sb strings.Builder
	is.NoErr(sc.Execute(&sb, "moves RB"))
	is.True(strings.HasPrefix(sb.String(), "22 moves for RB: 1u"))
	is.True(sc.Execute(&sb, "play") != nil)
}
