package shell

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"

	"github.com/domino14/nazo/placement"
)

const shellGlobal = "nazo_shell"

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal(shellGlobal)
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// shellFunc exposes one shell command to Lua. The Lua function takes the
// rest of the command line and returns the command's output, or a string
// starting with ERROR.
func shellFunc(name string, run func(*ShellController, *shellcmd) (*Response, error)) lua.LGFunction {
	return func(L *lua.LState) int {
		sc := getShell(L)
		cmd, err := extractFields(name + " " + L.OptString(1, ""))
		if err != nil {
			L.RaiseError("%s: %v", name, err)
			return 0
		}
		r, err := run(sc, cmd)
		if err != nil {
			log.Err(err).Str("cmd", name).Msg("error-executing-script-command")
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		L.Push(lua.LString(r.message))
		return 1
	}
}

// Moves returns the legal moves for a pair as a table of strings.
func Moves(L *lua.LState) int {
	sc := getShell(L)
	pair, err := placement.ParsePair(L.CheckString(1))
	if err != nil {
		L.RaiseError("nazo_moves: %v", err)
		return 0
	}
	t := L.NewTable()
	for _, m := range placement.Enumerate(sc.board, pair) {
		t.Append(lua.LString(m.String()))
	}
	L.Push(t)
	return 1
}

// Perft runs a perft command line and returns its counts as a table.
func Perft(L *lua.LState) int {
	sc := getShell(L)
	cmd, err := extractFields("perft " + L.CheckString(1))
	if err != nil {
		L.RaiseError("nazo_perft: %v", err)
		return 0
	}
	res, err := sc.runPerft(cmd)
	if err != nil {
		L.RaiseError("nazo_perft: %v", err)
		return 0
	}
	t := L.NewTable()
	t.RawSetString("nodes", lua.LNumber(res.Nodes))
	t.RawSetString("dead_ends", lua.LNumber(res.DeadEnds))
	t.RawSetString("chain_moves", lua.LNumber(res.ChainMoves))
	t.RawSetString("max_chain", lua.LNumber(res.MaxChain))
	t.RawSetString("distinct", lua.LNumber(res.Distinct))
	L.Push(t)
	return 1
}

func Hash(L *lua.LState) int {
	sc := getShell(L)
	L.Push(lua.LString(fmt.Sprintf("%016x", sc.board.Hash())))
	return 1
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}
	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()
	luajson.Preload(L)

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal(shellGlobal, lsc)
	L.SetGlobal("nazo_new", L.NewFunction(shellFunc("new", (*ShellController).newBoard)))
	L.SetGlobal("nazo_load", L.NewFunction(shellFunc("load", (*ShellController).load)))
	L.SetGlobal("nazo_show", L.NewFunction(shellFunc("show", (*ShellController).show)))
	L.SetGlobal("nazo_drop", L.NewFunction(shellFunc("drop", (*ShellController).drop)))
	L.SetGlobal("nazo_play", L.NewFunction(shellFunc("play", (*ShellController).play)))
	L.SetGlobal("nazo_solve", L.NewFunction(shellFunc("solve", (*ShellController).solve)))
	L.SetGlobal("nazo_moves", L.NewFunction(Moves))
	L.SetGlobal("nazo_perft", L.NewFunction(Perft))
	L.SetGlobal("nazo_hash", L.NewFunction(Hash))

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return msg("ran " + filepath), nil
}
