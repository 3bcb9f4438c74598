// Package config holds the settings shared by the shell and the command
// line tools. Every key can come from a flag or from a NAZO_ environment
// variable, e.g. NAZO_PERFT_THREADS.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug           = "debug"
	ConfigRepresentation  = "representation"
	ConfigPerftThreads    = "perft-threads"
	ConfigTTFractionOfMem = "tt-fraction-of-mem"
	ConfigPuzzlePath      = "puzzle-path"
	ConfigNoColor         = "no-color"
)

type Config struct {
	viper.Viper
	// commandArgs are the arguments left after the flags.
	commandArgs []string
}

func (c *Config) Load(args []string) error {
	c.Viper = *viper.New()

	fs := pflag.NewFlagSet("nazo", pflag.ContinueOnError)
	// flags after the first argument belong to the shell command
	fs.SetInterspersed(false)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigRepresentation, "bitboard", "board representation: bitboard or planeboard")
	fs.Int(ConfigPerftThreads, runtime.NumCPU(), "worker goroutines for perft")
	fs.Float64(ConfigTTFractionOfMem, 0.05, "fraction of system memory for the perft transposition table; 0 turns it off")
	fs.String(ConfigPuzzlePath, "./data/puzzles", "directory holding puzzle files")
	fs.Bool(ConfigNoColor, false, "draw boards without ANSI colors")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.commandArgs = fs.Args()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.SetEnvPrefix("nazo")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	return nil
}

// CommandArgs returns the arguments that followed the flags, which make
// up a one-shot shell command.
func (c *Config) CommandArgs() []string {
	return c.commandArgs
}

// AdjustRelativePaths makes the puzzle path relative to basePath when it
// is not absolute. Binaries pass their own directory.
func (c *Config) AdjustRelativePaths(basePath string) {
	p := c.GetString(ConfigPuzzlePath)
	if p == "" || filepath.IsAbs(p) {
		return
	}
	c.Set(ConfigPuzzlePath, filepath.Join(basePath, p))
}

// DefaultConfig returns the flag defaults, overridden by any NAZO_
// environment variables.
func DefaultConfig() *Config {
	c := &Config{}
	if err := c.Load(nil); err != nil {
		// the default flag set always parses
		panic(err)
	}
	return c
}

// ExecutableDir is where the running binary lives, with symlinks
// resolved.
func ExecutableDir() (string, error) {
	ex, err := os.Executable()
	if err != nil {
		return "", err
	}
	ex, err = filepath.EvalSymlinks(ex)
	if err != nil {
		return "", err
	}
	return filepath.Dir(ex), nil
}
