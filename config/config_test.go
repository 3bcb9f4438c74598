package config

import (
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	is.Equal(cfg.GetBool(ConfigDebug), false)
	is.Equal(cfg.GetString(ConfigRepresentation), "bitboard")
	is.True(cfg.GetInt(ConfigPerftThreads) > 0)
	is.Equal(cfg.GetFloat64(ConfigTTFractionOfMem), 0.05)
}

func TestFlags(t *testing.T) {
	is := is.New(t)
	cfg := &Config{}
	is.NoErr(cfg.Load([]string{"--debug", "--representation", "planeboard", "--perft-threads=3", "--no-color"}))
	is.Equal(cfg.GetBool(ConfigDebug), true)
	is.Equal(cfg.GetString(ConfigRepresentation), "planeboard")
	is.Equal(cfg.GetInt(ConfigPerftThreads), 3)
	is.Equal(cfg.GetBool(ConfigNoColor), true)
}

func TestEnvOverridesDefault(t *testing.T) {
	is := is.New(t)
	t.Setenv("NAZO_TT_FRACTION_OF_MEM", "0.25")
	t.Setenv("NAZO_REPRESENTATION", "planeboard")
	cfg := DefaultConfig()
	is.Equal(cfg.GetFloat64(ConfigTTFractionOfMem), 0.25)
	is.Equal(cfg.GetString(ConfigRepresentation), "planeboard")
}

func TestBadFlag(t *testing.T) {
	is := is.New(t)
	cfg := &Config{}
	is.True(cfg.Load([]string{"--ruleset", "tsu"}) != nil)
}

func TestAdjustRelativePaths(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	cfg.AdjustRelativePaths("/opt/nazo")
	is.Equal(cfg.GetString(ConfigPuzzlePath), filepath.Join("/opt/nazo", "data/puzzles"))

	cfg.Set(ConfigPuzzlePath, "/srv/puzzles")
	cfg.AdjustRelativePaths("/opt/nazo")
	is.Equal(cfg.GetString(ConfigPuzzlePath), "/srv/puzzles")
}

func TestCommandArgs(t *testing.T) {
	is := is.New(t)
	cfg := &Config{}
	is.NoErr(cfg.Load([]string{"--debug", "perft", "3", "-threads", "4"}))
	is.Equal(cfg.GetBool(ConfigDebug), true)
	is.Equal(cfg.CommandArgs(), []string{"perft", "3", "-threads", "4"})
}
