package main

import (
	_ "embed"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/domino14/nazo/bitboard"
	"github.com/domino14/nazo/config"
	_ "github.com/domino14/nazo/planeboard"
	"github.com/domino14/nazo/shell"
)

var (
	GitVersion string
)

//go:embed nazo.txt
var nazobanner string

func setupLogging(cfg *config.Config) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	var logger zerolog.Logger
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	logger.Debug().Msg("Debug logging is on")
}

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	setupLogging(cfg)

	exPath, err := config.ExecutableDir()
	if err != nil {
		log.Fatal().Err(err).Msg("executable-path")
	}
	cfg.AdjustRelativePaths(exPath)
	log.Debug().Msgf("Loaded config: %v", cfg.AllSettings())

	if p := os.Getenv("NAZO_CPU_PROFILE"); p != "" {
		f, err := os.Create(p)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
	}

	if args := cfg.CommandArgs(); len(args) > 0 {
		sc, err := shell.NewBatchController(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("")
		}
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			for range sig {
				if !sc.Interrupt() {
					os.Exit(130)
				}
			}
		}()
		if err := sc.Execute(os.Stdout, shellquote.Join(args...)); err != nil {
			log.Error().Err(err).Msg("command-failed")
			pprof.StopCPUProfile()
			os.Exit(1)
		}
		return
	}

	fmt.Println(nazobanner)
	if GitVersion != "" {
		fmt.Println(GitVersion)
	}

	sc, err := shell.NewShellController(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("")
	}

	idleConnsClosed := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		for s := range sig {
			// Ctrl-C while a command runs stops the command, not the shell.
			if s == os.Interrupt && sc.Interrupt() {
				log.Info().Msg("command interrupted")
				continue
			}
			break
		}
		log.Info().Msg("got quit signal...")
		close(idleConnsClosed)
	}()

	go sc.Loop(sig)
	<-idleConnsClosed
}
