package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/rs/zerolog"

	"github.com/hailam/chessgame/internal/config"
	"github.com/hailam/chessgame/internal/console"
	"github.com/hailam/chessgame/internal/game"
	"github.com/hailam/chessgame/internal/storage"
)

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")

func main() {
	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(cfg.Level()).With().Timestamp().Logger()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", profilePath).Msg("CPU profiling enabled")
	}

	store, err := storage.NewStorage(cfg.DataDir, log)
	if err != nil {
		log.Warn().Err(err).Msg("storage unavailable, games will not be saved")
		store = nil
	} else {
		defer store.Close()
		if prefs, err := store.LoadPreferences(); err != nil {
			log.Warn().Err(err).Msg("load preferences")
		} else {
			cfg.ApplyPreferences(prefs)
		}
	}

	opponent := storage.OpponentFriend
	if cfg.VsComputer() {
		opponent = storage.OpponentComputer
	}
	c := console.New(os.Stdin, os.Stdout, game.Options{
		Setup:    cfg.StartSetup(),
		Opponent: opponent,
		Human:    game.HumanColor(cfg.PlayerColor),
		Depth:    cfg.Depth,
		Seed:     cfg.Seed,
		Logger:   log,
	}, store, log)
	if err := c.Run(); err != nil {
		log.Error().Err(err).Msg("console")
	}
}
