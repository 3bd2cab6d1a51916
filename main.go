// ChessGame - A chess game built with Ebitengine
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/hailam/chessgame/internal/config"
	"github.com/hailam/chessgame/internal/storage"
	"github.com/hailam/chessgame/internal/ui"
)

func main() {
	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(cfg.Level()).With().Timestamp().Logger()

	store, err := storage.NewStorage(cfg.DataDir, log)
	if err != nil {
		log.Warn().Err(err).Msg("storage unavailable, games will not be saved")
		store = nil
	} else if prefs, err := store.LoadPreferences(); err != nil {
		log.Warn().Err(err).Msg("load preferences")
	} else {
		cfg.ApplyPreferences(prefs)
	}

	game := ui.NewGame(cfg, store, log)
	defer game.Close()

	ebiten.SetWindowSize(ui.ScreenWidth, ui.ScreenHeight)
	ebiten.SetWindowTitle("ChessGame")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Error().Err(err).Msg("run game")
	}
}
