package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/skyrocket/internal/config"
	"github.com/vovakirdan/skyrocket/internal/core"
	"github.com/vovakirdan/skyrocket/internal/platform/tui"
	"github.com/vovakirdan/skyrocket/internal/storage"
)

var flagPlayer string

var playCmd = &cobra.Command{
	Use:   "play [env]",
	Short: "Fly the craft in the terminal",
	Long: `Fly the craft yourself. Without an environment argument a picker menu
is shown first; after an episode you can go back to it.

Controls:
  Arrows/WASD/HJKL  - Move the craft
  P/Space           - Pause
  R                 - Restart (after a collision)
  Esc/B             - Back to the menu (paused or after a collision)
  Ctrl+S            - Save a screenshot
  Q/Ctrl+C          - Quit

Examples:
  skyrocket play
  skyrocket play rocket-classic
  skyrocket play --difficulty hard
  skyrocket play --config ./my-rocket.toml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPlayer, "player", "", "Name saved with high scores (default: $USER)")
}

func runPlay(_ *cobra.Command, args []string) error {
	base, err := loadBase()
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	player := flagPlayer
	if player == "" {
		player = os.Getenv("USER")
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}
	cfg := core.RuntimeConfig{
		ScreenW: width,
		ScreenH: height,
		FPS:     base.Render.FPS,
		Seed:    flagSeed,
	}

	if len(args) > 0 {
		envID, err := envArg(args)
		if err != nil {
			return err
		}
		back, err := tui.Run(envID, base, store, player, cfg)
		if err != nil || !back {
			return err
		}
	}
	return menuLoop(base, store, player, cfg)
}

// menuLoop alternates between the picker, the board and play until the user quits.
func menuLoop(base config.RocketConfig, store *storage.Store, player string, cfg core.RuntimeConfig) error {
	for {
		res, err := tui.RunMenu(store, cfg)
		if err != nil {
			return err
		}
		cfg = res.Config

		switch {
		case res.Quit:
			return nil

		case res.WantsBoard:
			back, err := tui.RunBoard(store, tui.BoardScores, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if !back {
				return nil
			}

		case res.EnvID != "":
			back, err := tui.Run(res.EnvID, base, store, player, cfg)
			if err != nil {
				return err
			}
			if !back {
				return nil
			}
			// Only the first episode uses --seed.
			cfg.Seed = 0
		}
	}
}
