package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/platform/tui"
)

var (
	flagConfig     string
	flagDifficulty string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the runner",
	Long: `Start the runner in this terminal. Without --difficulty a menu lets you
pick one; with it the game starts straight away.

Controls:
  Space/Enter       - Start a run
  Space/Up/W        - Jump
  Left/A, Right/D   - Change lane
  Esc               - Back to menu (between runs)
  Ctrl+S            - Save a screenshot
  Q/Ctrl+C          - Quit

Difficulty options:
  easy   - Slow start, gentle ramp
  normal - Start at 30% difficulty
  hard   - Start at 70% difficulty
  fixed  - Speed never changes

Examples:
  runner play
  runner play --difficulty hard
  runner play --seed 42 --difficulty fixed
  runner play --config ./my-runner.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom runner config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runPlay(cmd *cobra.Command, args []string) {
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Presets are applied per game by the session, not here
	runnerCfg, err := config.LoadRunner(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	store := openStore(logger)

	start := tui.PageMenu
	if preset != "" {
		start = tui.PageGame
	}

	logger.Debug("starting local session", "preset", preset, "seed", flagSeed, "fps", flagFPS)
	runErr := tui.RunSession(tui.SessionConfig{
		Runner:  runnerCfg,
		Runtime: runtimeConfig(),
		Preset:  preset,
		Store:   store,
		Player:  playerName(),
		Logger:  logger,
		Start:   start,
	})

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
