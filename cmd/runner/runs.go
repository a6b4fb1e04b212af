package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/platform/tui"
	"github.com/vovakirdan/lane-runner/internal/storage"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Browse recorded runs",
	Long: `Open the run journal browser.

Keys:
  Up/Down  - Select a run
  Enter    - Watch the replay
  R        - Verify the replay headlessly
  X        - Delete the run
  Esc      - Back to menu

Examples:
  runner runs
  runner runs --db ./journal.db`,
	Args: cobra.NoArgs,
	Run:  runRuns,
}

func runRuns(cmd *cobra.Command, args []string) {
	logger, closeLog, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run journal: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	err = tui.RunSession(tui.SessionConfig{
		Runner:  config.DefaultRunnerConfig(),
		Runtime: runtimeConfig(),
		Store:   store,
		Player:  playerName(),
		Logger:  logger,
		Start:   tui.PageRuns,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// resolveSessionID accepts a full run ID or a unique prefix of a recent one.
func resolveSessionID(store *storage.Store, id string) (string, error) {
	sess, err := store.Session(id)
	if err != nil {
		return "", err
	}
	if sess != nil {
		return sess.ID, nil
	}

	recent, err := store.RecentSessions(500)
	if err != nil {
		return "", err
	}
	var match string
	for _, s := range recent {
		if !strings.HasPrefix(s.ID, id) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("run id %q is ambiguous", id)
		}
		match = s.ID
	}
	if match == "" {
		return "", fmt.Errorf("run %q not found", id)
	}
	return match, nil
}
