package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/lane-runner/internal/journal"
	"github.com/vovakirdan/lane-runner/internal/platform/tui"
	"github.com/vovakirdan/lane-runner/internal/storage"
)

var flagWatch bool

var replayCmd = &cobra.Command{
	Use:   "replay <run-id>",
	Short: "Re-simulate a recorded run",
	Long: `Replay a recorded session from the journal.

By default the session is re-simulated headlessly and the replayed game
overs are compared with the recorded ones. The command exits non-zero when
they differ. With --watch the replay is shown in the terminal instead.

The run id may be shortened to any unique prefix, as shown by 'runner runs'.

Examples:
  runner replay 3f2c9a1e
  runner replay 3f2c9a1e --watch`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagWatch, "watch", false, "Watch the replay instead of verifying it")
}

func runReplay(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run journal: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	id, err := resolveSessionID(store, args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if flagWatch {
		rec, err := journal.Load(store, id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := tui.RunReplay(rec, runtimeConfig()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	report, err := journal.ReplaySession(store, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	printReport(id, report)
	if !report.Match() {
		os.Exit(1)
	}
}

func printReport(id string, r journal.Report) {
	fmt.Printf("Run %s\n", id)
	fmt.Println()
	fmt.Printf("  Ticks:  %d\n", r.Ticks)
	fmt.Printf("  Runs:   %d\n", r.Runs)
	fmt.Printf("  Score:  %d\n", r.Score)
	if r.Rejected > 0 {
		fmt.Printf("  Rejected events: %d\n", r.Rejected)
	}
	fmt.Println()

	n := max(len(r.Recorded), len(r.Replayed))
	if n > 0 {
		fmt.Printf("  %-4s  %-18s  %s\n", "Run", "Recorded", "Replayed")
		fmt.Printf("  %-4s  %-18s  %s\n", "---", "--------", "--------")
		for i := 0; i < n; i++ {
			fmt.Printf("  %-4d  %-18s  %s\n", i+1, outcomeAt(r.Recorded, i), outcomeAt(r.Replayed, i))
		}
		fmt.Println()
	}

	if r.Match() {
		fmt.Println("Replay matches the recording.")
	} else {
		fmt.Println("Replay DIVERGED from the recording.")
	}
}

func outcomeAt(outcomes []journal.Outcome, i int) string {
	if i >= len(outcomes) {
		return "-"
	}
	o := outcomes[i]
	return fmt.Sprintf("score %d @%d", o.Score, o.Tick)
}
