package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/lane-runner/internal/config"
)

var (
	flagShowConfig string
	flagShowPreset string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the runner configuration as YAML after the search path and any
difficulty preset have been applied. Useful as a starting point for
~/.runner/configs/runner.yaml.

Examples:
  runner config
  runner config --difficulty hard
  runner config --config ./my-runner.yaml`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().StringVar(&flagShowConfig, "config", "", "Path to custom runner config YAML")
	configCmd.Flags().StringVar(&flagShowPreset, "difficulty", "", "Difficulty preset to apply")
}

func runConfig(cmd *cobra.Command, args []string) {
	preset, err := config.ParsePreset(flagShowPreset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(flagShowConfig, preset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(data)
}
