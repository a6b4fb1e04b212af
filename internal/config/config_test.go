package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("embedded defaults do not parse: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultRunnerConfig()) {
		t.Errorf("embedded YAML and DefaultRunnerConfig diverged:\nyaml: %+v\ngo:   %+v", cfg, DefaultRunnerConfig())
	}
}

func TestLoadRunnerPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runner.yaml")
	data := "scoring:\n  pass_reward: 25\n  reset_policy: carry\nlanes: [-2, 2]\nplayer:\n  start_lane: 0\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadRunner(path)
	if err != nil {
		t.Fatalf("LoadRunner() failed: %v", err)
	}

	if cfg.Scoring.PassReward != 25 {
		t.Errorf("PassReward = %d, expected 25", cfg.Scoring.PassReward)
	}
	if cfg.Scoring.ResetPolicy != ResetPolicyCarry {
		t.Errorf("ResetPolicy = %q, expected carry", cfg.Scoring.ResetPolicy)
	}
	if !reflect.DeepEqual(cfg.Lanes, []float64{-2, 2}) {
		t.Errorf("Lanes = %v, expected [-2 2]", cfg.Lanes)
	}
	// Untouched keys keep their defaults
	if cfg.Player.JumpForce != 0.5 {
		t.Errorf("JumpForce = %f, expected default 0.5", cfg.Player.JumpForce)
	}
	if cfg.Obstacles.SpawnZ != -80 {
		t.Errorf("SpawnZ = %f, expected default -80", cfg.Obstacles.SpawnZ)
	}
}

func TestLoadRunnerErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadRunner(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("lanes: {oops"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRunner(bad); err == nil {
		t.Error("expected error for malformed YAML")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("obstacles:\n  spawn_interval_ms: 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := LoadRunner(invalid)
	if err == nil || !strings.Contains(err.Error(), "spawn_interval_ms") {
		t.Errorf("expected validation error naming spawn_interval_ms, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RunnerConfig)
		want   string
	}{
		{"no lanes", func(c *RunnerConfig) { c.Lanes = nil }, "lane"},
		{"unordered lanes", func(c *RunnerConfig) { c.Lanes = []float64{0, -3, 3} }, "increasing"},
		{"start lane out of range", func(c *RunnerConfig) { c.Player.StartLane = 3 }, "start_lane"},
		{"spawn in front of threshold", func(c *RunnerConfig) { c.Obstacles.SpawnZ = 20 }, "spawn_z"},
		{"bad reset policy", func(c *RunnerConfig) { c.Scoring.ResetPolicy = "keep" }, "reset_policy"},
		{"negative increment", func(c *RunnerConfig) { c.Scoring.SpeedIncrement = -1 }, "speed_increment"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultRunnerConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Validate() = %v, expected error containing %q", err, tc.want)
			}
		})
	}

	if err := DefaultRunnerConfig().Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestParsePreset(t *testing.T) {
	for _, s := range []string{"", "easy", "normal", "hard", "fixed"} {
		if _, err := ParsePreset(s); err != nil {
			t.Errorf("ParsePreset(%q) failed: %v", s, err)
		}
	}
	if _, err := ParsePreset("nightmare"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := DefaultRunnerConfig()
	cfg.Scoring.PassReward = 7

	data, err := Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if back.Scoring.PassReward != 7 {
		t.Errorf("PassReward = %d after round trip", back.Scoring.PassReward)
	}
}
