package config

import "github.com/vovakirdan/lane-runner/internal/core"

// DifficultyManager derives the speed curve of a run from the scoring
// parameters and the active difficulty level.
type DifficultyManager struct {
	cfg     DifficultyConfig
	scoring ScoringConfig
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig, scoring ScoringConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:     cfg,
		scoring: scoring,
	}
}

// IsEnabled returns whether speed progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled
}

// Level returns the configured difficulty level clamped to [0, 1].
func (d *DifficultyManager) Level() float64 {
	return core.ClampF(d.cfg.InitialLevel, 0.0, 1.0)
}

// StartSpeed returns the world speed at the beginning of a run.
func (d *DifficultyManager) StartSpeed() float64 {
	return d.scoring.SpeedStart * (1.0 + d.Level()*d.cfg.SpeedMultiplier)
}

// Increment returns the speed added for every obstacle passed.
// Fixed difficulty never speeds up.
func (d *DifficultyManager) Increment() float64 {
	if !d.cfg.Enabled {
		return 0
	}
	return d.scoring.SpeedIncrement * (1.0 + d.Level()*d.cfg.RampMultiplier)
}

// SpeedAfter returns the speed after n obstacles have been passed in one run.
// Used for HUD projections and tests; the simulation accumulates incrementally.
func (d *DifficultyManager) SpeedAfter(n int) float64 {
	return d.StartSpeed() + float64(n)*d.Increment()
}
