package core

import "time"

// RuntimeConfig contains configuration passed to the simulation at initialization.
// Drivers use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// TickDuration returns the simulated time covered by one tick.
func (c RuntimeConfig) TickDuration() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRate)
}

// GameState represents the current state of a run.
// Returned by Simulation.State() to communicate status to the platform.
type GameState struct {
	Score   int     // Current score
	Speed   float64 // Current world speed
	Playing bool    // Whether a run is in progress
	Over    bool    // Whether the last run ended in a collision
}

// StepResult is returned after each simulation tick.
type StepResult struct {
	State GameState
	Hit   bool // A collision ended the run during this tick
}
