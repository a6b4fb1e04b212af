package config

import (
	_ "embed"
)

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

// DefaultRunnerConfig returns the built-in runner configuration.
// It mirrors defaults/runner.yaml and is used if the embedded file fails to parse.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Lanes: []float64{-3, 0, 3},
		Player: PlayerConfig{
			StartLane:     1,
			GroundY:       1.35,
			LaneLerp:      0.1,
			JumpForce:     0.5,
			Gravity:       0.025,
			AirLean:       -0.2,
			SwayAmplitude: 0.1,
			SwayRate:      0.01,
			SquashMillis:  100,
		},
		Obstacles: ObstacleConfig{
			SpawnIntervalMillis: 1500,
			SpawnZ:              -80,
			Y:                   1,
			PassThreshold:       10,
			AdvanceFactor:       1.5,
			RollStep:            0.05,
			BoxChance:           0.5,
		},
		Collision: CollisionConfig{
			Box: Hitbox{MaxDZ: 1.5, MaxDX: 1.0, ClearY: 2.5},
			Bar: Hitbox{MaxDZ: 1.0, ClearY: 2.0},
		},
		Scoring: ScoringConfig{
			PassReward:     10,
			SpeedStart:     0.3,
			SpeedIncrement: 0.0005,
			GroundScroll:   0.1,
			ResetPolicy:    ResetPolicyReset,
		},
		Difficulty: DifficultyConfig{
			Enabled:         true,
			InitialLevel:    0.0,
			SpeedMultiplier: 1.0,
			RampMultiplier:  2.0,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultRunnerYAML
}
