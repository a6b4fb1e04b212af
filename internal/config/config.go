// Package config provides YAML-based runner configuration loading and
// difficulty management.
package config

import (
	"errors"
	"fmt"
)

// RunnerConfig contains all tunables of the lane runner simulation.
type RunnerConfig struct {
	Lanes      []float64        `yaml:"lanes"`
	Player     PlayerConfig     `yaml:"player"`
	Obstacles  ObstacleConfig   `yaml:"obstacles"`
	Collision  CollisionConfig  `yaml:"collision"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// PlayerConfig defines motion parameters of the player character.
// Velocities are world units per tick.
type PlayerConfig struct {
	StartLane     int     `yaml:"start_lane"`
	GroundY       float64 `yaml:"ground_y"`
	LaneLerp      float64 `yaml:"lane_lerp"`
	JumpForce     float64 `yaml:"jump_force"`
	Gravity       float64 `yaml:"gravity"`
	AirLean       float64 `yaml:"air_lean"`       // Pitch while airborne (radians)
	SwayAmplitude float64 `yaml:"sway_amplitude"` // Run-cycle roll amplitude (radians)
	SwayRate      float64 `yaml:"sway_rate"`      // Radians per millisecond
	SquashMillis  int     `yaml:"squash_ms"`      // Jump squash/stretch duration
}

// ObstacleConfig defines spawning and movement of obstacles.
type ObstacleConfig struct {
	SpawnIntervalMillis int     `yaml:"spawn_interval_ms"`
	SpawnZ              float64 `yaml:"spawn_z"`
	Y                   float64 `yaml:"y"`
	PassThreshold       float64 `yaml:"pass_threshold"`
	AdvanceFactor       float64 `yaml:"advance_factor"`
	RollStep            float64 `yaml:"roll_step"`
	BoxChance           float64 `yaml:"box_chance"` // Probability a spawn is a box rather than a bar
}

// CollisionConfig holds the per-kind proximity thresholds.
type CollisionConfig struct {
	Box Hitbox `yaml:"box"`
	Bar Hitbox `yaml:"bar"`
}

// Hitbox is an axis-wise proximity test. A zero MaxDX means the X axis is ignored.
type Hitbox struct {
	MaxDZ  float64 `yaml:"max_dz"`
	MaxDX  float64 `yaml:"max_dx"`
	ClearY float64 `yaml:"clear_y"` // Player must be at or above this height to pass
}

// ScoringConfig defines score and speed progression.
type ScoringConfig struct {
	PassReward     int     `yaml:"pass_reward"`
	SpeedStart     float64 `yaml:"speed_start"`
	SpeedIncrement float64 `yaml:"speed_increment"`
	GroundScroll   float64 `yaml:"ground_scroll"` // Texture offset per unit of speed per tick
	ResetPolicy    string  `yaml:"reset_policy"`  // "reset" or "carry"
}

// DifficultyConfig defines the difficulty preset system.
type DifficultyConfig struct {
	Enabled         bool    `yaml:"enabled"`
	InitialLevel    float64 `yaml:"initial_level"`    // 0.0 = easy, 1.0 = hard
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Extra start speed at level 1.0
	RampMultiplier  float64 `yaml:"ramp_multiplier"`  // Extra speed increment at level 1.0
}

// Reset policies applied when a new run starts after a game over.
const (
	ResetPolicyReset = "reset" // Score, speed, obstacles and player start fresh
	ResetPolicyCarry = "carry" // Score and speed carry over into the next run
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a CLI string to a preset. Empty means "use the config".
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *RunnerConfig, preset DifficultyPreset) {
	switch preset {
	case "":
		return
	case DifficultyFixed:
		cfg.Difficulty.Enabled = false
	default:
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}
}

// Validate reports configurations the simulation cannot run with.
func (c RunnerConfig) Validate() error {
	var errs []error
	if len(c.Lanes) == 0 {
		errs = append(errs, errors.New("at least one lane is required"))
	}
	for i := 1; i < len(c.Lanes); i++ {
		if c.Lanes[i] <= c.Lanes[i-1] {
			errs = append(errs, fmt.Errorf("lanes must be strictly increasing (lane %d)", i))
			break
		}
	}
	if c.Player.StartLane < 0 || c.Player.StartLane >= len(c.Lanes) {
		errs = append(errs, fmt.Errorf("player.start_lane %d out of range", c.Player.StartLane))
	}
	if c.Player.Gravity <= 0 {
		errs = append(errs, errors.New("player.gravity must be positive"))
	}
	if c.Player.LaneLerp <= 0 || c.Player.LaneLerp > 1 {
		errs = append(errs, errors.New("player.lane_lerp must be in (0, 1]"))
	}
	if c.Obstacles.SpawnIntervalMillis <= 0 {
		errs = append(errs, errors.New("obstacles.spawn_interval_ms must be positive"))
	}
	if c.Obstacles.SpawnZ >= c.Obstacles.PassThreshold {
		errs = append(errs, errors.New("obstacles.spawn_z must be less than obstacles.pass_threshold"))
	}
	if c.Obstacles.AdvanceFactor <= 0 {
		errs = append(errs, errors.New("obstacles.advance_factor must be positive"))
	}
	if c.Obstacles.BoxChance < 0 || c.Obstacles.BoxChance > 1 {
		errs = append(errs, errors.New("obstacles.box_chance must be in [0, 1]"))
	}
	if c.Scoring.SpeedStart <= 0 {
		errs = append(errs, errors.New("scoring.speed_start must be positive"))
	}
	if c.Scoring.SpeedIncrement < 0 {
		errs = append(errs, errors.New("scoring.speed_increment must not be negative"))
	}
	switch c.Scoring.ResetPolicy {
	case ResetPolicyReset, ResetPolicyCarry:
	default:
		errs = append(errs, fmt.Errorf("scoring.reset_policy %q (want reset or carry)", c.Scoring.ResetPolicy))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: invalid runner config: %w", errors.Join(errs...))
	}
	return nil
}
