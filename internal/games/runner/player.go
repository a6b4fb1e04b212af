package runner

import (
	"math"
	"time"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
)

// Direction is a lane change request.
type Direction int

const (
	Left  Direction = -1
	Right Direction = 1
)

// Squash/stretch scale applied for a short moment after takeoff.
var jumpScale = core.V3(0.8, 1.2, 0.8)

// Player is the runner character. Z is fixed at 0; the world moves instead.
type Player struct {
	Position  core.Vec3
	Rotation  core.Vec3 // X: forward lean, Z: run-cycle sway
	Scale     core.Vec3
	VelocityY float64
	Jumping   bool
	Lane      int

	squashLeft time.Duration
	cfg        config.PlayerConfig
	lanes      LaneSet
}

// NewPlayer creates a player standing on the ground in the start lane.
func NewPlayer(cfg config.PlayerConfig, lanes LaneSet) *Player {
	p := &Player{cfg: cfg, lanes: lanes}
	p.Reset()
	return p
}

// Reset puts the player back on the ground in the start lane.
func (p *Player) Reset() {
	p.Lane = p.lanes.Clamp(p.cfg.StartLane)
	p.Position = core.V3(p.lanes.Offset(p.Lane), p.cfg.GroundY, 0)
	p.Rotation = core.Vec3{}
	p.Scale = core.V3(1, 1, 1)
	p.VelocityY = 0
	p.Jumping = false
	p.squashLeft = 0
}

// RequestLaneChange moves the target lane one step. Requests past the outer
// lanes are ignored. The caller gates this on the run being in progress.
func (p *Player) RequestLaneChange(dir Direction) bool {
	next := p.lanes.Clamp(p.Lane + int(dir))
	if next == p.Lane {
		return false
	}
	p.Lane = next
	return true
}

// RequestJump launches the player if grounded. A second request while
// airborne is ignored.
func (p *Player) RequestJump() bool {
	if p.Jumping {
		return false
	}
	p.VelocityY = p.cfg.JumpForce
	p.Jumping = true
	p.Scale = jumpScale
	p.squashLeft = time.Duration(p.cfg.SquashMillis) * time.Millisecond
	return true
}

// Tick advances the player by one frame. now is the simulation clock used
// for the run-cycle sway; dt is the frame length used for the squash timer.
func (p *Player) Tick(now, dt time.Duration) {
	if p.squashLeft > 0 {
		p.squashLeft -= dt
		if p.squashLeft <= 0 {
			p.squashLeft = 0
			p.Scale = core.V3(1, 1, 1)
		}
	}

	// Glide toward the lane instead of snapping
	p.Position.X = core.Lerp(p.Position.X, p.lanes.Offset(p.Lane), p.cfg.LaneLerp)

	p.Position.Y += p.VelocityY
	p.VelocityY -= p.cfg.Gravity

	if p.Position.Y <= p.cfg.GroundY {
		p.Position.Y = p.cfg.GroundY
		p.VelocityY = 0
		p.Jumping = false
	}

	if p.Jumping {
		p.Rotation.X = p.cfg.AirLean
		return
	}
	p.Rotation.X = 0
	ms := float64(now) / float64(time.Millisecond)
	p.Rotation.Z = p.cfg.SwayAmplitude * math.Sin(ms*p.cfg.SwayRate)
}

// Squashing reports whether the takeoff squash is still showing.
func (p *Player) Squashing() bool {
	return p.squashLeft > 0
}
