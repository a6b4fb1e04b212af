package runner

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
)

// Kind tags an obstacle with its collision behavior.
type Kind int

const (
	KindBox Kind = iota // Single-lane block, cleared by lane change or jump
	KindBar             // Full-width rolling bar, cleared only by jumping
	kindCount
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindBar:
		return "bar"
	default:
		return "unknown"
	}
}

// Obstacle is a hazard moving toward the player along +Z.
type Obstacle struct {
	ID       uint64
	Kind     Kind
	Lane     int // -1 for bars
	Position core.Vec3
	Rotation core.Vec3
}

// lifecycle is the part of the game state controller obstacles report to.
type lifecycle interface {
	Speed() float64
	EndGame() bool
	ObstaclePassed()
}

// TickResult summarizes one lifecycle pass.
type TickResult struct {
	Passed int    // Obstacles retired behind the player
	Hit    bool   // A collision ended the run
	HitID  uint64 // Obstacle that was hit
}

// ObstacleManager spawns obstacles and owns the active set.
type ObstacleManager struct {
	active []Obstacle // Spawn order, oldest first
	rng    *rand.Rand
	nextID uint64
	cfg    config.ObstacleConfig
	lanes  LaneSet
}

// NewObstacleManager creates a new obstacle manager with the given RNG seed.
func NewObstacleManager(seed int64, cfg config.ObstacleConfig, lanes LaneSet) *ObstacleManager {
	return &ObstacleManager{
		active: make([]Obstacle, 0, 16),
		rng:    rand.New(rand.NewSource(seed)),
		nextID: 1,
		cfg:    cfg,
		lanes:  lanes,
	}
}

// Clear removes all obstacles. IDs keep increasing so they stay unique for
// the lifetime of the manager.
func (om *ObstacleManager) Clear() {
	om.active = om.active[:0]
}

// Spawn creates one obstacle of random kind at the spawn distance.
func (om *ObstacleManager) Spawn() Obstacle {
	if om.rng.Float64() < om.cfg.BoxChance {
		return om.SpawnKind(KindBox, om.rng.Intn(om.lanes.Len()))
	}
	return om.SpawnKind(KindBar, -1)
}

// SpawnKind creates an obstacle of the given kind at the spawn distance.
// lane is only used for boxes and is clamped to the lane set.
func (om *ObstacleManager) SpawnKind(kind Kind, lane int) Obstacle {
	o := Obstacle{
		ID:   om.nextID,
		Kind: kind,
		Lane: -1,
	}
	om.nextID++

	if kind == KindBox {
		o.Lane = om.lanes.Clamp(lane)
		o.Position = core.V3(om.lanes.Offset(o.Lane), om.cfg.Y, om.cfg.SpawnZ)
	} else {
		// Lies across the road
		o.Position = core.V3(0, om.cfg.Y, om.cfg.SpawnZ)
		o.Rotation.Z = math.Pi / 2
	}

	om.active = append(om.active, o)
	return o
}

// Tick moves every obstacle toward the player, checks it against the
// player and retires it once it is behind the threshold.
//
// The set is walked newest first so removal does not disturb the indices
// still to visit. A hit ends the run and stops the pass: obstacles not yet
// visited keep their position, nothing is retired or scored after it.
func (om *ObstacleManager) Tick(g lifecycle, player core.Vec3, h Hitboxes) TickResult {
	var res TickResult

	for i := len(om.active) - 1; i >= 0; i-- {
		o := &om.active[i]
		o.Position.Z += g.Speed() * om.cfg.AdvanceFactor
		o.Rotation.X += om.cfg.RollStep

		if CheckHit(player, *o, h) {
			g.EndGame()
			res.Hit = true
			res.HitID = o.ID
			return res
		}

		if o.Position.Z > om.cfg.PassThreshold {
			om.active = append(om.active[:i], om.active[i+1:]...)
			g.ObstaclePassed()
			res.Passed++
		}
	}
	return res
}

// Obstacles returns a copy of the active set.
func (om *ObstacleManager) Obstacles() []Obstacle {
	out := make([]Obstacle, len(om.active))
	copy(out, om.active)
	return out
}

// Len returns the number of active obstacles.
func (om *ObstacleManager) Len() int {
	return len(om.active)
}
