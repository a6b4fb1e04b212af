package runner

import (
	"time"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
)

// Engine is what drivers need from a simulation. Simulation implements it
// and so do decorators such as the run journal recorder.
type Engine interface {
	HandleInput(a core.Action) bool
	Tick() core.StepResult
	Spawn() bool
	State() core.GameState
	Scene() Scene
	SpawnInterval() time.Duration
	TickDuration() time.Duration
}

// Simulation is one self-contained game world. All state lives here; there
// are no package-level singletons, so any number of simulations can run side
// by side (one per SSH session, for example).
//
// A Simulation is not safe for concurrent use. Drivers must serialize
// Tick, Spawn and HandleInput; a parallel driver can wrap them in one mutex
// or funnel them through a single goroutine.
type Simulation struct {
	cfg       config.RunnerConfig
	runtime   core.RuntimeConfig
	lanes     LaneSet
	hitboxes  Hitboxes
	player    *Player
	obstacles *ObstacleManager
	ctrl      *Controller
	renderer  Renderer

	ticks        uint64
	clock        time.Duration
	step         time.Duration
	groundOffset float64
}

// Option configures a Simulation.
type Option func(*simOptions)

type simOptions struct {
	renderer Renderer
	notifier Notifier
}

// WithRenderer sets the renderer presented after every tick.
func WithRenderer(r Renderer) Option {
	return func(o *simOptions) { o.renderer = r }
}

// WithNotifier sets the UI notifier.
func WithNotifier(n Notifier) Option {
	return func(o *simOptions) { o.notifier = n }
}

// New creates an idle simulation. cfg should have passed Validate.
func New(cfg config.RunnerConfig, rt core.RuntimeConfig, opts ...Option) *Simulation {
	var o simOptions
	for _, opt := range opts {
		opt(&o)
	}

	lanes := NewLaneSet(cfg.Lanes)
	diff := config.NewDifficultyManager(cfg.Difficulty, cfg.Scoring)

	return &Simulation{
		cfg:       cfg,
		runtime:   rt,
		lanes:     lanes,
		hitboxes:  NewHitboxes(cfg.Collision),
		player:    NewPlayer(cfg.Player, lanes),
		obstacles: NewObstacleManager(rt.Seed, cfg.Obstacles, lanes),
		ctrl:      NewController(cfg.Scoring, diff, o.notifier),
		renderer:  o.renderer,
		step:      rt.TickDuration(),
	}
}

// HandleInput applies one discrete input event. While idle only ActionStart
// is honored; while running ActionStart is ignored. Returns whether the event
// changed anything.
func (s *Simulation) HandleInput(a core.Action) bool {
	if !s.ctrl.Playing() {
		if a == core.ActionStart {
			return s.start()
		}
		return false
	}

	switch a {
	case core.ActionJump:
		return s.player.RequestJump()
	case core.ActionLaneLeft:
		return s.player.RequestLaneChange(Left)
	case core.ActionLaneRight:
		return s.player.RequestLaneChange(Right)
	}
	return false
}

func (s *Simulation) start() bool {
	if s.ctrl.Playing() {
		return false
	}
	s.obstacles.Clear()
	s.player.Reset()
	return s.ctrl.Start()
}

// Tick advances the world by one frame: player motion first, then the
// ground scroll, then obstacle movement with collision checks, so collisions
// always compare this frame's positions. The renderer is presented on every
// tick, running or not.
func (s *Simulation) Tick() core.StepResult {
	s.ticks++
	s.clock += s.step

	var hit bool
	if s.ctrl.Playing() {
		s.player.Tick(s.clock, s.step)
		s.groundOffset -= s.ctrl.Speed() * s.cfg.Scoring.GroundScroll
		hit = s.obstacles.Tick(s.ctrl, s.player.Position, s.hitboxes).Hit
	}

	if s.renderer != nil {
		s.renderer.Present(s.Scene())
	}
	return core.StepResult{State: s.State(), Hit: hit}
}

// Reset returns the world to a fresh idle state: no obstacles, the player
// on the start lane, score and speed at their starting values. The tick
// counter and clock keep running.
func (s *Simulation) Reset() {
	s.obstacles.Clear()
	s.player.Reset()
	s.ctrl.Reset()
	s.groundOffset = 0
}

// Step applies a frame's worth of inputs in order, then ticks once.
func (s *Simulation) Step(in core.InputFrame) core.StepResult {
	for _, a := range in.Actions {
		s.HandleInput(a)
	}
	return s.Tick()
}

// Spawn is the fixed-interval spawner task. It creates one random obstacle
// while running and does nothing while idle.
func (s *Simulation) Spawn() bool {
	if !s.ctrl.Playing() {
		return false
	}
	s.obstacles.Spawn()
	return true
}

// SpawnKind places a specific obstacle while running. Used for scripted
// scenarios; the regular spawner picks kinds at random.
func (s *Simulation) SpawnKind(kind Kind, lane int) (Obstacle, bool) {
	if !s.ctrl.Playing() {
		return Obstacle{}, false
	}
	return s.obstacles.SpawnKind(kind, lane), true
}

// SpawnInterval returns the spawner period.
func (s *Simulation) SpawnInterval() time.Duration {
	return time.Duration(s.cfg.Obstacles.SpawnIntervalMillis) * time.Millisecond
}

// TickDuration returns the simulated time covered by one tick.
func (s *Simulation) TickDuration() time.Duration {
	return s.step
}

// State returns the current game state.
func (s *Simulation) State() core.GameState {
	return core.GameState{
		Score:   s.ctrl.Score(),
		Speed:   s.ctrl.Speed(),
		Playing: s.ctrl.Playing(),
		Over:    s.ctrl.Over(),
	}
}

// Scene builds a snapshot of everything the renderer needs.
func (s *Simulation) Scene() Scene {
	views := make([]ObstacleView, 0, s.obstacles.Len())
	for _, o := range s.obstacles.active {
		views = append(views, ObstacleView{
			ID:   o.ID,
			Kind: o.Kind,
			Lane: o.Lane,
			Transform: Transform{
				Position: o.Position,
				Rotation: o.Rotation,
				Scale:    core.V3(1, 1, 1),
			},
		})
	}

	return Scene{
		Tick:  s.ticks,
		Lanes: s.lanes.Offsets(),
		Player: Transform{
			Position: s.player.Position,
			Rotation: s.player.Rotation,
			Scale:    s.player.Scale,
		},
		Jumping:      s.player.Jumping,
		Obstacles:    views,
		GroundOffset: s.groundOffset,
		Score:        s.ctrl.Score(),
		Speed:        s.ctrl.Speed(),
		Playing:      s.ctrl.Playing(),
		Over:         s.ctrl.Over(),
	}
}

// Ticks returns the number of ticks since creation.
func (s *Simulation) Ticks() uint64 {
	return s.ticks
}

// Player returns a copy of the player.
func (s *Simulation) Player() Player {
	return *s.player
}

// Obstacles returns a copy of the active obstacle set.
func (s *Simulation) Obstacles() []Obstacle {
	return s.obstacles.Obstacles()
}

// Controller exposes the game state controller for inspection.
func (s *Simulation) Controller() *Controller {
	return s.ctrl
}

// Config returns the configuration the simulation was built with.
func (s *Simulation) Config() config.RunnerConfig {
	return s.cfg
}

// Runtime returns the runtime configuration.
func (s *Simulation) Runtime() core.RuntimeConfig {
	return s.runtime
}

var _ Engine = (*Simulation)(nil)
