package runner

import "github.com/vovakirdan/lane-runner/internal/config"

// Phase is the controller state.
type Phase int

const (
	PhaseIdle    Phase = iota // Waiting for a start signal
	PhaseRunning              // A run is in progress
)

// String returns the phase name.
func (p Phase) String() string {
	if p == PhaseRunning {
		return "running"
	}
	return "idle"
}

// Controller owns play state, score and speed, and gates the rest of the
// simulation.
type Controller struct {
	phase    Phase
	score    int
	speed    float64
	over     bool // Last run ended in a collision
	runs     int  // Runs started so far
	passed   int  // Obstacles passed in the current run
	reward   int
	policy   string
	diff     *config.DifficultyManager
	notifier Notifier
}

// NewController creates an idle controller at starting speed.
func NewController(scoring config.ScoringConfig, diff *config.DifficultyManager, n Notifier) *Controller {
	if n == nil {
		n = nopNotifier{}
	}
	return &Controller{
		phase:    PhaseIdle,
		speed:    diff.StartSpeed(),
		reward:   scoring.PassReward,
		policy:   scoring.ResetPolicy,
		diff:     diff,
		notifier: n,
	}
}

// Start moves Idle to Running. Under the reset policy score and speed start
// fresh for every run; under the carry policy they continue from the
// previous run. Returns false if a run is already in progress.
func (c *Controller) Start() bool {
	if c.phase == PhaseRunning {
		return false
	}
	if c.runs > 0 && c.policy != config.ResetPolicyCarry {
		c.score = 0
		c.speed = c.diff.StartSpeed()
	}
	c.runs++
	c.passed = 0
	c.over = false
	c.phase = PhaseRunning

	c.notifier.OnGameStarted()
	c.notifier.OnScoreChanged(c.score)
	return true
}

// EndGame moves Running to Idle after a collision and fires the game over
// notification. Returns false if no run was in progress.
func (c *Controller) EndGame() bool {
	if c.phase != PhaseRunning {
		return false
	}
	c.phase = PhaseIdle
	c.over = true
	c.notifier.OnGameOver()
	return true
}

// ObstaclePassed awards points and speeds the world up. Ignored while idle.
func (c *Controller) ObstaclePassed() {
	if c.phase != PhaseRunning {
		return
	}
	c.passed++
	c.score += c.reward
	c.speed += c.diff.Increment()
	c.notifier.OnScoreChanged(c.score)
}

// Reset drops back to a fresh idle controller without notifying.
func (c *Controller) Reset() {
	c.phase = PhaseIdle
	c.score = 0
	c.speed = c.diff.StartSpeed()
	c.over = false
	c.runs = 0
	c.passed = 0
}

// Playing reports whether a run is in progress.
func (c *Controller) Playing() bool {
	return c.phase == PhaseRunning
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Score returns the current score.
func (c *Controller) Score() int {
	return c.score
}

// Speed returns the current world speed.
func (c *Controller) Speed() float64 {
	return c.speed
}

// Over reports whether the last run ended in a collision.
func (c *Controller) Over() bool {
	return c.over
}

// Runs returns how many runs have been started.
func (c *Controller) Runs() int {
	return c.runs
}

// Passed returns the number of obstacles passed in the current run.
func (c *Controller) Passed() int {
	return c.passed
}
