package runner

import (
	"testing"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
)

// events counts notifier calls.
type events struct {
	started int
	over    int
	scores  []int
}

func (e *events) notifier() Notifier {
	return NotifierFuncs{
		ScoreChanged: func(score int) { e.scores = append(e.scores, score) },
		GameOver:     func() { e.over++ },
		GameStarted:  func() { e.started++ },
	}
}

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     42,
	}
}

// newTestSim builds a simulation from the default config with optional tweaks.
func newTestSim(t *testing.T, mutate func(*config.RunnerConfig), opts ...Option) *Simulation {
	t.Helper()
	cfg := config.DefaultRunnerConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid test config: %v", err)
	}
	return New(cfg, testRuntime(), opts...)
}

// startedSim returns a running simulation and its event log.
func startedSim(t *testing.T, mutate func(*config.RunnerConfig)) (*Simulation, *events) {
	t.Helper()
	ev := &events{}
	s := newTestSim(t, mutate, WithNotifier(ev.notifier()))
	if !s.HandleInput(core.ActionStart) {
		t.Fatal("start should be accepted while idle")
	}
	return s, ev
}

// tickUntil ticks until cond holds or max ticks pass. Returns ticks taken.
func tickUntil(t *testing.T, s *Simulation, max int, cond func() bool) int {
	t.Helper()
	for i := 1; i <= max; i++ {
		s.Tick()
		if cond() {
			return i
		}
	}
	t.Fatalf("condition not reached within %d ticks", max)
	return 0
}
