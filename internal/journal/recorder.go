package journal

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
	"github.com/vovakirdan/lane-runner/internal/games/runner"
	"github.com/vovakirdan/lane-runner/internal/storage"
)

// Sink persists journals. *storage.Store implements it.
type Sink interface {
	CreateSession(sess storage.Session) error
	AppendEvents(sessionID string, events []storage.EventRecord) error
	FinishSession(id string, ticks int64, runs, lastScore int) error
}

var _ Sink = (*storage.Store)(nil)

const defaultFlushEvery = 64

// Recorder wraps a simulation and journals everything that reaches it.
// Drivers use it in place of the simulation; it implements runner.Engine.
//
// Persistence is best effort: a failing sink is logged and remembered, and
// the game keeps running.
type Recorder struct {
	sim     *runner.Simulation
	sink    Sink
	logger  *log.Logger
	id      string
	seq     int
	events  []Event
	pending []storage.EventRecord
	every   int
	err     error
	closed  bool
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithLogger sets the logger used for sink failures.
func WithLogger(l *log.Logger) RecorderOption {
	return func(r *Recorder) { r.logger = l }
}

// WithFlushEvery sets how many entries are buffered before writing.
func WithFlushEvery(n int) RecorderOption {
	return func(r *Recorder) {
		if n > 0 {
			r.every = n
		}
	}
}

// NewRecorder opens a new journal session for sim. sink may be nil, in
// which case the journal is only kept in memory.
func NewRecorder(sim *runner.Simulation, sink Sink, player string, opts ...RecorderOption) (*Recorder, error) {
	r := &Recorder{
		sim:    sim,
		sink:   sink,
		logger: log.New(io.Discard),
		id:     uuid.NewString(),
		every:  defaultFlushEvery,
	}
	for _, opt := range opts {
		opt(r)
	}

	if sink == nil {
		return r, nil
	}

	data, err := config.Marshal(sim.Config())
	if err != nil {
		return nil, fmt.Errorf("journal: cannot snapshot config: %w", err)
	}
	rt := sim.Runtime()
	err = sink.CreateSession(storage.Session{
		ID:         r.id,
		Seed:       rt.Seed,
		TickRate:   rt.TickRate,
		ConfigYAML: string(data),
		Player:     player,
	})
	if err != nil {
		return nil, fmt.Errorf("journal: cannot open session: %w", err)
	}
	return r, nil
}

// ID returns the session identifier.
func (r *Recorder) ID() string {
	return r.id
}

// Sim returns the wrapped simulation.
func (r *Recorder) Sim() *runner.Simulation {
	return r.sim
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Err returns the first persistence error, if any.
func (r *Recorder) Err() error {
	return r.err
}

func (r *Recorder) append(e Event) {
	e.Seq = r.seq
	r.seq++
	r.events = append(r.events, e)
	if r.sink == nil {
		return
	}
	r.pending = append(r.pending, e.record())
	if len(r.pending) >= r.every {
		r.flush()
	}
}

func (r *Recorder) flush() {
	if len(r.pending) == 0 || r.sink == nil {
		return
	}
	if err := r.sink.AppendEvents(r.id, r.pending); err != nil {
		r.logger.Warn("journal write failed", "session", r.id, "events", len(r.pending), "error", err)
		if r.err == nil {
			r.err = err
		}
	}
	r.pending = r.pending[:0]
}

// HandleInput forwards an action and journals it if it was accepted.
func (r *Recorder) HandleInput(a core.Action) bool {
	if !r.sim.HandleInput(a) {
		return false
	}
	r.append(Event{Tick: r.sim.Ticks(), Kind: KindInput, Action: a})
	return true
}

// Tick forwards one tick and journals the end of a run.
func (r *Recorder) Tick() core.StepResult {
	res := r.sim.Tick()
	if res.Hit {
		r.append(Event{Tick: r.sim.Ticks(), Kind: KindOver, Score: res.State.Score})
		r.logger.Debug("run over", "session", r.id, "tick", r.sim.Ticks(), "score", res.State.Score)
	}
	return res
}

// Spawn forwards a spawner fire and journals it if it placed an obstacle.
func (r *Recorder) Spawn() bool {
	if !r.sim.Spawn() {
		return false
	}
	r.append(Event{Tick: r.sim.Ticks(), Kind: KindSpawn})
	return true
}

// State returns the simulation state.
func (r *Recorder) State() core.GameState { return r.sim.State() }

// Scene returns the simulation scene.
func (r *Recorder) Scene() runner.Scene { return r.sim.Scene() }

// SpawnInterval returns the spawner period.
func (r *Recorder) SpawnInterval() time.Duration { return r.sim.SpawnInterval() }

// TickDuration returns the simulated frame length.
func (r *Recorder) TickDuration() time.Duration { return r.sim.TickDuration() }

// Close flushes buffered entries and writes the session summary. Calling it
// again is a no-op.
func (r *Recorder) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.sink == nil {
		return nil
	}

	r.flush()
	st := r.sim.State()
	err := r.sink.FinishSession(r.id, int64(r.sim.Ticks()), r.sim.Controller().Runs(), st.Score)
	if err != nil {
		err = fmt.Errorf("journal: cannot finish session: %w", err)
	}
	return errors.Join(r.err, err)
}

var _ runner.Engine = (*Recorder)(nil)
