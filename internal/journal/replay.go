package journal

import (
	"fmt"
	"slices"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
	"github.com/vovakirdan/lane-runner/internal/games/runner"
	"github.com/vovakirdan/lane-runner/internal/storage"
)

// Report compares a replay with what was recorded.
type Report struct {
	Ticks    uint64    // Ticks simulated
	Runs     int       // Runs started
	Score    int       // Score at the end of the replay
	Recorded []Outcome // Run ends found in the journal
	Replayed []Outcome // Run ends the replay produced
	Rejected int       // Journal entries the replayed simulation refused
}

// Match reports whether the replay reproduced the recording.
func (r Report) Match() bool {
	return r.Rejected == 0 && slices.Equal(r.Recorded, r.Replayed)
}

// Playback re-simulates a journal one tick at a time. The headless Replay
// drives it to the end; a viewer can step it at frame rate instead.
type Playback struct {
	sim    *runner.Simulation
	events []Event
	next   int
	total  uint64
	report Report
}

// NewPlayback prepares a replay of events on a fresh simulation built from
// cfg and rt. ticks is the recorded session length; when it is shorter than
// the journal, the last entry's tick is used.
func NewPlayback(cfg config.RunnerConfig, rt core.RuntimeConfig, events []Event, ticks uint64, opts ...runner.Option) (*Playback, error) {
	for i := 1; i < len(events); i++ {
		if events[i].Tick < events[i-1].Tick {
			return nil, fmt.Errorf("journal: event %d goes back in time (tick %d after %d)",
				events[i].Seq, events[i].Tick, events[i-1].Tick)
		}
	}
	if n := len(events); n > 0 && events[n-1].Tick > ticks {
		ticks = events[n-1].Tick
	}

	p := &Playback{
		sim:    runner.New(cfg, rt, opts...),
		events: events,
		total:  ticks,
	}
	for _, e := range events {
		if e.Kind == KindOver {
			p.report.Recorded = append(p.report.Recorded, Outcome{Tick: e.Tick, Score: e.Score})
		}
	}
	return p, nil
}

// Step applies the entries due before the next tick and runs it. Returns
// false once the recorded length has been reached.
func (p *Playback) Step() bool {
	now := p.sim.Ticks()
	for p.next < len(p.events) && p.events[p.next].Tick == now {
		p.apply(p.events[p.next])
		p.next++
	}
	if now >= p.total {
		return false
	}

	res := p.sim.Tick()
	if res.Hit {
		p.report.Replayed = append(p.report.Replayed, Outcome{Tick: p.sim.Ticks(), Score: res.State.Score})
	}
	return true
}

func (p *Playback) apply(e Event) {
	var ok bool
	switch e.Kind {
	case KindInput:
		ok = p.sim.HandleInput(e.Action)
	case KindSpawn:
		ok = p.sim.Spawn()
	default:
		return
	}
	if !ok {
		p.report.Rejected++
	}
}

// Done reports whether the replay has reached the recorded length.
func (p *Playback) Done() bool {
	return p.sim.Ticks() >= p.total && p.next >= len(p.events)
}

// Progress returns simulated and total ticks.
func (p *Playback) Progress() (tick, total uint64) {
	return p.sim.Ticks(), p.total
}

// Sim returns the replaying simulation.
func (p *Playback) Sim() *runner.Simulation {
	return p.sim
}

// Report returns the comparison so far.
func (p *Playback) Report() Report {
	r := p.report
	r.Ticks = p.sim.Ticks()
	r.Runs = p.sim.Controller().Runs()
	r.Score = p.sim.State().Score
	return r
}

// Replay re-simulates a journal to the end and reports how it compares.
func Replay(cfg config.RunnerConfig, rt core.RuntimeConfig, events []Event, ticks uint64) (Report, error) {
	p, err := NewPlayback(cfg, rt, events, ticks)
	if err != nil {
		return Report{}, err
	}
	for p.Step() {
	}
	return p.Report(), nil
}

// Source reads stored sessions. *storage.Store implements it.
type Source interface {
	Session(id string) (*storage.Session, error)
	Events(sessionID string) ([]storage.EventRecord, error)
}

var _ Source = (*storage.Store)(nil)

// Recording is a stored session ready to be replayed.
type Recording struct {
	Session storage.Session
	Config  config.RunnerConfig
	Runtime core.RuntimeConfig
	Events  []Event
}

// Load fetches a stored session and rebuilds what a replay needs.
func Load(src Source, id string) (*Recording, error) {
	sess, err := src.Session(id)
	if err != nil {
		return nil, fmt.Errorf("journal: %w", err)
	}
	if sess == nil {
		return nil, fmt.Errorf("journal: session %s not found", id)
	}

	cfg, err := config.Parse([]byte(sess.ConfigYAML))
	if err != nil {
		return nil, fmt.Errorf("journal: session %s: %w", id, err)
	}

	records, err := src.Events(id)
	if err != nil {
		return nil, fmt.Errorf("journal: %w", err)
	}
	events, err := FromRecords(records)
	if err != nil {
		return nil, err
	}

	rt := core.DefaultConfig()
	rt.Seed = sess.Seed
	rt.TickRate = sess.TickRate

	return &Recording{
		Session: *sess,
		Config:  cfg,
		Runtime: rt,
		Events:  events,
	}, nil
}

// Playback prepares a step-by-step replay of the recording.
func (rec *Recording) Playback(opts ...runner.Option) (*Playback, error) {
	var ticks uint64
	if rec.Session.Ticks > 0 {
		ticks = uint64(rec.Session.Ticks)
	}
	return NewPlayback(rec.Config, rec.Runtime, rec.Events, ticks, opts...)
}

// ReplaySession loads a stored session and replays it headlessly.
func ReplaySession(src Source, id string) (Report, error) {
	rec, err := Load(src, id)
	if err != nil {
		return Report{}, err
	}
	p, err := rec.Playback()
	if err != nil {
		return Report{}, err
	}
	for p.Step() {
	}
	return p.Report(), nil
}
