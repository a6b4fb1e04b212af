package journal

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
	"github.com/vovakirdan/lane-runner/internal/games/runner"
	"github.com/vovakirdan/lane-runner/internal/storage"
)

func testRuntime(seed int64) core.RuntimeConfig {
	rt := core.DefaultConfig()
	rt.Seed = seed
	rt.TickRate = 60
	return rt
}

// play drives a recorder through a few runs with a fixed input script.
func play(t *testing.T, rec *Recorder, ticks int) {
	t.Helper()
	for i := 1; i <= ticks; i++ {
		if !rec.State().Playing {
			rec.HandleInput(core.ActionStart)
		}
		if i%90 == 0 {
			rec.Spawn()
		}
		switch {
		case i%200 == 0:
			rec.HandleInput(core.ActionJump)
		case i%130 == 0:
			rec.HandleInput(core.ActionLaneLeft)
		case i%170 == 0:
			rec.HandleInput(core.ActionLaneRight)
		}
		// Ignored while running, must not be journaled
		rec.HandleInput(core.ActionStart)
		rec.Tick()
	}
}

func outcomes(events []Event) []Outcome {
	var out []Outcome
	for _, e := range events {
		if e.Kind == KindOver {
			out = append(out, Outcome{Tick: e.Tick, Score: e.Score})
		}
	}
	return out
}

func TestRecorderJournalsAcceptedEventsOnly(t *testing.T) {
	sim := runner.New(config.DefaultRunnerConfig(), testRuntime(1))
	rec, err := NewRecorder(sim, nil, "test")
	if err != nil {
		t.Fatalf("NewRecorder() failed: %v", err)
	}

	rec.HandleInput(core.ActionJump) // Idle, rejected
	rec.Spawn()                      // Idle, rejected
	rec.Tick()
	rec.HandleInput(core.ActionStart)
	rec.HandleInput(core.ActionStart) // Already running
	rec.Spawn()
	rec.Tick()
	rec.HandleInput(core.ActionJump)

	expected := []Event{
		{Seq: 0, Tick: 1, Kind: KindInput, Action: core.ActionStart},
		{Seq: 1, Tick: 1, Kind: KindSpawn},
		{Seq: 2, Tick: 2, Kind: KindInput, Action: core.ActionJump},
	}
	if got := rec.Events(); !slices.Equal(got, expected) {
		t.Errorf("Events() = %+v, expected %+v", got, expected)
	}
	if err := rec.Close(); err != nil {
		t.Errorf("Close() without sink failed: %v", err)
	}
}

func TestRecorderJournalsGameOver(t *testing.T) {
	sim := runner.New(config.DefaultRunnerConfig(), testRuntime(1))
	rec, _ := NewRecorder(sim, nil, "test")

	rec.HandleInput(core.ActionStart)
	sim.SpawnKind(runner.KindBox, 1)
	for rec.State().Playing {
		rec.Tick()
	}

	got := outcomes(rec.Events())
	if len(got) != 1 {
		t.Fatalf("expected one outcome, got %+v", got)
	}
	if got[0].Tick != 175 || got[0].Score != 0 {
		t.Errorf("outcome = %+v, expected tick 175 score 0", got[0])
	}
}

func TestReplayReproducesRecording(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	rt := testRuntime(2024)
	sim := runner.New(cfg, rt)
	rec, _ := NewRecorder(sim, nil, "test")

	play(t, rec, 4000)
	if len(outcomes(rec.Events())) == 0 {
		t.Fatal("script should lose at least one run")
	}

	report, err := Replay(cfg, rt, rec.Events(), sim.Ticks())
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}
	if !report.Match() {
		t.Errorf("replay diverged: recorded %+v, replayed %+v, rejected %d",
			report.Recorded, report.Replayed, report.Rejected)
	}
	if report.Ticks != sim.Ticks() {
		t.Errorf("Ticks = %d, expected %d", report.Ticks, sim.Ticks())
	}
	if report.Score != sim.State().Score || report.Runs != sim.Controller().Runs() {
		t.Errorf("report %+v does not match live state %+v", report, sim.State())
	}
}

func TestReplayDetectsTampering(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	cfg.Obstacles.BoxChance = 0 // Bars only
	rt := testRuntime(5)
	sim := runner.New(cfg, rt)
	rec, _ := NewRecorder(sim, nil, "test")

	rec.HandleInput(core.ActionStart)
	rec.Spawn()
	for i := 0; i < 160; i++ {
		rec.Tick()
	}
	rec.HandleInput(core.ActionJump)
	for i := 0; i < 60; i++ {
		rec.Tick()
	}
	if !rec.State().Playing || rec.State().Score != 10 {
		t.Fatalf("recorded run should clear the bar, state %+v", rec.State())
	}

	events := slices.DeleteFunc(rec.Events(), func(e Event) bool {
		return e.Kind == KindInput && e.Action == core.ActionJump
	})
	report, err := Replay(cfg, rt, events, sim.Ticks())
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}
	if report.Match() {
		t.Error("replay without the jump should not match")
	}
	if len(report.Replayed) != 1 {
		t.Errorf("expected the bar to end the replayed run, got %+v", report.Replayed)
	}
}

func TestReplayDifferentSeedDiverges(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	sim := runner.New(cfg, testRuntime(11))
	rec, _ := NewRecorder(sim, nil, "test")
	play(t, rec, 4000)

	report, err := Replay(cfg, testRuntime(12), rec.Events(), sim.Ticks())
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}
	if report.Match() {
		t.Error("a different seed should not reproduce the recording")
	}
}

func TestNewPlaybackRejectsUnorderedJournal(t *testing.T) {
	events := []Event{
		{Seq: 0, Tick: 5, Kind: KindInput, Action: core.ActionStart},
		{Seq: 1, Tick: 3, Kind: KindSpawn},
	}
	_, err := NewPlayback(config.DefaultRunnerConfig(), testRuntime(1), events, 10)
	if err == nil {
		t.Error("expected error for out of order journal")
	}
}

func TestPlaybackExtendsToLastEvent(t *testing.T) {
	events := []Event{{Seq: 0, Tick: 30, Kind: KindInput, Action: core.ActionStart}}
	p, err := NewPlayback(config.DefaultRunnerConfig(), testRuntime(1), events, 0)
	if err != nil {
		t.Fatalf("NewPlayback() failed: %v", err)
	}

	steps := 0
	for p.Step() {
		steps++
	}
	if steps != 30 {
		t.Errorf("steps = %d, expected 30", steps)
	}
	if !p.Done() || !p.Sim().State().Playing {
		t.Error("trailing start should be applied before finishing")
	}
}

func TestFromRecords(t *testing.T) {
	events, err := FromRecords([]storage.EventRecord{
		{Seq: 0, Tick: 0, Kind: "input", Action: "Start"},
		{Seq: 1, Tick: 4, Kind: "spawn"},
		{Seq: 2, Tick: 9, Kind: "over", Score: 30},
	})
	if err != nil {
		t.Fatalf("FromRecords() failed: %v", err)
	}
	if events[0].Action != core.ActionStart || events[2].Score != 30 {
		t.Errorf("unexpected events %+v", events)
	}

	bad := []storage.EventRecord{
		{Seq: 0, Kind: "teleport"},
		{Seq: 0, Kind: "input", Action: "Fly"},
		{Seq: 0, Tick: -1, Kind: "spawn"},
	}
	for _, rec := range bad {
		if _, err := FromRecords([]storage.EventRecord{rec}); err == nil {
			t.Errorf("expected error for %+v", rec)
		}
	}
}

func TestStoredSessionRoundTrip(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	defer store.Close()

	cfg := config.DefaultRunnerConfig()
	cfg.Scoring.ResetPolicy = config.ResetPolicyCarry
	sim := runner.New(cfg, testRuntime(77))
	rec, err := NewRecorder(sim, store, "alice", WithFlushEvery(5))
	if err != nil {
		t.Fatalf("NewRecorder() failed: %v", err)
	}
	play(t, rec, 3000)
	if err := rec.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Errorf("second Close() should be a no-op, got %v", err)
	}

	loaded, err := Load(store, rec.ID())
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.Session.Player != "alice" || loaded.Session.Ticks != int64(sim.Ticks()) {
		t.Errorf("unexpected session %+v", loaded.Session)
	}
	if loaded.Config.Scoring.ResetPolicy != config.ResetPolicyCarry {
		t.Error("config snapshot lost the reset policy")
	}
	if !slices.Equal(loaded.Events, rec.Events()) {
		t.Error("stored journal differs from the recorded one")
	}

	report, err := ReplaySession(store, rec.ID())
	if err != nil {
		t.Fatalf("ReplaySession() failed: %v", err)
	}
	if !report.Match() || report.Score != sim.State().Score {
		t.Errorf("stored replay diverged: %+v", report)
	}

	if _, err := ReplaySession(store, "missing"); err == nil {
		t.Error("expected error for unknown session")
	}
}

type failingSink struct {
	appends int
}

func (f *failingSink) CreateSession(storage.Session) error { return nil }
func (f *failingSink) AppendEvents(string, []storage.EventRecord) error {
	f.appends++
	return errors.New("disk full")
}
func (f *failingSink) FinishSession(string, int64, int, int) error { return nil }

func TestRecorderSurvivesSinkFailure(t *testing.T) {
	sink := &failingSink{}
	sim := runner.New(config.DefaultRunnerConfig(), testRuntime(3))
	rec, err := NewRecorder(sim, sink, "test", WithFlushEvery(1))
	if err != nil {
		t.Fatalf("NewRecorder() failed: %v", err)
	}

	rec.HandleInput(core.ActionStart)
	rec.Spawn()
	rec.Tick()

	if !rec.State().Playing {
		t.Error("game should keep running when the journal cannot be written")
	}
	if rec.Err() == nil {
		t.Error("Err() should report the sink failure")
	}
	if sink.appends != 2 {
		t.Errorf("appends = %d, expected 2", sink.appends)
	}
	if err := rec.Close(); err == nil {
		t.Error("Close() should surface the write failure")
	}
}
