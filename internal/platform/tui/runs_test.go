package tui

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
	"github.com/vovakirdan/lane-runner/internal/games/runner"
	"github.com/vovakirdan/lane-runner/internal/journal"
	"github.com/vovakirdan/lane-runner/internal/storage"
)

// recordSession plays a short scripted session into store.
func recordSession(t *testing.T, store *storage.Store, player string) string {
	t.Helper()
	sim := runner.New(config.DefaultRunnerConfig(), testRuntime())
	rec, err := journal.NewRecorder(sim, store, player)
	if err != nil {
		t.Fatalf("NewRecorder() failed: %v", err)
	}
	rec.HandleInput(core.ActionStart)
	for i := 0; i < 120; i++ {
		if i%40 == 0 {
			rec.Spawn()
		}
		rec.Tick()
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	return rec.ID()
}

func openRunsStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func updateRuns(t *testing.T, m RunsModel, key string) RunsModel {
	t.Helper()
	next, _ := m.Update(keyMsg(key))
	return next.(RunsModel)
}

func TestRunsWithoutStore(t *testing.T) {
	m := NewRunsModel(nil, 80, 24)

	if len(m.Sessions()) != 0 {
		t.Error("expected no sessions without a store")
	}
	m = updateRuns(t, m, "r")
	m = updateRuns(t, m, "x")
	if m.Status() != "" {
		t.Errorf("actions on an empty list should do nothing, got %q", m.Status())
	}
	if m.View() == "" {
		t.Error("view should render")
	}
}

func TestRunsVerifyAndDelete(t *testing.T) {
	store := openRunsStore(t)
	first := recordSession(t, store, "alice")
	second := recordSession(t, store, "bob")

	m := NewRunsModel(store, 100, 30)
	if len(m.Sessions()) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(m.Sessions()))
	}
	if m.Sessions()[0].ID != second {
		t.Error("newest session should be listed first")
	}
	if !strings.Contains(m.View(), "bob") {
		t.Error("view should list the player")
	}

	m = updateRuns(t, m, "r")
	if !strings.Contains(m.Status(), "matches") {
		t.Errorf("expected replay to match, status %q", m.Status())
	}

	m = updateRuns(t, m, "x")
	if len(m.Sessions()) != 1 || m.Sessions()[0].ID != first {
		t.Fatalf("expected only %s left", first)
	}
	if sess, _ := store.Session(second); sess != nil {
		t.Error("deleted session still stored")
	}
}

func TestRunsWatchAndBack(t *testing.T) {
	store := openRunsStore(t)
	id := recordSession(t, store, "alice")

	m := NewRunsModel(store, 80, 24)
	watch := updateRuns(t, m, "enter")
	if watch.WatchID() != id {
		t.Errorf("WatchID = %q, expected %q", watch.WatchID(), id)
	}

	back := updateRuns(t, m, "esc")
	if !back.IsGoingBack() {
		t.Error("esc should go back")
	}
	quit := updateRuns(t, m, "q")
	if !quit.IsQuitting() {
		t.Error("q should quit")
	}
}

func TestFormatTicks(t *testing.T) {
	tests := []struct {
		ticks int64
		rate  int
		want  string
	}{
		{0, 60, "0:00"},
		{59, 60, "0:00"},
		{60 * 75, 60, "1:15"},
		{300, 0, "0:05"},
	}
	for _, tc := range tests {
		if got := formatTicks(tc.ticks, tc.rate); got != tc.want {
			t.Errorf("formatTicks(%d, %d) = %q, expected %q", tc.ticks, tc.rate, got, tc.want)
		}
	}
}
