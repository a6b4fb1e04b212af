package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
	"github.com/vovakirdan/lane-runner/internal/games/runner"
	"github.com/vovakirdan/lane-runner/internal/storage"
)

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}
}

func newTestModel(t *testing.T, opts GameOptions) Model {
	t.Helper()
	m, err := NewModel(config.DefaultRunnerConfig(), testRuntime(), opts)
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model, cmd
}

func TestModelStartsIdle(t *testing.T) {
	m := newTestModel(t, GameOptions{})

	if m.State().Playing {
		t.Error("model should start idle")
	}
	if m.Init() == nil {
		t.Error("Init should start the timers")
	}
	if !strings.Contains(m.View(), "PRESS SPACE TO START") {
		t.Error("idle view should show the start prompt")
	}
}

func TestModelSpaceStartsThenJumps(t *testing.T) {
	m := newTestModel(t, GameOptions{})

	m, _ = update(t, m, keyMsg(" "))
	if !m.State().Playing {
		t.Fatal("space should start a run")
	}

	m, _ = update(t, m, keyMsg(" "))
	if !m.recorder.Sim().Player().Jumping {
		t.Error("space while running should jump")
	}
}

func TestModelTimers(t *testing.T) {
	m := newTestModel(t, GameOptions{})
	m, _ = update(t, m, keyMsg("enter"))

	m, cmd := update(t, m, TickMsg{Gen: m.gen})
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if m.recorder.Sim().Ticks() != 1 {
		t.Errorf("Ticks = %d, expected 1", m.recorder.Sim().Ticks())
	}

	m, cmd = update(t, m, SpawnMsg{Gen: m.gen})
	if cmd == nil {
		t.Error("spawn should schedule the next spawn")
	}
	if len(m.recorder.Sim().Obstacles()) != 1 {
		t.Errorf("expected one obstacle after a spawn message")
	}

	// Timers from another model are ignored
	m, cmd = update(t, m, TickMsg{Gen: m.gen + 1000})
	if cmd != nil || m.recorder.Sim().Ticks() != 1 {
		t.Error("stale tick should be dropped")
	}
}

func TestModelResizeKeepsGame(t *testing.T) {
	m := newTestModel(t, GameOptions{})
	m, _ = update(t, m, keyMsg("enter"))
	m, _ = update(t, m, keyMsg("left"))

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	if m.Screen().Width() != 120 || m.Screen().Height() != 40 {
		t.Errorf("screen is %dx%d, expected 120x40", m.Screen().Width(), m.Screen().Height())
	}
	if !m.State().Playing || m.recorder.Sim().Player().Lane != 0 {
		t.Error("resize should not reset the game")
	}
}

func TestModelQuitAndBack(t *testing.T) {
	m := newTestModel(t, GameOptions{AllowBack: true})

	m, _ = update(t, m, keyMsg("enter"))
	m, _ = update(t, m, keyMsg("esc"))
	if m.BackToMenu() {
		t.Error("back should be ignored while running")
	}

	idle := newTestModel(t, GameOptions{AllowBack: true})
	idle, _ = update(t, idle, keyMsg("esc"))
	if !idle.BackToMenu() {
		t.Error("back while idle should leave the game")
	}

	m, cmd := update(t, m, keyMsg("q"))
	if !m.IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}
	if m.View() != "" {
		t.Error("quitting view should be empty")
	}
}

func TestModelGameOverView(t *testing.T) {
	m := newTestModel(t, GameOptions{})
	m, _ = update(t, m, keyMsg("enter"))
	m.recorder.Sim().SpawnKind(runner.KindBox, 1)

	for i := 0; i < 300 && m.State().Playing; i++ {
		m, _ = update(t, m, TickMsg{Gen: m.gen})
	}
	if m.State().Playing {
		t.Fatal("box in the player's lane should end the run")
	}
	if !strings.Contains(m.View(), "GAME OVER") {
		t.Error("view should show game over")
	}
}

func TestModelJournalsToStore(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	defer store.Close()

	m := newTestModel(t, GameOptions{Sink: store, Player: "tester"})
	m, _ = update(t, m, keyMsg("enter"))
	for i := 0; i < 10; i++ {
		m, _ = update(t, m, TickMsg{Gen: m.gen})
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	sess, err := store.Session(m.SessionID())
	if err != nil || sess == nil {
		t.Fatalf("session not stored: %v", err)
	}
	if sess.Player != "tester" || sess.Ticks != 10 || sess.Runs != 1 {
		t.Errorf("unexpected session %+v", sess)
	}
	events, _ := store.Events(m.SessionID())
	if len(events) != 1 || events[0].Action != "Start" {
		t.Errorf("unexpected journal %+v", events)
	}
}
