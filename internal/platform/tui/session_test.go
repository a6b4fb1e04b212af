package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/storage"
)

func newTestSession(t *testing.T, store *storage.Store) SessionModel {
	t.Helper()
	return NewSessionModel(SessionConfig{
		Runner:  config.DefaultRunnerConfig(),
		Runtime: testRuntime(),
		Store:   store,
		Player:  "tester",
	})
}

func send(t *testing.T, m SessionModel, msg tea.Msg) SessionModel {
	t.Helper()
	next, cmd := m.Update(msg)
	s, ok := next.(SessionModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	// Follow internal page switches
	if cmd != nil {
		switch follow := cmd().(type) {
		case startGameMsg, openRunsMsg, openReplayMsg:
			return send(t, s, follow)
		}
	}
	return s
}

func TestSessionMenuToGameAndBack(t *testing.T) {
	m := newTestSession(t, nil)

	m = send(t, m, keyMsg("down")) // Normal
	m = send(t, m, keyMsg("enter"))
	if m.Page() != PageGame {
		t.Fatalf("page = %d, expected game", m.Page())
	}

	m = send(t, m, keyMsg("esc"))
	if m.Page() != PageMenu {
		t.Errorf("page = %d, expected menu after leaving an idle game", m.Page())
	}
	if m.cfg.Preset != config.DifficultyNormal {
		t.Errorf("preset = %q, expected normal", m.cfg.Preset)
	}
}

func TestSessionRunsWithoutStore(t *testing.T) {
	m := newTestSession(t, nil)

	m = send(t, m, keyMsg("tab"))
	if m.Page() != PageRuns {
		t.Fatalf("page = %d, expected runs", m.Page())
	}
	m = send(t, m, keyMsg("esc"))
	if m.Page() != PageMenu {
		t.Errorf("page = %d, expected menu", m.Page())
	}
}

func TestSessionStartsInGame(t *testing.T) {
	m := NewSessionModel(SessionConfig{
		Runner:  config.DefaultRunnerConfig(),
		Runtime: testRuntime(),
		Preset:  config.DifficultyHard,
		Start:   PageGame,
	})

	m = send(t, m, m.Init()())
	if m.Page() != PageGame {
		t.Fatalf("page = %d, expected game", m.Page())
	}
	if m.game.recorder.Sim().Config().Difficulty.InitialLevel != 0.7 {
		t.Error("hard preset should be applied to the game")
	}
}

func TestSessionClosesJournalOnQuit(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	defer store.Close()

	m := newTestSession(t, store)
	m = send(t, m, keyMsg("enter"))
	id := m.game.SessionID()
	m = send(t, m, keyMsg("q"))

	sess, _ := store.Session(id)
	if sess == nil || !sess.Finished() {
		t.Errorf("journal should be finished on quit, got %+v", sess)
	}
	if err := m.Close(); err != nil {
		t.Errorf("second close should be a no-op, got %v", err)
	}
}

func TestSessionWatchReplay(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	defer store.Close()

	m := newTestSession(t, store)
	m = send(t, m, keyMsg("enter"))
	m = send(t, m, keyMsg(" "))
	for i := 0; i < 5; i++ {
		m = send(t, m, TickMsg{Gen: m.game.gen})
	}
	m, ok := leaveToMenu(t, m)
	if !ok {
		t.Fatalf("page = %d, expected menu", m.Page())
	}
	m = send(t, m, keyMsg("tab"))
	if m.Page() != PageRuns || len(m.runs.Sessions()) != 1 {
		t.Fatalf("expected runs page with one session, page %d", m.Page())
	}

	m = send(t, m, keyMsg("enter"))
	if m.Page() != PageReplay {
		t.Fatalf("page = %d, expected replay", m.Page())
	}
	m = send(t, m, keyMsg("esc"))
	if m.Page() != PageRuns {
		t.Errorf("page = %d, expected runs after leaving the replay", m.Page())
	}
}

// leaveToMenu ends the current run and backs out of the game page.
func leaveToMenu(t *testing.T, m SessionModel) (SessionModel, bool) {
	t.Helper()
	if m.Page() != PageGame {
		return m, false
	}
	m.game.recorder.Sim().Reset()
	m = send(t, m, keyMsg("esc"))
	return m, m.Page() == PageMenu
}
