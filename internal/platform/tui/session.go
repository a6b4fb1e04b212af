package tui

import (
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
	"github.com/vovakirdan/lane-runner/internal/journal"
	"github.com/vovakirdan/lane-runner/internal/storage"
)

// Page is a top-level screen of a session.
type Page int

const (
	PageMenu Page = iota
	PageGame
	PageRuns
	PageReplay
)

// SessionConfig describes one interactive session, local or over SSH.
type SessionConfig struct {
	Runner   config.RunnerConfig // Before any difficulty preset
	Runtime  core.RuntimeConfig
	Preset   config.DifficultyPreset
	Store    *storage.Store // Optional run journal
	Player   string
	Logger   *log.Logger
	Renderer *lipgloss.Renderer
	Start    Page
	WatchID  string // Session to open when Start is PageReplay
}

// closer finishes the journal of the game currently open in a session.
type closer struct {
	fn func() error
}

func (c *closer) set(fn func() error) {
	c.fn = fn
}

// Close runs and forgets the pending close function.
func (c *closer) Close() error {
	if c.fn == nil {
		return nil
	}
	fn := c.fn
	c.fn = nil
	return fn()
}

// SessionModel manages the full session flow: menu -> game -> menu, with
// the run journal and replays reachable from the menu.
type SessionModel struct {
	cfg      SessionConfig
	logger   *log.Logger
	page     Page
	menu     MenuModel
	game     Model
	runs     RunsModel
	replay   ReplayModel
	active   *closer
	message  string
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(cfg SessionConfig) SessionModel {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return SessionModel{
		cfg:    cfg,
		logger: logger,
		page:   PageMenu,
		menu:   NewMenuModel(cfg.Runtime, cfg.Preset),
		active: &closer{},
	}
}

// runsStore returns the store as a RunsStore, keeping nil a real nil.
func (m SessionModel) runsStore() RunsStore {
	if m.cfg.Store == nil {
		return nil
	}
	return m.cfg.Store
}

// sink returns the store as a journal sink, keeping nil a real nil.
func (m SessionModel) sink() journal.Sink {
	if m.cfg.Store == nil {
		return nil
	}
	return m.cfg.Store
}

// Init opens the starting page.
func (m SessionModel) Init() tea.Cmd {
	switch m.cfg.Start {
	case PageGame:
		return func() tea.Msg { return startGameMsg{preset: m.cfg.Preset} }
	case PageRuns:
		return func() tea.Msg { return openRunsMsg{} }
	case PageReplay:
		return func() tea.Msg { return openReplayMsg{id: m.cfg.WatchID} }
	}
	return m.menu.Init()
}

type startGameMsg struct{ preset config.DifficultyPreset }
type openRunsMsg struct{}
type openReplayMsg struct{ id string }

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cfg.Runtime.ScreenW = msg.Width
		m.cfg.Runtime.ScreenH = msg.Height
	case startGameMsg:
		return m.startGame(msg.preset)
	case openRunsMsg:
		return m.openRuns()
	case openReplayMsg:
		return m.openReplay(msg.id)
	}

	switch m.page {
	case PageGame:
		return m.updateGame(msg)
	case PageRuns:
		return m.updateRuns(msg)
	case PageReplay:
		return m.updateReplay(msg)
	}
	return m.updateMenu(msg)
}

func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.page = PageMenu
	m.menu = NewMenuModel(m.cfg.Runtime, m.cfg.Preset)
	return m, m.menu.Init()
}

func (m SessionModel) quit() (tea.Model, tea.Cmd) {
	m.closeGame()
	m.quitting = true
	return m, tea.Quit
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		return m.quit()
	case m.menu.WantsRuns():
		return m.openRuns()
	case m.menu.Selected() != nil:
		return m.startGame(m.menu.Selected().Preset)
	}
	return m, cmd
}

// startGame builds a fresh simulation with preset applied.
func (m SessionModel) startGame(preset config.DifficultyPreset) (tea.Model, tea.Cmd) {
	cfg := m.cfg.Runner
	config.ApplyPreset(&cfg, preset)
	m.cfg.Preset = preset

	rt := m.cfg.Runtime
	// New seed for every game unless one was pinned
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}

	game, err := NewModel(cfg, rt, GameOptions{
		Sink:      m.sink(),
		Player:    m.cfg.Player,
		Logger:    m.logger,
		AllowBack: true,
		Renderer:  m.cfg.Renderer,
	})
	if err != nil {
		m.logger.Error("cannot start game", "player", m.cfg.Player, "error", err)
		m.message = err.Error()
		return m.toMenu()
	}

	m.game = game
	m.message = ""
	m.active.set(game.Close)
	m.page = PageGame
	return m, m.game.Init()
}

// closeGame finishes the journal of the open game, if any.
func (m SessionModel) closeGame() {
	if err := m.active.Close(); err != nil {
		m.logger.Warn("journal close failed", "player", m.cfg.Player, "error", err)
	}
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.game = gameModel
	}

	if m.game.IsQuitting() {
		return m.quit()
	}
	if m.game.BackToMenu() {
		m.closeGame()
		return m.toMenu()
	}
	return m, cmd
}

func (m SessionModel) openRuns() (tea.Model, tea.Cmd) {
	m.runs = NewRunsModel(m.runsStore(), m.cfg.Runtime.ScreenW, m.cfg.Runtime.ScreenH)
	m.page = PageRuns
	return m, m.runs.Init()
}

// updateRuns handles updates when browsing runs.
func (m SessionModel) updateRuns(msg tea.Msg) (tea.Model, tea.Cmd) {
	newRuns, cmd := m.runs.Update(msg)
	if runsModel, ok := newRuns.(RunsModel); ok {
		m.runs = runsModel
	}

	switch {
	case m.runs.IsQuitting():
		return m.quit()
	case m.runs.IsGoingBack():
		return m.toMenu()
	case m.runs.WatchID() != "":
		return m.openReplay(m.runs.WatchID())
	}
	return m, cmd
}

func (m SessionModel) openReplay(id string) (tea.Model, tea.Cmd) {
	store := m.runsStore()
	if store == nil {
		m.message = "run journal unavailable"
		return m.toMenu()
	}
	rec, err := journal.Load(store, id)
	if err == nil {
		m.replay, err = NewReplayModel(rec, m.cfg.Runtime, m.cfg.Renderer)
	}
	if err != nil {
		m.logger.Warn("cannot open replay", "session", id, "error", err)
		next, cmd := m.openRuns()
		s := next.(SessionModel)
		s.runs.status = err.Error()
		return s, cmd
	}
	m.page = PageReplay
	return m, m.replay.Init()
}

// updateReplay handles updates while watching a replay.
func (m SessionModel) updateReplay(msg tea.Msg) (tea.Model, tea.Cmd) {
	newReplay, cmd := m.replay.Update(msg)
	if replayModel, ok := newReplay.(ReplayModel); ok {
		m.replay = replayModel
	}

	switch {
	case m.replay.IsQuitting():
		return m.quit()
	case m.replay.IsGoingBack():
		return m.openRuns()
	}
	return m, cmd
}

// View renders the current page.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.page {
	case PageGame:
		return m.game.View()
	case PageRuns:
		return m.runs.View()
	case PageReplay:
		return m.replay.View()
	}

	view := m.menu.View()
	if m.message != "" {
		view += "\n" + centerText(lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render(m.message), m.cfg.Runtime.ScreenW)
	}
	return view
}

// Page returns the page currently shown.
func (m SessionModel) Page() Page {
	return m.page
}

// Close finishes the journal of a game left open when the program ended.
func (m SessionModel) Close() error {
	return m.active.Close()
}

// RunSession runs a session in the current terminal.
func RunSession(cfg SessionConfig) error {
	model := NewSessionModel(cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, runErr := p.Run()
	closeErr := model.Close()
	if runErr != nil {
		return runErr
	}
	return closeErr
}
