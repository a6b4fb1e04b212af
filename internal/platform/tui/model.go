package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lane-runner/internal/config"
	"github.com/vovakirdan/lane-runner/internal/core"
	"github.com/vovakirdan/lane-runner/internal/games/runner"
	"github.com/vovakirdan/lane-runner/internal/journal"
)

// GameOptions wires a game model to its surroundings. Every field is
// optional.
type GameOptions struct {
	Sink      journal.Sink // Run journal; nil keeps it in memory only
	Player    string
	Logger    *log.Logger
	AllowBack bool // Esc/b while idle leaves the game instead of doing nothing
	Renderer  *lipgloss.Renderer
}

// Model is the Bubble Tea model for one play session.
type Model struct {
	engine     runner.Engine
	recorder   *journal.Recorder
	screen     *core.Screen
	renderer   *runner.ProjectionRenderer
	output     *ScreenRenderer
	hud        *HUD
	keyMapper  *KeyMapper
	logger     *log.Logger
	config     core.RuntimeConfig
	gen        uint64
	allowBack  bool
	quitting   bool
	backToMenu bool
}

// NewModel builds a simulation for cfg and wraps it for the terminal.
func NewModel(cfg config.RunnerConfig, rt core.RuntimeConfig, opts GameOptions) (Model, error) {
	// Use time-based seed if not specified
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	player := opts.Player
	if player == "" {
		player = "local"
	}

	screen := core.NewScreen(rt.ScreenW, rt.ScreenH)
	renderer := runner.NewProjectionRenderer(screen, runner.DefaultCamera())
	hud := NewHUD()

	sim := runner.New(cfg, rt,
		runner.WithRenderer(renderer),
		runner.WithNotifier(runner.MultiNotifier{hud, NewLogNotifier(logger, player)}),
	)
	rec, err := journal.NewRecorder(sim, opts.Sink, player, journal.WithLogger(logger))
	if err != nil {
		return Model{}, fmt.Errorf("tui: %w", err)
	}
	logger.Debug("session opened", "session", rec.ID(), "player", player, "seed", rt.Seed)

	return Model{
		engine:    rec,
		recorder:  rec,
		screen:    screen,
		renderer:  renderer,
		output:    NewScreenRenderer(opts.Renderer),
		hud:       hud,
		keyMapper: NewKeyMapper(),
		logger:    logger,
		config:    rt,
		gen:       nextGeneration(),
		allowBack: opts.AllowBack,
	}, nil
}

// Init starts the frame and spawner timers and draws the first frame.
func (m Model) Init() tea.Cmd {
	m.renderer.Present(m.engine.Scene())
	return tea.Batch(
		tickCmd(m.gen, m.engine.TickDuration()),
		spawnCmd(m.gen, m.engine.SpawnInterval()),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		if msg.Gen != m.gen || m.quitting || m.backToMenu {
			return m, nil
		}
		m.engine.Tick()
		return m, tickCmd(m.gen, m.engine.TickDuration())

	case SpawnMsg:
		if msg.Gen != m.gen || m.quitting || m.backToMenu {
			return m, nil
		}
		m.engine.Spawn()
		return m, spawnCmd(m.gen, m.engine.SpawnInterval())
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		m.saveScreenshot()
		return m, nil
	case "esc", "b":
		if m.allowBack && !m.engine.State().Playing {
			m.backToMenu = true
			return m, nil
		}
	}

	action, isQuit := m.keyMapper.MapKey(msg, m.engine.State().Playing)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}
	if action != core.ActionNone {
		m.engine.HandleInput(action)
	}
	return m, nil
}

// handleResize resizes the frame buffer. The simulation is unaffected.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	m.renderer.Present(m.engine.Scene())
	return m, nil
}

// saveScreenshot saves the current frame to a file.
func (m *Model) saveScreenshot() {
	dir := filepath.Join(os.Getenv("HOME"), ".runner", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	filename := fmt.Sprintf("runner_%s.txt", time.Now().Format("20060102_150405"))
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot failed", "error", err)
	}
}

// View renders the current frame with the HUD on top.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.hud.Draw(m.screen, m.engine.State().Speed)
	return m.output.Render(m.screen)
}

// Close finishes the run journal.
func (m Model) Close() error {
	return m.recorder.Close()
}

// SessionID returns the journal session identifier.
func (m Model) SessionID() string {
	return m.recorder.ID()
}

// State returns the current game state.
func (m Model) State() core.GameState {
	return m.engine.State()
}

// Screen returns the frame buffer.
func (m Model) Screen() *core.Screen {
	return m.screen
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}
