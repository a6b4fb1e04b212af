package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/lane-runner/internal/core"
	"github.com/vovakirdan/lane-runner/internal/games/runner"
	"github.com/vovakirdan/lane-runner/internal/journal"
)

// Playback speeds selectable with +/-.
var replaySpeeds = []int{1, 2, 4, 8}

// ReplayModel plays a recorded session back at frame rate.
type ReplayModel struct {
	playback *journal.Playback
	id       string
	screen   *core.Screen
	renderer *runner.ProjectionRenderer
	output   *ScreenRenderer
	hud      *HUD
	gen      uint64
	speed    int // Index into replaySpeeds
	paused   bool
	quitting bool
	goBack   bool
}

// NewReplayModel prepares a viewer for rec sized to rt.
func NewReplayModel(rec *journal.Recording, rt core.RuntimeConfig, r *lipgloss.Renderer) (ReplayModel, error) {
	screen := core.NewScreen(rt.ScreenW, rt.ScreenH)
	renderer := runner.NewProjectionRenderer(screen, runner.DefaultCamera())
	hud := NewHUD()

	p, err := rec.Playback(runner.WithRenderer(renderer), runner.WithNotifier(hud))
	if err != nil {
		return ReplayModel{}, fmt.Errorf("tui: %w", err)
	}

	return ReplayModel{
		playback: p,
		id:       rec.Session.ID,
		screen:   screen,
		renderer: renderer,
		output:   NewScreenRenderer(r),
		hud:      hud,
		gen:      nextGeneration(),
	}, nil
}

// Init starts the frame timer.
func (m ReplayModel) Init() tea.Cmd {
	m.renderer.Present(m.playback.Sim().Scene())
	return tickCmd(m.gen, m.playback.Sim().TickDuration())
}

// Update handles messages for the viewer.
func (m ReplayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "esc", "b":
			m.goBack = true
			return m, tea.Quit
		case " ", "p":
			m.paused = !m.paused
		case "+", "=", "right":
			m.speed = min(m.speed+1, len(replaySpeeds)-1)
		case "-", "left":
			m.speed = max(m.speed-1, 0)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)
		m.renderer.Present(m.playback.Sim().Scene())
		return m, nil

	case TickMsg:
		if msg.Gen != m.gen || m.quitting || m.goBack {
			return m, nil
		}
		if !m.paused {
			for i := 0; i < replaySpeeds[m.speed]; i++ {
				if !m.playback.Step() {
					break
				}
			}
		}
		return m, tickCmd(m.gen, m.playback.Sim().TickDuration())
	}

	return m, nil
}

// View renders the replayed frame with playback status.
func (m ReplayModel) View() string {
	if m.quitting || m.goBack {
		return ""
	}

	sim := m.playback.Sim()
	m.hud.Draw(m.screen, sim.State().Speed)

	tick, total := m.playback.Progress()
	status := fmt.Sprintf("REPLAY %s  %d/%d  x%d", shortID(m.id), tick, total, replaySpeeds[m.speed])
	if m.paused {
		status += "  PAUSED"
	}
	m.screen.DrawText(1, m.screen.Height()-1, status, core.ColorCyan)

	if m.playback.Done() {
		verdict, color := "REPLAY MATCHES RECORDING", core.ColorBrightGreen
		if !m.playback.Report().Match() {
			verdict, color = "REPLAY DIVERGED", core.ColorBrightRed
		}
		m.screen.DrawTextCentered(m.screen.Height()/2+4, verdict, color)
	}

	return m.output.Render(m.screen)
}

// Report returns the comparison so far.
func (m ReplayModel) Report() journal.Report {
	return m.playback.Report()
}

// IsGoingBack returns true if user wants to leave the viewer.
func (m ReplayModel) IsGoingBack() bool {
	return m.goBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ReplayModel) IsQuitting() bool {
	return m.quitting
}

// RunReplay plays rec back in the current terminal.
func RunReplay(rec *journal.Recording, rt core.RuntimeConfig) error {
	model, err := NewReplayModel(rec, rt, nil)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
