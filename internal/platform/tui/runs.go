package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/lane-runner/internal/journal"
	"github.com/vovakirdan/lane-runner/internal/storage"
)

const maxSessions = 100 // Max sessions to load

// RunsStore is what the runs browser needs from storage.
type RunsStore interface {
	journal.Source
	RecentSessions(limit int) ([]storage.Session, error)
	DeleteSession(id string) error
}

var _ RunsStore = (*storage.Store)(nil)

// RunsKeyMap defines the key bindings for the runs browser.
type RunsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Watch  key.Binding
	Verify key.Binding
	Delete key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RunsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Watch, k.Verify, k.Delete, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k RunsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Watch, k.Verify},
		{k.Delete, k.Back, k.Quit},
	}
}

// DefaultRunsKeyMap returns default key bindings.
func DefaultRunsKeyMap() RunsKeyMap {
	return RunsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Watch: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "watch"),
		),
		Verify: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "verify replay"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// RunsModel is the Bubble Tea model for browsing the run journal.
type RunsModel struct {
	store     RunsStore
	sessions  []storage.Session
	table     table.Model
	help      help.Model
	keys      RunsKeyMap
	width     int
	height    int
	status    string
	loadErr   error
	watch     string // Session to open in the replay viewer
	quitting  bool
	goingBack bool // True if user pressed back (not quit)
}

// NewRunsModel creates a new runs browser.
func NewRunsModel(store RunsStore, width, height int) RunsModel {
	h := help.New()
	h.ShowAll = false

	m := RunsModel{
		store:  store,
		keys:   DefaultRunsKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.loadSessions()
	return m
}

// createTable creates a new table sized to the window.
func (m *RunsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Run", Width: 10},
		{Title: "Player", Width: 10},
		{Title: "Runs", Width: 5},
		{Title: "Score", Width: 7},
		{Title: "Time", Width: 8},
		{Title: "Date", Width: 13},
	}

	// Give spare width to the player column
	used := 0
	for _, c := range columns {
		used += c.Width + 2
	}
	if spare := m.width - 6 - used; spare > 0 {
		columns[1].Width += min(spare, 14)
	}

	height := m.height - 9 // Leave room for title, status, help and borders
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadSessions reloads the session list from storage.
func (m *RunsModel) loadSessions() {
	m.sessions = nil
	m.loadErr = nil
	if m.store != nil {
		sessions, err := m.store.RecentSessions(maxSessions)
		if err != nil {
			m.loadErr = err
		} else {
			m.sessions = sessions
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with the loaded sessions.
func (m *RunsModel) updateTableRows() {
	rows := make([]table.Row, len(m.sessions))
	for i, s := range m.sessions {
		score := "-"
		if s.Finished() {
			score = fmt.Sprintf("%d", s.LastScore)
		}
		rows[i] = table.Row{
			shortID(s.ID),
			s.Player,
			fmt.Sprintf("%d", s.Runs),
			score,
			formatTicks(s.Ticks, s.TickRate),
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
}

// shortID trims a session ID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatTicks renders a tick count as m:ss of play.
func formatTicks(ticks int64, rate int) string {
	if rate <= 0 {
		rate = 60
	}
	secs := ticks / int64(rate)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// selectedSession returns the session under the cursor.
func (m RunsModel) selectedSession() (storage.Session, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.sessions) {
		return storage.Session{}, false
	}
	return m.sessions[i], true
}

// Init initializes the runs model.
func (m RunsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the runs browser.
func (m RunsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Watch):
			if s, ok := m.selectedSession(); ok {
				m.watch = s.ID
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.Verify):
			m.verifySelected()
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			m.deleteSelected()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		cursor := m.table.Cursor()
		m.table = m.createTable()
		m.updateTableRows()
		m.table.SetCursor(cursor)
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table for scrolling
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// verifySelected replays the selected session headlessly.
func (m *RunsModel) verifySelected() {
	s, ok := m.selectedSession()
	if !ok {
		return
	}
	report, err := journal.ReplaySession(m.store, s.ID)
	switch {
	case err != nil:
		m.status = fmt.Sprintf("replay failed: %v", err)
	case report.Match():
		m.status = fmt.Sprintf("%s: replay matches (%d runs, score %d)", shortID(s.ID), report.Runs, report.Score)
	default:
		m.status = fmt.Sprintf("%s: replay diverged (recorded %d run ends, replayed %d)",
			shortID(s.ID), len(report.Recorded), len(report.Replayed))
	}
}

// deleteSelected removes the selected session.
func (m *RunsModel) deleteSelected() {
	s, ok := m.selectedSession()
	if !ok {
		return
	}
	if err := m.store.DeleteSession(s.ID); err != nil {
		m.status = fmt.Sprintf("delete failed: %v", err)
		return
	}
	cursor := m.table.Cursor()
	m.loadSessions()
	if cursor >= len(m.sessions) {
		cursor = len(m.sessions) - 1
	}
	m.table.SetCursor(max(cursor, 0))
	m.status = fmt.Sprintf("%s deleted", shortID(s.ID))
}

// View renders the runs browser.
func (m RunsModel) View() string {
	if m.quitting || m.goingBack || m.watch != "" {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)
	b.WriteString(titleStyle.Render(centerText("RECENT RUNS", m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Render(m.status))
	}
	b.WriteString("\n")

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or an empty message.
func (m RunsModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.store == nil:
		return emptyStyle.Render("Run journal unavailable.")
	case m.loadErr != nil:
		return emptyStyle.Render(fmt.Sprintf("Could not load runs:\n%v", m.loadErr))
	case len(m.sessions) == 0:
		return emptyStyle.Render("No runs recorded yet.\nPlay a game to fill the journal!")
	}
	return m.table.View()
}

// Status returns the last status line.
func (m RunsModel) Status() string {
	return m.status
}

// Sessions returns the loaded sessions.
func (m RunsModel) Sessions() []storage.Session {
	return m.sessions
}

// WatchID returns the session the user asked to watch, if any.
func (m RunsModel) WatchID() string {
	return m.watch
}

// IsGoingBack returns true if user wants to go back to menu.
func (m RunsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m RunsModel) IsQuitting() bool {
	return m.quitting
}
