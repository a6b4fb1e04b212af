// Package tui provides the Bubble Tea integration for the runner.
// It drives the simulation from two independent timers (frames and the
// obstacle spawner), maps keys to actions and renders the scene.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a simulation tick.
type TickMsg struct {
	Gen  uint64
	Time time.Time
}

// SpawnMsg is sent when the spawner timer fires.
type SpawnMsg struct {
	Gen  uint64
	Time time.Time
}

// Every model that owns timers gets its own generation so that timers left
// over from a previous game are ignored instead of doubling the frame rate.
var generations atomic.Uint64

func nextGeneration() uint64 {
	return generations.Add(1)
}

// tickCmd returns a command that sends one tick message after interval.
func tickCmd(gen uint64, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Gen: gen, Time: t}
	})
}

// spawnCmd returns a command that sends one spawn message after interval.
func spawnCmd(gen uint64, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return SpawnMsg{Gen: gen, Time: t}
	})
}
