package tui

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lane-runner/internal/core"
	"github.com/vovakirdan/lane-runner/internal/games/runner"
)

// HUD shows the score and the start and game over screens. It learns about
// the game through the notifier callbacks.
type HUD struct {
	score   int
	started bool
	over    bool
	runs    int
}

// NewHUD creates a HUD showing the start screen.
func NewHUD() *HUD {
	return &HUD{}
}

// OnScoreChanged updates the score label.
func (h *HUD) OnScoreChanged(score int) {
	h.score = score
}

// OnGameOver switches to the game over screen.
func (h *HUD) OnGameOver() {
	h.over = true
	h.started = false
}

// OnGameStarted hides the start and game over screens.
func (h *HUD) OnGameStarted() {
	h.started = true
	h.over = false
	h.runs++
}

// Score returns the score shown.
func (h *HUD) Score() int {
	return h.score
}

// Draw overlays the HUD onto a rendered frame.
func (h *HUD) Draw(s *core.Screen, speed float64) {
	s.DrawText(1, 0, fmt.Sprintf("SCORE %d", h.score), core.ColorBrightWhite)
	label := fmt.Sprintf("SPEED %.3f", speed)
	s.DrawText(s.Width()-len(label)-1, 0, label, core.ColorWhite)

	mid := s.Height() / 2
	switch {
	case h.over:
		drawPanel(s, mid-2, 28, 6)
		s.DrawTextCentered(mid-1, "GAME OVER", core.ColorBrightRed)
		s.DrawTextCentered(mid, fmt.Sprintf("SCORE %d", h.score), core.ColorBrightWhite)
		s.DrawTextCentered(mid+2, "PRESS SPACE TO RESTART", core.ColorYellow)
	case !h.started:
		drawPanel(s, mid-2, 36, 6)
		s.DrawTextCentered(mid-1, "L A N E   R U N N E R", core.ColorBrightCyan)
		s.DrawTextCentered(mid+1, "PRESS SPACE TO START", core.ColorYellow)
		s.DrawTextCentered(mid+2, "←/→ change lane   ↑/space jump", core.ColorGray)
	}
}

// drawPanel clears a framed area centered horizontally, so overlay text
// stays readable over the scene.
func drawPanel(s *core.Screen, top, w, h int) {
	w = min(w, s.Width())
	r := core.NewRect((s.Width()-w)/2, top, w, h)
	s.DrawRect(r, ' ', core.ColorDefault)
	s.DrawBox(r, core.ColorGray)
}

var _ runner.Notifier = (*HUD)(nil)

// LogNotifier writes run lifecycle events to a structured logger.
type LogNotifier struct {
	logger *log.Logger
	player string
	score  int
}

// NewLogNotifier creates a notifier logging on behalf of player.
func NewLogNotifier(logger *log.Logger, player string) *LogNotifier {
	return &LogNotifier{logger: logger, player: player}
}

// OnScoreChanged remembers the score for the game over entry.
func (n *LogNotifier) OnScoreChanged(score int) {
	n.score = score
	n.logger.Debug("score", "player", n.player, "score", score)
}

// OnGameOver logs the end of a run.
func (n *LogNotifier) OnGameOver() {
	n.logger.Info("run over", "player", n.player, "score", n.score)
}

// OnGameStarted logs the start of a run.
func (n *LogNotifier) OnGameStarted() {
	n.logger.Info("run started", "player", n.player)
}
