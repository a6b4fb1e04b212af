package runner

// Notifier receives fire-and-forget UI notifications from the game state
// controller. Implementations must not call back into the simulation.
type Notifier interface {
	OnScoreChanged(score int)
	OnGameOver()
	OnGameStarted()
}

// NotifierFuncs adapts plain functions to Notifier. Nil fields are skipped.
type NotifierFuncs struct {
	ScoreChanged func(score int)
	GameOver     func()
	GameStarted  func()
}

func (n NotifierFuncs) OnScoreChanged(score int) {
	if n.ScoreChanged != nil {
		n.ScoreChanged(score)
	}
}

func (n NotifierFuncs) OnGameOver() {
	if n.GameOver != nil {
		n.GameOver()
	}
}

func (n NotifierFuncs) OnGameStarted() {
	if n.GameStarted != nil {
		n.GameStarted()
	}
}

// MultiNotifier fans a notification out to several notifiers in order.
type MultiNotifier []Notifier

func (m MultiNotifier) OnScoreChanged(score int) {
	for _, n := range m {
		n.OnScoreChanged(score)
	}
}

func (m MultiNotifier) OnGameOver() {
	for _, n := range m {
		n.OnGameOver()
	}
}

func (m MultiNotifier) OnGameStarted() {
	for _, n := range m {
		n.OnGameStarted()
	}
}

type nopNotifier struct{}

func (nopNotifier) OnScoreChanged(int) {}
func (nopNotifier) OnGameOver()        {}
func (nopNotifier) OnGameStarted()     {}
