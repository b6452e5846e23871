package nest

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	countdownTicks    = 50
	countdownInterval = time.Second
)

// tickMsg is one step of a countdown run.
type tickMsg struct {
	run int
}

// countdown is a cancellable ticker. Each start begins a new run; ticks
// from earlier or stopped runs are ignored.
type countdown struct {
	run       int
	remaining int
	running   bool
	interval  time.Duration
}

func newCountdown(interval time.Duration) countdown {
	return countdown{interval: interval}
}

func (c *countdown) start() tea.Cmd {
	c.run++
	c.remaining = countdownTicks
	c.running = true
	return c.tick()
}

func (c *countdown) stop() {
	c.run++
	c.running = false
	c.remaining = 0
}

func (c countdown) tick() tea.Cmd {
	run := c.run
	return tea.Tick(c.interval, func(time.Time) tea.Msg {
		return tickMsg{run: run}
	})
}

// advance handles a tick. It reports whether the tick belonged to the
// current run and whether that run just reached zero.
func (c *countdown) advance(msg tickMsg) (current, expired bool) {
	if !c.running || msg.run != c.run {
		return false, false
	}
	c.remaining--
	if c.remaining <= 0 {
		c.running = false
		c.remaining = 0
		return true, true
	}
	return true, false
}
