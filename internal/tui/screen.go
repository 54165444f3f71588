package tui

import (
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fakeyudi/focusforge/internal/logging"
	"github.com/fakeyudi/focusforge/internal/pomodoro"
	"github.com/fakeyudi/focusforge/internal/schedule"
)

// celebrationTime is how long the streak banner stays up.
const celebrationTime = 4 * time.Second

// screen is the terminal side of the clocks. It records what the clocks ask
// for and queues the Bubble Tea commands that carry it out; Model drains the
// queue after every update.
type screen struct {
	snapshot    pomodoro.Snapshot
	focusLeft   int
	lockdown    bool
	altScreen   bool
	celebrating bool
	notice      string

	signals *pomodoro.Signals
	sched   schedule.Scheduler
	pending []tea.Cmd
}

func newScreen(sched schedule.Scheduler, signals *pomodoro.Signals) *screen {
	return &screen{sched: sched, signals: signals}
}

// ── pomodoro.Display ──────────────

func (s *screen) Refresh(snap pomodoro.Snapshot) { s.snapshot = snap }

func (s *screen) RefreshFocus(remaining int) { s.focusLeft = remaining }

func (s *screen) EnterLockdown() { s.lockdown = true }

func (s *screen) ExitLockdown() { s.lockdown = false }

// ── pomodoro.Celebrator ───────────

func (s *screen) Celebrate() {
	s.celebrating = true
	s.sched.After(celebrationTime, func() { s.celebrating = false })
}

// ── pomodoro.Notifier ─────────────

// Notify raises a modal. Keys other than enter are ignored until it is
// dismissed.
func (s *screen) Notify(message string) { s.notice = message }

// ── pomodoro.Fullscreen ───────────
// The alternate screen stands in for full-screen.

func (s *screen) Enter() error {
	if s.altScreen {
		return nil
	}
	s.altScreen = true
	s.pending = append(s.pending, tea.EnterAltScreen)
	s.signals.EmitFullscreenChange()
	return nil
}

func (s *screen) Exit() error {
	if !s.altScreen {
		return nil
	}
	s.altScreen = false
	s.pending = append(s.pending, tea.ExitAltScreen)
	s.signals.EmitFullscreenChange()
	return nil
}

func (s *screen) IsActive() bool { return s.altScreen }

// drain returns the queued screen commands in order.
func (s *screen) drain() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Sequence(cmds...)
}

// bell rings the terminal bell for sound cues. A warning rings twice.
type bell struct {
	w       io.Writer
	enabled bool
}

func (b bell) PlayComplete() { b.ring("\a") }

func (b bell) PlayWarning() { b.ring("\a\a") }

func (b bell) ring(seq string) {
	if !b.enabled || b.w == nil {
		return
	}
	if _, err := io.WriteString(b.w, seq); err != nil {
		logging.Logger.Debug("bell write failed", "error", err)
	}
}
