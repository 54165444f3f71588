package pomodoro

import (
	"time"

	"github.com/fakeyudi/focusforge/internal/logging"
	"github.com/fakeyudi/focusforge/internal/schedule"
)

// DefaultFocusMinutes is the deep focus length offered by the UI.
const DefaultFocusMinutes = 50

// FullscreenRetryDelay is how long after an exit the clock tries to re-enter
// full-screen.
const FullscreenRetryDelay = 50 * time.Millisecond

// CompleteMessage is the notification shown when deep focus ends.
const CompleteMessage = "Deep Focus Complete 🔥"

// DeepFocusState is the deep focus clock state.
type DeepFocusState struct {
	Active           bool
	RemainingSeconds int
}

// DeepFocus is a lockdown countdown. While active it holds the session clock,
// keeps the host in full-screen, and warns when the host is hidden. It ends
// only by running out.
type DeepFocus struct {
	state       DeepFocusState
	session     *SessionClock
	sched       schedule.Scheduler
	host        Host
	task        schedule.Task
	unsubscribe []func()
}

// NewDeepFocus returns an inactive clock and subscribes it to host events.
// Call Close to unsubscribe.
func NewDeepFocus(sched schedule.Scheduler, session *SessionClock, host Host) *DeepFocus {
	f := &DeepFocus{
		session: session,
		sched:   sched,
		host:    host.withDefaults(),
	}
	f.unsubscribe = append(f.unsubscribe,
		f.host.Events.OnVisibilityChange(f.handleVisibility),
		f.host.Events.OnFullscreenChange(f.handleFullscreenChange),
	)
	return f
}

// State returns a copy of the deep focus state.
func (f *DeepFocus) State() DeepFocusState { return f.state }

// Active reports whether a deep focus countdown is running.
func (f *DeepFocus) Active() bool { return f.state.Active }

// BlocksUnload reports whether the host should refuse to close.
func (f *DeepFocus) BlocksUnload() bool { return f.state.Active }

// Start begins a countdown of minutes. It is a no-op when already active or
// when minutes is not positive or exceeds MaxMinutes.
func (f *DeepFocus) Start(minutes int) {
	if f.state.Active || !validMinutes(minutes) {
		return
	}
	f.session.suspend()
	f.state.Active = true
	f.state.RemainingSeconds = minutes * 60
	f.host.Display.EnterLockdown()
	f.enterFullscreen()
	f.host.Display.RefreshFocus(f.state.RemainingSeconds)
	f.task = f.sched.Every(tickInterval, f.tick)
	logging.Logger.Info("deep focus started", "minutes", minutes)
}

// StartInput is Start for raw text input, read the way ApplyDurationInput
// reads it.
func (f *DeepFocus) StartInput(text string) {
	if m, ok := parseMinutes(text); ok {
		f.Start(m)
	}
}

// Close tears the clock down when the host goes away: it stops the countdown
// without completing it and removes the event subscriptions.
func (f *DeepFocus) Close() {
	if f.task != nil {
		f.task.Stop()
		f.task = nil
	}
	for _, unsub := range f.unsubscribe {
		unsub()
	}
	f.unsubscribe = nil
}

func (f *DeepFocus) tick() {
	if f.state.RemainingSeconds > 0 {
		f.state.RemainingSeconds--
		f.host.Display.RefreshFocus(f.state.RemainingSeconds)
		if f.state.RemainingSeconds > 0 {
			return
		}
	}
	f.complete()
}

func (f *DeepFocus) complete() {
	if f.task != nil {
		f.task.Stop()
		f.task = nil
	}
	f.state.Active = false
	f.host.Display.ExitLockdown()
	if f.host.Fullscreen.IsActive() {
		if err := f.host.Fullscreen.Exit(); err != nil {
			logging.Logger.Debug("leaving full-screen failed", "error", err)
		}
	}
	f.session.resume()
	f.host.Sounds.PlayComplete()
	f.host.Notifier.Notify(CompleteMessage)
	logging.Logger.Info("deep focus complete")
}

func (f *DeepFocus) enterFullscreen() {
	if !f.state.Active || f.host.Fullscreen.IsActive() {
		return
	}
	if err := f.host.Fullscreen.Enter(); err != nil {
		logging.Logger.Debug("full-screen request denied", "error", err)
	}
}

func (f *DeepFocus) handleFullscreenChange() {
	if !f.state.Active || f.host.Fullscreen.IsActive() {
		return
	}
	f.sched.After(FullscreenRetryDelay, func() {
		if f.state.Active {
			f.enterFullscreen()
		}
	})
}

func (f *DeepFocus) handleVisibility(hidden bool) {
	if f.state.Active && hidden {
		f.host.Sounds.PlayWarning()
	}
}
