package pomodoro

import (
	"errors"
	"time"

	"github.com/fakeyudi/focusforge/internal/kv"
	"github.com/fakeyudi/focusforge/internal/progress"
	"github.com/fakeyudi/focusforge/internal/schedule"
)

var monday = time.Date(2026, time.October, 19, 9, 0, 0, 0, time.Local)

type fakeDisplay struct {
	refreshes      int
	last           Snapshot
	focusRefreshes int
	lastFocus      int
	lockdown       bool
}

func (d *fakeDisplay) Refresh(s Snapshot) {
	d.refreshes++
	d.last = s
}

func (d *fakeDisplay) RefreshFocus(remaining int) {
	d.focusRefreshes++
	d.lastFocus = remaining
}

func (d *fakeDisplay) EnterLockdown() { d.lockdown = true }
func (d *fakeDisplay) ExitLockdown()  { d.lockdown = false }

type fakeSounds struct {
	complete int
	warning  int
}

func (s *fakeSounds) PlayComplete() { s.complete++ }
func (s *fakeSounds) PlayWarning()  { s.warning++ }

type counter struct{ n int }

func (c *counter) Celebrate() { c.n++ }

type fakeNotifier struct{ messages []string }

func (n *fakeNotifier) Notify(msg string) { n.messages = append(n.messages, msg) }

type fixedQuotes struct{ calls int }

func (q *fixedQuotes) Next() string {
	q.calls++
	return "Stay locked in."
}

// fakeFullscreen emits a change event on every transition, like a browser.
type fakeFullscreen struct {
	signals *Signals
	active  bool
	deny    bool
	enters  int
}

func (f *fakeFullscreen) Enter() error {
	f.enters++
	if f.deny {
		return errors.New("request denied")
	}
	if !f.active {
		f.active = true
		f.signals.EmitFullscreenChange()
	}
	return nil
}

func (f *fakeFullscreen) Exit() error {
	if f.active {
		f.active = false
		f.signals.EmitFullscreenChange()
	}
	return nil
}

func (f *fakeFullscreen) IsActive() bool { return f.active }

// userExit simulates the user leaving full-screen by other means.
func (f *fakeFullscreen) userExit() { f.Exit() }

type failingSaver struct{ calls int }

func (s *failingSaver) Save(progress.Record) error {
	s.calls++
	return errors.New("disk full")
}

type rig struct {
	sched      *schedule.Manual
	mem        *kv.Memory
	store      *progress.Store
	display    *fakeDisplay
	sounds     *fakeSounds
	celebrator *counter
	notifier   *fakeNotifier
	quotes     *fixedQuotes
	signals    *Signals
	fullscreen *fakeFullscreen
	session    *SessionClock
	focus      *DeepFocus
}

func newRig(rec progress.Record) *rig {
	return newRigAt(monday, rec)
}

func newRigAt(start time.Time, rec progress.Record) *rig {
	r := &rig{
		sched:      schedule.NewManual(start),
		mem:        kv.NewMemory(),
		display:    &fakeDisplay{},
		sounds:     &fakeSounds{},
		celebrator: &counter{},
		notifier:   &fakeNotifier{},
		quotes:     &fixedQuotes{},
		signals:    NewSignals(),
	}
	r.store = progress.NewStore(r.mem)
	r.fullscreen = &fakeFullscreen{signals: r.signals}
	host := Host{
		Display:    r.display,
		Sounds:     r.sounds,
		Celebrator: r.celebrator,
		Notifier:   r.notifier,
		Quotes:     r.quotes,
		Fullscreen: r.fullscreen,
		Events:     r.signals,
	}
	r.session = NewSessionClock(r.sched, r.store, rec, host)
	r.focus = NewDeepFocus(r.sched, r.session, host)
	return r
}

func (r *rig) advance(seconds int) {
	r.sched.Advance(time.Duration(seconds) * time.Second)
}
