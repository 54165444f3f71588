package pomodoro

// Snapshot is what the main display renders.
type Snapshot struct {
	Phase            string
	RemainingSeconds int
	Streak           int
	XP               int
}

// Display renders clock state. Refresh is the session view; RefreshFocus is
// the minimal deep focus view showing only the time left.
type Display interface {
	Refresh(Snapshot)
	RefreshFocus(remainingSeconds int)
	// EnterLockdown and ExitLockdown switch the restrictive deep focus layout.
	EnterLockdown()
	ExitLockdown()
}

// SoundPlayer plays fire-and-forget cues.
type SoundPlayer interface {
	PlayComplete()
	PlayWarning()
}

// Celebrator fires the streak celebration.
type Celebrator interface {
	Celebrate()
}

// Notifier shows a message the user must acknowledge.
type Notifier interface {
	Notify(message string)
}

// QuoteSource returns a motivational line for each started session.
type QuoteSource interface {
	Next() string
}

// Fullscreen controls the host's full-screen presentation.
type Fullscreen interface {
	Enter() error
	Exit() error
	IsActive() bool
}

// Events is the host's change-notification source. Each Subscribe call
// returns a function that removes the handler.
type Events interface {
	OnVisibilityChange(func(hidden bool)) (unsubscribe func())
	OnFullscreenChange(func()) (unsubscribe func())
}

// Host bundles every collaborator. Nil members are replaced by no-ops.
type Host struct {
	Display    Display
	Sounds     SoundPlayer
	Celebrator Celebrator
	Notifier   Notifier
	Quotes     QuoteSource
	Fullscreen Fullscreen
	Events     Events
}

func (h Host) withDefaults() Host {
	if h.Display == nil {
		h.Display = nopDisplay{}
	}
	if h.Sounds == nil {
		h.Sounds = nopSounds{}
	}
	if h.Celebrator == nil {
		h.Celebrator = nopCelebrator{}
	}
	if h.Notifier == nil {
		h.Notifier = nopNotifier{}
	}
	if h.Quotes == nil {
		h.Quotes = NewQuotes(nil)
	}
	if h.Fullscreen == nil {
		h.Fullscreen = nopFullscreen{}
	}
	if h.Events == nil {
		h.Events = NewSignals()
	}
	return h
}

type nopDisplay struct{}

func (nopDisplay) Refresh(Snapshot) {}
func (nopDisplay) RefreshFocus(int) {}
func (nopDisplay) EnterLockdown() {}
func (nopDisplay) ExitLockdown() {}

type nopSounds struct{}

func (nopSounds) PlayComplete() {}
func (nopSounds) PlayWarning() {}

type nopCelebrator struct{}

func (nopCelebrator) Celebrate() {}

type nopNotifier struct{}

func (nopNotifier) Notify(string) {}

type nopFullscreen struct{}

func (nopFullscreen) Enter() error { return nil }
func (nopFullscreen) Exit() error { return nil }
func (nopFullscreen) IsActive() bool { return false }

// Signals is an in-process Events implementation. Hosts call the Emit
// methods; it is not safe for concurrent use.
type Signals struct {
	next       int
	visibility map[int]func(bool)
	fullscreen map[int]func()
}

// NewSignals returns an empty Signals.
func NewSignals() *Signals {
	return &Signals{
		visibility: map[int]func(bool){},
		fullscreen: map[int]func(){},
	}
}

func (s *Signals) OnVisibilityChange(fn func(hidden bool)) func() {
	s.next++
	id := s.next
	s.visibility[id] = fn
	return func() { delete(s.visibility, id) }
}

func (s *Signals) OnFullscreenChange(fn func()) func() {
	s.next++
	id := s.next
	s.fullscreen[id] = fn
	return func() { delete(s.fullscreen, id) }
}

// EmitVisibility notifies visibility subscribers.
func (s *Signals) EmitVisibility(hidden bool) {
	for _, fn := range s.visibility {
		fn(hidden)
	}
}

// EmitFullscreenChange notifies full-screen subscribers.
func (s *Signals) EmitFullscreenChange() {
	for _, fn := range s.fullscreen {
		fn()
	}
}
