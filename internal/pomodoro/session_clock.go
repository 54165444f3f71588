// Package pomodoro implements the study/break session clock and the deep
// focus lockdown clock. Both are driven by a schedule.Scheduler and talk to
// the outside world only through the Host collaborators.
package pomodoro

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/fakeyudi/focusforge/internal/logging"
	"github.com/fakeyudi/focusforge/internal/progress"
	"github.com/fakeyudi/focusforge/internal/schedule"
)

// Default phase lengths in minutes.
const (
	DefaultStudyMinutes = 25
	DefaultBreakMinutes = 5
)

// MaxMinutes is the longest phase or deep focus length accepted; anything
// longer would overflow a seconds count.
const MaxMinutes = math.MaxInt / 60

const tickInterval = time.Second

func validMinutes(n int) bool { return n > 0 && n <= MaxMinutes }

// Phase labels shown by the display.
const (
	StudyLabel = "Study Time"
	BreakLabel = "Break Time"
)

// TimerState is the session clock state.
type TimerState struct {
	StudyDurationSeconds int
	BreakDurationSeconds int
	RemainingSeconds     int
	IsStudyPhase         bool
	IsRunning            bool
}

// PhaseLabel is StudyLabel or BreakLabel.
func (s TimerState) PhaseLabel() string {
	if s.IsStudyPhase {
		return StudyLabel
	}
	return BreakLabel
}

// RecordSaver persists a progress record.
type RecordSaver interface {
	Save(progress.Record) error
}

// SessionClock alternates study and break phases and credits the daily streak
// when a study phase completes.
type SessionClock struct {
	state  TimerState
	record progress.Record
	saver  RecordSaver
	sched  schedule.Scheduler
	host   Host
	task   schedule.Task
	// suspended is held by deep focus; Start is refused while set.
	suspended bool
	quote     string
}

// NewSessionClock returns a paused clock at the start of a default-length
// study phase. rec is the record loaded (and streak-evaluated) at startup.
func NewSessionClock(sched schedule.Scheduler, saver RecordSaver, rec progress.Record, host Host) *SessionClock {
	return &SessionClock{
		state: TimerState{
			StudyDurationSeconds: DefaultStudyMinutes * 60,
			BreakDurationSeconds: DefaultBreakMinutes * 60,
			RemainingSeconds:     DefaultStudyMinutes * 60,
			IsStudyPhase:         true,
		},
		record: rec,
		saver:  saver,
		sched:  sched,
		host:   host.withDefaults(),
	}
}

// State returns a copy of the timer state.
func (c *SessionClock) State() TimerState { return c.state }

// Progress returns a copy of the progress record.
func (c *SessionClock) Progress() progress.Record { return c.record }

// Quote is the quote chosen by the last Start.
func (c *SessionClock) Quote() string { return c.quote }

// Snapshot is the data handed to Display.Refresh.
func (c *SessionClock) Snapshot() Snapshot {
	return Snapshot{
		Phase:            c.state.PhaseLabel(),
		RemainingSeconds: c.state.RemainingSeconds,
		Streak:           c.record.StreakCount,
		XP:               c.record.ExperiencePoints,
	}
}

// Start begins ticking. It is a no-op while running or while deep focus holds
// the clock.
func (c *SessionClock) Start() {
	if c.state.IsRunning || c.suspended {
		return
	}
	c.state.IsRunning = true
	c.quote = c.host.Quotes.Next()
	c.task = c.sched.Every(tickInterval, c.tick)
	logging.Logger.Debug("session clock started", "phase", c.state.PhaseLabel(), "remaining", c.state.RemainingSeconds)
}

// Pause stops ticking. Idempotent.
func (c *SessionClock) Pause() {
	c.stopTask()
	c.state.IsRunning = false
}

// Reset stops ticking and rewinds to the start of a study phase. Idempotent.
func (c *SessionClock) Reset() {
	c.stopTask()
	c.state.IsRunning = false
	c.state.IsStudyPhase = true
	c.state.RemainingSeconds = c.state.StudyDurationSeconds
	c.refresh()
}

// ApplyDurations sets new phase lengths in minutes and rewinds to the start
// of a study phase. Values that are not positive or exceed MaxMinutes are
// ignored without changing state.
func (c *SessionClock) ApplyDurations(studyMinutes, breakMinutes int) {
	if !validMinutes(studyMinutes) || !validMinutes(breakMinutes) {
		return
	}
	c.state.StudyDurationSeconds = studyMinutes * 60
	c.state.BreakDurationSeconds = breakMinutes * 60
	c.state.RemainingSeconds = c.state.StudyDurationSeconds
	c.state.IsStudyPhase = true
	c.refresh()
}

// ApplyDurationInput is ApplyDurations for raw text input. Text without a
// leading number is ignored.
func (c *SessionClock) ApplyDurationInput(study, brk string) {
	s, ok := parseMinutes(study)
	if !ok {
		return
	}
	b, ok := parseMinutes(brk)
	if !ok {
		return
	}
	c.ApplyDurations(s, b)
}

// parseMinutes reads the leading integer of text, skipping surrounding space
// and dropping whatever follows the digits, so "25.5" and "12abc" read as 25
// and 12. Text with no leading digits is rejected.
func parseMinutes(text string) (int, bool) {
	s := strings.TrimSpace(text)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c *SessionClock) tick() {
	if c.state.RemainingSeconds > 0 {
		c.state.RemainingSeconds--
		c.refresh()
		if c.state.RemainingSeconds > 0 {
			return
		}
	}
	c.completePhase()
}

func (c *SessionClock) completePhase() {
	if c.state.IsStudyPhase {
		c.creditStudy()
		c.host.Sounds.PlayComplete()
	}
	c.state.IsStudyPhase = !c.state.IsStudyPhase
	if c.state.IsStudyPhase {
		c.state.RemainingSeconds = c.state.StudyDurationSeconds
	} else {
		c.state.RemainingSeconds = c.state.BreakDurationSeconds
	}
	c.refresh()
}

// creditStudy applies the daily credit; the second completion of a day only
// plays the sound.
func (c *SessionClock) creditStudy() {
	now := c.sched.Now()
	if !c.record.Credit(now) {
		logging.Logger.Debug("study phase already credited today", "date", progress.DateString(now))
		return
	}
	if err := c.saver.Save(c.record); err != nil {
		logging.Logger.Error("failed to persist progress", "error", err)
	}
	logging.Logger.Info("study phase credited", "streak", c.record.StreakCount, "xp", c.record.ExperiencePoints)
	if c.record.StreakCount == progress.CelebrationStreak {
		c.host.Celebrator.Celebrate()
	}
}

func (c *SessionClock) refresh() {
	c.host.Display.Refresh(c.Snapshot())
}

func (c *SessionClock) stopTask() {
	if c.task != nil {
		c.task.Stop()
		c.task = nil
	}
}

// suspend pauses the clock and refuses Start until resume.
func (c *SessionClock) suspend() {
	c.Pause()
	c.suspended = true
}

func (c *SessionClock) resume() {
	c.suspended = false
}
