// Package tui is the terminal front end for the focusforge clocks.
package tui

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fakeyudi/focusforge/internal/pomodoro"
	ffprogress "github.com/fakeyudi/focusforge/internal/progress"
	"github.com/fakeyudi/focusforge/internal/schedule"
)

// unloadWarningTime is how long a refused quit keeps the warning up. A second
// quit inside the window leaves anyway.
const unloadWarningTime = 3 * time.Second

// Options configures a Model.
type Options struct {
	Name         string
	Record       ffprogress.Record
	Saver        pomodoro.RecordSaver
	StudyMinutes int
	BreakMinutes int
	// FocusMinutes prefills the deep focus prompt.
	FocusMinutes int
	// AutoFocus starts deep focus for FocusMinutes as soon as the program runs.
	AutoFocus bool
	AutoStart bool
	Quotes    []string
	Bell      bool
	BellOut   io.Writer
}

var errDigitsOnly = errors.New("digits only")

type inputMode int

const (
	modeNormal inputMode = iota
	modeDurations
	modeFocusPrompt
)

// runMsg carries a scheduled callback onto the Bubble Tea loop.
type runMsg struct{ fn func() }

// ── Model ────────────────────

// Model is the root Bubble Tea model. It owns both clocks; every clock
// callback runs inside Update.
type Model struct {
	opts    Options
	sched   schedule.Scheduler
	screen  *screen
	signals *pomodoro.Signals
	session *pomodoro.SessionClock
	focus   *pomodoro.DeepFocus

	keys keyMap
	help help.Model
	bar  progress.Model

	mode       inputMode
	studyInput textinput.Model
	breakInput textinput.Model
	focusInput textinput.Model

	unloadWarning bool
	unloadTask    schedule.Task

	width  int
	height int
}

// New wires both clocks to a terminal screen driven by sched.
func New(opts Options, sched schedule.Scheduler) *Model {
	signals := pomodoro.NewSignals()
	scr := newScreen(sched, signals)
	host := pomodoro.Host{
		Display:    scr,
		Sounds:     bell{w: opts.BellOut, enabled: opts.Bell},
		Celebrator: scr,
		Notifier:   scr,
		Quotes:     pomodoro.NewQuotes(opts.Quotes),
		Fullscreen: scr,
		Events:     signals,
	}
	session := pomodoro.NewSessionClock(sched, opts.Saver, opts.Record, host)
	if opts.StudyMinutes > 0 && opts.BreakMinutes > 0 {
		session.ApplyDurations(opts.StudyMinutes, opts.BreakMinutes)
	}
	if opts.FocusMinutes <= 0 {
		opts.FocusMinutes = pomodoro.DefaultFocusMinutes
	}

	m := &Model{
		opts:       opts,
		sched:      sched,
		screen:     scr,
		signals:    signals,
		session:    session,
		focus:      pomodoro.NewDeepFocus(sched, session, host),
		keys:       defaultKeys(),
		help:       help.New(),
		bar:        progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		studyInput: newMinutesInput("Study minutes: "),
		breakInput: newMinutesInput("Break minutes: "),
		focusInput: newMinutesInput("Deep focus minutes: "),
		width:      80,
		height:     24,
	}
	scr.snapshot = session.Snapshot()
	return m
}

func newMinutesInput(prompt string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.CharLimit = 4
	ti.Validate = func(s string) error {
		if strings.Trim(s, "0123456789") != "" {
			return errDigitsOnly
		}
		return nil
	}
	return ti
}

// ── Bubble Tea interface ───────────────

func (m *Model) Init() tea.Cmd {
	switch {
	case m.opts.AutoFocus:
		m.focus.Start(m.opts.FocusMinutes)
	case m.opts.AutoStart:
		m.session.Start()
	}
	return m.screen.drain()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case runMsg:
		msg.fn()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.bar.Width = min(max(msg.Width-8, 10), 60)
	case tea.BlurMsg:
		m.signals.EmitVisibility(true)
	case tea.FocusMsg:
		m.signals.EmitVisibility(false)
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	}
	return m, tea.Batch(cmd, m.screen.drain())
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	// The modal blocks everything until acknowledged.
	if m.screen.notice != "" {
		if key.Matches(msg, m.keys.Confirm) {
			m.screen.notice = ""
		}
		return nil
	}
	if m.focus.Active() {
		return m.handleLockdownKey(msg)
	}

	switch m.mode {
	case modeDurations:
		return m.updateDurations(msg)
	case modeFocusPrompt:
		return m.updateFocusPrompt(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Toggle):
		if m.session.State().IsRunning {
			m.session.Pause()
		} else {
			m.session.Start()
		}
	case key.Matches(msg, m.keys.Reset):
		m.session.Reset()
	case key.Matches(msg, m.keys.Durations):
		st := m.session.State()
		m.studyInput.SetValue(strconv.Itoa(st.StudyDurationSeconds / 60))
		m.breakInput.SetValue(strconv.Itoa(st.BreakDurationSeconds / 60))
		m.breakInput.Blur()
		m.mode = modeDurations
		return m.studyInput.Focus()
	case key.Matches(msg, m.keys.DeepFocus):
		m.focusInput.SetValue(strconv.Itoa(m.opts.FocusMinutes))
		m.mode = modeFocusPrompt
		return m.focusInput.Focus()
	case key.Matches(msg, m.keys.Fullscreen):
		m.toggleFullscreen()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

// handleLockdownKey allows only leaving full-screen (which deep focus undoes)
// and a guarded quit.
func (m *Model) handleLockdownKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.focus.BlocksUnload() && !m.unloadWarning {
			m.warnUnload()
			return nil
		}
		return m.quit()
	case key.Matches(msg, m.keys.Fullscreen):
		m.toggleFullscreen()
	}
	return nil
}

func (m *Model) warnUnload() {
	m.unloadWarning = true
	m.unloadTask = m.sched.After(unloadWarningTime, func() {
		m.unloadWarning = false
		m.unloadTask = nil
	})
}

func (m *Model) toggleFullscreen() {
	if m.screen.IsActive() {
		m.screen.Exit()
	} else {
		m.screen.Enter()
	}
}

func (m *Model) updateDurations(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeInputs()
		return nil
	case key.Matches(msg, m.keys.Confirm):
		m.session.ApplyDurationInput(m.studyInput.Value(), m.breakInput.Value())
		m.closeInputs()
		return nil
	case key.Matches(msg, m.keys.Next):
		if m.studyInput.Focused() {
			m.studyInput.Blur()
			return m.breakInput.Focus()
		}
		m.breakInput.Blur()
		return m.studyInput.Focus()
	}
	var cmd tea.Cmd
	if m.studyInput.Focused() {
		m.studyInput, cmd = m.studyInput.Update(msg)
	} else {
		m.breakInput, cmd = m.breakInput.Update(msg)
	}
	return cmd
}

func (m *Model) updateFocusPrompt(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeInputs()
		return nil
	case key.Matches(msg, m.keys.Confirm):
		text := m.focusInput.Value()
		m.closeInputs()
		m.focus.StartInput(text)
		return nil
	}
	var cmd tea.Cmd
	m.focusInput, cmd = m.focusInput.Update(msg)
	return cmd
}

func (m *Model) closeInputs() {
	m.studyInput.Blur()
	m.breakInput.Blur()
	m.focusInput.Blur()
	m.mode = modeNormal
}

// quit stops every scheduled task before the program exits.
func (m *Model) quit() tea.Cmd {
	m.session.Pause()
	m.focus.Close()
	if m.unloadTask != nil {
		m.unloadTask.Stop()
	}
	return tea.Quit
}

// Progress is the record as the session clock last saw it.
func (m *Model) Progress() ffprogress.Record { return m.session.Progress() }

// ── Views ─────────────────────────────────────────────────────────────────────

func (m *Model) View() string {
	switch {
	case m.screen.notice != "":
		return m.center(modalStyle.Render(m.screen.notice + "\n\n" + dimStyle.Render("press enter")))
	case m.screen.lockdown:
		return m.lockdownView()
	}
	return m.mainView()
}

func (m *Model) lockdownView() string {
	clock := lockdownClockStyle.Render(pomodoro.FormatClock(m.screen.focusLeft))
	parts := []string{clock}
	if m.unloadWarning {
		parts = append(parts, "", warningStyle.Render("You are in Deep Focus Mode! Press q again to leave anyway."))
	}
	return m.center(lipgloss.JoinVertical(lipgloss.Center, parts...))
}

func (m *Model) mainView() string {
	snap := m.screen.snapshot
	st := m.session.State()

	header := "  focusforge"
	if m.opts.Name != "" {
		header += "  " + m.opts.Name
	}
	title := titleStyle.Width(m.width).Render(header)

	phase := breakModeStyle.Render(snap.Phase)
	if st.IsStudyPhase {
		phase = studyModeStyle.Render(snap.Phase)
	}
	if !st.IsRunning {
		phase += dimStyle.Render("  (paused)")
	}

	total := st.StudyDurationSeconds
	if !st.IsStudyPhase {
		total = st.BreakDurationSeconds
	}
	elapsed := 0.0
	if total > 0 {
		elapsed = float64(total-snap.RemainingSeconds) / float64(total)
	}

	level := ffprogress.Record{ExperiencePoints: snap.XP}.Level()
	stats := fmt.Sprintf("%s %d   %s %d   %s %d",
		labelStyle.Render("Streak:"), snap.Streak,
		labelStyle.Render("XP:"), snap.XP,
		labelStyle.Render("Level:"), level)

	body := []string{
		phase,
		clockStyle.Render(pomodoro.FormatClock(snap.RemainingSeconds)),
		m.bar.ViewAs(elapsed),
		"",
	}
	if q := m.session.Quote(); q != "" {
		body = append(body, quoteStyle.Render("“"+q+"”"), "")
	}
	body = append(body, stats)
	if m.screen.celebrating {
		body = append(body, "", celebrationStyle.Render(fmt.Sprintf("🎉 %d-day streak! Keep it going! 🎉", snap.Streak)))
	}

	switch m.mode {
	case modeDurations:
		body = append(body, "", m.studyInput.View(), m.breakInput.View(),
			dimStyle.Render("enter apply  tab switch  esc cancel"))
	case modeFocusPrompt:
		body = append(body, "", m.focusInput.View(),
			dimStyle.Render("enter start  esc cancel  (deep focus cannot be cancelled)"))
	}

	content := lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, body...))

	status := fmt.Sprintf("study %dm · break %dm", st.StudyDurationSeconds/60, st.BreakDurationSeconds/60)
	if m.screen.IsActive() {
		status += " · full-screen"
	}
	statusBar := statusBarStyle.Width(m.width).Render(status)

	return lipgloss.JoinVertical(lipgloss.Left, title, content, m.help.View(m.keys), statusBar)
}

func (m *Model) center(s string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s)
}
