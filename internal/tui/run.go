package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fakeyudi/focusforge/internal/progress"
	"github.com/fakeyudi/focusforge/internal/schedule"
)

// Run shows the timer until the user quits and returns the final record.
// Clock callbacks are posted onto the program's update loop, so the clocks
// never run concurrently with rendering or key handling.
func Run(opts Options) (progress.Record, error) {
	var p *tea.Program
	sched := schedule.NewDispatcher(func(fn func()) {
		p.Send(runMsg{fn: fn})
	})
	m := New(opts, sched)
	p = tea.NewProgram(m, tea.WithReportFocus())
	if _, err := p.Run(); err != nil {
		return m.Progress(), err
	}
	return m.Progress(), nil
}
