package schedule

import (
	"sort"
	"time"
)

// Manual is a virtual-time Scheduler. Nothing fires until Advance is called.
type Manual struct {
	now   time.Time
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	seq      int
	due      time.Time
	interval time.Duration // zero for one-shot tasks
	fn       func()
	stopped  bool
}

func (t *manualTask) Stop() { t.stopped = true }

// NewManual returns a Manual scheduler whose clock starts at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the virtual time.
func (m *Manual) Now() time.Time { return m.now }

// Every schedules fn every interval starting one interval from now.
func (m *Manual) Every(interval time.Duration, fn func()) Task {
	return m.add(interval, interval, fn)
}

// After schedules fn once, delay from now.
func (m *Manual) After(delay time.Duration, fn func()) Task {
	return m.add(delay, 0, fn)
}

func (m *Manual) add(delay, interval time.Duration, fn func()) *manualTask {
	m.seq++
	t := &manualTask{seq: m.seq, due: m.now.Add(delay), interval: interval, fn: fn}
	m.tasks = append(m.tasks, t)
	return t
}

// Advance moves the clock forward by d, running every callback that falls due
// in time order. Callbacks may schedule or stop other tasks.
func (m *Manual) Advance(d time.Duration) {
	target := m.now.Add(d)
	for {
		next := m.nextDue(target)
		if next == nil {
			break
		}
		m.now = next.due
		if next.interval > 0 {
			next.due = next.due.Add(next.interval)
		} else {
			next.stopped = true
		}
		next.fn()
	}
	m.now = target
}

// Pending reports how many live tasks remain.
func (m *Manual) Pending() int {
	m.compact()
	return len(m.tasks)
}

func (m *Manual) nextDue(target time.Time) *manualTask {
	m.compact()
	if len(m.tasks) == 0 {
		return nil
	}
	sort.SliceStable(m.tasks, func(i, j int) bool {
		if m.tasks[i].due.Equal(m.tasks[j].due) {
			return m.tasks[i].seq < m.tasks[j].seq
		}
		return m.tasks[i].due.Before(m.tasks[j].due)
	})
	if m.tasks[0].due.After(target) {
		return nil
	}
	return m.tasks[0]
}

func (m *Manual) compact() {
	live := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.stopped {
			live = append(live, t)
		}
	}
	m.tasks = live
}
