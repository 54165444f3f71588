// Package schedule provides cancellable repeating and one-shot tasks.
//
// Callbacks never run concurrently with each other: the Manual scheduler runs
// them inline from Advance, and the Dispatcher hands them to a single owner
// goroutine through its Post function.
package schedule

import (
	"sync"
	"sync/atomic"
	"time"
)

// Task is a scheduled callback. Stop is idempotent.
type Task interface {
	Stop()
}

// Scheduler creates tasks and reports the current time.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Task
	After(delay time.Duration, fn func()) Task
	Now() time.Time
}

// Dispatcher runs timers on the Go runtime and posts each callback to Post,
// which must execute it on the owner goroutine (e.g. a Bubble Tea program).
type Dispatcher struct {
	Post func(func())
}

// NewDispatcher returns a Dispatcher that posts callbacks through post.
func NewDispatcher(post func(func())) *Dispatcher {
	return &Dispatcher{Post: post}
}

// dispatchTask is shared by repeating and one-shot tasks. stopped is only
// consulted on the owner goroutine, so a callback that was already in flight
// when Stop ran is dropped there.
type dispatchTask struct {
	stopped atomic.Bool
	once    sync.Once
	done    chan struct{}
	timer   *time.Timer
}

func (t *dispatchTask) Stop() {
	t.stopped.Store(true)
	t.once.Do(func() {
		if t.done != nil {
			close(t.done)
		}
		if t.timer != nil {
			t.timer.Stop()
		}
	})
}

func (t *dispatchTask) guard(fn func()) func() {
	return func() {
		if t.stopped.Load() {
			return
		}
		fn()
	}
}

// Every posts fn every interval until the task is stopped.
func (d *Dispatcher) Every(interval time.Duration, fn func()) Task {
	t := &dispatchTask{done: make(chan struct{})}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-t.done:
				return
			case <-ticker.C:
				d.Post(t.guard(fn))
			}
		}
	}()
	return t
}

// After posts fn once after delay unless the task is stopped first.
func (d *Dispatcher) After(delay time.Duration, fn func()) Task {
	t := &dispatchTask{}
	t.timer = time.AfterFunc(delay, func() {
		d.Post(t.guard(fn))
	})
	return t
}

// Now returns the wall clock time.
func (d *Dispatcher) Now() time.Time {
	return time.Now()
}
