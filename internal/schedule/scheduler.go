// Package schedule runs a single deferred callback that newer requests
// supersede. It replaces bare timers for the post-explode re-render.
package schedule

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Dispatcher hands a ready callback to the thread that owns the state it
// touches. Without one, a delayed task never fires on its own: it stays
// pending until Flush or Cancel.
type Dispatcher func(run func())

// Task is a scheduled callback.
type Task struct {
	ID     string
	Due    time.Time
	fn     func()
	timer  *time.Timer
	done   bool
	parent *Scheduler
}

// Scheduler holds at most one pending task.
type Scheduler struct {
	mu       sync.Mutex
	pending  *Task
	dispatch Dispatcher
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithDispatcher routes fired callbacks through d.
func WithDispatcher(d Dispatcher) Option {
	return func(s *Scheduler) { s.dispatch = d }
}

// WithLogger sets the logger used for task lifecycle events. A nil
// logger keeps the default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		logger:   slog.New(slog.DiscardHandler),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule cancels any pending task and arranges for fn to run after delay.
// A non-positive delay runs fn before Schedule returns.
func (s *Scheduler) Schedule(delay time.Duration, fn func()) *Task {
	s.mu.Lock()
	s.cancelLocked()
	t := &Task{ID: uuid.New().String(), Due: s.now().Add(delay), fn: fn, parent: s}
	if delay <= 0 {
		t.done = true
		s.mu.Unlock()
		s.logger.Debug("task_run", "task_id", t.ID, "delay_ms", int64(0))
		fn()
		return t
	}
	s.pending = t
	if s.dispatch != nil {
		t.timer = time.AfterFunc(delay, func() { s.dispatch(func() { s.fire(t) }) })
	}
	s.mu.Unlock()
	s.logger.Debug("task_scheduled", "task_id", t.ID, "delay_ms", delay.Milliseconds())
	return t
}

// fire runs t if it is still the pending task. Superseded tasks are dropped.
func (s *Scheduler) fire(t *Task) {
	s.mu.Lock()
	if s.pending != t || t.done {
		s.mu.Unlock()
		s.logger.Debug("task_stale", "task_id", t.ID)
		return
	}
	t.done = true
	s.pending = nil
	s.mu.Unlock()
	s.logger.Debug("task_run", "task_id", t.ID)
	t.fn()
}

// Cancel drops the pending task. It reports whether one was pending.
func (s *Scheduler) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelLocked()
}

func (s *Scheduler) cancelLocked() bool {
	t := s.pending
	if t == nil {
		return false
	}
	s.pending = nil
	t.done = true
	if t.timer != nil {
		t.timer.Stop()
	}
	s.logger.Debug("task_cancelled", "task_id", t.ID)
	return true
}

// Pending returns the pending task, or nil.
func (s *Scheduler) Pending() *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Flush runs the pending task now on the caller's goroutine. It reports
// whether a task ran.
func (s *Scheduler) Flush() bool {
	s.mu.Lock()
	t := s.pending
	if t == nil {
		s.mu.Unlock()
		return false
	}
	s.pending = nil
	t.done = true
	if t.timer != nil {
		t.timer.Stop()
	}
	s.mu.Unlock()
	t.fn()
	return true
}

// Cancel drops t if it is still pending.
func (t *Task) Cancel() bool {
	s := t.parent
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != t {
		return false
	}
	return s.cancelLocked()
}
