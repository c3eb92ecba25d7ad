package app

import (
	"sync"
	"time"
)

// Timer is a cancellable deferred callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

// RealScheduler schedules callbacks with time.AfterFunc.
func RealScheduler() Scheduler {
	return realScheduler{}
}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualScheduler is a virtual clock for deterministic tests. Callbacks only
// run inside Advance, on the caller's goroutine, in due-time order.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	sched   *ManualScheduler
	at      time.Duration
	seq     int
	f       func()
	done    bool
	stopped bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	task := &manualTask{sched: s, at: s.now + d, seq: s.seq, f: f}
	s.tasks = append(s.tasks, task)
	return task
}

func (t *manualTask) Stop() bool {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	if t.done || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward by d, firing every callback that falls due,
// including ones scheduled by callbacks fired during this call.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		next := s.nextDueLocked(target)
		if next == nil {
			s.now = target
			s.compactLocked()
			s.mu.Unlock()
			return
		}
		s.now = next.at
		next.done = true
		s.mu.Unlock()

		next.f()
	}
}

// Pending counts callbacks that are scheduled and not stopped.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.done && !t.stopped {
			n++
		}
	}
	return n
}

// Elapsed returns the virtual time since creation.
func (s *ManualScheduler) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *ManualScheduler) nextDueLocked(target time.Duration) *manualTask {
	var next *manualTask
	for _, t := range s.tasks {
		if t.done || t.stopped || t.at > target {
			continue
		}
		if next == nil || t.at < next.at || (t.at == next.at && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

func (s *ManualScheduler) compactLocked() {
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.done && !t.stopped {
			live = append(live, t)
		}
	}
	s.tasks = live
}
