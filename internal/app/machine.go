package app

import (
	"sync"
	"time"

	"vocab-quiz/internal/domain"
)

// Timing holds the fixed delays of the quiz flow.
type Timing struct {
	Tick        time.Duration
	Settle      time.Duration
	Celebration time.Duration
}

// DefaultTiming is a one second countdown, a 500ms pause after each answer and
// a 3s celebration once the last question is answered.
var DefaultTiming = Timing{
	Tick:        time.Second,
	Settle:      500 * time.Millisecond,
	Celebration: 3 * time.Second,
}

type MachineOption func(*Machine)

func WithTiming(t Timing) MachineOption {
	return func(m *Machine) { m.timing = t }
}

// WithClock overrides the timestamp source used in snapshots.
func WithClock(now func() time.Time) MachineOption {
	return func(m *Machine) { m.now = now }
}

// Machine owns the state of one quiz run: current question, countdown, lock and
// recorded answers. All mutations happen under mu, so ticks, settle callbacks
// and learner input are applied one at a time.
type Machine struct {
	questions []domain.Question
	cfg       domain.QuizConfig
	sched     Scheduler
	timing    Timing
	now       func() time.Time

	mu            sync.Mutex
	started       bool
	closed        bool
	phase         domain.Phase
	current       int
	answers       []domain.Answer
	timeRemaining int
	locked        bool
	celebrating   bool

	// run changes on Restart and Close; tickGen changes whenever the pending
	// tick is cancelled. Callbacks carrying an old value are dropped.
	run         uint64
	tickGen     uint64
	tick        Timer
	settle      Timer
	celebration Timer

	subscribers map[chan domain.Snapshot]struct{}
}

// NewMachine prepares a quiz run. questions must be non-empty and valid.
func NewMachine(questions []domain.Question, cfg domain.QuizConfig, sched Scheduler, opts ...MachineOption) *Machine {
	if cfg.TimerDurationSeconds <= 0 {
		cfg.TimerDurationSeconds = domain.DefaultTimerDuration
	}
	m := &Machine{
		questions:     questions,
		cfg:           cfg,
		sched:         sched,
		timing:        DefaultTiming,
		now:           time.Now,
		phase:         domain.PhaseAnswering,
		timeRemaining: cfg.TimerDurationSeconds,
		subscribers:   make(map[chan domain.Snapshot]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Config returns the configuration the machine was built with.
func (m *Machine) Config() domain.QuizConfig {
	return m.cfg
}

// Start arms the countdown for the first question. Calling it again is a no-op.
func (m *Machine) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started || m.closed {
		return
	}
	m.started = true
	m.armTickLocked()
	m.broadcastLocked()
}

// Tick advances the countdown by one second. It reports false when the
// machine is not counting down (timer off, locked, finished or already at 0).
func (m *Machine) Tick() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.canTickLocked() {
		return false
	}
	m.cancelTickLocked()
	m.tickLocked()
	return true
}

// Submit records an option index or domain.TimeoutAnswer for the current
// question. Duplicate or late submissions are ignored and report false.
func (m *Machine) Submit(answer domain.Answer) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.submitLocked(answer)
}

// Restart discards the run and begins again from the first question.
func (m *Machine) Restart() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.run++
	m.cancelTickLocked()
	stopTimer(&m.settle)
	stopTimer(&m.celebration)

	m.started = true
	m.phase = domain.PhaseAnswering
	m.current = 0
	m.answers = nil
	m.timeRemaining = m.cfg.TimerDurationSeconds
	m.locked = false
	m.celebrating = false

	m.armTickLocked()
	m.broadcastLocked()
}

// Close tears the machine down; pending callbacks are cancelled and
// subscriber channels closed.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	m.run++
	m.cancelTickLocked()
	stopTimer(&m.settle)
	stopTimer(&m.celebration)
	for ch := range m.subscribers {
		delete(m.subscribers, ch)
		close(ch)
	}
}

func (m *Machine) Snapshot() domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Results grades the run; ok is false until every question has an answer.
func (m *Machine) Results() ([]domain.QuestionResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.finishedLocked() {
		return nil, false
	}
	return domain.Grade(m.questions, m.answers), true
}

// Subscribe returns a channel of snapshots, primed with the current one.
// The caller must invoke the returned cancel function to avoid leaks.
func (m *Machine) Subscribe() (<-chan domain.Snapshot, func()) {
	ch := make(chan domain.Snapshot, 8)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	m.subscribers[ch] = struct{}{}
	ch <- m.snapshotLocked()
	m.mu.Unlock()

	cancel := func() {
		m.mu.Lock()
		if _, ok := m.subscribers[ch]; ok {
			delete(m.subscribers, ch)
			close(ch)
		}
		m.mu.Unlock()
	}
	return ch, cancel
}

func (m *Machine) canTickLocked() bool {
	return !m.closed &&
		m.cfg.TimerEnabled &&
		m.phase == domain.PhaseAnswering &&
		!m.locked &&
		!m.finishedLocked() &&
		m.timeRemaining > 0
}

func (m *Machine) tickLocked() {
	m.timeRemaining--
	if m.timeRemaining > 0 {
		m.armTickLocked()
		m.broadcastLocked()
		return
	}
	if m.cfg.AutoAdvanceOnTimeout && m.submitLocked(domain.TimeoutAnswer) {
		return
	}
	// Without auto-advance the question stays open at 0 until a manual submit.
	m.broadcastLocked()
}

func (m *Machine) armTickLocked() {
	if !m.canTickLocked() {
		return
	}
	m.cancelTickLocked()
	gen := m.tickGen
	m.tick = m.sched.AfterFunc(m.timing.Tick, func() { m.onTick(gen) })
}

func (m *Machine) onTick(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.tickGen {
		return
	}
	m.tick = nil
	if m.canTickLocked() {
		m.tickLocked()
	}
}

func (m *Machine) cancelTickLocked() {
	m.tickGen++
	stopTimer(&m.tick)
}

func (m *Machine) submitLocked(answer domain.Answer) bool {
	if m.closed || m.locked || m.phase != domain.PhaseAnswering || m.finishedLocked() {
		return false
	}
	if !m.questions[m.current].Accepts(answer) {
		return false
	}
	m.cancelTickLocked()
	m.answers = append(m.answers, answer)
	m.locked = true
	m.phase = domain.PhaseTransitioning

	run := m.run
	m.settle = m.sched.AfterFunc(m.timing.Settle, func() { m.onSettle(run) })
	m.broadcastLocked()
	return true
}

func (m *Machine) onSettle(run uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if run != m.run || m.phase != domain.PhaseTransitioning {
		return
	}
	m.settle = nil
	m.locked = false

	if m.current < len(m.questions)-1 {
		m.current++
		m.timeRemaining = m.cfg.TimerDurationSeconds
		m.phase = domain.PhaseAnswering
		m.armTickLocked()
		m.broadcastLocked()
		return
	}

	m.phase = domain.PhaseFinished
	m.celebrating = true
	m.celebration = m.sched.AfterFunc(m.timing.Celebration, func() { m.onCelebrationEnd(run) })
	m.broadcastLocked()
}

func (m *Machine) onCelebrationEnd(run uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if run != m.run || !m.celebrating {
		return
	}
	m.celebration = nil
	m.celebrating = false
	m.broadcastLocked()
}

func (m *Machine) finishedLocked() bool {
	return len(m.answers) == len(m.questions)
}

func (m *Machine) snapshotLocked() domain.Snapshot {
	q := m.questions[m.current]
	answers := make([]domain.Answer, len(m.answers))
	copy(answers, m.answers)

	snap := domain.Snapshot{
		Phase:        m.phase,
		CurrentIndex: m.current,
		Total:        len(m.questions),
		Prompt:       q.Prompt,
		Options:      q.Options,
		Answers:      answers,
		TimerEnabled: m.cfg.TimerEnabled,
		ShowProgress: m.cfg.ShowProgress,
		Locked:       m.locked,
		Finished:     m.finishedLocked(),
		Celebrating:  m.celebrating,
		UpdatedAt:    m.now(),
	}
	if m.cfg.TimerEnabled {
		snap.TimeRemaining = m.timeRemaining
		snap.TimerDuration = m.cfg.TimerDurationSeconds
	}
	if m.cfg.ShowLiveFeedback && m.current < len(m.answers) {
		snap.Feedback = domain.LiveFeedback(q, m.answers[m.current])
	}
	return snap
}

func (m *Machine) broadcastLocked() {
	snap := m.snapshotLocked()
	for ch := range m.subscribers {
		select {
		case ch <- snap:
		default:
			// Slow reader: drop the oldest snapshot, the newest one wins.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func stopTimer(t *Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}
