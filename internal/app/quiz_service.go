package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"vocab-quiz/internal/domain"
)

// SessionRepository abstracts where running quiz sessions are kept (in-memory, Redis-marked, etc).
type SessionRepository interface {
	Add(session *Session)
	Get(sessionID string) (*Session, bool)
	Remove(sessionID string) (*Session, bool)
}

// DeckRepository loads deck content (from cache/backing store).
type DeckRepository interface {
	GetDeck(ctx context.Context, deckID string) (domain.Deck, error)
}

// SettingsSource provides the settings snapshot a new session starts from.
type SettingsSource interface {
	Current(ctx context.Context) domain.Settings
}

// QuizService contains the quiz use cases: mounting a session and forwarding
// learner input to its state machine.
type QuizService struct {
	sessions SessionRepository
	decks    DeckRepository
	settings SettingsSource
	sched    Scheduler
	timing   Timing
	now      func() time.Time
	newID    func() string
	log      zerolog.Logger
}

type ServiceOption func(*QuizService)

func WithScheduler(sched Scheduler) ServiceOption {
	return func(s *QuizService) { s.sched = sched }
}

func WithSessionTiming(t Timing) ServiceOption {
	return func(s *QuizService) { s.timing = t }
}

func WithLogger(log zerolog.Logger) ServiceOption {
	return func(s *QuizService) { s.log = log }
}

// WithIDGenerator is test-only for deterministic session IDs.
func WithIDGenerator(newID func() string) ServiceOption {
	return func(s *QuizService) { s.newID = newID }
}

func NewQuizService(sessions SessionRepository, decks DeckRepository, settings SettingsSource, opts ...ServiceOption) *QuizService {
	s := &QuizService{
		sessions: sessions,
		decks:    decks,
		settings: settings,
		sched:    RealScheduler(),
		timing:   DefaultTiming,
		now:      time.Now,
		newID:    uuid.NewString,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start mounts a new session for the deck using the current settings.
func (s *QuizService) Start(ctx context.Context, deckID string) (*Session, error) {
	deck, err := s.decks.GetDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if err := deck.Validate(); err != nil {
		return nil, err
	}

	settings := s.settings.Current(ctx)
	machine := NewMachine(deck.Questions, settings.QuizConfig(), s.sched, WithTiming(s.timing), WithClock(s.now))
	session := &Session{
		ID:        s.newID(),
		DeckID:    deck.ID,
		Title:     deck.Title,
		Settings:  settings,
		CreatedAt: s.now(),
		machine:   machine,
	}
	s.sessions.Add(session)
	machine.Start()

	s.log.Info().
		Str("session", session.ID).
		Str("deck", deck.ID).
		Int("questions", len(deck.Questions)).
		Bool("timer", settings.ShowTimer).
		Msg("quiz session started")
	return session, nil
}

// Select submits an option for the current question. accepted is false when
// the machine ignored the input (locked, finished or out of range).
func (s *QuizService) Select(_ context.Context, sessionID string, option int) (domain.Snapshot, bool, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Snapshot{}, false, domain.ErrSessionNotFound
	}
	accepted := session.machine.Submit(domain.Answer(option))
	return session.machine.Snapshot(), accepted, nil
}

func (s *QuizService) Restart(_ context.Context, sessionID string) (domain.Snapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Snapshot{}, domain.ErrSessionNotFound
	}
	session.machine.Restart()
	s.log.Debug().Str("session", sessionID).Msg("quiz session restarted")
	return session.machine.Snapshot(), nil
}

func (s *QuizService) Snapshot(_ context.Context, sessionID string) (domain.Snapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Snapshot{}, domain.ErrSessionNotFound
	}
	return session.machine.Snapshot(), nil
}

// Results returns graded answers once the session is finished.
func (s *QuizService) Results(_ context.Context, sessionID string) ([]domain.QuestionResult, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	results, finished := session.machine.Results()
	if !finished {
		return nil, domain.ErrQuizNotFinished
	}
	return results, nil
}

// Subscribe returns a channel that receives state snapshots for a session.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(_ context.Context, sessionID string) (<-chan domain.Snapshot, func(), error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.machine.Subscribe()
	return ch, cancel, nil
}

// End unmounts the session and cancels its timers.
func (s *QuizService) End(_ context.Context, sessionID string) {
	session, ok := s.sessions.Remove(sessionID)
	if !ok {
		return
	}
	session.machine.Close()
	s.log.Info().Str("session", sessionID).Msg("quiz session ended")
}

// Session is one mounted quiz view with its own state machine.
type Session struct {
	ID        string
	DeckID    string
	Title     string
	Settings  domain.Settings
	CreatedAt time.Time

	machine *Machine
}

// Config is the quiz configuration the session was started with.
func (s *Session) Config() domain.QuizConfig {
	return s.machine.Config()
}
