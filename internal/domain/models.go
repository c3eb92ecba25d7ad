package domain

import (
	"fmt"
	"time"
)

// Answer is a recorded choice: an option index or TimeoutAnswer.
type Answer int

// TimeoutAnswer is recorded when time ran out before an option was chosen.
const TimeoutAnswer Answer = -1

// IsTimeout reports whether the answer is the timeout sentinel.
func (a Answer) IsTimeout() bool {
	return a == TimeoutAnswer
}

// Question models a word with ordered options and exactly one correct option.
type Question struct {
	Prompt  string   `json:"prompt" yaml:"prompt"`
	Options []string `json:"options" yaml:"options"`
	Correct int      `json:"correct" yaml:"correct"`
}

// Validate checks the option count and the correct index.
func (q Question) Validate() error {
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: question %q needs at least two options", ErrInvalidDeck, q.Prompt)
	}
	if q.Correct < 0 || q.Correct >= len(q.Options) {
		return fmt.Errorf("%w: question %q correct index %d out of range", ErrInvalidDeck, q.Prompt, q.Correct)
	}
	return nil
}

// Accepts reports whether a can be submitted for this question.
func (q Question) Accepts(a Answer) bool {
	return a.IsTimeout() || (int(a) >= 0 && int(a) < len(q.Options))
}

// Deck is an ordered collection of questions.
type Deck struct {
	ID        string     `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Questions []Question `json:"questions" yaml:"questions"`
}

func (d Deck) Validate() error {
	if len(d.Questions) == 0 {
		return fmt.Errorf("%w: deck %q has no questions", ErrInvalidDeck, d.ID)
	}
	for _, q := range d.Questions {
		if err := q.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// QuizConfig is the immutable per-session configuration of the state machine.
type QuizConfig struct {
	TimerEnabled         bool `json:"timerEnabled"`
	TimerDurationSeconds int  `json:"timerDurationSeconds"`
	AutoAdvanceOnTimeout bool `json:"autoAdvanceOnTimeout"`
	ShowProgress         bool `json:"showProgress"`
	ShowLiveFeedback     bool `json:"showLiveFeedback"`
}

// Phase names the state machine state.
type Phase string

const (
	PhaseAnswering     Phase = "answering"
	PhaseTransitioning Phase = "transitioning"
	PhaseFinished      Phase = "finished"
)

// Feedback is the correctness mark of a single option.
type Feedback string

const (
	FeedbackNone      Feedback = ""
	FeedbackCorrect   Feedback = "correct"
	FeedbackIncorrect Feedback = "incorrect"
)

// Snapshot is a read-only view of the quiz state handed to presentation.
type Snapshot struct {
	Phase         Phase      `json:"phase"`
	CurrentIndex  int        `json:"currentIndex"`
	Total         int        `json:"total"`
	Prompt        string     `json:"prompt"`
	Options       []string   `json:"options"`
	Answers       []Answer   `json:"answers"`
	Feedback      []Feedback `json:"feedback,omitempty"`
	TimerEnabled  bool       `json:"timerEnabled"`
	TimeRemaining int        `json:"timeRemaining"`
	TimerDuration int        `json:"timerDuration"`
	ShowProgress  bool       `json:"showProgress"`
	Locked        bool       `json:"locked"`
	Finished      bool       `json:"finished"`
	Celebrating   bool       `json:"celebrating"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// TimerPercentage is timeRemaining as a share of the configured duration.
func (s Snapshot) TimerPercentage() float64 {
	if !s.TimerEnabled || s.TimerDuration <= 0 {
		return 0
	}
	return float64(s.TimeRemaining) / float64(s.TimerDuration) * 100
}

// ProgressPercentage is the share of answered questions.
func (s Snapshot) ProgressPercentage() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(len(s.Answers)) / float64(s.Total) * 100
}

// Selected returns the answer recorded for the current question, if any.
func (s Snapshot) Selected() (Answer, bool) {
	if s.CurrentIndex < len(s.Answers) {
		return s.Answers[s.CurrentIndex], true
	}
	return 0, false
}

// QuestionResult grades one question after the quiz finished.
type QuestionResult struct {
	Prompt   string   `json:"prompt"`
	Options  []string `json:"options"`
	Selected Answer   `json:"selected"`
	Correct  int      `json:"correct"`
	IsRight  bool     `json:"isCorrect"`
}

// Dashboard carries the static stats shown on the entry view.
type Dashboard struct {
	CheckInDays int    `json:"checkInDays"`
	Book        string `json:"book"`
	Learned     int    `json:"learned"`
	Total       int    `json:"total"`
}

// Percent is the learned share of the book.
func (d Dashboard) Percent() float64 {
	if d.Total <= 0 {
		return 0
	}
	return float64(d.Learned) / float64(d.Total) * 100
}
