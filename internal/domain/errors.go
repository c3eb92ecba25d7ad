package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a quiz session has not been started or was already ended.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrDeckNotFound indicates the deck content could not be loaded.
	ErrDeckNotFound = errors.New("deck not found")
	// ErrInvalidDeck indicates deck content violates question invariants.
	ErrInvalidDeck = errors.New("invalid deck")
	// ErrQuizNotFinished is returned when results are requested before every question is answered.
	ErrQuizNotFinished = errors.New("quiz not finished")
	// ErrSettingsNotFound is returned by settings stores when nothing was persisted yet.
	ErrSettingsNotFound = errors.New("settings not found")
)
