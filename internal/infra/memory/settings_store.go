package memory

import (
	"context"
	"sync"

	"vocab-quiz/internal/domain"
)

// SettingsStore keeps the settings blob for the lifetime of the process.
type SettingsStore struct {
	mu       sync.RWMutex
	settings *domain.Settings
	saveErr  error
}

func NewSettingsStore() *SettingsStore {
	return &SettingsStore{}
}

func (s *SettingsStore) Load(_ context.Context) (domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return domain.Settings{}, domain.ErrSettingsNotFound
	}
	return *s.settings, nil
}

func (s *SettingsStore) Save(_ context.Context, settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.settings = &settings
	return nil
}

// FailSaves makes subsequent saves return err (nil restores normal behaviour).
func (s *SettingsStore) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}
