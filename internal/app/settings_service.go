package app

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"vocab-quiz/internal/domain"
)

// SettingsStore persists the settings blob under a single key (file, Redis, memory).
type SettingsStore interface {
	Load(ctx context.Context) (domain.Settings, error)
	Save(ctx context.Context, settings domain.Settings) error
}

// SettingsService keeps the current settings in memory. Storage problems are
// logged and never surfaced: loading falls back to defaults and a failed save
// leaves the in-memory value in effect.
type SettingsService struct {
	store SettingsStore
	log   zerolog.Logger

	// storeMu serialises store access so the persisted blob always matches
	// the last in-memory value; mu guards current for readers.
	storeMu sync.Mutex

	mu      sync.RWMutex
	current domain.Settings
	loaded  bool
}

func NewSettingsService(store SettingsStore, log zerolog.Logger) *SettingsService {
	return &SettingsService{
		store:   store,
		log:     log,
		current: domain.DefaultSettings(),
	}
}

// Load reads the store, replacing the in-memory settings.
func (s *SettingsService) Load(ctx context.Context) domain.Settings {
	s.storeMu.Lock()
	defer s.storeMu.Unlock()
	return s.loadLocked(ctx)
}

// Current returns the in-memory settings, loading them on first use.
func (s *SettingsService) Current(ctx context.Context) domain.Settings {
	s.mu.RLock()
	settings, loaded := s.current, s.loaded
	s.mu.RUnlock()
	if loaded {
		return settings
	}

	s.storeMu.Lock()
	defer s.storeMu.Unlock()
	return s.currentLocked(ctx)
}

// Update merges the patch and persists the result. Running quiz sessions keep
// the settings they started with.
func (s *SettingsService) Update(ctx context.Context, patch domain.SettingsPatch) domain.Settings {
	s.storeMu.Lock()
	defer s.storeMu.Unlock()

	updated := s.currentLocked(ctx).Apply(patch)
	s.mu.Lock()
	s.current = updated
	s.mu.Unlock()

	if err := s.store.Save(ctx, updated); err != nil {
		s.log.Error().Err(err).Msg("failed to save settings")
	}
	return updated
}

func (s *SettingsService) currentLocked(ctx context.Context) domain.Settings {
	s.mu.RLock()
	settings, loaded := s.current, s.loaded
	s.mu.RUnlock()
	if loaded {
		return settings
	}
	return s.loadLocked(ctx)
}

func (s *SettingsService) loadLocked(ctx context.Context) domain.Settings {
	settings, err := s.store.Load(ctx)
	switch {
	case errors.Is(err, domain.ErrSettingsNotFound):
		settings = domain.DefaultSettings()
	case err != nil:
		s.log.Warn().Err(err).Msg("failed to load settings, using defaults")
		settings = domain.DefaultSettings()
	default:
		settings = settings.Normalize()
	}

	s.mu.Lock()
	s.current = settings
	s.loaded = true
	s.mu.Unlock()
	return settings
}
