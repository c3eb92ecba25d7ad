package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"vocab-quiz/internal/domain"
)

// SettingsStore persists the settings blob as a JSON file, the local
// equivalent of a browser's key-value storage.
type SettingsStore struct {
	path string
}

func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{path: path}
}

func (s *SettingsStore) Load(_ context.Context) (domain.Settings, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Settings{}, domain.ErrSettingsNotFound
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("read settings: %w", err)
	}
	var settings domain.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return domain.Settings{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	return settings, nil
}

// Save writes through a temp file so a crash never leaves a torn blob.
func (s *SettingsStore) Save(_ context.Context, settings domain.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}

// Path returns the file backing the store.
func (s *SettingsStore) Path() string {
	return s.path
}
