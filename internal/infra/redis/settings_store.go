package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"vocab-quiz/internal/domain"
)

// SettingsKey is the fixed key holding the settings blob.
const SettingsKey = "settings"

// SettingsStore keeps the settings blob as a JSON string under SettingsKey.
type SettingsStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSettingsStore builds a store; ttl 0 keeps the blob forever.
func NewSettingsStore(client *redis.Client, ttl time.Duration) *SettingsStore {
	return &SettingsStore{client: client, ttl: ttl}
}

func (s *SettingsStore) Load(ctx context.Context) (domain.Settings, error) {
	raw, err := s.client.Get(ctx, SettingsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Settings{}, domain.ErrSettingsNotFound
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	var settings domain.Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return domain.Settings{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	return settings, nil
}

func (s *SettingsStore) Save(ctx context.Context, settings domain.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := s.client.Set(ctx, SettingsKey, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("set settings: %w", err)
	}
	return nil
}
