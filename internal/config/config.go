package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
		// Timing overrides the countdown tick, the pause after an answer and the celebration.
		Timing struct {
			Tick        string `yaml:"tick"`
			Settle      string `yaml:"settle"`
			Celebration string `yaml:"celebration"`
		} `yaml:"timing"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Settings struct {
		// Backend is one of file, redis or memory.
		Backend string `yaml:"backend"`
		Path    string `yaml:"path"`
	} `yaml:"settings"`
	Decks struct {
		Path    string `yaml:"path"`
		Default string `yaml:"default"`
		TTL     string `yaml:"ttl"`
	} `yaml:"decks"`
	Dashboard struct {
		CheckInDays int    `yaml:"check_in_days"`
		Book        string `yaml:"book"`
		Learned     int    `yaml:"learned"`
		Total       int    `yaml:"total"`
	} `yaml:"dashboard"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Log.Level = "info"
	cfg.Log.Format = "pretty"
	cfg.Settings.Backend = "file"
	cfg.Settings.Path = "data/settings.json"
	cfg.Decks.Default = "cet4"
	cfg.Decks.TTL = "10m"
	cfg.Dashboard.CheckInDays = 3
	cfg.Dashboard.Book = "四级词汇书"
	cfg.Dashboard.Learned = 3
	cfg.Dashboard.Total = 321
	return cfg
}

// Load reads YAML config from path on top of Default. A missing file is not
// an error; .env is loaded first when present and LOG_LEVEL, REDIS_ADDR and
// DATABASE_URL override the file.
func Load(path string) (Config, error) {
	_ = godotenv.Load() // .env is optional

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.URL = v
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
