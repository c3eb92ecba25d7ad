package cli

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"vocab-quiz/internal/app"
	"vocab-quiz/internal/config"
	"vocab-quiz/internal/domain"
	"vocab-quiz/internal/infra/file"
	"vocab-quiz/internal/infra/memory"
	pgloader "vocab-quiz/internal/infra/postgres"
	infraredis "vocab-quiz/internal/infra/redis"
	"vocab-quiz/internal/logger"
)

// runtime is the wiring shared by every subcommand: config, logger, optional
// Redis and Postgres clients and the two application services.
type runtime struct {
	cfg      config.Config
	log      zerolog.Logger
	redis    *redis.Client
	pool     *pgxpool.Pool
	settings *app.SettingsService
	quizzes  *app.QuizService
}

func newRuntime(ctx context.Context, configPath string) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return newRuntimeWithConfig(ctx, cfg)
}

func newRuntimeWithConfig(ctx context.Context, cfg config.Config) (*runtime, error) {
	rt := &runtime{
		cfg: cfg,
		log: logger.Setup(cfg.Log.Level, cfg.Log.Format),
	}

	if cfg.Redis.Addr != "" {
		rt.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.pool = pool
	}

	rt.settings = app.NewSettingsService(rt.settingsStore(), rt.log.With().Str("component", "settings").Logger())

	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)
	deckTTL := config.TTLDuration(cfg.Decks.TTL, 10*time.Minute)

	loader := rt.deckLoader()
	var decks app.DeckRepository
	if rt.redis != nil {
		decks = infraredis.NewDeckRepository(rt.redis, loader, deckTTL)
	} else {
		decks = memory.NewDeckRepository(loader, deckTTL)
	}

	var sessions app.SessionRepository
	if rt.redis != nil {
		sessions = infraredis.NewSessionStore(rt.redis, redisTTL)
	} else {
		sessions = memory.NewSessionStore()
	}

	rt.quizzes = app.NewQuizService(sessions, decks, rt.settings,
		app.WithSessionTiming(timing(cfg)),
		app.WithLogger(rt.log.With().Str("component", "quiz").Logger()),
	)
	return rt, nil
}

func (rt *runtime) settingsStore() app.SettingsStore {
	switch rt.cfg.Settings.Backend {
	case "memory":
		return memory.NewSettingsStore()
	case "redis":
		if rt.redis != nil {
			return infraredis.NewSettingsStore(rt.redis, 0)
		}
		rt.log.Warn().Msg("settings backend redis requested without redis.addr, using file store")
	}
	return file.NewSettingsStore(rt.cfg.Settings.Path)
}

// deckLoader chains Postgres, the YAML deck file and the built-in decks; a deck
// missing from one source is looked up in the next.
func (rt *runtime) deckLoader() memory.DeckLoader {
	var chain memory.FallbackLoader
	if rt.pool != nil {
		chain = append(chain, pgloader.NewDeckLoader(rt.pool))
	}
	if rt.cfg.Decks.Path != "" {
		chain = append(chain, file.NewDeckLoader(rt.cfg.Decks.Path))
	}
	return append(chain, memory.NewStaticDeckLoader(memory.BuiltinDecks()))
}

func (rt *runtime) dashboard() domain.Dashboard {
	d := rt.cfg.Dashboard
	return domain.Dashboard{
		CheckInDays: d.CheckInDays,
		Book:        d.Book,
		Learned:     d.Learned,
		Total:       d.Total,
	}
}

func (rt *runtime) Close() {
	if rt.pool != nil {
		rt.pool.Close()
	}
	if rt.redis != nil {
		_ = rt.redis.Close()
	}
}

func timing(cfg config.Config) app.Timing {
	t := cfg.Server.Timing
	return app.Timing{
		Tick:        config.TTLDuration(t.Tick, app.DefaultTiming.Tick),
		Settle:      config.TTLDuration(t.Settle, app.DefaultTiming.Settle),
		Celebration: config.TTLDuration(t.Celebration, app.DefaultTiming.Celebration),
	}
}
