package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"vocab-quiz/internal/config"
	"vocab-quiz/internal/domain"
	"vocab-quiz/internal/infra/file"
	"vocab-quiz/internal/infra/memory"
	pgloader "vocab-quiz/internal/infra/postgres"
	pgmigrations "vocab-quiz/internal/infra/postgres/migrations"
	"vocab-quiz/internal/logger"
)

// NewMigrateCmd applies database migrations and optionally seeds decks.
func NewMigrateCmd(configPath *string) *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log := logger.Setup(cfg.Log.Level, cfg.Log.Format)
			if err := runMigrationsWithConfig(cmd.Context(), cfg, log); err != nil {
				return err
			}
			if seed {
				return seedDecks(cmd.Context(), cfg, log)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "upsert built-in and YAML decks into Postgres")
	return cmd
}

func runMigrationsWithConfig(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		log.Info().Msg("no new migrations")
		return nil
	}
	log.Info().Str("group", group.String()).Msg("migrations applied")
	return nil
}

func seedDecks(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	decks := make([]domain.Deck, 0)
	for _, deck := range memory.BuiltinDecks() {
		decks = append(decks, deck)
	}
	if cfg.Decks.Path != "" {
		fromFile, err := file.NewDeckLoader(cfg.Decks.Path).LoadAll()
		if err != nil {
			return err
		}
		decks = append(decks, fromFile...)
	}

	store := pgloader.NewDeckLoader(pool)
	for _, deck := range decks {
		if err := store.SaveDeck(ctx, deck); err != nil {
			return fmt.Errorf("seed deck %s: %w", deck.ID, err)
		}
		log.Info().Str("deck", deck.ID).Int("questions", len(deck.Questions)).Msg("deck seeded")
	}
	return nil
}
