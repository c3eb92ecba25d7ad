package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	transport "vocab-quiz/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	rt, err := newRuntime(ctx, configPath)
	if err != nil {
		return err
	}
	defer rt.Close()

	if rt.cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, rt.cfg, rt.log); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = rt.cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	rt.settings.Load(ctx)
	handler := transport.NewHandler(rt.quizzes, rt.settings, rt.dashboard(), rt.cfg.Decks.Default,
		rt.log.With().Str("component", "http").Logger())

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		rt.log.Info().Str("port", finalPort).Msg("starting vocab quiz server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			rt.log.Error().Err(err).Msg("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		rt.log.Info().Msg("shutting down server...")
	case <-ctx.Done():
		rt.log.Info().Msg("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
