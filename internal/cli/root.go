package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	port       string
	configPath string
)

// Execute runs the CLI. .env is loaded before flags are built so it can set
// CONFIG_PATH and PORT.
func Execute() error {
	loadEnv()
	return newRootCmd().Execute()
}

// loadEnv reads .env (or the given files) without overriding variables that
// are already set. Missing files are ignored.
func loadEnv(files ...string) {
	_ = godotenv.Load(files...)
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:          "vocab-quiz",
		Short:        "Vocabulary quiz with countdown timer, progress tracking and live feedback",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&port, "port", os.Getenv("PORT"), "port to listen on (overrides config)")
	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.AddCommand(NewStartCmd(&configPath, &port))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	cmd.AddCommand(NewPlayCmd(&configPath))
	cmd.AddCommand(NewSettingsCmd(&configPath))
	cmd.AddCommand(NewDashboardCmd(&configPath))
	return cmd
}
