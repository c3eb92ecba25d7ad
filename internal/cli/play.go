package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"vocab-quiz/internal/transport/terminal"
)

// NewPlayCmd runs a quiz in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var deck string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a vocabulary quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rt, err := newRuntime(ctx, *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			if deck == "" {
				deck = rt.cfg.Decks.Default
			}
			clear := term.IsTerminal(int(os.Stdout.Fd()))
			return terminal.Play(ctx, rt.quizzes, deck, cmd.InOrStdin(), cmd.OutOrStdout(), clear)
		},
	}
	cmd.Flags().StringVar(&deck, "deck", "", "deck id (defaults to decks.default)")
	return cmd
}
