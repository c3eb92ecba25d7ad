package cli

import (
	"github.com/spf13/cobra"
	"vocab-quiz/internal/transport/terminal"
)

// NewDashboardCmd prints the check-in and book progress stats.
func NewDashboardCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show learning stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()
			terminal.Dashboard(cmd.OutOrStdout(), rt.dashboard())
			return nil
		},
	}
}
