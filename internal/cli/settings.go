package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"vocab-quiz/internal/domain"
	"vocab-quiz/internal/transport/terminal"
)

// NewSettingsCmd shows and edits the persisted quiz settings.
func NewSettingsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change quiz settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()
			terminal.Settings(cmd.OutOrStdout(), rt.settings.Load(cmd.Context()))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting, e.g. set showTimer true",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := settingsPatch(args[0], args[1])
			if err != nil {
				return err
			}
			rt, err := newRuntime(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()
			rt.settings.Load(cmd.Context())
			terminal.Settings(cmd.OutOrStdout(), rt.settings.Update(cmd.Context(), patch))
			return nil
		},
	})
	return cmd
}

// settingsPatch turns a key/value pair from the command line into a patch.
// Values the settings form would reject (bad theme, non-numeric duration)
// are passed through and ignored by the settings rules.
func settingsPatch(key, value string) (domain.SettingsPatch, error) {
	var patch domain.SettingsPatch
	switch key {
	case "colorTheme":
		patch.ColorTheme = &value
		return patch, nil
	case "timerDuration":
		patch.TimerDuration = &value
		return patch, nil
	}

	var target **bool
	switch key {
	case "showTimer":
		target = &patch.ShowTimer
	case "autoSwitch":
		target = &patch.AutoSwitch
	case "showProgress":
		target = &patch.ShowProgress
	case "respondInRealTime":
		target = &patch.RespondInRealTime
	default:
		return patch, fmt.Errorf("unknown setting %q", key)
	}
	flag, err := strconv.ParseBool(value)
	if err != nil {
		return patch, fmt.Errorf("%s expects true or false, got %q", key, value)
	}
	*target = &flag
	return patch, nil
}
