package cli

import (
	"strings"

	"github.com/alexanderramin/tomo/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// NewRootCmd creates the top-level "tomo" command. The active source is
// opened lazily from --config-home unless app already has one.
func NewRootCmd(app *App) *cobra.Command {
	var home string

	root := &cobra.Command{
		Use:           "tomo",
		Short:         "Pomodoro tracker with live backlog progress",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				home = config.Home()
			}
			return app.Init(home)
		},
	}
	root.PersistentFlags().StringVar(&home, "config-home", "", "config directory (default $TOMO_HOME or ~/.tomo)")
	root.SetGlobalNormalizationFunc(dashedFlags)

	if app.Confirm == nil {
		app.Confirm = huhConfirm
	}
	if app.PromptText == nil {
		app.PromptText = huhInput
	}

	root.AddCommand(
		newBacklogCmd(app),
		newItemCmd(app),
		newPomodoroCmd(app),
		newTagCmd(app),
		newProgressCmd(app),
		newWatchCmd(app),
	)

	return root
}

// dashedFlags accepts snake_case spellings of flags, matching the config
// file keys.
func dashedFlags(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}
