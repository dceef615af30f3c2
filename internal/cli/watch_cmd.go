package cli

import (
	"context"

	"github.com/alexanderramin/tomo/internal/config"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newWatchCmd(app *App) *cobra.Command {
	var backlog string

	cmd := &cobra.Command{
		Use:   "watch --backlog ID",
		Short: "Run pomodoros in a live view of a backlog",
		Long: `Open a terminal view of a backlog with a live progress footer.

Timers advance every second. Editing db.path in the config file while the
view is open switches it to the new database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := app.Source()
			if err != nil {
				return err
			}
			b, err := resolveBacklog(cmd.Context(), src, backlog)
			if err != nil {
				return err
			}

			m := newWatchModel(cmd.Context(), app, b.ID)
			defer m.Close()

			p := tea.NewProgram(m,
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)

			if app.Home != "" {
				w, err := config.NewWatcher(app.Home, func(cfg *config.Config) {
					p.Send(configReloadedMsg{cfg: cfg})
				}, config.WithWatcherLogger(app.Logger))
				if err != nil {
					app.Logger.Warn("config watcher disabled", "error", err)
				} else {
					ctx, cancel := context.WithCancel(cmd.Context())
					defer cancel()
					go func() {
						if err := w.Watch(ctx); err != nil {
							app.Logger.Warn("config watcher stopped", "error", err)
						}
					}()
				}
			}

			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&backlog, "backlog", "b", "", "Backlog ID or name")
	_ = cmd.MarkFlagRequired("backlog")
	return cmd
}
