package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/tomo/internal/domain"
	"github.com/alexanderramin/tomo/internal/service"
	"github.com/spf13/cobra"
)

func newPomodoroCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pomodoro",
		Aliases: []string{"p", "pom"},
		Short:   "Add, remove and run the pomodoros of a work item",
	}

	cmd.AddCommand(
		newPomodoroAddCmd(app),
		newPomodoroActionCmd(app, "remove", "Remove the last unstarted pomodoro", service.PomodoroService.Remove, "Removed"),
		newPomodoroActionCmd(app, "start", "Start the next pomodoro", service.PomodoroService.Start, "Started"),
		newPomodoroActionCmd(app, "finish", "Finish the running pomodoro", service.PomodoroService.Finish, "Finished"),
		newPomodoroActionCmd(app, "void", "Void the running pomodoro", service.PomodoroService.Void, "Voided"),
	)

	return cmd
}

func newPomodoroAddCmd(app *App) *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "add ITEM",
		Short: "Plan more pomodoros for a work item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := app.Source()
			if err != nil {
				return err
			}
			id, err := resolveWorkItemID(cmd.Context(), src, args[0])
			if err != nil {
				return err
			}
			added, err := src.Pomodoros.Add(cmd.Context(), id, n)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d pomodoros\n", len(added))
			return nil
		},
	}

	cmd.Flags().IntVarP(&n, "count", "n", 1, "Number of pomodoros to add")
	return cmd
}

type pomodoroAction func(s service.PomodoroService, ctx context.Context, itemID string) (*domain.Pomodoro, error)

func newPomodoroActionCmd(app *App, use, short string, action pomodoroAction, verb string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ITEM",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := app.Source()
			if err != nil {
				return err
			}
			id, err := resolveWorkItemID(cmd.Context(), src, args[0])
			if err != nil {
				return err
			}
			p, err := action(src.Pomodoros, cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s pomodoro %d (%s)\n", verb, p.OrderIndex+1, p.State)
			return nil
		},
	}
}
