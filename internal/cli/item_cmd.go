package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/tomo/internal/cli/formatter"
	"github.com/alexanderramin/tomo/internal/domain"
	"github.com/alexanderramin/tomo/internal/service"
	"github.com/spf13/cobra"
)

func newItemCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "item",
		Aliases: []string{"i"},
		Short:   "Manage work items",
	}

	cmd.AddCommand(
		newItemAddCmd(app),
		newItemListCmd(app),
		newItemRenameCmd(app),
		newItemRemoveCmd(app),
		newItemActionCmd(app, "start", "Start the next pomodoro of a work item", service.WorkItemService.Start, "Started"),
		newItemActionCmd(app, "complete", "Mark a work item finished", service.WorkItemService.Complete, "Completed"),
		newItemActionCmd(app, "cancel", "Mark a work item canceled", service.WorkItemService.Cancel, "Canceled"),
		newItemActionCmd(app, "reopen", "Reopen a finished or canceled work item", service.WorkItemService.Reopen, "Reopened"),
	)

	return cmd
}

func newItemAddCmd(app *App) *cobra.Command {
	var backlog string
	var pomodoros int

	cmd := &cobra.Command{
		Use:   "add --backlog ID [TITLE...]",
		Short: "Add a work item; #words in the title become tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := app.Source()
			if err != nil {
				return err
			}
			b, err := resolveBacklog(cmd.Context(), src, backlog)
			if err != nil {
				return err
			}

			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				if !app.interactive() {
					return fmt.Errorf("a title is required")
				}
				if title, err = app.PromptText(fmt.Sprintf("New work item in %s", b.Name)); err != nil {
					return err
				}
			}

			w, err := src.WorkItems.Create(cmd.Context(), b.ID, title, pomodoros)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s [%s] with %d pomodoros\n", w.Title, w.ID, len(w.Pomodoros))
			return nil
		},
	}

	cmd.Flags().StringVarP(&backlog, "backlog", "b", "", "Backlog ID or name")
	cmd.Flags().IntVarP(&pomodoros, "pomodoros", "p", 1, "Number of pomodoros to plan")
	_ = cmd.MarkFlagRequired("backlog")
	return cmd
}

func newItemListCmd(app *App) *cobra.Command {
	var backlog string

	cmd := &cobra.Command{
		Use:     "list --backlog ID",
		Aliases: []string{"ls"},
		Short:   "List the work items of a backlog",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := app.Source()
			if err != nil {
				return err
			}
			b, err := resolveBacklog(cmd.Context(), src, backlog)
			if err != nil {
				return err
			}
			tree, err := src.Backlogs.Load(cmd.Context(), b.ID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Header(tree.Name))
			fmt.Fprint(out, formatter.FormatWorkItems(tree.WorkItems))
			return nil
		},
	}

	cmd.Flags().StringVarP(&backlog, "backlog", "b", "", "Backlog ID or name")
	_ = cmd.MarkFlagRequired("backlog")
	return cmd
}

func newItemRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename ID TITLE...",
		Short: "Rename a work item and refresh its tags",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := app.Source()
			if err != nil {
				return err
			}
			id, err := resolveWorkItemID(cmd.Context(), src, args[0])
			if err != nil {
				return err
			}
			w, err := src.WorkItems.Rename(cmd.Context(), id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed to %s\n", w.Title)
			return nil
		},
	}
}

func newItemRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a work item",
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
			if err := src.WorkItems.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted work item %s\n", id)
			return nil
		},
	}
}

type itemAction func(s service.WorkItemService, ctx context.Context, id string) (*domain.WorkItem, error)

func newItemActionCmd(app *App, use, short string, action itemAction, verb string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
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
			w, err := action(src.WorkItems, cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s\n", verb, w.Title, formatter.PomodoroGlyphs(w.Pomodoros))
			return nil
		},
	}
}
