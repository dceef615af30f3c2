package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tomo/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newBacklogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "backlog",
		Aliases: []string{"b"},
		Short:   "Manage backlogs",
	}

	cmd.AddCommand(
		newBacklogAddCmd(app),
		newBacklogListCmd(app),
		newBacklogRenameCmd(app),
		newBacklogRemoveCmd(app),
	)

	return cmd
}

func newBacklogAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME...",
		Short: "Create a backlog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := app.Source()
			if err != nil {
				return err
			}
			b, err := src.Backlogs.Create(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created backlog %s [%s]\n", b.Name, b.ID)
			return nil
		},
	}
}

func newBacklogListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List backlogs",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := app.Source()
			if err != nil {
				return err
			}
			backlogs, err := src.Backlogs.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBacklogs(backlogs))
			return nil
		},
	}
}

func newBacklogRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename ID NAME...",
		Short: "Rename a backlog",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := app.Source()
			if err != nil {
				return err
			}
			b, err := resolveBacklog(cmd.Context(), src, args[0])
			if err != nil {
				return err
			}
			renamed, err := src.Backlogs.Rename(cmd.Context(), b.ID, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed backlog %s to %s\n", b.Name, renamed.Name)
			return nil
		},
	}
}

func newBacklogRemoveCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a backlog with all its work items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := app.Source()
			if err != nil {
				return err
			}
			b, err := src.Backlogs.Load(cmd.Context(), args[0])
			if err != nil {
				found, rerr := resolveBacklog(cmd.Context(), src, args[0])
				if rerr != nil {
					return rerr
				}
				if b, err = src.Backlogs.Load(cmd.Context(), found.ID); err != nil {
					return err
				}
			}

			if !force {
				if !app.interactive() {
					return fmt.Errorf("refusing to delete backlog %q without --force", b.Name)
				}
				ok, err := app.Confirm(fmt.Sprintf("Delete backlog %q and its %d work items?", b.Name, len(b.WorkItems)))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Kept.")
					return nil
				}
			}

			if err := src.Backlogs.Delete(cmd.Context(), b.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted backlog %s\n", b.Name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete without confirmation")
	return cmd
}
