package cli

import (
	"fmt"

	"github.com/alexanderramin/tomo/internal/domain"
	"github.com/alexanderramin/tomo/internal/progress"
	"github.com/spf13/cobra"
)

func newProgressCmd(app *App) *cobra.Command {
	var backlog, tag string

	cmd := &cobra.Command{
		Use:   "progress (--backlog ID | --tag NAME)",
		Short: "Print the progress line of a backlog or tag",
		Long: `Print how many planned work items and pomodoros are done.

Only items that can still be worked on, are running, or are sealed count.
Nothing is printed when there is nothing to count.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := app.Source()
			if err != nil {
				return err
			}

			label := &progress.TextLabel{}
			display := progress.NewDisplay(app.Holder, label, app.ProgressOptions())
			defer display.Close()

			g := domain.NoGrouping()
			switch {
			case backlog != "":
				b, err := resolveBacklog(cmd.Context(), src, backlog)
				if err != nil {
					return err
				}
				tree, err := src.Backlogs.Load(cmd.Context(), b.ID)
				if err != nil {
					return err
				}
				g = domain.BacklogGrouping(tree)
			case tag != "":
				t, err := src.Tags.Load(cmd.Context(), tag)
				if err != nil {
					return err
				}
				g = domain.TagGrouping(t)
			}
			display.Show(g)

			if label.Visible() {
				fmt.Fprintln(cmd.OutOrStdout(), label.Text())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&backlog, "backlog", "b", "", "Backlog ID or name")
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Tag name, with or without #")
	cmd.MarkFlagsMutuallyExclusive("backlog", "tag")
	cmd.MarkFlagsOneRequired("backlog", "tag")
	return cmd
}
