package cli

import (
	"fmt"

	"github.com/alexanderramin/tomo/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newTagCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Inspect #tags across backlogs",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tags with their work item counts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := app.Source()
			if err != nil {
				return err
			}
			tags, err := src.Tags.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTags(tags))
			return nil
		},
	})

	return cmd
}
