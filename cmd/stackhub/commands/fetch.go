package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/stackhub/internal/core/domain"
)

func (c *CLI) newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch NAME [VERSION]",
		Short: "Write the archive of a release to disk",
		Long:  "Write the archive of a release to disk. VERSION defaults to \"latest\".",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := domain.SelectLatest()
			if len(args) == 2 {
				sel = domain.ParseSelector(args[1])
			}
			dir, _ := cmd.Flags().GetString("output")

			path, err := c.app.Fetch(cmd.Context(), args[0], sel, dir)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", ".", "Directory to write the archive into")
	return cmd
}
