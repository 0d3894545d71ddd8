package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/stackhub/internal/app"
)

func (c *CLI) newPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish NAME VERSION",
		Short: "Publish a release, creating the module if needed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			stackPath, _ := cmd.Flags().GetString("stack")
			stackmPath, _ := cmd.Flags().GetString("stackm")

			res, err := c.app.PublishFiles(cmd.Context(), args[0], args[1], stackPath, stackmPath)
			if err != nil {
				return err
			}

			verb := "created"
			if res == app.PublishAdded {
				verb = "added"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", verb, args[0], args[1])
			return nil
		},
	}
	cmd.Flags().String("stack", "", "Path to the stack blob")
	cmd.Flags().String("stackm", "", "Path to the stackm blob")
	_ = cmd.MarkFlagRequired("stack")
	_ = cmd.MarkFlagRequired("stackm")
	return cmd
}
