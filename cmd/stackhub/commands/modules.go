package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *CLI) newModulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modules [name]",
		Short: "List published modules, or show one module",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				m, err := c.app.Module(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(out, "%s: %s (latest %s)\n", m.Name, strings.Join(m.Versions, ", "), m.Latest)
				return nil
			}

			modules := c.app.List(cmd.Context())
			if len(modules) == 0 {
				_, _ = fmt.Fprintln(out, "no modules published")
				return nil
			}
			for _, m := range modules {
				_, _ = fmt.Fprintf(out, "%s: %s\n", m.Name, strings.Join(m.Versions, ", "))
			}
			return nil
		},
	}
}
