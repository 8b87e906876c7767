package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed distributions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dists, err := c.app.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, dist := range dists {
				line := dist.Display + " " + dist.Version.Original()
				if dist.Editable {
					line += " (editable)"
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}
