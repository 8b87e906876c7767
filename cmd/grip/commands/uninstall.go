package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *CLI) newUninstallCmd() *cobra.Command {
	var (
		yes      bool
		reqFiles []string
	)

	cmd := &cobra.Command{
		Use:   "uninstall [packages...]",
		Short: "Uninstall distributions",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && len(reqFiles) == 0 {
				_ = cmd.Help()
				return nil
			}
			if !yes && !confirm(cmd, args) {
				return nil
			}
			return c.app.Uninstall(cmd.Context(), args, reqFiles)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	cmd.Flags().StringArrayVarP(&reqFiles, "requirement", "r", nil, "Uninstall the packages listed in the given requirements file (repeatable)")

	return cmd
}

func confirm(cmd *cobra.Command, args []string) bool {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Proceed to uninstall %s? [y/N] ", strings.Join(args, ", "))
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
