package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/grip/internal/app"
	"go.trai.ch/grip/internal/core/domain"
)

func (c *CLI) newInstallCmd() *cobra.Command {
	var (
		upgrade          bool
		upgradeRecursive bool
		forceReinstall   bool
		ignoreInstalled  bool
		reqFiles         []string
		findLinks        []string
		noIndex          bool
		editable         bool
		jobs             int
	)

	cmd := &cobra.Command{
		Use:   "install [requirements...]",
		Short: "Install or upgrade distributions",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && len(reqFiles) == 0 {
				_ = cmd.Help()
				return nil
			}
			return c.app.Install(cmd.Context(), args, app.InstallOptions{
				Mode:         installMode(upgrade, upgradeRecursive, forceReinstall, ignoreInstalled),
				Requirements: reqFiles,
				FindLinks:    findLinks,
				NoIndex:      noIndex,
				Editable:     editable,
				Jobs:         jobs,
			})
		},
	}

	cmd.Flags().BoolVarP(&upgrade, "upgrade", "U", false, "Upgrade the named requirements to the newest satisfying version")
	cmd.Flags().BoolVar(&upgradeRecursive, "upgrade-recursive", false, "Upgrade the named requirements and all their dependencies")
	cmd.Flags().BoolVar(&forceReinstall, "force-reinstall", false, "Reinstall even when the installed version already satisfies")
	cmd.Flags().BoolVarP(&ignoreInstalled, "ignore-installed", "I", false, "Plan installs as if nothing were installed")
	cmd.Flags().StringArrayVarP(&reqFiles, "requirement", "r", nil, "Install from the given requirements file (repeatable)")
	cmd.Flags().StringArrayVarP(&findLinks, "find-links", "f", nil, "Look for distributions in this directory (repeatable)")
	cmd.Flags().BoolVar(&noIndex, "no-index", false, "Ignore the default find-links directories")
	cmd.Flags().BoolVarP(&editable, "editable", "e", false, "Install the named requirements in editable mode")
	cmd.Flags().IntVar(&jobs, "jobs", 0, "Maximum parallel artifact fetches (default: one per CPU)")

	return cmd
}

// installMode maps the flag combination to an upgrade policy. The most
// invasive flag wins when several are set.
func installMode(upgrade, recursive, force, ignore bool) domain.Mode {
	switch {
	case ignore:
		return domain.ModeIgnoreInstalled
	case force:
		return domain.ModeForceReinstall
	case recursive:
		return domain.ModeUpgradeRecursive
	case upgrade:
		return domain.ModeUpgradeRoots
	default:
		return domain.ModeNoUpgrade
	}
}
