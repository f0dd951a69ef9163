package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ethanolivertroy/modinstall/internal/helper"
	"github.com/ethanolivertroy/modinstall/internal/installer"
	"github.com/ethanolivertroy/modinstall/internal/models"
)

var (
	flagProtocol         string
	flagSkipDependencies bool
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install dependencies, packages and the module under test on the nodeset hosts",
	Long: `install prepares every host in the nodeset:

  1. the module's metadata dependencies are resolved against the forge and
     installed with the puppet module tool (skipped with --skip-dependencies)
  2. packages from --packages whose fact constraints hold are installed
  3. the module under test is copied into the module path

Dependencies and the module go to the master hosts, or the agent hosts
when there is no master, or every host when no roles are set. A failed
install does not stop the others; the exit code is 1 when any failed.`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&flagProtocol, "protocol", models.DefaultConfig().Protocol, "Copy protocol for the module: scp, rsync")
	installCmd.Flags().BoolVar(&flagSkipDependencies, "skip-dependencies", false, "Do not install metadata dependencies")
}

func runInstall(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd, true)
	if err != nil {
		return err
	}

	hostList, err := loadHosts(config)
	if err != nil {
		return err
	}
	packages, err := loadPackages(config)
	if err != nil {
		return err
	}

	h, err := helper.New(config, helper.WithLogger(log))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var actions []models.Action

	if !flagSkipDependencies {
		depActions, err := h.InstallModuleDependencies(ctx, hostList)
		if depActions == nil && err != nil {
			return err
		}
		actions = append(actions, depActions...)
	}

	if len(packages) > 0 {
		valid, invalid := h.ValidatePackages(packages)
		actions = append(actions, invalidActions(invalid)...)

		pkgActions, err := h.InstallPackages(ctx, hostList, valid)
		if pkgActions == nil && err != nil {
			return err
		}
		actions = append(actions, pkgActions...)
	}

	modActions, err := h.InstallModule(ctx, hostList, installer.CopyOptions{Protocol: config.Protocol})
	if modActions == nil && err != nil {
		return err
	}
	actions = append(actions, modActions...)

	if err := writeReport(config, actions); err != nil {
		return err
	}
	for _, a := range actions {
		if a.Failed() {
			return errActionsFailed
		}
	}
	return nil
}
