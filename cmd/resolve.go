package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ethanolivertroy/modinstall/internal/helper"
	"github.com/ethanolivertroy/modinstall/internal/models"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <module> <requirement>",
	Short: "Print the forge release matching a version requirement",
	Args:  cobra.ExactArgs(2),
	RunE:  runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd, false)
	if err != nil {
		return err
	}

	resolver := helper.NewResolver(config, log)
	version, err := resolver.VersionFromRequirement(cmd.Context(), models.NormalizeModuleName(args[0]), args[1])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), version)
	return nil
}
