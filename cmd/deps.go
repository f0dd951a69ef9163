package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ethanolivertroy/modinstall/internal/helper"
)

var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "List the module's dependencies with resolved versions",
	Args:  cobra.NoArgs,
	RunE:  runDeps,
}

func runDeps(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd, true)
	if err != nil {
		return err
	}

	h, err := helper.New(config, helper.WithLogger(log))
	if err != nil {
		return fmt.Errorf("failed to initialize helper: %w", err)
	}

	deps, err := h.ModuleDependenciesFromMetadata(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MODULE\tREQUIREMENT\tVERSION")
	for _, dep := range deps {
		version := dep.Version
		if version == "" {
			version = "latest"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", dep.ModuleName, dep.Requirement, version)
	}
	return w.Flush()
}
