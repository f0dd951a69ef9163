package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ethanolivertroy/modinstall/internal/helper"
	"github.com/ethanolivertroy/modinstall/internal/models"
	"github.com/ethanolivertroy/modinstall/internal/planner"
)

var (
	flagNodeset  string
	flagPackages string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show which packages would be installed on which hosts",
	Long: `plan evaluates the fact constraints of every package in the packages
file against every host in the nodeset and prints the resulting installs
without performing them. Invalid package entries are reported and skipped.`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func init() {
	for _, c := range []*cobra.Command{planCmd, installCmd} {
		c.Flags().StringVarP(&flagNodeset, "nodeset", "n", "", "Nodeset YAML listing the test hosts")
		c.Flags().StringVarP(&flagPackages, "packages", "p", "", "packages.toml with fact-gated system packages")
	}
}

func runPlan(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd, true)
	if err != nil {
		return err
	}
	if config.PackagesFile == "" {
		return fmt.Errorf("no packages file given (use --packages)")
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
		return fmt.Errorf("failed to initialize helper: %w", err)
	}

	valid, invalid := h.ValidatePackages(packages)
	actions := invalidActions(invalid)

	plan, err := h.PlanPackages(cmd.Context(), hostList, valid)
	if err != nil {
		return fmt.Errorf("failed to plan packages: %w", err)
	}
	actions = append(actions, helper.PlanActions(plan)...)

	if err := writeReport(config, actions); err != nil {
		return err
	}
	if len(invalid) > 0 {
		return errActionsFailed
	}
	return nil
}

// invalidActions reports package entries rejected by validation
func invalidActions(invalid []models.PackageDependency) []models.Action {
	actions := make([]models.Action, 0, len(invalid))
	for _, dep := range invalid {
		actions = append(actions, models.Action{
			Kind:   models.ActionPlanPackage,
			Target: dep.Name,
			Err:    fmt.Errorf("%w: %s in %s", planner.ErrInvalidDependency, dep, dep.SourceFile),
		})
	}
	return actions
}
