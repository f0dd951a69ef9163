package helper

import (
	"context"
	"fmt"

	"github.com/ethanolivertroy/modinstall/internal/hosts"
	"github.com/ethanolivertroy/modinstall/internal/installer"
	"github.com/ethanolivertroy/modinstall/internal/models"
	"github.com/ethanolivertroy/modinstall/internal/planner"
)

// InstallModuleOn copies the module under test to host under its short
// name. Unset fields of opts fall back to the module root and config.
func (h *Helper) InstallModuleOn(ctx context.Context, host models.Host, opts installer.CopyOptions) error {
	if opts.ModuleName == "" {
		name, err := h.ModuleName()
		if err != nil {
			return err
		}
		opts.ModuleName = name
	}
	if opts.Source == "" {
		opts.Source = h.config.ModuleRoot
	}
	if opts.Protocol == "" {
		opts.Protocol = h.config.Protocol
	}
	return h.installer.CopyModule(ctx, host, opts)
}

// InstallModule copies the module under test to the hosts chosen by
// hosts.SelectForModule.
func (h *Helper) InstallModule(ctx context.Context, hostList []models.Host, opts installer.CopyOptions) ([]models.Action, error) {
	name, err := h.ModuleName()
	if err != nil {
		return nil, err
	}

	return h.installer.PerHost(ctx, hosts.SelectForModule(hostList), func(ctx context.Context, host models.Host) []models.Action {
		err := h.InstallModuleOn(ctx, host, opts)
		return []models.Action{{Host: host.Name, Kind: models.ActionCopyModule, Target: name, Err: err}}
	})
}

// InstallModuleDependenciesOn installs deps from the registry on every
// host. When deps is nil the dependencies come from metadata.json.
func (h *Helper) InstallModuleDependenciesOn(ctx context.Context, hostList []models.Host, deps []models.ModuleDependency) ([]models.Action, error) {
	if deps == nil {
		var err error
		deps, err = h.ModuleDependenciesFromMetadata(ctx)
		if err != nil {
			return nil, err
		}
	}

	return h.installer.PerHost(ctx, hostList, func(ctx context.Context, host models.Host) []models.Action {
		actions := make([]models.Action, 0, len(deps))
		for _, dep := range deps {
			err := h.installer.InstallModuleFromRegistry(ctx, host, dep)
			actions = append(actions, models.Action{
				Host:    host.Name,
				Kind:    models.ActionInstallModule,
				Target:  dep.ModuleName,
				Version: dep.Version,
				Err:     err,
			})
		}
		return actions
	})
}

// InstallModuleDependencies installs the metadata dependencies on the
// hosts chosen by hosts.SelectForModule.
func (h *Helper) InstallModuleDependencies(ctx context.Context, hostList []models.Host) ([]models.Action, error) {
	return h.InstallModuleDependenciesOn(ctx, hosts.SelectForModule(hostList), nil)
}

// InstallModuleFromRegistryOn resolves requirement for moduleName and
// installs the result on every host. An empty requirement installs the
// latest release.
func (h *Helper) InstallModuleFromRegistryOn(ctx context.Context, hostList []models.Host, moduleName, requirement string) ([]models.Action, error) {
	dep := models.ModuleDependency{
		ModuleName:  models.NormalizeModuleName(moduleName),
		Requirement: requirement,
	}
	if requirement != "" {
		version, err := h.ResolveVersion(ctx, dep.ModuleName, requirement)
		if err != nil {
			return nil, err
		}
		dep.Version = version
	}
	return h.InstallModuleDependenciesOn(ctx, hostList, []models.ModuleDependency{dep})
}

// ValidatePackages splits deps into valid and invalid entries
func (h *Helper) ValidatePackages(deps []models.PackageDependency) (valid, invalid []models.PackageDependency) {
	for _, dep := range deps {
		if planner.ValidateDependency(dep) {
			valid = append(valid, dep)
		} else {
			invalid = append(invalid, dep)
		}
	}
	return valid, invalid
}

// PlanPackages returns the fact-gated package installs for hostList
func (h *Helper) PlanPackages(ctx context.Context, hostList []models.Host, deps []models.PackageDependency) ([]planner.Install, error) {
	return h.planner.Plan(ctx, hostList, deps)
}

// InstallPackages plans and installs fact-gated packages
func (h *Helper) InstallPackages(ctx context.Context, hostList []models.Host, deps []models.PackageDependency) ([]models.Action, error) {
	plan, err := h.PlanPackages(ctx, hostList, deps)
	if err != nil {
		return nil, fmt.Errorf("failed to plan packages: %w", err)
	}
	return h.installer.Apply(ctx, plan)
}

// PlanActions renders a plan as actions for reporting
func PlanActions(plan []planner.Install) []models.Action {
	actions := make([]models.Action, 0, len(plan))
	for _, in := range plan {
		actions = append(actions, models.Action{
			Host:   in.Host.Name,
			Kind:   models.ActionPlanPackage,
			Target: in.Dependency.Name,
		})
	}
	return actions
}
