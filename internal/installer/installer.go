// Package installer performs install actions on test hosts.
package installer

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/go-logr/logr"

	"github.com/ethanolivertroy/modinstall/internal/hosts"
	"github.com/ethanolivertroy/modinstall/internal/metrics"
	"github.com/ethanolivertroy/modinstall/internal/models"
	"github.com/ethanolivertroy/modinstall/internal/planner"
)

// ErrUnsupportedDependencyType is returned when no installer exists for a dependency type
var ErrUnsupportedDependencyType = errors.New("unsupported dependency type")

// Options configures an Installer
type Options struct {
	// ModulePath is the directory modules are copied into on hosts
	ModulePath string

	// StubRegistry redirects the public forge hostnames to RegistryHost on
	// the host for the duration of each registry install.
	StubRegistry bool
	RegistryHost string

	// MaxConcurrent bounds how many hosts are worked on at once
	MaxConcurrent int

	// LookupHost resolves the registry hostname for stub mode.
	// Defaults to net.DefaultResolver.LookupHost.
	LookupHost func(ctx context.Context, host string) ([]string, error)
}

// CopyOptions describes copying the module under test to a host
type CopyOptions struct {
	Source     string // Local module root
	ModuleName string // Directory name on the host, without author
	Protocol   string // "scp" or "rsync"
	ModulePath string // Overrides Options.ModulePath when set
}

// Installer runs install commands through a hosts.Runner
type Installer struct {
	runner hosts.Runner
	opts   Options
	log    logr.Logger
}

// New creates an Installer
func New(runner hosts.Runner, opts Options, log logr.Logger) *Installer {
	if opts.ModulePath == "" {
		opts.ModulePath = models.DefaultModulePath
	}
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 1
	}
	if opts.LookupHost == nil {
		opts.LookupHost = defaultLookupHost
	}
	return &Installer{
		runner: runner,
		opts:   opts,
		log:    log,
	}
}

// InstallPackage installs a system package with the puppet package provider
func (i *Installer) InstallPackage(ctx context.Context, host models.Host, name string) (err error) {
	defer func() { metrics.Install(string(models.ActionInstallPkg), err) }()

	i.log.Info("installing package", "host", host.Name, "package", name)
	_, err = i.runner.Run(ctx, host, []string{"puppet", "resource", "package", name, "ensure=installed"})
	if err != nil {
		return fmt.Errorf("failed to install package %s on %s: %w", name, host.Name, err)
	}
	return nil
}

// InstallModuleFromRegistry installs dep with the puppet module tool,
// pinned to dep.Version when set.
func (i *Installer) InstallModuleFromRegistry(ctx context.Context, host models.Host, dep models.ModuleDependency) (err error) {
	defer func() { metrics.Install(string(models.ActionInstallModule), err) }()

	command := []string{"puppet", "module", "install", dep.ModuleName}
	if dep.Version != "" {
		command = append(command, "--version", dep.Version)
	}

	i.log.Info("installing module", "host", host.Name, "module", dep.ModuleName, "version", dep.Version)
	err = i.withRegistryStubbed(ctx, host, func() error {
		_, err := i.runner.Run(ctx, host, command)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to install module %s on %s: %w", dep, host.Name, err)
	}
	return nil
}

// CopyModule copies the module source tree to <module path>/<module name> on host
func (i *Installer) CopyModule(ctx context.Context, host models.Host, opts CopyOptions) (err error) {
	defer func() { metrics.Install(string(models.ActionCopyModule), err) }()

	if opts.Source == "" || opts.ModuleName == "" {
		return fmt.Errorf("copy of module to %s needs a source and a module name", host.Name)
	}

	modulePath := opts.ModulePath
	if modulePath == "" {
		modulePath = i.opts.ModulePath
	}
	dst := path.Join(modulePath, opts.ModuleName)

	i.log.Info("copying module", "host", host.Name, "source", opts.Source, "target", dst, "protocol", opts.Protocol)
	if _, err := i.runner.Run(ctx, host, []string{"mkdir", "-p", modulePath}); err != nil {
		return fmt.Errorf("failed to create %s on %s: %w", modulePath, host.Name, err)
	}
	if err := i.runner.Copy(ctx, host, opts.Source, dst, opts.Protocol); err != nil {
		return fmt.Errorf("failed to copy module %s to %s: %w", opts.ModuleName, host.Name, err)
	}
	return nil
}

// Install performs one planned (host, dependency) install, dispatching on
// the dependency type.
func (i *Installer) Install(ctx context.Context, in planner.Install) error {
	switch in.Dependency.Type {
	case models.DependencyTypePackage:
		return i.InstallPackage(ctx, in.Host, in.Dependency.Name)
	default:
		return fmt.Errorf("%w %q for %s", ErrUnsupportedDependencyType, in.Dependency.Type, in.Dependency.Name)
	}
}

// Apply attempts every planned install. A failed pair does not stop or
// undo the others; all failures are returned together. Installs for the
// same host run in plan order.
func (i *Installer) Apply(ctx context.Context, installs []planner.Install) ([]models.Action, error) {
	var order []models.Host
	byHost := make(map[string][]planner.Install)
	for _, in := range installs {
		if _, seen := byHost[in.Host.Name]; !seen {
			order = append(order, in.Host)
		}
		byHost[in.Host.Name] = append(byHost[in.Host.Name], in)
	}

	return i.PerHost(ctx, order, func(ctx context.Context, host models.Host) []models.Action {
		var actions []models.Action
		for _, in := range byHost[host.Name] {
			err := i.Install(ctx, in)
			actions = append(actions, models.Action{
				Host:   host.Name,
				Kind:   models.ActionInstallPkg,
				Target: in.Dependency.Name,
				Err:    err,
			})
		}
		return actions
	})
}
