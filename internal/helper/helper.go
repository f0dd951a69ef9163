// Package helper installs the module under test and its dependencies on
// test hosts, tying together metadata, the registry, the planner and the
// installer.
package helper

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-logr/logr"

	"github.com/ethanolivertroy/modinstall/internal/cache"
	"github.com/ethanolivertroy/modinstall/internal/clients"
	"github.com/ethanolivertroy/modinstall/internal/hosts"
	"github.com/ethanolivertroy/modinstall/internal/installer"
	"github.com/ethanolivertroy/modinstall/internal/models"
	"github.com/ethanolivertroy/modinstall/internal/parsers"
	"github.com/ethanolivertroy/modinstall/internal/planner"
	"github.com/ethanolivertroy/modinstall/internal/source"
)

// VersionResolver resolves a version requirement against the registry
type VersionResolver interface {
	VersionFromRequirement(ctx context.Context, moduleName, requirement string) (string, error)
}

// Helper orchestrates module installs for an acceptance test run
type Helper struct {
	config    *models.Config
	fs        billy.Filesystem
	resolver  VersionResolver
	runner    hosts.Runner
	facts     planner.FactSource
	log       logr.Logger
	installer *installer.Installer
	planner   *planner.Planner

	metaOnce sync.Once
	meta     models.Metadata
	metaErr  error
}

// Option configures a Helper
type Option func(*Helper)

// WithFilesystem sets the filesystem the module root is read from
func WithFilesystem(fs billy.Filesystem) Option {
	return func(h *Helper) { h.fs = fs }
}

// WithResolver replaces the forge client used for version resolution
func WithResolver(r VersionResolver) Option {
	return func(h *Helper) { h.resolver = r }
}

// WithRunner replaces the command runner used to reach hosts
func WithRunner(r hosts.Runner) Option {
	return func(h *Helper) { h.runner = r }
}

// WithFactSource replaces the fact lookup used for planning
func WithFactSource(f planner.FactSource) Option {
	return func(h *Helper) { h.facts = f }
}

// WithLogger sets the logger
func WithLogger(log logr.Logger) Option {
	return func(h *Helper) { h.log = log }
}

// New creates a Helper for the module rooted at config.ModuleRoot
func New(config *models.Config, opts ...Option) (*Helper, error) {
	if config.ModuleRoot == "" {
		return nil, errors.New("module root is not set")
	}

	h := &Helper{
		config: config,
		log:    logr.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}

	if h.fs == nil {
		h.fs = source.OS()
	}
	if h.runner == nil {
		h.runner = hosts.NewSSHRunner(h.log.WithName("runner"))
	}
	if h.facts == nil {
		h.facts = &hosts.FactLookup{Runner: h.runner}
	}
	if h.resolver == nil {
		h.resolver = NewResolver(config, h.log)
	}

	h.installer = installer.New(h.runner, installer.Options{
		ModulePath:    config.ModulePath,
		StubRegistry:  config.StubRegistry,
		RegistryHost:  config.RegistryHost,
		MaxConcurrent: config.MaxConcurrent,
	}, h.log.WithName("installer"))
	h.planner = planner.New(h.facts, planner.WithLogger(h.log.WithName("planner")))

	return h, nil
}

// NewResolver builds the forge client for config. Cache problems are
// logged and the client runs uncached.
func NewResolver(config *models.Config, log logr.Logger) *clients.ForgeClient {
	c, err := openCache(config)
	if err != nil {
		log.Error(err, "registry cache disabled")
		c = nil
	}
	return clients.NewForgeClient(config.RegistryAPI, config.Timeout,
		clients.WithCache(c), clients.WithLogger(log.WithName("forge")))
}

func openCache(config *models.Config) (*cache.Cache, error) {
	if config.NoCache {
		return nil, nil
	}

	var c *cache.Cache
	var err error
	if config.CacheDir != "" {
		c, err = cache.NewInDir(config.CacheDir, config.CacheTTL)
	} else {
		c, err = cache.New("modinstall", config.CacheTTL)
	}
	if err != nil {
		return nil, err
	}

	if config.ClearCache {
		if err := c.Clear(); err != nil {
			return nil, fmt.Errorf("failed to clear cache %s: %w", c.Dir, err)
		}
	}
	return c, nil
}

// ModuleMetadata returns the parsed metadata.json of the module under test
func (h *Helper) ModuleMetadata() (models.Metadata, error) {
	h.metaOnce.Do(func() {
		h.meta, h.metaErr = source.ReadMetadata(h.fs, h.config.ModuleRoot)
	})
	return h.meta, h.metaErr
}

// ModuleName returns the module name without its author, e.g. "vcsrepo"
func (h *Helper) ModuleName() (string, error) {
	meta, err := h.ModuleMetadata()
	if err != nil {
		return "", err
	}
	return meta.ShortName(), nil
}

// ResolveVersion resolves requirement for moduleName against the registry
func (h *Helper) ResolveVersion(ctx context.Context, moduleName, requirement string) (string, error) {
	return h.resolver.VersionFromRequirement(ctx, models.NormalizeModuleName(moduleName), requirement)
}

// ModuleDependenciesFromMetadata lists the dependencies declared in
// metadata.json. Dependencies with a version requirement are resolved to
// a concrete release; the others carry no version.
func (h *Helper) ModuleDependenciesFromMetadata(ctx context.Context) ([]models.ModuleDependency, error) {
	meta, err := h.ModuleMetadata()
	if err != nil {
		return nil, err
	}

	deps := parsers.ModuleDependencies(meta)
	for i, dep := range deps {
		if dep.Requirement == "" {
			continue
		}
		deps[i].Version, err = h.ResolveVersion(ctx, dep.ModuleName, dep.Requirement)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve dependency %s: %w", dep.ModuleName, err)
		}
	}
	return deps, nil
}
