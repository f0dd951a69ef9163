package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ethanolivertroy/modinstall/internal/logging"
	"github.com/ethanolivertroy/modinstall/internal/models"
	"github.com/ethanolivertroy/modinstall/internal/parsers"
	"github.com/ethanolivertroy/modinstall/internal/source"
)

// loadConfig resolves configuration once for the command: defaults, then
// the config file, then the environment, then explicitly set flags.
// requireModule makes a missing metadata.json fatal.
func loadConfig(cmd *cobra.Command, requireModule bool) (*models.Config, error) {
	config := models.DefaultConfig()

	root, err := source.Locate(flagModuleDir)
	switch {
	case err == nil:
		config.ModuleRoot = root
	case requireModule:
		return nil, err
	}

	configFile := flagConfig
	if configFile == "" && config.ModuleRoot != "" {
		candidate := filepath.Join(config.ModuleRoot, models.ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	if configFile != "" {
		if err := config.LoadFile(configFile); err != nil {
			return nil, err
		}
		log.V(1).Info("loaded config", "path", configFile)
	}

	config.ApplyEnv(os.LookupEnv)

	flags := cmd.Flags()
	if flags.Changed("format") {
		config.OutputFormat = flagFormat
	}
	if flags.Changed("output") {
		config.OutputFile = flagOutput
	}
	if flags.Changed("no-cache") {
		config.NoCache = flagNoCache
	}
	if flags.Changed("clear-cache") {
		config.ClearCache = flagClearCache
	}
	if flags.Changed("timeout") {
		config.Timeout = time.Duration(flagTimeout) * time.Second
	}
	if flags.Changed("parallel") {
		config.MaxConcurrent = flagParallel
	}
	if flags.Changed("metrics-file") {
		config.MetricsFile = flagMetricsFile
	} else if config.MetricsFile != "" {
		flagMetricsFile = config.MetricsFile
	}
	if flags.Changed("verbose") {
		config.Verbose = flagVerbose
	} else if config.Verbose && !flagVerbose {
		flush()
		if log, flush, err = logging.New(true); err != nil {
			return nil, err
		}
	}
	if flags.Lookup("nodeset") != nil && flags.Changed("nodeset") {
		config.NodesetFile = flagNodeset
	}
	if flags.Lookup("packages") != nil && flags.Changed("packages") {
		config.PackagesFile = flagPackages
	}
	if flags.Lookup("protocol") != nil && flags.Changed("protocol") {
		config.Protocol = flagProtocol
	}

	return config, nil
}

// loadHosts reads the nodeset named in config
func loadHosts(config *models.Config) ([]models.Host, error) {
	if config.NodesetFile == "" {
		return nil, errors.New("no nodeset given (use --nodeset)")
	}
	content, err := os.ReadFile(config.NodesetFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read nodeset: %w", err)
	}
	return parsers.ParseNodeset(content)
}

// loadPackages reads the fact-gated package list named in config, if any
func loadPackages(config *models.Config) ([]models.PackageDependency, error) {
	if config.PackagesFile == "" {
		return nil, nil
	}
	content, err := os.ReadFile(config.PackagesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read packages: %w", err)
	}
	deps, err := parsers.ParseFile(config.PackagesFile, content)
	if err != nil {
		return nil, err
	}
	return parsers.PackageDependencies(deps), nil
}
