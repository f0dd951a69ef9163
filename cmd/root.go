package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/ethanolivertroy/modinstall/internal/logging"
	"github.com/ethanolivertroy/modinstall/internal/metrics"
	"github.com/ethanolivertroy/modinstall/internal/models"
	"github.com/ethanolivertroy/modinstall/internal/reporter"
)

var (
	flagConfig      string
	flagModuleDir   string
	flagOutput      string
	flagFormat      string
	flagNoCache     bool
	flagClearCache  bool
	flagTimeout     int
	flagParallel    int
	flagVerbose     bool
	flagMetricsFile string
)

var (
	log   = logr.Discard()
	flush = func() {}
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "modinstall",
	Short: "Install a module under test and its dependencies on acceptance test hosts",
	Long: `modinstall prepares acceptance test hosts for a configuration module.

It locates the module under test by walking up from the current directory
to the nearest metadata.json, resolves the version requirements of the
module's dependencies against the forge, and installs the dependencies and
the module itself on the hosts listed in a nodeset file. System packages
can be installed per host based on host facts.

Environment:
  BEAKER_FORGE_HOST  forge host override; also redirects the public forge
                     hostnames on hosts to it while modules install
  BEAKER_FORGE_API   forge API override

Examples:
  # Resolve a version requirement
  modinstall resolve puppetlabs-stdlib ">= 4.13.1 < 5.0.0"

  # Show the module's dependencies with resolved versions
  modinstall deps

  # Show which packages would be installed where
  modinstall plan --nodeset spec/acceptance/nodesets/default.yml --packages packages.toml

  # Install dependencies, packages and the module
  modinstall install --nodeset spec/acceptance/nodesets/default.yml --packages packages.toml

  # Copy the module with rsync and write JSON results
  modinstall install --nodeset nodes.yml --protocol rsync --format json --output results.json`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		log, flush, err = logging.New(flagVerbose)
		return err
	},
}

// errActionsFailed marks a run that completed with failed actions
var errActionsFailed = errors.New("one or more actions failed")

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if flagMetricsFile != "" {
		// Written even when the command failed
		if werr := metrics.WriteTextfile(flagMetricsFile); werr != nil {
			fmt.Fprintf(os.Stderr, "failed to write metrics: %v\n", werr)
		}
	}
	flush()

	if err != nil {
		stop()
		if errors.Is(err, errActionsFailed) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagConfig, "config", "c", "", "Config file (default: "+models.ConfigFileName+" in the module root)")
	pf.StringVar(&flagModuleDir, "module-dir", ".", "Directory inside the module under test")
	pf.StringVarP(&flagOutput, "output", "o", "", "Output file path (default: stdout)")
	pf.StringVarP(&flagFormat, "format", "f", "terminal", "Output format: terminal, json")
	pf.BoolVar(&flagNoCache, "no-cache", false, "Disable forge response caching")
	pf.BoolVar(&flagClearCache, "clear-cache", false, "Drop cached forge responses before querying")
	pf.IntVar(&flagTimeout, "timeout", 60, "HTTP request timeout in seconds")
	pf.IntVar(&flagParallel, "parallel", 1, "Number of hosts to work on at once")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVar(&flagMetricsFile, "metrics-file", "", "Write prometheus metrics to this file")

	rootCmd.AddCommand(resolveCmd, depsCmd, planCmd, installCmd)
}

// writeReport renders actions in the configured format
func writeReport(config *models.Config, actions []models.Action) error {
	rep := reporter.Get(config.OutputFormat)
	output, err := rep.Report(actions)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if config.OutputFile != "" {
		if err := os.WriteFile(config.OutputFile, output, 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", config.OutputFile)
		return nil
	}

	fmt.Print(string(output))
	return nil
}
