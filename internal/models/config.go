package models

import (
	"strings"
	"time"
)

const (
	// DefaultRegistryHost is the human-facing forge host
	DefaultRegistryHost = "https://forge.puppet.com/"

	// DefaultRegistryAPI is the machine API endpoint of the forge
	DefaultRegistryAPI = "https://forgeapi.puppetlabs.com/"

	// DefaultModulePath is where modules are copied to on a host
	DefaultModulePath = "/etc/puppetlabs/code/modules"

	// EnvRegistryHost overrides the registry host and switches installs into stub mode
	EnvRegistryHost = "BEAKER_FORGE_HOST"

	// EnvRegistryAPI overrides the registry API endpoint
	EnvRegistryAPI = "BEAKER_FORGE_API"
)

// Config holds configuration for the install helper
type Config struct {
	// ModuleRoot is the directory holding the module's metadata.json.
	// It is discovered once at startup and read-only afterwards.
	ModuleRoot string `toml:"module_root"`

	// Input files
	NodesetFile  string `toml:"nodeset"`
	PackagesFile string `toml:"packages"`

	// Registry settings
	RegistryHost string `toml:"registry_host"`
	RegistryAPI  string `toml:"registry_api"`
	StubRegistry bool   `toml:"stub_registry"` // Redirect forge hostnames on hosts during installs

	// Output settings
	OutputFormat string `toml:"format"` // "terminal", "json"
	OutputFile   string `toml:"output"`
	MetricsFile  string `toml:"metrics_file"`
	Verbose      bool   `toml:"verbose"`

	// Copy settings
	Protocol   string `toml:"protocol"` // "scp", "rsync"
	ModulePath string `toml:"module_path"`

	// Cache settings
	CacheDir   string        `toml:"cache_dir"` // Defaults to <user cache dir>/modinstall
	CacheTTL   time.Duration `toml:"cache_ttl"`
	NoCache    bool          `toml:"no_cache"`
	ClearCache bool          `toml:"clear_cache"` // Drop cached responses before the first query

	// API settings
	Timeout       time.Duration `toml:"timeout"`
	MaxConcurrent int           `toml:"parallel"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		RegistryHost:  DefaultRegistryHost,
		RegistryAPI:   DefaultRegistryAPI,
		OutputFormat:  "terminal",
		Protocol:      "scp",
		ModulePath:    DefaultModulePath,
		CacheTTL:      time.Hour,
		NoCache:       false,
		Timeout:       60 * time.Second,
		MaxConcurrent: 1,
	}
}

// ApplyEnv applies registry overrides from the environment. The lookup
// function is normally os.LookupEnv. The host and API overrides are
// independent; a host override also enables stub mode.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvRegistryHost); ok && v != "" {
		c.RegistryHost = v
		c.StubRegistry = true
	}
	if v, ok := lookup(EnvRegistryAPI); ok && v != "" {
		c.RegistryAPI = v
	}
	c.RegistryHost = NormalizeURL(c.RegistryHost)
	c.RegistryAPI = NormalizeURL(c.RegistryAPI)
}

// NormalizeURL makes sure u carries a scheme and a trailing slash.
// Hosts without a scheme get https://.
func NormalizeURL(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return u
	}
	lower := strings.ToLower(u)
	if !strings.HasPrefix(lower, "https://") && !strings.HasPrefix(lower, "http://") {
		u = "https://" + u
	}
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u
}
