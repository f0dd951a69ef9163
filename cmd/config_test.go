package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethanolivertroy/modinstall/internal/models"
)

func writeModule(t *testing.T, configFile string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "metadata.json"),
		[]byte(`{"name": "puppetlabs-vcsrepo", "version": "1.0.0", "dependencies": []}`), 0o644))
	if configFile != "" {
		require.NoError(t, os.WriteFile(filepath.Join(root, models.ConfigFileName), []byte(configFile), 0o644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(root, "spec", "acceptance"), 0o755))
	return root
}

func setModuleDir(t *testing.T, dir string) {
	t.Helper()
	old := flagModuleDir
	flagModuleDir = dir
	t.Cleanup(func() { flagModuleDir = old })
}

func TestLoadConfigDefaults(t *testing.T) {
	root := writeModule(t, "")
	setModuleDir(t, filepath.Join(root, "spec", "acceptance"))
	t.Setenv(models.EnvRegistryHost, "")
	t.Setenv(models.EnvRegistryAPI, "")

	config, err := loadConfig(&cobra.Command{}, true)
	require.NoError(t, err)

	assert.Equal(t, root, config.ModuleRoot)
	assert.Equal(t, models.DefaultRegistryHost, config.RegistryHost)
	assert.Equal(t, models.DefaultRegistryAPI, config.RegistryAPI)
	assert.False(t, config.StubRegistry)
	assert.Equal(t, "scp", config.Protocol)
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	root := writeModule(t, `
registry_api = "forge-api.example.com"
protocol = "rsync"
cache_ttl = "10m"
parallel = 4
`)
	setModuleDir(t, root)
	t.Setenv(models.EnvRegistryHost, "forge.internal")
	t.Setenv(models.EnvRegistryAPI, "")

	config, err := loadConfig(&cobra.Command{}, true)
	require.NoError(t, err)

	assert.Equal(t, "https://forge-api.example.com/", config.RegistryAPI)
	assert.Equal(t, "https://forge.internal/", config.RegistryHost)
	assert.True(t, config.StubRegistry)
	assert.Equal(t, "rsync", config.Protocol)
	assert.Equal(t, 10*time.Minute, config.CacheTTL)
	assert.Equal(t, 4, config.MaxConcurrent)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	root := writeModule(t, `registry_api = "https://from-file.example.com/"`)
	setModuleDir(t, root)
	t.Setenv(models.EnvRegistryHost, "")
	t.Setenv(models.EnvRegistryAPI, "http://from-env.example.com")

	config, err := loadConfig(&cobra.Command{}, true)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env.example.com/", config.RegistryAPI)
}

func TestLoadConfigFlagsWin(t *testing.T) {
	root := writeModule(t, `protocol = "scp"`)
	setModuleDir(t, root)
	t.Setenv(models.EnvRegistryHost, "")
	t.Setenv(models.EnvRegistryAPI, "")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&flagProtocol, "protocol", "scp", "")
	cmd.Flags().IntVar(&flagParallel, "parallel", 1, "")
	cmd.Flags().StringVar(&flagNodeset, "nodeset", "", "")
	require.NoError(t, cmd.ParseFlags([]string{"--protocol", "rsync", "--parallel", "3", "--nodeset", "nodes.yml"}))

	config, err := loadConfig(cmd, true)
	require.NoError(t, err)

	assert.Equal(t, "rsync", config.Protocol)
	assert.Equal(t, 3, config.MaxConcurrent)
	assert.Equal(t, "nodes.yml", config.NodesetFile)
}

func TestLoadConfigMissingModule(t *testing.T) {
	setModuleDir(t, t.TempDir())

	_, err := loadConfig(&cobra.Command{}, true)
	require.Error(t, err)

	config, err := loadConfig(&cobra.Command{}, false)
	require.NoError(t, err)
	assert.Empty(t, config.ModuleRoot)
}

func TestLoadConfigUnknownKey(t *testing.T) {
	root := writeModule(t, `no_such_setting = true`)
	setModuleDir(t, root)

	_, err := loadConfig(&cobra.Command{}, true)
	assert.ErrorContains(t, err, "no_such_setting")
}
