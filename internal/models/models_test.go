package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://forge.puppet.com/", "https://forge.puppet.com/"},
		{"http://anotherhost1.com", "http://anotherhost1.com/"},
		{"an-api-url/", "https://an-api-url/"},
		{"custom", "https://custom/"},
		{"HTTPS://Upper.example", "HTTPS://Upper.example/"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeURL(tt.in), tt.in)
	}
}

func TestApplyEnv_Defaults(t *testing.T) {
	c := DefaultConfig()
	c.ApplyEnv(env(nil))

	assert.Equal(t, "https://forge.puppet.com/", c.RegistryHost)
	assert.Equal(t, "https://forgeapi.puppetlabs.com/", c.RegistryAPI)
	assert.False(t, c.StubRegistry)
}

func TestApplyEnv_Overrides(t *testing.T) {
	c := DefaultConfig()
	c.ApplyEnv(env(map[string]string{
		EnvRegistryHost: "custom",
		EnvRegistryAPI:  "an-api-url/",
	}))

	assert.Equal(t, "https://custom/", c.RegistryHost)
	assert.Equal(t, "https://an-api-url/", c.RegistryAPI)
	assert.True(t, c.StubRegistry)
}

func TestApplyEnv_IndependentOverrides(t *testing.T) {
	c := DefaultConfig()
	c.ApplyEnv(env(map[string]string{EnvRegistryAPI: "api.internal"}))

	assert.Equal(t, DefaultRegistryHost, c.RegistryHost)
	assert.Equal(t, "https://api.internal/", c.RegistryAPI)
	assert.False(t, c.StubRegistry)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(`
registry_api = "https://forgeapi.internal/"
protocol = "rsync"
parallel = 4
cache_ttl = "15m"
`), 0o644))

	c := DefaultConfig()
	require.NoError(t, c.LoadFile(path))

	assert.Equal(t, "https://forgeapi.internal/", c.RegistryAPI)
	assert.Equal(t, DefaultRegistryHost, c.RegistryHost)
	assert.Equal(t, "rsync", c.Protocol)
	assert.Equal(t, 4, c.MaxConcurrent)
	assert.Equal(t, 15*time.Minute, c.CacheTTL)
}

func TestLoadFile_UnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("registry = \"x\"\n"), 0o644))

	require.Error(t, DefaultConfig().LoadFile(path))
}

func TestModuleNames(t *testing.T) {
	assert.Equal(t, "puppetlabs-stdlib", NormalizeModuleName("puppetlabs/stdlib"))
	assert.Equal(t, "vcsrepo", ModuleShortName("puppetlabs-vcsrepo"))
	assert.Equal(t, "vcsrepo", ModuleShortName("puppetlabs/vcsrepo"))
	assert.Equal(t, "vcsrepo", ModuleShortName("vcsrepo"))
	assert.Equal(t, "vcsrepo", Metadata{Name: "puppetlabs-vcsrepo"}.ShortName())
}

func TestHost_HasRole(t *testing.T) {
	h := Host{Name: "m", Roles: []string{"master", "database"}}
	assert.True(t, h.HasRole(RoleMaster))
	assert.False(t, h.HasRole(RoleAgent))
}
