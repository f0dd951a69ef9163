package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethanolivertroy/modinstall/internal/models"
)

func TestModuleDependencies(t *testing.T) {
	content := []byte(`{
  "name": "puppetlabs-vcsrepo",
  "dependencies": [
    {"name": "puppetlabs/stdlib", "version_requirement": ">= 4.13.1 <= 4.14.0"},
    {"name": "puppetlabs/concat"}
  ]
}`)

	meta, err := ParseMetadata(content)
	require.NoError(t, err)

	want := []models.ModuleDependency{
		{ModuleName: "puppetlabs-stdlib", Requirement: ">= 4.13.1 <= 4.14.0"},
		{ModuleName: "puppetlabs-concat"},
	}
	assert.Equal(t, want, ModuleDependencies(meta))
}

func TestModuleDependencies_None(t *testing.T) {
	for _, content := range []string{
		`{"name": "puppetlabs-vcsrepo"}`,
		`{"name": "puppetlabs-vcsrepo", "dependencies": []}`,
	} {
		meta, err := ParseMetadata([]byte(content))
		require.NoError(t, err)
		assert.Empty(t, ModuleDependencies(meta))
	}
}

func TestParseMetadata_Invalid(t *testing.T) {
	_, err := ParseMetadata([]byte(`{"name":`))
	require.Error(t, err)
}

func TestPackagesParser(t *testing.T) {
	content := []byte(`
[[package]]
name = "git"
type = "package"

[[package]]
name = "yum-utils"
type = "package"

  [[package.facts]]
  name = "osfamily"
  operator = "in"
  value = ["RedHat", "Amazon"]

  [[package.facts]]
  name = "kernel"
  operator = "equal"
  value = "Linux"

[[package]]
name = "broken"
type = "package"
facts = [{ name = "osfamily", operator = "equal", value = ["RedHat"] }]

[[package]]
name = "never"
type = "package"
facts = []
`)

	deps, err := (&PackagesParser{}).Parse("packages.toml", content)
	require.NoError(t, err)
	pkgs := PackageDependencies(deps)
	require.Len(t, pkgs, 4)

	assert.Equal(t, "git", pkgs[0].Name)
	assert.Nil(t, pkgs[0].Facts)

	require.Len(t, pkgs[1].Facts, 2)
	assert.Equal(t, models.FactConstraint{Name: "osfamily", Operator: models.FactIn, Value: []string{"RedHat", "Amazon"}}, pkgs[1].Facts[0])
	assert.Equal(t, models.FactConstraint{Name: "kernel", Operator: models.FactEqual, Value: "Linux"}, pkgs[1].Facts[1])

	// equal with a list is kept as written for the validator to reject
	assert.Equal(t, []string{"RedHat"}, pkgs[2].Facts[0].Value)

	assert.NotNil(t, pkgs[3].Facts)
	assert.Empty(t, pkgs[3].Facts)
}

func TestPackagesParser_MixedList(t *testing.T) {
	deps, err := (&PackagesParser{}).Parse("packages.toml", []byte(`
[[package]]
name = "git"
type = "package"
facts = [{ name = "release", operator = "in", value = ["7", 8] }]
`))
	require.NoError(t, err)
	pkgs := PackageDependencies(deps)
	require.Len(t, pkgs, 1)
	_, isStrings := pkgs[0].Facts[0].Value.([]string)
	assert.False(t, isStrings)
}

func TestParseFile_PicksParser(t *testing.T) {
	deps, err := ParseFile("/a/b/web.packages.toml", []byte("[[package]]\nname = \"git\"\ntype = \"package\"\n"))
	require.NoError(t, err)
	assert.Equal(t, []models.Dependency{
		models.PackageDependency{Name: "git", Type: models.DependencyTypePackage, SourceFile: "/a/b/web.packages.toml"},
	}, deps)

	_, err = ParseFile("/a/b/Gemfile", nil)
	require.Error(t, err)
}

func TestParseFile_RejectsMetadata(t *testing.T) {
	_, err := ParseFile("/a/b/metadata.json", []byte(`{"name":"x-y","dependencies":[{"name":"a/b"}]}`))
	assert.ErrorContains(t, err, "no parser for /a/b/metadata.json")
}

func TestParseNodeset(t *testing.T) {
	content := []byte(`
HOSTS:
  master.example:
    roles:
      - master
      - database
    ip: 10.0.0.5
    user: root
    facts:
      osfamily: RedHat
  agent.example:
    roles: [agent]
    hostname: agent.internal
    facts:
      osfamily: Debian
CONFIG:
  type: foss
`)

	hosts, err := ParseNodeset(content)
	require.NoError(t, err)
	require.Len(t, hosts, 2)

	assert.Equal(t, models.Host{
		Name:    "master.example",
		Address: "10.0.0.5",
		User:    "root",
		Roles:   []string{"master", "database"},
		Facts:   map[string]string{"osfamily": "RedHat"},
	}, hosts[0])
	assert.Equal(t, "agent.example", hosts[1].Name)
	assert.Equal(t, "agent.internal", hosts[1].Address)
	assert.True(t, hosts[1].HasRole(models.RoleAgent))
}

func TestParseNodeset_Errors(t *testing.T) {
	_, err := ParseNodeset([]byte("CONFIG: {}\n"))
	require.Error(t, err)

	_, err = ParseNodeset([]byte("HOSTS: [a, b]\n"))
	require.Error(t, err)
}
