package models

import "strings"

// DependencyType is the installable kind of a fact-gated dependency
type DependencyType string

const (
	DependencyTypePackage DependencyType = "package"
)

// FactOperator compares a host fact with a constraint value
type FactOperator string

const (
	FactEqual    FactOperator = "equal"
	FactNotEqual FactOperator = "not_equal"
	FactIn       FactOperator = "in"
	FactNotIn    FactOperator = "not_in"
)

// Dependency is either a ModuleDependency or a PackageDependency
type Dependency interface {
	// DependencyName returns the name the dependency is installed by
	DependencyName() string
	isDependency()
}

// ModuleDependency is a module required by metadata.json, installed from the registry
type ModuleDependency struct {
	ModuleName string `json:"module_name"`
	Version    string `json:"version,omitempty"` // Resolved version, empty for latest

	// Requirement is the unresolved version_requirement string
	Requirement string `json:"-"`
}

func (d ModuleDependency) DependencyName() string { return d.ModuleName }
func (ModuleDependency) isDependency()            {}

// String returns a human-readable representation
func (d ModuleDependency) String() string {
	if d.Version == "" {
		return d.ModuleName
	}
	return d.ModuleName + "@" + d.Version
}

// PackageDependency is a system package gated by host facts
type PackageDependency struct {
	Name string
	Type DependencyType

	// Facts is nil when the dependency applies to every host. A non-nil
	// list matches when any one constraint holds.
	Facts []FactConstraint

	SourceFile string // File where this dependency was found
}

func (d PackageDependency) DependencyName() string { return d.Name }
func (PackageDependency) isDependency()            {}

// String returns a human-readable representation
func (d PackageDependency) String() string {
	return string(d.Type) + ":" + d.Name
}

// FactConstraint gates a dependency on one host fact. Value holds a string
// for equal/not_equal and a []string for in/not_in; anything else is
// rejected by validation.
type FactConstraint struct {
	Name     string       `json:"name"`
	Operator FactOperator `json:"operator"`
	Value    any          `json:"value"`
}

// NormalizeModuleName turns "author/name" into the registry form "author-name"
func NormalizeModuleName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), "/", "-")
}

// ModuleShortName strips the author from a module name:
// "puppetlabs-vcsrepo" and "puppetlabs/vcsrepo" both become "vcsrepo"
func ModuleShortName(name string) string {
	name = NormalizeModuleName(name)
	if idx := strings.LastIndex(name, "-"); idx >= 0 {
		return name[idx+1:]
	}
	return name
}
