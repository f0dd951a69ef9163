package parsers

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ethanolivertroy/modinstall/internal/models"
)

// PackagesParser parses packages.toml files listing fact-gated packages:
//
//	[[package]]
//	name = "yum-utils"
//	type = "package"
//
//	  [[package.facts]]
//	  name = "osfamily"
//	  operator = "in"
//	  value = ["RedHat", "Amazon"]
type PackagesParser struct{}

// CanParse returns true for packages.toml files
func (p *PackagesParser) CanParse(filename string) bool {
	return filename == "packages.toml" || strings.HasSuffix(filename, ".packages.toml")
}

type packagesFile struct {
	Packages []packageEntry `toml:"package"`
}

type packageEntry struct {
	Name string `toml:"name"`
	Type string `toml:"type"`
	// Pointer so an absent key stays distinguishable from an empty list
	Facts *[]factEntry `toml:"facts"`
}

type factEntry struct {
	Name     string `toml:"name"`
	Operator string `toml:"operator"`
	Value    any    `toml:"value"`
}

// Parse extracts package dependencies from packages.toml content. Entries
// are returned as written; shape checks are left to the planner's
// validators so callers can report bad entries.
func (p *PackagesParser) Parse(filepath string, content []byte) ([]models.Dependency, error) {
	var file packagesFile
	if _, err := toml.Decode(string(content), &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath, err)
	}

	deps := make([]models.Dependency, 0, len(file.Packages))
	for _, entry := range file.Packages {
		dep := models.PackageDependency{
			Name:       entry.Name,
			Type:       models.DependencyType(entry.Type),
			SourceFile: filepath,
		}
		if entry.Facts != nil {
			dep.Facts = make([]models.FactConstraint, 0, len(*entry.Facts))
			for _, f := range *entry.Facts {
				dep.Facts = append(dep.Facts, models.FactConstraint{
					Name:     f.Name,
					Operator: models.FactOperator(f.Operator),
					Value:    normalizeFactValue(f.Value),
				})
			}
		}
		deps = append(deps, dep)
	}
	return deps, nil
}

// PackageDependencies keeps only the package variants of deps
func PackageDependencies(deps []models.Dependency) []models.PackageDependency {
	var out []models.PackageDependency
	for _, dep := range deps {
		if pkg, ok := dep.(models.PackageDependency); ok {
			out = append(out, pkg)
		}
	}
	return out
}

// normalizeFactValue turns a TOML array of strings into []string. Other
// values are returned untouched.
func normalizeFactValue(v any) any {
	list, ok := v.([]any)
	if !ok {
		return v
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return v
		}
		out = append(out, s)
	}
	return out
}
