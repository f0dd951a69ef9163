package parsers

import (
	"encoding/json"
	"fmt"

	"github.com/ethanolivertroy/modinstall/internal/models"
)

// MetadataFile is the module descriptor filename
const MetadataFile = "metadata.json"

// ParseMetadata decodes a metadata.json document
func ParseMetadata(content []byte) (models.Metadata, error) {
	var meta models.Metadata
	if err := json.Unmarshal(content, &meta); err != nil {
		return models.Metadata{}, fmt.Errorf("failed to parse %s: %w", MetadataFile, err)
	}
	return meta, nil
}

// ModuleDependencies lists the dependencies declared in meta with
// normalized names. Versions are left unresolved; the requirement string
// is carried along.
func ModuleDependencies(meta models.Metadata) []models.ModuleDependency {
	deps := make([]models.ModuleDependency, 0, len(meta.Dependencies))
	for _, dep := range meta.Dependencies {
		deps = append(deps, models.ModuleDependency{
			ModuleName:  models.NormalizeModuleName(dep.Name),
			Requirement: dep.VersionRequirement,
		})
	}
	return deps
}
