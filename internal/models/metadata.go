package models

// Metadata is the parsed module descriptor (metadata.json)
type Metadata struct {
	Name         string               `json:"name"`
	Version      string               `json:"version,omitempty"`
	Author       string               `json:"author,omitempty"`
	Dependencies []MetadataDependency `json:"dependencies,omitempty"`
}

// MetadataDependency is one entry of the descriptor's dependency list
type MetadataDependency struct {
	Name               string `json:"name"`
	VersionRequirement string `json:"version_requirement,omitempty"`
}

// ShortName returns the module name without its author
func (m Metadata) ShortName() string {
	return ModuleShortName(m.Name)
}
