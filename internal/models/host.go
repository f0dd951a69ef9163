package models

const (
	RoleMaster = "master"
	RoleAgent  = "agent"
)

// Host is a test host from the nodeset
type Host struct {
	Name    string            `yaml:"name"`
	Address string            `yaml:"address,omitempty"`
	User    string            `yaml:"user,omitempty"`
	Roles   []string          `yaml:"roles,omitempty"`
	Facts   map[string]string `yaml:"facts,omitempty"`
}

// HasRole reports whether the host is tagged with role
func (h Host) HasRole(role string) bool {
	for _, r := range h.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// String returns the host name
func (h Host) String() string {
	return h.Name
}
