package hosts

import "github.com/ethanolivertroy/modinstall/internal/models"

// WithRole returns the hosts tagged with role, in input order
func WithRole(hosts []models.Host, role string) []models.Host {
	var out []models.Host
	for _, h := range hosts {
		if h.HasRole(role) {
			out = append(out, h)
		}
	}
	return out
}

// SelectForModule picks the hosts the module under test is copied to:
// master hosts if any, otherwise agent hosts, otherwise every host.
func SelectForModule(hosts []models.Host) []models.Host {
	if masters := WithRole(hosts, models.RoleMaster); len(masters) > 0 {
		return masters
	}
	if agents := WithRole(hosts, models.RoleAgent); len(agents) > 0 {
		return agents
	}
	return hosts
}
