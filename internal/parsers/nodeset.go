package parsers

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ethanolivertroy/modinstall/internal/models"
)

// nodesetHost is one entry under HOSTS in a nodeset file
type nodesetHost struct {
	Roles    []string          `yaml:"roles"`
	IP       string            `yaml:"ip"`
	Hostname string            `yaml:"hostname"`
	User     string            `yaml:"user"`
	Facts    map[string]string `yaml:"facts"`
}

// ParseNodeset reads test hosts from a nodeset document:
//
//	HOSTS:
//	  centos7-64:
//	    roles: [master, agent]
//	    ip: 10.0.0.5
//	    facts:
//	      osfamily: RedHat
//
// Hosts are returned in file order.
func ParseNodeset(content []byte) ([]models.Host, error) {
	var doc struct {
		Hosts yaml.Node `yaml:"HOSTS"`
	}
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse nodeset: %w", err)
	}

	if doc.Hosts.Kind == 0 {
		return nil, fmt.Errorf("nodeset has no HOSTS section")
	}
	if doc.Hosts.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("nodeset HOSTS must be a mapping (line %d)", doc.Hosts.Line)
	}

	// Mapping content alternates key and value nodes
	hosts := make([]models.Host, 0, len(doc.Hosts.Content)/2)
	for i := 0; i+1 < len(doc.Hosts.Content); i += 2 {
		name := doc.Hosts.Content[i].Value

		var entry nodesetHost
		if err := doc.Hosts.Content[i+1].Decode(&entry); err != nil {
			return nil, fmt.Errorf("failed to parse host %s: %w", name, err)
		}

		address := entry.IP
		if address == "" {
			address = entry.Hostname
		}
		hosts = append(hosts, models.Host{
			Name:    name,
			Address: address,
			User:    entry.User,
			Roles:   entry.Roles,
			Facts:   entry.Facts,
		})
	}
	return hosts, nil
}
