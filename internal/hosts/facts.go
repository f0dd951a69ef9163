package hosts

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethanolivertroy/modinstall/internal/models"
)

// FactLookup reads facts from the nodeset when present and falls back to
// running facter on the host. Nothing is cached.
type FactLookup struct {
	Runner Runner
}

// Fact implements planner.FactSource
func (f *FactLookup) Fact(ctx context.Context, host models.Host, name string) (string, error) {
	if v, ok := host.Facts[name]; ok {
		return v, nil
	}
	if f.Runner == nil {
		return "", fmt.Errorf("fact %s not set for %s", name, host.Name)
	}

	res, err := f.Runner.Run(ctx, host, []string{"facter", "-p", name})
	if err != nil {
		return "", fmt.Errorf("facter %s: %w", name, err)
	}
	return strings.TrimSpace(res.Stdout), nil
}
