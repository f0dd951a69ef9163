package installer

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/ethanolivertroy/modinstall/internal/models"
)

// stubMarker tags the /etc/hosts lines added in stub mode
const stubMarker = "# modinstall-registry-stub"

// forgeHostnames are the public names the module tool talks to
var forgeHostnames = []string{
	"forge.puppet.com",
	"forge.puppetlabs.com",
	"forgeapi.puppet.com",
	"forgeapi.puppetlabs.com",
}

var defaultLookupHost = net.DefaultResolver.LookupHost

// withRegistryStubbed runs fn with the forge hostnames pointed at the
// configured registry host when stub mode is on.
func (i *Installer) withRegistryStubbed(ctx context.Context, host models.Host, fn func() error) error {
	if !i.opts.StubRegistry {
		return fn()
	}

	ip, err := i.registryIP(ctx)
	if err != nil {
		return err
	}

	entry := fmt.Sprintf("%s %s %s", ip, strings.Join(forgeHostnames, " "), stubMarker)
	i.log.V(1).Info("stubbing registry", "host", host.Name, "ip", ip)
	if _, err := i.runner.Run(ctx, host, []string{"sh", "-c", fmt.Sprintf("echo '%s' >> /etc/hosts", entry)}); err != nil {
		return fmt.Errorf("failed to stub registry on %s: %w", host.Name, err)
	}
	defer func() {
		if _, err := i.runner.Run(context.WithoutCancel(ctx), host, []string{"sed", "-i", "/" + stubMarker + "$/d", "/etc/hosts"}); err != nil {
			i.log.Error(err, "failed to remove registry stub", "host", host.Name)
		}
	}()

	return fn()
}

// registryIP resolves the configured registry host to an address
func (i *Installer) registryIP(ctx context.Context) (string, error) {
	u, err := url.Parse(i.opts.RegistryHost)
	if err != nil || u.Hostname() == "" {
		return "", fmt.Errorf("invalid registry host %q", i.opts.RegistryHost)
	}
	name := u.Hostname()
	if ip := net.ParseIP(name); ip != nil {
		return ip.String(), nil
	}

	addrs, err := i.opts.LookupHost(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to resolve registry host %s: %w", name, err)
	}
	if len(addrs) == 0 {
		return "", fmt.Errorf("registry host %s has no addresses", name)
	}
	return addrs[0], nil
}
