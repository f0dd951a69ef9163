package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-logr/logr"

	"github.com/ethanolivertroy/modinstall/internal/cache"
	"github.com/ethanolivertroy/modinstall/internal/constraint"
	"github.com/ethanolivertroy/modinstall/internal/metrics"
	"github.com/ethanolivertroy/modinstall/internal/models"
)

// ErrRegistryQueryFailed is returned when the forge answers with a non-success status
var ErrRegistryQueryFailed = errors.New("forge API error")

// maxErrorBody caps how much of a failed response ends up in the error
const maxErrorBody = 512

// Release is one published version of a module
type Release struct {
	Version string `json:"version"`
}

// forgeModule is the subset of the v3 module response we use
type forgeModule struct {
	Name     string    `json:"name"`
	Slug     string    `json:"slug"`
	Releases []Release `json:"releases"`
}

// ForgeClient handles requests to the module forge API
type ForgeClient struct {
	httpClient *http.Client
	cache      *cache.Cache
	apiURL     string
	log        logr.Logger
}

// ForgeOption configures a ForgeClient
type ForgeOption func(*ForgeClient)

// WithCache enables response caching
func WithCache(c *cache.Cache) ForgeOption {
	return func(f *ForgeClient) {
		f.cache = c
	}
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) ForgeOption {
	return func(f *ForgeClient) {
		f.httpClient = hc
	}
}

// WithLogger sets the client logger
func WithLogger(log logr.Logger) ForgeOption {
	return func(f *ForgeClient) {
		f.log = log
	}
}

// NewForgeClient creates a client for the forge API at apiURL. The URL is
// expected to be normalized already (scheme and trailing slash).
func NewForgeClient(apiURL string, timeout time.Duration, opts ...ForgeOption) *ForgeClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	c := &ForgeClient{
		httpClient: &http.Client{Timeout: timeout},
		apiURL:     apiURL,
		log:        logr.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// moduleURL returns the v3 endpoint describing moduleName
func (c *ForgeClient) moduleURL(moduleName string) string {
	return c.apiURL + "v3/modules/" + url.PathEscape(models.NormalizeModuleName(moduleName))
}

// Releases returns the known releases of moduleName in the order the forge
// lists them, newest first.
func (c *ForgeClient) Releases(ctx context.Context, moduleName string) ([]Release, error) {
	endpoint := c.moduleURL(moduleName)

	var data []byte

	// Check cache first
	if c.cache != nil {
		if cached, ok := c.cache.Get(endpoint); ok {
			c.log.V(1).Info("using cached forge response", "module", moduleName)
			metrics.RegistryQuery(metrics.ResultCached)
			data = cached
		}
	}

	// Fetch from remote if not cached
	if data == nil {
		var err error
		data, err = c.fetch(ctx, endpoint)
		metrics.RegistryQuery(resultOf(err))
		if err != nil {
			return nil, err
		}

		if c.cache != nil {
			if err := c.cache.Set(endpoint, data); err != nil {
				c.log.Error(err, "failed to cache forge response", "module", moduleName)
			}
		}
	}

	var mod forgeModule
	if err := json.Unmarshal(data, &mod); err != nil {
		return nil, fmt.Errorf("failed to parse forge response for %s: %w", moduleName, err)
	}
	return mod.Releases, nil
}

func (c *ForgeClient) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	c.log.V(1).Info("querying forge", "url", endpoint)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query forge %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read forge response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, fmt.Errorf("%w '%s': status %d: '%s'",
			ErrRegistryQueryFailed, endpoint, resp.StatusCode, string(body))
	}

	return body, nil
}

// VersionFromRequirement resolves requirement (e.g. ">= 4.13.1 <= 4.14.0")
// to the newest release of moduleName satisfying it.
func (c *ForgeClient) VersionFromRequirement(ctx context.Context, moduleName, requirement string) (version string, err error) {
	defer func() { metrics.Resolution(err) }()

	constraints, err := constraint.Parse(requirement)
	if err != nil {
		return "", err
	}

	releases, err := c.Releases(ctx, moduleName)
	if err != nil {
		return "", err
	}

	candidates := make([]string, len(releases))
	for i, rel := range releases {
		candidates[i] = rel.Version
	}

	version, err = constraint.Select(constraints, candidates)
	if err != nil {
		return "", fmt.Errorf("%w matching '%s' '%s'",
			constraint.ErrNoMatchingVersion, models.NormalizeModuleName(moduleName), requirement)
	}

	c.log.V(1).Info("resolved version", "module", moduleName, "requirement", requirement, "version", version)
	return version, nil
}

func resultOf(err error) string {
	if err != nil {
		return metrics.ResultFailure
	}
	return metrics.ResultSuccess
}
