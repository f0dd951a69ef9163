// Package cache keeps registry responses on disk so repeated test runs
// do not hammer the forge API.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultTTL is the default cache time-to-live
const DefaultTTL = time.Hour

// Cache provides local file-based caching for registry responses
type Cache struct {
	Dir string
	TTL time.Duration
}

// New creates a cache under the user's cache directory for appName
func New(appName string, ttl time.Duration) (*Cache, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate user cache dir: %w", err)
	}
	return NewInDir(filepath.Join(base, appName), ttl)
}

// NewInDir creates a cache rooted at dir
func NewInDir(dir string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir %s: %w", dir, err)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Cache{
		Dir: dir,
		TTL: ttl,
	}, nil
}

// Path returns the full path to the cache file for a key
func (c *Cache) Path(key string) string {
	hash := sha256.Sum256([]byte(key))
	return filepath.Join(c.Dir, hex.EncodeToString(hash[:16])+".json")
}

// Get retrieves data from cache if it exists and is not expired
func (c *Cache) Get(key string) ([]byte, bool) {
	path := c.Path(key)

	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}

	if time.Since(info.ModTime()) > c.TTL {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	return data, true
}

// Set stores data in the cache
func (c *Cache) Set(key string, data []byte) error {
	return os.WriteFile(c.Path(key), data, 0o644)
}

// Clear removes all cached responses
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.Dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}
