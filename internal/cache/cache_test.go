package cache

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGet(t *testing.T) {
	c, err := NewInDir(t.TempDir(), time.Minute)
	require.NoError(t, err)

	_, ok := c.Get("https://forgeapi.example/v3/modules/puppetlabs-stdlib")
	assert.False(t, ok)

	require.NoError(t, c.Set("https://forgeapi.example/v3/modules/puppetlabs-stdlib", []byte(`{"releases":[]}`)))

	data, ok := c.Get("https://forgeapi.example/v3/modules/puppetlabs-stdlib")
	require.True(t, ok)
	assert.JSONEq(t, `{"releases":[]}`, string(data))
}

func TestCache_Expired(t *testing.T) {
	c, err := NewInDir(t.TempDir(), time.Minute)
	require.NoError(t, err)
	require.NoError(t, c.Set("key", []byte("{}")))

	old := time.Now().Add(-2 * time.Minute)
	require.NoError(t, os.Chtimes(c.Path("key"), old, old))

	_, ok := c.Get("key")
	assert.False(t, ok)
}

func TestCache_Clear(t *testing.T) {
	c, err := NewInDir(t.TempDir(), 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, c.TTL)

	require.NoError(t, c.Set("a", []byte("1")))
	require.NoError(t, c.Set("b", []byte("2")))
	require.NoError(t, c.Clear())

	entries, err := os.ReadDir(c.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
