package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"publicsuffix/engine"
)

func TestTTLCacheSetGet(t *testing.T) {
	c := NewTTLCache()
	defer c.Stop()

	res := engine.Result{PublicSuffix: "co.uk", RegisteredDomain: "bbc.co.uk"}
	c.Set("www.bbc.co.uk", res, time.Minute)

	got, ok := c.Get("www.bbc.co.uk")
	require.True(t, ok)
	require.Equal(t, res, got)

	_, ok = c.Get("other.host")
	require.False(t, ok)
}

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache()
	defer c.Stop()

	c.Set("host", engine.Result{PublicSuffix: "com"}, -time.Second)
	_, ok := c.Get("host")
	require.False(t, ok)

	// Expired entries are also swept by cleanup.
	c.cleanup()
	c.mu.RLock()
	defer c.mu.RUnlock()
	require.Empty(t, c.items)
}
