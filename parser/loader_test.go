package parser

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLoader(t *testing.T) *Loader {
	t.Helper()
	return NewLoader(t.TempDir(), zap.NewNop().Sugar())
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.txt")
	require.NoError(t, os.WriteFile(path, []byte("com\nco.uk\n// comment\n"), 0644))

	rules, err := testLoader(t).LoadFromPath(path)
	require.NoError(t, err)
	require.Len(t, rules, 2)
}

func TestLoadFromPathMissing(t *testing.T) {
	_, err := testLoader(t).LoadFromPath(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}

func TestLoadFromURLConditionalFetch(t *testing.T) {
	var requests atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Etag", `"v1"`)
		_, _ = w.Write([]byte("com\nco.uk\n"))
	}))
	defer ts.Close()

	loader := testLoader(t)

	// First load fetches and caches.
	rules, err := loader.LoadFromURL(ts.URL)
	require.NoError(t, err)
	require.Len(t, rules, 2)

	// Second load sends the validator and serves the cache on 304.
	rules, err = loader.LoadFromURL(ts.URL)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	require.Equal(t, int32(2), requests.Load())
}

func TestLoadFromURLFallsBackToCache(t *testing.T) {
	var broken atomic.Bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if broken.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Last-Modified", "Mon, 02 Jan 2006 15:04:05 GMT")
		_, _ = w.Write([]byte("com\n"))
	}))
	defer ts.Close()

	loader := testLoader(t)

	rules, err := loader.LoadFromURL(ts.URL)
	require.NoError(t, err)
	require.Len(t, rules, 1)

	// A broken origin with a warm cache degrades to the cached list.
	broken.Store(true)
	rules, err = loader.LoadFromURL(ts.URL)
	require.NoError(t, err)
	require.Len(t, rules, 1)
}

func TestLoadFromURLColdCacheError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := testLoader(t).LoadFromURL(ts.URL)
	require.Error(t, err)
}
