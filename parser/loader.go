package parser

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// ErrNotModified is returned by a Fetcher when the server reports the
// list is unchanged since the validators sent with the request.
var ErrNotModified = errors.New("rule list not modified")

// Fetcher retrieves raw rule text. The loader never depends on a concrete
// transport; the stock implementation is HTTPFetcher.
type Fetcher interface {
	Fetch(url string, headers map[string]string) (body []byte, respHeaders http.Header, err error)
}

// HTTPFetcher fetches rule text over plain HTTP(S).
type HTTPFetcher struct {
	Client *http.Client
}

func (f *HTTPFetcher) Fetch(url string, headers map[string]string) ([]byte, http.Header, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return nil, resp.Header, ErrNotModified
	}
	if resp.StatusCode != http.StatusOK {
		return nil, resp.Header, fmt.Errorf("bad status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.Header, err
	}
	return body, resp.Header, nil
}

// CacheMeta stores cached URL data with the validators needed for
// conditional requests on the next refresh.
type CacheMeta struct {
	FetchedAt    time.Time `json:"fetched_at"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	RulesFile    string    `json:"rules_file"` // Relative filename for rules data
}

// Loader handles fetching and parsing rule lists from various sources.
type Loader struct {
	Fetcher Fetcher
	DataDir string // Directory for caching URL data
	log     *zap.SugaredLogger
}

// NewLoader creates a new Loader with a default HTTP fetcher.
func NewLoader(dataDir string, log *zap.SugaredLogger) *Loader {
	return &Loader{
		Fetcher: &HTTPFetcher{
			Client: &http.Client{Timeout: 30 * time.Second},
		},
		DataDir: dataDir,
		log:     log,
	}
}

// LoadFromPath reads rules from a local file.
func (l *Loader) LoadFromPath(path string) ([]*Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// LoadFromURL fetches rules from a URL, reusing the on-disk cache via a
// conditional request. A fetch failure with a warm cache degrades to the
// cached list instead of failing the load.
func (l *Loader) LoadFromURL(url string) ([]*Rule, error) {
	cacheKey := urlToCacheKey(url)
	metaFile := filepath.Join(l.DataDir, cacheKey+".meta.json")
	rulesFile := filepath.Join(l.DataDir, cacheKey+".rules.txt")

	// 1. Read cache meta to build conditional headers
	meta, haveMeta := l.readCacheMeta(metaFile)
	headers := map[string]string{}
	if haveMeta {
		if meta.ETag != "" {
			headers["If-None-Match"] = meta.ETag
		}
		if meta.LastModified != "" {
			headers["If-Modified-Since"] = meta.LastModified
		}
	}

	// 2. Fetch
	body, respHeaders, err := l.Fetcher.Fetch(url, headers)
	switch {
	case errors.Is(err, ErrNotModified):
		l.log.Infow("rule list not modified, using cache", "url", url)
		return l.LoadFromPath(rulesFile)
	case err != nil:
		if haveMeta {
			if rules, cacheErr := l.LoadFromPath(rulesFile); cacheErr == nil {
				l.log.Warnw("fetch failed, falling back to cache", "url", url, "error", err)
				return rules, nil
			}
		}
		return nil, fmt.Errorf("fetch %q: %w", url, err)
	}

	// 3. Write the fresh list and its validators to the cache
	if err := os.MkdirAll(l.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(rulesFile, body, 0644); err != nil {
		return nil, fmt.Errorf("write cache file: %w", err)
	}
	newMeta := CacheMeta{
		FetchedAt:    time.Now(),
		ETag:         respHeaders.Get("Etag"),
		LastModified: respHeaders.Get("Last-Modified"),
		RulesFile:    cacheKey + ".rules.txt",
	}
	if err := l.writeCacheMeta(metaFile, newMeta); err != nil {
		l.log.Warnw("failed to write cache meta", "url", url, "error", err)
	}

	rules, err := Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	l.log.Infow("fetched rule list", "url", url, "rules", len(rules))
	return rules, nil
}

func (l *Loader) readCacheMeta(path string) (CacheMeta, bool) {
	var meta CacheMeta
	data, err := os.ReadFile(path)
	if err != nil {
		return meta, false
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, false
	}
	return meta, true
}

func (l *Loader) writeCacheMeta(path string, meta CacheMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func urlToCacheKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return hex.EncodeToString(hash[:8]) // First 8 bytes (16 chars)
}
