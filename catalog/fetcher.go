package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Fetcher reads one named data resource (shops.json, per-shop product files,
// online-agent.json). Implementations must be safe for concurrent use: the
// aggregator fans out one fetch per shop.
type Fetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// FileFetcher reads resources from a local data directory.
type FileFetcher struct {
	Dir string
}

func (f FileFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(f.Dir, filepath.Clean(name)))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// HTTPFetcher reads resources relative to a base URL.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

func (f HTTPFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	u, err := url.JoinPath(f.BaseURL, name)
	if err != nil {
		return nil, fmt.Errorf("join url %s: %w", name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: status %d", name, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// NewFetcher picks HTTP when a base URL is configured, local files otherwise.
func NewFetcher(dataDir, baseURL string) Fetcher {
	if baseURL != "" {
		return HTTPFetcher{BaseURL: baseURL}
	}
	return FileFetcher{Dir: dataDir}
}
