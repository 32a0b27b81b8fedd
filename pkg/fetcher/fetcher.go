// Package fetcher downloads pages and stylesheets over HTTP with an
// optional on-disk cache.
package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/dtnitsch/ninja-snatch/pkg/caching"
	"github.com/dtnitsch/ninja-snatch/pkg/dom"
)

const (
	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36 ninja-snatch"
	// maxBodyBytes caps a single response.
	maxBodyBytes = 20 << 20
)

// AccessFunc is called after every network fetch (cache hits excluded).
type AccessFunc func(rawURL string, statusCode int, err error)

type Fetcher struct {
	client   *http.Client
	cache    *caching.Cache
	logger   *slog.Logger
	OnAccess AccessFunc
}

// NewFetcher returns a Fetcher. cache and logger may be nil.
func NewFetcher(timeout time.Duration, cache *caching.Cache, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		cache:  cache,
		logger: logger,
	}
}

// GetHtml fetches rawURL and parses it into a Document.
func (f *Fetcher) GetHtml(ctx context.Context, rawURL string) (*dom.Document, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	bodyBytes, err := f.GetHtmlBytes(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	doc, err := dom.Parse(bytes.NewReader(bodyBytes), u)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// GetHtmlBytes returns the body of rawURL, from the cache when fresh.
func (f *Fetcher) GetHtmlBytes(ctx context.Context, rawURL string) ([]byte, error) {
	if data, ok := f.cache.Get(rawURL); ok {
		f.logger.Debug("Cache hit", "url", rawURL)
		return data, nil
	}

	bodyBytes, status, err := f.get(ctx, rawURL)
	if f.OnAccess != nil {
		f.OnAccess(rawURL, status, err)
	}
	if err != nil {
		return nil, err
	}

	if err := f.cache.Set(rawURL, bodyBytes); err != nil {
		f.logger.Warn("Failed to cache response", "url", rawURL, "error", err)
	}
	return bodyBytes, nil
}

// Load fetches a stylesheet. It satisfies cssom.Loader.
func (f *Fetcher) Load(ctx context.Context, u *url.URL) ([]byte, error) {
	return f.GetHtmlBytes(ctx, u.String())
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, fmt.Errorf("failed to fetch %s, status code: %d", rawURL, resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	return bodyBytes, resp.StatusCode, nil
}
