package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/idp-analytics/identity-reports/internal/core/report"
)

var (
	// ErrNotFound means no fragment is published for the key.
	ErrNotFound = report.ErrNotFound
	// ErrUnexpectedStatus means the report host answered with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected report host status")
)

// Fetcher returns the raw bytes of one published report fragment.
type Fetcher interface {
	Fetch(ctx context.Context, key report.Key) ([]byte, error)
}

// HTTPFetcher reads fragments from the public report host.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
}

// NewHTTPFetcher creates a fetcher rooted at baseURL. A nil client gets a default one
// bounded by timeout.
func NewHTTPFetcher(baseURL string, client *http.Client, timeout time.Duration) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// URL is the absolute location of key on the report host.
func (f *HTTPFetcher) URL(key report.Key) string {
	return f.baseURL + key.Path()
}

func (f *HTTPFetcher) Fetch(ctx context.Context, key report.Key) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL(key), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", key, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", key, err)
	}
	defer resp.Body.Close()

	switch {
	// the public report bucket answers 403 for keys that were never published
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, key, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return body, nil
}

// FileSystemFetcher reads fragments from a local mirror laid out like the report host.
type FileSystemFetcher struct {
	root string
}

func NewFileSystemFetcher(root string) *FileSystemFetcher {
	return &FileSystemFetcher{root: root}
}

func (f *FileSystemFetcher) Fetch(_ context.Context, key report.Key) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(f.root, filepath.FromSlash(key.Path())))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}
