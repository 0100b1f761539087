package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

var (
	// ErrFeedTooLarge is returned when the body exceeds the configured cap.
	ErrFeedTooLarge = errors.New("feed exceeds size limit")
	// ErrNoFeedURL is returned when no feed location is configured.
	ErrNoFeedURL = errors.New("no feed URL configured")
)

// HTTPSource downloads feeds over HTTP.
type HTTPSource struct {
	httpClient *http.Client
	maxBytes   int64
}

// NewHTTPSource creates a source whose requests are bounded by timeout.
// maxBytes <= 0 disables the body size cap.
func NewHTTPSource(timeout time.Duration, maxBytes int64) *HTTPSource {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &HTTPSource{
		httpClient: &http.Client{Timeout: timeout},
		maxBytes:   maxBytes,
	}
}

// Fetch downloads the feed body at url.
func (s *HTTPSource) Fetch(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, ErrNoFeedURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "inventory-sync/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch feed: status %d", resp.StatusCode)
	}

	return readBody(resp.Body, s.maxBytes)
}

// FileSource reads feeds from the local filesystem. The url is a file path.
type FileSource struct {
	MaxBytes int64
}

// Fetch reads the whole file at path.
func (s FileSource) Fetch(_ context.Context, path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feed file: %w", err)
	}
	defer f.Close()

	return readBody(f, s.MaxBytes)
}

func readBody(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes > 0 {
		r = io.LimitReader(r, maxBytes+1)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed body: %w", err)
	}
	if maxBytes > 0 && int64(len(body)) > maxBytes {
		return nil, ErrFeedTooLarge
	}
	if len(body) == 0 {
		return nil, ErrEmptyFeed
	}
	return body, nil
}
