package pointing

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the pipeline API root on the ops host.
	DefaultBaseURL = "http://localhost:8000"

	// listingPath is the pointing listing endpoint under the API root.
	listingPath = "/api/pointings"

	// DefaultTimeout for HTTP requests.
	DefaultTimeout = 30 * time.Second
)

// Fetcher retrieves pointing listings from the pipeline API.
type Fetcher struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithBaseURL sets the API root.
func WithBaseURL(url string) FetcherOption {
	return func(f *Fetcher) {
		f.baseURL = url
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = client
	}
}

// NewFetcher creates a pointing fetcher.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{
			Timeout: f.timeout,
		}
	}

	return f
}

// FetchResult contains the result of a fetch operation.
type FetchResult struct {
	Pointings []Pointing
	Dropped   int // records rejected at the parse boundary
	FetchedAt time.Time
	Duration  time.Duration
	Error     error
}

// Fetch retrieves and parses the pointing listing.
func (f *Fetcher) Fetch(ctx context.Context) FetchResult {
	start := time.Now()
	result := FetchResult{
		FetchedAt: start,
	}

	raw, err := f.fetchRaw(ctx)
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = err
		return result
	}

	pts, dropped, err := Parse(raw)
	if err != nil {
		result.Error = fmt.Errorf("parse pointings: %w", err)
		return result
	}
	result.Pointings = pts
	result.Dropped = dropped

	return result
}

func (f *Fetcher) fetchRaw(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+listingPath, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", "dsa110-skymap/1.0 (sky coverage viewer)")
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch pointings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return body, nil
}

// BaseURL returns the configured API root.
func (f *Fetcher) BaseURL() string {
	return f.baseURL
}
