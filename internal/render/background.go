package render

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxRasterBytes bounds the background image size; all-sky maps served by
// the pipeline are well under this.
const maxRasterBytes = 8 << 20

// BackgroundLoader fetches the all-sky background raster. A failed or
// missing fetch degrades to no background; pointing rendering never waits
// on it.
type BackgroundLoader struct {
	client *http.Client
	url    string
}

// NewBackgroundLoader creates a loader for the given raster URL. An empty
// URL disables background loading.
func NewBackgroundLoader(url string, client *http.Client) *BackgroundLoader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &BackgroundLoader{client: client, url: url}
}

// Load fetches the raster synchronously.
func (l *BackgroundLoader) Load(ctx context.Context) (*Raster, error) {
	if l.url == "" {
		return nil, fmt.Errorf("no background URL configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch background: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRasterBytes))
	if err != nil {
		return nil, fmt.Errorf("read background: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty background response")
	}

	return &Raster{Data: data, MIME: resp.Header.Get("Content-Type")}, nil
}

// LoadAsync fetches the raster in the background, invoking exactly one of
// the continuations. Cancelling the context routes through onError, so a
// torn-down view never sees a late onLoad.
func (l *BackgroundLoader) LoadAsync(ctx context.Context, onLoad func(*Raster), onError func(error)) {
	go func() {
		r, err := l.Load(ctx)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		if onLoad != nil {
			onLoad(r)
		}
	}()
}
