package pointing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/pointings" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept header = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pointings": [
			{"id": "p1", "ra_deg": 180, "dec_deg": 45, "status": "completed"},
			{"id": "p2", "ra_deg": 90, "dec_deg": 30, "status": "scheduled"}
		]}`))
	}))
	defer srv.Close()

	f := NewFetcher(WithBaseURL(srv.URL))
	result := f.Fetch(context.Background())

	if result.Error != nil {
		t.Fatalf("Fetch() error: %v", result.Error)
	}
	if len(result.Pointings) != 2 {
		t.Fatalf("pointing count = %d, want 2", len(result.Pointings))
	}
	if result.Duration <= 0 {
		t.Error("Duration should be positive")
	}
}

func TestFetcher_Fetch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewFetcher(WithBaseURL(srv.URL))
	result := f.Fetch(context.Background())

	if result.Error == nil {
		t.Fatal("expected error for 500 response")
	}
	if len(result.Pointings) != 0 {
		t.Errorf("pointings should be empty on error")
	}
}

func TestFetcher_Fetch_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	f := NewFetcher(WithBaseURL(srv.URL))
	result := f.Fetch(context.Background())

	if result.Error == nil {
		t.Fatal("expected parse error")
	}
}

func TestFetcher_Fetch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFetcher(WithBaseURL(srv.URL))
	result := f.Fetch(ctx)

	if result.Error == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestNewFetcher_Defaults(t *testing.T) {
	f := NewFetcher()
	if f.BaseURL() != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", f.BaseURL(), DefaultBaseURL)
	}
}
