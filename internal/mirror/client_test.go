package mirror

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/davoli/specchio/internal/errors"
)

func TestClientFetch(t *testing.T) {
	fixture, err := os.ReadFile("testdata/status.json")
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/mirrors/status/json/" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept header = %q, want application/json", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(fixture)
	}))
	defer server.Close()

	client := NewClient(server.URL+"/mirrors/status/json/", 5*time.Second, nil)

	status, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	if len(status.URLs) != 8 {
		t.Errorf("len(URLs) = %d, want 8", len(status.URLs))
	}
	if status.Version != 3 {
		t.Errorf("Version = %d, want 3", status.Version)
	}
}

func TestClientFetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nil)

	_, err := client.Fetch(context.Background())
	if err == nil {
		t.Fatal("Fetch() succeeded, want error")
	}

	var statusErr *errors.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error is %T, want *errors.StatusError", err)
	}
	if statusErr.HTTPStatus != http.StatusBadGateway {
		t.Errorf("HTTPStatus = %d, want %d", statusErr.HTTPStatus, http.StatusBadGateway)
	}
	if !errors.IsRetryable(err) {
		t.Error("IsRetryable() = false, want true for 5xx")
	}
	if !errors.Is(err, errors.ErrStatusUnavailable) {
		t.Error("Is(ErrStatusUnavailable) = false, want true")
	}
}

func TestClientFetchNonCanonical2xx(t *testing.T) {
	fixture, err := os.ReadFile("testdata/status.json")
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNonAuthoritativeInfo)
		_, _ = w.Write(fixture)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nil)

	// Proxies may rewrite 200 into another 2xx; the feed is still usable.
	status, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() with 203 response: %v", err)
	}
	if len(status.URLs) != 8 {
		t.Errorf("len(URLs) = %d, want 8", len(status.URLs))
	}
}

func TestClientFetchNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nil)

	_, err := client.Fetch(context.Background())
	if err == nil {
		t.Fatal("Fetch() succeeded, want error")
	}
	if errors.IsRetryable(err) {
		t.Error("IsRetryable() = true, want false for 404")
	}
}

func TestClientFetchInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nil)

	_, err := client.Fetch(context.Background())
	if err == nil {
		t.Fatal("Fetch() succeeded, want error")
	}

	var statusErr *errors.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error is %T, want *errors.StatusError", err)
	}
}

func TestClientFetchContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Fetch(ctx); err == nil {
		t.Fatal("Fetch() succeeded, want error")
	}
}

func TestClientFetchConnectionRefused(t *testing.T) {
	// Grab a port that nothing listens on.
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(url, 2*time.Second, nil)

	_, err := client.Fetch(context.Background())
	if err == nil {
		t.Fatal("Fetch() succeeded, want error")
	}
	if !errors.IsRetryable(err) {
		t.Error("IsRetryable() = false, want true for connection errors")
	}
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient("", 0, nil)

	if client.URL() != DefaultStatusURL {
		t.Errorf("URL() = %q, want %q", client.URL(), DefaultStatusURL)
	}
	if client.httpClient.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", client.httpClient.Timeout, DefaultTimeout)
	}
}
