package testutils

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/qkart-storefront/internal/config"
)

type RecordedRequest struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	Accept        string
	RequestID     string
	Body          string
}

// FakeBackend is an in-process QKart REST API. Routes use ServeMux patterns
// such as "GET /products"; every request is recorded before routing.
type FakeBackend struct {
	*httptest.Server

	mux      *http.ServeMux
	mu       sync.Mutex
	requests []RecordedRequest
}

func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	f := &FakeBackend{mux: http.NewServeMux()}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)

	return f
}

func (f *FakeBackend) Handle(pattern string, handler http.HandlerFunc) {
	f.mux.HandleFunc(pattern, handler)
}

func (f *FakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Query:         r.URL.RawQuery,
		Authorization: r.Header.Get("Authorization"),
		Accept:        r.Header.Get("Accept"),
		RequestID:     r.Header.Get("X-Request-ID"),
		Body:          string(body),
	})
	f.mu.Unlock()

	f.mux.ServeHTTP(w, r)
}

func (f *FakeBackend) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]RecordedRequest(nil), f.requests...)
}

// Count returns how many requests hit method and path.
func (f *FakeBackend) Count(method, path string) int {
	n := 0
	for _, r := range f.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}

	return n
}

// JSON answers with status and body encoded as JSON.
func JSON(status int, body any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

// Config returns a storefront config pointed at baseURL with a file session
// store inside a test temp dir.
func Config(t *testing.T, baseURL string) *config.Config {
	t.Helper()

	return &config.Config{
		Env:      "test",
		LogLevel: "debug",
		Backend: config.Backend{
			BaseURL: baseURL,
			Timeout: 2 * time.Second,
		},
		Search: config.Search{Debounce: 20 * time.Millisecond},
		Otel:   config.Otel{ServiceName: "qkart-storefront-test"},
		Session: config.Session{
			Store:     config.SessionStoreFile,
			Path:      t.TempDir() + "/session.json",
			Namespace: "test",
		},
	}
}
